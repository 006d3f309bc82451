package chatsy

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ObserveAndTotals(t *testing.T) {
	tr := NewTracker()
	rec := tr.Observe("gpt-4o", Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15})
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "gpt-4o", rec.Model)
	assert.False(t, rec.At.IsZero())

	tr.Observe("gpt-4o", Usage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2})
	tr.Observe("haiku", Usage{InputTokens: 3, TotalTokens: 3})

	assert.Equal(t, Usage{InputTokens: 11, OutputTokens: 6, TotalTokens: 17}, tr.ByModel("gpt-4o"))
	assert.Equal(t, Usage{InputTokens: 3, TotalTokens: 3}, tr.ByModel("haiku"))
	assert.Equal(t, Usage{InputTokens: 14, OutputTokens: 6, TotalTokens: 20}, tr.Total())
	assert.Equal(t, []string{"gpt-4o", "haiku"}, tr.Models())
	assert.Len(t, tr.Records(), 3)
}

func TestTracker_UnknownModel(t *testing.T) {
	tr := NewTracker()
	assert.True(t, tr.ByModel("never-used").IsZero())
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.Observe("m", Usage{InputTokens: 1, TotalTokens: 1})
	tr.Reset()
	assert.True(t, tr.Total().IsZero())
	assert.Empty(t, tr.Models())
	assert.Empty(t, tr.Records())
}

func TestTracker_ConcurrentObserve(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			tr.Observe("m", Usage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2})
		})
	}
	wg.Wait()
	assert.Equal(t, 100, tr.Total().TotalTokens)
	assert.Len(t, tr.Records(), 50)
}

func TestPriceTable_Cost(t *testing.T) {
	prices := PriceTable{
		"gpt-4o-mini": {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	}
	cost, ok := prices.Cost("gpt-4o-mini", Usage{InputTokens: 1_000_000, OutputTokens: 500_000})
	require.True(t, ok)
	assert.InDelta(t, 0.45, cost, 1e-9)

	_, ok = prices.Cost("unknown", Usage{InputTokens: 1})
	assert.False(t, ok)
}
