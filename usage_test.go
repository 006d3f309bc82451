package chatsy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage_Add(t *testing.T) {
	a := Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, Details: map[string]int{"cached": 3}}
	b := Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3, Details: map[string]int{"cached": 1, "reasoning": 4}}
	sum := a.Add(b)
	assert.Equal(t, 11, sum.InputTokens)
	assert.Equal(t, 7, sum.OutputTokens)
	assert.Equal(t, 18, sum.TotalTokens)
	assert.Equal(t, map[string]int{"cached": 4, "reasoning": 4}, sum.Details)
	// Operands are not mutated.
	assert.Equal(t, 3, a.Details["cached"])
	assert.Equal(t, 1, b.Details["cached"])
}

func TestUsage_Add_Commutative(t *testing.T) {
	a := Usage{InputTokens: 7, TotalTokens: 7}
	b := Usage{OutputTokens: 2, TotalTokens: 2}
	assert.Equal(t, a.Add(b), b.Add(a))
}

func TestUsage_IsZero(t *testing.T) {
	tests := []struct {
		name string
		u    Usage
		want bool
	}{
		{"zero", Usage{}, true},
		{"zero with empty details", Usage{Details: map[string]int{}}, true},
		{"zero-valued detail", Usage{Details: map[string]int{"cached": 0}}, true},
		{"input set", Usage{InputTokens: 1, TotalTokens: 1}, false},
		{"detail set", Usage{Details: map[string]int{"cached": 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.u.IsZero())
		})
	}
}

func TestParseUsage_OpenAISpelling(t *testing.T) {
	u, err := ParseUsage([]byte(`{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}`))
	require.NoError(t, err)
	assert.Equal(t, 12, u.InputTokens)
	assert.Equal(t, 4, u.OutputTokens)
	assert.Equal(t, 16, u.TotalTokens)
	assert.Nil(t, u.Details)
}

func TestParseUsage_AnthropicSpelling(t *testing.T) {
	u, err := ParseUsage([]byte(`{"input_tokens": 8, "output_tokens": 3}`))
	require.NoError(t, err)
	assert.Equal(t, 8, u.InputTokens)
	assert.Equal(t, 3, u.OutputTokens)
	// Missing total is filled with input+output.
	assert.Equal(t, 11, u.TotalTokens)
}

func TestParseUsage_FlattensNestedDetails(t *testing.T) {
	payload := []byte(`{
		"prompt_tokens": 100,
		"completion_tokens": 20,
		"total_tokens": 120,
		"completion_tokens_details": {"reasoning_tokens": 15, "audio_tokens": 0},
		"prompt_tokens_details": {"cached_tokens": 80},
		"model": "gpt-4o"
	}`)
	u, err := ParseUsage(payload)
	require.NoError(t, err)
	assert.Equal(t, 100, u.InputTokens)
	assert.Equal(t, map[string]int{
		"completion_tokens_details_reasoning_tokens": 15,
		"completion_tokens_details_audio_tokens":     0,
		"prompt_tokens_details_cached_tokens":        80,
	}, u.Details)
}

func TestParseUsage_TopLevelExtraCounter(t *testing.T) {
	u, err := ParseUsage([]byte(`{"input_tokens": 1, "output_tokens": 1, "cache_read_input_tokens": 9}`))
	require.NoError(t, err)
	assert.Equal(t, 9, u.Details["cache_read_input_tokens"])
}

func TestParseUsage_InvalidJSON(t *testing.T) {
	_, err := ParseUsage([]byte(`{broken`))
	require.Error(t, err)
	assert.True(t, IsInvalidArgs(err))
}
