package chatsy

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one tracked usage observation, suitable for audit logs or
// cost accounting.
type Record struct {
	ID    uuid.UUID
	Model string
	Usage Usage
	At    time.Time
}

// Tracker accumulates usage per model across a session. Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	byModel map[string]Usage
	total   Usage
	records []Record
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byModel: make(map[string]Usage),
	}
}

// Observe records one usage observation for a model and returns the stored Record.
func (t *Tracker) Observe(model string, u Usage) Record {
	rec := Record{
		ID:    uuid.New(),
		Model: model,
		Usage: u,
		At:    time.Now(),
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byModel[model] = t.byModel[model].Add(u)
	t.total = t.total.Add(u)
	t.records = append(t.records, rec)
	return rec
}

// Total returns the aggregate usage across all models.
func (t *Tracker) Total() Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// ByModel returns the accumulated usage for one model.
// Returns a zero Usage for models never observed.
func (t *Tracker) ByModel(model string) Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byModel[model]
}

// Models returns the tracked model names, sorted for deterministic order.
func (t *Tracker) Models() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	models := make([]string, 0, len(t.byModel))
	for model := range t.byModel {
		models = append(models, model)
	}
	slices.Sort(models)
	return models
}

// Records returns a copy of all observations in insertion order.
func (t *Tracker) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.records)
}

// Reset clears all tracked usage and records.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byModel = make(map[string]Usage)
	t.total = Usage{}
	t.records = nil
}

// Price is the cost of one million input and output tokens for a model.
type Price struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// PriceTable maps model names to prices for cost accounting.
type PriceTable map[string]Price

// Cost computes the currency cost of u for the given model. The second return
// value is false when the model has no price entry.
func (p PriceTable) Cost(model string, u Usage) (float64, bool) {
	price, ok := p[model]
	if !ok {
		return 0, false
	}
	cost := float64(u.InputTokens)*price.InputPerMTok/1e6 +
		float64(u.OutputTokens)*price.OutputPerMTok/1e6
	return cost, true
}
