package chatsy

import (
	"encoding/json"
	"strconv"
)

// Usage counts the tokens consumed by one model response. Details carries
// provider-specific nested counters (reasoning tokens, cache reads, ...)
// flattened to underscore-joined key paths; chatsy never interprets them.
type Usage struct {
	InputTokens  int            `json:"input_tokens"`
	OutputTokens int            `json:"output_tokens"`
	TotalTokens  int            `json:"total_tokens"`
	Details      map[string]int `json:"details,omitempty"`
}

// Add returns the elementwise sum of u and other. Details maps are merged
// key-by-key; neither receiver nor argument is mutated.
func (u Usage) Add(other Usage) Usage {
	sum := Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
	if len(u.Details) > 0 || len(other.Details) > 0 {
		sum.Details = make(map[string]int, len(u.Details)+len(other.Details))
		for k, v := range u.Details {
			sum.Details[k] = v
		}
		for k, v := range other.Details {
			sum.Details[k] += v
		}
	}
	return sum
}

// IsZero reports whether every counter, including details, is zero.
func (u Usage) IsZero() bool {
	if u.InputTokens != 0 || u.OutputTokens != 0 || u.TotalTokens != 0 {
		return false
	}
	for _, v := range u.Details {
		if v != 0 {
			return false
		}
	}
	return true
}

// Top-level usage field spellings across providers. Anything else numeric in the
// payload is preserved in Details.
var usageFieldAliases = map[string]string{
	"input_tokens":      "input",
	"prompt_tokens":     "input",
	"output_tokens":     "output",
	"completion_tokens": "output",
	"total_tokens":      "total",
}

// ParseUsage normalizes a provider usage payload into a Usage. Both the
// input/output and the prompt/completion spellings are accepted. Nested numeric
// objects (e.g. completion_tokens_details) are flattened into Details with
// underscore-joined keys. A missing total is filled with input+output.
func ParseUsage(data []byte) (*Usage, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, wrapJSONParseError(err)
	}
	u := &Usage{}
	for key, val := range raw {
		switch usageFieldAliases[key] {
		case "input":
			u.InputTokens = intFromAny(val)
		case "output":
			u.OutputTokens = intFromAny(val)
		case "total":
			u.TotalTokens = intFromAny(val)
		default:
			if u.Details == nil {
				u.Details = make(map[string]int)
			}
			flattenCounters(key, val, u.Details)
			if len(u.Details) == 0 {
				u.Details = nil
			}
		}
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.InputTokens + u.OutputTokens
	}
	return u, nil
}

// flattenCounters walks val and records every numeric leaf under an
// underscore-joined key path rooted at prefix. Non-numeric leaves are dropped.
// List elements are keyed by index, matching the path scheme for objects.
func flattenCounters(prefix string, val any, out map[string]int) {
	switch v := val.(type) {
	case map[string]any:
		for k, inner := range v {
			flattenCounters(prefix+"_"+k, inner, out)
		}
	case []any:
		for i, inner := range v {
			flattenCounters(prefix+"_"+strconv.Itoa(i), inner, out)
		}
	case float64:
		out[prefix] = int(v)
	case int:
		out[prefix] = v
	}
}

// intFromAny converts a decoded JSON number to int; non-numbers yield 0.
func intFromAny(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
