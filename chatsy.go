package chatsy

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Conventional Chunk.Meta keys. Providers are free to attach any keys; these are
// the ones chatsy itself reads.
const (
	MetaFinishReason = "finish_reason"
	MetaModel        = "model"
)

// Result kinds reported back to the model for failed tool calls. Empty string
// means success.
const (
	KindUnknownTool      = "unknown_tool"
	KindInvalidArguments = "invalid_arguments"
	KindExecutionError   = "execution_error"
)

// Tool is the contract for an LLM-callable instrument.
// It is provider-agnostic (no knowledge of OpenAI, Anthropic, etc.).
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map (compatible with LLM tool definitions).
	Parameters() map[string]any
	// Execute runs the tool with the raw JSON arguments and returns the JSON result.
	Execute(ctx context.Context, argsJSON []byte) (json.RawMessage, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool
// settings. Dispatcher uses Timeout() to override the default execution timeout when set.
// Other methods expose tags, version, and dangerous flag for orchestration or discovery.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	IsDangerous() bool
}

// Chunk is one fragment of a streamed model response. All fragments of the same
// logical response share ID. Meta typically carries the finish reason on the last
// content-bearing fragment; Usage arrives on a trailing fragment of its own.
type Chunk struct {
	ID      string
	Content string
	Meta    map[string]any
	Usage   *Usage
}

// FinishReason returns the MetaFinishReason value, or "" when unset.
func (c Chunk) FinishReason() string {
	s, _ := c.Meta[MetaFinishReason].(string)
	return s
}

// IsFinal reports whether the chunk carries a finish reason.
func (c Chunk) IsFinal() bool { return c.FinishReason() != "" }

// HasUsage reports whether the chunk carries a usage record.
func (c Chunk) HasUsage() bool { return c.Usage != nil }

// ToolCall is a single tool invocation request as produced by the model.
// It is consumed exactly once by Dispatch and never mutated.
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage // JSON payload of arguments
}

// ToolResult is the outcome of one ToolCall. CallID is copied verbatim from the
// call; downstream consumers match results to calls by CallID, never by position.
// Exactly one of Result and Error is meaningful: Result on success, Error otherwise.
type ToolResult struct {
	CallID   string
	ToolName string
	Result   json.RawMessage
	Error    error
}

// Failed reports whether the call produced an error instead of a result.
func (r ToolResult) Failed() bool { return r.Error != nil }

// Kind classifies the result for the conversation protocol: "" on success,
// otherwise one of KindUnknownTool, KindInvalidArguments, KindExecutionError.
func (r ToolResult) Kind() string {
	switch {
	case r.Error == nil:
		return ""
	case errors.Is(r.Error, ErrUnknownTool):
		return KindUnknownTool
	case IsInvalidArgs(r.Error):
		return KindInvalidArguments
	default:
		return KindExecutionError
	}
}

// Payload returns the JSON body to hand back to the model for this result.
// Failures are encoded as {"error": ..., "kind": ...} instead of propagated, so
// the conversation can continue with one response per call.
func (r ToolResult) Payload() json.RawMessage {
	if r.Error == nil {
		return r.Result
	}
	body, err := json.Marshal(map[string]string{
		"error": r.Error.Error(),
		"kind":  r.Kind(),
	})
	if err != nil {
		return json.RawMessage(`{"error":"tool call failed","kind":"` + KindExecutionError + `"}`)
	}
	return body
}

// IndexResults keys results by CallID. When the same CallID appears more than
// once the last result wins; well-formed batches have unique identifiers.
func IndexResults(results []ToolResult) map[string]ToolResult {
	out := make(map[string]ToolResult, len(results))
	for _, r := range results {
		out[r.CallID] = r
	}
	return out
}
