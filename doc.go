// Package chatsy connects an LLM chat stream to tool execution. It folds streamed
// response fragments into a single aggregate (content, metadata, token usage) and
// correlates tool-call results back to the calls that requested them.
//
// # Overview
//
// Streaming providers deliver one logical response as many fragments: content
// deltas first, a finish reason near the end, and usually a trailing fragment that
// carries only token usage. Accumulator folds those fragments back into one Chunk.
// Tool-calling providers emit batches of ToolCall requests and expect exactly one
// result per call, matched by the call identifier, even when a tool fails.
// Dispatcher executes a batch against registered tools and guarantees that
// one-result-per-call contract.
//
// Stream side: Chunk → Accumulator.Add → Response → Usage → Tracker / PriceTable.
// Tool side: ToolCall → Dispatcher.Dispatch → ToolResult (keyed by CallID).
//
// # Key concepts
//
//   - Correlation by identifier: a ToolResult carries the CallID of its ToolCall
//     verbatim; consumers must never rely on positional order.
//   - Partial success: Dispatch records failures (unknown tool, bad arguments,
//     execution error) as results, so one bad call never starves its siblings.
//   - Absence vs zero: an aggregate with no usage-bearing fragment has a nil
//     Usage, distinct from a Usage with all-zero counts.
//
// See Chunk, Accumulator, ToolCall, ToolResult for the core types, and
// NewTool / NewDispatcher for setup.
//
// # Example
//
//	type Args struct { A, B int }
//	mul, err := chatsy.NewTool("multiply", "Multiply two numbers",
//	    func(_ context.Context, a Args) (int, error) { return a.A * a.B, nil })
//	if err != nil { ... }
//	d := chatsy.NewDispatcher()
//	d.Register(mul)
//	results := d.Dispatch(ctx, []chatsy.ToolCall{
//	    {ID: "c1", ToolName: "multiply", Args: []byte(`{"A":3,"B":12}`)},
//	})
package chatsy
