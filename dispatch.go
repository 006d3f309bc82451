package chatsy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Dispatcher holds tools and executes tool-call batches with timeout, semaphore,
// and optional panic recovery. Every dispatched call yields exactly one
// ToolResult, correlated by CallID; failures are recorded in the result, never
// propagated across the batch.
type Dispatcher struct {
	tools       map[string]Tool // wrapped with middlewares, used by Execute
	rawTools    map[string]Tool // unwrapped, used by Use() to re-apply middlewares from scratch
	sem         chan struct{}
	opts        dispatcherOptions
	done        chan struct{}
	running     sync.WaitGroup
	mu          sync.Mutex
	middlewares []Middleware
}

// NewDispatcher creates a Dispatcher with the given options.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	o := dispatcherOptions{
		timeout:        5 * time.Second,
		maxConcurrency: 10,
		recoverPanics:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Dispatcher{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
		sem:      sem,
		opts:     o,
		done:     make(chan struct{}),
	}
}

// Register adds a tool. Stored middlewares (see Use) are applied to the tool before registration.
// If a tool with the same name already exists, it is replaced. Safe for concurrent use with
// Dispatch and other Register calls.
func (d *Dispatcher) Register(t Tool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := t.Name()
	d.rawTools[name] = t
	for i := len(d.middlewares) - 1; i >= 0; i-- {
		t = d.middlewares[i](t)
	}
	d.tools[name] = t
}

// GetAllTools returns all registered tools (e.g. for exporting to LLM providers), sorted by name for deterministic order.
func (d *Dispatcher) GetAllTools() []Tool {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, d.tools[name])
	}
	return out
}

// GetTool returns the tool with the given name (after middlewares are applied), or (nil, false) if not found.
func (d *Dispatcher) GetTool(name string) (Tool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tools[name]
	return t, ok
}

// Execute runs one tool call and returns its correlated result. The result's
// Error classifies the failure (ErrUnknownTool sentinel, InvalidArgsError,
// ExecError); Execute itself never returns an unclassified error in the result.
// The after-execution hook (WithOnAfterExecute) is always invoked via defer.
func (d *Dispatcher) Execute(ctx context.Context, call ToolCall) (res ToolResult) {
	res = ToolResult{CallID: call.ID, ToolName: call.ToolName}

	d.mu.Lock()
	select {
	case <-d.done:
		d.mu.Unlock()
		res.Error = ErrShutdown
		return res
	default:
	}
	tool, ok := d.tools[call.ToolName]
	if !ok {
		d.mu.Unlock()
		res.Error = fmt.Errorf("%w: %q", ErrUnknownTool, call.ToolName)
		return res
	}
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()

	if err := d.acquireSemaphore(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		res.Error = &ExecError{Err: err}
		return res
	}
	defer d.releaseSemaphore()

	timeout := d.opts.timeout
	if tm, ok := tool.(ToolMetadata); ok && tm.Timeout() > 0 {
		timeout = tm.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	// Ensure the after-execution hook always sees the final result (success, error,
	// or recovered panic). Recover defer is registered after onAfter so it runs
	// first on panic and fills res.Error before the hook reads it.
	defer func() {
		if d.opts.onAfter != nil {
			d.opts.onAfter(ctx, call, res, time.Since(start))
		}
	}()
	if d.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				res.Result = nil
				res.Error = &ExecError{Err: &panicError{p: p}}
			}
		}()
	}

	if d.opts.onBefore != nil {
		d.opts.onBefore(ctx, call)
	}

	out, err := tool.Execute(ctx, call.Args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &ExecError{Err: ErrTimeout}
		}
		res.Error = wrapHandlerError(err)
		return res
	}
	res.Result = out
	return res
}

// Dispatch runs all calls and returns exactly one result per call, in input
// order. Calls run concurrently, bounded by the dispatcher semaphore; Dispatch
// waits for every call to finish or record its failure before returning (no
// partial results, no silent drops). Correlate by CallID, not by position.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []ToolCall) []ToolResult {
	if len(calls) == 0 {
		return nil
	}
	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Go(func() {
			results[i] = d.Execute(ctx, call)
		})
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) acquireSemaphore(ctx context.Context) error {
	if d.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case d.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) releaseSemaphore() {
	if d.sem != nil {
		<-d.sem
	}
}

// Shutdown closes the dispatcher for new calls and waits for in-flight executions or ctx to cancel.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	select {
	case <-d.done:
		d.mu.Unlock()
		return nil
	default:
		close(d.done)
	}
	d.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
