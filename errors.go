package chatsy

import (
	"errors"
	"fmt"
)

// Sentinel errors for chatsy. Use errors.Is to check.
var (
	ErrProtocolViolation = errors.New("protocol violation")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrValidation        = errors.New("validation failed")
	ErrTimeout           = errors.New("tool execution timeout")
	ErrShutdown          = errors.New("dispatcher is shutting down")
)

// InvalidArgsError reports that a tool call's arguments did not pass JSON
// parsing, schema validation, or custom validation. Its message is safe to send
// back to the model for self-correction; do not put internal details in Reason.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type InvalidArgsError struct {
	Reason string
	Err    error // wrapped sentinel for errors.Is/errors.As
}

func (e *InvalidArgsError) Error() string {
	return fmt.Sprintf("invalid tool arguments: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *InvalidArgsError) Unwrap() error { return e.Err }

// ExecError represents a failure inside a tool (handler error, panic, timeout).
// The model should not see the underlying error message or stack.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string {
	return "tool execution failed"
}

func (e *ExecError) Unwrap() error { return e.Err }

// IsInvalidArgs returns true if err is or wraps an InvalidArgsError.
func IsInvalidArgs(err error) bool {
	var ie *InvalidArgsError
	return errors.As(err, &ie)
}

// IsExecError returns true if err is or wraps an ExecError.
func IsExecError(err error) bool {
	var ee *ExecError
	return errors.As(err, &ee)
}

// protocolViolation builds an ErrProtocolViolation with detail, for errors.Is checks.
func protocolViolation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocolViolation, fmt.Sprintf(format, args...))
}

// wrapJSONParseError returns an InvalidArgsError for JSON unmarshal failures, so
// parse errors read the same on the typed and the raw-schema tool paths.
func wrapJSONParseError(err error) error {
	return &InvalidArgsError{Reason: "json parse error: " + err.Error()}
}

// wrapHandlerError passes through InvalidArgsError; wraps other errors as ExecError.
func wrapHandlerError(err error) error {
	if err == nil {
		return nil
	}
	if IsInvalidArgs(err) {
		return err
	}
	return &ExecError{Err: err}
}

// panicError wraps a recovered panic value for ExecError; used by Dispatcher and WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
