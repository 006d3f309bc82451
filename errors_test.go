package chatsy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidArgsError(t *testing.T) {
	tests := []struct {
		name   string
		err    *InvalidArgsError
		expect string
	}{
		{"with reason", &InvalidArgsError{Reason: "bad enum"}, "invalid tool arguments: bad enum"},
		{"empty reason", &InvalidArgsError{Reason: ""}, "invalid tool arguments: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func TestExecError(t *testing.T) {
	inner := errors.New("db connection refused")
	err := &ExecError{Err: inner}
	assert.Equal(t, "tool execution failed", err.Error())
	assert.Same(t, inner, err.Unwrap())
}

// wrapErr wraps another error for Unwrap-chain tests.
type wrapErr struct{ err error }

func (w wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapErr) Unwrap() error { return w.err }

func TestErrorsIs_As(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		is        bool
		asInvalid bool
		asExec    bool
	}{
		{"InvalidArgsError direct", &InvalidArgsError{Reason: "x"}, ErrValidation, false, true, false},
		{"InvalidArgsError with sentinel", &InvalidArgsError{Reason: "x", Err: ErrValidation}, ErrValidation, true, true, false},
		{"ExecError direct", &ExecError{Err: ErrTimeout}, ErrTimeout, true, false, true},
		{"wrapped InvalidArgsError", wrapErr{err: &InvalidArgsError{Reason: "y"}}, nil, false, true, false},
		{"wrapped ExecError", wrapErr{err: &ExecError{Err: ErrTimeout}}, ErrTimeout, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.target != nil {
				assert.Equal(t, tt.is, errors.Is(tt.err, tt.target), "errors.Is")
			}
			assert.Equal(t, tt.asInvalid, IsInvalidArgs(tt.err), "IsInvalidArgs")
			var ie *InvalidArgsError
			assert.Equal(t, tt.asInvalid, errors.As(tt.err, &ie))
			assert.Equal(t, tt.asExec, IsExecError(tt.err), "IsExecError")
			var ee *ExecError
			assert.Equal(t, tt.asExec, errors.As(tt.err, &ee))
		})
	}
}

func TestProtocolViolation(t *testing.T) {
	err := protocolViolation("fragment id %q does not match stream %q", "b", "a")
	assert.ErrorIs(t, err, ErrProtocolViolation)
	assert.Contains(t, err.Error(), `"b"`)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestWrapHandlerError(t *testing.T) {
	assert.NoError(t, wrapHandlerError(nil))

	invalid := &InvalidArgsError{Reason: "x"}
	assert.Same(t, error(invalid), wrapHandlerError(invalid))

	plain := fmt.Errorf("boom")
	wrapped := wrapHandlerError(plain)
	var ee *ExecError
	assert.ErrorAs(t, wrapped, &ee)
	assert.Same(t, plain, ee.Err)
}

func TestPanicError(t *testing.T) {
	err := &panicError{p: "oops"}
	assert.Equal(t, "panic: oops", err.Error())
}
