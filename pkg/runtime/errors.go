package runtime

import (
	"errors"
	"fmt"
)

// Contract violations the checker should have rejected, plus I/O failures.
// All of them halt the run; none are recovered.
var (
	ErrEmptyStack       = errors.New("there is no value on the stack")
	ErrType             = errors.New("unexpected variable kind")
	ErrConstraint       = errors.New("argument constraint violated")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrFunctionNotFound = errors.New("function not found")
	ErrArity            = errors.New("arity mismatch")
	ErrNoValue          = errors.New("expected a value")
	ErrUnclonable       = errors.New("value can not be cloned")
	ErrRender           = errors.New("value can not be printed")
	ErrLocal            = errors.New("unknown local variable")
	ErrIndex            = errors.New("no such field or index")
	ErrIO               = errors.New("i/o failure")
	ErrLoad             = errors.New("module failed to load")
	ErrFrame            = errors.New("call frame violated")
	ErrMaxDepth         = errors.New("maximum call depth exceeded")
)

// FatalError halts the evaluator. Kind is one of the sentinels above; Cause, when set,
// is the underlying error (for example the reader's or the loader's).
type FatalError struct {
	Op        string
	Kind      error
	Msg       string
	Cause     error
	Backtrace []Frame
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Msg)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *FatalError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// fatalf reports a contract violation in the currently executing operation.
func (rt *Runtime) fatalf(kind error, format string, args ...any) *FatalError {
	return &FatalError{
		Op:        rt.op(),
		Kind:      kind,
		Msg:       fmt.Sprintf(format, args...),
		Backtrace: rt.CallStack.Array(),
	}
}

// fatalCause is fatalf with an underlying error attached.
func (rt *Runtime) fatalCause(kind, cause error, format string, args ...any) *FatalError {
	e := rt.fatalf(kind, format, args...)
	e.Cause = cause
	return e
}
