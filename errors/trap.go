package errors

import (
	stderrors "errors"
	"fmt"
)

// Trap is a fatal fault. It aborts the whole guest invocation and is never
// handed back to guest code as a value.
type Trap struct {
	Cause  error
	Kind   Kind
	Detail string
}

func (t *Trap) Error() string {
	msg := "trap: " + string(t.Kind)
	if t.Detail != "" {
		msg += ": " + t.Detail
	}
	if t.Cause != nil {
		msg += " (caused by: " + t.Cause.Error() + ")"
	}
	return msg
}

// Unwrap returns the underlying error
func (t *Trap) Unwrap() error {
	return t.Cause
}

// Abort raises a trap of the given kind. It does not return.
func Abort(kind Kind, format string, args ...any) {
	panic(&Trap{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// Throw raises err as a trap, keeping the kind of a structured *Error.
func Throw(err error) {
	if err == nil {
		return
	}
	var t *Trap
	if stderrors.As(err, &t) {
		panic(t)
	}
	kind := KindInvalidData
	var e *Error
	if stderrors.As(err, &e) {
		kind = e.Kind
	}
	panic(&Trap{Kind: kind, Cause: err})
}

// Recover stops an in-flight trap and stores it in *errp. It must be
// deferred directly. Panics that are not traps keep unwinding.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if t, ok := r.(*Trap); ok {
		*errp = t
		return
	}
	panic(r)
}

// IsTrap reports whether err carries a trap.
func IsTrap(err error) bool {
	var t *Trap
	return stderrors.As(err, &t)
}
