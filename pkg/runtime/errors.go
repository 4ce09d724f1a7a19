package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind names an error category in the HPL taxonomy.
type ErrorKind string

const (
	LexError               ErrorKind = "LexError"
	SyntaxError            ErrorKind = "SyntaxError"
	NameError              ErrorKind = "NameError"
	TypeError              ErrorKind = "TypeError"
	ArityError             ErrorKind = "ArityError"
	UserError              ErrorKind = "UserError"
	IndexError             ErrorKind = "IndexError"
	ZeroDivisionError      ErrorKind = "ZeroDivisionError"
	RecursionLimitExceeded ErrorKind = "RecursionLimitExceeded"
)

// Catchable reports whether a try/catch may intercept errors of this kind.
func (k ErrorKind) Catchable() bool {
	switch k {
	case RecursionLimitExceeded, LexError, SyntaxError:
		return false
	}
	return true
}

// Error is a classified runtime failure raised by the evaluator, a builtin or
// a module function. Position and call stack are attached by the evaluator.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNameError(format string, args ...any) *Error {
	return NewError(NameError, format, args...)
}

func NewTypeError(format string, args ...any) *Error {
	return NewError(TypeError, format, args...)
}

func NewArityError(name string, expected, got int) *Error {
	return NewError(ArityError, "%s expects %d argument%s, got %d", name, expected, plural(expected), got)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// KindOf classifies err. Errors that carry no kind are reported as TypeErrors,
// which is how plain Go errors from native module functions surface.
func KindOf(err error) ErrorKind {
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	return TypeError
}
