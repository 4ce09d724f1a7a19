package interpreter

import (
	"errors"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

// raise converts a thrown value into an error. Caught error values keep their
// kind when rethrown; anything else becomes a UserError.
func raise(value runtime.Value) error {
	if errVal, ok := value.(runtime.ErrorValue); ok {
		return &runtime.Error{Kind: errVal.ErrorKind, Message: errVal.Message}
	}
	return &runtime.Error{Kind: runtime.UserError, Message: runtime.Format(value)}
}

// errorKind classifies any error the evaluator can see, including load
// failures of imported source modules.
func errorKind(err error) runtime.ErrorKind {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	if diag, ok := driver.DiagnosticFromError(err); ok && diag.Kind != "" {
		return diag.Kind
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return runtime.LexError
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return runtime.SyntaxError
	}
	return runtime.TypeError
}

func errorMessage(err error) string {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return rtErr.Message
	}
	if diag, ok := driver.DiagnosticFromError(err); ok {
		return diag.Message
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}
	return err.Error()
}
