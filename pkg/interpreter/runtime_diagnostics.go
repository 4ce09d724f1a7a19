package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

// CallStackSeparator joins call stack entries for display.
const CallStackSeparator = " → "

type runtimeDiagnosticContext struct {
	location  driver.DiagnosticLocation
	callStack []string
}

type runtimeDiagnosticError struct {
	err     error
	context *runtimeDiagnosticContext
}

func (e runtimeDiagnosticError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e runtimeDiagnosticError) Unwrap() error {
	return e.err
}

// RuntimeDiagnostic is a classified failure with its position and the call
// stack (outermost first) at the raise point.
type RuntimeDiagnostic struct {
	Severity  driver.DiagnosticSeverity
	Kind      runtime.ErrorKind
	Message   string
	Location  driver.DiagnosticLocation
	CallStack []string
}

// BuildRuntimeDiagnostic classifies any error returned by loading or running
// a program.
func BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	diag := RuntimeDiagnostic{Severity: driver.SeverityError}
	if err == nil {
		return diag
	}
	if ctx := runtimeContextFromError(err); ctx != nil {
		diag.Location = ctx.location
		diag.CallStack = append([]string(nil), ctx.callStack...)
	}
	if parsed, ok := driver.DiagnosticFromError(err); ok {
		diag.Kind = parsed.Kind
		if diag.Kind == "" {
			diag.Kind = runtime.SyntaxError
		}
		diag.Message = parsed.Message
		diag.Location = parsed.Location
		return diag
	}
	diag.Kind = errorKind(err)
	diag.Message = errorMessage(err)
	if diag.Location.Line == 0 {
		var lexErr *lexer.Error
		var parseErr *parser.ParseError
		switch {
		case errors.As(err, &lexErr):
			diag.Location.Line, diag.Location.Column = lexErr.Line, lexErr.Column
		case errors.As(err, &parseErr):
			diag.Location.Line, diag.Location.Column = parseErr.Location.Line, parseErr.Location.Column
		}
	}
	return diag
}

// DescribeRuntimeDiagnostic renders "path:line:col Kind: message" followed by
// the call stack, if any.
func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	var b strings.Builder
	if diag.Severity == driver.SeverityWarning {
		b.WriteString("warning: ")
	}
	if location := formatRuntimeLocation(diag.Location); location != "" {
		b.WriteString(location)
		b.WriteByte(' ')
	}
	kind := diag.Kind
	if kind == "" {
		kind = runtime.TypeError
	}
	fmt.Fprintf(&b, "%s: %s", kind, diag.Message)
	if len(diag.CallStack) > 0 {
		fmt.Fprintf(&b, "\ncall stack: %s", strings.Join(diag.CallStack, CallStackSeparator))
	}
	return b.String()
}

// attachRuntimeContext records where err was raised. The innermost node with
// a position wins; later calls leave the context alone.
func (i *Interpreter) attachRuntimeContext(err error, node ast.Node) error {
	if err == nil || node == nil {
		return err
	}
	span := node.Span()
	if span.IsZero() {
		return err
	}
	return i.attachLocation(err, driver.DiagnosticLocation{
		Path:   i.currentPath(),
		Line:   span.Start.Line,
		Column: span.Start.Column,
	})
}

func (i *Interpreter) attachLocation(err error, location driver.DiagnosticLocation) error {
	if err == nil || runtimeContextFromError(err) != nil {
		return err
	}
	if _, ok := driver.DiagnosticFromError(err); ok {
		return err
	}
	return runtimeDiagnosticError{
		err: err,
		context: &runtimeDiagnosticContext{
			location:  location,
			callStack: i.snapshotCallStack(),
		},
	}
}

func runtimeContextFromError(err error) *runtimeDiagnosticContext {
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.context
	}
	return nil
}

func formatRuntimeLocation(loc driver.DiagnosticLocation) string {
	switch {
	case loc.Path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Line, loc.Column)
	case loc.Line > 0:
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	case loc.Path != "":
		return loc.Path
	}
	return ""
}
