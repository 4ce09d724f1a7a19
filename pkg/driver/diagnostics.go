package driver

import (
	"errors"
	"fmt"
	"strings"

	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota
	SeverityWarning
)

// DiagnosticLocation points at a position in a source document. Line is
// 1-based and Column is 0-based.
type DiagnosticLocation struct {
	Path   string
	Line   int
	Column int
}

// ParserDiagnostic describes a load-time failure.
type ParserDiagnostic struct {
	Severity DiagnosticSeverity
	Kind     runtime.ErrorKind
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticError carries a diagnostic through error returns.
type ParserDiagnosticError struct {
	Diagnostic ParserDiagnostic
	err        error
}

func (e *ParserDiagnosticError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return DescribeParserDiagnostic(e.Diagnostic)
}

func (e *ParserDiagnosticError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// DescribeParserDiagnostic renders "path:line:col Kind: message".
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	var b strings.Builder
	if diag.Severity == SeverityWarning {
		b.WriteString("warning: ")
	}
	if loc := formatLocation(diag.Location); loc != "" {
		b.WriteString(loc)
		b.WriteByte(' ')
	}
	kind := diag.Kind
	if kind == "" {
		kind = runtime.SyntaxError
	}
	fmt.Fprintf(&b, "%s: %s", kind, diag.Message)
	return b.String()
}

func formatLocation(loc DiagnosticLocation) string {
	switch {
	case loc.Path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Line, loc.Column)
	case loc.Path != "":
		return loc.Path
	case loc.Line > 0:
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return ""
}

func diagnosticf(kind runtime.ErrorKind, path string, line, column int, format string, args ...any) *ParserDiagnosticError {
	return &ParserDiagnosticError{
		Diagnostic: ParserDiagnostic{
			Severity: SeverityError,
			Kind:     kind,
			Message:  fmt.Sprintf(format, args...),
			Location: DiagnosticLocation{Path: path, Line: line, Column: column},
		},
	}
}

// wrapBodyError classifies lexer and parser failures from a function body.
func wrapBodyError(path string, err error) error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		diag := diagnosticf(runtime.LexError, path, lexErr.Line, lexErr.Column, "%s", lexErr.Error())
		diag.err = err
		return diag
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		diag := diagnosticf(runtime.SyntaxError, path, parseErr.Location.Line, parseErr.Location.Column, "%s", parseErr.Message)
		diag.err = err
		return diag
	}
	return err
}

// DiagnosticFromError extracts a load diagnostic from err, if it carries one.
func DiagnosticFromError(err error) (ParserDiagnostic, bool) {
	var diagErr *ParserDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostic, true
	}
	return ParserDiagnostic{}, false
}
