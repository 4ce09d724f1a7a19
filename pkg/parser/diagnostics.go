package parser

import (
	"fmt"

	"hpl/interpreter-go/pkg/lexer"
)

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus a best-effort source location. Incomplete
// is set when parsing ran out of tokens, which lets interactive callers ask
// for another line instead of reporting an error.
type ParseError struct {
	Message    string
	Location   SourceLocation
	Incomplete bool
}

func (e *ParseError) Error() string {
	return e.Message
}

func locationForToken(tok lexer.Token) SourceLocation {
	return SourceLocation{
		Line:      tok.Line,
		Column:    tok.Column,
		EndLine:   tok.Line,
		EndColumn: tok.Column + len(tok.Value),
	}
}

func describeToken(tok lexer.Token) string {
	if tok.Kind == lexer.EOF {
		return "end of input"
	}
	return tok.String()
}

func errorAt(tok lexer.Token, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	return &ParseError{
		Message:    fmt.Sprintf("%s at line %d, column %d", msg, tok.Line, tok.Column),
		Location:   locationForToken(tok),
		Incomplete: tok.Kind == lexer.EOF,
	}
}

func expectedError(what string, got lexer.Token) *ParseError {
	return errorAt(got, "expected %s, got %s", what, describeToken(got))
}
