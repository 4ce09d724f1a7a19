package lexer

import (
	"fmt"
	"strings"
)

// Error reports a lexical failure at a source position.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Options positions the first character of the input inside a larger document.
// A non-zero Column means the input starts mid-line, so its first line does not
// take part in indentation tracking.
type Options struct {
	Line   int
	Column int
}

const tabWidth = 4

// Lexer turns HPL statement source into tokens, synthesizing INDENT/DEDENT from
// leading whitespace.
type Lexer struct {
	src         string
	pos         int
	line        int
	column      int
	atLineStart bool
	indents     []int
	tokens      []Token
	// nesting counts open ( and [; line starts inside them are not layout.
	nesting int
}

// New creates a lexer for src.
func New(src string, opts Options) *Lexer {
	line := opts.Line
	if line <= 0 {
		line = 1
	}
	column := opts.Column
	if column < 0 {
		column = 0
	}
	return &Lexer{
		src:         src,
		line:        line,
		column:      column,
		atLineStart: column == 0,
		indents:     []int{0},
	}
}

// Tokenize lexes a standalone source string starting at line 1, column 0.
func Tokenize(src string) ([]Token, error) {
	return New(src, Options{}).Tokenize()
}

// Tokenize consumes the whole input. The result always ends with EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.src) {
		if l.atLineStart {
			if err := l.indentation(); err != nil {
				return nil, err
			}
			continue
		}
		ch := l.src[l.pos]
		switch {
		case ch == '\n':
			l.newline()
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case ch == '#':
			l.skipComment()
		case isDigit(ch):
			l.number()
		case isIdentStart(ch):
			l.identifier()
		case ch == '"':
			if err := l.str(); err != nil {
				return nil, err
			}
		default:
			if err := l.operator(); err != nil {
				return nil, err
			}
		}
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(Dedent, "", l.line, l.column)
	}
	l.emit(EOF, "", l.line, l.column)
	return l.tokens, nil
}

func (l *Lexer) emit(kind Kind, value string, line, column int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Value: value, Line: line, Column: column})
}

func (l *Lexer) advance() {
	l.pos++
	l.column++
}

func (l *Lexer) newline() {
	l.pos++
	l.line++
	l.column = 0
	l.atLineStart = l.nesting == 0
}

func (l *Lexer) errorf(line, column int, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}

// indentation measures the leading whitespace of the current line and emits
// INDENT/DEDENT against the indent stack. Blank and comment-only lines are
// skipped without touching the stack.
func (l *Lexer) indentation() error {
	width := 0
scan:
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			break scan
		}
		l.advance()
	}
	l.atLineStart = false
	if l.pos >= len(l.src) {
		return nil
	}
	switch l.src[l.pos] {
	case '\n', '\r', '#':
		return nil
	}
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(Indent, "", l.line, l.column)
	case width < top:
		if !l.hasLevel(width) {
			return l.errorf(l.line, l.column, "inconsistent dedent to width %d", width)
		}
		for l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(Dedent, "", l.line, l.column)
		}
	}
	return nil
}

func (l *Lexer) hasLevel(width int) bool {
	for _, level := range l.indents {
		if level == width {
			return true
		}
	}
	return false
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) number() {
	start, line, column := l.pos, l.line, l.column
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance()
	}
	kind := Integer
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		kind = Float
		l.advance()
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	l.emit(kind, l.src[start:l.pos], line, column)
}

func (l *Lexer) identifier() {
	start, line, column := l.pos, l.line, l.column
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.advance()
	}
	word := l.src[start:l.pos]
	switch {
	case word == "true" || word == "false":
		l.emit(Boolean, word, line, column)
	case word == "null":
		l.emit(Null, word, line, column)
	case IsKeyword(word):
		l.emit(Keyword, word, line, column)
	default:
		l.emit(Identifier, word, line, column)
	}
}

func (l *Lexer) str() error {
	line, column := l.line, l.column
	l.advance()
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return l.errorf(line, column, "unterminated string")
		}
		ch := l.src[l.pos]
		if ch == '"' {
			l.advance()
			break
		}
		if ch == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] != '\n' {
			l.advance()
			esc := l.src[l.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\', '"':
				sb.WriteByte(esc)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			l.advance()
			continue
		}
		sb.WriteByte(ch)
		l.advance()
	}
	l.emit(String, sb.String(), line, column)
	return nil
}

func (l *Lexer) operator() error {
	line, column := l.line, l.column
	if l.pos+1 < len(l.src) {
		pair := l.src[l.pos : l.pos+2]
		if kind, ok := twoCharOperators[pair]; ok {
			l.advance()
			l.advance()
			l.emit(kind, pair, line, column)
			return nil
		}
	}
	ch := l.src[l.pos]
	if kind, ok := singleCharTokens[ch]; ok {
		switch kind {
		case LParen, LBracket:
			l.nesting++
		case RParen, RBracket:
			if l.nesting > 0 {
				l.nesting--
			}
		}
		l.advance()
		l.emit(kind, string(ch), line, column)
		return nil
	}
	return l.errorf(line, column, "unexpected character %q", rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
