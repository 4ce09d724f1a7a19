package lexer

import (
	"errors"
	"testing"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []Token, want ...Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens %v, got %d: %v", len(want), want, len(got), got)
	}
	for i, tok := range got {
		if tok.Kind != want[i] {
			t.Fatalf("token %d: expected %s, got %s (all: %v)", i, want[i], tok.Kind, got)
		}
	}
}

func TestTokenizeIndentationLevels(t *testing.T) {
	src := "a\n    b\n        c\n    d\ne\n"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		Identifier, Indent, Identifier, Indent, Identifier, Dedent, Identifier, Dedent, Identifier, EOF)
}

func TestTokenizeDedentsAtEOF(t *testing.T) {
	tokens, err := Tokenize("a\n  b\n    c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Identifier, Indent, Identifier, Indent, Identifier, Dedent, Dedent, EOF)
}

func TestTokenizeSkipsBlankAndCommentLines(t *testing.T) {
	tokens, err := Tokenize("a\n\n      # note\n  \nb # trailing\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Identifier, Identifier, EOF)
}

func TestTokenizeRaggedDedent(t *testing.T) {
	_, err := Tokenize("a\n    b\n  c\n")
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected lexer error, got %v", err)
	}
	if lexErr.Line != 3 {
		t.Fatalf("expected error on line 3, got %d", lexErr.Line)
	}
}

func TestTokenizeTabsCountAsFourColumns(t *testing.T) {
	tokens, err := Tokenize("a\n\tb\n    c\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Identifier, Indent, Identifier, Identifier, Dedent, EOF)
}

func TestTokenizeOperatorsMaximalMunch(t *testing.T) {
	tokens, err := Tokenize("a == b != c <= d >= e && f || g => h++ = < > !")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		Identifier, Equal, Identifier, NotEqual, Identifier, LessEqual, Identifier, GreaterEqual,
		Identifier, And, Identifier, Or, Identifier, Arrow, Identifier, Increment, Assign, Less,
		Greater, Bang, EOF)
}

func TestTokenizeLiteralsAndKeywords(t *testing.T) {
	tokens, err := Tokenize(`if x return 42 3.14 "hi" true false null echo as`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		Keyword, Identifier, Keyword, Integer, Float, String, Boolean, Boolean, Null, Identifier, Keyword, EOF)
	if tokens[4].Value != "3.14" {
		t.Fatalf("expected float text 3.14, got %q", tokens[4].Value)
	}
	if !tokens[0].Is("if") || tokens[0].Is("else") {
		t.Fatalf("keyword matching broken for %v", tokens[0])
	}
}

func TestTokenizeIntegerFollowedByDot(t *testing.T) {
	tokens, err := Tokenize("1.x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Integer, Dot, Identifier, EOF)
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, err := Tokenize(`"a\nb\t\"q\"\\ \x"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\t\"q\"\\ \\x"
	if tokens[0].Value != want {
		t.Fatalf("expected %q, got %q", want, tokens[0].Value)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize("x = \"abc\ny = 1")
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected lexer error, got %v", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 4 {
		t.Fatalf("expected position 1:4, got %d:%d", lexErr.Line, lexErr.Column)
	}
}

func TestTokenizeRejectsLoneAmpersand(t *testing.T) {
	if _, err := Tokenize("a & b"); err == nil {
		t.Fatalf("expected error for single '&'")
	}
	if _, err := Tokenize("a @ b"); err == nil {
		t.Fatalf("expected error for '@'")
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("x = 1\n  y = 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y := tokens[4]
	if y.Kind != Identifier || y.Value != "y" || y.Line != 2 || y.Column != 2 {
		t.Fatalf("unexpected token %v at %d:%d", y, y.Line, y.Column)
	}
}

func TestTokenizeWithBasePosition(t *testing.T) {
	tokens, err := New(" return a + b ", Options{Line: 7, Column: 20}).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Keyword, Identifier, Plus, Identifier, EOF)
	if tokens[0].Line != 7 || tokens[0].Column != 21 {
		t.Fatalf("expected return at 7:21, got %d:%d", tokens[0].Line, tokens[0].Column)
	}

	tokens, err = New("\n    x = 1\n    y = 2\n", Options{Line: 3, Column: 14}).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, Indent, Identifier, Assign, Integer, Identifier, Assign, Integer, Dedent, EOF)
	if tokens[1].Line != 4 || tokens[1].Column != 4 {
		t.Fatalf("expected x at 4:4, got %d:%d", tokens[1].Line, tokens[1].Column)
	}
}

func TestKindNames(t *testing.T) {
	if got := kinds([]Token{{Kind: Indent}})[0].String(); got != "INDENT" {
		t.Fatalf("expected INDENT, got %s", got)
	}
}

func TestTokenizeLineBreaksInsideBrackets(t *testing.T) {
	src := "a\n  b = [\n1,\n      f(2,\n    3)]\n  c\nd\n"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens,
		Identifier, Indent,
		Identifier, Assign, LBracket, Integer, Comma, Identifier, LParen, Integer, Comma, Integer, RParen, RBracket,
		Identifier, Dedent, Identifier, EOF)
}

func TestTokenizeStrayClosersKeepLayout(t *testing.T) {
	tokens, err := Tokenize(")\n  a\nb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, tokens, RParen, Indent, Identifier, Dedent, Identifier, EOF)
}
