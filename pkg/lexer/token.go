package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Integer
	Float
	String
	Boolean
	Null
	Identifier
	Keyword

	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Less
	Greater
	Assign
	Increment
	Equal
	NotEqual
	LessEqual
	GreaterEqual
	And
	Or
	Arrow

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Colon

	Indent
	Dedent
)

var kindNames = map[Kind]string{
	EOF:          "EOF",
	Integer:      "INTEGER",
	Float:        "FLOAT",
	String:       "STRING",
	Boolean:      "BOOLEAN",
	Null:         "NULL",
	Identifier:   "IDENTIFIER",
	Keyword:      "KEYWORD",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Star:         "MUL",
	Slash:        "DIV",
	Percent:      "MOD",
	Bang:         "NOT",
	Less:         "LT",
	Greater:      "GT",
	Assign:       "ASSIGN",
	Increment:    "INCREMENT",
	Equal:        "EQ",
	NotEqual:     "NE",
	LessEqual:    "LE",
	GreaterEqual: "GE",
	And:          "AND",
	Or:           "OR",
	Arrow:        "ARROW",
	LParen:       "LPAREN",
	RParen:       "RPAREN",
	LBrace:       "LBRACE",
	RBrace:       "RBRACE",
	LBracket:     "LBRACKET",
	RBracket:     "RBRACKET",
	Semicolon:    "SEMICOLON",
	Comma:        "COMMA",
	Dot:          "DOT",
	Colon:        "COLON",
	Indent:       "INDENT",
	Dedent:       "DEDENT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]struct{}{
	"if":       {},
	"else":     {},
	"for":      {},
	"while":    {},
	"try":      {},
	"catch":    {},
	"return":   {},
	"break":    {},
	"continue": {},
	"import":   {},
	"as":       {},
	"throw":    {},
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Token is a single lexical unit. Line is 1-based, Column is 0-based.
type Token struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

// Is reports whether the token is a keyword with the given spelling.
func (t Token) Is(keyword string) bool {
	return t.Kind == Keyword && t.Value == keyword
}

func (t Token) String() string {
	switch t.Kind {
	case EOF, Indent, Dedent:
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

var twoCharOperators = map[string]Kind{
	"==": Equal,
	"!=": NotEqual,
	"<=": LessEqual,
	">=": GreaterEqual,
	"&&": And,
	"||": Or,
	"=>": Arrow,
	"++": Increment,
}

var singleCharTokens = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'!': Bang,
	'<': Less,
	'>': Greater,
	'=': Assign,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	';': Semicolon,
	',': Comma,
	'.': Dot,
	':': Colon,
}
