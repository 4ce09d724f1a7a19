package parser

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/lexer"
)

// Parser is a recursive-descent parser over a token slice. A Parser is used
// for a single parse and is not safe for concurrent use.
type Parser struct {
	tokens    []lexer.Token
	pos       int
	loopDepth int
}

// New creates a parser over tokens. A missing trailing EOF is synthesized.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		eof := lexer.Token{Kind: lexer.EOF, Line: 1}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Column = last.Line, last.Column+len(last.Value)
		}
		tokens = append(append([]lexer.Token(nil), tokens...), eof)
	}
	return &Parser{tokens: tokens}
}

// ParseBlock parses a function body: a statement sequence that runs to EOF.
func ParseBlock(tokens []lexer.Token) (*ast.Block, error) {
	return New(tokens).ParseBody()
}

// ParseExpression parses exactly one expression.
func ParseExpression(tokens []lexer.Token) (ast.Expression, error) {
	p := New(tokens)
	p.skipLayout()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipLayout()
	if !p.check(lexer.EOF) {
		return nil, expectedError("end of expression", p.peek())
	}
	return expr, nil
}

// ParseArguments parses a comma-separated expression list that runs to EOF,
// such as the argument text of `Point(1, 2)` or `call: main(3)`.
func ParseArguments(tokens []lexer.Token) ([]ast.Expression, error) {
	p := New(tokens)
	p.skipLayout()
	var args []ast.Expression
	for !p.check(lexer.EOF) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipLayout()
		if !p.check(lexer.Comma) {
			break
		}
		p.advance()
		p.skipLayout()
	}
	if !p.check(lexer.EOF) {
		return nil, expectedError("',' or end of arguments", p.peek())
	}
	return args, nil
}

// ParseSource lexes and parses a standalone body.
func ParseSource(src string) (*ast.Block, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseBlock(tokens)
}

// ParseBody parses statements until EOF. INDENT/DEDENT at this level only
// reflect the body's layout inside its surrounding document.
func (p *Parser) ParseBody() (*ast.Block, error) {
	start := p.peek()
	var body []ast.Statement
	for {
		p.skipLayout()
		if p.check(lexer.EOF) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	block := ast.NewBlock(body)
	p.annotate(block, start)
	return block, nil
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkKeyword(word string) bool {
	return p.peek().Is(word)
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if !p.check(kind) {
		return lexer.Token{}, expectedError(kind.String(), p.peek())
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) (lexer.Token, error) {
	if !p.checkKeyword(word) {
		return lexer.Token{}, expectedError("'"+word+"'", p.peek())
	}
	return p.advance(), nil
}

// skipLayout drops INDENT, DEDENT and statement separators.
func (p *Parser) skipLayout() {
	for {
		switch p.peek().Kind {
		case lexer.Indent, lexer.Dedent, lexer.Semicolon:
			p.advance()
		default:
			return
		}
	}
}

func (p *Parser) skipSeparators() {
	for p.check(lexer.Semicolon) {
		p.advance()
	}
}

// annotate records a span from start to the end of the last consumed token.
func (p *Parser) annotate(node ast.Node, start lexer.Token) {
	end := p.previous()
	if p.pos == 0 {
		end = start
	}
	ast.SetSpan(node, ast.SpanBetween(start.Line, start.Column, end.Line, end.Column+len(end.Value)))
}

func (p *Parser) annotateFrom(node ast.Node, from ast.Node) {
	end := p.previous()
	span := from.Span()
	span.End = ast.Position{Line: end.Line, Column: end.Column + len(end.Value)}
	ast.SetSpan(node, span)
}
