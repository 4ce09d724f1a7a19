package parser

import (
	"strconv"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/lexer"
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

// parseBinaryLevel parses a left-associative chain of operators drawn from kinds,
// with operands produced by next.
func (p *Parser) parseBinaryLevel(next func() (ast.Expression, error), kinds ...lexer.Kind) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.checkAny(kinds...) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr := ast.NewBinaryExpression(op.Value, left, right)
		p.annotateFrom(expr, left)
		left = expr
	}
	return left, nil
}

func (p *Parser) checkAny(kinds ...lexer.Kind) bool {
	current := p.peek().Kind
	for _, kind := range kinds {
		if current == kind {
			return true
		}
	}
	return false
}

func (p *Parser) parseOr() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseAnd, lexer.Or)
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseEquality, lexer.And)
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseComparison, lexer.Equal, lexer.NotEqual)
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseAdditive, lexer.Less, lexer.LessEqual, lexer.Greater, lexer.GreaterEqual)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, lexer.Plus, lexer.Minus)
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, lexer.Star, lexer.Slash, lexer.Percent)
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Bang, lexer.Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(tok.Value, operand)
		p.annotate(expr, tok)
		return expr, nil
	case lexer.Increment:
		p.advance()
		operand, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		if _, ok := operand.(ast.AssignmentTarget); !ok {
			return nil, errorAt(tok, "invalid increment target")
		}
		expr := ast.NewUnaryExpression(tok.Value, operand)
		p.annotate(expr, tok)
		return expr, nil
	}
	return p.parsePostfix()
}

// parsePostfix applies index, increment and member suffixes. A suffix must
// start on the same line as the token before it, so a new statement that
// begins with '(' or '[' is never glued onto the previous line.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Line != p.previous().Line {
			return expr, nil
		}
		switch tok.Kind {
		case lexer.LBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			next := ast.NewIndexExpression(expr, index)
			p.annotateFrom(next, expr)
			expr = next
		case lexer.Increment:
			target, ok := expr.(ast.AssignmentTarget)
			if !ok {
				return nil, errorAt(tok, "invalid increment target")
			}
			p.advance()
			next := ast.NewPostfixIncrement(target)
			p.annotateFrom(next, expr)
			expr = next
		case lexer.Dot:
			p.advance()
			name, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			if p.check(lexer.LParen) && p.peek().Line == name.Line {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				next := ast.NewMethodCall(expr, name.Value, args)
				p.annotateFrom(next, expr)
				expr = next
				continue
			}
			next := ast.NewMemberAccess(expr, name.Value)
			p.annotateFrom(next, expr)
			expr = next
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	var expr ast.Expression
	switch tok.Kind {
	case lexer.Integer:
		p.advance()
		value, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, errorAt(tok, "integer literal %s out of range", tok.Value)
		}
		expr = ast.NewIntegerLiteral(value)
	case lexer.Float:
		p.advance()
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, errorAt(tok, "invalid float literal %s", tok.Value)
		}
		expr = ast.NewFloatLiteral(value)
	case lexer.String:
		p.advance()
		expr = ast.NewStringLiteral(tok.Value)
	case lexer.Boolean:
		p.advance()
		expr = ast.NewBooleanLiteral(tok.Value == "true")
	case lexer.Null:
		p.advance()
		expr = ast.NewNullLiteral()
	case lexer.Identifier:
		p.advance()
		if p.check(lexer.LParen) && p.peek().Line == tok.Line {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = ast.NewFunctionCall(tok.Value, args)
			break
		}
		expr = ast.NewIdentifier(tok.Value)
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBracket:
		return p.parseArrayLiteral()
	default:
		return nil, expectedError("expression", tok)
	}
	p.annotate(expr, tok)
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	start, err := p.expect(lexer.LBracket)
	if err != nil {
		return nil, err
	}
	elements, err := p.parseList(lexer.RBracket)
	if err != nil {
		return nil, err
	}
	expr := ast.NewArrayLiteral(elements)
	p.annotate(expr, start)
	return expr, nil
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	return p.parseList(lexer.RParen)
}

// parseList parses comma separated expressions up to and including closer.
// A trailing comma is accepted.
func (p *Parser) parseList(closer lexer.Kind) ([]ast.Expression, error) {
	items := make([]ast.Expression, 0)
	for {
		if p.check(closer) {
			p.advance()
			return items, nil
		}
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.check(lexer.Comma) {
			p.advance()
			continue
		}
		if _, err := p.expect(closer); err != nil {
			return nil, err
		}
		return items, nil
	}
}
