package parser

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	if tok.Kind == lexer.Keyword {
		switch tok.Value {
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "try":
			return p.parseTryCatch()
		case "return":
			return p.parseReturn()
		case "break", "continue":
			return p.parseLoopJump()
		case "import":
			return p.parseImport()
		case "throw":
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt := ast.NewThrowStatement(value)
			p.annotate(stmt, tok)
			return stmt, nil
		default:
			return nil, errorAt(tok, "unexpected keyword '%s'", tok.Value)
		}
	}
	if tok.Kind == lexer.Identifier && tok.Value == "echo" && p.peekAt(1).Kind != lexer.Assign {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt := ast.NewEchoStatement(value)
		p.annotate(stmt, tok)
		return stmt, nil
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses an assignment, an increment or a bare expression.
func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.Assign) {
		assignTok := p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		var stmt ast.Statement
		switch target := expr.(type) {
		case *ast.Identifier:
			stmt = ast.NewAssignment(target.Name, value)
		case *ast.IndexExpression:
			stmt = ast.NewIndexAssignment(target, value)
		case *ast.MemberAccess:
			stmt = ast.NewAttributeAssignment(target, value)
		default:
			return nil, errorAt(assignTok, "invalid assignment target")
		}
		p.annotate(stmt, start)
		return stmt, nil
	}
	switch node := expr.(type) {
	case *ast.PostfixIncrement:
		stmt := ast.NewIncrementStatement(node.Target, false)
		p.annotate(stmt, start)
		return stmt, nil
	case *ast.UnaryExpression:
		if target, ok := node.Operand.(ast.AssignmentTarget); ok && node.Operator == "++" {
			stmt := ast.NewIncrementStatement(target, true)
			p.annotate(stmt, start)
			return stmt, nil
		}
	}
	return expr, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	kw := p.advance()
	next := p.peek()
	var value ast.Expression
	switch {
	case next.Line != kw.Line:
	case next.Kind == lexer.Semicolon, next.Kind == lexer.RBrace, next.Kind == lexer.EOF,
		next.Kind == lexer.Dedent, next.Kind == lexer.Indent:
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	stmt := ast.NewReturnStatement(value)
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseLoopJump() (ast.Statement, error) {
	kw := p.advance()
	if p.loopDepth == 0 {
		return nil, errorAt(kw, "'%s' outside loop", kw.Value)
	}
	var stmt ast.Statement
	if kw.Value == "break" {
		stmt = ast.NewBreakStatement()
	} else {
		stmt = ast.NewContinueStatement()
	}
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	alias := ""
	if p.checkKeyword("as") {
		p.advance()
		aliasTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		alias = aliasTok.Value
	}
	stmt := ast.NewImportStatement(name.Value, alias)
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	kw := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.checkKeyword("else") {
		elseTok := p.advance()
		if p.checkKeyword("if") {
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseBlock = ast.NewBlock([]ast.Statement{nested})
			p.annotate(elseBlock, elseTok)
		} else {
			elseBlock, err = p.parseHeaderBlock()
			if err != nil {
				return nil, err
			}
		}
	}
	stmt := ast.NewIfStatement(condition, then, elseBlock)
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	kw := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewWhileStatement(condition, body)
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var init ast.Statement
	if !p.check(lexer.Semicolon) {
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		init = stmt
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	var condition ast.Expression
	if !p.check(lexer.Semicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		condition = expr
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	var increment ast.Statement
	if !p.check(lexer.RParen) {
		stmt, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		increment = stmt
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewForStatement(init, condition, increment, body)
	p.annotate(stmt, kw)
	return stmt, nil
}

func (p *Parser) parseLoopBody() (*ast.Block, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseHeaderBlock()
}

func (p *Parser) parseTryCatch() (ast.Statement, error) {
	kw := p.advance()
	body, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("catch"); err != nil {
		return nil, err
	}
	parens := p.check(lexer.LParen)
	if parens {
		p.advance()
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if parens {
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}
	handler, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewTryCatchStatement(body, name.Value, handler)
	p.annotate(stmt, kw)
	return stmt, nil
}

// parseHeaderBlock parses the block after a control-flow header in one of three
// forms: braces, ':' followed by an inline statement or an indented block, or
// an indented block on its own.
func (p *Parser) parseHeaderBlock() (*ast.Block, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.LBrace:
		return p.parseBraceBlock()
	case lexer.Colon:
		p.advance()
		if p.check(lexer.Indent) {
			return p.parseIndentBlock()
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		p.skipSeparators()
		block := ast.NewBlock([]ast.Statement{stmt})
		p.annotate(block, tok)
		return block, nil
	case lexer.Indent:
		return p.parseIndentBlock()
	}
	return nil, expectedError("block", tok)
}

func (p *Parser) parseBraceBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for {
		p.skipLayout()
		if p.check(lexer.RBrace) {
			p.advance()
			break
		}
		if p.check(lexer.EOF) {
			return nil, expectedError("RBRACE", p.peek())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	block := ast.NewBlock(body)
	p.annotate(block, open)
	return block, nil
}

func (p *Parser) parseIndentBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.Indent)
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for {
		p.skipSeparators()
		if p.check(lexer.Dedent) {
			p.advance()
			break
		}
		if p.check(lexer.EOF) {
			break
		}
		if p.check(lexer.Indent) {
			nested, err := p.parseIndentBlock()
			if err != nil {
				return nil, err
			}
			body = append(body, nested.Body...)
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	block := ast.NewBlock(body)
	p.annotate(block, open)
	return block, nil
}
