package parser

import (
	"knums/pkg/ast"
	"knums/pkg/lexer"
)

// bindingPower maps an infix token to its operator and precedence tier.
// Tiers, low to high: + - (1), * (2), & | ^ (3), << >> (4).
func bindingPower(tt lexer.TokenType) (ast.BinaryOp, int, bool) {
	switch tt {
	case lexer.PLUS:
		return ast.Add, 1, true
	case lexer.MINUS:
		return ast.Sub, 1, true
	case lexer.STAR:
		return ast.Mul, 2, true
	case lexer.AND:
		return ast.And, 3, true
	case lexer.PIPE:
		return ast.Or, 3, true
	case lexer.CARET:
		return ast.Xor, 3, true
	case lexer.SHL_OP:
		return ast.Shl, 4, true
	case lexer.SHR_OP:
		return ast.Shr, 4, true
	}
	return 0, 0, false
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(0)
}

// parseBinary climbs precedence. Each tier t binds with left power 2t and
// right power 2t+1, which makes every operator left-associative.
func (p *Parser) parseBinary(minPower int) (ast.Expression, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		op, tier, ok := bindingPower(p.peek().Type)
		if !ok || tier*2 < minPower {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(tier*2 + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

// parseAtom handles parenthesised expressions, identifiers, literals and
// prefix operators. A prefix operator applies to the next atom only, so it
// binds tighter than any infix operator.
func (p *Parser) parseAtom() (ast.Expression, error) {
	tok := p.advance()
	switch tok.Type {
	case lexer.LPAREN:
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.IDENT:
		return &ast.Ident{Name: tok.Lexeme}, nil
	case lexer.INTLIT:
		return &ast.IntegerLiteral{Text: tok.Lexeme}, nil
	case lexer.UUID:
		lit, err := ast.ParseUUIDLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.errorf(tok, "%v", err)
		}
		return lit, nil
	case lexer.NOT, lexer.MINUS, lexer.PLUS:
		op := ast.Plus
		switch tok.Type {
		case lexer.NOT:
			op = ast.Not
		case lexer.MINUS:
			op = ast.Neg
		}
		operand, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return nil, p.unexpected(tok, "an expression")
}
