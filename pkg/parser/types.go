package parser

import (
	"knums/pkg/ast"
	"knums/pkg/lexer"
)

var intWidths = map[string]ast.IntWidth{
	"8":    ast.W8,
	"16":   ast.W16,
	"32":   ast.W32,
	"64":   ast.W64,
	"long": ast.WLong,
}

// typeFromIdent maps a bare identifier to a type: void, char, the
// [iu](8|16|32|64|long) integers, or a named type.
func typeFromIdent(id string) ast.Type {
	switch id {
	case "void":
		return ast.VoidType{}
	case "char":
		return ast.CharType{}
	}
	if len(id) > 1 && (id[0] == 'i' || id[0] == 'u') {
		if w, ok := intWidths[id[1:]]; ok {
			return &ast.IntType{Signed: id[0] == 'i', Width: w}
		}
	}
	return &ast.NamedType{Name: id}
}

// namedSuffix parses the optional generic argument list after a named type.
func (p *Parser) namedSuffix(ty ast.Type) (ast.Type, error) {
	named, ok := ty.(*ast.NamedType)
	if !ok || p.peek().Type != lexer.LANGLE {
		return ty, nil
	}
	p.advance()
	args := &ast.GenericArgs{}
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, arg)
		if p.peek().Type != lexer.COMMA {
			break
		}
		p.advance()
	}
	if err := p.closeAngle(); err != nil {
		return nil, err
	}
	named.Suffix = args
	return named, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	tok := p.advance()
	switch tok.Type {
	case lexer.IDENT:
		return p.namedSuffix(typeFromIdent(tok.Lexeme))

	case lexer.LBRACKET:
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		n, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ArrayType{Elem: elem, Len: n}, nil

	case lexer.FN:
		sig, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		return &ast.FnType{Sig: sig}, nil

	case lexer.STAR:
		var kind ast.PointerKind
		switch k := p.advance(); k.Type {
		case lexer.CONST:
			kind = ast.Const
		case lexer.MUT:
			kind = ast.Mut
		case lexer.HANDLE:
			kind = ast.Handle
		case lexer.SHARED_HANDLE:
			kind = ast.SharedHandle
		default:
			return nil, p.unexpected(k, "one of `const`, `mut`, `handle`, or `shared_handle`")
		}
		pointee, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.PointerType{Kind: kind, Pointee: pointee}, nil

	case lexer.NOT:
		return ast.NeverType{}, nil
	}
	return nil, p.unexpected(tok, "a type")
}

// parseSignature parses `(params) -> ret`. A parameter written as a bare
// identifier is its type, not its name.
func (p *Parser) parseSignature() (ast.FnSignature, error) {
	var sig ast.FnSignature
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return sig, err
	}
	for p.peek().Type != lexer.RPAREN {
		var param ast.FnParam
		if tok := p.peek(); tok.Type == lexer.IDENT {
			p.advance()
			if p.peek().Type == lexer.COLON {
				p.advance()
				ty, err := p.parseType()
				if err != nil {
					return sig, err
				}
				param = ast.FnParam{Name: tok.Lexeme, Type: ty}
			} else {
				ty, err := p.namedSuffix(typeFromIdent(tok.Lexeme))
				if err != nil {
					return sig, err
				}
				param = ast.FnParam{Type: ty}
			}
		} else {
			ty, err := p.parseType()
			if err != nil {
				return sig, err
			}
			param = ast.FnParam{Type: ty}
		}
		sig.Params = append(sig.Params, param)

		if tok := p.peek(); tok.Type != lexer.COMMA {
			if tok.Type != lexer.RPAREN {
				return sig, p.unexpected(tok, "`,` or `)`")
			}
			break
		}
		p.advance()
	}
	p.advance() // )

	if _, err := p.expect(lexer.ARROW); err != nil {
		return sig, err
	}
	ret, err := p.parseType()
	if err != nil {
		return sig, err
	}
	sig.Return = ret
	return sig, nil
}
