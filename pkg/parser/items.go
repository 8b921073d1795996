package parser

import (
	"knums/pkg/ast"
	"knums/pkg/lexer"
)

// parseItem parses leading doc lines and one item.
func (p *Parser) parseItem() (ast.Item, error) {
	var item ast.Item
	for p.peek().Type == lexer.DOCSTRING {
		item.Doc = append(item.Doc, p.advance().Lexeme)
	}

	var (
		body ast.ItemBody
		err  error
	)
	switch tok := p.peek(); tok.Type {
	case lexer.CONST:
		body, err = p.parseConst()
	case lexer.USE:
		body, err = p.parseUse(false)
	case lexer.IDENT:
		if tok.Lexeme != "inline" {
			return item, p.unexpected(tok, "an item")
		}
		p.advance()
		body, err = p.parseUse(true)
	case lexer.TYPE:
		body, err = p.parseTypeAlias()
	case lexer.STRUCT, lexer.UNION:
		body, err = p.parseStruct()
	case lexer.FN:
		body, err = p.parseFnItem()
	case lexer.DIRECTIVE:
		p.advance()
		body = &ast.Directive{Name: tok.Lexeme}
	default:
		return item, p.unexpected(tok, "an item")
	}
	item.Body = body
	return item, err
}

// const NAME : Type = expr ;
func (p *Parser) parseConst() (ast.ItemBody, error) {
	p.advance() // const
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ConstItem{Name: name, Type: ty, Value: value}, nil
}

// [inline] use a::b::c ;
func (p *Parser) parseUse(inline bool) (ast.ItemBody, error) {
	if _, err := p.expect(lexer.USE); err != nil {
		return nil, err
	}
	use := &ast.UseItem{Inline: inline}
	if p.peek().Type == lexer.COLON_COLON {
		p.advance()
		use.Path.Leading = true
	}
	for {
		comp, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		use.Path.Components = append(use.Path.Components, comp)

		switch tok := p.advance(); tok.Type {
		case lexer.COLON_COLON:
			continue
		case lexer.SEMICOLON:
			return use, nil
		default:
			return nil, p.unexpected(tok, "`;` or `::`")
		}
	}
}

// type NAME = Type ;
func (p *Parser) parseTypeAlias() (ast.ItemBody, error) {
	p.advance() // type
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	def, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.TypeAlias{Name: name, Def: def}, nil
}

// fn NAME signature = sysno ;
func (p *Parser) parseFnItem() (ast.ItemBody, error) {
	p.advance() // fn
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	sysno, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.FnItem{Name: name, Sig: sig, Sysno: sysno}, nil
}

func (p *Parser) parseStruct() (ast.ItemBody, error) {
	s := &ast.StructItem{Kind: ast.Struct}
	if p.advance().Type == lexer.UNION {
		s.Kind = ast.Union
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	s.Name = name

	if p.peek().Type == lexer.LANGLE {
		p.advance()
		for p.peek().Type != lexer.RANGLE {
			g, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			s.Generics = append(s.Generics, g)
			if p.peek().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.RANGLE); err != nil {
			return nil, err
		}
	}

	opaque, err := p.parseProperties(s)
	if err != nil {
		return nil, err
	}
	if opaque {
		s.Body, err = p.parseOpaqueBody()
	} else {
		s.Body, err = p.parseFieldsBody()
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parseProperties consumes an optional `: prop, prop` list and the token
// that opens the body. It reports whether the body is opaque.
func (p *Parser) parseProperties(s *ast.StructItem) (opaque bool, err error) {
	tok := p.advance()
	switch {
	case tok.Type == lexer.LBRACE:
		return false, nil
	case tok.Type == lexer.IDENT && tok.Lexeme == "opaque":
		return true, nil
	case tok.Type != lexer.COLON:
		return false, p.unexpected(tok, "`:` or a struct body")
	}

	for {
		tok := p.advance()
		switch {
		case tok.Type == lexer.LBRACE:
			return false, nil
		case tok.Type == lexer.IDENT && tok.Lexeme == "opaque":
			return true, nil
		case tok.Type == lexer.IDENT && (tok.Lexeme == "align" || tok.Lexeme == "option" || tok.Lexeme == "option_body"):
			prop, err := p.parseProperty(tok.Lexeme)
			if err != nil {
				return false, err
			}
			s.Properties = append(s.Properties, prop)
		default:
			return false, p.unexpected(tok, "`align`, `option`, `option_body` or `opaque`")
		}

		switch next := p.peek(); {
		case next.Type == lexer.COMMA:
			p.advance()
		case next.Type == lexer.LBRACE, next.Type == lexer.IDENT && next.Lexeme == "opaque":
			// the loop consumes the body opener
		default:
			return false, p.unexpected(next, "`,` or a struct body")
		}
	}
}

// parseProperty parses the parenthesised argument list of a struct property.
func (p *Parser) parseProperty(name string) (ast.StructProperty, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if name != "option_body" || p.peek().Type != lexer.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	switch name {
	case "align":
		return &ast.AlignProp{Align: args[0]}, nil
	case "option":
		return &ast.OptionProp{ID: args[0]}, nil
	default:
		return &ast.OptionBodyProp{Pads: args}, nil
	}
}

// opaque ;  |  opaque ( Type ) ;
func (p *Parser) parseOpaqueBody() (ast.StructBody, error) {
	switch tok := p.advance(); tok.Type {
	case lexer.SEMICOLON:
		return &ast.OpaqueBody{}, nil
	case lexer.LPAREN:
		repr, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.OpaqueBody{Repr: repr}, nil
	default:
		return nil, p.unexpected(tok, "an opaque body")
	}
}

// parseFieldsBody parses the fields after the opening '{'. A pad or padto
// clause must be the last element.
func (p *Parser) parseFieldsBody() (ast.StructBody, error) {
	body := &ast.FieldsBody{}
	for {
		var doc []string
		for p.peek().Type == lexer.DOCSTRING {
			doc = append(doc, p.advance().Lexeme)
		}

		tok := p.advance()
		switch tok.Type {
		case lexer.RBRACE:
			return body, nil
		case lexer.IDENT:
		default:
			return nil, p.unexpected(tok, "a field name or `}`")
		}

		switch next := p.advance(); next.Type {
		case lexer.COLON:
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			body.Fields = append(body.Fields, ast.StructField{Name: tok.Lexeme, Doc: doc, Type: ty})
			switch sep := p.advance(); sep.Type {
			case lexer.COMMA:
			case lexer.RBRACE:
				return body, nil
			default:
				return nil, p.unexpected(sep, "`,` or `}`")
			}

		case lexer.LPAREN:
			switch tok.Lexeme {
			case "pad":
				ty, err := p.parseType()
				if err != nil {
					return nil, err
				}
				body.Padding = &ast.PadType{Type: ty}
			case "padto":
				size, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				body.Padding = &ast.PadTo{Size: size}
			default:
				return nil, p.errorf(tok, "expected `pad` or `padto`, got %q", tok.Lexeme)
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACE); err != nil {
				return nil, err
			}
			return body, nil

		default:
			return nil, p.unexpected(next, "a struct field")
		}
	}
}
