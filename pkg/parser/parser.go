// Package parser builds an ast.File from the lexer's token stream.
package parser

import (
	"fmt"
	"slices"

	"knums/pkg/ast"
	"knums/pkg/lexer"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
// It looks one token ahead, never backtracks, and stops at the first error.
//
// Grammar:
//
//	file       = INNERDOC* item* EOF
//	item       = DOCSTRING* ( const | use | typeAlias | struct | fn | DIRECTIVE )
//	const      = "const" IDENT ":" type "=" expr ";"
//	use        = ["inline"] "use" ["::"] IDENT ("::" IDENT)* ";"
//	typeAlias  = "type" IDENT "=" type ";"
//	struct     = ("struct" | "union") IDENT ["<" IDENT ("," IDENT)* ">"]
//	             [":" property ("," property)*] (opaqueBody | fieldBody)
//	property   = "align" "(" expr ")" | "option" "(" expr ")"
//	           | "option_body" "(" expr ("," expr)* ")"
//	opaqueBody = "opaque" ( ";" | "(" type ")" ";" )
//	fieldBody  = "{" (DOCSTRING* IDENT ":" type ",")* [padding] "}"
//	padding    = "pad" "(" type ")" | "padto" "(" expr ")"
//	fn         = "fn" IDENT signature "=" expr ";"
//	signature  = "(" [param ("," param)*] ")" "->" type
//	param      = IDENT ":" type | type
//	type       = IDENT ["<" type ("," type)* ">"] | "[" type ";" expr "]"
//	           | "fn" signature | "*" ptrKind type | "!"
//	ptrKind    = "const" | "mut" | "handle" | "shared_handle"
//	expr       = atom (binop atom)*       precedence climbing, see bindingPower
//	atom       = "(" expr ")" | IDENT | INTLIT | UUID | ("!" | "-" | "+") atom
type Parser struct {
	tokens []lexer.Token
	pos    int
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: slices.Clone(tokens)}
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &lexer.SyntaxError{Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) unexpected(tok lexer.Token, want string) error {
	if tok.Type == lexer.EOF {
		return p.errorf(tok, "expected %s, got end of input", want)
	}
	return p.errorf(tok, "expected %s, got %s (%q)", want, tok.Type, tok.Lexeme)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		line := 0
		if n := len(p.tokens); n > 0 {
			line = p.tokens[n-1].Line
		}
		return lexer.Token{Type: lexer.EOF, Line: line}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.unexpected(tok, tt.String())
	}
	return tok, nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.expect(lexer.IDENT)
	return tok.Lexeme, err
}

// closeAngle consumes a '>' that ends a generic list. A '>>' is split so
// that nested lists like A<B<u8>> close correctly.
func (p *Parser) closeAngle() error {
	tok := p.peek()
	switch tok.Type {
	case lexer.RANGLE:
		p.advance()
		return nil
	case lexer.SHR_OP:
		p.tokens[p.pos] = lexer.Token{Type: lexer.RANGLE, Lexeme: ">", Line: tok.Line}
		return nil
	}
	return p.unexpected(tok, "`>`")
}

// Parse parses a complete file.
func Parse(tokens []lexer.Token) (*ast.File, error) {
	p := NewParser(tokens)
	file := &ast.File{}
	for p.peek().Type == lexer.INNERDOC {
		file.Doc = append(file.Doc, p.advance().Lexeme)
	}
	for p.peek().Type != lexer.EOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		file.Items = append(file.Items, item)
	}
	return file, nil
}

// ParseSource lexes and parses src.
func ParseSource(src string) (*ast.File, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expression, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EOF); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseType parses src as a single type.
func ParseType(src string) (ast.Type, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EOF); err != nil {
		return nil, err
	}
	return ty, nil
}
