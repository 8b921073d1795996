// Package lexer turns .knum source text into tokens.
package lexer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"struct":        STRUCT,
	"union":         UNION,
	"fn":            FN,
	"use":           USE,
	"const":         CONST,
	"mut":           MUT,
	"handle":        HANDLE,
	"shared_handle": SHARED_HANDLE,
	"type":          TYPE,
}

// Lexer holds all mutable state for a single scanning pass over src.
// It is not shared between files.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// Reset rewinds the lexer to the start of its source.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// restOfLine consumes up to, not including, the next newline.
func (l *Lexer) restOfLine() string {
	start := l.pos
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isIdentPart(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENT
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanInt collects a decimal, 0x hex or 0o octal literal. '_' separators
// are kept in the lexeme.
func (l *Lexer) scanInt() Token {
	line := l.line
	start := l.pos

	digit := func(r rune) bool { return (r >= '0' && r <= '9') || r == '_' }
	if l.peek() == '0' {
		switch next := l.peekAt(1); {
		case next == 'x' && (isHex(l.peekAt(2)) || l.peekAt(2) == '_'):
			l.advance()
			l.advance()
			digit = func(r rune) bool { return isHex(r) || r == '_' }
		case next == 'o' && ((l.peekAt(2) >= '0' && l.peekAt(2) <= '7') || l.peekAt(2) == '_'):
			l.advance()
			l.advance()
			digit = func(r rune) bool { return (r >= '0' && r <= '7') || r == '_' }
		}
	}
	for l.pos < len(l.src) && digit(l.peek()) {
		l.advance()
	}
	return Token{Type: INTLIT, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// uuidShape is the group layout of a canonical UUID.
var uuidShape = [...]int{8, 4, 4, 4, 12}

// matchUUID reports the length of a U{...} literal at the current position,
// or 0 if the text there is not one.
func (l *Lexer) matchUUID() int {
	if l.peek() != 'U' || l.peekAt(1) != '{' {
		return 0
	}
	n := 2
	for g, size := range uuidShape {
		if g > 0 {
			if l.peekAt(n) != '-' {
				return 0
			}
			n++
		}
		for i := 0; i < size; i++ {
			if !isHex(l.peekAt(n)) {
				return 0
			}
			n++
		}
	}
	if l.peekAt(n) != '}' {
		return 0
	}
	return n + 1
}

// Next skips whitespace and plain comments and returns the next Token. At
// end of input it returns an EOF token, repeatedly.
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Line: l.line}, nil
		}
		if l.peek() != '/' || l.peekAt(1) != '/' {
			break
		}
		line := l.line
		l.advance()
		l.advance()
		// Doc comments win over the plain comment rule.
		switch l.peek() {
		case '/':
			l.advance()
			return Token{Type: DOCSTRING, Lexeme: strings.TrimSpace(l.restOfLine()), Line: line}, nil
		case '!':
			l.advance()
			return Token{Type: INNERDOC, Lexeme: strings.TrimSpace(l.restOfLine()), Line: line}, nil
		}
		l.restOfLine()
	}

	ch := l.peek()
	line := l.line

	if n := l.matchUUID(); n > 0 {
		start := l.pos
		for i := 0; i < n; i++ {
			l.advance()
		}
		return Token{Type: UUID, Lexeme: string(l.src[start:l.pos]), Line: line}, nil
	}
	if isIdentStart(ch) {
		return l.scanIdent(), nil
	}
	if ch >= '0' && ch <= '9' {
		return l.scanInt(), nil
	}
	if ch == '%' && isIdentStart(l.peekAt(1)) {
		l.advance()
		tok := l.scanIdent()
		return Token{Type: DIRECTIVE, Lexeme: "%" + tok.Lexeme, Line: line}, nil
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '[':
		return Token{LBRACKET, "[", line}, nil
	case ']':
		return Token{RBRACKET, "]", line}, nil
	case '{':
		return Token{LBRACE, "{", line}, nil
	case '}':
		return Token{RBRACE, "}", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case ',':
		return Token{COMMA, ",", line}, nil
	case '=':
		return Token{ASSIGN, "=", line}, nil
	case '+':
		return Token{PLUS, "+", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '&':
		return Token{AND, "&", line}, nil
	case '|':
		return Token{PIPE, "|", line}, nil
	case '^':
		return Token{CARET, "^", line}, nil
	case '!':
		return Token{NOT, "!", line}, nil
	case ':':
		if l.peek() == ':' {
			l.advance()
			return Token{COLON_COLON, "::", line}, nil
		}
		return Token{COLON, ":", line}, nil
	case '-':
		if l.peek() == '>' {
			l.advance()
			return Token{ARROW, "->", line}, nil
		}
		return Token{MINUS, "-", line}, nil
	case '<':
		if l.peek() == '<' {
			l.advance()
			return Token{SHL_OP, "<<", line}, nil
		}
		return Token{LANGLE, "<", line}, nil
	case '>':
		if l.peek() == '>' {
			l.advance()
			return Token{SHR_OP, ">>", line}, nil
		}
		return Token{RANGLE, ">", line}, nil
	default:
		return Token{}, &SyntaxError{Line: line, Msg: fmt.Sprintf("unexpected character %q", ch)}
	}
}

// All returns the token sequence of the whole source, excluding the final
// EOF. Each call starts over from the beginning. Iteration stops after the
// first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l.Reset()
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if tok.Type == EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first input that matches no rule.
func Lex(src string) ([]Token, error) {
	l := New(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
