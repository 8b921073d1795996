package lexer

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Payload-carrying tokens; the payload is in Token.Lexeme.
	DIRECTIVE // %name
	IDENT     // identifier
	INTLIT    // 123, 0x7f, 0o17, 1_000
	DOCSTRING // /// item or field doc
	INNERDOC  // //! file doc
	UUID      // U{xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}

	// Keywords
	STRUCT        // "struct"
	UNION         // "union"
	FN            // "fn"
	USE           // "use"
	CONST         // "const"
	MUT           // "mut"
	HANDLE        // "handle"
	SHARED_HANDLE // "shared_handle"
	TYPE          // "type"

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LANGLE   // <
	RANGLE   // >
	LBRACE   // {
	RBRACE   // }

	// Punctuation
	COLON_COLON // ::
	COLON       // :
	SEMICOLON   // ;
	COMMA       // ,
	ARROW       // ->
	ASSIGN      // =

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SHL_OP // <<
	SHR_OP // >>
	AND    // &
	PIPE   // |
	CARET  // ^
	NOT    // !
)

var tokenNames = [...]string{
	EOF:           "EOF",
	DIRECTIVE:     "DIRECTIVE",
	IDENT:         "IDENT",
	INTLIT:        "INTLIT",
	DOCSTRING:     "DOCSTRING",
	INNERDOC:      "INNERDOC",
	UUID:          "UUID",
	STRUCT:        "STRUCT",
	UNION:         "UNION",
	FN:            "FN",
	USE:           "USE",
	CONST:         "CONST",
	MUT:           "MUT",
	HANDLE:        "HANDLE",
	SHARED_HANDLE: "SHARED_HANDLE",
	TYPE:          "TYPE",
	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
	LBRACKET:      "LBRACKET",
	RBRACKET:      "RBRACKET",
	LANGLE:        "LANGLE",
	RANGLE:        "RANGLE",
	LBRACE:        "LBRACE",
	RBRACE:        "RBRACE",
	COLON_COLON:   "COLON_COLON",
	COLON:         "COLON",
	SEMICOLON:     "SEMICOLON",
	COMMA:         "COMMA",
	ARROW:         "ARROW",
	ASSIGN:        "ASSIGN",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SHL_OP:        "SHL_OP",
	SHR_OP:        "SHR_OP",
	AND:           "AND",
	PIPE:          "PIPE",
	CARET:         "CARET",
	NOT:           "NOT",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // source text, or the trimmed comment text for doc tokens
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// SyntaxError is returned for any lexical or grammatical violation. There is
// no recovery: the first one ends the run.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
