package ast

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Expression is implemented by every constant-expression node.
type Expression interface {
	exprNode()
	String() string
}

// Ident references a named constant. Names are not resolved.
type Ident struct {
	Name string
}

func (*Ident) exprNode()        {}
func (i *Ident) String() string { return i.Name }

// IntegerLiteral keeps the literal's source text; see Value.
type IntegerLiteral struct {
	Text string
}

func (*IntegerLiteral) exprNode()        {}
func (l *IntegerLiteral) String() string { return l.Text }

// Value evaluates the literal as an unsigned 64-bit integer. It accepts
// decimal, 0x hex and 0o octal forms with '_' separators anywhere in the
// digits. Results for literals wider than 64 bits are unspecified.
func (l *IntegerLiteral) Value() uint64 {
	text, radix := l.Text, uint64(10)
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		text, radix = text[2:], 16
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		text, radix = text[2:], 8
	}

	var n uint64
	for _, r := range text {
		var d uint64
		switch {
		case r == '_':
			continue
		case r >= '0' && r <= '9':
			d = uint64(r - '0')
		case r >= 'a' && r <= 'f':
			d = uint64(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = uint64(r-'A') + 10
		default:
			panic(fmt.Sprintf("ast: malformed integer literal %q", l.Text))
		}
		n = n*radix + d
	}
	return n
}

// UUIDLiteral is a U{xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx} literal split
// into its high (Major) and low (Minor) 64-bit halves.
type UUIDLiteral struct {
	Major uint64
	Minor uint64
}

func (*UUIDLiteral) exprNode() {}
func (u *UUIDLiteral) String() string {
	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[i] = byte(u.Major >> (56 - 8*i))
		id[8+i] = byte(u.Minor >> (56 - 8*i))
	}
	return "U{" + id.String() + "}"
}

// ParseUUIDLiteral decodes the text of a UUID token.
func ParseUUIDLiteral(text string) (*UUIDLiteral, error) {
	inner, ok := strings.CutPrefix(text, "U{")
	if ok {
		inner, ok = strings.CutSuffix(inner, "}")
	}
	if !ok {
		return nil, fmt.Errorf("malformed uuid literal %q", text)
	}
	id, err := uuid.Parse(inner)
	if err != nil {
		return nil, fmt.Errorf("malformed uuid literal %q: %w", text, err)
	}
	lit := &UUIDLiteral{}
	for i := 0; i < 8; i++ {
		lit.Major = lit.Major<<8 | uint64(id[i])
		lit.Minor = lit.Minor<<8 | uint64(id[8+i])
	}
	return lit, nil
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Plus UnaryOp = iota // +x
	Neg                 // -x
	Not                 // !x, bitwise complement
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	default:
		return "+"
	}
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div // in the tree only; the parser has no token for it yet
	Shl
	Shr
	And
	Or
	Xor
)

var binaryOpNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Shl: "<<",
	Shr: ">>",
	And: "&",
	Or:  "|",
	Xor: "^",
}

func (op BinaryOp) String() string {
	if int(op) >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// UnaryExpr is Op Operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// BinaryExpr is Left Op Right.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Eval folds an expression to a uint64 with wrapping arithmetic. Identifiers
// are looked up in env; ok is false if one is missing or the tree contains a
// UUID literal.
func Eval(e Expression, env map[string]uint64) (v uint64, ok bool) {
	switch e := e.(type) {
	case *IntegerLiteral:
		return e.Value(), true
	case *Ident:
		v, ok = env[e.Name]
		return v, ok
	case *UnaryExpr:
		x, ok := Eval(e.Operand, env)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case Neg:
			return -x, true
		case Not:
			return ^x, true
		default:
			return x, true
		}
	case *BinaryExpr:
		l, ok := Eval(e.Left, env)
		if !ok {
			return 0, false
		}
		r, ok := Eval(e.Right, env)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case Add:
			return l + r, true
		case Sub:
			return l - r, true
		case Mul:
			return l * r, true
		case Div:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case Shl:
			return l << (r & 63), true
		case Shr:
			return l >> (r & 63), true
		case And:
			return l & r, true
		case Or:
			return l | r, true
		case Xor:
			return l ^ r, true
		}
	}
	return 0, false
}
