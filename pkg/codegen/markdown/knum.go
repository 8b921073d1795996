package markdown

import (
	"fmt"
	"strings"

	"knums/pkg/ast"
	"knums/pkg/visit"
)

// The printers in this file render types and expressions back in .knum
// syntax for the code blocks on each page.

type text string

func (t text) String() string { return string(t) }

func str(s fmt.Stringer) string {
	if s == nil {
		return ""
	}
	return s.String()
}

// exprText prints an expression. Operands that are themselves compound are
// parenthesized, so the printed form never depends on precedence.
type exprText struct {
	visit.Active
	body     fmt.Stringer
	compound bool
}

func (e *exprText) String() string { return str(e.body) }

// operand is e as it appears inside another expression.
func (e *exprText) operand() string {
	if e.compound {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (e *exprText) VisitIdent(name string)               { e.body = text(name) }
func (e *exprText) VisitInteger(lit *ast.IntegerLiteral) { e.body = text(lit.Text) }

func (e *exprText) VisitUUID(major, minor uint64) {
	e.body = text((&ast.UUIDLiteral{Major: major, Minor: minor}).String())
}

func (e *exprText) VisitUnary() visit.UnaryExprVisitor {
	u := &unaryText{}
	e.body = u
	return u
}

func (e *exprText) VisitBinary() visit.BinaryExprVisitor {
	b := &binaryText{}
	e.body, e.compound = b, true
	return b
}

type unaryText struct {
	visit.Active
	op      ast.UnaryOp
	operand exprText
}

func (u *unaryText) VisitOp(op ast.UnaryOp)          { u.op = op }
func (u *unaryText) VisitOperand() visit.ExprVisitor { return &u.operand }
func (u *unaryText) String() string                  { return u.op.String() + u.operand.operand() }

type binaryText struct {
	visit.Active
	op          ast.BinaryOp
	left, right exprText
}

func (b *binaryText) VisitOp(op ast.BinaryOp)       { b.op = op }
func (b *binaryText) VisitLeft() visit.ExprVisitor  { return &b.left }
func (b *binaryText) VisitRight() visit.ExprVisitor { return &b.right }

func (b *binaryText) String() string {
	return b.left.operand() + " " + b.op.String() + " " + b.right.operand()
}

// typeText prints a type in any position.
type typeText struct {
	visit.Active
	body fmt.Stringer
}

func (t *typeText) String() string { return str(t.body) }

func (t *typeText) VisitChar()  { t.body = text("char") }
func (t *typeText) VisitVoid()  { t.body = text("void") }
func (t *typeText) VisitByte()  { t.body = text("byte") }
func (t *typeText) VisitNever() { t.body = text("!") }

func (t *typeText) VisitInt() visit.IntTypeVisitor {
	i := &intText{}
	t.body = i
	return i
}

func (t *typeText) VisitNamed() visit.NamedTypeVisitor {
	n := &namedText{}
	t.body = n
	return n
}

func (t *typeText) VisitPointer() visit.PointerTypeVisitor {
	p := &pointerText{}
	t.body = p
	return p
}

func (t *typeText) VisitArray() visit.ArrayTypeVisitor {
	a := &arrayText{}
	t.body = a
	return a
}

func (t *typeText) VisitFn() visit.SignatureVisitor {
	s := &sigText{}
	t.body = fnType{s}
	return s
}

type intText struct {
	visit.Active
	signed bool
	width  ast.IntWidth
}

func (i *intText) VisitSigned(signed bool)       { i.signed = signed }
func (i *intText) VisitWidth(width ast.IntWidth) { i.width = width }

func (i *intText) String() string {
	return (&ast.IntType{Signed: i.signed, Width: i.width}).String()
}

type namedText struct {
	visit.Active
	name    string
	args    []*typeText
	replace *typeText
}

func (n *namedText) VisitName(name string) { n.name = name }

func (n *namedText) VisitGenericArg() visit.TypeVisitor {
	arg := &typeText{}
	n.args = append(n.args, arg)
	return arg
}

func (n *namedText) VisitReplacement() visit.TypeVisitor {
	n.replace = &typeText{}
	return n.replace
}

func (n *namedText) String() string {
	switch {
	case n.replace != nil:
		return n.name + "(" + n.replace.String() + ")"
	case len(n.args) > 0:
		args := make([]string, len(n.args))
		for i, a := range n.args {
			args[i] = a.String()
		}
		return n.name + "<" + strings.Join(args, ", ") + ">"
	}
	return n.name
}

type pointerText struct {
	visit.Active
	kind    ast.PointerKind
	pointee typeText
}

func (p *pointerText) VisitKind(kind ast.PointerKind)  { p.kind = kind }
func (p *pointerText) VisitPointee() visit.TypeVisitor { return &p.pointee }
func (p *pointerText) String() string                  { return "*" + p.kind.String() + " " + p.pointee.String() }

type arrayText struct {
	visit.Active
	elem typeText
	len  exprText
}

func (a *arrayText) VisitElem() visit.TypeVisitor { return &a.elem }
func (a *arrayText) VisitLen() visit.ExprVisitor  { return &a.len }
func (a *arrayText) String() string               { return "[" + a.elem.String() + "; " + a.len.String() + "]" }

// sigText prints `(params) -> ret`.
type sigText struct {
	visit.Active
	params []*paramText
	ret    typeText
}

func (s *sigText) VisitParam() visit.FnParamVisitor {
	p := &paramText{}
	s.params = append(s.params, p)
	return p
}

func (s *sigText) VisitReturn() visit.ReturnTypeVisitor { return &s.ret }

func (s *sigText) String() string {
	params := make([]string, len(s.params))
	for i, p := range s.params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + s.ret.String()
}

type fnType struct{ sig *sigText }

func (f fnType) String() string { return "fn" + f.sig.String() }

type paramText struct {
	visit.Active
	name string
	ty   typeText
}

func (p *paramText) VisitName(name string)             { p.name = name }
func (p *paramText) VisitType() visit.ParamTypeVisitor { return &p.ty }

func (p *paramText) String() string {
	if p.name == "" {
		return p.ty.String()
	}
	return p.name + ": " + p.ty.String()
}
