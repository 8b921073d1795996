package cheader

import (
	"fmt"

	"knums/pkg/ast"
	"knums/pkg/visit"
)

// text is a fixed rendering.
type text string

func (t text) String() string { return string(t) }

// expr renders a constant expression. Literals and compound forms are
// parenthesized so the result can be substituted into any context.
type expr struct {
	visit.Active
	body fmt.Stringer
}

func (e *expr) String() string {
	if e.body == nil {
		return ""
	}
	return e.body.String()
}

func (e *expr) VisitIdent(name string) { e.body = text(name) }

func (e *expr) VisitInteger(lit *ast.IntegerLiteral) {
	e.body = text(fmt.Sprintf("(%dULL)", lit.Value()))
}

func (e *expr) VisitUUID(major, minor uint64) {
	e.body = text(fmt.Sprintf("((Uuid){.minor = %d, .major = %d})", minor, major))
}

func (e *expr) VisitUnary() visit.UnaryExprVisitor {
	u := &unaryExpr{}
	e.body = u
	return u
}

func (e *expr) VisitBinary() visit.BinaryExprVisitor {
	b := &binaryExpr{}
	e.body = b
	return b
}

type unaryExpr struct {
	visit.Active
	op      ast.UnaryOp
	operand expr
}

func (u *unaryExpr) VisitOp(op ast.UnaryOp)          { u.op = op }
func (u *unaryExpr) VisitOperand() visit.ExprVisitor { return &u.operand }

func (u *unaryExpr) String() string {
	op := u.op.String()
	if u.op == ast.Not {
		op = "~"
	}
	return "(" + op + " " + u.operand.String() + ")"
}

type binaryExpr struct {
	visit.Active
	op          ast.BinaryOp
	left, right expr
}

func (b *binaryExpr) VisitOp(op ast.BinaryOp)       { b.op = op }
func (b *binaryExpr) VisitLeft() visit.ExprVisitor  { return &b.left }
func (b *binaryExpr) VisitRight() visit.ExprVisitor { return &b.right }

func (b *binaryExpr) String() string {
	return "(" + b.left.String() + " " + b.op.String() + " " + b.right.String() + ")"
}

// enclosed reports whether s is a single parenthesized group.
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// grouped parenthesizes s unless it already is a single group.
func grouped(s string) string {
	if enclosed(s) {
		return s
	}
	return "(" + s + ")"
}

// bare strips one enclosing group, for contexts such as array brackets that
// delimit the expression themselves.
func bare(s string) string {
	if enclosed(s) {
		return s[1 : len(s)-1]
	}
	return s
}
