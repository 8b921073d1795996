package visit

import "knums/pkg/ast"

type ExprVisitor interface {
	Present() bool
	VisitIdent(name string)
	VisitInteger(lit *ast.IntegerLiteral)
	VisitUUID(major, minor uint64)
	VisitUnary() UnaryExprVisitor
	VisitBinary() BinaryExprVisitor
}

func WalkExpr(v ExprVisitor, e ast.Expression) {
	if !v.Present() {
		return
	}
	switch e := e.(type) {
	case *ast.Ident:
		v.VisitIdent(e.Name)
	case *ast.IntegerLiteral:
		v.VisitInteger(e)
	case *ast.UUIDLiteral:
		v.VisitUUID(e.Major, e.Minor)
	case *ast.UnaryExpr:
		WalkUnaryExpr(v.VisitUnary(), e)
	case *ast.BinaryExpr:
		WalkBinaryExpr(v.VisitBinary(), e)
	}
}

// UnaryExprVisitor receives the operator before the operand.
type UnaryExprVisitor interface {
	Present() bool
	VisitOp(op ast.UnaryOp)
	VisitOperand() ExprVisitor
}

func WalkUnaryExpr(v UnaryExprVisitor, e *ast.UnaryExpr) {
	if !v.Present() {
		return
	}
	v.VisitOp(e.Op)
	WalkExpr(v.VisitOperand(), e.Operand)
}

// BinaryExprVisitor receives the operator, then the left and right operands.
type BinaryExprVisitor interface {
	Present() bool
	VisitOp(op ast.BinaryOp)
	VisitLeft() ExprVisitor
	VisitRight() ExprVisitor
}

func WalkBinaryExpr(v BinaryExprVisitor, e *ast.BinaryExpr) {
	if !v.Present() {
		return
	}
	v.VisitOp(e.Op)
	WalkExpr(v.VisitLeft(), e.Left)
	WalkExpr(v.VisitRight(), e.Right)
}

// Nop variants.

type NopExprVisitor struct{ absent }

func (NopExprVisitor) VisitIdent(string)                { unreachable("VisitIdent") }
func (NopExprVisitor) VisitInteger(*ast.IntegerLiteral) { unreachable("VisitInteger") }
func (NopExprVisitor) VisitUUID(uint64, uint64)         { unreachable("VisitUUID") }
func (NopExprVisitor) VisitUnary() UnaryExprVisitor     { unreachable("VisitUnary"); return nil }
func (NopExprVisitor) VisitBinary() BinaryExprVisitor   { unreachable("VisitBinary"); return nil }

type NopUnaryExprVisitor struct{ absent }

func (NopUnaryExprVisitor) VisitOp(ast.UnaryOp)       { unreachable("VisitOp") }
func (NopUnaryExprVisitor) VisitOperand() ExprVisitor { unreachable("VisitOperand"); return nil }

type NopBinaryExprVisitor struct{ absent }

func (NopBinaryExprVisitor) VisitOp(ast.BinaryOp)    { unreachable("VisitOp") }
func (NopBinaryExprVisitor) VisitLeft() ExprVisitor  { unreachable("VisitLeft"); return nil }
func (NopBinaryExprVisitor) VisitRight() ExprVisitor { unreachable("VisitRight"); return nil }

// Forward variants.

type ForwardExprVisitor struct{ ExprVisitor }
type ForwardUnaryExprVisitor struct{ UnaryExprVisitor }
type ForwardBinaryExprVisitor struct{ BinaryExprVisitor }

// Optional variants.

type OptionalExprVisitor struct{ ExprVisitor }

func (o OptionalExprVisitor) Present() bool {
	return o.ExprVisitor != nil && o.ExprVisitor.Present()
}

type OptionalUnaryExprVisitor struct{ UnaryExprVisitor }

func (o OptionalUnaryExprVisitor) Present() bool {
	return o.UnaryExprVisitor != nil && o.UnaryExprVisitor.Present()
}

type OptionalBinaryExprVisitor struct{ BinaryExprVisitor }

func (o OptionalBinaryExprVisitor) Present() bool {
	return o.BinaryExprVisitor != nil && o.BinaryExprVisitor.Present()
}
