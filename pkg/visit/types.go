package visit

import "knums/pkg/ast"

// ParamTypeVisitor accepts the types legal in a parameter position:
// integers, char, named types, pointers and function types.
type ParamTypeVisitor interface {
	Present() bool
	VisitInt() IntTypeVisitor
	VisitChar()
	VisitNamed() NamedTypeVisitor
	VisitPointer() PointerTypeVisitor
	VisitFn() SignatureVisitor
}

// TypeVisitor additionally accepts void, byte and arrays.
type TypeVisitor interface {
	ParamTypeVisitor
	VisitVoid()
	VisitByte()
	VisitArray() ArrayTypeVisitor
}

// ReturnTypeVisitor additionally accepts void and never.
type ReturnTypeVisitor interface {
	ParamTypeVisitor
	VisitVoid()
	VisitNever()
}

// WalkParamType panics with a *PositionError for byte, array, void and
// never types.
func WalkParamType(v ParamTypeVisitor, t ast.Type) {
	if !v.Present() {
		return
	}
	switch t := t.(type) {
	case *ast.IntType:
		WalkIntType(v.VisitInt(), t)
	case ast.CharType:
		v.VisitChar()
	case *ast.NamedType:
		WalkNamedType(v.VisitNamed(), t)
	case *ast.PointerType:
		WalkPointerType(v.VisitPointer(), t)
	case *ast.FnType:
		WalkSignature(v.VisitFn(), &t.Sig)
	default:
		panic(&PositionError{Position: "parameter", Type: t})
	}
}

// WalkType panics with a *PositionError for the never type.
func WalkType(v TypeVisitor, t ast.Type) {
	if !v.Present() {
		return
	}
	switch t := t.(type) {
	case ast.VoidType:
		v.VisitVoid()
	case ast.ByteType:
		v.VisitByte()
	case *ast.ArrayType:
		WalkArrayType(v.VisitArray(), t)
	case ast.NeverType:
		panic(&PositionError{Position: "type", Type: t})
	default:
		WalkParamType(v, t)
	}
}

// WalkReturnType panics with a *PositionError for byte and array types.
func WalkReturnType(v ReturnTypeVisitor, t ast.Type) {
	if !v.Present() {
		return
	}
	switch t := t.(type) {
	case ast.VoidType:
		v.VisitVoid()
	case ast.NeverType:
		v.VisitNever()
	case ast.ByteType, *ast.ArrayType:
		panic(&PositionError{Position: "return", Type: t})
	default:
		WalkParamType(v, t)
	}
}

type IntTypeVisitor interface {
	Present() bool
	VisitSigned(signed bool)
	VisitWidth(width ast.IntWidth)
}

func WalkIntType(v IntTypeVisitor, t *ast.IntType) {
	if !v.Present() {
		return
	}
	v.VisitSigned(t.Signed)
	v.VisitWidth(t.Width)
}

// NamedTypeVisitor receives the name, then either each generic argument or
// the replacement type.
type NamedTypeVisitor interface {
	Present() bool
	VisitName(name string)
	VisitGenericArg() TypeVisitor
	VisitReplacement() TypeVisitor
}

func WalkNamedType(v NamedTypeVisitor, t *ast.NamedType) {
	if !v.Present() {
		return
	}
	v.VisitName(t.Name)
	switch s := t.Suffix.(type) {
	case *ast.GenericArgs:
		for _, arg := range s.Args {
			WalkType(v.VisitGenericArg(), arg)
		}
	case *ast.ParamReplace:
		WalkType(v.VisitReplacement(), s.Type)
	}
}

type PointerTypeVisitor interface {
	Present() bool
	VisitKind(kind ast.PointerKind)
	VisitPointee() TypeVisitor
}

func WalkPointerType(v PointerTypeVisitor, t *ast.PointerType) {
	if !v.Present() {
		return
	}
	v.VisitKind(t.Kind)
	WalkType(v.VisitPointee(), t.Pointee)
}

// ArrayTypeVisitor receives the element type before the length.
type ArrayTypeVisitor interface {
	Present() bool
	VisitElem() TypeVisitor
	VisitLen() ExprVisitor
}

func WalkArrayType(v ArrayTypeVisitor, t *ast.ArrayType) {
	if !v.Present() {
		return
	}
	WalkType(v.VisitElem(), t.Elem)
	WalkExpr(v.VisitLen(), t.Len)
}

// SignatureVisitor receives each parameter, then the return type.
type SignatureVisitor interface {
	Present() bool
	VisitParam() FnParamVisitor
	VisitReturn() ReturnTypeVisitor
}

func WalkSignature(v SignatureVisitor, s *ast.FnSignature) {
	if !v.Present() {
		return
	}
	for i := range s.Params {
		WalkFnParam(v.VisitParam(), &s.Params[i])
	}
	WalkReturnType(v.VisitReturn(), s.Return)
}

// FnParamVisitor is only given a name when the parameter has one.
type FnParamVisitor interface {
	Present() bool
	VisitName(name string)
	VisitType() ParamTypeVisitor
}

func WalkFnParam(v FnParamVisitor, p *ast.FnParam) {
	if !v.Present() {
		return
	}
	if p.Name != "" {
		v.VisitName(p.Name)
	}
	WalkParamType(v.VisitType(), p.Type)
}

// Nop variants.

type NopParamTypeVisitor struct{ absent }

func (NopParamTypeVisitor) VisitInt() IntTypeVisitor         { unreachable("VisitInt"); return nil }
func (NopParamTypeVisitor) VisitChar()                       { unreachable("VisitChar") }
func (NopParamTypeVisitor) VisitNamed() NamedTypeVisitor     { unreachable("VisitNamed"); return nil }
func (NopParamTypeVisitor) VisitPointer() PointerTypeVisitor { unreachable("VisitPointer"); return nil }
func (NopParamTypeVisitor) VisitFn() SignatureVisitor        { unreachable("VisitFn"); return nil }

type NopTypeVisitor struct{ NopParamTypeVisitor }

func (NopTypeVisitor) VisitVoid()                   { unreachable("VisitVoid") }
func (NopTypeVisitor) VisitByte()                   { unreachable("VisitByte") }
func (NopTypeVisitor) VisitArray() ArrayTypeVisitor { unreachable("VisitArray"); return nil }

type NopReturnTypeVisitor struct{ NopParamTypeVisitor }

func (NopReturnTypeVisitor) VisitVoid()  { unreachable("VisitVoid") }
func (NopReturnTypeVisitor) VisitNever() { unreachable("VisitNever") }

type NopIntTypeVisitor struct{ absent }

func (NopIntTypeVisitor) VisitSigned(bool)        { unreachable("VisitSigned") }
func (NopIntTypeVisitor) VisitWidth(ast.IntWidth) { unreachable("VisitWidth") }

type NopNamedTypeVisitor struct{ absent }

func (NopNamedTypeVisitor) VisitName(string)              { unreachable("VisitName") }
func (NopNamedTypeVisitor) VisitGenericArg() TypeVisitor  { unreachable("VisitGenericArg"); return nil }
func (NopNamedTypeVisitor) VisitReplacement() TypeVisitor { unreachable("VisitReplacement"); return nil }

type NopPointerTypeVisitor struct{ absent }

func (NopPointerTypeVisitor) VisitKind(ast.PointerKind) { unreachable("VisitKind") }
func (NopPointerTypeVisitor) VisitPointee() TypeVisitor { unreachable("VisitPointee"); return nil }

type NopArrayTypeVisitor struct{ absent }

func (NopArrayTypeVisitor) VisitElem() TypeVisitor { unreachable("VisitElem"); return nil }
func (NopArrayTypeVisitor) VisitLen() ExprVisitor  { unreachable("VisitLen"); return nil }

type NopSignatureVisitor struct{ absent }

func (NopSignatureVisitor) VisitParam() FnParamVisitor     { unreachable("VisitParam"); return nil }
func (NopSignatureVisitor) VisitReturn() ReturnTypeVisitor { unreachable("VisitReturn"); return nil }

type NopFnParamVisitor struct{ absent }

func (NopFnParamVisitor) VisitName(string)            { unreachable("VisitName") }
func (NopFnParamVisitor) VisitType() ParamTypeVisitor { unreachable("VisitType"); return nil }

// Forward variants.

type ForwardParamTypeVisitor struct{ ParamTypeVisitor }
type ForwardTypeVisitor struct{ TypeVisitor }
type ForwardReturnTypeVisitor struct{ ReturnTypeVisitor }
type ForwardIntTypeVisitor struct{ IntTypeVisitor }
type ForwardNamedTypeVisitor struct{ NamedTypeVisitor }
type ForwardPointerTypeVisitor struct{ PointerTypeVisitor }
type ForwardArrayTypeVisitor struct{ ArrayTypeVisitor }
type ForwardSignatureVisitor struct{ SignatureVisitor }
type ForwardFnParamVisitor struct{ FnParamVisitor }

// Optional variants.

type OptionalParamTypeVisitor struct{ ParamTypeVisitor }

func (o OptionalParamTypeVisitor) Present() bool {
	return o.ParamTypeVisitor != nil && o.ParamTypeVisitor.Present()
}

type OptionalTypeVisitor struct{ TypeVisitor }

func (o OptionalTypeVisitor) Present() bool {
	return o.TypeVisitor != nil && o.TypeVisitor.Present()
}

type OptionalReturnTypeVisitor struct{ ReturnTypeVisitor }

func (o OptionalReturnTypeVisitor) Present() bool {
	return o.ReturnTypeVisitor != nil && o.ReturnTypeVisitor.Present()
}

type OptionalIntTypeVisitor struct{ IntTypeVisitor }

func (o OptionalIntTypeVisitor) Present() bool {
	return o.IntTypeVisitor != nil && o.IntTypeVisitor.Present()
}

type OptionalNamedTypeVisitor struct{ NamedTypeVisitor }

func (o OptionalNamedTypeVisitor) Present() bool {
	return o.NamedTypeVisitor != nil && o.NamedTypeVisitor.Present()
}

type OptionalPointerTypeVisitor struct{ PointerTypeVisitor }

func (o OptionalPointerTypeVisitor) Present() bool {
	return o.PointerTypeVisitor != nil && o.PointerTypeVisitor.Present()
}

type OptionalArrayTypeVisitor struct{ ArrayTypeVisitor }

func (o OptionalArrayTypeVisitor) Present() bool {
	return o.ArrayTypeVisitor != nil && o.ArrayTypeVisitor.Present()
}

type OptionalSignatureVisitor struct{ SignatureVisitor }

func (o OptionalSignatureVisitor) Present() bool {
	return o.SignatureVisitor != nil && o.SignatureVisitor.Present()
}

type OptionalFnParamVisitor struct{ FnParamVisitor }

func (o OptionalFnParamVisitor) Present() bool {
	return o.FnParamVisitor != nil && o.FnParamVisitor.Present()
}
