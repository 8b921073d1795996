package ast

import (
	"fmt"
	"strings"
)

// Type is implemented by every type node.
type Type interface {
	typeNode()
	String() string
}

// IntWidth is the bit width of an integer type; WLong is the machine long.
type IntWidth int

const (
	W8 IntWidth = iota
	W16
	W32
	W64
	WLong
)

var intWidthNames = [...]string{
	W8:    "8",
	W16:   "16",
	W32:   "32",
	W64:   "64",
	WLong: "long",
}

func (w IntWidth) String() string {
	if int(w) >= 0 && int(w) < len(intWidthNames) {
		return intWidthNames[w]
	}
	return fmt.Sprintf("IntWidth(%d)", int(w))
}

// IntType is i8..i64, ilong and the unsigned counterparts.
type IntType struct {
	Signed bool
	Width  IntWidth
}

func (*IntType) typeNode() {}
func (t *IntType) String() string {
	if t.Signed {
		return "i" + t.Width.String()
	}
	return "u" + t.Width.String()
}

// CharType is `char`.
type CharType struct{}

func (CharType) typeNode()      {}
func (CharType) String() string { return "char" }

// VoidType is `void`.
type VoidType struct{}

func (VoidType) typeNode()      {}
func (VoidType) String() string { return "void" }

// NeverType is `!`, legal only as a return type.
type NeverType struct{}

func (NeverType) typeNode()      {}
func (NeverType) String() string { return "!" }

// ByteType is an untyped storage byte.
type ByteType struct{}

func (ByteType) typeNode()      {}
func (ByteType) String() string { return "byte" }

// ArrayType is `[Elem; Len]`.
type ArrayType struct {
	Elem Type
	Len  Expression
}

func (*ArrayType) typeNode()        {}
func (a *ArrayType) String() string { return fmt.Sprintf("[%s; %s]", a.Elem, a.Len) }

// FnType is a function type `fn(params) -> ret`.
type FnType struct {
	Sig FnSignature
}

func (*FnType) typeNode()        {}
func (f *FnType) String() string { return "fn" + f.Sig.String() }

// PointerKind is the mandatory qualifier after `*`.
type PointerKind int

const (
	Const PointerKind = iota
	Mut
	Handle
	SharedHandle
)

var pointerKindNames = [...]string{
	Const:        "const",
	Mut:          "mut",
	Handle:       "handle",
	SharedHandle: "shared_handle",
}

func (k PointerKind) String() string {
	if int(k) >= 0 && int(k) < len(pointerKindNames) {
		return pointerKindNames[k]
	}
	return fmt.Sprintf("PointerKind(%d)", int(k))
}

// PointerType is `*kind Pointee`.
type PointerType struct {
	Kind    PointerKind
	Pointee Type
}

func (*PointerType) typeNode()        {}
func (p *PointerType) String() string { return fmt.Sprintf("*%s %s", p.Kind, p.Pointee) }

// NamedType references a type declared elsewhere. Names are not resolved.
type NamedType struct {
	Name   string
	Suffix NameSuffix // nil when absent
}

func (*NamedType) typeNode() {}
func (n *NamedType) String() string {
	if n.Suffix == nil {
		return n.Name
	}
	return n.Name + n.Suffix.String()
}

// NameSuffix is either *GenericArgs or *ParamReplace.
type NameSuffix interface {
	suffixNode()
	String() string
}

// GenericArgs is `Name<A, B>`.
type GenericArgs struct {
	Args []Type
}

func (*GenericArgs) suffixNode() {}
func (g *GenericArgs) String() string {
	args := make([]string, len(g.Args))
	for i, a := range g.Args {
		args[i] = a.String()
	}
	return "<" + strings.Join(args, ", ") + ">"
}

// ParamReplace substitutes a single type for the named one.
type ParamReplace struct {
	Type Type
}

func (*ParamReplace) suffixNode()      {}
func (p *ParamReplace) String() string { return "(" + p.Type.String() + ")" }

// FnSignature is the parameter list and return type of a fn item or type.
type FnSignature struct {
	Params []FnParam
	Return Type
}

func (s FnSignature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		if p.Name == "" {
			params[i] = p.Type.String()
		} else {
			params[i] = p.Name + ": " + p.Type.String()
		}
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), s.Return)
}

// FnParam is one parameter; Name is empty for unnamed parameters.
type FnParam struct {
	Name string
	Type Type
}
