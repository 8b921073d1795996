// Package ast defines the syntax tree produced by the parser for .knum
// interface-definition files.
//
// Trees are built once by the parser and are read-only afterwards. Every
// node is owned by exactly one parent: a File owns its Items, an Item owns
// its Expression and Type subtrees.
package ast

import (
	"fmt"
	"strings"
)

// File is one parsed input.
//
//	//! Handle operations      <- Doc
//	use types::hdl;            <- Items[0]
type File struct {
	Doc   []string
	Items []Item
}

func (f *File) String() string {
	var sb strings.Builder
	for _, d := range f.Doc {
		fmt.Fprintf(&sb, "//! %s\n", d)
	}
	for _, it := range f.Items {
		sb.WriteString(it.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Item is a top-level declaration with its leading /// doc lines.
type Item struct {
	Doc  []string
	Body ItemBody
}

func (it Item) String() string { return it.Body.String() }

// ItemBody is implemented by every top-level declaration kind.
type ItemBody interface {
	itemNode()
	String() string
}

// Directive is a bare %name item.
type Directive struct {
	Name string // includes the leading '%'
}

func (*Directive) itemNode()        {}
func (d *Directive) String() string { return d.Name }

// FnItem declares a syscall.
//
//	fn UnshareHandle(hdl: *handle Handle) -> SysResult = 1;
type FnItem struct {
	Name  string
	Sig   FnSignature
	Sysno Expression
}

func (*FnItem) itemNode() {}
func (f *FnItem) String() string {
	return fmt.Sprintf("fn %s%s = %s;", f.Name, f.Sig.String(), f.Sysno)
}

// ConstItem is an untyped-at-render numeric constant.
type ConstItem struct {
	Name  string
	Type  Type
	Value Expression
}

func (*ConstItem) itemNode() {}
func (c *ConstItem) String() string {
	return fmt.Sprintf("const %s: %s = %s;", c.Name, c.Type, c.Value)
}

// UseItem imports another file by path.
type UseItem struct {
	Inline bool
	Path   Path
}

func (*UseItem) itemNode() {}
func (u *UseItem) String() string {
	if u.Inline {
		return "inline use " + u.Path.String() + ";"
	}
	return "use " + u.Path.String() + ";"
}

// TypeAlias is `type Name = Def;`.
type TypeAlias struct {
	Name string
	Def  Type
}

func (*TypeAlias) itemNode()        {}
func (t *TypeAlias) String() string { return fmt.Sprintf("type %s = %s;", t.Name, t.Def) }

// StructKind distinguishes struct from union declarations.
type StructKind int

const (
	Struct StructKind = iota
	Union
)

func (k StructKind) String() string {
	if k == Union {
		return "union"
	}
	return "struct"
}

// StructItem covers both struct and union declarations.
type StructItem struct {
	Kind       StructKind
	Name       string
	Generics   []string
	Properties []StructProperty
	Body       StructBody
}

func (*StructItem) itemNode() {}
func (s *StructItem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", s.Kind, s.Name)
	if len(s.Generics) > 0 {
		fmt.Fprintf(&sb, "<%s>", strings.Join(s.Generics, ", "))
	}
	if len(s.Properties) > 0 {
		props := make([]string, len(s.Properties))
		for i, p := range s.Properties {
			props[i] = p.String()
		}
		fmt.Fprintf(&sb, " : %s", strings.Join(props, ", "))
	}
	sb.WriteByte(' ')
	sb.WriteString(s.Body.String())
	return sb.String()
}

// StructProperty is one entry of the `: a, b` list after a struct name.
type StructProperty interface {
	propertyNode()
	String() string
}

// AlignProp is `align(expr)`.
type AlignProp struct {
	Align Expression
}

func (*AlignProp) propertyNode()    {}
func (a *AlignProp) String() string { return fmt.Sprintf("align(%s)", a.Align) }

// OptionProp is `option(id)`; it marks the struct as an extensible option.
type OptionProp struct {
	ID Expression
}

func (*OptionProp) propertyNode()    {}
func (o *OptionProp) String() string { return fmt.Sprintf("option(%s)", o.ID) }

// OptionBodyProp is `option_body(pad, pad...)`.
type OptionBodyProp struct {
	Pads []Expression
}

func (*OptionBodyProp) propertyNode() {}
func (o *OptionBodyProp) String() string {
	pads := make([]string, len(o.Pads))
	for i, p := range o.Pads {
		pads[i] = p.String()
	}
	return fmt.Sprintf("option_body(%s)", strings.Join(pads, ", "))
}

// StructBody is either an opaque marker or a field list.
type StructBody interface {
	bodyNode()
	String() string
}

// OpaqueBody is `opaque;` or `opaque(Repr);`. Repr is nil when absent.
type OpaqueBody struct {
	Repr Type
}

func (*OpaqueBody) bodyNode() {}
func (o *OpaqueBody) String() string {
	if o.Repr == nil {
		return "opaque;"
	}
	return fmt.Sprintf("opaque(%s);", o.Repr)
}

// FieldsBody is `{ name: Type, ... [pad(..) | padto(..)] }`.
type FieldsBody struct {
	Fields  []StructField
	Padding Padding // nil when absent
}

func (*FieldsBody) bodyNode() {}
func (b *FieldsBody) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, f := range b.Fields {
		fmt.Fprintf(&sb, "%s: %s, ", f.Name, f.Type)
	}
	if b.Padding != nil {
		sb.WriteString(b.Padding.String())
		sb.WriteByte(' ')
	}
	sb.WriteString("}")
	return sb.String()
}

// StructField is one named member.
type StructField struct {
	Name string
	Doc  []string
	Type Type
}

// Padding is the optional trailing clause of a field body.
type Padding interface {
	paddingNode()
	String() string
}

// PadType is `pad(Type)`.
type PadType struct {
	Type Type
}

func (*PadType) paddingNode()     {}
func (p *PadType) String() string { return fmt.Sprintf("pad(%s)", p.Type) }

// PadTo is `padto(expr)`.
type PadTo struct {
	Size Expression
}

func (*PadTo) paddingNode()     {}
func (p *PadTo) String() string { return fmt.Sprintf("padto(%s)", p.Size) }
