package visit

import "knums/pkg/ast"

// StructVisitor receives kind, name, each generic parameter and each
// property, then either VisitOpaque or VisitFields.
type StructVisitor interface {
	Present() bool
	VisitKind(kind ast.StructKind)
	VisitName(name string)
	VisitGeneric(name string)
	VisitProperty() StructPropertyVisitor
	VisitOpaque() OpaqueVisitor
	VisitFields() StructBodyVisitor
}

func WalkStruct(v StructVisitor, s *ast.StructItem) {
	if !v.Present() {
		return
	}
	v.VisitKind(s.Kind)
	v.VisitName(s.Name)
	for _, g := range s.Generics {
		v.VisitGeneric(g)
	}
	for _, p := range s.Properties {
		WalkStructProperty(v.VisitProperty(), p)
	}
	switch b := s.Body.(type) {
	case *ast.OpaqueBody:
		WalkOpaque(v.VisitOpaque(), b)
	case *ast.FieldsBody:
		WalkStructBody(v.VisitFields(), b)
	}
}

// OpaqueVisitor is only asked for a representation type when one was written.
type OpaqueVisitor interface {
	Present() bool
	VisitRepr() TypeVisitor
}

func WalkOpaque(v OpaqueVisitor, o *ast.OpaqueBody) {
	if !v.Present() || o.Repr == nil {
		return
	}
	WalkType(v.VisitRepr(), o.Repr)
}

// StructPropertyVisitor receives one call per property. For option_body
// VisitOptionPad is called once per pad with its index.
type StructPropertyVisitor interface {
	Present() bool
	VisitAlign() ExprVisitor
	VisitOption() ExprVisitor
	VisitOptionPad(index int) ExprVisitor
}

func WalkStructProperty(v StructPropertyVisitor, p ast.StructProperty) {
	if !v.Present() {
		return
	}
	switch p := p.(type) {
	case *ast.AlignProp:
		WalkExpr(v.VisitAlign(), p.Align)
	case *ast.OptionProp:
		WalkExpr(v.VisitOption(), p.ID)
	case *ast.OptionBodyProp:
		for i, pad := range p.Pads {
			WalkExpr(v.VisitOptionPad(i), pad)
		}
	}
}

// StructBodyVisitor receives each field in order, then the padding clause.
type StructBodyVisitor interface {
	Present() bool
	VisitField() FieldVisitor
	VisitPad() TypeVisitor
	VisitPadTo() ExprVisitor
}

func WalkStructBody(v StructBodyVisitor, b *ast.FieldsBody) {
	if !v.Present() {
		return
	}
	for i := range b.Fields {
		WalkField(v.VisitField(), &b.Fields[i])
	}
	switch p := b.Padding.(type) {
	case *ast.PadType:
		WalkType(v.VisitPad(), p.Type)
	case *ast.PadTo:
		WalkExpr(v.VisitPadTo(), p.Size)
	}
}

type FieldVisitor interface {
	Present() bool
	VisitDoc(line string)
	VisitName(name string)
	VisitType() TypeVisitor
}

func WalkField(v FieldVisitor, f *ast.StructField) {
	if !v.Present() {
		return
	}
	for _, d := range f.Doc {
		v.VisitDoc(d)
	}
	v.VisitName(f.Name)
	WalkType(v.VisitType(), f.Type)
}

// Nop variants.

type NopStructVisitor struct{ absent }

func (NopStructVisitor) VisitKind(ast.StructKind)             { unreachable("VisitKind") }
func (NopStructVisitor) VisitName(string)                     { unreachable("VisitName") }
func (NopStructVisitor) VisitGeneric(string)                  { unreachable("VisitGeneric") }
func (NopStructVisitor) VisitProperty() StructPropertyVisitor { unreachable("VisitProperty"); return nil }
func (NopStructVisitor) VisitOpaque() OpaqueVisitor           { unreachable("VisitOpaque"); return nil }
func (NopStructVisitor) VisitFields() StructBodyVisitor       { unreachable("VisitFields"); return nil }

type NopOpaqueVisitor struct{ absent }

func (NopOpaqueVisitor) VisitRepr() TypeVisitor { unreachable("VisitRepr"); return nil }

type NopStructPropertyVisitor struct{ absent }

func (NopStructPropertyVisitor) VisitAlign() ExprVisitor        { unreachable("VisitAlign"); return nil }
func (NopStructPropertyVisitor) VisitOption() ExprVisitor       { unreachable("VisitOption"); return nil }
func (NopStructPropertyVisitor) VisitOptionPad(int) ExprVisitor { unreachable("VisitOptionPad"); return nil }

type NopStructBodyVisitor struct{ absent }

func (NopStructBodyVisitor) VisitField() FieldVisitor { unreachable("VisitField"); return nil }
func (NopStructBodyVisitor) VisitPad() TypeVisitor    { unreachable("VisitPad"); return nil }
func (NopStructBodyVisitor) VisitPadTo() ExprVisitor  { unreachable("VisitPadTo"); return nil }

type NopFieldVisitor struct{ absent }

func (NopFieldVisitor) VisitDoc(string)        { unreachable("VisitDoc") }
func (NopFieldVisitor) VisitName(string)       { unreachable("VisitName") }
func (NopFieldVisitor) VisitType() TypeVisitor { unreachable("VisitType"); return nil }

// Forward variants.

type ForwardStructVisitor struct{ StructVisitor }
type ForwardOpaqueVisitor struct{ OpaqueVisitor }
type ForwardStructPropertyVisitor struct{ StructPropertyVisitor }
type ForwardStructBodyVisitor struct{ StructBodyVisitor }
type ForwardFieldVisitor struct{ FieldVisitor }

// Optional variants.

type OptionalStructVisitor struct{ StructVisitor }

func (o OptionalStructVisitor) Present() bool {
	return o.StructVisitor != nil && o.StructVisitor.Present()
}

type OptionalOpaqueVisitor struct{ OpaqueVisitor }

func (o OptionalOpaqueVisitor) Present() bool {
	return o.OpaqueVisitor != nil && o.OpaqueVisitor.Present()
}

type OptionalStructPropertyVisitor struct{ StructPropertyVisitor }

func (o OptionalStructPropertyVisitor) Present() bool {
	return o.StructPropertyVisitor != nil && o.StructPropertyVisitor.Present()
}

type OptionalStructBodyVisitor struct{ StructBodyVisitor }

func (o OptionalStructBodyVisitor) Present() bool {
	return o.StructBodyVisitor != nil && o.StructBodyVisitor.Present()
}

type OptionalFieldVisitor struct{ FieldVisitor }

func (o OptionalFieldVisitor) Present() bool {
	return o.FieldVisitor != nil && o.FieldVisitor.Present()
}
