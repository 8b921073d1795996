package markdown

import (
	"fmt"
	"strings"

	"knums/pkg/ast"
	"knums/pkg/visit"
)

type structSection struct {
	visit.Active
	kind     ast.StructKind
	name     string
	generics []string
	props    []*propText

	opaque  bool
	repr    *typeText
	fields  []*fieldText
	padding fmt.Stringer
}

func (s *structSection) VisitKind(kind ast.StructKind) { s.kind = kind }
func (s *structSection) VisitName(name string)         { s.name = name }
func (s *structSection) VisitGeneric(name string)      { s.generics = append(s.generics, name) }

func (s *structSection) VisitProperty() visit.StructPropertyVisitor {
	p := &propText{}
	s.props = append(s.props, p)
	return p
}

func (s *structSection) VisitOpaque() visit.OpaqueVisitor {
	s.opaque = true
	return s
}

func (s *structSection) VisitRepr() visit.TypeVisitor {
	s.repr = &typeText{}
	return s.repr
}

func (s *structSection) VisitFields() visit.StructBodyVisitor { return s }

func (s *structSection) VisitField() visit.FieldVisitor {
	f := &fieldText{}
	s.fields = append(s.fields, f)
	return f
}

func (s *structSection) VisitPad() visit.TypeVisitor {
	t := &typeText{}
	s.padding = padText{"pad", t}
	return t
}

func (s *structSection) VisitPadTo() visit.ExprVisitor {
	e := &exprText{}
	s.padding = padText{"padto", e}
	return e
}

func (s *structSection) title() string { return s.kind.String() + " " + s.name }

func (s *structSection) code() string {
	var sb strings.Builder
	sb.WriteString(s.title())
	if len(s.generics) > 0 {
		sb.WriteString("<" + strings.Join(s.generics, ", ") + ">")
	}
	if len(s.props) > 0 {
		props := make([]string, len(s.props))
		for i, p := range s.props {
			props[i] = p.String()
		}
		sb.WriteString(" : " + strings.Join(props, ", "))
	}

	if s.opaque {
		sb.WriteString(" opaque")
		if s.repr != nil {
			sb.WriteString("(" + s.repr.String() + ")")
		}
		sb.WriteByte(';')
		return sb.String()
	}

	sb.WriteString(" {\n")
	for _, f := range s.fields {
		fmt.Fprintf(&sb, "    %s: %s,\n", f.name, &f.ty)
	}
	if s.padding != nil {
		fmt.Fprintf(&sb, "    %s\n", s.padding)
	}
	sb.WriteByte('}')
	return sb.String()
}

// writeFieldDocs lists the documented fields after the code block.
func (s *structSection) writeFieldDocs(sb *strings.Builder) {
	first := true
	for _, f := range s.fields {
		if len(f.doc) == 0 {
			continue
		}
		if first {
			sb.WriteString("\n### Fields\n\n")
			first = false
		}
		fmt.Fprintf(sb, "- `%s`: %s\n", f.name, strings.Join(f.doc, " "))
	}
}

type propText struct {
	visit.Active
	name string
	args []*exprText
}

func (p *propText) arg(name string) visit.ExprVisitor {
	p.name = name
	e := &exprText{}
	p.args = append(p.args, e)
	return e
}

func (p *propText) VisitAlign() visit.ExprVisitor        { return p.arg("align") }
func (p *propText) VisitOption() visit.ExprVisitor       { return p.arg("option") }
func (p *propText) VisitOptionPad(int) visit.ExprVisitor { return p.arg("option_body") }

func (p *propText) String() string {
	args := make([]string, len(p.args))
	for i, a := range p.args {
		args[i] = a.String()
	}
	return p.name + "(" + strings.Join(args, ", ") + ")"
}

type padText struct {
	kind string
	arg  fmt.Stringer
}

func (p padText) String() string { return p.kind + "(" + p.arg.String() + ")" }

type fieldText struct {
	visit.Active
	doc  []string
	name string
	ty   typeText
}

func (f *fieldText) VisitDoc(line string)         { f.doc = append(f.doc, line) }
func (f *fieldText) VisitName(name string)        { f.name = name }
func (f *fieldText) VisitType() visit.TypeVisitor { return &f.ty }
