package cheader

import (
	"fmt"
	"strings"
	"unicode"

	"knums/pkg/ast"
	"knums/pkg/visit"
)

// structWriter renders a struct or union typedef. It receives the
// properties and the field list itself.
type structWriter struct {
	visit.Active
	kind   ast.StructKind
	name   string
	opaque bool

	align      *expr
	optionID   *expr
	optionPads []*expr

	fields []*declarator
	pad    *declarator
}

func (s *structWriter) VisitKind(kind ast.StructKind) { s.kind = kind }
func (s *structWriter) VisitName(name string)         { s.name = name }
func (s *structWriter) VisitGeneric(string)           {}

func (s *structWriter) VisitProperty() visit.StructPropertyVisitor { return s }

func (s *structWriter) VisitOpaque() visit.OpaqueVisitor {
	s.opaque = true
	return visit.NopOpaqueVisitor{}
}

func (s *structWriter) VisitFields() visit.StructBodyVisitor { return s }

func (s *structWriter) VisitAlign() visit.ExprVisitor {
	s.align = &expr{}
	return s.align
}

func (s *structWriter) VisitOption() visit.ExprVisitor {
	s.optionID = &expr{}
	return s.optionID
}

func (s *structWriter) VisitOptionPad(int) visit.ExprVisitor {
	e := &expr{}
	s.optionPads = append(s.optionPads, e)
	return e
}

func (s *structWriter) VisitField() visit.FieldVisitor {
	d := &declarator{}
	s.fields = append(s.fields, d)
	return &fieldWriter{d: d}
}

func (s *structWriter) VisitPad() visit.TypeVisitor {
	s.pad = &declarator{name: "__pad"}
	return &typeWriter{d: s.pad}
}

// TODO: render padto as a byte array once field sizes are computed.
func (s *structWriter) VisitPadTo() visit.ExprVisitor { return visit.NopExprVisitor{} }

func (s *structWriter) String() string {
	var sb strings.Builder
	if s.opaque {
		fmt.Fprintf(&sb, "typedef %s %s %s;\n", s.kind, s.name, s.name)
	} else {
		fmt.Fprintf(&sb, "typedef %s %s {\n", s.kind, s.name)
		for _, f := range s.fields {
			fmt.Fprintf(&sb, "    %s;\n", f)
		}
		if s.pad != nil {
			fmt.Fprintf(&sb, "    %s;\n", s.pad)
		}
		if len(s.optionPads) > 0 {
			sb.WriteString("    struct{ ExtendedOptionHead head; union{")
			for i, pad := range s.optionPads {
				fmt.Fprintf(&sb, "unsigned char __pad%d[%s]; ", i, bare(pad.String()))
			}
			sb.WriteString("}; };\n")
		}
		fmt.Fprintf(&sb, "} %s", s.name)
		if s.align != nil {
			fmt.Fprintf(&sb, " __attribute__((__aligned__(%s)))", bare(s.align.String()))
		}
		sb.WriteString(";\n")
	}
	if s.optionID != nil {
		fmt.Fprintf(&sb, "#define __LILIUM_%s_ID %s\n", macroName(s.name), grouped(s.optionID.String()))
	}
	return sb.String()
}

type fieldWriter struct {
	visit.Active
	d *declarator
}

func (f *fieldWriter) VisitDoc(string)              {}
func (f *fieldWriter) VisitName(name string)        { f.d.name = name }
func (f *fieldWriter) VisitType() visit.TypeVisitor { return &typeWriter{d: f.d} }

// macroName converts a CamelCase type name to upper snake case:
// ThreadStartOption becomes THREAD_START_OPTION.
func macroName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
