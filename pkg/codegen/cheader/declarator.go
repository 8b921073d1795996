package cheader

import (
	"fmt"
	"strings"

	"knums/pkg/ast"
	"knums/pkg/visit"
)

// Pointer markers, written to the left of everything they point at.
const (
	constPtr        = "const*"
	mutPtr          = "*"
	handlePtr       = "* __handle "
	sharedHandlePtr = "* __shared_handle "
)

var pointerMarkers = [...]string{
	ast.Const:        constPtr,
	ast.Mut:          mutPtr,
	ast.Handle:       handlePtr,
	ast.SharedHandle: sharedHandlePtr,
}

// A declarator is a C declaration of name built up while a type is walked
// from the outside in.
//
// C binds suffixes ([N], (params)) tighter than the * prefix, so a pointer
// to an array or function needs its own parenthesized level. levels[0] is
// the level around the name; each later level wraps the one before it and
// is opened only when a suffix must apply to a level that already holds
// pointers:
//
//	*mut [i32; 4]     levels {*} {[4]}     __i32 (*x)[4]
//	[*mut i32; 4]     levels {*, [4]}      __i32 *x[4]
type declarator struct {
	name     string
	base     string
	noreturn bool
	levels   []*level
}

type level struct {
	markers  []string // in walk order; rendered most recent first
	suffixes []fmt.Stringer
}

func (l *level) lastMarker() string {
	if len(l.markers) == 0 {
		return ""
	}
	return l.markers[len(l.markers)-1]
}

func (d *declarator) current() *level {
	if len(d.levels) == 0 {
		d.levels = append(d.levels, &level{})
	}
	return d.levels[len(d.levels)-1]
}

func (d *declarator) pointer(kind ast.PointerKind) {
	l := d.current()
	l.markers = append(l.markers, pointerMarkers[kind])
}

func (d *declarator) attach(s fmt.Stringer) {
	l := d.current()
	if len(l.markers) > 0 {
		l = &level{}
		d.levels = append(d.levels, l)
	}
	l.suffixes = append(l.suffixes, s)
}

func (d *declarator) String() string {
	var sb strings.Builder
	if d.noreturn {
		sb.WriteString("_Noreturn ")
	}
	sb.WriteString(d.base)
	sb.WriteByte(' ')

	n := len(d.levels)
	for i := n - 1; i >= 0; i-- {
		l := d.levels[i]
		for j := len(l.markers) - 1; j >= 0; j-- {
			m := l.markers[j]
			// The qualifier of a pointer into an outer level belongs to
			// that level's array; it is written before the parenthesis.
			if i < n-1 && j == len(l.markers)-1 && m == constPtr {
				m = mutPtr
			}
			sb.WriteString(m)
		}
		if i > 0 {
			if d.levels[i-1].lastMarker() == constPtr {
				if _, ok := l.suffixes[0].(*arraySuffix); ok {
					sb.WriteString("const ")
				}
			}
			sb.WriteByte('(')
		}
	}

	sb.WriteString(d.name)
	for i, l := range d.levels {
		if i > 0 {
			sb.WriteByte(')')
		}
		for _, s := range l.suffixes {
			sb.WriteString(s.String())
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

type arraySuffix struct {
	visit.Active
	elem *declarator
	len  expr
}

func (a *arraySuffix) String() string { return "[" + bare(a.len.String()) + "]" }

func (a *arraySuffix) VisitElem() visit.TypeVisitor { return &typeWriter{d: a.elem} }
func (a *arraySuffix) VisitLen() visit.ExprVisitor  { return &a.len }

// paramsSuffix is a parameter list; it also receives the return type.
type paramsSuffix struct {
	visit.Active
	d      *declarator
	proto  bool
	params []*declarator
}

func (p *paramsSuffix) String() string {
	if len(p.params) == 0 {
		return "(void)"
	}
	parts := make([]string, len(p.params))
	for i, param := range p.params {
		parts[i] = param.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p *paramsSuffix) VisitParam() visit.FnParamVisitor {
	param := &declarator{}
	p.params = append(p.params, param)
	return &paramWriter{d: param}
}

func (p *paramsSuffix) VisitReturn() visit.ReturnTypeVisitor {
	return &typeWriter{d: p.d, proto: p.proto}
}

type paramWriter struct {
	visit.Active
	d *declarator
}

func (p *paramWriter) VisitName(name string)             { p.d.name = name }
func (p *paramWriter) VisitType() visit.ParamTypeVisitor { return &typeWriter{d: p.d} }

// typeWriter adds one type to a declarator. It serves every type position.
// proto is set for the return type of a syscall prototype, the only place
// the never type becomes _Noreturn.
type typeWriter struct {
	visit.Active
	d     *declarator
	proto bool
}

func (w *typeWriter) VisitInt() visit.IntTypeVisitor { return (*intWriter)(w.d) }
func (w *typeWriter) VisitChar()                     { w.d.base = "char" }
func (w *typeWriter) VisitVoid()                     { w.d.base = "void" }
func (w *typeWriter) VisitByte()                     { w.d.base = "unsigned char" }

func (w *typeWriter) VisitNever() {
	w.d.base = "void"
	w.d.noreturn = w.proto
}

func (w *typeWriter) VisitNamed() visit.NamedTypeVisitor { return (*namedWriter)(w.d) }

func (w *typeWriter) VisitPointer() visit.PointerTypeVisitor { return (*pointerWriter)(w.d) }

func (w *typeWriter) VisitArray() visit.ArrayTypeVisitor {
	a := &arraySuffix{elem: w.d}
	w.d.attach(a)
	return a
}

func (w *typeWriter) VisitFn() visit.SignatureVisitor {
	p := &paramsSuffix{d: w.d}
	w.d.attach(p)
	return p
}

type intWriter declarator

func (w *intWriter) Present() bool { return true }

func (w *intWriter) VisitSigned(signed bool) {
	if signed {
		w.base = "__i"
	} else {
		w.base = "__u"
	}
}

func (w *intWriter) VisitWidth(width ast.IntWidth) { w.base += width.String() }

// namedWriter renders the bare name; C has no generics, so arguments are
// skipped. A replacement type stands in for the name entirely.
type namedWriter declarator

func (w *namedWriter) Present() bool                       { return true }
func (w *namedWriter) VisitName(name string)               { w.base = name }
func (w *namedWriter) VisitGenericArg() visit.TypeVisitor  { return visit.NopTypeVisitor{} }
func (w *namedWriter) VisitReplacement() visit.TypeVisitor { return &typeWriter{d: (*declarator)(w)} }

type pointerWriter declarator

func (w *pointerWriter) Present() bool                  { return true }
func (w *pointerWriter) VisitKind(kind ast.PointerKind) { (*declarator)(w).pointer(kind) }
func (w *pointerWriter) VisitPointee() visit.TypeVisitor {
	return &typeWriter{d: (*declarator)(w)}
}
