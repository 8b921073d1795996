// Package markdown renders each input file as a documentation page, plus
// an mdBook style src/SUMMARY.md that links them all.
package markdown

import (
	"fmt"
	"strings"

	"knums/pkg/ast"
	"knums/pkg/codegen"
	"knums/pkg/vfs"
	"knums/pkg/visit"
)

// SourceRoot holds the summary and every page.
const SourceRoot = "src"

func init() {
	codegen.Register(Backend{})
}

type Backend struct{}

func (Backend) Name() string { return "markdown" }

func (Backend) NewFile(path ast.Path, _ uint64) codegen.FileGen {
	return &page{path: path}
}

// WriteMisc writes the summary: one link per unit, in the given order.
func (Backend) WriteMisc(disk *vfs.Disk, units []codegen.Unit) error {
	var sb strings.Builder
	sb.WriteString("# Summary\n\n")
	for _, u := range units {
		fmt.Fprintf(&sb, "- [%s](%s.md)\n", u.Path, u.Path.Slash())
	}
	return disk.Write(SourceRoot+"/SUMMARY.md", []byte(sb.String()))
}

// section is one documented item.
type section interface {
	title() string
	code() string
}

type item struct {
	doc  []string
	body section // nil for items without a section
}

type page struct {
	visit.Active
	path  ast.Path
	doc   []string
	uses  []ast.Path
	items []*item
	out   strings.Builder
}

func (p *page) VisitHeader() { fmt.Fprintf(&p.out, "# %s\n", p.path) }

func (p *page) VisitDoc(line string) { p.doc = append(p.doc, line) }

func (p *page) VisitItem() visit.ItemVisitor {
	it := &item{}
	p.items = append(p.items, it)
	return &itemPage{page: p, item: it}
}

func (p *page) VisitFooter() {
	if len(p.doc) > 0 {
		p.out.WriteByte('\n')
		writeLines(&p.out, p.doc)
	}

	if len(p.uses) > 0 {
		p.out.WriteString("\n## Imports\n\n")
		up := strings.Repeat("../", len(p.path.Components)-1)
		for _, u := range p.uses {
			fmt.Fprintf(&p.out, "- [`%s`](%s%s.md)\n", u, up, u.Slash())
		}
	}

	for _, it := range p.items {
		if it.body == nil {
			continue
		}
		fmt.Fprintf(&p.out, "\n## %s\n\n", it.body.title())
		if len(it.doc) > 0 {
			writeLines(&p.out, it.doc)
			p.out.WriteByte('\n')
		}
		fmt.Fprintf(&p.out, "```knum\n%s\n```\n", it.body.code())
		if s, ok := it.body.(*structSection); ok {
			s.writeFieldDocs(&p.out)
		}
	}
	p.items = nil
}

func (p *page) Output() (string, []byte) {
	return SourceRoot + "/" + p.path.Slash() + ".md", []byte(p.out.String())
}

func writeLines(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

type itemPage struct {
	visit.Active
	page *page
	item *item
}

func (w *itemPage) VisitDoc(line string) { w.item.doc = append(w.item.doc, line) }

// Directives only affect generated code.
func (w *itemPage) VisitDirective(string) {}

// Imports are listed together at the top of the page.
func (w *itemPage) VisitUse(_ bool, path ast.Path) {
	path.Leading = false
	w.page.uses = append(w.page.uses, path)
}

func (w *itemPage) VisitConst() visit.ConstItemVisitor {
	c := &constSection{}
	w.item.body = c
	return c
}

func (w *itemPage) VisitFn() visit.FnItemVisitor {
	f := &fnSection{}
	w.item.body = f
	return f
}

func (w *itemPage) VisitTypeAlias() visit.TypeAliasVisitor {
	t := &aliasSection{}
	w.item.body = t
	return t
}

func (w *itemPage) VisitStruct() visit.StructVisitor {
	s := &structSection{}
	w.item.body = s
	return s
}

type constSection struct {
	visit.Active
	name  string
	ty    typeText
	value exprText
}

func (c *constSection) VisitName(name string)         { c.name = name }
func (c *constSection) VisitType() visit.TypeVisitor  { return &c.ty }
func (c *constSection) VisitValue() visit.ExprVisitor { return &c.value }

func (c *constSection) title() string { return "const " + c.name }
func (c *constSection) code() string {
	return fmt.Sprintf("const %s: %s = %s;", c.name, &c.ty, &c.value)
}

type fnSection struct {
	visit.Active
	name  string
	sig   sigText
	sysno exprText
}

func (f *fnSection) VisitName(name string)                  { f.name = name }
func (f *fnSection) VisitSignature() visit.SignatureVisitor { return &f.sig }
func (f *fnSection) VisitSysno() visit.ExprVisitor          { return &f.sysno }

func (f *fnSection) title() string { return "fn " + f.name }
func (f *fnSection) code() string {
	return fmt.Sprintf("fn %s%s = %s;", f.name, &f.sig, &f.sysno)
}

type aliasSection struct {
	visit.Active
	name string
	def  typeText
}

func (t *aliasSection) VisitName(name string)        { t.name = name }
func (t *aliasSection) VisitType() visit.TypeVisitor { return &t.def }

func (t *aliasSection) title() string { return "type " + t.name }
func (t *aliasSection) code() string  { return fmt.Sprintf("type %s = %s;", t.name, &t.def) }
