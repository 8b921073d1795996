package visit

import "knums/pkg/ast"

// FileVisitor receives VisitHeader, the file docs, each item and finally
// VisitFooter.
type FileVisitor interface {
	Present() bool
	VisitHeader()
	VisitDoc(line string)
	VisitItem() ItemVisitor
	VisitFooter()
}

func WalkFile(v FileVisitor, f *ast.File) {
	if !v.Present() {
		return
	}
	v.VisitHeader()
	for _, d := range f.Doc {
		v.VisitDoc(d)
	}
	for i := range f.Items {
		WalkItem(v.VisitItem(), &f.Items[i])
	}
	v.VisitFooter()
}

// ItemVisitor receives the item docs and then exactly one body call.
type ItemVisitor interface {
	Present() bool
	VisitDoc(line string)
	VisitDirective(name string)
	VisitUse(inline bool, path ast.Path)
	VisitConst() ConstItemVisitor
	VisitFn() FnItemVisitor
	VisitTypeAlias() TypeAliasVisitor
	VisitStruct() StructVisitor
}

func WalkItem(v ItemVisitor, it *ast.Item) {
	if !v.Present() {
		return
	}
	for _, d := range it.Doc {
		v.VisitDoc(d)
	}
	switch b := it.Body.(type) {
	case *ast.Directive:
		v.VisitDirective(b.Name)
	case *ast.UseItem:
		v.VisitUse(b.Inline, b.Path)
	case *ast.ConstItem:
		WalkConst(v.VisitConst(), b)
	case *ast.FnItem:
		WalkFn(v.VisitFn(), b)
	case *ast.TypeAlias:
		WalkTypeAlias(v.VisitTypeAlias(), b)
	case *ast.StructItem:
		WalkStruct(v.VisitStruct(), b)
	}
}

type ConstItemVisitor interface {
	Present() bool
	VisitName(name string)
	VisitType() TypeVisitor
	VisitValue() ExprVisitor
}

func WalkConst(v ConstItemVisitor, c *ast.ConstItem) {
	if !v.Present() {
		return
	}
	v.VisitName(c.Name)
	WalkType(v.VisitType(), c.Type)
	WalkExpr(v.VisitValue(), c.Value)
}

type FnItemVisitor interface {
	Present() bool
	VisitName(name string)
	VisitSignature() SignatureVisitor
	VisitSysno() ExprVisitor
}

func WalkFn(v FnItemVisitor, f *ast.FnItem) {
	if !v.Present() {
		return
	}
	v.VisitName(f.Name)
	WalkSignature(v.VisitSignature(), &f.Sig)
	WalkExpr(v.VisitSysno(), f.Sysno)
}

type TypeAliasVisitor interface {
	Present() bool
	VisitName(name string)
	VisitType() TypeVisitor
}

func WalkTypeAlias(v TypeAliasVisitor, t *ast.TypeAlias) {
	if !v.Present() {
		return
	}
	v.VisitName(t.Name)
	WalkType(v.VisitType(), t.Def)
}

// Nop variants.

type NopFileVisitor struct{ absent }

func (NopFileVisitor) VisitHeader()           { unreachable("VisitHeader") }
func (NopFileVisitor) VisitDoc(string)        { unreachable("VisitDoc") }
func (NopFileVisitor) VisitItem() ItemVisitor { unreachable("VisitItem"); return nil }
func (NopFileVisitor) VisitFooter()           { unreachable("VisitFooter") }

type NopItemVisitor struct{ absent }

func (NopItemVisitor) VisitDoc(string)                  { unreachable("VisitDoc") }
func (NopItemVisitor) VisitDirective(string)            { unreachable("VisitDirective") }
func (NopItemVisitor) VisitUse(bool, ast.Path)          { unreachable("VisitUse") }
func (NopItemVisitor) VisitConst() ConstItemVisitor     { unreachable("VisitConst"); return nil }
func (NopItemVisitor) VisitFn() FnItemVisitor           { unreachable("VisitFn"); return nil }
func (NopItemVisitor) VisitTypeAlias() TypeAliasVisitor { unreachable("VisitTypeAlias"); return nil }
func (NopItemVisitor) VisitStruct() StructVisitor       { unreachable("VisitStruct"); return nil }

type NopConstItemVisitor struct{ absent }

func (NopConstItemVisitor) VisitName(string)        { unreachable("VisitName") }
func (NopConstItemVisitor) VisitType() TypeVisitor  { unreachable("VisitType"); return nil }
func (NopConstItemVisitor) VisitValue() ExprVisitor { unreachable("VisitValue"); return nil }

type NopFnItemVisitor struct{ absent }

func (NopFnItemVisitor) VisitName(string)                 { unreachable("VisitName") }
func (NopFnItemVisitor) VisitSignature() SignatureVisitor { unreachable("VisitSignature"); return nil }
func (NopFnItemVisitor) VisitSysno() ExprVisitor          { unreachable("VisitSysno"); return nil }

type NopTypeAliasVisitor struct{ absent }

func (NopTypeAliasVisitor) VisitName(string)       { unreachable("VisitName") }
func (NopTypeAliasVisitor) VisitType() TypeVisitor { unreachable("VisitType"); return nil }

// Forward variants.

type ForwardFileVisitor struct{ FileVisitor }
type ForwardItemVisitor struct{ ItemVisitor }
type ForwardConstItemVisitor struct{ ConstItemVisitor }
type ForwardFnItemVisitor struct{ FnItemVisitor }
type ForwardTypeAliasVisitor struct{ TypeAliasVisitor }

// Optional variants.

type OptionalFileVisitor struct{ FileVisitor }

func (o OptionalFileVisitor) Present() bool { return o.FileVisitor != nil && o.FileVisitor.Present() }

type OptionalItemVisitor struct{ ItemVisitor }

func (o OptionalItemVisitor) Present() bool { return o.ItemVisitor != nil && o.ItemVisitor.Present() }

type OptionalConstItemVisitor struct{ ConstItemVisitor }

func (o OptionalConstItemVisitor) Present() bool {
	return o.ConstItemVisitor != nil && o.ConstItemVisitor.Present()
}

type OptionalFnItemVisitor struct{ FnItemVisitor }

func (o OptionalFnItemVisitor) Present() bool {
	return o.FnItemVisitor != nil && o.FnItemVisitor.Present()
}

type OptionalTypeAliasVisitor struct{ TypeAliasVisitor }

func (o OptionalTypeAliasVisitor) Present() bool {
	return o.TypeAliasVisitor != nil && o.TypeAliasVisitor.Present()
}
