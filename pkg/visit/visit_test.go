package visit

import (
	"fmt"
	"reflect"
	"testing"

	"knums/pkg/ast"
	"knums/pkg/parser"
)

// rec is embedded by the recording visitors below; every call is appended to
// the shared log.
type rec struct {
	Active
	log *[]string
}

func (r rec) add(format string, args ...any) {
	*r.log = append(*r.log, fmt.Sprintf(format, args...))
}

type fileRec struct{ rec }

func (r fileRec) VisitHeader()           { r.add("header") }
func (r fileRec) VisitDoc(line string)   { r.add("file doc %s", line) }
func (r fileRec) VisitItem() ItemVisitor { return itemRec(r) }
func (r fileRec) VisitFooter()           { r.add("footer") }

type itemRec struct{ rec }

func (r itemRec) VisitDoc(line string)       { r.add("item doc %s", line) }
func (r itemRec) VisitDirective(name string) { r.add("directive %s", name) }
func (r itemRec) VisitUse(inline bool, p ast.Path) {
	r.add("use %v %s", inline, p)
}
func (r itemRec) VisitConst() ConstItemVisitor     { return constRec(r) }
func (r itemRec) VisitFn() FnItemVisitor           { return NopFnItemVisitor{} }
func (r itemRec) VisitTypeAlias() TypeAliasVisitor { return aliasRec(r) }
func (r itemRec) VisitStruct() StructVisitor       { return structRec(r) }

type constRec struct{ rec }

func (r constRec) VisitName(name string)   { r.add("const %s", name) }
func (r constRec) VisitType() TypeVisitor  { return typeRec(r) }
func (r constRec) VisitValue() ExprVisitor { return exprRec(r) }

type aliasRec struct{ rec }

func (r aliasRec) VisitName(name string)  { r.add("alias %s", name) }
func (r aliasRec) VisitType() TypeVisitor { return typeRec(r) }

type structRec struct{ rec }

func (r structRec) VisitKind(k ast.StructKind)           { r.add("kind %s", k) }
func (r structRec) VisitName(name string)                { r.add("struct %s", name) }
func (r structRec) VisitGeneric(name string)             { r.add("generic %s", name) }
func (r structRec) VisitProperty() StructPropertyVisitor { return propRec(r) }
func (r structRec) VisitOpaque() OpaqueVisitor           { return opaqueRec(r) }
func (r structRec) VisitFields() StructBodyVisitor       { return bodyRec(r) }

type opaqueRec struct{ rec }

func (r opaqueRec) VisitRepr() TypeVisitor { r.add("repr"); return typeRec(r) }

type propRec struct{ rec }

func (r propRec) VisitAlign() ExprVisitor  { r.add("align"); return exprRec(r) }
func (r propRec) VisitOption() ExprVisitor { r.add("option"); return exprRec(r) }
func (r propRec) VisitOptionPad(i int) ExprVisitor {
	r.add("pad %d", i)
	return exprRec(r)
}

type bodyRec struct{ rec }

func (r bodyRec) VisitField() FieldVisitor { return fieldRec(r) }
func (r bodyRec) VisitPad() TypeVisitor    { r.add("pad"); return typeRec(r) }
func (r bodyRec) VisitPadTo() ExprVisitor  { r.add("padto"); return exprRec(r) }

type fieldRec struct{ rec }

func (r fieldRec) VisitDoc(line string)   { r.add("field doc %s", line) }
func (r fieldRec) VisitName(name string)  { r.add("field %s", name) }
func (r fieldRec) VisitType() TypeVisitor { return typeRec(r) }

type typeRec struct{ rec }

func (r typeRec) VisitInt() IntTypeVisitor         { return intRec(r) }
func (r typeRec) VisitChar()                       { r.add("char") }
func (r typeRec) VisitNamed() NamedTypeVisitor     { return namedRec(r) }
func (r typeRec) VisitPointer() PointerTypeVisitor { return ptrRec(r) }
func (r typeRec) VisitFn() SignatureVisitor        { r.add("fn"); return sigRec(r) }
func (r typeRec) VisitVoid()                       { r.add("void") }
func (r typeRec) VisitByte()                       { r.add("byte") }
func (r typeRec) VisitArray() ArrayTypeVisitor     { r.add("array"); return arrRec(r) }
func (r typeRec) VisitNever()                      { r.add("never") }

type intRec struct{ rec }

func (r intRec) VisitSigned(signed bool)       { r.add("signed %v", signed) }
func (r intRec) VisitWidth(width ast.IntWidth) { r.add("width %s", width) }

type namedRec struct{ rec }

func (r namedRec) VisitName(name string)         { r.add("named %s", name) }
func (r namedRec) VisitGenericArg() TypeVisitor  { r.add("arg"); return typeRec(r) }
func (r namedRec) VisitReplacement() TypeVisitor { r.add("replace"); return typeRec(r) }

type ptrRec struct{ rec }

func (r ptrRec) VisitKind(k ast.PointerKind) { r.add("pointer %s", k) }
func (r ptrRec) VisitPointee() TypeVisitor   { return typeRec(r) }

type arrRec struct{ rec }

func (r arrRec) VisitElem() TypeVisitor { return typeRec(r) }
func (r arrRec) VisitLen() ExprVisitor  { r.add("len"); return exprRec(r) }

type sigRec struct{ rec }

func (r sigRec) VisitParam() FnParamVisitor     { return paramRec(r) }
func (r sigRec) VisitReturn() ReturnTypeVisitor { r.add("return"); return typeRec(r) }

type paramRec struct{ rec }

func (r paramRec) VisitName(name string)       { r.add("param %s", name) }
func (r paramRec) VisitType() ParamTypeVisitor { return typeRec(r) }

type exprRec struct{ rec }

func (r exprRec) VisitIdent(name string)               { r.add("ident %s", name) }
func (r exprRec) VisitInteger(lit *ast.IntegerLiteral) { r.add("integer %d", lit.Value()) }
func (r exprRec) VisitUUID(major, minor uint64)        { r.add("uuid %d %d", major, minor) }
func (r exprRec) VisitUnary() UnaryExprVisitor         { return unaryRec(r) }
func (r exprRec) VisitBinary() BinaryExprVisitor       { return binaryRec(r) }

type unaryRec struct{ rec }

func (r unaryRec) VisitOp(op ast.UnaryOp)    { r.add("unary %s", op) }
func (r unaryRec) VisitOperand() ExprVisitor { return exprRec(r) }

type binaryRec struct{ rec }

func (r binaryRec) VisitOp(op ast.BinaryOp) { r.add("binary %s", op) }
func (r binaryRec) VisitLeft() ExprVisitor  { return exprRec(r) }
func (r binaryRec) VisitRight() ExprVisitor { return exprRec(r) }

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return f
}

func TestWalkOrder(t *testing.T) {
	src := `//! doc
%def_sysno
inline use a::b;
/// about X
const X : *const [u8; 2] = 1 + !y;
type F = fn(n: i32, Opt<char>) -> !;
struct S<T> : align(8), option_body(4, 8) {
	/// d
	a: T,
	pad(u64)
}
union H : option(7) opaque(u8);
fn Skipped(i32) -> void = 3;
`
	var log []string
	WalkFile(fileRec{rec{log: &log}}, mustParse(t, src))

	want := []string{
		"header",
		"file doc doc",
		"directive %def_sysno",
		"use true a::b",
		"item doc about X",
		"const X",
		"pointer const", "array", "signed false", "width 8", "len", "integer 2",
		"binary +", "integer 1", "unary !", "ident y",
		"alias F",
		"fn", "param n", "signed true", "width 32", "named Opt", "arg", "char", "return", "never",
		"kind struct", "struct S", "generic T",
		"align", "integer 8",
		"pad 0", "integer 4", "pad 1", "integer 8",
		"field doc d", "field a", "named T",
		"pad", "signed false", "width 64",
		"kind union", "struct H", "option", "integer 7", "repr", "signed false", "width 8",
		"footer",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("walk order mismatch\n got:  %q\n want: %q", log, want)
	}
}

func TestAbsentVisitorSkipsSubtree(t *testing.T) {
	f := mustParse(t, "const X : i32 = 1 + 2;\nfn F(x: i32) -> ! = 1;")

	// Nop visitors panic on every operation, so any call would fail the test.
	WalkFile(NopFileVisitor{}, f)
	WalkItem(NopItemVisitor{}, &f.Items[0])
	WalkExpr(NopExprVisitor{}, f.Items[0].Body.(*ast.ConstItem).Value)

	// An absent visitor is never asked about the position of a type either.
	WalkType(NopTypeVisitor{}, ast.NeverType{})
	WalkParamType(NopParamTypeVisitor{}, ast.VoidType{})
	WalkReturnType(NopReturnTypeVisitor{}, ast.ByteType{})
}

func TestNopOperationsPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic from a Nop visitor operation")
		}
	}()
	NopExprVisitor{}.VisitIdent("x")
}

func TestForwardDelegates(t *testing.T) {
	e, err := parser.ParseExpr("(a << 2) | -1")
	if err != nil {
		t.Fatalf("ParseExpr failed: %v", err)
	}

	var direct, forwarded []string
	WalkExpr(exprRec{rec{log: &direct}}, e)
	WalkExpr(ForwardExprVisitor{exprRec{rec{log: &forwarded}}}, e)

	if !reflect.DeepEqual(direct, forwarded) {
		t.Errorf("forwarded = %q, want %q", forwarded, direct)
	}
	if len(direct) == 0 {
		t.Errorf("expected calls to be recorded")
	}
}

func TestOptionalPresence(t *testing.T) {
	var log []string
	tests := []struct {
		name string
		v    OptionalExprVisitor
		want bool
	}{
		{"nil", OptionalExprVisitor{}, false},
		{"absent", OptionalExprVisitor{NopExprVisitor{}}, false},
		{"present", OptionalExprVisitor{exprRec{rec{log: &log}}}, true},
		{"nested absent", OptionalExprVisitor{OptionalExprVisitor{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Present(); got != tt.want {
				t.Errorf("Present() = %v, want %v", got, tt.want)
			}
		})
	}

	WalkExpr(OptionalExprVisitor{}, &ast.Ident{Name: "skipped"})
	WalkExpr(OptionalExprVisitor{exprRec{rec{log: &log}}}, &ast.Ident{Name: "seen"})
	if want := []string{"ident seen"}; !reflect.DeepEqual(log, want) {
		t.Errorf("log = %q, want %q", log, want)
	}
}

// positionPanic runs f and returns the *PositionError it panicked with, or
// nil if it returned normally.
func positionPanic(t *testing.T, f func()) (pe *PositionError) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if pe, ok = r.(*PositionError); !ok {
				t.Fatalf("unexpected panic value %v", r)
			}
		}
	}()
	f()
	return nil
}

func TestTypePositions(t *testing.T) {
	arr := &ast.ArrayType{Elem: &ast.IntType{Width: ast.W8}, Len: &ast.IntegerLiteral{Text: "4"}}
	tests := []struct {
		name    string
		walk    func(rec) func(ast.Type)
		ty      ast.Type
		illegal bool
	}{
		{"param byte", walkParam, ast.ByteType{}, true},
		{"param array", walkParam, arr, true},
		{"param void", walkParam, ast.VoidType{}, true},
		{"param never", walkParam, ast.NeverType{}, true},
		{"param char", walkParam, ast.CharType{}, false},
		{"type never", walkType, ast.NeverType{}, true},
		{"type void", walkType, ast.VoidType{}, false},
		{"type byte", walkType, ast.ByteType{}, false},
		{"type array", walkType, arr, false},
		{"return byte", walkReturn, ast.ByteType{}, true},
		{"return array", walkReturn, arr, true},
		{"return void", walkReturn, ast.VoidType{}, false},
		{"return never", walkReturn, ast.NeverType{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			walk := tt.walk(rec{log: &log})
			pe := positionPanic(t, func() { walk(tt.ty) })
			if (pe != nil) != tt.illegal {
				t.Fatalf("panic = %v, want illegal %v", pe, tt.illegal)
			}
			if pe != nil && pe.Type != tt.ty {
				t.Errorf("PositionError.Type = %v, want %v", pe.Type, tt.ty)
			}
		})
	}
}

func walkParam(r rec) func(ast.Type)  { return func(ty ast.Type) { WalkParamType(typeRec{r}, ty) } }
func walkType(r rec) func(ast.Type)   { return func(ty ast.Type) { WalkType(typeRec{r}, ty) } }
func walkReturn(r rec) func(ast.Type) { return func(ty ast.Type) { WalkReturnType(typeRec{r}, ty) } }
