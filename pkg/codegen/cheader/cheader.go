// Package cheader renders each input file as a C header under lilium-sci/.
//
// A header holds one include guard and an extern "C" envelope around the
// items in source order. Syscall numbers and prototypes are each gated by
// a feature macro so one header serves both the kernel and user code.
package cheader

import (
	"fmt"
	"strings"

	"knums/pkg/ast"
	"knums/pkg/codegen"
	"knums/pkg/vfs"
	"knums/pkg/visit"
)

// IncludeRoot is the directory every header is written under, and the
// prefix of every generated #include.
const IncludeRoot = "lilium-sci"

func init() {
	codegen.Register(Backend{})
}

type Backend struct{}

func (Backend) Name() string { return "cheader" }

func (Backend) NewFile(path ast.Path, cookie uint64) codegen.FileGen {
	return &header{path: path, guard: Guard(path, cookie)}
}

// WriteMisc is a no-op; headers have no index.
func (Backend) WriteMisc(*vfs.Disk, []codegen.Unit) error { return nil }

// Guard builds the include guard for path: a fixed prefix, each path
// component in upper case, and the cookie in hex.
func Guard(path ast.Path, cookie uint64) string {
	var sb strings.Builder
	sb.WriteString("__LILIUM__")
	for _, c := range path.Components {
		for _, r := range strings.ToUpper(c) {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
				sb.WriteRune(r)
			} else {
				sb.WriteByte('_')
			}
		}
		sb.WriteByte('_')
	}
	fmt.Fprintf(&sb, "%016X", cookie)
	return sb.String()
}

// header is the FileGen for one input. Items are collected as render
// trees while the file is walked and written out by VisitFooter, once
// every nested visitor has finished.
type header struct {
	visit.Active
	path  ast.Path
	guard string
	items []fmt.Stringer
	out   strings.Builder
}

func (h *header) VisitHeader() {
	fmt.Fprintf(&h.out, "#ifndef %s\n#define %s\n", h.guard, h.guard)
	h.out.WriteString("#ifdef __cplusplus\nextern \"C\"{\n#endif /* __cplusplus */\n")
}

func (h *header) VisitDoc(string) {}

func (h *header) VisitItem() visit.ItemVisitor { return &itemWriter{h: h} }

func (h *header) VisitFooter() {
	for _, it := range h.items {
		h.out.WriteString(it.String())
	}
	h.items = nil
	h.out.WriteString("#ifdef __cplusplus\n}\n#endif /* __cplusplus */\n")
	fmt.Fprintf(&h.out, "#endif /* %s */\n", h.guard)
}

func (h *header) Output() (string, []byte) {
	return IncludeRoot + "/" + h.path.Slash() + ".h", []byte(h.out.String())
}

func (h *header) add(item fmt.Stringer) { h.items = append(h.items, item) }

type itemWriter struct {
	visit.Active
	h *header
}

func (w *itemWriter) VisitDoc(string) {}

func (w *itemWriter) VisitDirective(name string) {
	body, ok := directives[name]
	if !ok {
		codegen.Fatalf("cheader: unknown directive %s", name)
	}
	w.h.add(text(body))
}

func (w *itemWriter) VisitUse(_ bool, path ast.Path) {
	w.h.add(text("#include <" + IncludeRoot + "/" + path.Slash() + ".h>\n"))
}

func (w *itemWriter) VisitConst() visit.ConstItemVisitor {
	c := &constWriter{}
	w.h.add(c)
	return c
}

func (w *itemWriter) VisitFn() visit.FnItemVisitor {
	f := &fnWriter{}
	w.h.add(f)
	return f
}

func (w *itemWriter) VisitTypeAlias() visit.TypeAliasVisitor {
	t := &typeAliasWriter{}
	w.h.add(t)
	return t
}

func (w *itemWriter) VisitStruct() visit.StructVisitor {
	s := &structWriter{}
	w.h.add(s)
	return s
}

// constWriter emits an untyped #define; the declared type is not rendered.
type constWriter struct {
	visit.Active
	name  string
	value expr
}

func (c *constWriter) VisitName(name string)         { c.name = name }
func (c *constWriter) VisitType() visit.TypeVisitor  { return visit.NopTypeVisitor{} }
func (c *constWriter) VisitValue() visit.ExprVisitor { return &c.value }

func (c *constWriter) String() string {
	return fmt.Sprintf("#define %s %s\n", c.name, grouped(c.value.String()))
}

type fnWriter struct {
	visit.Active
	name  string
	proto declarator
	sysno expr
}

func (f *fnWriter) VisitName(name string) {
	f.name = name
	f.proto.name = name
}

func (f *fnWriter) VisitSignature() visit.SignatureVisitor {
	p := &paramsSuffix{d: &f.proto, proto: true}
	f.proto.attach(p)
	return p
}

func (f *fnWriter) VisitSysno() visit.ExprVisitor { return &f.sysno }

func (f *fnWriter) String() string {
	return fmt.Sprintf(`#if __LILIUM_WANT_SYSNO
#define __SYS_%s %s
#endif /* __LILIUM_WANT_SYSNO */
#if __LILIUM_WANT_SYSPROTO
extern %s;
#endif /* __LILIUM_WANT_SYSPROTO */
`, f.name, grouped(f.sysno.String()), &f.proto)
}

type typeAliasWriter struct {
	visit.Active
	def declarator
}

func (t *typeAliasWriter) VisitName(name string)        { t.def.name = name }
func (t *typeAliasWriter) VisitType() visit.TypeVisitor { return &typeWriter{d: &t.def} }

func (t *typeAliasWriter) String() string { return fmt.Sprintf("typedef %s;\n", &t.def) }

var directives = map[string]string{
	"%define_int_types": `typedef signed char __i8;
typedef unsigned char __u8;
typedef signed short __i16;
typedef unsigned short __u16;
typedef signed int __i32;
typedef unsigned int __u32;
typedef signed long __i64;
typedef unsigned long __u64;
typedef signed long __ilong;
typedef unsigned long __ulong;
#define __LILIUM_SIZEOF_POINTER__ (sizeof(void*))
`,
	"%define_handle_types": `#ifndef __HAS_LILIUM_HANDLE_DEF__
#define __handle
#define __shared_handle
#define __HAS_LILIUM_HANDLE_DEF__
#endif /*__HAS_LILIUM_HANDLE_DEF__*/
`,
	"%def_sysno": `#ifndef __LILIUM_WANT_SYSNO
#define __LILIUM_WANT_SYSNO 1
#endif /* __LILIUM_WANT_SYSNO */
`,
	"%def_sys_proto": `#ifndef __LILIUM_WANT_SYSPROTO
#define __LILIUM_WANT_SYSPROTO 1
#endif /* __LILIUM_WANT_SYSPROTO */
`,
	"%def_syscall_num_helpers": `#define __LILIUM_SYSNO(__subsys, __sysno) ((__subsys << 12) | __sysno)
#define __LILIUM_ERRNO(__subsys, __errno) (-((__subsys << 8) | (-__errno)))
`,
}
