package cheader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"knums/pkg/ast"
	"knums/pkg/codegen"
	"knums/pkg/cookie"
	"knums/pkg/parser"
	"knums/pkg/vfs"
	"knums/pkg/visit"
)

const testCookie = 0x0123456789ABCDEF

const envelopeHead = `#ifndef __LILIUM__A_B_0123456789ABCDEF
#define __LILIUM__A_B_0123456789ABCDEF
#ifdef __cplusplus
extern "C"{
#endif /* __cplusplus */
`

const envelopeTail = `#ifdef __cplusplus
}
#endif /* __cplusplus */
#endif /* __LILIUM__A_B_0123456789ABCDEF */
`

func render(t *testing.T, src string) string {
	t.Helper()
	f, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	gen := Backend{}.NewFile(ast.PathFromFile("a/b.knum"), testCookie)
	visit.WalkFile(gen, f)
	rel, data := gen.Output()
	if rel != "lilium-sci/a/b.h" {
		t.Errorf("output path = %q", rel)
	}
	return string(data)
}

// renderItems renders src and strips the guard and extern "C" envelope.
func renderItems(t *testing.T, src string) string {
	t.Helper()
	out := render(t, src)
	if !strings.HasPrefix(out, envelopeHead) || !strings.HasSuffix(out, envelopeTail) {
		t.Fatalf("missing envelope:\n%s", out)
	}
	return strings.TrimSuffix(strings.TrimPrefix(out, envelopeHead), envelopeTail)
}

func TestEnvelope(t *testing.T) {
	if got := render(t, "//! file docs are dropped\n"); got != envelopeHead+envelopeTail {
		t.Errorf("empty file rendered as:\n%s", got)
	}
}

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "Const",
			src:  "const X : i32 = 1 + 2 * 3;",
			want: "#define X ((1ULL) + ((2ULL) * (3ULL)))\n",
		},
		{
			name: "Const identifier",
			src:  "const Y : u64 = X;",
			want: "#define Y (X)\n",
		},
		{
			name: "Const literal",
			src:  "const Z : u64 = 0x1F;",
			want: "#define Z (31ULL)\n",
		},
		{
			name: "Const complement",
			src:  "const M : u64 = !0x10;",
			want: "#define M (~ (16ULL))\n",
		},
		{
			name: "Const uuid",
			src:  "const ID : Uuid = U{00000000-0000-0001-0000-000000000002};",
			want: "#define ID ((Uuid){.minor = 2, .major = 1})\n",
		},
		{
			name: "Docs are dropped",
			src:  "/// The answer\nconst A : i32 = 42;",
			want: "#define A (42ULL)\n",
		},
		{
			name: "Use",
			src:  "use base::types;",
			want: "#include <lilium-sci/base/types.h>\n",
		},
		{
			name: "Inline use with leading separator",
			src:  "inline use ::base::hdl;",
			want: "#include <lilium-sci/base/hdl.h>\n",
		},
		{
			name: "Type alias",
			src:  "type Callback = *const fn(hdl: *handle Handle) -> !;",
			want: "typedef void (*Callback)(Handle * __handle hdl);\n",
		},
		{
			name: "Type alias to array",
			src:  "type Name = [char; 32];",
			want: "typedef char Name[32ULL];\n",
		},
		{
			name: "Noreturn syscall",
			src:  "fn Exit(code: i32) -> ! = 3;",
			want: `#if __LILIUM_WANT_SYSNO
#define __SYS_Exit (3ULL)
#endif /* __LILIUM_WANT_SYSNO */
#if __LILIUM_WANT_SYSPROTO
extern _Noreturn void Exit(__i32 code);
#endif /* __LILIUM_WANT_SYSPROTO */
`,
		},
		{
			name: "Syscall without parameters",
			src:  "fn Yield() -> void = SYS_BASE + 4;",
			want: `#if __LILIUM_WANT_SYSNO
#define __SYS_Yield (SYS_BASE + (4ULL))
#endif /* __LILIUM_WANT_SYSNO */
#if __LILIUM_WANT_SYSPROTO
extern void Yield(void);
#endif /* __LILIUM_WANT_SYSPROTO */
`,
		},
		{
			name: "Syscall returning pointer",
			src:  "fn GetName(buf: *mut [u8; 16], SysResult) -> *const char = 5;",
			want: `#if __LILIUM_WANT_SYSNO
#define __SYS_GetName (5ULL)
#endif /* __LILIUM_WANT_SYSNO */
#if __LILIUM_WANT_SYSPROTO
extern char const*GetName(__u8 (*buf)[16ULL], SysResult);
#endif /* __LILIUM_WANT_SYSPROTO */
`,
		},
		{
			name: "Struct",
			src:  "struct Point : align(8) { x: i32, y: i32, pad([u8; 8]) }",
			want: `typedef struct Point {
    __i32 x;
    __i32 y;
    __u8 __pad[8ULL];
} Point __attribute__((__aligned__(8ULL)));
`,
		},
		{
			name: "Function pointer field",
			src:  "struct Ops { /// Runs it\n run: *const fn(*mut char) -> i32, }",
			want: `typedef struct Ops {
    __i32 (*run)(char *);
} Ops;
`,
		},
		{
			name: "Generic struct",
			src:  "struct Slice<T> { ptr: *const T, len: ulong }",
			want: `typedef struct Slice {
    T const*ptr;
    __ulong len;
} Slice;
`,
		},
		{
			name: "Empty union",
			src:  "union Empty {}",
			want: "typedef union Empty {\n} Empty;\n",
		},
		{
			name: "Opaque",
			src:  "struct Thread opaque;",
			want: "typedef struct Thread Thread;\n",
		},
		{
			name: "Opaque with repr",
			src:  "struct Handle opaque(u64);",
			want: "typedef struct Handle Handle;\n",
		},
		{
			name: "Option",
			src:  "struct ThreadStartOption : option(U{00000000-0000-0001-0000-000000000002}), option_body(32, 64) { flags: u32 }",
			want: `typedef struct ThreadStartOption {
    __u32 flags;
    struct{ ExtendedOptionHead head; union{unsigned char __pad0[32ULL]; unsigned char __pad1[64ULL]; }; };
} ThreadStartOption;
#define __LILIUM_THREAD_START_OPTION_ID ((Uuid){.minor = 2, .major = 1})
`,
		},
		{
			name: "Directive",
			src:  "%def_sysno",
			want: "#ifndef __LILIUM_WANT_SYSNO\n#define __LILIUM_WANT_SYSNO 1\n#endif /* __LILIUM_WANT_SYSNO */\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderItems(t, tt.src); got != tt.want {
				t.Errorf("rendered:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestDirectives(t *testing.T) {
	for name, body := range directives {
		t.Run(name, func(t *testing.T) {
			if got := renderItems(t, name); got != body {
				t.Errorf("rendered:\n%s\nwant:\n%s", got, body)
			}
		})
	}
}

func TestItemsKeepSourceOrder(t *testing.T) {
	got := renderItems(t, "%define_int_types\nuse a::c;\nconst X : i32 = 1;\ntype T = u8;")
	want := directives["%define_int_types"] +
		"#include <lilium-sci/a/c.h>\n" +
		"#define X (1ULL)\n" +
		"typedef __u8 T;\n"
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

// padto is parsed but not rendered yet: the struct comes out without the
// trailing padding.
func TestPadToNotRendered(t *testing.T) {
	got := renderItems(t, "struct Buf { len: u32, padto(64) }")
	want := "typedef struct Buf {\n    __u32 len;\n} Buf;\n"
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

func TestMacroName(t *testing.T) {
	tests := map[string]string{
		"ThreadStartOption": "THREAD_START_OPTION",
		"Option":            "OPTION",
		"already_snake":     "ALREADY_SNAKE",
		"IOVec":             "I_O_VEC",
	}
	for in, want := range tests {
		if got := macroName(in); got != want {
			t.Errorf("macroName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpressionRoundTrip(t *testing.T) {
	env := map[string]uint64{"X": 7, "Y": 100}
	inputs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"0x1F << 4 | 0o17",
		"-X + 1",
		"!0 ^ Y",
		"X - Y - 1",
		"1_000 & 0xFF",
		"+5 >> 1",
		"0xFFFFFFFFFFFFFFFF",
		"-(X * Y) & !(1 << 3)",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			orig, err := parser.ParseExpr(in)
			if err != nil {
				t.Fatalf("ParseExpr(%q) failed: %v", in, err)
			}
			var e expr
			visit.WalkExpr(&e, orig)
			rendered := e.String()

			back := strings.NewReplacer("ULL", "", "~", "!").Replace(rendered)
			reparsed, err := parser.ParseExpr(back)
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", rendered, err)
			}

			want, ok := ast.Eval(orig, env)
			if !ok {
				t.Fatalf("Eval(%s) failed", orig)
			}
			got, ok := ast.Eval(reparsed, env)
			if !ok || got != want {
				t.Errorf("%q renders as %q, which evaluates to %d, want %d", in, rendered, got, want)
			}
		})
	}
}

func TestGrouping(t *testing.T) {
	tests := []struct {
		in      string
		grouped string
		bare    string
	}{
		{"X", "(X)", "X"},
		{"(1ULL)", "(1ULL)", "1ULL"},
		{"((1ULL) + (2ULL))", "((1ULL) + (2ULL))", "(1ULL) + (2ULL)"},
		{"(1ULL) + (2ULL)", "((1ULL) + (2ULL))", "(1ULL) + (2ULL)"},
	}
	for _, tt := range tests {
		if got := grouped(tt.in); got != tt.grouped {
			t.Errorf("grouped(%q) = %q, want %q", tt.in, got, tt.grouped)
		}
		if got := bare(tt.in); got != tt.bare {
			t.Errorf("bare(%q) = %q, want %q", tt.in, got, tt.bare)
		}
	}
}

func runCheader(t *testing.T, units []codegen.Unit, seed uint64, out string) *vfs.Disk {
	t.Helper()
	disk := vfs.NewDisk()
	err := codegen.Run(units, codegen.Config{
		Backend: "cheader",
		OutDir:  out,
		State:   cookie.Seeded(seed),
		Disk:    disk,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return disk
}

func unit(t *testing.T, source, src string) codegen.Unit {
	t.Helper()
	f, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%s) failed: %v", source, err)
	}
	return codegen.NewUnit(source, f)
}

func TestEndToEnd(t *testing.T) {
	units := []codegen.Unit{unit(t, "a/b.knum", "const X : i32 = 1 + 2 * 3;\n")}
	disk := runCheader(t, units, 7, "include")

	if err := codegen.WriteManifest(disk, "include/stamp", []string{"a/b.knum"}); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	root := t.TempDir()
	if err := disk.PersistTo(root); err != nil {
		t.Fatalf("PersistTo failed: %v", err)
	}

	header, err := os.ReadFile(filepath.Join(root, "lilium-sci", "a", "b.h"))
	if err != nil {
		t.Fatalf("header not written: %v", err)
	}
	c := cookie.Seeded(7).Mix("cheader").Mix("include").Mix("a/b").Sum()
	guard := Guard(ast.PathFromFile("a/b.knum"), c)
	want := fmt.Sprintf(`#ifndef %[1]s
#define %[1]s
#ifdef __cplusplus
extern "C"{
#endif /* __cplusplus */
#define X ((1ULL) + ((2ULL) * (3ULL)))
#ifdef __cplusplus
}
#endif /* __cplusplus */
#endif /* %[1]s */
`, guard)
	if string(header) != want {
		t.Errorf("header:\n%s\nwant:\n%s", header, want)
	}

	manifest, err := os.ReadFile(filepath.Join(root, "knums.d"))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if string(manifest) != "include/stamp: a/b.knum\n" {
		t.Errorf("manifest = %q", manifest)
	}
}

func TestDeterminism(t *testing.T) {
	units := func() []codegen.Unit {
		return []codegen.Unit{
			unit(t, "base/hdl.knum", "%def_sysno\nstruct Handle opaque;\n"),
			unit(t, "thread.knum", "use base::hdl;\nfn Yield() -> void = 1;\n"),
		}
	}

	first := runCheader(t, units(), 42, "include")
	second := runCheader(t, units(), 42, "include")
	for _, name := range first.List() {
		a, _ := first.Read(name)
		b, err := second.Read(name)
		if err != nil || string(a) != string(b) {
			t.Errorf("%s differs between identical runs", name)
		}
	}

	guardOf := func(d *vfs.Disk) string {
		data, err := d.Read("lilium-sci/thread.h")
		if err != nil {
			t.Fatal(err)
		}
		line, _, _ := strings.Cut(string(data), "\n")
		return line
	}
	base := guardOf(first)
	if other := guardOf(runCheader(t, units(), 43, "include")); other == base {
		t.Errorf("changing the seed kept guard %s", base)
	}
	if other := guardOf(runCheader(t, units(), 42, "out")); other == base {
		t.Errorf("changing the output directory kept guard %s", base)
	}
}

func TestGuardUniqueness(t *testing.T) {
	run := cookie.Seeded(1).Mix("cheader").Mix("include")
	seen := make(map[string]string, 10000)
	for i := 0; i < 10000; i++ {
		source := fmt.Sprintf("dir%d/file%d.knum", i%97, i)
		path := ast.PathFromFile(source)
		g := Guard(path, run.Mix(path.Slash()).Sum())
		if prev, dup := seen[g]; dup {
			t.Fatalf("guard %s shared by %s and %s", g, prev, source)
		}
		seen[g] = source
	}
}

func TestGuardSanitizesComponents(t *testing.T) {
	g := Guard(ast.Path{Components: []string{"sys-io", "v1.2"}}, 0xAB)
	if g != "__LILIUM__SYS_IO_V1_2_00000000000000AB" {
		t.Errorf("Guard = %q", g)
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Unknown directive", "%bogus", "unknown directive %bogus"},
		{"Array parameter", "type F = fn(v: [u8; 4]) -> void;", "parameter position"},
		{"Never field", "struct S { x: ! }", "type position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disk := vfs.NewDisk()
			err := codegen.Run([]codegen.Unit{unit(t, "bad.knum", tt.src)}, codegen.Config{
				Backend: "cheader",
				OutDir:  "include",
				State:   cookie.Seeded(0),
				Disk:    disk,
			})
			var fatal *codegen.FatalError
			if !errors.As(err, &fatal) {
				t.Fatalf("Run error = %v, want *codegen.FatalError", err)
			}
			if !strings.Contains(fatal.Msg, tt.want) {
				t.Errorf("message %q does not mention %q", fatal.Msg, tt.want)
			}
			if len(disk.List()) != 0 {
				t.Errorf("outputs written after a fatal error: %v", disk.List())
			}
		})
	}
}
