// Package codegen drives a backend over parsed files and collects the
// rendered outputs on a vfs.Disk.
package codegen

import (
	"fmt"
	"io"
	"sort"

	"knums/pkg/ast"
	"knums/pkg/cookie"
	"knums/pkg/vfs"
	"knums/pkg/visit"
)

// Unit is one parsed input.
type Unit struct {
	Source string // root-relative file name, e.g. "base/hdl.knum"
	Path   ast.Path
	File   *ast.File
}

// NewUnit derives the unit's Path from its source file name.
func NewUnit(source string, file *ast.File) Unit {
	return Unit{Source: source, Path: ast.PathFromFile(source), File: file}
}

// FileGen renders one file. It is walked once and then asked for its output.
type FileGen interface {
	visit.FileVisitor
	Output() (relPath string, data []byte)
}

type Backend interface {
	Name() string
	// NewFile returns the generator for one file; cookie is unique to path
	// within a run.
	NewFile(path ast.Path, cookie uint64) FileGen
	// WriteMisc writes outputs that span all files, such as an index.
	WriteMisc(disk *vfs.Disk, units []Unit) error
}

var backends = map[string]Backend{}

// Register makes a backend available to Lookup. It is called from the
// init function of each backend package.
func Register(b Backend) {
	if _, dup := backends[b.Name()]; dup {
		panic("codegen: backend registered twice: " + b.Name())
	}
	backends[b.Name()] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, &Error{Kind: InvalidInput, Op: "select backend", Err: fmt.Errorf("%w %q", ErrUnknownBackend, name)}
	}
	return b, nil
}

// Backends lists the registered backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Config struct {
	Backend  string
	OutDir   string       // mixed into every cookie
	State    cookie.State // run key
	Disk     *vfs.Disk    // receives the outputs
	Progress io.Writer    // per-file progress lines; nil for none
}

// Run renders every unit, in order, with the configured backend.
//
// The run state is mixed with the backend name and output directory once;
// each file's cookie then comes from mixing in that file's path. A
// *FatalError raised while rendering, or a *visit.PositionError from the
// walk, stops the run and is returned as a *FatalError.
func Run(units []Unit, cfg Config) (err error) {
	b, err := Lookup(cfg.Backend)
	if err != nil {
		return err
	}

	defer func() {
		switch r := recover().(type) {
		case nil:
		case *FatalError:
			err = r
		case *visit.PositionError:
			err = &FatalError{Msg: r.Error()}
		default:
			panic(r)
		}
	}()

	run := cfg.State.Mix(b.Name()).Mix(cfg.OutDir)
	for _, u := range units {
		gen := b.NewFile(u.Path, run.Mix(u.Path.Slash()).Sum())
		visit.WalkFile(gen, u.File)

		rel, data := gen.Output()
		if err := cfg.Disk.Write(rel, data); err != nil {
			return &Error{Kind: IO, Op: "write " + rel, Err: err}
		}
		if cfg.Progress != nil {
			fmt.Fprintf(cfg.Progress, "%s -> %s\n", u.Source, rel)
		}
	}

	if err := b.WriteMisc(cfg.Disk, units); err != nil {
		return &Error{Kind: IO, Op: b.Name(), Err: err}
	}
	return nil
}
