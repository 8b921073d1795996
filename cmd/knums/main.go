// Command knums compiles a tree of .knum definition files with one backend.
//
//	knums [-defs dir] [-out dir] [-backend name] [-stamp file] [-v]
//
// Every file under -defs is lexed and parsed before anything is rendered.
// Outputs, the knums.d dependency file and the stamp are written under -out.
// KNUMS_SEED fixes the run key so that repeated runs produce identical guards.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"knums/pkg/codegen"
	_ "knums/pkg/codegen/cheader"
	_ "knums/pkg/codegen/markdown"
	"knums/pkg/cookie"
	"knums/pkg/lexer"
	"knums/pkg/parser"
	"knums/pkg/vfs"
)

const (
	sourceExt = ".knum"
	seedEnv   = "KNUMS_SEED"
)

// Exit statuses.
const (
	exitOK       = 0
	exitReported = 1
	exitFatal    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stderr))
}

type options struct {
	defs    string
	out     string
	backend string
	stamp   string
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("knums", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.defs, "defs", "defs", "source root to search for "+sourceExt+" files")
	fs.StringVar(&opts.out, "out", "include", "output root")
	fs.StringVar(&opts.backend, "backend", "cheader", "backend: "+strings.Join(codegen.Backends(), ", "))
	fs.StringVar(&opts.stamp, "stamp", "", "stamp file touched after a successful run (default <out>/stamp)")
	fs.BoolVar(&opts.verbose, "v", false, "print one line per rendered file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.stamp == "" {
		opts.stamp = filepath.Join(opts.out, "stamp")
	}
	return opts, nil
}

// seed returns the run state: fixed when KNUMS_SEED is set, random otherwise.
func seed(getenv func(string) string) (cookie.State, error) {
	v := getenv(seedEnv)
	if v == "" {
		st, err := cookie.Random()
		if err != nil {
			return cookie.State{}, &codegen.Error{Kind: codegen.IO, Op: "seed", Err: err}
		}
		return st, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return cookie.State{}, &codegen.Error{Kind: codegen.InvalidInput, Op: seedEnv, Err: err}
	}
	return cookie.Seeded(n), nil
}

// stageError tags a failure with the stage that produced it.
type stageError struct {
	stage string
	file  string
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("%s error: %s: %v", e.stage, e.file, e.err) }

func parseUnit(name string, data []byte) (codegen.Unit, error) {
	tokens, err := lexer.Lex(string(data))
	if err != nil {
		return codegen.Unit{}, &stageError{"lex", name, err}
	}
	file, err := parser.Parse(tokens)
	if err != nil {
		return codegen.Unit{}, &stageError{"parse", name, err}
	}
	return codegen.NewUnit(name, file), nil
}

// load parses every source file under root, in path order, stopping at the
// first failure.
func load(root string, stderr io.Writer) ([]codegen.Unit, int) {
	src := vfs.NewDisk()
	if err := src.LoadFrom(root, sourceExt); err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return nil, exitReported
	}

	var units []codegen.Unit
	for _, name := range src.List() {
		data, err := src.Read(name)
		if err != nil {
			fmt.Fprintln(stderr, "read error:", err)
			return nil, exitReported
		}
		u, err := parseUnit(name, data)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return nil, exitFatal
		}
		units = append(units, u)
	}
	return units, exitOK
}

func run(args []string, getenv func(string) string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "usage error:", err)
		return exitReported
	}

	state, err := seed(getenv)
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return exitReported
	}
	if _, err := codegen.Lookup(opts.backend); err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return exitReported
	}

	units, status := load(opts.defs, stderr)
	if status != exitOK {
		return status
	}

	cfg := codegen.Config{
		Backend: opts.backend,
		OutDir:  opts.out,
		State:   state,
		Disk:    vfs.NewDisk(),
	}
	if opts.verbose {
		cfg.Progress = stderr
	}
	if err := codegen.Run(units, cfg); err != nil {
		fmt.Fprintln(stderr, "codegen error:", err)
		var fatal *codegen.FatalError
		if errors.As(err, &fatal) {
			return exitFatal
		}
		return exitReported
	}

	inputs := make([]string, len(units))
	for i, u := range units {
		inputs[i] = filepath.ToSlash(filepath.Join(opts.defs, u.Source))
	}
	if err := codegen.WriteManifest(cfg.Disk, filepath.ToSlash(opts.stamp), inputs); err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return exitReported
	}
	if err := cfg.Disk.PersistTo(opts.out); err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return exitReported
	}
	if err := touch(opts.stamp); err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return exitReported
	}
	return exitOK
}

func touch(name string) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	return os.WriteFile(name, nil, 0644)
}
