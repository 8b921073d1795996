package codegen

import (
	"errors"
	"fmt"
)

// Kind classifies reported errors.
type Kind int

const (
	IO Kind = iota
	InvalidInput
)

func (k Kind) String() string {
	if k == InvalidInput {
		return "invalid input"
	}
	return "io"
}

var ErrUnknownBackend = errors.New("unknown backend")

// Error is a reported failure: something the user can fix, such as a missing
// input directory or a misspelled backend name.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// FatalError aborts code generation. Backends raise it with Fatalf; Run
// recovers it and returns it, and no further files are rendered.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// Fatalf panics with a *FatalError.
func Fatalf(format string, args ...any) {
	panic(&FatalError{Msg: fmt.Sprintf(format, args...)})
}
