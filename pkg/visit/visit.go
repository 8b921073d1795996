// Package visit walks an ast.File in a single depth-first pass.
//
// Every node kind has a visitor interface and a Walk function. Each
// interface reports Present(); a Walk function given an absent visitor
// returns at once without looking at the subtree, so a backend skips
// anything it does not care about in constant time. Operations that
// descend into a child return a fresh visitor scoped to that child.
//
// For every interface there are three stock implementations:
//
//	Nop<Kind>       absent; its operations are never called
//	Forward<Kind>   wraps another visitor and delegates to it
//	Optional<Kind>  present only when the wrapped visitor is non-nil and present
package visit

import (
	"fmt"

	"knums/pkg/ast"
)

// Active is embedded by concrete visitors to report themselves present.
type Active struct{}

func (Active) Present() bool { return true }

// absent is embedded by the Nop visitors.
type absent struct{}

func (absent) Present() bool { return false }

func unreachable(op string) {
	panic(fmt.Sprintf("visit: %s called on an absent visitor", op))
}

// PositionError is the panic value raised when a type appears where the
// grammar forbids it, e.g. an array as a parameter type.
type PositionError struct {
	Position string // "parameter", "type" or "return"
	Type     ast.Type
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s type not allowed in %s position", e.Type, e.Position)
}
