// Package rtlexpr implements the symbolic-expression intermediate
// representation used by a machine-code decompiler and its algebraic
// simplifier: a small closed set of tree node kinds (Const, Terminal,
// Unary, Binary, Ternary, Typed, Assign, FlagDef), a peephole simplifier
// over that tree, and a binary codec for it.
//
// The package deliberately knows nothing about the control-flow graph,
// the procedure/program model, dataflow analysis, instruction decoding,
// or the type system beyond the narrow Type, RTL, and Statement
// interfaces declared below. Those subsystems are the caller's
// responsibility.
package rtlexpr

import (
	"errors"
	"fmt"
	"io"
)

// Default bit width for an Assign whose LHS does not carry its own size.
const DefaultAssignSize = 32

// Sentinel errors surfaced by Deserialize when it encounters malformed
// input. The surrounding record is skipped; partial data is dropped.
var (
	ErrUnknownTag = errors.New("rtlexpr: unknown node tag")
	ErrUnknownOp  = errors.New("rtlexpr: unknown operator")
	ErrMissingEnd = errors.New("rtlexpr: missing end-of-node marker")
	ErrShortRead  = errors.New("rtlexpr: short read")
)

// Type is the opaque handle the core borrows from the decompiler's type
// system. Typed nodes hold one but never interpret it beyond these six
// operations.
type Type interface {
	Clone() Type
	Equal(other Type) bool
	Less(other Type) bool
	String() string
	SizeInBits() int
	Serialize(w io.Writer) error
}

// RTL is the opaque handle to a small sequence of expressions produced
// during instruction lifting. FlagDef attaches one to its parameter list
// but never looks inside it.
type RTL interface {
	Clone() RTL
	Equal(other RTL) bool
	Less(other RTL) bool
	String() string
	Serialize(w io.Writer) error
}

// TypeDecoder reconstructs a Type handle from the bytes a prior
// Type.Serialize wrote. Deserialize takes one as a parameter because
// this package never knows a concrete Type implementation to construct
// on its own.
type TypeDecoder func(r io.Reader) (Type, error)

// RTLDecoder is the RTL analog of TypeDecoder.
type RTLDecoder func(r io.Reader) (RTL, error)

// Statement is the opaque handle to the external dataflow world that
// Assign forwards calls to. The core never stores a Statement; it only
// asks one for its LHS/RHS or prints it on the caller's behalf.
type Statement interface {
	Left() Exp
	Right() Exp
	NumUsedBy() int
	PrintAsUse() string
	PrintAsUseBy() string
}

// assert panics if cond is false. Used for programmer errors: wrong-arity
// structural access, an unhandled Op in an exhaustive switch, or a
// violated data-model invariant. These are never expected to fire against
// well-formed input and are not recovered from.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("rtlexpr: "+format, args...))
	}
}
