// Package smtcheck decides, with an SMT solver, whether an expression and
// a candidate simplification of it agree for every assignment of their
// free terminals to 32-bit integers. It exists to check testable
// property 6 mechanically across the whole input space instead of only
// against a handful of examples. CheckEquivalent is built only when the
// "smt" build tag is set, since it links against a system Z3 install.
package smtcheck

import "github.com/arvo-decomp/rtlexpr"

// Result is the outcome of CheckEquivalent.
type Result struct {
	// Equivalent is true when no assignment of free terminals makes the
	// two expressions disagree.
	Equivalent bool

	// Counterexample holds one assignment (terminal name to value) for
	// which the two expressions disagree. Populated only when
	// Equivalent is false.
	Counterexample map[string]int32
}

// unsupportedOp is returned when an expression uses an operator this
// package's bit-vector encoding has no rule for (floating point,
// Size/FlagCall/table/list forms, or the Typed/Assign/FlagDef
// wrappers) — these fall outside the "free 32-bit integer terminals"
// model property 6 is scoped to.
type unsupportedOp struct {
	op rtlexpr.Op
}

func (e *unsupportedOp) Error() string {
	return "smtcheck: expression uses an operator outside the 32-bit integer model: " + e.op.String()
}
