package rtlexpr

import "strings"

// Equal reports structural equality between a and b. It is type-sensitive
// for Typed nodes and size-sensitive for Assign nodes. If either root's
// Op is Wild, the comparison short-circuits to true: Wild matches
// whatever occupies its position, checked only at this level, not by
// unifying through the rest of the tree.
func Equal(a, b Exp) bool {
	if a.Op() == OpWild || b.Op() == OpWild {
		return true
	}
	switch av := a.(type) {
	case *Const:
		bv, ok := b.(*Const)
		return ok && constEqual(av, bv)
	case *Terminal:
		bv, ok := b.(*Terminal)
		return ok && av.op == bv.op
	case *Unary:
		bv, ok := b.(*Unary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1)
	case *Binary:
		bv, ok := b.(*Binary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2)
	case *Ternary:
		bv, ok := b.(*Ternary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2) && Equal(av.E3, bv.E3)
	case *Typed:
		bv, ok := b.(*Typed)
		return ok && av.typ.Equal(bv.typ) && Equal(av.E1, bv.E1)
	case *Assign:
		bv, ok := b.(*Assign)
		return ok && av.size == bv.size && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2)
	case *FlagDef:
		bv, ok := b.(*FlagDef)
		return ok && rtlEqual(av.rtl, bv.rtl) && Equal(av.E1, bv.E1)
	default:
		assert(false, "Equal: unhandled Exp type for op %v", a.Op())
		return false
	}
}

// EqualIgnoringType is like Equal, except that when b is a Typed node it
// is unwrapped once and the comparison proceeds against its child
// instead. a is never unwrapped: only the "other side" of the comparison
// is.
func EqualIgnoringType(a, b Exp) bool {
	if a.Op() == OpWild || b.Op() == OpWild {
		return true
	}
	if tb, ok := b.(*Typed); ok {
		return Equal(a, tb.E1)
	}
	switch av := a.(type) {
	case *Const:
		bv, ok := b.(*Const)
		return ok && constEqual(av, bv)
	case *Terminal:
		bv, ok := b.(*Terminal)
		return ok && av.op == bv.op
	case *Unary:
		bv, ok := b.(*Unary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1)
	case *Binary:
		bv, ok := b.(*Binary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2)
	case *Ternary:
		bv, ok := b.(*Ternary)
		return ok && av.op == bv.op && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2) && Equal(av.E3, bv.E3)
	case *Typed:
		bv, ok := b.(*Typed)
		return ok && av.typ.Equal(bv.typ) && Equal(av.E1, bv.E1)
	case *Assign:
		bv, ok := b.(*Assign)
		return ok && av.size == bv.size && Equal(av.E1, bv.E1) && Equal(av.E2, bv.E2)
	case *FlagDef:
		bv, ok := b.(*FlagDef)
		return ok && rtlEqual(av.rtl, bv.rtl) && Equal(av.E1, bv.E1)
	default:
		assert(false, "EqualIgnoringType: unhandled Exp type for op %v", a.Op())
		return false
	}
}

func constEqual(a, b *Const) bool {
	if a.op != b.op {
		return false
	}
	switch a.op {
	case OpIntConst, OpCodeAddrConst:
		return a.i == b.i
	case OpFltConst:
		return a.f == b.f
	case OpStrConst:
		return a.s == b.s
	default:
		assert(false, "constEqual: unhandled const op %v", a.op)
		return false
	}
}

func rtlEqual(a, b RTL) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}

// Less reports whether a sorts before b under the total order: first by
// Op tag, then by payload, then lexicographically on children. Since
// every Op value is used by exactly one concrete type, Op already
// separates nodes of different shape; equal Ops always land on the same
// Go type, so the per-variant comparisons below never need a type
// fallback.
func Less(a, b Exp) bool { return compareExp(a, b) < 0 }

// LessIgnoringType is the type-insensitive order variant: identical to
// Less except that Typed nodes are ordered by Op and child alone, without
// consulting the type handle.
func LessIgnoringType(a, b Exp) bool { return compareExpIgnoringType(a, b) < 0 }

func compareExp(a, b Exp) int {
	if a.Op() != b.Op() {
		if a.Op() < b.Op() {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case *Const:
		bv := b.(*Const)
		switch av.op {
		case OpIntConst, OpCodeAddrConst:
			return cmpInt64(av.i, bv.i)
		case OpFltConst:
			return cmpFloat64(av.f, bv.f)
		case OpStrConst:
			return strings.Compare(av.s, bv.s)
		default:
			assert(false, "compareExp: unhandled const op %v", av.op)
			return 0
		}
	case *Terminal:
		return 0
	case *Unary:
		bv := b.(*Unary)
		return compareExp(av.E1, bv.E1)
	case *Binary:
		bv := b.(*Binary)
		if c := compareExp(av.E1, bv.E1); c != 0 {
			return c
		}
		return compareExp(av.E2, bv.E2)
	case *Ternary:
		bv := b.(*Ternary)
		if c := compareExp(av.E1, bv.E1); c != 0 {
			return c
		}
		if c := compareExp(av.E2, bv.E2); c != 0 {
			return c
		}
		return compareExp(av.E3, bv.E3)
	case *Typed:
		bv := b.(*Typed)
		if av.typ.Less(bv.typ) {
			return -1
		}
		if bv.typ.Less(av.typ) {
			return 1
		}
		return compareExp(av.E1, bv.E1)
	case *Assign:
		bv := b.(*Assign)
		if av.size != bv.size {
			if av.size < bv.size {
				return -1
			}
			return 1
		}
		if c := compareExp(av.E1, bv.E1); c != 0 {
			return c
		}
		return compareExp(av.E2, bv.E2)
	case *FlagDef:
		bv := b.(*FlagDef)
		if c := compareRTL(av.rtl, bv.rtl); c != 0 {
			return c
		}
		return compareExp(av.E1, bv.E1)
	default:
		assert(false, "compareExp: unhandled Exp type for op %v", a.Op())
		return 0
	}
}

func compareExpIgnoringType(a, b Exp) int {
	if a.Op() != b.Op() {
		if a.Op() < b.Op() {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case *Typed:
		bv := b.(*Typed)
		return compareExpIgnoringType(av.E1, bv.E1)
	case *Unary:
		bv := b.(*Unary)
		return compareExpIgnoringType(av.E1, bv.E1)
	case *Binary:
		bv := b.(*Binary)
		if c := compareExpIgnoringType(av.E1, bv.E1); c != 0 {
			return c
		}
		return compareExpIgnoringType(av.E2, bv.E2)
	case *Ternary:
		bv := b.(*Ternary)
		if c := compareExpIgnoringType(av.E1, bv.E1); c != 0 {
			return c
		}
		if c := compareExpIgnoringType(av.E2, bv.E2); c != 0 {
			return c
		}
		return compareExpIgnoringType(av.E3, bv.E3)
	case *Assign:
		bv := b.(*Assign)
		if av.size != bv.size {
			if av.size < bv.size {
				return -1
			}
			return 1
		}
		if c := compareExpIgnoringType(av.E1, bv.E1); c != 0 {
			return c
		}
		return compareExpIgnoringType(av.E2, bv.E2)
	case *FlagDef:
		bv := b.(*FlagDef)
		if c := compareRTL(av.rtl, bv.rtl); c != 0 {
			return c
		}
		return compareExpIgnoringType(av.E1, bv.E1)
	default:
		return compareExp(a, b)
	}
}

func compareRTL(a, b RTL) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Less(b) {
		return -1
	}
	if b.Less(a) {
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
