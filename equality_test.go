package rtlexpr_test

import (
	"testing"

	"github.com/arvo-decomp/rtlexpr"
)

func reg(k int64) rtlexpr.Exp {
	return rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(k))
}

func TestEqual_Reflexive(t *testing.T) {
	e := rtlexpr.NewBinary(rtlexpr.OpPlus, reg(1), rtlexpr.NewIntConst(2))
	if !rtlexpr.Equal(e, e.Clone()) {
		t.Fatal("expected reflexive equality against clone")
	}
}

func TestEqual_Symmetric(t *testing.T) {
	a := rtlexpr.NewBinary(rtlexpr.OpPlus, reg(1), rtlexpr.NewIntConst(2))
	b := a.Clone()
	if rtlexpr.Equal(a, b) != rtlexpr.Equal(b, a) {
		t.Fatal("equality should be symmetric")
	}
}

func TestEqual_Transitive(t *testing.T) {
	a := rtlexpr.NewBinary(rtlexpr.OpPlus, reg(1), rtlexpr.NewIntConst(2))
	b := a.Clone()
	c := a.Clone()
	if !(rtlexpr.Equal(a, b) && rtlexpr.Equal(b, c) && rtlexpr.Equal(a, c)) {
		t.Fatal("equality should be transitive")
	}
}

func TestEqual_DifferentShapes(t *testing.T) {
	if rtlexpr.Equal(rtlexpr.NewIntConst(1), reg(1)) {
		t.Fatal("expected different node kinds to be unequal")
	}
	if rtlexpr.Equal(reg(1), reg(2)) {
		t.Fatal("expected different payloads to be unequal")
	}
}

func TestEqual_WildcardAsymmetry(t *testing.T) {
	x := reg(5)
	if !rtlexpr.Equal(rtlexpr.Wild, x) {
		t.Fatal("Wild.Equal(x) should be true")
	}
	if !rtlexpr.Equal(x, rtlexpr.Wild) {
		t.Fatal("x.Equal(Wild) should be true")
	}
	if !rtlexpr.Equal(rtlexpr.Wild, rtlexpr.Wild) {
		t.Fatal("Wild.Equal(Wild) should be true")
	}
}

func TestEqual_WildcardPositionLocal(t *testing.T) {
	// Wild only short-circuits at the position it occupies; it does not
	// unify through the rest of the tree.
	pattern := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.Wild, rtlexpr.NewIntConst(2))
	match := rtlexpr.NewBinary(rtlexpr.OpPlus, reg(9), rtlexpr.NewIntConst(2))
	mismatch := rtlexpr.NewBinary(rtlexpr.OpPlus, reg(9), rtlexpr.NewIntConst(3))
	if !rtlexpr.Equal(pattern, match) {
		t.Fatal("expected Wild operand to match any subtree there")
	}
	if rtlexpr.Equal(pattern, mismatch) {
		t.Fatal("expected the non-Wild operand to still need to match")
	}
}

func TestEqual_TypeSensitiveForTyped(t *testing.T) {
	a := rtlexpr.NewTyped(newFakeType("word", 32), reg(1))
	b := rtlexpr.NewTyped(newFakeType("word", 16), reg(1))
	if rtlexpr.Equal(a, b) {
		t.Fatal("expected Typed nodes with different types to be unequal")
	}
}

func TestEqualIgnoringType_UnwrapsOtherSide(t *testing.T) {
	bare := reg(1)
	typed := rtlexpr.NewTyped(newFakeType("word", 32), reg(1))
	if !rtlexpr.EqualIgnoringType(bare, typed) {
		t.Fatal("expected EqualIgnoringType to unwrap the Typed side")
	}
	if rtlexpr.EqualIgnoringType(typed, bare) {
		t.Fatal("expected EqualIgnoringType to only unwrap b, not a")
	}
}

func TestEqual_SizeSensitiveForAssign(t *testing.T) {
	a := rtlexpr.NewAssignSize(16, reg(1), rtlexpr.NewIntConst(0))
	b := rtlexpr.NewAssignSize(32, reg(1), rtlexpr.NewIntConst(0))
	if rtlexpr.Equal(a, b) {
		t.Fatal("expected different Assign sizes to be unequal")
	}
}

func TestLess_TotalOrder(t *testing.T) {
	a := rtlexpr.NewIntConst(1)
	b := rtlexpr.NewIntConst(2)
	c := reg(0)
	if !rtlexpr.Less(a, b) {
		t.Fatal("expected IntConst(1) < IntConst(2)")
	}
	if rtlexpr.Less(b, a) == rtlexpr.Less(a, b) {
		t.Fatal("expected strict asymmetry")
	}
	if !(rtlexpr.Less(a, c) || rtlexpr.Less(c, a)) {
		t.Fatal("expected a total order between different-op nodes")
	}
}

func TestLess_ConsistentWithEqual(t *testing.T) {
	a := rtlexpr.NewIntConst(5)
	b := rtlexpr.NewIntConst(5)
	if rtlexpr.Less(a, b) || rtlexpr.Less(b, a) {
		t.Fatal("equal nodes must not be Less than each other")
	}
}

func TestLess_TernaryComparesAllThreeChildren(t *testing.T) {
	// Regression for the documented bug: the original's total order for
	// Ternary skipped the middle child. Two ternaries differing only in
	// their middle child must still compare unequal under Less.
	a := rtlexpr.NewTernary(rtlexpr.OpTern, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(3))
	b := rtlexpr.NewTernary(rtlexpr.OpTern, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2), rtlexpr.NewIntConst(3))
	if !(rtlexpr.Less(a, b) || rtlexpr.Less(b, a)) {
		t.Fatal("expected Ternary nodes differing only in the middle child to compare unequal")
	}
}

func TestLess_TypedOrdersByTypeThenChild(t *testing.T) {
	a := rtlexpr.NewTyped(newFakeType("word", 16), reg(1))
	b := rtlexpr.NewTyped(newFakeType("word", 32), reg(1))
	if !rtlexpr.Less(a, b) {
		t.Fatal("expected the narrower type to sort first")
	}
}

func TestLessIgnoringType_IgnoresType(t *testing.T) {
	a := rtlexpr.NewTyped(newFakeType("word", 16), reg(1))
	b := rtlexpr.NewTyped(newFakeType("dword", 32), reg(1))
	if rtlexpr.LessIgnoringType(a, b) || rtlexpr.LessIgnoringType(b, a) {
		t.Fatal("expected LessIgnoringType to treat equal children as equal regardless of type")
	}
}
