package rtlexpr_test

import (
	"testing"

	"github.com/arvo-decomp/rtlexpr"
)

func TestConst(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		c := rtlexpr.NewIntConst(42)
		if c.Kind() != rtlexpr.ConstInt || c.Int() != 42 {
			t.Fatalf("unexpected const: %+v", c)
		}
	})
	t.Run("Flt", func(t *testing.T) {
		c := rtlexpr.NewFltConst(3.5)
		if c.Kind() != rtlexpr.ConstFlt || c.Flt() != 3.5 {
			t.Fatalf("unexpected const: %+v", c)
		}
	})
	t.Run("Str", func(t *testing.T) {
		c := rtlexpr.NewStrConst("hello")
		if c.Kind() != rtlexpr.ConstStr || c.Str() != "hello" {
			t.Fatalf("unexpected const: %+v", c)
		}
	})
	t.Run("CodeAddr", func(t *testing.T) {
		c := rtlexpr.NewCodeAddrConst(0x1000)
		if c.Kind() != rtlexpr.ConstCodeAddr || c.Int() != 0x1000 {
			t.Fatalf("unexpected const: %+v", c)
		}
	})
}

func TestIsWild(t *testing.T) {
	if !rtlexpr.IsWild(rtlexpr.Wild) {
		t.Fatal("expected Wild to report IsWild")
	}
	if rtlexpr.IsWild(rtlexpr.NewIntConst(1)) {
		t.Fatal("expected non-Wild to not report IsWild")
	}
}

func TestIntConstValue(t *testing.T) {
	if v, ok := rtlexpr.IntConstValue(rtlexpr.NewIntConst(7)); !ok || v != 7 {
		t.Fatalf("unexpected: %d %v", v, ok)
	}
	if _, ok := rtlexpr.IntConstValue(rtlexpr.NewFltConst(7)); ok {
		t.Fatal("expected false for float const")
	}
	if _, ok := rtlexpr.IntConstValue(rtlexpr.Wild); ok {
		t.Fatal("expected false for terminal")
	}
}

func TestClone_Independence(t *testing.T) {
	orig := rtlexpr.NewBinary(rtlexpr.OpPlus,
		rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(1)),
		rtlexpr.NewIntConst(2))
	clone := orig.Clone()
	if !rtlexpr.Equal(orig, clone) {
		t.Fatal("clone should equal original")
	}

	// Mutate the clone's subtree in place and confirm the original is
	// untouched: clone owns a fully independent copy of every child.
	mutatedClone := clone.(*rtlexpr.Binary)
	mutatedClone.E1.(*rtlexpr.Unary).E1 = rtlexpr.NewIntConst(99)
	if rtlexpr.Equal(orig, mutatedClone) {
		t.Fatal("mutating the clone should not affect original")
	}
	if !rtlexpr.Equal(orig, rtlexpr.NewBinary(rtlexpr.OpPlus,
		rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(1)),
		rtlexpr.NewIntConst(2))) {
		t.Fatal("original mutated unexpectedly")
	}
}

func TestTyped_RejectsAssignChild(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing Typed over Assign")
		}
	}()
	assign := rtlexpr.NewAssign(rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(0)), rtlexpr.NewIntConst(1))
	rtlexpr.NewTyped(newFakeType("word", 32), assign)
}

func TestAssign_SizeFromTypedLHS(t *testing.T) {
	typ := newFakeType("word", 16)
	lhs := rtlexpr.NewTyped(typ, rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(0)))
	a := rtlexpr.NewAssign(lhs, rtlexpr.NewIntConst(1))
	if a.Size() != 16 {
		t.Fatalf("expected size 16, got %d", a.Size())
	}
}

func TestAssign_DefaultSize(t *testing.T) {
	a := rtlexpr.NewAssign(rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(0)), rtlexpr.NewIntConst(1))
	if a.Size() != rtlexpr.DefaultAssignSize {
		t.Fatalf("expected default size, got %d", a.Size())
	}
}

func TestAssign_SetSize(t *testing.T) {
	a := rtlexpr.NewAssign(rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(0)), rtlexpr.NewIntConst(1))
	a.SetSize(64)
	if a.Size() != 64 {
		t.Fatalf("expected 64, got %d", a.Size())
	}
}

func TestWithChildren_ArityPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Const", func() { rtlexpr.NewIntConst(1).WithChildren([]rtlexpr.Exp{rtlexpr.NewIntConst(1)}) }},
		{"Unary", func() {
			rtlexpr.NewUnary(rtlexpr.OpNeg, rtlexpr.NewIntConst(1)).WithChildren(nil)
		}},
		{"Binary", func() {
			rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2)).WithChildren([]rtlexpr.Exp{rtlexpr.NewIntConst(1)})
		}},
		{"Ternary", func() {
			rtlexpr.NewTernary(rtlexpr.OpTern, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2), rtlexpr.NewIntConst(3)).
				WithChildren([]rtlexpr.Exp{rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2)})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic on arity mismatch")
				}
			}()
			tt.fn()
		})
	}
}

func TestNewUnary_RejectsNonUnaryOp(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing Unary with a binary op")
		}
	}()
	rtlexpr.NewUnary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1))
}

func TestFlagDef_ClonePreservesRTL(t *testing.T) {
	rtl := &fakeRTL{tag: 7}
	fd := rtlexpr.NewFlagDef(rtlexpr.NewIntConst(1), rtl)
	clone := fd.Clone().(*rtlexpr.FlagDef)
	if !clone.RTL().Equal(fd.RTL()) {
		t.Fatal("cloned FlagDef should carry an equal RTL handle")
	}
}

func TestOp_String(t *testing.T) {
	if got := rtlexpr.OpPlus.String(); got != "Plus" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := rtlexpr.Op(99999).String(); got != "Op(99999)" {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestOp_IsComparison(t *testing.T) {
	if !rtlexpr.OpEquals.IsComparison() {
		t.Fatal("expected Equals to be a comparison")
	}
	if rtlexpr.OpPlus.IsComparison() {
		t.Fatal("expected Plus to not be a comparison")
	}
}

func TestOp_IsUnsignedComparison(t *testing.T) {
	if !rtlexpr.OpLessUns.IsUnsignedComparison() {
		t.Fatal("expected LessUns to be unsigned")
	}
	if rtlexpr.OpLess.IsUnsignedComparison() {
		t.Fatal("expected Less to not be unsigned")
	}
}
