//go:build smt

package smtcheck_test

import (
	"testing"

	"github.com/arvo-decomp/rtlexpr"
	"github.com/arvo-decomp/rtlexpr/smtcheck"
)

func TestCheckEquivalent_IdenticalExpressionsAgree(t *testing.T) {
	e := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewTerminal(rtlexpr.OpPC), rtlexpr.NewIntConst(1))
	res, err := smtcheck.CheckEquivalent(e, e.Clone())
	if err != nil {
		t.Fatalf("CheckEquivalent: %v", err)
	}
	if !res.Equivalent {
		t.Fatalf("expected an expression to be equivalent to its own clone, got counterexample %v", res.Counterexample)
	}
}

func TestCheckEquivalent_SimplificationPreservesSemantics(t *testing.T) {
	orig := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(3), rtlexpr.NewIntConst(4))
	simplified := rtlexpr.Simplify(rtlexpr.SimplifyArith(orig))
	res, err := smtcheck.CheckEquivalent(orig, simplified)
	if err != nil {
		t.Fatalf("CheckEquivalent: %v", err)
	}
	if !res.Equivalent {
		t.Fatalf("expected simplification to preserve semantics, got counterexample %v", res.Counterexample)
	}
}

func TestCheckEquivalent_DisagreeingExpressionsYieldCounterexample(t *testing.T) {
	a := rtlexpr.NewTerminal(rtlexpr.OpPC)
	b := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewTerminal(rtlexpr.OpPC), rtlexpr.NewIntConst(1))
	res, err := smtcheck.CheckEquivalent(a, b)
	if err != nil {
		t.Fatalf("CheckEquivalent: %v", err)
	}
	if res.Equivalent {
		t.Fatal("expected %pc and %pc+1 to disagree for some assignment")
	}
	if res.Counterexample == nil {
		t.Fatal("expected a counterexample when expressions disagree")
	}
}

func TestCheckEquivalent_UnsupportedOperator(t *testing.T) {
	a := rtlexpr.NewBinary(rtlexpr.OpFPlus, rtlexpr.NewFltConst(1), rtlexpr.NewFltConst(2))
	if _, err := smtcheck.CheckEquivalent(a, a.Clone()); err == nil {
		t.Fatal("expected an error for an operator outside the 32-bit integer model")
	}
}
