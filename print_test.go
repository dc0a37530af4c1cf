package rtlexpr_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arvo-decomp/rtlexpr"
)

func TestFormat_Scenario(t *testing.T) {
	// *32* m[%afp + 8] := 0, from spec's concrete pretty-print scenario.
	lhs := rtlexpr.NewUnary(rtlexpr.OpMemOf,
		rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewTerminal(rtlexpr.OpAFP), rtlexpr.NewIntConst(8)))
	a := rtlexpr.NewAssignSize(32, lhs, rtlexpr.NewIntConst(0))
	if got, want := a.String(), "*32* m[%afp + 8] := 0"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormat_Terminals(t *testing.T) {
	tests := []struct {
		op   rtlexpr.Op
		want string
	}{
		{rtlexpr.OpPC, "%pc"}, {rtlexpr.OpFlags, "%flags"}, {rtlexpr.OpCF, "%CF"},
		{rtlexpr.OpZF, "%ZF"}, {rtlexpr.OpOF, "%OF"}, {rtlexpr.OpNF, "%NF"},
		{rtlexpr.OpAFP, "%afp"}, {rtlexpr.OpAGP, "%agp"}, {rtlexpr.OpAnull, "%anul"},
		{rtlexpr.OpWild, "WILD"}, {rtlexpr.OpFpush, "FPUSH"}, {rtlexpr.OpFpop, "FPOP"},
		{rtlexpr.OpNil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := rtlexpr.NewTerminal(tt.op).String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_UnaryBrackets(t *testing.T) {
	if got := reg(1).String(); got != "r[1]" {
		t.Fatalf("got %q", got)
	}
	mem := rtlexpr.NewUnary(rtlexpr.OpMemOf, rtlexpr.NewIntConst(2))
	if got := mem.String(); got != "m[2]" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_UnaryPrefixAndPostfix(t *testing.T) {
	if got := rtlexpr.NewUnary(rtlexpr.OpNeg, rtlexpr.NewIntConst(3)).String(); got != "-3" {
		t.Fatalf("got %q", got)
	}
	if got := rtlexpr.NewUnary(rtlexpr.OpSignExt, rtlexpr.NewIntConst(3)).String(); got != "3!" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_UnaryFunctionForm(t *testing.T) {
	if got := rtlexpr.NewUnary(rtlexpr.OpSqrt, rtlexpr.NewIntConst(4)).String(); got != "sqrt(4)" {
		t.Fatalf("got %q", got)
	}
	if got := rtlexpr.NewUnary(rtlexpr.OpSuccessor, reg(7)).String(); got != "succ(r[7])" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_BinaryInfix(t *testing.T) {
	e := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2))
	if got := e.String(); got != "1 + 2" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_BinaryParenthesizesNestedInfix(t *testing.T) {
	inner := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2))
	outer := rtlexpr.NewBinary(rtlexpr.OpMult, inner, rtlexpr.NewIntConst(3))
	if got := outer.String(); got != "(1 + 2) * 3" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_OuterLevelNoParens(t *testing.T) {
	e := rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2))
	if got := e.String(); strings.HasPrefix(got, "(") {
		t.Fatalf("expected outer level to omit parentheses, got %q", got)
	}
}

func TestFormat_SizeNoParens(t *testing.T) {
	size := rtlexpr.NewBinary(rtlexpr.OpSize, rtlexpr.NewIntConst(32), reg(1))
	outer := rtlexpr.NewBinary(rtlexpr.OpPlus, size, rtlexpr.NewIntConst(1))
	if got := outer.String(); got != "r[1]{32} + 1" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_List(t *testing.T) {
	list := rtlexpr.NewBinary(rtlexpr.OpList, rtlexpr.NewIntConst(1),
		rtlexpr.NewBinary(rtlexpr.OpList, rtlexpr.NewIntConst(2), rtlexpr.Nil))
	if got := list.String(); got != "1,2" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_Ternary(t *testing.T) {
	tern := rtlexpr.NewTernary(rtlexpr.OpTern, reg(1), rtlexpr.NewIntConst(2), rtlexpr.NewIntConst(3))
	if got := tern.String(); got != "r[1] ? 2 : 3" {
		t.Fatalf("got %q", got)
	}
	at := rtlexpr.NewTernary(rtlexpr.OpAt, reg(1), rtlexpr.NewIntConst(0), rtlexpr.NewIntConst(8))
	if got := at.String(); got != "r[1]@0:8" {
		t.Fatalf("got %q", got)
	}
}

func TestFormat_TernaryFunctionForm(t *testing.T) {
	e := rtlexpr.NewTernary(rtlexpr.OpZfill, rtlexpr.NewIntConst(8), rtlexpr.NewIntConst(32), reg(1))
	if got := e.String(); got != "zfill(8,32,r[1])" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatBare_StringConst(t *testing.T) {
	var buf bytes.Buffer
	rtlexpr.FormatBare(&buf, rtlexpr.NewStrConst("hello"))
	if got := buf.String(); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := rtlexpr.NewStrConst("hello").String(); got != `"hello"` {
		t.Fatalf("expected quoted form from Format, got %q", got)
	}
}

func TestWriteDot_Smoke(t *testing.T) {
	var buf bytes.Buffer
	rtlexpr.WriteDot(&buf, rtlexpr.NewBinary(rtlexpr.OpPlus, rtlexpr.NewIntConst(1), rtlexpr.NewIntConst(2)))
	out := buf.String()
	if !strings.HasPrefix(out, "digraph Exp {") || !strings.Contains(out, "->") {
		t.Fatalf("unexpected dot output: %s", out)
	}
}
