package main

import (
	"testing"

	"github.com/arvo-decomp/rtlexpr"
)

func TestParseExp_Atoms(t *testing.T) {
	tests := []struct {
		src  string
		want rtlexpr.Exp
	}{
		{"42", rtlexpr.NewIntConst(42)},
		{"3.5", rtlexpr.NewFltConst(3.5)},
		{`"hi"`, rtlexpr.NewStrConst("hi")},
		{"%afp", rtlexpr.NewTerminal(rtlexpr.OpAFP)},
		{"Wild", rtlexpr.NewTerminal(rtlexpr.OpWild)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := parseExp(tt.src)
			if err != nil {
				t.Fatalf("parseExp(%q): %v", tt.src, err)
			}
			if !rtlexpr.Equal(got, tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseExp_NestedForms(t *testing.T) {
	got, err := parseExp(`(Plus (RegOf 1) 2)`)
	if err != nil {
		t.Fatalf("parseExp: %v", err)
	}
	want := rtlexpr.NewBinary(rtlexpr.OpPlus,
		rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(1)),
		rtlexpr.NewIntConst(2))
	if !rtlexpr.Equal(got, want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseExp_Ternary(t *testing.T) {
	got, err := parseExp(`(Tern (RegOf 1) 2 3)`)
	if err != nil {
		t.Fatalf("parseExp: %v", err)
	}
	want := rtlexpr.NewTernary(rtlexpr.OpTern,
		rtlexpr.NewUnary(rtlexpr.OpRegOf, rtlexpr.NewIntConst(1)),
		rtlexpr.NewIntConst(2), rtlexpr.NewIntConst(3))
	if !rtlexpr.Equal(got, want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseExp_UnknownOperator(t *testing.T) {
	if _, err := parseExp(`(Bogus 1 2 3 4)`); err == nil {
		t.Fatal("expected an error for an operator with no arity match")
	}
}

func TestParseExp_TrailingInput(t *testing.T) {
	if _, err := parseExp(`1 2`); err == nil {
		t.Fatal("expected an error for unconsumed trailing input")
	}
}

func TestParseExp_UnterminatedForm(t *testing.T) {
	if _, err := parseExp(`(Plus 1 2`); err == nil {
		t.Fatal("expected an error for a form missing its closing paren")
	}
}
