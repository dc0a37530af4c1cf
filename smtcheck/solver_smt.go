//go:build smt

package smtcheck

import (
	"fmt"
	"unsafe"

	"github.com/arvo-decomp/rtlexpr"
)

/*
#cgo LDFLAGS: -lz3
#include <z3.h>
#include <stdlib.h>
*/
import "C"

const width = 32

// context wraps a Z3 context, mirroring the teacher's z3.Context
// lifecycle: one per call, closed when the query is done.
type context struct {
	raw  C.Z3_context
	vars map[string]C.Z3_ast
}

func newContext() *context {
	config := C.Z3_mk_config()
	defer C.Z3_del_config(config)

	raw := C.Z3_mk_context(config)
	C.Z3_set_error_handler(raw, nil)
	return &context{raw: raw, vars: make(map[string]C.Z3_ast)}
}

func (ctx *context) close() {
	C.Z3_del_context(ctx.raw)
}

func (ctx *context) err(op string) error {
	if code := C.Z3_get_error_code(ctx.raw); code != C.Z3_OK {
		return fmt.Errorf("smtcheck: %s: %s (%d)", op, C.GoString(C.Z3_get_error_msg(ctx.raw, code)), int(code))
	}
	return nil
}

func (ctx *context) bvSort() C.Z3_sort {
	return C.Z3_mk_bv_sort(ctx.raw, C.uint(width))
}

func (ctx *context) bvLiteral(v int64) (C.Z3_ast, error) {
	ast := C.Z3_mk_int64(ctx.raw, C.int64_t(v), ctx.bvSort())
	return ast, ctx.err("Z3_mk_int64")
}

// freeVar returns the bit-vector constant for a free terminal, creating
// it on first use so that every occurrence of the same terminal within one
// CheckEquivalent call, in either expression, resolves to the same Z3
// symbol.
func (ctx *context) freeVar(name string) (C.Z3_ast, error) {
	if ast, ok := ctx.vars[name]; ok {
		return ast, nil
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	sym := C.Z3_mk_string_symbol(ctx.raw, cname)
	ast := C.Z3_mk_const(ctx.raw, sym, ctx.bvSort())
	if err := ctx.err("Z3_mk_const"); err != nil {
		return nil, err
	}
	ctx.vars[name] = ast
	return ast, nil
}

func (ctx *context) boolToBV(cond C.Z3_ast) (C.Z3_ast, error) {
	one, err := ctx.bvLiteral(1)
	if err != nil {
		return nil, err
	}
	zero, err := ctx.bvLiteral(0)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, cond, one, zero), ctx.err("Z3_mk_ite")
}

func (ctx *context) bvToBool(v C.Z3_ast) (C.Z3_ast, error) {
	zero, err := ctx.bvLiteral(0)
	if err != nil {
		return nil, err
	}
	eq := C.Z3_mk_eq(ctx.raw, v, zero)
	return C.Z3_mk_not(ctx.raw, eq), ctx.err("Z3_mk_not")
}

// isFreeTerminal reports whether e is a node this model treats as an
// opaque free terminal rather than something to descend into: an
// architectural state cell (RegOf/MemOf/AddrOf/Var), a bare-string name
// (Temp/Local/Param), or any Terminal other than Wild and Nil.
func isFreeTerminal(e rtlexpr.Exp) bool {
	switch u := e.(type) {
	case *rtlexpr.Terminal:
		switch u.Op() {
		case rtlexpr.OpWild, rtlexpr.OpNil:
			return false
		default:
			return true
		}
	case *rtlexpr.Unary:
		switch u.Op() {
		case rtlexpr.OpRegOf, rtlexpr.OpMemOf, rtlexpr.OpAddrOf, rtlexpr.OpVar,
			rtlexpr.OpTemp, rtlexpr.OpLocal, rtlexpr.OpParam:
			return true
		}
	}
	return false
}

func (ctx *context) toAST(e rtlexpr.Exp) (C.Z3_ast, error) {
	if isFreeTerminal(e) {
		name := rtlexpr.DebugString(e)
		return ctx.freeVar(name)
	}
	switch v := e.(type) {
	case *rtlexpr.Const:
		return ctx.toConstAST(v)
	case *rtlexpr.Unary:
		return ctx.toUnaryAST(v)
	case *rtlexpr.Binary:
		return ctx.toBinaryAST(v)
	case *rtlexpr.Ternary:
		return ctx.toTernaryAST(v)
	default:
		return nil, &unsupportedOp{op: e.Op()}
	}
}

func (ctx *context) toConstAST(c *rtlexpr.Const) (C.Z3_ast, error) {
	switch c.Kind() {
	case rtlexpr.ConstInt, rtlexpr.ConstCodeAddr:
		return ctx.bvLiteral(c.Int())
	default:
		return nil, &unsupportedOp{op: c.Op()}
	}
}

func (ctx *context) toUnaryAST(u *rtlexpr.Unary) (C.Z3_ast, error) {
	src, err := ctx.toAST(u.E1)
	if err != nil {
		return nil, err
	}
	switch u.Op() {
	case rtlexpr.OpNot:
		return C.Z3_mk_bvnot(ctx.raw, src), ctx.err("Z3_mk_bvnot")
	case rtlexpr.OpNeg:
		return C.Z3_mk_bvneg(ctx.raw, src), ctx.err("Z3_mk_bvneg")
	case rtlexpr.OpLNot:
		b, err := ctx.bvToBool(src)
		if err != nil {
			return nil, err
		}
		return ctx.boolToBV(C.Z3_mk_not(ctx.raw, b))
	default:
		return nil, &unsupportedOp{op: u.Op()}
	}
}

func (ctx *context) toBinaryAST(b *rtlexpr.Binary) (C.Z3_ast, error) {
	lhs, err := ctx.toAST(b.E1)
	if err != nil {
		return nil, err
	}
	rhs, err := ctx.toAST(b.E2)
	if err != nil {
		return nil, err
	}

	switch b.Op() {
	case rtlexpr.OpPlus:
		return C.Z3_mk_bvadd(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvadd")
	case rtlexpr.OpMinus:
		return C.Z3_mk_bvsub(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsub")
	case rtlexpr.OpMult, rtlexpr.OpMults:
		return C.Z3_mk_bvmul(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvmul")
	case rtlexpr.OpDiv:
		return C.Z3_mk_bvudiv(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvudiv")
	case rtlexpr.OpDivs:
		return C.Z3_mk_bvsdiv(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsdiv")
	case rtlexpr.OpMod:
		return C.Z3_mk_bvurem(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvurem")
	case rtlexpr.OpMods:
		return C.Z3_mk_bvsrem(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsrem")
	case rtlexpr.OpBitAnd:
		return C.Z3_mk_bvand(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvand")
	case rtlexpr.OpBitOr:
		return C.Z3_mk_bvor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvor")
	case rtlexpr.OpBitXor:
		return C.Z3_mk_bvxor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvxor")
	case rtlexpr.OpShiftL:
		return C.Z3_mk_bvshl(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvshl")
	case rtlexpr.OpShiftR:
		return C.Z3_mk_bvlshr(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvlshr")
	case rtlexpr.OpShiftRA:
		return C.Z3_mk_bvashr(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvashr")
	case rtlexpr.OpRotateL:
		return C.Z3_mk_ext_rotate_left(ctx.raw, lhs, rhs), ctx.err("Z3_mk_ext_rotate_left")
	case rtlexpr.OpRotateR:
		return C.Z3_mk_ext_rotate_right(ctx.raw, lhs, rhs), ctx.err("Z3_mk_ext_rotate_right")
	case rtlexpr.OpAnd:
		lb, err := ctx.bvToBool(lhs)
		if err != nil {
			return nil, err
		}
		rb, err := ctx.bvToBool(rhs)
		if err != nil {
			return nil, err
		}
		args := [2]C.Z3_ast{lb, rb}
		return ctx.boolToBV(C.Z3_mk_and(ctx.raw, 2, &args[0]))
	case rtlexpr.OpOr:
		lb, err := ctx.bvToBool(lhs)
		if err != nil {
			return nil, err
		}
		rb, err := ctx.bvToBool(rhs)
		if err != nil {
			return nil, err
		}
		args := [2]C.Z3_ast{lb, rb}
		return ctx.boolToBV(C.Z3_mk_or(ctx.raw, 2, &args[0]))
	case rtlexpr.OpEquals:
		return ctx.boolToBV(C.Z3_mk_eq(ctx.raw, lhs, rhs))
	case rtlexpr.OpNotEqual:
		return ctx.boolToBV(C.Z3_mk_not(ctx.raw, C.Z3_mk_eq(ctx.raw, lhs, rhs)))
	case rtlexpr.OpLess:
		return ctx.boolToBV(C.Z3_mk_bvslt(ctx.raw, lhs, rhs))
	case rtlexpr.OpGtr:
		return ctx.boolToBV(C.Z3_mk_bvsgt(ctx.raw, lhs, rhs))
	case rtlexpr.OpLessEq:
		return ctx.boolToBV(C.Z3_mk_bvsle(ctx.raw, lhs, rhs))
	case rtlexpr.OpGtrEq:
		return ctx.boolToBV(C.Z3_mk_bvsge(ctx.raw, lhs, rhs))
	case rtlexpr.OpLessUns:
		return ctx.boolToBV(C.Z3_mk_bvult(ctx.raw, lhs, rhs))
	case rtlexpr.OpGtrUns:
		return ctx.boolToBV(C.Z3_mk_bvugt(ctx.raw, lhs, rhs))
	case rtlexpr.OpLessEqUns:
		return ctx.boolToBV(C.Z3_mk_bvule(ctx.raw, lhs, rhs))
	case rtlexpr.OpGtrEqUns:
		return ctx.boolToBV(C.Z3_mk_bvuge(ctx.raw, lhs, rhs))
	default:
		return nil, &unsupportedOp{op: b.Op()}
	}
}

func (ctx *context) toTernaryAST(t *rtlexpr.Ternary) (C.Z3_ast, error) {
	switch t.Op() {
	case rtlexpr.OpTern:
		cond, err := ctx.toAST(t.E1)
		if err != nil {
			return nil, err
		}
		whenTrue, err := ctx.toAST(t.E2)
		if err != nil {
			return nil, err
		}
		whenFalse, err := ctx.toAST(t.E3)
		if err != nil {
			return nil, err
		}
		condBool, err := ctx.bvToBool(cond)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_ite(ctx.raw, condBool, whenTrue, whenFalse), ctx.err("Z3_mk_ite")
	default:
		return nil, &unsupportedOp{op: t.Op()}
	}
}

// CheckEquivalent asserts that a and b disagree and asks the solver for a
// satisfying assignment. An unsatisfiable result means no assignment of
// free terminals makes them differ; a satisfiable one yields a
// counterexample.
func CheckEquivalent(a, b rtlexpr.Exp) (Result, error) {
	ctx := newContext()
	defer ctx.close()

	astA, err := ctx.toAST(a)
	if err != nil {
		return Result{}, err
	}
	astB, err := ctx.toAST(b)
	if err != nil {
		return Result{}, err
	}

	solver := C.Z3_mk_solver(ctx.raw)
	C.Z3_solver_inc_ref(ctx.raw, solver)
	defer C.Z3_solver_dec_ref(ctx.raw, solver)

	disagree := C.Z3_mk_not(ctx.raw, C.Z3_mk_eq(ctx.raw, astA, astB))
	C.Z3_solver_assert(ctx.raw, solver, disagree)
	if err := ctx.err("Z3_solver_assert"); err != nil {
		return Result{}, err
	}

	switch C.Z3_solver_check(ctx.raw, solver) {
	case C.Z3_L_FALSE:
		return Result{Equivalent: true}, nil
	case C.Z3_L_UNDEF:
		reason := C.GoString(C.Z3_solver_get_reason_unknown(ctx.raw, solver))
		return Result{}, fmt.Errorf("smtcheck: solver returned unknown: %s", reason)
	}

	model := C.Z3_solver_get_model(ctx.raw, solver)
	if err := ctx.err("Z3_solver_get_model"); err != nil {
		return Result{}, err
	}

	counter := make(map[string]int32, len(ctx.vars))
	for name, v := range ctx.vars {
		var evaluated C.Z3_ast
		if C.Z3_model_eval(ctx.raw, model, v, C.bool(true), &evaluated) == 0 {
			continue
		}
		var val C.int64_t
		if C.Z3_get_numeral_int64(ctx.raw, evaluated, &val) != 0 {
			counter[name] = int32(val)
		}
	}
	return Result{Equivalent: false, Counterexample: counter}, nil
}
