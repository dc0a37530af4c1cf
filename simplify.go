package rtlexpr

// Partition is the result of PartitionTerms: every leaf term of a +/-
// chain, classified by inherited sign, with integer leaves (sign already
// applied) collected separately from symbolic ones.
type Partition struct {
	Positives []Exp
	Negatives []Exp
	Integers  []int64
}

// PartitionTerms classifies every leaf term of the +/- chain rooted at e.
// It descends through Plus and Minus nodes, through TypedExp and
// AssignExp (LHS then RHS) transparently, and treats anything else as a
// single term carrying the sign inherited from its position.
func PartitionTerms(e Exp) Partition {
	var p Partition
	partitionWalk(e, 1, &p)
	return p
}

func partitionWalk(e Exp, sign int, p *Partition) {
	switch v := e.(type) {
	case *Binary:
		switch v.op {
		case OpPlus:
			partitionWalk(v.E1, sign, p)
			partitionWalk(v.E2, sign, p)
			return
		case OpMinus:
			partitionWalk(v.E1, sign, p)
			partitionWalk(v.E2, -sign, p)
			return
		}
	case *Typed:
		partitionWalk(v.E1, sign, p)
		return
	case *Assign:
		partitionWalk(v.E1, sign, p)
		partitionWalk(v.E2, sign, p)
		return
	case *Const:
		if v.op == OpIntConst {
			k := v.i
			if sign < 0 {
				k = -k
			}
			p.Integers = append(p.Integers, k)
			return
		}
	}
	if sign >= 0 {
		p.Positives = append(p.Positives, e)
	} else {
		p.Negatives = append(p.Negatives, e)
	}
}

// Accumulate folds a list of terms into a right-associated +-chain.
// Accumulate(nil) is IntConst(0); a single term clones itself; otherwise
// terms combine right to left.
func Accumulate(terms []Exp) Exp {
	if len(terms) == 0 {
		return NewIntConst(0)
	}
	if len(terms) == 1 {
		return terms[0].Clone()
	}
	result := terms[len(terms)-1].Clone()
	for i := len(terms) - 2; i >= 0; i-- {
		result = NewBinary(OpPlus, terms[i].Clone(), result)
	}
	return result
}

// SimplifyArith normalizes an additive root by canceling structurally
// equal positive/negative terms and folding the integer terms to a
// single scalar. For non-additive roots it descends into RegOf/MemOf
// operands and both subtrees of Assign, leaving every other shape
// unchanged.
func SimplifyArith(e Exp) Exp {
	switch v := e.(type) {
	case *Binary:
		if v.op == OpPlus || v.op == OpMinus {
			return reconstructArith(PartitionTerms(v))
		}
		return e
	case *Unary:
		switch v.op {
		case OpRegOf, OpMemOf:
			return &Unary{op: v.op, E1: SimplifyArith(v.E1)}
		}
		return e
	case *Assign:
		return &Assign{size: v.size, E1: SimplifyArith(v.E1), E2: SimplifyArith(v.E2)}
	default:
		return e
	}
}

func reconstructArith(p Partition) Exp {
	pos, neg := cancelPairs(p.Positives, p.Negatives)
	var s int64
	for _, k := range p.Integers {
		s += k
	}
	var result Exp
	switch {
	case len(pos) == 0 && len(neg) == 0:
		result = NewIntConst(s)
	case len(neg) == 0:
		result = Accumulate(pos)
		if s != 0 {
			result = NewBinary(OpPlus, result, NewIntConst(s))
		}
	case len(pos) == 0:
		result = NewUnary(OpNeg, Accumulate(neg))
		if s != 0 {
			result = NewBinary(OpPlus, result, NewIntConst(s))
		}
	default:
		result = NewBinary(OpMinus, Accumulate(pos), Accumulate(neg))
		if s != 0 {
			result = NewBinary(OpPlus, result, NewIntConst(s))
		}
	}
	return result
}

// cancelPairs removes the first structurally-equal positive/negative
// pair for every negative term, in a single linear sweep; remaining
// terms keep their input order.
func cancelPairs(positives, negatives []Exp) ([]Exp, []Exp) {
	used := make([]bool, len(positives))
	remainingNeg := make([]Exp, 0, len(negatives))
	for _, n := range negatives {
		cancelled := false
		for i, pterm := range positives {
			if !used[i] && Equal(pterm, n) {
				used[i] = true
				cancelled = true
				break
			}
		}
		if !cancelled {
			remainingNeg = append(remainingNeg, n)
		}
	}
	remainingPos := make([]Exp, 0, len(positives))
	for i, pterm := range positives {
		if !used[i] {
			remainingPos = append(remainingPos, pterm)
		}
	}
	return remainingPos, remainingNeg
}

// Simplify repeatedly applies PolySimplify until a pass reports no
// change. Termination follows the lexicographic measure of §4.3: tree
// size, count of comparison wrappers around equalities, count of Minus
// nodes, and count of integer-constant left operands under Plus/Mult —
// each rewrite strictly reduces one of these.
func Simplify(e Exp) Exp {
	cur := e
	for {
		next, changed := PolySimplify(cur)
		if !changed {
			return next
		}
		cur = next
	}
}

// PolySimplify runs one bottom-up pass of the peephole rewriter over e
// and reports whether anything changed.
func PolySimplify(e Exp) (Exp, bool) {
	switch v := e.(type) {
	case *Const, *Terminal:
		return e, false
	case *Unary:
		return polySimplifyUnary(v)
	case *Binary:
		return polySimplifyBinary(v)
	case *Ternary:
		return polySimplifyTernary(v)
	case *Typed:
		assert(v.E1.Op() != OpAssignExp, "PolySimplify: Typed must not wrap Assign")
		child, changed := PolySimplify(v.E1)
		if !changed {
			return e, false
		}
		return &Typed{typ: v.typ, E1: child}, true
	case *Assign:
		lhs, c1 := PolySimplify(v.E1)
		rhs, c2 := PolySimplify(v.E2)
		if !c1 && !c2 {
			return e, false
		}
		return &Assign{size: v.size, E1: lhs, E2: rhs}, true
	case *FlagDef:
		child, changed := PolySimplify(v.E1)
		if !changed {
			return e, false
		}
		return &FlagDef{rtl: v.rtl, E1: child}, true
	default:
		assert(false, "PolySimplify: unhandled Exp type for op %v", e.Op())
		panic("unreachable")
	}
}

func polySimplifyUnary(u *Unary) (Exp, bool) {
	child, childChanged := PolySimplify(u.E1)

	switch u.op {
	case OpNeg:
		if iv, ok := IntConstValue(child); ok {
			return NewIntConst(-iv), true
		}
	case OpNot:
		if iv, ok := IntConstValue(child); ok {
			return NewIntConst(^iv), true
		}
		if be, ok := child.(*Binary); ok && be.op == OpEquals {
			return NewBinary(OpNotEqual, be.E1.Clone(), be.E2.Clone()), true
		}
	case OpLNot:
		if iv, ok := IntConstValue(child); ok {
			if iv == 0 {
				return NewIntConst(1), true
			}
			return NewIntConst(0), true
		}
		if be, ok := child.(*Binary); ok && be.op == OpEquals {
			return NewBinary(OpNotEqual, be.E1.Clone(), be.E2.Clone()), true
		}
	}

	if u.op == OpNeg || u.op == OpNot || u.op == OpLNot {
		if inner, ok := child.(*Unary); ok && inner.op == u.op {
			return inner.E1.Clone(), true
		}
	}

	if u.op == OpAddrOf {
		if inner, ok := child.(*Unary); ok && inner.op == OpMemOf {
			return inner.E1.Clone(), true
		}
	}

	if u.op == OpMemOf || u.op == OpRegOf {
		arith := SimplifyArith(child)
		if !Equal(arith, child) {
			return &Unary{op: u.op, E1: arith}, true
		}
	}

	if childChanged {
		return &Unary{op: u.op, E1: child}, true
	}
	return u, false
}

func polySimplifyTernary(t *Ternary) (Exp, bool) {
	e1, c1 := PolySimplify(t.E1)
	e2, c2 := PolySimplify(t.E2)
	e3, c3 := PolySimplify(t.E3)
	childChanged := c1 || c2 || c3
	cur := &Ternary{op: t.op, E1: e1, E2: e2, E3: e3}

	if cur.op == OpTern {
		if iv2, ok2 := IntConstValue(cur.E2); ok2 && iv2 == 1 {
			if iv3, ok3 := IntConstValue(cur.E3); ok3 && iv3 == 0 {
				return cur.E1.Clone(), true
			}
		}
	}

	if childChanged {
		return cur, true
	}
	return t, false
}

func polySimplifyBinary(b *Binary) (Exp, bool) {
	e1, c1 := PolySimplify(b.E1)
	e2, c2 := PolySimplify(b.E2)
	childChanged := c1 || c2
	cur := &Binary{op: b.op, E1: e1, E2: e2}

	if result, ok := applyBinaryRule(cur); ok {
		return result, true
	}

	// Rule 18: the original recurses exactly one level further into
	// both operands of && and || within this same rule, rather than
	// looping to a sub-fixpoint; the outer Simplify driver supplies the
	// fixpoint.
	if cur.op == OpAnd || cur.op == OpOr {
		re1, rc1 := PolySimplify(cur.E1)
		re2, rc2 := PolySimplify(cur.E2)
		if rc1 || rc2 {
			return &Binary{op: cur.op, E1: re1, E2: re2}, true
		}
	}

	if childChanged {
		return cur, true
	}
	return b, false
}

// applyBinaryRule tries the numbered rewrite rules of §4.3.2 against b in
// priority order and returns the first one that fires.
func applyBinaryRule(b *Binary) (Exp, bool) {
	// 1. constant folding.
	if x, ok1 := IntConstValue(b.E1); ok1 {
		if y, ok2 := IntConstValue(b.E2); ok2 {
			if folded, ok := foldIntBinary(b.op, x, y); ok {
				return folded, true
			}
		}
	}

	// 2. BitXor(x,x) or Minus(x,x) -> 0.
	if (b.op == OpBitXor || b.op == OpMinus) && Equal(b.E1, b.E2) {
		return NewIntConst(0), true
	}

	// 3. Minus(a,b) -> Plus(a, Neg(b)).
	if b.op == OpMinus {
		return NewBinary(OpPlus, b.E1.Clone(), NewUnary(OpNeg, b.E2.Clone())), true
	}

	// 4. commute a op b -> b op a when op in {Plus,Mult} and a is IntConst.
	if (b.op == OpPlus || b.op == OpMult) && IsIntConst(b.E1) && !IsIntConst(b.E2) {
		return NewBinary(b.op, b.E2.Clone(), b.E1.Clone()), true
	}

	// 5. x+0, x-0, x|0, x||0 -> x.
	if iv, ok := IntConstValue(b.E2); ok && iv == 0 {
		switch b.op {
		case OpPlus, OpMinus, OpBitOr, OpOr:
			return b.E1.Clone(), true
		}
	}

	// 6. x*0, x*!0, x&0, x&&0 -> 0.
	if iv, ok := IntConstValue(b.E2); ok && iv == 0 {
		switch b.op {
		case OpMult, OpMults, OpBitAnd, OpAnd:
			return NewIntConst(0), true
		}
	}

	// 7. x*1, x*!1 -> x.
	if iv, ok := IntConstValue(b.E2); ok && iv == 1 {
		switch b.op {
		case OpMult, OpMults:
			return b.E1.Clone(), true
		}
	}

	// 8. x & -1 -> x.
	if iv, ok := IntConstValue(b.E2); ok && iv == -1 && b.op == OpBitAnd {
		return b.E1.Clone(), true
	}

	// 9. x && k, k != 0 -> x.
	if iv, ok := IntConstValue(b.E2); ok && iv != 0 && b.op == OpAnd {
		return b.E1.Clone(), true
	}

	// 10. x - k -> x + (-k). Subsumed in practice by rule 3, which already
	// rewrites every Minus before this check is reached; kept for parity
	// with the documented rule list.
	if iv, ok := IntConstValue(b.E2); ok && b.op == OpMinus {
		return NewBinary(OpPlus, b.E1.Clone(), NewIntConst(-iv)), true
	}

	// 11. x << k, 0 <= k < 32 -> x * (1<<k).
	if iv, ok := IntConstValue(b.E2); ok && b.op == OpShiftL && iv >= 0 && iv < 32 {
		return NewBinary(OpMult, b.E1.Clone(), NewIntConst(int64(1)<<uint(iv))), true
	}

	// 12. comparison with LHS Neg(y) -> y op Neg(RHS).
	if b.op.IsComparison() {
		if un, ok := b.E1.(*Unary); ok && un.op == OpNeg {
			return NewBinary(b.op, un.E1.Clone(), NewUnary(OpNeg, b.E2.Clone())), true
		}
	}

	// 13. comparison with RHS 0 and LHS Plus(a,b) -> a op Neg(b).
	if b.op.IsComparison() {
		if iv, ok := IntConstValue(b.E2); ok && iv == 0 {
			if inner, ok2 := b.E1.(*Binary); ok2 && inner.op == OpPlus {
				return NewBinary(b.op, inner.E1.Clone(), NewUnary(OpNeg, inner.E2.Clone())), true
			}
		}
	}

	// 14. (x==y)==1 -> x==y; (x==y)==0 -> x!=y; (x==y)!=1 -> x!=y; (x==y)!=0 -> x==y.
	if b.op == OpEquals || b.op == OpNotEqual {
		if inner, ok := b.E1.(*Binary); ok && inner.op == OpEquals {
			if iv, ok2 := IntConstValue(b.E2); ok2 {
				switch {
				case b.op == OpEquals && iv == 1:
					return inner.Clone(), true
				case b.op == OpEquals && iv == 0:
					return NewBinary(OpNotEqual, inner.E1.Clone(), inner.E2.Clone()), true
				case b.op == OpNotEqual && iv == 1:
					return NewBinary(OpNotEqual, inner.E1.Clone(), inner.E2.Clone()), true
				case b.op == OpNotEqual && iv == 0:
					return inner.Clone(), true
				}
			}
		}
	}

	// 15. (x + (-n)) == 0, n < 0 -> x == -n. Subsumed in practice by rule
	// 13 for the same reason rule 10 is subsumed by rule 3.
	if b.op == OpEquals {
		if iv2, ok2 := IntConstValue(b.E2); ok2 && iv2 == 0 {
			if inner, ok := b.E1.(*Binary); ok && inner.op == OpPlus {
				if k, ok3 := IntConstValue(inner.E2); ok3 && k < 0 {
					return NewBinary(OpEquals, inner.E1.Clone(), NewIntConst(-k)), true
				}
			}
		}
	}

	// 16. (x > y) == 0 -> x <= y; (x >u y) == 0 -> x <=u y.
	if b.op == OpEquals {
		if iv, ok := IntConstValue(b.E2); ok && iv == 0 {
			if inner, ok2 := b.E1.(*Binary); ok2 {
				switch inner.op {
				case OpGtr:
					return NewBinary(OpLessEq, inner.E1.Clone(), inner.E2.Clone()), true
				case OpGtrUns:
					return NewBinary(OpLessEqUns, inner.E1.Clone(), inner.E2.Clone()), true
				}
			}
		}
	}

	// 17. (x>=y) || (x==y), any ordering, matching operand pair -> x>=y
	// (same for <=, >=u, <=u).
	if b.op == OpOr {
		if res, ok := tryOrEqualsCollapse(b.E1, b.E2); ok {
			return res, true
		}
		if res, ok := tryOrEqualsCollapse(b.E2, b.E1); ok {
			return res, true
		}
	}

	// 19. x & x -> x.
	if b.op == OpBitAnd && Equal(b.E1, b.E2) {
		return b.E1.Clone(), true
	}

	// 20. a + (a*n) -> a*(n+1).
	if b.op == OpPlus {
		if inner, ok := b.E2.(*Binary); ok && inner.op == OpMult {
			if n, ok2 := IntConstValue(inner.E2); ok2 && Equal(b.E1, inner.E1) {
				return NewBinary(OpMult, b.E1.Clone(), NewIntConst(n+1)), true
			}
		}
	}

	// 21. (a*n)*m -> a*(n*m).
	if b.op == OpMult {
		if m, ok := IntConstValue(b.E2); ok {
			if inner, ok2 := b.E1.(*Binary); ok2 && inner.op == OpMult {
				if n, ok3 := IntConstValue(inner.E2); ok3 {
					return NewBinary(OpMult, inner.E1.Clone(), NewIntConst(n*m)), true
				}
			}
		}
	}

	return nil, false
}

func tryOrEqualsCollapse(a, other Exp) (Exp, bool) {
	ab, ok := a.(*Binary)
	if !ok {
		return nil, false
	}
	switch ab.op {
	case OpGtrEq, OpLessEq, OpGtrEqUns, OpLessEqUns:
	default:
		return nil, false
	}
	ob, ok := other.(*Binary)
	if !ok || ob.op != OpEquals {
		return nil, false
	}
	if (Equal(ab.E1, ob.E1) && Equal(ab.E2, ob.E2)) || (Equal(ab.E1, ob.E2) && Equal(ab.E2, ob.E1)) {
		return ab.Clone(), true
	}
	return nil, false
}

// foldIntBinary evaluates op over two 32-bit two's-complement operands.
// Signed and unsigned division/modulo are folded independently rather
// than unsigned falling through into the signed case. Division or modulo
// by zero does not fold, leaving the node for the caller to handle.
func foldIntBinary(op Op, x, y int64) (Exp, bool) {
	xi, yi := int32(x), int32(y)
	xu, yu := uint32(x), uint32(y)

	switch op {
	case OpPlus:
		return NewIntConst(int64(xi + yi)), true
	case OpMinus:
		return NewIntConst(int64(xi - yi)), true
	case OpMult, OpMults:
		return NewIntConst(int64(xi * yi)), true
	case OpDiv:
		if yu == 0 {
			return nil, false
		}
		return NewIntConst(int64(xu / yu)), true
	case OpDivs:
		if yi == 0 {
			return nil, false
		}
		return NewIntConst(int64(xi / yi)), true
	case OpMod:
		if yu == 0 {
			return nil, false
		}
		return NewIntConst(int64(xu % yu)), true
	case OpMods:
		if yi == 0 {
			return nil, false
		}
		return NewIntConst(int64(xi % yi)), true
	case OpShiftL:
		return NewIntConst(int64(int32(xu << (yu & 31)))), true
	case OpShiftR:
		return NewIntConst(int64(int32(xu >> (yu & 31)))), true
	case OpShiftRA:
		k1 := int64(xi)
		k2 := uint(yu)
		mask := (int64(1)<<k2 - 1) << uint(32-int(k2))
		v := (k1 >> k2) | mask
		return NewIntConst(int64(int32(v))), true
	case OpBitAnd:
		return NewIntConst(int64(int32(xu & yu))), true
	case OpBitOr:
		return NewIntConst(int64(int32(xu | yu))), true
	case OpBitXor:
		return NewIntConst(int64(int32(xu ^ yu))), true
	case OpAnd:
		return boolConst(x != 0 && y != 0), true
	case OpOr:
		return boolConst(x != 0 || y != 0), true
	case OpEquals:
		return boolConst(xi == yi), true
	case OpNotEqual:
		return boolConst(xi != yi), true
	case OpLess:
		return boolConst(xi < yi), true
	case OpGtr:
		return boolConst(xi > yi), true
	case OpLessEq:
		return boolConst(xi <= yi), true
	case OpGtrEq:
		return boolConst(xi >= yi), true
	case OpLessUns:
		return boolConst(xu < yu), true
	case OpGtrUns:
		return boolConst(xu > yu), true
	case OpLessEqUns:
		return boolConst(xu <= yu), true
	case OpGtrEqUns:
		return boolConst(xu >= yu), true
	default:
		return nil, false
	}
}

func boolConst(v bool) Exp {
	if v {
		return NewIntConst(1)
	}
	return NewIntConst(0)
}

// SimplifyAddr removes AddrOf(MemOf(x)) and AddrOf(Size(s, MemOf(x)))
// wherever they occur, bottom-up, to a fixpoint. It is a separate pass
// from PolySimplify/Simplify.
func SimplifyAddr(e Exp) Exp {
	cur := e
	for {
		next, changed := simplifyAddrOnce(cur)
		if !changed {
			return next
		}
		cur = next
	}
}

func simplifyAddrOnce(e Exp) (Exp, bool) {
	children := e.Children()
	newChildren := make([]Exp, len(children))
	changedAny := false
	for i, c := range children {
		nc, ch := simplifyAddrOnce(c)
		newChildren[i] = nc
		if ch {
			changedAny = true
		}
	}
	cur := e
	if changedAny {
		cur = e.WithChildren(newChildren)
	}

	if u, ok := cur.(*Unary); ok && u.op == OpAddrOf {
		if inner, ok2 := u.E1.(*Unary); ok2 && inner.op == OpMemOf {
			return inner.E1.Clone(), true
		}
		if sz, ok2 := u.E1.(*Binary); ok2 && sz.op == OpSize {
			if mem, ok3 := sz.E2.(*Unary); ok3 && mem.op == OpMemOf {
				return mem.E1.Clone(), true
			}
		}
	}
	return cur, changedAny
}
