package rtlexpr

import (
	"reflect"

	"github.com/benbjohnson/immutable"
)

// uint64Comparer orders StatementSet keys, mirroring the comparer the
// teacher writes for its symbolic heap's address keys.
type uint64Comparer struct{}

func (uint64Comparer) Compare(a, b interface{}) int {
	x, y := a.(uint64), b.(uint64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// statementID derives a stable identity key for a Statement from its
// pointer value. Statement is opaque to this package beyond the five
// methods in rtlexpr.go, so pointer identity is the only handle available
// for set membership.
func statementID(s Statement) uint64 {
	return uint64(reflect.ValueOf(s).Pointer())
}

// StatementSet is a persistent set of Statement handles, backed by
// immutable.SortedMap so that KillLive can hand back an updated set
// without mutating the set any other caller still holds.
type StatementSet struct {
	m *immutable.SortedMap
}

// NewStatementSet returns an empty StatementSet.
func NewStatementSet() *StatementSet {
	return &StatementSet{m: immutable.NewSortedMap(uint64Comparer{})}
}

// Add returns a new StatementSet with stmt inserted.
func (s *StatementSet) Add(stmt Statement) *StatementSet {
	return &StatementSet{m: s.m.Set(statementID(stmt), stmt)}
}

// Remove returns a new StatementSet with stmt absent.
func (s *StatementSet) Remove(stmt Statement) *StatementSet {
	return &StatementSet{m: s.m.Delete(statementID(stmt))}
}

// Contains reports whether stmt is a member.
func (s *StatementSet) Contains(stmt Statement) bool {
	_, ok := s.m.Get(statementID(stmt))
	return ok
}

// Len returns the number of members.
func (s *StatementSet) Len() int { return s.m.Len() }

// Each calls fn for every member in key order, stopping early if fn
// returns false.
func (s *StatementSet) Each(fn func(Statement) bool) {
	it := s.m.Iterator()
	for !it.Done() {
		_, v := it.Next()
		if !fn(v.(Statement)) {
			return
		}
	}
}

// conservativeAlias implements the documented alias stub: any two memory
// dereferences are treated as a potential kill of one another, with no
// attempt at a more precise analysis.
func conservativeAlias(a, b Exp) bool {
	au, ok1 := a.(*Unary)
	bu, ok2 := b.(*Unary)
	return ok1 && ok2 && au.op == OpMemOf && bu.op == OpMemOf
}

// KillLive returns live with every statement removed whose LHS equals
// this Assign's LHS, or whose LHS may alias it under the conservative
// MemOf-vs-MemOf test.
func (a *Assign) KillLive(live *StatementSet) *StatementSet {
	result := live
	live.Each(func(stmt Statement) bool {
		lhs := stmt.Left()
		if Equal(lhs, a.E1) || conservativeAlias(lhs, a.E1) {
			result = result.Remove(stmt)
		}
		return true
	})
	return result
}

// GetDeadStatements collects every statement in liveIn whose LHS this
// Assign overwrites and which has no recorded uses.
func (a *Assign) GetDeadStatements(liveIn *StatementSet) []Statement {
	var dead []Statement
	liveIn.Each(func(stmt Statement) bool {
		if Equal(stmt.Left(), a.E1) && stmt.NumUsedBy() == 0 {
			dead = append(dead, stmt)
		}
		return true
	})
	return dead
}

// UsesExp reports whether e appears in the RHS, or, when the LHS is a
// memory dereference, under its address expression. The LHS register or
// temporary itself is never considered a use.
func (a *Assign) UsesExp(e Exp) bool {
	return statementUses(a.E1, a.E2, e)
}

// statementUses implements the shared "does this LHS/RHS pair use e" rule
// behind both UsesExp and UpdateUsedBy: e counts as a use if it appears in
// the RHS, or, when the LHS is a memory dereference, under its address
// expression. The LHS register or temporary itself is never a use.
func statementUses(lhs, rhs, e Exp) bool {
	if _, ok := Search(rhs, e); ok {
		return true
	}
	if mem, ok := lhs.(*Unary); ok && mem.op == OpMemOf {
		if _, ok2 := Search(mem.E1, e); ok2 {
			return true
		}
	}
	return false
}

// UpdateUses asks whether stmt's LHS is used by this Assign, forwarding
// the question to UsesExp rather than caching anything locally.
func (a *Assign) UpdateUses(stmt Statement) bool {
	return a.UsesExp(stmt.Left())
}

// UpdateUsedBy is the converse query: whether this Assign's LHS is used
// by stmt, read entirely through the narrow Statement interface (Left,
// Right) rather than assuming stmt is backed by another *Assign.
func (a *Assign) UpdateUsedBy(stmt Statement) bool {
	return statementUses(stmt.Left(), stmt.Right(), a.E1)
}

// DoReplaceUse substitutes every occurrence of def.Left() with
// def.Right() in the RHS, and, if the LHS is a memory dereference, inside
// its address expression too, then re-runs arithmetic and peephole
// simplification on both sides.
func (a *Assign) DoReplaceUse(def Statement) *Assign {
	rhs, _ := SearchReplaceAll(a.E2, def.Left(), def.Right())
	lhs := a.E1
	if mem, ok := a.E1.(*Unary); ok && mem.op == OpMemOf {
		newAddr, _ := SearchReplaceAll(mem.E1, def.Left(), def.Right())
		lhs = NewUnary(OpMemOf, newAddr)
	}
	return &Assign{
		size: a.size,
		E1:   Simplify(SimplifyArith(lhs)),
		E2:   Simplify(SimplifyArith(rhs)),
	}
}

// FixSuccessor rewrites every succ(r[k]) in the assignment to r[k+1],
// leaving the rest of the structure untouched.
func (a *Assign) FixSuccessor() *Assign {
	return &Assign{size: a.size, E1: fixSuccessor(a.E1), E2: fixSuccessor(a.E2)}
}

func fixSuccessor(e Exp) Exp {
	children := e.Children()
	newChildren := make([]Exp, len(children))
	changed := false
	for i, c := range children {
		nc := fixSuccessor(c)
		newChildren[i] = nc
		if nc != c {
			changed = true
		}
	}
	cur := e
	if changed {
		cur = e.WithChildren(newChildren)
	}
	if u, ok := cur.(*Unary); ok && u.op == OpSuccessor {
		if reg, ok2 := u.E1.(*Unary); ok2 && reg.op == OpRegOf {
			if k, ok3 := IntConstValue(reg.E1); ok3 {
				return NewUnary(OpRegOf, NewIntConst(k+1))
			}
		}
	}
	return cur
}

// KillFill strips every zfill/sgnex wrapper from the assignment, keeping
// only the payload (third operand) each wraps.
func (a *Assign) KillFill() *Assign {
	return &Assign{size: a.size, E1: killFill(a.E1), E2: killFill(a.E2)}
}

func killFill(e Exp) Exp {
	children := e.Children()
	newChildren := make([]Exp, len(children))
	changed := false
	for i, c := range children {
		nc := killFill(c)
		newChildren[i] = nc
		if nc != c {
			changed = true
		}
	}
	cur := e
	if changed {
		cur = e.WithChildren(newChildren)
	}
	if t, ok := cur.(*Ternary); ok && (t.op == OpZfill || t.op == OpSgnEx) {
		return t.E3
	}
	return cur
}
