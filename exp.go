package rtlexpr

// Exp is a node in the symbolic-expression tree. It is implemented by
// *Const, *Terminal, *Unary, *Binary, *Ternary, *Typed, *Assign, and
// *FlagDef — a closed set. Every node owns its children exclusively:
// passing a child into a constructor transfers ownership of it, and no
// subtree is ever shared between two independently-held roots.
//
// The small method set below (Op, Children, WithChildren, Clone, String)
// is all each concrete type implements directly. Everything else in this
// package — equality, ordering, printing, search/replace, serialization,
// and simplification — is a free function that dispatches on the
// concrete type with an exhaustive type switch, so that adding a new
// variant or Op without updating every one of those switches panics
// instead of silently doing the wrong thing.
type Exp interface {
	// Op returns the node's operator tag.
	Op() Op

	// Children returns the node's direct children, in the fixed order
	// used throughout this package (left before right, 1 before 2
	// before 3). Leaves return nil.
	Children() []Exp

	// WithChildren returns a node of the same concrete type and
	// non-child payload (Const's value, Typed's type, Assign's size,
	// FlagDef's RTL) but with its children replaced. len(children)
	// must equal len(e.Children()).
	WithChildren(children []Exp) Exp

	// Clone returns a deep, fully independent copy of the subtree
	// rooted at e.
	Clone() Exp

	// String returns the infix pretty-printed form of e, per the
	// grammar in §6. Equivalent to calling Format on a string builder.
	String() string
}

// ConstKind distinguishes the payload carried by a Const node. It is
// encoded directly as the node's Op (OpIntConst, OpFltConst, OpStrConst,
// OpCodeAddrConst) rather than as a separate field, matching the
// original's reuse of the OPER tag as the payload discriminator.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFlt
	ConstStr
	ConstCodeAddr
)

// Const is a leaf holding an integer, float, string, or code-address
// constant.
type Const struct {
	op Op
	i  int64
	f  float64
	s  string
}

// NewIntConst returns a new 64-bit signed integer constant.
func NewIntConst(i int64) *Const { return &Const{op: OpIntConst, i: i} }

// NewFltConst returns a new floating-point constant.
func NewFltConst(f float64) *Const { return &Const{op: OpFltConst, f: f} }

// NewStrConst returns a new string constant. The Exp owns the bytes of s.
func NewStrConst(s string) *Const { return &Const{op: OpStrConst, s: s} }

// NewCodeAddrConst returns a new code-address constant.
func NewCodeAddrConst(addr int64) *Const { return &Const{op: OpCodeAddrConst, i: addr} }

// Kind reports which payload this Const carries.
func (c *Const) Kind() ConstKind {
	switch c.op {
	case OpIntConst:
		return ConstInt
	case OpFltConst:
		return ConstFlt
	case OpStrConst:
		return ConstStr
	case OpCodeAddrConst:
		return ConstCodeAddr
	default:
		assert(false, "Const.Kind: invalid op %v", c.op)
		panic("unreachable")
	}
}

// Int returns the integer payload. Valid for ConstInt and ConstCodeAddr.
func (c *Const) Int() int64 { return c.i }

// Flt returns the float payload. Valid for ConstFlt.
func (c *Const) Flt() float64 { return c.f }

// Str returns the string payload. Valid for ConstStr.
func (c *Const) Str() string { return c.s }

func (c *Const) Op() Op                   { return c.op }
func (c *Const) Children() []Exp          { return nil }
func (c *Const) WithChildren(ch []Exp) Exp { assert(len(ch) == 0, "Const.WithChildren: leaf takes no children"); return c.Clone() }
func (c *Const) Clone() Exp               { cp := *c; return &cp }
func (c *Const) String() string           { return formatToString(c) }

// Terminal is a leaf denoting an architectural register, flag, or
// sentinel such as Wild, Nil, or %pc. It carries no payload.
type Terminal struct {
	op Op
}

var terminalOps = map[Op]bool{
	OpWild: true, OpNil: true, OpPC: true, OpFlags: true, OpCF: true, OpZF: true,
	OpOF: true, OpNF: true, OpAFP: true, OpAGP: true, OpAnull: true, OpFpush: true, OpFpop: true,
}

// NewTerminal returns a new Terminal of the given kind.
func NewTerminal(op Op) *Terminal {
	assert(terminalOps[op], "NewTerminal: not a terminal op: %v", op)
	return &Terminal{op: op}
}

func (t *Terminal) Op() Op                   { return t.op }
func (t *Terminal) Children() []Exp          { return nil }
func (t *Terminal) WithChildren(ch []Exp) Exp { assert(len(ch) == 0, "Terminal.WithChildren: leaf takes no children"); return t.Clone() }
func (t *Terminal) Clone() Exp               { cp := *t; return &cp }
func (t *Terminal) String() string           { return formatToString(t) }

// Wild is the pattern terminal that matches any Exp at its position.
var Wild = NewTerminal(OpWild)

// Nil is the sentinel that terminates a List-constructed sequence.
var Nil = NewTerminal(OpNil)

var unaryOps = map[Op]bool{
	OpRegOf: true, OpMemOf: true, OpAddrOf: true, OpVar: true,
	OpNot: true, OpLNot: true, OpNeg: true, OpSignExt: true,
	OpSqrt: true, OpSin: true, OpCos: true, OpTan: true, OpArcTan: true,
	OpLog2: true, OpLog10: true, OpLoge: true, OpMachFtr: true, OpSuccessor: true,
	OpSQRTs: true, OpSQRTd: true, OpSQRTq: true, OpExecute: true,
	OpTemp: true, OpLocal: true, OpParam: true, OpPhi: true,
}

// Unary owns a single child under a unary operator.
type Unary struct {
	op Op
	E1 Exp
}

// NewUnary returns a new Unary node. Takes ownership of e1.
func NewUnary(op Op, e1 Exp) *Unary {
	assert(unaryOps[op], "NewUnary: not a unary op: %v", op)
	assert(e1 != nil, "NewUnary: nil child")
	return &Unary{op: op, E1: e1}
}

func (u *Unary) Op() Op          { return u.op }
func (u *Unary) Children() []Exp { return []Exp{u.E1} }
func (u *Unary) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 1, "Unary.WithChildren: want 1 child, got %d", len(ch))
	return &Unary{op: u.op, E1: ch[0]}
}
func (u *Unary) Clone() Exp     { return &Unary{op: u.op, E1: u.E1.Clone()} }
func (u *Unary) String() string { return formatToString(u) }

var binaryOps = map[Op]bool{
	OpPlus: true, OpMinus: true, OpMult: true, OpMults: true, OpDiv: true, OpDivs: true,
	OpMod: true, OpMods: true, OpFPlus: true, OpFMinus: true, OpFMult: true, OpFDiv: true,
	OpAnd: true, OpOr: true, OpBitAnd: true, OpBitOr: true, OpBitXor: true,
	OpEquals: true, OpNotEqual: true, OpLess: true, OpGtr: true, OpLessEq: true, OpGtrEq: true,
	OpLessUns: true, OpGtrUns: true, OpLessEqUns: true, OpGtrEqUns: true,
	OpShiftL: true, OpShiftR: true, OpShiftRA: true, OpRotateL: true, OpRotateR: true,
	OpRotateLC: true, OpRotateRC: true,
	OpSize: true, OpFlagCall: true, OpExpTable: true, OpNameTable: true, OpList: true, OpSubscript: true,
}

// Binary owns two children under a binary operator.
type Binary struct {
	op     Op
	E1, E2 Exp
}

// NewBinary returns a new Binary node. Takes ownership of e1 and e2.
func NewBinary(op Op, e1, e2 Exp) *Binary {
	assert(binaryOps[op], "NewBinary: not a binary op: %v", op)
	assert(e1 != nil && e2 != nil, "NewBinary: nil child")
	return &Binary{op: op, E1: e1, E2: e2}
}

func (b *Binary) Op() Op          { return b.op }
func (b *Binary) Children() []Exp { return []Exp{b.E1, b.E2} }
func (b *Binary) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 2, "Binary.WithChildren: want 2 children, got %d", len(ch))
	return &Binary{op: b.op, E1: ch[0], E2: ch[1]}
}
func (b *Binary) Clone() Exp     { return &Binary{op: b.op, E1: b.E1.Clone(), E2: b.E2.Clone()} }
func (b *Binary) String() string { return formatToString(b) }

var ternaryOps = map[Op]bool{
	OpTruncU: true, OpTruncS: true, OpZfill: true, OpSgnEx: true, OpFsize: true,
	OpItof: true, OpFtoi: true, OpFround: true, OpOpTable: true, OpTern: true, OpAt: true,
}

// Ternary owns three children under a ternary operator.
type Ternary struct {
	op         Op
	E1, E2, E3 Exp
}

// NewTernary returns a new Ternary node. Takes ownership of e1, e2, e3.
func NewTernary(op Op, e1, e2, e3 Exp) *Ternary {
	assert(ternaryOps[op], "NewTernary: not a ternary op: %v", op)
	assert(e1 != nil && e2 != nil && e3 != nil, "NewTernary: nil child")
	return &Ternary{op: op, E1: e1, E2: e2, E3: e3}
}

func (t *Ternary) Op() Op          { return t.op }
func (t *Ternary) Children() []Exp { return []Exp{t.E1, t.E2, t.E3} }
func (t *Ternary) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 3, "Ternary.WithChildren: want 3 children, got %d", len(ch))
	return &Ternary{op: t.op, E1: ch[0], E2: ch[1], E3: ch[2]}
}
func (t *Ternary) Clone() Exp {
	return &Ternary{op: t.op, E1: t.E1.Clone(), E2: t.E2.Clone(), E3: t.E3.Clone()}
}
func (t *Ternary) String() string { return formatToString(t) }

// Typed wraps a child with an externally-owned Type handle. A Typed node
// must not wrap an Assign. An Assign may have a Typed LHS: NewAssign reads
// its size from the type and keeps the Typed node as the LHS.
type Typed struct {
	typ Type
	E1  Exp
}

// NewTyped returns a new Typed node. Takes ownership of e1 and typ.
func NewTyped(typ Type, e1 Exp) *Typed {
	assert(e1 != nil, "NewTyped: nil child")
	assert(e1.Op() != OpAssignExp, "NewTyped: Typed must not wrap Assign")
	return &Typed{typ: typ, E1: e1}
}

// Type returns the type handle owned by this node.
func (t *Typed) Type() Type { return t.typ }

func (t *Typed) Op() Op          { return OpTypedExp }
func (t *Typed) Children() []Exp { return []Exp{t.E1} }
func (t *Typed) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 1, "Typed.WithChildren: want 1 child, got %d", len(ch))
	return &Typed{typ: t.typ, E1: ch[0]}
}
func (t *Typed) Clone() Exp     { return &Typed{typ: t.typ.Clone(), E1: t.E1.Clone()} }
func (t *Typed) String() string { return formatToString(t) }

// Assign is the statement-form Exp: an LHS, an RHS, and a bit width. When
// constructed with a Typed LHS, the size is read from the type instead of
// defaulting.
type Assign struct {
	size   int
	E1, E2 Exp // LHS, RHS
}

// NewAssign returns a new Assign node with a size inferred from a Typed
// LHS, or DefaultAssignSize otherwise. Takes ownership of lhs and rhs.
func NewAssign(lhs, rhs Exp) *Assign {
	assert(lhs != nil && rhs != nil, "NewAssign: nil operand")
	size := DefaultAssignSize
	if t, ok := lhs.(*Typed); ok {
		size = t.typ.SizeInBits()
	}
	return &Assign{size: size, E1: lhs, E2: rhs}
}

// NewAssignSize returns a new Assign node with an explicit size.
func NewAssignSize(size int, lhs, rhs Exp) *Assign {
	assert(lhs != nil && rhs != nil, "NewAssignSize: nil operand")
	return &Assign{size: size, E1: lhs, E2: rhs}
}

// Size returns the assignment's bit width.
func (a *Assign) Size() int { return a.size }

// SetSize sets the assignment's bit width.
func (a *Assign) SetSize(size int) { a.size = size }

// LHS returns the left-hand side of the assignment.
func (a *Assign) LHS() Exp { return a.E1 }

// RHS returns the right-hand side of the assignment.
func (a *Assign) RHS() Exp { return a.E2 }

func (a *Assign) Op() Op          { return OpAssignExp }
func (a *Assign) Children() []Exp { return []Exp{a.E1, a.E2} }
func (a *Assign) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 2, "Assign.WithChildren: want 2 children, got %d", len(ch))
	return &Assign{size: a.size, E1: ch[0], E2: ch[1]}
}
func (a *Assign) Clone() Exp {
	return &Assign{size: a.size, E1: a.E1.Clone(), E2: a.E2.Clone()}
}
func (a *Assign) String() string { return formatToString(a) }

// FlagDef attaches an externally-owned RTL fragment that computes flags
// to its parameter list.
type FlagDef struct {
	rtl RTL
	E1  Exp // params
}

// NewFlagDef returns a new FlagDef node. Takes ownership of params and rtl.
func NewFlagDef(params Exp, rtl RTL) *FlagDef {
	assert(params != nil, "NewFlagDef: nil params")
	return &FlagDef{rtl: rtl, E1: params}
}

// RTL returns the RTL handle owned by this node.
func (f *FlagDef) RTL() RTL { return f.rtl }

// Params returns the parameter-list child.
func (f *FlagDef) Params() Exp { return f.E1 }

func (f *FlagDef) Op() Op          { return OpFlagDef }
func (f *FlagDef) Children() []Exp { return []Exp{f.E1} }
func (f *FlagDef) WithChildren(ch []Exp) Exp {
	assert(len(ch) == 1, "FlagDef.WithChildren: want 1 child, got %d", len(ch))
	return &FlagDef{rtl: f.rtl, E1: ch[0]}
}
func (f *FlagDef) Clone() Exp {
	var rtl RTL
	if f.rtl != nil {
		rtl = f.rtl.Clone()
	}
	return &FlagDef{rtl: rtl, E1: f.E1.Clone()}
}
func (f *FlagDef) String() string { return formatToString(f) }

// IsWild reports whether e's root operator is the wildcard pattern.
func IsWild(e Exp) bool { return e.Op() == OpWild }

// IsIntConst reports whether e is an integer constant.
func IsIntConst(e Exp) bool {
	c, ok := e.(*Const)
	return ok && c.op == OpIntConst
}

// IntConstValue returns the integer payload of e and true if e is an
// integer constant.
func IntConstValue(e Exp) (int64, bool) {
	c, ok := e.(*Const)
	if !ok || c.op != OpIntConst {
		return 0, false
	}
	return c.i, true
}
