package rtlexpr

import "fmt"

// Op identifies the operator tag of an Exp node. The set is closed: the
// constructors, the printer, and the comparators panic, naming the op,
// on any value they do not recognize, so that adding an Op without
// updating them is loud, not silent.
type Op int

// Leaf operators. Const nodes use the four ConstX operators as their
// discriminator between payload kinds; Terminal nodes use the rest.
const (
	leafOpBegin Op = iota

	OpIntConst     // Const: i64 payload
	OpFltConst     // Const: f64 payload
	OpStrConst     // Const: interned string payload
	OpCodeAddrConst // Const: i64 address payload

	OpWild  // Terminal: matches any Exp at its position
	OpNil   // Terminal: tail of a List-constructed sequence
	OpPC    // Terminal: %pc
	OpFlags // Terminal: %flags
	OpCF    // Terminal: %CF
	OpZF    // Terminal: %ZF
	OpOF    // Terminal: %OF
	OpNF    // Terminal: %NF
	OpAFP   // Terminal: %afp
	OpAGP   // Terminal: %agp
	OpAnull // Terminal: %anul
	OpFpush // Terminal: FPUSH
	OpFpop  // Terminal: FPOP

	leafOpEnd
)

// Unary operators.
const (
	unaryOpBegin Op = iota + 100

	OpRegOf // r[e1]
	OpMemOf // m[e1]
	OpAddrOf // a[e1]
	OpVar   // v[e1]

	OpNot  // ~e1
	OpLNot // L~e1
	OpNeg  // -e1

	OpSignExt // e1!

	OpSqrt
	OpSin
	OpCos
	OpTan
	OpArcTan
	OpLog2
	OpLog10
	OpLoge
	OpMachFtr
	OpSuccessor
	OpSQRTs
	OpSQRTd
	OpSQRTq
	OpExecute

	OpTemp  // bare string
	OpLocal // bare string
	OpParam // bare string

	OpPhi // phi(e1)

	unaryOpEnd
)

// Binary operators.
const (
	binaryOpBegin Op = iota + 200

	OpPlus
	OpMinus
	OpMult
	OpMults // signed multiply
	OpDiv
	OpDivs // signed divide
	OpMod
	OpMods // signed modulo

	OpFPlus
	OpFMinus
	OpFMult
	OpFDiv

	OpAnd // logical and
	OpOr  // logical or

	OpBitAnd
	OpBitOr
	OpBitXor

	OpEquals
	OpNotEqual
	OpLess
	OpGtr
	OpLessEq
	OpGtrEq
	OpLessUns
	OpGtrUns
	OpLessEqUns
	OpGtrEqUns

	OpShiftL
	OpShiftR
	OpShiftRA
	OpRotateL
	OpRotateR
	OpRotateLC
	OpRotateRC

	OpSize      // e2{e1}, e1 is the bit-size sub-expression, e2 the target
	OpFlagCall  // NAME( args )
	OpExpTable  // exptable(a,b)
	OpNameTable // nametable(a,b)
	OpList      // cons list, a, b, Nil-terminated
	OpSubscript // a.b

	binaryOpEnd
)

// Ternary operators.
const (
	ternaryOpBegin Op = iota + 300

	OpTruncU
	OpTruncS
	OpZfill
	OpSgnEx
	OpFsize
	OpItof
	OpFtoi
	OpFround
	OpOpTable

	OpTern // cond ? a : b
	OpAt   // a@b:c, bit extraction

	ternaryOpEnd
)

// Wrapper and statement operators: each tags a distinct Exp variant
// rather than a printable leaf/unary/binary/ternary operator.
const (
	OpTypedExp Op = 400 + iota
	OpAssignExp
	OpFlagDef
)

var opNames = map[Op]string{
	OpIntConst: "IntConst", OpFltConst: "FltConst", OpStrConst: "StrConst", OpCodeAddrConst: "CodeAddrConst",
	OpWild: "Wild", OpNil: "Nil", OpPC: "%pc", OpFlags: "%flags", OpCF: "%CF", OpZF: "%ZF", OpOF: "%OF", OpNF: "%NF",
	OpAFP: "%afp", OpAGP: "%agp", OpAnull: "%anul", OpFpush: "FPUSH", OpFpop: "FPOP",

	OpRegOf: "RegOf", OpMemOf: "MemOf", OpAddrOf: "AddrOf", OpVar: "Var",
	OpNot: "Not", OpLNot: "LNot", OpNeg: "Neg", OpSignExt: "SignExt",
	OpSqrt: "Sqrt", OpSin: "Sin", OpCos: "Cos", OpTan: "Tan", OpArcTan: "ArcTan",
	OpLog2: "Log2", OpLog10: "Log10", OpLoge: "Loge", OpMachFtr: "MachFtr", OpSuccessor: "Successor",
	OpSQRTs: "SQRTs", OpSQRTd: "SQRTd", OpSQRTq: "SQRTq", OpExecute: "Execute",
	OpTemp: "Temp", OpLocal: "Local", OpParam: "Param", OpPhi: "Phi",

	OpPlus: "Plus", OpMinus: "Minus", OpMult: "Mult", OpMults: "Mults", OpDiv: "Div", OpDivs: "Divs",
	OpMod: "Mod", OpMods: "Mods", OpFPlus: "FPlus", OpFMinus: "FMinus", OpFMult: "FMult", OpFDiv: "FDiv",
	OpAnd: "And", OpOr: "Or", OpBitAnd: "BitAnd", OpBitOr: "BitOr", OpBitXor: "BitXor",
	OpEquals: "Equals", OpNotEqual: "NotEqual", OpLess: "Less", OpGtr: "Gtr", OpLessEq: "LessEq", OpGtrEq: "GtrEq",
	OpLessUns: "LessUns", OpGtrUns: "GtrUns", OpLessEqUns: "LessEqUns", OpGtrEqUns: "GtrEqUns",
	OpShiftL: "ShiftL", OpShiftR: "ShiftR", OpShiftRA: "ShiftRA", OpRotateL: "RotateL", OpRotateR: "RotateR",
	OpRotateLC: "RotateLC", OpRotateRC: "RotateRC",
	OpSize: "Size", OpFlagCall: "FlagCall", OpExpTable: "ExpTable", OpNameTable: "NameTable",
	OpList: "List", OpSubscript: "Subscript",

	OpTruncU: "TruncU", OpTruncS: "TruncS", OpZfill: "Zfill", OpSgnEx: "SgnEx", OpFsize: "Fsize",
	OpItof: "Itof", OpFtoi: "Ftoi", OpFround: "Fround", OpOpTable: "OpTable", OpTern: "Tern", OpAt: "At",

	OpTypedExp: "TypedExp", OpAssignExp: "AssignExp", OpFlagDef: "FlagDef",
}

// String returns the diagnostic name of op. Panics are formatted with
// this, not with the pretty-print grammar of §6.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// IsComparison reports whether op is one of the signed/unsigned ordering
// comparisons that simplify's comparison-rewrite rules target.
func (op Op) IsComparison() bool {
	switch op {
	case OpEquals, OpNotEqual, OpLess, OpGtr, OpLessEq, OpGtrEq, OpLessUns, OpGtrUns, OpLessEqUns, OpGtrEqUns:
		return true
	}
	return false
}

// IsUnsignedComparison reports whether op compares unsigned operands.
func (op Op) IsUnsignedComparison() bool {
	switch op {
	case OpLessUns, OpGtrUns, OpLessEqUns, OpGtrEqUns:
		return true
	}
	return false
}

// negatedComparison maps a comparison operator to its logical negation
// (for example, the negation of x > y is x <= y).
var negatedComparison = map[Op]Op{
	OpEquals:    OpNotEqual,
	OpNotEqual:  OpEquals,
	OpLess:      OpGtrEq,
	OpGtrEq:     OpLess,
	OpGtr:       OpLessEq,
	OpLessEq:    OpGtr,
	OpLessUns:   OpGtrEqUns,
	OpGtrEqUns:  OpLessUns,
	OpGtrUns:    OpLessEqUns,
	OpLessEqUns: OpGtrUns,
}
