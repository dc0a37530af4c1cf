package rtlexpr

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// binaryInfix maps a Binary op to its infix print form. OpLessUns and
// OpLessEqUns both print "<=u": the grammar in §6 only names three
// distinct unsigned-comparison strings for four operators, and nothing
// elsewhere in the grammar supplies a fourth, so the duplicate is kept
// rather than invented.
var binaryInfix = map[Op]string{
	OpPlus: " + ", OpMinus: " - ", OpMult: " * ", OpMults: " *! ",
	OpDiv: " / ", OpDivs: " /! ", OpMod: " % ", OpMods: " %! ",
	OpFPlus: " +f ", OpFMinus: " -f ", OpFMult: " *f ", OpFDiv: " /f ",
	OpAnd: " and ", OpOr: " or ", OpBitAnd: " & ", OpBitOr: " | ", OpBitXor: " ^ ",
	OpEquals: " = ", OpNotEqual: " ~= ",
	OpLess: " < ", OpGtr: " > ", OpLessEq: " <= ", OpGtrEq: " >= ",
	OpLessUns: " <=u ", OpGtrUns: " >u ", OpLessEqUns: " <=u ", OpGtrEqUns: " >=u ",
	OpShiftL: " << ", OpShiftR: " >> ", OpShiftRA: " >>A ",
	OpRotateL: " rl ", OpRotateR: " rr ", OpRotateLC: " rlc ", OpRotateRC: " rrc ",
}

var unaryBracket = map[Op][2]string{
	OpRegOf: {"r[", "]"}, OpMemOf: {"m[", "]"}, OpAddrOf: {"a[", "]"}, OpVar: {"v[", "]"},
}

var unaryPrefix = map[Op]string{
	OpNot: "~", OpLNot: "L~", OpNeg: "-",
}

var unaryFunc = map[Op]string{
	OpSqrt: "sqrt", OpSin: "sin", OpCos: "cos", OpTan: "tan", OpArcTan: "arctan",
	OpLog2: "log2", OpLog10: "log10", OpLoge: "loge", OpMachFtr: "machine", OpSuccessor: "succ",
	OpSQRTs: "SQRTs", OpSQRTd: "SQRTd", OpSQRTq: "SQRTq", OpExecute: "execute",
}

var bareStringUnary = map[Op]bool{OpTemp: true, OpLocal: true, OpParam: true}

var ternaryFunc = map[Op]string{
	OpTruncU: "truncu", OpTruncS: "truncs", OpZfill: "zfill", OpSgnEx: "sgnex",
	OpFsize: "fsize", OpItof: "itof", OpFtoi: "ftoi", OpFround: "fround", OpOpTable: "optable",
}

var terminalText = map[Op]string{
	OpPC: "%pc", OpFlags: "%flags", OpCF: "%CF", OpZF: "%ZF", OpOF: "%OF", OpNF: "%NF",
	OpAFP: "%afp", OpAGP: "%agp", OpAnull: "%anul", OpWild: "WILD", OpFpush: "FPUSH", OpFpop: "FPOP",
	OpNil: "",
}

// Format writes e's infix pretty-printed form to w. The outer level never
// adds parentheses, matching the grammar's "outer level emits no
// parentheses" rule.
func Format(w io.Writer, e Exp) { writeBody(w, e) }

// FormatRecursive writes e as it would appear nested inside a parent
// node, adding parentheses around plain infix binaries and the
// non-function-form ternaries (cond?a:b and a@b:c), per §6.
func FormatRecursive(w io.Writer, e Exp) {
	if needsParens(e) {
		io.WriteString(w, "(")
		writeBody(w, e)
		io.WriteString(w, ")")
	} else {
		writeBody(w, e)
	}
}

// FormatBare writes e without the surrounding quotes a string Const
// normally prints with. Non-Const nodes print exactly as Format would.
func FormatBare(w io.Writer, e Exp) {
	if c, ok := e.(*Const); ok && c.op == OpStrConst {
		io.WriteString(w, c.s)
		return
	}
	Format(w, e)
}

func formatToString(e Exp) string {
	var b strings.Builder
	Format(&b, e)
	return b.String()
}

func needsParens(e Exp) bool {
	switch e.Op() {
	case OpSize, OpFlagCall, OpExpTable, OpNameTable, OpList, OpSubscript:
		return false
	}
	switch v := e.(type) {
	case *Binary:
		_, ok := binaryInfix[v.op]
		return ok
	case *Ternary:
		return v.op == OpTern || v.op == OpAt
	default:
		return false
	}
}

func writeBody(w io.Writer, e Exp) {
	switch v := e.(type) {
	case *Const:
		writeConst(w, v)
	case *Terminal:
		io.WriteString(w, terminalText[v.op])
	case *Unary:
		writeUnary(w, v)
	case *Binary:
		writeBinary(w, v)
	case *Ternary:
		writeTernary(w, v)
	case *Typed:
		fmt.Fprintf(w, "*%d* ", v.typ.SizeInBits())
		FormatRecursive(w, v.E1)
	case *Assign:
		fmt.Fprintf(w, "*%d* ", v.size)
		FormatRecursive(w, v.E1)
		io.WriteString(w, " := ")
		FormatRecursive(w, v.E2)
	case *FlagDef:
		io.WriteString(w, "FlagDef(")
		FormatRecursive(w, v.E1)
		io.WriteString(w, ")")
	default:
		assert(false, "writeBody: unhandled Exp type for op %v", e.Op())
	}
}

func writeConst(w io.Writer, c *Const) {
	switch c.op {
	case OpIntConst, OpCodeAddrConst:
		io.WriteString(w, strconv.FormatInt(c.i, 10))
	case OpFltConst:
		io.WriteString(w, strconv.FormatFloat(c.f, 'g', -1, 64))
	case OpStrConst:
		io.WriteString(w, strconv.Quote(c.s))
	default:
		assert(false, "writeConst: unhandled const op %v", c.op)
	}
}

func writeUnary(w io.Writer, u *Unary) {
	if br, ok := unaryBracket[u.op]; ok {
		io.WriteString(w, br[0])
		writeBody(w, u.E1)
		io.WriteString(w, br[1])
		return
	}
	if prefix, ok := unaryPrefix[u.op]; ok {
		io.WriteString(w, prefix)
		FormatRecursive(w, u.E1)
		return
	}
	if u.op == OpSignExt {
		FormatRecursive(w, u.E1)
		io.WriteString(w, "!")
		return
	}
	if name, ok := unaryFunc[u.op]; ok {
		io.WriteString(w, name)
		io.WriteString(w, "(")
		FormatRecursive(w, u.E1)
		io.WriteString(w, ")")
		return
	}
	if bareStringUnary[u.op] {
		FormatBare(w, u.E1)
		return
	}
	if u.op == OpPhi {
		io.WriteString(w, "phi(")
		FormatRecursive(w, u.E1)
		io.WriteString(w, ")")
		return
	}
	assert(false, "writeUnary: unhandled unary op %v", u.op)
}

func writeBinary(w io.Writer, b *Binary) {
	if infix, ok := binaryInfix[b.op]; ok {
		FormatRecursive(w, b.E1)
		io.WriteString(w, infix)
		FormatRecursive(w, b.E2)
		return
	}
	switch b.op {
	case OpSize:
		// e1 is the bit-size sub-expression, e2 is the target: prints as
		// target{size}.
		FormatRecursive(w, b.E2)
		io.WriteString(w, "{")
		FormatRecursive(w, b.E1)
		io.WriteString(w, "}")
	case OpFlagCall:
		FormatBare(w, b.E1)
		io.WriteString(w, "( ")
		writeListElements(w, b.E2)
		io.WriteString(w, " )")
	case OpExpTable:
		io.WriteString(w, "exptable(")
		FormatRecursive(w, b.E1)
		io.WriteString(w, ",")
		FormatRecursive(w, b.E2)
		io.WriteString(w, ")")
	case OpNameTable:
		io.WriteString(w, "nametable(")
		FormatRecursive(w, b.E1)
		io.WriteString(w, ",")
		FormatRecursive(w, b.E2)
		io.WriteString(w, ")")
	case OpList:
		writeListElements(w, b)
	case OpSubscript:
		FormatRecursive(w, b.E1)
		io.WriteString(w, ".")
		FormatRecursive(w, b.E2)
	default:
		assert(false, "writeBinary: unhandled binary op %v", b.op)
	}
}

// writeListElements prints a chain of List(head, tail) nodes as a
// comma-separated sequence, suppressing the trailing Nil.
func writeListElements(w io.Writer, e Exp) {
	for {
		b, ok := e.(*Binary)
		if !ok || b.op != OpList {
			if e.Op() != OpNil {
				FormatRecursive(w, e)
			}
			return
		}
		FormatRecursive(w, b.E1)
		if b.E2.Op() == OpNil {
			return
		}
		io.WriteString(w, ",")
		e = b.E2
	}
}

func writeTernary(w io.Writer, t *Ternary) {
	if name, ok := ternaryFunc[t.op]; ok {
		io.WriteString(w, name)
		io.WriteString(w, "(")
		FormatRecursive(w, t.E1)
		io.WriteString(w, ",")
		FormatRecursive(w, t.E2)
		io.WriteString(w, ",")
		FormatRecursive(w, t.E3)
		io.WriteString(w, ")")
		return
	}
	switch t.op {
	case OpTern:
		FormatRecursive(w, t.E1)
		io.WriteString(w, " ? ")
		FormatRecursive(w, t.E2)
		io.WriteString(w, " : ")
		FormatRecursive(w, t.E3)
	case OpAt:
		FormatRecursive(w, t.E1)
		io.WriteString(w, "@")
		FormatRecursive(w, t.E2)
		io.WriteString(w, ":")
		FormatRecursive(w, t.E3)
	default:
		assert(false, "writeTernary: unhandled ternary op %v", t.op)
	}
}

// WriteDot writes a Graphviz digraph rendering of the subtree rooted at
// e, keyed by node identity (each node gets one id regardless of how
// many times it is visited; since the data model has no sharing this
// only matters for repeated scalar payloads printing as distinct nodes).
func WriteDot(w io.Writer, e Exp) {
	io.WriteString(w, "digraph Exp {\n")
	n := 0
	ids := make(map[Exp]int)
	var walk func(Exp) int
	walk = func(e Exp) int {
		if id, ok := ids[e]; ok {
			return id
		}
		id := n
		n++
		ids[e] = id
		fmt.Fprintf(w, "  n%d [label=%q];\n", id, dotLabel(e))
		for _, c := range e.Children() {
			cid := walk(c)
			fmt.Fprintf(w, "  n%d -> n%d;\n", id, cid)
		}
		return id
	}
	walk(e)
	io.WriteString(w, "}\n")
}

func dotLabel(e Exp) string {
	switch v := e.(type) {
	case *Const:
		var b strings.Builder
		writeConst(&b, v)
		return b.String()
	default:
		return e.Op().String()
	}
}
