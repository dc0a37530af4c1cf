package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arvo-decomp/rtlexpr"
)

// The CLI's input syntax is a minimal, fully-parenthesized prefix form:
//
//	(OpName child...)
//
// with bare integers as IntConst, double-quoted text as StrConst, and a
// fixed set of bare words for terminals (Wild, Nil, %pc, %flags, %CF,
// %ZF, %OF, %NF, %afp, %agp, %anul, FPUSH, FPOP). It exists to exercise
// Simplify from the command line, not to round-trip every node kind:
// Typed, Assign, and FlagDef need an external Type/RTL/Statement handle
// this driver has no source for, so the grammar has no form for them.
var terminalsByName = map[string]rtlexpr.Op{
	"Wild": rtlexpr.OpWild, "Nil": rtlexpr.OpNil,
	"%pc": rtlexpr.OpPC, "%flags": rtlexpr.OpFlags,
	"%CF": rtlexpr.OpCF, "%ZF": rtlexpr.OpZF, "%OF": rtlexpr.OpOF, "%NF": rtlexpr.OpNF,
	"%afp": rtlexpr.OpAFP, "%agp": rtlexpr.OpAGP, "%anul": rtlexpr.OpAnull,
	"FPUSH": rtlexpr.OpFpush, "FPOP": rtlexpr.OpFpop,
}

var unaryByName = map[string]rtlexpr.Op{
	"RegOf": rtlexpr.OpRegOf, "MemOf": rtlexpr.OpMemOf, "AddrOf": rtlexpr.OpAddrOf, "Var": rtlexpr.OpVar,
	"Not": rtlexpr.OpNot, "LNot": rtlexpr.OpLNot, "Neg": rtlexpr.OpNeg, "SignExt": rtlexpr.OpSignExt,
	"Sqrt": rtlexpr.OpSqrt, "Sin": rtlexpr.OpSin, "Cos": rtlexpr.OpCos, "Tan": rtlexpr.OpTan,
	"ArcTan": rtlexpr.OpArcTan, "Log2": rtlexpr.OpLog2, "Log10": rtlexpr.OpLog10, "Loge": rtlexpr.OpLoge,
	"MachFtr": rtlexpr.OpMachFtr, "Successor": rtlexpr.OpSuccessor,
	"SQRTs": rtlexpr.OpSQRTs, "SQRTd": rtlexpr.OpSQRTd, "SQRTq": rtlexpr.OpSQRTq, "Execute": rtlexpr.OpExecute,
	"Phi": rtlexpr.OpPhi,
}

var binaryByName = map[string]rtlexpr.Op{
	"Plus": rtlexpr.OpPlus, "Minus": rtlexpr.OpMinus, "Mult": rtlexpr.OpMult, "Mults": rtlexpr.OpMults,
	"Div": rtlexpr.OpDiv, "Divs": rtlexpr.OpDivs, "Mod": rtlexpr.OpMod, "Mods": rtlexpr.OpMods,
	"FPlus": rtlexpr.OpFPlus, "FMinus": rtlexpr.OpFMinus, "FMult": rtlexpr.OpFMult, "FDiv": rtlexpr.OpFDiv,
	"And": rtlexpr.OpAnd, "Or": rtlexpr.OpOr,
	"BitAnd": rtlexpr.OpBitAnd, "BitOr": rtlexpr.OpBitOr, "BitXor": rtlexpr.OpBitXor,
	"Equals": rtlexpr.OpEquals, "NotEqual": rtlexpr.OpNotEqual,
	"Less": rtlexpr.OpLess, "Gtr": rtlexpr.OpGtr, "LessEq": rtlexpr.OpLessEq, "GtrEq": rtlexpr.OpGtrEq,
	"LessUns": rtlexpr.OpLessUns, "GtrUns": rtlexpr.OpGtrUns,
	"LessEqUns": rtlexpr.OpLessEqUns, "GtrEqUns": rtlexpr.OpGtrEqUns,
	"ShiftL": rtlexpr.OpShiftL, "ShiftR": rtlexpr.OpShiftR, "ShiftRA": rtlexpr.OpShiftRA,
	"RotateL": rtlexpr.OpRotateL, "RotateR": rtlexpr.OpRotateR,
	"RotateLC": rtlexpr.OpRotateLC, "RotateRC": rtlexpr.OpRotateRC,
	"Size": rtlexpr.OpSize, "ExpTable": rtlexpr.OpExpTable, "NameTable": rtlexpr.OpNameTable,
	"List": rtlexpr.OpList, "Subscript": rtlexpr.OpSubscript,
}

var ternaryByName = map[string]rtlexpr.Op{
	"TruncU": rtlexpr.OpTruncU, "TruncS": rtlexpr.OpTruncS, "Zfill": rtlexpr.OpZfill, "SgnEx": rtlexpr.OpSgnEx,
	"Fsize": rtlexpr.OpFsize, "Itof": rtlexpr.OpItof, "Ftoi": rtlexpr.OpFtoi, "Fround": rtlexpr.OpFround,
	"OpTable": rtlexpr.OpOpTable, "Tern": rtlexpr.OpTern, "At": rtlexpr.OpAt,
}

type parser struct {
	toks []string
	pos  int
}

// tokenize splits on parens and whitespace, keeping quoted strings intact.
func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	inString := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			cur.WriteByte(c)
			if c == '"' {
				inString = false
				flush()
			}
		case c == '"':
			flush()
			inString = true
			cur.WriteByte(c)
		case c == '(' || c == ')':
			flush()
			toks = append(toks, string(c))
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks
}

// parseExp parses one expression from s, the tiny prefix syntax described
// above, and returns it with any unused input reported as an error.
func parseExp(s string) (rtlexpr.Exp, error) {
	p := &parser{toks: tokenize(s)}
	e, err := p.parseOne()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected trailing input at token %d", p.pos)
	}
	return e, nil
}

func (p *parser) next() (string, error) {
	if p.pos >= len(p.toks) {
		return "", fmt.Errorf("unexpected end of input")
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseOne() (rtlexpr.Exp, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok == "(":
		return p.parseForm()
	case tok == ")":
		return nil, fmt.Errorf("unexpected )")
	case strings.HasPrefix(tok, `"`):
		return rtlexpr.NewStrConst(strings.Trim(tok, `"`)), nil
	}
	if op, ok := terminalsByName[tok]; ok {
		return rtlexpr.NewTerminal(op), nil
	}
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return rtlexpr.NewIntConst(v), nil
	}
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return rtlexpr.NewFltConst(v), nil
	}
	return nil, fmt.Errorf("unrecognized atom %q", tok)
}

func (p *parser) parseForm() (rtlexpr.Exp, error) {
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	var children []rtlexpr.Exp
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated form %q", name)
		}
		if tok == ")" {
			p.pos++
			break
		}
		child, err := p.parseOne()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	switch {
	case len(children) == 1:
		if op, ok := unaryByName[name]; ok {
			return rtlexpr.NewUnary(op, children[0]), nil
		}
	case len(children) == 2:
		if op, ok := binaryByName[name]; ok {
			return rtlexpr.NewBinary(op, children[0], children[1]), nil
		}
	case len(children) == 3:
		if op, ok := ternaryByName[name]; ok {
			return rtlexpr.NewTernary(op, children[0], children[1], children[2]), nil
		}
	}
	return nil, fmt.Errorf("%q is not a known operator for %d argument(s)", name, len(children))
}
