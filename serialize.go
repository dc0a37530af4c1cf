package rtlexpr

import (
	"encoding/binary"
	"io"
)

// Node tag bytes, one per Exp variant.
const (
	tagConst    byte = 'C'
	tagTerminal byte = 't'
	tagUnary    byte = 'U'
	tagBinary   byte = 'B'
	tagTernary  byte = 'T'
	tagTyped    byte = 'y'
	tagAssign   byte = 'A'
	tagFlagDef  byte = 'F'
)

// endMarker terminates every serialized node, mirroring the original
// format's fixed end-of-node marker.
const endMarker byte = 0xFF

// Serialize writes e to w in the tag-dispatched binary format of §4.4:
// one tag byte, the operator as a little-endian int32, payload and
// children in constructor order, then endMarker.
func Serialize(w io.Writer, e Exp) error {
	switch v := e.(type) {
	case *Const:
		return serializeConst(w, v)
	case *Terminal:
		return serializeTerminal(w, v)
	case *Unary:
		return serializeUnary(w, v)
	case *Binary:
		return serializeBinary(w, v)
	case *Ternary:
		return serializeTernary(w, v)
	case *Typed:
		return serializeTyped(w, v)
	case *Assign:
		return serializeAssign(w, v)
	case *FlagDef:
		return serializeFlagDef(w, v)
	default:
		assert(false, "Serialize: unhandled Exp type for op %v", e.Op())
		return nil
	}
}

// Deserialize reads one node back from r. decodeType and decodeRTL
// reconstruct the opaque Type/RTL payloads of Typed/Assign and FlagDef
// nodes; pass nil for either if the stream is known not to contain them.
// A malformed record (unknown tag, unknown op, missing end marker)
// yields an error and the caller should skip that record rather than
// retry.
func Deserialize(r io.Reader, decodeType TypeDecoder, decodeRTL RTLDecoder) (Exp, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return nil, ErrShortRead
	}
	switch tagBuf[0] {
	case tagConst:
		return deserializeConst(r)
	case tagTerminal:
		return deserializeTerminal(r)
	case tagUnary:
		return deserializeUnary(r, decodeType, decodeRTL)
	case tagBinary:
		return deserializeBinary(r, decodeType, decodeRTL)
	case tagTernary:
		return deserializeTernary(r, decodeType, decodeRTL)
	case tagTyped:
		return deserializeTyped(r, decodeType, decodeRTL)
	case tagAssign:
		return deserializeAssign(r, decodeType, decodeRTL)
	case tagFlagDef:
		return deserializeFlagDef(r, decodeType, decodeRTL)
	default:
		return nil, ErrUnknownTag
	}
}

func writeTag(w io.Writer, tag byte) error {
	_, err := w.Write([]byte{tag})
	return err
}

func writeOp(w io.Writer, op Op) error {
	return binary.Write(w, binary.LittleEndian, int32(op))
}

func writeInt64(w io.Writer, v int64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeEnd(w io.Writer) error {
	_, err := w.Write([]byte{endMarker})
	return err
}

func writeOptionalRTL(w io.Writer, rtl RTL) error {
	if rtl == nil {
		_, err := w.Write([]byte{0})
		return err
	}
	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}
	return rtl.Serialize(w)
}

func readOp(r io.Reader) (Op, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, ErrShortRead
	}
	return Op(v), nil
}

func readInt64(r io.Reader) (int64, error) {
	var v int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, ErrShortRead
	}
	return v, nil
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, ErrShortRead
	}
	return v, nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", ErrShortRead
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrShortRead
	}
	return string(buf), nil
}

func readEnd(r io.Reader) error {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ErrShortRead
	}
	if buf[0] != endMarker {
		return ErrMissingEnd
	}
	return nil
}

func readOptionalRTL(r io.Reader, decodeRTL RTLDecoder) (RTL, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrShortRead
	}
	if buf[0] == 0 {
		return nil, nil
	}
	if decodeRTL == nil {
		return nil, ErrUnknownTag
	}
	return decodeRTL(r)
}

func serializeConst(w io.Writer, c *Const) error {
	if err := writeTag(w, tagConst); err != nil {
		return err
	}
	if err := writeOp(w, c.op); err != nil {
		return err
	}
	switch c.op {
	case OpIntConst, OpCodeAddrConst:
		if err := writeInt64(w, c.i); err != nil {
			return err
		}
	case OpFltConst:
		if err := writeFloat64(w, c.f); err != nil {
			return err
		}
	case OpStrConst:
		if err := writeString(w, c.s); err != nil {
			return err
		}
	default:
		assert(false, "serializeConst: unhandled const op %v", c.op)
	}
	return writeEnd(w)
}

func deserializeConst(r io.Reader) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	var c *Const
	switch op {
	case OpIntConst, OpCodeAddrConst:
		v, err := readInt64(r)
		if err != nil {
			return nil, err
		}
		c = &Const{op: op, i: v}
	case OpFltConst:
		v, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		c = &Const{op: op, f: v}
	case OpStrConst:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		c = &Const{op: op, s: s}
	default:
		return nil, ErrUnknownOp
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return c, nil
}

func serializeTerminal(w io.Writer, t *Terminal) error {
	if err := writeTag(w, tagTerminal); err != nil {
		return err
	}
	if err := writeOp(w, t.op); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeTerminal(r io.Reader) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if !terminalOps[op] {
		return nil, ErrUnknownOp
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Terminal{op: op}, nil
}

func serializeUnary(w io.Writer, u *Unary) error {
	if err := writeTag(w, tagUnary); err != nil {
		return err
	}
	if err := writeOp(w, u.op); err != nil {
		return err
	}
	if err := Serialize(w, u.E1); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeUnary(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if !unaryOps[op] {
		return nil, ErrUnknownOp
	}
	child, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Unary{op: op, E1: child}, nil
}

func serializeBinary(w io.Writer, b *Binary) error {
	if err := writeTag(w, tagBinary); err != nil {
		return err
	}
	if err := writeOp(w, b.op); err != nil {
		return err
	}
	if err := Serialize(w, b.E1); err != nil {
		return err
	}
	if err := Serialize(w, b.E2); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeBinary(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if !binaryOps[op] {
		return nil, ErrUnknownOp
	}
	e1, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	e2, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Binary{op: op, E1: e1, E2: e2}, nil
}

func serializeTernary(w io.Writer, t *Ternary) error {
	if err := writeTag(w, tagTernary); err != nil {
		return err
	}
	if err := writeOp(w, t.op); err != nil {
		return err
	}
	if err := Serialize(w, t.E1); err != nil {
		return err
	}
	if err := Serialize(w, t.E2); err != nil {
		return err
	}
	if err := Serialize(w, t.E3); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeTernary(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if !ternaryOps[op] {
		return nil, ErrUnknownOp
	}
	e1, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	e2, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	e3, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Ternary{op: op, E1: e1, E2: e2, E3: e3}, nil
}

func serializeTyped(w io.Writer, t *Typed) error {
	if err := writeTag(w, tagTyped); err != nil {
		return err
	}
	if err := writeOp(w, OpTypedExp); err != nil {
		return err
	}
	if err := t.typ.Serialize(w); err != nil {
		return err
	}
	if err := Serialize(w, t.E1); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeTyped(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if op != OpTypedExp {
		return nil, ErrUnknownOp
	}
	if dt == nil {
		return nil, ErrUnknownTag
	}
	typ, err := dt(r)
	if err != nil {
		return nil, err
	}
	child, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Typed{typ: typ, E1: child}, nil
}

func serializeAssign(w io.Writer, a *Assign) error {
	if err := writeTag(w, tagAssign); err != nil {
		return err
	}
	if err := writeOp(w, OpAssignExp); err != nil {
		return err
	}
	if err := writeInt64(w, int64(a.size)); err != nil {
		return err
	}
	if err := Serialize(w, a.E1); err != nil {
		return err
	}
	if err := Serialize(w, a.E2); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeAssign(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if op != OpAssignExp {
		return nil, ErrUnknownOp
	}
	size, err := readInt64(r)
	if err != nil {
		return nil, err
	}
	lhs, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	rhs, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &Assign{size: int(size), E1: lhs, E2: rhs}, nil
}

func serializeFlagDef(w io.Writer, f *FlagDef) error {
	if err := writeTag(w, tagFlagDef); err != nil {
		return err
	}
	if err := writeOp(w, OpFlagDef); err != nil {
		return err
	}
	if err := writeOptionalRTL(w, f.rtl); err != nil {
		return err
	}
	if err := Serialize(w, f.E1); err != nil {
		return err
	}
	return writeEnd(w)
}

func deserializeFlagDef(r io.Reader, dt TypeDecoder, dr RTLDecoder) (Exp, error) {
	op, err := readOp(r)
	if err != nil {
		return nil, err
	}
	if op != OpFlagDef {
		return nil, ErrUnknownOp
	}
	rtl, err := readOptionalRTL(r, dr)
	if err != nil {
		return nil, err
	}
	params, err := Deserialize(r, dt, dr)
	if err != nil {
		return nil, err
	}
	if err := readEnd(r); err != nil {
		return nil, err
	}
	return &FlagDef{rtl: rtl, E1: params}, nil
}
