package rtlexpr_test

import (
	"fmt"
	"io"

	"github.com/arvo-decomp/rtlexpr"
)

// fakeType is a minimal rtlexpr.Type used by tests that need a concrete
// handle to attach to Typed/Assign nodes.
type fakeType struct {
	name string
	bits int
}

func newFakeType(name string, bits int) *fakeType { return &fakeType{name: name, bits: bits} }

func (t *fakeType) Clone() rtlexpr.Type { return &fakeType{name: t.name, bits: t.bits} }
func (t *fakeType) Equal(other rtlexpr.Type) bool {
	o, ok := other.(*fakeType)
	return ok && o.name == t.name && o.bits == t.bits
}
func (t *fakeType) Less(other rtlexpr.Type) bool {
	o, ok := other.(*fakeType)
	if !ok {
		return false
	}
	if t.bits != o.bits {
		return t.bits < o.bits
	}
	return t.name < o.name
}
func (t *fakeType) String() string    { return fmt.Sprintf("%s:%d", t.name, t.bits) }
func (t *fakeType) SizeInBits() int   { return t.bits }
func (t *fakeType) Serialize(w io.Writer) error {
	_, err := io.WriteString(w, t.name+"\x00")
	if err != nil {
		return err
	}
	var buf [4]byte
	buf[0] = byte(t.bits)
	_, err = w.Write(buf[:1])
	return err
}

func decodeFakeType(r io.Reader) (rtlexpr.Type, error) {
	var nameBuf []byte
	for {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		if b[0] == 0 {
			break
		}
		nameBuf = append(nameBuf, b[0])
	}
	var bits [1]byte
	if _, err := io.ReadFull(r, bits[:]); err != nil {
		return nil, err
	}
	return &fakeType{name: string(nameBuf), bits: int(bits[0])}, nil
}

// fakeRTL is a minimal rtlexpr.RTL used by FlagDef tests.
type fakeRTL struct {
	tag byte
}

func (r *fakeRTL) Clone() rtlexpr.RTL { return &fakeRTL{tag: r.tag} }
func (r *fakeRTL) Equal(other rtlexpr.RTL) bool {
	o, ok := other.(*fakeRTL)
	return ok && o.tag == r.tag
}
func (r *fakeRTL) Less(other rtlexpr.RTL) bool {
	o, ok := other.(*fakeRTL)
	return ok && r.tag < o.tag
}
func (r *fakeRTL) String() string { return fmt.Sprintf("RTL<%d>", r.tag) }
func (r *fakeRTL) Serialize(w io.Writer) error {
	_, err := w.Write([]byte{r.tag})
	return err
}

func decodeFakeRTL(r io.Reader) (rtlexpr.RTL, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return &fakeRTL{tag: buf[0]}, nil
}

// fakeStatement is a minimal rtlexpr.Statement backed by an *Assign, used
// by KillLive/GetDeadStatements/DoReplaceUse tests.
type fakeStatement struct {
	assign    *rtlexpr.Assign
	numUsedBy int
}

func newFakeStatement(lhs, rhs rtlexpr.Exp, numUsedBy int) *fakeStatement {
	return &fakeStatement{assign: rtlexpr.NewAssign(lhs, rhs), numUsedBy: numUsedBy}
}

func (s *fakeStatement) Left() rtlexpr.Exp    { return s.assign.LHS() }
func (s *fakeStatement) Right() rtlexpr.Exp   { return s.assign.RHS() }
func (s *fakeStatement) NumUsedBy() int       { return s.numUsedBy }
func (s *fakeStatement) PrintAsUse() string   { return "use:" + s.assign.String() }
func (s *fakeStatement) PrintAsUseBy() string { return "usedby:" + s.assign.String() }
