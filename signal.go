package netlist

import "github.com/pkg/errors"

// SignalType is the semantic net type of a Signal, mirroring netlist.h's
// NetNet::Type.
type SignalType int

const (
	Wire SignalType = iota
	Reg
	Tri
	Tri0
	Tri1
	Supply0
	Supply1
	Wand
	Wor
	Triand
	Trior
	Integer
)

// PortDir is a module port direction attribute.
type PortDir int

const (
	NotAPort PortDir = iota
	PortInput
	PortOutput
	PortInout
)

// Signal is a wire/reg/tri/... net: a NetObj that additionally carries a
// parent scope, a semantic type, a port direction, a signed [msb:lsb]
// index pair, a reference count of expression nodes pointing at it, and
// per-pin initial values. Grounded on netlist.h's NetNet.
//
// Invariant: width = |msb-lsb|+1 = PinCount(). Signed indices map to
// 0-based pin numbers consistently regardless of declaration direction
// (sb_to_idx below).
type Signal struct {
	*NetObj
	scope    *Scope
	typ      SignalType
	port     PortDir
	msb, lsb int
	signed   bool
	refs     int
	initVal  []Bit4
}

// NewSignal creates a signal named n of the given type spanning [msb:lsb]
// (either direction allowed: msb>lsb or msb<lsb).
func NewSignal(scope *Scope, name string, typ SignalType, msb, lsb int) *Signal {
	width := msb - lsb
	if width < 0 {
		width = -width
	}
	width++
	s := &Signal{
		NetObj: NewNetObj(name, width),
		scope:  scope,
		typ:    typ,
		msb:    msb,
		lsb:    lsb,
	}
	s.initVal = make([]Bit4, width)
	for i := range s.initVal {
		s.initVal[i] = Vx
	}
	for _, p := range s.pinsUnsafe() {
		p.SetDir(Passive)
	}
	return s
}

// pinsUnsafe exposes the private pin slice for bulk initialization; it is
// only used within this package.
func (s *Signal) pinsUnsafe() []*Pin {
	pins := make([]*Pin, s.PinCount())
	for i := range pins {
		pins[i] = s.Pin(i)
	}
	return pins
}

// Scope returns the signal's parent scope.
func (s *Signal) Scope() *Scope { return s.scope }

// Type returns the signal's semantic net type.
func (s *Signal) Type() SignalType { return s.typ }

// SetType sets the signal's semantic net type.
func (s *Signal) SetType(t SignalType) { s.typ = t }

// PortType returns the signal's port direction attribute.
func (s *Signal) PortType() PortDir { return s.port }

// SetPortType sets the signal's port direction attribute.
func (s *Signal) SetPortType(p PortDir) { s.port = p }

// MSB and LSB return the declared index pair (as written, not normalized).
func (s *Signal) MSB() int { return s.msb }
func (s *Signal) LSB() int { return s.lsb }

// Signed reports whether the signal is declared signed.
func (s *Signal) Signed() bool { return s.signed }

// SetSigned sets the signal's signedness.
func (s *Signal) SetSigned(v bool) { s.signed = v }

// Width returns |msb-lsb|+1, which always equals PinCount().
func (s *Signal) Width() int { return s.PinCount() }

// SbToIdx maps a signed bit-select index (as used in Verilog source, e.g.
// the msb of a [31:0] bus is 31) to its 0-based pin number, consistently
// regardless of declaration direction. Per spec 8 invariant 2,
// SbToIdx(msb) == PinCount()-1 always.
func (s *Signal) SbToIdx(sb int) (idx int, ok bool) {
	if s.msb >= s.lsb {
		idx = sb - s.lsb
	} else {
		idx = s.lsb - sb
	}
	if idx < 0 || idx >= s.PinCount() {
		return 0, false
	}
	return idx, true
}

// AddRef increments the reference count of expression nodes pointing at
// this signal.
func (s *Signal) AddRef() { s.refs++ }

// RefCount returns the current reference count.
func (s *Signal) RefCount() int { return s.refs }

// InitValue returns the initial value of pin i.
func (s *Signal) InitValue(i int) Bit4 { return s.initVal[i] }

// SetInitValue sets the initial value of pin i.
func (s *Signal) SetInitValue(i int, v Bit4) { s.initVal[i] = v }

// ErrWidthMismatch is a sentinel for an operand/result width combination
// that can't be reconciled. The SetWidth methods in expr.go build their
// own errors and do not return or wrap it.
var ErrWidthMismatch = errors.New("width mismatch")
