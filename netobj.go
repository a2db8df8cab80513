package netlist

import "github.com/pkg/errors"

// NetObj is anything in a netlist that carries pins: a name, a fixed pin
// count set at construction (immutable afterwards per spec 3), three
// delay times, an attribute map, and a mark bit used by Design traversals.
// Grounded on netlist.h's NetObj.
type NetObj struct {
	name  string
	pins  []*Pin
	rise  uint
	fall  uint
	decay uint
	attrs map[string]string
	mark  bool
}

// NewNetObj constructs a NetObj with npins pins, all initially singleton
// rings with PASSIVE direction.
func NewNetObj(name string, npins int) *NetObj {
	o := &NetObj{name: name, pins: make([]*Pin, npins)}
	for i := range o.pins {
		o.pins[i] = newPin(o, i)
	}
	return o
}

// Name returns the object's name.
func (o *NetObj) Name() string { return o.name }

// PinCount returns the immutable pin count set at construction.
func (o *NetObj) PinCount() int { return len(o.pins) }

// Pin returns the link for pin idx, panicking if idx is out of range —
// pin count is a construction-time invariant, not a runtime check.
func (o *NetObj) Pin(idx int) *Pin {
	if idx < 0 || idx >= len(o.pins) {
		panic(errors.Errorf("%s: pin index %d out of range [0,%d)", o.name, idx, len(o.pins)))
	}
	return o.pins[idx]
}

// RiseTime, FallTime and DecayTime return the three delay times.
func (o *NetObj) RiseTime() uint  { return o.rise }
func (o *NetObj) FallTime() uint  { return o.fall }
func (o *NetObj) DecayTime() uint { return o.decay }

// SetRiseTime, SetFallTime and SetDecayTime set the three delay times.
func (o *NetObj) SetRiseTime(d uint)  { o.rise = d }
func (o *NetObj) SetFallTime(d uint)  { o.fall = d }
func (o *NetObj) SetDecayTime(d uint) { o.decay = d }

// Attribute returns the value of the named attribute, or "" if unset.
func (o *NetObj) Attribute(key string) string { return o.attrs[key] }

// SetAttribute sets a single attribute.
func (o *NetObj) SetAttribute(key, value string) {
	if o.attrs == nil {
		o.attrs = make(map[string]string)
	}
	o.attrs[key] = value
}

// SetAttributes bulk-sets attributes from m, overwriting any existing
// keys that collide.
func (o *NetObj) SetAttributes(m map[string]string) {
	for k, v := range m {
		o.SetAttribute(k, v)
	}
}

// HasCompatAttributes reports whether o has all the attributes that
// other has, with the same values. Grounded on netlist.h's
// has_compat_attributes, used by RamDq.AbsorbPartners merge checks.
func (o *NetObj) HasCompatAttributes(other *NetObj) bool {
	for k, v := range other.attrs {
		if o.attrs[k] != v {
			return false
		}
	}
	return true
}

// TestMark returns the traversal mark bit.
func (o *NetObj) TestMark() bool { return o.mark }

// SetMark sets the traversal mark bit (default true).
func (o *NetObj) SetMark(flag ...bool) {
	v := true
	if len(flag) > 0 {
		v = flag[0]
	}
	o.mark = v
}

// NodeKind identifies the concrete variant of a Node in the closed
// tagged union described by spec 9 ("the twenty-odd node classes become
// variants").
type NodeKind int

const (
	KindLogicGate NodeKind = iota
	KindLPMAdd
	KindLPMCompare
	KindLPMMux
	KindLPMShift
	KindFF
	KindRamDq
	KindUDP
)

// Node is a device of some sort, where each pin has a different meaning
// (pin(0) is the output of a logic gate, etc). Grounded on netlist.h's
// NetNode. Every concrete node type embeds *NetObj and implements Kind;
// emission is dispatched through the Emitter interface in emit.go rather
// than through virtual methods on Node, per spec 9's "emitters form a
// capability trait" redesign note.
type Node interface {
	Kind() NodeKind
	Object() *NetObj
}

// baseNode is the common embed for concrete node types.
type baseNode struct {
	*NetObj
	design *Design
}

func (n *baseNode) Object() *NetObj { return n.NetObj }
