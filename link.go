package netlist

// Dir is the electrical direction of a pin within its ring.
type Dir int

// The three pin directions. An INPUT pin never drives the net it's part
// of; a PASSIVE pin (e.g. a wire) never receives the net's value; an
// OUTPUT pin drives it. At most one OUTPUT per ring is a design rule that
// callers, not this package, are responsible for diagnosing.
const (
	Passive Dir = iota
	Input
	Output
)

func (d Dir) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "passive"
	}
}

// Pin is one node in a circular doubly-linked ring of pins. All pins in
// the same ring are electrically connected (they form one net/nexus).
// Pin identity is (owning node, pin index, optional vector-instance
// index); two Pin values naming the same (Owner, Index, Inst) are the
// same pin. Each NetObj holds pointers to its own pins; the ring itself
// is linked through the next/prev pointers below, not through slab
// indices.
type Pin struct {
	Owner *NetObj
	Index int

	dir  Dir
	name string
	inst int

	next, prev *Pin
}

// newPin returns a pin of owner that forms a singleton ring (its own
// next and prev).
func newPin(owner *NetObj, index int) *Pin {
	p := &Pin{Owner: owner, Index: index}
	p.next, p.prev = p, p
	return p
}

// Dir returns the pin's direction.
func (p *Pin) Dir() Dir { return p.dir }

// SetDir sets the pin's direction.
func (p *Pin) SetDir(d Dir) { p.dir = d }

// SetName sets the pin's display name and, for vectored instances, its
// index within that vector. Grounded on netlist.h's Link::set_name.
func (p *Pin) SetName(name string, inst int) {
	p.name = name
	p.inst = inst
}

// Name returns the pin's display name.
func (p *Pin) Name() string { return p.name }

// Inst returns the pin's vector-instance index.
func (p *Pin) Inst() int { return p.inst }

// Connect splices the rings containing a and b into one ring. It is a
// no-op if a and b are already in the same ring (idempotent per spec
// 3's invariant ii).
func Connect(a, b *Pin) {
	if a == b || IsLinked(a, b) {
		return
	}
	// splice: insert b's whole ring right after a.
	aNext := a.next
	bPrev := b.prev
	a.next = b
	b.prev = a
	bPrev.next = aNext
	aNext.prev = bPrev
}

// Unlink removes p from its ring, restoring it to a singleton ring and
// leaving the remainder of its former ring intact (invariant iii).
func Unlink(p *Pin) {
	if p.next == p {
		return
	}
	p.next.prev = p.prev
	p.prev.next = p.next
	p.next, p.prev = p, p
}

// IsLinked reports whether a and b are connected, i.e. whether they
// belong to the same ring.
func IsLinked(a, b *Pin) bool {
	if a == b {
		return true
	}
	for n := a.next; n != a; n = n.next {
		if n == b {
			return true
		}
	}
	return false
}

// RingSize returns the number of pins in p's ring.
func RingSize(p *Pin) int {
	n := 1
	for c := p.next; c != p; c = c.next {
		n++
	}
	return n
}

// Walk calls f once for every pin in p's ring, including p itself.
func Walk(p *Pin, f func(*Pin)) {
	f(p)
	for c := p.next; c != p; c = c.next {
		f(c)
	}
}

// CountByDir walks p's ring once and classifies every pin by direction.
func CountByDir(p *Pin) (inputs, outputs, passive int) {
	Walk(p, func(q *Pin) {
		switch q.dir {
		case Input:
			inputs++
		case Output:
			outputs++
		default:
			passive++
		}
	})
	return
}

// CountInputs returns the number of INPUT pins in p's ring.
func CountInputs(p *Pin) int { i, _, _ := CountByDir(p); return i }

// CountOutputs returns the number of OUTPUT pins in p's ring.
func CountOutputs(p *Pin) int { _, o, _ := CountByDir(p); return o }

// CountSignals returns the total number of pins (of any direction) in
// p's ring — i.e. how many distinct electrical endpoints share this net.
func CountSignals(p *Pin) int { return RingSize(p) }
