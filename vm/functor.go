package vm

// Mode identifies what a Functor does when its input changes.
// Grounded on spec 4.E / compile.cc's obj->mode.
type Mode byte

const (
	// ModeComb is a combinational functor: its truth table is indexed
	// directly by ival to produce oval.
	ModeComb Mode = 0
	// ModeEdge is an edge-event functor: input changes are compared
	// against an edge table; a match wakes the event's waiting threads.
	ModeEdge Mode = 1
	// ModeNamedEvent is a named event (explicit %set trigger, or an
	// .event/or merge of other named events); any write wakes waiters.
	ModeNamedEvent Mode = 2
)

// Table is a combinational truth table: 256 entries (4 ports x 2 bits =
// 8-bit ival) each giving the resulting 2-bit oval.
type Table [256]Bit2

// EdgeKind selects which transitions an edge-event functor fires on.
type EdgeKind byte

const (
	EdgeNone EdgeKind = iota
	EdgePos
	EdgeNeg
	EdgeAny
)

// Event carries the extra state of an edge or named-event functor: the
// edge table to test against and the set of threads currently waiting
// on it. Grounded on compile.cc's struct vvp_event_s.
type Event struct {
	Edge    EdgeKind
	Ival    byte // ival as of the last edge test
	Threads []*Thread
}

// fires reports whether a transition on port 0 from prev to cur matches
// e's edge kind. Only port 0 is used for edge functors, matching the
// original vvp engine (edge events are single-bit).
func (e *Event) fires(prev, cur Bit2) bool {
	if prev == cur {
		return false
	}
	switch e.Edge {
	case EdgePos:
		return prev == B0 && cur == B1
	case EdgeNeg:
		return prev == B1 && cur == B0
	case EdgeAny:
		return true
	default:
		return false
	}
}

// Functor is the VM's fixed 4-input, 1-output evaluator node. Vectors
// of functors are allocated contiguously in a Pool so a single base
// index + bit offset addresses any bit (spec 3/4.E).
type Functor struct {
	Ival byte // packed 4x2-bit input vector
	Oval Bit2 // current output value

	Mode  Mode
	Table *Table // used only when Mode == ModeComb; nil passes port 0 through
	Event *Event // nil unless Mode == ModeEdge or ModeNamedEvent

	// Port[i] continues the fan-out chain of whatever currently drives
	// input port i: it is the Ipoint of the *next* destination after
	// this functor in that chain, or NilIpoint if this is the last.
	Port [4]Ipoint

	// Out is the head Ipoint of the chain of destinations this functor
	// drives (the fan-out chain rooted at this functor's output).
	Out Ipoint
}

// eval recomputes Oval from Ival via Table, for combinational functors.
// A combinational functor with no Table (a freshly allocated one) passes
// port 0 through, as TableVAR does.
func (f *Functor) eval() Bit2 {
	if f.Table == nil {
		return unpackPort(f.Ival, 0)
	}
	return f.Table[f.Ival]
}

// Standard truth tables, grounded on compile.cc's ft_AND/ft_OR/ft_NAND/
// ft_NOR/ft_NOT/ft_BUF/ft_XOR/ft_XNOR/ft_var — each built the way
// hwlib's gate Mount funcs wire up 2-input primitives, generalized here
// from boolean to four-valued and baked into a lookup table instead of
// evaluated per tick.
var (
	TableAND  = buildTable(and2, true, false)
	TableOR   = buildTable(or2, true, false)
	TableNAND = buildTable(and2, true, true)
	TableNOR  = buildTable(or2, true, true)
	TableXOR  = buildTable(xor2, false, false)
	TableXNOR = buildTable(xor2, false, true)
	TableBUF  = buildUnaryTable(func(a Bit2) Bit2 { return a })
	TableNOT  = buildUnaryTable(func(a Bit2) Bit2 { return a.not() })
	TableVAR  = buildUnaryTable(func(a Bit2) Bit2 { return a })
)

// buildTable constructs a 4-input truth table by folding f across ports
// 0..3 and, when invert is set, negating the folded result (NAND/NOR/
// XNOR). When skipZ is set (the AND/OR family), a port holding Bz counts
// as undriven and is left out of the fold, and an entry with every port
// Bz is Bx; XOR/XNOR fold all four ports, so a Bz input makes them Bx.
func buildTable(f func(a, b Bit2) Bit2, skipZ, invert bool) *Table {
	var t Table
	for ival := 0; ival < 256; ival++ {
		acc, seen := Bx, false
		for p := 0; p < 4; p++ {
			v := unpackPort(byte(ival), p)
			if skipZ && v == Bz {
				continue
			}
			if seen {
				acc = f(acc, v)
			} else {
				acc, seen = v, true
			}
		}
		if invert {
			acc = acc.not()
		}
		t[ival] = acc
	}
	return &t
}

// buildUnaryTable constructs a table that only looks at port 0,
// ignoring the other 3 (BUF, NOT, and the `var` pass-through table).
func buildUnaryTable(f func(a Bit2) Bit2) *Table {
	var t Table
	for ival := 0; ival < 256; ival++ {
		t[ival] = f(unpackPort(byte(ival), 0))
	}
	return &t
}

// TableByName looks up one of the standard named truth tables used by
// `.functor` declarations (spec 4.E/4.F). ok is false for an unknown
// type name.
func TableByName(name string) (*Table, bool) {
	switch name {
	case "AND":
		return TableAND, true
	case "OR":
		return TableOR, true
	case "NAND":
		return TableNAND, true
	case "NOR":
		return TableNOR, true
	case "XOR":
		return TableXOR, true
	case "XNOR":
		return TableXNOR, true
	case "BUF":
		return TableBUF, true
	case "NOT":
		return TableNOT, true
	case "var":
		return TableVAR, true
	default:
		return nil, false
	}
}
