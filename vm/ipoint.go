package vm

// Ipoint is a packed pointer into a functor input port: the high bits
// name a functor's base slot in the pool, the low 2 bits name one of
// its 4 input ports (0..3). Any input port of any functor in the graph
// is named by exactly one Ipoint. Grounded on compile.cc's
// vvp_ipoint_t / ipoint_make / ipoint_index / ipoint_port.
type Ipoint uint32

const (
	portBits = 2
	portMask = (1 << portBits) - 1
)

// NilIpoint is the zero Ipoint, used as the chain terminator — functor
// slot 0 of the pool is reserved and never allocated to real functors,
// mirroring compile.cc's use of a null vvp_ipoint_t as list terminator.
const NilIpoint Ipoint = 0

// MakeIpoint packs a functor base slot and a port number (0..3) into
// one Ipoint.
func MakeIpoint(base uint32, port int) Ipoint {
	return Ipoint(base<<portBits) | Ipoint(port&portMask)
}

// Base returns the functor pool slot this Ipoint addresses.
func (p Ipoint) Base() uint32 { return uint32(p) >> portBits }

// Port returns the input port number (0..3) this Ipoint addresses.
func (p Ipoint) Port() int { return int(p) & portMask }

// Index returns the Ipoint (port 0) of the functor off slots after p's
// base, for addressing one bit of a contiguously-allocated vector of
// functors (e.g. a `.var`/`.net` bus). Grounded on compile.cc's
// ipoint_index.
func (p Ipoint) Index(off int) Ipoint {
	return MakeIpoint(p.Base()+uint32(off), 0)
}

// Valid reports whether p addresses a real functor (is not NilIpoint).
func (p Ipoint) Valid() bool { return p != NilIpoint }
