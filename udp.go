package netlist

import "github.com/pkg/errors"

// UDPKind distinguishes combinational from sequential user-defined
// primitives.
type UDPKind int

const (
	UDPCombinational UDPKind = iota
	UDPSequential
)

// UDP is either a combinational (input pattern -> single output bit) or
// sequential (input pattern + current output -> next output) primitive,
// per spec 3. Tables are stored canonically as maps from the literal
// pattern string produced by ExpandPattern to the resulting Bit4 (or, for
// sequential UDPs whose next-state is "no change", NoChange).
type UDP struct {
	Name  string
	Kind  UDPKind
	Ins   int
	comb  map[string]Bit4
	seq   map[string]Bit4 // key: currentOutput + edge-expanded input pattern
}

// NoChange is a sentinel Bit4 value used only as a sequential-UDP table
// entry meaning "keep the current output" (the '-' glyph in spec 4.C).
// It is never a legal bit in a Vector.
const NoChange Bit4 = 0xff

// NewUDP creates an empty UDP with ins input columns.
func NewUDP(name string, kind UDPKind, ins int) *UDP {
	return &UDP{Name: name, Kind: kind, Ins: ins, comb: map[string]Bit4{}, seq: map[string]Bit4{}}
}

// levelGlyphs is the subset of the pattern alphabet that denotes a
// stable level, expanded literally (no glob expansion needed).
var levelGlyphs = map[byte][]byte{
	'0': {'0'},
	'1': {'1'},
	'x': {'x'},
	'?': {'0', '1', 'x'}, // any level
	'b': {'0', '1'},      // any known level
}

// edgeGlyphs maps an edge glyph to the (from, to) level pairs it expands
// to, per the pattern alphabet in spec 3:
//
//	r  0->1     R  x->1     f  1->0     F  x->0
//	p  (0|x)->1 P  1->(0|x) n  (1|x)->0 N  0->(1|x)
//	_  no change on a known level (0->0 or 1->1)
//	%  any edge that touches x (0->x, x->0, 1->x, x->1)
//
// '*' (any change) and '+' are not in this map: ExpandPattern expands
// them to every new level 0, 1, x.
var edgeGlyphs = map[byte][][2]byte{
	'r': {{'0', '1'}},
	'R': {{'x', '1'}},
	'f': {{'1', '0'}},
	'F': {{'x', '0'}},
	'p': {{'0', '1'}, {'x', '1'}},
	'P': {{'1', '0'}, {'1', 'x'}},
	'n': {{'1', '0'}, {'x', '0'}},
	'N': {{'0', '1'}, {'0', 'x'}},
	'_': {{'0', '0'}, {'1', '1'}},
	'%': {{'0', 'x'}, {'x', '0'}, {'1', 'x'}, {'x', '1'}},
}

// ExpandPattern expands the glob characters in a raw input-column
// pattern (one glyph per column, drawn from the alphabet in spec 3) into
// every concrete level-pattern string it denotes. Edge glyphs expand
// into pairs of (previous-level, new-level) columns that the caller is
// responsible for combining with the other columns' previous state —
// ExpandPattern itself only expands the "new value" dimension used to key
// a combinational table; sequential composition is handled by
// LookupSeq.
func ExpandPattern(raw string) []string {
	out := []string{""}
	for i := 0; i < len(raw); i++ {
		g := raw[i]
		var choices []byte
		if levels, ok := levelGlyphs[g]; ok {
			choices = levels
		} else if edges, ok := edgeGlyphs[g]; ok {
			for _, e := range edges {
				choices = append(choices, e[1])
			}
		} else if g == '*' || g == '+' {
			choices = []byte{'0', '1', 'x'}
		} else {
			choices = []byte{g}
		}
		var next []string
		for _, p := range out {
			for _, c := range choices {
				next = append(next, p+string(c))
			}
		}
		out = next
	}
	return out
}

// SetComb adds entries to a combinational UDP's table for every concrete
// expansion of a (possibly globbed) pattern, all mapping to out.
func (u *UDP) SetComb(pattern string, out Bit4) error {
	if u.Kind != UDPCombinational {
		return errors.New("SetComb: not a combinational UDP")
	}
	for _, p := range ExpandPattern(pattern) {
		u.comb[p] = out
	}
	return nil
}

// LookupComb looks up a fully-known input pattern (one glyph per input,
// '0'/'1'/'x') in a combinational UDP's table. A missing entry yields Vx.
func (u *UDP) LookupComb(pattern string) Bit4 {
	if v, ok := u.comb[pattern]; ok {
		return v
	}
	return Vx
}

// SetSeq adds an entry to a sequential UDP's table keyed by the current
// output glyph followed by the (possibly globbed) input pattern,
// mapping to out (which may be NoChange).
func (u *UDP) SetSeq(curOutput byte, inPattern string, out Bit4) error {
	if u.Kind != UDPSequential {
		return errors.New("SetSeq: not a sequential UDP")
	}
	for _, p := range ExpandPattern(inPattern) {
		u.seq[string(curOutput)+p] = out
	}
	return nil
}

// LookupSeq composes the key from the previous output and the new input
// pattern; a missing entry means "no change".
func (u *UDP) LookupSeq(curOutput byte, inPattern string) Bit4 {
	if v, ok := u.seq[string(curOutput)+inPattern]; ok {
		return v
	}
	return NoChange
}
