package vm

// Scope is a named region (module, begin-end, fork-join) with a parent
// link, per the GLOSSARY. This package only ever sees scope names as
// instruction operands, so Scope is deliberately minimal: just enough to
// answer "is a under b or a descendant of b" for %disable, built on
// dotted hierarchical names ("top.sub.leaf") rather than a parsed scope
// tree — the assembler's text format never declares scope structure
// explicitly, so the naming convention is the only signal available.
type Scope struct {
	Name     string
	Parent   *Scope
	Disabled bool
}

// Under reports whether s is scope name or a descendant of it (by dotted
// name prefix), matching the %disable semantics of spec 4.H: "threads
// whose scope is the addressed scope or a descendant".
func (s *Scope) Under(name string) bool {
	if s == nil {
		return false
	}
	if s.Name == name {
		return true
	}
	return len(s.Name) > len(name) && s.Name[:len(name)] == name && s.Name[len(name)] == '.'
}

// Comparison flag slots a %cmp/* instruction writes into, per spec 4.H's
// "result flags placed in fixed thread bits (LT, EQ, EQX, ...)". These
// are fixed storage on the Thread rather than addressable registers,
// since the instruction set never names a destination bit for them.
const (
	FlagLT = iota
	FlagEQ
	FlagEQX
	FlagEQZ
	flagCount
)

// Thread is a resumable simulated instruction stream: (PC, bit vector,
// parent/child links), per spec 9's design note. Suspension points are
// explicit — a thread returns control to the Scheduler at %delay, %wait,
// %join (while it has live children) and %end rather than blocking a
// host goroutine, since execution is single-threaded cooperative (spec
// 5). %vpi_call does not suspend the thread.
type Thread struct {
	id int
	PC int

	Scope *Scope

	Parent       *Thread
	liveChildren int
	waitingJoin  bool

	ended    bool
	disabled bool

	regs  []Bit2
	flags [flagCount]Bit2
}

func newThread(id, pc int, scope *Scope, parent *Thread) *Thread {
	return &Thread{id: id, PC: pc, Scope: scope, Parent: parent}
}

func (t *Thread) ensure(idx, n int) {
	need := idx + n
	if need <= len(t.regs) {
		return
	}
	grown := make([]Bit2, need)
	copy(grown, t.regs)
	for i := len(t.regs); i < need; i++ {
		grown[i] = Bx
	}
	t.regs = grown
}

// GetBits returns n consecutive bits of thread-local storage starting at
// idx, LSB first.
func (t *Thread) GetBits(idx, n int) []Bit2 {
	t.ensure(idx, n)
	out := make([]Bit2, n)
	copy(out, t.regs[idx:idx+n])
	return out
}

// SetBits writes vals into n consecutive bits of thread-local storage
// starting at idx.
func (t *Thread) SetBits(idx int, vals []Bit2) {
	t.ensure(idx, len(vals))
	copy(t.regs[idx:idx+len(vals)], vals)
}

// Flag returns one of the fixed comparison-result bits.
func (t *Thread) Flag(f int) Bit2 { return t.flags[f] }

func (t *Thread) setFlag(f int, v Bit2) { t.flags[f] = v }
