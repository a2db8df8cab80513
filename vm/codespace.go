package vm

// CodeSpace is the flat array of instruction records; a code pointer is
// simply its index (spec 3/4.F).
type CodeSpace struct {
	code []Instruction
}

// NewCodeSpace returns an empty code space.
func NewCodeSpace() *CodeSpace { return &CodeSpace{} }

// Next returns the index the next Allocate call will return, without
// allocating — used for a bare "label:" with no attached instruction
// yet (compile.cc's codespace_next, via compile_codelabel).
func (c *CodeSpace) Next() int { return len(c.code) }

// Allocate reserves the next slot and returns its index.
func (c *CodeSpace) Allocate() int {
	c.code = append(c.code, Instruction{})
	return len(c.code) - 1
}

// At returns a pointer to the instruction at code pointer ptr.
func (c *CodeSpace) At(ptr int) *Instruction { return &c.code[ptr] }

// Len returns the number of instructions in the code space.
func (c *CodeSpace) Len() int { return len(c.code) }
