package netlist

// Memory is a named 2-D array: element width and index range [High:Low].
// Memories are not electrically connected; they are reached only from
// behavioural code and from RamDq LPM ports (spec 3).
type Memory struct {
	Name      string
	ElemWidth int
	High, Low int
	words     [][]Bit4
}

// NewMemory creates a memory with the given element width and index
// range (either direction allowed, as for Signal).
func NewMemory(name string, elemWidth, high, low int) *Memory {
	n := high - low
	if n < 0 {
		n = -n
	}
	n++
	m := &Memory{Name: name, ElemWidth: elemWidth, High: high, Low: low}
	m.words = make([][]Bit4, n)
	for i := range m.words {
		w := make([]Bit4, elemWidth)
		for j := range w {
			w[j] = Vx
		}
		m.words[i] = w
	}
	return m
}

// Depth returns the number of addressable words.
func (m *Memory) Depth() int { return len(m.words) }

// Addr maps a signed index to a zero-based address: idx - Low when
// High >= Low, Low - idx when the range is declared the other way.
func (m *Memory) Addr(idx int) (addr int, ok bool) {
	var a int
	if m.High >= m.Low {
		a = idx - m.Low
	} else {
		a = m.Low - idx
	}
	if a < 0 || a >= len(m.words) {
		return 0, false
	}
	return a, true
}

// Read returns the word at zero-based address addr.
func (m *Memory) Read(addr int) Vector {
	if addr < 0 || addr >= len(m.words) {
		return allX(m.ElemWidth)
	}
	v := NewVector(m.ElemWidth)
	copy(v.Bits, m.words[addr])
	return v
}

// Write stores val at zero-based address addr.
func (m *Memory) Write(addr int, val Vector) {
	if addr < 0 || addr >= len(m.words) {
		return
	}
	w := val.Resize(m.ElemWidth)
	copy(m.words[addr], w.Bits)
}
