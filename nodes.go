package netlist

// GateKind is the truth-table family of a LogicGate node.
type GateKind int

const (
	GateAnd GateKind = iota
	GateOr
	GateNand
	GateNor
	GateXor
	GateXnor
	GateBuf
	GateNot
)

// LogicGate is a logic gate node: pin(0) is the output, pins 1..n are
// inputs (spec 4.C). Grounded on hwlib's And/Or/.../Not gate family,
// generalized from boolean to four-valued and from fixed 2-input to
// n-input.
type LogicGate struct {
	baseNode
	GateType GateKind
}

// NewLogicGate creates a gate with the given fan-in. BUF and NOT ignore
// fan-in beyond 1.
func NewLogicGate(name string, kind GateKind, fanIn int) *LogicGate {
	g := &LogicGate{GateType: kind}
	g.NetObj = NewNetObj(name, fanIn+1)
	g.Pin(0).SetDir(Output)
	for i := 1; i <= fanIn; i++ {
		g.Pin(i).SetDir(Input)
	}
	return g
}

func (g *LogicGate) Kind() NodeKind { return KindLogicGate }

// Eval computes the gate's output from its current input pin values,
// supplied by the caller (this package doesn't own simulation state —
// that's the vm package's job). Nothing in this module calls it: neither
// Synthesize nor synthtest.CompareEval evaluates the gates they build.
func (g *LogicGate) Eval(ins []Bit4) Bit4 {
	switch g.GateType {
	case GateBuf:
		return ins[0]
	case GateNot:
		return ins[0].not()
	}
	acc := ins[0]
	for _, b := range ins[1:] {
		switch g.GateType {
		case GateAnd, GateNand:
			acc = and4(acc, b)
		case GateOr, GateNor:
			acc = or4(acc, b)
		case GateXor, GateXnor:
			acc = xor4(acc, b)
		}
	}
	switch g.GateType {
	case GateNand, GateNor, GateXnor:
		return acc.not()
	}
	return acc
}

// LPMAdd is an LPM adder: DataA[i]/DataB[i]/Result[i] plus Cin/Cout/
// Aclr/Clock/Add_Sub/Overflow, per spec 4.C.
type LPMAdd struct {
	baseNode
	Width int
}

// Pin indices, fixed layout: DataA[0..w), DataB[0..w), Result[0..w),
// then Cin, Cout, Aclr, Clock, AddSub, Overflow.
func NewLPMAdd(name string, width int) *LPMAdd {
	a := &LPMAdd{Width: width}
	a.NetObj = NewNetObj(name, 3*width+6)
	for i := 0; i < width; i++ {
		a.Pin(a.dataAIdx(i)).SetDir(Input)
		a.Pin(a.dataBIdx(i)).SetDir(Input)
		a.Pin(a.resultIdx(i)).SetDir(Output)
	}
	a.Pin(a.cinIdx()).SetDir(Input)
	a.Pin(a.coutIdx()).SetDir(Output)
	a.Pin(a.aclrIdx()).SetDir(Input)
	a.Pin(a.clockIdx()).SetDir(Input)
	a.Pin(a.addSubIdx()).SetDir(Input)
	a.Pin(a.overflowIdx()).SetDir(Output)
	return a
}

func (a *LPMAdd) Kind() NodeKind      { return KindLPMAdd }
func (a *LPMAdd) dataAIdx(i int) int  { return i }
func (a *LPMAdd) dataBIdx(i int) int  { return a.Width + i }
func (a *LPMAdd) resultIdx(i int) int { return 2*a.Width + i }
func (a *LPMAdd) cinIdx() int         { return 3 * a.Width }
func (a *LPMAdd) coutIdx() int        { return 3*a.Width + 1 }
func (a *LPMAdd) aclrIdx() int        { return 3*a.Width + 2 }
func (a *LPMAdd) clockIdx() int       { return 3*a.Width + 3 }
func (a *LPMAdd) addSubIdx() int      { return 3*a.Width + 4 }
func (a *LPMAdd) overflowIdx() int    { return 3*a.Width + 5 }

// CompareOp is the relation an LPMCompare device tests.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// LPMCompare is an LPM comparator: DataA[i]/DataB[i] in, a single result
// bit out.
type LPMCompare struct {
	baseNode
	Width int
	Op    CompareOp
}

func NewLPMCompare(name string, width int, op CompareOp) *LPMCompare {
	c := &LPMCompare{Width: width, Op: op}
	c.NetObj = NewNetObj(name, 2*width+1)
	for i := 0; i < width; i++ {
		c.Pin(i).SetDir(Input)
		c.Pin(width + i).SetDir(Input)
	}
	c.Pin(2 * width).SetDir(Output)
	return c
}

func (c *LPMCompare) Kind() NodeKind { return KindLPMCompare }

// LPMMux is a mux of width W (data width), size S (number of data
// inputs), select width K: Data[bit][sel]/Result[bit]/Sel[k].
type LPMMux struct {
	baseNode
	Width, Size, SelWidth int
}

func NewLPMMux(name string, width, size, selWidth int) *LPMMux {
	m := &LPMMux{Width: width, Size: size, SelWidth: selWidth}
	m.NetObj = NewNetObj(name, width*size+width+selWidth)
	for i := 0; i < width*size; i++ {
		m.Pin(i).SetDir(Input)
	}
	for i := 0; i < width; i++ {
		m.Pin(width*size + i).SetDir(Output)
	}
	for i := 0; i < selWidth; i++ {
		m.Pin(width*size + width + i).SetDir(Input)
	}
	return m
}

func (m *LPMMux) Kind() NodeKind { return KindLPMMux }

// DataIdx returns the pin index for Data[bit][sel].
func (m *LPMMux) DataIdx(bit, sel int) int { return sel*m.Width + bit }

// ResultIdx returns the pin index for Result[bit].
func (m *LPMMux) ResultIdx(bit int) int { return m.Width*m.Size + bit }

// SelIdx returns the pin index for Sel[k].
func (m *LPMMux) SelIdx(k int) int { return m.Width*m.Size + m.Width + k }

// LPMShift is a barrel shifter LPM device: Data[i] in, Distance[k] in,
// Result[i] out, a direction input.
type LPMShift struct {
	baseNode
	Width, DistWidth int
	Left             bool
}

func NewLPMShift(name string, width, distWidth int, left bool) *LPMShift {
	s := &LPMShift{Width: width, DistWidth: distWidth, Left: left}
	s.NetObj = NewNetObj(name, 2*width+distWidth)
	for i := 0; i < width; i++ {
		s.Pin(i).SetDir(Input)
		s.Pin(width + i).SetDir(Output)
	}
	for i := 0; i < distWidth; i++ {
		s.Pin(2*width + i).SetDir(Input)
	}
	return s
}

func (s *LPMShift) Kind() NodeKind { return KindLPMShift }

// FF is a flip-flop array: a shared Clock/Enable/async-load/set/clear
// plus per-bit Data[i]/Q[i], per spec 4.C.
type FF struct {
	baseNode
	Width int
}

func NewFF(name string, width int) *FF {
	f := &FF{Width: width}
	f.NetObj = NewNetObj(name, 2*width+5)
	for i := 0; i < width; i++ {
		f.Pin(f.DataIdx(i)).SetDir(Input)
		f.Pin(f.QIdx(i)).SetDir(Output)
	}
	f.Pin(f.ClockIdx()).SetDir(Input)
	f.Pin(f.EnableIdx()).SetDir(Input)
	f.Pin(f.AloadIdx()).SetDir(Input)
	f.Pin(f.SetIdx()).SetDir(Input)
	f.Pin(f.ClearIdx()).SetDir(Input)
	return f
}

func (f *FF) Kind() NodeKind      { return KindFF }
func (f *FF) DataIdx(i int) int   { return i }
func (f *FF) QIdx(i int) int      { return f.Width + i }
func (f *FF) ClockIdx() int       { return 2 * f.Width }
func (f *FF) EnableIdx() int      { return 2*f.Width + 1 }
func (f *FF) AloadIdx() int       { return 2*f.Width + 2 }
func (f *FF) SetIdx() int         { return 2*f.Width + 3 }
func (f *FF) ClearIdx() int       { return 2*f.Width + 4 }

// RamDq attaches to a Memory and exposes address, data-in, Q-out,
// write-enable, and in/out clocks. Multiple RamDq attached to the same
// Memory with compatible clocks may be merged into one multi-port
// device via AbsorbPartners.
type RamDq struct {
	baseNode
	Mem             *Memory
	AddrWidth       int
	partners        []*RamDq
}

func NewRamDq(name string, mem *Memory, addrWidth int) *RamDq {
	r := &RamDq{Mem: mem, AddrWidth: addrWidth}
	w := mem.ElemWidth
	// Address[addrWidth), Data[w), Q[w), WE, InClock, OutClock
	r.NetObj = NewNetObj(name, addrWidth+2*w+3)
	for i := 0; i < addrWidth; i++ {
		r.Pin(r.AddrIdx(i)).SetDir(Input)
	}
	for i := 0; i < w; i++ {
		r.Pin(r.DataIdx(i)).SetDir(Input)
		r.Pin(r.QIdx(i)).SetDir(Output)
	}
	r.Pin(r.WEIdx()).SetDir(Input)
	r.Pin(r.InClockIdx()).SetDir(Input)
	r.Pin(r.OutClockIdx()).SetDir(Input)
	return r
}

func (r *RamDq) Kind() NodeKind      { return KindRamDq }
func (r *RamDq) AddrIdx(i int) int   { return i }
func (r *RamDq) DataIdx(i int) int   { return r.AddrWidth + i }
func (r *RamDq) QIdx(i int) int      { return r.AddrWidth + r.Mem.ElemWidth + i }
func (r *RamDq) WEIdx() int          { return r.AddrWidth + 2*r.Mem.ElemWidth }
func (r *RamDq) InClockIdx() int     { return r.AddrWidth + 2*r.Mem.ElemWidth + 1 }
func (r *RamDq) OutClockIdx() int    { return r.AddrWidth + 2*r.Mem.ElemWidth + 2 }

// AbsorbPartners merges other into r's multi-port group if they attach to
// the same Memory, have compatible clocks (same in/out clock pin rings)
// and compatible attributes (NetObj.HasCompatAttributes), per spec 4.C.
// It reports whether the merge happened.
func (r *RamDq) AbsorbPartners(other *RamDq) bool {
	if other.Mem != r.Mem {
		return false
	}
	if !IsLinked(r.Pin(r.InClockIdx()), other.Pin(other.InClockIdx())) {
		return false
	}
	if !IsLinked(r.Pin(r.OutClockIdx()), other.Pin(other.OutClockIdx())) {
		return false
	}
	if !r.HasCompatAttributes(other.NetObj) {
		return false
	}
	r.partners = append(r.partners, other)
	return true
}

// Partners returns the RamDq devices previously merged into r.
func (r *RamDq) Partners() []*RamDq { return r.partners }

// UDPNode is a netlist node backed by a UDP truth table: pin(0) is the
// output, pins 1..Ins are inputs.
type UDPNode struct {
	baseNode
	Table    *UDP
	curState Bit4
}

func NewUDPNode(name string, table *UDP) *UDPNode {
	n := &UDPNode{Table: table, curState: Vx}
	n.NetObj = NewNetObj(name, table.Ins+1)
	n.Pin(0).SetDir(Output)
	for i := 1; i <= table.Ins; i++ {
		n.Pin(i).SetDir(Input)
	}
	return n
}

func (n *UDPNode) Kind() NodeKind { return KindUDP }

// Eval evaluates the UDP given the current input levels (as '0'/'1'/'x'
// glyphs, one per input pin). For a sequential UDP it composes the key
// from n's previously stored state and updates that state, honoring a
// NoChange result by leaving the output as-is.
func (n *UDPNode) Eval(inPattern string) Bit4 {
	if n.Table.Kind == UDPCombinational {
		return n.Table.LookupComb(inPattern)
	}
	cur := byte('x')
	switch n.curState {
	case V0:
		cur = '0'
	case V1:
		cur = '1'
	}
	next := n.Table.LookupSeq(cur, inPattern)
	if next == NoChange {
		return n.curState
	}
	n.curState = next
	return next
}
