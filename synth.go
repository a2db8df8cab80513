package netlist

import "github.com/pkg/errors"

// Synthesize produces an equivalent net-level subgraph computing e,
// returning the Signal that carries its result. Adders lower to an LPM
// adder with a carry chain; bitwise ops lower to per-bit gates; ternary
// lowers to a mux; concat wires signals directly; comparators lower to
// an LPM compare (spec 4.C). It is a package function rather than an
// Expr method because it needs a Design/Scope to allocate the signals
// and nodes it creates — the external context DupExpr/EvalTree/SetWidth
// don't need.
func Synthesize(d *Design, scope *Scope, e Expr) (*Signal, error) {
	switch v := e.(type) {
	case *EConst:
		return synthConst(d, scope, v)
	case *ESignal:
		return v.Sig, nil
	case *ESubSignal:
		return synthSubSignal(d, scope, v)
	case *EBinary:
		return synthBinary(d, scope, v)
	case *EUnary:
		return synthUnary(d, scope, v)
	case *ETernary:
		return synthTernary(d, scope, v)
	case *EConcat:
		return synthConcat(d, scope, v)
	default:
		return nil, errors.Errorf("synthesize: unsupported expression kind %T", e)
	}
}

func newTemp(d *Design, scope *Scope, width int, signed bool) *Signal {
	s := NewSignal(scope, d.AllocWireName(), Wire, width-1, 0)
	s.SetSigned(signed)
	scope.AddSignal(s)
	d.AddSignal(s)
	return s
}

func synthConst(d *Design, scope *Scope, c *EConst) (*Signal, error) {
	s := newTemp(d, scope, c.Value.Width(), c.Value.Signed)
	for i := 0; i < s.Width(); i++ {
		s.Pin(i).SetDir(Output)
		s.SetInitValue(i, c.Value.Bits[i])
	}
	return s, nil
}

func synthSubSignal(d *Design, scope *Scope, e *ESubSignal) (*Signal, error) {
	idx := e.Index.EvalTree()
	c, ok := idx.(*EConst)
	if !ok || !c.Value.AllKnown() {
		return nil, errors.New("synthesize: bit-select index is not a compile-time constant")
	}
	pin, ok := e.Sig.SbToIdx(int(c.Value.Uint64()))
	if !ok {
		// out-of-range select: Vx, materialized as a floating 1-bit wire.
		s := newTemp(d, scope, 1, false)
		s.Pin(0).SetDir(Output)
		s.SetInitValue(0, Vx)
		return s, nil
	}
	s := newTemp(d, scope, 1, false)
	Connect(s.Pin(0), e.Sig.Pin(pin))
	return s, nil
}

func synthBinary(d *Design, scope *Scope, e *EBinary) (*Signal, error) {
	lhs, err := Synthesize(d, scope, e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := Synthesize(d, scope, e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpAdd, OpSub:
		return synthAdder(d, scope, lhs, rhs, e.Op == OpSub, e.width)
	case OpAnd, OpOr, OpXor, OpXnor:
		return synthBitwiseGates(d, scope, lhs, rhs, e.Op)
	case OpEq, OpNe, OpCaseEq, OpCaseNe, OpLt, OpLe, OpGt, OpGe:
		return synthCompare(d, scope, lhs, rhs, e.Op)
	default:
		return nil, errors.Errorf("synthesize: binary op %d not structurally lowered", e.Op)
	}
}

func synthAdder(d *Design, scope *Scope, lhs, rhs *Signal, sub bool, width int) (*Signal, error) {
	w := lhs.Width()
	if rhs.Width() > w {
		w = rhs.Width()
	}
	adder := NewLPMAdd(d.AllocWireName(), w)
	d.AddNode(adder)
	for i := 0; i < w; i++ {
		if i < lhs.Width() {
			Connect(adder.Pin(adder.dataAIdx(i)), lhs.Pin(i))
		}
		if i < rhs.Width() {
			Connect(adder.Pin(adder.dataBIdx(i)), rhs.Pin(i))
		}
	}
	addSub := newTemp(d, scope, 1, false)
	addSub.Pin(0).SetDir(Output)
	if sub {
		addSub.SetInitValue(0, V0)
	} else {
		addSub.SetInitValue(0, V1)
	}
	Connect(adder.Pin(adder.addSubIdx()), addSub.Pin(0))
	out := newTemp(d, scope, width, false)
	n := width
	if n > w {
		n = w
	}
	for i := 0; i < n; i++ {
		Connect(out.Pin(i), adder.Pin(adder.resultIdx(i)))
	}
	return out, nil
}

func gateKindFor(op BinOp) GateKind {
	switch op {
	case OpAnd:
		return GateAnd
	case OpOr:
		return GateOr
	case OpXor:
		return GateXor
	case OpXnor:
		return GateXnor
	}
	return GateBuf
}

func synthBitwiseGates(d *Design, scope *Scope, lhs, rhs *Signal, op BinOp) (*Signal, error) {
	w := lhs.Width()
	out := newTemp(d, scope, w, false)
	for i := 0; i < w; i++ {
		g := NewLogicGate(d.AllocWireName(), gateKindFor(op), 2)
		d.AddNode(g)
		Connect(g.Pin(1), lhs.Pin(i))
		if i < rhs.Width() {
			Connect(g.Pin(2), rhs.Pin(i))
		}
		Connect(out.Pin(i), g.Pin(0))
	}
	return out, nil
}

func synthCompare(d *Design, scope *Scope, lhs, rhs *Signal, op BinOp) (*Signal, error) {
	w := lhs.Width()
	if rhs.Width() > w {
		w = rhs.Width()
	}
	var cop CompareOp
	switch op {
	case OpEq, OpCaseEq:
		cop = CmpEq
	case OpNe, OpCaseNe:
		cop = CmpNe
	case OpLt:
		cop = CmpLt
	case OpLe:
		cop = CmpLe
	case OpGt:
		cop = CmpGt
	case OpGe:
		cop = CmpGe
	}
	cmp := NewLPMCompare(d.AllocWireName(), w, cop)
	d.AddNode(cmp)
	for i := 0; i < w; i++ {
		if i < lhs.Width() {
			Connect(cmp.Pin(i), lhs.Pin(i))
		}
		if i < rhs.Width() {
			Connect(cmp.Pin(w+i), rhs.Pin(i))
		}
	}
	out := newTemp(d, scope, 1, false)
	Connect(out.Pin(0), cmp.Pin(2*w))
	return out, nil
}

func synthUnary(d *Design, scope *Scope, e *EUnary) (*Signal, error) {
	operand, err := Synthesize(d, scope, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpBitNot:
		w := operand.Width()
		out := newTemp(d, scope, w, false)
		for i := 0; i < w; i++ {
			g := NewLogicGate(d.AllocWireName(), GateNot, 1)
			d.AddNode(g)
			Connect(g.Pin(1), operand.Pin(i))
			Connect(out.Pin(i), g.Pin(0))
		}
		return out, nil
	case OpRedAnd, OpRedOr, OpRedXor, OpRedNand, OpRedNor, OpRedXnor:
		return synthReduce(d, scope, operand, e.Op)
	default:
		return nil, errors.Errorf("synthesize: unary op %d not structurally lowered", e.Op)
	}
}

func synthReduce(d *Design, scope *Scope, operand *Signal, op UnOp) (*Signal, error) {
	var kind GateKind
	switch op {
	case OpRedAnd, OpRedNand:
		kind = GateAnd
	case OpRedOr, OpRedNor:
		kind = GateOr
	case OpRedXor, OpRedXnor:
		kind = GateXor
	}
	g := NewLogicGate(d.AllocWireName(), kind, operand.Width())
	d.AddNode(g)
	for i := 0; i < operand.Width(); i++ {
		Connect(g.Pin(1+i), operand.Pin(i))
	}
	out := newTemp(d, scope, 1, false)
	switch op {
	case OpRedNand, OpRedNor, OpRedXnor:
		inv := NewLogicGate(d.AllocWireName(), GateNot, 1)
		d.AddNode(inv)
		Connect(inv.Pin(1), g.Pin(0))
		Connect(out.Pin(0), inv.Pin(0))
	default:
		Connect(out.Pin(0), g.Pin(0))
	}
	return out, nil
}

func synthTernary(d *Design, scope *Scope, e *ETernary) (*Signal, error) {
	cond, err := Synthesize(d, scope, e.Cond)
	if err != nil {
		return nil, err
	}
	thenSig, err := Synthesize(d, scope, e.Then)
	if err != nil {
		return nil, err
	}
	elseSig, err := Synthesize(d, scope, e.Else)
	if err != nil {
		return nil, err
	}
	w := e.width
	mux := NewLPMMux(d.AllocWireName(), w, 2, 1)
	d.AddNode(mux)
	for i := 0; i < w; i++ {
		if i < elseSig.Width() {
			Connect(mux.Pin(mux.DataIdx(i, 0)), elseSig.Pin(i))
		}
		if i < thenSig.Width() {
			Connect(mux.Pin(mux.DataIdx(i, 1)), thenSig.Pin(i))
		}
	}
	Connect(mux.Pin(mux.SelIdx(0)), cond.Pin(0))
	out := newTemp(d, scope, w, false)
	for i := 0; i < w; i++ {
		Connect(out.Pin(i), mux.Pin(mux.ResultIdx(i)))
	}
	return out, nil
}

func synthConcat(d *Design, scope *Scope, e *EConcat) (*Signal, error) {
	sigs := make([]*Signal, len(e.Operands))
	for i, o := range e.Operands {
		s, err := Synthesize(d, scope, o)
		if err != nil {
			return nil, err
		}
		sigs[i] = s
	}
	out := newTemp(d, scope, e.ExprWidth(), false)
	pos := 0
	for rep := 0; rep < e.Repeat; rep++ {
		for i := len(sigs) - 1; i >= 0; i-- {
			s := sigs[i]
			for j := 0; j < s.Width(); j++ {
				Connect(out.Pin(pos+j), s.Pin(j))
			}
			pos += s.Width()
		}
	}
	return out, nil
}
