package netlist

import "github.com/pkg/errors"

// BinOp is one of the 23 binary operator codes described in spec 3/4.A.
type BinOp int

const (
	OpAdd    BinOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %
	OpAnd                 // &
	OpOr                  // |
	OpXor                 // ^
	OpXnor                // ~^
	OpShl                 // <<
	OpShr                 // >>
	OpAShl                // <<<
	OpAShr                // >>>
	OpLogAnd              // &&
	OpLogOr               // ||
	OpEq                  // ==
	OpNe                  // !=
	OpCaseEq              // ===
	OpCaseNe              // !==
	OpLt                  // <
	OpLe                  // <=
	OpGt                  // >
	OpGe                  // >=
)

// UnOp is one of the 10 unary operator codes described in spec 3/4.A.
type UnOp int

const (
	OpNeg     UnOp = iota // unary -
	OpPlus                // unary +
	OpBitNot              // ~
	OpLogNot              // !
	OpRedAnd              // &
	OpRedOr               // |
	OpRedXor              // ^
	OpRedNand             // ~&
	OpRedNor              // ~|
	OpRedXnor             // ~^
)

// CaseKind selects the equality semantics a case statement item uses,
// per spec 4.C.
type CaseKind int

const (
	CaseEQ  CaseKind = iota // logical ==, x/z propagate to "no match"
	CaseEQZ                 // z is don't-care
	CaseEQX                 // x and z are both don't-care
)

// Expr is the closed sum over expression kinds described in spec 3.
// It is a Go interface playing the role of the tagged union spec 9 calls
// for; each concrete type below is one variant. Expressions are
// immutable after elaboration: transforming one allocates a fresh tree.
type Expr interface {
	// ExprWidth returns the expression's declared bit width.
	ExprWidth() int
	// SetWidth attempts to coerce the expression (and, recursively, its
	// operands) to width w, returning an error if that would be lossy
	// (e.g. truncating a non-zero bit of a literal) or otherwise
	// impossible.
	SetWidth(w int) error
	// EvalTree constant-folds the expression using four-valued
	// semantics. It returns an *EConst if every leaf is constant. Else a
	// leaf that cannot fold returns the receiver unchanged, and an
	// operator node returns a fresh node of the same kind whose constant
	// sub-trees are folded.
	EvalTree() Expr
	// DupExpr returns a deep copy, preserving width.
	DupExpr() Expr
}

// EConst is a constant (literal) expression.
type EConst struct{ Value Vector }

func (e *EConst) ExprWidth() int { return e.Value.Width() }
func (e *EConst) EvalTree() Expr { return e }
func (e *EConst) DupExpr() Expr  { return &EConst{Value: e.Value.Clone()} }
func (e *EConst) SetWidth(w int) error {
	if w == e.Value.Width() {
		return nil
	}
	if w < e.Value.Width() {
		// truncation must not discard a bit that differs from the fill
		// value (0, or the sign bit if signed) of the bits being dropped.
		fill := V0
		if e.Value.Signed {
			fill = e.Value.Bits[e.Value.Width()-1]
		}
		for i := w; i < e.Value.Width(); i++ {
			if e.Value.Bits[i] != fill {
				return errors.Errorf("set_width %d: truncation would lose bit %d of %s", w, i, e.Value.String())
			}
		}
	}
	e.Value = e.Value.Resize(w)
	return nil
}

// EIdent is a raw, pre-elaboration name reference (e.g. left over from a
// parameter that hasn't been substituted yet). A fully elaborated tree
// should contain no EIdent nodes; spec 4.C's "unresolvable parameter
// references" error fires when one survives to emission.
type EIdent struct {
	Name  string
	width int
}

func (e *EIdent) ExprWidth() int    { return e.width }
func (e *EIdent) EvalTree() Expr    { return e }
func (e *EIdent) DupExpr() Expr     { return &EIdent{Name: e.Name, width: e.width} }
func (e *EIdent) SetWidth(w int) error {
	e.width = w
	return nil
}

// ESignal references a Signal in its entirety.
type ESignal struct{ Sig *Signal }

func (e *ESignal) ExprWidth() int { return e.Sig.Width() }
func (e *ESignal) EvalTree() Expr { return e }
func (e *ESignal) DupExpr() Expr  { return &ESignal{Sig: e.Sig} }
func (e *ESignal) SetWidth(w int) error {
	if w != e.Sig.Width() {
		return errors.Errorf("set_width %d: signal %s has fixed width %d", w, e.Sig.Name(), e.Sig.Width())
	}
	return nil
}

// ESubSignal is a single-bit select of a signal (sub-signal), with the
// selected bit given as a signed Verilog index, not a 0-based pin index.
type ESubSignal struct {
	Sig   *Signal
	Index Expr
}

func (e *ESubSignal) ExprWidth() int { return 1 }
func (e *ESubSignal) SetWidth(w int) error {
	if w != 1 {
		return errors.Errorf("set_width %d: bit-select has fixed width 1", w)
	}
	return nil
}
func (e *ESubSignal) DupExpr() Expr { return &ESubSignal{Sig: e.Sig, Index: e.Index.DupExpr()} }
func (e *ESubSignal) EvalTree() Expr {
	idx := e.Index.EvalTree()
	c, ok := idx.(*EConst)
	if !ok || !c.Value.AllKnown() {
		return e
	}
	sb := int(c.Value.Uint64())
	if _, ok := e.Sig.SbToIdx(sb); !ok {
		return &EConst{Value: NewVector(1)} // out-of-range select: Vx
	}
	return e // an in-range bit of a signal is not a compile-time constant
}

// EMemElement addresses a single word of a Memory.
type EMemElement struct {
	Mem  *Memory
	Addr Expr
}

func (e *EMemElement) ExprWidth() int { return e.Mem.ElemWidth }
func (e *EMemElement) SetWidth(w int) error {
	if w != e.Mem.ElemWidth {
		return errors.Errorf("set_width %d: memory %s elements are %d bits", w, e.Mem.Name, e.Mem.ElemWidth)
	}
	return nil
}
func (e *EMemElement) DupExpr() Expr  { return &EMemElement{Mem: e.Mem, Addr: e.Addr.DupExpr()} }
func (e *EMemElement) EvalTree() Expr { return e } // memory contents aren't compile-time constants

// EBinary is a binary operator node.
type EBinary struct {
	Op          BinOp
	Left, Right Expr
	width       int
}

func (e *EBinary) ExprWidth() int { return e.width }
func (e *EBinary) DupExpr() Expr {
	return &EBinary{Op: e.Op, Left: e.Left.DupExpr(), Right: e.Right.DupExpr(), width: e.width}
}

func (e *EBinary) SetWidth(w int) error {
	switch e.Op {
	case OpAdd, OpSub:
		// adders may accept a narrower destination width by discarding
		// the carry (spec 4.C).
		e.width = w
		return nil
	case OpLogAnd, OpLogOr, OpEq, OpNe, OpCaseEq, OpCaseNe, OpLt, OpLe, OpGt, OpGe:
		if w != 1 {
			return errors.Errorf("set_width %d: boolean-result op has fixed width 1", w)
		}
		e.width = 1
		return nil
	case OpShl, OpShr, OpAShl, OpAShr:
		// result width = left-operand width (spec 4.C); the right operand
		// is a runtime shift amount, not a value of the result's width,
		// and is left untouched.
		if err := e.Left.SetWidth(w); err != nil {
			return err
		}
		e.width = w
		return nil
	default:
		// bitwise ops: operand width must equal result width.
		if err := e.Left.SetWidth(w); err != nil {
			return err
		}
		if err := e.Right.SetWidth(w); err != nil {
			return err
		}
		e.width = w
		return nil
	}
}

func isBoolOp(op BinOp) bool {
	switch op {
	case OpLogAnd, OpLogOr, OpEq, OpNe, OpCaseEq, OpCaseNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

func (e *EBinary) EvalTree() Expr {
	l, r := e.Left.EvalTree(), e.Right.EvalTree()
	lc, lok := l.(*EConst)
	rc, rok := r.(*EConst)
	if !lok || !rok {
		return &EBinary{Op: e.Op, Left: l, Right: r, width: e.width}
	}
	var res Vector
	var bit Bit4
	switch e.Op {
	case OpAdd:
		res = Add(lc.Value, rc.Value, false).Resize(e.width)
	case OpSub:
		res = Sub(lc.Value, rc.Value, false).Resize(e.width)
	case OpMul:
		res = Mul(lc.Value, rc.Value).Resize(e.width)
	case OpDiv:
		res = Div(lc.Value, rc.Value).Resize(e.width)
	case OpMod:
		res = Mod(lc.Value, rc.Value).Resize(e.width)
	case OpAnd:
		res = And(lc.Value, rc.Value)
	case OpOr:
		res = Or(lc.Value, rc.Value)
	case OpXor:
		res = Xor(lc.Value, rc.Value)
	case OpXnor:
		res = Xnor(lc.Value, rc.Value)
	case OpShl, OpAShl:
		res = ShiftLeft(lc.Value, rc.Value.Uint64())
	case OpShr, OpAShr:
		res = ShiftRight(lc.Value, rc.Value.Uint64())
	case OpLogAnd:
		bit = LogicalAnd(lc.Value, rc.Value)
	case OpLogOr:
		bit = LogicalOr(lc.Value, rc.Value)
	case OpEq:
		bit = EqLogical(lc.Value, rc.Value)
	case OpNe:
		bit = NeLogical(lc.Value, rc.Value)
	case OpCaseEq:
		bit = EqCase(lc.Value, rc.Value)
	case OpCaseNe:
		bit = NeCase(lc.Value, rc.Value)
	case OpLt:
		bit = Lt(lc.Value, rc.Value)
	case OpLe:
		bit = Le(lc.Value, rc.Value)
	case OpGt:
		bit = Gt(lc.Value, rc.Value)
	case OpGe:
		bit = Ge(lc.Value, rc.Value)
	default:
		return &EBinary{Op: e.Op, Left: l, Right: r, width: e.width}
	}
	if isBoolOp(e.Op) {
		return &EConst{Value: Vector{Bits: []Bit4{bit}}}
	}
	return &EConst{Value: res}
}

// EUnary is a unary operator node.
type EUnary struct {
	Op      UnOp
	Operand Expr
	width   int
}

func (e *EUnary) ExprWidth() int { return e.width }
func (e *EUnary) DupExpr() Expr  { return &EUnary{Op: e.Op, Operand: e.Operand.DupExpr(), width: e.width} }
func (e *EUnary) SetWidth(w int) error {
	switch e.Op {
	case OpLogNot, OpRedAnd, OpRedOr, OpRedXor, OpRedNand, OpRedNor, OpRedXnor:
		if w != 1 {
			return errors.Errorf("set_width %d: reduction op has fixed width 1", w)
		}
		e.width = 1
		return nil
	default:
		if err := e.Operand.SetWidth(w); err != nil {
			return err
		}
		e.width = w
		return nil
	}
}

func (e *EUnary) EvalTree() Expr {
	o := e.Operand.EvalTree()
	oc, ok := o.(*EConst)
	if !ok {
		return &EUnary{Op: e.Op, Operand: o, width: e.width}
	}
	var bit Bit4
	isBit := true
	var vec Vector
	switch e.Op {
	case OpBitNot:
		vec, isBit = Not(oc.Value), false
	case OpNeg:
		vec, isBit = Sub(VectorFromUint64(0, oc.Value.Width()), oc.Value, false), false
	case OpPlus:
		vec, isBit = oc.Value, false
	case OpLogNot:
		bit = reduceToBool(oc.Value).not()
	case OpRedAnd:
		bit = ReduceAnd(oc.Value)
	case OpRedOr:
		bit = ReduceOr(oc.Value)
	case OpRedXor:
		bit = ReduceXor(oc.Value)
	case OpRedNand:
		bit = ReduceNand(oc.Value)
	case OpRedNor:
		bit = ReduceNor(oc.Value)
	case OpRedXnor:
		bit = ReduceXnor(oc.Value)
	}
	if isBit {
		return &EConst{Value: Vector{Bits: []Bit4{bit}}}
	}
	return &EConst{Value: vec.Resize(e.width)}
}

// ETernary is a `cond ? a : b` expression.
type ETernary struct {
	Cond       Expr
	Then, Else Expr
	width      int
}

func (e *ETernary) ExprWidth() int { return e.width }
func (e *ETernary) DupExpr() Expr {
	return &ETernary{Cond: e.Cond.DupExpr(), Then: e.Then.DupExpr(), Else: e.Else.DupExpr(), width: e.width}
}
func (e *ETernary) SetWidth(w int) error {
	if err := e.Then.SetWidth(w); err != nil {
		return err
	}
	if err := e.Else.SetWidth(w); err != nil {
		return err
	}
	e.width = w
	return nil
}
func (e *ETernary) EvalTree() Expr {
	c := e.Cond.EvalTree()
	cc, ok := c.(*EConst)
	if ok {
		b := reduceToBool(cc.Value)
		switch b {
		case V1:
			return e.Then.EvalTree()
		case V0:
			return e.Else.EvalTree()
		}
	}
	return &ETernary{Cond: c, Then: e.Then.EvalTree(), Else: e.Else.EvalTree(), width: e.width}
}

// EConcat is a concatenation of operands (operand 0 most significant),
// repeated Repeat times as a whole.
type EConcat struct {
	Repeat   int
	Operands []Expr
}

func (e *EConcat) ExprWidth() int {
	w := 0
	for _, o := range e.Operands {
		w += o.ExprWidth()
	}
	return w * e.Repeat
}
func (e *EConcat) DupExpr() Expr {
	ops := make([]Expr, len(e.Operands))
	for i, o := range e.Operands {
		ops[i] = o.DupExpr()
	}
	return &EConcat{Repeat: e.Repeat, Operands: ops}
}
func (e *EConcat) SetWidth(w int) error {
	if w != e.ExprWidth() {
		return errors.Errorf("set_width %d: concat has fixed width %d", w, e.ExprWidth())
	}
	return nil
}
func (e *EConcat) EvalTree() Expr {
	all := make([]Expr, len(e.Operands))
	allConst := true
	for i, o := range e.Operands {
		all[i] = o.EvalTree()
		if _, ok := all[i].(*EConst); !ok {
			allConst = false
		}
	}
	if !allConst {
		return &EConcat{Repeat: e.Repeat, Operands: all}
	}
	vecs := make([]Vector, len(all))
	for i, o := range all {
		vecs[i] = o.(*EConst).Value
	}
	return &EConst{Value: Concat(e.Repeat, vecs...)}
}

// ECall is a function call — either a user task/function or a system
// task/function (the $-prefixed family), identified by System.
type ECall struct {
	Name   string
	Args   []Expr
	System bool
	width  int
}

func (e *ECall) ExprWidth() int { return e.width }
func (e *ECall) DupExpr() Expr {
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.DupExpr()
	}
	return &ECall{Name: e.Name, Args: args, System: e.System, width: e.width}
}
func (e *ECall) SetWidth(w int) error { e.width = w; return nil }
func (e *ECall) EvalTree() Expr       { return e } // calls are never compile-time constant

// EScopeLit is a hierarchical scope-path literal (e.g. used by $fullskip
// style system calls that take a scope argument).
type EScopeLit struct{ Path string }

func (e *EScopeLit) ExprWidth() int      { return 0 }
func (e *EScopeLit) SetWidth(w int) error {
	if w != 0 {
		return errors.New("set_width: scope literal has no bit width")
	}
	return nil
}
func (e *EScopeLit) EvalTree() Expr { return e }
func (e *EScopeLit) DupExpr() Expr  { return &EScopeLit{Path: e.Path} }

// EParam is a parameter placeholder. Resolved is nil until elaboration
// substitutes the parameter's value; an unresolved EParam reaching
// emission is a semantic error (spec 4.C).
type EParam struct {
	Name     string
	Resolved Expr
}

func (e *EParam) ExprWidth() int {
	if e.Resolved != nil {
		return e.Resolved.ExprWidth()
	}
	return 0
}
func (e *EParam) SetWidth(w int) error {
	if e.Resolved != nil {
		return e.Resolved.SetWidth(w)
	}
	return errors.Errorf("set_width: parameter %s not yet resolved", e.Name)
}
func (e *EParam) EvalTree() Expr {
	if e.Resolved != nil {
		return e.Resolved.EvalTree()
	}
	return e
}
func (e *EParam) DupExpr() Expr {
	d := &EParam{Name: e.Name}
	if e.Resolved != nil {
		d.Resolved = e.Resolved.DupExpr()
	}
	return d
}
