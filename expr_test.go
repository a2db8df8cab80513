package netlist

import "testing"

func constBits(bits ...Bit4) *EConst { return &EConst{Value: vec(bits...)} }

// S2 Const-fold add.
func TestConstFoldAdd(t *testing.T) {
	e := &EBinary{
		Op:    OpAdd,
		Left:  constBits(V1, V1, V0, V0), // 4'b0011
		Right: constBits(V1, V0, V0, V0), // 4'b0001
		width: 4,
	}
	got := e.EvalTree()
	c, ok := got.(*EConst)
	if !ok {
		t.Fatalf("EvalTree did not fold to a constant: %T", got)
	}
	if c.Value.Width() != 4 {
		t.Fatalf("width = %d, want 4", c.Value.Width())
	}
	want := VectorFromUint64(4, 4) // 4'b0100
	if c.Value.Uint64() != want.Uint64() {
		t.Fatalf("EvalTree() = %s, want %s", c.Value, want)
	}
}

// S3 Case/z.
func TestCaseZScenario(t *testing.T) {
	// a and b agree in every bit except one, where a carries Vz.
	a := constBits(V1, V0, Vz, V1)
	b := constBits(V1, V0, V0, V1)

	eq := &EBinary{Op: OpCaseEq, Left: a, Right: b, width: 1}
	folded := eq.EvalTree().(*EConst)
	if folded.Value.Bits[0] != V0 {
		t.Fatalf("=== with a z bit mismatch should be V0, got %s", folded.Value.Bits[0])
	}

	if !CaseMatches(CaseEQZ, a.Value, b.Value) {
		t.Fatal("CaseMatches(CaseEQZ, ...) should treat z as don't-care and match")
	}
}

// Invariant 3: dup_expr().width == width, and dumping E and its
// duplicate yields identical text.
func TestDupExprPreservesWidthAndText(t *testing.T) {
	e := &EBinary{
		Op:    OpXor,
		Left:  constBits(V1, V0),
		Right: constBits(V0, V1),
		width: 2,
	}
	d := e.DupExpr()
	if d.ExprWidth() != e.ExprWidth() {
		t.Fatalf("dup width = %d, want %d", d.ExprWidth(), e.ExprWidth())
	}
	if DumpExpr(d) != DumpExpr(e) {
		t.Fatalf("dump mismatch: %q vs %q", DumpExpr(d), DumpExpr(e))
	}
}
