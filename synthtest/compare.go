// Package synthtest provides utility functions for cross-checking the
// netlist package's two expression-evaluation paths.
package synthtest

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/xinlnix/iverilog"
)

// CompareEval takes a compile-time-constant Expr, synthesizes it into a
// driven Signal via netlist.Synthesize, and checks that the Signal's
// initial value bits match netlist.EvalTree's direct four-valued
// evaluation, bit for bit. This is the structural analogue of spec 8's
// S2 scenario ("Const-fold add") generalized to random operands and to
// every binary op synth.go structurally lowers — reworked from
// hwtest.ComparePart's random-vector two-implementation comparison
// idiom, in place of building and clocking two whole circuits.
//
// Non-constant expressions (an ESignal operand, say) synthesize into
// gates whose actual output only exists once the resulting netlist runs
// in the vm package; comparing structural lowering against direct
// evaluation for those would require assembling and stepping a
// scheduler, which is out of this helper's scope.
func CompareEval(t *testing.T, e netlist.Expr) {
	t.Helper()

	folded := e.EvalTree()
	fc, ok := folded.(*netlist.EConst)
	if !ok {
		t.Fatalf("CompareEval: %T did not fold to a constant", folded)
	}

	d := netlist.NewDesign("synthtest")
	scope := netlist.NewScope(nil, netlist.ScopeModule, "top")
	sig, err := netlist.Synthesize(d, scope, e)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if sig.Width() != fc.Value.Width() {
		t.Fatalf("width mismatch: synthesize=%d evalTree=%d", sig.Width(), fc.Value.Width())
	}
	for i := 0; i < sig.Width(); i++ {
		got, want := sig.InitValue(i), fc.Value.Bits[i]
		if got != want {
			t.Fatalf("bit %d: synthesize=%s evalTree=%s (expr %s)", i, got, want, describe(e))
		}
	}
}

func describe(e netlist.Expr) string {
	switch v := e.(type) {
	case *netlist.EConst:
		return fmt.Sprintf("const(%d)", v.Value.Width())
	case *netlist.EBinary:
		return fmt.Sprintf("(%s op%d %s)", describe(v.Left), v.Op, describe(v.Right))
	default:
		return fmt.Sprintf("%T", e)
	}
}

// RandomConst builds a random known-valued (no x/z) constant of the
// given width, for feeding CompareEval's fold-check with fresh operands
// each run.
func RandomConst(width int) *netlist.EConst {
	v := netlist.NewVector(width)
	for i := 0; i < width; i++ {
		if rand.Intn(2) == 0 {
			v.Bits[i] = netlist.V0
		} else {
			v.Bits[i] = netlist.V1
		}
	}
	return &netlist.EConst{Value: v}
}
