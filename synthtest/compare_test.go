package synthtest

import (
	"testing"

	"github.com/xinlnix/iverilog"
)

func TestCompareEvalConstAdd(t *testing.T) {
	e := &netlist.EBinary{
		Op:    netlist.OpAdd,
		Left:  RandomConst(4),
		Right: RandomConst(4),
	}
	// width is normally set by the parser/elaborator; fill it in here the
	// way a real elaborated tree already would have.
	if err := e.SetWidth(4); err != nil {
		t.Fatalf("SetWidth: %v", err)
	}
	CompareEval(t, e)
}

func TestCompareEvalConstXor(t *testing.T) {
	e := &netlist.EBinary{
		Op:    netlist.OpXor,
		Left:  RandomConst(8),
		Right: RandomConst(8),
	}
	if err := e.SetWidth(8); err != nil {
		t.Fatalf("SetWidth: %v", err)
	}
	CompareEval(t, e)
}

func TestRandomConstHasNoUnknownBits(t *testing.T) {
	c := RandomConst(16)
	for i := 0; i < c.Value.Width(); i++ {
		b := c.Value.Bits[i]
		if b != netlist.V0 && b != netlist.V1 {
			t.Fatalf("bit %d = %s, want a known value", i, b)
		}
	}
}
