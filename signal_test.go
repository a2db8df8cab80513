package netlist

import "testing"

// Invariant 2: S.pin_count = |S.msb-S.lsb|+1, and sb_to_idx(S.msb) =
// pin_count-1 regardless of sign direction.
func TestSbToIdxInvariant(t *testing.T) {
	cases := []struct{ msb, lsb int }{
		{7, 0},
		{0, 7},
		{-1, -8},
		{3, 3},
	}
	for _, c := range cases {
		s := NewSignal(nil, "s", Wire, c.msb, c.lsb)
		want := c.msb - c.lsb
		if want < 0 {
			want = -want
		}
		want++
		if s.PinCount() != want {
			t.Fatalf("[%d:%d]: PinCount = %d, want %d", c.msb, c.lsb, s.PinCount(), want)
		}
		idx, ok := s.SbToIdx(c.msb)
		if !ok {
			t.Fatalf("[%d:%d]: SbToIdx(msb) not ok", c.msb, c.lsb)
		}
		if idx != s.PinCount()-1 {
			t.Fatalf("[%d:%d]: SbToIdx(msb) = %d, want %d", c.msb, c.lsb, idx, s.PinCount()-1)
		}
	}
}
