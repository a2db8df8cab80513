package netlist

import "testing"

// S1 Connect/unlink.
func TestConnectUnlinkScenario(t *testing.T) {
	w1 := NewSignal(nil, "w1", Wire, 0, 0)
	w2 := NewSignal(nil, "w2", Wire, 0, 0)

	Connect(w1.Pin(0), w2.Pin(0))
	if !IsLinked(w1.Pin(0), w2.Pin(0)) {
		t.Fatal("expected w1.pin(0) and w2.pin(0) to be linked after Connect")
	}
	if got := CountSignals(w1.Pin(0)); got != 2 {
		t.Fatalf("CountSignals = %d, want 2", got)
	}

	Unlink(w1.Pin(0))
	if IsLinked(w1.Pin(0), w2.Pin(0)) {
		t.Fatal("expected w1.pin(0) and w2.pin(0) to be unlinked")
	}
}

// Invariant 1: every pin belongs to exactly one ring, and ring size
// equals the number of pins connected together.
func TestPinBelongsToExactlyOneRing(t *testing.T) {
	a := NewSignal(nil, "a", Wire, 0, 0)
	b := NewSignal(nil, "b", Wire, 0, 0)
	c := NewSignal(nil, "c", Wire, 0, 0)

	Connect(a.Pin(0), b.Pin(0))
	Connect(b.Pin(0), c.Pin(0))

	if got := RingSize(a.Pin(0)); got != 3 {
		t.Fatalf("RingSize = %d, want 3", got)
	}
	for _, p := range []*Pin{a.Pin(0), b.Pin(0), c.Pin(0)} {
		seen := 0
		Walk(a.Pin(0), func(q *Pin) {
			if q == p {
				seen++
			}
		})
		if seen != 1 {
			t.Fatalf("pin %v appears %d times walking the ring, want 1", p, seen)
		}
	}
}

func TestConnectIdempotent(t *testing.T) {
	a := NewSignal(nil, "a", Wire, 0, 0)
	b := NewSignal(nil, "b", Wire, 0, 0)
	Connect(a.Pin(0), b.Pin(0))
	Connect(a.Pin(0), b.Pin(0))
	if got := RingSize(a.Pin(0)); got != 2 {
		t.Fatalf("RingSize after redundant Connect = %d, want 2", got)
	}
}
