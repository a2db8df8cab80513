package vm

import "testing"

func b2vec(bits ...Bit2) []Bit2 { return bits }

func TestAddNMatchesUint(t *testing.T) {
	for a := uint64(0); a < 16; a++ {
		for b := uint64(0); b < 16; b++ {
			av := uintToBits(a, 4)
			bv := uintToBits(b, 4)
			sum := addN(av, bv)
			got, ok := bitsToUint(sum)
			if !ok {
				t.Fatalf("addN(%d,%d) produced unknown bits", a, b)
			}
			if want := (a + b) & 0xf; got != want {
				t.Fatalf("addN(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func uintToBits(v uint64, n int) []Bit2 {
	out := make([]Bit2, n)
	for i := 0; i < n; i++ {
		if v&(1<<uint(i)) != 0 {
			out[i] = B1
		} else {
			out[i] = B0
		}
	}
	return out
}

func TestCmpOrderUnsigned(t *testing.T) {
	lt, eq := cmpOrder(uintToBits(3, 4), uintToBits(5, 4), false)
	if lt != B1 || eq != B0 {
		t.Fatalf("cmpOrder(3,5) = (%s,%s), want (1,0)", lt, eq)
	}
	lt, eq = cmpOrder(uintToBits(5, 4), uintToBits(5, 4), false)
	if lt != B0 || eq != B1 {
		t.Fatalf("cmpOrder(5,5) = (%s,%s), want (0,1)", lt, eq)
	}
}

func TestCmpOrderUnknownGoesX(t *testing.T) {
	lt, eq := cmpOrder(b2vec(B0, Bx), uintToBits(1, 2), false)
	if lt != Bx || eq != Bx {
		t.Fatalf("cmpOrder with an unknown bit should be (x,x), got (%s,%s)", lt, eq)
	}
}

func TestCmpWildcard(t *testing.T) {
	a := b2vec(B1, Bx, B0)
	b := b2vec(B1, B1, B0)
	if cmpWildcard(a, b, Bx) != B1 {
		t.Fatal("cmp/x should treat Bx as a wildcard match")
	}
	if cmpWildcard(a, b, Bz) != B0 {
		t.Fatal("cmp/z should not treat Bx as a wildcard, and the vectors differ there")
	}
}

func TestBitwiseNAnd(t *testing.T) {
	got := bitwiseN(and2, uintToBits(0b1100, 4), uintToBits(0b1010, 4))
	want, _ := bitsToUint(got)
	if want != 0b1000 {
		t.Fatalf("bitwiseN(and2) = %04b, want 1000", want)
	}
}
