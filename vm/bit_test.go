package vm

import "testing"

func TestPackUnpackPort(t *testing.T) {
	var ival byte
	for i, v := range []Bit2{B1, Bz, B0, Bx} {
		ival = packPort(ival, i, v)
	}
	for i, want := range []Bit2{B1, Bz, B0, Bx} {
		if got := unpackPort(ival, i); got != want {
			t.Fatalf("port %d = %s, want %s", i, got, want)
		}
	}
}

func TestAnd2Or2Xor2Truth(t *testing.T) {
	if and2(B1, B1) != B1 || and2(B0, B1) != B0 || and2(Bx, B1) != Bx {
		t.Fatal("and2 truth table wrong")
	}
	if or2(B0, B0) != B0 || or2(B1, B0) != B1 || or2(Bx, B0) != Bx {
		t.Fatal("or2 truth table wrong")
	}
	if xor2(B0, B1) != B1 || xor2(B1, B1) != B0 || xor2(Bx, B0) != Bx {
		t.Fatal("xor2 truth table wrong")
	}
}

func TestBit2Not(t *testing.T) {
	if B0.not() != B1 || B1.not() != B0 || Bx.not() != Bx || Bz.not() != Bx {
		t.Fatal("not() table wrong")
	}
}
