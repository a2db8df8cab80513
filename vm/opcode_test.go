package vm

import "testing"

var allMnemonics = []string{
	"%add", "%and", "%assign", "%cmp/s", "%cmp/u", "%cmp/x", "%cmp/z",
	"%delay", "%disable", "%end", "%fork", "%inv", "%jmp", "%jmp/0",
	"%jmp/0xz", "%jmp/1", "%join", "%load", "%mov", "%noop", "%nor/r",
	"%or", "%set", "%vpi_call", "%wait", "%xnor", "%xor",
}

func TestLookupOpcodeFindsEveryMnemonic(t *testing.T) {
	for _, m := range allMnemonics {
		e, ok := lookupOpcode(m)
		if !ok {
			t.Fatalf("lookupOpcode(%q) not found", m)
		}
		if e.mnemonic != m {
			t.Fatalf("lookupOpcode(%q) returned entry for %q", m, e.mnemonic)
		}
	}
}

func TestLookupOpcodeRejectsUnknown(t *testing.T) {
	if _, ok := lookupOpcode("%nope"); ok {
		t.Fatal("expected lookup of an unknown mnemonic to fail")
	}
}

func TestInvOperandShapeMatchesOriginalTable(t *testing.T) {
	e, ok := lookupOpcode("%inv")
	if !ok {
		t.Fatal("%inv missing from table")
	}
	if e.argt[0] != OABit1 || e.argt[1] != OABit2 || e.argt[2] != OANone {
		t.Fatalf("%%inv operand kinds = %v, want [OABit1 OABit2 OANone]", e.argt)
	}
}
