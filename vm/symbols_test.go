package vm

import "testing"

func TestSymbolTableDuplicateRejected(t *testing.T) {
	tbl := newSymbolTable("functor", true)
	if err := tbl.Insert("foo", 1); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := tbl.Insert("foo", 2); err == nil {
		t.Fatal("expected a redefinition error on the second insert")
	}
}

func TestSymbolTableLastWins(t *testing.T) {
	tbl := newSymbolTable("vpi", false)
	_ = tbl.Insert("foo", 1)
	_ = tbl.Insert("foo", 2)
	v, ok := tbl.Lookup("foo")
	if !ok || v.(int) != 2 {
		t.Fatalf("Lookup = (%v,%v), want (2,true)", v, ok)
	}
}

func TestSymbolTableMiss(t *testing.T) {
	tbl := newSymbolTable("code label", true)
	if _, ok := tbl.Lookup("nope"); ok {
		t.Fatal("expected a miss for an unknown label")
	}
}

func TestNewSymbolTablesSeedsTime(t *testing.T) {
	st := NewSymbolTables()
	v, ok := st.Vpi.Lookup("$time")
	if !ok {
		t.Fatal("$time should be pre-seeded in the vpi table")
	}
	if h, ok := v.(VpiHandle); !ok || h.Name != "$time" {
		t.Fatalf("$time entry = %#v", v)
	}
}

func TestSymbolTableDumpSorted(t *testing.T) {
	tbl := newSymbolTable("functor", true)
	_ = tbl.Insert("b", 1)
	_ = tbl.Insert("a", 2)
	if got, want := tbl.Dump(), "a\nb\n"; got != want {
		t.Fatalf("Dump() = %q, want %q", got, want)
	}
}
