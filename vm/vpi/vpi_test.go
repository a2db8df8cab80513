package vpi

import (
	"testing"

	"github.com/xinlnix/iverilog/vm"
)

type displayTask struct {
	Format string `vpi:"arg"`
	Value  int    `vpi:"arg,val"`
	hidden string
}

func (d *displayTask) Call(t *vm.Thread) error { return nil }

func TestMakeTaskCollectsTaggedArgs(t *testing.T) {
	h := MakeTask("$display", &displayTask{})
	if h.Name != "$display" {
		t.Fatalf("Name = %q, want $display", h.Name)
	}
	if len(h.Args) != 2 {
		t.Fatalf("Args = %v, want 2 entries", h.Args)
	}
	if h.Args[0] != "format" {
		t.Fatalf("Args[0] = %q, want %q (default lowercased field name)", h.Args[0], "format")
	}
	if h.Args[1] != "val" {
		t.Fatalf("Args[1] = %q, want %q (tag override)", h.Args[1], "val")
	}
}

func TestRegisterAndLookupThroughSymbolTables(t *testing.T) {
	tables := vm.NewSymbolTables()
	h := MakeTask("$bogus", &displayTask{})
	if err := Register(tables, h); err != nil {
		t.Fatalf("Register: %v", err)
	}
	v, ok := tables.Vpi.Lookup("$bogus")
	if !ok {
		t.Fatal("$bogus not found after Register")
	}
	got, ok := v.(*Handle)
	if !ok || got.Name != "$bogus" {
		t.Fatalf("Lookup returned %#v", v)
	}
}

func TestMakeTaskPanicsOnNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MakeTask to panic on a non-struct Task")
		}
	}()
	MakeTask("$bad", intTask(0))
}

type intTask int

func (intTask) Call(t *vm.Thread) error { return nil }
