package vm

import (
	"strings"
	"testing"
)

// S4 Forward reference: a functor wired to a source declared later in
// the text must still end up linked once Cleanup resolves the deferred
// fixup queue.
func TestAssembleForwardFunctorReference(t *testing.T) {
	src := "b .functor BUF, 2, a\n" +
		"a .functor BUF, 2\n"
	a := NewAssembler()
	a.Assemble(src)
	a.Cleanup()
	if a.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}
	aBase, ok := a.Symbols.Functors.Lookup("a")
	if !ok {
		t.Fatal("functor a not registered")
	}
	if n := a.Pool.FanoutLen(aBase.(Ipoint)); n != 1 {
		t.Fatalf("FanoutLen(a) = %d, want 1 (linked to b's input)", n)
	}
}

// S5 Unresolved code label: a %jmp to a label that never appears must
// surface as a compile diagnostic naming the label, not a panic or a
// silently-wrong jump target.
func TestAssembleUnresolvedCodeLabel(t *testing.T) {
	a := NewAssembler()
	a.Assemble("%jmp later\n")
	a.Cleanup()
	if a.ErrorCount() == 0 {
		t.Fatal("expected an unresolved-label diagnostic")
	}
	found := false
	for _, e := range a.Errors() {
		if strings.Contains(e, "later") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no diagnostic names the unresolved label %q: %v", "later", a.Errors())
	}
}

func TestAssembleDuplicateFunctorIsAnError(t *testing.T) {
	a := NewAssembler()
	a.Assemble("a .functor BUF, 2\n" +
		"a .functor BUF, 2\n")
	if a.ErrorCount() == 0 {
		t.Fatal("expected a redefinition diagnostic for the duplicate functor label")
	}
}

func TestAssembleThreadRecordsStartPC(t *testing.T) {
	src := "main:\n" +
		"%noop\n" +
		"%end\n" +
		".thread main\n"
	a := NewAssembler()
	a.Assemble(src)
	a.Cleanup()
	if a.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}
	if len(a.Threads) != 1 {
		t.Fatalf("Threads = %v, want 1 entry", a.Threads)
	}
	if a.Threads[0].PC != 0 {
		t.Fatalf("thread start PC = %d, want 0", a.Threads[0].PC)
	}
}
