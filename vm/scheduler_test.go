package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S6 Fork/join: a thread that forks two children into the same label
// and scope, then joins, must resume only after both children have run
// to completion, and simulation time must advance to the children's
// %delay exactly once, not once per child.
func TestSchedulerForkJoinScenario(t *testing.T) {
	src := "main:\n" +
		"%fork child, main\n" +
		"%fork child, main\n" +
		"%join\n" +
		"%end\n" +
		"child:\n" +
		"%delay 5\n" +
		"%end\n" +
		".thread main\n"

	a := NewAssembler()
	a.Assemble(src)
	a.Cleanup()
	require.Equal(t, 0, a.ErrorCount(), "unexpected compile errors: %v", a.Errors())

	s := NewScheduler(a)
	_, err := s.Run(64)
	require.NoError(t, err)
	require.Empty(t, s.Errors())
	require.Equal(t, uint64(5), s.Time)
	require.Empty(t, s.active, "expected no threads left active")
	require.Empty(t, s.wheel, "expected the wheel to be drained")
}

func TestSchedulerDisableRetiresDescendantScope(t *testing.T) {
	src := "main:\n" +
		"%fork child, sub\n" +
		"%fork child, sub.leaf\n" +
		"%disable sub\n" +
		"%end\n" +
		"child:\n" +
		"%delay 1\n" +
		"%end\n" +
		".thread main\n"

	a := NewAssembler()
	a.Assemble(src)
	a.Cleanup()
	if a.ErrorCount() != 0 {
		t.Fatalf("unexpected compile errors: %v", a.Errors())
	}

	s := NewScheduler(a)
	if _, err := s.Run(64); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("unexpected runtime errors: %v", s.Errors())
	}
	// one child is forked into scope "sub" and one into its descendant
	// "sub.leaf", and then %disable sub runs before either child is ever
	// selected to execute, so both are retired on first selection instead
	// of running their %delay — simulation time never advances.
	if s.Time != 0 {
		t.Fatalf("Time = %d, expected the disabled child to be retired before its %%delay ever ran", s.Time)
	}
}

func TestSchedulerVpiCallToUndefinedTaskIsFatal(t *testing.T) {
	src := "main:\n" +
		"%vpi_call $bogus_task\n" +
		".thread main\n"

	a := NewAssembler()
	a.Assemble(src)
	a.Cleanup()
	if a.ErrorCount() != 0 {
		t.Fatalf("unexpected compile errors: %v", a.Errors())
	}

	s := NewScheduler(a)
	if _, err := s.Run(8); err == nil {
		t.Fatal("expected a runtime fatal calling an undefined VPI task")
	}
}
