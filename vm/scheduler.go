package vm

import (
	"github.com/pkg/errors"
)

// Scheduler is the single owning Runtime value of spec 9's "global
// state" note: it holds the functor Pool, the CodeSpace and
// SymbolTables an Assembler produced, and drives every Thread against
// them. Execution is single-threaded cooperative (spec 5): Run never
// starts a host goroutine per simulated thread, it just resumes each
// Thread's interpreter loop until the thread hits a suspension point.
type Scheduler struct {
	Pool    *Pool
	Code    *CodeSpace
	Symbols *SymbolTables

	// Time is the current simulation time, in whatever tick unit %delay
	// operands count in.
	Time uint64

	// IterationLimit bounds how many zero-delay convergence rounds Run
	// performs at a single simulation time before giving up — the
	// thread-level analogue of Pool.IterationLimit, diagnosing a program
	// that keeps re-triggering itself at the same instant.
	IterationLimit int

	active         []*Thread
	wheel          map[uint64][]*Thread
	pending        []pendingAssign
	scopes         map[string]*Scope
	disabledScopes []string
	nextID         int
	diagnostics    []string
}

type pendingAssign struct {
	fnc    Ipoint
	v      Bit2
	thread *Thread
}

// NewScheduler builds a Scheduler around an assembler's output, spawning
// one Thread per recorded .thread declaration (spec 4.F's ThreadStart).
func NewScheduler(a *Assembler) *Scheduler {
	s := &Scheduler{
		Pool:           a.Pool,
		Code:           a.Code,
		Symbols:        a.Symbols,
		IterationLimit: DefaultIterationLimit,
		wheel:          map[uint64][]*Thread{},
		scopes:         map[string]*Scope{},
	}
	s.Pool.onWake = s.wake
	for _, ts := range a.Threads {
		s.Spawn(ts.PC, "", nil)
	}
	return s
}

func (s *Scheduler) scope(name string) *Scope {
	if name == "" {
		return nil
	}
	sc, ok := s.scopes[name]
	if !ok {
		sc = &Scope{Name: name}
		s.scopes[name] = sc
	}
	return sc
}

// Spawn creates a new thread at pc in the named scope and enqueues it to
// run in the current (or next, if nothing is running yet) time step.
func (s *Scheduler) Spawn(pc int, scopeName string, parent *Thread) *Thread {
	t := newThread(s.nextID, pc, s.scope(scopeName), parent)
	s.nextID++
	if parent != nil {
		parent.liveChildren++
	}
	s.active = append(s.active, t)
	return t
}

func (s *Scheduler) wake(t *Thread) {
	if t.ended || t.disabled {
		return
	}
	s.active = append(s.active, t)
}

// Errors returns accumulated runtime diagnostics (spec 7 kind 4).
func (s *Scheduler) Errors() []string { return s.diagnostics }

func (s *Scheduler) errorf(format string, args ...interface{}) {
	s.diagnostics = append(s.diagnostics, errors.Errorf(format, args...).Error())
}

// Run drives the scheduler for up to maxSteps convergence rounds (spec
// 4.H's four-phase ordering, repeated until nothing is left to do or
// until the wheel runs dry) and returns the number of simulation-time
// advances performed. A runtime fatal (functor iteration limit, more
// than IterationLimit rounds at one simulation time, %vpi_call to an
// undefined task, %disable of an unknown scope) stops the run and is
// returned as an error, per spec 7 kind 4.
func (s *Scheduler) Run(maxSteps int) (int, error) {
	advances, rounds := 0, 0
	for step := 0; step < maxSteps; step++ {
		converged, err := s.drainTimeStep()
		if err != nil {
			return advances, err
		}
		if !converged {
			rounds++
			if s.IterationLimit > 0 && rounds > s.IterationLimit {
				return advances, errors.Errorf("scheduler iteration limit (%d) exceeded at time %d", s.IterationLimit, s.Time)
			}
		} else {
			rounds = 0
			if !s.advance() {
				return advances, nil
			}
			advances++
		}
	}
	return advances, nil
}

// drainTimeStep performs the four phases of spec 4.H once and reports
// whether the current simulation time has converged (nothing left to
// run, settle or write back) and time should advance.
func (s *Scheduler) drainTimeStep() (bool, error) {
	didWork := false

	if len(s.active) > 0 {
		if err := s.runActive(); err != nil {
			return false, err
		}
		didWork = true
	}

	if s.Pool.Pending() {
		if err := s.Pool.Settle(); err != nil {
			return false, errors.Wrap(err, "functor propagation")
		}
		didWork = true
	}

	if len(s.pending) > 0 {
		s.applyAssigns()
		didWork = true
	}

	return !didWork, nil
}

func (s *Scheduler) applyAssigns() {
	batch := s.pending
	s.pending = nil
	for _, pa := range batch {
		if pa.thread.disabled || s.underDisabledScope(pa.thread.Scope) {
			// %disable drops pending non-blocking write-backs originating
			// from threads under the disabled scope (SPEC_FULL open
			// question decision).
			continue
		}
		s.Pool.Set(pa.fnc, pa.v)
	}
}

// advance pops the earliest scheduled time from the wheel, sets Time to
// it, and moves every thread waiting there into the active queue.
// Reports false if the wheel is empty (nothing left to simulate).
func (s *Scheduler) advance() bool {
	if len(s.wheel) == 0 {
		return false
	}
	var next uint64
	first := true
	for t := range s.wheel {
		if first || t < next {
			next = t
			first = false
		}
	}
	threads := s.wheel[next]
	delete(s.wheel, next)
	s.Time = next
	s.active = append(s.active, threads...)
	return true
}

// runActive runs every currently-active thread to its next suspension
// point or termination, draining threads forked or woken mid-drain too,
// matching spec 4.H phase 1 ("run all non-suspended threads until each
// either suspends or ends").
func (s *Scheduler) runActive() error {
	for len(s.active) > 0 {
		t := s.active[0]
		s.active = s.active[1:]
		if t.ended || t.disabled {
			continue
		}
		if s.underDisabledScope(t.Scope) {
			s.retire(t)
			continue
		}
		if err := s.runThread(t); err != nil {
			return err
		}
	}
	return nil
}

// retire force-terminates a thread selected to run under a disabled
// scope, per spec 4.H's %disable cancellation note: "the next time a
// thread under that scope is selected to run, it is retired instead of
// executed".
func (s *Scheduler) retire(t *Thread) {
	t.disabled = true
	s.endThread(t)
}

func (s *Scheduler) endThread(t *Thread) {
	t.ended = true
	if t.Parent != nil {
		t.Parent.liveChildren--
		if t.Parent.waitingJoin && t.Parent.liveChildren <= 0 {
			t.Parent.waitingJoin = false
			s.active = append(s.active, t.Parent)
		}
	}
}

// runThread resumes one thread's interpreter loop until it suspends or
// ends, per spec 5: every instruction but %delay/%wait/%join/%vpi_call
// runs to completion atomically.
func (s *Scheduler) runThread(t *Thread) error {
	for {
		if t.PC < 0 || t.PC >= s.Code.Len() {
			s.errorf("thread %d: PC %d out of code space", t.id, t.PC)
			s.endThread(t)
			return nil
		}
		instr := s.Code.At(t.PC)
		suspend, err := s.exec(t, instr)
		if err != nil {
			return err
		}
		if suspend || t.ended {
			return nil
		}
	}
}

// exec executes one instruction, returning (suspend, error). suspend is
// true when t should stop running for now (it's been requeued
// elsewhere, or it ended).
func (s *Scheduler) exec(t *Thread, in *Instruction) (bool, error) {
	switch in.Op {
	case OpNoop:
		t.PC++
	case OpMov:
		n := int(in.Operands[2].Number)
		src := t.GetBits(int(in.Operands[1].Number), n)
		t.SetBits(int(in.Operands[0].Number), src)
		t.PC++
	case OpSet:
		bit := t.GetBits(int(in.Operands[1].Number), 1)[0]
		s.Pool.Set(in.Operands[0].Func, bit)
		t.PC++
	case OpLoad:
		v := s.Pool.Output(in.Operands[1].Func)
		t.SetBits(int(in.Operands[0].Number), []Bit2{v})
		t.PC++
	case OpAnd, OpOr, OpXor, OpXnor, OpNorR:
		n := int(in.Operands[2].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		b := t.GetBits(int(in.Operands[1].Number), n)
		var res []Bit2
		switch in.Op {
		case OpAnd:
			res = bitwiseN(and2, a, b)
		case OpOr:
			res = bitwiseN(or2, a, b)
		case OpXor:
			res = bitwiseN(xor2, a, b)
		case OpXnor:
			res = bitwiseN(func(x, y Bit2) Bit2 { return xor2(x, y).not() }, a, b)
		case OpNorR:
			res = bitwiseN(func(x, y Bit2) Bit2 { return or2(x, y).not() }, a, b)
		}
		t.SetBits(int(in.Operands[0].Number), res)
		t.PC++
	case OpAdd:
		n := int(in.Operands[2].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		b := t.GetBits(int(in.Operands[1].Number), n)
		t.SetBits(int(in.Operands[0].Number), addN(a, b))
		t.PC++
	case OpInv:
		n := int(in.Operands[1].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		t.SetBits(int(in.Operands[0].Number), invertN(a))
		t.PC++
	case OpCmpU, OpCmpS:
		n := int(in.Operands[2].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		b := t.GetBits(int(in.Operands[1].Number), n)
		lt, eq := cmpOrder(a, b, in.Op == OpCmpS)
		t.setFlag(FlagLT, lt)
		t.setFlag(FlagEQ, eq)
		t.PC++
	case OpCmpX:
		n := int(in.Operands[2].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		b := t.GetBits(int(in.Operands[1].Number), n)
		t.setFlag(FlagEQX, cmpWildcard(a, b, Bx))
		t.PC++
	case OpCmpZ:
		n := int(in.Operands[2].Number)
		a := t.GetBits(int(in.Operands[0].Number), n)
		b := t.GetBits(int(in.Operands[1].Number), n)
		t.setFlag(FlagEQZ, cmpWildcard(a, b, Bz))
		t.PC++
	case OpJmp:
		t.PC = in.Operands[0].Code
	case OpJmp0:
		if t.GetBits(int(in.Operands[1].Number), 1)[0] == B0 {
			t.PC = in.Operands[0].Code
		} else {
			t.PC++
		}
	case OpJmp1:
		if t.GetBits(int(in.Operands[1].Number), 1)[0] == B1 {
			t.PC = in.Operands[0].Code
		} else {
			t.PC++
		}
	case OpJmp0xz:
		v := t.GetBits(int(in.Operands[1].Number), 1)[0]
		if v == B0 || v == Bx || v == Bz {
			t.PC = in.Operands[0].Code
		} else {
			t.PC++
		}
	case OpDelay:
		t.PC++
		s.wheel[s.Time+in.Operands[0].Number] = append(s.wheel[s.Time+in.Operands[0].Number], t)
		return true, nil
	case OpWait:
		t.PC++
		f := s.Pool.At(in.Operands[0].Func)
		if f.Event == nil {
			s.errorf("thread %d: %%wait on a non-event functor", t.id)
			return true, nil
		}
		f.Event.Threads = append(f.Event.Threads, t)
		return true, nil
	case OpAssign:
		v := t.GetBits(int(in.Operands[2].Number), 1)[0]
		s.pending = append(s.pending, pendingAssign{fnc: in.Operands[0].Func, v: v, thread: t})
		t.PC++
	case OpFork:
		t.PC++
		s.Spawn(in.Operands[0].Code, in.Operands[1].Name, t)
	case OpJoin:
		if t.liveChildren > 0 {
			t.waitingJoin = true
			t.PC++
			return true, nil
		}
		t.PC++
	case OpEnd:
		s.endThread(t)
		return true, nil
	case OpVpiCall:
		// Host system-task bodies are out of scope (spec 1); a call to an
		// undefined task is a runtime fatal (spec 7 kind 4).
		if _, ok := s.Symbols.Vpi.Lookup(in.Operands[0].Name); !ok {
			return true, errors.Errorf("%%vpi_call to undefined task %q", in.Operands[0].Name)
		}
		t.PC++
	case OpDisable:
		target := in.Operands[0].Name
		sc, ok := s.scopes[target]
		if !ok {
			return true, errors.Errorf("%%disable of unknown scope %q", target)
		}
		sc.Disabled = true
		s.disabledScopes = append(s.disabledScopes, target)
		s.disableScope(target)
		t.PC++
	default:
		s.errorf("thread %d: unimplemented opcode %v", t.id, in.Op)
		t.PC++
	}
	return false, nil
}

// underDisabledScope reports whether sc is, or descends from, any scope
// named by a prior %disable.
func (s *Scheduler) underDisabledScope(sc *Scope) bool {
	if sc == nil {
		return false
	}
	for _, name := range s.disabledScopes {
		if sc.Under(name) {
			return true
		}
	}
	return false
}

// disableScope removes every thread waiting on an event whose scope is
// name or a descendant from all wait-sets, per spec 4.H's %disable note.
func (s *Scheduler) disableScope(name string) {
	for i := 1; i < s.Pool.Len(); i++ {
		f := &s.Pool.functors[i]
		if f.Event == nil || len(f.Event.Threads) == 0 {
			continue
		}
		kept := f.Event.Threads[:0]
		for _, th := range f.Event.Threads {
			if th.Scope != nil && th.Scope.Under(name) {
				continue
			}
			kept = append(kept, th)
		}
		f.Event.Threads = kept
	}
}
