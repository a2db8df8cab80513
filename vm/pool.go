package vm

import "github.com/pkg/errors"

// DefaultIterationLimit bounds how many worklist drains Settle performs
// before giving up on reaching a fixed point, per spec 4.H/7 ("oscillation
// that never reaches a fixed point is diagnosed by a configurable
// iteration bound").
const DefaultIterationLimit = 10000

type update struct {
	ip  Ipoint
	val Bit2
}

// Pool is the functor graph: a contiguous slab of Functor values
// addressed by Ipoint, plus the worklist of pending propagations.
// Slot 0 is reserved (NilIpoint never addresses a real functor).
// Grounded on compile.cc's functor_allocate/functor_index and the
// module-wide functor array it backs.
type Pool struct {
	functors       []Functor
	pending        []update
	IterationLimit int

	// onWake is invoked for every thread an event wakes; set by the
	// owning Scheduler so Pool stays ignorant of thread scheduling.
	onWake func(*Thread)
}

// NewPool returns an empty functor pool.
func NewPool() *Pool {
	return &Pool{functors: make([]Functor, 1), IterationLimit: DefaultIterationLimit}
}

// Allocate reserves n contiguously-addressed functor slots and returns
// the Ipoint (port 0) of the first one. Grounded on functor_allocate.
func (p *Pool) Allocate(n int) Ipoint {
	base := uint32(len(p.functors))
	p.functors = append(p.functors, make([]Functor, n)...)
	return MakeIpoint(base, 0)
}

// At returns the functor addressed by ip's base slot (its port is
// ignored — callers that need a specific port use Set/Get).
func (p *Pool) At(ip Ipoint) *Functor { return &p.functors[ip.Base()] }

// Len reports the number of allocated functor slots, including the
// reserved slot 0.
func (p *Pool) Len() int { return len(p.functors) }

// Link threads dst (an input port Ipoint) into the fan-out chain headed
// by src's Out field, per compile.cc's compile_functor wiring idiom:
// the new destination is pushed onto the front of the chain.
func (p *Pool) Link(src, dst Ipoint) {
	srcF := p.At(src)
	dstF := p.At(dst)
	dstF.Port[dst.Port()] = srcF.Out
	srcF.Out = dst
}

// FanoutLen counts how many destinations src's Out chain reaches,
// walking the chain once (used by tests to check wiring, per spec 8 S4).
func (p *Pool) FanoutLen(src Ipoint) int {
	n := 0
	for cur := p.At(src).Out; cur.Valid(); {
		n++
		dest := p.At(cur)
		cur = dest.Port[cur.Port()]
	}
	return n
}

// Pending reports whether any propagation is queued, so a caller driving
// the discrete-event loop (the Scheduler) can tell when this portion of a
// time step has converged.
func (p *Pool) Pending() bool { return len(p.pending) > 0 }

// Get returns the current value of input port ip.
func (p *Pool) Get(ip Ipoint) Bit2 {
	f := p.At(ip)
	return unpackPort(f.Ival, ip.Port())
}

// Output returns the current output value of the functor at base (port
// bits of ip are ignored).
func (p *Pool) Output(ip Ipoint) Bit2 { return p.At(ip).Oval }

// Set writes v into input port ip, re-evaluating or testing for an edge
// as the functor's Mode dictates, and enqueues any resulting output
// change for propagation. It backs the %set instruction, Settle's
// worklist propagation and the scheduler's %assign write-backs;
// structural wiring goes through Link instead.
func (p *Pool) Set(ip Ipoint, v Bit2) {
	f := p.At(ip)
	port := ip.Port()
	switch f.Mode {
	case ModeComb:
		old := unpackPort(f.Ival, port)
		if old == v {
			return
		}
		f.Ival = packPort(f.Ival, port, v)
		nv := f.eval()
		if nv != f.Oval {
			f.Oval = nv
			p.enqueueFanout(f.Out, nv)
		}
	case ModeEdge:
		prev := unpackPort(f.Ival, 0)
		if prev == v {
			return
		}
		f.Ival = packPort(f.Ival, 0, v)
		f.Oval = v
		if f.Event.fires(prev, v) {
			f.Event.Ival = f.Ival
			p.wake(f.Event)
		}
		p.enqueueFanout(f.Out, v)
	case ModeNamedEvent:
		f.Ival = packPort(f.Ival, 0, v)
		f.Oval = v
		p.wake(f.Event)
		p.enqueueFanout(f.Out, v)
	}
}

func (p *Pool) enqueueFanout(out Ipoint, v Bit2) {
	for cur := out; cur.Valid(); {
		dest := p.At(cur)
		port := cur.Port()
		next := dest.Port[port]
		p.pending = append(p.pending, update{ip: MakeIpoint(cur.Base(), port), val: v})
		cur = next
	}
}

func (p *Pool) wake(e *Event) {
	threads := e.Threads
	e.Threads = nil
	for _, t := range threads {
		if p.onWake != nil {
			p.onWake(t)
		}
	}
}

// Settle drains the propagation worklist to a fixed point, per spec
// 4.H/5: "functor propagation is fully evaluated to a fixed point within
// a time step before the next step begins". Returns an error (a runtime
// fatal per spec 7) if the iteration bound is exceeded.
func (p *Pool) Settle() error {
	limit := p.IterationLimit
	if limit <= 0 {
		limit = DefaultIterationLimit
	}
	for n := 0; len(p.pending) > 0; n++ {
		if n > limit {
			p.pending = nil
			return errors.Errorf("functor iteration limit (%d) exceeded without reaching a fixed point", limit)
		}
		batch := p.pending
		p.pending = nil
		for _, u := range batch {
			p.Set(u.ip, u.val)
		}
	}
	return nil
}
