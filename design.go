package netlist

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrorKind classifies a diagnostic recorded on a Design, per spec 7.
type ErrorKind int

const (
	ErrWidth ErrorKind = iota
	ErrParamCycle
	ErrDupScope
	ErrUnresolvedParam
	ErrDivByZeroConst
)

// Diagnostic is one semantic (elaboration-time) error recorded on a
// Design. Parsing continues after one is recorded; emission is refused
// once any are present (spec 4.D, 7).
type Diagnostic struct {
	Kind    ErrorKind
	Message string
}

// Design is the top-level registry of scopes, signals, nodes, processes,
// memories, functions, and tasks, plus a flags map the driver populates.
// It is the single owning container for a fully elaborated design
// (spec 4.D; "a single owning Runtime value" per spec 9's design note).
type Design struct {
	Root *Scope

	signals []*Signal
	nodes   []Node
	procs   []*ProcessTop
	scopes  map[string]*Scope
	memories map[string]*Memory
	funcs   map[string]*ProcessTop
	tasks   map[string]*SUserTaskCall
	params  map[string]Expr
	Flags   map[string]string

	diags []Diagnostic

	wireNum int
}

// NewDesign creates an empty design rooted at a module scope named
// rootName.
func NewDesign(rootName string) *Design {
	root := NewScope(nil, ScopeModule, rootName)
	d := &Design{
		Root:     root,
		scopes:   map[string]*Scope{root.Path(): root},
		memories: map[string]*Memory{},
		funcs:    map[string]*ProcessTop{},
		tasks:    map[string]*SUserTaskCall{},
		params:   map[string]Expr{},
		Flags:    map[string]string{},
	}
	return d
}

// AddSignal registers a signal in the design's flat signal list (in
// addition to its scope's own list, which the caller is responsible for
// populating via Scope.AddSignal).
func (d *Design) AddSignal(s *Signal) { d.signals = append(d.signals, s) }

// Signals returns every signal registered in the design.
func (d *Design) Signals() []*Signal { return d.signals }

// AddNode registers a node in the design's flat node list.
func (d *Design) AddNode(n Node) { d.nodes = append(d.nodes, n) }

// Nodes returns every node registered in the design.
func (d *Design) Nodes() []Node { return d.nodes }

// AddProcess registers a top-level initial/always process.
func (d *Design) AddProcess(p *ProcessTop) { d.procs = append(d.procs, p) }

// Processes returns every top-level process registered in the design.
func (d *Design) Processes() []*ProcessTop { return d.procs }

// AddScope registers a scope under its fully-qualified path so FindScope
// can resolve it in O(1).
func (d *Design) AddScope(s *Scope) { d.scopes[s.Path()] = s }

// FindScope resolves a fully-qualified scope path.
func (d *Design) FindScope(path string) *Scope { return d.scopes[path] }

// AddMemory registers a named memory.
func (d *Design) AddMemory(m *Memory) { d.memories[m.Name] = m }

// FindMemory looks up a memory by name.
func (d *Design) FindMemory(name string) *Memory { return d.memories[name] }

// SetParam registers a parameter's resolved value.
func (d *Design) SetParam(name string, e Expr) { d.params[name] = e }

// FindParam looks up a parameter's resolved value.
func (d *Design) FindParam(name string) (Expr, bool) { e, ok := d.params[name]; return e, ok }

// AllocWireName returns the next synthetic internal wire name
// ("__0", "__1", ...), grounded on the teacher's wiring.go wireNum
// counter used when synthesizing intermediate nets.
func (d *Design) AllocWireName() string {
	n := d.wireNum
	d.wireNum++
	return "__" + strconv.Itoa(n)
}

// AddError records a semantic diagnostic and increments the error
// counter. Per spec 4.C/7, recording an error prevents emission but
// never aborts elaboration itself — the caller keeps checking.
func (d *Design) AddError(kind ErrorKind, msg string) {
	d.diags = append(d.diags, Diagnostic{Kind: kind, Message: msg})
}

// Errors returns the accumulated diagnostics.
func (d *Design) Errors() []Diagnostic { return d.diags }

// ErrorCount returns the number of accumulated diagnostics.
func (d *Design) ErrorCount() int { return len(d.diags) }

// ClearMarks clears the mark bit on every signal and node.
func (d *Design) ClearMarks() {
	for _, s := range d.signals {
		s.SetMark(false)
	}
	for _, n := range d.nodes {
		n.Object().SetMark(false)
	}
}

// Functor visits every node exactly once, letting optimisation passes
// rewrite the graph in place (spec 4.D). The mark bit guards against
// visiting a node twice when it appears more than once in d.nodes.
func (d *Design) Functor(cb func(Node)) {
	d.ClearMarks()
	// snapshot the slice: cb may append new nodes, which must not be
	// visited in this pass (spec 4.D only promises visiting each
	// *existing* node exactly once).
	nodes := make([]Node, len(d.nodes))
	copy(nodes, d.nodes)
	for _, n := range nodes {
		if n.Object().TestMark() {
			continue
		}
		n.Object().SetMark(true)
		cb(n)
	}
}

// Emit walks every node and signal through an Emitter. It is a guarded
// iteration: if the design has any recorded errors, emission is refused,
// per spec 4.D/7.
func (d *Design) Emit(e Emitter) error {
	if d.ErrorCount() > 0 {
		return errors.Errorf("emit refused: %d pending error(s)", d.ErrorCount())
	}
	for _, s := range d.signals {
		if err := e.EmitSignal(s); err != nil {
			return errors.Wrap(err, "emit signal "+s.Name())
		}
	}
	for _, n := range d.nodes {
		if err := emitNode(e, n); err != nil {
			return errors.Wrap(err, "emit node "+n.Object().Name())
		}
	}
	return nil
}
