package netlist

import "github.com/pkg/errors"

// Emitter is the netlist boundary consumed by back ends (structural
// printers, synthesis targets, the VM assembler's front end). For each
// node type a visitor hook taking the node and the target sink is
// invoked; a target that omits a hook for a node kind present in the
// design gets a link-time-shaped error back from emitNode rather than a
// silent skip, per spec 6 ("omission is a link-time error").
//
// Grounded on netlist.h's NetNode::emit_node(ostream&, target_t*)
// virtual dispatch, translated to a Go visitor interface per spec 9's
// "emitters form a capability trait with one method per variant" note.
type Emitter interface {
	EmitSignal(*Signal) error
	EmitLogicGate(*LogicGate) error
	EmitLPMAdd(*LPMAdd) error
	EmitLPMCompare(*LPMCompare) error
	EmitLPMMux(*LPMMux) error
	EmitLPMShift(*LPMShift) error
	EmitFF(*FF) error
	EmitRamDq(*RamDq) error
	EmitUDPNode(*UDPNode) error
}

// emitNode dispatches n to the Emitter method matching its concrete
// kind.
func emitNode(e Emitter, n Node) error {
	switch v := n.(type) {
	case *LogicGate:
		return e.EmitLogicGate(v)
	case *LPMAdd:
		return e.EmitLPMAdd(v)
	case *LPMCompare:
		return e.EmitLPMCompare(v)
	case *LPMMux:
		return e.EmitLPMMux(v)
	case *LPMShift:
		return e.EmitLPMShift(v)
	case *FF:
		return e.EmitFF(v)
	case *RamDq:
		return e.EmitRamDq(v)
	case *UDPNode:
		return e.EmitUDPNode(v)
	default:
		return errors.Errorf("emit: no visitor hook for node kind %T", n)
	}
}
