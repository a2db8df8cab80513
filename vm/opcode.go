package vm

import "sort"

// Op identifies an instruction's operation, independent of its textual
// mnemonic.
type Op byte

const (
	OpNoop Op = iota
	OpMov
	OpSet
	OpLoad
	OpAnd
	OpOr
	OpXor
	OpXnor
	OpNorR
	OpAdd
	OpInv
	OpCmpU
	OpCmpS
	OpCmpX
	OpCmpZ
	OpJmp
	OpJmp0
	OpJmp1
	OpJmp0xz
	OpDelay
	OpWait
	OpAssign
	OpFork
	OpJoin
	OpEnd
	OpVpiCall
	OpDisable
)

// OperandKind classifies one operand slot of an instruction record, per
// spec 3/4.F and compile.cc's enum operand_e.
type OperandKind byte

const (
	OANone OperandKind = iota
	// OANumber is an unsigned immediate.
	OANumber
	// OABit1 and OABit2 are indices into a thread's local bit-vector
	// storage.
	OABit1
	OABit2
	// OACodePtr is an index into the code space.
	OACodePtr
	// OAFuncPtr is a functor Ipoint.
	OAFuncPtr
	// OAScope names a scope, for %fork/%disable.
	OAScope
	// OAVpiHandle names a registered VPI task, for %vpi_call.
	OAVpiHandle
)

// OperandMax is the largest operand count any instruction takes.
const OperandMax = 3

type opcodeEntry struct {
	mnemonic string
	op       Op
	argc     int
	argt     [OperandMax]OperandKind
}

// opcodeTable lists every mnemonic along with its expected operand
// shape, sorted by mnemonic so it can be searched by binary search —
// carried over field-for-field from compile.cc's opcode_table_s/
// opcode_compare (spec 4.F, SUPPLEMENTED FEATURES #3).
var opcodeTable = buildOpcodeTable([]opcodeEntry{
	{"%add", OpAdd, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%and", OpAnd, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%assign", OpAssign, 3, [3]OperandKind{OAFuncPtr, OABit1, OABit2}},
	{"%cmp/s", OpCmpS, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%cmp/u", OpCmpU, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%cmp/x", OpCmpX, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%cmp/z", OpCmpZ, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%delay", OpDelay, 1, [3]OperandKind{OANumber, OANone, OANone}},
	{"%disable", OpDisable, 1, [3]OperandKind{OAScope, OANone, OANone}},
	{"%end", OpEnd, 0, [3]OperandKind{OANone, OANone, OANone}},
	{"%fork", OpFork, 2, [3]OperandKind{OACodePtr, OAScope, OANone}},
	{"%inv", OpInv, 2, [3]OperandKind{OABit1, OABit2, OANone}},
	{"%jmp", OpJmp, 1, [3]OperandKind{OACodePtr, OANone, OANone}},
	{"%jmp/0", OpJmp0, 2, [3]OperandKind{OACodePtr, OABit1, OANone}},
	{"%jmp/0xz", OpJmp0xz, 2, [3]OperandKind{OACodePtr, OABit1, OANone}},
	{"%jmp/1", OpJmp1, 2, [3]OperandKind{OACodePtr, OABit1, OANone}},
	{"%join", OpJoin, 0, [3]OperandKind{OANone, OANone, OANone}},
	{"%load", OpLoad, 2, [3]OperandKind{OABit1, OAFuncPtr, OANone}},
	{"%mov", OpMov, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%noop", OpNoop, 0, [3]OperandKind{OANone, OANone, OANone}},
	{"%nor/r", OpNorR, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%or", OpOr, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%set", OpSet, 2, [3]OperandKind{OAFuncPtr, OABit1, OANone}},
	{"%vpi_call", OpVpiCall, 1, [3]OperandKind{OAVpiHandle, OANone, OANone}},
	{"%wait", OpWait, 1, [3]OperandKind{OAFuncPtr, OANone, OANone}},
	{"%xnor", OpXnor, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
	{"%xor", OpXor, 3, [3]OperandKind{OABit1, OABit2, OANumber}},
})

func buildOpcodeTable(entries []opcodeEntry) []opcodeEntry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].mnemonic < entries[j].mnemonic })
	return entries
}

// lookupOpcode binary-searches opcodeTable by mnemonic, mirroring
// compile.cc's bsearch(mnem, opcode_table, ..., opcode_compare).
func lookupOpcode(mnemonic string) (opcodeEntry, bool) {
	i := sort.Search(len(opcodeTable), func(i int) bool {
		return opcodeTable[i].mnemonic >= mnemonic
	})
	if i < len(opcodeTable) && opcodeTable[i].mnemonic == mnemonic {
		return opcodeTable[i], true
	}
	return opcodeEntry{}, false
}

// Operand is one resolved or pending operand of an Instruction.
type Operand struct {
	Kind   OperandKind
	Number uint64
	Code   int    // code-space index (OACodePtr)
	Func   Ipoint // OAFuncPtr
	Name   string // OAScope / OAVpiHandle
}

// Instruction is one packed instruction record living in the code
// space; a code pointer is simply its index there.
type Instruction struct {
	Op       Op
	Mnemonic string
	Operands [OperandMax]Operand
	Argc     int
}
