package vm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xinlnix/iverilog/internal/lex"
)

// ThreadStart records a `.thread start_label` declaration: a program
// counter to spawn a thread at, construction time, per spec 4.F. The
// Assembler only records these — actually creating and scheduling
// Threads is the Scheduler's job (component H), kept decoupled from the
// assembler (component F) per spec 2's component boundaries.
type ThreadStart struct {
	PC int
}

type portFixup struct {
	dst   Ipoint
	label string
	idx   int
}

type codeFixup struct {
	ptr  int
	slot int
	label string
}

// Assembler parses the VM assembly text format (spec 6) into a Pool, a
// CodeSpace and a SymbolTables, resolving the two independent forward-
// reference queues compile.cc keeps (resolv_list_s / cresolv_list_s —
// SUPPLEMENTED FEATURES #4) as the two slices below.
type Assembler struct {
	Pool    *Pool
	Code    *CodeSpace
	Symbols *SymbolTables
	Threads []ThreadStart

	// ModulePath mirrors compile.cc's module_path global. Nothing in the
	// assembler reads it, and no .vpi shared object is ever loaded.
	ModulePath string

	portFixups []portFixup
	codeFixups []codeFixup
	diagnostics []string

	toks lex.Interface
	cur  lex.Item
	buf  []lex.Item
}

// NewAssembler returns an assembler with fresh Pool/CodeSpace/SymbolTables.
func NewAssembler() *Assembler {
	return &Assembler{
		Pool:    NewPool(),
		Code:    NewCodeSpace(),
		Symbols: NewSymbolTables(),
	}
}

// Errors returns the accumulated compile diagnostics.
func (a *Assembler) Errors() []string { return a.diagnostics }

// ErrorCount returns the number of accumulated compile diagnostics —
// spec 6's "compile_errors" exit-code gate.
func (a *Assembler) ErrorCount() int { return len(a.diagnostics) }

func (a *Assembler) errorf(format string, args ...interface{}) {
	a.diagnostics = append(a.diagnostics, errors.Errorf(format, args...).Error())
}

// Assemble parses src and links what it can; call Cleanup afterwards to
// resolve deferred forward references.
func (a *Assembler) Assemble(src string) {
	a.toks = asmLexer(src)
	for {
		a.skipSeparators()
		if a.peekType() == lex.EOF {
			return
		}
		a.statement()
	}
}

// --- token stream helpers -------------------------------------------

func (a *Assembler) fill(n int) {
	for len(a.buf) <= n {
		a.buf = append(a.buf, a.toks.Lex())
	}
}

func (a *Assembler) next() lex.Item {
	a.fill(0)
	it := a.buf[0]
	a.buf = a.buf[1:]
	a.cur = it
	return it
}

// peekAt returns the token n positions ahead without consuming it
// (peekAt(0) is the same as peek()).
func (a *Assembler) peekAt(n int) lex.Item {
	a.fill(n)
	return a.buf[n]
}

func (a *Assembler) peek() lex.Item { return a.peekAt(0) }

func (a *Assembler) peekType() lex.Type { return a.peek().Type }

func (a *Assembler) skipSeparators() {
	for a.peekType() == tNewline || a.peekType() == tSemi {
		a.next()
	}
}

func (a *Assembler) atStmtEnd() bool {
	t := a.peekType()
	return t == tNewline || t == tSemi || t == lex.EOF
}

func wordValue(it lex.Item) string {
	s, _ := it.Value.(string)
	return s
}

// --- statement dispatch ----------------------------------------------

func (a *Assembler) statement() {
	if a.peekType() == tColon {
		a.next()
		a.headerDirective()
		return
	}
	tok := a.next()
	if tok.Type != tWord {
		a.errorf("unexpected token %q", tok.String())
		a.skipToStmtEnd()
		return
	}
	word := wordValue(tok)
	switch {
	case strings.HasPrefix(word, "."):
		a.declDirective("", word)
	case strings.HasPrefix(word, "%"):
		a.instruction("", word)
	default:
		// word is a bare identifier: either a declaration label
		// ("label .functor ...", no colon) or a code label
		// ("label: mnemonic ...", or a bare "label:").
		label := word
		switch a.peekType() {
		case tColon:
			a.next()
			if a.atStmtEnd() {
				// bare label: just mark the next codespace slot.
				if err := a.Symbols.Code.Insert(label, a.Code.Next()); err != nil {
					a.errorf("%s", err)
				}
				return
			}
			mnem := a.next()
			if mnem.Type != tWord || !strings.HasPrefix(wordValue(mnem), "%") {
				a.errorf("expected instruction after label %q:", label)
				a.skipToStmtEnd()
				return
			}
			a.instruction(label, wordValue(mnem))
		case tWord:
			dir := a.peek()
			if strings.HasPrefix(wordValue(dir), ".") {
				a.next()
				a.declDirective(label, wordValue(dir))
				return
			}
			a.errorf("expected ':' or a declaration after %q", label)
			a.skipToStmtEnd()
		default:
			a.errorf("expected ':' or a declaration after %q", label)
			a.skipToStmtEnd()
		}
	}
}

func (a *Assembler) skipToStmtEnd() {
	for !a.atStmtEnd() {
		a.next()
	}
}

// --- header directives (:module / :vpi_module) ------------------------

func (a *Assembler) headerDirective() {
	name := a.next()
	if name.Type != tWord {
		a.errorf("expected header directive name after ':'")
		a.skipToStmtEnd()
		return
	}
	arg := a.next()
	if arg.Type != tString {
		a.errorf("expected string operand after :%s", wordValue(name))
		a.skipToStmtEnd()
		return
	}
	switch wordValue(name) {
	case "module":
		// compile_load_vpi_module — loading a real .vpi shared object is
		// out of scope (spec 1); the module name is accepted and not
		// recorded.
		_ = arg.Value.(string)
	case "vpi_module":
		_ = a.Symbols.Vpi.Insert(arg.Value.(string), VpiHandle{Name: arg.Value.(string)})
	default:
		a.errorf("unknown header directive %q", wordValue(name))
	}
}

// --- declarations (.functor/.event/.event-or/.var/.net/.thread) ------

type funcRef struct {
	label string
	idx   int
}

func (a *Assembler) parseFuncRefList() []funcRef {
	var refs []funcRef
	for {
		if a.atStmtEnd() {
			break
		}
		tok := a.next()
		if tok.Type != tWord {
			a.errorf("expected functor reference, got %q", tok.String())
			break
		}
		fr := funcRef{label: wordValue(tok)}
		if a.peekType() == tLBracket {
			a.next()
			n := a.next()
			if n.Type != tNumber {
				a.errorf("expected bit index after '['")
			} else {
				fr.idx = int(n.Value.(uint64))
			}
			if a.peekType() == tRBracket {
				a.next()
			}
		}
		refs = append(refs, fr)
		if a.peekType() == tComma {
			a.next()
			continue
		}
		break
	}
	return refs
}

func (a *Assembler) expectComma() {
	if a.peekType() == tComma {
		a.next()
	}
}

func (a *Assembler) declDirective(label, dir string) {
	switch dir {
	case ".functor":
		a.compileFunctor(label)
	case ".event":
		a.compileEvent(label)
	case ".event/or":
		a.compileEventOr(label)
	case ".var":
		a.compileVar(label, false)
	case ".var/s":
		a.compileVar(label, true)
	case ".net":
		a.compileNet(label, false)
	case ".net/s":
		a.compileNet(label, true)
	case ".thread":
		a.compileThread()
	default:
		a.errorf("unknown declaration %q", dir)
		a.skipToStmtEnd()
	}
}

func (a *Assembler) wireFunctorInputs(base Ipoint, refs []funcRef) {
	for idx, fr := range refs {
		if idx >= 4 {
			a.errorf("functor @%d: at most 4 inputs allowed (spec 9 open question)", base.Base())
			break
		}
		dst := MakeIpoint(base.Base(), idx)
		if baseVal, ok := a.Symbols.Functors.Lookup(fr.label); ok {
			srcBase := baseVal.(Ipoint)
			a.Pool.Link(srcBase.Index(fr.idx), dst)
		} else {
			a.portFixups = append(a.portFixups, portFixup{dst: dst, label: fr.label, idx: fr.idx})
		}
	}
}

func (a *Assembler) compileFunctor(lbl string) {
	typ := a.next()
	if typ.Type != tWord {
		a.errorf(".functor: expected type")
		a.skipToStmtEnd()
		return
	}
	a.expectComma()
	initTok := a.next()
	var init uint64
	if initTok.Type == tNumber {
		init = initTok.Value.(uint64)
	} else {
		a.errorf(".functor: expected init value")
	}
	var refs []funcRef
	if a.peekType() == tComma {
		a.next()
		refs = a.parseFuncRefList()
	}
	table, ok := TableByName(wordValue(typ))
	if !ok {
		a.errorf(".functor %s: invalid functor type %q", lbl, wordValue(typ))
		return
	}
	base := a.Pool.Allocate(1)
	if err := a.Symbols.Functors.Insert(lbl, base); err != nil {
		a.errorf("%s", err)
	}
	f := a.Pool.At(base)
	f.Mode = ModeComb
	f.Table = table
	f.Ival = byte(init)
	f.Oval = table[byte(init)]
	a.wireFunctorInputs(base, refs)
}

func edgeKindFromString(s string) EdgeKind {
	switch s {
	case "posedge":
		return EdgePos
	case "negedge":
		return EdgeNeg
	case "edge":
		return EdgeAny
	default:
		return EdgeNone
	}
}

func (a *Assembler) compileEvent(lbl string) {
	typ := a.next()
	if typ.Type != tWord {
		a.errorf(".event: expected edge type")
		a.skipToStmtEnd()
		return
	}
	var refs []funcRef
	if a.peekType() == tComma {
		a.next()
		refs = a.parseFuncRefList()
	}
	base := a.Pool.Allocate(1)
	if err := a.Symbols.Functors.Insert(lbl, base); err != nil {
		a.errorf("%s", err)
	}
	f := a.Pool.At(base)
	f.Mode = ModeEdge
	f.Ival = 0xaa
	f.Oval = Bx
	f.Event = &Event{Edge: edgeKindFromString(wordValue(typ)), Ival: 0xaa}
	a.wireFunctorInputs(base, refs)
}

func (a *Assembler) compileEventOr(lbl string) {
	refs := a.parseFuncRefList()
	base := a.Pool.Allocate(1)
	if err := a.Symbols.Functors.Insert(lbl, base); err != nil {
		a.errorf("%s", err)
	}
	f := a.Pool.At(base)
	f.Mode = ModeNamedEvent
	f.Ival = 0xaa
	f.Oval = Bx
	f.Event = &Event{Ival: 0xaa}
	for _, fr := range refs {
		// .event/or's sources must already be defined — compile.cc
		// asserts this rather than deferring, since named events are
		// always declared before anything that merges them.
		baseVal, ok := a.Symbols.Functors.Lookup(fr.label)
		if !ok {
			a.errorf(".event/or %s: undefined event source %q", lbl, fr.label)
			continue
		}
		srcBase := baseVal.(Ipoint)
		a.Pool.Link(srcBase.Index(fr.idx), MakeIpoint(base.Base(), 0))
	}
}

func parseBusRange(a *Assembler) (name string, msb, lsb int, signed bool, ok bool) {
	nameTok := a.next()
	if nameTok.Type != tString && nameTok.Type != tWord {
		a.errorf("expected net name")
		return "", 0, 0, false, false
	}
	if s, isStr := nameTok.Value.(string); isStr {
		name = s
	} else {
		name = wordValue(nameTok)
	}
	a.expectComma()
	m := a.next()
	a.expectComma()
	l := a.next()
	if m.Type != tNumber || l.Type != tNumber {
		a.errorf("expected numeric msb,lsb")
		return name, 0, 0, false, false
	}
	// optional inline "[,signed]" marker, as distinct from the ".var/s"
	// / ".net/s" directive spelling and from a following ".net" src
	// list (which also starts with a comma) — only consume the comma
	// when the word right after it is literally "signed".
	if a.peekType() == tComma && wordValue(a.peekAt(1)) == "signed" {
		a.next()
		a.next()
		signed = true
	}
	return name, int(m.Value.(uint64)), int(l.Value.(uint64)), signed, true
}

func (a *Assembler) compileVar(lbl string, signed bool) {
	name, msb, lsb, inlineSigned, ok := parseBusRange(a)
	if !ok {
		a.skipToStmtEnd()
		return
	}
	signed = signed || inlineSigned
	wid := width(msb, lsb)
	base := a.Pool.Allocate(wid)
	if err := a.Symbols.Functors.Insert(lbl, base); err != nil {
		a.errorf("%s", err)
	}
	for i := 0; i < wid; i++ {
		f := a.Pool.At(base.Index(i))
		f.Mode = ModeComb
		f.Table = TableVAR
		f.Ival = 0x22
		f.Oval = TableVAR[0x22]
	}
	_ = a.Symbols.Vpi.Insert(lbl, VpiHandle{Name: name, Signed: signed, MSB: msb, LSB: lsb})
}

func width(msb, lsb int) int {
	if msb > lsb {
		return msb - lsb + 1
	}
	return lsb - msb + 1
}

func (a *Assembler) compileNet(lbl string, signed bool) {
	name, msb, lsb, inlineSigned, ok := parseBusRange(a)
	if !ok {
		a.skipToStmtEnd()
		return
	}
	signed = signed || inlineSigned
	wid := width(msb, lsb)
	var refs []funcRef
	if a.peekType() == tComma {
		a.next()
		refs = a.parseFuncRefList()
	}
	base := a.Pool.Allocate(wid)
	if err := a.Symbols.Functors.Insert(lbl, base); err != nil {
		a.errorf("%s", err)
	}
	for i := 0; i < wid; i++ {
		f := a.Pool.At(base.Index(i))
		f.Mode = ModeComb
		f.Table = TableVAR
		f.Ival = 0x22
		f.Oval = TableVAR[0x22]
	}
	for i := 0; i < wid && i < len(refs); i++ {
		dst := base.Index(i)
		fr := refs[i]
		if baseVal, ok := a.Symbols.Functors.Lookup(fr.label); ok {
			srcBase := baseVal.(Ipoint)
			a.Pool.Link(srcBase.Index(fr.idx), dst)
		} else {
			a.portFixups = append(a.portFixups, portFixup{dst: dst, label: fr.label, idx: fr.idx})
		}
	}
	_ = a.Symbols.Vpi.Insert(lbl, VpiHandle{Name: name, Signed: signed, MSB: msb, LSB: lsb})
}

func (a *Assembler) compileThread() {
	startTok := a.next()
	if startTok.Type != tWord {
		a.errorf(".thread: expected start label")
		return
	}
	label := wordValue(startTok)
	v, ok := a.Symbols.Code.Lookup(label)
	if !ok {
		a.errorf(".thread: unresolved address %q", label)
		return
	}
	a.Threads = append(a.Threads, ThreadStart{PC: v.(int)})
}

// --- instructions ------------------------------------------------------

type rawOperand struct {
	tok lex.Item
}

func (a *Assembler) parseOperandList() []rawOperand {
	var ops []rawOperand
	for {
		if a.atStmtEnd() {
			break
		}
		ops = append(ops, rawOperand{tok: a.next()})
		if a.peekType() == tLBracket {
			// functor reference f[idx]: fold into one operand by
			// re-reading the bracketed index now.
			a.next()
			idxTok := a.next()
			if a.peekType() == tRBracket {
				a.next()
			}
			ops[len(ops)-1].tok.Value = fmt.Sprintf("%s[%d]", wordValue(ops[len(ops)-1].tok), idxTok.Value)
		}
		if a.peekType() == tComma {
			a.next()
			continue
		}
		break
	}
	return ops
}

func splitFuncRef(s string) (label string, idx int) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		return s, 0
	}
	var n int
	fmt.Sscanf(s[i+1:], "%d", &n)
	return s[:i], n
}

func (a *Assembler) instruction(lbl, mnem string) {
	ptr := a.Code.Allocate()
	if lbl != "" {
		if err := a.Symbols.Code.Insert(lbl, ptr); err != nil {
			a.errorf("%s", err)
		}
	}
	entry, ok := lookupOpcode(mnem)
	if !ok {
		a.errorf("invalid opcode %q", mnem)
		a.skipToStmtEnd()
		return
	}
	ops := a.parseOperandList()
	if len(ops) != entry.argc {
		a.errorf("%s: expected %d operand(s), got %d", mnem, entry.argc, len(ops))
		return
	}
	instr := a.Code.At(ptr)
	instr.Op = entry.op
	instr.Mnemonic = mnem
	instr.Argc = entry.argc
	for i := 0; i < entry.argc; i++ {
		kind := entry.argt[i]
		instr.Operands[i].Kind = kind
		switch kind {
		case OANumber, OABit1, OABit2:
			n, isNum := ops[i].tok.Value.(uint64)
			if !isNum {
				a.errorf("%s: operand %d must be numeric", mnem, i)
				continue
			}
			instr.Operands[i].Number = n
		case OACodePtr:
			lab := wordValue(ops[i].tok)
			if v, ok := a.Symbols.Code.Lookup(lab); ok {
				instr.Operands[i].Code = v.(int)
			} else {
				a.codeFixups = append(a.codeFixups, codeFixup{ptr: ptr, slot: i, label: lab})
			}
		case OAFuncPtr:
			fname, idx := splitFuncRef(wordValue(ops[i].tok))
			v, ok := a.Symbols.Functors.Lookup(fname)
			if !ok {
				a.errorf("%s: functor %q undefined", mnem, fname)
				continue
			}
			instr.Operands[i].Func = v.(Ipoint).Index(idx)
		case OAScope:
			instr.Operands[i].Name = wordValue(ops[i].tok)
		case OAVpiHandle:
			s, _ := ops[i].tok.Value.(string)
			if s == "" {
				s = wordValue(ops[i].tok)
			}
			instr.Operands[i].Name = s
		}
	}
}

// Cleanup resolves the two deferred fixup queues to a fixed point,
// reporting residual entries as diagnostics (spec 4.F/8 S5):
// compile.cc's compile_cleanup.
func (a *Assembler) Cleanup() {
	var remaining []portFixup
	for _, fx := range a.portFixups {
		if baseVal, ok := a.Symbols.Functors.Lookup(fx.label); ok {
			srcBase := baseVal.(Ipoint)
			a.Pool.Link(srcBase.Index(fx.idx), fx.dst)
		} else {
			remaining = append(remaining, fx)
		}
	}
	a.portFixups = remaining
	for _, fx := range a.portFixups {
		a.errorf("unresolved functor source: %q", fx.label)
	}

	var remainingCode []codeFixup
	for _, fx := range a.codeFixups {
		if v, ok := a.Symbols.Code.Lookup(fx.label); ok {
			a.Code.At(fx.ptr).Operands[fx.slot].Code = v.(int)
		} else {
			remainingCode = append(remainingCode, fx)
		}
	}
	a.codeFixups = remainingCode
	for _, fx := range a.codeFixups {
		a.errorf("unresolved code label: %q", fx.label)
	}
}

// Dump renders the functor symbol table, code symbol table and a
// disassembly of the code space, grounded on compile.cc's compile_dump.
func (a *Assembler) Dump() string {
	var b strings.Builder
	b.WriteString("FUNCTOR SYMBOL TABLE:\n")
	b.WriteString(a.Symbols.Functors.Dump())
	b.WriteString("CODE SPACE SYMBOL TABLE:\n")
	b.WriteString(a.Symbols.Code.Dump())
	b.WriteString("CODE SPACE DISASSEMBLY:\n")
	for i := 0; i < a.Code.Len(); i++ {
		instr := a.Code.At(i)
		fmt.Fprintf(&b, "%4d: %s\n", i, instr.Mnemonic)
	}
	return b.String()
}
