package vm

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SymbolTable is one of the assembler's three independent string-keyed
// namespaces (spec 4.G): functor names, code labels, or VPI names. Each
// supports insert (configurably last-wins or duplicate-error), lookup
// (a zero/ok-false miss), and a debug dump, grounded on compile.cc's
// three symbol_table_t globals.
type SymbolTable struct {
	kind     string
	entries  map[string]interface{}
	dupError bool
}

func newSymbolTable(kind string, dupError bool) *SymbolTable {
	return &SymbolTable{kind: kind, entries: map[string]interface{}{}, dupError: dupError}
}

// Insert adds label -> val. If the table is configured to reject
// duplicates and label is already present, it returns an error instead
// of overwriting (the "functor redefinition" diagnostic of spec 6/7);
// otherwise a later Insert silently wins, as VPI registrations do.
func (t *SymbolTable) Insert(label string, val interface{}) error {
	if _, exists := t.entries[label]; exists && t.dupError {
		return errors.Errorf("%s: %q redefined", t.kind, label)
	}
	t.entries[label] = val
	return nil
}

// Lookup returns the value for label and whether it was found — a miss
// returns (nil, false), the "zero/null sentinel" of spec 4.G.
func (t *SymbolTable) Lookup(label string) (interface{}, bool) {
	v, ok := t.entries[label]
	return v, ok
}

// Dump renders every entry, sorted by label, one per line.
func (t *SymbolTable) Dump() string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("\n")
	}
	return b.String()
}

// VpiHandle is the opaque handle the VPI symbol table maps names to.
// The actual system-task implementations are out of scope (spec 1); this
// is just enough to link %vpi_call operands and :vpi_module
// registrations to a name.
type VpiHandle struct {
	Name     string
	Signed   bool
	MSB, LSB int
}

// SymbolTables bundles the three namespaces an Assembler resolves
// against: functor names to functor base Ipoints, code labels to code
// pointers, and VPI names to handles.
type SymbolTables struct {
	Functors *SymbolTable
	Code     *SymbolTable
	Vpi      *SymbolTable
}

// NewSymbolTables returns a fresh set of namespaces, with the VPI table
// pre-seeded with "$time" — compile.cc's compile_init calls
// compile_vpi_symbol("$time", vpip_sim_time()) before any user code runs
// (SUPPLEMENTED FEATURES #6).
func NewSymbolTables() *SymbolTables {
	st := &SymbolTables{
		Functors: newSymbolTable("functor", true),
		Code:     newSymbolTable("code label", true),
		Vpi:      newSymbolTable("vpi", false),
	}
	_ = st.Vpi.Insert("$time", VpiHandle{Name: "$time"})
	return st
}
