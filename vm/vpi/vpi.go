// Package vpi provides the registration surface for host-provided
// system tasks reachable from `%vpi_call` (spec 4.H). Grounded on
// db47h/hwsim's reflect.go MakePart, which binds a Go struct's tagged
// fields to circuit pins by reflection; here the same struct-tag idiom
// binds a struct's fields to VPI call argument names instead. The task
// bodies themselves ($display, $monitor, and the rest of the standard
// system task library) are out of scope per spec 1 — this package only
// gets a task's name and argument list into the VPI symbol table, where
// the scheduler looks up a `%vpi_call` operand's name when a thread
// executes it; the assembler records that name without looking it up.
package vpi

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/xinlnix/iverilog/vm"
)

// Task is implemented by a host system task bound with MakeTask. Call is
// never invoked by anything in this module: the scheduler's %vpi_call
// only checks that the task's name is registered and moves on.
type Task interface {
	Call(t *vm.Thread) error
}

// Handle is what MakeTask produces and Register publishes into a
// vm.SymbolTables' VPI namespace: enough to describe and dispatch a
// call, addressed by name from a %vpi_call instruction operand.
type Handle struct {
	Name string
	Args []string
	task Task
}

// Call dispatches to the bound task.
func (h *Handle) Call(t *vm.Thread) error { return h.task.Call(t) }

// MakeTask builds a *Handle from a Task, naming its call arguments from
// struct fields tagged `vpi:"arg"` (or `vpi:"arg,name"` to override the
// default lowercased field name), the same field-tag convention
// MakePart uses for `hw:"in"`/`hw:"out"` pin tags.
func MakeTask(name string, t Task) *Handle {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("vpi: unsupported type %q for task %q", k, name))
	}

	h := &Handle{Name: name, task: t}
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("vpi")
		if !ok {
			continue
		}
		argName := strings.ToLower(f.Name)
		tv := strings.SplitN(tag, ",", 2)
		if tv[0] != "arg" {
			panic(errors.Errorf("vpi: unsupported tag %q for field %q in task %q", tag, f.Name, name))
		}
		if len(tv) == 2 && tv[1] != "" {
			argName = tv[1]
		}
		h.Args = append(h.Args, argName)
	}
	return h
}

// Register inserts h into tables' VPI namespace under h.Name, so a
// `%vpi_call` naming it passes the scheduler's run-time lookup (spec
// 4.F/4.G).
// Registration is last-wins, matching vm.NewSymbolTables' Vpi table.
func Register(tables *vm.SymbolTables, h *Handle) error {
	return tables.Vpi.Insert(h.Name, h)
}
