package netlist

import "strings"

// ScopeKind identifies the kind of a Scope.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeBeginEnd
	ScopeForkJoin
)

// Scope is a named region (module, begin-end block, fork-join block) with
// a parent link; scopes form a tree rooted at the design root. Grounded
// on spec 3's Scope description.
type Scope struct {
	Kind     ScopeKind
	Name     string
	Parent   *Scope
	Children []*Scope

	signals []*Signal
	memories []*Memory
}

// NewScope creates a child scope of parent (nil for the design root).
func NewScope(parent *Scope, kind ScopeKind, name string) *Scope {
	s := &Scope{Kind: kind, Name: name, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Path returns the fully-qualified, dot-joined path from the design root
// to this scope.
func (s *Scope) Path() string {
	if s == nil {
		return ""
	}
	if s.Parent == nil {
		return s.Name
	}
	parentPath := s.Parent.Path()
	if parentPath == "" {
		return s.Name
	}
	return parentPath + "." + s.Name
}

// IsDescendantOf reports whether s is other or a descendant of other.
// The vm package's %disable works on its own scope names and does not
// call this.
func (s *Scope) IsDescendantOf(other *Scope) bool {
	for c := s; c != nil; c = c.Parent {
		if c == other {
			return true
		}
	}
	return false
}

// AddSignal registers a signal as declared directly in this scope.
func (s *Scope) AddSignal(sig *Signal) { s.signals = append(s.signals, sig) }

// Signals returns the signals declared directly in this scope.
func (s *Scope) Signals() []*Signal { return s.signals }

// AddMemory registers a memory as declared directly in this scope.
func (s *Scope) AddMemory(m *Memory) { s.memories = append(s.memories, m) }

// Memories returns the memories declared directly in this scope.
func (s *Scope) Memories() []*Memory { return s.memories }

// FindScope resolves a dot-joined path relative to the design root s.
func (s *Scope) FindScope(path string) *Scope {
	if path == "" || path == s.Name {
		return s
	}
	parts := strings.Split(path, ".")
	if len(parts) > 0 && parts[0] == s.Name {
		parts = parts[1:]
	}
	cur := s
	for _, p := range parts {
		var next *Scope
		for _, c := range cur.Children {
			if c.Name == p {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
