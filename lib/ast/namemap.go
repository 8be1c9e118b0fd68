package ast

import "fmt"

// NameMap is a per-scope ordered map from a bound identifier's name to the
// numeric index it was bound to (spec.md §3). Each kind of binding site
// (types, functions, tables, memories, globals, events, element segments,
// data segments, locals, labels) gets its own NameMap.
type NameMap struct {
	index map[string]uint32
	order []string
	next  uint32
}

// NewNameMap returns an empty scope.
func NewNameMap() *NameMap {
	return &NameMap{index: make(map[string]uint32)}
}

// Size reports how many indices (bound or anonymous) have been allocated.
func (m *NameMap) Size() uint32 {
	return m.next
}

// NewBound allocates the next index and binds name to it. It is an error
// to bind a name already bound in this scope (spec.md §3 invariant: each
// BindVar is unique within its scope).
func (m *NameMap) NewBound(name string) (uint32, error) {
	if name == "" {
		return m.NewUnbound(), nil
	}
	if _, ok := m.index[name]; ok {
		return 0, fmt.Errorf("Variable $%s is already bound to index %d", name, m.index[name])
	}
	idx := m.next
	m.next++
	m.index[name] = idx
	m.order = append(m.order, name)
	return idx, nil
}

// NewUnbound allocates the next index without binding any name to it
// (an anonymous slot that still consumes an index).
func (m *NameMap) NewUnbound() uint32 {
	idx := m.next
	m.next++
	return idx
}

// Has reports whether name is bound in this scope.
func (m *NameMap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Get returns the index bound to name, if any.
func (m *NameMap) Get(name string) (uint32, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// Names returns the bound names in binding order (unbound slots are not
// represented here since they have no name).
func (m *NameMap) Names() []string {
	return m.order
}
