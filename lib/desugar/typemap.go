package desugar

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/token"
)

// FunctionTypeMap implements the two-phase commit spec.md §4.5/§4.6
// describes: explicit `(type ...)` entries are defined up front in
// declaration order (phase 1, Define), then every FunctionTypeUse
// occurrence across the module is resolved against that table, either
// validating an explicit reference's inline signature or interning a
// fresh implicit entry for an inline-only use (phase 2, Use). Newly
// interned entries are only flushed into the module as real TypeEntry
// items once the whole module has been walked (EndModule) — committing
// them any earlier would let two structurally-identical inline uses
// seen before and after a given point disagree about whether a prior
// entry was available to reuse.
type FunctionTypeMap struct {
	sink     diag.Sink
	explicit []ast.FunctionType
	implicit []ast.FunctionType
}

// NewTypeMap constructs an empty FunctionTypeMap reporting to sink.
func NewTypeMap(sink diag.Sink) *FunctionTypeMap {
	return &FunctionTypeMap{sink: sink}
}

// Define registers one explicit type-section entry and returns its
// index. Callers must call Define for every TypeEntry in the module,
// in declaration order, before the first call to Use.
func (m *FunctionTypeMap) Define(ft ast.FunctionType) uint32 {
	idx := uint32(len(m.explicit))
	m.explicit = append(m.explicit, ft)
	return idx
}

func (m *FunctionTypeMap) lookup(idx uint32) (ast.FunctionType, bool) {
	if idx < uint32(len(m.explicit)) {
		return m.explicit[idx], true
	}
	j := idx - uint32(len(m.explicit))
	if j < uint32(len(m.implicit)) {
		return m.implicit[j], true
	}
	return ast.FunctionType{}, false
}

// internImplicit returns the index of an existing entry structurally
// equal to ft, defining a new implicit one only if none exists.
func (m *FunctionTypeMap) internImplicit(ft ast.FunctionType) uint32 {
	for i, e := range m.explicit {
		if e.Equal(ft) {
			return uint32(i)
		}
	}
	for i, e := range m.implicit {
		if e.Equal(ft) {
			return uint32(len(m.explicit) + i)
		}
	}
	idx := uint32(len(m.explicit) + len(m.implicit))
	m.implicit = append(m.implicit, ft)
	return idx
}

// Use resolves one FunctionTypeUse occurrence in place, so that after it
// returns use.Type is always non-nil (spec.md §3 invariant).
func (m *FunctionTypeMap) Use(use *ast.FunctionTypeUse, span token.Span) {
	switch {
	case use.Type != nil && use.Inline != nil:
		ft, ok := m.lookup(use.Type.Idx)
		if ok && !ft.Equal(*use.Inline) {
			m.sink.OnError(span, "inline signature does not match explicit type %d", use.Type.Idx)
		}
	case use.Type != nil:
		// explicit only: nothing further to commit
	case use.Inline != nil:
		idx := m.internImplicit(*use.Inline)
		v := ast.IndexVar(idx, span)
		use.Type = &v
	default:
		idx := m.internImplicit(ast.FunctionType{})
		v := ast.IndexVar(idx, span)
		use.Type = &v
		use.Inline = &ast.FunctionType{}
	}
}

// EndModule flushes every implicit entry interned since construction
// into mod as new TypeEntry items, in interning order (so their indices
// match what Use already handed out).
func (m *FunctionTypeMap) EndModule(mod *ast.Module) {
	for _, ft := range m.implicit {
		mod.Items = append(mod.Items, &ast.TypeEntry{Span: mod.Span, Type: ft})
	}
}
