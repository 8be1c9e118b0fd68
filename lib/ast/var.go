// Package ast is the data model spec.md §3 describes: Var/BindVar/NameMap,
// the module item tagged union, instructions, function-type use, and the
// script command set. Nodes are immutable after construction except for
// the two mutations spec.md calls out explicitly: the resolver turning a
// Var::Named into a Var::Index, and the desugarer's structural rewrites.
package ast

import "github.com/yuri91/wasp/lib/token"

// Var is either a symbolic reference ($name) or, after name resolution, a
// numeric index. Exactly one of Name/Idx is meaningful at a time —
// IsIndex reports which.
type Var struct {
	Span token.Span
	Name string // non-empty for a Named var; "" once resolved to Idx
	Idx  uint32 // valid only when Name == ""
}

// NamedVar constructs an unresolved, symbolically-named Var.
func NamedVar(name string, span token.Span) Var {
	return Var{Span: span, Name: name}
}

// IndexVar constructs an already-resolved Var.
func IndexVar(idx uint32, span token.Span) Var {
	return Var{Span: span, Idx: idx}
}

// IsIndex reports whether this Var has already been resolved to a numeric
// index (spec.md §3 invariant: true for every Var once the resolver has
// run without error).
func (v Var) IsIndex() bool {
	return v.Name == ""
}

// Resolve replaces a Named var with an Index var in place, the one
// mutation the name resolver performs (spec.md §4.4, sweep 2).
func (v *Var) Resolve(idx uint32) {
	v.Name = ""
	v.Idx = idx
}

// BindVar is an identifier occurring at a binding site, e.g. the `$f` in
// `(func $f ...)`. The zero value is the anonymous binding.
type BindVar struct {
	Span token.Span
	Name string // "" for an anonymous binding
}

func (b BindVar) IsAnonymous() bool {
	return b.Name == ""
}
