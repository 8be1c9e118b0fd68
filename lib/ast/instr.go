package ast

import "github.com/yuri91/wasp/lib/token"

// FunctionTypeUse is an occurrence that references a function type either
// by index, structurally via an inline signature, or both (spec.md §3).
// Both Type and Inline may be nil before desugaring. The desugarer fills in
// Type for the uses of functions, function and event imports, and events;
// the type uses of block instructions and call_indirect are left as read.
type FunctionTypeUse struct {
	Type   *Var
	Inline *FunctionType
}

// HasExplicitType reports whether this use named an index with `(type ..)`.
func (u FunctionTypeUse) HasExplicitType() bool {
	return u.Type != nil
}

// Instruction pairs an opcode token with whatever immediate payload that
// opcode family requires (spec.md §3). The immediate's concrete Go type
// is one of the *Immediate types below, a Var, a scalar constant, or nil
// for opcodes that take none.
type Instruction struct {
	Span      token.Span
	Opcode    token.Kind
	Immediate any
}

// BrTableImmediate is br_table's payload: a list of labels plus a default.
type BrTableImmediate struct {
	Targets []Var
	Default Var
}

// BrOnExnImmediate is br_on_exn's payload (exceptions feature).
type BrOnExnImmediate struct {
	Label Var
	Event Var
}

// CallIndirectImmediate is call_indirect / return_call_indirect's payload.
type CallIndirectImmediate struct {
	Table   *Var
	TypeUse FunctionTypeUse
}

// MemArgImmediate is a load/store instruction's `offset=`/`align=` pair.
// HasAlign/HasOffset record whether the field was present in source (both
// default to absent per spec.md §4.3).
type MemArgImmediate struct {
	AlignLog2 uint32
	HasAlign  bool
	Offset    uint32
	HasOffset bool
}

// V128Const is a 128-bit SIMD constant's sixteen raw bytes.
type V128Const [16]byte

// SIMDLaneImmediate is a lane-access instruction's single lane index.
type SIMDLaneImmediate struct {
	Lane uint32
}

// ShuffleImmediate is i8x16.shuffle's sixteen lane-selector bytes, each
// required to be <= 31.
type ShuffleImmediate struct {
	Lanes [16]byte
}

// BlockImmediate is the payload shared by block/loop/if/try: an optional
// label and a function-type use.
type BlockImmediate struct {
	Label   BindVar
	TypeUse FunctionTypeUse
}

// SelectImmediate is select's optional explicit result-type list
// (reference-types feature); nil Types means the plain, untyped form.
type SelectImmediate struct {
	Types []ValueType
}

// TableCopyImmediate is table.copy's payload (bulk-memory feature).
type TableCopyImmediate struct {
	Dst *Var
	Src *Var
}

// TableInitImmediate is table.init's payload (bulk-memory feature).
type TableInitImmediate struct {
	Segment Var
	Table   *Var
}
