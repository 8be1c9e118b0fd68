package ast

import (
	"golang.org/x/exp/slices"

	"github.com/yuri91/wasp/lib/token"
)

// ValueType is a value, element, or reference type token (spec.md §4.3:
// value/element/reference types, gated by feature flags at read time).
type ValueType int

const (
	InvalidType ValueType = iota
	I32
	I64
	F32
	F64
	V128
	FuncRef
	ExternRef
	AnyRef
	HostRef
)

func (v ValueType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	case FuncRef:
		return "funcref"
	case ExternRef:
		return "externref"
	case AnyRef:
		return "anyref"
	case HostRef:
		return "hostref"
	default:
		return "invalid"
	}
}

// ValueTypeFromTokenKind maps a lexed type token to its ValueType.
func ValueTypeFromTokenKind(k token.Kind) (ValueType, bool) {
	switch k {
	case token.I32:
		return I32, true
	case token.I64:
		return I64, true
	case token.F32:
		return F32, true
	case token.F64:
		return F64, true
	case token.V128:
		return V128, true
	case token.FuncRef:
		return FuncRef, true
	case token.ExternRef:
		return ExternRef, true
	case token.AnyRef:
		return AnyRef, true
	case token.HostRef:
		return HostRef, true
	default:
		return InvalidType, false
	}
}

// FunctionType is the shape `[params] -> [results]`, the payload of a
// type-section entry.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// Equal reports structural equality, used by FunctionTypeMap to decide
// whether an inline type use can reuse an existing entry.
func (f FunctionType) Equal(other FunctionType) bool {
	return slices.Equal(f.Params, other.Params) && slices.Equal(f.Results, other.Results)
}

// Limits is a table/memory size range: min, and an optional max.
type Limits struct {
	Min    uint32
	Max    uint32
	HasMax bool
	Shared bool // threads feature: shared memory
}

// TableType is a table's element type plus its size Limits.
type TableType struct {
	Limits  Limits
	Element ValueType // FuncRef, ExternRef, AnyRef, or HostRef
}

// GlobalType is a global's value type plus mutability.
type GlobalType struct {
	Value   ValueType
	Mutable bool
}
