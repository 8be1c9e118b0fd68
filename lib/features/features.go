// Package features models the WebAssembly text-format feature-flag set
// (spec.md §6): a small collection of named booleans that gate specific
// lexer/reader productions. It is backed by a bitset rather than a
// struct of bools so a whole profile can be passed around, compared, and
// serialized as a single value.
package features

import "github.com/bits-and-blooms/bitset"

// Flag identifies one of the eleven recognised feature flags.
type Flag uint

const (
	MutableGlobals Flag = iota
	SaturatingFloatToInt
	SignExtension
	SIMD
	Threads
	Exceptions
	ReferenceTypes
	BulkMemory
	TailCall
	MultiValue
	Annotations

	numFlags
)

var names = [numFlags]string{
	MutableGlobals:       "mutable_globals",
	SaturatingFloatToInt: "saturating_float_to_int",
	SignExtension:        "sign_extension",
	SIMD:                 "simd",
	Threads:              "threads",
	Exceptions:           "exceptions",
	ReferenceTypes:       "reference_types",
	BulkMemory:           "bulk_memory",
	TailCall:             "tail_call",
	MultiValue:           "multi_value",
	Annotations:          "annotations",
}

func (f Flag) String() string {
	if f < numFlags {
		return names[f]
	}
	return "unknown"
}

// All flags, in declaration order, for callers that need to enumerate
// the full set (e.g. generating one CLI flag pair per feature).
func AllFlags() []Flag {
	out := make([]Flag, numFlags)
	for f := Flag(0); f < numFlags; f++ {
		out[f] = f
	}
	return out
}

// ParseFlag looks up a flag by the underscore-separated name its String
// method returns; the CLI's dashed `--enable-<name>` spelling is not matched.
func ParseFlag(name string) (Flag, bool) {
	for f, n := range names {
		if n == name {
			return Flag(f), true
		}
	}
	return 0, false
}

// Set is a fixed-capacity set of Flags.
type Set struct {
	bits *bitset.BitSet
}

// New returns an empty Set.
func New() *Set {
	return &Set{bits: bitset.New(uint(numFlags))}
}

// Default returns the flag set spec.md §6 names as the default: the 1.0
// MVP plus mutable_globals, multi_value, sign_extension, and
// saturating_float_to_int.
func Default() *Set {
	s := New()
	s.Enable(MutableGlobals)
	s.Enable(MultiValue)
	s.Enable(SignExtension)
	s.Enable(SaturatingFloatToInt)
	return s
}

// All returns a Set with every flag enabled, useful for exercising the
// full grammar (e.g. in tests or a `--profile all` CLI invocation).
func All() *Set {
	s := New()
	for f := Flag(0); f < numFlags; f++ {
		s.Enable(f)
	}
	return s
}

// Enable turns a flag on.
func (s *Set) Enable(f Flag) { s.bits.Set(uint(f)) }

// Disable turns a flag off.
func (s *Set) Disable(f Flag) { s.bits.Clear(uint(f)) }

// Has reports whether a flag is enabled.
func (s *Set) Has(f Flag) bool { return s.bits.Test(uint(f)) }

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return &Set{bits: s.bits.Clone()}
}

// Words exposes the set as a slice of machine words, useful for embedding
// a whole profile in a single comparable value (e.g. a cache key).
func (s *Set) Words() []uint64 {
	return s.bits.Bytes()
}
