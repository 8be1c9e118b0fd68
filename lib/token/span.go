package token

import "fmt"

// Span is a byte range [Start, End) into the source buffer a module or
// script was read from.
type Span struct {
	Start uint32
	End   uint32
}

// Len reports the number of bytes covered by the span.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// At pairs a span with a value, the source's `At<T>` smart value (spec.md
// §9): equality for tests can either compare both fields or just Value,
// depending on what the test cares about.
type At[T any] struct {
	Span  Span
	Value T
}
