// Package diag implements the error-sink contract spec.md §6/§7 asks
// every stage (lexer, reader, resolver, desugarer) to report through:
// errors accumulate as values instead of aborting the pipeline, each one
// tagged with the stack of "in function $f" / "in module" contexts
// active when it was raised.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/yuri91/wasp/lib/token"
)

// Sink is the diagnostic contract every pipeline stage is handed. A
// stage never decides to abort on its own; it records and keeps going,
// leaving the decision of whether to stop to the caller via HasError.
type Sink interface {
	OnError(span token.Span, format string, args ...any)
	PushContext(label string)
	PopContext()
	HasError() bool
	Clear()
	Errors() []Error
}

// Error is one recorded diagnostic: a source span, a message, the
// context stack active when it was raised, and the pkg/errors-wrapped
// error carrying a stack trace for debugging.
type Error struct {
	Span    token.Span
	Message string
	Context []string
	Cause   error
}

func (e Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return fmt.Sprintf("%s: %s (in %s)", e.Span, e.Message, joinContext(e.Context))
}

func joinContext(ctx []string) string {
	out := ctx[0]
	for _, c := range ctx[1:] {
		out = c + " > " + out
	}
	return out
}

// sink is the default Sink implementation.
type sink struct {
	errs []Error
	ctx  []string
}

// New returns an empty Sink.
func New() Sink {
	return &sink{}
}

func (s *sink) OnError(span token.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	cause := errors.New(msg)
	s.errs = append(s.errs, Error{
		Span:    span,
		Message: msg,
		Context: append([]string(nil), s.ctx...),
		Cause:   cause,
	})
}

func (s *sink) PushContext(label string) {
	s.ctx = append(s.ctx, label)
}

func (s *sink) PopContext() {
	if len(s.ctx) == 0 {
		return
	}
	s.ctx = s.ctx[:len(s.ctx)-1]
}

func (s *sink) HasError() bool {
	return len(s.errs) > 0
}

func (s *sink) Clear() {
	s.errs = nil
	s.ctx = nil
}

func (s *sink) Errors() []Error {
	return s.errs
}
