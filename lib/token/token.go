package token

// Token is the unit the lexer emits: a classified span of source plus,
// for literal kinds, enough payload that later passes don't need to
// re-scan the raw bytes.
type Token struct {
	Kind Kind
	Span Span

	// Text is the raw source text covered by Span, including surrounding
	// quotes/sigils ('$', '"') where applicable. Id tokens keep the
	// leading '$'; callers that want the bare name strip it themselves
	// so the span-to-text mapping stays exact.
	Text string

	// DecodedLen is the number of bytes a Text-kind token will occupy
	// once escape sequences are processed, letting a caller reserve an
	// exact buffer without re-decoding (spec.md §4.1 "Text payload").
	DecodedLen int
}

// IsKeyword reports whether the token is one of the module-structure or
// script keyword kinds (as opposed to a literal, structural token, or
// opcode).
func (t Token) IsKeyword() bool {
	return t.Kind >= KwModule && t.Kind <= KwNanArithmetic
}

// IsOpcode reports whether the token begins an instruction.
func (t Token) IsOpcode() bool {
	return t.Kind >= OpUnreachable
}

// Error is a single lexical error: a malformed literal or unterminated
// string/comment. The lexer returns these inline as a Reserved-kinded
// token paired with a non-nil *Error so the tokenizer can keep advancing.
type Error struct {
	Span    Span
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
