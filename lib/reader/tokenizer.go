// Package reader implements the recursive-descent front end over the
// lexer: a 2-slot lookahead Tokenizer façade, and on top of it the full
// grammar for modules, instructions, and the reference-test scripting
// dialect (spec.md §4.2-§4.3, §5).
package reader

import (
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/features"
	"github.com/yuri91/wasp/lib/lex"
	"github.com/yuri91/wasp/lib/token"
)

// Tokenizer wraps a Lexer with exactly two tokens of lookahead, mirroring
// the `current_`/`count_`/`tokens_[2]` ring buffer of the reference
// tokenizer this is grounded on: Read never needs to re-lex, and Peek(1)
// is available without committing to consuming Peek(0).
type Tokenizer struct {
	lex    *lex.Lexer
	sink   diag.Sink
	tokens [2]token.Token
	annots [2][][]token.Token
	count  int // how many of tokens[0:count] are valid lookahead slots
	prev   token.Token
}

// NewTokenizer constructs a Tokenizer over src, reporting lexical errors
// to sink as they're discovered (i.e. as far ahead as the lookahead
// buffer has been primed, not necessarily at the moment Read is called).
func NewTokenizer(src []byte, enabled *features.Set, sink diag.Sink) *Tokenizer {
	t := &Tokenizer{lex: lex.New(src, enabled), sink: sink}
	t.fill()
	return t
}

// fill tops the lookahead buffer back up to 2 slots.
func (t *Tokenizer) fill() {
	for t.count < 2 {
		tok, annots, err := t.lex.Next()
		if err != nil {
			t.sink.OnError(err.Span, "%s", err.Message)
		}
		t.tokens[t.count] = tok
		t.annots[t.count] = annots
		t.count++
	}
}

// Peek returns the token n slots ahead (n is 0 or 1) without consuming
// it.
func (t *Tokenizer) Peek(n int) token.Token {
	return t.tokens[n]
}

// PeekAnnotations returns the annotations collected immediately before
// the token n slots ahead.
func (t *Tokenizer) PeekAnnotations(n int) [][]token.Token {
	return t.annots[n]
}

// Read consumes and returns the current token (Peek(0)), sliding the
// lookahead buffer forward by one and re-priming it from the lexer.
func (t *Tokenizer) Read() token.Token {
	tok := t.tokens[0]
	t.prev = tok
	t.tokens[0] = t.tokens[1]
	t.annots[0] = t.annots[1]
	t.count--
	t.fill()
	return tok
}

// Previous returns the token most recently consumed by Read. Its
// result is unspecified before the first Read call.
func (t *Tokenizer) Previous() token.Token {
	return t.prev
}

// Match consumes and returns Peek(0) if it has kind k, reporting whether
// it matched.
func (t *Tokenizer) Match(k token.Kind) (token.Token, bool) {
	if t.Peek(0).Kind != k {
		return token.Token{}, false
	}
	return t.Read(), true
}

// MatchLpar consumes an Lpar if the next token is one.
func (t *Tokenizer) MatchLpar() bool {
	_, ok := t.Match(token.Lpar)
	return ok
}

// Eof reports whether the tokenizer has reached the end of input.
func (t *Tokenizer) Eof() bool {
	return t.Peek(0).Kind == token.Eof
}
