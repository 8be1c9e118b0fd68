package reader

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/features"
	"github.com/yuri91/wasp/lib/token"
)

// Reader drives the recursive-descent grammar over a Tokenizer, emitting
// ast nodes and reporting malformed input to a diag.Sink rather than
// stopping at the first error (spec.md §4.2-§4.3, §6).
type Reader struct {
	tok     *Tokenizer
	sink    diag.Sink
	enabled *features.Set

	// sawNonImport tracks whether a non-import top-level item has already
	// been read, so a later import (standalone or inline) can be rejected
	// (spec.md §4.3: imports must precede all non-import definitions).
	sawNonImport bool
	// sawStart tracks whether a `(start ...)` item has already been read,
	// so a second one can be rejected (spec.md §3/§4.3: at most one Start
	// item per module).
	sawStart bool
}

// New constructs a Reader over src.
func New(src []byte, enabled *features.Set, sink diag.Sink) *Reader {
	if enabled == nil {
		enabled = features.Default()
	}
	return &Reader{tok: NewTokenizer(src, enabled, sink), sink: sink, enabled: enabled}
}

func (r *Reader) errorf(span token.Span, format string, args ...any) {
	r.sink.OnError(span, format, args...)
}

// expect consumes Peek(0) if it has kind k, else reports an error and
// returns the zero Token without advancing (recovery is left to the
// caller, which is why Reader productions are written defensively around
// the result of expect).
func (r *Reader) expect(k token.Kind) token.Token {
	tok, ok := r.tok.Match(k)
	if !ok {
		r.errorf(r.tok.Peek(0).Span, "expected %s, got %s", k, r.tok.Peek(0).Kind)
		return token.Token{}
	}
	return tok
}

func (r *Reader) expectLpar() {
	if !r.tok.MatchLpar() {
		r.errorf(r.tok.Peek(0).Span, "expected '(', got %s", r.tok.Peek(0).Kind)
	}
}

func (r *Reader) expectRpar() {
	r.expect(token.Rpar)
}

// atLparKw reports whether the next token opens a parenthesised clause
// headed by keyword k (peeked two slots deep).
func (r *Reader) atLparKw(k token.Kind) bool {
	return r.tok.Peek(0).Kind == token.Lpar && r.tok.Peek(1).Kind == k
}

// ReadModule parses a single top-level `(module ...)` form, or a bare
// sequence of module items with no enclosing `(module)` (spec.md §3
// permits both at the top level of a standalone module file).
func (r *Reader) ReadModule() (*ast.Module, error) {
	r.sawNonImport = false
	r.sawStart = false
	start := r.tok.Peek(0).Span
	explicit := r.atLparKw(token.KwModule)
	if explicit {
		r.tok.Read() // (
		r.tok.Read() // module
	}
	name := r.readOptionalBindVar()
	mod := &ast.Module{Span: start, Name: name}
	for {
		if explicit {
			if r.tok.Peek(0).Kind == token.Rpar {
				r.tok.Read()
				break
			}
		}
		if r.tok.Eof() {
			break
		}
		item := r.readModuleItem()
		if item != nil {
			mod.Items = append(mod.Items, item)
		}
	}
	mod.Span = mod.Span.Merge(r.tok.Previous().Span)
	if r.sink.HasError() {
		return mod, scriptError("module contained errors")
	}
	return mod, nil
}
