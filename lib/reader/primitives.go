package reader

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/lex"
	"github.com/yuri91/wasp/lib/token"
)

// readOptionalBindVar consumes a leading `$name` if present, else returns
// the anonymous BindVar.
func (r *Reader) readOptionalBindVar() ast.BindVar {
	if tok, ok := r.tok.Match(token.Id); ok {
		return ast.BindVar{Span: tok.Span, Name: tok.Text[1:]}
	}
	return ast.BindVar{}
}

// readOptionalVar consumes a `$name` or a numeric index if present, else
// reports nil (used for the optional `$module`/`$table`/`$memory`
// disambiguators throughout the grammar).
func (r *Reader) readOptionalVar() *ast.Var {
	if tok, ok := r.tok.Match(token.Id); ok {
		v := ast.NamedVar(tok.Text[1:], tok.Span)
		return &v
	}
	if tok, ok := r.tok.Match(token.Nat); ok {
		n, err := lex.ParseNat32(tok.Text)
		if err != nil {
			r.errorf(tok.Span, "invalid index: %s", err)
		}
		v := ast.IndexVar(n, tok.Span)
		return &v
	}
	return nil
}

// readVar consumes a mandatory `$name` or numeric index.
func (r *Reader) readVar() ast.Var {
	if v := r.readOptionalVar(); v != nil {
		return *v
	}
	r.errorf(r.tok.Peek(0).Span, "expected a variable name or index, got %s", r.tok.Peek(0).Kind)
	return ast.Var{}
}

// readText consumes a quoted Text token and decodes it to raw bytes.
func (r *Reader) readText() []byte {
	tok := r.expect(token.Text)
	if tok.Kind != token.Text {
		return nil
	}
	b, err := lex.DecodeText(tok.Text)
	if err != nil {
		r.errorf(tok.Span, "%s", err)
		return nil
	}
	return b
}

// readValueType consumes one value/reference-type token.
func (r *Reader) readValueType() ast.ValueType {
	tok := r.tok.Peek(0)
	vt, ok := ast.ValueTypeFromTokenKind(tok.Kind)
	if !ok {
		if tok.Kind == token.Reserved && token.IsGatedOff(tok.Text, r.enabled) {
			r.errorf(tok.Span, "value type %s not allowed", tok.Text)
		} else {
			r.errorf(tok.Span, "expected a value type, got %s", tok.Kind)
		}
		// Advance past the offending token so a value type inside a
		// (param ...)/(local ...) list can't stall the caller's loop.
		r.tok.Read()
		return ast.InvalidType
	}
	r.tok.Read()
	return vt
}

// readParams consumes zero or more `(param [$id] t)` / `(param t*)`
// clauses, expanding a multi-type anonymous clause into one Local per
// type (spec.md §4.3). Named params bind exactly one type each.
func (r *Reader) readParams() []ast.Local {
	var out []ast.Local
	for r.atLparKw(token.KwParam) {
		r.tok.Read() // (
		r.tok.Read() // param
		if id, ok := r.tok.Match(token.Id); ok {
			t := r.readValueType()
			out = append(out, ast.Local{Name: ast.BindVar{Span: id.Span, Name: id.Text[1:]}, Type: t})
		} else {
			for r.tok.Peek(0).Kind != token.Rpar {
				out = append(out, ast.Local{Type: r.readValueType()})
			}
		}
		r.expectRpar()
	}
	return out
}

// readResults consumes zero or more `(result t*)` clauses.
func (r *Reader) readResults() []ast.ValueType {
	var out []ast.ValueType
	for r.atLparKw(token.KwResult) {
		r.tok.Read() // (
		r.tok.Read() // result
		for r.tok.Peek(0).Kind != token.Rpar {
			out = append(out, r.readValueType())
		}
		r.expectRpar()
	}
	return out
}

// readLocals consumes zero or more `(local [$id] t)` / `(local t*)`
// clauses, with the same anonymous-multi-type expansion as readParams.
func (r *Reader) readLocals() []ast.Local {
	var out []ast.Local
	for r.atLparKw(token.KwLocal) {
		r.tok.Read() // (
		r.tok.Read() // local
		if id, ok := r.tok.Match(token.Id); ok {
			t := r.readValueType()
			out = append(out, ast.Local{Name: ast.BindVar{Span: id.Span, Name: id.Text[1:]}, Type: t})
		} else {
			for r.tok.Peek(0).Kind != token.Rpar {
				out = append(out, ast.Local{Type: r.readValueType()})
			}
		}
		r.expectRpar()
	}
	return out
}

// readFunctionTypeUse reads an optional `(type $t)` followed by optional
// param/result clauses (spec.md §3/§4.3). When both are present the
// desugarer later reconciles them against the FunctionTypeMap. The named
// params themselves are returned alongside so a function definition can
// bind them into its locals scope; other call sites (block headers,
// call_indirect) simply discard the names.
func (r *Reader) readFunctionTypeUse() ast.FunctionTypeUse {
	use, _ := r.readFunctionTypeUseWithParams()
	return use
}

func (r *Reader) readFunctionTypeUseWithParams() (ast.FunctionTypeUse, []ast.Local) {
	var use ast.FunctionTypeUse
	if r.atLparKw(token.KwType) {
		r.tok.Read() // (
		r.tok.Read() // type
		v := r.readVar()
		use.Type = &v
		r.expectRpar()
	}
	params := r.readParams()
	results := r.readResults()
	if params != nil || results != nil || use.Type == nil {
		ft := &ast.FunctionType{Results: results}
		for _, p := range params {
			ft.Params = append(ft.Params, p.Type)
		}
		use.Inline = ft
	}
	return use, params
}

// readLimits consumes `min [max]`, optionally followed by `shared`
// (threads feature).
func (r *Reader) readLimits() ast.Limits {
	var lim ast.Limits
	minTok := r.expect(token.Nat)
	min, err := lex.ParseNat32(minTok.Text)
	if err != nil {
		r.errorf(minTok.Span, "invalid limits min: %s", err)
	}
	lim.Min = min
	if tok, ok := r.tok.Match(token.Nat); ok {
		max, err := lex.ParseNat32(tok.Text)
		if err != nil {
			r.errorf(tok.Span, "invalid limits max: %s", err)
		}
		lim.Max = max
		lim.HasMax = true
	}
	if _, ok := r.tok.Match(token.Reserved); ok && r.tok.Previous().Text == "shared" {
		lim.Shared = true
	}
	return lim
}

// readTableType consumes `limits elemtype`.
func (r *Reader) readTableType() ast.TableType {
	lim := r.readLimits()
	elem := r.readValueType()
	return ast.TableType{Limits: lim, Element: elem}
}

// readGlobalType consumes `t` or `(mut t)`.
func (r *Reader) readGlobalType() ast.GlobalType {
	if r.atLparKw(token.KwMut) {
		r.tok.Read() // (
		r.tok.Read() // mut
		t := r.readValueType()
		r.expectRpar()
		return ast.GlobalType{Value: t, Mutable: true}
	}
	return ast.GlobalType{Value: r.readValueType()}
}

// readInlineImportExport consumes any interleaved `(import "m" "n")` /
// `(export "n")` clauses that may precede a definition's own description
// (spec.md §4.3/§4.5): at most one inline import, any number of inline
// exports.
func (r *Reader) readInlineImportExport() (*ast.InlineImportDesc, []string) {
	var imp *ast.InlineImportDesc
	var exports []string
	for {
		if r.atLparKw(token.KwImport) {
			r.tok.Read() // (
			r.tok.Read() // import
			mod := string(r.readText())
			name := string(r.readText())
			r.expectRpar()
			imp = &ast.InlineImportDesc{Module: mod, Name: name}
			continue
		}
		if r.atLparKw(token.KwExport) {
			r.tok.Read() // (
			r.tok.Read() // export
			name := string(r.readText())
			r.expectRpar()
			exports = append(exports, name)
			continue
		}
		break
	}
	return imp, exports
}
