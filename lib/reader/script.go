package reader

import (
	"math"

	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/lex"
	"github.com/yuri91/wasp/lib/token"
)

// ReadScript parses the reference-test scripting dialect (spec.md §5): a
// flat sequence of top-level commands, each its own `(...)` form.
func (r *Reader) ReadScript() (*ast.Script, error) {
	script := &ast.Script{}
	for !r.tok.Eof() {
		cmd := r.readCommand()
		if cmd != nil {
			script.Commands = append(script.Commands, cmd)
		}
	}
	if r.sink.HasError() {
		return script, diagError("script contained errors")
	}
	return script, nil
}

func diagError(msg string) error {
	return scriptError(msg)
}

type scriptError string

func (e scriptError) Error() string { return string(e) }

func (r *Reader) readCommand() ast.Command {
	if !r.tok.MatchLpar() {
		r.errorf(r.tok.Peek(0).Span, "expected a command, got %s", r.tok.Peek(0).Kind)
		r.tok.Read()
		return nil
	}
	head := r.tok.Read()
	var cmd ast.Command
	switch head.Kind {
	case token.KwModule:
		mod := r.readModuleAfterKeyword(head.Span)
		cmd = &ast.ModuleCommand{Span: head.Span, Module: mod}
	case token.KwRegister:
		name := string(r.readText())
		modVar := r.readOptionalVar()
		cmd = &ast.RegisterCommand{Span: head.Span, Name: name, Module: modVar}
	case token.KwInvoke, token.KwGet:
		action := r.readActionAfterKeyword(head)
		cmd = &ast.ActionCommand{Span: head.Span, Action: action}
	case token.KwAssertMalformed:
		cmd = r.readModuleAssertion(head.Span, func(s ast.ModuleSource, msg string) ast.Assertion {
			return &ast.MalformedAssertion{Span: head.Span, Source: s, Message: msg}
		})
	case token.KwAssertInvalid:
		cmd = r.readModuleAssertion(head.Span, func(s ast.ModuleSource, msg string) ast.Assertion {
			return &ast.InvalidAssertion{Span: head.Span, Source: s, Message: msg}
		})
	case token.KwAssertUnlinkable:
		cmd = r.readModuleAssertion(head.Span, func(s ast.ModuleSource, msg string) ast.Assertion {
			return &ast.UnlinkableAssertion{Span: head.Span, Source: s, Message: msg}
		})
	case token.KwAssertTrap:
		cmd = r.readTrapAssertion(head.Span)
	case token.KwAssertReturn:
		cmd = r.readReturnAssertion(head.Span)
	case token.KwAssertExhaustion:
		cmd = r.readExhaustionAssertion(head.Span)
	default:
		r.errorf(head.Span, "unrecognised command %s", head.Kind)
		r.skipParenBody()
		return nil
	}
	r.expectRpar()
	return cmd
}

// readModuleAfterKeyword parses a module body when the caller already
// consumed the outer `(` and the `module` keyword.
func (r *Reader) readModuleAfterKeyword(span token.Span) *ast.Module {
	r.sawNonImport = false
	r.sawStart = false
	name := r.readOptionalBindVar()
	mod := &ast.Module{Span: span, Name: name}
	// `(module binary "...")` / `(module quote "...")` carry raw bytes
	// instead of text-grammar items; represented here as a module with
	// no items. The strings are read and dropped, not kept anywhere.
	if _, ok := r.tok.Match(token.KwBinary); ok {
		for r.tok.Peek(0).Kind == token.Text {
			r.readText()
		}
		return mod
	}
	if _, ok := r.tok.Match(token.KwQuote); ok {
		for r.tok.Peek(0).Kind == token.Text {
			r.readText()
		}
		return mod
	}
	for r.tok.Peek(0).Kind != token.Rpar && !r.tok.Eof() {
		item := r.readModuleItem()
		if item != nil {
			mod.Items = append(mod.Items, item)
		}
	}
	return mod
}

// captureModuleSource reads a `(module ...)` form for the module-level
// assertions and records its start span and whether it is a `binary`
// form. The parsed module is discarded and its bytes are not captured:
// the returned ModuleSource has a nil Bytes.
func (r *Reader) captureModuleSource(startSpan token.Span) ast.ModuleSource {
	binary := false
	if r.tok.Peek(0).Kind == token.KwBinary {
		binary = true
	}
	r.readModuleAfterKeyword(startSpan)
	return ast.ModuleSource{Span: startSpan, Binary: binary}
}

func (r *Reader) readModuleAssertion(span token.Span, build func(ast.ModuleSource, string) ast.Assertion) ast.Assertion {
	r.expectLpar()
	r.expect(token.KwModule)
	src := r.captureModuleSource(span)
	r.expectRpar()
	msg := string(r.readText())
	return build(src, msg)
}

func (r *Reader) readActionAfterKeyword(head token.Token) ast.Action {
	a := ast.Action{Span: head.Span}
	switch head.Kind {
	case token.KwInvoke:
		a.Kind = ast.ActionInvoke
	case token.KwGet:
		a.Kind = ast.ActionGet
	}
	a.Module = r.readOptionalVar()
	a.Name = string(r.readText())
	if a.Kind == ast.ActionInvoke {
		for r.tok.Peek(0).Kind == token.Lpar {
			a.Args = append(a.Args, r.readConst())
		}
	}
	return a
}

func (r *Reader) readAction() ast.Action {
	r.expectLpar()
	head := r.tok.Read()
	action := r.readActionAfterKeyword(head)
	r.expectRpar()
	return action
}

func (r *Reader) readTrapAssertion(span token.Span) ast.Assertion {
	if r.atLparKw(token.KwModule) {
		r.tok.Read() // (
		r.tok.Read() // module
		src := r.captureModuleSource(span)
		r.expectRpar()
		msg := string(r.readText())
		return &ast.ModuleTrapAssertion{Span: span, Source: src, Message: msg}
	}
	action := r.readAction()
	msg := string(r.readText())
	return &ast.ActionTrapAssertion{Span: span, Action: action, Message: msg}
}

func (r *Reader) readExhaustionAssertion(span token.Span) ast.Assertion {
	action := r.readAction()
	msg := string(r.readText())
	return &ast.ExhaustionAssertion{Span: span, Action: action, Message: msg}
}

func (r *Reader) readReturnAssertion(span token.Span) ast.Assertion {
	action := r.readAction()
	var results []ast.ReturnResult
	for r.tok.Peek(0).Kind == token.Lpar {
		results = append(results, r.readReturnResult())
	}
	return &ast.ReturnAssertion{Span: span, Action: action, Results: results}
}

// readConst reads one `(t.const ...)` or `(ref.* ...)` script-level
// literal, the payload of an invoke argument.
func (r *Reader) readConst() ast.Const {
	r.expectLpar()
	head := r.tok.Read()
	c := ast.Const{Span: head.Span}
	switch head.Kind {
	case token.OpI32Const:
		c.Type = ast.I32
		v := r.tok.Read()
		n, _ := lex.ParseInt32(v.Text)
		c.Bits = uint64(uint32(n))
	case token.OpI64Const:
		c.Type = ast.I64
		v := r.tok.Read()
		n, _ := lex.ParseInt64(v.Text)
		c.Bits = uint64(n)
	case token.OpF32Const:
		c.Type = ast.F32
		v := r.tok.Read()
		f, _ := lex.ParseFloat32(v.Text)
		c.Bits = uint64(math.Float32bits(f))
	case token.OpF64Const:
		c.Type = ast.F64
		v := r.tok.Read()
		f, _ := lex.ParseFloat64(v.Text)
		c.Bits = math.Float64bits(f)
	case token.OpV128Const:
		c.Type = ast.V128
		c.V128 = r.readV128Const()
	default:
		r.errorf(head.Span, "expected a const literal, got %s", head.Kind)
	}
	r.expectRpar()
	return c
}

func (r *Reader) readReturnResult() ast.ReturnResult {
	r.expectLpar()
	head := r.tok.Read()
	res := ast.ReturnResult{Span: head.Span}
	switch head.Kind {
	case token.OpI32Const:
		res.Kind = ast.ResultExact
		res.Type = ast.I32
		v := r.tok.Read()
		n, _ := lex.ParseInt32(v.Text)
		res.Exact = ast.Const{Type: ast.I32, Bits: uint64(uint32(n))}
	case token.OpI64Const:
		res.Kind = ast.ResultExact
		res.Type = ast.I64
		v := r.tok.Read()
		n, _ := lex.ParseInt64(v.Text)
		res.Exact = ast.Const{Type: ast.I64, Bits: uint64(n)}
	case token.OpF32Const:
		res.Type = ast.F32
		res.Kind, res.Exact = r.readFloatResult(32)
	case token.OpF64Const:
		res.Type = ast.F64
		res.Kind, res.Exact = r.readFloatResult(64)
	case token.OpRefFunc:
		res.Kind = ast.ResultRefFunc
	case token.KwRefNullResult:
		res.Kind = ast.ResultRefNull
	case token.KwRefHost:
		res.Kind = ast.ResultRefHost
	case token.KwRefAny:
		res.Kind = ast.ResultRefExtern
	default:
		r.errorf(head.Span, "expected an assert_return result, got %s", head.Kind)
	}
	r.expectRpar()
	return res
}

// readFloatResult handles the `nan:canonical`/`nan:arithmetic` NaN
// patterns alongside an ordinary exact float literal.
func (r *Reader) readFloatResult(bits int) (ast.ResultKind, ast.Const) {
	// The lexer classifies both patterns as Float tokens, so they are
	// recognised by their text.
	switch r.tok.Peek(0).Text {
	case "nan:canonical":
		r.tok.Read()
		return ast.ResultNanCanonical, ast.Const{}
	case "nan:arithmetic":
		r.tok.Read()
		return ast.ResultNanArithmetic, ast.Const{}
	}
	v := r.tok.Read()
	if bits == 32 {
		f, _ := lex.ParseFloat32(v.Text)
		return ast.ResultExact, ast.Const{Type: ast.F32, Bits: uint64(math.Float32bits(f))}
	}
	f, _ := lex.ParseFloat64(v.Text)
	return ast.ResultExact, ast.Const{Type: ast.F64, Bits: math.Float64bits(f)}
}
