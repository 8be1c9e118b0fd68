package reader

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/token"
)

// readModuleItem reads one top-level `(...)` form inside a module and
// dispatches on its keyword head. It reports an error and skips the
// form (by consuming balanced parens) on an unrecognised head, so a
// single bad item doesn't desynchronise the rest of the module.
func (r *Reader) readModuleItem() ast.ModuleItem {
	if !r.tok.MatchLpar() {
		r.errorf(r.tok.Peek(0).Span, "expected a module item, got %s", r.tok.Peek(0).Kind)
		r.tok.Read()
		return nil
	}
	head := r.tok.Read()
	var item ast.ModuleItem
	switch head.Kind {
	case token.KwType:
		item = r.readTypeEntry(head.Span)
	case token.KwImport:
		item = r.readImport(head.Span)
	case token.KwFunc:
		item = r.readFunction(head.Span)
	case token.KwTable:
		item = r.readTable(head.Span)
	case token.KwMemory:
		item = r.readMemory(head.Span)
	case token.KwGlobal:
		item = r.readGlobal(head.Span)
	case token.KwEvent:
		item = r.readEvent(head.Span)
	case token.KwExport:
		item = r.readExport(head.Span)
	case token.KwStart:
		item = r.readStart(head.Span)
	case token.KwElem:
		item = r.readElem(head.Span)
	case token.KwData:
		item = r.readData(head.Span)
	default:
		if head.Kind == token.Reserved && token.IsGatedOff(head.Text, r.enabled) {
			r.errorf(head.Span, "%s instruction not allowed", head.Text)
		} else {
			r.errorf(head.Span, "unrecognised module item %s", head.Kind)
		}
		r.skipParenBody()
		return nil
	}
	r.expectRpar()
	r.checkImportOrder(item, head.Span)
	return item
}

// checkImportOrder enforces spec.md §4.3's "imports must occur before all
// non-import definitions" invariant. Type entries are exempt: like the
// binary format's separate type section, they carry no index-space
// ordering constraint relative to imports.
func (r *Reader) checkImportOrder(item ast.ModuleItem, span token.Span) {
	if _, ok := item.(*ast.TypeEntry); ok {
		return
	}
	if isInlineImportItem(item) {
		if r.sawNonImport {
			r.errorf(span, "Imports must occur before all non-import definitions")
		}
		return
	}
	if item != nil {
		r.sawNonImport = true
	}
}

// isInlineImportItem reports whether item is a standalone `(import ...)`
// or a definition carrying an inline `(import "m" "n")` clause.
func isInlineImportItem(item ast.ModuleItem) bool {
	switch it := item.(type) {
	case *ast.Import:
		return true
	case *ast.Function:
		return it.InlineImport != nil
	case *ast.Table:
		return it.InlineImport != nil
	case *ast.Memory:
		return it.InlineImport != nil
	case *ast.Global:
		return it.InlineImport != nil
	case *ast.Event:
		return it.InlineImport != nil
	default:
		return false
	}
}

// skipParenBody consumes tokens up to and including the closing paren
// that matches the one already consumed by the caller, for error
// recovery after an unrecognised item head.
func (r *Reader) skipParenBody() {
	depth := 1
	for depth > 0 && !r.tok.Eof() {
		switch r.tok.Read().Kind {
		case token.Lpar:
			depth++
		case token.Rpar:
			depth--
		}
	}
}

func (r *Reader) readTypeEntry(span token.Span) *ast.TypeEntry {
	name := r.readOptionalBindVar()
	r.expectLpar()
	r.expect(token.KwFunc)
	params := r.readParams()
	results := r.readResults()
	r.expectRpar()
	ft := ast.FunctionType{Results: results}
	for _, p := range params {
		ft.Params = append(ft.Params, p.Type)
	}
	return &ast.TypeEntry{Span: span, Name: name, Type: ft}
}

func (r *Reader) readImport(span token.Span) *ast.Import {
	mod := string(r.readText())
	name := string(r.readText())
	r.expectLpar()
	descHead := r.tok.Read()
	var desc ast.ImportDesc
	switch descHead.Kind {
	case token.KwFunc:
		desc.ExternKind = ast.ExternFunc
		desc.Name = r.readOptionalBindVar()
		tu := r.readFunctionTypeUse()
		desc.Func = &tu
	case token.KwTable:
		desc.ExternKind = ast.ExternTable
		desc.Name = r.readOptionalBindVar()
		tt := r.readTableType()
		desc.Table = &tt
	case token.KwMemory:
		desc.ExternKind = ast.ExternMemory
		desc.Name = r.readOptionalBindVar()
		lim := r.readLimits()
		desc.Memory = &lim
	case token.KwGlobal:
		desc.ExternKind = ast.ExternGlobal
		desc.Name = r.readOptionalBindVar()
		gt := r.readGlobalType()
		desc.Global = &gt
	case token.KwEvent:
		desc.ExternKind = ast.ExternEvent
		desc.Name = r.readOptionalBindVar()
		tu := r.readFunctionTypeUse()
		desc.Func = &tu
	default:
		r.errorf(descHead.Span, "expected an import description, got %s", descHead.Kind)
	}
	r.expectRpar()
	return &ast.Import{Span: span, Module: mod, Name: name, Desc: desc}
}

func (r *Reader) readFunction(span token.Span) *ast.Function {
	name := r.readOptionalBindVar()
	inlineImport, inlineExports := r.readInlineImportExport()
	typeUse, params := r.readFunctionTypeUseWithParams()
	if inlineImport != nil {
		return &ast.Function{Span: span, Name: name, TypeUse: typeUse, Params: params, InlineImport: inlineImport, InlineExports: inlineExports}
	}
	locals := r.readLocals()
	body := r.readInstructionList(atRpar)
	return &ast.Function{
		Span: span, Name: name, TypeUse: typeUse, Params: params, Locals: locals, Body: body,
		InlineImport: inlineImport, InlineExports: inlineExports,
	}
}

func (r *Reader) readTable(span token.Span) *ast.Table {
	name := r.readOptionalBindVar()
	inlineImport, inlineExports := r.readInlineImportExport()
	if inlineImport != nil {
		tt := r.readTableType()
		return &ast.Table{Span: span, Name: name, Type: tt, InlineImport: inlineImport, InlineExports: inlineExports}
	}
	// `(table $t reftype (elem ...))` inline-element form fixes the
	// table's limits from the element list's length (spec.md §4.3).
	if _, ok := ast.ValueTypeFromTokenKind(r.tok.Peek(0).Kind); ok {
		elemType := r.readValueType()
		r.expectLpar()
		r.expect(token.KwElem)
		elemSpan := r.tok.Previous().Span
		var funcs []ast.Var
		for r.tok.Peek(0).Kind != token.Rpar {
			funcs = append(funcs, r.readVar())
		}
		r.expectRpar()
		n := uint32(len(funcs))
		return &ast.Table{
			Span: span, Name: name,
			Type:          ast.TableType{Limits: ast.Limits{Min: n, Max: n, HasMax: true}, Element: elemType},
			InlineImport:  inlineImport,
			InlineExports: inlineExports,
			InlineElement: &ast.InlineElement{Span: elemSpan, Funcs: funcs},
		}
	}
	tt := r.readTableType()
	return &ast.Table{Span: span, Name: name, Type: tt, InlineImport: inlineImport, InlineExports: inlineExports}
}

func (r *Reader) readMemory(span token.Span) *ast.Memory {
	name := r.readOptionalBindVar()
	inlineImport, inlineExports := r.readInlineImportExport()
	if inlineImport != nil {
		lim := r.readLimits()
		return &ast.Memory{Span: span, Name: name, Type: lim, InlineImport: inlineImport, InlineExports: inlineExports}
	}
	// `(memory $m (data "..."))` inline-data form fixes the memory's
	// limits from the data length, in page units (spec.md §4.3).
	if r.atLparKw(token.KwData) {
		r.tok.Read() // (
		r.tok.Read() // data
		dataSpan := r.tok.Previous().Span
		var bytes []byte
		for r.tok.Peek(0).Kind == token.Text {
			bytes = append(bytes, r.readText()...)
		}
		r.expectRpar()
		const pageSize = 65536
		pages := uint32((len(bytes) + pageSize - 1) / pageSize)
		return &ast.Memory{
			Span: span, Name: name,
			Type:          ast.Limits{Min: pages, Max: pages, HasMax: true},
			InlineImport:  inlineImport,
			InlineExports: inlineExports,
			InlineData:    &ast.InlineData{Span: dataSpan, Bytes: bytes},
		}
	}
	lim := r.readLimits()
	return &ast.Memory{Span: span, Name: name, Type: lim, InlineImport: inlineImport, InlineExports: inlineExports}
}

func (r *Reader) readGlobal(span token.Span) *ast.Global {
	name := r.readOptionalBindVar()
	inlineImport, inlineExports := r.readInlineImportExport()
	gt := r.readGlobalType()
	if inlineImport != nil {
		return &ast.Global{Span: span, Name: name, Type: gt, InlineImport: inlineImport, InlineExports: inlineExports}
	}
	init := r.readInstructionList(atRpar)
	return &ast.Global{Span: span, Name: name, Type: gt, Init: init, InlineImport: inlineImport, InlineExports: inlineExports}
}

func (r *Reader) readEvent(span token.Span) *ast.Event {
	name := r.readOptionalBindVar()
	inlineImport, inlineExports := r.readInlineImportExport()
	typeUse := r.readFunctionTypeUse()
	return &ast.Event{Span: span, Name: name, TypeUse: typeUse, InlineImport: inlineImport, InlineExports: inlineExports}
}

func (r *Reader) readExport(span token.Span) *ast.Export {
	name := string(r.readText())
	r.expectLpar()
	descHead := r.tok.Read()
	var kind ast.ExternalKind
	switch descHead.Kind {
	case token.KwFunc:
		kind = ast.ExternFunc
	case token.KwTable:
		kind = ast.ExternTable
	case token.KwMemory:
		kind = ast.ExternMemory
	case token.KwGlobal:
		kind = ast.ExternGlobal
	case token.KwEvent:
		kind = ast.ExternEvent
	default:
		r.errorf(descHead.Span, "expected an export description, got %s", descHead.Kind)
	}
	idx := r.readVar()
	r.expectRpar()
	return &ast.Export{Span: span, Name: name, Desc: ast.ExportDesc{ExternKind: kind, Index: idx}}
}

func (r *Reader) readStart(span token.Span) *ast.Start {
	if r.sawStart {
		r.errorf(span, "Multiple start functions")
	}
	r.sawStart = true
	return &ast.Start{Span: span, Func: r.readVar()}
}

func (r *Reader) readElem(span token.Span) *ast.ElementSegment {
	name := r.readOptionalBindVar()
	seg := &ast.ElementSegment{Span: span, Name: name, Mode: ast.ElementActive}

	if _, ok := r.tok.Match(token.KwDeclare); ok {
		seg.Mode = ast.ElementDeclared
	} else if r.atLparKw(token.KwTable) {
		r.tok.Read() // (
		r.tok.Read() // table
		v := r.readVar()
		seg.Table = &v
		r.expectRpar()
	}

	if seg.Mode == ast.ElementActive && r.atLparKw(token.KwOffset) {
		r.tok.Read() // (
		r.tok.Read() // offset
		seg.Offset = r.readInstructionList(atRpar)
		r.expectRpar()
	} else if seg.Mode == ast.ElementActive && r.tok.Peek(0).Kind == token.Lpar && seg.Table == nil {
		// A bare folded offset expression stands in for `(offset ...)`.
		seg.Offset = r.readFoldedInstr()
	} else if seg.Mode == ast.ElementActive && seg.Table != nil {
		seg.Offset = r.readInstructionList(atRpar)
	}

	r.tok.Match(token.KwFunc) // optional explicit `func` marker before a var list
	if r.tok.Peek(0).Kind == token.Id || r.tok.Peek(0).Kind == token.Nat {
		seg.PayloadKind = ast.ElementVarList
		for r.tok.Peek(0).Kind != token.Rpar {
			seg.Funcs = append(seg.Funcs, r.readVar())
		}
		return seg
	}

	seg.PayloadKind = ast.ElementExpressionList
	if vt, ok := ast.ValueTypeFromTokenKind(r.tok.Peek(0).Kind); ok {
		r.tok.Read()
		seg.Type = vt
	} else {
		seg.Type = ast.FuncRef
	}
	for r.atLparKw(token.KwItem) || r.tok.Peek(0).Kind == token.Lpar {
		if r.atLparKw(token.KwItem) {
			r.tok.Read()
			r.tok.Read()
			seg.Exprs = append(seg.Exprs, r.readInstructionList(atRpar))
			r.expectRpar()
		} else {
			seg.Exprs = append(seg.Exprs, r.readFoldedInstr())
		}
	}
	return seg
}

func (r *Reader) readData(span token.Span) *ast.DataSegment {
	name := r.readOptionalBindVar()
	seg := &ast.DataSegment{Span: span, Name: name, Mode: ast.DataActive}

	if r.atLparKw(token.KwMemory) {
		r.tok.Read() // (
		r.tok.Read() // memory
		v := r.readVar()
		seg.Memory = &v
		r.expectRpar()
	}

	if r.atLparKw(token.KwOffset) {
		r.tok.Read() // (
		r.tok.Read() // offset
		seg.Offset = r.readInstructionList(atRpar)
		r.expectRpar()
	} else if r.tok.Peek(0).Kind == token.Lpar {
		seg.Offset = r.readFoldedInstr()
	} else {
		seg.Mode = ast.DataPassive
	}

	for r.tok.Peek(0).Kind == token.Text {
		seg.Bytes = append(seg.Bytes, r.readText()...)
	}
	return seg
}
