// Package desugar implements the structural rewrites spec.md §4.5/§4.6
// describe: splitting a definition's inline `(import ...)`/`(export ...)`
// clauses into standalone Import/Export items, lowering a table's inline
// `(elem ...)` or a memory's inline `(data ...)` contents into a
// standalone active segment, and reconciling the FunctionTypeUse of every
// function, function or event import, and event against the module's
// FunctionTypeMap. Block and call_indirect type uses are not reconciled.
package desugar

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/token"
)

// Desugarer carries the module-scoped FunctionTypeMap across a single
// DesugarModule call.
type Desugarer struct {
	sink  diag.Sink
	Types *FunctionTypeMap
}

// New constructs a Desugarer reporting to sink.
func New(sink diag.Sink) *Desugarer {
	return &Desugarer{sink: sink, Types: NewTypeMap(sink)}
}

// selfIndex counts how many items of each kind have been seen so far, in
// the exact order the resolver's collectBindings counted them, so a
// definition can recover its own module-level index for inline-export
// synthesis.
type selfIndex struct {
	funcs, tables, memories, globals, events uint32
}

// DesugarModule rewrites mod in place.
func (d *Desugarer) DesugarModule(mod *ast.Module) {
	for _, item := range mod.Items {
		if te, ok := item.(*ast.TypeEntry); ok {
			d.Types.Define(te.Type)
		}
	}

	var idx selfIndex
	var out []ast.ModuleItem
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.Import:
			out = append(out, it)
			switch it.Desc.ExternKind {
			case ast.ExternFunc:
				if it.Desc.Func != nil {
					d.Types.Use(it.Desc.Func, it.Span)
				}
				idx.funcs++
			case ast.ExternTable:
				idx.tables++
			case ast.ExternMemory:
				idx.memories++
			case ast.ExternGlobal:
				idx.globals++
			case ast.ExternEvent:
				if it.Desc.Func != nil {
					d.Types.Use(it.Desc.Func, it.Span)
				}
				idx.events++
			}

		case *ast.Function:
			self := idx.funcs
			idx.funcs++
			d.Types.Use(&it.TypeUse, it.Span)
			if it.InlineImport != nil {
				out = append(out, &ast.Import{
					Span: it.Span, Module: it.InlineImport.Module, Name: it.InlineImport.Name,
					Desc: ast.ImportDesc{ExternKind: ast.ExternFunc, Name: it.Name, Func: &it.TypeUse},
				})
			} else {
				out = append(out, it)
			}
			out = append(out, exportItems(it.Span, ast.ExternFunc, self, it.InlineExports)...)
			it.InlineExports = nil

		case *ast.Table:
			self := idx.tables
			idx.tables++
			if it.InlineImport != nil {
				out = append(out, &ast.Import{
					Span: it.Span, Module: it.InlineImport.Module, Name: it.InlineImport.Name,
					Desc: ast.ImportDesc{ExternKind: ast.ExternTable, Name: it.Name, Table: &it.Type},
				})
			} else {
				out = append(out, it)
				if it.InlineElement != nil {
					selfVar := ast.IndexVar(self, it.Span)
					out = append(out, &ast.ElementSegment{
						Span: it.InlineElement.Span, Mode: ast.ElementActive,
						Table:       &selfVar,
						Offset:      []ast.Instruction{zeroConst(it.InlineElement.Span)},
						PayloadKind: ast.ElementVarList,
						Funcs:       it.InlineElement.Funcs,
					})
					it.InlineElement = nil
				}
			}
			out = append(out, exportItems(it.Span, ast.ExternTable, self, it.InlineExports)...)
			it.InlineExports = nil

		case *ast.Memory:
			self := idx.memories
			idx.memories++
			if it.InlineImport != nil {
				out = append(out, &ast.Import{
					Span: it.Span, Module: it.InlineImport.Module, Name: it.InlineImport.Name,
					Desc: ast.ImportDesc{ExternKind: ast.ExternMemory, Name: it.Name, Memory: &it.Type},
				})
			} else {
				out = append(out, it)
				if it.InlineData != nil {
					selfVar := ast.IndexVar(self, it.Span)
					out = append(out, &ast.DataSegment{
						Span: it.InlineData.Span, Mode: ast.DataActive,
						Memory: &selfVar,
						Offset: []ast.Instruction{zeroConst(it.InlineData.Span)},
						Bytes:  it.InlineData.Bytes,
					})
					it.InlineData = nil
				}
			}
			out = append(out, exportItems(it.Span, ast.ExternMemory, self, it.InlineExports)...)
			it.InlineExports = nil

		case *ast.Global:
			self := idx.globals
			idx.globals++
			if it.InlineImport != nil {
				out = append(out, &ast.Import{
					Span: it.Span, Module: it.InlineImport.Module, Name: it.InlineImport.Name,
					Desc: ast.ImportDesc{ExternKind: ast.ExternGlobal, Name: it.Name, Global: &it.Type},
				})
			} else {
				out = append(out, it)
			}
			out = append(out, exportItems(it.Span, ast.ExternGlobal, self, it.InlineExports)...)
			it.InlineExports = nil

		case *ast.Event:
			self := idx.events
			idx.events++
			d.Types.Use(&it.TypeUse, it.Span)
			if it.InlineImport != nil {
				out = append(out, &ast.Import{
					Span: it.Span, Module: it.InlineImport.Module, Name: it.InlineImport.Name,
					Desc: ast.ImportDesc{ExternKind: ast.ExternEvent, Name: it.Name, Func: &it.TypeUse},
				})
			} else {
				out = append(out, it)
			}
			out = append(out, exportItems(it.Span, ast.ExternEvent, self, it.InlineExports)...)
			it.InlineExports = nil

		default:
			out = append(out, item)
		}
	}

	mod.Items = out
	d.Types.EndModule(mod)
}

func exportItems(span token.Span, kind ast.ExternalKind, self uint32, names []string) []ast.ModuleItem {
	var out []ast.ModuleItem
	for _, name := range names {
		out = append(out, &ast.Export{
			Span: span, Name: name,
			Desc: ast.ExportDesc{ExternKind: kind, Index: ast.IndexVar(self, span)},
		})
	}
	return out
}

func zeroConst(span token.Span) ast.Instruction {
	return ast.Instruction{Span: span, Opcode: token.OpI32Const, Immediate: int32(0)}
}
