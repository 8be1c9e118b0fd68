// Package resolve implements the name resolution pass (spec.md §4.4): a
// two-sweep walk that first collects every binding site into a per-kind
// NameMap, then rewrites every Var::Named occurrence in place into a
// Var::Index, using the label stack for branch targets since those
// resolve to a relative depth rather than an absolute index.
package resolve

import (
	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/data"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/token"
)

// Resolver carries nothing but a diagnostic sink: every other piece of
// state is scoped to a single ResolveModule call, matching the teacher's
// convention of a stateless-between-calls pass object.
type Resolver struct {
	sink diag.Sink
}

// New constructs a Resolver reporting to sink.
func New(sink diag.Sink) *Resolver {
	return &Resolver{sink: sink}
}

// moduleScope holds every module-level index space's NameMap.
type moduleScope struct {
	types    *ast.NameMap
	funcs    *ast.NameMap
	tables   *ast.NameMap
	memories *ast.NameMap
	globals  *ast.NameMap
	events   *ast.NameMap
	elemSegs *ast.NameMap
	dataSegs *ast.NameMap
}

func newModuleScope() *moduleScope {
	return &moduleScope{
		types: ast.NewNameMap(), funcs: ast.NewNameMap(), tables: ast.NewNameMap(),
		memories: ast.NewNameMap(), globals: ast.NewNameMap(), events: ast.NewNameMap(),
		elemSegs: ast.NewNameMap(), dataSegs: ast.NewNameMap(),
	}
}

// ResolveModule runs both sweeps over mod in place.
func (res *Resolver) ResolveModule(mod *ast.Module) {
	scope := newModuleScope()
	res.collectBindings(mod, scope)
	res.resolveRefs(mod, scope)
}

func (res *Resolver) bind(m *ast.NameMap, b ast.BindVar) {
	if _, err := m.NewBound(b.Name); err != nil {
		res.sink.OnError(b.Span, "%s", err)
	}
}

// collectBindings is sweep 1: walk every item in declaration order,
// allocating one index per binding site regardless of whether it is an
// inline or standalone import (spec.md §4.4 invariant: index spaces are
// populated in source declaration order).
func (res *Resolver) collectBindings(mod *ast.Module, scope *moduleScope) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.TypeEntry:
			res.bind(scope.types, it.Name)
		case *ast.Import:
			switch it.Desc.ExternKind {
			case ast.ExternFunc:
				res.bind(scope.funcs, it.Desc.Name)
			case ast.ExternTable:
				res.bind(scope.tables, it.Desc.Name)
			case ast.ExternMemory:
				res.bind(scope.memories, it.Desc.Name)
			case ast.ExternGlobal:
				res.bind(scope.globals, it.Desc.Name)
			case ast.ExternEvent:
				res.bind(scope.events, it.Desc.Name)
			}
		case *ast.Function:
			res.bind(scope.funcs, it.Name)
		case *ast.Table:
			res.bind(scope.tables, it.Name)
		case *ast.Memory:
			res.bind(scope.memories, it.Name)
		case *ast.Global:
			res.bind(scope.globals, it.Name)
		case *ast.Event:
			res.bind(scope.events, it.Name)
		case *ast.ElementSegment:
			res.bind(scope.elemSegs, it.Name)
		case *ast.DataSegment:
			res.bind(scope.dataSegs, it.Name)
		}
	}
}

// resolveRefs is sweep 2: walk every item again, rewriting each Var in
// place.
func (res *Resolver) resolveRefs(mod *ast.Module, scope *moduleScope) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.Import:
			if it.Desc.Func != nil {
				res.resolveTypeUse(it.Desc.Func, scope)
			}
		case *ast.Function:
			res.resolveTypeUse(&it.TypeUse, scope)
			locals := ast.NewNameMap()
			for _, p := range it.Params {
				res.bind(locals, p.Name)
			}
			for _, l := range it.Locals {
				res.bind(locals, l.Name)
			}
			labels := &data.Stack[string]{}
			res.resolveInstrList(it.Body, scope, locals, labels)
		case *ast.Table:
			if it.InlineElement != nil {
				for i := range it.InlineElement.Funcs {
					res.resolveVar(&it.InlineElement.Funcs[i], scope.funcs)
				}
			}
		case *ast.Global:
			res.resolveInstrList(it.Init, scope, nil, &data.Stack[string]{})
		case *ast.Event:
			res.resolveTypeUse(&it.TypeUse, scope)
		case *ast.Export:
			m := scope.byKind(it.Desc.ExternKind)
			res.resolveVar(&it.Desc.Index, m)
		case *ast.Start:
			res.resolveVar(&it.Func, scope.funcs)
		case *ast.ElementSegment:
			if it.Table != nil {
				res.resolveVar(it.Table, scope.tables)
			}
			res.resolveInstrList(it.Offset, scope, nil, &data.Stack[string]{})
			for i := range it.Funcs {
				res.resolveVar(&it.Funcs[i], scope.funcs)
			}
			for _, expr := range it.Exprs {
				res.resolveInstrList(expr, scope, nil, &data.Stack[string]{})
			}
		case *ast.DataSegment:
			if it.Memory != nil {
				res.resolveVar(it.Memory, scope.memories)
			}
			res.resolveInstrList(it.Offset, scope, nil, &data.Stack[string]{})
		}
	}
}

func (s *moduleScope) byKind(k ast.ExternalKind) *ast.NameMap {
	switch k {
	case ast.ExternFunc:
		return s.funcs
	case ast.ExternTable:
		return s.tables
	case ast.ExternMemory:
		return s.memories
	case ast.ExternGlobal:
		return s.globals
	case ast.ExternEvent:
		return s.events
	default:
		return s.funcs
	}
}

func (res *Resolver) resolveTypeUse(use *ast.FunctionTypeUse, scope *moduleScope) {
	if use.Type != nil {
		res.resolveVar(use.Type, scope.types)
	}
}

// resolveVar rewrites a Named var in place against m; an already-Index
// var (or one that is otherwise invalid) is left untouched.
func (res *Resolver) resolveVar(v *ast.Var, m *ast.NameMap) {
	if v == nil || v.IsIndex() {
		return
	}
	idx, ok := m.Get(v.Name)
	if !ok {
		res.sink.OnError(v.Span, "undefined variable $%s", v.Name)
		return
	}
	v.Resolve(idx)
}

// resolveLabelVar rewrites a Named var into the relative depth of the
// matching label on the label stack (innermost first), per spec.md
// §4.4's branch-target resolution rule.
func (res *Resolver) resolveLabelVar(v *ast.Var, labels *data.Stack[string]) {
	if v == nil || v.IsIndex() {
		return
	}
	depth, ok := labels.Find(v.Name)
	if !ok {
		res.sink.OnError(v.Span, "undefined label $%s", v.Name)
		return
	}
	v.Resolve(uint32(depth))
}

// varScopeOpcodes maps a Var-immediate opcode to the NameMap field on
// moduleScope it resolves against, for every such opcode except the
// label- and locals-scoped ones (handled separately since they aren't
// module-level NameMaps).
var varScopeOpcodes = map[token.Kind]func(*moduleScope) *ast.NameMap{
	token.OpGlobalGet:  func(s *moduleScope) *ast.NameMap { return s.globals },
	token.OpGlobalSet:  func(s *moduleScope) *ast.NameMap { return s.globals },
	token.OpCall:       func(s *moduleScope) *ast.NameMap { return s.funcs },
	token.OpRefFunc:    func(s *moduleScope) *ast.NameMap { return s.funcs },
	token.OpReturnCall: func(s *moduleScope) *ast.NameMap { return s.funcs },
	token.OpTableGet:   func(s *moduleScope) *ast.NameMap { return s.tables },
	token.OpTableSet:   func(s *moduleScope) *ast.NameMap { return s.tables },
	token.OpTableSize:  func(s *moduleScope) *ast.NameMap { return s.tables },
	token.OpTableGrow:  func(s *moduleScope) *ast.NameMap { return s.tables },
	token.OpTableFill:  func(s *moduleScope) *ast.NameMap { return s.tables },
	token.OpElemDrop:   func(s *moduleScope) *ast.NameMap { return s.elemSegs },
	token.OpDataDrop:   func(s *moduleScope) *ast.NameMap { return s.dataSegs },
	token.OpThrow:      func(s *moduleScope) *ast.NameMap { return s.events },
}

var localScopeOpcodes = map[token.Kind]bool{
	token.OpLocalGet: true, token.OpLocalSet: true, token.OpLocalTee: true,
}

var labelScopeOpcodes = map[token.Kind]bool{
	token.OpBr: true, token.OpRethrow: true,
}

// resolveInstrList walks a flattened instruction list, maintaining the
// label stack across block/loop/if/try...end nesting as it goes.
func (res *Resolver) resolveInstrList(instrs []ast.Instruction, scope *moduleScope, locals *ast.NameMap, labels *data.Stack[string]) {
	for i := range instrs {
		in := &instrs[i]
		switch {
		case in.Opcode == token.OpBlock || in.Opcode == token.OpLoop || in.Opcode == token.OpIf || in.Opcode == token.OpTryOp:
			imm, _ := in.Immediate.(ast.BlockImmediate)
			res.resolveTypeUse(&imm.TypeUse, scope)
			in.Immediate = imm
			labels.Push(imm.Label.Name)

		case in.Opcode == token.OpEnd:
			if labels.Size() > 0 {
				labels.Pop()
			}

		case in.Opcode == token.OpCatch:
			if ev, ok := in.Immediate.(ast.Var); ok {
				res.resolveVar(&ev, scope.events)
				in.Immediate = ev
			}

		case in.Opcode == token.OpBrTable:
			imm, _ := in.Immediate.(ast.BrTableImmediate)
			for j := range imm.Targets {
				res.resolveLabelVar(&imm.Targets[j], labels)
			}
			res.resolveLabelVar(&imm.Default, labels)
			in.Immediate = imm

		case in.Opcode == token.OpBrOnExn:
			imm, _ := in.Immediate.(ast.BrOnExnImmediate)
			res.resolveLabelVar(&imm.Label, labels)
			res.resolveVar(&imm.Event, scope.events)
			in.Immediate = imm

		case in.Opcode == token.OpCallIndirect || in.Opcode == token.OpReturnCallIndirect:
			imm, _ := in.Immediate.(ast.CallIndirectImmediate)
			if imm.Table != nil {
				res.resolveVar(imm.Table, scope.tables)
			}
			res.resolveTypeUse(&imm.TypeUse, scope)
			in.Immediate = imm

		case in.Opcode == token.OpTableCopy:
			imm, _ := in.Immediate.(ast.TableCopyImmediate)
			if imm.Dst != nil {
				res.resolveVar(imm.Dst, scope.tables)
			}
			if imm.Src != nil {
				res.resolveVar(imm.Src, scope.tables)
			}
			in.Immediate = imm

		case in.Opcode == token.OpTableInit:
			imm, _ := in.Immediate.(ast.TableInitImmediate)
			res.resolveVar(&imm.Segment, scope.elemSegs)
			if imm.Table != nil {
				res.resolveVar(imm.Table, scope.tables)
			}
			in.Immediate = imm

		case labelScopeOpcodes[in.Opcode]:
			if v, ok := in.Immediate.(ast.Var); ok {
				res.resolveLabelVar(&v, labels)
				in.Immediate = v
			}

		case localScopeOpcodes[in.Opcode]:
			if v, ok := in.Immediate.(ast.Var); ok {
				if locals == nil {
					res.sink.OnError(v.Span, "local reference outside a function body")
				} else {
					res.resolveVar(&v, locals)
				}
				in.Immediate = v
			}

		default:
			if mapFn, ok := varScopeOpcodes[in.Opcode]; ok {
				if v, ok := in.Immediate.(ast.Var); ok {
					res.resolveVar(&v, mapFn(scope))
					in.Immediate = v
				}
			}
		}
	}
}
