package ast

import "github.com/yuri91/wasp/lib/token"

// ModuleItemKind tags the concrees of the ModuleItem tagged union
// (spec.md §3). Go doesn't have sum types, so each kind is its own struct
// implementing the ModuleItem interface (spec.md §9's "tagged variant with
// pattern-matching").
type ModuleItemKind int

const (
	ItemTypeEntry ModuleItemKind = iota
	ItemImport
	ItemFunction
	ItemTable
	ItemMemory
	ItemGlobal
	ItemEvent
	ItemExport
	ItemStart
	ItemElementSegment
	ItemDataSegment
)

// ModuleItem is the interface every module item implements; consumers
// type-switch on Kind() (or on the concrete type) to dispatch.
type ModuleItem interface {
	Kind() ModuleItemKind
	SourceSpan() token.Span
}

// InlineImportDesc is the `(import "m" "n")` clause a table/memory/
// global/event/function description can carry before the desugarer
// splits it into a standalone Import item (spec.md §4.5).
type InlineImportDesc struct {
	Module string
	Name   string
}

// ExternalKind is what an Import or Export refers to.
type ExternalKind int

const (
	ExternFunc ExternalKind = iota
	ExternTable
	ExternMemory
	ExternGlobal
	ExternEvent
)

// TypeEntry is a `(type $t (func ...))` item.
type TypeEntry struct {
	Span token.Span
	Name BindVar
	Type FunctionType
}

func (t *TypeEntry) Kind() ModuleItemKind   { return ItemTypeEntry }
func (t *TypeEntry) SourceSpan() token.Span { return t.Span }

// ImportDesc is the kind-specific payload of a standalone Import item.
type ImportDesc struct {
	ExternKind ExternalKind
	Name       BindVar // the local name bound to the imported entity, if any
	Func       *FunctionTypeUse
	Table      *TableType
	Memory     *Limits
	Global     *GlobalType
}

// Import is a standalone `(import "m" "n" (...))` item, or one split out
// of an inline import by the desugarer.
type Import struct {
	Span   token.Span
	Module string
	Name   string
	Desc   ImportDesc
}

func (i *Import) Kind() ModuleItemKind   { return ItemImport }
func (i *Import) SourceSpan() token.Span { return i.Span }

// Function is a function definition (spec.md §3). InlineImport/
// InlineExports are non-nil only before the desugarer runs.
type Function struct {
	Span          token.Span
	Name          BindVar
	TypeUse       FunctionTypeUse
	Params        []Local // named/typed params, kept separately from TypeUse.Inline so local.get $name can resolve against them
	Locals        []Local
	Body          []Instruction
	InlineImport  *InlineImportDesc
	InlineExports []string
}

func (f *Function) Kind() ModuleItemKind   { return ItemFunction }
func (f *Function) SourceSpan() token.Span { return f.Span }

// Local is one `(local [$id] t)` binding, already expanded so that a
// multi-type anonymous clause becomes one Local per type (spec.md §4.3).
type Local struct {
	Name BindVar
	Type ValueType
}

// Table is a table definition.
type Table struct {
	Span          token.Span
	Name          BindVar
	Type          TableType
	InlineImport  *InlineImportDesc
	InlineExports []string
	InlineElement *InlineElement // non-nil only before desugaring
}

func (t *Table) Kind() ModuleItemKind   { return ItemTable }
func (t *Table) SourceSpan() token.Span { return t.Span }

// InlineElement is a table's `(elem ...)` inline contents, which fixes
// the table's Limits and is lowered into a standalone active
// ElementSegment by the desugarer (spec.md §4.3, §4.5).
type InlineElement struct {
	Span  token.Span
	Funcs []Var
}

// Memory is a memory definition.
type Memory struct {
	Span          token.Span
	Name          BindVar
	Type          Limits
	InlineImport  *InlineImportDesc
	InlineExports []string
	InlineData    *InlineData // non-nil only before desugaring
}

func (m *Memory) Kind() ModuleItemKind   { return ItemMemory }
func (m *Memory) SourceSpan() token.Span { return m.Span }

// InlineData is a memory's `(data "...")` inline contents, which fixes
// the memory's Limits and is lowered into a standalone active
// DataSegment by the desugarer.
type InlineData struct {
	Span  token.Span
	Bytes []byte
}

// Global is a global definition.
type Global struct {
	Span          token.Span
	Name          BindVar
	Type          GlobalType
	Init          []Instruction
	InlineImport  *InlineImportDesc
	InlineExports []string
}

func (g *Global) Kind() ModuleItemKind   { return ItemGlobal }
func (g *Global) SourceSpan() token.Span { return g.Span }

// Event is an exception-tag definition (exceptions feature).
type Event struct {
	Span          token.Span
	Name          BindVar
	TypeUse       FunctionTypeUse
	InlineImport  *InlineImportDesc
	InlineExports []string
}

func (e *Event) Kind() ModuleItemKind   { return ItemEvent }
func (e *Event) SourceSpan() token.Span { return e.Span }

// Export is a standalone `(export "n" (...))` item, or one split out of
// an inline export by the desugarer.
type Export struct {
	Span token.Span
	Name string
	Desc ExportDesc
}

func (e *Export) Kind() ModuleItemKind   { return ItemExport }
func (e *Export) SourceSpan() token.Span { return e.Span }

// ExportDesc names the externally-visible kind and the referenced entity.
type ExportDesc struct {
	ExternKind ExternalKind
	Index      Var
}

// Start is the `(start $f)` item; at most one may exist per module
// (spec.md §3 invariant).
type Start struct {
	Span token.Span
	Func Var
}

func (s *Start) Kind() ModuleItemKind   { return ItemStart }
func (s *Start) SourceSpan() token.Span { return s.Span }

// ElementMode distinguishes active/passive/declared element segments
// (bulk-memory / reference-types features).
type ElementMode int

const (
	ElementActive ElementMode = iota
	ElementPassive
	ElementDeclared
)

// ElementPayloadKind distinguishes a VarList payload (func indices) from
// an ExpressionList payload (elemexpr-per-entry), per spec.md §3.
type ElementPayloadKind int

const (
	ElementVarList ElementPayloadKind = iota
	ElementExpressionList
)

// ElementSegment is a `(elem ...)` item, MVP active form or a
// bulk-memory/reference-types passive/declared/explicit-table form.
type ElementSegment struct {
	Span        token.Span
	Name        BindVar
	Mode        ElementMode
	Table       *Var            // explicit `(table $t)`, active mode only
	Offset      []Instruction   // active mode only
	Type        ValueType       // element type for an ExpressionList payload
	PayloadKind ElementPayloadKind
	Funcs       []Var           // ElementVarList payload
	Exprs       [][]Instruction // ElementExpressionList payload, one expr per entry
}

func (e *ElementSegment) Kind() ModuleItemKind   { return ItemElementSegment }
func (e *ElementSegment) SourceSpan() token.Span { return e.Span }

// DataMode distinguishes active/passive data segments (bulk-memory
// feature).
type DataMode int

const (
	DataActive DataMode = iota
	DataPassive
)

// DataSegment is a `(data ...)` item.
type DataSegment struct {
	Span   token.Span
	Name   BindVar
	Mode   DataMode
	Memory *Var          // explicit `(memory $m)`, active mode only
	Offset []Instruction // active mode only
	Bytes  []byte
}

func (d *DataSegment) Kind() ModuleItemKind   { return ItemDataSegment }
func (d *DataSegment) SourceSpan() token.Span { return d.Span }

// Module is the top-level text-form module: a name plus an ordered list
// of items. Per spec.md §3, after the desugarer runs, inline imports'
// equivalents sort before all non-import items.
type Module struct {
	Span  token.Span
	Name  BindVar
	Items []ModuleItem
}

// Functions returns the module's function items in declaration order.
func (m *Module) Functions() []*Function {
	var out []*Function
	for _, item := range m.Items {
		if f, ok := item.(*Function); ok {
			out = append(out, f)
		}
	}
	return out
}

// Imports returns the module's import items in declaration order.
func (m *Module) Imports() []*Import {
	var out []*Import
	for _, item := range m.Items {
		if i, ok := item.(*Import); ok {
			out = append(out, i)
		}
	}
	return out
}

// Types returns the module's type-section entries in declaration order.
func (m *Module) Types() []*TypeEntry {
	var out []*TypeEntry
	for _, item := range m.Items {
		if t, ok := item.(*TypeEntry); ok {
			out = append(out, t)
		}
	}
	return out
}
