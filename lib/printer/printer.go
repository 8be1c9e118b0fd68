// Package printer renders a desugared Module back to a canonical flat
// text form, adapted from the teacher's Code.ConvertToWat recursive
// unparser (lib/core/expression.go) but working over the resolved/
// desugared ast.Module shape instead of the binary-decoded one.
package printer

import (
	"fmt"
	"strings"

	"github.com/yuri91/wasp/lib/ast"
)

// Module renders mod's items, one per line, in declaration order. It is
// meant for diagnostic/CLI output, not as a re-parseable serialization.
func Module(mod *ast.Module) string {
	var out strings.Builder
	fmt.Fprintf(&out, "(module%s\n", nameSuffix(mod.Name))
	for _, it := range mod.Items {
		out.WriteString("  ")
		out.WriteString(renderItem(it))
		out.WriteByte('\n')
	}
	out.WriteString(")\n")
	return out.String()
}

func nameSuffix(b ast.BindVar) string {
	if b.IsAnonymous() {
		return ""
	}
	return " $" + b.Name
}

func renderItem(it ast.ModuleItem) string {
	switch v := it.(type) {
	case *ast.TypeEntry:
		return fmt.Sprintf("(type%s %s)", nameSuffix(v.Name), functionType(v.Type))
	case *ast.Import:
		return fmt.Sprintf("(import %q %q %s)", v.Module, v.Name, importDesc(v.Desc))
	case *ast.Function:
		return function(v)
	case *ast.Table:
		return fmt.Sprintf("(table%s (limits %s) %s)", nameSuffix(v.Name), limits(v.Type.Limits), v.Type.Element)
	case *ast.Memory:
		return fmt.Sprintf("(memory%s (limits %s))", nameSuffix(v.Name), limits(v.Type))
	case *ast.Global:
		return fmt.Sprintf("(global%s %s %s)", nameSuffix(v.Name), globalType(v.Type), instrList(v.Init))
	case *ast.Event:
		return fmt.Sprintf("(event%s %s)", nameSuffix(v.Name), typeUse(v.TypeUse))
	case *ast.Export:
		return fmt.Sprintf("(export %q (%s %s))", v.Name, externKind(v.Desc.ExternKind), varStr(v.Desc.Index))
	case *ast.Start:
		return fmt.Sprintf("(start %s)", varStr(v.Func))
	case *ast.ElementSegment:
		return elementSegment(v)
	case *ast.DataSegment:
		return dataSegment(v)
	default:
		return "(unknown-item)"
	}
}

func function(f *ast.Function) string {
	var out strings.Builder
	fmt.Fprintf(&out, "(func%s %s", nameSuffix(f.Name), typeUse(f.TypeUse))
	for _, l := range f.Locals {
		fmt.Fprintf(&out, " (local%s %s)", nameSuffix(l.Name), l.Type)
	}
	if len(f.Body) > 0 {
		out.WriteByte(' ')
		out.WriteString(instrList(f.Body))
	}
	out.WriteByte(')')
	return out.String()
}

func functionType(ft ast.FunctionType) string {
	var out strings.Builder
	out.WriteString("(func")
	if len(ft.Params) > 0 {
		out.WriteString(" (param")
		for _, p := range ft.Params {
			fmt.Fprintf(&out, " %s", p)
		}
		out.WriteByte(')')
	}
	if len(ft.Results) > 0 {
		out.WriteString(" (result")
		for _, r := range ft.Results {
			fmt.Fprintf(&out, " %s", r)
		}
		out.WriteByte(')')
	}
	out.WriteByte(')')
	return out.String()
}

func typeUse(use ast.FunctionTypeUse) string {
	if use.Type == nil {
		return "(type ?)"
	}
	s := fmt.Sprintf("(type %s)", varStr(*use.Type))
	if use.Inline != nil {
		s += " " + functionType(*use.Inline)
	}
	return s
}

func importDesc(desc ast.ImportDesc) string {
	switch desc.ExternKind {
	case ast.ExternFunc:
		return fmt.Sprintf("(func%s %s)", nameSuffix(desc.Name), typeUse(*desc.Func))
	case ast.ExternTable:
		return fmt.Sprintf("(table%s (limits %s) %s)", nameSuffix(desc.Name), limits(desc.Table.Limits), desc.Table.Element)
	case ast.ExternMemory:
		return fmt.Sprintf("(memory%s (limits %s))", nameSuffix(desc.Name), limits(*desc.Memory))
	case ast.ExternGlobal:
		return fmt.Sprintf("(global%s %s)", nameSuffix(desc.Name), globalType(*desc.Global))
	case ast.ExternEvent:
		return fmt.Sprintf("(event%s %s)", nameSuffix(desc.Name), typeUse(*desc.Func))
	default:
		return "(unknown-import)"
	}
}

func globalType(gt ast.GlobalType) string {
	if gt.Mutable {
		return fmt.Sprintf("(mut %s)", gt.Value)
	}
	return gt.Value.String()
}

func limits(l ast.Limits) string {
	if l.HasMax {
		return fmt.Sprintf("%d %d", l.Min, l.Max)
	}
	return fmt.Sprintf("%d", l.Min)
}

func externKind(k ast.ExternalKind) string {
	switch k {
	case ast.ExternFunc:
		return "func"
	case ast.ExternTable:
		return "table"
	case ast.ExternMemory:
		return "memory"
	case ast.ExternGlobal:
		return "global"
	case ast.ExternEvent:
		return "event"
	default:
		return "unknown"
	}
}

func varStr(v ast.Var) string {
	if v.IsIndex() {
		return fmt.Sprintf("%d", v.Idx)
	}
	return "$" + v.Name
}

func elementSegment(e *ast.ElementSegment) string {
	var out strings.Builder
	out.WriteString("(elem")
	if e.Table != nil {
		fmt.Fprintf(&out, " (table %s)", varStr(*e.Table))
	}
	if len(e.Offset) > 0 {
		fmt.Fprintf(&out, " (offset %s)", instrList(e.Offset))
	}
	for _, f := range e.Funcs {
		fmt.Fprintf(&out, " %s", varStr(f))
	}
	out.WriteByte(')')
	return out.String()
}

func dataSegment(d *ast.DataSegment) string {
	var out strings.Builder
	out.WriteString("(data")
	if d.Memory != nil {
		fmt.Fprintf(&out, " (memory %s)", varStr(*d.Memory))
	}
	if len(d.Offset) > 0 {
		fmt.Fprintf(&out, " (offset %s)", instrList(d.Offset))
	}
	fmt.Fprintf(&out, " %q", d.Bytes)
	out.WriteByte(')')
	return out.String()
}

// instrList renders a flattened instruction list as a flat, space-
// separated sequence (the structural End/Else/Catch markers print as
// their own mnemonic, matching the binary format's explicit End opcode).
func instrList(instrs []ast.Instruction) string {
	parts := make([]string, len(instrs))
	for i, in := range instrs {
		parts[i] = instr(in)
	}
	return strings.Join(parts, " ")
}

func instr(in ast.Instruction) string {
	switch imm := in.Immediate.(type) {
	case nil:
		return in.Opcode.String()
	case ast.Var:
		return fmt.Sprintf("%s %s", in.Opcode, varStr(imm))
	case ast.BlockImmediate:
		return fmt.Sprintf("%s%s %s", in.Opcode, nameSuffix(imm.Label), typeUse(imm.TypeUse))
	case ast.BrTableImmediate:
		var b strings.Builder
		b.WriteString("br_table")
		for _, t := range imm.Targets {
			fmt.Fprintf(&b, " %s", varStr(t))
		}
		fmt.Fprintf(&b, " %s", varStr(imm.Default))
		return b.String()
	default:
		return fmt.Sprintf("%s %v", in.Opcode, imm)
	}
}
