package desugar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/reader"
	"github.com/yuri91/wasp/lib/resolve"
)

func readResolveDesugar(t *testing.T, src string) *ast.Module {
	t.Helper()
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	resolve.New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())
	New(sink).DesugarModule(mod)
	require.False(t, sink.HasError())
	return mod
}

func TestDesugarSplitsInlineImport(t *testing.T) {
	mod := readResolveDesugar(t, `(module (func $f (import "env" "f") (param i32)))`)

	var imports []*ast.Import
	var funcs []*ast.Function
	for _, it := range mod.Items {
		switch v := it.(type) {
		case *ast.Import:
			imports = append(imports, v)
		case *ast.Function:
			funcs = append(funcs, v)
		}
	}
	require.Len(t, imports, 1)
	require.Empty(t, funcs)
	require.Equal(t, "env", imports[0].Module)
	require.Equal(t, ast.ExternFunc, imports[0].Desc.ExternKind)
}

func TestDesugarSplitsInlineExport(t *testing.T) {
	mod := readResolveDesugar(t, `(module (func $f (export "f") (result i32) i32.const 0))`)

	var exports []*ast.Export
	for _, it := range mod.Items {
		if e, ok := it.(*ast.Export); ok {
			exports = append(exports, e)
		}
	}
	require.Len(t, exports, 1)
	require.Equal(t, "f", exports[0].Name)
	require.True(t, exports[0].Desc.Index.IsIndex())
	require.Equal(t, uint32(0), exports[0].Desc.Index.Idx)
}

func TestDesugarLowersInlineTableElement(t *testing.T) {
	mod := readResolveDesugar(t, `(module
		(func $a (result i32) i32.const 1)
		(func $b (result i32) i32.const 2)
		(table $t funcref (elem $a $b)))`)

	var segs []*ast.ElementSegment
	for _, it := range mod.Items {
		if e, ok := it.(*ast.ElementSegment); ok {
			segs = append(segs, e)
		}
	}
	require.Len(t, segs, 1)
	require.Equal(t, ast.ElementActive, segs[0].Mode)
	require.Len(t, segs[0].Funcs, 2)
}

func TestDesugarInternsImplicitFunctionType(t *testing.T) {
	mod := readResolveDesugar(t, `(module
		(func $a (param i32) (result i32) local.get 0)
		(func $b (param i32) (result i32) local.get 0))`)

	types := mod.Types()
	require.Len(t, types, 1, "both functions share a structurally identical inline type")

	funcs := mod.Functions()
	require.True(t, funcs[0].TypeUse.Type.IsIndex())
	require.True(t, funcs[1].TypeUse.Type.IsIndex())
	require.Equal(t, funcs[0].TypeUse.Type.Idx, funcs[1].TypeUse.Type.Idx)
}
