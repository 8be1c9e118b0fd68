package reader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
)

func TestReadModuleParsesItems(t *testing.T) {
	src := `(module
		(type $t (func (param i32) (result i32)))
		(func $double (param $x i32) (result i32)
			local.get $x
			local.get $x
			i32.add)
		(memory $m 1)
		(export "double" (func $double)))`

	sink := diag.New()
	mod, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	require.Len(t, mod.Types(), 1)
	funcs := mod.Functions()
	require.Len(t, funcs, 1)
	require.Equal(t, "double", funcs[0].Name.Name)
	require.Len(t, funcs[0].Params, 1)
	require.Equal(t, "x", funcs[0].Params[0].Name.Name)
	require.Len(t, funcs[0].Body, 3)
}

func TestReadModuleFoldedInstructionsFlatten(t *testing.T) {
	src := `(module (func $f (result i32)
		(i32.add (i32.const 1) (i32.const 2))))`

	sink := diag.New()
	mod, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	body := mod.Functions()[0].Body
	require.Len(t, body, 3)
	require.Equal(t, "i32.const", body[0].Opcode.String())
	require.Equal(t, "i32.const", body[1].Opcode.String())
	require.Equal(t, "i32.add", body[2].Opcode.String())
}

func TestReadModuleBlockProducesEndMarker(t *testing.T) {
	src := `(module (func $f
		(block $b
			br $b)))`

	sink := diag.New()
	mod, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	body := mod.Functions()[0].Body
	require.Len(t, body, 3)
	require.Equal(t, "block", body[0].Opcode.String())
	require.Equal(t, "br", body[1].Opcode.String())
	require.Equal(t, "end", body[2].Opcode.String())
}

func TestReadModuleInlineImportExport(t *testing.T) {
	src := `(module
		(func $f (import "env" "f") (param i32))
		(table $tb (export "tb") 1 2 funcref))`

	sink := diag.New()
	mod, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	funcs := mod.Functions()
	require.Len(t, funcs, 1)
	require.NotNil(t, funcs[0].InlineImport)
	require.Equal(t, "env", funcs[0].InlineImport.Module)

	var table *ast.Table
	for _, it := range mod.Items {
		if tb, ok := it.(*ast.Table); ok {
			table = tb
		}
	}
	require.NotNil(t, table)
	require.Equal(t, []string{"tb"}, table.InlineExports)
}

func TestReadModuleReportsErrorOnBadItem(t *testing.T) {
	src := `(module (bogus 1 2 3) (func $f))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
}

// TestReadModuleRejectsMismatchedEndLabel is seed scenario 6 (spec.md §8):
// an end-label that names something other than the opening label is a
// diagnostic at the closing label's own span.
func TestReadModuleRejectsMismatchedEndLabel(t *testing.T) {
	src := `(module (func $f block $l nop end $l2))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "Expected label $l, got $l2", sink.Errors()[0].Message)
}

func TestReadModuleRejectsUnexpectedEndLabelOnAnonymousBlock(t *testing.T) {
	src := `(module (func $f block nop end $l))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.Equal(t, "Unexpected label $l", sink.Errors()[0].Message)
}

func TestReadModuleAcceptsMatchingEndLabel(t *testing.T) {
	src := `(module (func $f block $l nop end $l))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())
}

func TestReadModuleRejectsImportAfterNonImport(t *testing.T) {
	src := `(module
		(func $f (result i32) i32.const 0)
		(func $g (import "env" "g") (param i32)))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "Imports must occur before all non-import definitions", sink.Errors()[0].Message)
}

func TestReadModuleAcceptsImportsBeforeDefinitions(t *testing.T) {
	src := `(module
		(func $g (import "env" "g") (param i32))
		(func $f (result i32) i32.const 0))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	require.False(t, sink.HasError())
}

func TestReadModuleRejectsMultipleStarts(t *testing.T) {
	src := `(module (func $f) (start $f) (start $f))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "Multiple start functions", sink.Errors()[0].Message)
}
