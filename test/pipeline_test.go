// Package test runs the front end end to end against a handful of
// representative modules, the package-level equivalent of the teacher's
// directory-driven fixture comparison in test/test.go.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/binary"
	"github.com/yuri91/wasp/lib/desugar"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/printer"
	"github.com/yuri91/wasp/lib/reader"
	"github.com/yuri91/wasp/lib/resolve"
	"github.com/yuri91/wasp/lib/sexp"
)

func renderModule(t *testing.T, src string) string {
	t.Helper()
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	resolve.New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())
	desugar.New(sink).DesugarModule(mod)
	require.False(t, sink.HasError())
	return printer.Module(mod)
}

func TestPipelineExportedAdder(t *testing.T) {
	out := renderModule(t, `(module
		(func $add (export "add") (param $a i32) (param $b i32) (result i32)
			local.get $a
			local.get $b
			i32.add))`)

	require.Contains(t, out, "(param i32 i32)")
	require.Contains(t, out, "(result i32)")
	require.Contains(t, out, "local.get 0 local.get 1 i32.add")
	require.Contains(t, out, `(export "add" (func 0))`)
	require.Contains(t, out, "(type (func (param i32 i32) (result i32)))")
}

func TestPipelineImportedFunctionResolvesCall(t *testing.T) {
	src := `(module
		(func $log (import "env" "log") (param i32))
		(func $main
			i32.const 1
			call $log))`

	out := renderModule(t, src)
	require.Contains(t, out, `(import "env" "log" (func`)
	require.Contains(t, out, "call 0")
}

func TestPipelineTableWithInlineElement(t *testing.T) {
	src := `(module
		(func $a (result i32) i32.const 1)
		(func $b (result i32) i32.const 2)
		(table $t funcref (elem $a $b)))`

	out := renderModule(t, src)
	require.Contains(t, out, "(elem (table 0) (offset i32.const 0) 0 1)")
}

func TestPipelineRejectsUndefinedLabel(t *testing.T) {
	sink := diag.New()
	src := `(module (func $f (block $b br $missing)))`
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)

	resolve.New(sink).ResolveModule(mod)
	require.True(t, sink.HasError())
}

// TestSeedScenarioEmptyModuleEncodesToHeaderOnly exercises seed scenario 1
// (spec.md §8) end to end: an empty module desugars to an empty item list,
// and the only bytes the binary-encoder stub has anything to say about for
// it are the eight-byte preamble.
func TestSeedScenarioEmptyModuleEncodesToHeaderOnly(t *testing.T) {
	sink := diag.New()
	mod, err := reader.New([]byte("(module)"), nil, sink).ReadModule()
	require.NoError(t, err)
	resolve.New(sink).ResolveModule(mod)
	desugar.New(sink).DesugarModule(mod)
	require.False(t, sink.HasError())
	require.Empty(t, mod.Items)

	require.Equal(t,
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		binary.EncodeHeader(1),
	)
}

// TestPipelineCanonicalFormToleratesItemReordering exercises spec.md §8's
// round-trip law 4: the canonical render of a module is only defined up
// to item order (the desugarer appends deferred implicit types at the
// end, so a hand-written expectation naturally lists items differently
// than the pipeline does). lib/sexp's structural comparison is built
// exactly to absorb that difference.
func TestPipelineCanonicalFormToleratesItemReordering(t *testing.T) {
	out := renderModule(t, `(module
		(type (func))
		(global i32 i32.const 0)
		(memory 1)
		(func (type 0)))`)

	expected := `(module
		(type (func))
		(func (type 0))
		(memory (limits 1))
		(global i32 i32.const 0))`

	ok, err := sexp.EqualText(out, expected)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPipelineScriptParsesAssertReturn(t *testing.T) {
	sink := diag.New()
	src := `(assert_return (invoke "add" (i32.const 1) (i32.const 2)) (i32.const 3))`
	script, err := reader.New([]byte(src), nil, sink).ReadScript()
	require.NoError(t, err)
	require.False(t, sink.HasError())
	require.Len(t, script.Commands, 1)
}
