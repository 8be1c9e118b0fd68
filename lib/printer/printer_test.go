package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/desugar"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/reader"
	"github.com/yuri91/wasp/lib/resolve"
)

func pipeline(t *testing.T, src string) string {
	t.Helper()
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)
	resolve.New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())
	desugar.New(sink).DesugarModule(mod)
	require.False(t, sink.HasError())
	return Module(mod)
}

func TestModuleRendersNameAndFunction(t *testing.T) {
	out := pipeline(t, `(module $m (func $f (param $x i32) (result i32) local.get $x))`)

	require.True(t, strings.HasPrefix(out, "(module $m\n"))
	require.Contains(t, out, "(func $f")
	require.Contains(t, out, "(param i32)")
	require.Contains(t, out, "(result i32)")
	require.Contains(t, out, "local.get 0")
	require.True(t, strings.HasSuffix(out, ")\n"))
}

func TestModuleRendersImplicitTypeEntry(t *testing.T) {
	out := pipeline(t, `(module (func (param i32) (result i32) local.get 0))`)

	require.Contains(t, out, "(type (func (param i32) (result i32)))")
}

func TestModuleRendersMemoryAndExport(t *testing.T) {
	out := pipeline(t, `(module (memory $mem 1 2) (export "mem" (memory $mem)))`)

	require.Contains(t, out, "(memory $mem (limits 1 2))")
	require.Contains(t, out, `(export "mem" (memory 0))`)
}

func TestModuleRendersAnonymousItemsWithoutNameSuffix(t *testing.T) {
	out := pipeline(t, `(module (memory 1))`)

	require.Contains(t, out, "(memory (limits 1))")
	require.NotContains(t, out, "(memory $")
}
