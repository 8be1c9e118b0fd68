package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
	"github.com/yuri91/wasp/lib/reader"
)

func TestResolveModuleRewritesCallToIndex(t *testing.T) {
	src := `(module
		(func $a (result i32) i32.const 1)
		(func $b (result i32) call $a))`

	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)

	New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())

	callInstr := mod.Functions()[1].Body[0]
	require.Equal(t, "call", callInstr.Opcode.String())
	v, ok := callInstr.Immediate.(ast.Var)
	require.True(t, ok)
	require.True(t, v.IsIndex())
	require.Equal(t, uint32(0), v.Idx)
}

func TestResolveModuleReportsUndefinedVariable(t *testing.T) {
	src := `(module (func $f call $missing))`
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)

	New(sink).ResolveModule(mod)
	require.True(t, sink.HasError())
}

func TestResolveLocalGetAgainstParam(t *testing.T) {
	src := `(module (func $f (param $x i32) (result i32) local.get $x))`
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)

	New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())
}

func TestResolveLabelDepth(t *testing.T) {
	src := `(module (func $f
		(block $outer
			(block $inner
				br $outer))))`
	sink := diag.New()
	mod, err := reader.New([]byte(src), nil, sink).ReadModule()
	require.NoError(t, err)

	New(sink).ResolveModule(mod)
	require.False(t, sink.HasError())

	body := mod.Functions()[0].Body
	// block outer, block inner, br $outer, end, end
	require.Len(t, body, 5)
	require.Equal(t, "br", body[2].Opcode.String())
}
