package reader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/ast"
	"github.com/yuri91/wasp/lib/diag"
)

func TestReadScriptModuleThenInvokeThenAssertReturn(t *testing.T) {
	src := `
		(module $m (func (export "double") (param $x i32) (result i32)
			local.get $x
			local.get $x
			i32.add))
		(assert_return (invoke "double" (i32.const 21)) (i32.const 42))`

	sink := diag.New()
	script, err := New([]byte(src), nil, sink).ReadScript()
	require.NoError(t, err)
	require.False(t, sink.HasError())
	require.Len(t, script.Commands, 2)

	modCmd, ok := script.Commands[0].(*ast.ModuleCommand)
	require.True(t, ok)
	require.Equal(t, "m", modCmd.Module.Name.Name)

	assertion, ok := script.Commands[1].(*ast.ReturnAssertion)
	require.True(t, ok)
	require.Equal(t, ast.ActionInvoke, assertion.Action.Kind)
	require.Equal(t, "double", assertion.Action.Name)
	require.Len(t, assertion.Action.Args, 1)
	require.Equal(t, uint64(21), assertion.Action.Args[0].Bits)
	require.Len(t, assertion.Results, 1)
	require.Equal(t, ast.ResultExact, assertion.Results[0].Kind)
	require.Equal(t, uint64(42), assertion.Results[0].Exact.Bits)
}

func TestReadScriptRegisterReferencesLastModule(t *testing.T) {
	src := `(module) (register "env")`
	sink := diag.New()
	script, err := New([]byte(src), nil, sink).ReadScript()
	require.NoError(t, err)
	require.False(t, sink.HasError())
	require.Len(t, script.Commands, 2)

	reg, ok := script.Commands[1].(*ast.RegisterCommand)
	require.True(t, ok)
	require.Equal(t, "env", reg.Name)
	require.Nil(t, reg.Module)
}

func TestReadScriptAssertTrapOnAction(t *testing.T) {
	src := `(assert_trap (invoke "boom") "unreachable")`
	sink := diag.New()
	script, err := New([]byte(src), nil, sink).ReadScript()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	trap, ok := script.Commands[0].(*ast.ActionTrapAssertion)
	require.True(t, ok)
	require.Equal(t, "boom", trap.Action.Name)
	require.Equal(t, "unreachable", trap.Message)
}

func TestReadScriptAssertMalformed(t *testing.T) {
	src := `(assert_malformed (module binary "\00asm") "bad magic")`
	sink := diag.New()
	script, err := New([]byte(src), nil, sink).ReadScript()
	require.NoError(t, err)
	require.False(t, sink.HasError())

	mal, ok := script.Commands[0].(*ast.MalformedAssertion)
	require.True(t, ok)
	require.True(t, mal.Source.Binary)
	require.Equal(t, "bad magic", mal.Message)
}
