package reader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/diag"
)

func TestReadMemArgRejectsNonPowerOfTwoAlignment(t *testing.T) {
	src := `(module (func $f i32.load align=3))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "Alignment must be a power of two, got 3", sink.Errors()[0].Message)
}

func TestReadValueTypeRejectsDisabledFeature(t *testing.T) {
	src := `(module (type (func (param v128))))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "value type v128 not allowed", sink.Errors()[0].Message)
}

func TestReadInstructionRejectsDisabledFeature(t *testing.T) {
	src := `(module (func $f (result i32) i32.const 0 table.get 0))`
	sink := diag.New()
	_, err := New([]byte(src), nil, sink).ReadModule()
	require.Error(t, err)
	require.True(t, sink.HasError())
	require.Equal(t, "table.get instruction not allowed", sink.Errors()[0].Message)
}
