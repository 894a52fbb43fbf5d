package wasmrun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/pywasmc/internal/wasmbin"
	"github.com/lhaig/pywasmc/internal/wasmir"
)

func TestRunExecutesLiteralReturn(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, []string{"42"}, nil)
	fn.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{0})
	prog := &wasmir.Program{Functions: []*wasmir.Function{fn}, NameToFunction: map[string]int{"start": 0}}

	binary, err := wasmbin.Generate(prog, "start")
	require.NoError(t, err)

	value, err := Run(context.Background(), binary)
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestRunExecutesArithmetic(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, []string{"5", "10"}, nil)
	fn.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{0})
	fn.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{1})
	fn.Emit(wasmir.I64Add, nil, nil)
	prog := &wasmir.Program{Functions: []*wasmir.Function{fn}, NameToFunction: map[string]int{"start": 0}}

	binary, err := wasmbin.Generate(prog, "start")
	require.NoError(t, err)

	value, err := Run(context.Background(), binary)
	require.NoError(t, err)
	assert.Equal(t, int64(15), value)
}

func TestRunRejectsInvalidBinary(t *testing.T) {
	_, err := Run(context.Background(), []byte("not a wasm module"))
	assert.Error(t, err)
}
