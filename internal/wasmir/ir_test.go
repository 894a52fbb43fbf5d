package wasmir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFunctionPrePopulatesArgumentLocals(t *testing.T) {
	symbols := []string{"start", "x", "y"}
	fn := NewFunction(0, symbols, nil, []int{1, 2})

	require.Equal(t, 2, fn.Arguments)
	assert.Equal(t, []string{"$x", "$y"}, fn.Locals)
	assert.Equal(t, 0, fn.NameToLocal["x"])
	assert.Equal(t, 1, fn.NameToLocal["y"])
}

func TestDeclareLocalDeduplicatesByName(t *testing.T) {
	fn := NewFunction(0, []string{"start", "x"}, nil, []int{1})
	idx1 := fn.DeclareLocal("x")
	idx2 := fn.DeclareLocal("z")
	idx3 := fn.DeclareLocal("x")

	assert.Equal(t, 0, idx1)
	assert.Equal(t, 1, idx2)
	assert.Equal(t, idx1, idx3)
	assert.Len(t, fn.Locals, 2)
}

func TestEmitAppendsParallelSlices(t *testing.T) {
	fn := NewFunction(0, []string{"start"}, []string{"5"}, nil)
	fn.Emit(I64Const, []OperandKind{IntLiteral}, []int{0})
	fn.Emit(I64Add, nil, nil)

	require.Len(t, fn.Instructions, 2)
	require.Len(t, fn.OperandKinds, 2)
	require.Len(t, fn.Operands, 2)
	assert.Equal(t, I64Const, fn.Instructions[0])
	assert.Equal(t, []OperandKind{IntLiteral}, fn.OperandKinds[0])
	assert.Equal(t, []int{0}, fn.Operands[0])
}

func TestAllocLabelsReturnsConsecutiveIncreasingValues(t *testing.T) {
	fn := NewFunction(0, []string{"start"}, nil, nil)
	first := fn.AllocLabels(2)
	second := fn.AllocLabels(1)

	assert.Equal(t, 0, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 3, fn.NextLabel)
}

func TestNewProgramStartsEmpty(t *testing.T) {
	prog := NewProgram()
	assert.Empty(t, prog.Functions)
	assert.NotNil(t, prog.NameToFunction)
}
