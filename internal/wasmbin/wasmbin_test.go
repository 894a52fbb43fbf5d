package wasmbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/pywasmc/internal/wasmir"
)

func TestEncodeLEB128UnsignedSmallValues(t *testing.T) {
	assert.Equal(t, []byte{0}, encodeLEB128U(0))
	assert.Equal(t, []byte{0x7F}, encodeLEB128U(127))
	assert.Equal(t, []byte{0x80, 0x01}, encodeLEB128U(128))
}

func TestEncodeLEB128SignedNegativeValue(t *testing.T) {
	// -1 encodes as a single byte with the sign bit set, per the LEB128
	// signed format.
	assert.Equal(t, []byte{0x7F}, encodeLEB128S(-1))
}

func TestGenerateProducesValidHeader(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, []string{"0"}, nil)
	fn.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{0})
	prog := &wasmir.Program{Functions: []*wasmir.Function{fn}, NameToFunction: map[string]int{"start": 0}}

	binary, err := Generate(prog, "start")
	require.NoError(t, err)
	require.True(t, len(binary) > 8)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D}, binary[0:4])
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, binary[4:8])
}

func TestGenerateUnknownEntryErrors(t *testing.T) {
	prog := wasmir.NewProgram()
	_, err := Generate(prog, "missing")
	assert.Error(t, err)
}

func TestEncodeBodyAppliesSingleLengthPrefix(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, []string{"7"}, nil)
	fn.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{0})

	body := encodeBody(fn)
	// body ends with opEnd and is not itself length-prefixed; the caller
	// applies the single length prefix when assembling the code section.
	assert.Equal(t, opEnd, body[len(body)-1])
}

func TestEncodeInstructionBrIfTargetsDepthOneBrTargetsDepthZero(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, nil, nil)
	brIf := encodeInstruction(fn, wasmir.BrIf, []int{0})
	br := encodeInstruction(fn, wasmir.Br, []int{1})

	assert.Equal(t, []byte{opBrIf, 0x01}, brIf)
	assert.Equal(t, []byte{opBr, 0x00}, br)
}

func TestEncodeInstructionI64ConstParsesIntTableEntry(t *testing.T) {
	fn := wasmir.NewFunction(0, []string{"start"}, []string{"300"}, nil)
	encoded := encodeInstruction(fn, wasmir.I64Const, []int{0})
	assert.Equal(t, []byte{opI64Const, 0xAC, 0x02}, encoded)
}
