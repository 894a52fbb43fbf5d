package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionBuildsBinaryOpSideTable(t *testing.T) {
	fn := &Function{Symbols: []string{"start", "x"}, Ints: []string{"5", "10"}}
	left := fn.NewSymbol(1)
	right := fn.NewInt(0)
	bin := fn.NewBinaryOp(Add, left, right)

	require.Equal(t, ExprBinaryOp, fn.Kinds[bin])
	row := fn.Indices[bin]
	assert.Equal(t, Add, fn.BinaryOps.Ops[row])
	assert.Equal(t, left, fn.BinaryOps.Lefts[row])
	assert.Equal(t, right, fn.BinaryOps.Rights[row])
}

func TestFunctionAssignRecordsNameAndValue(t *testing.T) {
	fn := &Function{Symbols: []string{"start", "x"}}
	sym := fn.NewSymbol(1)
	val := fn.NewInt(0)
	fn.Ints = []string{"1"}
	assign := fn.NewAssign(sym, val)

	assert.Equal(t, ExprAssign, fn.Kinds[assign])
	row := fn.Indices[assign]
	assert.Equal(t, sym, fn.Assignments.Names[row])
	assert.Equal(t, val, fn.Assignments.Values[row])
}

func TestFunctionCallRecordsParametersInOrder(t *testing.T) {
	fn := &Function{Symbols: []string{"start", "square"}, Ints: []string{"2", "3"}}
	callee := fn.NewSymbol(1)
	a := fn.NewInt(0)
	b := fn.NewInt(1)
	call := fn.NewFunctionCall(callee, []int{a, b})

	row := fn.Indices[call]
	assert.Equal(t, callee, fn.FunctionCalls.Names[row])
	assert.Equal(t, []int{a, b}, fn.FunctionCalls.Parameters[row])
}

func TestFunctionIfTracksThenAndElseBranchesSeparately(t *testing.T) {
	fn := &Function{Symbols: []string{"start"}, Ints: []string{"1", "0"}}
	cond := fn.NewInt(0)
	thenExpr := fn.NewInt(0)
	elseExpr := fn.NewInt(1)
	ifExpr := fn.NewIf(cond, []int{thenExpr}, []int{elseExpr})

	row := fn.Indices[ifExpr]
	assert.Equal(t, []int{thenExpr}, fn.Ifs.ThenBranches[row])
	assert.Equal(t, []int{elseExpr}, fn.Ifs.ElseBranches[row])
}

func TestFunctionWhileTracksConditionAndBody(t *testing.T) {
	fn := &Function{Symbols: []string{"start", "i"}, Ints: []string{"10"}}
	sym := fn.NewSymbol(1)
	limit := fn.NewInt(0)
	cond := fn.NewBinaryOp(Lt, sym, limit)
	body := fn.NewSymbol(1)
	loop := fn.NewWhile(cond, []int{body})

	row := fn.Indices[loop]
	assert.Equal(t, cond, fn.Whiles.Conditionals[row])
	assert.Equal(t, []int{body}, fn.Whiles.Bodies[row])
}

func TestProgramAddFunctionPanicsOnDuplicateName(t *testing.T) {
	prog := NewProgram()
	prog.AddFunction("start", &Function{Symbols: []string{"start"}})
	assert.Panics(t, func() {
		prog.AddFunction("start", &Function{Symbols: []string{"start"}})
	})
}

func TestProgramLookupMissingReturnsNil(t *testing.T) {
	prog := NewProgram()
	assert.Nil(t, prog.Lookup("missing"))
}

func TestExprKindAndBinOpStringers(t *testing.T) {
	assert.Equal(t, "BinaryOp", ExprBinaryOp.String())
	assert.Equal(t, "+", Add.String())
	assert.Equal(t, "<=", Le.String())
}
