package codegen

import (
	"github.com/lhaig/pywasmc/internal/ast"
	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/wasmir"
)

// walker is the tree-shaped fold from one ast.Function to wasmir
// instructions. It only ever appends; it never rewrites an earlier
// position.
type walker struct {
	ast  *ast.Function
	wasm *wasmir.Function

	// spawn is the driver's message channel; a FunctionCall posts
	// Spawn(name) here for the driver to dedup and schedule.
	spawn chan<- message
}

func (w *walker) walkAll(exprs []int) error {
	for _, e := range exprs {
		if err := w.walk(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walk(e int) error {
	kind := w.ast.Kinds[e]
	row := w.ast.Indices[e]

	switch kind {
	case ast.ExprInt:
		w.wasm.Emit(wasmir.I64Const, []wasmir.OperandKind{wasmir.IntLiteral}, []int{row})
		return nil

	case ast.ExprSymbol:
		name := w.ast.Symbols[row]
		local, ok := w.wasm.NameToLocal[name]
		if !ok {
			return &diagnostic.CodegenError{Kind: diagnostic.UnboundSymbol, Text: name}
		}
		w.wasm.Emit(wasmir.GetLocal, []wasmir.OperandKind{wasmir.Local}, []int{local})
		return nil

	case ast.ExprBinaryOp:
		if err := w.walk(w.ast.BinaryOps.Lefts[row]); err != nil {
			return err
		}
		if err := w.walk(w.ast.BinaryOps.Rights[row]); err != nil {
			return err
		}
		op, err := binOpcode(w.ast.BinaryOps.Ops[row])
		if err != nil {
			return err
		}
		w.wasm.Emit(op, nil, nil)
		return nil

	case ast.ExprAssign:
		if err := w.walk(w.ast.Assignments.Values[row]); err != nil {
			return err
		}
		nameExpr := w.ast.Assignments.Names[row]
		name := w.ast.Symbols[w.ast.Indices[nameExpr]]
		local := w.wasm.DeclareLocal(name)
		w.wasm.Emit(wasmir.SetLocal, []wasmir.OperandKind{wasmir.Local}, []int{local})
		return nil

	case ast.ExprFunctionCall:
		for _, param := range w.ast.FunctionCalls.Parameters[row] {
			if err := w.walk(param); err != nil {
				return err
			}
		}
		nameExpr := w.ast.FunctionCalls.Names[row]
		symIdx := w.ast.Indices[nameExpr]
		w.wasm.Emit(wasmir.Call, []wasmir.OperandKind{wasmir.Symbol}, []int{symIdx})
		w.spawn <- message{kind: msgSpawn, name: w.ast.Symbols[symIdx]}
		return nil

	case ast.ExprIf:
		if err := w.walk(w.ast.Ifs.Conditionals[row]); err != nil {
			return err
		}
		w.wasm.Emit(wasmir.If, nil, nil)
		if err := w.walkAll(w.ast.Ifs.ThenBranches[row]); err != nil {
			return err
		}
		w.wasm.Emit(wasmir.Else, nil, nil)
		if err := w.walkAll(w.ast.Ifs.ElseBranches[row]); err != nil {
			return err
		}
		w.wasm.Emit(wasmir.End, nil, nil)
		return nil

	case ast.ExprWhile:
		block := w.wasm.AllocLabels(2)
		loop := block + 1

		w.wasm.Emit(wasmir.Block, []wasmir.OperandKind{wasmir.Label}, []int{block})
		w.wasm.Emit(wasmir.Loop, []wasmir.OperandKind{wasmir.Label}, []int{loop})
		if err := w.walk(w.ast.Whiles.Conditionals[row]); err != nil {
			return err
		}
		w.wasm.Emit(wasmir.I32Eqz, nil, nil)
		w.wasm.Emit(wasmir.BrIf, []wasmir.OperandKind{wasmir.Label}, []int{block})
		if err := w.walkAll(w.ast.Whiles.Bodies[row]); err != nil {
			return err
		}
		w.wasm.Emit(wasmir.Br, []wasmir.OperandKind{wasmir.Label}, []int{loop})
		w.wasm.Emit(wasmir.End, []wasmir.OperandKind{wasmir.Label}, []int{loop})
		w.wasm.Emit(wasmir.End, []wasmir.OperandKind{wasmir.Label}, []int{block})
		return nil

	case ast.ExprGrouping:
		return w.walk(w.ast.Groupings.Children[row])

	default:
		return &diagnostic.CodegenError{Kind: diagnostic.UnsupportedExpression, Text: kind.String()}
	}
}

func binOpcode(op ast.BinOp) (wasmir.Op, error) {
	switch op {
	case ast.Add:
		return wasmir.I64Add, nil
	case ast.Sub:
		return wasmir.I64Sub, nil
	case ast.Mul:
		return wasmir.I64Mul, nil
	case ast.Div:
		return wasmir.I64DivS, nil
	case ast.Mod:
		return wasmir.I64RemS, nil
	case ast.BitAnd:
		return wasmir.I64And, nil
	case ast.BitOr:
		return wasmir.I64Or, nil
	case ast.BitXor:
		return wasmir.I64Xor, nil
	case ast.Shl:
		return wasmir.I64Shl, nil
	case ast.Shr:
		return wasmir.I64ShrS, nil
	case ast.Eq:
		return wasmir.I64Eq, nil
	case ast.Ne:
		return wasmir.I64Ne, nil
	case ast.Lt:
		return wasmir.I64LtS, nil
	case ast.Le:
		return wasmir.I64LeS, nil
	case ast.Gt:
		return wasmir.I64GtS, nil
	case ast.Ge:
		return wasmir.I64GeS, nil
	default:
		return 0, &diagnostic.CodegenError{Kind: diagnostic.UnsupportedExpression, Text: op.String()}
	}
}
