// Package emitter renders a wasmir.Program as WebAssembly text format: a
// pure, stateless formatter with no dependency on how the IR was
// produced. Per-function rendering has no shared state, so the whole
// program can be emitted with one goroutine per function.
package emitter

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/wasmir"
)

// Emit renders prog as a complete WebAssembly text module, exporting
// "_start" bound to the function named entry.
func Emit(prog *wasmir.Program, entry string) (string, error) {
	entryIdx, ok := prog.NameToFunction[entry]
	if !ok {
		return "", &diagnostic.CodegenError{Kind: diagnostic.UnknownCallee, Text: entry}
	}

	bodies := make([]string, len(prog.Functions))
	var g errgroup.Group
	for i, fn := range prog.Functions {
		i, fn := i, fn
		g.Go(func() error {
			bodies[i] = emitFunction(fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("\n(module\n")
	for _, body := range bodies {
		sb.WriteString(body)
	}
	entryFn := prog.Functions[entryIdx]
	fmt.Fprintf(&sb, "  (export \"_start\" (func $%s)))\n", entryFn.Symbols[entryFn.Name])
	return sb.String(), nil
}

func emitFunction(fn *wasmir.Function) string {
	var sb strings.Builder
	name := fn.Symbols[fn.Name]

	sb.WriteString("  (func $")
	sb.WriteString(name)
	for i := 0; i < fn.Arguments; i++ {
		fmt.Fprintf(&sb, " (param %s i64)", fn.Locals[i])
	}
	sb.WriteString(" (result i64)\n")

	for i := fn.Arguments; i < len(fn.Locals); i++ {
		fmt.Fprintf(&sb, "    (local %s i64)\n", fn.Locals[i])
	}

	for i, op := range fn.Instructions {
		sb.WriteString("    ")
		sb.WriteString(renderInstruction(fn, op, fn.OperandKinds[i], fn.Operands[i]))
		sb.WriteString("\n")
	}

	sb.WriteString("  )\n")
	return sb.String()
}

func renderInstruction(fn *wasmir.Function, op wasmir.Op, kinds []wasmir.OperandKind, operands []int) string {
	switch op {
	case wasmir.I64Const:
		return fmt.Sprintf("(i64.const %s)", fn.Ints[operands[0]])
	case wasmir.SetLocal:
		return fmt.Sprintf("(set_local %s)", fn.Locals[operands[0]])
	case wasmir.GetLocal:
		return fmt.Sprintf("(get_local %s)", fn.Locals[operands[0]])
	case wasmir.Call:
		return fmt.Sprintf("(call $%s)", fn.Symbols[operands[0]])
	case wasmir.If:
		return "if (result i64)"
	case wasmir.Else:
		return "else"
	case wasmir.End:
		if len(operands) == 0 {
			return "end"
		}
		return fmt.Sprintf("end %s", label(operands[0]))
	case wasmir.Block:
		return fmt.Sprintf("block %s", label(operands[0]))
	case wasmir.Loop:
		return fmt.Sprintf("loop %s", label(operands[0]))
	case wasmir.BrIf:
		return fmt.Sprintf("br_if %s", label(operands[0]))
	case wasmir.Br:
		return fmt.Sprintf("br %s", label(operands[0]))
	case wasmir.I32Eqz:
		return "i32.eqz"
	default:
		return bareOpcode(op)
	}
}

func label(n int) string {
	return fmt.Sprintf("$.label.%d", n)
}

var bareOpcodes = map[wasmir.Op]string{
	wasmir.I64Add:  "i64.add",
	wasmir.I64Sub:  "i64.sub",
	wasmir.I64Mul:  "i64.mul",
	wasmir.I64DivS: "i64.div_s",
	wasmir.I64RemS: "i64.rem_s",
	wasmir.I64And:  "i64.and",
	wasmir.I64Or:   "i64.or",
	wasmir.I64Xor:  "i64.xor",
	wasmir.I64Shl:  "i64.shl",
	wasmir.I64ShrS: "i64.shr_s",
	wasmir.I64Eq:   "i64.eq",
	wasmir.I64Ne:   "i64.ne",
	wasmir.I64LtS:  "i64.lt_s",
	wasmir.I64LeS:  "i64.le_s",
	wasmir.I64GtS:  "i64.gt_s",
	wasmir.I64GeS:  "i64.ge_s",
}

func bareOpcode(op wasmir.Op) string {
	if s, ok := bareOpcodes[op]; ok {
		return s
	}
	return fmt.Sprintf("<unknown opcode %d>", op)
}
