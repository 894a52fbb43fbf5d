// Package wasmbin encodes a wasmir.Program as a WebAssembly binary
// module: standard section layout and LEB128 encoding, narrowed to the
// single value type (i64) this language ever produces. It exists solely
// so the CLI can feed a compiled program to an in-process runtime
// (internal/wasmrun); the text emitter (internal/emitter) is the
// primary output format.
package wasmbin

import (
	"strconv"

	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/wasmir"
)

// Generate encodes prog into a WebAssembly binary module exporting
// "_start" bound to the function named entry.
func Generate(prog *wasmir.Program, entry string) ([]byte, error) {
	entryIdx, ok := prog.NameToFunction[entry]
	if !ok {
		return nil, &diagnostic.CodegenError{Kind: diagnostic.UnknownCallee, Text: entry}
	}

	g := &generator{typeCache: make(map[int]int)}
	for _, fn := range prog.Functions {
		// A Call operand in the IR is the callee's index in the caller's
		// symbol table; the binary format addresses the callee by its
		// index in the module's function space instead.
		resolved := *fn
		resolved.Operands = make([][]int, len(fn.Operands))
		for i, op := range fn.Instructions {
			resolved.Operands[i] = fn.Operands[i]
			if op == wasmir.Call {
				resolved.Operands[i] = []int{prog.NameToFunction[fn.Symbols[fn.Operands[i][0]]]}
			}
		}
		g.addFunction(&resolved)
	}
	return g.emit(entryIdx), nil
}

type generator struct {
	paramCounts []int       // one entry per type section row: its param count
	typeCache   map[int]int // param count -> type index (every type returns one i64)
	funcTypes   []int       // function section: type index per function
	codes       [][]byte    // code section: one encoded body per function
}

func (g *generator) typeIndex(paramCount int) int {
	if idx, ok := g.typeCache[paramCount]; ok {
		return idx
	}
	idx := len(g.paramCounts)
	g.paramCounts = append(g.paramCounts, paramCount)
	g.typeCache[paramCount] = idx
	return idx
}

func (g *generator) addFunction(fn *wasmir.Function) {
	g.funcTypes = append(g.funcTypes, g.typeIndex(fn.Arguments))
	g.codes = append(g.codes, encodeBody(fn))
}

func (g *generator) emit(entryIdx int) []byte {
	var typeSection []byte
	for _, params := range g.paramCounts {
		row := []byte{0x60} // func type tag
		paramTypes := make([]byte, params)
		for i := range paramTypes {
			paramTypes[i] = valI64
		}
		row = append(row, encodeVector(params, paramTypes)...)
		row = append(row, encodeVector(1, []byte{valI64})...)
		typeSection = append(typeSection, row...)
	}

	var funcSection []byte
	for _, t := range g.funcTypes {
		funcSection = append(funcSection, encodeLEB128U(uint64(t))...)
	}

	exportRow := encodeString("_start")
	exportRow = append(exportRow, exportFunc)
	exportRow = append(exportRow, encodeLEB128U(uint64(entryIdx))...)

	var codeSection []byte
	for _, body := range g.codes {
		codeSection = append(codeSection, encodeLengthPrefixed(body)...)
	}

	var out []byte
	out = append(out, magic...)
	out = append(out, version...)
	out = append(out, encodeSection(sectionType, encodeVector(len(g.paramCounts), typeSection))...)
	out = append(out, encodeSection(sectionFunction, encodeVector(len(g.funcTypes), funcSection))...)
	out = append(out, encodeSection(sectionExport, encodeVector(1, exportRow))...)
	out = append(out, encodeSection(sectionCode, encodeVector(len(g.codes), codeSection))...)
	return out
}

// encodeBody encodes one function's locals declarations and instruction
// stream. Parameters are not re-declared as locals (the type section
// already carries them); only the locals beyond fn.Arguments need a
// local-declaration entry.
func encodeBody(fn *wasmir.Function) []byte {
	var body []byte

	extra := len(fn.Locals) - fn.Arguments
	if extra > 0 {
		body = append(body, encodeLEB128U(1)...) // one locals-group: `extra` x i64
		body = append(body, encodeLEB128U(uint64(extra))...)
		body = append(body, valI64)
	} else {
		body = append(body, encodeLEB128U(0)...)
	}

	for i, op := range fn.Instructions {
		body = append(body, encodeInstruction(fn, op, fn.Operands[i])...)
	}
	body = append(body, opEnd)

	return body
}

func encodeInstruction(fn *wasmir.Function, op wasmir.Op, operands []int) []byte {
	switch op {
	case wasmir.I64Const:
		out := []byte{opI64Const}
		n, _ := strconv.ParseInt(fn.Ints[operands[0]], 10, 64)
		return append(out, encodeLEB128S(n)...)
	case wasmir.SetLocal:
		out := []byte{opLocalSet}
		return append(out, encodeLEB128U(uint64(operands[0]))...)
	case wasmir.GetLocal:
		out := []byte{opLocalGet}
		return append(out, encodeLEB128U(uint64(operands[0]))...)
	case wasmir.Call:
		out := []byte{opCall}
		return append(out, encodeLEB128U(uint64(operands[0]))...)
	case wasmir.If:
		return []byte{opIf, blockTypeI64}
	case wasmir.Else:
		return []byte{opElse}
	case wasmir.End:
		return []byte{opEnd}
	case wasmir.Block:
		return []byte{opBlock, blockTypeEmpty}
	case wasmir.Loop:
		return []byte{opLoop, blockTypeEmpty}
	case wasmir.BrIf:
		// every while lowers to Block{Loop{...BrIf...}}; the branch exits
		// the loop, so its relative depth is 1 (past the Loop, to the Block).
		out := []byte{opBrIf}
		return append(out, encodeLEB128U(1)...)
	case wasmir.Br:
		// this Br always re-enters the enclosing Loop, relative depth 0.
		out := []byte{opBr}
		return append(out, encodeLEB128U(0)...)
	case wasmir.I32Eqz:
		return []byte{opI32Eqz}
	default:
		if bin, ok := binaryOpcodes[op]; ok {
			return []byte{bin}
		}
		return nil
	}
}

var binaryOpcodes = map[wasmir.Op]byte{
	wasmir.I64Add:  opI64Add,
	wasmir.I64Sub:  opI64Sub,
	wasmir.I64Mul:  opI64Mul,
	wasmir.I64DivS: opI64DivS,
	wasmir.I64RemS: opI64RemS,
	wasmir.I64And:  opI64And,
	wasmir.I64Or:   opI64Or,
	wasmir.I64Xor:  opI64Xor,
	wasmir.I64Shl:  opI64Shl,
	wasmir.I64ShrS: opI64ShrS,
	wasmir.I64Eq:   opI64Eq,
	wasmir.I64Ne:   opI64Ne,
	wasmir.I64LtS:  opI64LtS,
	wasmir.I64LeS:  opI64LeS,
	wasmir.I64GtS:  opI64GtS,
	wasmir.I64GeS:  opI64GeS,
}
