// Package wasmir defines a stack-machine intermediate representation: a
// per-function instruction vector with a symbolic operand encoding,
// built once per function (possibly in parallel) and consumed read-only
// by the emitter.
package wasmir

// Op is the closed set of stack-machine opcodes this backend emits.
type Op int

const (
	I64Const Op = iota
	I64Add
	I64Sub
	I64Mul
	I64DivS
	I64RemS
	I64And
	I64Or
	I64Xor
	I64Shl
	I64ShrS
	I64Eq
	I64Ne
	I64LtS
	I64LeS
	I64GtS
	I64GeS
	I32Eqz
	SetLocal
	GetLocal
	Call
	If
	Else
	End
	Block
	Loop
	BrIf
	Br
)

// OperandKind tags one immediate of an instruction.
type OperandKind int

const (
	IntLiteral OperandKind = iota
	Local
	Symbol
	Label
)

// Function is one function's stack-machine body.
//
// Invariants: len(Instructions) == len(OperandKinds) == len(Operands);
// for every i, len(OperandKinds[i]) == len(Operands[i]); every Local
// operand indexes Locals; every Label operand is < NextLabel; matched
// Block/Loop/End labels nest without crossing.
type Function struct {
	Name int // symbol-table index

	Instructions []Op
	OperandKinds [][]OperandKind
	Operands     [][]int

	// Locals holds formatted local names ("$" + symbol); the first
	// Arguments entries are the function's parameters, in declaration
	// order.
	Locals       []string
	NameToLocal  map[string]int // unprefixed symbol -> index into Locals
	Arguments    int
	NextLabel    int

	Symbols []string
	Ints    []string
}

// NewFunction returns an empty Function with its parameter locals
// pre-populated from argument symbol indices: locals 0..arguments-1 are
// the function's parameters, in declaration order.
func NewFunction(name int, symbols, ints []string, argSymbolIndices []int) *Function {
	fn := &Function{
		Name:        name,
		NameToLocal: make(map[string]int, len(argSymbolIndices)),
		Arguments:   len(argSymbolIndices),
		Symbols:     symbols,
		Ints:        ints,
	}
	for _, symIdx := range argSymbolIndices {
		fn.DeclareLocal(symbols[symIdx])
	}
	return fn
}

// DeclareLocal registers a new local named name (unprefixed) and returns
// its index, or returns the existing index if already declared.
func (f *Function) DeclareLocal(name string) int {
	if idx, ok := f.NameToLocal[name]; ok {
		return idx
	}
	idx := len(f.Locals)
	f.Locals = append(f.Locals, "$"+name)
	f.NameToLocal[name] = idx
	return idx
}

// Emit appends one instruction with the given operand kinds/values. Their
// lengths must match; callers in this package always pass matching slices.
func (f *Function) Emit(op Op, kinds []OperandKind, operands []int) {
	f.Instructions = append(f.Instructions, op)
	f.OperandKinds = append(f.OperandKinds, kinds)
	f.Operands = append(f.Operands, operands)
}

// AllocLabels allocates count consecutive fresh labels and returns the
// first one.
func (f *Function) AllocLabels(count int) int {
	first := f.NextLabel
	f.NextLabel += count
	return first
}

// Program is the whole compiled module: every function reachable from
// "start", keyed by name so call sites can bind to functions (including
// ones that call back into themselves or each other) by name rather
// than by a resolved index.
type Program struct {
	Functions      []*Function
	NameToFunction map[string]int // name -> index in Functions
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{NameToFunction: make(map[string]int)}
}
