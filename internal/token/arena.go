package token

import "fmt"

// TopLevel is one function definition's worth of tokens, plus the interned
// pools its Indices address. A source file lexes to a sequence of
// TopLevels, one per function (or import statement).
//
// Invariant: len(Kinds) == len(Indices). Indices[i] is 0 unless
// Kinds[i] is Symbol, Int, or Indent, in which case it addresses Symbols,
// Ints, or Indents respectively.
type TopLevel struct {
	Kinds   []Kind
	Indices []int

	Symbols []string
	Ints    []string
	Indents []int

	// Offsets holds the byte offset of each token in the source file, used
	// only to format line:column positions in diagnostics. It is never
	// consulted by the parser or later stages for anything but error
	// reporting.
	Offsets []int
}

// NewTopLevel returns an empty TopLevel ready for the tokenizer to append to.
func NewTopLevel() *TopLevel {
	return &TopLevel{}
}

// Append records a plain token (operator or keyword) with no side-table
// index.
func (t *TopLevel) Append(k Kind, offset int) {
	t.Kinds = append(t.Kinds, k)
	t.Indices = append(t.Indices, 0)
	t.Offsets = append(t.Offsets, offset)
}

// AppendSymbol interns name in Symbols (deduplicating) and appends a
// Symbol token addressing it.
func (t *TopLevel) AppendSymbol(name string, offset int) {
	idx := t.internSymbol(name)
	t.Kinds = append(t.Kinds, Symbol)
	t.Indices = append(t.Indices, idx)
	t.Offsets = append(t.Offsets, offset)
}

// AppendInt interns a numeric literal's digits in Ints and appends an Int
// token addressing it.
func (t *TopLevel) AppendInt(digits string, offset int) {
	idx := t.internInt(digits)
	t.Kinds = append(t.Kinds, Int)
	t.Indices = append(t.Indices, idx)
	t.Offsets = append(t.Offsets, offset)
}

// AppendIndent records the column width of a line's leading indentation.
// Zero-width indents must be suppressed by the caller before this is
// reached.
func (t *TopLevel) AppendIndent(width, offset int) {
	idx := len(t.Indents)
	t.Indents = append(t.Indents, width)
	t.Kinds = append(t.Kinds, Indent)
	t.Indices = append(t.Indices, idx)
	t.Offsets = append(t.Offsets, offset)
}

func (t *TopLevel) internSymbol(name string) int {
	for i, s := range t.Symbols {
		if s == name {
			return i
		}
	}
	t.Symbols = append(t.Symbols, name)
	return len(t.Symbols) - 1
}

func (t *TopLevel) internInt(digits string) int {
	for i, s := range t.Ints {
		if s == digits {
			return i
		}
	}
	t.Ints = append(t.Ints, digits)
	return len(t.Ints) - 1
}

// Len returns the number of tokens in the top-level.
func (t *TopLevel) Len() int { return len(t.Kinds) }

// At returns the kind and raw text (for Symbol/Int) or empty string
// otherwise, of the token at position i. It panics if i is out of range;
// callers within this module only ever index positions they derived from
// Len.
func (t *TopLevel) At(i int) (Kind, string) {
	k := t.Kinds[i]
	switch k {
	case Symbol:
		return k, t.Symbols[t.Indices[i]]
	case Int:
		return k, t.Ints[t.Indices[i]]
	default:
		return k, ""
	}
}

// IndentWidth returns the column width recorded for the Indent token at
// position i. It panics if the token at i is not an Indent.
func (t *TopLevel) IndentWidth(i int) int {
	if t.Kinds[i] != Indent {
		panic(fmt.Sprintf("token.IndentWidth: position %d is %s, not Indent", i, t.Kinds[i]))
	}
	return t.Indents[t.Indices[i]]
}

// Render produces a canonical, whitespace-normalised textual form of the
// token stream: one space-separated word per token, with Symbol and Int
// tokens as their text, Indent tokens as "<indent:N>", and every other
// kind as its kind name (e.g. "Equal", "LParen"). The result is not
// source text: re-tokenizing it does not reproduce the original token
// stream. Nothing in the compilation pipeline consumes it.
func (t *TopLevel) Render() string {
	var out []byte
	for i, k := range t.Kinds {
		switch k {
		case Symbol:
			out = append(out, t.Symbols[t.Indices[i]]...)
		case Int:
			out = append(out, t.Ints[t.Indices[i]]...)
		case Indent:
			out = append(out, fmt.Sprintf("<indent:%d>", t.Indents[t.Indices[i]])...)
		default:
			out = append(out, k.String()...)
		}
		out = append(out, ' ')
	}
	return string(out)
}
