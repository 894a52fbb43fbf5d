package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevelInternsDuplicates(t *testing.T) {
	tl := NewTopLevel()
	tl.AppendSymbol("x", 0)
	tl.AppendSymbol("y", 1)
	tl.AppendSymbol("x", 2)

	require.Equal(t, []string{"x", "y"}, tl.Symbols)
	assert.Equal(t, 0, tl.Indices[0])
	assert.Equal(t, 1, tl.Indices[1])
	assert.Equal(t, 0, tl.Indices[2])
}

func TestTopLevelAtReturnsTextForSymbolAndInt(t *testing.T) {
	tl := NewTopLevel()
	tl.AppendSymbol("foo", 0)
	tl.AppendInt("42", 3)
	tl.Append(Plus, 5)

	k, text := tl.At(0)
	assert.Equal(t, Symbol, k)
	assert.Equal(t, "foo", text)

	k, text = tl.At(1)
	assert.Equal(t, Int, k)
	assert.Equal(t, "42", text)

	k, text = tl.At(2)
	assert.Equal(t, Plus, k)
	assert.Equal(t, "", text)
}

func TestTopLevelIndentWidthPanicsOnNonIndent(t *testing.T) {
	tl := NewTopLevel()
	tl.Append(Plus, 0)
	assert.Panics(t, func() { tl.IndentWidth(0) })
}

func TestTopLevelRenderIncludesSymbolAndIntText(t *testing.T) {
	tl := NewTopLevel()
	tl.AppendSymbol("x", 0)
	tl.Append(Equal, 1)
	tl.AppendInt("5", 2)

	rendered := tl.Render()
	assert.Contains(t, rendered, "x")
	assert.Contains(t, rendered, "5")
}

func TestLookupKeywordsVsSymbol(t *testing.T) {
	assert.Equal(t, Fn, Lookup("fn"))
	assert.Equal(t, While, Lookup("while"))
	assert.Equal(t, Symbol, Lookup("square"))
}
