package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/parser"
	"github.com/lhaig/pywasmc/internal/token"
)

func TestTokenizeSimpleFunctionHeader(t *testing.T) {
	levels, err := Tokenize("fn start() -> i64: 0")
	require.NoError(t, err)
	require.Len(t, levels, 1)

	tl := levels[0]
	kinds := tl.Kinds
	require.NotEmpty(t, kinds)
	assert.Equal(t, token.Fn, kinds[0])
	assert.Equal(t, token.Symbol, kinds[1])
	assert.Equal(t, token.LParen, kinds[2])
	assert.Equal(t, token.RParen, kinds[3])
	assert.Equal(t, token.DashGreaterThan, kinds[4])
}

func TestTokenizeTwoCharOperatorsPreferredOverOneChar(t *testing.T) {
	levels, err := Tokenize("fn f(): a == b != c <= d >= e << f >> g |> h -> i")
	require.NoError(t, err)
	kinds := levels[0].Kinds
	assert.Contains(t, kinds, token.EqualEqual)
	assert.Contains(t, kinds, token.BangEqual)
	assert.Contains(t, kinds, token.LessThanEqual)
	assert.Contains(t, kinds, token.GreaterThanEqual)
	assert.Contains(t, kinds, token.LessThanLessThan)
	assert.Contains(t, kinds, token.GreaterThanGreaterThan)
	assert.Contains(t, kinds, token.VerticalBarGt)
	assert.NotContains(t, kinds, token.Equal)
}

func TestTokenizeMultipleTopLevelsSplitOnColumnZero(t *testing.T) {
	source := "fn a(): 1\nfn b(): 2\n"
	levels, err := Tokenize(source)
	require.NoError(t, err)
	require.Len(t, levels, 2)
}

func TestTokenizeIndentRecordsWidth(t *testing.T) {
	source := "fn start() -> i64:\n    x = 5\n    x\n"
	levels, err := Tokenize(source)
	require.NoError(t, err)
	require.Len(t, levels, 1)

	tl := levels[0]
	var sawIndent bool
	for i, k := range tl.Kinds {
		if k == token.Indent {
			sawIndent = true
			assert.Equal(t, 4, tl.IndentWidth(i))
		}
	}
	assert.True(t, sawIndent, "expected at least one Indent token")
}

func TestTokenizeSkipsLineComments(t *testing.T) {
	source := "fn start() -> i64:\n    # a comment\n    0\n"
	levels, err := Tokenize(source)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	for _, k := range levels[0].Kinds {
		assert.NotEqual(t, token.Illegal, k)
	}
}

// A blank line ends whatever top-level is currently open, the same as a
// dedent to column zero would: it does not merely get skipped over as
// inter-statement noise. Whatever follows starts a fresh top-level,
// regardless of its own indentation.
func TestTokenizeBlankLineEndsCurrentTopLevel(t *testing.T) {
	source := "fn start() -> i64:\n    # a comment\n\n    0\n"
	levels, err := Tokenize(source)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	assert.Equal(t, token.Fn, levels[0].Kinds[0])
	assert.Equal(t, []token.Kind{token.Int}, levels[1].Kinds)
}

func TestTokenizeBlankLineInsideBodyLeavesTrailingExpressionUnparseable(t *testing.T) {
	source := "fn start() -> i64:\n    x = 1\n\n    x\n"
	levels, err := Tokenize(source)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	_, err = parser.ParseProgram(levels, source)
	require.Error(t, err)
	var parseErr *diagnostic.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTokenizeRejectsUnrecognizedCharacter(t *testing.T) {
	_, err := Tokenize("fn start() -> i64: 0 @ 1")
	require.Error(t, err)
	var lexErr *diagnostic.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, diagnostic.UnrecognizedCharacter, lexErr.Kind)
	assert.Equal(t, "@", lexErr.Text)
}

func TestTokenizeInternsSymbolsAndInts(t *testing.T) {
	levels, err := Tokenize("fn f(): x + x + 5 + 5")
	require.NoError(t, err)
	tl := levels[0]
	assert.Equal(t, []string{"f", "x"}, tl.Symbols)
	assert.Equal(t, []string{"5"}, tl.Ints)
}
