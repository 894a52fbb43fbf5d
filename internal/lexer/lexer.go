// Package lexer turns source text into a sequence of per-top-level token
// arenas. Each top-level is independent once produced, which is what lets
// the parser work on them in parallel.
package lexer

import (
	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/token"
)

// lexer scans one source file and builds its top-level token arenas.
type lexer struct {
	input string
	pos   int // byte offset of l.ch
	next  int // byte offset to read next
	ch    byte
	line  int
	col   int

	levels []*token.TopLevel
	cur    *token.TopLevel
	atBOL  bool // at beginning of a line, about to measure indentation
}

// Tokenize splits source into a sequence of top-level token arenas, one per
// function definition (or import statement). It fails with *diagnostic.LexError
// on the first unrecognized character.
func Tokenize(source string) ([]*token.TopLevel, error) {
	l := &lexer{input: source, line: 1, col: 0, atBOL: true}
	l.readChar()
	return l.run()
}

func (l *lexer) readChar() {
	if l.next >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.next]
	}
	l.pos = l.next
	l.next++
}

func (l *lexer) peekChar() byte {
	if l.next >= len(l.input) {
		return 0
	}
	return l.input[l.next]
}

func (l *lexer) advanceLine() {
	l.line++
	l.col = 0
}

// position returns the 1-based position of l.ch; l.col counts the columns
// already consumed on the current line.
func (l *lexer) position() diagnostic.Position {
	return diagnostic.Position{Line: l.line, Column: l.col + 1}
}

func isLetter(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHorizontalSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\x0C' || ch == '\r'
}

// run drives the top-level state machine: measure indentation at the start
// of every line, deciding whether it opens a new top-level, continues the
// current one with an Indent token, or is blank/comment noise to discard.
func (l *lexer) run() ([]*token.TopLevel, error) {
	for {
		if l.ch == 0 {
			break
		}
		if l.atBOL {
			if err := l.beginLine(); err != nil {
				return nil, err
			}
			continue
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	if l.cur != nil {
		l.levels = append(l.levels, l.cur)
		l.cur = nil
	}
	return l.levels, nil
}

// beginLine measures leading indentation and decides what the line is:
// blank, a comment, a top-level boundary, or a continuation line inside the
// current top-level.
func (l *lexer) beginLine() error {
	width := 0
	for l.ch != 0 && (l.ch == ' ' || l.ch == '\t' || l.ch == '\x0C') {
		width++
		l.col++
		l.readChar()
	}
	// \r right before \n does not count as indentation width.
	for l.ch == '\r' {
		l.readChar()
	}

	switch {
	case l.ch == 0:
		return nil
	case l.ch == '\n' && width == 0:
		// A line with nothing on it at all ends whatever top-level is open,
		// the same as a dedent to column zero would. Whatever follows
		// starts a fresh top-level regardless of its own indentation: a
		// blank line in the middle of a function body is not tolerated as
		// a continuation, it ends the function there.
		if l.cur != nil {
			l.levels = append(l.levels, l.cur)
			l.cur = nil
		}
		l.readChar()
		l.advanceLine()
		return nil
	case l.ch == '\n':
		// Whitespace-only line: the current top-level (if any) gets an
		// Indent token for the line's width and accumulation continues.
		if l.cur != nil {
			l.cur.AppendIndent(width, l.pos)
		}
		l.readChar()
		l.advanceLine()
		return nil
	case l.ch == '#':
		l.skipLineComment()
		// comment at column > 0 consumes the comment and emits no Indent,
		// same as a comment at column 0; both are blank-line noise. Consume
		// the line's own terminating newline here too, so the next call
		// measures the following line's indentation fresh instead of
		// re-seeing this now-stale '\n'.
		if l.ch == '\n' {
			l.readChar()
			l.advanceLine()
		}
		return nil
	case l.cur == nil:
		l.cur = token.NewTopLevel()
		l.atBOL = false
		return nil
	case width == 0:
		l.levels = append(l.levels, l.cur)
		l.cur = token.NewTopLevel()
		l.atBOL = false
		return nil
	default:
		l.cur.AppendIndent(width, l.pos)
		l.atBOL = false
		return nil
	}
}

func (l *lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// scanToken consumes exactly one token (or whitespace/comment/newline) from
// the middle of a line.
func (l *lexer) scanToken() error {
	switch {
	case l.ch == '\n':
		l.readChar()
		l.advanceLine()
		l.atBOL = true
		return nil
	case isHorizontalSpace(l.ch):
		l.col++
		l.readChar()
		return nil
	case l.ch == '#':
		l.skipLineComment()
		return nil
	case isLetter(l.ch):
		l.scanIdentifier()
		return nil
	case isDigit(l.ch):
		l.scanNumber()
		return nil
	default:
		return l.scanOperator()
	}
}

func (l *lexer) scanIdentifier() {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.col++
		l.readChar()
	}
	name := l.input[start:l.pos]
	if k := token.Lookup(name); k == token.Symbol {
		l.cur.AppendSymbol(name, start)
	} else {
		l.cur.Append(k, start)
	}
}

func (l *lexer) scanNumber() {
	start := l.pos
	for isDigit(l.ch) {
		l.col++
		l.readChar()
	}
	l.cur.AppendInt(l.input[start:l.pos], start)
}

// opPair maps a first-character + second-character pair to the
// two-character operator kind it forms. The one-character fallback is
// used when the second character doesn't extend the operator.
type opPair struct {
	first, second byte
	kind          token.Kind
}

var twoCharOps = []opPair{
	{'=', '=', token.EqualEqual},
	{'!', '=', token.BangEqual},
	{'<', '=', token.LessThanEqual},
	{'>', '=', token.GreaterThanEqual},
	{'<', '<', token.LessThanLessThan},
	{'>', '>', token.GreaterThanGreaterThan},
	{'|', '>', token.VerticalBarGt},
	{'-', '>', token.DashGreaterThan},
}

var oneCharOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Asterisk,
	'/': token.Slash,
	'%': token.Percent,
	',': token.Comma,
	':': token.Colon,
	'&': token.Ampersand,
	'^': token.Caret,
	'.': token.Dot,
}

// oneCharFallback holds the single-character kind used when a
// two-character lookahead for that first character fails to match. '-' is
// not listed here: it is already a one-character operator in oneCharOps,
// and the two-char loop above runs first to catch "->".
var oneCharFallback = map[byte]token.Kind{
	'=': token.Equal,
	'<': token.LessThan,
	'>': token.GreaterThan,
	'|': token.VerticalBar,
}

func (l *lexer) scanOperator() error {
	ch := l.ch
	start := l.pos

	for _, pair := range twoCharOps {
		if ch == pair.first && l.peekChar() == pair.second {
			l.col += 2
			l.readChar()
			l.readChar()
			l.cur.Append(pair.kind, start)
			return nil
		}
	}

	if k, ok := oneCharOps[ch]; ok {
		l.col++
		l.readChar()
		l.cur.Append(k, start)
		return nil
	}

	if k, ok := oneCharFallback[ch]; ok {
		l.col++
		l.readChar()
		l.cur.Append(k, start)
		return nil
	}

	return &diagnostic.LexError{
		Kind: diagnostic.UnrecognizedCharacter,
		Pos:  l.position(),
		Text: string(ch),
	}
}
