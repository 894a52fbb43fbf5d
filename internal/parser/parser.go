// Package parser implements a Pratt-style expression parser: each
// top-level token arena becomes exactly one ast.Function. Top-levels are
// independent of one another, so ParseProgram fans them out across
// goroutines.
package parser

import (
	"golang.org/x/sync/errgroup"

	"github.com/lhaig/pywasmc/internal/ast"
	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/token"
)

// Precedence levels. LOWEST sits below ASSIGN so that `a = b = c` recurses
// correctly (ASSIGN is right-associative: its right-hand side is parsed at
// ASSIGN-1, i.e. LOWEST).
const (
	precLowest   = -1
	precAssign   = 0
	precEquality = 10
	precBitOr    = 20
	precBitXor   = 30
	precBitAnd   = 40
	precShift    = 50
	precAddSub   = 60
	precMulDiv   = 70
	precCall     = 80
)

// ParseProgram parses every top-level independently and assembles the
// resulting functions into a Program. Top-levels parse in parallel; the
// first failure aborts the whole parse, no error recovery is attempted.
func ParseProgram(levels []*token.TopLevel, source string) (*ast.Program, error) {
	fns := make([]*ast.Function, len(levels))

	var g errgroup.Group
	for i, tl := range levels {
		i, tl := i, tl
		g.Go(func() error {
			fn, err := New(tl, source).ParseFunction()
			if err != nil {
				return err
			}
			fns[i] = fn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog := ast.NewProgram()
	for i, fn := range fns {
		name := fn.SymbolName(fn.Name)
		if prog.Lookup(name) != nil {
			// Offsets[1] is the function name token, past FN/DEF.
			return nil, &diagnostic.ParseError{Kind: diagnostic.Unexpected, Pos: diagnostic.PositionAt(source, levels[i].Offsets[1]), Text: name}
		}
		prog.AddFunction(name, fn)
	}
	return prog, nil
}

// Parser turns one top-level's token arena into one ast.Function.
type Parser struct {
	tl     *token.TopLevel
	pos    int
	source string
	fn     *ast.Function
}

// New creates a Parser over a single top-level. source is the whole
// original file, used only to format line/column positions in errors.
func New(tl *token.TopLevel, source string) *Parser {
	return &Parser{
		tl:     tl,
		source: source,
		fn: &ast.Function{
			Symbols: append([]string(nil), tl.Symbols...),
			Ints:    append([]string(nil), tl.Ints...),
		},
	}
}

func (p *Parser) currentKind() token.Kind {
	if p.pos >= p.tl.Len() {
		return token.EOF
	}
	return p.tl.Kinds[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	if p.pos+1 >= p.tl.Len() {
		return token.EOF
	}
	return p.tl.Kinds[p.pos+1]
}

func (p *Parser) currentText() string {
	if p.pos >= p.tl.Len() {
		return "<eof>"
	}
	_, text := p.tl.At(p.pos)
	if text != "" {
		return text
	}
	return p.tl.Kinds[p.pos].String()
}

func (p *Parser) currentOffset() int {
	if p.pos >= p.tl.Len() {
		if len(p.tl.Offsets) > 0 {
			return p.tl.Offsets[len(p.tl.Offsets)-1]
		}
		return 0
	}
	return p.tl.Offsets[p.pos]
}

func (p *Parser) position() diagnostic.Position {
	return diagnostic.PositionAt(p.source, p.currentOffset())
}

func (p *Parser) currentSymbolIndex() int {
	return p.tl.Indices[p.pos]
}

func (p *Parser) currentIntIndex() int {
	return p.tl.Indices[p.pos]
}

func (p *Parser) currentIndentWidth() int {
	return p.tl.IndentWidth(p.pos)
}

func (p *Parser) advance() {
	if p.pos < p.tl.Len() {
		p.pos++
	}
}

func (p *Parser) unexpected() error {
	return &diagnostic.ParseError{Kind: diagnostic.Unexpected, Pos: p.position(), Text: p.currentText()}
}

// expect consumes the current token if it matches kind, else fails.
func (p *Parser) expect(kind token.Kind) error {
	if p.currentKind() != kind {
		return p.unexpected()
	}
	p.advance()
	return nil
}

func (p *Parser) isUnderscore() bool {
	if p.currentKind() != token.Symbol {
		return false
	}
	_, text := p.tl.At(p.pos)
	return text == "_"
}

// ParseFunction parses the whole top-level as one function definition.
func (p *Parser) ParseFunction() (*ast.Function, error) {
	name, args, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	p.fn.Name = name
	p.fn.Arguments = args

	body, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	if p.currentKind() != token.EOF {
		return nil, p.unexpected()
	}
	p.fn.Expressions = body
	return p.fn, nil
}

// parseHeader parses:
//
//	FN NAME LPAREN [ NAME (COLON TYPE)? (COMMA NAME (COLON TYPE)?)* ] RPAREN
//	  ( ARROW TYPE )? COLON
//
// and returns the function's own name (a symbol index) plus its
// argument symbol indices, leaving p.pos positioned at the first token of
// the body. Type annotations are accepted but unused.
func (p *Parser) parseHeader() (int, []int, error) {
	if p.currentKind() != token.Fn && p.currentKind() != token.Def {
		return 0, nil, p.unexpected()
	}
	p.advance()

	if p.currentKind() == token.EOF {
		return 0, nil, &diagnostic.ParseError{Kind: diagnostic.UnterminatedHeader, Pos: p.position(), Text: "<eof>"}
	}
	if p.currentKind() != token.Symbol {
		return 0, nil, p.unexpected()
	}
	name := p.currentSymbolIndex()
	p.advance()

	if err := p.requireInHeader(token.LParen); err != nil {
		return 0, nil, err
	}

	var args []int
	if p.currentKind() != token.RParen {
		for {
			if p.currentKind() == token.EOF {
				return 0, nil, &diagnostic.ParseError{Kind: diagnostic.UnterminatedHeader, Pos: p.position(), Text: "<eof>"}
			}
			if p.currentKind() != token.Symbol {
				return 0, nil, p.unexpected()
			}
			args = append(args, p.currentSymbolIndex())
			p.advance()

			if p.currentKind() == token.Colon {
				p.advance()
				if p.currentKind() != token.Symbol {
					return 0, nil, p.unexpected()
				}
				p.advance() // type annotation, unused
			}

			if p.currentKind() == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.requireInHeader(token.RParen); err != nil {
		return 0, nil, err
	}

	if p.currentKind() == token.DashGreaterThan {
		p.advance()
		if p.currentKind() != token.Symbol {
			return 0, nil, p.unexpected()
		}
		p.advance() // return type, unused
	}

	if err := p.requireInHeader(token.Colon); err != nil {
		return 0, nil, err
	}
	return name, args, nil
}

// requireInHeader is like expect but reports UnterminatedHeader instead of
// Unexpected when the stream runs out before kind is found.
func (p *Parser) requireInHeader(kind token.Kind) error {
	if p.currentKind() == token.EOF {
		return &diagnostic.ParseError{Kind: diagnostic.UnterminatedHeader, Pos: p.position(), Text: "<eof>"}
	}
	return p.expect(kind)
}

// parseBlock parses a sequence of expressions separated by Indent tokens
// at or beyond the block's column, terminated by an outdent (left unconsumed, for the caller
// to interpret) or end of stream. If no Indent
// immediately follows, the block is the single inline expression that
// follows. terminators lists extra token kinds that mean "this block is
// empty" in the inline case (e.g. Else, for an empty then-branch).
func (p *Parser) parseBlock(terminators []token.Kind) ([]int, error) {
	if p.currentKind() != token.Indent {
		if p.currentKind() == token.EOF || containsKind(terminators, p.currentKind()) {
			return nil, &diagnostic.ParseError{Kind: diagnostic.EmptyBlock, Pos: p.position(), Text: p.currentText()}
		}
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return []int{e}, nil
	}

	col := p.currentIndentWidth()
	p.advance()

	var exprs []int
	for {
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)

		if p.currentKind() == token.Indent && p.currentIndentWidth() >= col {
			p.advance()
			continue
		}
		break
	}
	return exprs, nil
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// parseExpression is the Pratt driver: parse one prefix form, then keep
// folding in infix forms whose precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) (int, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return 0, err
	}

	for precedence < p.currentPrecedence() {
		switch {
		case p.currentKind() == token.Equal:
			left, err = p.parseAssign(left)
		case p.currentKind() == token.LParen:
			left, err = p.parseCall(left)
		case p.currentKind() == token.VerticalBarGt, p.currentKind() == token.Indent:
			left, err = p.parsePipeline(left)
		default:
			left, err = p.parseBinary(left)
		}
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func (p *Parser) currentPrecedence() int {
	switch p.currentKind() {
	case token.EqualEqual, token.BangEqual, token.LessThan, token.LessThanEqual, token.GreaterThan, token.GreaterThanEqual:
		return precEquality
	case token.VerticalBar:
		return precBitOr
	case token.Caret:
		return precBitXor
	case token.Ampersand:
		return precBitAnd
	case token.LessThanLessThan, token.GreaterThanGreaterThan:
		return precShift
	case token.Plus, token.Minus:
		return precAddSub
	case token.Asterisk, token.Slash, token.Percent:
		return precMulDiv
	case token.Equal:
		return precAssign
	case token.LParen, token.VerticalBarGt:
		return precCall
	case token.Indent:
		if p.peekKind() == token.VerticalBarGt {
			return precCall
		}
		return precLowest
	default:
		return precLowest
	}
}

func (p *Parser) parsePrefix() (int, error) {
	switch p.currentKind() {
	case token.Symbol:
		idx := p.currentSymbolIndex()
		p.advance()
		return p.fn.NewSymbol(idx), nil
	case token.Int:
		idx := p.currentIntIndex()
		p.advance()
		return p.fn.NewInt(idx), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return 0, err
		}
		if err := p.expect(token.RParen); err != nil {
			return 0, err
		}
		return p.fn.NewGrouping(inner), nil
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	default:
		return 0, p.unexpected()
	}
}

func (p *Parser) parseIf() (int, error) {
	p.advance() // IF
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return 0, err
	}
	if err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	thenBranch, err := p.parseBlock([]token.Kind{token.Else})
	if err != nil {
		return 0, err
	}

	// The outdent separating the then-branch from "else" (if the
	// then-branch was multi-line) is left unconsumed by parseBlock; absorb
	// it here before looking for ELSE.
	if p.currentKind() == token.Indent {
		p.advance()
	}
	if err := p.expect(token.Else); err != nil {
		return 0, err
	}
	if err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	elseBranch, err := p.parseBlock(nil)
	if err != nil {
		return 0, err
	}
	return p.fn.NewIf(cond, thenBranch, elseBranch), nil
}

func (p *Parser) parseWhile() (int, error) {
	p.advance() // WHILE
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return 0, err
	}
	if err := p.expect(token.Colon); err != nil {
		return 0, err
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return 0, err
	}
	return p.fn.NewWhile(cond, body), nil
}

func (p *Parser) parseAssign(left int) (int, error) {
	if p.fn.Kinds[left] != ast.ExprSymbol {
		return 0, &diagnostic.ParseError{Kind: diagnostic.NonSymbolCallee, Pos: p.position(), Text: p.currentText()}
	}
	p.advance() // =
	value, err := p.parseExpression(precAssign - 1)
	if err != nil {
		return 0, err
	}
	return p.fn.NewAssign(left, value), nil
}

var binOps = map[token.Kind]ast.BinOp{
	token.EqualEqual:             ast.Eq,
	token.BangEqual:              ast.Ne,
	token.LessThan:               ast.Lt,
	token.LessThanEqual:          ast.Le,
	token.GreaterThan:            ast.Gt,
	token.GreaterThanEqual:       ast.Ge,
	token.VerticalBar:            ast.BitOr,
	token.Caret:                  ast.BitXor,
	token.Ampersand:              ast.BitAnd,
	token.LessThanLessThan:       ast.Shl,
	token.GreaterThanGreaterThan: ast.Shr,
	token.Plus:                   ast.Add,
	token.Minus:                  ast.Sub,
	token.Asterisk:               ast.Mul,
	token.Slash:                  ast.Div,
	token.Percent:                ast.Mod,
}

func (p *Parser) parseBinary(left int) (int, error) {
	prec := p.currentPrecedence()
	op := binOps[p.currentKind()]
	p.advance()
	right, err := p.parseExpression(prec)
	if err != nil {
		return 0, err
	}
	return p.fn.NewBinaryOp(op, left, right), nil
}

func (p *Parser) parseCall(left int) (int, error) {
	if p.fn.Kinds[left] != ast.ExprSymbol {
		return 0, &diagnostic.ParseError{Kind: diagnostic.NonSymbolCallee, Pos: p.position(), Text: p.currentText()}
	}
	p.advance() // (
	args, err := p.parseArgs()
	if err != nil {
		return 0, err
	}
	return p.fn.NewFunctionCall(left, args), nil
}

func (p *Parser) parseArgs() ([]int, error) {
	var args []int
	if p.currentKind() != token.RParen {
		for {
			e, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.currentKind() == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePipeline implements `lhs |> callee [(args)]`, optionally preceded
// by an Indent when the pipe continues onto the next line.
func (p *Parser) parsePipeline(left int) (int, error) {
	if p.currentKind() == token.Indent {
		p.advance()
	}
	if err := p.expect(token.VerticalBarGt); err != nil {
		return 0, err
	}
	if p.currentKind() != token.Symbol {
		return 0, p.unexpected()
	}
	calleeExpr := p.fn.NewSymbol(p.currentSymbolIndex())
	p.advance()

	var params []int
	if p.currentKind() == token.LParen {
		p.advance()
		var err error
		params, err = p.parsePipelineArgs(left)
		if err != nil {
			return 0, err
		}
	} else {
		params = []int{left}
	}
	return p.fn.NewFunctionCall(calleeExpr, params), nil
}

func (p *Parser) parsePipelineArgs(lhs int) ([]int, error) {
	var params []int
	placeholderAt := -1

	if p.currentKind() != token.RParen {
		for {
			if p.isUnderscore() {
				if placeholderAt != -1 {
					return nil, &diagnostic.ParseError{Kind: diagnostic.MultipleUnderscores, Pos: p.position(), Text: "_"}
				}
				placeholderAt = len(params)
				params = append(params, -1)
				p.advance()
			} else {
				e, err := p.parseExpression(precLowest)
				if err != nil {
					return nil, err
				}
				params = append(params, e)
			}
			if p.currentKind() == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	if placeholderAt >= 0 {
		params[placeholderAt] = lhs
	} else {
		params = append([]int{lhs}, params...)
	}
	return params, nil
}
