// Package token defines the shared arena types produced by the tokenizer
// and consumed by the parser: a per-top-level token kind vector, a parallel
// index vector, and the interned string/int/indent pools those indices
// address.
package token

import "fmt"

// Kind is the closed set of token kinds the tokenizer emits.
type Kind int

const (
	Illegal Kind = iota
	EOF

	// Keywords
	Fn
	Def
	If
	Else
	While
	Import
	From

	// Literals / identifiers
	Symbol
	Int
	Indent

	// Delimiters
	LParen
	RParen
	Comma
	Colon

	// Operators
	Plus
	Minus
	Asterisk
	Slash
	Percent
	Ampersand
	Caret
	VerticalBar
	VerticalBarGt
	Dot
	Equal
	EqualEqual
	BangEqual
	LessThan
	LessThanEqual
	LessThanLessThan
	GreaterThan
	GreaterThanEqual
	GreaterThanGreaterThan
	DashGreaterThan
)

var kindNames = map[Kind]string{
	Illegal:                "Illegal",
	EOF:                    "EOF",
	Fn:                     "Fn",
	Def:                    "Def",
	If:                     "If",
	Else:                   "Else",
	While:                  "While",
	Import:                 "Import",
	From:                   "From",
	Symbol:                 "Symbol",
	Int:                    "Int",
	Indent:                 "Indent",
	LParen:                 "LParen",
	RParen:                 "RParen",
	Comma:                  "Comma",
	Colon:                  "Colon",
	Plus:                   "Plus",
	Minus:                  "Minus",
	Asterisk:               "Asterisk",
	Slash:                  "Slash",
	Percent:                "Percent",
	Ampersand:              "Ampersand",
	Caret:                  "Caret",
	VerticalBar:            "VerticalBar",
	VerticalBarGt:          "VerticalBarGt",
	Dot:                    "Dot",
	Equal:                  "Equal",
	EqualEqual:             "EqualEqual",
	BangEqual:              "BangEqual",
	LessThan:               "LessThan",
	LessThanEqual:          "LessThanEqual",
	LessThanLessThan:       "LessThanLessThan",
	GreaterThan:            "GreaterThan",
	GreaterThanEqual:       "GreaterThanEqual",
	GreaterThanGreaterThan: "GreaterThanGreaterThan",
	DashGreaterThan:        "DashGreaterThan",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their dedicated kind. Anything not
// present here lexes as Symbol.
var Keywords = map[string]Kind{
	"fn":     Fn,
	"def":    Def,
	"if":     If,
	"else":   Else,
	"while":  While,
	"import": Import,
	"from":   From,
}

// Lookup resolves an identifier to a keyword kind, or Symbol if it is not
// reserved.
func Lookup(ident string) Kind {
	if k, ok := Keywords[ident]; ok {
		return k
	}
	return Symbol
}
