// Package x86be is a secondary, intentionally incomplete backend target.
// It never grew past emitting a literal return value for a
// zero-argument function with a single Int body expression. Kept at
// that stage deliberately: rounding it out into a full backend is out
// of scope.
package x86be

import (
	"fmt"

	"github.com/lhaig/pywasmc/internal/ast"
)

// Generate emits x86-64 NASM assembly for fn if its body is exactly one Int
// literal, returning ok=false for anything else. There is no codegen
// driver here, no locals, no control flow: this backend was abandoned
// before any of that existed.
func Generate(fn *ast.Function) (asm string, ok bool) {
	if len(fn.Arguments) != 0 || len(fn.Expressions) != 1 {
		return "", false
	}
	e := fn.Expressions[0]
	if fn.Kinds[e] != ast.ExprInt {
		return "", false
	}
	literal := fn.Ints[fn.Indices[e]]

	return fmt.Sprintf(
		"global %s\n%s:\n    mov rax, %s\n    ret\n",
		fn.Symbols[fn.Name], fn.Symbols[fn.Name], literal,
	), true
}
