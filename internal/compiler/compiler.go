// Package compiler is the glue connecting the pipeline stages: tokenize,
// parse, generate Wasm IR, emit. There is no type-checking stage; the
// language is typed by construction (every value is i64).
package compiler

import (
	"context"
	"fmt"

	"github.com/lhaig/pywasmc/internal/codegen"
	"github.com/lhaig/pywasmc/internal/emitter"
	"github.com/lhaig/pywasmc/internal/lexer"
	"github.com/lhaig/pywasmc/internal/parser"
	"github.com/lhaig/pywasmc/internal/wasmbin"
	"github.com/lhaig/pywasmc/internal/wasmir"
	"github.com/lhaig/pywasmc/internal/wasmrun"
)

// Entry is the top-level function name every compile targets.
const Entry = "start"

// Result holds everything a successful compile produced.
type Result struct {
	Wasm *wasmir.Program
	Text string // emitted WebAssembly text module
}

// Compile runs source through tokenizing, parsing, codegen, and text
// emission, returning the result or the first fatal diagnostic.
func Compile(source string) (*Result, error) {
	levels, err := lexer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	prog, err := parser.ParseProgram(levels, source)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	wasm, err := codegen.Run(prog, Entry)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	text, err := emitter.Emit(wasm, Entry)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return &Result{Wasm: wasm, Text: text}, nil
}

// Execute compiles source and runs its "start" function in an embedded
// WebAssembly runtime, returning the i64 it returns.
func Execute(ctx context.Context, source string) (int64, error) {
	result, err := Compile(source)
	if err != nil {
		return 0, err
	}

	binary, err := wasmbin.Generate(result.Wasm, Entry)
	if err != nil {
		return 0, fmt.Errorf("execute: %w", err)
	}

	value, err := wasmrun.Run(ctx, binary)
	if err != nil {
		return 0, fmt.Errorf("execute: %w", err)
	}
	return value, nil
}
