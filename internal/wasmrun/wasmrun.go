// Package wasmrun executes a compiled module's "_start" export in an
// embedded WebAssembly runtime: compile the module once, instantiate it,
// pull the export, and call it. The language has no imports and no host
// functions to wire, so instantiation needs no module config beyond the
// defaults.
package wasmrun

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// Run compiles the given WebAssembly binary module and invokes its
// exported "_start" function, returning the i64 it returns.
func Run(ctx context.Context, binary []byte) (int64, error) {
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, binary)
	if err != nil {
		return 0, fmt.Errorf("wasmrun: compile module: %w", err)
	}

	module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return 0, fmt.Errorf("wasmrun: instantiate module: %w", err)
	}
	defer module.Close(ctx)

	start := module.ExportedFunction("_start")
	if start == nil {
		return 0, fmt.Errorf("wasmrun: module does not export _start")
	}

	results, err := start.Call(ctx)
	if err != nil {
		return 0, fmt.Errorf("wasmrun: call _start: %w", err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("wasmrun: _start returned %d values, want 1", len(results))
	}
	return int64(results[0]), nil
}
