// Package cli is the compiler's command surface: a single command, one
// required positional source file, one optional flag. A flag-tagged
// Cmd struct with SetArgs/SetFlags/Validate/Main, driven by
// github.com/mna/mainer, without any multi-subcommand dispatch, since
// this compiler has exactly one job.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/lhaig/pywasmc/internal/compiler"
)

const binName = "compiler"

const usage = `usage: ` + binName + ` [--emit-wasm <out-file>] <source-file>

Without --emit-wasm, compiles <source-file>, runs its "start" function
in an embedded WebAssembly runtime, and prints the returned i64.

With --emit-wasm <out-file>, writes the emitted WebAssembly text module
to <out-file> instead of running it.
`

// Cmd is the top-level command, populated by mainer.Parser.Parse from
// argv; environment variables are not consulted.
type Cmd struct {
	Help bool `flag:"h,help"`

	EmitWasm string `flag:"emit-wasm"`

	args []string
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one source file, got %d", len(c.args))
	}
	return nil
}

// Main parses args, runs the command, and returns the process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, usage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, usage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) run(ctx context.Context, stdio mainer.Stdio) error {
	source, err := os.ReadFile(c.args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", c.args[0], err)
	}

	if c.EmitWasm != "" {
		result, err := compiler.Compile(string(source))
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.EmitWasm, []byte(result.Text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.EmitWasm, err)
		}
		return nil
	}

	value, err := compiler.Execute(ctx, string(source))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "%d\n", value)
	return nil
}
