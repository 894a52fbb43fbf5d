// Command compiler is the CLI front-end: compile a source file, run it
// or emit its WebAssembly text.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/lhaig/pywasmc/internal/cli"
)

func main() {
	c := cli.Cmd{}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
