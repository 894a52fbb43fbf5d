// Package codegen implements the concurrent codegen driver: given an AST
// and an entry function name, it produces the Wasm IR for that function
// plus the transitive closure of everything it calls.
//
// Each function's codegen is pure given the AST, so the driver fans work
// out across goroutines and serialises only the bookkeeping (which names
// have already been scheduled) through a single-consumer message loop: a
// background goroutine owns the mutable state, everyone else only ever
// sends.
package codegen

import (
	"github.com/lhaig/pywasmc/internal/ast"
	"github.com/lhaig/pywasmc/internal/diagnostic"
	"github.com/lhaig/pywasmc/internal/wasmir"
)

type messageKind int

const (
	msgSpawn messageKind = iota
	msgDone
	msgError
)

// message is the driver's Spawn/Done protocol.
type message struct {
	kind messageKind

	name string           // msgSpawn
	slot int              // msgDone
	fn   *wasmir.Function // msgDone
	err  error            // msgError
}

// Run compiles entry and everything reachable from it by call, returning
// the resulting module. A call to a name absent from prog's top level, or
// any per-function codegen failure, aborts the whole run; cancellation of
// already-launched tasks is not attempted.
func Run(prog *ast.Program, entry string) (*wasmir.Program, error) {
	d := &driver{
		prog:           prog,
		messages:       make(chan message, 64),
		nameToFunction: make(map[string]int),
	}
	d.messages <- message{kind: msgSpawn, name: entry}
	return d.loop()
}

// driver owns functions, nameToFunction and inFlight; it is only ever
// touched from loop, which is the channel's single consumer.
type driver struct {
	prog     *ast.Program
	messages chan message

	nameToFunction map[string]int
	functions      []*wasmir.Function
	inFlight       int
}

func (d *driver) loop() (*wasmir.Program, error) {
	for msg := range d.messages {
		switch msg.kind {
		case msgSpawn:
			if err := d.spawn(msg.name); err != nil {
				return nil, err
			}
		case msgDone:
			if msg.slot < 0 || msg.slot >= len(d.functions) {
				return nil, &diagnostic.CodegenError{
					Kind: diagnostic.UnknownCallee,
					Text: "done reported for unknown slot",
				}
			}
			d.functions[msg.slot] = msg.fn
			d.inFlight--
			if d.inFlight == 0 {
				close(d.messages)
			}
		case msgError:
			return nil, msg.err
		}
	}
	return &wasmir.Program{Functions: d.functions, NameToFunction: d.nameToFunction}, nil
}

// spawn reserves a slot for name and launches its codegen task, unless
// name is already scheduled. This is the sole writer of nameToFunction,
// which is what makes the at-most-once guarantee hold under races.
func (d *driver) spawn(name string) error {
	if _, ok := d.nameToFunction[name]; ok {
		return nil
	}
	fnAST := d.prog.Lookup(name)
	if fnAST == nil {
		return &diagnostic.CodegenError{Kind: diagnostic.UnknownCallee, Text: name}
	}

	slot := len(d.functions)
	d.functions = append(d.functions, nil)
	d.nameToFunction[name] = slot
	d.inFlight++

	go d.codegenTask(slot, fnAST)
	return nil
}

func (d *driver) codegenTask(slot int, fnAST *ast.Function) {
	fn := wasmir.NewFunction(fnAST.Name, fnAST.Symbols, fnAST.Ints, fnAST.Arguments)
	w := &walker{ast: fnAST, wasm: fn, spawn: d.messages}
	if err := w.walkAll(fnAST.Expressions); err != nil {
		d.messages <- message{kind: msgError, err: err}
		return
	}
	d.messages <- message{kind: msgDone, slot: slot, fn: fn}
}
