// Package adder implements a Python subset: a compiler, a stack based
// virtual machine, a disassembler, and an execution engine with line level
// stepping. This file provides the high level Compile, Run, and Eval entry
// points; the subpackages expose the individual pieces.
package adder

import (
	"context"
	"io"
	"os"

	"github.com/adder-lang/adder/builtins"
	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/object"
	"github.com/adder-lang/adder/vm"
)

type config struct {
	stdout   io.Writer
	filename string
	globals  map[string]object.Object
	observer vm.LineObserver
}

// Option configures Compile, Run, and Eval.
type Option func(*config)

// WithStdout sets the writer that print() writes to. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(c *config) {
		c.stdout = w
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(c *config) {
		c.filename = name
	}
}

// WithGlobals adds extra global values, on top of the default builtins.
func WithGlobals(globals map[string]object.Object) Option {
	return func(c *config) {
		for name, value := range globals {
			c.globals[name] = value
		}
	}
}

// WithLineObserver registers a VM line observer. See vm.LineObserver.
func WithLineObserver(observer vm.LineObserver) Option {
	return func(c *config) {
		c.observer = observer
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		stdout:   os.Stdout,
		filename: "<string>",
		globals:  map[string]object.Object{},
	}
	for _, opt := range opts {
		opt(c)
	}
	base := builtins.Builtins(builtins.Config{Stdout: c.stdout})
	for name, value := range c.globals {
		base[name] = value
	}
	c.globals = base
	return c
}

// Compile compiles source code and returns the compiled code object.
func Compile(source string, opts ...Option) (*compiler.Code, error) {
	cfg := newConfig(opts)
	return compiler.Compile(source,
		compiler.WithFilename(cfg.filename),
		compiler.WithGlobalNames(object.Keys(cfg.globals)))
}

// Run executes previously compiled code and returns the VM for inspection
// of the resulting global bindings. The same options passed to Compile
// should be passed here so globals line up.
func Run(ctx context.Context, code *compiler.Code, opts ...Option) (*vm.VirtualMachine, error) {
	cfg := newConfig(opts)
	options := []vm.Option{vm.WithGlobals(cfg.globals)}
	if cfg.observer != nil {
		options = append(options, vm.WithLineObserver(cfg.observer))
	}
	machine := vm.New(code, options...)
	if err := machine.Run(ctx); err != nil {
		return machine, err
	}
	return machine, nil
}

// Eval compiles and runs source code in one call.
func Eval(ctx context.Context, source string, opts ...Option) (*vm.VirtualMachine, error) {
	code, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, code, opts...)
}
