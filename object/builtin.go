package object

import (
	"fmt"
)

// BuiltinFunction is the signature for a builtin implemented in Go.
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin wraps a Go function and implements the Object interface. Bound
// methods (e.g. list.append) are also represented as Builtins.
type Builtin struct {
	name string
	fn   BuiltinFunction
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("<built-in function %s>", b.name)
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Interface() interface{} {
	return nil
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Equals(other Object) bool {
	otherBuiltin, ok := other.(*Builtin)
	return ok && b == otherBuiltin
}

// Call invokes the wrapped Go function.
func (b *Builtin) Call(args ...Object) (Object, error) {
	return b.fn(args...)
}

// NewBuiltin creates a new Builtin object with the given name and function.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{name: name, fn: fn}
}
