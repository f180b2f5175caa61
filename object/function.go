package object

import (
	"fmt"

	"github.com/adder-lang/adder/compiler"
)

// Function is a user-defined function created by a def statement. It wraps
// the compiled function body produced by the compiler.
type Function struct {
	fn *compiler.Function
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("<function %s at %p>", f.fn.Name(), f)
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Name() string {
	return f.fn.Name()
}

func (f *Function) Parameters() []string {
	return f.fn.Parameters()
}

func (f *Function) Code() *compiler.Code {
	return f.fn.Code()
}

func (f *Function) Interface() interface{} {
	return nil
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) IsTruthy() bool {
	return true
}

func (f *Function) Equals(other Object) bool {
	otherFn, ok := other.(*Function)
	return ok && f.fn == otherFn.fn
}

// NewFunction creates a Function object wrapping compiled function code.
func NewFunction(fn *compiler.Function) *Function {
	return &Function{fn: fn}
}
