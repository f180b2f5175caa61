package vm

import (
	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/object"
)

type frame struct {
	code       *compiler.Code
	fn         *object.Function
	locals     []object.Object
	returnAddr int
	callSiteIP int // ip of the call instruction in the caller, for stack traces

	// Line tracking for the observer: the last line a step event fired for
	// and the instruction it fired at. A backward jump to the same line
	// fires again, which is what makes loop iterations observable.
	lastLine   int
	lastLineIP int
}

func (f *frame) activateCode(code *compiler.Code) {
	f.code = code
	f.fn = nil
	f.returnAddr = 0
	f.callSiteIP = 0
	f.lastLine = 0
	f.lastLineIP = 0
	f.locals = make([]object.Object, code.LocalsCount())
}

func (f *frame) activateFunction(fn *object.Function, returnAddr, callSiteIP int, args []object.Object) {
	f.activateCode(fn.Code())
	f.fn = fn
	f.returnAddr = returnAddr
	f.callSiteIP = callSiteIP
	copy(f.locals, args)
}

// name returns the display name of the code unit this frame executes, which
// is "<module>" for the module body.
func (f *frame) name() string {
	if f.fn != nil {
		return f.fn.Name()
	}
	return f.code.CodeName()
}
