package vm

import "github.com/adder-lang/adder/object"

// Option is a configuration function for a VirtualMachine.
type Option func(*VirtualMachine)

// WithGlobals provides named global values to the VM, typically builtin
// functions. Names that were not declared at compile time are ignored, so
// pass the same names to the compiler via WithGlobalNames.
func WithGlobals(globals map[string]object.Object) Option {
	return func(vm *VirtualMachine) {
		for name, value := range globals {
			vm.inputGlobals[name] = value
		}
	}
}

// WithLineObserver registers a callback fired before the first instruction
// of each source line. If the callback returns false the VM halts and Run
// returns ErrHalted.
func WithLineObserver(observer LineObserver) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithContextCheckInterval sets the number of instructions between checks of
// ctx.Done(). Zero disables the checks.
func WithContextCheckInterval(n int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = n
	}
}
