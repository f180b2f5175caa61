// Package vm provides a VirtualMachine that executes compiled adder code.
package vm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/object"
	"github.com/adder-lang/adder/op"
)

const (
	MaxArgs       = 64
	MaxFrameDepth = 256
	MaxStackDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned by Run when a line observer stops execution.
var ErrHalted = errors.New("execution halted")

// ErrGlobalNotFound is returned by Get for an unknown global name.
var ErrGlobalNotFound = errors.New("global not found")

// LineEvent describes the VM arriving at the first instruction of a source
// line. Depth is the call depth, zero for the module body.
type LineEvent struct {
	Line     int
	Function string
	Depth    int
}

// LineObserver receives a callback before the first instruction of each
// source line executes. Returning false halts the VM; Run then returns
// ErrHalted. The callback runs on the VM's goroutine and may block, which is
// how step-by-step execution is built on top of this.
type LineObserver func(event LineEvent) bool

type VirtualMachine struct {
	ip          int // instruction pointer
	sp          int // stack pointer
	fp          int // frame pointer
	instrIP     int // ip of the opcode currently executing
	activeFrame *frame
	activeCode  *compiler.Code
	main        *compiler.Code
	globals     []object.Object
	globalIndex map[string]int
	inputGlobals map[string]object.Object
	observer    LineObserver
	running     bool
	runMutex    sync.Mutex
	tmp         [MaxArgs]object.Object
	stack       [MaxStackDepth]object.Object
	frames      [MaxFrameDepth]frame

	contextCheckInterval int
}

// New creates a VirtualMachine for the given compiled code.
func New(main *compiler.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		sp:                   -1,
		main:                 main,
		inputGlobals:         map[string]object.Object{},
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Run executes the code until it completes, fails, or is halted. It is an
// error to call Run on a VM that is already running.
func (vm *VirtualMachine) Run(ctx context.Context) error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return errors.New("vm is already running")
	}
	vm.running = true
	defer func() { vm.running = false }()

	names := vm.main.GlobalNames()
	vm.globals = make([]object.Object, len(names))
	vm.globalIndex = make(map[string]int, len(names))
	for i, name := range names {
		vm.globalIndex[name] = i
	}
	for name, value := range vm.inputGlobals {
		if idx, ok := vm.globalIndex[name]; ok {
			vm.globals[idx] = value
		}
	}

	vm.ip = 0
	vm.sp = -1
	vm.fp = 0
	vm.activeFrame = &vm.frames[0]
	vm.activeFrame.activateCode(vm.main)
	vm.activeCode = vm.main
	return vm.eval(ctx)
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	checkCount := 0
	for {
		if vm.contextCheckInterval > 0 {
			checkCount++
			if checkCount >= vm.contextCheckInterval {
				checkCount = 0
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
		}
		if vm.ip >= vm.activeCode.InstructionCount() {
			return nil
		}
		vm.instrIP = vm.ip
		if vm.observer != nil && vm.notifyLine() {
			return ErrHalted
		}

		switch opcode := vm.fetch(); opcode {

		case op.Nop:

		case op.Halt:
			return nil

		case op.LoadConst:
			idx := vm.fetch()
			value, err := vm.loadConstant(vm.activeCode.Constant(int(idx)))
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(value)

		case op.LoadFast:
			idx := vm.fetch()
			value := vm.activeFrame.locals[idx]
			if value == nil {
				name := vm.activeFrame.code.Local(int(idx)).Name()
				return vm.wrapError(errz.NameErrorf(
					"local variable %q referenced before assignment", name))
			}
			vm.push(value)

		case op.LoadGlobal:
			idx := vm.fetch()
			value := vm.globals[idx]
			if value == nil {
				name := vm.main.Global(int(idx)).Name()
				return vm.wrapError(errz.NameErrorf("name %q is not defined", name))
			}
			vm.push(value)

		case op.LoadAttr:
			idx := vm.fetch()
			name := vm.activeCode.Name(int(idx))
			obj := vm.pop()
			method, ok := object.GetMethod(obj, name)
			if !ok {
				return vm.wrapError(errz.AttributeErrorf(
					"%q object has no attribute %q", obj.Type(), name))
			}
			vm.push(method)

		case op.StoreFast:
			idx := vm.fetch()
			vm.activeFrame.locals[idx] = vm.pop()

		case op.StoreGlobal:
			idx := vm.fetch()
			vm.globals[idx] = vm.pop()

		case op.BinaryOp:
			opType := op.BinaryOpType(vm.fetch())
			b := vm.pop()
			a := vm.pop()
			result, err := object.BinaryOp(opType, a, b)
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(result)

		case op.CompareOp:
			opType := op.CompareOpType(vm.fetch())
			b := vm.pop()
			a := vm.pop()
			result, err := object.Compare(opType, a, b)
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(result)

		case op.UnaryNegative:
			result, err := object.Negate(vm.pop())
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(result)

		case op.UnaryNot:
			vm.push(object.NewBool(!vm.pop().IsTruthy()))

		case op.ContainsOp:
			invert := vm.fetch() == 1
			container := vm.pop()
			item := vm.pop()
			result, err := object.Contains(container, item)
			if err != nil {
				return vm.wrapError(err)
			}
			if invert {
				result = object.NewBool(!result.IsTruthy())
			}
			vm.push(result)

		case op.BuildList:
			count := int(vm.fetch())
			items := make([]object.Object, count)
			copy(items, vm.stack[vm.sp-count+1:vm.sp+1])
			vm.sp -= count
			vm.push(object.NewList(items))

		case op.BuildMap:
			count := int(vm.fetch())
			m := object.NewMap()
			base := vm.sp - count*2 + 1
			for i := 0; i < count; i++ {
				key := vm.stack[base+i*2]
				value := vm.stack[base+i*2+1]
				if err := m.Set(key, value); err != nil {
					return vm.wrapError(err)
				}
			}
			vm.sp -= count * 2
			vm.push(m)

		case op.BinarySubscr:
			index := vm.pop()
			obj := vm.pop()
			container, ok := obj.(object.Container)
			if !ok {
				return vm.wrapError(errz.TypeErrorf(
					"%q object is not subscriptable", obj.Type()))
			}
			result, err := container.GetItem(index)
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(result)

		case op.StoreSubscr:
			value := vm.pop()
			index := vm.pop()
			obj := vm.pop()
			var err error
			switch target := obj.(type) {
			case *object.List:
				err = target.SetItem(index, value)
			case *object.Map:
				err = target.Set(index, value)
			default:
				err = errz.TypeErrorf(
					"%q object does not support item assignment", obj.Type())
			}
			if err != nil {
				return vm.wrapError(err)
			}

		case op.Slice:
			stop := vm.pop()
			start := vm.pop()
			obj := vm.pop()
			result, err := object.GetSlice(obj, start, stop)
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(result)

		case op.PopTop:
			vm.sp--

		case op.Nil:
			vm.push(object.Nil)

		case op.True:
			vm.push(object.True)

		case op.False:
			vm.push(object.False)

		case op.Jump:
			vm.ip = int(vm.fetch())

		case op.PopJumpIfFalse:
			target := int(vm.fetch())
			if !vm.pop().IsTruthy() {
				vm.ip = target
			}

		case op.PopJumpIfTrue:
			target := int(vm.fetch())
			if vm.pop().IsTruthy() {
				vm.ip = target
			}

		case op.JumpIfFalseOrPop:
			target := int(vm.fetch())
			if !vm.stack[vm.sp].IsTruthy() {
				vm.ip = target
			} else {
				vm.sp--
			}

		case op.JumpIfTrueOrPop:
			target := int(vm.fetch())
			if vm.stack[vm.sp].IsTruthy() {
				vm.ip = target
			} else {
				vm.sp--
			}

		case op.GetIter:
			iter, err := object.GetIter(vm.pop())
			if err != nil {
				return vm.wrapError(err)
			}
			vm.push(iter)

		case op.ForIter:
			target := int(vm.fetch())
			iter := vm.stack[vm.sp].(object.Iterator)
			value, ok := iter.Next()
			if ok {
				vm.push(value)
			} else {
				vm.sp-- // drop the exhausted iterator
				vm.ip = target
			}

		case op.Call:
			if err := vm.call(int(vm.fetch())); err != nil {
				return err
			}

		case op.ReturnValue:
			result := vm.pop()
			vm.fp--
			caller := &vm.frames[vm.fp]
			vm.ip = vm.frames[vm.fp+1].returnAddr
			vm.activeFrame = caller
			vm.activeCode = caller.code
			vm.push(result)

		default:
			return vm.wrapError(errz.Errorf(errz.ErrRuntime,
				"invalid opcode: %d", opcode))
		}
	}
}

func (vm *VirtualMachine) call(argc int) error {
	if argc > MaxArgs {
		return vm.wrapError(errz.TypeErrorf("too many arguments (max %d)", MaxArgs))
	}
	args := vm.tmp[:argc]
	copy(args, vm.stack[vm.sp-argc+1:vm.sp+1])
	callee := vm.stack[vm.sp-argc]
	vm.sp -= argc + 1

	switch fn := callee.(type) {
	case *object.Builtin:
		result, err := fn.Call(args...)
		if err != nil {
			return vm.wrapError(err)
		}
		if result == nil {
			result = object.Nil
		}
		vm.push(result)
		return nil
	case *object.Function:
		params := fn.Parameters()
		if argc != len(params) {
			return vm.wrapError(errz.TypeErrorf(
				"%s() takes %d positional arguments but %d were given",
				fn.Name(), len(params), argc))
		}
		if vm.fp+1 >= MaxFrameDepth {
			return vm.wrapError(errz.Errorf(errz.ErrRuntime,
				"maximum recursion depth exceeded"))
		}
		vm.fp++
		f := &vm.frames[vm.fp]
		f.activateFunction(fn, vm.ip, vm.instrIP, args)
		vm.activeFrame = f
		vm.activeCode = fn.Code()
		vm.ip = 0
		return nil
	default:
		return vm.wrapError(errz.TypeErrorf(
			"%q object is not callable", callee.Type()))
	}
}

// loadConstant converts a compile time constant into a runtime object.
func (vm *VirtualMachine) loadConstant(value any) (object.Object, error) {
	switch v := value.(type) {
	case int64:
		return object.NewInt(v), nil
	case float64:
		return object.NewFloat(v), nil
	case string:
		return object.NewString(v), nil
	case bool:
		return object.NewBool(v), nil
	case nil:
		return object.Nil, nil
	case *compiler.Function:
		return object.NewFunction(v), nil
	default:
		return nil, errz.Errorf(errz.ErrRuntime, "invalid constant type: %T", value)
	}
}

// notifyLine fires the line observer if the current instruction starts a new
// source line. Returns true if the observer requested a halt.
func (vm *VirtualMachine) notifyLine() bool {
	loc := vm.activeCode.LocationAt(vm.ip)
	if loc.Line == 0 {
		return false
	}
	f := vm.activeFrame
	if loc.Line == f.lastLine && vm.ip >= f.lastLineIP {
		return false
	}
	f.lastLine = loc.Line
	f.lastLineIP = vm.ip
	return !vm.observer(LineEvent{Line: loc.Line, Function: f.name(), Depth: vm.fp})
}

func (vm *VirtualMachine) fetch() op.Code {
	instruction := vm.activeCode.Instruction(vm.ip)
	vm.ip++
	return instruction
}

func (vm *VirtualMachine) push(obj object.Object) {
	vm.sp++
	vm.stack[vm.sp] = obj
}

func (vm *VirtualMachine) pop() object.Object {
	obj := vm.stack[vm.sp]
	vm.sp--
	return obj
}

// TOS returns the top of stack object, if there is one.
func (vm *VirtualMachine) TOS() (object.Object, bool) {
	if vm.sp >= 0 {
		return vm.stack[vm.sp], true
	}
	return nil, false
}

// Get returns a global variable by name.
func (vm *VirtualMachine) Get(name string) (object.Object, error) {
	idx, ok := vm.globalIndex[name]
	if !ok || vm.globals[idx] == nil {
		return nil, fmt.Errorf("%w: %q", ErrGlobalNotFound, name)
	}
	return vm.globals[idx], nil
}

// GlobalNames returns the names of all global variables.
func (vm *VirtualMachine) GlobalNames() []string {
	if vm.main == nil {
		return nil
	}
	return vm.main.GlobalNames()
}

// ModuleBindings returns the currently assigned module level variables.
func (vm *VirtualMachine) ModuleBindings() map[string]object.Object {
	bindings := map[string]object.Object{}
	if vm.main == nil || vm.globals == nil {
		return bindings
	}
	for i, name := range vm.main.GlobalNames() {
		if vm.globals[i] != nil {
			bindings[name] = vm.globals[i]
		}
	}
	return bindings
}

// FrameBindings returns the local variables of the active frame. At module
// depth this is the same as ModuleBindings.
func (vm *VirtualMachine) FrameBindings() map[string]object.Object {
	if vm.fp == 0 {
		return vm.ModuleBindings()
	}
	f := vm.activeFrame
	bindings := map[string]object.Object{}
	for i, name := range f.code.LocalNames() {
		if f.locals[i] != nil {
			bindings[name] = f.locals[i]
		}
	}
	return bindings
}

// ActiveFunctionName returns the name of the function currently executing,
// or "<module>" at module depth.
func (vm *VirtualMachine) ActiveFunctionName() string {
	if vm.activeFrame == nil {
		return "<module>"
	}
	return vm.activeFrame.name()
}

// ActiveLine returns the source line of the instruction currently executing.
func (vm *VirtualMachine) ActiveLine() int {
	if vm.activeCode == nil {
		return 0
	}
	return vm.activeCode.LocationAt(vm.instrIP).Line
}

// wrapError converts err into a StructuredError carrying the current source
// location and call stack.
func (vm *VirtualMachine) wrapError(err error) error {
	var structured *errz.StructuredError
	if !errors.As(err, &structured) {
		structured = errz.Errorf(errz.ErrRuntime, "%v", err)
	}
	loc := vm.activeCode.LocationAt(vm.instrIP)
	structured.WithLocation(loc)
	structured.WithFrame(vm.activeFrame.name(), loc.Line)
	for i := vm.fp; i > 0; i-- {
		f := &vm.frames[i]
		caller := &vm.frames[i-1]
		structured.WithFrame(caller.name(), caller.code.LocationAt(f.callSiteIP).Line)
	}
	return structured
}
