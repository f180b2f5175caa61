// Package builtins defines the built-in functions available to programs.
package builtins

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/object"
	"github.com/adder-lang/adder/op"
)

// Config customizes the builtin set. Stdout is where print() writes; it
// defaults to os.Stdout.
type Config struct {
	Stdout io.Writer
}

// Builtins returns the default builtin functions keyed by name.
func Builtins(cfg Config) map[string]object.Object {
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return map[string]object.Object{
		"print":  object.NewBuiltin("print", Print(stdout)),
		"len":    object.NewBuiltin("len", Len),
		"range":  object.NewBuiltin("range", RangeFn),
		"str":    object.NewBuiltin("str", Str),
		"int":    object.NewBuiltin("int", Int),
		"float":  object.NewBuiltin("float", Float),
		"bool":   object.NewBuiltin("bool", Bool),
		"abs":    object.NewBuiltin("abs", Abs),
		"min":    object.NewBuiltin("min", Min),
		"max":    object.NewBuiltin("max", Max),
		"sum":    object.NewBuiltin("sum", Sum),
		"sorted": object.NewBuiltin("sorted", Sorted),
		"repr":   object.NewBuiltin("repr", Repr),
		"type":   object.NewBuiltin("type", TypeFn),
	}
}

// Names returns the builtin names in no particular order. The compiler needs
// these to reserve global slots.
func Names() []string {
	var names []string
	for name := range Builtins(Config{Stdout: io.Discard}) {
		names = append(names, name)
	}
	return names
}

// Print returns a print() implementation bound to the given writer. Values
// are space separated and followed by a newline, strings print unquoted.
func Print(stdout io.Writer) object.BuiltinFunction {
	return func(args ...object.Object) (object.Object, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = fmt.Sprintf("%v", object.PrintableValue(arg))
		}
		if _, err := fmt.Fprintln(stdout, strings.Join(parts, " ")); err != nil {
			return nil, errz.Errorf(errz.ErrRuntime, "print: %v", err)
		}
		return object.Nil, nil
	}
}

func Len(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("len() takes exactly one argument (%d given)", len(args))
	}
	container, ok := args[0].(object.Container)
	if !ok {
		return nil, errz.TypeErrorf("object of type %q has no len()", args[0].Type())
	}
	return object.NewInt(int64(container.Len())), nil
}

func RangeFn(args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errz.TypeErrorf("range expected 1 to 3 arguments, got %d", len(args))
	}
	values := make([]int64, len(args))
	for i, arg := range args {
		intArg, ok := arg.(*object.Int)
		if !ok {
			return nil, errz.TypeErrorf(
				"%q object cannot be interpreted as an integer", arg.Type())
		}
		values[i] = intArg.Value()
	}
	switch len(args) {
	case 1:
		return object.NewRange(0, values[0], 1), nil
	case 2:
		return object.NewRange(values[0], values[1], 1), nil
	default:
		if values[2] == 0 {
			return nil, errz.ValueErrorf("range() arg 3 must not be zero")
		}
		return object.NewRange(values[0], values[1], values[2]), nil
	}
}

func Str(args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.NewString(""), nil
	case 1:
		return object.NewString(fmt.Sprintf("%v", object.PrintableValue(args[0]))), nil
	default:
		return nil, errz.TypeErrorf("str() takes at most 1 argument (%d given)", len(args))
	}
}

func Int(args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.NewInt(0), nil
	case 1:
	default:
		return nil, errz.TypeErrorf("int() takes at most 1 argument (%d given)", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return arg, nil
	case *object.Float:
		return object.NewInt(int64(arg.Value())), nil
	case *object.Bool:
		if arg.Value() {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case *object.String:
		value, err := strconv.ParseInt(strings.TrimSpace(arg.Value()), 10, 64)
		if err != nil {
			return nil, errz.ValueErrorf(
				"invalid literal for int() with base 10: %s", arg.Inspect())
		}
		return object.NewInt(value), nil
	default:
		return nil, errz.TypeErrorf(
			"int() argument must be a string or a number, not %q", args[0].Type())
	}
}

func Float(args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.NewFloat(0), nil
	case 1:
	default:
		return nil, errz.TypeErrorf("float() takes at most 1 argument (%d given)", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Float:
		return arg, nil
	case *object.Int:
		return object.NewFloat(float64(arg.Value())), nil
	case *object.Bool:
		if arg.Value() {
			return object.NewFloat(1), nil
		}
		return object.NewFloat(0), nil
	case *object.String:
		value, err := strconv.ParseFloat(strings.TrimSpace(arg.Value()), 64)
		if err != nil {
			return nil, errz.ValueErrorf(
				"could not convert string to float: %s", arg.Inspect())
		}
		return object.NewFloat(value), nil
	default:
		return nil, errz.TypeErrorf(
			"float() argument must be a string or a number, not %q", args[0].Type())
	}
}

func Bool(args ...object.Object) (object.Object, error) {
	switch len(args) {
	case 0:
		return object.False, nil
	case 1:
		return object.NewBool(args[0].IsTruthy()), nil
	default:
		return nil, errz.TypeErrorf("bool() takes at most 1 argument (%d given)", len(args))
	}
}

func Abs(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("abs() takes exactly one argument (%d given)", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Int:
		if arg.Value() < 0 {
			return object.NewInt(-arg.Value()), nil
		}
		return arg, nil
	case *object.Float:
		return object.NewFloat(math.Abs(arg.Value())), nil
	default:
		return nil, errz.TypeErrorf("bad operand type for abs(): %q", args[0].Type())
	}
}

func Min(args ...object.Object) (object.Object, error) {
	return extreme("min", op.LessThan, args)
}

func Max(args ...object.Object) (object.Object, error) {
	return extreme("max", op.GreaterThan, args)
}

// extreme implements min/max over either a single iterable argument or two
// or more direct arguments.
func extreme(name string, opType op.CompareOpType, args []object.Object) (object.Object, error) {
	items, err := argsOrIterable(name, args)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errz.ValueErrorf("%s() arg is an empty sequence", name)
	}
	best := items[0]
	for _, item := range items[1:] {
		result, err := object.Compare(opType, item, best)
		if err != nil {
			return nil, err
		}
		if result.IsTruthy() {
			best = item
		}
	}
	return best, nil
}

func argsOrIterable(name string, args []object.Object) ([]object.Object, error) {
	if len(args) == 0 {
		return nil, errz.TypeErrorf("%s expected at least 1 argument, got 0", name)
	}
	if len(args) > 1 {
		return args, nil
	}
	iter, err := object.GetIter(args[0])
	if err != nil {
		return nil, errz.TypeErrorf("%q object is not iterable", args[0].Type())
	}
	var items []object.Object
	for {
		item, ok := iter.Next()
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

func Sum(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("sum() takes exactly one argument (%d given)", len(args))
	}
	iter, err := object.GetIter(args[0])
	if err != nil {
		return nil, errz.TypeErrorf("%q object is not iterable", args[0].Type())
	}
	var total object.Object = object.NewInt(0)
	for {
		item, ok := iter.Next()
		if !ok {
			break
		}
		total, err = object.BinaryOp(op.Add, total, item)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

func Sorted(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("sorted() takes exactly one argument (%d given)", len(args))
	}
	iter, err := object.GetIter(args[0])
	if err != nil {
		return nil, errz.TypeErrorf("%q object is not iterable", args[0].Type())
	}
	var items []object.Object
	for {
		item, ok := iter.Next()
		if !ok {
			break
		}
		items = append(items, item)
	}
	// Insertion sort so a comparison error can stop the sort cleanly
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			less, err := object.Compare(op.LessThan, items[j], items[j-1])
			if err != nil {
				return nil, err
			}
			if !less.IsTruthy() {
				break
			}
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	return object.NewList(items), nil
}

func Repr(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("repr() takes exactly one argument (%d given)", len(args))
	}
	return object.NewString(args[0].Inspect()), nil
}

func TypeFn(args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("type() takes exactly one argument (%d given)", len(args))
	}
	return object.NewString(fmt.Sprintf("<class '%s'>", args[0].Type())), nil
}
