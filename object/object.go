// Package object provides the runtime value types for adder programs.
//
// An object.Object is often type asserted to a specific object type:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Float:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get the Python-style
// name of the object type, such as "str" or "float".
package object

import (
	"fmt"
	"sort"
)

// Type of an object as a string. The names follow Python's type names so that
// variable inspection output reads like the hosted language.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	BUILTIN  Type = "builtin_function_or_method"
	FLOAT    Type = "float"
	FUNCTION Type = "function"
	INT      Type = "int"
	ITER     Type = "iterator"
	LIST     Type = "list"
	MAP      Type = "dict"
	NIL      Type = "NoneType"
	RANGE    Type = "range"
	STRING   Type = "str"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all object types in adder must implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns the display-string form of the object, following
	// Python repr conventions (strings are single-quoted).
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Equals returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool
}

// Iterator is implemented by objects that can produce a sequence of values.
// Next returns the next value and true, or nil and false when exhausted.
type Iterator interface {
	Object
	Next() (Object, bool)
}

// Iterable is implemented by container objects that can be iterated.
type Iterable interface {
	Iter() Iterator
}

// Container is implemented by objects supporting the [key] operator.
type Container interface {
	// GetItem implements the [key] operator.
	GetItem(key Object) (Object, error)

	// Len returns the number of items in this container.
	Len() int
}

// NewBool returns the interned Bool for the given value.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Keys returns the keys of an object map as a sorted slice of strings.
func Keys(m map[string]Object) []string {
	var names []string
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// PrintableValue returns a value that should be used when printing an object.
// Primitive types print their underlying Go value so that a string prints
// without quotes, matching Python's print().
func PrintableValue(obj Object) interface{} {
	switch obj := obj.(type) {
	case *String, *Int, *Float, *Bool:
		return obj.Interface()
	case *NilType:
		return "None"
	}
	switch obj := obj.(type) {
	case fmt.Stringer:
		return obj.String()
	default:
		return obj.Inspect()
	}
}
