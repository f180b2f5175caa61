package object

import (
	"github.com/adder-lang/adder/errz"
)

// GetSlice implements the [start:stop] operator for lists and strings.
// Nil bounds default to the ends of the sequence; negative bounds count
// from the end; out-of-range bounds clamp, as in Python.
func GetSlice(container, start, stop Object) (Object, error) {
	var length int
	switch container := container.(type) {
	case *List:
		length = len(container.items)
	case *String:
		length = len([]rune(container.value))
	default:
		return nil, errz.TypeErrorf("%s object is not subscriptable", container.Type())
	}

	lo, err := sliceBound(start, 0, length)
	if err != nil {
		return nil, err
	}
	hi, err := sliceBound(stop, length, length)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		hi = lo
	}

	switch container := container.(type) {
	case *List:
		items := make([]Object, hi-lo)
		copy(items, container.items[lo:hi])
		return NewList(items), nil
	case *String:
		runes := []rune(container.value)
		return NewString(string(runes[lo:hi])), nil
	}
	return nil, errz.TypeErrorf("%s object is not subscriptable", container.Type())
}

func sliceBound(bound Object, def, length int) (int, error) {
	if bound == nil {
		return def, nil
	}
	if _, isNil := bound.(*NilType); isNil {
		return def, nil
	}
	idx, ok := bound.(*Int)
	if !ok {
		return 0, errz.TypeErrorf("slice indices must be integers or None, not %s", bound.Type())
	}
	i := int(idx.value)
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i, nil
}
