package object

import (
	"sort"
	"strings"

	"github.com/adder-lang/adder/errz"
)

// GetMethod resolves an attribute name on an object to a bound method.
// Methods are represented as Builtins closing over the receiver.
func GetMethod(obj Object, name string) (Object, bool) {
	switch obj := obj.(type) {
	case *List:
		return listMethod(obj, name)
	case *String:
		return stringMethod(obj, name)
	case *Map:
		return mapMethod(obj, name)
	}
	return nil, false
}

func listMethod(l *List, name string) (Object, bool) {
	switch name {
	case "append":
		return NewBuiltin("append", func(args ...Object) (Object, error) {
			if len(args) != 1 {
				return nil, errz.TypeErrorf("append() takes exactly one argument (%d given)", len(args))
			}
			l.Append(args[0])
			return Nil, nil
		}), true
	case "pop":
		return NewBuiltin("pop", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("pop() takes no arguments (%d given)", len(args))
			}
			return l.Pop()
		}), true
	case "reverse":
		return NewBuiltin("reverse", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("reverse() takes no arguments (%d given)", len(args))
			}
			for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
				l.items[i], l.items[j] = l.items[j], l.items[i]
			}
			return Nil, nil
		}), true
	case "sort":
		return NewBuiltin("sort", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("sort() takes no arguments (%d given)", len(args))
			}
			var sortErr error
			sort.SliceStable(l.items, func(i, j int) bool {
				result, err := compareOrder(l.items[i], l.items[j])
				if err != nil && sortErr == nil {
					sortErr = err
				}
				return result < 0
			})
			if sortErr != nil {
				return nil, sortErr
			}
			return Nil, nil
		}), true
	}
	return nil, false
}

func stringMethod(s *String, name string) (Object, bool) {
	switch name {
	case "upper":
		return NewBuiltin("upper", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("upper() takes no arguments (%d given)", len(args))
			}
			return NewString(strings.ToUpper(s.value)), nil
		}), true
	case "lower":
		return NewBuiltin("lower", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("lower() takes no arguments (%d given)", len(args))
			}
			return NewString(strings.ToLower(s.value)), nil
		}), true
	case "strip":
		return NewBuiltin("strip", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("strip() takes no arguments (%d given)", len(args))
			}
			return NewString(strings.TrimSpace(s.value)), nil
		}), true
	case "split":
		return NewBuiltin("split", func(args ...Object) (Object, error) {
			var parts []string
			switch len(args) {
			case 0:
				parts = strings.Fields(s.value)
			case 1:
				sep, ok := args[0].(*String)
				if !ok {
					return nil, errz.TypeErrorf("split() separator must be str, not %s", args[0].Type())
				}
				parts = strings.Split(s.value, sep.value)
			default:
				return nil, errz.TypeErrorf("split() takes at most one argument (%d given)", len(args))
			}
			items := make([]Object, len(parts))
			for i, part := range parts {
				items[i] = NewString(part)
			}
			return NewList(items), nil
		}), true
	case "join":
		return NewBuiltin("join", func(args ...Object) (Object, error) {
			if len(args) != 1 {
				return nil, errz.TypeErrorf("join() takes exactly one argument (%d given)", len(args))
			}
			list, ok := args[0].(*List)
			if !ok {
				return nil, errz.TypeErrorf("join() argument must be list, not %s", args[0].Type())
			}
			parts := make([]string, len(list.items))
			for i, item := range list.items {
				str, ok := item.(*String)
				if !ok {
					return nil, errz.TypeErrorf("sequence item %d: expected str, %s found", i, item.Type())
				}
				parts[i] = str.value
			}
			return NewString(strings.Join(parts, s.value)), nil
		}), true
	case "replace":
		return NewBuiltin("replace", func(args ...Object) (Object, error) {
			if len(args) != 2 {
				return nil, errz.TypeErrorf("replace() takes exactly two arguments (%d given)", len(args))
			}
			old, ok1 := args[0].(*String)
			new_, ok2 := args[1].(*String)
			if !ok1 || !ok2 {
				return nil, errz.TypeErrorf("replace() arguments must be str")
			}
			return NewString(strings.ReplaceAll(s.value, old.value, new_.value)), nil
		}), true
	case "startswith":
		return NewBuiltin("startswith", func(args ...Object) (Object, error) {
			if len(args) != 1 {
				return nil, errz.TypeErrorf("startswith() takes exactly one argument (%d given)", len(args))
			}
			prefix, ok := args[0].(*String)
			if !ok {
				return nil, errz.TypeErrorf("startswith() argument must be str, not %s", args[0].Type())
			}
			return NewBool(strings.HasPrefix(s.value, prefix.value)), nil
		}), true
	case "endswith":
		return NewBuiltin("endswith", func(args ...Object) (Object, error) {
			if len(args) != 1 {
				return nil, errz.TypeErrorf("endswith() takes exactly one argument (%d given)", len(args))
			}
			suffix, ok := args[0].(*String)
			if !ok {
				return nil, errz.TypeErrorf("endswith() argument must be str, not %s", args[0].Type())
			}
			return NewBool(strings.HasSuffix(s.value, suffix.value)), nil
		}), true
	}
	return nil, false
}

func mapMethod(m *Map, name string) (Object, bool) {
	switch name {
	case "keys":
		return NewBuiltin("keys", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("keys() takes no arguments (%d given)", len(args))
			}
			keys := m.OrderedKeys()
			items := make([]Object, len(keys))
			for i, k := range keys {
				items[i] = NewString(k)
			}
			return NewList(items), nil
		}), true
	case "values":
		return NewBuiltin("values", func(args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.TypeErrorf("values() takes no arguments (%d given)", len(args))
			}
			keys := m.OrderedKeys()
			items := make([]Object, len(keys))
			for i, k := range keys {
				items[i] = m.items[k]
			}
			return NewList(items), nil
		}), true
	case "get":
		return NewBuiltin("get", func(args ...Object) (Object, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, errz.TypeErrorf("get() takes one or two arguments (%d given)", len(args))
			}
			key, ok := args[0].(*String)
			if !ok {
				return nil, typeErrMapKey(args[0])
			}
			def := Object(Nil)
			if len(args) == 2 {
				def = args[1]
			}
			return m.Get(key.value, def), nil
		}), true
	}
	return nil, false
}
