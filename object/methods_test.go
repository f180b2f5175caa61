package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// callMethod resolves a method on obj and invokes it.
func callMethod(t *testing.T, obj Object, name string, args ...Object) (Object, error) {
	t.Helper()
	method, found := GetMethod(obj, name)
	require.True(t, found, "no method %q on %s", name, obj.Type())
	builtin, ok := method.(*Builtin)
	require.True(t, ok)
	return builtin.Call(args...)
}

func TestListMethods(t *testing.T) {
	list := NewList([]Object{NewInt(3), NewInt(1), NewInt(2)})

	result, err := callMethod(t, list, "append", NewInt(4))
	require.NoError(t, err)
	require.Equal(t, Nil, result)
	require.Equal(t, 4, list.Len())

	result, err = callMethod(t, list, "pop")
	require.NoError(t, err)
	require.Equal(t, NewInt(4), result)
	require.Equal(t, 3, list.Len())

	_, err = callMethod(t, list, "sort")
	require.NoError(t, err)
	require.Equal(t, "[1, 2, 3]", list.Inspect())

	_, err = callMethod(t, list, "reverse")
	require.NoError(t, err)
	require.Equal(t, "[3, 2, 1]", list.Inspect())
}

func TestListPopEmpty(t *testing.T) {
	_, err := callMethod(t, NewList(nil), "pop")
	require.Error(t, err)
	require.Contains(t, err.Error(), "pop from empty list")
}

func TestListSortMixedTypes(t *testing.T) {
	list := NewList([]Object{NewInt(1), NewString("x")})
	_, err := callMethod(t, list, "sort")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestStringMethods(t *testing.T) {
	s := NewString("  Hello World  ")

	result, err := callMethod(t, s, "strip")
	require.NoError(t, err)
	require.Equal(t, NewString("Hello World"), result)

	result, err = callMethod(t, NewString("abc"), "upper")
	require.NoError(t, err)
	require.Equal(t, NewString("ABC"), result)

	result, err = callMethod(t, NewString("ABC"), "lower")
	require.NoError(t, err)
	require.Equal(t, NewString("abc"), result)

	result, err = callMethod(t, NewString("a,b,c"), "split", NewString(","))
	require.NoError(t, err)
	require.Equal(t, "['a', 'b', 'c']", result.Inspect())

	result, err = callMethod(t, NewString("one  two"), "split")
	require.NoError(t, err)
	require.Equal(t, "['one', 'two']", result.Inspect())

	result, err = callMethod(t, NewString("-"), "join",
		NewList([]Object{NewString("a"), NewString("b")}))
	require.NoError(t, err)
	require.Equal(t, NewString("a-b"), result)

	result, err = callMethod(t, NewString("aaa"), "replace", NewString("a"), NewString("b"))
	require.NoError(t, err)
	require.Equal(t, NewString("bbb"), result)

	result, err = callMethod(t, NewString("hello"), "startswith", NewString("he"))
	require.NoError(t, err)
	require.Equal(t, True, result)

	result, err = callMethod(t, NewString("hello"), "endswith", NewString("he"))
	require.NoError(t, err)
	require.Equal(t, False, result)
}

func TestStringJoinRejectsNonStrings(t *testing.T) {
	_, err := callMethod(t, NewString(","), "join", NewList([]Object{NewInt(1)}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected str")
}

func TestMapMethods(t *testing.T) {
	m := NewMap()
	m.SetString("b", NewInt(2))
	m.SetString("a", NewInt(1))

	// insertion order, not lexical order
	result, err := callMethod(t, m, "keys")
	require.NoError(t, err)
	require.Equal(t, "['b', 'a']", result.Inspect())

	result, err = callMethod(t, m, "values")
	require.NoError(t, err)
	require.Equal(t, "[2, 1]", result.Inspect())

	result, err = callMethod(t, m, "get", NewString("a"))
	require.NoError(t, err)
	require.Equal(t, NewInt(1), result)

	result, err = callMethod(t, m, "get", NewString("missing"))
	require.NoError(t, err)
	require.Equal(t, Nil, result)

	result, err = callMethod(t, m, "get", NewString("missing"), NewInt(0))
	require.NoError(t, err)
	require.Equal(t, NewInt(0), result)
}

func TestUnknownMethod(t *testing.T) {
	_, found := GetMethod(NewList(nil), "shuffle")
	require.False(t, found)

	_, found = GetMethod(NewInt(1), "upper")
	require.False(t, found)
}
