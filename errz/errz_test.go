package errz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := TypeErrorf("unsupported operand type(s) for +: 'int' and 'str'")
	require.Equal(t, "type error: unsupported operand type(s) for +: 'int' and 'str'", err.Error())

	err = err.WithLocation(SourceLocation{Filename: "example.py", Line: 3})
	require.Equal(t, "type error: unsupported operand type(s) for +: 'int' and 'str' (line 3)", err.Error())
}

func TestKindStrings(t *testing.T) {
	require.Equal(t, "syntax error", ErrSyntax.String())
	require.Equal(t, "name error", ErrName.String())
	require.Equal(t, "value error", ErrValue.String())
	require.Equal(t, "index error", ErrIndex.String())
	require.Equal(t, "attribute error", ErrAttribute.String())
	require.Equal(t, "runtime error", ErrRuntime.String())
}

func TestWithLocationKeepsInnermost(t *testing.T) {
	err := NameErrorf("name %q is not defined", "x")
	err.WithLocation(SourceLocation{Line: 5})
	err.WithLocation(SourceLocation{Line: 9})
	require.Equal(t, 5, err.Location.Line)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Errorf(ErrRuntime, "wrapped").WithCause(cause)
	require.ErrorIs(t, err, cause)

	var structured *StructuredError
	require.True(t, errors.As(error(err), &structured))
	require.Equal(t, ErrRuntime, structured.Kind)
}

func TestFriendlyTrace(t *testing.T) {
	err := Errorf(ErrRuntime, "division by zero").
		WithLocation(SourceLocation{Line: 2, Source: "    return n / 0"}).
		WithFrame("f", 2).
		WithFrame("<module>", 4)

	trace := err.FriendlyTrace()
	require.Equal(t, "Traceback (most recent call last):\n"+
		"  line 4, in <module>\n"+
		"  line 2, in f\n"+
		"    return n / 0\n"+
		"runtime error: division by zero\n", trace)
}

func TestFriendlyTraceWithoutStack(t *testing.T) {
	err := Errorf(ErrName, "name 'x' is not defined").
		WithLocation(SourceLocation{Line: 1, Source: "y = x"})
	trace := err.FriendlyTrace()
	require.Contains(t, trace, "  line 1\n")
	require.Contains(t, trace, "    y = x\n")
	require.Contains(t, trace, "name error: name 'x' is not defined\n")
}
