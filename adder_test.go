package adder

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/object"
	"github.com/adder-lang/adder/vm"
)

func TestEval(t *testing.T) {
	var stdout bytes.Buffer
	machine, err := Eval(context.Background(),
		"a = 1\nb = a + 1\nprint(b)\n", WithStdout(&stdout))
	require.NoError(t, err)
	require.Equal(t, "2\n", stdout.String())

	b, err := machine.Get("b")
	require.NoError(t, err)
	require.Equal(t, "2", b.Inspect())
}

func TestCompileThenRun(t *testing.T) {
	var stdout bytes.Buffer
	opts := []Option{WithStdout(&stdout), WithFilename("demo.py")}

	code, err := Compile("print('hello')\n", opts...)
	require.NoError(t, err)
	require.Equal(t, "demo.py", code.Filename())

	_, err = Run(context.Background(), code, opts...)
	require.NoError(t, err)
	require.Equal(t, "hello\n", stdout.String())
}

func TestEvalSyntaxError(t *testing.T) {
	_, err := Eval(context.Background(), "def broken(:\n    pass\n")
	require.Error(t, err)
	var structured *errz.StructuredError
	require.ErrorAs(t, err, &structured)
	require.Equal(t, errz.ErrSyntax, structured.Kind)
}

func TestEvalWithExtraGlobals(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Eval(context.Background(), "print(answer)\n",
		WithStdout(&stdout),
		WithGlobals(map[string]object.Object{
			"answer": object.NewInt(42),
		}))
	require.NoError(t, err)
	require.Equal(t, "42\n", stdout.String())
}

func TestEvalObserver(t *testing.T) {
	var lines []int
	_, err := Eval(context.Background(), "x = 1\ny = 2\n",
		WithStdout(&bytes.Buffer{}),
		WithLineObserver(func(event vm.LineEvent) bool {
			lines = append(lines, event.Line)
			return true
		}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, lines)
}
