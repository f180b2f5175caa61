package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

func TestCompileSimpleProgram(t *testing.T) {
	code, err := Compile("a = 1\nb = a + 1\nprint(b)\n",
		WithGlobalNames([]string{"print"}))
	require.NoError(t, err)
	require.True(t, code.IsRoot())
	require.Equal(t, "<module>", code.CodeName())

	globals := code.GlobalNames()
	require.Contains(t, globals, "a")
	require.Contains(t, globals, "b")
	require.Contains(t, globals, "print")
	require.Equal(t, []string{"print"}, code.EnvKeys())

	// The final instruction halts the module
	require.Equal(t, op.Halt, code.Instruction(code.InstructionCount()-1))
}

func TestCompileSourceLocations(t *testing.T) {
	code, err := Compile("x = 1\ny = 2\n")
	require.NoError(t, err)
	require.Equal(t, code.InstructionCount(), code.LocationsCount())

	first := code.LocationAt(0)
	require.Equal(t, 1, first.Line)
	require.Equal(t, "x = 1", first.Source)

	// Find the instruction where line 2 starts
	var sawLine2 bool
	for i := 0; i < code.InstructionCount(); i++ {
		if code.LocationAt(i).Line == 2 {
			sawLine2 = true
			require.Equal(t, "y = 2", code.LocationAt(i).Source)
			break
		}
	}
	require.True(t, sawLine2)
}

func TestCompileFunctionDef(t *testing.T) {
	src := "def add(x, y):\n    total = x + y\n    return total\n\nresult = add(1, 2)\n"
	code, err := Compile(src)
	require.NoError(t, err)

	flat := code.Flatten()
	require.Len(t, flat, 2)
	fnCode := flat[1]
	require.Equal(t, "add", fnCode.CodeName())
	require.Equal(t, []string{"x", "y", "total"}, fnCode.LocalNames())
	require.False(t, fnCode.IsRoot())
	require.Equal(t, code, fnCode.Root())

	// The function body is stored as a constant of the module
	var fn *Function
	for i := 0; i < code.ConstantsCount(); i++ {
		if f, ok := code.Constant(i).(*Function); ok {
			fn = f
		}
	}
	require.NotNil(t, fn)
	require.Equal(t, "add", fn.Name())
	require.Equal(t, []string{"x", "y"}, fn.Parameters())
	require.Equal(t, fnCode, fn.Code())
}

func TestCompileGlobalReadInsideFunction(t *testing.T) {
	src := "n = 10\ndef f():\n    return n\n"
	code, err := Compile(src)
	require.NoError(t, err)
	fnCode := code.Flatten()[1]
	// n is not a local of f; it resolves to the module scope
	require.NotContains(t, fnCode.LocalNames(), "n")
	require.Contains(t, code.GlobalNames(), "n")
}

func TestCompileNumberLiterals(t *testing.T) {
	code, err := Compile("a = 2.0\nb = 3\nc = 1.5\n")
	require.NoError(t, err)

	var constants []any
	for i := 0; i < code.ConstantsCount(); i++ {
		constants = append(constants, code.Constant(i))
	}
	// A float literal with an integral value stays a float
	require.Contains(t, constants, float64(2.0))
	require.Contains(t, constants, int64(3))
	require.Contains(t, constants, float64(1.5))
	require.NotContains(t, constants, int64(2))
}

func TestCompileGlobalStatement(t *testing.T) {
	src := "x = 0\ndef f():\n    global x\n    x = 5\nf()\n"
	code, err := Compile(src)
	require.NoError(t, err)

	flat := code.Flatten()
	require.Len(t, flat, 2)
	fnCode := flat[1]

	// The declared name is not a local of the function
	require.Empty(t, fnCode.LocalNames())
	require.Contains(t, code.GlobalNames(), "x")

	// The assignment in the body stores the module binding
	var sawStoreGlobal, sawStoreFast bool
	for i := 0; i < fnCode.InstructionCount(); {
		opcode := fnCode.Instruction(i)
		switch opcode {
		case op.StoreGlobal:
			sawStoreGlobal = true
		case op.StoreFast:
			sawStoreFast = true
		}
		i += 1 + op.GetInfo(opcode).OperandCount
	}
	require.True(t, sawStoreGlobal)
	require.False(t, sawStoreFast)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "x = = 1", "invalid syntax"},
		{"class", "class Foo:\n    pass\n", "class definitions are not supported"},
		{"import", "import os\n", "imports are not supported"},
		{"try", "try:\n    pass\nexcept:\n    pass\n", "try statements are not supported"},
		{"lambda", "f = lambda x: x\n", "lambda expressions are not supported"},
		{"listcomp", "x = [i for i in y]\n", "comprehensions are not supported"},
		{"chained compare", "x = 1 < 2 < 3\n", "chained comparisons are not supported"},
		{"return at module level", "return 1\n", "'return' outside function"},
		{"break outside loop", "break\n", "'break' outside loop"},
		{"keyword args", "f(x=1)\n", "keyword arguments are not supported"},
		{"slice step", "x = y[::2]\n", "slice step is not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
			var structured *errz.StructuredError
			require.True(t, errors.As(err, &structured))
			require.Equal(t, errz.ErrSyntax, structured.Kind)
		})
	}
}

func TestCompileLoops(t *testing.T) {
	src := "total = 0\nfor i in range(5):\n    if i == 3:\n        break\n    total = total + i\n"
	code, err := Compile(src, WithGlobalNames([]string{"range"}))
	require.NoError(t, err)

	var sawForIter bool
	instructions := code.Instructions()
	for i := 0; i < len(instructions); {
		if instructions[i] == op.ForIter {
			sawForIter = true
			target := int(instructions[i+1])
			require.Greater(t, target, i)
			require.LessOrEqual(t, target, len(instructions))
		}
		i += 1 + op.GetInfo(instructions[i]).OperandCount
	}
	require.True(t, sawForIter)
}

func TestCompileWhileBackwardJump(t *testing.T) {
	code, err := Compile("i = 0\nwhile i < 3:\n    i = i + 1\n")
	require.NoError(t, err)

	var sawBackward bool
	instructions := code.Instructions()
	for i := 0; i < len(instructions); {
		if instructions[i] == op.Jump && int(instructions[i+1]) < i {
			sawBackward = true
		}
		i += 1 + op.GetInfo(instructions[i]).OperandCount
	}
	require.True(t, sawBackward)
}

func TestMarshalRoundTrip(t *testing.T) {
	src := "def double(x):\n    return x * 2\n\nvalue = double(21)\nprint(value)\n"
	code, err := Compile(src, WithGlobalNames([]string{"print"}),
		WithFilename("double.py"))
	require.NoError(t, err)

	data, err := Marshal(code)
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, code.Instructions(), restored.Instructions())
	require.Equal(t, code.GlobalNames(), restored.GlobalNames())
	require.Equal(t, code.EnvKeys(), restored.EnvKeys())
	require.Equal(t, "double.py", restored.Filename())
	require.Equal(t, src, restored.Source())
	require.Equal(t, code.LocationAt(0).Line, restored.LocationAt(0).Line)

	flat := restored.Flatten()
	require.Len(t, flat, 2)
	require.Equal(t, "double", flat[1].CodeName())
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	code, err := Compile("x = [1, 2.5, 'three', True, None]\n")
	require.NoError(t, err)

	data, err := MarshalJSON(code)
	require.NoError(t, err)
	require.Contains(t, string(data), "\"instructions\"")

	restored, err := UnmarshalJSON(data)
	require.NoError(t, err)
	require.Equal(t, code.Instructions(), restored.Instructions())
	require.Equal(t, code.ConstantsCount(), restored.ConstantsCount())
}
