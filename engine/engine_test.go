package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adder-lang/adder/errz"
)

func TestExecuteBatch(t *testing.T) {
	e := New()
	err := e.Execute(context.Background(), "a = 1\nb = a + 1\nprint(b)\n")
	require.NoError(t, err)

	snap := e.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, "2\n", snap.Stdout)
	require.Empty(t, snap.Stderr)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, snap.Globals)
	// At module level the locals view equals the globals view
	require.Equal(t, snap.Globals, snap.Locals)
	require.Empty(t, snap.Trace)
}

func TestExecuteBatchHidesBuiltins(t *testing.T) {
	e := New()
	require.NoError(t, e.Execute(context.Background(), "x = len('abc')\n"))
	snap := e.Snapshot()
	require.Equal(t, map[string]string{"x": "3"}, snap.Globals)
	require.NotContains(t, snap.Globals, "len")
	require.NotContains(t, snap.Globals, "print")
}

func TestExecuteBatchRuntimeError(t *testing.T) {
	e := New()
	err := e.Execute(context.Background(), "x = 1\ny = x / 0\n")
	require.Error(t, err)
	require.ErrorIs(t, e.LastError(), err)

	snap := e.Snapshot()
	require.False(t, snap.Running)
	require.Contains(t, snap.Stderr, "Traceback (most recent call last):")
	require.Contains(t, snap.Stderr, "division by zero")
	// Bindings made before the failure survive
	require.Equal(t, "1", snap.Globals["x"])
}

func TestExecuteBatchCompileError(t *testing.T) {
	e := New()
	err := e.Execute(context.Background(), "def broken(:\n")
	require.Error(t, err)
	var structured *errz.StructuredError
	require.ErrorAs(t, err, &structured)
	require.Equal(t, errz.ErrSyntax, structured.Kind)
	require.Contains(t, e.Snapshot().Stderr, "syntax error")
	require.False(t, e.IsRunning())
}

func TestSteppingScenario(t *testing.T) {
	e := New()
	ctx := context.Background()
	require.NoError(t, e.StartStepping(ctx, "a = 1\nb = a + 1\nprint(b)\n"))
	require.True(t, e.IsRunning())

	// Parked at line 1, nothing executed yet
	snap := e.Snapshot()
	require.True(t, snap.Running)
	require.Empty(t, snap.Trace)
	require.Empty(t, snap.Locals)
	require.Empty(t, snap.Stdout)

	// First step: line 1 recorded with no bindings yet
	require.NoError(t, e.Step())
	trace := e.Trace()
	require.Len(t, trace, 1)
	require.Equal(t, 1, trace[0].Line)
	require.Equal(t, "<module>", trace[0].Function)
	require.Empty(t, trace[0].Locals)
	require.Equal(t, EventLine, trace[0].Event)

	// Second step: line 2 sees a=1
	require.NoError(t, e.Step())
	trace = e.Trace()
	require.Len(t, trace, 2)
	require.Equal(t, 2, trace[1].Line)
	require.Equal(t, map[string]string{"a": "1"}, trace[1].Locals)

	// Third step runs the final line; the program finishes
	require.NoError(t, e.Step())
	trace = e.Trace()
	require.Len(t, trace, 3)
	require.Equal(t, 3, trace[2].Line)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, trace[2].Locals)

	snap = e.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, "2\n", snap.Stdout)
	require.Empty(t, snap.Stderr)
}

func TestStepWhenIdleIsNoop(t *testing.T) {
	e := New()
	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	require.False(t, e.IsRunning())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	e := New()
	require.NoError(t, e.Stop())
}

func TestStopWhileStepping(t *testing.T) {
	e := New()
	ctx := context.Background()
	require.NoError(t, e.StartStepping(ctx, "a = 1\nb = 2\nc = 3\n"))
	require.NoError(t, e.Step())
	require.NoError(t, e.Stop())

	require.False(t, e.IsRunning())
	trace := e.Trace()
	require.Len(t, trace, 1)
	require.Equal(t, 1, trace[0].Line)

	snap := e.Snapshot()
	require.Equal(t, map[string]string{"a": "1"}, snap.Globals)
	require.NotContains(t, snap.Globals, "b")

	// Stepping after stop stays a no-op
	require.NoError(t, e.Step())
	require.Len(t, e.Trace(), 1)
}

func TestStopInterruptsBatch(t *testing.T) {
	e := New()
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Execute(context.Background(), "while True:\n    pass\n")
	}()
	// Give the loop a moment to start, then stop it
	require.Eventually(t, e.IsRunning, time.Second, time.Millisecond)
	require.NoError(t, e.Stop())
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("batch execution did not stop")
	}
	require.False(t, e.IsRunning())
}

func TestSteppingRuntimeError(t *testing.T) {
	e := New()
	ctx := context.Background()
	require.NoError(t, e.StartStepping(ctx, "a = 1\nb = a / 0\n"))
	require.NoError(t, e.Step()) // line 1
	err := e.Step()              // line 2 fails
	require.Error(t, err)

	snap := e.Snapshot()
	require.False(t, snap.Running)
	require.Contains(t, snap.Stderr, "division by zero")
	require.Len(t, e.Trace(), 2)
}

func TestSteppingCompileError(t *testing.T) {
	e := New()
	err := e.StartStepping(context.Background(), "import os\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "imports are not supported")
	require.False(t, e.IsRunning())
	require.Contains(t, e.Snapshot().Stderr, "syntax error")
}

func TestConcurrentRunsRejected(t *testing.T) {
	e := New()
	ctx := context.Background()
	require.NoError(t, e.StartStepping(ctx, "a = 1\nb = 2\n"))
	require.ErrorIs(t, e.Execute(ctx, "x = 1\n"), ErrAlreadyRunning)
	require.ErrorIs(t, e.StartStepping(ctx, "x = 1\n"), ErrAlreadyRunning)
	require.NoError(t, e.Stop())
}

func TestSteppingIntoFunction(t *testing.T) {
	src := `def f(n):
    doubled = n * 2
    return doubled

result = f(3)
`
	e := New()
	ctx := context.Background()
	require.NoError(t, e.StartStepping(ctx, src))

	// def line, call line, then two lines inside f, then done
	require.NoError(t, e.Step()) // line 1: def f
	require.NoError(t, e.Step()) // line 5: result = f(3)
	require.NoError(t, e.Step()) // line 2: doubled = n * 2

	trace := e.Trace()
	require.Len(t, trace, 3)
	require.Equal(t, 2, trace[2].Line)
	require.Equal(t, "f", trace[2].Function)
	require.Equal(t, map[string]string{"n": "3"}, trace[2].Locals)

	require.NoError(t, e.Step()) // line 3: return doubled
	trace = e.Trace()
	require.Equal(t, map[string]string{"n": "3", "doubled": "6"}, trace[3].Locals)

	require.NoError(t, e.Step()) // finishes
	require.False(t, e.IsRunning())
	require.Equal(t, "6", e.Snapshot().Globals["result"])
}

func TestVariables(t *testing.T) {
	e := New()
	require.NoError(t, e.Execute(context.Background(),
		"count = 3\nname = 'ada'\nratio = 1.5\nflags = [True]\n"))
	variables := e.Variables()
	require.Len(t, variables, 4)

	byName := map[string]VariableEntry{}
	for _, entry := range variables {
		byName[entry.Name] = entry
	}
	require.Equal(t, VariableEntry{
		Name: "count", Value: "3", TypeName: "int", Scope: ScopeGlobal,
	}, byName["count"])
	require.Equal(t, "'ada'", byName["name"].Value)
	require.Equal(t, "str", byName["name"].TypeName)
	require.Equal(t, "float", byName["ratio"].TypeName)
	require.Equal(t, "list", byName["flags"].TypeName)
}

func TestAbandonedRunIsIsolated(t *testing.T) {
	e := New(
		WithStepTimeout(100*time.Millisecond),
		WithStopTimeout(100*time.Millisecond))
	ctx := context.Background()

	// A single line that grinds for several seconds. The step times out
	// while the worker is inside it, and the stop gives up waiting and
	// abandons the worker mid-line.
	require.NoError(t, e.StartStepping(ctx, "x = sum(range(50000000))\n"))
	wedged := e.Snapshot()
	err := e.Step()
	require.Error(t, err)
	require.Contains(t, err.Error(), "step timed out")
	require.NoError(t, e.Stop())
	require.False(t, e.IsRunning())

	// The abandoned worker may still be executing. A fresh session must
	// start cleanly and never observe the old run's bindings.
	require.NoError(t, e.StartStepping(ctx, "y = 1\nz = 2\n"))
	snap := e.Snapshot()
	require.NotEqual(t, wedged.RunID, snap.RunID)
	require.NotContains(t, snap.Globals, "x")

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	require.False(t, e.IsRunning())
	require.NoError(t, e.LastError())
	final := e.Snapshot()
	require.Equal(t, "1", final.Globals["y"])
	require.Equal(t, "2", final.Globals["z"])
	require.NotContains(t, final.Globals, "x")
}

func TestEngineReuse(t *testing.T) {
	e := New()
	ctx := context.Background()
	require.NoError(t, e.Execute(ctx, "x = 1\nprint(x)\n"))
	first := e.Snapshot()
	require.Equal(t, "1\n", first.Stdout)
	require.NotEmpty(t, first.RunID)

	// A new run clears the previous run's state
	require.NoError(t, e.StartStepping(ctx, "y = 2\n"))
	snap := e.Snapshot()
	require.Empty(t, snap.Stdout)
	require.NotContains(t, snap.Globals, "x")
	require.NotEqual(t, first.RunID, snap.RunID)
	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	require.False(t, e.IsRunning())
	require.Equal(t, "2", e.Snapshot().Globals["y"])
}
