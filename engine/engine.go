// Package engine runs adder programs in two modes: batch execution, which
// runs a program to completion, and stepping execution, which runs a program
// line by line under caller control. In both modes the engine captures the
// program's output streams and variable bindings for inspection.
//
// Stepping works by parking the VM's worker goroutine inside the line
// observer. Two one-shot signal channels coordinate the handshake: the
// worker announces "suspended" when it reaches a line, and the controller
// releases it with "proceed". A Step call therefore always leaves the
// program parked at the next line, or finished.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/adder-lang/adder/builtins"
	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/object"
	"github.com/adder-lang/adder/vm"
)

const (
	DefaultStepTimeout = 5 * time.Second
	DefaultStopTimeout = 2 * time.Second
)

// ErrAlreadyRunning is returned when starting an execution while another is
// still active.
var ErrAlreadyRunning = errors.New("a program is already running")

// session holds the complete state of one execution: its signal channels,
// stop flag, output buffers, and captured bindings. The worker and the line
// hook only ever touch their own session. When a run is abandoned because
// its worker would not exit in time, the engine moves on to a fresh session
// and the stuck worker keeps writing into the old one, which nothing reads
// anymore.
type session struct {
	id       string
	running  bool
	stepping bool
	stopped  atomic.Bool

	suspended chan struct{}
	proceed   chan struct{}
	done      chan struct{}

	code      *compiler.Code
	hidden    map[string]bool
	line      int
	function  string
	trace     []StepRecord
	locals    map[string]string
	globals   map[string]string
	variables []VariableEntry
	lastErr   error

	stdout captureBuffer
	stderr captureBuffer
}

func newSession() *session {
	return &session{
		id:      uuid.Must(uuid.NewV4()).String(),
		locals:  map[string]string{},
		globals: map[string]string{},
	}
}

// Engine executes programs and tracks their observable state. All methods
// are safe for concurrent use; the execution itself happens either on the
// caller's goroutine (Execute) or on a worker goroutine (StartStepping).
type Engine struct {
	mu          sync.Mutex
	logger      zerolog.Logger
	stepTimeout time.Duration
	stopTimeout time.Duration

	// run is the current session. Session fields are guarded by mu; the
	// channels, the stop flag, and the buffers synchronize themselves.
	run *session
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for execution lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepTimeout bounds how long Step and StartStepping wait for the
// program to reach the next line.
func WithStepTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.stepTimeout = d
	}
}

// WithStopTimeout bounds how long Stop waits for the worker to exit.
func WithStopTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.stopTimeout = d
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:      zerolog.Nop(),
		stepTimeout: DefaultStepTimeout,
		stopTimeout: DefaultStopTimeout,
		run:         newSession(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// compile builds the program and the builtin globals bound to the session's
// captured stdout.
func compile(s *session, source string) (*compiler.Code, map[string]object.Object, error) {
	globals := builtins.Builtins(builtins.Config{Stdout: &s.stdout})
	code, err := compiler.Compile(source,
		compiler.WithGlobalNames(object.Keys(globals)))
	if err != nil {
		return nil, nil, err
	}
	return code, globals, nil
}

// Execute runs a program to completion in batch mode. Output, bindings, and
// any failure are recorded and visible through Snapshot afterward. A batch
// run can be interrupted with Stop or by cancelling the context.
func (e *Engine) Execute(ctx context.Context, source string) error {
	e.mu.Lock()
	if e.run.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	s := newSession()
	s.running = true
	e.run = s
	e.mu.Unlock()

	e.logger.Debug().Str("run_id", s.id).Msg("batch execution starting")

	code, globals, err := compile(s, source)
	if err != nil {
		recordFailure(s, err)
		e.mu.Lock()
		s.running = false
		e.mu.Unlock()
		return err
	}
	e.mu.Lock()
	s.code = code
	s.hidden = hiddenNames(code)
	e.mu.Unlock()

	machine := vm.New(code,
		vm.WithGlobals(globals),
		vm.WithLineObserver(func(vm.LineEvent) bool {
			return !s.stopped.Load()
		}))
	err = machine.Run(ctx)

	e.mu.Lock()
	if err != nil && !errors.Is(err, vm.ErrHalted) {
		s.lastErr = err
	}
	bindings := displayBindings(s, machine.ModuleBindings())
	s.globals = bindings
	s.locals = copyBindings(bindings)
	s.variables = entries(s, machine.ModuleBindings(), ScopeGlobal)
	s.running = false
	e.mu.Unlock()

	if err != nil {
		if errors.Is(err, vm.ErrHalted) {
			e.logger.Debug().Str("run_id", s.id).Msg("batch execution stopped")
			return nil
		}
		recordFailure(s, err)
		return err
	}
	e.logger.Debug().Str("run_id", s.id).Msg("batch execution finished")
	return nil
}

// StartStepping compiles a program and starts it in stepping mode. On
// return the program is parked at its first line, or has already finished
// if it has no executable lines. Compile errors are reported synchronously.
func (e *Engine) StartStepping(ctx context.Context, source string) error {
	e.mu.Lock()
	if e.run.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	s := newSession()
	e.run = s

	code, globals, err := compile(s, source)
	if err != nil {
		e.mu.Unlock()
		recordFailure(s, err)
		return err
	}
	s.code = code
	s.hidden = hiddenNames(code)
	s.running = true
	s.stepping = true
	s.suspended = make(chan struct{}, 1)
	s.proceed = make(chan struct{}, 1)
	s.done = make(chan struct{})
	e.mu.Unlock()

	var machine *vm.VirtualMachine
	machine = vm.New(code,
		vm.WithGlobals(globals),
		vm.WithLineObserver(func(event vm.LineEvent) bool {
			return e.lineHook(s, machine, event)
		}))

	e.logger.Debug().Str("run_id", s.id).Msg("stepping execution starting")
	go e.worker(ctx, s, machine)

	select {
	case <-s.suspended:
		return nil
	case <-s.done:
		return e.lastError(s)
	case <-time.After(e.stepTimeout):
		return fmt.Errorf("timed out waiting for program to reach its first line")
	}
}

// lineHook runs on the worker goroutine at the start of every source line.
// It captures the pre-execution bindings, parks until the controller calls
// Step or Stop, then records the step and lets the line execute.
func (e *Engine) lineHook(s *session, machine *vm.VirtualMachine, event vm.LineEvent) bool {
	if s.stopped.Load() {
		return false
	}
	record := e.captureStep(s, machine, event)

	select {
	case s.suspended <- struct{}{}:
	default:
	}
	<-s.proceed

	if s.stopped.Load() {
		return false
	}
	e.mu.Lock()
	s.trace = append(s.trace, record)
	e.mu.Unlock()
	e.logger.Debug().
		Str("run_id", s.id).
		Int("line", event.Line).
		Str("function", event.Function).
		Msg("step")
	return true
}

// captureStep snapshots the bindings visible at the current line and
// updates the session's live variable view.
func (e *Engine) captureStep(s *session, machine *vm.VirtualMachine, event vm.LineEvent) StepRecord {
	frameBindings := machine.FrameBindings()
	moduleBindings := machine.ModuleBindings()

	locals := displayBindings(s, frameBindings)
	globals := displayBindings(s, moduleBindings)

	var variables []VariableEntry
	if event.Depth > 0 {
		variables = append(variables, entries(s, frameBindings, ScopeLocal)...)
	}
	variables = append(variables, entries(s, moduleBindings, ScopeGlobal)...)

	e.mu.Lock()
	s.locals = locals
	s.globals = globals
	s.variables = variables
	s.line = event.Line
	s.function = event.Function
	e.mu.Unlock()

	return StepRecord{
		Line:     event.Line,
		Function: event.Function,
		Locals:   copyBindings(locals),
		Globals:  copyBindings(globals),
		Event:    EventLine,
	}
}

// worker runs the VM to completion and finalizes its own session. A worker
// that outlives an abandoned run still only writes here, never into the
// engine's current session.
func (e *Engine) worker(ctx context.Context, s *session, machine *vm.VirtualMachine) {
	err := machine.Run(ctx)

	e.mu.Lock()
	if err != nil && !errors.Is(err, vm.ErrHalted) {
		s.lastErr = err
	}
	bindings := displayBindings(s, machine.ModuleBindings())
	s.globals = bindings
	s.locals = copyBindings(bindings)
	s.variables = entries(s, machine.ModuleBindings(), ScopeGlobal)
	s.running = false
	s.stepping = false
	e.mu.Unlock()

	if err != nil && !errors.Is(err, vm.ErrHalted) {
		recordFailure(s, err)
		e.logger.Debug().Str("run_id", s.id).Err(err).Msg("stepping execution failed")
	} else {
		e.logger.Debug().Str("run_id", s.id).Msg("stepping execution finished")
	}
	close(s.done)
}

// Step releases the parked program to execute one line. On return the
// program is parked at the next line, or has finished. Calling Step when no
// stepping execution is active is a no-op.
func (e *Engine) Step() error {
	e.mu.Lock()
	s := e.run
	if !s.running || !s.stepping {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	// Drop any stale park announcement left by a timed out wait
	select {
	case <-s.suspended:
	default:
	}
	select {
	case s.proceed <- struct{}{}:
	default:
	}
	select {
	case <-s.suspended:
		return nil
	case <-s.done:
		return e.lastError(s)
	case <-time.After(e.stepTimeout):
		return fmt.Errorf("step timed out after %s", e.stepTimeout)
	}
}

// Stop terminates the active execution. For a stepping execution the parked
// worker is woken and told to halt; Stop waits briefly for it to exit and
// abandons it if it does not, so a new run can start. For a batch execution
// the stop takes effect at the next line. Stopping an idle engine is a
// no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	s := e.run
	if !s.running {
		e.mu.Unlock()
		return nil
	}
	stepping := s.stepping
	e.mu.Unlock()

	s.stopped.Store(true)
	if !stepping {
		return nil
	}
	select {
	case s.proceed <- struct{}{}:
	default:
	}
	select {
	case <-s.done:
	case <-time.After(e.stopTimeout):
		e.logger.Warn().Str("run_id", s.id).Msg("worker did not exit in time, abandoning run")
	}
	e.mu.Lock()
	s.running = false
	s.stepping = false
	e.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current run's observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.run
	trace := make([]StepRecord, len(s.trace))
	copy(trace, s.trace)
	return Snapshot{
		RunID:   s.id,
		Running: s.running,
		Stdout:  s.stdout.String(),
		Stderr:  s.stderr.String(),
		Locals:  copyBindings(s.locals),
		Globals: copyBindings(s.globals),
		Trace:   trace,
	}
}

// Trace returns a copy of the step records collected so far.
func (e *Engine) Trace() []StepRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	trace := make([]StepRecord, len(e.run.trace))
	copy(trace, e.run.trace)
	return trace
}

// Variables returns the current variable inspector rows.
func (e *Engine) Variables() []VariableEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	variables := make([]VariableEntry, len(e.run.variables))
	copy(variables, e.run.variables)
	return variables
}

// IsRunning reports whether an execution is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.running
}

// LastError returns the failure of the most recent run, if any.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.lastErr
}

func (e *Engine) lastError(s *session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.lastErr
}

// CurrentLine returns the source line the stepping execution is parked at,
// or the last line that was reached. Zero when nothing has run.
func (e *Engine) CurrentLine() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.line
}

// CurrentFunction returns the function the execution is parked in.
func (e *Engine) CurrentFunction() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.function
}

// Code returns the compiled code of the most recent run, or nil.
func (e *Engine) Code() *compiler.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.code
}

// recordFailure renders an error into the session's captured stderr stream
// the way the interpreter would report it.
func recordFailure(s *session, err error) {
	var structured *errz.StructuredError
	if errors.As(err, &structured) {
		s.stderr.WriteString(structured.FriendlyTrace())
		return
	}
	s.stderr.WriteString(err.Error() + "\n")
}

// displayBindings converts object bindings into display strings, hiding
// environment provided names and internal dunder temporaries.
func displayBindings(s *session, bindings map[string]object.Object) map[string]string {
	out := map[string]string{}
	for name, value := range bindings {
		if s.hidden[name] || strings.HasPrefix(name, "__") {
			continue
		}
		out[name] = value.Inspect()
	}
	return out
}

func entries(s *session, bindings map[string]object.Object, scope string) []VariableEntry {
	var rows []VariableEntry
	for _, name := range object.Keys(bindings) {
		if s.hidden[name] || strings.HasPrefix(name, "__") {
			continue
		}
		value := bindings[name]
		rows = append(rows, VariableEntry{
			Name:     name,
			Value:    value.Inspect(),
			TypeName: string(value.Type()),
			Scope:    scope,
		})
	}
	return rows
}

func hiddenNames(code *compiler.Code) map[string]bool {
	hidden := map[string]bool{}
	for _, name := range code.EnvKeys() {
		hidden[name] = true
	}
	return hidden
}
