// Package debug coordinates an interactive debugging session on top of the
// execution engine: step, run, and stop commands, plus source-to-bytecode
// highlighting for display frontends.
package debug

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/adder-lang/adder/dis"
	"github.com/adder-lang/adder/engine"
)

// EventSink receives debugger updates. Implementations belong to display
// frontends; all methods are called from the controller's goroutines.
type EventSink interface {
	// OnSnapshot is called after every command with the engine's state.
	OnSnapshot(snap engine.Snapshot)

	// OnHighlight is called when the paused line changes. The offsets are
	// the bytecode instruction offsets belonging to that line.
	OnHighlight(line int, offsets []int)

	// OnFinished is called once when the program completes, fails, or is
	// stopped. The error is nil for a clean finish or a stop.
	OnFinished(err error)
}

// Controller drives an engine through a debugging session. Each session
// covers one program: Load it, then issue Step, Run, and Stop commands.
type Controller struct {
	mu        sync.Mutex
	logger    zerolog.Logger
	engine    *engine.Engine
	sink      EventSink
	source    string
	tolerance int
	runDelay  time.Duration

	instructions []dis.Instruction
	started      bool
	finished     bool
	stopRun      atomic.Bool
	runDone      chan struct{}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLineTolerance overrides the highlight fallback distance.
func WithLineTolerance(n int) ControllerOption {
	return func(c *Controller) {
		c.tolerance = n
	}
}

// WithRunDelay sets the pause between steps during Run, which is what makes
// continuous execution watchable in a frontend. Zero runs at full speed.
func WithRunDelay(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.runDelay = d
	}
}

// NewController creates a debugging session controller.
func NewController(e *engine.Engine, sink EventSink, opts ...ControllerOption) *Controller {
	c := &Controller{
		logger:    zerolog.Nop(),
		engine:    e,
		sink:      sink,
		tolerance: DefaultLineTolerance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load sets the program for this session. The program does not start until
// the first Step or Run command.
func (c *Controller) Load(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = source
	c.instructions = nil
	c.started = false
	c.finished = false
	c.stopRun.Store(false)
}

// Step advances the program one line, starting it if needed.
func (c *Controller) Step(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return nil
	}
	if err := c.stepLocked(ctx); err != nil {
		return err
	}
	c.publishLocked()
	return nil
}

// stepLocked starts the program on the first call and steps it afterward.
// Callers hold c.mu.
func (c *Controller) stepLocked(ctx context.Context) error {
	if !c.started {
		if err := c.engine.StartStepping(ctx, c.source); err != nil {
			c.finished = true
			c.sink.OnFinished(err)
			return err
		}
		c.started = true
		c.loadInstructionsLocked()
		// The program is parked at its first line; the first visible step
		// is reaching it, not executing it.
		return nil
	}
	err := c.engine.Step()
	if err != nil || !c.engine.IsRunning() {
		c.finished = true
		c.sink.OnFinished(err)
	}
	return err
}

func (c *Controller) loadInstructionsLocked() {
	code := c.engine.Code()
	if code == nil {
		return
	}
	instructions, err := dis.Disassemble(code)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not disassemble program")
		return
	}
	c.instructions = instructions
}

// publishLocked pushes the current state and highlight to the sink.
// Callers hold c.mu.
func (c *Controller) publishLocked() {
	snap := c.engine.Snapshot()
	c.sink.OnSnapshot(snap)
	line := c.engine.CurrentLine()
	if line > 0 {
		c.sink.OnHighlight(line, OffsetsForLine(c.instructions, line, c.tolerance))
	}
}

// Run executes the program continuously, stepping and publishing until it
// finishes or Stop is called. Run returns immediately; the stepping happens
// on a session goroutine.
func (c *Controller) Run(ctx context.Context) {
	c.mu.Lock()
	if c.finished || c.runDone != nil {
		c.mu.Unlock()
		return
	}
	c.stopRun.Store(false)
	c.runDone = make(chan struct{})
	c.mu.Unlock()

	go c.runLoop(ctx)
}

func (c *Controller) runLoop(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		close(c.runDone)
		c.runDone = nil
		c.mu.Unlock()
	}()
	for {
		if c.stopRun.Load() || ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		if c.finished {
			c.mu.Unlock()
			return
		}
		err := c.stepLocked(ctx)
		c.publishLocked()
		finished := c.finished
		c.mu.Unlock()
		if err != nil || finished {
			return
		}
		if c.runDelay > 0 {
			select {
			case <-time.After(c.runDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Stop interrupts the program. Any active Run loop exits, the engine halts
// the worker, and the final state is published.
func (c *Controller) Stop() error {
	c.stopRun.Store(true)
	c.mu.Lock()
	runDone := c.runDone
	c.mu.Unlock()
	if runDone != nil {
		<-runDone
	}

	err := c.engine.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started && !c.finished {
		c.finished = true
		c.sink.OnFinished(nil)
	}
	c.publishLocked()
	return err
}

// Instructions returns the disassembly of the loaded program, available
// once the program has started.
func (c *Controller) Instructions() []dis.Instruction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dis.Instruction, len(c.instructions))
	copy(out, c.instructions)
	return out
}

// Finished reports whether the session's program has ended.
func (c *Controller) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}
