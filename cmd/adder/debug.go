package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"

	"github.com/adder-lang/adder/debug"
	"github.com/adder-lang/adder/engine"
)

func debugCommand(args []string) error {
	fs := flag.NewFlagSet("debug", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	verbose := fs.Bool("v", false, "verbose session logging")
	delay := fs.Duration("delay", 300*time.Millisecond, "pause between lines during continuous run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	source, filename, err := src.load(fs)
	if err != nil {
		return err
	}

	logger := newLogger(*verbose)
	eng := engine.New(engine.WithLogger(logger))
	sink := &terminalSink{engine: eng}
	controller := debug.NewController(eng, sink,
		debug.WithLogger(logger),
		debug.WithRunDelay(*delay))
	controller.Load(source)

	fmt.Printf("Debugging %s\n", filename)
	fmt.Println("Keys: s=step  r=run  x=stop  v=variables  q=quit")

	ctx := context.Background()
	return keyboard.Listen(func(key keys.Key) (bool, error) {
		switch {
		case key.Code == keys.CtrlC:
			controller.Stop()
			return true, nil
		case key.Code == keys.RuneKey:
			switch key.String() {
			case "s":
				if err := controller.Step(ctx); err != nil {
					return true, nil
				}
				if controller.Finished() {
					return true, nil
				}
			case "r":
				controller.Run(ctx)
			case "x":
				controller.Stop()
			case "v":
				sink.printVariables()
			case "q":
				controller.Stop()
				return true, nil
			}
		}
		return false, nil
	})
}

// terminalSink renders debugger events to the terminal: the paused source
// line, new program output as it appears, and the completion status.
type terminalSink struct {
	mu        sync.Mutex
	engine    *engine.Engine
	stdoutLen int
	stderrLen int
	lastLine  int
}

func (s *terminalSink) OnSnapshot(snap engine.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(snap.Stdout) > s.stdoutLen {
		fmt.Print(snap.Stdout[s.stdoutLen:])
		s.stdoutLen = len(snap.Stdout)
	}
	if len(snap.Stderr) > s.stderrLen {
		color.New(color.FgRed).Fprint(os.Stderr, snap.Stderr[s.stderrLen:])
		s.stderrLen = len(snap.Stderr)
	}
}

func (s *terminalSink) OnHighlight(line int, offsets []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line == s.lastLine {
		return
	}
	s.lastLine = line
	text := ""
	if code := s.engine.Code(); code != nil {
		text = code.GetSourceLine(line)
	}
	color.New(color.FgYellow).Printf("-> %3d  %s\n", line, text)
}

func (s *terminalSink) OnFinished(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		color.New(color.FgRed).Println("program failed")
		return
	}
	color.New(color.FgGreen).Println("program finished")
}

func (s *terminalSink) printVariables() {
	entries := s.engine.Variables()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(entries) == 0 {
		fmt.Println("(no variables)")
		return
	}
	bold := color.New(color.Bold)
	bold.Printf("%-16s %-10s %-8s %s\n", "NAME", "TYPE", "SCOPE", "VALUE")
	for _, entry := range entries {
		fmt.Printf("%-16s %-10s %-8s %s\n",
			entry.Name, entry.TypeName, entry.Scope, entry.Value)
	}
}
