// Command adder runs, disassembles, and interactively debugs adder
// programs, a small Python-subset language executing on a bytecode VM.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/adder-lang/adder/errz"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(os.Args[2:])
	case "dis":
		err = disCommand(os.Args[2:])
	case "debug":
		err = debugCommand(os.Args[2:])
	case "report":
		err = reportCommand(os.Args[2:])
	case "version":
		fmt.Println("adder", version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "adder: unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: adder <command> [options] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run      Execute a program")
	fmt.Fprintln(w, "  dis      Disassemble a program's bytecode")
	fmt.Fprintln(w, "  debug    Step through a program interactively")
	fmt.Fprintln(w, "  report   Write disassembly artifacts to disk")
	fmt.Fprintln(w, "  version  Print version information")
}

// sourceFlags are the input options shared by every subcommand.
type sourceFlags struct {
	code  string
	stdin bool
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.code, "c", "", "program text to use instead of a file")
	fs.BoolVar(&s.stdin, "stdin", false, "read the program from standard input")
}

// load resolves the program source and a display filename from the flags
// and the positional file argument.
func (s *sourceFlags) load(fs *flag.FlagSet) (source, filename string, err error) {
	if s.code != "" {
		return s.code, "<string>", nil
	}
	if s.stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	if fs.NArg() < 1 {
		return "", "", errors.New("no program given: pass a file, -c, or -stdin")
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), path, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func printError(err error) {
	var structured *errz.StructuredError
	if errors.As(err, &structured) {
		color.New(color.FgRed).Fprintln(os.Stderr, structured.FriendlyTrace())
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "adder: %s\n", err)
}
