package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/adder-lang/adder"
)

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	timing := fs.Bool("timing", false, "print the execution time")
	timeout := fs.Duration("timeout", 0, "abort execution after this duration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	source, filename, err := src.load(fs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	_, err = adder.Eval(ctx, source,
		adder.WithFilename(filename),
		adder.WithStdout(os.Stdout))
	if err != nil {
		return err
	}
	if *timing {
		fmt.Fprintf(os.Stderr, "%v\n", time.Since(start))
	}
	return nil
}
