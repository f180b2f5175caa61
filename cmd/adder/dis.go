package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adder-lang/adder"
	"github.com/adder-lang/adder/dis"
)

func disCommand(args []string) error {
	fs := flag.NewFlagSet("dis", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	fn := fs.String("func", "", "disassemble only the named function")
	if err := fs.Parse(args); err != nil {
		return err
	}
	source, filename, err := src.load(fs)
	if err != nil {
		return err
	}

	code, err := adder.Compile(source, adder.WithFilename(filename))
	if err != nil {
		return err
	}
	if *fn == "" {
		return dis.Fprint(code, os.Stdout)
	}
	for _, unit := range code.Flatten() {
		if unit.CodeName() == *fn {
			instructions, err := dis.Disassemble(unit)
			if err != nil {
				return err
			}
			dis.Print(instructions, os.Stdout)
			return nil
		}
	}
	return fmt.Errorf("no function named %q", *fn)
}
