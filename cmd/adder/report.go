package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adder-lang/adder"
	"github.com/adder-lang/adder/report"
)

func reportCommand(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	var src sourceFlags
	src.register(fs)
	dir := fs.String("dir", ".", "directory to write the artifacts into")
	name := fs.String("name", "", "file name stem (defaults to the program name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	source, filename, err := src.load(fs)
	if err != nil {
		return err
	}

	base := *name
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		if strings.HasPrefix(base, "<") {
			base = "program"
		}
	}

	code, err := adder.Compile(source, adder.WithFilename(filename))
	if err != nil {
		return err
	}
	bundle, err := report.WriteBundle(*dir, base, code)
	if err != nil {
		return err
	}
	for _, path := range []string{
		bundle.TextPath, bundle.JSONPath, bundle.BinaryPath, bundle.CompositePath,
	} {
		fmt.Println("wrote", path)
	}
	return nil
}
