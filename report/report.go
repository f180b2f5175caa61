// Package report writes compiled programs to disk in several formats: the
// plain-text disassembly, a JSON instruction dump, the binary serialized
// compiled unit, and a composite markdown report that combines them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/dis"
)

// instructionRecord is the JSON shape of a single disassembled instruction.
// Non-primitive constants are rendered as display strings.
type instructionRecord struct {
	Offset     int    `json:"offset"`
	Name       string `json:"name"`
	Opcode     int    `json:"opcode"`
	Operands   []int  `json:"operands,omitempty"`
	Annotation string `json:"annotation,omitempty"`
	Constant   any    `json:"constant,omitempty"`
	Line       int    `json:"line,omitempty"`
	StartsLine bool   `json:"starts_line,omitempty"`
}

func newInstructionRecord(instr dis.Instruction) instructionRecord {
	operands := make([]int, 0, len(instr.Operands))
	for _, operand := range instr.Operands {
		operands = append(operands, int(operand))
	}
	return instructionRecord{
		Offset:     instr.Offset,
		Name:       instr.Name,
		Opcode:     int(instr.Opcode),
		Operands:   operands,
		Annotation: instr.Annotation,
		Constant:   jsonConstant(instr.Constant),
		Line:       instr.Line,
		StartsLine: instr.StartsLine,
	}
}

func jsonConstant(value any) any {
	switch value := value.(type) {
	case nil, bool, string, int64, float64:
		return value
	case *compiler.Function:
		return fmt.Sprintf("<code object %s>", value.Name())
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Text writes the plain-text disassembly of the compiled unit, covering
// the module body and every function body.
func Text(w io.Writer, code *compiler.Code) error {
	return dis.Fprint(code, w)
}

// JSON writes every instruction of the compiled unit as an indented JSON
// array, module body first and function bodies after it.
func JSON(w io.Writer, code *compiler.Code) error {
	var records []instructionRecord
	for _, unit := range code.Flatten() {
		instructions, err := dis.Disassemble(unit)
		if err != nil {
			return err
		}
		for _, instr := range instructions {
			records = append(records, newInstructionRecord(instr))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Binary writes the serialized compiled unit. The output round-trips
// through compiler.Unmarshal.
func Binary(w io.Writer, code *compiler.Code) error {
	data, err := compiler.Marshal(code)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Composite writes a markdown report containing the original source, the
// disassembly, and a table of instruction details.
func Composite(w io.Writer, code *compiler.Code) error {
	fmt.Fprintf(w, "# Bytecode Report\n\n")
	fmt.Fprintf(w, "## Source Code\n\n```python\n%s\n```\n\n", code.Source())
	fmt.Fprintf(w, "## Disassembly\n\n```\n")
	if err := dis.Fprint(code, w); err != nil {
		return err
	}
	fmt.Fprintf(w, "```\n\n")
	fmt.Fprintf(w, "## Instruction Details\n\n")
	fmt.Fprintf(w, "| Line | Offset | Opcode | Operands | Annotation |\n")
	fmt.Fprintf(w, "|------|--------|--------|----------|------------|\n")
	for _, unit := range code.Flatten() {
		instructions, err := dis.Disassemble(unit)
		if err != nil {
			return err
		}
		for _, instr := range instructions {
			line := "-"
			if instr.StartsLine {
				line = fmt.Sprintf("%d", instr.Line)
			}
			operands := "-"
			if len(instr.Operands) > 0 {
				operands = fmt.Sprintf("%v", instr.Operands)
			}
			annotation := instr.Annotation
			if annotation == "" {
				annotation = "-"
			}
			fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n",
				line, instr.Offset, instr.Name, operands, annotation)
		}
	}
	return nil
}

// Bundle names the artifact files written next to each other for one
// compiled program.
type Bundle struct {
	TextPath      string
	JSONPath      string
	BinaryPath    string
	CompositePath string
}

// WriteBundle writes all four artifacts into dir using base as the file
// name stem. Every artifact is attempted; failures are aggregated so one
// bad section does not suppress the rest.
func WriteBundle(dir, base string, code *compiler.Code) (Bundle, error) {
	bundle := Bundle{
		TextPath:      filepath.Join(dir, base+".dis.txt"),
		JSONPath:      filepath.Join(dir, base+".json"),
		BinaryPath:    filepath.Join(dir, base+".bin"),
		CompositePath: filepath.Join(dir, base+".md"),
	}
	var result *multierror.Error
	result = multierror.Append(result, writeFile(bundle.TextPath, code, Text))
	result = multierror.Append(result, writeFile(bundle.JSONPath, code, JSON))
	result = multierror.Append(result, writeFile(bundle.BinaryPath, code, Binary))
	result = multierror.Append(result, writeFile(bundle.CompositePath, code, Composite))
	return bundle, result.ErrorOrNil()
}

func writeFile(path string, code *compiler.Code, write func(io.Writer, *compiler.Code) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, code); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
