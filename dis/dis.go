// Package dis supports analysis of adder bytecode by disassembling it.
// The output follows the layout of CPython's dis module: a source line
// column, instruction offsets, opcode names, and annotated operands.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/adder-lang/adder/compiler"
	"github.com/adder-lang/adder/op"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []op.Code
	Annotation string
	Constant   interface{}
	Line       int
	StartsLine bool // true if this is the first instruction of its source line
}

// Disassemble returns a parsed representation of the given code's
// instruction stream. Function bodies are separate code objects; use
// code.Flatten to reach them.
func Disassemble(code *compiler.Code) ([]Instruction, error) {
	var instructions []Instruction
	lastLine := 0
	count := code.InstructionCount()
	for offset := 0; offset < count; {
		opcode := code.Instruction(offset)
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode at offset %d: %d", offset, opcode)
		}
		if offset+info.OperandCount >= count {
			return nil, fmt.Errorf("truncated instruction at offset %d", offset)
		}
		operands := make([]op.Code, info.OperandCount)
		for i := 0; i < info.OperandCount; i++ {
			operands[i] = code.Instruction(offset + 1 + i)
		}
		annotation, constant, err := annotate(code, opcode, operands)
		if err != nil {
			return nil, err
		}
		line := code.LocationAt(offset).Line
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     opcode,
			Operands:   operands,
			Annotation: annotation,
			Constant:   constant,
			Line:       line,
			StartsLine: line != 0 && line != lastLine,
		})
		if line != 0 {
			lastLine = line
		}
		offset += 1 + info.OperandCount
	}
	return instructions, nil
}

// annotate produces the human-readable note for an instruction's operand:
// the variable name for loads and stores, the operator symbol for binary
// and comparison operations, the constant value for LOAD_CONST, and the
// jump target for jumps.
func annotate(code *compiler.Code, opcode op.Code, operands []op.Code) (string, interface{}, error) {
	switch opcode {
	case op.LoadFast, op.StoreFast:
		index := int(operands[0])
		if index >= code.LocalsCount() {
			return "", nil, fmt.Errorf("local variable index out of range: %d", index)
		}
		return code.Local(index).Name(), nil, nil
	case op.LoadGlobal, op.StoreGlobal:
		index := int(operands[0])
		if index >= code.GlobalsCount() {
			return "", nil, fmt.Errorf("global variable index out of range: %d", index)
		}
		return code.Global(index).Name(), nil, nil
	case op.LoadAttr:
		index := int(operands[0])
		if index >= code.NameCount() {
			return "", nil, fmt.Errorf("name index out of range: %d", index)
		}
		return code.Name(index), nil, nil
	case op.LoadConst:
		index := int(operands[0])
		if index >= code.ConstantsCount() {
			return "", nil, fmt.Errorf("constant index out of range: %d", index)
		}
		constant := code.Constant(index)
		return formatConstant(constant), constant, nil
	case op.BinaryOp:
		return op.BinaryOpType(operands[0]).String(), nil, nil
	case op.CompareOp:
		return op.CompareOpType(operands[0]).String(), nil, nil
	case op.ContainsOp:
		if operands[0] == 1 {
			return "not in", nil, nil
		}
		return "in", nil, nil
	case op.Jump, op.PopJumpIfFalse, op.PopJumpIfTrue,
		op.JumpIfFalseOrPop, op.JumpIfTrueOrPop, op.ForIter:
		return fmt.Sprintf("to %d", operands[0]), nil, nil
	}
	return "", nil, nil
}

func formatConstant(constant interface{}) string {
	switch c := constant.(type) {
	case string:
		if len(c) > 80 {
			c = c[:77] + "..."
		}
		return fmt.Sprintf("%q", c)
	case *compiler.Function:
		return fmt.Sprintf("<code object %s>", c.Name())
	case nil:
		return "None"
	default:
		return fmt.Sprintf("%v", c)
	}
}

var (
	opcodeColor     = color.New(color.Bold)
	annotationColor = color.New(color.FgCyan)
	lineColor       = color.New(color.FgYellow)
)

// Print writes a listing of the given instructions to the writer.
func Print(instructions []Instruction, writer io.Writer) {
	for _, instr := range instructions {
		lineCol := "     "
		if instr.StartsLine {
			lineCol = lineColor.Sprintf("%5d", instr.Line)
		}
		annotation := ""
		if instr.Annotation != "" {
			annotation = annotationColor.Sprintf("(%s)", instr.Annotation)
		}
		fmt.Fprintf(writer, "%s %8d %-22s %8s %s\n",
			lineCol, instr.Offset, opcodeColor.Sprint(instr.Name),
			formatOperands(instr.Operands), annotation)
	}
}

// Fprint disassembles the code and all nested function bodies, writing a
// listing for each to the writer.
func Fprint(code *compiler.Code, writer io.Writer) error {
	for i, unit := range code.Flatten() {
		if i > 0 {
			fmt.Fprintf(writer, "\nDisassembly of %s:\n", unit.CodeName())
		}
		instructions, err := Disassemble(unit)
		if err != nil {
			return err
		}
		Print(instructions, writer)
	}
	return nil
}

func formatOperands(ops []op.Code) string {
	var sb strings.Builder
	for i, operand := range ops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", operand))
	}
	return sb.String()
}
