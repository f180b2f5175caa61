package debug

import "github.com/adder-lang/adder/dis"

// DefaultLineTolerance is how far back a highlight may fall from the
// requested line when no instruction maps to it exactly. Blank lines and
// comments produce no instructions, so the nearest preceding code line is
// highlighted instead.
const DefaultLineTolerance = 5

// OffsetsForLine returns the instruction offsets belonging to the given
// source line. If no instruction was compiled from that line, the nearest
// preceding line within the tolerance is used. Returns nil when nothing
// matches.
func OffsetsForLine(instructions []dis.Instruction, line, tolerance int) []int {
	byLine := map[int][]int{}
	for _, instr := range instructions {
		if instr.Line > 0 {
			byLine[instr.Line] = append(byLine[instr.Line], instr.Offset)
		}
	}
	if offsets, ok := byLine[line]; ok {
		return offsets
	}
	best := 0
	for candidate := range byLine {
		if candidate < line && line-candidate <= tolerance && candidate > best {
			best = candidate
		}
	}
	if best == 0 {
		return nil
	}
	return byLine[best]
}
