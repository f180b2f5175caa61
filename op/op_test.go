package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(LoadConst)
	require.Equal(t, "LOAD_CONST", info.Name)
	require.Equal(t, LoadConst, info.Code)
	require.Equal(t, 1, info.OperandCount)

	info = GetInfo(BinarySubscr)
	require.Equal(t, "BINARY_SUBSCR", info.Name)
	require.Equal(t, 0, info.OperandCount)
}

func TestAllOpsHaveInfo(t *testing.T) {
	ops := []Code{
		Nop, Halt, Call, ReturnValue,
		Jump, PopJumpIfFalse, PopJumpIfTrue, JumpIfFalseOrPop, JumpIfTrueOrPop,
		LoadConst, LoadFast, LoadGlobal, LoadAttr,
		StoreFast, StoreGlobal,
		BinaryOp, CompareOp, UnaryNegative, UnaryNot, ContainsOp,
		BuildList, BuildMap,
		BinarySubscr, StoreSubscr, Slice,
		PopTop, Nil, False, True, GetIter, ForIter,
	}
	for _, opcode := range ops {
		info := GetInfo(opcode)
		require.NotEmpty(t, info.Name, "opcode %d has no info", opcode)
		require.Equal(t, opcode, info.Code)
	}
}

func TestBinaryOpString(t *testing.T) {
	require.Equal(t, "+", Add.String())
	require.Equal(t, "//", FloorDiv.String())
	require.Equal(t, "**", Power.String())
	require.Equal(t, "", BinaryOpType(99).String())
}

func TestCompareOpString(t *testing.T) {
	require.Equal(t, "<", LessThan.String())
	require.Equal(t, "!=", NotEqual.String())
	require.Equal(t, "", CompareOpType(99).String())
}
