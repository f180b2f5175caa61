package object

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

func TestIntBinaryOps(t *testing.T) {
	tests := []struct {
		opType op.BinaryOpType
		a, b   int64
		want   Object
	}{
		{op.Add, 2, 3, NewInt(5)},
		{op.Subtract, 2, 3, NewInt(-1)},
		{op.Multiply, 4, 3, NewInt(12)},
		{op.Divide, 7, 2, NewFloat(3.5)},
		{op.FloorDiv, 7, 2, NewInt(3)},
		{op.FloorDiv, -7, 2, NewInt(-4)},
		{op.Modulo, 7, 3, NewInt(1)},
		{op.Modulo, -7, 3, NewInt(2)},
		{op.Modulo, 7, -3, NewInt(-2)},
		{op.Power, 2, 10, NewInt(1024)},
		{op.LShift, 1, 4, NewInt(16)},
		{op.RShift, 16, 2, NewInt(4)},
		{op.BitwiseAnd, 6, 3, NewInt(2)},
		{op.BitwiseOr, 6, 3, NewInt(7)},
		{op.BitwiseXor, 6, 3, NewInt(5)},
	}
	for _, tt := range tests {
		result, err := BinaryOp(tt.opType, NewInt(tt.a), NewInt(tt.b))
		require.NoError(t, err)
		require.Equal(t, tt.want, result, "%d %s %d", tt.a, tt.opType, tt.b)
	}
}

func TestFloatPromotion(t *testing.T) {
	result, err := BinaryOp(op.Add, NewInt(1), NewFloat(0.5))
	require.NoError(t, err)
	require.Equal(t, NewFloat(1.5), result)

	result, err = BinaryOp(op.Multiply, NewFloat(2.5), NewInt(2))
	require.NoError(t, err)
	require.Equal(t, NewFloat(5.0), result)

	result, err = BinaryOp(op.FloorDiv, NewFloat(7.0), NewFloat(2.0))
	require.NoError(t, err)
	require.Equal(t, NewFloat(3.0), result)
}

func TestBoolsActAsInts(t *testing.T) {
	result, err := BinaryOp(op.Add, True, NewInt(1))
	require.NoError(t, err)
	require.Equal(t, NewInt(2), result)

	result, err = BinaryOp(op.Multiply, NewInt(3), False)
	require.NoError(t, err)
	require.Equal(t, NewInt(0), result)
}

func TestSequenceOps(t *testing.T) {
	result, err := BinaryOp(op.Add, NewString("foo"), NewString("bar"))
	require.NoError(t, err)
	require.Equal(t, NewString("foobar"), result)

	result, err = BinaryOp(op.Multiply, NewString("ab"), NewInt(3))
	require.NoError(t, err)
	require.Equal(t, NewString("ababab"), result)

	result, err = BinaryOp(op.Multiply, NewInt(0), NewString("ab"))
	require.NoError(t, err)
	require.Equal(t, NewString(""), result)

	a := NewList([]Object{NewInt(1)})
	b := NewList([]Object{NewInt(2)})
	result, err = BinaryOp(op.Add, a, b)
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{NewInt(1), NewInt(2)}), result)
	require.Len(t, a.Value(), 1) // inputs not mutated

	result, err = BinaryOp(op.Multiply, b, NewInt(2))
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{NewInt(2), NewInt(2)}), result)
}

func TestDivisionByZero(t *testing.T) {
	_, err := BinaryOp(op.Divide, NewInt(1), NewInt(0))
	requireKind(t, err, errz.ErrValue, "division by zero")

	_, err = BinaryOp(op.FloorDiv, NewInt(1), NewInt(0))
	requireKind(t, err, errz.ErrValue, "integer division or modulo by zero")

	_, err = BinaryOp(op.Divide, NewFloat(1), NewFloat(0))
	requireKind(t, err, errz.ErrValue, "float division by zero")
}

func TestUnsupportedOperands(t *testing.T) {
	_, err := BinaryOp(op.Add, NewInt(1), NewString("x"))
	requireKind(t, err, errz.ErrType, "unsupported operand type(s)")

	_, err = BinaryOp(op.Subtract, NewString("a"), NewString("b"))
	requireKind(t, err, errz.ErrType, "unsupported operand type(s)")
}

func TestIntOverflow(t *testing.T) {
	tests := []struct {
		opType op.BinaryOpType
		a, b   int64
	}{
		{op.Add, math.MaxInt64, 1},
		{op.Add, math.MinInt64, -1},
		{op.Subtract, math.MinInt64, 1},
		{op.Subtract, math.MaxInt64, -1},
		{op.Multiply, math.MaxInt64, 2},
		{op.Multiply, math.MinInt64, -1},
		{op.Power, 2, 64},
		{op.Power, 9, 3000000000},
		{op.LShift, 1, 63},
		{op.LShift, 1, 200},
	}
	for _, tt := range tests {
		_, err := BinaryOp(tt.opType, NewInt(tt.a), NewInt(tt.b))
		requireKind(t, err, errz.ErrValue, "integer overflow")
	}
}

func TestPowerHugeExponentEdges(t *testing.T) {
	// bases whose powers never overflow stay exact even for huge exponents
	result, err := BinaryOp(op.Power, NewInt(1), NewInt(3000000000))
	require.NoError(t, err)
	require.Equal(t, NewInt(1), result)

	result, err = BinaryOp(op.Power, NewInt(0), NewInt(3000000000))
	require.NoError(t, err)
	require.Equal(t, NewInt(0), result)

	result, err = BinaryOp(op.Power, NewInt(-1), NewInt(3000000001))
	require.NoError(t, err)
	require.Equal(t, NewInt(-1), result)

	result, err = BinaryOp(op.Power, NewInt(0), NewInt(0))
	require.NoError(t, err)
	require.Equal(t, NewInt(1), result)
}

func TestNegativeShiftCount(t *testing.T) {
	_, err := BinaryOp(op.LShift, NewInt(1), NewInt(-1))
	requireKind(t, err, errz.ErrValue, "negative shift count")

	_, err = BinaryOp(op.RShift, NewInt(1), NewInt(-1))
	requireKind(t, err, errz.ErrValue, "negative shift count")
}

func TestRShiftBeyondWidth(t *testing.T) {
	result, err := BinaryOp(op.RShift, NewInt(1), NewInt(200))
	require.NoError(t, err)
	require.Equal(t, NewInt(0), result)

	result, err = BinaryOp(op.RShift, NewInt(-1), NewInt(200))
	require.NoError(t, err)
	require.Equal(t, NewInt(-1), result)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		opType op.CompareOpType
		a, b   Object
		want   bool
	}{
		{op.Equal, NewInt(1), NewInt(1), true},
		{op.Equal, NewInt(1), NewFloat(1.0), true},
		{op.NotEqual, NewString("a"), NewString("b"), true},
		{op.LessThan, NewInt(1), NewInt(2), true},
		{op.LessThanOrEqual, NewInt(2), NewInt(2), true},
		{op.GreaterThan, NewFloat(2.5), NewInt(2), true},
		{op.GreaterThanOrEqual, NewInt(1), NewInt(2), false},
		{op.LessThan, NewString("apple"), NewString("banana"), true},
		{op.Equal, NewList([]Object{NewInt(1)}), NewList([]Object{NewInt(1)}), true},
	}
	for _, tt := range tests {
		result, err := Compare(tt.opType, tt.a, tt.b)
		require.NoError(t, err)
		require.Equal(t, NewBool(tt.want), result,
			"%s %s %s", tt.a.Inspect(), tt.opType, tt.b.Inspect())
	}
}

func TestCompareUnorderable(t *testing.T) {
	_, err := Compare(op.LessThan, NewInt(1), NewString("x"))
	requireKind(t, err, errz.ErrType, "'<' not supported")
}

func TestContains(t *testing.T) {
	list := NewList([]Object{NewInt(1), NewInt(2)})
	result, err := Contains(list, NewInt(2))
	require.NoError(t, err)
	require.Equal(t, True, result)

	result, err = Contains(NewString("hello"), NewString("ell"))
	require.NoError(t, err)
	require.Equal(t, True, result)

	m := NewMap()
	m.SetString("a", NewInt(1))
	result, err = Contains(m, NewString("a"))
	require.NoError(t, err)
	require.Equal(t, True, result)

	_, err = Contains(NewInt(1), NewInt(1))
	requireKind(t, err, errz.ErrType, "not iterable")

	_, err = Contains(NewString("abc"), NewInt(1))
	requireKind(t, err, errz.ErrType, "requires string as left operand")
}

func TestNegate(t *testing.T) {
	result, err := Negate(NewInt(3))
	require.NoError(t, err)
	require.Equal(t, NewInt(-3), result)

	result, err = Negate(NewFloat(1.5))
	require.NoError(t, err)
	require.Equal(t, NewFloat(-1.5), result)

	result, err = Negate(True)
	require.NoError(t, err)
	require.Equal(t, NewInt(-1), result)

	_, err = Negate(NewString("x"))
	requireKind(t, err, errz.ErrType, "bad operand type for unary -")
}

func TestGetIter(t *testing.T) {
	it, err := GetIter(NewList([]Object{NewInt(1), NewInt(2)}))
	require.NoError(t, err)
	var values []Object
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		values = append(values, v)
	}
	require.Equal(t, []Object{NewInt(1), NewInt(2)}, values)

	_, err = GetIter(NewInt(1))
	requireKind(t, err, errz.ErrType, "not iterable")
}

func TestGetSlice(t *testing.T) {
	list := NewList([]Object{NewInt(1), NewInt(2), NewInt(3), NewInt(4)})

	result, err := GetSlice(list, NewInt(1), NewInt(3))
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{NewInt(2), NewInt(3)}), result)

	result, err = GetSlice(list, Nil, NewInt(-1))
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{NewInt(1), NewInt(2), NewInt(3)}), result)

	result, err = GetSlice(NewString("hello"), NewInt(1), Nil)
	require.NoError(t, err)
	require.Equal(t, NewString("ello"), result)

	// out-of-range bounds clamp
	result, err = GetSlice(list, NewInt(2), NewInt(100))
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{NewInt(3), NewInt(4)}), result)

	// inverted bounds yield an empty sequence
	result, err = GetSlice(list, NewInt(3), NewInt(1))
	require.NoError(t, err)
	require.Equal(t, NewList([]Object{}), result)

	_, err = GetSlice(NewInt(1), Nil, Nil)
	requireKind(t, err, errz.ErrType, "not subscriptable")
}

func requireKind(t *testing.T, err error, kind errz.ErrorKind, contains string) {
	t.Helper()
	require.Error(t, err)
	var structured *errz.StructuredError
	require.True(t, errors.As(err, &structured))
	require.Equal(t, kind, structured.Kind)
	require.Contains(t, structured.Message, contains)
}
