package object

import (
	"math"
	"strings"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

// BinaryOp evaluates a binary operation on two objects, following Python
// numeric promotion rules: int op int yields int (except true division),
// any float operand promotes the result to float.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	switch a := a.(type) {
	case *Int:
		switch b := b.(type) {
		case *Int:
			return intBinaryOp(opType, a.value, b.value)
		case *Float:
			return floatBinaryOp(opType, float64(a.value), b.value)
		case *List:
			if opType == op.Multiply {
				return repeatList(b, a.value), nil
			}
		case *String:
			if opType == op.Multiply {
				return repeatString(b, a.value), nil
			}
		}
	case *Float:
		switch b := b.(type) {
		case *Int:
			return floatBinaryOp(opType, a.value, float64(b.value))
		case *Float:
			return floatBinaryOp(opType, a.value, b.value)
		}
	case *String:
		switch b := b.(type) {
		case *String:
			if opType == op.Add {
				return NewString(a.value + b.value), nil
			}
		case *Int:
			if opType == op.Multiply {
				return repeatString(a, b.value), nil
			}
		}
	case *List:
		switch b := b.(type) {
		case *List:
			if opType == op.Add {
				items := make([]Object, 0, len(a.items)+len(b.items))
				items = append(items, a.items...)
				items = append(items, b.items...)
				return NewList(items), nil
			}
		case *Int:
			if opType == op.Multiply {
				return repeatList(a, b.value), nil
			}
		}
	case *Bool:
		// Python treats bools as ints in arithmetic
		return BinaryOp(opType, NewInt(boolToInt(a.value)), b)
	}
	if b, ok := b.(*Bool); ok {
		return BinaryOp(opType, a, NewInt(boolToInt(b.value)))
	}
	return nil, errz.TypeErrorf("unsupported operand type(s) for %s: %s and %s",
		opType, a.Type(), b.Type())
}

func intBinaryOp(opType op.BinaryOpType, a, b int64) (Object, error) {
	switch opType {
	case op.Add:
		c, err := addInt(a, b)
		if err != nil {
			return nil, err
		}
		return NewInt(c), nil
	case op.Subtract:
		c, err := subInt(a, b)
		if err != nil {
			return nil, err
		}
		return NewInt(c), nil
	case op.Multiply:
		c, err := mulInt(a, b)
		if err != nil {
			return nil, err
		}
		return NewInt(c), nil
	case op.Divide:
		if b == 0 {
			return nil, errz.ValueErrorf("division by zero")
		}
		return NewFloat(float64(a) / float64(b)), nil
	case op.FloorDiv:
		if b == 0 {
			return nil, errz.ValueErrorf("integer division or modulo by zero")
		}
		return NewInt(floorDivInt(a, b)), nil
	case op.Modulo:
		if b == 0 {
			return nil, errz.ValueErrorf("integer division or modulo by zero")
		}
		// Python modulo takes the sign of the divisor
		return NewInt(a - floorDivInt(a, b)*b), nil
	case op.Power:
		if b < 0 {
			return NewFloat(math.Pow(float64(a), float64(b))), nil
		}
		return powInt(a, b)
	case op.LShift:
		if b < 0 {
			return nil, errz.ValueErrorf("negative shift count")
		}
		if b >= 64 {
			if a == 0 {
				return NewInt(0), nil
			}
			return nil, errIntOverflow()
		}
		c := a << uint64(b)
		if c>>uint64(b) != a {
			return nil, errIntOverflow()
		}
		return NewInt(c), nil
	case op.RShift:
		if b < 0 {
			return nil, errz.ValueErrorf("negative shift count")
		}
		if b >= 64 {
			b = 63
		}
		return NewInt(a >> uint64(b)), nil
	case op.BitwiseAnd:
		return NewInt(a & b), nil
	case op.BitwiseOr:
		return NewInt(a | b), nil
	case op.BitwiseXor:
		return NewInt(a ^ b), nil
	}
	return nil, errz.TypeErrorf("unsupported operand type(s) for %s: int and int", opType)
}

// The runtime models ints as int64. Where Python would promote to a big
// integer the operation raises instead of silently wrapping.
func errIntOverflow() error {
	return errz.ValueErrorf("integer overflow")
}

func addInt(a, b int64) (int64, error) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, errIntOverflow()
	}
	return c, nil
}

func subInt(a, b int64) (int64, error) {
	c := a - b
	if (b < 0 && c < a) || (b > 0 && c > a) {
		return 0, errIntOverflow()
	}
	return c, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if b == -1 {
		if a == math.MinInt64 {
			return 0, errIntOverflow()
		}
		return -a, nil
	}
	c := a * b
	if c/b != a {
		return 0, errIntOverflow()
	}
	return c, nil
}

// powInt computes a**b for b >= 0 by binary exponentiation, so a huge
// exponent fails fast on overflow instead of looping for its full count.
func powInt(a, b int64) (Object, error) {
	result := int64(1)
	base := a
	for b > 0 {
		var err error
		if b&1 == 1 {
			result, err = mulInt(result, base)
			if err != nil {
				return nil, err
			}
		}
		b >>= 1
		if b > 0 {
			base, err = mulInt(base, base)
			if err != nil {
				return nil, err
			}
		}
	}
	return NewInt(result), nil
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floatBinaryOp(opType op.BinaryOpType, a, b float64) (Object, error) {
	switch opType {
	case op.Add:
		return NewFloat(a + b), nil
	case op.Subtract:
		return NewFloat(a - b), nil
	case op.Multiply:
		return NewFloat(a * b), nil
	case op.Divide:
		if b == 0 {
			return nil, errz.ValueErrorf("float division by zero")
		}
		return NewFloat(a / b), nil
	case op.FloorDiv:
		if b == 0 {
			return nil, errz.ValueErrorf("float floor division by zero")
		}
		return NewFloat(math.Floor(a / b)), nil
	case op.Modulo:
		if b == 0 {
			return nil, errz.ValueErrorf("float modulo")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return NewFloat(m), nil
	case op.Power:
		return NewFloat(math.Pow(a, b)), nil
	}
	return nil, errz.TypeErrorf("unsupported operand type(s) for %s: float and float", opType)
}

func repeatString(s *String, count int64) *String {
	if count <= 0 {
		return NewString("")
	}
	return NewString(strings.Repeat(s.value, int(count)))
}

func repeatList(l *List, count int64) *List {
	if count <= 0 {
		return NewList(nil)
	}
	items := make([]Object, 0, len(l.items)*int(count))
	for i := int64(0); i < count; i++ {
		items = append(items, l.items...)
	}
	return NewList(items)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Compare evaluates a comparison operation on two objects.
func Compare(opType op.CompareOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), nil
	case op.NotEqual:
		return NewBool(!a.Equals(b)), nil
	}
	result, err := compareOrder(a, b)
	if err != nil {
		return nil, err
	}
	switch opType {
	case op.LessThan:
		return NewBool(result < 0), nil
	case op.LessThanOrEqual:
		return NewBool(result <= 0), nil
	case op.GreaterThan:
		return NewBool(result > 0), nil
	case op.GreaterThanOrEqual:
		return NewBool(result >= 0), nil
	}
	return nil, errz.TypeErrorf("unsupported comparison: %s", opType)
}

// compareOrder returns -1, 0, or 1 for orderable object pairs.
func compareOrder(a, b Object) (int, error) {
	switch a := a.(type) {
	case *Int:
		switch b := b.(type) {
		case *Int:
			return compareInt64(a.value, b.value), nil
		case *Float:
			return compareFloat64(float64(a.value), b.value), nil
		}
	case *Float:
		switch b := b.(type) {
		case *Int:
			return compareFloat64(a.value, float64(b.value)), nil
		case *Float:
			return compareFloat64(a.value, b.value), nil
		}
	case *String:
		if b, ok := b.(*String); ok {
			return strings.Compare(a.value, b.value), nil
		}
	}
	return 0, errz.TypeErrorf("'<' not supported between instances of %s and %s",
		a.Type(), b.Type())
}

func compareInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareFloat64(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Contains implements the `in` operator: item in container.
func Contains(container, item Object) (Object, error) {
	switch container := container.(type) {
	case *List:
		return NewBool(container.Contains(item)), nil
	case *Map:
		return NewBool(container.Contains(item)), nil
	case *String:
		itemStr, ok := item.(*String)
		if !ok {
			return nil, errz.TypeErrorf("'in <string>' requires string as left operand, not %s", item.Type())
		}
		return NewBool(strings.Contains(container.value, itemStr.value)), nil
	}
	return nil, errz.TypeErrorf("argument of type %s is not iterable", container.Type())
}

// Negate implements unary minus.
func Negate(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int:
		return NewInt(-obj.value), nil
	case *Float:
		return NewFloat(-obj.value), nil
	case *Bool:
		return NewInt(-boolToInt(obj.value)), nil
	}
	return nil, errz.TypeErrorf("bad operand type for unary -: %s", obj.Type())
}

// GetIter returns an iterator over the given object, or a type error for
// non-iterable objects.
func GetIter(obj Object) (Iterator, error) {
	if it, ok := obj.(Iterator); ok {
		return it, nil
	}
	if iterable, ok := obj.(Iterable); ok {
		return iterable.Iter(), nil
	}
	return nil, errz.TypeErrorf("%s object is not iterable", obj.Type())
}
