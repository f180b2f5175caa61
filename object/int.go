package object

import (
	"strconv"
)

// Int wraps int64 and implements the Object interface.
type Int struct {
	value int64
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Interface() interface{} {
	return i.value
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	}
	return false
}

// NewInt creates a new Int object.
func NewInt(value int64) *Int {
	return &Int{value: value}
}
