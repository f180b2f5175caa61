package object

import (
	"strconv"
	"strings"
)

// Float wraps float64 and implements the Object interface.
type Float struct {
	value float64
}

func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.value, 'f', -1, 64)
	// Python always displays a fractional part for floats
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Interface() interface{} {
	return f.value
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) IsTruthy() bool {
	return f.value != 0
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	}
	return false
}

// NewFloat creates a new Float object.
func NewFloat(value float64) *Float {
	return &Float{value: value}
}
