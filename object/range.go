package object

import (
	"fmt"
)

// Range represents a bounded integer sequence, as produced by the range()
// builtin. It is lazy: values materialize only during iteration.
type Range struct {
	start int64
	stop  int64
	step  int64
}

func (r *Range) Inspect() string {
	if r.step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.start, r.stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.start, r.stop, r.step)
}

func (r *Range) Type() Type {
	return RANGE
}

func (r *Range) Interface() interface{} {
	return nil
}

func (r *Range) String() string {
	return r.Inspect()
}

func (r *Range) IsTruthy() bool {
	return r.Len() > 0
}

func (r *Range) Equals(other Object) bool {
	otherRange, ok := other.(*Range)
	if !ok {
		return false
	}
	return r.start == otherRange.start && r.stop == otherRange.stop && r.step == otherRange.step
}

func (r *Range) Len() int {
	if r.step > 0 {
		if r.stop <= r.start {
			return 0
		}
		return int((r.stop - r.start + r.step - 1) / r.step)
	}
	if r.start <= r.stop {
		return 0
	}
	return int((r.start - r.stop - r.step - 1) / -r.step)
}

func (r *Range) Iter() Iterator {
	return &rangeIter{current: r.start, stop: r.stop, step: r.step}
}

// NewRange creates a new Range object. A zero step is rejected by the
// range() builtin before this is reached.
func NewRange(start, stop, step int64) *Range {
	return &Range{start: start, stop: stop, step: step}
}
