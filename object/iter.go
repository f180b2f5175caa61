package object

import "fmt"

// baseIter provides the Object methods shared by the iterator types.
type baseIter struct{}

func (b *baseIter) Type() Type               { return ITER }
func (b *baseIter) Interface() interface{}   { return nil }
func (b *baseIter) IsTruthy() bool           { return true }
func (b *baseIter) Equals(other Object) bool { return false }

type listIter struct {
	baseIter
	items []Object
	pos   int
}

func (it *listIter) Inspect() string {
	return fmt.Sprintf("<list_iterator at %p>", it)
}

func (it *listIter) Next() (Object, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	item := it.items[it.pos]
	it.pos++
	return item, true
}

type stringIter struct {
	baseIter
	runes []rune
	pos   int
}

func (it *stringIter) Inspect() string {
	return fmt.Sprintf("<str_iterator at %p>", it)
}

func (it *stringIter) Next() (Object, bool) {
	if it.pos >= len(it.runes) {
		return nil, false
	}
	item := NewString(string(it.runes[it.pos]))
	it.pos++
	return item, true
}

// mapIter iterates a dict's keys, matching Python's `for k in d`.
type mapIter struct {
	baseIter
	keys []string
	pos  int
}

func (it *mapIter) Inspect() string {
	return fmt.Sprintf("<dict_keyiterator at %p>", it)
}

func (it *mapIter) Next() (Object, bool) {
	if it.pos >= len(it.keys) {
		return nil, false
	}
	item := NewString(it.keys[it.pos])
	it.pos++
	return item, true
}

type rangeIter struct {
	baseIter
	current int64
	stop    int64
	step    int64
}

func (it *rangeIter) Inspect() string {
	return fmt.Sprintf("<range_iterator at %p>", it)
}

func (it *rangeIter) Next() (Object, bool) {
	if it.step > 0 && it.current >= it.stop {
		return nil, false
	}
	if it.step < 0 && it.current <= it.stop {
		return nil, false
	}
	item := NewInt(it.current)
	it.current += it.step
	return item, true
}
