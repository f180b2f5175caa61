package object

import (
	"strings"
)

// List wraps a slice of Objects and implements the Object interface. Lists
// are mutable; the debugger snapshots them as display strings, never as
// live references.
type List struct {
	items []Object
}

func (l *List) Inspect() string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Inspect())
	}
	b.WriteString("]")
	return b.String()
}

func (l *List) Type() Type {
	return LIST
}

func (l *List) Value() []Object {
	return l.items
}

func (l *List) Interface() interface{} {
	values := make([]interface{}, len(l.items))
	for i, item := range l.items {
		values[i] = item.Interface()
	}
	return values
}

func (l *List) String() string {
	return l.Inspect()
}

func (l *List) IsTruthy() bool {
	return len(l.items) > 0
}

func (l *List) Equals(other Object) bool {
	otherList, ok := other.(*List)
	if !ok || len(l.items) != len(otherList.items) {
		return false
	}
	for i, item := range l.items {
		if !item.Equals(otherList.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) Len() int {
	return len(l.items)
}

// GetItem implements the [key] operator with support for negative indexes.
func (l *List) GetItem(key Object) (Object, error) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, typeErrSubscript(LIST, key)
	}
	i := int(idx.value)
	if i < 0 {
		i += len(l.items)
	}
	if i < 0 || i >= len(l.items) {
		return nil, indexErrOutOfRange(LIST)
	}
	return l.items[i], nil
}

// SetItem implements the [key] = value operator.
func (l *List) SetItem(key, value Object) error {
	idx, ok := key.(*Int)
	if !ok {
		return typeErrSubscript(LIST, key)
	}
	i := int(idx.value)
	if i < 0 {
		i += len(l.items)
	}
	if i < 0 || i >= len(l.items) {
		return indexErrOutOfRange(LIST)
	}
	l.items[i] = value
	return nil
}

// Append adds an item to the end of the list.
func (l *List) Append(item Object) {
	l.items = append(l.items, item)
}

// Pop removes and returns the last item.
func (l *List) Pop() (Object, error) {
	if len(l.items) == 0 {
		return nil, indexErrPopEmpty()
	}
	item := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return item, nil
}

// Contains returns true if the given item is found in this list.
func (l *List) Contains(item Object) bool {
	for _, existing := range l.items {
		if existing.Equals(item) {
			return true
		}
	}
	return false
}

func (l *List) Iter() Iterator {
	return &listIter{items: l.items}
}

// NewList creates a new List object containing the given items. The slice is
// used directly, not copied.
func NewList(items []Object) *List {
	return &List{items: items}
}
