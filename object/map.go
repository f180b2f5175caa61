package object

import (
	"strings"
)

// Map wraps a string-keyed map of Objects and implements the Object
// interface. Keys are restricted to strings; insertion order is preserved
// for display, matching Python dict semantics.
type Map struct {
	items map[string]Object
	order []string
}

func (m *Map) Inspect() string {
	var b strings.Builder
	b.WriteString("{")
	for i, key := range m.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(NewString(key).Inspect())
		b.WriteString(": ")
		b.WriteString(m.items[key].Inspect())
	}
	b.WriteString("}")
	return b.String()
}

func (m *Map) Type() Type {
	return MAP
}

func (m *Map) Value() map[string]Object {
	return m.items
}

func (m *Map) Interface() interface{} {
	values := make(map[string]interface{}, len(m.items))
	for k, v := range m.items {
		values[k] = v.Interface()
	}
	return values
}

func (m *Map) String() string {
	return m.Inspect()
}

func (m *Map) IsTruthy() bool {
	return len(m.items) > 0
}

func (m *Map) Equals(other Object) bool {
	otherMap, ok := other.(*Map)
	if !ok || len(m.items) != len(otherMap.items) {
		return false
	}
	for k, v := range m.items {
		otherVal, found := otherMap.items[k]
		if !found || !v.Equals(otherVal) {
			return false
		}
	}
	return true
}

func (m *Map) Len() int {
	return len(m.items)
}

// GetItem implements the [key] operator.
func (m *Map) GetItem(key Object) (Object, error) {
	strKey, ok := key.(*String)
	if !ok {
		return nil, typeErrMapKey(key)
	}
	value, found := m.items[strKey.value]
	if !found {
		return nil, keyErrMissing(strKey.value)
	}
	return value, nil
}

// Get returns the value for key, or the given default when absent.
func (m *Map) Get(key string, def Object) Object {
	if value, found := m.items[key]; found {
		return value
	}
	return def
}

// Set implements the [key] = value operator.
func (m *Map) Set(key Object, value Object) error {
	strKey, ok := key.(*String)
	if !ok {
		return typeErrMapKey(key)
	}
	m.SetString(strKey.value, value)
	return nil
}

// SetString sets a value by native string key.
func (m *Map) SetString(key string, value Object) {
	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
	}
	m.items[key] = value
}

// Contains returns true if the given key is present.
func (m *Map) Contains(item Object) bool {
	strKey, ok := item.(*String)
	if !ok {
		return false
	}
	_, found := m.items[strKey.value]
	return found
}

// OrderedKeys returns the keys in insertion order.
func (m *Map) OrderedKeys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

func (m *Map) Iter() Iterator {
	return &mapIter{keys: m.OrderedKeys()}
}

// NewMap creates a new empty Map object.
func NewMap() *Map {
	return &Map{items: map[string]Object{}}
}
