package object

import (
	"strings"
)

// String wraps string and implements the Object interface.
type String struct {
	value string
}

// Inspect renders the string the way Python repr() does: single quotes,
// switching to double quotes when the value contains a single quote only.
func (s *String) Inspect() string {
	hasSingle := strings.Contains(s.value, "'")
	hasDouble := strings.Contains(s.value, "\"")
	quote := "'"
	if hasSingle && !hasDouble {
		quote = "\""
	}
	var b strings.Builder
	b.WriteString(quote)
	for _, r := range s.value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if string(r) == quote {
				b.WriteString("\\" + quote)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteString(quote)
	return b.String()
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) String() string {
	return s.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

func (s *String) Equals(other Object) bool {
	if other, ok := other.(*String); ok {
		return s.value == other.value
	}
	return false
}

func (s *String) Len() int {
	return len([]rune(s.value))
}

// GetItem implements the [key] operator, indexing by rune with support for
// negative indexes.
func (s *String) GetItem(key Object) (Object, error) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, typeErrSubscript(STRING, key)
	}
	runes := []rune(s.value)
	i := int(idx.value)
	if i < 0 {
		i += len(runes)
	}
	if i < 0 || i >= len(runes) {
		return nil, indexErrOutOfRange(STRING)
	}
	return NewString(string(runes[i])), nil
}

func (s *String) Iter() Iterator {
	return &stringIter{runes: []rune(s.value)}
}

// NewString creates a new String object.
func NewString(value string) *String {
	return &String{value: value}
}
