// Package errz defines structured error types shared by the adder compiler,
// virtual machine, and execution engine.
package errz

import (
	"bytes"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyntax indicates a syntax/parsing error.
	ErrSyntax ErrorKind = iota
	// ErrType indicates a type mismatch or invalid operation on a type.
	ErrType
	// ErrName indicates an undefined variable or function.
	ErrName
	// ErrValue indicates an invalid value for an operation.
	ErrValue
	// ErrIndex indicates an out-of-range index or missing key.
	ErrIndex
	// ErrAttribute indicates a missing attribute or method.
	ErrAttribute
	// ErrRuntime indicates a general runtime error.
	ErrRuntime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrType:
		return "type error"
	case ErrName:
		return "name error"
	case ErrValue:
		return "value error"
	case ErrIndex:
		return "index error"
	case ErrAttribute:
		return "attribute error"
	case ErrRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// SourceLocation identifies a position in source code. Line and Column are
// 1-based; a zero Line means the location is unknown.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Source   string // the source line's text, when available
}

// IsZero returns true if the location carries no position information.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0
}

// StackFrame is one entry in an error's call stack, innermost first.
type StackFrame struct {
	Function string
	Line     int
}

// StructuredError is a rich error type with source locations and stack
// traces for actionable diagnostics.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Stack    []StackFrame
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (line %d)", e.Kind.String(), e.Message, e.Location.Line)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// WithLocation attaches a source location to the error, unless the error
// already has one. The first location attached is the innermost and the one
// worth keeping.
func (e *StructuredError) WithLocation(loc SourceLocation) *StructuredError {
	if e.Location.IsZero() {
		e.Location = loc
	}
	return e
}

// WithFrame appends a call stack frame to the error. Frames are appended
// innermost first as the error unwinds.
func (e *StructuredError) WithFrame(function string, line int) *StructuredError {
	e.Stack = append(e.Stack, StackFrame{Function: function, Line: line})
	return e
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// FriendlyTrace returns a human-friendly, multi-line rendering of the error
// with a source snippet and stack trace. This is the text written to the
// captured stderr stream when a program fails.
func (e *StructuredError) FriendlyTrace() string {
	var msg bytes.Buffer
	msg.WriteString("Traceback (most recent call last):\n")
	for i := len(e.Stack) - 1; i >= 0; i-- {
		frame := e.Stack[i]
		msg.WriteString(fmt.Sprintf("  line %d, in %s\n", frame.Line, frame.Function))
	}
	if len(e.Stack) == 0 && !e.Location.IsZero() {
		msg.WriteString(fmt.Sprintf("  line %d\n", e.Location.Line))
	}
	if e.Location.Source != "" {
		msg.WriteString("    ")
		msg.WriteString(strings.TrimSpace(e.Location.Source))
		msg.WriteString("\n")
	}
	msg.WriteString(fmt.Sprintf("%s: %s\n", e.Kind.String(), e.Message))
	return msg.String()
}

// New creates a new StructuredError with the given parameters.
func New(kind ErrorKind, message string, loc SourceLocation) *StructuredError {
	return &StructuredError{Message: message, Kind: kind, Location: loc}
}

// Errorf creates a new StructuredError with a formatted message and no
// location. The VM attaches locations as errors unwind.
func Errorf(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{Message: fmt.Sprintf(format, args...), Kind: kind}
}

// TypeErrorf creates a type error with a formatted message.
func TypeErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrType, format, args...)
}

// NameErrorf creates a name error with a formatted message.
func NameErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrName, format, args...)
}

// ValueErrorf creates a value error with a formatted message.
func ValueErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrValue, format, args...)
}

// IndexErrorf creates an index error with a formatted message.
func IndexErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrIndex, format, args...)
}

// AttributeErrorf creates an attribute error with a formatted message.
func AttributeErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrAttribute, format, args...)
}

// SyntaxErrorf creates a syntax error with a formatted message.
func SyntaxErrorf(format string, args ...any) *StructuredError {
	return Errorf(ErrSyntax, format, args...)
}
