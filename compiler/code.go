package compiler

import (
	"strings"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

// Code represents a compiled code block: the module body or a function body.
// It is immutable after compilation completes and safe for concurrent use,
// which allows the disassembler and the VM to share one Code.
type Code struct {
	id           string
	name         string
	parent       *Code
	children     []*Code
	symbols      *SymbolTable
	instructions []op.Code
	constants    []any
	names        []string
	source       string
	filename     string

	// Source map: one location per instruction
	locations []errz.SourceLocation

	// Names of globals provided via the environment at compile time, as
	// opposed to globals defined in the script itself. The debugger uses
	// this to exclude builtins from variable snapshots.
	envKeys []string

	// Used during compilation only
	loops []*loop
}

type loop struct {
	start    int
	breakPos []int
}

func (c *Code) ID() string {
	return c.id
}

// CodeName returns the name of this code block. The module body is named
// "<module>"; function bodies carry the function's name.
func (c *Code) CodeName() string {
	return c.name
}

func (c *Code) Parent() *Code {
	return c.parent
}

func (c *Code) IsRoot() bool {
	return c.parent == nil
}

func (c *Code) Root() *Code {
	curr := c
	for curr.parent != nil {
		curr = curr.parent
	}
	return curr
}

func (c *Code) newChild(name string) *Code {
	child := &Code{
		id:       c.id + "." + name,
		name:     name,
		parent:   c,
		symbols:  c.symbols.NewChild(),
		source:   c.source,
		filename: c.filename,
	}
	c.children = append(c.children, child)
	return child
}

func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

func (c *Code) Instruction(index int) op.Code {
	return c.instructions[index]
}

// Instructions returns the underlying instruction stream. The returned slice
// must be treated as read-only.
func (c *Code) Instructions() []op.Code {
	return c.instructions
}

func (c *Code) ConstantsCount() int {
	return len(c.constants)
}

func (c *Code) Constant(index int) any {
	return c.constants[index]
}

func (c *Code) NameCount() int {
	return len(c.names)
}

func (c *Code) Name(index int) string {
	return c.names[index]
}

func (c *Code) addName(name string) uint16 {
	for i, existing := range c.names {
		if existing == name {
			return uint16(i)
		}
	}
	c.names = append(c.names, name)
	return uint16(len(c.names) - 1)
}

func (c *Code) Source() string {
	return c.source
}

func (c *Code) Filename() string {
	return c.filename
}

func (c *Code) LocalsCount() int {
	return int(c.symbols.Count())
}

func (c *Code) Local(index int) *Symbol {
	return c.symbols.Symbol(uint16(index))
}

// LocalNames returns the names of this code's local variables, ordered by
// symbol index.
func (c *Code) LocalNames() []string {
	count := c.symbols.Count()
	names := make([]string, count)
	for i := uint16(0); i < count; i++ {
		names[i] = c.symbols.Symbol(i).Name()
	}
	return names
}

func (c *Code) GlobalsCount() int {
	return int(c.symbols.Root().Count())
}

func (c *Code) Global(index int) *Symbol {
	return c.symbols.Root().Symbol(uint16(index))
}

// GlobalNames returns the names of all global variables, ordered by symbol
// index. This includes environment-provided names; see EnvKeys.
func (c *Code) GlobalNames() []string {
	root := c.symbols.Root()
	count := root.Count()
	names := make([]string, count)
	for i := uint16(0); i < count; i++ {
		names[i] = root.Symbol(i).Name()
	}
	return names
}

// EnvKeys returns the global names that were provided via the environment at
// compile time. This is a subset of GlobalNames.
func (c *Code) EnvKeys() []string {
	if len(c.envKeys) == 0 {
		return nil
	}
	keys := make([]string, len(c.envKeys))
	copy(keys, c.envKeys)
	return keys
}

// LocationAt returns the source location for the instruction at the given
// index. If no location is recorded, a zero SourceLocation is returned.
func (c *Code) LocationAt(ip int) errz.SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return errz.SourceLocation{}
	}
	return c.locations[ip]
}

func (c *Code) LocationsCount() int {
	return len(c.locations)
}

// GetSourceLine returns the source code line at the given 1-based line
// number. If the line is out of range, an empty string is returned.
func (c *Code) GetSourceLine(lineNum int) string {
	source := c.Root().source
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Flatten returns this code and all descendants in a flat slice, the module
// body first.
func (c *Code) Flatten() []*Code {
	var codes []*Code
	codes = append(codes, c)
	for _, child := range c.children {
		codes = append(codes, child.Flatten()...)
	}
	return codes
}

// Function is a compiled function body stored as a constant in its enclosing
// Code. The VM wraps it in an object at load time.
type Function struct {
	name       string
	parameters []string
	code       *Code
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) Parameters() []string {
	return f.parameters
}

func (f *Function) Code() *Code {
	return f.code
}

// NewFunction creates a compiled Function. Used by the store when
// deserializing a compiled unit.
func NewFunction(name string, parameters []string, code *Code) *Function {
	return &Function{name: name, parameters: parameters, code: code}
}
