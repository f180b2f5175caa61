package compiler

import "fmt"

// Symbol is a named variable with a fixed slot index in its scope.
type Symbol struct {
	name  string
	index uint16
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) Index() uint16 {
	return s.index
}

func (s *Symbol) String() string {
	return fmt.Sprintf("symbol(%s idx=%d)", s.name, s.index)
}

// Resolution pairs a Symbol with the scope it was found in, relative to the
// table doing the lookup.
type Resolution struct {
	Symbol *Symbol
	Global bool
}

// SymbolTable assigns slot indexes to variable names within one scope.
// Tables nest: a function body's table has the module table as its root.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

func (t *SymbolTable) NewChild() *SymbolTable {
	return &SymbolTable{parent: t, symbols: map[string]*Symbol{}}
}

func (t *SymbolTable) IsRoot() bool {
	return t.parent == nil
}

func (t *SymbolTable) Root() *SymbolTable {
	curr := t
	for curr.parent != nil {
		curr = curr.parent
	}
	return curr
}

func (t *SymbolTable) Count() uint16 {
	return uint16(len(t.order))
}

func (t *SymbolTable) Symbol(index uint16) *Symbol {
	return t.symbols[t.order[index]]
}

// Define adds a name to this scope, returning the existing symbol if the
// name was already defined here.
func (t *SymbolTable) Define(name string) *Symbol {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{name: name, index: uint16(len(t.order))}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	return sym
}

// Get looks the name up in this scope only.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Lookup resolves a name against this scope and then the root scope. There
// is no closure support: a function body sees its own locals and the module
// globals, nothing in between.
func (t *SymbolTable) Lookup(name string) (*Resolution, bool) {
	if sym, ok := t.symbols[name]; ok {
		return &Resolution{Symbol: sym, Global: t.IsRoot()}, true
	}
	if t.IsRoot() {
		return nil, false
	}
	root := t.Root()
	if sym, ok := root.symbols[name]; ok {
		return &Resolution{Symbol: sym, Global: true}, true
	}
	return nil, false
}
