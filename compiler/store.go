package compiler

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/adder-lang/adder/errz"
	"github.com/adder-lang/adder/op"
)

// codeState is the serializable form of a Code tree. Symbol tables and
// parent pointers are rebuilt on load from the flat name lists.
type codeState struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Instructions []op.Code       `json:"instructions"`
	Constants    []constantState `json:"constants"`
	Names        []string        `json:"names,omitempty"`
	Symbols      []string        `json:"symbols,omitempty"`
	EnvKeys      []string        `json:"env_keys,omitempty"`
	Filename     string          `json:"filename,omitempty"`
	Source       string          `json:"source,omitempty"`
	Locations    []locationState `json:"locations,omitempty"`
	Children     []codeState     `json:"children,omitempty"`
}

type constantState struct {
	Kind   string   `json:"kind"`
	Int    int64    `json:"int,omitempty"`
	Float  float64  `json:"float,omitempty"`
	Str    string   `json:"str,omitempty"`
	Bool   bool     `json:"bool,omitempty"`
	Fname  string   `json:"fname,omitempty"`
	Params []string `json:"params,omitempty"`
	Child  int      `json:"child,omitempty"`
}

type locationState struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func exportCode(c *Code) (codeState, error) {
	state := codeState{
		ID:           c.id,
		Name:         c.name,
		Instructions: c.instructions,
		Names:        c.names,
		Symbols:      c.LocalNames(),
		Filename:     c.filename,
	}
	if c.IsRoot() {
		state.Source = c.source
		state.EnvKeys = c.envKeys
	}
	for _, loc := range c.locations {
		state.Locations = append(state.Locations, locationState{Line: loc.Line, Column: loc.Column})
	}
	for _, child := range c.children {
		childState, err := exportCode(child)
		if err != nil {
			return codeState{}, err
		}
		state.Children = append(state.Children, childState)
	}
	for _, value := range c.constants {
		cs, err := exportConstant(c, value)
		if err != nil {
			return codeState{}, err
		}
		state.Constants = append(state.Constants, cs)
	}
	return state, nil
}

func exportConstant(c *Code, value any) (constantState, error) {
	switch v := value.(type) {
	case int64:
		return constantState{Kind: "int", Int: v}, nil
	case float64:
		return constantState{Kind: "float", Float: v}, nil
	case string:
		return constantState{Kind: "str", Str: v}, nil
	case bool:
		return constantState{Kind: "bool", Bool: v}, nil
	case nil:
		return constantState{Kind: "none"}, nil
	case *Function:
		for i, child := range c.children {
			if child == v.code {
				return constantState{
					Kind:   "function",
					Fname:  v.name,
					Params: v.parameters,
					Child:  i,
				}, nil
			}
		}
		return constantState{}, fmt.Errorf("function %q references an unknown code block", v.name)
	default:
		return constantState{}, fmt.Errorf("unsupported constant type: %T", value)
	}
}

func importCode(state codeState, parent *Code) (*Code, error) {
	c := &Code{
		id:           state.ID,
		name:         state.Name,
		parent:       parent,
		instructions: state.Instructions,
		names:        state.Names,
		filename:     state.Filename,
	}
	if parent == nil {
		c.symbols = NewSymbolTable()
		c.source = state.Source
		c.envKeys = state.EnvKeys
	} else {
		c.symbols = parent.symbols.NewChild()
		c.source = parent.source
	}
	for _, name := range state.Symbols {
		c.symbols.Define(name)
	}
	for _, loc := range state.Locations {
		c.locations = append(c.locations, errz.SourceLocation{
			Filename: c.filename,
			Line:     loc.Line,
			Column:   loc.Column,
			Source:   c.Root().GetSourceLine(loc.Line),
		})
	}
	for _, childState := range state.Children {
		child, err := importCode(childState, c)
		if err != nil {
			return nil, err
		}
		c.children = append(c.children, child)
	}
	for _, cs := range state.Constants {
		value, err := importConstant(c, cs)
		if err != nil {
			return nil, err
		}
		c.constants = append(c.constants, value)
	}
	return c, nil
}

func importConstant(c *Code, cs constantState) (any, error) {
	switch cs.Kind {
	case "int":
		return cs.Int, nil
	case "float":
		return cs.Float, nil
	case "str":
		return cs.Str, nil
	case "bool":
		return cs.Bool, nil
	case "none":
		return nil, nil
	case "function":
		if cs.Child < 0 || cs.Child >= len(c.children) {
			return nil, fmt.Errorf("function %q references child %d of %d",
				cs.Fname, cs.Child, len(c.children))
		}
		return &Function{name: cs.Fname, parameters: cs.Params, code: c.children[cs.Child]}, nil
	default:
		return nil, fmt.Errorf("unsupported constant kind: %q", cs.Kind)
	}
}

// Marshal serializes a compiled Code tree to a compact binary form.
func Marshal(c *Code) ([]byte, error) {
	state, err := exportCode(c.Root())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal restores a Code tree serialized with Marshal.
func Unmarshal(data []byte) (*Code, error) {
	var state codeState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return nil, err
	}
	return importCode(state, nil)
}

// MarshalJSON serializes a compiled Code tree as indented JSON, suitable for
// inspection and for the JSON export format.
func MarshalJSON(c *Code) ([]byte, error) {
	state, err := exportCode(c.Root())
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(state, "", "  ")
}

// UnmarshalJSON restores a Code tree serialized with MarshalJSON.
func UnmarshalJSON(data []byte) (*Code, error) {
	var state codeState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return importCode(state, nil)
}
