package engine

// StepRecord describes one executed step: the line the program was about to
// execute and the variable bindings at that moment, rendered as display
// strings.
type StepRecord struct {
	Line     int               `json:"line"`
	Function string            `json:"function"`
	Locals   map[string]string `json:"locals"`
	Globals  map[string]string `json:"globals"`
	Event    string            `json:"event"`
}

// Snapshot is a point-in-time view of an execution: whether it is running,
// everything written to the output streams so far, the current variable
// bindings, and the step trace.
type Snapshot struct {
	RunID   string            `json:"run_id,omitempty"`
	Running bool              `json:"running"`
	Stdout  string            `json:"stdout"`
	Stderr  string            `json:"stderr"`
	Locals  map[string]string `json:"locals"`
	Globals map[string]string `json:"globals"`
	Trace   []StepRecord      `json:"trace,omitempty"`
}

// VariableEntry is one row of the variable inspector.
type VariableEntry struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	TypeName string `json:"type"`
	Scope    string `json:"scope"` // "local" or "global"
}

const (
	// ScopeLocal marks variables bound in the active frame.
	ScopeLocal = "local"
	// ScopeGlobal marks variables bound at module level.
	ScopeGlobal = "global"
)

// EventLine is the event name recorded for a line step.
const EventLine = "line"

func copyBindings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
