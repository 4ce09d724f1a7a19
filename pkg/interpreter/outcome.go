package interpreter

import (
	"encoding/json"

	"hpl/interpreter-go/pkg/runtime"
)

// Outcome is the structured result of running a program.
type Outcome struct {
	Success   bool     `json:"success"`
	Output    string   `json:"output"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Line      *int     `json:"line,omitempty"`
	Column    *int     `json:"column,omitempty"`
	Path      string   `json:"path,omitempty"`
	CallStack []string `json:"call_stack,omitempty"`

	// Value is the entry point's return value on success.
	Value runtime.Value `json:"-"`
}

// FailureOutcome reports err along with the output produced before it.
func FailureOutcome(err error, output string) Outcome {
	diag := BuildRuntimeDiagnostic(err)
	out := Outcome{
		Success:   false,
		Output:    output,
		Error:     diag.Message,
		ErrorKind: string(diag.Kind),
		Path:      diag.Location.Path,
		CallStack: diag.CallStack,
	}
	if diag.Location.Line > 0 {
		line, column := diag.Location.Line, diag.Location.Column
		out.Line = &line
		out.Column = &column
	}
	return out
}

// Diagnostic rebuilds the failure as a RuntimeDiagnostic.
func (o Outcome) Diagnostic() RuntimeDiagnostic {
	diag := RuntimeDiagnostic{
		Kind:      runtime.ErrorKind(o.ErrorKind),
		Message:   o.Error,
		CallStack: o.CallStack,
	}
	diag.Location.Path = o.Path
	if o.Line != nil {
		diag.Location.Line = *o.Line
	}
	if o.Column != nil {
		diag.Location.Column = *o.Column
	}
	return diag
}

// JSON encodes the outcome with snake_case keys.
func (o Outcome) JSON() ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
