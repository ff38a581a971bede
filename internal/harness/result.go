package harness

import (
	"bytes"
	"fmt"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the executed scenario's name.
	Scenario string `json:"scenario"`

	// Pass indicates overall success. True if all assertions held.
	Pass bool `json:"pass"`

	// Trace lists the rendered trace lines, one per step event.
	// Used for golden comparison.
	Trace []string `json:"trace"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result for the named scenario.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Trace:    []string{},
		Errors:   []string{},
	}
}

// AddLine appends a rendered trace line.
func (r *Result) AddLine(line string) {
	r.Trace = append(r.Trace, line)
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// TraceText renders the trace as newline-terminated text, the golden
// file layout. The first line names the scenario.
func (r *Result) TraceText() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", r.Scenario)
	for _, line := range r.Trace {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
