// Package tasklist parses and rewrites markdown task checklists.
//
// A checklist is the tasks.md artifact inside a feature directory: phase
// headings ("## Phase 1: Setup") group checkbox task lines
// ("- [ ] T001 [P] [US1] Build the thing"). The checklist file is the
// single source of truth — task records are recomputed by a full reparse
// on every read and are never persisted anywhere else.
package tasklist

// Task is one parsed checklist line item.
type Task struct {
	// ID is the task identifier: "T" followed by one or more digits.
	// Conventionally zero-padded to three digits ("T001"), but the
	// digit count is not constrained.
	ID string `json:"id"`

	// Description is the free text after the id and optional tags, trimmed.
	Description string `json:"description"`

	// Phase is the title of the nearest preceding phase heading,
	// or empty if the task appears before any heading.
	Phase string `json:"phase,omitempty"`

	// Story is the value of the optional story tag (e.g. "US1"), if present.
	Story string `json:"story,omitempty"`

	// Parallel is true when the line carries the literal "[P]" tag.
	Parallel bool `json:"parallel"`

	// Completed is true when the checkbox marker is "x" or "X".
	Completed bool `json:"completed"`
}

// Incomplete returns the sub-sequence of tasks whose checkbox is still
// open, preserving document order.
func Incomplete(tasks []Task) []Task {
	var open []Task
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open
}
