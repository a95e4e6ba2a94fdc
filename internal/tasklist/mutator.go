package tasklist

import (
	"fmt"
	"os"
	"strings"
)

// completionMarker replaces the single space inside the checkbox when a
// task is marked complete. Marking is one-directional — there is no way
// to re-open a task through this package.
const completionMarker = 'x'

// MarkComplete marks the first task whose id equals id as complete and
// returns the rewritten document. Only the single checkbox character on
// the matched line changes; every other byte of the document — including
// the matched line's tags, spacing, and description — is preserved.
//
// changed reports whether any byte actually changed: false when no line
// carries the id, and also when the task was already complete. Both
// cases still succeed — orchestration tolerates drift between expected
// and actual task ids, and re-marking is an idempotent no-op.
//
// An empty or whitespace-only id is a caller error.
func MarkComplete(text, id string) (out string, changed bool, err error) {
	if strings.TrimSpace(id) == "" {
		return "", false, fmt.Errorf("task id must not be empty")
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := taskPrefixRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		if line[m[4]:m[5]] != id {
			continue
		}
		// First match wins, even if duplicate ids exist.
		marker := line[m[2]]
		if marker == ' ' {
			lines[i] = line[:m[2]] + string(completionMarker) + line[m[3]:]
			changed = true
		}
		return strings.Join(lines, "\n"), changed, nil
	}

	return text, false, nil
}

// MarkCompleteFile applies MarkComplete to the checklist at path,
// writing the rewritten document back to the same location. The file is
// only rewritten when a line actually changed.
func MarkCompleteFile(path, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("task id must not be empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading checklist %s: %w", path, err)
	}

	out, changed, err := MarkComplete(string(data), id)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("writing checklist %s: %w", path, err)
	}
	return true, nil
}
