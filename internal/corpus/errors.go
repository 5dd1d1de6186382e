package corpus

import (
	"fmt"
	"strings"
)

// Issue describes one rejected record. Index is the record's position in the
// input, or -1 when the input as a whole could not be read.
type Issue struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	switch {
	case i.Index < 0:
		return i.Reason
	case i.ID != "":
		return fmt.Sprintf("record %d (%s): %s", i.Index, i.ID, i.Reason)
	default:
		return fmt.Sprintf("record %d: %s", i.Index, i.Reason)
	}
}

// ValidationError rejects an entire import batch. Nothing from the batch is
// written when it is returned.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid corpus"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid corpus: %d issue(s): %s", len(e.Issues), e.Issues[0])
	if len(e.Issues) > 1 {
		fmt.Fprintf(&b, " (and %d more)", len(e.Issues)-1)
	}
	return b.String()
}
