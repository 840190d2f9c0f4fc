package scorecutter

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem found while detecting a layout. Pages with
// a warning are left without systems or staves.
type Warning struct {
	// Page is the 1-indexed page the warning applies to
	Page    int    `json:"page"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// FormatWarnings joins warnings into a single line for logging
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
