package model

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Part is every staff of one instrument across the document, in reading
// order. It is the unit exported as a separate file.
type Part struct {
	Label  string  `json:"label"`
	Staffs []Staff `json:"staffs"`
}

// PartKey normalizes a label for grouping: surrounding and repeated
// whitespace is collapsed, the text is NFC-normalized and case-folded, so
// "Violin I", "violin  i" and "VIOLIN I" name the same part.
func PartKey(label string) string {
	folded := cases.Fold().String(norm.NFC.String(label))
	return strings.Join(strings.Fields(folded), " ")
}

// Parts groups labeled staves into parts. Staves are taken in reading
// order (page, then top of page first); parts are ordered by their first
// staff and named after the first spelling seen. Unlabeled staves are
// skipped.
func Parts(staffs []Staff) []Part {
	ordered := make([]Staff, len(staffs))
	copy(ordered, staffs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PageIndex != ordered[j].PageIndex {
			return ordered[i].PageIndex < ordered[j].PageIndex
		}
		return ordered[i].Top > ordered[j].Top
	})

	index := make(map[string]int)
	var parts []Part
	for _, s := range ordered {
		key := PartKey(s.Label)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(parts)
			index[key] = i
			parts = append(parts, Part{Label: strings.TrimSpace(s.Label)})
		}
		parts[i].Staffs = append(parts[i].Staffs, s)
	}
	return parts
}
