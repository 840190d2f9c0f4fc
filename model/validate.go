package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Severity grades a validation result
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// systemStaffs is the staves of one system, top first
type systemStaffs struct {
	pageIndex int
	systemID  string
	staffs    []Staff
}

// groupBySystem groups staves by SystemID, sorted by page then system id.
func groupBySystem(staffs []Staff) []systemStaffs {
	byID := make(map[string]*systemStaffs)
	for _, s := range staffs {
		g, ok := byID[s.SystemID]
		if !ok {
			g = &systemStaffs{pageIndex: s.PageIndex, systemID: s.SystemID}
			byID[s.SystemID] = g
		}
		g.staffs = append(g.staffs, s)
	}

	groups := make([]systemStaffs, 0, len(byID))
	for _, g := range byID {
		sortStaffsTopDown(g.staffs)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].pageIndex != groups[j].pageIndex {
			return groups[i].pageIndex < groups[j].pageIndex
		}
		return groups[i].systemID < groups[j].systemID
	})
	return groups
}

// StaffCountMismatch is a system whose staff count differs from the mode
type StaffCountMismatch struct {
	PageIndex int    `json:"pageIndex"`
	SystemID  string `json:"systemId"`
	Count     int    `json:"count"`
}

// StaffCountReport is the result of ValidateStaffCountConsistency
type StaffCountReport struct {
	Severity      Severity             `json:"severity"`
	ExpectedCount int                  `json:"expectedCount"`
	Mismatches    []StaffCountMismatch `json:"mismatches,omitempty"`
}

// ValidateStaffCountConsistency takes the most common number of staves per
// system as the expected count and reports every system that differs,
// sorted by page then system id. When several counts are equally common
// the smallest wins.
func ValidateStaffCountConsistency(staffs []Staff) StaffCountReport {
	groups := groupBySystem(staffs)
	if len(groups) == 0 {
		return StaffCountReport{Severity: SeveritySuccess}
	}

	counts := make([]float64, len(groups))
	for i, g := range groups {
		counts[i] = float64(len(g.staffs))
	}
	expected := smallestMode(counts)

	report := StaffCountReport{Severity: SeveritySuccess, ExpectedCount: expected}
	for _, g := range groups {
		if len(g.staffs) != expected {
			report.Mismatches = append(report.Mismatches, StaffCountMismatch{
				PageIndex: g.pageIndex,
				SystemID:  g.systemID,
				Count:     len(g.staffs),
			})
		}
	}
	if len(report.Mismatches) > 0 {
		report.Severity = SeverityWarning
	}
	return report
}

// smallestMode returns the most frequent value, preferring the smallest
// when frequencies tie.
func smallestMode(values []float64) int {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	_, freq := stat.Mode(sorted, nil)

	// sorted input: the first run of length freq is the smallest mode
	run := 0
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if float64(run) == freq {
			return int(v)
		}
	}
	return int(sorted[0])
}

// LabelCompletenessReport is the result of ValidateLabelCompleteness
type LabelCompletenessReport struct {
	Severity  Severity `json:"severity"`
	Total     int      `json:"total"`
	Unlabeled int      `json:"unlabeled"`
}

// ValidateLabelCompleteness counts staves without a label. Labels made of
// whitespace only count as missing.
func ValidateLabelCompleteness(staffs []Staff) LabelCompletenessReport {
	report := LabelCompletenessReport{Severity: SeveritySuccess, Total: len(staffs)}
	for _, s := range staffs {
		if strings.TrimSpace(s.Label) == "" {
			report.Unlabeled++
		}
	}
	if report.Unlabeled > 0 {
		report.Severity = SeverityWarning
	}
	return report
}

// DuplicateLabel is a label used more than once within one system
type DuplicateLabel struct {
	PageIndex int    `json:"pageIndex"`
	SystemID  string `json:"systemId"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

// DuplicateLabelsReport is the result of ValidateDuplicateLabelsInSystems
type DuplicateLabelsReport struct {
	Severity   Severity         `json:"severity"`
	Duplicates []DuplicateLabel `json:"duplicates,omitempty"`
}

// ValidateDuplicateLabelsInSystems reports every non-empty label that
// occurs more than once within a single system.
func ValidateDuplicateLabelsInSystems(staffs []Staff) DuplicateLabelsReport {
	report := DuplicateLabelsReport{Severity: SeveritySuccess}
	for _, g := range groupBySystem(staffs) {
		counts := make(map[string]int)
		var order []string
		for _, s := range g.staffs {
			if s.Label == "" {
				continue
			}
			if counts[s.Label] == 0 {
				order = append(order, s.Label)
			}
			counts[s.Label]++
		}
		for _, label := range order {
			if counts[label] > 1 {
				report.Duplicates = append(report.Duplicates, DuplicateLabel{
					PageIndex: g.pageIndex,
					SystemID:  g.systemID,
					Label:     label,
					Count:     counts[label],
				})
			}
		}
	}
	if len(report.Duplicates) > 0 {
		report.Severity = SeverityWarning
	}
	return report
}

// LabelSequenceMismatch is a system whose labels differ from the expected
// sequence
type LabelSequenceMismatch struct {
	PageIndex int      `json:"pageIndex"`
	SystemID  string   `json:"systemId"`
	Labels    []string `json:"labels"`
}

// LabelConsistencyReport is the result of ValidateLabelConsistency
type LabelConsistencyReport struct {
	Severity   Severity                `json:"severity"`
	Expected   []string                `json:"expected,omitempty"`
	Mismatches []LabelSequenceMismatch `json:"mismatches,omitempty"`
}

// ValidateLabelConsistency takes the labels of the first fully labeled
// system, in system id order, as the expected top-to-bottom sequence and
// reports every system whose sequence differs in content or length.
func ValidateLabelConsistency(staffs []Staff) LabelConsistencyReport {
	groups := groupBySystem(staffs)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].systemID < groups[j].systemID
	})

	report := LabelConsistencyReport{Severity: SeveritySuccess}
	for _, g := range groups {
		labels := labelSequence(g.staffs)
		if !slices.Contains(labels, "") {
			report.Expected = labels
			break
		}
	}
	if report.Expected == nil {
		return report
	}

	for _, g := range groups {
		labels := labelSequence(g.staffs)
		if !slices.Equal(labels, report.Expected) {
			report.Mismatches = append(report.Mismatches, LabelSequenceMismatch{
				PageIndex: g.pageIndex,
				SystemID:  g.systemID,
				Labels:    labels,
			})
		}
	}
	if len(report.Mismatches) > 0 {
		report.Severity = SeverityWarning
	}
	return report
}

func labelSequence(staffs []Staff) []string {
	labels := make([]string, len(staffs))
	for i, s := range staffs {
		labels[i] = s.Label
	}
	return labels
}

// Diagnostic is one line of validation output for display
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Validate runs every check and returns one diagnostic per check
func Validate(staffs []Staff) []Diagnostic {
	var out []Diagnostic

	counts := ValidateStaffCountConsistency(staffs)
	msg := fmt.Sprintf("every system has %d staves", counts.ExpectedCount)
	if counts.Severity == SeverityWarning {
		msg = fmt.Sprintf("%d systems differ from the expected %d staves", len(counts.Mismatches), counts.ExpectedCount)
	}
	out = append(out, Diagnostic{Severity: counts.Severity, Code: "staff-count", Message: msg})

	complete := ValidateLabelCompleteness(staffs)
	msg = "every staff is labeled"
	if complete.Severity == SeverityWarning {
		msg = fmt.Sprintf("%d of %d staves have no label", complete.Unlabeled, complete.Total)
	}
	out = append(out, Diagnostic{Severity: complete.Severity, Code: "label-completeness", Message: msg})

	dups := ValidateDuplicateLabelsInSystems(staffs)
	msg = "no label repeats within a system"
	if dups.Severity == SeverityWarning {
		d := dups.Duplicates[0]
		msg = fmt.Sprintf("%d repeated labels, first %q x%d on page %d", len(dups.Duplicates), d.Label, d.Count, d.PageIndex+1)
	}
	out = append(out, Diagnostic{Severity: dups.Severity, Code: "duplicate-labels", Message: msg})

	consistency := ValidateLabelConsistency(staffs)
	msg = "all systems share the same labels"
	if consistency.Severity == SeverityWarning {
		msg = fmt.Sprintf("%d systems differ from %s", len(consistency.Mismatches), strings.Join(consistency.Expected, ", "))
	}
	out = append(out, Diagnostic{Severity: consistency.Severity, Code: "label-consistency", Message: msg})

	return out
}
