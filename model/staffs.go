package model

import (
	"math"
	"slices"
)

// SplitStaffAtPosition splits a staff in two at pdfY. The cut is clamped
// so both halves are at least MinSplitHeight tall. The original id keeps
// the upper half; the lower half gets a new id and is inserted right after
// it. Staves too short to split and unknown ids are left unchanged.
func (l Layout) SplitStaffAtPosition(staffID string, pdfY float64, ids IDGenerator) Layout {
	next, _, _ := l.splitStaff(staffID, pdfY, ids)
	return next
}

// splitStaff does the work of SplitStaffAtPosition and also returns the
// id of the new lower half.
func (l Layout) splitStaff(staffID string, pdfY float64, ids IDGenerator) (Layout, string, bool) {
	i := l.staffIndex(staffID)
	if i < 0 {
		return l, "", false
	}
	s := l.Staffs[i]
	lo, hi := s.Bottom+MinSplitHeight, s.Top-MinSplitHeight
	if lo > hi {
		return l, "", false
	}
	y := math.Max(lo, math.Min(pdfY, hi))

	upper := s
	upper.Bottom = y
	lower := s
	lower.ID = ids.NewID()
	lower.Top = y

	staffs := make([]Staff, 0, len(l.Staffs)+1)
	staffs = append(staffs, l.Staffs[:i]...)
	staffs = append(staffs, upper, lower)
	staffs = append(staffs, l.Staffs[i+1:]...)

	return Layout{Staffs: staffs, Systems: l.Systems}, lower.ID, true
}

// MergeSeparator removes the staff below a separator and stretches the
// staff above down to its bottom. The upper staff keeps its id, label and
// system. Unknown ids are ignored.
func (l Layout) MergeSeparator(aboveID, belowID string) Layout {
	if aboveID == belowID {
		return l
	}
	ai, bi := l.staffIndex(aboveID), l.staffIndex(belowID)
	if ai < 0 || bi < 0 {
		return l
	}

	merged := l.Staffs[ai]
	merged.Bottom = l.Staffs[bi].Bottom
	if merged.Top <= merged.Bottom {
		return l
	}

	staffs := make([]Staff, 0, len(l.Staffs)-1)
	for i, s := range l.Staffs {
		switch i {
		case bi:
			continue
		case ai:
			staffs = append(staffs, merged)
		default:
			staffs = append(staffs, s)
		}
	}
	return Layout{Staffs: staffs, Systems: l.Systems}
}

// AddStaffAtPosition adds a staff centered on pdfY, DefaultStaffHalfHeight
// above and below, clamped to the page. It joins the system of the
// nearest staff on the page. On a page without staves it joins the system
// containing pdfY rather than none, so a page that has systems never gets
// a staff outside them; SystemID is empty only when no system contains
// pdfY.
func (l Layout) AddStaffAtPosition(pageIndex int, pdfY, pageHeight float64, ids IDGenerator) Layout {
	top := math.Min(pdfY+DefaultStaffHalfHeight, pageHeight)
	bottom := math.Max(pdfY-DefaultStaffHalfHeight, 0)
	if top <= bottom {
		return l
	}

	systemID := ""
	best := math.Inf(1)
	for _, s := range l.Staffs {
		if s.PageIndex != pageIndex {
			continue
		}
		if d := math.Abs(s.Center() - pdfY); d < best {
			best = d
			systemID = s.SystemID
		}
	}
	if math.IsInf(best, 1) {
		for _, sys := range l.Systems {
			if sys.PageIndex == pageIndex && sys.Contains(pdfY) {
				systemID = sys.ID
				break
			}
		}
	}

	staffs := slices.Clone(l.Staffs)
	staffs = append(staffs, Staff{
		ID:        ids.NewID(),
		PageIndex: pageIndex,
		Top:       top,
		Bottom:    bottom,
		SystemID:  systemID,
	})
	return Layout{Staffs: staffs, Systems: l.Systems}
}

// ApplySeparatorDrag moves separators[index] to newCanvasY. The staff
// above gets its bottom moved down to the new position but no closer than
// minHeight to its top; the staff below gets its top moved likewise but no
// closer than minHeight to its bottom. Edge separators move one staff.
func (l Layout) ApplySeparatorDrag(separators []Separator, index int, newCanvasY, pageHeight, scale, minHeight float64) Layout {
	if index < 0 || index >= len(separators) || scale <= 0 {
		return l
	}
	sep := separators[index]
	newY := CanvasYToPDFY(newCanvasY, pageHeight, scale)

	ai, bi := -1, -1
	if sep.StaffAboveID != "" {
		ai = l.staffIndex(sep.StaffAboveID)
	}
	if sep.StaffBelowID != "" {
		bi = l.staffIndex(sep.StaffBelowID)
	}
	if ai < 0 && bi < 0 {
		return l
	}

	staffs := slices.Clone(l.Staffs)
	if ai >= 0 {
		above := &staffs[ai]
		above.Bottom = math.Min(newY, above.Top-minHeight)
	}
	if bi >= 0 {
		below := &staffs[bi]
		below.Top = math.Max(newY, below.Bottom+minHeight)
	}
	return Layout{Staffs: staffs, Systems: l.Systems}
}

// ApplySystemLabelsToAll copies the labels of the template system's staves
// onto every other system by position: the n-th staff from the top of each
// system gets the n-th template label. Staves past the end of the template
// keep their label, as do staves outside any system. Instrumentation is
// not compared; see ValidateLabelConsistency.
func (l Layout) ApplySystemLabelsToAll(templateSystemID string) Layout {
	template := l.SystemStaffs(templateSystemID)
	if len(template) == 0 {
		return l
	}

	staffs := slices.Clone(l.Staffs)
	index := make(map[string]int, len(staffs))
	members := make(map[string][]Staff)
	var order []string
	for i, s := range staffs {
		index[s.ID] = i
		if s.SystemID == templateSystemID || s.SystemID == "" {
			continue
		}
		if _, ok := members[s.SystemID]; !ok {
			order = append(order, s.SystemID)
		}
		members[s.SystemID] = append(members[s.SystemID], s)
	}

	for _, systemID := range order {
		group := members[systemID]
		sortStaffsTopDown(group)
		for pos, s := range group {
			if pos >= len(template) {
				break
			}
			staffs[index[s.ID]].Label = template[pos].Label
		}
	}
	return Layout{Staffs: staffs, Systems: l.Systems}
}

// SetStaffLabel renames a staff
func (l Layout) SetStaffLabel(staffID, label string) Layout {
	i := l.staffIndex(staffID)
	if i < 0 || l.Staffs[i].Label == label {
		return l
	}
	staffs := slices.Clone(l.Staffs)
	staffs[i].Label = label
	return Layout{Staffs: staffs, Systems: l.Systems}
}

// DeleteStaff removes a staff. Its system is kept even if it becomes empty.
func (l Layout) DeleteStaff(staffID string) Layout {
	i := l.staffIndex(staffID)
	if i < 0 {
		return l
	}
	return Layout{Staffs: slices.Delete(slices.Clone(l.Staffs), i, i+1), Systems: l.Systems}
}

// ReplacePage swaps every system and staff of a page for the given ones,
// as after re-running detection on that page. Entities are placed after
// those of earlier pages.
func (l Layout) ReplacePage(pageIndex int, staffs []Staff, systems []System) Layout {
	newStaffs := make([]Staff, 0, len(l.Staffs)+len(staffs))
	inserted := false
	for _, s := range l.Staffs {
		if s.PageIndex == pageIndex {
			continue
		}
		if !inserted && s.PageIndex > pageIndex {
			newStaffs = appendOnPage(newStaffs, staffs, pageIndex)
			inserted = true
		}
		newStaffs = append(newStaffs, s)
	}
	if !inserted {
		newStaffs = appendOnPage(newStaffs, staffs, pageIndex)
	}

	newSystems := make([]System, 0, len(l.Systems)+len(systems))
	inserted = false
	for _, s := range l.Systems {
		if s.PageIndex == pageIndex {
			continue
		}
		if !inserted && s.PageIndex > pageIndex {
			newSystems = appendSystemsOnPage(newSystems, systems, pageIndex)
			inserted = true
		}
		newSystems = append(newSystems, s)
	}
	if !inserted {
		newSystems = appendSystemsOnPage(newSystems, systems, pageIndex)
	}

	return Layout{Staffs: newStaffs, Systems: newSystems}
}

func appendOnPage(dst, staffs []Staff, pageIndex int) []Staff {
	for _, s := range staffs {
		s.PageIndex = pageIndex
		dst = append(dst, s)
	}
	return dst
}

func appendSystemsOnPage(dst, systems []System, pageIndex int) []System {
	for _, s := range systems {
		s.PageIndex = pageIndex
		dst = append(dst, s)
	}
	return dst
}
