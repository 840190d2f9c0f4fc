package model

import (
	"math"
	"slices"
)

// SplitSystemAtGap splits the system shared by two neighbouring staves
// halfway between the bottom of the upper staff and the top of the lower
// one. The source system keeps the upper part; a new system, inserted
// right after it, takes the lower part together with every staff of the
// source system whose top is at or below the lower staff's top.
//
// Nothing changes when a staff is unknown, the staves belong to different
// systems, or the cut falls outside the system.
func (l Layout) SplitSystemAtGap(aboveID, belowID string, ids IDGenerator) Layout {
	above, ok := l.Staff(aboveID)
	if !ok {
		return l
	}
	below, ok := l.Staff(belowID)
	if !ok {
		return l
	}
	if above.SystemID != below.SystemID || above.Top <= below.Top {
		return l
	}
	si := l.systemIndex(above.SystemID)
	if si < 0 {
		return l
	}

	source := l.Systems[si]
	mid := (above.Bottom + below.Top) / 2
	if mid >= source.Top || mid <= source.Bottom {
		return l
	}

	created := System{
		ID:        ids.NewID(),
		PageIndex: source.PageIndex,
		Top:       mid,
		Bottom:    source.Bottom,
	}
	source.Bottom = mid

	systems := make([]System, 0, len(l.Systems)+1)
	systems = append(systems, l.Systems[:si]...)
	systems = append(systems, source, created)
	systems = append(systems, l.Systems[si+1:]...)

	staffs := slices.Clone(l.Staffs)
	for i := range staffs {
		if staffs[i].SystemID == source.ID && staffs[i].Top <= below.Top {
			staffs[i].SystemID = created.ID
		}
	}

	return Layout{Staffs: staffs, Systems: systems}
}

// MergeAdjacentSystems merges the system at upperOrdinal+1 on a page into
// the one at upperOrdinal. The upper system grows down to the lower
// system's bottom and takes over its staves; the lower system is removed.
func (l Layout) MergeAdjacentSystems(pageIndex, upperOrdinal int) Layout {
	page := l.PageSystems(pageIndex)
	if upperOrdinal < 0 || upperOrdinal >= len(page)-1 {
		return l
	}
	upper, lower := page[upperOrdinal], page[upperOrdinal+1]

	systems := make([]System, 0, len(l.Systems)-1)
	for _, s := range l.Systems {
		switch s.ID {
		case lower.ID:
			continue
		case upper.ID:
			s.Bottom = lower.Bottom
		}
		systems = append(systems, s)
	}

	staffs := slices.Clone(l.Staffs)
	for i := range staffs {
		if staffs[i].SystemID == lower.ID {
			staffs[i].SystemID = upper.ID
		}
	}

	return Layout{Staffs: staffs, Systems: systems}
}

// ReassignStaffsByDrag moves the boundary between the systems at
// systemSepIndex and systemSepIndex+1 of a page to newCanvasY. Every staff
// of the two systems whose center ends up above the boundary belongs to
// the upper system afterwards, every other one to the lower system. The
// boundary is kept at least MinSplitHeight inside both systems.
func (l Layout) ReassignStaffsByDrag(pageIndex, systemSepIndex int, newCanvasY, pageHeight, scale float64) Layout {
	page := l.PageSystems(pageIndex)
	if systemSepIndex < 0 || systemSepIndex >= len(page)-1 || scale <= 0 {
		return l
	}
	upper, lower := page[systemSepIndex], page[systemSepIndex+1]

	lo, hi := lower.Bottom+MinSplitHeight, upper.Top-MinSplitHeight
	if lo > hi {
		return l
	}
	newY := math.Max(lo, math.Min(CanvasYToPDFY(newCanvasY, pageHeight, scale), hi))

	systems := slices.Clone(l.Systems)
	for i := range systems {
		switch systems[i].ID {
		case upper.ID:
			systems[i].Bottom = newY
		case lower.ID:
			systems[i].Top = newY
		}
	}

	staffs := slices.Clone(l.Staffs)
	for i := range staffs {
		if staffs[i].SystemID != upper.ID && staffs[i].SystemID != lower.ID {
			continue
		}
		if staffs[i].Center() > newY {
			staffs[i].SystemID = upper.ID
		} else {
			staffs[i].SystemID = lower.ID
		}
	}

	return Layout{Staffs: staffs, Systems: systems}
}

// SplitSystemAtPosition splits the system containing pdfY on a page.
//
// A position in the gap between two staves splits there. A position
// inside a staff but within MinSplitHeight of its bottom or top splits at
// the gap to the neighbouring staff instead, so no sliver is created.
// Otherwise the staff itself is split at pdfY first and the system is cut
// between the two halves. Positions outside every system are ignored.
func (l Layout) SplitSystemAtPosition(pageIndex int, pdfY float64, ids IDGenerator) Layout {
	var target System
	found := false
	for _, s := range l.PageSystems(pageIndex) {
		if s.Contains(pdfY) {
			target, found = s, true
			break
		}
	}
	if !found {
		return l
	}

	staffs := l.SystemStaffs(target.ID)

	for i := 0; i+1 < len(staffs); i++ {
		if pdfY <= staffs[i].Bottom && pdfY >= staffs[i+1].Top {
			return l.SplitSystemAtGap(staffs[i].ID, staffs[i+1].ID, ids)
		}
	}

	for i, s := range staffs {
		if pdfY > s.Top || pdfY < s.Bottom {
			continue
		}
		if i+1 < len(staffs) && pdfY-s.Bottom < MinSplitHeight {
			return l.SplitSystemAtGap(s.ID, staffs[i+1].ID, ids)
		}
		if i > 0 && s.Top-pdfY < MinSplitHeight {
			return l.SplitSystemAtGap(staffs[i-1].ID, s.ID, ids)
		}
		next, lowerID, ok := l.splitStaff(s.ID, pdfY, ids)
		if !ok {
			return l
		}
		split := next.SplitSystemAtGap(s.ID, lowerID, ids)
		if len(split.Systems) == len(next.Systems) {
			// keep the staff whole when the system cannot be cut
			return l
		}
		return split
	}

	return l
}
