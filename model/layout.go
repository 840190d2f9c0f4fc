package model

import (
	"slices"
	"sort"
)

const (
	// MinSplitHeight is the smallest height, in PDF units, an edit may
	// leave a staff or system with.
	MinSplitHeight = 10.0

	// DefaultStaffHalfHeight is half the height of a staff added by hand.
	DefaultStaffHalfHeight = 25.0
)

// System is a horizontal band of one page holding a full musical system.
type System struct {
	ID        string  `json:"id"`
	PageIndex int     `json:"pageIndex"`
	Top       float64 `json:"top"`
	Bottom    float64 `json:"bottom"`
}

// Height returns Top - Bottom
func (s System) Height() float64 {
	return s.Top - s.Bottom
}

// Contains reports whether pdfY lies within the system span, edges included
func (s System) Contains(pdfY float64) bool {
	return pdfY <= s.Top && pdfY >= s.Bottom
}

// Staff is one instrument row inside a system.
type Staff struct {
	ID        string  `json:"id"`
	PageIndex int     `json:"pageIndex"`
	Top       float64 `json:"top"`
	Bottom    float64 `json:"bottom"`
	Label     string  `json:"label"`
	SystemID  string  `json:"systemId"`
}

// Height returns Top - Bottom
func (s Staff) Height() float64 {
	return s.Top - s.Bottom
}

// Center returns the vertical midpoint of the staff
func (s Staff) Center() float64 {
	return (s.Top + s.Bottom) / 2
}

// Layout is a snapshot of every system and staff of a document.
// Slices are in document order; no method modifies them in place.
type Layout struct {
	Staffs  []Staff  `json:"staffs"`
	Systems []System `json:"systems"`
}

// Equal reports whether two layouts hold the same entities in the same order
func (l Layout) Equal(other Layout) bool {
	return slices.Equal(l.Staffs, other.Staffs) && slices.Equal(l.Systems, other.Systems)
}

// Clone returns a copy of the layout with its own slices
func (l Layout) Clone() Layout {
	return Layout{
		Staffs:  slices.Clone(l.Staffs),
		Systems: slices.Clone(l.Systems),
	}
}

// PageCount returns one more than the highest page index in use
func (l Layout) PageCount() int {
	n := 0
	for _, s := range l.Systems {
		n = max(n, s.PageIndex+1)
	}
	for _, s := range l.Staffs {
		n = max(n, s.PageIndex+1)
	}
	return n
}

// PageSystems returns the systems of a page, top of page first
func (l Layout) PageSystems(pageIndex int) []System {
	var systems []System
	for _, s := range l.Systems {
		if s.PageIndex == pageIndex {
			systems = append(systems, s)
		}
	}
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].Top > systems[j].Top
	})
	return systems
}

// PageStaffs returns the staves of a page, top of page first
func (l Layout) PageStaffs(pageIndex int) []Staff {
	var staffs []Staff
	for _, s := range l.Staffs {
		if s.PageIndex == pageIndex {
			staffs = append(staffs, s)
		}
	}
	sortStaffsTopDown(staffs)
	return staffs
}

// SystemStaffs returns the staves assigned to a system, top first
func (l Layout) SystemStaffs(systemID string) []Staff {
	var staffs []Staff
	for _, s := range l.Staffs {
		if s.SystemID == systemID {
			staffs = append(staffs, s)
		}
	}
	sortStaffsTopDown(staffs)
	return staffs
}

// SystemOrdinal returns the top-down position of a system on its page,
// or -1 if the page has no such system.
func (l Layout) SystemOrdinal(pageIndex int, systemID string) int {
	for i, s := range l.PageSystems(pageIndex) {
		if s.ID == systemID {
			return i
		}
	}
	return -1
}

// Staff looks up a staff by id
func (l Layout) Staff(id string) (Staff, bool) {
	i := l.staffIndex(id)
	if i < 0 {
		return Staff{}, false
	}
	return l.Staffs[i], true
}

// System looks up a system by id
func (l Layout) System(id string) (System, bool) {
	i := l.systemIndex(id)
	if i < 0 {
		return System{}, false
	}
	return l.Systems[i], true
}

func (l Layout) staffIndex(id string) int {
	return slices.IndexFunc(l.Staffs, func(s Staff) bool { return s.ID == id })
}

func (l Layout) systemIndex(id string) int {
	return slices.IndexFunc(l.Systems, func(s System) bool { return s.ID == id })
}

func sortStaffsTopDown(staffs []Staff) {
	sort.SliceStable(staffs, func(i, j int) bool {
		return staffs[i].Top > staffs[j].Top
	})
}
