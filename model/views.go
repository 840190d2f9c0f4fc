package model

import (
	"slices"
	"sort"
)

// SeparatorKind distinguishes outer separators from those between staves
type SeparatorKind string

const (
	// SeparatorEdge bounds the top or bottom of a group of staves.
	SeparatorEdge SeparatorKind = "edge"
	// SeparatorPart sits between two staves of the same group.
	SeparatorPart SeparatorKind = "part"
)

// Separator is a draggable boundary line derived from the staves of a
// group. An empty StaffAboveID or StaffBelowID marks the open side of an
// edge separator.
type Separator struct {
	Kind         SeparatorKind `json:"kind"`
	CanvasY      float64       `json:"canvasY"`
	StaffAboveID string        `json:"staffAboveId,omitempty"`
	StaffBelowID string        `json:"staffBelowId,omitempty"`
}

// Region is the canvas band covered by one staff
type Region struct {
	StaffID       string  `json:"staffId"`
	TopCanvasY    float64 `json:"topCanvasY"`
	BottomCanvasY float64 `json:"bottomCanvasY"`
	Label         string  `json:"label"`
	SystemID      string  `json:"systemId"`
}

// SystemGroup gathers the separators and regions of one system. Ordinal
// is the top-down position of the system on its page.
type SystemGroup struct {
	Ordinal       int         `json:"ordinal"`
	SystemID      string      `json:"systemId"`
	TopCanvasY    float64     `json:"topCanvasY"`
	BottomCanvasY float64     `json:"bottomCanvasY"`
	Separators    []Separator `json:"separators"`
	Regions       []Region    `json:"regions"`
}

// ComputeSeparators builds the separators and regions of a group of
// staves: an edge above the first staff, a part separator halfway between
// each pair of neighbours and an edge below the last staff. Staves are
// ordered top of page first regardless of input order.
func ComputeSeparators(staffs []Staff, pageHeight, scale float64) ([]Separator, []Region) {
	if len(staffs) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(staffs)
	sortStaffsTopDown(sorted)

	separators := make([]Separator, 0, len(sorted)+1)
	regions := make([]Region, 0, len(sorted))

	first := sorted[0]
	separators = append(separators, Separator{
		Kind:         SeparatorEdge,
		CanvasY:      PDFYToCanvasY(first.Top, pageHeight, scale),
		StaffBelowID: first.ID,
	})

	for i, s := range sorted {
		regions = append(regions, Region{
			StaffID:       s.ID,
			TopCanvasY:    PDFYToCanvasY(s.Top, pageHeight, scale),
			BottomCanvasY: PDFYToCanvasY(s.Bottom, pageHeight, scale),
			Label:         s.Label,
			SystemID:      s.SystemID,
		})
		if i+1 < len(sorted) {
			next := sorted[i+1]
			mid := (s.Bottom + next.Top) / 2
			separators = append(separators, Separator{
				Kind:         SeparatorPart,
				CanvasY:      PDFYToCanvasY(mid, pageHeight, scale),
				StaffAboveID: s.ID,
				StaffBelowID: next.ID,
			})
		}
	}

	last := sorted[len(sorted)-1]
	separators = append(separators, Separator{
		Kind:         SeparatorEdge,
		CanvasY:      PDFYToCanvasY(last.Bottom, pageHeight, scale),
		StaffAboveID: last.ID,
	})

	return separators, regions
}

// ComputeSystemGroups returns one group per system of the page, top of
// page first, including systems without staves. Staves are matched to
// groups by SystemID; staves of unknown systems are left out.
func ComputeSystemGroups(pageStaffs []Staff, pageHeight, scale float64, pageSystems []System) []SystemGroup {
	systems := slices.Clone(pageSystems)
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].Top > systems[j].Top
	})

	groups := make([]SystemGroup, 0, len(systems))
	for i, sys := range systems {
		var members []Staff
		for _, s := range pageStaffs {
			if s.SystemID == sys.ID {
				members = append(members, s)
			}
		}
		separators, regions := ComputeSeparators(members, pageHeight, scale)
		groups = append(groups, SystemGroup{
			Ordinal:       i,
			SystemID:      sys.ID,
			TopCanvasY:    PDFYToCanvasY(sys.Top, pageHeight, scale),
			BottomCanvasY: PDFYToCanvasY(sys.Bottom, pageHeight, scale),
			Separators:    separators,
			Regions:       regions,
		})
	}
	return groups
}

// PageSystemGroups is ComputeSystemGroups over one page of the layout
func (l Layout) PageSystemGroups(pageIndex int, pageHeight, scale float64) []SystemGroup {
	return ComputeSystemGroups(l.PageStaffs(pageIndex), pageHeight, scale, l.PageSystems(pageIndex))
}
