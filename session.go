package scorecutter

import (
	"github.com/trfv/score-cutter-sub000/history"
	"github.com/trfv/score-cutter-sub000/model"
)

// Session holds the layout being edited together with its undo history.
// Every edit that changes the layout becomes one undo step; edits that
// change nothing are not recorded.
//
// A Session is not safe for concurrent use. One owner applies edits in
// order.
type Session struct {
	history    history.History[model.Layout]
	ids        model.IDGenerator
	maxHistory int
}

// NewSession starts editing initial. ids generates ids for new systems
// and staves; nil selects random UUIDs.
func NewSession(initial model.Layout, ids model.IDGenerator) *Session {
	if ids == nil {
		ids = model.UUIDGenerator{}
	}
	return &Session{
		history:    history.New(initial),
		ids:        ids,
		maxHistory: history.DefaultMaxSize,
	}
}

// SetMaxHistory bounds the number of undo steps kept. Older steps are
// dropped on the next edit.
func (s *Session) SetMaxHistory(n int) {
	s.maxHistory = n
}

// Layout returns the current layout
func (s *Session) Layout() model.Layout {
	return s.history.Present
}

// History returns a copy of the undo state
func (s *Session) History() history.History[model.Layout] {
	return s.history
}

// Apply runs edit on the current layout and records the result. It
// reports whether the layout changed.
func (s *Session) Apply(edit func(model.Layout) model.Layout) bool {
	next := edit(s.history.Present)
	if next.Equal(s.history.Present) {
		return false
	}
	s.history = s.history.PushMax(next, s.maxHistory)
	return true
}

// Undo reverts the last edit. It reports whether there was one.
func (s *Session) Undo() bool {
	if !s.history.CanUndo() {
		return false
	}
	s.history = s.history.Undo()
	return true
}

// Redo reapplies the last undone edit. It reports whether there was one.
func (s *Session) Redo() bool {
	if !s.history.CanRedo() {
		return false
	}
	s.history = s.history.Redo()
	return true
}

// CanUndo reports whether Undo would change anything
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Validate checks the current staves
func (s *Session) Validate() []model.Diagnostic {
	return model.Validate(s.history.Present.Staffs)
}

// SplitStaff cuts a staff in two at pdfY
func (s *Session) SplitStaff(staffID string, pdfY float64) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.SplitStaffAtPosition(staffID, pdfY, s.ids)
	})
}

// MergeStaffs removes the separator between two adjacent staves
func (s *Session) MergeStaffs(aboveID, belowID string) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.MergeSeparator(aboveID, belowID)
	})
}

// AddStaff inserts a default-height staff centred on pdfY
func (s *Session) AddStaff(pageIndex int, pdfY, pageHeight float64) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.AddStaffAtPosition(pageIndex, pdfY, pageHeight, s.ids)
	})
}

// DeleteStaff removes a staff
func (s *Session) DeleteStaff(staffID string) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.DeleteStaff(staffID)
	})
}

// SetLabel sets the label of one staff
func (s *Session) SetLabel(staffID, label string) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.SetStaffLabel(staffID, label)
	})
}

// ApplyLabelsToAll copies the labels of a template system to every system
func (s *Session) ApplyLabelsToAll(templateSystemID string) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.ApplySystemLabelsToAll(templateSystemID)
	})
}

// DragSeparator moves a staff separator of a system group to canvasY
func (s *Session) DragSeparator(separators []model.Separator, index int, canvasY, pageHeight, scale float64) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.ApplySeparatorDrag(separators, index, canvasY, pageHeight, scale, model.MinSplitHeight)
	})
}

// SplitSystemAtGap splits a system between two of its staves
func (s *Session) SplitSystemAtGap(aboveID, belowID string) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.SplitSystemAtGap(aboveID, belowID, s.ids)
	})
}

// SplitSystemAt splits the system under pdfY
func (s *Session) SplitSystemAt(pageIndex int, pdfY float64) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.SplitSystemAtPosition(pageIndex, pdfY, s.ids)
	})
}

// MergeSystems merges the system at upperOrdinal with the one below it
func (s *Session) MergeSystems(pageIndex, upperOrdinal int) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.MergeAdjacentSystems(pageIndex, upperOrdinal)
	})
}

// DragSystemSeparator moves the boundary below system sepIndex to canvasY
func (s *Session) DragSystemSeparator(pageIndex, sepIndex int, canvasY, pageHeight, scale float64) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.ReassignStaffsByDrag(pageIndex, sepIndex, canvasY, pageHeight, scale)
	})
}

// ReplacePage swaps in freshly detected systems and staves for one page
func (s *Session) ReplacePage(pageIndex int, staffs []model.Staff, systems []model.System) bool {
	return s.Apply(func(l model.Layout) model.Layout {
		return l.ReplacePage(pageIndex, staffs, systems)
	})
}
