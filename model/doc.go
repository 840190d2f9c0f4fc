// Package model holds the editable layout of a score: the systems and
// staves detected on each page, the views derived from them, and the
// operations that edit them.
//
// # Coordinates
//
// Entities are stored in PDF units with the origin at the bottom of the
// page and Y growing upward, so a Staff's Top is always greater than its
// Bottom. Canvas coordinates are pixels from the top of the rendered page:
//
//	scale := model.Scale(150)
//	canvasY := model.PDFYToCanvasY(staff.Top, pageHeight, scale)
//
// # Editing
//
// A [Layout] is an immutable snapshot. Every edit returns a new Layout and
// leaves the receiver untouched; an edit that does not apply (unknown id,
// out-of-range index, operands in different systems) returns the receiver
// unchanged instead of an error:
//
//	next := current.SplitStaffAtPosition(staffID, 412, ids)
//	next = next.MergeSeparator(upperID, lowerID)
//
// # Derived Views
//
// [Separator], [Region] and [SystemGroup] are computed on demand from the
// staves and systems of a page by [ComputeSeparators] and
// [ComputeSystemGroups]. They are never stored.
//
// # Validation
//
// The Validate functions report diagnostics with a [Severity] of
// success or warning. They never block edits.
package model
