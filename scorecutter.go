// Package scorecutter detects the systems and staves of a multi-page score
// and keeps an editable, undoable layout of them, ready to be cut into
// per-instrument parts.
//
// Basic usage:
//
//	layout, warnings, err := scorecutter.OpenDir("scans/").Detect(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scorecutter.FormatWarnings(warnings))
//	}
//
// With options:
//
//	layout, _, err := scorecutter.Open(source).
//	    Pages(1, 2, 3).
//	    DPI(200).
//	    Workers(4).
//	    Detect(ctx)
//
// Edits go through a Session so that every change can be undone:
//
//	s := scorecutter.NewSession(layout, nil)
//	s.SplitStaff(staffID, pdfY)
//	s.Undo()
//
// The lower-level packages (raster, layout, dispatch, model, history) can
// be used on their own.
package scorecutter

import (
	"errors"

	"github.com/trfv/score-cutter-sub000/model"
)

// ErrNoSource is returned by Detect when the Detector has no page source
var ErrNoSource = errors.New("no page source specified")

// Open returns a Detector reading pages from src.
//
// Example:
//
//	layout, warnings, err := scorecutter.Open(src).Detect(ctx)
func Open(src PageSource) *Detector {
	d := &Detector{
		source:  src,
		options: defaultOptions(),
	}
	if src == nil {
		d.err = ErrNoSource
	}
	return d
}

// OpenDir returns a Detector reading page images from dir. Errors listing
// the directory are reported by the terminal operation.
//
// Example:
//
//	layout, warnings, err := scorecutter.OpenDir("scans/").Detect(ctx)
func OpenDir(dir string) *Detector {
	src, err := NewDirSource(dir)
	if err != nil {
		return &Detector{options: defaultOptions(), err: err}
	}
	return Open(src)
}

// MustLayout is a helper that wraps a call to Detect and panics if the
// error is non-nil. It discards warnings. It is intended for use in
// scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	layout := scorecutter.MustLayout(scorecutter.OpenDir("scans/").Detect(ctx))
func MustLayout(l model.Layout, _ []Warning, err error) model.Layout {
	if err != nil {
		panic(err)
	}
	return l
}
