package scorecutter

import (
	"github.com/trfv/score-cutter-sub000/dispatch"
	"github.com/trfv/score-cutter-sub000/model"
	"github.com/trfv/score-cutter-sub000/ocr"
)

// DetectOptions holds configuration for layout detection.
type DetectOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Rendering
	dpi float64

	// Gap thresholds in pixel rows at dpi (0 = detector default)
	systemGap int
	partGap   int

	// Execution
	workers     int // 0 means one per CPU
	synchronous bool
	ids         model.IDGenerator
	progress    dispatch.ProgressFunc

	// Optional label recognition
	labels ocr.Recognizer
}

// defaultOptions returns the default detection options.
func defaultOptions() DetectOptions {
	return DetectOptions{
		pages:       nil, // nil means all pages
		dpi:         model.DefaultDPI,
		systemGap:   0,
		partGap:     0,
		workers:     0,
		synchronous: false,
		ids:         model.UUIDGenerator{},
	}
}

// clone creates a deep copy of DetectOptions.
func (o DetectOptions) clone() DetectOptions {
	newOpts := o
	newOpts.pages = nil

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
