package scorecutter

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/trfv/score-cutter-sub000/dispatch"
	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/model"
	"github.com/trfv/score-cutter-sub000/ocr"
)

// Detector provides a fluent interface for detecting score layouts.
// Each configuration method returns a new Detector instance, making it
// safe for concurrent use and allowing method chaining.
type Detector struct {
	source  PageSource
	options DetectOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Detector with a deep copy of options.
func (d *Detector) clone() *Detector {
	return &Detector{
		source:  d.source,
		options: d.options.clone(),
		err:     d.err,
	}
}

// ============================================================================
// Configuration Methods (return new Detector instance)
// ============================================================================

// Pages specifies which pages to detect (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	layout, _, err := scorecutter.Open(src).Pages(1, 3, 5).Detect(ctx)
func (d *Detector) Pages(pages ...int) *Detector {
	newDet := d.clone()
	newDet.options.pages = append(newDet.options.pages, pages...)
	return newDet
}

// PageRange specifies a range of pages to detect (1-indexed, inclusive).
func (d *Detector) PageRange(start, end int) *Detector {
	newDet := d.clone()
	for i := start; i <= end; i++ {
		newDet.options.pages = append(newDet.options.pages, i)
	}
	return newDet
}

// DPI sets the resolution pages are rasterized at (default 150). Default
// gap heights scale with it.
func (d *Detector) DPI(dpi float64) *Detector {
	newDet := d.clone()
	if dpi <= 0 {
		newDet.err = fmt.Errorf("invalid dpi %v", dpi)
		return newDet
	}
	newDet.options.dpi = dpi
	return newDet
}

// SystemGap sets the minimum blank height, in pixel rows, between two
// systems.
func (d *Detector) SystemGap(rows int) *Detector {
	newDet := d.clone()
	newDet.options.systemGap = rows
	return newDet
}

// PartGap sets the minimum blank height, in pixel rows, between two staves
// of a system.
func (d *Detector) PartGap(rows int) *Detector {
	newDet := d.clone()
	newDet.options.partGap = rows
	return newDet
}

// Workers sets the size of the worker pool (default: one per CPU).
func (d *Detector) Workers(n int) *Detector {
	newDet := d.clone()
	newDet.options.workers = n
	return newDet
}

// Synchronous runs detection one page at a time on the calling goroutine
// instead of a worker pool.
func (d *Detector) Synchronous() *Detector {
	newDet := d.clone()
	newDet.options.synchronous = true
	return newDet
}

// IDs sets the generator for system and staff ids (default: random UUIDs).
func (d *Detector) IDs(ids model.IDGenerator) *Detector {
	newDet := d.clone()
	if ids != nil {
		newDet.options.ids = ids
	}
	return newDet
}

// Progress registers a callback run once per detected page.
func (d *Detector) Progress(fn dispatch.ProgressFunc) *Detector {
	newDet := d.clone()
	newDet.options.progress = fn
	return newDet
}

// Labels reads a label for every detected staff from the page margin.
//
// Example:
//
//	client, err := ocr.New("eng")
//	if err != nil {
//	    // OCR not compiled in
//	}
//	defer client.Close()
//	layout, _, err := scorecutter.Open(src).Labels(client).Detect(ctx)
func (d *Detector) Labels(r ocr.Recognizer) *Detector {
	newDet := d.clone()
	newDet.options.labels = r
	return newDet
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Detect rasterizes the selected pages, runs system and staff detection on
// them and returns the resulting layout. Pages that fail to rasterize or
// detect are reported as warnings and left empty; only a bad page selection
// or a cancelled ctx is an error.
func (d *Detector) Detect(ctx context.Context) (model.Layout, []Warning, error) {
	if d.err != nil {
		return model.Layout{}, nil, d.err
	}

	indices, err := d.resolvePages()
	if err != nil {
		return model.Layout{}, nil, err
	}

	log := Logger()
	opts := d.options
	start := time.Now()
	log.Info("detecting layout", "pages", len(indices), "dpi", opts.dpi)

	var warnings []Warning
	rendered := make(map[int]RasterPage, len(indices))
	inputs := make([]dispatch.PageInput, 0, len(indices))

	for _, idx := range indices {
		rp, err := d.source.Rasterize(ctx, idx, opts.dpi)
		if err != nil {
			if ctx.Err() != nil {
				return model.Layout{}, warnings, ctx.Err()
			}
			log.Warn("skipping page", "page", idx+1, "err", err)
			warnings = append(warnings, Warning{Page: idx + 1, Message: err.Error()})
			continue
		}
		rendered[idx] = rp
		inputs = append(inputs, dispatch.PageInput{Index: idx, Page: rp.Page})
	}

	runner, stop := d.runner()
	defer stop()

	results, err := dispatch.DetectPages(ctx, runner, inputs, d.params(), opts.progress)
	if err != nil {
		return model.Layout{}, warnings, err
	}

	scale := model.Scale(opts.dpi)
	var l model.Layout
	for _, res := range results {
		if res.Err != nil {
			log.Warn("skipping page", "page", res.PageIndex+1, "err", res.Err)
			warnings = append(warnings, Warning{Page: res.PageIndex + 1, Message: res.Err.Error()})
			continue
		}

		rp := rendered[res.PageIndex]
		var labels [][]string
		if opts.labels != nil {
			labels, err = suggestLabels(opts.labels, rp, res.StaffsBySystem)
			if err != nil {
				warnings = append(warnings, Warning{Page: res.PageIndex + 1, Message: fmt.Sprintf("label recognition: %v", err)})
			}
		}

		staffs, systems := pageEntities(res, rp.HeightPt, scale, opts.ids, labels)
		l = l.ReplacePage(res.PageIndex, staffs, systems)
	}

	log.Info("layout detected", "systems", len(l.Systems), "staffs", len(l.Staffs), "warnings", len(warnings), "elapsed", time.Since(start))
	return l, warnings, nil
}

// runner returns the dispatch runner for the configured execution mode
// and a function releasing it.
func (d *Detector) runner() (dispatch.Runner, func()) {
	if d.options.synchronous {
		return &dispatch.Sync{}, func() {}
	}
	opts := []dispatch.Option{dispatch.WithLogger(Logger())}
	if d.options.workers > 0 {
		opts = append(opts, dispatch.WithSize(d.options.workers))
	}
	pool := dispatch.NewPool(opts...)
	return pool, pool.Terminate
}

// GapHeights returns the system and part gap heights, in pixel rows,
// detection will run with. Gaps left unset get the detector defaults
// scaled to the configured DPI.
func (d *Detector) GapHeights() (system, part int) {
	p := d.params()
	return p.SystemGapHeight, p.PartGapHeight
}

// params returns the gap thresholds, scaling the detector defaults to the
// configured resolution.
func (d *Detector) params() dispatch.Params {
	ratio := d.options.dpi / model.DefaultDPI
	p := dispatch.Params{
		SystemGapHeight: d.options.systemGap,
		PartGapHeight:   d.options.partGap,
	}
	if p.SystemGapHeight <= 0 {
		p.SystemGapHeight = int(math.Round(float64(layout.DefaultSystemConfig().MinGapHeight) * ratio))
	}
	if p.PartGapHeight <= 0 {
		p.PartGapHeight = int(math.Round(float64(layout.DefaultStaffConfig().MinPartGapHeight) * ratio))
	}
	return p
}

// resolvePages converts the 1-indexed page selection into sorted 0-indexed
// pages.
func (d *Detector) resolvePages() ([]int, error) {
	pageCount := d.source.PageCount()

	// If no pages specified, use all pages
	if len(d.options.pages) == 0 {
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	// Convert 1-indexed to 0-indexed and validate
	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range d.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	sort.Ints(pageIndices)
	return pageIndices, nil
}

// pageEntities converts detected pixel bands into systems and staves in
// page coordinates. labels, when present, is indexed like
// res.StaffsBySystem.
func pageEntities(res dispatch.PageResult, heightPt, scale float64, ids model.IDGenerator, labels [][]string) ([]model.Staff, []model.System) {
	var staffs []model.Staff
	systems := make([]model.System, 0, len(res.Systems))

	for i, sb := range res.Systems {
		system := model.System{
			ID:        ids.NewID(),
			PageIndex: res.PageIndex,
			Top:       model.PixelToPDFY(sb.TopPx, heightPt, scale),
			Bottom:    model.PixelToPDFY(sb.BottomPx, heightPt, scale),
		}
		systems = append(systems, system)

		if i >= len(res.StaffsBySystem) {
			continue
		}
		for j, b := range res.StaffsBySystem[i] {
			staff := model.Staff{
				ID:        ids.NewID(),
				PageIndex: res.PageIndex,
				Top:       model.PixelToPDFY(b.TopPx, heightPt, scale),
				Bottom:    model.PixelToPDFY(b.BottomPx, heightPt, scale),
				SystemID:  system.ID,
			}
			if i < len(labels) && j < len(labels[i]) {
				staff.Label = labels[i][j]
			}
			staffs = append(staffs, staff)
		}
	}

	return staffs, systems
}

// suggestLabels reads staff labels system by system
func suggestLabels(r ocr.Recognizer, page RasterPage, staffsBySystem [][]layout.Boundary) ([][]string, error) {
	labels := make([][]string, len(staffsBySystem))
	for i, staffs := range staffsBySystem {
		found, err := ocr.SuggestLabels(r, page.Page, staffs, 0)
		if err != nil {
			return labels, fmt.Errorf("system %d: %w", i+1, err)
		}
		labels[i] = found
	}
	return labels, nil
}
