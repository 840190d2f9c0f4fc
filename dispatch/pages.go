package dispatch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/raster"
)

// PageInput is one rasterized page to run detection on
type PageInput struct {
	Index int
	raster.Page
}

// Params are the gap thresholds for a detection batch. Zero selects the
// detector default.
type Params struct {
	SystemGapHeight int
	PartGapHeight   int
}

// PageResult is the detection outcome of one page. Err is set when either
// phase failed; the batch itself carries on.
type PageResult struct {
	PageIndex      int
	Systems        []layout.Boundary
	StaffsBySystem [][]layout.Boundary
	Err            error
}

// ProgressFunc is called once per finished page with the number of pages
// done so far and the batch size.
type ProgressFunc func(done, total int)

// DetectPages runs system detection and then staff detection for every
// page, at most runner.Size() pages at a time. The result at position i
// belongs to pages[i] regardless of completion order. Per-page failures
// are reported in PageResult.Err; the returned error is only set when ctx
// ends the batch early.
func DetectPages(ctx context.Context, runner Runner, pages []PageInput, params Params, progress ProgressFunc) ([]PageResult, error) {
	results := make([]PageResult, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runner.Size(), 1))

	var mu sync.Mutex
	done := 0

	for i, page := range pages {
		g.Go(func() error {
			results[i] = detectPage(gctx, runner, page, params)
			if err := gctx.Err(); err != nil {
				return err
			}
			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(pages))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func detectPage(ctx context.Context, runner Runner, page PageInput, params Params) PageResult {
	res := PageResult{PageIndex: page.Index}

	resp, err := runner.Run(ctx, Request{
		Type:            DetectSystems,
		PageIndex:       page.Index,
		RGBA:            page.RGBA,
		Width:           page.Width,
		Height:          page.Height,
		SystemGapHeight: params.SystemGapHeight,
	})
	if err != nil {
		res.Err = fmt.Errorf("detecting systems: %w", err)
		return res
	}
	res.Systems = resp.Systems
	if len(res.Systems) == 0 {
		return res
	}

	resp, err = runner.Run(ctx, Request{
		Type:             DetectStaffs,
		PageIndex:        page.Index,
		RGBA:             page.RGBA,
		Width:            page.Width,
		Height:           page.Height,
		SystemBoundaries: res.Systems,
		PartGapHeight:    params.PartGapHeight,
	})
	if err != nil {
		res.Err = fmt.Errorf("detecting staffs: %w", err)
		return res
	}
	res.StaffsBySystem = resp.StaffsBySystem

	return res
}
