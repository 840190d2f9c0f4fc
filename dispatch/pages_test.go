package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/raster"
)

func testPages() []PageInput {
	blank := raster.Page{RGBA: pageRGBA(4, 100), Width: 4, Height: 100}
	return []PageInput{
		{Index: 0, Page: twoSystemPage()},
		{Index: 1, Page: blank},
		{Index: 2, Page: raster.Page{RGBA: []byte{0}, Width: 4, Height: 100}},
		{Index: 3, Page: twoSystemPage()},
	}
}

func checkResults(t *testing.T, results []PageResult) {
	t.Helper()

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.PageIndex != i {
			t.Errorf("result %d belongs to page %d", i, r.PageIndex)
		}
	}

	for _, i := range []int{0, 3} {
		r := results[i]
		if r.Err != nil {
			t.Errorf("page %d: unexpected error %v", i, r.Err)
			continue
		}
		if len(r.Systems) != 2 || len(r.StaffsBySystem) != 2 {
			t.Errorf("page %d: expected 2 systems with staves, got %+v", i, r)
			continue
		}
		if r.StaffsBySystem[1][0] != (layout.Boundary{TopPx: 150, BottomPx: 260}) {
			t.Errorf("page %d: unexpected staff %+v", i, r.StaffsBySystem[1][0])
		}
	}

	if r := results[1]; r.Err != nil || len(r.Systems) != 0 || r.StaffsBySystem != nil {
		t.Errorf("blank page should have no systems, got %+v", r)
	}

	var taskErr *TaskError
	if r := results[2]; !errors.As(r.Err, &taskErr) || taskErr.PageIndex != 2 {
		t.Errorf("malformed page should carry a TaskError, got %v", r.Err)
	}
}

func TestDetectPages_Pool(t *testing.T) {
	// later pages finish first
	p := NewPool(WithSize(4), WithHandler(func(req Request) Response {
		time.Sleep(time.Duration(4-req.PageIndex) * 5 * time.Millisecond)
		return Handle(req)
	}))
	defer p.Terminate()

	results, err := DetectPages(context.Background(), p, testPages(), Params{}, nil)
	if err != nil {
		t.Fatalf("DetectPages failed: %v", err)
	}
	checkResults(t, results)
}

func TestDetectPages_SyncReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var calls [][2]int
	progress := func(done, total int) {
		mu.Lock()
		calls = append(calls, [2]int{done, total})
		mu.Unlock()
	}

	results, err := DetectPages(context.Background(), &Sync{}, testPages(), Params{}, progress)
	if err != nil {
		t.Fatalf("DetectPages failed: %v", err)
	}
	checkResults(t, results)

	if len(calls) != 4 {
		t.Fatalf("expected 4 progress calls, got %v", calls)
	}
	for i, c := range calls {
		if c != [2]int{i + 1, 4} {
			t.Errorf("progress call %d: expected %d/4, got %d/%d", i, i+1, c[0], c[1])
		}
	}
}

func TestDetectPages_PassesGapHeights(t *testing.T) {
	var mu sync.Mutex
	seen := map[RequestType]Request{}
	s := &Sync{Handler: func(req Request) Response {
		mu.Lock()
		seen[req.Type] = req
		mu.Unlock()
		return Handle(req)
	}}

	pages := []PageInput{{Index: 0, Page: twoSystemPage()}}
	if _, err := DetectPages(context.Background(), s, pages, Params{SystemGapHeight: 40, PartGapHeight: 12}, nil); err != nil {
		t.Fatalf("DetectPages failed: %v", err)
	}

	if seen[DetectSystems].SystemGapHeight != 40 {
		t.Errorf("expected system gap 40, got %d", seen[DetectSystems].SystemGapHeight)
	}
	staffs := seen[DetectStaffs]
	if staffs.PartGapHeight != 12 || len(staffs.SystemBoundaries) != 2 {
		t.Errorf("expected part gap 12 and 2 systems, got %d and %+v", staffs.PartGapHeight, staffs.SystemBoundaries)
	}
}

func TestDetectPages_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DetectPages(ctx, &Sync{}, testPages(), Params{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSync_Run(t *testing.T) {
	s := &Sync{}
	page := twoSystemPage()

	resp, err := s.Run(context.Background(), Request{Type: DetectSystems, PageIndex: 7, RGBA: page.RGBA, Width: page.Width, Height: page.Height})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if resp.TaskID != "sync-1" || resp.PageIndex != 7 {
		t.Errorf("unexpected reply %s page %d", resp.TaskID, resp.PageIndex)
	}
	if s.Size() != 1 {
		t.Errorf("expected size 1, got %d", s.Size())
	}
}
