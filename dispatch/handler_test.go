package dispatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/raster"
)

// pageRGBA builds a white width x height page with black rows in each
// [from, to) band.
func pageRGBA(width, height int, bands ...[2]int) []byte {
	buf := make([]byte, width*height*4)
	for i := range buf {
		buf[i] = 255
	}
	for _, b := range bands {
		for y := b[0]; y < b[1]; y++ {
			for x := 0; x < width; x++ {
				off := (y*width + x) * 4
				buf[off], buf[off+1], buf[off+2] = 0, 0, 0
			}
		}
	}
	return buf
}

// twoSystemPage has ink in rows 20-59 and 180-219 of a 300 row page
func twoSystemPage() raster.Page {
	return raster.Page{
		RGBA:   pageRGBA(4, 300, [2]int{20, 60}, [2]int{180, 220}),
		Width:  4,
		Height: 300,
	}
}

func TestHandle_DetectSystems(t *testing.T) {
	page := twoSystemPage()
	resp := Handle(Request{
		Type:      DetectSystems,
		TaskID:    "t1",
		PageIndex: 3,
		RGBA:      page.RGBA,
		Width:     page.Width,
		Height:    page.Height,
	})

	if resp.Type != SystemsDetected {
		t.Fatalf("expected %s, got %s (%s)", SystemsDetected, resp.Type, resp.Message)
	}
	if resp.TaskID != "t1" || resp.PageIndex != 3 {
		t.Errorf("expected echoed task t1 page 3, got %s page %d", resp.TaskID, resp.PageIndex)
	}
	want := []layout.Boundary{{TopPx: 0, BottomPx: 120}, {TopPx: 120, BottomPx: 300}}
	if len(resp.Systems) != len(want) {
		t.Fatalf("expected %d systems, got %+v", len(want), resp.Systems)
	}
	for i := range want {
		if resp.Systems[i] != want[i] {
			t.Errorf("system %d: expected %+v, got %+v", i, want[i], resp.Systems[i])
		}
	}
}

func TestHandle_DetectStaffs(t *testing.T) {
	page := twoSystemPage()
	resp := Handle(Request{
		Type:             DetectStaffs,
		TaskID:           "t2",
		RGBA:             page.RGBA,
		Width:            page.Width,
		Height:           page.Height,
		SystemBoundaries: []layout.Boundary{{TopPx: 0, BottomPx: 120}, {TopPx: 120, BottomPx: 300}},
	})

	if resp.Type != StaffsDetected {
		t.Fatalf("expected %s, got %s (%s)", StaffsDetected, resp.Type, resp.Message)
	}
	if len(resp.StaffsBySystem) != 2 {
		t.Fatalf("expected staffs for 2 systems, got %d", len(resp.StaffsBySystem))
	}
	if got := resp.StaffsBySystem[0]; len(got) != 1 || got[0] != (layout.Boundary{TopPx: 10, BottomPx: 90}) {
		t.Errorf("unexpected staves in first system: %+v", got)
	}
	if got := resp.StaffsBySystem[1]; len(got) != 1 || got[0] != (layout.Boundary{TopPx: 150, BottomPx: 260}) {
		t.Errorf("unexpected staves in second system: %+v", got)
	}
}

func TestHandle_BadBufferIsError(t *testing.T) {
	resp := Handle(Request{Type: DetectSystems, TaskID: "t3", PageIndex: 1, RGBA: make([]byte, 7), Width: 2, Height: 2})

	if resp.Type != ResponseError {
		t.Fatalf("expected ERROR, got %s", resp.Type)
	}
	if resp.TaskID != "t3" || resp.Message == "" {
		t.Errorf("expected task id and message, got %+v", resp)
	}

	var taskErr *TaskError
	if err := responseErr(resp); !errors.As(err, &taskErr) || taskErr.PageIndex != 1 {
		t.Errorf("expected TaskError for page 1, got %v", err)
	}
}

func TestHandle_UnknownType(t *testing.T) {
	page := twoSystemPage()
	resp := Handle(Request{Type: "DETECT_NOTES", RGBA: page.RGBA, Width: page.Width, Height: page.Height})

	if resp.Type != ResponseError || !strings.Contains(resp.Message, "DETECT_NOTES") {
		t.Errorf("expected ERROR naming the type, got %+v", resp)
	}
}

func TestSafely_RecoversPanic(t *testing.T) {
	resp := safely(func(Request) Response { panic("boom") }, Request{TaskID: "t4"})

	if resp.Type != ResponseError || resp.TaskID != "t4" || !strings.Contains(resp.Message, "boom") {
		t.Errorf("expected ERROR carrying the panic, got %+v", resp)
	}
}
