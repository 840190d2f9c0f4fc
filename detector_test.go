package scorecutter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/model"
)

// scorePage draws a white 40x300 page with black bands in rows 20-59
// and 180-219: two systems of one staff each at 150 DPI.
func scorePage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 40, 300))
	for y := 0; y < 300; y++ {
		ink := (y >= 20 && y < 60) || (y >= 180 && y < 220)
		for x := 0; x < 40; x++ {
			if ink {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// failingSource fails to rasterize the listed pages
type failingSource struct {
	ImageSource
	fail map[int]bool
}

func (s *failingSource) Rasterize(ctx context.Context, index int, dpi float64) (RasterPage, error) {
	if s.fail[index] {
		return RasterPage{}, errors.New("corrupt scan")
	}
	return s.ImageSource.Rasterize(ctx, index, dpi)
}

type constRecognizer string

func (c constRecognizer) RecognizeImage([]byte) (string, error) {
	return string(c), nil
}

func TestDetect_Synchronous(t *testing.T) {
	src := &ImageSource{Images: []image.Image{scorePage(), scorePage()}}

	l, warnings, err := Open(src).Synchronous().IDs(model.NewSequenceGenerator("id")).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(l.Systems) != 4 || len(l.Staffs) != 4 {
		t.Fatalf("expected 4 systems and 4 staves, got %d and %d", len(l.Systems), len(l.Staffs))
	}

	// 300 rows at 150 DPI is 144pt; one row is 0.48pt
	sys := l.PageSystems(0)
	if !approx(sys[0].Top, 144) || !approx(sys[0].Bottom, 86.4) || !approx(sys[1].Bottom, 0) {
		t.Errorf("unexpected systems %+v", sys)
	}
	staffs := l.PageStaffs(0)
	if !approx(staffs[0].Top, 139.2) || !approx(staffs[0].Bottom, 100.8) {
		t.Errorf("unexpected first staff %+v", staffs[0])
	}
	if !approx(staffs[1].Top, 72) || !approx(staffs[1].Bottom, 19.2) {
		t.Errorf("unexpected second staff %+v", staffs[1])
	}
	if staffs[0].SystemID != sys[0].ID || staffs[1].SystemID != sys[1].ID {
		t.Error("staves should belong to the system they were detected in")
	}
	if l.Systems[0].ID != "id1" || l.Staffs[0].ID != "id2" {
		t.Errorf("expected ids in detection order, got %s and %s", l.Systems[0].ID, l.Staffs[0].ID)
	}

	for _, d := range model.Validate(l.Staffs) {
		if d.Code == "staff-count" && d.Severity != model.SeveritySuccess {
			t.Errorf("staff count should be consistent: %s", d.Message)
		}
	}
}

func TestDetect_PoolMatchesSynchronous(t *testing.T) {
	src := &ImageSource{Images: []image.Image{scorePage(), scorePage(), scorePage()}}

	syncLayout, _, err := Open(src).Synchronous().IDs(model.NewSequenceGenerator("id")).Detect(context.Background())
	if err != nil {
		t.Fatalf("sync Detect failed: %v", err)
	}
	poolLayout, _, err := Open(src).Workers(2).IDs(model.NewSequenceGenerator("id")).Detect(context.Background())
	if err != nil {
		t.Fatalf("pool Detect failed: %v", err)
	}
	if !poolLayout.Equal(syncLayout) {
		t.Error("pool and synchronous detection should produce the same layout")
	}
}

func TestDetect_PageFailuresAreWarnings(t *testing.T) {
	src := &failingSource{
		ImageSource: ImageSource{Images: []image.Image{scorePage(), scorePage(), scorePage()}},
		fail:        map[int]bool{1: true},
	}

	l, warnings, err := Open(src).Synchronous().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Page != 2 || !strings.Contains(warnings[0].Message, "corrupt scan") {
		t.Fatalf("expected one warning for page 2, got %v", warnings)
	}
	if len(l.PageSystems(1)) != 0 {
		t.Error("failed page should have no systems")
	}
	if len(l.PageSystems(0)) != 2 || len(l.PageSystems(2)) != 2 {
		t.Error("other pages should still be detected")
	}
}

func TestDetect_PageSelection(t *testing.T) {
	src := &ImageSource{Images: []image.Image{scorePage(), scorePage(), scorePage()}}

	l, _, err := Open(src).Synchronous().Pages(3, 2, 3).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if l.PageCount() != 3 || len(l.PageSystems(0)) != 0 || len(l.PageSystems(1)) != 2 {
		t.Errorf("expected pages 2 and 3 only, got %d systems", len(l.Systems))
	}

	if _, _, err := Open(src).Pages(4).Detect(context.Background()); err == nil {
		t.Error("expected error for page out of range")
	}
}

func TestDetect_Errors(t *testing.T) {
	if _, _, err := Open(nil).Detect(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}

	src := &ImageSource{Images: []image.Image{scorePage()}}
	if _, _, err := Open(src).DPI(0).Detect(context.Background()); err == nil {
		t.Error("expected error for zero dpi")
	}

	if _, _, err := OpenDir(t.TempDir()).Detect(context.Background()); !errors.Is(err, ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Open(src).Detect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDetect_ProgressAndLabels(t *testing.T) {
	src := &ImageSource{Images: []image.Image{scorePage(), scorePage()}}
	var calls atomic.Int32

	l, warnings, err := Open(src).
		Workers(2).
		Progress(func(done, total int) { calls.Add(1) }).
		Labels(constRecognizer("| Violin I\n")).
		Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls.Load())
	}
	for _, s := range l.Staffs {
		if s.Label != "Violin I" {
			t.Errorf("staff %s: expected label Violin I, got %q", s.ID, s.Label)
		}
	}
	if parts := model.Parts(l.Staffs); len(parts) != 1 || len(parts[0].Staffs) != 4 {
		t.Errorf("expected a single part of 4 staves, got %+v", parts)
	}
}

func TestDetector_ChainingDoesNotShareState(t *testing.T) {
	base := Open(&ImageSource{})
	a := base.Pages(1)
	b := base.Pages(2)

	if len(base.options.pages) != 0 {
		t.Error("chaining modified the base detector")
	}
	if a.options.pages[0] != 1 || b.options.pages[0] != 2 {
		t.Errorf("unexpected pages %v and %v", a.options.pages, b.options.pages)
	}
}

func TestDetector_ParamsScaleWithDPI(t *testing.T) {
	p := Open(&ImageSource{}).DPI(300).params()
	if p.SystemGapHeight != 2*layout.DefaultSystemConfig().MinGapHeight {
		t.Errorf("expected doubled system gap, got %d", p.SystemGapHeight)
	}
	if p.PartGapHeight != 2*layout.DefaultStaffConfig().MinPartGapHeight {
		t.Errorf("expected doubled part gap, got %d", p.PartGapHeight)
	}

	p = Open(&ImageSource{}).DPI(300).SystemGap(20).params()
	if p.SystemGapHeight != 20 {
		t.Errorf("explicit gap should not scale, got %d", p.SystemGapHeight)
	}
}

func TestDetector_GapHeights(t *testing.T) {
	system, part := Open(&ImageSource{}).GapHeights()
	if system != 50 || part != 15 {
		t.Errorf("expected 50/15 at 150 dpi, got %d/%d", system, part)
	}

	system, part = Open(&ImageSource{}).DPI(75).PartGap(9).GapHeights()
	if system != 25 || part != 9 {
		t.Errorf("expected 25/9, got %d/%d", system, part)
	}
}
