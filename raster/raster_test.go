package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// makeRGBA builds a width x height buffer filled with white and paints the
// given rows black.
func makeRGBA(width, height int, inkRows ...int) []byte {
	buf := make([]byte, width*height*4)
	for i := range buf {
		buf[i] = 255
	}
	for _, y := range inkRows {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 4
			buf[off], buf[off+1], buf[off+2] = 0, 0, 0
		}
	}
	return buf
}

func TestGrayscale_Weights(t *testing.T) {
	rgba := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 0,
		255, 255, 255, 17,
	}
	gray := Grayscale(rgba)

	expected := []byte{76, 150, 29, 255}
	if len(gray) != len(expected) {
		t.Fatalf("expected %d pixels, got %d", len(expected), len(gray))
	}
	for i := range expected {
		if gray[i] != expected[i] {
			t.Errorf("pixel %d: expected %d, got %d", i, expected[i], gray[i])
		}
	}
}

func TestBinarize_StrictlyBelowThreshold(t *testing.T) {
	bin := Binarize([]byte{0, 127, 128, 255}, DefaultThreshold)
	expected := []byte{1, 1, 0, 0}
	for i := range expected {
		if bin[i] != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], bin[i])
		}
	}
}

func TestHorizontalProjection(t *testing.T) {
	binary := []byte{
		1, 0, 1,
		0, 0, 0,
		1, 1, 1,
	}
	profile := HorizontalProjection(binary, 3, 3)

	expected := []int{2, 0, 3}
	for i := range expected {
		if profile[i] != expected[i] {
			t.Errorf("row %d: expected %d, got %d", i, expected[i], profile[i])
		}
	}
}

func TestHorizontalProjection_ShortBuffer(t *testing.T) {
	profile := HorizontalProjection([]byte{1, 1}, 2, 3)
	if len(profile) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(profile))
	}
	if profile[0] != 2 || profile[1] != 0 || profile[2] != 0 {
		t.Errorf("unexpected profile %v", profile)
	}
}

func TestProfile(t *testing.T) {
	rgba := makeRGBA(4, 5, 1, 3)
	profile, err := Profile(rgba, 4, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{0, 4, 0, 4, 0}
	for i := range expected {
		if profile[i] != expected[i] {
			t.Errorf("row %d: expected %d, got %d", i, expected[i], profile[i])
		}
	}
}

func TestProfile_BadBuffer(t *testing.T) {
	_, err := Profile(make([]byte, 10), 4, 5)
	if !errors.Is(err, ErrBufferSize) {
		t.Errorf("expected ErrBufferSize, got %v", err)
	}
}

func TestFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetGray(1, 1, color.Gray{Y: 0})

	page := FromImage(img)
	if page.Width != 3 || page.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", page.Width, page.Height)
	}
	if len(page.RGBA) != 3*2*4 {
		t.Fatalf("expected %d bytes, got %d", 3*2*4, len(page.RGBA))
	}

	profile, err := Profile(page.RGBA, page.Width, page.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile[0] != 0 || profile[1] != 1 {
		t.Errorf("expected [0 1], got %v", profile)
	}
}

func TestFromImage_TransparentIsPaper(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	page := FromImage(img)

	profile, err := Profile(page.RGBA, page.Width, page.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile[0] != 0 {
		t.Errorf("transparent pixels should not count as ink, got %d", profile[0])
	}
}

func TestScale_KeepsAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	scaled := Scale(img, 50)
	if scaled.Bounds().Dx() != 50 || scaled.Bounds().Dy() != 25 {
		t.Errorf("expected 50x25, got %v", scaled.Bounds())
	}
	if Scale(img, 100) != image.Image(img) {
		t.Error("same width should return the input image")
	}
}

func TestPage_Crop(t *testing.T) {
	page := Page{RGBA: makeRGBA(2, 4, 2), Width: 2, Height: 4}
	band := page.Crop(2, 10)
	if band.Bounds().Dy() != 2 {
		t.Fatalf("expected 2 rows after clamping, got %d", band.Bounds().Dy())
	}
	if band.Pix[0] != 0 {
		t.Errorf("expected ink in first cropped row, got %d", band.Pix[0])
	}
}
