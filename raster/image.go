package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Page is a rasterized page as packed, non-premultiplied RGBA rows.
type Page struct {
	RGBA   []byte
	Width  int
	Height int
}

// FromImage converts any decoded image into a packed RGBA page.
// Images that are already tightly packed *image.RGBA are copied without
// going through the compositor.
func FromImage(img image.Image) Page {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if src, ok := img.(*image.RGBA); ok && src.Stride == w*4 && src.Rect.Min == (image.Point{}) {
		pix := make([]byte, len(src.Pix))
		copy(pix, src.Pix)
		return Page{RGBA: pix, Width: w, Height: h}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// Transparent areas of scanned pages are paper, not ink.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return Page{RGBA: dst.Pix, Width: w, Height: h}
}

// Scale resamples img so that it is width pixels wide, keeping the aspect
// ratio. It is used when a source image was scanned at a different
// resolution than the detection DPI.
func Scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dx() == width {
		return img
	}
	height := b.Dy() * width / b.Dx()
	if height <= 0 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Crop returns the band of rows [topPx, bottomPx) of a page as an image.
// Out-of-range rows are clamped.
func (p Page) Crop(topPx, bottomPx int) *image.RGBA {
	topPx = max(0, min(topPx, p.Height))
	bottomPx = max(topPx, min(bottomPx, p.Height))
	out := image.NewRGBA(image.Rect(0, 0, p.Width, bottomPx-topPx))
	copy(out.Pix, p.RGBA[topPx*p.Width*4:bottomPx*p.Width*4])
	return out
}
