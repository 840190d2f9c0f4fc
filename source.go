package scorecutter

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"github.com/trfv/score-cutter-sub000/model"
	"github.com/trfv/score-cutter-sub000/raster"
)

// ErrNoPages is returned when a source holds no page images
var ErrNoPages = errors.New("no page images found")

// RasterPage is one page rendered for detection
type RasterPage struct {
	raster.Page

	// HeightPt is the page height in PDF points, used to map pixel rows
	// to page coordinates.
	HeightPt float64
}

// PageSource renders pages for detection. Page indexes are 0-based.
type PageSource interface {
	PageCount() int
	Rasterize(ctx context.Context, index int, dpi float64) (RasterPage, error)
}

// imageExts are the file types DirSource picks up
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// DirSource serves a directory of page images, one image per page, in
// file name order. Number pages with zero padding (page-01.png) so that
// name order is page order.
type DirSource struct {
	paths []string

	// ScanDPI is the resolution the images were scanned at. It fixes the
	// page size in points. Default: 150.
	ScanDPI float64
}

// NewDirSource lists the page images in dir
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPages)
	}
	sort.Strings(paths)

	return &DirSource{paths: paths, ScanDPI: model.DefaultDPI}, nil
}

// PageCount returns the number of page images
func (s *DirSource) PageCount() int {
	return len(s.paths)
}

// Rasterize decodes page index and resamples it to dpi
func (s *DirSource) Rasterize(ctx context.Context, index int, dpi float64) (RasterPage, error) {
	if err := ctx.Err(); err != nil {
		return RasterPage{}, err
	}
	if index < 0 || index >= len(s.paths) {
		return RasterPage{}, fmt.Errorf("page %d out of range (1-%d)", index+1, len(s.paths))
	}

	f, err := os.Open(s.paths[index])
	if err != nil {
		return RasterPage{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return RasterPage{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(s.paths[index]), err)
	}

	return rasterizeImage(img, s.ScanDPI, dpi), nil
}

// ImageSource serves already decoded page images
type ImageSource struct {
	Images []image.Image

	// ScanDPI is the resolution the images were made at. Default: 150.
	ScanDPI float64
}

// PageCount returns the number of images
func (s *ImageSource) PageCount() int {
	return len(s.Images)
}

// Rasterize resamples image index to dpi
func (s *ImageSource) Rasterize(ctx context.Context, index int, dpi float64) (RasterPage, error) {
	if err := ctx.Err(); err != nil {
		return RasterPage{}, err
	}
	if index < 0 || index >= len(s.Images) {
		return RasterPage{}, fmt.Errorf("page %d out of range (1-%d)", index+1, len(s.Images))
	}
	return rasterizeImage(s.Images[index], s.ScanDPI, dpi), nil
}

// rasterizeImage converts a scan made at scanDPI into a detection page at
// dpi. The page height in points follows from the scan resolution.
func rasterizeImage(img image.Image, scanDPI, dpi float64) RasterPage {
	if scanDPI <= 0 {
		scanDPI = model.DefaultDPI
	}
	if dpi <= 0 {
		dpi = scanDPI
	}

	heightPt := float64(img.Bounds().Dy()) * model.PointsPerInch / scanDPI
	if dpi != scanDPI {
		width := int(float64(img.Bounds().Dx())*dpi/scanDPI + 0.5)
		img = raster.Scale(img, width)
	}

	return RasterPage{Page: raster.FromImage(img), HeightPt: heightPt}
}
