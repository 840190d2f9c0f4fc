// Package ocr suggests instrument labels for detected staves by reading the
// name printed in the left margin of each staff.
//
// Recognition uses the Tesseract engine via gosseract and is only compiled
// in with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag, New returns ErrOCRNotEnabled. SuggestLabels works with
// any Recognizer either way.
package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"unicode"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/raster"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultMarginFraction is the share of the page width, from the left
// edge, searched for an instrument name.
const DefaultMarginFraction = 0.15

// Recognizer reads text from encoded image data. *Client implements it.
type Recognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// MarginImage returns the left margin of a staff band as PNG data.
// fraction is the share of the page width to keep; values outside (0, 1]
// select DefaultMarginFraction.
func MarginImage(page raster.Page, staff layout.Boundary, fraction float64) ([]byte, error) {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultMarginFraction
	}
	if len(page.RGBA) != page.Width*page.Height*4 {
		return nil, raster.ErrBufferSize
	}

	band := page.Crop(staff.TopPx, staff.BottomPx)
	w := max(1, int(float64(page.Width)*fraction))
	margin := band.SubImage(image.Rect(0, 0, w, band.Rect.Dy()))

	var buf bytes.Buffer
	if err := png.Encode(&buf, margin); err != nil {
		return nil, fmt.Errorf("failed to encode margin: %w", err)
	}
	return buf.Bytes(), nil
}

// SuggestLabels reads a label for every staff of a page. The result is
// indexed like staffs; an empty string means nothing legible was found.
func SuggestLabels(r Recognizer, page raster.Page, staffs []layout.Boundary, fraction float64) ([]string, error) {
	labels := make([]string, len(staffs))
	for i, s := range staffs {
		if s.Height() <= 0 {
			continue
		}
		data, err := MarginImage(page, s, fraction)
		if err != nil {
			return nil, fmt.Errorf("staff %d: %w", i, err)
		}
		text, err := r.RecognizeImage(data)
		if err != nil {
			return nil, fmt.Errorf("staff %d: %w", i, err)
		}
		labels[i] = CleanLabel(text)
	}
	return labels, nil
}

// CleanLabel reduces raw OCR output to a single-line label: the first
// non-blank line, whitespace collapsed, stray staff-line marks stripped
// from both ends.
func CleanLabel(text string) string {
	for _, line := range strings.Split(text, "\n") {
		label := strings.Join(strings.Fields(line), " ")
		label = strings.TrimFunc(label, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ')' && r != '.'
		})
		label = strings.TrimLeft(label, ".")
		if label != "" {
			return label
		}
	}
	return ""
}
