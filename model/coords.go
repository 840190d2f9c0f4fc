package model

// PointsPerInch is the number of PDF units in one inch.
const PointsPerInch = 72.0

// DefaultDPI is the resolution pages are rasterized at for detection.
const DefaultDPI = 150

// Scale returns the canvas pixels per PDF unit at the given resolution.
func Scale(dpi float64) float64 {
	return dpi / PointsPerInch
}

// PDFYToCanvasY converts a bottom-up PDF Y to a top-down canvas Y.
func PDFYToCanvasY(pdfY, pageHeight, scale float64) float64 {
	return (pageHeight - pdfY) * scale
}

// CanvasYToPDFY converts a top-down canvas Y back to a bottom-up PDF Y.
func CanvasYToPDFY(canvasY, pageHeight, scale float64) float64 {
	return pageHeight - canvasY/scale
}

// PixelToPDFY converts a pixel row of a page rasterized at scale to PDF Y.
func PixelToPDFY(px int, pageHeight, scale float64) float64 {
	return CanvasYToPDFY(float64(px), pageHeight, scale)
}
