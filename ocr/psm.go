package ocr

// PageSegMode selects how Tesseract segments the margin image. Values
// match Tesseract's own numbering.
type PageSegMode int

const (
	PSM_AUTO         PageSegMode = 3  // Fully automatic
	PSM_SINGLE_BLOCK PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE  PageSegMode = 7  // Single text line (default for labels)
	PSM_SINGLE_WORD  PageSegMode = 8  // Single word
	PSM_SPARSE_TEXT  PageSegMode = 11 // Find as much text as possible
)
