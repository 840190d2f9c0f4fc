//go:build !ocr

package ocr

// DefaultLanguage is the Tesseract language New falls back to.
const DefaultLanguage = "eng"

// Client stands in for the Tesseract client when the ocr build tag is
// not set. Every call reports ErrOCRNotEnabled.
type Client struct{}

// New always fails with ErrOCRNotEnabled. Rebuild with -tags ocr.
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Language returns DefaultLanguage
func (c *Client) Language() string {
	return DefaultLanguage
}

// Close does nothing
func (c *Client) Close() error {
	return nil
}

func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
