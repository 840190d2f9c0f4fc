//go:build ocr

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language New falls back to.
const DefaultLanguage = "eng"

// Client reads staff labels with Tesseract. Margin crops hold a single
// line of text, so New selects PSM_SINGLE_LINE. A Client is not safe for
// concurrent use.
type Client struct {
	client *gosseract.Client
	lang   string
}

// New starts a Tesseract client for the given language(s), joined with
// "+" as in "eng+deu". An empty lang selects DefaultLanguage. Close the
// client when done.
func New(lang string) (*Client, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	c := &Client{client: gosseract.NewClient(), lang: lang}
	if err := c.client.SetLanguage(lang); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("ocr language %q: %w", lang, err)
	}
	if err := c.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("ocr page segmentation: %w", err)
	}
	return c, nil
}

// Language returns the language(s) the client reads
func (c *Client) Language() string {
	return c.lang
}

// Close releases the Tesseract handle. Safe on a nil or closed client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// RecognizeImage reads the text of one encoded margin crop. The raw
// engine output is returned; SuggestLabels cleans it with CleanLabel.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("load margin image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("read margin text: %w", err)
	}
	return text, nil
}

// SetPageSegMode replaces the single-line mode, e.g. with
// PSM_SINGLE_BLOCK for names printed over two lines.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
