//go:build ocr

package ocr

import (
	"testing"

	"github.com/trfv/score-cutter-sub000/layout"
)

// newClient skips the test when Tesseract or its language data is missing
func newClient(t *testing.T, lang string) *Client {
	t.Helper()
	client, err := New(lang)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNew_DefaultLanguage(t *testing.T) {
	client := newClient(t, "")
	if client.Language() != DefaultLanguage {
		t.Errorf("expected %q, got %q", DefaultLanguage, client.Language())
	}
}

func TestRecognizeMargin(t *testing.T) {
	client := newClient(t, "eng")

	// a blank margin has no label; only the round trip is checked
	labels, err := SuggestLabels(client, whitePage(200, 60), []layout.Boundary{{TopPx: 0, BottomPx: 60}}, 0)
	if err != nil {
		t.Errorf("SuggestLabels failed: %v", err)
	}
	if len(labels) != 1 {
		t.Errorf("expected 1 label, got %d", len(labels))
	}
}

func TestSetPageSegMode(t *testing.T) {
	client := newClient(t, "eng")
	if err := client.SetPageSegMode(PSM_SINGLE_BLOCK); err != nil {
		t.Errorf("SetPageSegMode failed: %v", err)
	}
}

func TestClose_Twice(t *testing.T) {
	client, err := New("eng")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
