package model

import "testing"

func TestPartKey(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Violin I", "violin  i"},
		{"VIOLIN I", " Violin I "},
		{"Fl\u00f6te", "Flo\u0308te"},
	}
	for _, tt := range tests {
		if PartKey(tt.a) != PartKey(tt.b) {
			t.Errorf("expected %q and %q to share a key, got %q and %q", tt.a, tt.b, PartKey(tt.a), PartKey(tt.b))
		}
	}
	if PartKey("Violin I") == PartKey("Violin II") {
		t.Error("different instruments should not share a key")
	}
}

func TestParts_GroupsInReadingOrder(t *testing.T) {
	staffs := []Staff{
		{ID: "p1-ob", PageIndex: 1, Top: 500, Bottom: 400, Label: "oboe"},
		{ID: "p0-ob", PageIndex: 0, Top: 500, Bottom: 400, Label: "Oboe"},
		{ID: "p0-fl", PageIndex: 0, Top: 700, Bottom: 600, Label: "Flute "},
		{ID: "p0-x", PageIndex: 0, Top: 300, Bottom: 200},
		{ID: "p1-fl", PageIndex: 1, Top: 700, Bottom: 600, Label: "FLUTE"},
	}

	parts := Parts(staffs)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].Label != "Flute" || parts[1].Label != "Oboe" {
		t.Errorf("expected Flute then Oboe, got %q then %q", parts[0].Label, parts[1].Label)
	}
	if len(parts[0].Staffs) != 2 || parts[0].Staffs[0].ID != "p0-fl" || parts[0].Staffs[1].ID != "p1-fl" {
		t.Errorf("unexpected flute staves %+v", parts[0].Staffs)
	}
	if len(parts[1].Staffs) != 2 || parts[1].Staffs[0].ID != "p0-ob" {
		t.Errorf("unexpected oboe staves %+v", parts[1].Staffs)
	}
}
