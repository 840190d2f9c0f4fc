package layout

// DefaultLowThresholdFraction is the fraction of the profile maximum at or
// below which a row counts as blank.
const DefaultLowThresholdFraction = 0.05

// Boundary is a half-open band of pixel rows [TopPx, BottomPx) measured
// from the top of the page.
type Boundary struct {
	TopPx    int `json:"topPx"`
	BottomPx int `json:"bottomPx"`
}

// Height returns the number of rows in the band
func (b Boundary) Height() int {
	return b.BottomPx - b.TopPx
}

// gap is a run of blank rows [start, end)
type gap struct {
	start, end int
}

// cut returns the row at which the gap splits the profile
func (g gap) cut() int {
	return (g.start + g.end) / 2
}

// DetectBoundaries splits a projection profile into content bands.
//
// Rows whose value is at most max(profile)*lowThresholdFraction are blank.
// Every run of blank rows at least minGapHeight long is a gap, including
// runs touching either end of the profile. The profile is cut at the
// midpoint of each gap and every resulting slice containing at least one
// non-blank row is returned. A blank or empty profile yields nil.
func DetectBoundaries(profile []int, minGapHeight int, lowThresholdFraction float64) []Boundary {
	if len(profile) == 0 {
		return nil
	}

	peak := 0
	for _, v := range profile {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return nil
	}

	threshold := float64(peak) * lowThresholdFraction
	gaps := findGaps(profile, threshold, minGapHeight)

	var boundaries []Boundary
	top := 0
	for _, g := range gaps {
		c := g.cut()
		if hasContent(profile[top:c], threshold) {
			boundaries = append(boundaries, Boundary{TopPx: top, BottomPx: c})
		}
		top = c
	}
	if hasContent(profile[top:], threshold) {
		boundaries = append(boundaries, Boundary{TopPx: top, BottomPx: len(profile)})
	}

	return boundaries
}

// DetectStaffBoundaries runs the gap algorithm over a whole profile with
// the default blank threshold.
func DetectStaffBoundaries(profile []int, minGapHeight int) []Boundary {
	return DetectBoundaries(profile, minGapHeight, DefaultLowThresholdFraction)
}

// DetectSystemBoundaries detects systems on a page. The first system is
// extended up to row 0 and the last down to the end of the profile so the
// page margins belong to a system.
func DetectSystemBoundaries(profile []int, minGapHeight int) []Boundary {
	return detectSystems(profile, minGapHeight, DefaultLowThresholdFraction)
}

func detectSystems(profile []int, minGapHeight int, fraction float64) []Boundary {
	boundaries := DetectBoundaries(profile, minGapHeight, fraction)
	if len(boundaries) == 0 {
		return boundaries
	}
	boundaries[0].TopPx = 0
	boundaries[len(boundaries)-1].BottomPx = len(profile)
	return boundaries
}

// DetectStaffsInSystem detects staves within the rows [systemTopPx,
// systemBottomPx) of a page profile. Results are in page rows. When no
// band is found the whole system span is returned as a single staff.
func DetectStaffsInSystem(profile []int, systemTopPx, systemBottomPx, minPartGapHeight int) []Boundary {
	return detectStaffs(profile, systemTopPx, systemBottomPx, minPartGapHeight, DefaultLowThresholdFraction)
}

func detectStaffs(profile []int, topPx, bottomPx, minGapHeight int, fraction float64) []Boundary {
	topPx = max(0, min(topPx, len(profile)))
	bottomPx = max(topPx, min(bottomPx, len(profile)))
	if bottomPx == topPx {
		return nil
	}

	found := DetectBoundaries(profile[topPx:bottomPx], minGapHeight, fraction)
	if len(found) == 0 {
		return []Boundary{{TopPx: topPx, BottomPx: bottomPx}}
	}

	staffs := make([]Boundary, len(found))
	for i, b := range found {
		staffs[i] = Boundary{TopPx: b.TopPx + topPx, BottomPx: b.BottomPx + topPx}
	}
	return staffs
}

// findGaps returns the blank runs of at least minHeight rows, in order.
func findGaps(profile []int, threshold float64, minHeight int) []gap {
	var gaps []gap
	start := -1
	for y, v := range profile {
		if float64(v) <= threshold {
			if start < 0 {
				start = y
			}
			continue
		}
		if start >= 0 && y-start >= minHeight {
			gaps = append(gaps, gap{start: start, end: y})
		}
		start = -1
	}
	// trailing run touching the end of the profile
	if start >= 0 && len(profile)-start >= minHeight {
		gaps = append(gaps, gap{start: start, end: len(profile)})
	}
	return gaps
}

func hasContent(rows []int, threshold float64) bool {
	for _, v := range rows {
		if float64(v) > threshold {
			return true
		}
	}
	return false
}
