// Package layout detects the musical systems and staves of a rasterized
// score page from its horizontal projection profile.
//
// # Boundary Detection
//
// [DetectBoundaries] finds runs of near-blank rows ("gaps") that are at
// least a minimum height tall and cuts the profile at the midpoint of
// each gap. Slices between cuts that contain ink become [Boundary] values
// in pixel rows, top of page first.
//
// The same algorithm runs twice with different parameters:
//
//	systems := layout.NewSystemDetector().Detect(profile)
//	staffs := layout.NewStaffDetector().DetectAll(profile, systems)
//
// # System Detection
//
// The [SystemDetector] looks for large gaps (50 rows by default at 150 DPI)
// and stretches the first and last system to the page edges so margins
// are never lost.
//
// # Staff Detection
//
// The [StaffDetector] works inside a single system with a smaller gap
// (15 rows by default). A system always yields at least one staff: when
// no gap is found the whole system span is returned.
//
// # Configuration
//
//	config := layout.DefaultSystemConfig()
//	config.MinGapHeight = 80
//	detector := layout.NewSystemDetectorWithConfig(config)
package layout
