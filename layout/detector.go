package layout

// SystemConfig holds configuration for system detection
type SystemConfig struct {
	// MinGapHeight is the minimum blank run, in pixel rows, that separates
	// two systems.
	// Default: 50 rows (at 150 DPI)
	MinGapHeight int

	// LowThresholdFraction is the fraction of the densest row at or below
	// which a row is blank.
	// Default: 0.05
	LowThresholdFraction float64
}

// DefaultSystemConfig returns sensible default configuration
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		MinGapHeight:         50,
		LowThresholdFraction: DefaultLowThresholdFraction,
	}
}

// SystemDetector detects the musical systems of a page
type SystemDetector struct {
	config SystemConfig
}

// NewSystemDetector creates a new system detector with default configuration
func NewSystemDetector() *SystemDetector {
	return &SystemDetector{
		config: DefaultSystemConfig(),
	}
}

// NewSystemDetectorWithConfig creates a system detector with custom configuration
func NewSystemDetectorWithConfig(config SystemConfig) *SystemDetector {
	return &SystemDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *SystemDetector) Config() SystemConfig {
	return d.config
}

// Detect returns the systems of a page profile, top of page first
func (d *SystemDetector) Detect(profile []int) []Boundary {
	return detectSystems(profile, d.config.MinGapHeight, d.config.LowThresholdFraction)
}

// StaffConfig holds configuration for staff detection within a system
type StaffConfig struct {
	// MinPartGapHeight is the minimum blank run, in pixel rows, that
	// separates two staves of the same system.
	// Default: 15 rows (at 150 DPI)
	MinPartGapHeight int

	// LowThresholdFraction is the fraction of the densest row inside the
	// system at or below which a row is blank.
	// Default: 0.05
	LowThresholdFraction float64
}

// DefaultStaffConfig returns sensible default configuration
func DefaultStaffConfig() StaffConfig {
	return StaffConfig{
		MinPartGapHeight:     15,
		LowThresholdFraction: DefaultLowThresholdFraction,
	}
}

// StaffDetector detects the staves inside detected systems
type StaffDetector struct {
	config StaffConfig
}

// NewStaffDetector creates a new staff detector with default configuration
func NewStaffDetector() *StaffDetector {
	return &StaffDetector{
		config: DefaultStaffConfig(),
	}
}

// NewStaffDetectorWithConfig creates a staff detector with custom configuration
func NewStaffDetectorWithConfig(config StaffConfig) *StaffDetector {
	return &StaffDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *StaffDetector) Config() StaffConfig {
	return d.config
}

// Detect returns the staves inside one system, in page rows
func (d *StaffDetector) Detect(profile []int, system Boundary) []Boundary {
	return detectStaffs(profile, system.TopPx, system.BottomPx, d.config.MinPartGapHeight, d.config.LowThresholdFraction)
}

// DetectAll runs Detect for every system. The result is indexed like
// systems.
func (d *StaffDetector) DetectAll(profile []int, systems []Boundary) [][]Boundary {
	staffs := make([][]Boundary, len(systems))
	for i, s := range systems {
		staffs[i] = d.Detect(profile, s)
	}
	return staffs
}
