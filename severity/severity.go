// Package severity defines the three-level defect taxonomy and the threshold
// table that maps raw measurements onto it. All numeric cutoffs used by the
// analyzers live here so a deployment can tune them in one place.
package severity

// Severity ranks how badly a defect impacts the page.
type Severity string

const (
	Critical Severity = "critical"
	Major    Severity = "major"
	Minor    Severity = "minor"

	// None marks a measurement below the reporting floor.
	None Severity = ""
)

// Thresholds collects every numeric cutoff the analyzers apply.
type Thresholds struct {
	// Padding deviation percentages vs the per-selector baseline.
	PaddingCritical float64 `yaml:"padding_critical"`
	PaddingMajor    float64 `yaml:"padding_major"`
	PaddingMinor    float64 `yaml:"padding_minor"`

	// PaddingAsymmetry is the pixel difference between opposing sides above
	// which an element is flagged regardless of baseline status.
	PaddingAsymmetry float64 `yaml:"padding_asymmetry"`

	// Alignment deviations in pixels. Deviations at or below
	// AlignmentReport are not reported at all.
	AlignmentCritical float64 `yaml:"alignment_critical"`
	AlignmentMajor    float64 `yaml:"alignment_major"`
	AlignmentReport   float64 `yaml:"alignment_report"`

	// GridRowBucket rounds child Y positions into pseudo-rows;
	// GridHeightSpread is the tolerated height variance within a row.
	GridRowBucket    float64 `yaml:"grid_row_bucket"`
	GridHeightSpread float64 `yaml:"grid_height_spread"`

	// TextRowBucket groups text elements into visual sections for the
	// mixed-alignment check.
	TextRowBucket float64 `yaml:"text_row_bucket"`

	// OverlapArea is the px² area above which a non-interactive overlap is
	// considered significant. TextOverlap is the per-axis pixel overlap
	// above which overlapping text is always critical.
	OverlapArea float64 `yaml:"overlap_area"`
	TextOverlap float64 `yaml:"text_overlap"`

	// ContrastFloor separates critical from major contrast failures.
	ContrastFloor float64 `yaml:"contrast_floor"`

	// Touch target minimums in pixels.
	TouchTarget         float64 `yaml:"touch_target"`
	TouchTargetCritical float64 `yaml:"touch_target_critical"`

	// MobileWidth is the viewport width at or below which touch targets are
	// checked and a mobile user agent is emulated.
	MobileWidth int `yaml:"mobile_width"`
}

// DefaultThresholds returns the published WCAG and accessibility constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PaddingCritical:     50,
		PaddingMajor:        30,
		PaddingMinor:        20,
		PaddingAsymmetry:    2,
		AlignmentCritical:   10,
		AlignmentMajor:      5,
		AlignmentReport:     2,
		GridRowBucket:       50,
		GridHeightSpread:    5,
		TextRowBucket:       100,
		OverlapArea:         100,
		TextOverlap:         5,
		ContrastFloor:       2.0,
		TouchTarget:         44,
		TouchTargetCritical: 24,
		MobileWidth:         768,
	}
}

// ForPadding classifies a baseline deviation percentage. Deviations at or
// below the minor cutoff are not reported.
func (t Thresholds) ForPadding(deviation float64) Severity {
	switch {
	case deviation > t.PaddingCritical:
		return Critical
	case deviation > t.PaddingMajor:
		return Major
	case deviation > t.PaddingMinor:
		return Minor
	}
	return None
}

// ForAlignment classifies a pixel deviation. Reporting starts above the
// report floor.
func (t Thresholds) ForAlignment(deviation float64) Severity {
	switch {
	case deviation > t.AlignmentCritical:
		return Critical
	case deviation > t.AlignmentMajor:
		return Major
	case deviation > t.AlignmentReport:
		return Minor
	}
	return None
}

// ForOverlap classifies a general (non text-on-text) overlap. The returned
// description explains the classification; report is false when the overlap
// looks like an intentional overlay and should be suppressed.
func (t Thresholds) ForOverlap(bothInteractive, oneInteractive, zSeparated bool, area float64) (sev Severity, description string, report bool) {
	switch {
	case bothInteractive:
		return Critical, "Interactive elements overlap - may block user interaction", true
	case oneInteractive && !zSeparated:
		return Major, "Interactive element may be blocked", true
	case area > t.OverlapArea && !zSeparated:
		return Major, "Unintentional content overlap", true
	case area > t.OverlapArea && zSeparated:
		// Deliberate layering, e.g. a modal over the page.
		return Minor, "Intentional overlay detected", false
	}
	// Small overlaps are noise when the elements sit on different layers.
	return Minor, "Elements overlap", !zSeparated
}

// ForContrast classifies a failing contrast ratio.
func (t Thresholds) ForContrast(ratio float64) Severity {
	if ratio < t.ContrastFloor {
		return Critical
	}
	return Major
}

// ForTouchTarget classifies an undersized clickable element. None when the
// box meets the minimum.
func (t Thresholds) ForTouchTarget(width, height float64) Severity {
	if width >= t.TouchTarget && height >= t.TouchTarget {
		return None
	}
	if width < t.TouchTargetCritical || height < t.TouchTargetCritical {
		return Critical
	}
	return Major
}
