package analyzer

import (
	"github.com/ui-inspector/backend/geometry"
	"github.com/ui-inspector/backend/severity"
)

// PaddingIssue flags an element whose computed padding deviates from the
// baseline established by the first element matching the same selector, or
// whose own padding is asymmetric.
type PaddingIssue struct {
	Selector        string            `json:"selector"`
	Element         string            `json:"element"`
	Viewport        string            `json:"viewport"`
	ComputedPadding geometry.Padding  `json:"computedPadding"`
	ExpectedPadding *geometry.Padding `json:"expectedPadding,omitempty"`
	Deviation       float64           `json:"deviation"`
	Severity        severity.Severity `json:"severity"`
	Screenshot      string            `json:"screenshot,omitempty"`
}

// AlignmentIssue flags a child of a flex/grid container that breaks its
// siblings' shared edge, or a visual section mixing text alignments.
type AlignmentIssue struct {
	Selector          string            `json:"selector"`
	Element           string            `json:"element"`
	Viewport          string            `json:"viewport"`
	Type              string            `json:"type"` // horizontal | vertical | grid
	ExpectedAlignment float64           `json:"expectedAlignment"`
	ActualAlignment   float64           `json:"actualAlignment"`
	Deviation         float64           `json:"deviation"`
	Severity          severity.Severity `json:"severity"`
	AffectedElements  []string          `json:"affectedElements"`
	Screenshot        string            `json:"screenshot,omitempty"`
}

// OverlapIssue flags two unrelated elements whose bounding boxes intersect.
type OverlapIssue struct {
	Selector1   string            `json:"selector1"`
	Selector2   string            `json:"selector2"`
	Viewport    string            `json:"viewport"`
	OverlapArea geometry.Rect     `json:"overlapArea"`
	Severity    severity.Severity `json:"severity"`
	ZIndex1     string            `json:"zIndex1,omitempty"`
	ZIndex2     string            `json:"zIndex2,omitempty"`
	Description string            `json:"description"`
	Screenshot  string            `json:"screenshot,omitempty"`
}

// ContrastIssue flags a foreground/background pair failing WCAG AA.
type ContrastIssue struct {
	Selector       string            `json:"selector"`
	Viewport       string            `json:"viewport"`
	Foreground     string            `json:"foreground"`
	Background     string            `json:"background"`
	Ratio          float64           `json:"ratio"`
	RequiredRatio  float64           `json:"requiredRatio"`
	Level          string            `json:"level"` // AA | AAA
	FontSize       float64           `json:"fontSize"`
	FontWeight     string            `json:"fontWeight"`
	IsLargeText    bool              `json:"isLargeText"`
	Severity       severity.Severity `json:"severity"`
	WCAGCriteria   string            `json:"wcagCriteria"`
	Recommendation string            `json:"recommendation"`
	Screenshot     string            `json:"screenshot,omitempty"`
}

// TouchTargetIssue flags a clickable element smaller than the 44×44px
// mobile accessibility minimum.
type TouchTargetIssue struct {
	Selector string            `json:"selector"`
	Viewport string            `json:"viewport"`
	Size     string            `json:"size"`
	Minimum  string            `json:"minimum"`
	Severity severity.Severity `json:"severity"`
}
