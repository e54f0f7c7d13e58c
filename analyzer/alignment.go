package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/ui-inspector/backend/inspector"
	"github.com/ui-inspector/backend/severity"
)

// DetectAlignment inspects flex and grid containers for children that break
// their siblings' shared edge, and text sections that mix alignments.
func DetectAlignment(snap *inspector.Snapshot, th severity.Thresholds) []AlignmentIssue {
	issues := detectContainerAlignment(snap, th)
	issues = append(issues, detectTextAlignment(snap, th)...)
	return issues
}

func detectContainerAlignment(snap *inspector.Snapshot, th severity.Thresholds) []AlignmentIssue {
	var issues []AlignmentIssue

	for i := range snap.Elements {
		container := &snap.Elements[i]
		if !container.Visible {
			continue
		}

		isGrid := container.HasClassToken("grid")
		isFlex := container.HasClassToken("flex")
		if !isGrid && !isFlex {
			continue
		}

		children := visibleChildren(snap, i)
		if len(children) < 2 {
			continue
		}

		containerSel := container.Selector()

		// Row-flex children share the first child's top edge; column-flex
		// children share its left edge.
		if isFlex && container.HasClassToken("flex-row") {
			baseline := children[0].Box.Y
			for n, child := range children[1:] {
				deviation := math.Abs(child.Box.Y - baseline)
				if sev := th.ForAlignment(deviation); sev != severity.None {
					issues = append(issues, AlignmentIssue{
						Selector:          containerSel,
						Element:           "flex-container",
						Viewport:          snap.Viewport.Name,
						Type:              "horizontal",
						ExpectedAlignment: baseline,
						ActualAlignment:   child.Box.Y,
						Deviation:         deviation,
						Severity:          sev,
						AffectedElements:  []string{fmt.Sprintf("child-%d", n+1)},
					})
				}
			}
		}

		if isFlex && container.HasClassToken("flex-col") {
			baseline := children[0].Box.X
			for n, child := range children[1:] {
				deviation := math.Abs(child.Box.X - baseline)
				if sev := th.ForAlignment(deviation); sev != severity.None {
					issues = append(issues, AlignmentIssue{
						Selector:          containerSel,
						Element:           "flex-container",
						Viewport:          snap.Viewport.Name,
						Type:              "vertical",
						ExpectedAlignment: baseline,
						ActualAlignment:   child.Box.X,
						Deviation:         deviation,
						Severity:          sev,
						AffectedElements:  []string{fmt.Sprintf("child-%d", n+1)},
					})
				}
			}
		}

		if isGrid {
			issues = append(issues, detectGridRows(snap, containerSel, children, th)...)
		}
	}

	return issues
}

// detectGridRows buckets grid children into pseudo-rows and flags rows whose
// cell heights diverge.
func detectGridRows(snap *inspector.Snapshot, containerSel string, children []*inspector.Element, th severity.Thresholds) []AlignmentIssue {
	rows := make(map[float64][]*inspector.Element)
	for _, child := range children {
		rowY := math.Round(child.Box.Y/th.GridRowBucket) * th.GridRowBucket
		rows[rowY] = append(rows[rowY], child)
	}

	rowKeys := make([]float64, 0, len(rows))
	for y := range rows {
		rowKeys = append(rowKeys, y)
	}
	sort.Float64s(rowKeys)

	var issues []AlignmentIssue
	for _, rowY := range rowKeys {
		cells := rows[rowY]
		if len(cells) < 2 {
			continue
		}

		minH, maxH := cells[0].Box.Height, cells[0].Box.Height
		for _, c := range cells[1:] {
			minH = math.Min(minH, c.Box.Height)
			maxH = math.Max(maxH, c.Box.Height)
		}

		if maxH-minH > th.GridHeightSpread {
			issues = append(issues, AlignmentIssue{
				Selector:          containerSel,
				Element:           "grid-container",
				Viewport:          snap.Viewport.Name,
				Type:              "grid",
				ExpectedAlignment: maxH,
				ActualAlignment:   minH,
				Deviation:         maxH - minH,
				Severity:          severity.Major,
				AffectedElements:  []string{fmt.Sprintf("row at y=%.0f", rowY)},
			})
		}
	}
	return issues
}

// detectTextAlignment flags visual sections that mix centred and
// left-aligned text. A style inconsistency, not a geometric one, hence
// always minor.
func detectTextAlignment(snap *inspector.Snapshot, th severity.Thresholds) []AlignmentIssue {
	groups := make(map[float64][]*inspector.Element)

	for i := range snap.Elements {
		el := &snap.Elements[i]
		if !el.Visible || !isTextElement(el) {
			continue
		}
		groupY := math.Round(el.Box.Y/th.TextRowBucket) * th.TextRowBucket
		groups[groupY] = append(groups[groupY], el)
	}

	groupKeys := make([]float64, 0, len(groups))
	for y := range groups {
		groupKeys = append(groupKeys, y)
	}
	sort.Float64s(groupKeys)

	var issues []AlignmentIssue
	for _, groupY := range groupKeys {
		els := groups[groupY]
		if len(els) < 2 {
			continue
		}

		var centered, leftAligned int
		for _, el := range els {
			switch el.Style("text-align") {
			case "center":
				centered++
			case "left", "start":
				leftAligned++
			}
		}

		if centered > 0 && leftAligned > 0 {
			issues = append(issues, AlignmentIssue{
				Selector:         fmt.Sprintf("text-group-%.0f", groupY),
				Element:          "text-elements",
				Viewport:         snap.Viewport.Name,
				Type:             "horizontal",
				Deviation:        float64(len(els)),
				Severity:         severity.Minor,
				AffectedElements: []string{"mixed text alignment in same section"},
			})
		}
	}
	return issues
}

func isTextElement(el *inspector.Element) bool {
	switch el.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p":
		return true
	case "div", "span":
		return el.HasClassToken("text")
	}
	return false
}

func visibleChildren(snap *inspector.Snapshot, parent int) []*inspector.Element {
	var children []*inspector.Element
	for i := range snap.Elements {
		el := &snap.Elements[i]
		if el.Parent == parent && el.Visible && !el.Box.Empty() {
			children = append(children, el)
		}
	}
	return children
}
