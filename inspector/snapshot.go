// Package inspector is the browser-automation boundary of the inspection
// engine. It drives a headless Chrome through Rod and reduces a rendered
// page to a Snapshot: a flat, parent-linked list of elements with their
// boxes and computed styles. The analyzers only ever see Snapshots, so they
// can be tested against synthetic trees via the in-package Fake.
package inspector

import (
	"strconv"
	"strings"

	"github.com/ui-inspector/backend/geometry"
)

// Viewport is a named browser window size.
type Viewport struct {
	Name   string `yaml:"name" json:"name"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Element is one rendered DOM element as captured from the page. Parent is
// an index into the owning Snapshot's element list, -1 for the document root,
// which keeps ancestor checks and style walks free of live DOM references.
type Element struct {
	Index       int               `json:"index"`
	Parent      int               `json:"parent"`
	Tag         string            `json:"tag"`
	ID          string            `json:"id"`
	Classes     []string          `json:"classes"`
	Role        string            `json:"role"`
	Text        string            `json:"text"`
	ChildCount  int               `json:"childCount"`
	Box         geometry.Rect     `json:"box"`
	Styles      map[string]string `json:"styles"`
	Interactive bool              `json:"interactive"`
	Visible     bool              `json:"visible"`
}

// Style returns a computed style property, or "" when it was not captured.
func (e *Element) Style(prop string) string {
	return e.Styles[prop]
}

// StyleFloat parses a pixel-valued style property such as "12px".
func (e *Element) StyleFloat(prop string) float64 {
	v := strings.TrimSuffix(strings.TrimSpace(e.Styles[prop]), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// ZIndex returns the numeric z-index, treating "auto" and anything
// unparseable as 0.
func (e *Element) ZIndex() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Styles["z-index"]))
	if err != nil {
		return 0
	}
	return n
}

// HasClassToken reports whether any class name contains the given token,
// mirroring a [class*="token"] selector.
func (e *Element) HasClassToken(token string) bool {
	for _, c := range e.Classes {
		if strings.Contains(c, token) {
			return true
		}
	}
	return false
}

// Padding reads the four computed padding sides.
func (e *Element) Padding() geometry.Padding {
	return geometry.Padding{
		Top:    e.StyleFloat("padding-top"),
		Right:  e.StyleFloat("padding-right"),
		Bottom: e.StyleFloat("padding-bottom"),
		Left:   e.StyleFloat("padding-left"),
	}
}

// Selector builds the best-effort identifier for an element: id, then first
// class, then tag name.
func (e *Element) Selector() string {
	if e.ID != "" {
		return "#" + e.ID
	}
	if len(e.Classes) > 0 {
		return "." + e.Classes[0]
	}
	return e.Tag
}

// Snapshot is one rendered page reduced to plain data.
type Snapshot struct {
	Viewport    Viewport  `json:"viewport"`
	Elements    []Element `json:"elements"`
	ScrollWidth float64   `json:"scrollWidth"`
	ClientWidth float64   `json:"clientWidth"`
	RenderTime  float64   `json:"renderTime"`

	// ConsoleErrors holds uncaught page exceptions observed since navigation.
	ConsoleErrors []string `json:"consoleErrors,omitempty"`
}

// IsAncestor reports whether element i contains element j or vice versa, by
// walking parent links. Containment is structural, never a layout defect.
func (s *Snapshot) IsAncestor(i, j int) bool {
	return s.contains(i, j) || s.contains(j, i)
}

func (s *Snapshot) contains(ancestor, node int) bool {
	for p := s.Elements[node].Parent; p >= 0; p = s.Elements[p].Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// HorizontalScroll reports whether the document overflows its viewport
// horizontally.
func (s *Snapshot) HorizontalScroll() bool {
	return s.ScrollWidth > s.ClientWidth
}
