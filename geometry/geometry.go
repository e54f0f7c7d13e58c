// Package geometry provides the bounding-box and deviation arithmetic shared
// by the visual analyzers.
package geometry

import "math"

// Rect is an axis-aligned bounding box in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Intersection computes the overlap of two boxes. Width and height are
// clamped to zero, so "no overlap" is an empty rect rather than a negative one.
func Intersection(a, b Rect) Rect {
	left := math.Max(a.X, b.X)
	right := math.Min(a.X+a.Width, b.X+b.Width)
	top := math.Max(a.Y, b.Y)
	bottom := math.Min(a.Y+a.Height, b.Y+b.Height)

	return Rect{
		X:      left,
		Y:      top,
		Width:  math.Max(0, right-left),
		Height: math.Max(0, bottom-top),
	}
}

// Padding holds computed padding values for the four sides of an element.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Deviation returns the worst per-side deviation of current from baseline as
// a percentage. Zero-valued baseline sides compare against 1 to avoid
// dividing by zero.
func Deviation(current, baseline Padding) float64 {
	diffs := [4]float64{
		math.Abs(current.Top-baseline.Top) / nonZero(baseline.Top),
		math.Abs(current.Right-baseline.Right) / nonZero(baseline.Right),
		math.Abs(current.Bottom-baseline.Bottom) / nonZero(baseline.Bottom),
		math.Abs(current.Left-baseline.Left) / nonZero(baseline.Left),
	}

	max := diffs[0]
	for _, d := range diffs[1:] {
		if d > max {
			max = d
		}
	}
	return max * 100
}

// Asymmetry returns the larger of the left/right and top/bottom padding
// differences in pixels.
func Asymmetry(p Padding) float64 {
	horizontal := math.Abs(p.Left - p.Right)
	vertical := math.Abs(p.Top - p.Bottom)
	return math.Max(horizontal, vertical)
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
