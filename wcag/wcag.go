// Package wcag implements the colour science behind WCAG 2.1 contrast
// checking: colour parsing, relative luminance, contrast ratios and the
// large-text classification.
package wcag

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGB is an sRGB colour with 0-255 channels.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// WCAG AA minimum contrast ratios.
const (
	RatioNormalAA  = 4.5
	RatioLargeAA   = 3.0
	RatioNormalAAA = 7.0
	RatioLargeAAA  = 4.5

	// RatioInteractive is the non-text contrast minimum (1.4.11) applied to
	// interactive elements and form-control borders.
	RatioInteractive = 3.0
)

var (
	rgbRe = regexp.MustCompile(`rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*([0-9.]+))?\)`)
	hexRe = regexp.MustCompile(`(?i)^#([0-9a-f]{6})$`)
)

// ParseColor parses a computed CSS colour value. It accepts rgb()/rgba()
// and 6-digit hex. ok is false for "transparent" and anything else it cannot
// read, which callers treat as "skip this element" rather than an error.
func ParseColor(css string) (RGB, bool) {
	css = strings.TrimSpace(css)
	if css == "" || css == "transparent" {
		return RGB{}, false
	}

	if m := rgbRe.FindStringSubmatch(css); m != nil {
		// rgba(0, 0, 0, 0) is fully transparent; the background walk relies
		// on it being rejected here.
		if m[4] != "" {
			if alpha, err := strconv.ParseFloat(m[4], 64); err == nil && alpha == 0 {
				return RGB{}, false
			}
		}
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		return RGB{R: r, G: g, B: b}, true
	}

	if m := hexRe.FindStringSubmatch(css); m != nil {
		r, _ := strconv.ParseInt(m[1][0:2], 16, 32)
		g, _ := strconv.ParseInt(m[1][2:4], 16, 32)
		b, _ := strconv.ParseInt(m[1][4:6], 16, 32)
		return RGB{R: int(r), G: int(g), B: int(b)}, true
	}

	return RGB{}, false
}

// CSS renders the colour as an rgb() string.
func (c RGB) CSS() string {
	return "rgb(" + strconv.Itoa(c.R) + ", " + strconv.Itoa(c.G) + ", " + strconv.Itoa(c.B) + ")"
}

// RelativeLuminance computes the perceptual brightness of a colour using the
// standard sRGB gamma expansion and the 0.2126/0.7152/0.0722 channel weights.
func RelativeLuminance(c RGB) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(channel int) float64 {
	v := float64(channel) / 255.0
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colours, from
// 1 (identical) to 21 (black on white). Symmetric in its arguments.
func ContrastRatio(a, b RGB) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)

	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)

	return (lighter + 0.05) / (darker + 0.05)
}

// IsLargeText reports whether text qualifies as "large" under WCAG: at least
// 18px, or at least 14px with bold (>=700) weight.
func IsLargeText(fontSizePx float64, fontWeight int) bool {
	return fontSizePx >= 18 || (fontSizePx >= 14 && fontWeight >= 700)
}

// RequiredRatio returns the AA contrast minimum for the given text size
// class. AA is the level this engine enforces.
func RequiredRatio(largeText bool) float64 {
	if largeText {
		return RatioLargeAA
	}
	return RatioNormalAA
}

// RequiredRatioAAA returns the AAA minimum. Reported for context, never used
// as the flagging threshold.
func RequiredRatioAAA(largeText bool) float64 {
	if largeText {
		return RatioLargeAAA
	}
	return RatioNormalAAA
}

// ParseFontWeight converts a computed font-weight value ("400", "bold", ...)
// to a numeric weight, defaulting to 400.
func ParseFontWeight(weight string) int {
	switch strings.TrimSpace(weight) {
	case "bold", "bolder":
		return 700
	case "normal", "":
		return 400
	}
	if n, err := strconv.Atoi(strings.TrimSpace(weight)); err == nil {
		return n
	}
	return 400
}

// Recommendation suggests how to fix a failing pair: darken text on light
// backgrounds, lighten it on dark ones, with a rough adjustment percentage.
func Recommendation(fg, bg RGB, requiredRatio float64) string {
	current := ContrastRatio(fg, bg)
	adjustment := int(math.Ceil(requiredRatio/current*100 - 100))

	if RelativeLuminance(bg) > 0.5 {
		return "Darken text colour by approximately " + strconv.Itoa(adjustment) + "% to meet WCAG AA standards"
	}
	return "Lighten text colour by approximately " + strconv.Itoa(adjustment) + "% to meet WCAG AA standards"
}
