// Package viewport models scroll-linked reveals, scroll progress and scrollspy
// navigation over a headless page. Everything runs on a single event loop:
// components are not safe for concurrent use and defer work only through Loop.
package viewport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is a box in viewport (or document) coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the box.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the right edge of the box.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Area returns width × height, never negative.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Midpoint returns the vertical center of the box.
func (r Rect) Midpoint() float64 { return r.Top + r.Height/2 }

// Intersect returns the overlap of r and o and whether they touch at all.
// Edge-adjacent boxes count as intersecting with a zero-area result.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	top := math.Max(r.Top, o.Top)
	left := math.Max(r.Left, o.Left)
	bottom := math.Min(r.Bottom(), o.Bottom())
	right := math.Min(r.Right(), o.Right())
	if bottom < top || right < left {
		return Rect{}, false
	}
	return Rect{Top: top, Left: left, Width: right - left, Height: bottom - top}, true
}

// Overlaps reports whether two boxes overlap vertically, the test the navbar
// uses to decide it sits on top of the hero.
func Overlaps(a, b Rect) bool {
	return a.Top < b.Bottom() && a.Bottom() > b.Top
}

// Size is the viewport dimension.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Length is one root-margin component, either pixels or a percentage of the
// matching viewport axis.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) resolve(axis float64) float64 {
	if l.Percent {
		return axis * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	if l.Percent {
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + "px"
}

// Margin grows (positive) or shrinks (negative) the viewport before
// intersection is computed.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// ParseMargin reads the CSS shorthand used by intersection observers:
// one to four lengths, each with a px or % unit ("0" is accepted bare).
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, fmt.Errorf("root margin %q: too many values", s)
	}
	vals := make([]Length, 0, 4)
	for _, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("root margin %q: %w", s, err)
		}
		vals = append(vals, l)
	}
	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

// MustParseMargin is ParseMargin for package-level literals.
func MustParseMargin(s string) Margin {
	m, err := ParseMargin(s)
	if err != nil {
		panic(err)
	}
	return m
}

func parseLength(f string) (Length, error) {
	switch {
	case strings.HasSuffix(f, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("bad percentage %q", f)
		}
		return Length{Value: v, Percent: true}, nil
	case strings.HasSuffix(f, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("bad pixel length %q", f)
		}
		return Length{Value: v}, nil
	case f == "0":
		return Length{}, nil
	default:
		return Length{}, fmt.Errorf("length %q needs a px or %% unit", f)
	}
}

// String renders the margin back into shorthand.
func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// Root returns the viewport box adjusted by the margin.
func (m Margin) Root(vp Size) Rect {
	top := m.Top.resolve(vp.Height)
	bottom := m.Bottom.resolve(vp.Height)
	left := m.Left.resolve(vp.Width)
	right := m.Right.resolve(vp.Width)
	return Rect{
		Top:    -top,
		Left:   -left,
		Width:  vp.Width + left + right,
		Height: vp.Height + top + bottom,
	}
}

// IntersectionRatio computes how much of target lies inside root, in [0,1],
// and whether they intersect. A zero-area target that touches the root counts
// as fully visible.
func IntersectionRatio(target, root Rect) (float64, bool) {
	inter, ok := target.Intersect(root)
	if !ok {
		return 0, false
	}
	area := target.Area()
	if area == 0 {
		return 1, true
	}
	return clamp01(inter.Area() / area), true
}

// VerticalFraction is the share of target's height inside [0, viewportHeight].
func VerticalFraction(target Rect, viewportHeight float64) float64 {
	if target.Height <= 0 {
		if target.Top >= 0 && target.Top <= viewportHeight {
			return 1
		}
		return 0
	}
	visible := math.Min(target.Bottom(), viewportHeight) - math.Max(target.Top, 0)
	return clamp01(visible / target.Height)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
