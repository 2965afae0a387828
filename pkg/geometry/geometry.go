// Package geometry provides pure numeric helpers for workspace layout:
// points, sizes, axis-aligned rectangles, grid snapping, and aspect-ratio
// fitting. All functions are deterministic and side-effect free.
package geometry

import "math"

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// IsZero reports whether the size has no area.
func (s Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectAt builds a rectangle from a top-left point and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Expand grows the rectangle by margin on every side.
// A negative margin shrinks it.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Overlaps reports whether two rectangles intersect. Rectangles that
// merely share an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x1 := min(r.X, other.X)
	y1 := min(r.Y, other.Y)
	x2 := max(r.X+r.Width, other.X+other.Width)
	y2 := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Snap rounds v to the nearest multiple of grid. A grid of zero or less
// returns v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapSize snaps both dimensions to the grid.
func SnapSize(s Size, grid float64) Size {
	return Size{Width: Snap(s.Width, grid), Height: Snap(s.Height, grid)}
}

// Finite returns v when it is a usable finite number, otherwise fallback.
// Persisted layouts from older builds occasionally contain NaN from a
// division against a zero-zoom viewport; this is the read-boundary repair.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// FitAspect returns the largest size with the given width/height ratio
// that fits inside bounds. Degenerate bounds or ratio yield a zero size.
func FitAspect(bounds Size, ratio float64) Size {
	if bounds.IsZero() || ratio <= 0 {
		return Size{}
	}
	w := bounds.Width
	h := w / ratio
	if h > bounds.Height {
		h = bounds.Height
		w = h * ratio
	}
	return Size{Width: w, Height: h}
}

// MaxSize clamps each dimension of s to at least the matching dimension
// of min.
func MaxSize(s, min Size) Size {
	if s.Width < min.Width {
		s.Width = min.Width
	}
	if s.Height < min.Height {
		s.Height = min.Height
	}
	return s
}
