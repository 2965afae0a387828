package geometry

import (
	"math"
	"testing"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{
			name: "Disjoint",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 200, Y: 200, Width: 50, Height: 50},
			want: false,
		},
		{
			name: "Intersecting",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 50, Y: 50, Width: 100, Height: 100},
			want: true,
		},
		{
			name: "SharedEdge",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 100, Y: 0, Width: 100, Height: 100},
			want: false,
		},
		{
			name: "Contained",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 25, Y: 25, Width: 10, Height: 10},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 150, Y: -20, Width: 50, Height: 60}
	want := Rect{X: 0, Y: -20, Width: 200, Height: 120}
	if got := a.Union(b); got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
	if got := b.Union(a); got != want {
		t.Errorf("Union not symmetric: %+v", got)
	}

	// Containment collapses to the outer rect.
	inner := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	if got := a.Union(inner); got != a {
		t.Errorf("Union with contained rect = %+v, want %+v", got, a)
	}
}

func TestExpand(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}.Expand(24)
	want := Rect{X: -14, Y: -14, Width: 148, Height: 98}
	if r != want {
		t.Errorf("Expand(24) = %+v, want %+v", r, want)
	}

	// A margin makes near-misses overlap.
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 110, Y: 0, Width: 100, Height: 100}
	if a.Overlaps(b) {
		t.Fatal("rects should not overlap without margin")
	}
	if !a.Expand(24).Overlaps(b) {
		t.Error("rects should overlap with 24px margin")
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, grid, want float64
	}{
		{v: 0, grid: 20, want: 0},
		{v: 9, grid: 20, want: 0},
		{v: 10, grid: 20, want: 20},
		{v: 615, grid: 20, want: 620},
		{v: -33, grid: 20, want: -40},
		{v: 123, grid: 0, want: 123},
	}
	for _, tt := range tests {
		if got := Snap(tt.v, tt.grid); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.grid, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0.1, 0.2, 2.5); got != 0.2 {
		t.Errorf("Clamp below = %v, want 0.2", got)
	}
	if got := Clamp(3, 0.2, 2.5); got != 2.5 {
		t.Errorf("Clamp above = %v, want 2.5", got)
	}
	if got := Clamp(1, 0.2, 2.5); got != 1 {
		t.Errorf("Clamp inside = %v, want 1", got)
	}
}

func TestFinite(t *testing.T) {
	if got := Finite(math.NaN(), 7); got != 7 {
		t.Errorf("Finite(NaN) = %v, want 7", got)
	}
	if got := Finite(math.Inf(1), 7); got != 7 {
		t.Errorf("Finite(+Inf) = %v, want 7", got)
	}
	if got := Finite(42, 7); got != 42 {
		t.Errorf("Finite(42) = %v, want 42", got)
	}
}

func TestFitAspect(t *testing.T) {
	ratio := 16.0 / 9.0

	// Width-bound: tall viewport.
	s := FitAspect(Size{Width: 1600, Height: 2000}, ratio)
	if s.Width != 1600 || math.Abs(s.Height-900) > 1e-9 {
		t.Errorf("width-bound fit = %+v, want 1600x900", s)
	}

	// Height-bound: wide viewport.
	s = FitAspect(Size{Width: 4000, Height: 900}, ratio)
	if math.Abs(s.Width-1600) > 1e-9 || s.Height != 900 {
		t.Errorf("height-bound fit = %+v, want 1600x900", s)
	}

	// Degenerate bounds.
	if s := FitAspect(Size{Width: 0, Height: 900}, ratio); !s.IsZero() {
		t.Errorf("degenerate fit = %+v, want zero", s)
	}
}

func TestMaxSize(t *testing.T) {
	got := MaxSize(Size{Width: 100, Height: 500}, Size{Width: 320, Height: 220})
	want := Size{Width: 320, Height: 500}
	if got != want {
		t.Errorf("MaxSize = %+v, want %+v", got, want)
	}
}
