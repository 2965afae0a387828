package workspace

import (
	"sync"

	"github.com/castdeck/castdeck/pkg/geometry"
)

// Zoom bounds applied when reading persisted viewports. The canvas
// component enforces the same range interactively.
const (
	MinZoom = 0.2
	MaxZoom = 2.5
)

// Viewport is the pan/zoom state of the canvas: the canvas-space point
// at the top-left of the screen and the zoom factor.
type Viewport struct {
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Zoom float64 `json:"zoom" bson:"zoom"`
}

// ViewportController is the canvas collaborator consumed by the engine.
// The engine never draws the canvas; it only reads the viewport to place
// and expand cards, and issues navigation commands on user request.
//
// Implementations: the browser frontend mirrors its canvas component
// through MirrorViewport; tests use a fixed MirrorViewport directly.
type ViewportController interface {
	// Ready reports whether the canvas has mounted. Until then, expand
	// and viewport-derived placement are unavailable and degrade to
	// no-ops or static origins.
	Ready() bool

	// Viewport returns the current pan/zoom state.
	Viewport() Viewport

	// VisibleSize returns the visible area of the canvas in screen
	// pixels. A zero size means the viewport is degenerate.
	VisibleSize() geometry.Size

	// ScreenToCanvas converts a screen-pixel point to canvas space.
	ScreenToCanvas(p geometry.Point) geometry.Point

	// SetCenter pans the canvas so the given canvas-space point is centered.
	SetCenter(p geometry.Point)

	// FitView zooms and pans so all cards are visible.
	FitView()

	// ZoomIn and ZoomOut step the zoom level.
	ZoomIn()
	ZoomOut()
}

// MirrorViewport is a ViewportController fed by an external canvas.
// The browser frontend pushes its live pan/zoom state and visible size
// here; navigation commands are recorded for the frontend to pick up.
// It doubles as the deterministic viewport used in tests and the TUI.
type MirrorViewport struct {
	mu      sync.RWMutex
	ready   bool
	vp      Viewport
	visible geometry.Size

	// pendingCenter holds the last SetCenter request until the frontend
	// consumes it.
	pendingCenter *geometry.Point
}

// NewMirrorViewport creates an unmounted mirror. It reports not-ready
// until the first Update.
func NewMirrorViewport() *MirrorViewport {
	return &MirrorViewport{}
}

// Update replaces the mirrored state. Zoom is clamped; a non-positive
// visible size leaves the mirror not-ready.
func (m *MirrorViewport) Update(vp Viewport, visible geometry.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vp.Zoom = geometry.Clamp(geometry.Finite(vp.Zoom, 1), MinZoom, MaxZoom)
	vp.X = geometry.Finite(vp.X, 0)
	vp.Y = geometry.Finite(vp.Y, 0)
	m.vp = vp
	m.visible = visible
	m.ready = !visible.IsZero()
}

// Ready reports whether the mirror has received a usable update.
func (m *MirrorViewport) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Viewport returns the mirrored pan/zoom state.
func (m *MirrorViewport) Viewport() Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vp
}

// VisibleSize returns the mirrored visible area in screen pixels.
func (m *MirrorViewport) VisibleSize() geometry.Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

// ScreenToCanvas converts screen pixels to canvas space using the
// mirrored pan/zoom: canvas = viewport_origin + screen/zoom.
func (m *MirrorViewport) ScreenToCanvas(p geometry.Point) geometry.Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	zoom := m.vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Point{
		X: m.vp.X + p.X/zoom,
		Y: m.vp.Y + p.Y/zoom,
	}
}

// SetCenter records a pan request for the frontend.
func (m *MirrorViewport) SetCenter(p geometry.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.pendingCenter = &cp
}

// ConsumeCenter returns and clears the pending pan request, if any.
func (m *MirrorViewport) ConsumeCenter() (geometry.Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingCenter == nil {
		return geometry.Point{}, false
	}
	p := *m.pendingCenter
	m.pendingCenter = nil
	return p, true
}

// FitView is a frontend concern; the mirror records nothing for it.
func (m *MirrorViewport) FitView() {}

// ZoomIn steps the mirrored zoom up by 20%.
func (m *MirrorViewport) ZoomIn() { m.stepZoom(1.2) }

// ZoomOut steps the mirrored zoom down by 20%.
func (m *MirrorViewport) ZoomOut() { m.stepZoom(1 / 1.2) }

func (m *MirrorViewport) stepZoom(factor float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vp.Zoom = geometry.Clamp(m.vp.Zoom*factor, MinZoom, MaxZoom)
}

var _ ViewportController = (*MirrorViewport)(nil)
