// Package render produces static snapshots of a workspace layout. The
// only sink is SVG: it is resolution independent, diffs cleanly, and
// needs no native rasterizer.
package render

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/workspace"
)

const (
	framePadding = 40
	cornerRadius = 10
	titleBarH    = 28
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	viewport *viewportFrame
	dark     bool
}

type viewportFrame struct {
	vp      workspace.Viewport
	visible geometry.Size
}

// WithViewportFrame overlays the visible canvas region as a dashed
// outline so an exported snapshot shows what the user actually saw.
func WithViewportFrame(vp workspace.Viewport, visible geometry.Size) SVGOption {
	return func(r *svgRenderer) { r.viewport = &viewportFrame{vp: vp, visible: visible} }
}

// WithDarkTheme switches to the dark palette used by the app shell.
func WithDarkTheme() SVGOption { return func(r *svgRenderer) { r.dark = true } }

type palette struct {
	background string
	cardFill   string
	cardStroke string
	titleFill  string
	titleText  string
	expanded   string
	frame      string
}

var (
	lightPalette = palette{
		background: "#f4f4f5",
		cardFill:   "#ffffff",
		cardStroke: "#d4d4d8",
		titleFill:  "#e4e4e7",
		titleText:  "#27272a",
		expanded:   "#7c3aed",
		frame:      "#a1a1aa",
	}
	darkPalette = palette{
		background: "#18181b",
		cardFill:   "#27272a",
		cardStroke: "#3f3f46",
		titleFill:  "#3f3f46",
		titleText:  "#e4e4e7",
		expanded:   "#a78bfa",
		frame:      "#71717a",
	}
)

// RenderSVG draws every card at its canvas position, stacked in z
// order. Output is deterministic for a given layout.
func RenderSVG(nodes []*workspace.Node, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	pal := lightPalette
	if r.dark {
		pal = darkPalette
	}

	stacked := stackOrder(nodes)
	frame := frameRect(stacked, r.viewport)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.X, frame.Y, frame.Width, frame.Height, frame.Width, frame.Height)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		frame.X, frame.Y, frame.Width, frame.Height, pal.background)

	for _, n := range stacked {
		renderCard(&buf, n, pal)
	}
	if r.viewport != nil {
		renderViewportFrame(&buf, r.viewport, pal)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// stackOrder sorts bottom to top so later elements paint over earlier
// ones, matching the canvas stacking contract.
func stackOrder(nodes []*workspace.Node) []*workspace.Node {
	stacked := slices.Clone(nodes)
	slices.SortFunc(stacked, func(a, b *workspace.Node) int {
		if c := cmp.Compare(a.ZIndex, b.ZIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return stacked
}

func frameRect(nodes []*workspace.Node, frame *viewportFrame) geometry.Rect {
	if len(nodes) == 0 && frame == nil {
		return geometry.Rect{Width: 2 * framePadding, Height: 2 * framePadding}
	}

	var bounds geometry.Rect
	first := true
	include := func(rc geometry.Rect) {
		if first {
			bounds = rc
			first = false
			return
		}
		bounds = bounds.Union(rc)
	}
	for _, n := range nodes {
		include(n.Rect())
	}
	if frame != nil {
		include(canvasRegion(frame))
	}
	return bounds.Expand(framePadding)
}

// canvasRegion maps the on-screen viewport back to canvas coordinates.
func canvasRegion(f *viewportFrame) geometry.Rect {
	zoom := f.vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Rect{
		X:      f.vp.X,
		Y:      f.vp.Y,
		Width:  f.visible.Width / zoom,
		Height: f.visible.Height / zoom,
	}
}

func renderCard(buf *bytes.Buffer, n *workspace.Node, pal palette) {
	rc := n.Rect()
	stroke := pal.cardStroke
	strokeW := 1.0
	if n.ZIndex == workspace.ZExpanded {
		stroke = pal.expanded
		strokeW = 2.5
	}

	fmt.Fprintf(buf, `  <g id="card-%s">`+"\n", html.EscapeString(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		rc.X, rc.Y, rc.Width, rc.Height, cornerRadius, pal.cardFill, stroke, strokeW)

	// Title bar, clipped to the card's rounded top corners by drawing
	// it slightly inset.
	barH := titleBarH
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%d" rx="%d" fill="%s"/>`+"\n",
		rc.X+1, rc.Y+1, rc.Width-2, barH, cornerRadius-1, pal.titleFill)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="13" fill="%s">%s</text>`+"\n",
		rc.X+12, rc.Y+float64(barH)-9, pal.titleText, html.EscapeString(workspace.Title(n.Kind)))
	buf.WriteString("  </g>\n")
}

func renderViewportFrame(buf *bytes.Buffer, f *viewportFrame, pal palette) {
	rc := canvasRegion(f)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="8 6"/>`+"\n",
		rc.X, rc.Y, rc.Width, rc.Height, pal.frame)
}
