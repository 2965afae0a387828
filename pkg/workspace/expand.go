package workspace

import (
	"context"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/observability"
)

// Expansion sizing: the expanded card fills 92% of the visible canvas
// area, holding a 16:9 box so the embedded player keeps its aspect.
const (
	expandFill   = 0.92
	expandAspect = 16.0 / 9.0
)

// ToggleExpand switches a preview card between its normal geometry and a
// near-fullscreen 16:9 box centered in the viewport.
//
// The transition is synchronous and snapshot-based: the card's geometry
// is captured the instant it expands and restored exactly on collapse.
// At most one card is expanded at a time; expanding a second card
// collapses the first before anything else happens.
//
// force re-runs the expand transition even when the card is already
// expanded. The persistence adapter uses this on load, where the stored
// geometry is the collapsed one and the fullscreen rectangle must be
// recomputed against the live viewport.
//
// The call is a safe no-op when the card doesn't exist, isn't preview
// family, or the viewport hasn't mounted or has no visible area: state
// is never half-updated.
func (s *Store) ToggleExpand(ctx context.Context, id string, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.byID(id)
	if node == nil {
		return false
	}

	if s.expandedID == id && !force {
		changed := s.collapseLocked(ctx)
		if changed {
			s.save(ctx)
		}
		return changed
	}

	if !node.Kind.IsPreviewFamily() {
		return false
	}

	target, pos, ok := s.expandTarget()
	if !ok {
		return false
	}

	// Collapsing the previous card takes precedence over expanding the
	// new target, and happens even if both are the same node (force).
	if s.expandedID != "" {
		s.collapseLocked(ctx)
	}

	s.snapshots[id] = Snapshot{
		Position: node.Position,
		Size:     node.Size,
		ZIndex:   node.ZIndex,
	}
	node.Position = pos
	node.Size = target
	node.ZIndex = ZExpanded
	s.expandedID = id

	s.logger.Debug("card expanded", "kind", node.Kind, "size", target)
	observability.Workspace().OnExpand(ctx, string(node.Kind))
	s.save(ctx)
	return true
}

// CollapseIfExpanded restores the expanded card, if any. Exposed for
// external triggers: the card being panned away, the workspace
// switching away, a preview being closed from chat.
func (s *Store) CollapseIfExpanded(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.collapseLocked(ctx) {
		return false
	}
	s.save(ctx)
	return true
}

// expandTarget computes the fullscreen rectangle in canvas space from
// the live viewport. Returns ok=false when the viewport is unusable.
func (s *Store) expandTarget() (size geometry.Size, pos geometry.Point, ok bool) {
	if s.viewport == nil || !s.viewport.Ready() {
		return geometry.Size{}, geometry.Point{}, false
	}
	visible := s.viewport.VisibleSize()
	zoom := s.viewport.Viewport().Zoom
	if visible.IsZero() || zoom <= 0 {
		return geometry.Size{}, geometry.Point{}, false
	}

	bounds := geometry.Size{
		Width:  visible.Width / zoom * expandFill,
		Height: visible.Height / zoom * expandFill,
	}
	size = geometry.FitAspect(bounds, expandAspect)
	if size.IsZero() {
		return geometry.Size{}, geometry.Point{}, false
	}

	center := s.viewport.ScreenToCanvas(geometry.Point{
		X: visible.Width / 2,
		Y: visible.Height / 2,
	})
	pos = geometry.Point{
		X: center.X - size.Width/2,
		Y: center.Y - size.Height/2,
	}
	return size, pos, true
}

// collapseLocked performs the restore branch: put back the snapshot
// geometry, clear the sentinel, delete the snapshot, clear expanded-id.
// Caller holds s.mu and is responsible for persisting.
func (s *Store) collapseLocked(ctx context.Context) bool {
	if s.expandedID == "" {
		return false
	}
	id := s.expandedID

	if node := s.byID(id); node != nil {
		if snap, ok := s.snapshots[id]; ok {
			node.Position = snap.Position
			node.Size = snap.Size
			node.ZIndex = snap.ZIndex
		} else {
			// Reload race: expanded flag restored without a snapshot.
			// Fall back to the catalog default size in place and re-slot
			// into the band.
			node.Size = DefaultSize(node.Kind)
			node.ZIndex = ZUnset
			bringToFront(s.nodes, id, "")
		}
		observability.Workspace().OnCollapse(ctx, string(node.Kind))
	}

	delete(s.snapshots, id)
	s.expandedID = ""
	return true
}
