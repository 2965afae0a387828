// Package workspace implements the canvas layout engine of the castdeck
// control surface: the card catalog, collision-free spawn placement,
// z-order banding, the expand/collapse state machine, and layout
// persistence.
//
// The Store owns the authoritative node list. All mutations go through
// its methods and are atomic: a mutation reads, modifies, and writes the
// list under one lock acquisition, then persists a complete layout
// snapshot. Card content, the pan/zoom canvas, and channel connections
// are external collaborators injected at construction.
package workspace

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/observability"
)

// Options configures a Store. Zero-value fields get safe defaults:
// no persistence, no viewport (placement falls back to a static origin,
// expand becomes a no-op), the default logger, and the standard grid.
type Options struct {
	// Viewport is the canvas collaborator. May be nil until a canvas mounts.
	Viewport ViewportController

	// Persist is the layout persistence adapter. Nil disables persistence.
	Persist *Persister

	// Disconnector is notified when a channel preview is removed with
	// disconnect requested. May be nil.
	Disconnector ChannelDisconnector

	// Logger for mutation tracing. Defaults to log.Default().
	Logger *log.Logger

	// Grid is the snap grid in canvas units. Defaults to GridSize;
	// negative disables snapping.
	Grid float64
}

// Store is the authoritative in-memory workspace layout.
type Store struct {
	mu sync.Mutex

	nodes      []*Node
	expandedID string
	snapshots  map[string]Snapshot     // node id -> pre-expansion geometry; exists iff expanded
	lastPos    map[Kind]geometry.Point // last position per kind, survives removal

	viewport     ViewportController
	persist      *Persister
	disconnector ChannelDisconnector
	logger       *log.Logger
	grid         float64
}

// New creates an empty workspace store.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	grid := opts.Grid
	if grid == 0 {
		grid = GridSize
	}
	return &Store{
		snapshots:    make(map[string]Snapshot),
		lastPos:      make(map[Kind]geometry.Point),
		viewport:     opts.Viewport,
		persist:      opts.Persist,
		disconnector: opts.Disconnector,
		logger:       logger,
		grid:         grid,
	}
}

// =============================================================================
// Read Surface
// =============================================================================

// Nodes returns a deep copy of the node list in insertion order.
func (s *Store) Nodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNodes(s.nodes)
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.byID(id); n != nil {
		return *n, true
	}
	return Node{}, false
}

// NodeByKind returns a copy of the node with the given kind.
func (s *Store) NodeByKind(kind Kind) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.byKind(kind); n != nil {
		return *n, true
	}
	return Node{}, false
}

// ExpandedID returns the id of the expanded node, or "".
func (s *Store) ExpandedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expandedID
}

// LastPosition returns the remembered position for a kind, if any.
func (s *Store) LastPosition(kind Kind) (geometry.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lastPos[kind]
	return p, ok
}

// =============================================================================
// Mutation Surface
// =============================================================================

// AddCard adds a card of the given kind and returns a copy of its node
// plus whether a new card was created.
//
// Adding a kind that is already present is a no-op returning the existing
// node with created=false: kind uniqueness is the store's hard invariant.
// New preview cards inherit the size of the preview the user most
// recently worked with and are brought to the front of the band.
func (s *Store) AddCard(ctx context.Context, kind Kind) (Node, bool) {
	if kind == "" {
		return Node{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.byKind(kind); existing != nil {
		return *existing, false
	}

	// An incoming preview takes the stage: whatever is expanded
	// collapses before the normal add proceeds.
	if kind.IsPreviewFamily() && s.expandedID != "" {
		s.collapseLocked(ctx)
	}

	size := DefaultSize(kind)
	if kind.IsPreviewFamily() {
		// Match the size the user has been working with.
		if sib := frontPreview(s.nodes, s.expandedID); sib != nil {
			size = sib.Size
		}
	}

	origin := SpawnOrigin(kind, size, s.lastPos, len(s.nodes), s.viewport)
	pos, attempts, exhausted := findSpawn(size, origin, s.nodes)
	observability.Workspace().OnSpawnSearch(ctx, string(kind), attempts, exhausted)

	node := &Node{
		ID:       newNodeID(),
		Kind:     kind,
		Position: pos,
		Size:     size,
	}
	s.nodes = append(s.nodes, node)

	if kind.IsPreviewFamily() {
		bringToFront(s.nodes, node.ID, s.expandedID)
	}

	s.logger.Debug("card added", "kind", kind, "pos", pos, "attempts", attempts)
	observability.Workspace().OnCardAdded(ctx, string(kind), len(s.nodes))
	s.save(ctx)
	return *node, true
}

// RemoveCard deletes a card. The expanded card is collapsed first so the
// remembered last position is its restored geometry. For channel
// previews, disconnect asks the channel-connection collaborator to drop
// the chat subscription; the engine never infers that decision.
func (s *Store) RemoveCard(ctx context.Context, id string, disconnect bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.byID(id)
	if node == nil {
		return false
	}

	if s.expandedID == id {
		s.collapseLocked(ctx)
	}
	delete(s.snapshots, id)

	s.lastPos[node.Kind] = node.Position

	for i, n := range s.nodes {
		if n.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}

	if disconnect && node.Kind.IsChannelPreview() && s.disconnector != nil {
		s.disconnector.DisconnectChannel(node.Kind.Channel())
	}

	s.logger.Debug("card removed", "kind", node.Kind)
	observability.Workspace().OnCardRemoved(ctx, string(node.Kind), len(s.nodes))
	s.save(ctx)
	return true
}

// ResizeCard sets a card's size, clamped to the kind's minimum and
// snapped to the grid. Returns false when the card doesn't exist or the
// resolved size is unchanged (no persistence write, no re-render churn).
func (s *Store) ResizeCard(ctx context.Context, id string, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.byID(id)
	if node == nil {
		return false
	}

	size := geometry.Size{
		Width:  geometry.Finite(width, node.Size.Width),
		Height: geometry.Finite(height, node.Size.Height),
	}
	size = geometry.SnapSize(size, s.grid)
	size = geometry.MaxSize(size, MinSize(node.Kind))
	if size == node.Size {
		return false
	}

	node.Size = size
	s.save(ctx)
	return true
}

// MoveCard sets a card's position, snapped to the grid. Returns false
// when the card doesn't exist or the resolved position is unchanged.
func (s *Store) MoveCard(ctx context.Context, id string, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.byID(id)
	if node == nil {
		return false
	}

	pos := geometry.Point{
		X: geometry.Snap(geometry.Finite(x, node.Position.X), s.grid),
		Y: geometry.Snap(geometry.Finite(y, node.Position.Y), s.grid),
	}
	if pos == node.Position {
		return false
	}

	node.Position = pos
	s.save(ctx)
	return true
}

// SetSelected updates a card's transient selection flag. Selection is
// never persisted, so no store write happens.
func (s *Store) SetSelected(id string, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.byID(id)
	if node == nil || node.Selected == selected {
		return false
	}
	node.Selected = selected
	return true
}

// SetDragging updates a card's transient drag flag. Never persisted.
func (s *Store) SetDragging(id string, dragging bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.byID(id)
	if node == nil || node.Dragging == dragging {
		return false
	}
	node.Dragging = dragging
	return true
}

// BringToFront raises a preview card above its siblings. No-op for
// non-preview cards, unknown ids, and cards already on top; only actual
// changes persist.
func (s *Store) BringToFront(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !bringToFront(s.nodes, id, s.expandedID) {
		return false
	}
	if n := s.byID(id); n != nil {
		observability.Workspace().OnFront(ctx, string(n.Kind))
	}
	s.save(ctx)
	return true
}

// Commands builds the callback bundle handed to a card's content through
// the render bridge, keeping the dependency direction inward-only.
func (s *Store) Commands(ctx context.Context, id string) CardCommands {
	return CardCommands{
		BringToFront: func() { s.BringToFront(ctx, id) },
		ToggleExpand: func() { s.ToggleExpand(ctx, id, false) },
		Remove:       func(disconnect bool) { s.RemoveCard(ctx, id, disconnect) },
	}
}

// PersistViewport writes the current viewport state to durable storage.
// Called by the frontend sync path after the canvas pans or zooms.
func (s *Store) PersistViewport(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx)
}

// Load replaces the in-memory layout with the persisted one and returns
// the persisted viewport for the caller to seed the canvas with.
//
// An expanded card recorded in stored state is restored by re-running
// the expand transition against the live viewport. If the viewport
// hasn't mounted yet the card simply stays collapsed; stored fullscreen
// geometry is never trusted. An expanded id pointing at a card that no
// longer exists is dropped (orphan reconciliation).
func (s *Store) Load(ctx context.Context) (Viewport, bool) {
	if s.persist == nil {
		return Viewport{}, false
	}

	s.mu.Lock()
	if nodes, found := s.persist.LoadNodes(ctx); found {
		s.nodes = nodes
	}
	s.expandedID = ""
	s.snapshots = make(map[string]Snapshot)
	expanded := s.persist.LoadExpanded(ctx)
	if expanded != "" && s.byID(expanded) == nil {
		expanded = ""
	}
	s.mu.Unlock()

	if expanded != "" {
		s.ToggleExpand(ctx, expanded, true)
	}
	return s.persist.LoadViewport(ctx)
}

// =============================================================================
// Internal helpers (callers hold s.mu)
// =============================================================================

func (s *Store) byID(id string) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Store) byKind(kind Kind) *Node {
	for _, n := range s.nodes {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

// save persists a complete layout snapshot. Fire-and-forget: failures
// are logged, never propagated. A lost write costs at most the latest
// delta, and the next write carries the full state again.
func (s *Store) save(ctx context.Context) {
	if s.persist == nil {
		return
	}
	var vp *Viewport
	if s.viewport != nil && s.viewport.Ready() {
		v := s.viewport.Viewport()
		vp = &v
	}
	if err := s.persist.Save(ctx, s.nodes, s.snapshots, s.expandedID, vp); err != nil {
		s.logger.Warn("persist layout", "err", err)
	}
}
