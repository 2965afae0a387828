package workspace

import (
	"github.com/google/uuid"

	"github.com/castdeck/castdeck/pkg/geometry"
)

// Z-order constants. Preview-family cards are assigned z-indices inside
// [ZBandMin, ZBandMax] so they stack above ordinary cards, which keep
// the canvas's natural ordering (ZUnset). The expanded card renders
// above everything via ZExpanded.
const (
	// ZUnset means the node has no explicit z-index and falls back to
	// the canvas's natural document order.
	ZUnset = 0

	// ZBandMin and ZBandMax bound the preview card stacking band.
	ZBandMin = 100
	ZBandMax = 199

	// ZExpanded is the reserved sentinel for the single expanded card.
	// Strictly greater than ZBandMax.
	ZExpanded = 1000
)

// Node is one movable, resizable card on the workspace canvas.
//
// A node's ID is opaque and stable for its lifetime; its Kind is its
// identity for uniqueness. Position and Size are in canvas space.
// Size is always at least MinSize(Kind).
type Node struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"kind"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`

	// ZIndex is ZUnset for ordinary cards, a band value for preview
	// cards, or ZExpanded for the single expanded card.
	ZIndex int `json:"zIndex,omitempty"`

	// Transient pointer-interaction flags. Never persisted.
	Selected bool `json:"-"`
	Dragging bool `json:"-"`
}

// Rect returns the node's bounding box.
func (n *Node) Rect() geometry.Rect {
	return geometry.RectAt(n.Position, n.Size)
}

// Snapshot is the saved pre-expansion geometry of a card. It exists if
// and only if its node is the currently expanded node, and is consumed
// exactly once on collapse.
type Snapshot struct {
	Position geometry.Point
	Size     geometry.Size
	ZIndex   int
}

// newNodeID mints an opaque node identifier.
func newNodeID() string {
	return uuid.NewString()
}

// cloneNodes deep-copies a node slice so readers never alias store state.
func cloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		cp := *n
		out[i] = &cp
	}
	return out
}
