package workspace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/observability"
	"github.com/castdeck/castdeck/pkg/store"
)

// Durable record keys. Each record is versioned by key name so a schema
// change lands under a fresh key instead of colliding with older data.
const (
	keyNodes    = "workspace:nodes:v2"
	keyViewport = "workspace:viewport:v1"
	keyExpanded = "workspace:expanded:v1"
)

// nodeRecord is the persisted shape of one card.
type nodeRecord struct {
	ID     string  `json:"id" bson:"id"`
	Kind   string  `json:"kind" bson:"kind"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	ZIndex int     `json:"zIndex,omitempty" bson:"z_index,omitempty"`
}

type nodesRecord struct {
	Nodes []nodeRecord `json:"nodes" bson:"nodes"`
}

type expandedRecord struct {
	ExpandedNodeID string `json:"expandedNodeId" bson:"expanded_node_id"`
}

// Persister serializes workspace state to a durable key-value store as
// three independent records: node list, viewport, expanded card id.
//
// Every write is a complete, self-consistent snapshot, never a diff,
// so a crash between a mutation and its write loses at most that delta
// and can never corrupt the stored format. Reads sanitize aggressively:
// malformed JSON, unknown kinds, and non-finite numbers degrade to "no
// persisted state" or safe defaults, never to an error the engine has
// to handle.
type Persister struct {
	kv store.Store
}

// NewPersister wraps a key-value store.
func NewPersister(kv store.Store) *Persister {
	return &Persister{kv: kv}
}

// Save writes the full layout snapshot.
//
// The expanded node is persisted with its collapsed geometry (from its
// snapshot): on restore the expand transition re-runs against the live
// viewport rather than trusting stale fullscreen coordinates. Expansion
// snapshots themselves are never persisted.
func (p *Persister) Save(ctx context.Context, nodes []*Node, snapshots map[string]Snapshot, expandedID string, vp *Viewport) error {
	recs := make([]nodeRecord, 0, len(nodes))
	for _, n := range nodes {
		pos, size, z := n.Position, n.Size, n.ZIndex
		if n.ID == expandedID {
			if snap, ok := snapshots[n.ID]; ok {
				pos, size, z = snap.Position, snap.Size, snap.ZIndex
			}
		}
		recs = append(recs, nodeRecord{
			ID:     n.ID,
			Kind:   string(n.Kind),
			X:      pos.X,
			Y:      pos.Y,
			Width:  size.Width,
			Height: size.Height,
			ZIndex: z,
		})
	}

	if err := p.write(ctx, keyNodes, nodesRecord{Nodes: recs}); err != nil {
		return err
	}
	if err := p.write(ctx, keyExpanded, expandedRecord{ExpandedNodeID: expandedID}); err != nil {
		return err
	}
	if vp != nil {
		if err := p.write(ctx, keyViewport, *vp); err != nil {
			return err
		}
	}
	return nil
}

// LoadNodes reads and sanitizes the persisted node list. Returns
// found=false when nothing usable is stored.
//
// Sanitization at the read boundary:
//   - Kind strings pass through the legacy alias table; unknown kinds drop.
//   - Kind uniqueness is re-enforced (first record wins).
//   - Non-finite coordinates reset to zero; sizes clamp to the kind minimum.
//   - A stale expanded sentinel z-index clears; re-expansion happens
//     through the normal transition, not trusted stored geometry.
//   - Records without an id get a fresh one.
func (p *Persister) LoadNodes(ctx context.Context) ([]*Node, bool) {
	var rec nodesRecord
	if !p.read(ctx, keyNodes, &rec) {
		return nil, false
	}

	seen := make(map[Kind]bool, len(rec.Nodes))
	nodes := make([]*Node, 0, len(rec.Nodes))
	for _, r := range rec.Nodes {
		kind, ok := ParseKind(r.Kind)
		if !ok || seen[kind] {
			continue
		}
		seen[kind] = true

		id := r.ID
		if id == "" {
			id = newNodeID()
		}
		z := r.ZIndex
		if z >= ZExpanded || z < 0 {
			z = ZUnset
		}
		nodes = append(nodes, &Node{
			ID:   id,
			Kind: kind,
			Position: geometry.Point{
				X: geometry.Finite(r.X, 0),
				Y: geometry.Finite(r.Y, 0),
			},
			Size: geometry.MaxSize(geometry.Size{
				Width:  geometry.Finite(r.Width, 0),
				Height: geometry.Finite(r.Height, 0),
			}, MinSize(kind)),
			ZIndex: z,
		})
	}
	return nodes, true
}

// LoadViewport reads the persisted viewport, zoom clamped to the legal
// range. Returns found=false when nothing usable is stored.
func (p *Persister) LoadViewport(ctx context.Context) (Viewport, bool) {
	var vp Viewport
	if !p.read(ctx, keyViewport, &vp) {
		return Viewport{}, false
	}
	vp.X = geometry.Finite(vp.X, 0)
	vp.Y = geometry.Finite(vp.Y, 0)
	vp.Zoom = geometry.Clamp(geometry.Finite(vp.Zoom, 1), MinZoom, MaxZoom)
	return vp, true
}

// LoadExpanded reads the persisted expanded card id, or "".
func (p *Persister) LoadExpanded(ctx context.Context) string {
	var rec expandedRecord
	if !p.read(ctx, keyExpanded, &rec) {
		return ""
	}
	return rec.ExpandedNodeID
}

// Clear deletes all persisted workspace records.
func (p *Persister) Clear(ctx context.Context) error {
	for _, key := range []string{keyNodes, keyViewport, keyExpanded} {
		if err := p.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (p *Persister) write(ctx context.Context, key string, v any) error {
	start := time.Now()
	data, err := json.Marshal(v)
	if err == nil {
		err = p.kv.Set(ctx, key, data)
	}
	observability.Store().OnSave(ctx, key, len(data), time.Since(start), err)
	return err
}

// read unmarshals a record, reporting false on every failure mode:
// missing key, backend error, malformed JSON. Degrading to "no persisted
// state" is the contract; reads never throw.
func (p *Persister) read(ctx context.Context, key string, v any) bool {
	start := time.Now()
	data, found, err := p.kv.Get(ctx, key)
	if err == nil && found {
		err = json.Unmarshal(data, v)
	}
	ok := err == nil && found
	observability.Store().OnLoad(ctx, key, ok, time.Since(start), err)
	return ok
}
