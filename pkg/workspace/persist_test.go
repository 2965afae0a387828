package workspace

import (
	"context"
	"testing"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/store"
)

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	vp := readyViewport()
	s := New(Options{Viewport: vp, Persist: p})

	s.AddCard(ctx, KindGeneralBasic)
	s.AddCard(ctx, PreviewKind("alice"))
	before := s.Nodes()

	// A fresh store over the same KV reproduces the layout.
	s2 := New(Options{Viewport: readyViewport(), Persist: p})
	s2.Load(ctx)
	after := s2.Nodes()

	if len(after) != len(before) {
		t.Fatalf("restored %d nodes, want %d", len(after), len(before))
	}
	byKind := map[Kind]*Node{}
	for _, n := range after {
		byKind[n.Kind] = n
	}
	for _, want := range before {
		got, ok := byKind[want.Kind]
		if !ok {
			t.Fatalf("kind %q missing after restore", want.Kind)
		}
		if got.Position != want.Position || got.Size != want.Size {
			t.Errorf("kind %q: got %+v/%+v, want %+v/%+v",
				want.Kind, got.Position, got.Size, want.Position, want.Size)
		}
	}
}

func TestPersistExpandedStoresCollapsedGeometry(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	s := New(Options{Viewport: readyViewport(), Persist: p})

	n, _ := s.AddCard(ctx, PreviewKind("alice"))
	s.MoveCard(ctx, n.ID, 240, 180)
	collapsed, _ := s.Node(n.ID)
	s.ToggleExpand(ctx, n.ID, false)

	// The stored record carries the collapsed geometry, not the live
	// fullscreen rectangle.
	nodes, found := p.LoadNodes(ctx)
	if !found || len(nodes) != 1 {
		t.Fatalf("LoadNodes = %d found=%v", len(nodes), found)
	}
	if nodes[0].Position != collapsed.Position || nodes[0].Size != collapsed.Size {
		t.Errorf("stored geometry = %+v/%+v, want collapsed %+v/%+v",
			nodes[0].Position, nodes[0].Size, collapsed.Position, collapsed.Size)
	}
	if nodes[0].ZIndex == ZExpanded {
		t.Error("stored z-index carries the sentinel")
	}
	if p.LoadExpanded(ctx) != n.ID {
		t.Error("expanded id not stored")
	}
}

func TestLoadReExpandsThroughTransition(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	s := New(Options{Viewport: readyViewport(), Persist: p})

	n, _ := s.AddCard(ctx, PreviewKind("alice"))
	collapsed, _ := s.Node(n.ID)
	s.ToggleExpand(ctx, n.ID, false)

	s2 := New(Options{Viewport: readyViewport(), Persist: p})
	s2.Load(ctx)
	if s2.ExpandedID() != n.ID {
		t.Fatal("expanded state not restored")
	}
	got, _ := s2.Node(n.ID)
	if got.ZIndex != ZExpanded {
		t.Errorf("restored z = %d, want sentinel", got.ZIndex)
	}

	// Collapsing after the restore lands back on the collapsed geometry.
	s2.ToggleExpand(ctx, n.ID, false)
	got, _ = s2.Node(n.ID)
	if got.Position != collapsed.Position || got.Size != collapsed.Size {
		t.Errorf("collapse after restore = %+v/%+v, want %+v/%+v",
			got.Position, got.Size, collapsed.Position, collapsed.Size)
	}
}

func TestLoadWithUnmountedViewportStaysCollapsed(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	s := New(Options{Viewport: readyViewport(), Persist: p})
	n, _ := s.AddCard(ctx, PreviewKind("alice"))
	s.ToggleExpand(ctx, n.ID, false)

	// No canvas mounted on the next boot: the card restores collapsed,
	// nothing corrupts.
	s2 := New(Options{Persist: p})
	s2.Load(ctx)
	if s2.ExpandedID() != "" {
		t.Error("expand must not re-run without a viewport")
	}
	got, _ := s2.Node(n.ID)
	if got.ZIndex == ZExpanded {
		t.Error("sentinel restored without the transition")
	}
}

func TestLoadDropsOrphanExpandedID(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)

	// Expanded id pointing at a card that no longer exists.
	kv.Set(ctx, keyNodes, []byte(`{"nodes":[]}`))
	kv.Set(ctx, keyExpanded, []byte(`{"expandedNodeId":"ghost"}`))

	s := New(Options{Viewport: readyViewport(), Persist: p})
	s.Load(ctx)
	if s.ExpandedID() != "" {
		t.Error("orphan expanded id should be dropped")
	}
}

func TestLoadSanitizesRecords(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)

	kv.Set(ctx, keyNodes, []byte(`{"nodes":[
		{"id":"a","kind":"general-basic","x":10,"y":20,"width":500,"height":400},
		{"id":"b","kind":"weather-widget","x":0,"y":0,"width":100,"height":100},
		{"id":"c","kind":"stream-preview","x":5,"y":5,"width":50,"height":50},
		{"id":"d","kind":"general-basic","x":99,"y":99,"width":500,"height":400},
		{"kind":"chat-settings","x":1,"y":2,"width":400,"height":300,"zIndex":5000}
	]}`))

	nodes, found := p.LoadNodes(ctx)
	if !found {
		t.Fatal("LoadNodes should succeed")
	}
	if len(nodes) != 3 {
		t.Fatalf("node count = %d, want 3 (unknown kind and duplicate dropped)", len(nodes))
	}

	byKind := map[Kind]*Node{}
	for _, n := range nodes {
		byKind[n.Kind] = n
	}
	if _, ok := byKind[Kind("weather-widget")]; ok {
		t.Error("unknown kind survived the read boundary")
	}
	// Legacy alias remapped, undersized geometry clamped to the minimum.
	mp, ok := byKind[KindMainPreview]
	if !ok {
		t.Fatal("legacy stream-preview not remapped to main-preview")
	}
	if mp.Size != MinSize(KindMainPreview) {
		t.Errorf("clamped size = %+v, want %+v", mp.Size, MinSize(KindMainPreview))
	}
	// First general-basic wins; duplicate dropped.
	if gb := byKind[KindGeneralBasic]; gb.ID != "a" {
		t.Errorf("duplicate resolution kept %q, want first record", gb.ID)
	}
	// Missing id minted, stale sentinel z cleared.
	cs := byKind[KindChatSettings]
	if cs.ID == "" {
		t.Error("missing id not minted")
	}
	if cs.ZIndex != ZUnset {
		t.Errorf("stale sentinel z = %d, want cleared", cs.ZIndex)
	}
}

func TestLoadMalformedDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)

	kv.Set(ctx, keyNodes, []byte(`{not json`))
	kv.Set(ctx, keyViewport, []byte(`"zoom"`))

	if nodes, found := p.LoadNodes(ctx); found || nodes != nil {
		t.Error("malformed node record should read as no persisted state")
	}
	if _, found := p.LoadViewport(ctx); found {
		t.Error("malformed viewport record should read as no persisted state")
	}

	// A store loading from the corrupt KV comes up empty but usable.
	s := New(Options{Viewport: readyViewport(), Persist: p})
	s.Load(ctx)
	if len(s.Nodes()) != 0 {
		t.Error("corrupt state should yield an empty workspace")
	}
	if _, ok := s.AddCard(ctx, KindGeneralBasic); !ok {
		t.Error("store unusable after corrupt load")
	}
}

func TestLoadViewportClampsZoom(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)

	kv.Set(ctx, keyViewport, []byte(`{"x":50,"y":-20,"zoom":9.5}`))
	vp, found := p.LoadViewport(ctx)
	if !found {
		t.Fatal("viewport should load")
	}
	if vp.Zoom != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", vp.Zoom, MaxZoom)
	}

	kv.Set(ctx, keyViewport, []byte(`{"x":0,"y":0,"zoom":0.01}`))
	vp, _ = p.LoadViewport(ctx)
	if vp.Zoom != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", vp.Zoom, MinZoom)
	}
}

func TestPersisterClear(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	s := New(Options{Viewport: readyViewport(), Persist: p})

	s.AddCard(ctx, KindGeneralBasic)
	if kv.Len() == 0 {
		t.Fatal("nothing persisted")
	}
	if err := p.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := p.LoadNodes(ctx); found {
		t.Error("records survive Clear")
	}
}

func TestViewportPersistedWithLayout(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	p := NewPersister(kv)
	mirror := NewMirrorViewport()
	mirror.Update(Viewport{X: 33, Y: 44, Zoom: 1.5}, geometry.Size{Width: 800, Height: 600})
	s := New(Options{Viewport: mirror, Persist: p})

	s.AddCard(ctx, KindGeneralBasic)

	vp, found := p.LoadViewport(ctx)
	if !found {
		t.Fatal("viewport not persisted with the layout snapshot")
	}
	if vp != (Viewport{X: 33, Y: 44, Zoom: 1.5}) {
		t.Errorf("viewport = %+v", vp)
	}
}
