package workspace

import (
	"context"
	"testing"

	"github.com/castdeck/castdeck/pkg/geometry"
	"github.com/castdeck/castdeck/pkg/store"
)

type recordingDisconnector struct {
	channels []string
}

func (d *recordingDisconnector) DisconnectChannel(channel string) {
	d.channels = append(d.channels, channel)
}

// newTestStore builds a store with a mounted 1280x720 viewport at zoom 1
// and in-memory persistence.
func newTestStore(t *testing.T) (*Store, *MirrorViewport, *Persister) {
	t.Helper()
	vp := readyViewport()
	p := NewPersister(store.NewMemoryStore())
	s := New(Options{Viewport: vp, Persist: p})
	return s, vp, p
}

func TestAddCardUniqueness(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	first, created := s.AddCard(ctx, KindGeneralBasic)
	if !created {
		t.Fatal("AddCard failed")
	}
	second, created := s.AddCard(ctx, KindGeneralBasic)
	if created {
		t.Error("duplicate AddCard reported a new card")
	}
	if first.ID != second.ID {
		t.Errorf("duplicate add created a new node: %s != %s", first.ID, second.ID)
	}
	if len(s.Nodes()) != 1 {
		t.Errorf("node count = %d, want 1", len(s.Nodes()))
	}

	// Property over a longer sequence: at most one node per kind.
	kinds := []Kind{
		KindChatSettings, KindChatSettings, PreviewKind("alice"),
		KindChatSettings, PreviewKind("alice"), PreviewKind("bob"),
		KindGeneralBasic,
	}
	for _, k := range kinds {
		s.AddCard(ctx, k)
	}
	seen := map[Kind]int{}
	for _, n := range s.Nodes() {
		seen[n.Kind]++
	}
	for k, count := range seen {
		if count > 1 {
			t.Errorf("kind %q appears %d times", k, count)
		}
	}
}

func TestAddCardEmptyWorkspacePlacesAtOrigin(t *testing.T) {
	// Scenario: first card in an empty workspace lands exactly on the
	// derived origin, no search displacement.
	ctx := context.Background()
	s, vp, _ := newTestStore(t)

	n, _ := s.AddCard(ctx, KindGeneralBasic)
	want := SpawnOrigin(KindGeneralBasic, DefaultSize(KindGeneralBasic), nil, 0, vp)
	if n.Position != want {
		t.Errorf("pos = %+v, want origin %+v", n.Position, want)
	}
	if n.Size != (geometry.Size{Width: 500, Height: 400}) {
		t.Errorf("size = %+v, want 500x400", n.Size)
	}
}

func TestAddCardAvoidsExistingCard(t *testing.T) {
	// Scenario: a preview added over an occupied origin is pushed clear
	// of the existing card's bounds plus the spawn margin.
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddCard(ctx, KindMainPreview)
	existing, _ := s.NodeByKind(KindMainPreview)

	added, _ := s.AddCard(ctx, PreviewKind("alice"))
	probe := geometry.RectAt(added.Position, added.Size).Expand(SpawnMargin)
	if probe.Overlaps(existing.Rect()) {
		t.Errorf("new card at %+v overlaps existing at %+v", added.Position, existing.Position)
	}
}

func TestAddPreviewJoinsBandInFront(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddCard(ctx, PreviewKind("alice"))
	s.AddCard(ctx, PreviewKind("bob"))

	alice, _ := s.NodeByKind(PreviewKind("alice"))
	bob, _ := s.NodeByKind(PreviewKind("bob"))
	if bob.ZIndex <= alice.ZIndex {
		t.Errorf("new preview z=%d should front existing z=%d", bob.ZIndex, alice.ZIndex)
	}

	// Ordinary cards stay out of the band.
	s.AddCard(ctx, KindChatSettings)
	chat, _ := s.NodeByKind(KindChatSettings)
	if chat.ZIndex != ZUnset {
		t.Errorf("ordinary card z = %d, want unset", chat.ZIndex)
	}
}

func TestAddPreviewInheritsSiblingSize(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddCard(ctx, PreviewKind("alice"))
	alice, _ := s.NodeByKind(PreviewKind("alice"))
	s.ResizeCard(ctx, alice.ID, 800, 460)

	bob, _ := s.AddCard(ctx, PreviewKind("bob"))
	if bob.Size != (geometry.Size{Width: 800, Height: 460}) {
		t.Errorf("inherited size = %+v, want 800x460", bob.Size)
	}

	// Non-preview cards keep their catalog default.
	chat, _ := s.AddCard(ctx, KindChatSettings)
	if chat.Size != DefaultSize(KindChatSettings) {
		t.Errorf("chat size = %+v, want catalog default", chat.Size)
	}
}

func TestRemoveCardRecordsLastPosition(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	n, _ := s.AddCard(ctx, KindChatSettings)
	s.MoveCard(ctx, n.ID, 940, 280)

	if !s.RemoveCard(ctx, n.ID, false) {
		t.Fatal("RemoveCard failed")
	}
	if len(s.Nodes()) != 0 {
		t.Fatal("node not removed")
	}

	last, ok := s.LastPosition(KindChatSettings)
	if !ok || last != (geometry.Point{X: 940, Y: 280}) {
		t.Errorf("last position = %+v ok=%v, want 940,280", last, ok)
	}

	// Re-adding the kind re-seeds the spawn search at the remembered spot.
	again, _ := s.AddCard(ctx, KindChatSettings)
	if again.Position != (geometry.Point{X: 940, Y: 280}) {
		t.Errorf("respawn pos = %+v, want remembered 940,280", again.Position)
	}
}

func TestRemoveCardDisconnectDecision(t *testing.T) {
	ctx := context.Background()
	vp := readyViewport()
	d := &recordingDisconnector{}
	s := New(Options{Viewport: vp, Disconnector: d})

	alice, _ := s.AddCard(ctx, PreviewKind("alice"))
	bob, _ := s.AddCard(ctx, PreviewKind("bob"))
	main, _ := s.AddCard(ctx, KindMainPreview)

	// disconnect=false: collaborator untouched.
	s.RemoveCard(ctx, alice.ID, false)
	if len(d.channels) != 0 {
		t.Errorf("disconnects = %v, want none", d.channels)
	}

	// disconnect=true on a channel preview: collaborator signaled.
	s.RemoveCard(ctx, bob.ID, true)
	if len(d.channels) != 1 || d.channels[0] != "bob" {
		t.Errorf("disconnects = %v, want [bob]", d.channels)
	}

	// disconnect=true on the main preview: not a channel subscription.
	s.RemoveCard(ctx, main.ID, true)
	if len(d.channels) != 1 {
		t.Errorf("disconnects = %v, main preview must not disconnect", d.channels)
	}
}

func TestResizeCardClampsAndSnaps(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	n, _ := s.AddCard(ctx, PreviewKind("alice"))

	// Below minimum: clamps to the player-safe floor.
	s.ResizeCard(ctx, n.ID, 10, 10)
	got, _ := s.Node(n.ID)
	if got.Size != MinSize(n.Kind) {
		t.Errorf("size = %+v, want min %+v", got.Size, MinSize(n.Kind))
	}

	// Free-form resize snaps to the grid.
	s.ResizeCard(ctx, n.ID, 813, 466)
	got, _ = s.Node(n.ID)
	if got.Size != (geometry.Size{Width: 820, Height: 460}) {
		t.Errorf("size = %+v, want snapped 820x460", got.Size)
	}

	// Unchanged resolved size is a no-op (no write, no churn).
	if s.ResizeCard(ctx, n.ID, 821, 459) {
		t.Error("resize resolving to the same size should report false")
	}
}

func TestMoveCardSnapsAndSkipsNoops(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	n, _ := s.AddCard(ctx, KindGeneralBasic)
	if !s.MoveCard(ctx, n.ID, 101, 99) {
		t.Fatal("MoveCard failed")
	}
	got, _ := s.Node(n.ID)
	if got.Position != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("pos = %+v, want snapped 100,100", got.Position)
	}
	if s.MoveCard(ctx, n.ID, 100, 100) {
		t.Error("move to the same position should report false")
	}
	if s.MoveCard(ctx, "ghost", 0, 0) {
		t.Error("move of unknown id should report false")
	}
}

func TestTransientFlags(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	n, _ := s.AddCard(ctx, KindGeneralBasic)
	if !s.SetSelected(n.ID, true) || s.SetSelected(n.ID, true) {
		t.Error("SetSelected should change once then no-op")
	}
	if !s.SetDragging(n.ID, true) {
		t.Error("SetDragging failed")
	}
	got, _ := s.Node(n.ID)
	if !got.Selected || !got.Dragging {
		t.Errorf("flags = %+v, want selected+dragging", got)
	}
}

func TestNodesReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddCard(ctx, KindGeneralBasic)
	leak := s.Nodes()[0]
	leak.Position.X = -99999

	kept, _ := s.NodeByKind(KindGeneralBasic)
	if kept.Position.X == -99999 {
		t.Error("Nodes() aliases internal state")
	}
}

func TestCommandsRouteToStore(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddCard(ctx, PreviewKind("alice"))
	alice, _ := s.NodeByKind(PreviewKind("alice"))
	s.AddCard(ctx, PreviewKind("bob"))

	cmds := s.Commands(ctx, alice.ID)
	cmds.BringToFront()
	fronted, _ := s.Node(alice.ID)
	bob, _ := s.NodeByKind(PreviewKind("bob"))
	if fronted.ZIndex <= bob.ZIndex {
		t.Errorf("alice z=%d should front bob z=%d", fronted.ZIndex, bob.ZIndex)
	}

	cmds.ToggleExpand()
	if s.ExpandedID() != alice.ID {
		t.Error("ToggleExpand command did not expand")
	}

	cmds.Remove(false)
	if _, ok := s.Node(alice.ID); ok {
		t.Error("Remove command did not remove")
	}
}
