package workspace

import (
	"fmt"
	"testing"

	"github.com/castdeck/castdeck/pkg/geometry"
)

func nodeAt(kind Kind, x, y, w, h float64) *Node {
	return &Node{
		ID:       string(kind) + "-node",
		Kind:     kind,
		Position: geometry.Point{X: x, Y: y},
		Size:     geometry.Size{Width: w, Height: h},
	}
}

func readyViewport() *MirrorViewport {
	vp := NewMirrorViewport()
	vp.Update(Viewport{X: 0, Y: 0, Zoom: 1}, geometry.Size{Width: 1280, Height: 720})
	return vp
}

func TestSpawnEmptyWorkspace(t *testing.T) {
	// Empty workspace: the derived origin is free, no search happens.
	size := DefaultSize(KindGeneralBasic)
	origin := SpawnOrigin(KindGeneralBasic, size, nil, 0, readyViewport())

	pos, attempts, exhausted := findSpawn(size, origin, nil)
	if pos != origin {
		t.Errorf("pos = %+v, want origin %+v", pos, origin)
	}
	if attempts != 1 || exhausted {
		t.Errorf("attempts = %d exhausted = %v, want 1/false", attempts, exhausted)
	}
}

func TestSpawnOriginSources(t *testing.T) {
	size := geometry.Size{Width: 500, Height: 400}

	// Remembered last position wins over everything.
	last := map[Kind]geometry.Point{KindChatSettings: {X: 777, Y: -40}}
	if got := SpawnOrigin(KindChatSettings, size, last, 5, readyViewport()); got != last[KindChatSettings] {
		t.Errorf("origin = %+v, want remembered %+v", got, last[KindChatSettings])
	}

	// No viewport: static default origin.
	if got := SpawnOrigin(KindChatSettings, size, nil, 0, nil); got != defaultOrigin {
		t.Errorf("origin without viewport = %+v, want %+v", got, defaultOrigin)
	}

	// Viewport-derived origins stagger with the card count so rapid
	// adds fan out instead of stacking.
	a := SpawnOrigin(KindChatSettings, size, nil, 0, readyViewport())
	b := SpawnOrigin(KindChatSettings, size, nil, 1, readyViewport())
	if a == b {
		t.Error("staggered origins should differ for different node counts")
	}
}

func TestSpawnAvoidsCollision(t *testing.T) {
	// A 620x360 card sits at (100,100); spawning a preview on top of it
	// must land clear of its bounds plus the 24px margin.
	existing := []*Node{nodeAt(KindMainPreview, 100, 100, 620, 360)}
	size := DefaultSize(PreviewKind("alice"))
	origin := geometry.Point{X: 120, Y: 120}

	pos := FindSpawnPosition(size, origin, existing)
	probe := geometry.RectAt(pos, size).Expand(SpawnMargin)
	if probe.Overlaps(existing[0].Rect()) {
		t.Errorf("spawn at %+v overlaps existing card", pos)
	}
}

func TestSpawnDeterministic(t *testing.T) {
	existing := []*Node{
		nodeAt(KindMainPreview, 0, 0, 620, 360),
		nodeAt(PreviewKind("bob"), 700, 0, 620, 360),
	}
	size := geometry.Size{Width: 500, Height: 400}
	origin := geometry.Point{X: 50, Y: 50}

	first := FindSpawnPosition(size, origin, existing)
	for i := 0; i < 5; i++ {
		if got := FindSpawnPosition(size, origin, existing); got != first {
			t.Fatalf("run %d: pos = %+v, want %+v", i, got, first)
		}
	}
}

func TestSpawnCollisionProperty(t *testing.T) {
	// Property: for a packed but finite field, either the result clears
	// all margins or the search exhausted and still returned a finite
	// position near the origin.
	var field []*Node
	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			field = append(field, &Node{
				ID:       fmt.Sprintf("cell-%d-%d", row, col),
				Kind:     KindMainPreview,
				Position: geometry.Point{X: float64(col)*200 - 400, Y: float64(row)*200 - 400},
				Size:     geometry.Size{Width: 180, Height: 180},
			})
		}
	}
	size := geometry.Size{Width: 500, Height: 400}
	origin := geometry.Point{X: 0, Y: 0}

	pos, _, exhausted := findSpawn(size, origin, field)
	probe := geometry.RectAt(pos, size).Expand(SpawnMargin)
	clear := true
	for _, n := range field {
		if probe.Overlaps(n.Rect()) {
			clear = false
			break
		}
	}
	if !clear && !exhausted {
		t.Error("non-exhausted search returned a colliding position")
	}
}

func TestSpawnExhaustionFallback(t *testing.T) {
	// One giant card covers every ring the search can reach. The search
	// must exhaust and return the fixed fallback offset, never fail.
	giant := []*Node{nodeAt(KindMainPreview, -5000, -5000, 10000, 10000)}
	size := geometry.Size{Width: 500, Height: 400}
	origin := geometry.Point{X: 0, Y: 0}

	pos, _, exhausted := findSpawn(size, origin, giant)
	if !exhausted {
		t.Fatal("search should exhaust against a covered canvas")
	}
	want := geometry.Point{X: fallbackOffset, Y: fallbackOffset}
	if pos != want {
		t.Errorf("fallback pos = %+v, want %+v", pos, want)
	}
}

func TestRingCandidatesStableAndOnRing(t *testing.T) {
	origin := geometry.Point{X: 0, Y: 0}
	pts := ringCandidates(origin, 2)

	// Perimeter of a 5x5 grid minus the 3x3 interior.
	if len(pts) != 16 {
		t.Fatalf("ring 2 candidates = %d, want 16", len(pts))
	}
	r := 2.0 * spawnRingStep
	for _, p := range pts {
		onEdge := p.X == -r || p.X == r || p.Y == -r || p.Y == r
		if !onEdge {
			t.Errorf("candidate %+v not on ring perimeter", p)
		}
	}
}
