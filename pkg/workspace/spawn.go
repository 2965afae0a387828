package workspace

import "github.com/castdeck/castdeck/pkg/geometry"

// Spawn search tuning. The ring search probes candidate positions on
// concentric square rings around the origin until one is collision-free.
const (
	// spawnRingStep is the spacing between ring candidates in canvas units.
	spawnRingStep = 48

	// spawnRingMax is the outermost ring radius, in ring steps.
	spawnRingMax = 16

	// spawnMaxAttempts bounds the total candidates probed before the
	// search gives up and returns the fallback offset.
	spawnMaxAttempts = 600

	// spawnStagger offsets viewport-derived origins per existing card so
	// rapid adds fan out instead of stacking. Wraps every 8 cards to
	// keep the fan near the viewport center.
	spawnStagger = 32

	// fallbackOffset displaces the origin when the search exhausts.
	// The result may still collide; adding a card must never fail.
	fallbackOffset = 40
)

// defaultOrigin is the spawn origin before the canvas has mounted.
var defaultOrigin = geometry.Point{X: 120, Y: 120}

// SpawnOrigin derives the starting point for the spawn search.
//
// A remembered last position for the kind wins: cards re-open near where
// the user last put them. Otherwise the origin is the viewport center in
// canvas space (so the new card lands where the user is looking),
// staggered by the existing card count.
func SpawnOrigin(kind Kind, size geometry.Size, last map[Kind]geometry.Point, nodeCount int, vp ViewportController) geometry.Point {
	if p, ok := last[kind]; ok {
		return p
	}
	if vp == nil || !vp.Ready() {
		return defaultOrigin
	}
	visible := vp.VisibleSize()
	center := vp.ScreenToCanvas(geometry.Point{X: visible.Width / 2, Y: visible.Height / 2})
	stagger := float64(nodeCount%8) * spawnStagger
	return geometry.Point{
		X: geometry.Snap(center.X-size.Width/2+stagger, GridSize),
		Y: geometry.Snap(center.Y-size.Height/2+stagger, GridSize),
	}
}

// FindSpawnPosition finds a collision-free position for a card of the
// given size, searching outward from origin against the existing nodes.
//
// The function is pure and deterministic: identical inputs produce
// identical results. When every candidate within the attempt budget
// collides, it returns a fixed offset from the origin. That fallback
// may still overlap; adding a card never fails.
func FindSpawnPosition(size geometry.Size, origin geometry.Point, nodes []*Node) geometry.Point {
	p, _, _ := findSpawn(size, origin, nodes)
	return p
}

// findSpawn is FindSpawnPosition plus search telemetry for hooks.
func findSpawn(size geometry.Size, origin geometry.Point, nodes []*Node) (pos geometry.Point, attempts int, exhausted bool) {
	attempts = 1
	if spawnFree(size, origin, nodes) {
		return origin, attempts, false
	}

	for ring := 1; ring <= spawnRingMax; ring++ {
		for _, candidate := range ringCandidates(origin, ring) {
			attempts++
			if attempts > spawnMaxAttempts {
				return fallback(origin), attempts, true
			}
			if spawnFree(size, candidate, nodes) {
				return candidate, attempts, false
			}
		}
	}
	return fallback(origin), attempts, true
}

// spawnFree reports whether a card of the given size at p, expanded by
// SpawnMargin, clears every existing node.
func spawnFree(size geometry.Size, p geometry.Point, nodes []*Node) bool {
	probe := geometry.RectAt(p, size).Expand(SpawnMargin)
	for _, n := range nodes {
		if probe.Overlaps(n.Rect()) {
			return false
		}
	}
	return true
}

// ringCandidates enumerates the perimeter of the square ring at the
// given radius (in steps) in a stable order: top edge left-to-right,
// bottom edge left-to-right, then left and right columns top-to-bottom.
func ringCandidates(origin geometry.Point, ring int) []geometry.Point {
	r := float64(ring) * spawnRingStep
	var pts []geometry.Point

	for dx := -ring; dx <= ring; dx++ {
		x := origin.X + float64(dx)*spawnRingStep
		pts = append(pts, geometry.Point{X: x, Y: origin.Y - r})
		pts = append(pts, geometry.Point{X: x, Y: origin.Y + r})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		y := origin.Y + float64(dy)*spawnRingStep
		pts = append(pts, geometry.Point{X: origin.X - r, Y: y})
		pts = append(pts, geometry.Point{X: origin.X + r, Y: y})
	}
	return pts
}

func fallback(origin geometry.Point) geometry.Point {
	return geometry.Point{X: origin.X + fallbackOffset, Y: origin.Y + fallbackOffset}
}
