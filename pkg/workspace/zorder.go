package workspace

import "sort"

// bringToFront reassigns z-indices so the target card stacks on top of
// its preview-family siblings. It returns whether any node actually
// changed, so callers can skip redundant persistence writes.
//
// Two invariants hold on exit:
//   - Preview-family cards (except the expanded one) carry compact
//     sequential z-indices inside [ZBandMin, ZBandMax], with the target
//     at the top of the band. Compaction prevents unbounded growth
//     across repeated front-brings.
//   - The expanded card, if any, keeps the ZExpanded sentinel and is
//     never renumbered. Bringing the expanded card to front just
//     re-asserts the sentinel.
//
// Non-preview cards are untouched: they stay on the canvas's natural
// ordering below the band.
func bringToFront(nodes []*Node, frontID, expandedID string) bool {
	var target *Node
	for _, n := range nodes {
		if n.ID == frontID {
			target = n
			break
		}
	}
	if target == nil {
		return false
	}

	if frontID == expandedID {
		if target.ZIndex != ZExpanded {
			target.ZIndex = ZExpanded
			return true
		}
		return false
	}

	if !target.Kind.IsPreviewFamily() {
		return false
	}

	// Band members to renumber: preview cards that are neither the
	// target nor expanded, in current stacking order (ties by id so the
	// result is deterministic).
	var band []*Node
	for _, n := range nodes {
		if n.ID == frontID || n.ID == expandedID || !n.Kind.IsPreviewFamily() {
			continue
		}
		band = append(band, n)
	}
	sort.Slice(band, func(i, j int) bool {
		if band[i].ZIndex != band[j].ZIndex {
			return band[i].ZIndex < band[j].ZIndex
		}
		return band[i].ID < band[j].ID
	})

	changed := false
	z := ZBandMin
	for _, n := range band {
		if z > ZBandMax {
			z = ZBandMax
		}
		if n.ZIndex != z {
			n.ZIndex = z
			changed = true
		}
		z++
	}
	if z > ZBandMax {
		z = ZBandMax
	}
	if target.ZIndex != z {
		target.ZIndex = z
		changed = true
	}
	return changed
}

// frontPreview returns the preview-family node currently at the top of
// the band, ignoring the expanded card. Nil when no preview cards exist.
func frontPreview(nodes []*Node, expandedID string) *Node {
	var front *Node
	for _, n := range nodes {
		if !n.Kind.IsPreviewFamily() || n.ID == expandedID {
			continue
		}
		if front == nil || n.ZIndex > front.ZIndex {
			front = n
		}
	}
	return front
}
