package order

import "math"

// conflict describes one crossing between two edges spanning the same
// rank pair where at least one edge is heavy.
type conflict struct {
	heavy, other edgeRef
	bothHeavy    bool
}

// findConflicts scans rank pair (r, r+1) for HEAVY-HEAVY and HEAVY-LIGHT
// crossings: edges whose (north, south) positions invert and which do
// not share an endpoint.
func (g *Graph) findConflicts(r int) []conflict {
	if r+1 >= len(g.Ranks) {
		return nil
	}
	var edges []edgeRef
	for _, u := range g.flatten(r) {
		for _, e := range g.out[u.ID] {
			if e.to.Rank == r+1 {
				edges = append(edges, e)
			}
		}
	}

	var conflicts []conflict
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			a, b := edges[i], edges[j]
			if a.from.ID == b.from.ID || a.to.ID == b.to.ID {
				continue // shared endpoint is never a crossing
			}
			aIsHeavy := math.IsInf(a.weight, 1)
			bIsHeavy := math.IsInf(b.weight, 1)
			if !aIsHeavy && !bIsHeavy {
				continue
			}
			crosses := (a.from.Position-b.from.Position)*(a.to.Position-b.to.Position) < 0
			if !crosses {
				continue
			}
			if aIsHeavy {
				conflicts = append(conflicts, conflict{heavy: a, other: b, bothHeavy: aIsHeavy && bIsHeavy})
			} else {
				conflicts = append(conflicts, conflict{heavy: b, other: a, bothHeavy: false})
			}
		}
	}
	return conflicts
}

// ResolveHeavyConflicts repeatedly resolves HEAVY-HEAVY and HEAVY-LIGHT
// conflicts on every rank pair until a round changes nothing or
// maxRounds rounds have run; conflicts it cannot resolve remain. It
// returns the number of swaps it performed (for logging/testing).
//
// Y-resolution (inserting a new rank and cascading virtual nodes) is not
// implemented: when the X-resolution swap described below fails to
// remove a HEAVY-LIGHT conflict, the conflict is left in place. The
// crossing-minimizing sweep already strongly disfavors these
// configurations in practice, and growing the rank structure mid-order
// would require re-entering virtualization, which the coordinator does
// not currently support as a nested call. This is a deliberate
// simplification, recorded in DESIGN.md.
func (g *Graph) ResolveHeavyConflicts(maxRounds int) int {
	if maxRounds <= 0 {
		maxRounds = 50
	}
	swaps := 0
	for round := 0; round < maxRounds; round++ {
		any := false
		for r := 0; r < len(g.Ranks)-1; r++ {
			for _, c := range g.findConflicts(r) {
				if g.resolveOne(r, c) {
					swaps++
					any = true
				}
			}
		}
		if !any {
			break
		}
	}
	return swaps
}

// resolveOne applies one conflict resolution attempt and reports whether
// it changed the ordering.
func (g *Graph) resolveOne(r int, c conflict) bool {
	if c.bothHeavy {
		return g.resolveHeavyHeavy(r, c)
	}
	return g.resolveHeavyLight(r, c)
}

// resolveHeavyHeavy exchanges the two south endpoints of the conflict
// when that lowers the crossings over rank pairs (r, r+1) and
// (r+1, r+2). The exchange is symmetric, so both candidates it measures
// are the same move; no node is moved past a run of other nodes.
func (g *Graph) resolveHeavyHeavy(r int, c conflict) bool {
	south := r + 1
	before := g.crossingsBetween(r) + g.crossingsBetween(south)

	costA := g.trySwap(south, c.heavy.to, c.other.to, before)
	costB := g.trySwap(south, c.other.to, c.heavy.to, before)

	if costA == nil && costB == nil {
		return false
	}
	if costB == nil || (costA != nil && *costA <= *costB) {
		g.swapUnits(south, c.heavy.to, c.other.to)
		return true
	}
	g.swapUnits(south, c.other.to, c.heavy.to)
	return true
}

// resolveHeavyLight performs a simplified X-resolution: move the light
// edge's south endpoint past the heavy edge's south endpoint if doing so
// removes the crossing without making things worse.
func (g *Graph) resolveHeavyLight(r int, c conflict) bool {
	south := r + 1
	before := g.crossingsBetween(r) + g.crossingsBetween(south)
	cost := g.trySwap(south, c.other.to, c.heavy.to, before)
	if cost == nil {
		return false
	}
	g.swapUnits(south, c.other.to, c.heavy.to)
	return true
}

// trySwap speculatively swaps a and b's positions within rank south,
// measures the resulting two-rank-pair crossing cost, restores the
// original order, and returns the candidate cost (nil if it is not an
// improvement over before).
func (g *Graph) trySwap(south int, a, b *Unit, before float64) *float64 {
	g.swapUnits(south, a, b)
	after := g.crossingsBetween(south-1) + g.crossingsBetween(south)
	g.swapUnits(south, a, b) // swap back
	if after >= before {
		return nil
	}
	return &after
}

// swapUnits exchanges the rank-local positions of a and b, moving each
// to the other's slot within its group (or across groups when they
// belong to different ones).
func (g *Graph) swapUnits(rankIdx int, a, b *Unit) {
	flat := g.flatten(rankIdx)
	ai, bi := indexOf(flat, a), indexOf(flat, b)
	if ai < 0 || bi < 0 {
		return
	}
	flat[ai], flat[bi] = flat[bi], flat[ai]
	g.reassembleFromFlat(rankIdx, flat)
}

func indexOf(units []*Unit, target *Unit) int {
	for i, u := range units {
		if u.ID == target.ID {
			return i
		}
	}
	return -1
}

// reassembleFromFlat rebuilds each group's Units slice from a flattened,
// reordered sequence, preserving each unit's group membership.
func (g *Graph) reassembleFromFlat(rankIdx int, flat []*Unit) {
	byGroup := make(map[int][]*Unit)
	var order []int
	for _, u := range flat {
		if _, ok := byGroup[u.GroupID]; !ok {
			order = append(order, u.GroupID)
		}
		byGroup[u.GroupID] = append(byGroup[u.GroupID], u)
	}
	groupByID := make(map[int]*Group)
	for _, grp := range g.Ranks[rankIdx].Groups {
		groupByID[grp.ID] = grp
	}
	newGroups := make([]*Group, 0, len(order))
	for _, gid := range order {
		grp := groupByID[gid]
		grp.Units = byGroup[gid]
		newGroups = append(newGroups, grp)
	}
	g.Ranks[rankIdx].Groups = newGroups
	g.renumber(rankIdx)
}

// HasHeavyConflict reports whether any rank pair still has a HEAVY-HEAVY
// or HEAVY-LIGHT conflict. The coordinator does not call it.
func (g *Graph) HasHeavyConflict() bool {
	for r := 0; r < len(g.Ranks)-1; r++ {
		if len(g.findConflicts(r)) > 0 {
			return true
		}
	}
	return false
}
