package order

import "sort"

// Sweep alternates top-down and bottom-up barycentric passes until two
// consecutive passes yield no strict improvement. A new ordering is
// committed only if it strictly reduces north-side crossings and does
// not increase the north+south total.
func (g *Graph) Sweep(maxIterations int) {
	if maxIterations <= 0 {
		maxIterations = 24
	}
	improved := true
	for iter := 0; improved && iter < maxIterations; iter++ {
		improved = false
		if g.sweepDown() {
			improved = true
		}
		if g.sweepUp() {
			improved = true
		}
	}
}

// sweepDown visits ranks top to bottom, reordering rank r by the
// barycenter of its units against rank r-1.
func (g *Graph) sweepDown() bool {
	changed := false
	for r := 1; r < len(g.Ranks); r++ {
		if g.sweepRank(r, r-1, true) {
			changed = true
		}
	}
	return changed
}

// sweepUp visits ranks bottom to top, reordering rank r by the
// barycenter of its units against rank r+1.
func (g *Graph) sweepUp() bool {
	changed := false
	for r := len(g.Ranks) - 2; r >= 0; r-- {
		if g.sweepRank(r, r+1, false) {
			changed = true
		}
	}
	return changed
}

// sweepRank computes a candidate reordering of rank r against the fixed
// rank `adjacent`, then commits it only if it is an improvement under
// that rule.
func (g *Graph) sweepRank(r, adjacent int, northFixed bool) bool {
	units := g.flatten(r)
	if len(units) == 0 {
		return false
	}

	for _, u := range units {
		var edges []edgeRef
		if northFixed {
			edges = g.in[u.ID] // neighbors are in the rank above
		} else {
			edges = g.out[u.ID] // neighbors are in the rank below
		}
		var sum, weight float64
		for _, e := range edges {
			other := e.to
			if northFixed {
				other = e.from
			}
			if other.Rank != adjacent {
				continue
			}
			w := substWeight(e.weight)
			sum += float64(other.Position) * w
			weight += w
		}
		if weight > 0 {
			u.barycenter = sum / weight
			u.hasBarycenter = true
		} else {
			u.hasBarycenter = false
		}
	}

	before := g.crossingsAround(r)

	groups := append([]*Group{}, g.Ranks[r].Groups...)
	for _, grp := range groups {
		sort.SliceStable(grp.Units, func(i, j int) bool {
			return unitKey(grp.Units[i]) < unitKey(grp.Units[j])
		})
	}
	if g.groupOrderingEnabled {
		sort.SliceStable(groups, func(i, j int) bool {
			return groupKey(groups[i]) < groupKey(groups[j])
		})
	}

	oldGroups := g.Ranks[r].Groups
	oldOrder := g.flatten(r)

	g.Ranks[r].Groups = groups
	g.renumber(r)

	after := g.crossingsAround(r)

	// Commit only if the north-side crossings strictly decreased and
	// the north+south sum did not increase.
	if after.north < before.north && after.total() <= before.total() {
		return !sameOrder(oldOrder, g.flatten(r))
	}

	g.Ranks[r].Groups = oldGroups
	g.renumber(r)
	return false
}

type crossingPair struct{ north, south float64 }

func (c crossingPair) total() float64 { return c.north + c.south }

// crossingsAround returns crossings on the rank-above boundary (north)
// and rank-below boundary (south) of rank r.
func (g *Graph) crossingsAround(r int) crossingPair {
	var c crossingPair
	if r > 0 {
		c.north = g.crossingsBetween(r - 1)
	}
	if r < len(g.Ranks)-1 {
		c.south = g.crossingsBetween(r)
	}
	return c
}

func unitKey(u *Unit) float64 {
	if !u.hasBarycenter {
		return float64(u.Position)
	}
	return u.barycenter
}

func groupKey(grp *Group) float64 {
	var sum, n float64
	for _, u := range grp.Units {
		if u.hasBarycenter {
			sum += u.barycenter
			n++
		}
	}
	if n == 0 {
		if len(grp.Units) > 0 {
			return float64(grp.Units[0].Position)
		}
		return 0
	}
	return sum / n
}

func sameOrder(a, b []*Unit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
