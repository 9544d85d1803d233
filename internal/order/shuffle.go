package order

import "math/rand"

// seedString is the fixed seed used to make ordering deterministic
// across runs. A process-wide math/rand.Rand is
// never touched: a local generator is created and discarded.
const seedString = "hlayout-order-seed"

func newDeterministicRand() *rand.Rand {
	var seed int64
	for _, c := range seedString {
		seed = seed*131 + int64(c)
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle performs one baseline Sweep/ResolveHeavyConflicts pass plus up
// to `retries` further attempts, each starting from a shuffled ordering
// that respects group contiguity, keeping whichever attempt has the
// fewest total crossings.
func (g *Graph) Shuffle(retries int, maxSweepIterations int) {
	g.Sweep(maxSweepIterations)
	g.ResolveHeavyConflicts(0)
	best := g.snapshot()
	bestCost := g.TotalCrossings()

	if retries <= 0 {
		return
	}
	rng := newDeterministicRand()
	for i := 0; i < retries; i++ {
		g.shuffleOnce(rng)
		g.Sweep(maxSweepIterations)
		g.ResolveHeavyConflicts(0)
		cost := g.TotalCrossings()
		if cost < bestCost {
			bestCost = cost
			best = g.snapshot()
		}
	}
	g.restore(best)
}

// shuffleOnce randomizes each rank's group order and each group's unit
// order, preserving group contiguity (and thus ShuffleHierarchy
// contiguity, since groups are never split).
func (g *Graph) shuffleOnce(rng *rand.Rand) {
	for _, rank := range g.Ranks {
		rng.Shuffle(len(rank.Groups), func(i, j int) {
			rank.Groups[i], rank.Groups[j] = rank.Groups[j], rank.Groups[i]
		})
		for _, grp := range rank.Groups {
			rng.Shuffle(len(grp.Units), func(i, j int) {
				grp.Units[i], grp.Units[j] = grp.Units[j], grp.Units[i]
			})
		}
		g.renumber(rank.Index)
	}
}

// snapshot captures every rank's current group/unit id order.
func (g *Graph) snapshot() [][]int {
	out := make([][]int, len(g.Ranks))
	for i, rank := range g.Ranks {
		var ids []int
		for _, grp := range rank.Groups {
			for _, u := range grp.Units {
				ids = append(ids, u.ID)
			}
		}
		out[i] = ids
	}
	return out
}

// restore reapplies a snapshot taken earlier in the same Graph's lifetime.
func (g *Graph) restore(snap [][]int) {
	for r, ids := range snap {
		pos := make(map[int]int, len(ids))
		for i, id := range ids {
			pos[id] = i
		}
		byGroup := make(map[int][]*Unit)
		var order []int
		flat := g.flatten(r)
		ordered := make([]*Unit, len(flat))
		for _, u := range flat {
			ordered[pos[u.ID]] = u
		}
		for _, u := range ordered {
			if _, ok := byGroup[u.GroupID]; !ok {
				order = append(order, u.GroupID)
			}
			byGroup[u.GroupID] = append(byGroup[u.GroupID], u)
		}
		groupByID := make(map[int]*Group)
		for _, grp := range g.Ranks[r].Groups {
			groupByID[grp.ID] = grp
		}
		newGroups := make([]*Group, 0, len(order))
		for _, gid := range order {
			grp := groupByID[gid]
			grp.Units = byGroup[gid]
			newGroups = append(newGroups, grp)
		}
		g.Ranks[r].Groups = newGroups
		g.renumber(r)
	}
}
