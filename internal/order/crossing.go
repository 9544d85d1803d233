package order

import "sort"

// BilayerCrossings counts the weighted crossings between northPos and
// southPos, where each entry in edges gives the (north position, south
// position, weight) of one edge between the two adjacent ranks. It is
// the Barth-Jünger-Mutzel accumulator-tree algorithm: edges are sorted
// by (north, south), each south endpoint is inserted into a binary
// accumulator tree sized to the next power of two above southWidth, and
// weighted inversions are totaled as the tree fills.
func BilayerCrossings(southWidth int, edges ...BJMEdge) float64 {
	if southWidth == 0 || len(edges) == 0 {
		return 0
	}

	sorted := make([]BJMEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].north != sorted[j].north {
			return sorted[i].north < sorted[j].north
		}
		return sorted[i].south < sorted[j].south
	})

	firstIndex := 1
	for firstIndex < southWidth {
		firstIndex <<= 1
	}
	treeSize := 2*firstIndex - 1
	firstIndex--
	tree := make([]float64, treeSize)

	var cc float64
	for _, e := range sorted {
		index := e.south + firstIndex
		tree[index] += e.weight
		var weightSum float64
		for index > 0 {
			if index%2 == 1 {
				weightSum += tree[index+1]
			}
			index = (index - 1) / 2
			tree[index] += e.weight
		}
		cc += e.weight * weightSum
	}
	return cc
}

// BJMEdge is one edge's (north position, south position, weight) tuple
// as consumed by BilayerCrossings.
type BJMEdge struct {
	north, south int
	weight       float64
}

// NewBJMEdge builds a BJMEdge from its (north, south, weight) triple.
func NewBJMEdge(north, south int, weight float64) BJMEdge {
	return BJMEdge{north: north, south: south, weight: weight}
}

// crossingsBetween builds the BJMEdge list for the rank pair (r, r+1)
// from the Graph's registered edges and counts them.
func (g *Graph) crossingsBetween(r int) float64 {
	if r+1 >= len(g.Ranks) {
		return 0
	}
	southWidth := len(g.flatten(r + 1))
	var edges []BJMEdge
	for _, u := range g.flatten(r) {
		for _, e := range g.out[u.ID] {
			if e.to.Rank != r+1 {
				continue
			}
			edges = append(edges, BJMEdge{north: u.Position, south: e.to.Position, weight: substWeight(e.weight)})
		}
	}
	return BilayerCrossings(southWidth, edges...)
}

// TotalCrossings sums bilayer crossings across every adjacent rank pair.
func (g *Graph) TotalCrossings() float64 {
	var total float64
	for r := 0; r < len(g.Ranks)-1; r++ {
		total += g.crossingsBetween(r)
	}
	return total
}
