// Package rank implements RankGraph: longest-path rank assignment over a
// DAG whose edges carry nonnegative weights, where some nodes may already
// carry a rank fixed by an outer nested scope.
package rank

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/hlayout/hlayout/internal/core"
	"github.com/hlayout/hlayout/model"
)

// ErrUnrankable is returned when a weight is infinite going into ranking,
// or the subgraph is not actually acyclic.
var ErrUnrankable = fmt.Errorf("rank: unrankable")

// Assign computes ranks for every node of g such that for every edge
// u->v, rank(v) >= rank(u) + weight(u->v), and the minimum rank is 0.
// Nodes with Node.RankAssigned already set are treated as preassigned
// seeds: their component is shifted, never relaxed away from them.
func Assign(g *model.Graph) error {
	c := g.Core()

	for _, e := range c.Edges() {
		if math.IsInf(e.Weight, 1) {
			return fmt.Errorf("%w: infinite weight on edge %d", ErrUnrankable, e.ID)
		}
	}
	if _, ok := c.Toposort(); !ok {
		return fmt.Errorf("%w: cycle present", ErrUnrankable)
	}

	ranked := make(map[core.NodeID]bool)
	rankOf := make(map[core.NodeID]int)
	for _, n := range g.Nodes() {
		if n.RankAssigned {
			rankOf[n.ID] = n.Rank
		}
	}

	allNodes := g.Nodes()
	sources := sourceNodes(c, allNodes)

	for len(ranked) < len(allNodes) {
		var seed core.NodeID
		found := false
		for _, n := range sources {
			if !ranked[n.ID] {
				seed = n.ID
				found = true
				break
			}
		}
		if !found {
			// No remaining indegree-0 node: walk upward from a neighbor
			// of an already-ranked node to find the next unranked
			// component.
			seed, found = nextSeed(c, allNodes, ranked)
			if !found {
				return fmt.Errorf("%w: could not find next seed", ErrUnrankable)
			}
		}

		component, err := c.BFS(seed, true)
		if err != nil {
			return err
		}
		unrankedComponent := make([]core.NodeID, 0, len(component))
		for _, id := range component {
			if !ranked[id] {
				unrankedComponent = append(unrankedComponent, id)
			}
		}

		local := longestPath(c, unrankedComponent)

		minDiff := 0
		haveDiff := false
		for id, existing := range rankOf {
			if lv, ok := local[id]; ok {
				d := existing - lv
				if !haveDiff || d < minDiff {
					minDiff = d
					haveDiff = true
				}
			}
		}

		for id, lv := range local {
			rankOf[id] = lv + minDiff
			ranked[id] = true
		}
	}

	globalMin := math.MaxInt32
	for _, r := range rankOf {
		if r < globalMin {
			globalMin = r
		}
	}
	maxRank := 0
	for _, n := range allNodes {
		n.Rank = rankOf[n.ID] - globalMin
		n.RankAssigned = true
		if top := n.Rank + n.RankSpan; top > maxRank {
			maxRank = top
		}
	}
	g.MinRank = 0
	g.NumRanks = maxRank
	return nil
}

// sourceNodes returns nodes with in-degree 0, sorted for determinism.
func sourceNodes(c *core.Graph, nodes []*model.Node) []*model.Node {
	var out []*model.Node
	for _, n := range nodes {
		ins, _ := c.InEdges(n.ID)
		if len(ins) == 0 {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b *model.Node) bool { return a.ID < b.ID })
	return out
}

// nextSeed finds an unranked node reachable by walking outward from any
// already-ranked node's neighbors.
func nextSeed(c *core.Graph, nodes []*model.Node, ranked map[core.NodeID]bool) (core.NodeID, bool) {
	for _, n := range nodes {
		if !ranked[n.ID] {
			continue
		}
		outs, _ := c.OutEdges(n.ID)
		for _, e := range outs {
			if !ranked[e.Dst] {
				return e.Dst, true
			}
		}
		ins, _ := c.InEdges(n.ID)
		for _, e := range ins {
			if !ranked[e.Src] {
				return e.Src, true
			}
		}
	}
	for _, n := range nodes {
		if !ranked[n.ID] {
			return n.ID, true
		}
	}
	return 0, false
}

// longestPath runs a topological relaxation over the given component
// (restricted to the provided node set) starting every source at rank 0.
func longestPath(c *core.Graph, component []core.NodeID) map[core.NodeID]int {
	in := make(map[core.NodeID]bool, len(component))
	for _, id := range component {
		in[id] = true
	}
	rank := make(map[core.NodeID]int, len(component))
	indeg := make(map[core.NodeID]int, len(component))
	for _, id := range component {
		ins, _ := c.InEdges(id)
		n := 0
		for _, e := range ins {
			if in[e.Src] {
				n++
			}
		}
		indeg[id] = n
		rank[id] = 0
	}

	queue := make([]core.NodeID, 0)
	for _, id := range component {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	slices.Sort(queue)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		outs, _ := c.OutEdges(id)
		var next []core.NodeID
		for _, e := range outs {
			if !in[e.Dst] {
				continue
			}
			want := rank[id] + int(e.Weight)
			if want > rank[e.Dst] {
				rank[e.Dst] = want
			}
			indeg[e.Dst]--
			if indeg[e.Dst] == 0 {
				next = append(next, e.Dst)
			}
		}
		slices.Sort(next)
		queue = append(queue, next...)
	}
	return rank
}
