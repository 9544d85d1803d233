package order

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/hlayout/hlayout/internal/core"
	"github.com/hlayout/hlayout/model"
)

// BuildNodeLevel constructs a node-granularity OrderGraph for the given
// subgraph: one group (and one unit) per node per occupied rank. A
// node's rank span simply gives it one unit on each of its ranks;
// these units are not linked to each other (there is no ordering edge
// between shadows of the same node).
func BuildNodeLevel(g *model.Graph, groupOrderingEnabled bool) *Graph {
	minRank, maxRank := rankBounds(g)
	og := NewGraph(maxRank-minRank+1, groupOrderingEnabled)

	unitID := 0
	unitsByNodeRank := make(map[[2]int]*Unit) // [nodeID, rank] -> unit

	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *model.Node) bool { return a.ID < b.ID })

	for _, n := range nodes {
		for r := n.Rank; r < n.Rank+n.RankSpan; r++ {
			u := &Unit{ID: unitID, RefNode: int(n.ID)}
			unitID++
			og.AddGroup(r-minRank, int(n.ID)*1000+r, []*Unit{u})
			unitsByNodeRank[[2]int{int(n.ID), r}] = u
		}
	}

	for _, e := range g.Edges() {
		src, dst := g.Node(e.Src), g.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		su := unitsByNodeRank[[2]int{int(src.ID), src.Rank + src.RankSpan - 1}]
		du := unitsByNodeRank[[2]int{int(dst.ID), dst.Rank}]
		if su == nil || du == nil || su.Rank == du.Rank {
			continue
		}
		w := e.Weight
		if math.IsInf(w, 1) {
			w = math.Inf(1)
		}
		og.AddEdge(su, du, w)
	}
	return og
}

// ApplyNodeLevel copies the OrderGraph's resulting positions back onto
// each node's LevelShadows (and, for single-rank nodes, onto Index).
func ApplyNodeLevel(g *model.Graph, og *Graph, minRank int) {
	for _, n := range g.Nodes() {
		n.LevelShadows = make([]model.LevelShadow, n.RankSpan)
	}
	for _, rank := range og.Ranks {
		for _, grp := range rank.Groups {
			for _, u := range grp.Units {
				n := g.Node(core.NodeID(u.RefNode))
				if n == nil {
					continue
				}
				shadowIdx := rank.Index + minRank - n.Rank
				if shadowIdx >= 0 && shadowIdx < len(n.LevelShadows) {
					n.LevelShadows[shadowIdx] = model.LevelShadow{Rank: rank.Index + minRank, Position: u.Position}
				}
				if n.RankSpan == 1 {
					n.Index = u.Position
				}
			}
		}
	}
}

func rankBounds(g *model.Graph) (min, max int) {
	min, max = math.MaxInt32, math.MinInt32
	for _, n := range g.Nodes() {
		if n.Rank < min {
			min = n.Rank
		}
		top := n.Rank + n.RankSpan - 1
		if top > max {
			max = top
		}
	}
	if min > max {
		return 0, 0
	}
	return min, max
}

// BuildConnectorLevel constructs a port-granularity OrderGraph for
// connector ordering: every non-scope node contributes one
// group per rank holding its ports, and a scoped IN/OUT pair shares a
// single Unit so both sides move together.
func BuildConnectorLevel(g *model.Graph, nodeOrder *Graph, minRank int) *Graph {
	numRanks := len(nodeOrder.Ranks)
	og := NewGraph(numRanks, nodeOrder.groupOrderingEnabled)

	unitID := 0
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *model.Node) bool { return a.ID < b.ID })

	type portKey struct {
		node core.NodeID
		side model.Side
		name string
	}
	unitByPort := make(map[portKey]*Unit)

	for _, n := range nodes {
		if n.IsScope {
			continue
		}
		var units []*Unit
		seen := make(map[string]bool)
		addPort := func(c *model.Connector) {
			if c.IsScoped && c.Counterpart != nil && seen[c.Name] {
				return
			}
			u := &Unit{ID: unitID, RefNode: int(n.ID), RefPort: c.Name}
			unitID++
			units = append(units, u)
			unitByPort[portKey{n.ID, c.Side, c.Name}] = u
			if c.IsScoped && c.Counterpart != nil {
				unitByPort[portKey{n.ID, c.Counterpart.Side, c.Counterpart.Name}] = u
				seen[c.Counterpart.Name] = true
			}
		}
		for _, c := range n.In {
			addPort(c)
		}
		for _, c := range n.Out {
			addPort(c)
		}
		if len(units) == 0 {
			continue
		}
		r := n.Rank - minRank
		if r < 0 || r >= numRanks {
			continue
		}
		og.AddGroup(r, int(n.ID), units)
	}

	for _, e := range g.Edges() {
		src, dst := g.Node(e.Src), g.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		su := unitByPort[portKey{src.ID, model.SideOut, e.SrcPort}]
		du := unitByPort[portKey{dst.ID, model.SideIn, e.DstPort}]
		if su == nil || du == nil {
			continue
		}
		og.AddEdge(su, du, e.Weight)
	}
	return og
}

func suffixOf(name string) string { return name }

// ApplyConnectorLevel copies resulting port order back into each node's
// In/Out connector slices.
func ApplyConnectorLevel(g *model.Graph, og *Graph) {
	orderByUnit := make(map[int]int)
	for _, rank := range og.Ranks {
		for _, grp := range rank.Groups {
			for _, u := range grp.Units {
				orderByUnit[u.ID] = u.Position
			}
		}
	}
	for _, rank := range og.Ranks {
		for _, grp := range rank.Groups {
			n := g.Node(core.NodeID(grp.Units[0].RefNode))
			if n == nil {
				continue
			}
			reorderBySide(n.In, grp.Units)
			reorderBySide(n.Out, grp.Units)
		}
	}
}

// reorderBySide sorts a connector slice in place to match the relative
// order of the units naming its ports, leaving unnamed connectors alone.
func reorderBySide(conns []*model.Connector, units []*Unit) {
	posByName := make(map[string]int, len(units))
	for _, u := range units {
		posByName[u.RefPort] = u.Position
	}
	// A scoped pair's unit names only one half; give the other half the
	// same position.
	for _, c := range conns {
		if c.IsScoped && c.Counterpart != nil {
			if p, ok := posByName[c.Counterpart.Name]; ok {
				posByName[c.Name] = p
			}
		}
	}
	slices.SortStableFunc(conns, func(a, b *model.Connector) bool {
		pa, oka := posByName[a.Name]
		pb, okb := posByName[b.Name]
		if !oka || !okb {
			return false
		}
		return pa < pb
	})
}
