// Package level implements LevelGraph: an auxiliary per-subgraph
// structure whose nodes are (layoutNode, rank) pairs, used by the
// ordering and X-assignment stages to treat a multi-rank node as a
// chain of single-rank shadows (the layer matrix).
package level

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/hlayout/hlayout/model"
)

// Shadow is one per-rank projection of a model.Node.
type Shadow struct {
	Node     *model.Node
	Rank     int
	Position int
	Width    float64
	Height   float64
}

// Graph is the layer matrix for one model.Graph: Ranks[r] holds every
// shadow at global rank r, ordered by Position.
type Graph struct {
	MinRank int
	Ranks   [][]*Shadow
}

// Build constructs the layer matrix from the current Rank/RankSpan and
// LevelShadows of every node in g, and caches it on g for reuse.
func Build(g *model.Graph) *Graph {
	if cached, ok := g.LevelCache().(*Graph); ok {
		return cached
	}

	minRank, maxRank := math.MaxInt32, math.MinInt32
	for _, n := range g.Nodes() {
		if n.Rank < minRank {
			minRank = n.Rank
		}
		top := n.Rank + n.RankSpan - 1
		if top > maxRank {
			maxRank = top
		}
	}
	if minRank > maxRank {
		minRank, maxRank = 0, 0
	}

	lg := &Graph{MinRank: minRank, Ranks: make([][]*Shadow, maxRank-minRank+1)}
	for _, n := range g.Nodes() {
		for r := n.Rank; r < n.Rank+n.RankSpan; r++ {
			pos := n.Index
			for _, sh := range n.LevelShadows {
				if sh.Rank == r {
					pos = sh.Position
				}
			}
			lg.Ranks[r-minRank] = append(lg.Ranks[r-minRank], &Shadow{
				Node: n, Rank: r, Position: pos, Width: n.Width, Height: n.Height,
			})
		}
	}
	for _, rank := range lg.Ranks {
		slices.SortFunc(rank, func(a, b *Shadow) bool { return a.Position < b.Position })
	}

	g.SetLevelCache(lg)
	return lg
}

// Neighbors returns the shadows adjacent (by model edge) to sh on the
// given rank offset (+1 for the rank below, -1 for the rank above).
func (lg *Graph) Neighbors(g *model.Graph, sh *Shadow, dir int) []*Shadow {
	wantRank := sh.Rank + dir
	var out []*Shadow
	byNode := make(map[int]*Shadow)
	for _, s := range lg.ranksAt(wantRank) {
		byNode[int(s.Node.ID)] = s
	}
	for _, e := range g.Edges() {
		var otherID int
		if dir > 0 && int(e.Src) == int(sh.Node.ID) {
			otherID = int(e.Dst)
		} else if dir < 0 && int(e.Dst) == int(sh.Node.ID) {
			otherID = int(e.Src)
		} else {
			continue
		}
		if s, ok := byNode[otherID]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (lg *Graph) ranksAt(r int) []*Shadow {
	idx := r - lg.MinRank
	if idx < 0 || idx >= len(lg.Ranks) {
		return nil
	}
	return lg.Ranks[idx]
}
