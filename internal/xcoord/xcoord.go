// Package xcoord assigns final X coordinates using the Brandes-Köpf
// four-sweep median alignment. Y coordinates are not this package's
// concern; they come from rank heights in the coordinator.
package xcoord

import (
	"math"
	"sort"

	"github.com/hlayout/hlayout/internal/level"
	"github.com/hlayout/hlayout/model"
)

// direction of vertical alignment: which neighboring rank drives the
// median pick for a given node.
type vdir int

const (
	dirDown vdir = iota // look at the rank above (this node was aligned while sweeping top-to-bottom)
	dirUp               // look at the rank below
)

// hdir is the horizontal preference when a node has two median
// neighbors (an even-degree tie).
type hdir int

const (
	prefLeft hdir = iota
	prefRight
)

type conflictKey struct{ a, b int } // endpoint node ids of a segment that crosses a virtual-virtual segment, a<b

// Assign computes final X coordinates for every node in g (including
// virtual nodes) and writes them to Node.X, translated so minX==0.
func Assign(g *model.Graph, targetEdgeLength float64) {
	lg := level.Build(g)
	if len(lg.Ranks) == 0 {
		return
	}

	conflicts := markConflicts(g, lg)

	type combo struct {
		v vdir
		h hdir
	}
	combos := []combo{{dirDown, prefLeft}, {dirDown, prefRight}, {dirUp, prefLeft}, {dirUp, prefRight}}

	results := make([]map[int]float64, 4)
	for i, c := range combos {
		root, align := verticalAlign(g, lg, c.v, c.h, conflicts)
		results[i] = horizontalCompact(lg, root, align, c.h, targetEdgeLength)
	}

	final := make(map[int]float64)
	for _, rank := range lg.Ranks {
		for _, sh := range rank {
			id := int(sh.Node.ID)
			vals := make([]float64, 0, 4)
			for _, r := range results {
				if x, ok := r[id]; ok {
					vals = append(vals, x)
				}
			}
			if len(vals) == 0 {
				continue
			}
			sort.Float64s(vals)
			final[id] = medianOfMiddleTwo(vals)
		}
	}

	minX := math.MaxFloat64
	for _, x := range final {
		if x < minX {
			minX = x
		}
	}
	if minX == math.MaxFloat64 {
		minX = 0
	}
	for _, rank := range lg.Ranks {
		for _, sh := range rank {
			if x, ok := final[int(sh.Node.ID)]; ok {
				sh.Node.X = x - minX
			}
		}
	}
}

func medianOfMiddleTwo(sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// markConflicts finds type-1 conflicts: a segment between two virtual
// (IsVirtual) nodes in adjacent ranks that crosses another segment in
// the same rank pair and is not itself virtual-virtual. That crossing
// segment is marked by its endpoint pair so alignment sweeps skip it,
// preventing long virtual chains from zig-zagging around each other.
func markConflicts(g *model.Graph, lg *level.Graph) map[conflictKey]bool {
	conflicts := make(map[conflictKey]bool)
	for r := 0; r < len(lg.Ranks)-1; r++ {
		upper, lower := lg.Ranks[r], lg.Ranks[r+1]
		type seg struct {
			uPos, lPos int
			uID, lID   int
			heavy      bool
		}
		var segs []seg
		lowerByID := make(map[int]*level.Shadow)
		for _, s := range lower {
			lowerByID[int(s.Node.ID)] = s
		}
		for _, u := range upper {
			for _, d := range lg.Neighbors(g, u, 1) {
				segs = append(segs, seg{
					uPos: u.Position, lPos: d.Position,
					uID: int(u.Node.ID), lID: int(d.Node.ID),
					heavy: u.Node.IsVirtual && d.Node.IsVirtual,
				})
			}
		}
		for i := range segs {
			for j := range segs {
				if i == j || !segs[i].heavy {
					continue
				}
				a, b := segs[i], segs[j]
				if a.heavy == b.heavy {
					continue
				}
				if (a.uPos < b.uPos && a.lPos > b.lPos) || (a.uPos > b.uPos && a.lPos < b.lPos) {
					key := conflictKey{b.uID, b.lID}
					if key.a > key.b {
						key.a, key.b = key.b, key.a
					}
					conflicts[key] = true
				}
			}
		}
	}
	return conflicts
}

func conflicted(conflicts map[conflictKey]bool, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return conflicts[conflictKey{a, b}]
}

// verticalAlign sweeps the layering in the direction given by v,
// aligning each node to a median neighbor in the adjacent rank it has
// already swept, preferring the left or right median per h, and
// skipping any neighbor pairing flagged as conflicted.
func verticalAlign(g *model.Graph, lg *level.Graph, v vdir, h hdir, conflicts map[conflictKey]bool) (root, align map[int]int) {
	root = make(map[int]int)
	align = make(map[int]int)
	for _, rank := range lg.Ranks {
		for _, sh := range rank {
			id := int(sh.Node.ID)
			root[id] = id
			align[id] = id
		}
	}

	order := make([]int, len(lg.Ranks))
	for i := range order {
		order[i] = i
	}
	dirSign := 1
	if v == dirUp {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
		dirSign = -1
	}

	for idx := 1; idx < len(order); idx++ {
		curRank := lg.Ranks[order[idx]]
		prevRank := lg.Ranks[order[idx-1]]
		_ = dirSign

		prevNeighborDir := -1
		if v == dirUp {
			prevNeighborDir = 1
		}

		lastUsed := -1
		for _, sh := range curRank {
			var neigh []*level.Shadow
			for _, n := range lg.Neighbors(g, sh, prevNeighborDir) {
				for _, p := range prevRank {
					if p.Node.ID == n.Node.ID {
						neigh = append(neigh, p)
					}
				}
			}
			if len(neigh) == 0 {
				continue
			}
			sort.Slice(neigh, func(i, j int) bool { return neigh[i].Position < neigh[j].Position })

			var picks []*level.Shadow
			mid := (len(neigh) - 1) / 2
			if len(neigh)%2 == 1 {
				picks = []*level.Shadow{neigh[mid]}
			} else if h == prefLeft {
				picks = []*level.Shadow{neigh[mid]}
			} else {
				picks = []*level.Shadow{neigh[mid+1]}
			}

			for _, pick := range picks {
				if conflicted(conflicts, int(sh.Node.ID), int(pick.Node.ID)) {
					continue
				}
				if pick.Position <= lastUsed {
					continue
				}
				align[int(sh.Node.ID)] = int(pick.Node.ID)
				root[int(sh.Node.ID)] = root[int(pick.Node.ID)]
				align[int(pick.Node.ID)] = int(sh.Node.ID)
				lastUsed = pick.Position
			}
		}
	}
	return root, align
}

type blockNode struct {
	id     int
	width  float64
	height float64
}

// horizontalCompact builds one block per alignment chain (root ->
// members) and compacts the block graph with a longest-path run, spaced
// by half-width sums plus targetEdgeLength, matching the block-graph
// definition used here.
func horizontalCompact(lg *level.Graph, root, align map[int]int, h hdir, targetEdgeLength float64) map[int]float64 {
	blockMembers := make(map[int][]*level.Shadow)
	for _, rank := range lg.Ranks {
		for _, sh := range rank {
			r := root[int(sh.Node.ID)]
			blockMembers[r] = append(blockMembers[r], sh)
		}
	}

	blockWidth := make(map[int]float64)
	for r, members := range blockMembers {
		w := 0.0
		for _, m := range members {
			if m.Width > w {
				w = m.Width
			}
		}
		blockWidth[r] = w
	}

	// Within-rank predecessor constraint: for each rank, order blocks by
	// the position of their member, and add an edge prevBlock -> block
	// with weight (halfWidth(prev)+halfWidth(block)+targetEdgeLength).
	type blockEdge struct{ from, to int; minSep float64 }
	var edges []blockEdge
	seenPair := make(map[[2]int]bool)
	for _, rank := range lg.Ranks {
		sorted := make([]*level.Shadow, len(rank))
		copy(sorted, rank)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
		for i := 1; i < len(sorted); i++ {
			prevRoot := root[int(sorted[i-1].Node.ID)]
			curRoot := root[int(sorted[i].Node.ID)]
			if prevRoot == curRoot {
				continue
			}
			key := [2]int{prevRoot, curRoot}
			if seenPair[key] {
				continue
			}
			seenPair[key] = true
			sep := blockWidth[prevRoot]/2 + blockWidth[curRoot]/2 + targetEdgeLength
			edges = append(edges, blockEdge{from: prevRoot, to: curRoot, minSep: sep})
		}
	}

	// Longest-path compaction: x[to] >= x[from] + minSep. Topological
	// order follows rank order since blocks only ever connect
	// left-to-right within a single rank pass here; iterate until fixed
	// point to stay correct regardless of block discovery order.
	x := make(map[int]float64)
	for r := range blockMembers {
		x[r] = 0
	}
	for iter := 0; iter < len(blockMembers)+1; iter++ {
		changed := false
		for _, e := range edges {
			if want := x[e.from] + e.minSep; want > x[e.to] {
				x[e.to] = want
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := make(map[int]float64)
	for r, members := range blockMembers {
		for _, m := range members {
			out[int(m.Node.ID)] = x[r]
		}
	}
	_ = h
	return out
}

// RightShift is a post-pass over each rank: wherever the gap between two
// consecutive nodes strictly exceeds targetEdgeLength (never on
// equality), the right-hand node and every node after it in that rank
// are shifted left so the gap equals targetEdgeLength. It does not look
// at how a node is connected, and no node is shifted right.
func RightShift(g *model.Graph, targetEdgeLength float64) {
	lg := level.Build(g)
	for _, rank := range lg.Ranks {
		sorted := make([]*level.Shadow, len(rank))
		copy(sorted, rank)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
		for i := 0; i < len(sorted)-1; i++ {
			a, b := sorted[i], sorted[i+1]
			gap := (b.Node.X - b.Width/2) - (a.Node.X + a.Width/2)
			if gap > targetEdgeLength {
				shift := gap - targetEdgeLength
				for j := i + 1; j < len(sorted); j++ {
					sorted[j].Node.X -= shift
				}
			}
		}
	}
}
