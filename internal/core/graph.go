// Package core implements GraphCore: a generic directed-graph container
// keyed by dense integer ids, never by hash. It underpins every other
// graph in this module (the scoped layout model, the rank graph, the
// level graph, the order graph) by supplying add/remove, adjacency,
// toposort, BFS, cycle inversion, components, and cloning.
package core

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

// NodeID is a dense, per-graph node identifier. Ids are never reused
// after RemoveNode; the first node added gets id 0.
type NodeID int

// EdgeID is a dense, per-graph edge identifier.
type EdgeID int

// ErrCorrupted is returned when an operation references a node or edge
// id that does not exist in the graph. Valid ids never cause a panic.
var ErrCorrupted = fmt.Errorf("core: corrupted reference")

// Edge is the structural record GraphCore keeps for one edge: its
// endpoints, weight, and whether it has been inverted by cycle removal.
// Domain-specific edge state (ports, labels, bundles) lives one layer up.
type Edge struct {
	ID         EdgeID
	Src, Dst   NodeID
	Weight     float64
	IsInverted bool
}

// Graph is the generic directed multigraph container. Node payloads are
// owned by the caller (keyed by NodeID); Graph tracks only structure.
type Graph struct {
	nodeAlive map[NodeID]bool
	nextNode  NodeID

	edges    map[EdgeID]*Edge
	nextEdge EdgeID

	out map[NodeID][]EdgeID
	in  map[NodeID][]EdgeID
}

// NewGraph returns an empty GraphCore container.
func NewGraph() *Graph {
	return &Graph{
		nodeAlive: make(map[NodeID]bool),
		edges:     make(map[EdgeID]*Edge),
		out:       make(map[NodeID][]EdgeID),
		in:        make(map[NodeID][]EdgeID),
	}
}

// AddNode allocates and returns a fresh node id.
func (g *Graph) AddNode() NodeID {
	id := g.nextNode
	g.nextNode++
	g.nodeAlive[id] = true
	g.out[id] = nil
	g.in[id] = nil
	return id
}

// HasNode reports whether id currently names a live node.
func (g *Graph) HasNode(id NodeID) bool {
	return g.nodeAlive[id]
}

// Nodes returns all live node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodeAlive))
	for id, alive := range g.nodeAlive {
		if alive {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id NodeID) error {
	if !g.nodeAlive[id] {
		return fmt.Errorf("%w: remove node %d", ErrCorrupted, id)
	}
	var errs error
	for _, eid := range append([]EdgeID{}, g.out[id]...) {
		if err := g.RemoveEdge(eid); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, eid := range append([]EdgeID{}, g.in[id]...) {
		if err := g.RemoveEdge(eid); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	delete(g.nodeAlive, id)
	delete(g.out, id)
	delete(g.in, id)
	return errs
}

// AddEdge creates a directed edge src->dst with the given weight and
// returns its id. Weight use math.Inf(1) for a "heavy" edge.
func (g *Graph) AddEdge(src, dst NodeID, weight float64) (EdgeID, error) {
	if !g.nodeAlive[src] {
		return 0, fmt.Errorf("%w: edge src %d", ErrCorrupted, src)
	}
	if !g.nodeAlive[dst] {
		return 0, fmt.Errorf("%w: edge dst %d", ErrCorrupted, dst)
	}
	id := g.nextEdge
	g.nextEdge++
	g.edges[id] = &Edge{ID: id, Src: src, Dst: dst, Weight: weight}
	g.out[src] = append(g.out[src], id)
	g.in[dst] = append(g.in[dst], id)
	return id, nil
}

// Edge returns the structural record for id, or nil if it does not exist.
func (g *Graph) Edge(id EdgeID) *Edge {
	return g.edges[id]
}

// Edges returns every live edge, in ascending id order.
func (g *Graph) Edges() []*Edge {
	ids := make([]EdgeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// RemoveEdge deletes an edge.
func (g *Graph) RemoveEdge(id EdgeID) error {
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: remove edge %d", ErrCorrupted, id)
	}
	g.out[e.Src] = removeEdgeID(g.out[e.Src], id)
	g.in[e.Dst] = removeEdgeID(g.in[e.Dst], id)
	delete(g.edges, id)
	return nil
}

func removeEdgeID(list []EdgeID, id EdgeID) []EdgeID {
	for i, e := range list {
		if e == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// OutEdges returns, in O(outdeg), the edges leaving id.
func (g *Graph) OutEdges(id NodeID) ([]*Edge, error) {
	if !g.nodeAlive[id] {
		return nil, fmt.Errorf("%w: out edges of %d", ErrCorrupted, id)
	}
	out := make([]*Edge, len(g.out[id]))
	for i, eid := range g.out[id] {
		out[i] = g.edges[eid]
	}
	return out, nil
}

// InEdges returns, in O(indeg), the edges entering id.
func (g *Graph) InEdges(id NodeID) ([]*Edge, error) {
	if !g.nodeAlive[id] {
		return nil, fmt.Errorf("%w: in edges of %d", ErrCorrupted, id)
	}
	out := make([]*Edge, len(g.in[id]))
	for i, eid := range g.in[id] {
		out[i] = g.edges[eid]
	}
	return out, nil
}

// Redirect updates an edge's endpoints in place without reallocating
// its id, preserving weight, inversion flag, and any caller-side
// metadata keyed by EdgeID.
func (g *Graph) Redirect(id EdgeID, newSrc, newDst NodeID) error {
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: redirect edge %d", ErrCorrupted, id)
	}
	if !g.nodeAlive[newSrc] || !g.nodeAlive[newDst] {
		return fmt.Errorf("%w: redirect edge %d endpoints", ErrCorrupted, id)
	}
	g.out[e.Src] = removeEdgeID(g.out[e.Src], id)
	g.in[e.Dst] = removeEdgeID(g.in[e.Dst], id)
	e.Src, e.Dst = newSrc, newDst
	g.out[newSrc] = append(g.out[newSrc], id)
	g.in[newDst] = append(g.in[newDst], id)
	return nil
}

// Invert swaps an edge's endpoints and sets IsInverted.
func (g *Graph) Invert(id EdgeID) error {
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("%w: invert edge %d", ErrCorrupted, id)
	}
	if err := g.Redirect(id, e.Dst, e.Src); err != nil {
		return err
	}
	e.IsInverted = !e.IsInverted
	return nil
}

// Toposort runs Kahn's algorithm and returns the nodes in topological
// order. ok is false if the graph has a cycle, in which case the
// returned order covers only the nodes reachable before the cycle
// stalled progress.
func (g *Graph) Toposort() (order []NodeID, ok bool) {
	indeg := make(map[NodeID]int, len(g.nodeAlive))
	var queue []NodeID
	for id := range g.nodeAlive {
		if !g.nodeAlive[id] {
			continue
		}
		indeg[id] = len(g.in[id])
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	slices.Sort(queue)
	order = make([]NodeID, 0, len(g.nodeAlive))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		next := make([]NodeID, 0)
		for _, eid := range g.out[n] {
			e := g.edges[eid]
			indeg[e.Dst]--
			if indeg[e.Dst] == 0 {
				next = append(next, e.Dst)
			}
		}
		slices.Sort(next)
		queue = append(queue, next...)
	}
	return order, len(order) == len(g.Nodes())
}

// BFS walks from start and returns visited nodes in visit order.
// If undirected is true, both in- and out-edges are followed.
func (g *Graph) BFS(start NodeID, undirected bool) ([]NodeID, error) {
	if !g.nodeAlive[start] {
		return nil, fmt.Errorf("%w: bfs from %d", ErrCorrupted, start)
	}
	visited := map[NodeID]bool{start: true}
	order := []NodeID{start}
	queue := []NodeID{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		neighbors := make([]NodeID, 0)
		for _, eid := range g.out[n] {
			neighbors = append(neighbors, g.edges[eid].Dst)
		}
		if undirected {
			for _, eid := range g.in[n] {
				neighbors = append(neighbors, g.edges[eid].Src)
			}
		}
		slices.Sort(neighbors)
		for _, nb := range neighbors {
			if !visited[nb] {
				visited[nb] = true
				order = append(order, nb)
				queue = append(queue, nb)
			}
		}
	}
	return order, nil
}

// Components returns the weakly-connected components of the graph, each
// as a sorted slice of node ids.
func (g *Graph) Components() [][]NodeID {
	seen := make(map[NodeID]bool)
	var comps [][]NodeID
	for _, id := range g.Nodes() {
		if seen[id] {
			continue
		}
		comp, _ := g.BFS(id, true)
		for _, n := range comp {
			seen[n] = true
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}

// RemoveCycles greedily breaks cycles: it repeatedly peels off a
// topological prefix, and when no more nodes can be peeled (a cycle is
// blocking progress) it picks the lowest-id remaining node and inverts
// all of its incoming edges from other remaining nodes, then continues.
// It returns the ids of every edge it inverted.
func (g *Graph) RemoveCycles() ([]EdgeID, error) {
	remaining := make(map[NodeID]bool)
	for _, id := range g.Nodes() {
		remaining[id] = true
	}
	indeg := make(map[NodeID]int)
	for id := range remaining {
		ins, err := g.InEdges(id)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, e := range ins {
			if remaining[e.Src] {
				n++
			}
		}
		indeg[id] = n
	}

	var inverted []EdgeID
	for len(remaining) > 0 {
		progressed := true
		for progressed {
			progressed = false
			ids := make([]NodeID, 0, len(remaining))
			for id := range remaining {
				ids = append(ids, id)
			}
			slices.Sort(ids)
			for _, id := range ids {
				if !remaining[id] || indeg[id] != 0 {
					continue
				}
				delete(remaining, id)
				outs, err := g.OutEdges(id)
				if err != nil {
					return nil, err
				}
				for _, e := range outs {
					if remaining[e.Dst] {
						indeg[e.Dst]--
					}
				}
				progressed = true
			}
		}
		if len(remaining) == 0 {
			break
		}
		ids := make([]NodeID, 0, len(remaining))
		for id := range remaining {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		pick := ids[0]
		ins, err := g.InEdges(pick)
		if err != nil {
			return nil, err
		}
		// Capture pick's original out-edge destinations before inverting
		// its incoming edges: inversion turns some of those incoming
		// edges into new out-edges from pick, and those must not be
		// double-counted against the destinations' indegree below.
		outsBefore, err := g.OutEdges(pick)
		if err != nil {
			return nil, err
		}
		origDsts := make([]NodeID, len(outsBefore))
		for i, e := range outsBefore {
			origDsts[i] = e.Dst
		}
		for _, e := range ins {
			if !remaining[e.Src] {
				continue
			}
			if err := g.Invert(e.ID); err != nil {
				return nil, err
			}
			inverted = append(inverted, e.ID)
		}
		delete(remaining, pick)
		for _, dst := range origDsts {
			if remaining[dst] {
				indeg[dst]--
			}
		}
	}
	return inverted, nil
}

// Clone deep-copies the structural graph (not any caller-side payload).
func (g *Graph) Clone() *Graph {
	ng := NewGraph()
	ng.nextNode = g.nextNode
	ng.nextEdge = g.nextEdge
	for id, alive := range g.nodeAlive {
		ng.nodeAlive[id] = alive
		ng.out[id] = append([]EdgeID{}, g.out[id]...)
		ng.in[id] = append([]EdgeID{}, g.in[id]...)
	}
	for id, e := range g.edges {
		cp := *e
		ng.edges[id] = &cp
	}
	return ng
}
