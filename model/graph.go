// Package model implements the ScopedLayoutModel: a layered graph with
// nested subgraphs, rank span, entry/exit frames, connectors (ports),
// and bundles.
package model

import (
	"fmt"

	"github.com/hlayout/hlayout/internal/core"
)

// Graph is one layer of nesting in the scoped layout model: either the
// root graph or the interior of one scope frame (an entry/exit pair).
type Graph struct {
	core *core.Graph

	nodes map[core.NodeID]*Node
	edges map[core.EdgeID]*Edge

	// MayHaveCycles is true for the root graph and for every nested
	// scope boundary; false for graphs known acyclic by construction.
	MayHaveCycles bool

	MinRank, NumRanks int

	// Entry/Exit are non-nil only for a Graph that is the interior of a
	// scope frame; they name the paired frame nodes living in the
	// parent graph.
	Entry, Exit *Node

	// Parent is the enclosing Graph, nil for the root.
	Parent *Graph

	// levelCache holds a lazily-built *level.Graph, stashed as an
	// opaque value to avoid an import cycle between model and level;
	// see level.Build.
	levelCache interface{}
}

// NewGraph returns an empty Graph with its own GraphCore container.
func NewGraph(mayHaveCycles bool) *Graph {
	return &Graph{
		core:          core.NewGraph(),
		nodes:         make(map[core.NodeID]*Node),
		edges:         make(map[core.EdgeID]*Edge),
		MayHaveCycles: mayHaveCycles,
	}
}

// Core exposes the underlying GraphCore container for packages that
// need raw structural operations (toposort, BFS, cycle removal).
func (g *Graph) Core() *core.Graph { return g.core }

// AddNode allocates a new Node and registers it.
func (g *Graph) AddNode() *Node {
	id := g.core.AddNode()
	n := NewNode(id)
	g.nodes[id] = n
	return n
}

// Node looks up a node by id.
func (g *Graph) Node(id core.NodeID) *Node { return g.nodes[id] }

// Nodes returns every node in ascending id order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.core.Nodes() {
		out = append(out, g.nodes[id])
	}
	return out
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(n *Node) error {
	if err := g.core.RemoveNode(n.ID); err != nil {
		return err
	}
	delete(g.nodes, n.ID)
	for id, e := range g.edges {
		if e.Src == n.ID || e.Dst == n.ID {
			delete(g.edges, id)
		}
	}
	return nil
}

// AddEdge creates a new edge with default weight 1.
func (g *Graph) AddEdge(src, dst *Node) (*Edge, error) {
	id, err := g.core.AddEdge(src.ID, dst.ID, 1)
	if err != nil {
		return nil, err
	}
	e := &Edge{ID: id, Src: src.ID, Dst: dst.ID, Weight: 1}
	g.edges[id] = e
	return e, nil
}

// Edge looks up an edge by id.
func (g *Graph) Edge(id core.EdgeID) *Edge { return g.edges[id] }

// Edges returns every edge in ascending id order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, ce := range g.core.Edges() {
		out = append(out, g.edges[ce.ID])
	}
	return out
}

// RemoveEdge deletes an edge.
func (g *Graph) RemoveEdge(e *Edge) error {
	if err := g.core.RemoveEdge(e.ID); err != nil {
		return err
	}
	delete(g.edges, e.ID)
	return nil
}

// Redirect moves an edge's endpoints, keeping its id, weight, and flags.
func (g *Graph) Redirect(e *Edge, src, dst *Node) error {
	if err := g.core.Redirect(e.ID, src.ID, dst.ID); err != nil {
		return err
	}
	e.Src, e.Dst = src.ID, dst.ID
	return nil
}

// SyncWeight pushes e.Weight (set by the caller) into the GraphCore edge
// record, which is what ranking and ordering actually read.
func (g *Graph) SyncWeight(e *Edge) {
	if ce := g.core.Edge(e.ID); ce != nil {
		ce.Weight = e.Weight
	}
}

// LevelCache returns the opaque lazily-built level graph, or nil.
func (g *Graph) LevelCache() interface{} { return g.levelCache }

// SetLevelCache stashes the lazily-built level graph.
func (g *Graph) SetLevelCache(v interface{}) { g.levelCache = v }

// InvalidateLevelCache drops any cached level graph, forcing a rebuild
// on next access. Called whenever ordering changes node order.
func (g *Graph) InvalidateLevelCache() { g.levelCache = nil }

// Validate performs the structural InvalidInput checks:
// dangling edges and a scope entry/exit mismatch. Preassigned ranks are
// not checked for reachability, here or in the rank package.
func (g *Graph) Validate() error {
	var errs []error
	for _, e := range g.edges {
		if g.nodes[e.Src] == nil {
			errs = append(errs, fmt.Errorf("edge %d: dangling source %d", e.ID, e.Src))
		}
		if g.nodes[e.Dst] == nil {
			errs = append(errs, fmt.Errorf("edge %d: dangling destination %d", e.ID, e.Dst))
		}
	}
	for _, n := range g.nodes {
		if n.ChildGraph != nil {
			cg := n.ChildGraph
			if (cg.Entry == nil) != (cg.Exit == nil) {
				errs = append(errs, fmt.Errorf("node %d: scope entry without matching exit", n.ID))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
