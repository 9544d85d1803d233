// Package connector implements ConnectorPlacer: arranging ports along
// the top and bottom of each node after ordering has fixed their
// sequence.
package connector

import (
	"github.com/hlayout/hlayout/model"
)

// Options controls port geometry; the coordinator uses DefaultOptions.
type Options struct {
	PortWidth   float64
	PortHeight  float64
	PortSpacing float64
}

// DefaultOptions returns the constant port size and spacing this
// package assumes.
func DefaultOptions() Options {
	return Options{PortWidth: 8, PortHeight: 4, PortSpacing: 12}
}

// PlaceAll arranges ports on every node of g, recursing into child
// scopes so nested graphs get placed too.
func PlaceAll(g *model.Graph, opts Options) {
	for _, n := range g.Nodes() {
		Place(n, opts)
		if n.ChildGraph != nil {
			PlaceAll(n.ChildGraph, opts)
		}
	}
	placeBundles(g)
}

// Place lays out n's IN ports along its top edge and OUT ports along
// its bottom edge. Each side is one evenly spaced row, centered on the
// node, in slice order. Afterwards the OUT half of every scoped pair
// (IN_x/OUT_x sharing a Counterpart) is moved to its IN half's X; scoped
// pairs are not centered and the other ports are not rearranged around
// them.
func Place(n *model.Node, opts Options) {
	placeSide(n, n.In, opts)
	placeSide(n, n.Out, opts)
	alignScopedPairs(n)
}

func placeSide(n *model.Node, conns []*model.Connector, opts Options) {
	if len(conns) == 0 {
		return
	}
	total := float64(len(conns))*opts.PortWidth + float64(len(conns)-1)*opts.PortSpacing
	start := (n.Width - total) / 2
	x := start
	for _, c := range conns {
		c.Width = opts.PortWidth
		c.Height = opts.PortHeight
		c.X = x + opts.PortWidth/2
		if c.Side == model.SideIn {
			c.Y = 0
		} else {
			c.Y = n.Height
		}
		x += opts.PortWidth + opts.PortSpacing
	}
}

// alignScopedPairs forces every scoped IN/OUT counterpart pair onto a
// shared X, preserving the paired-alignment invariant. The IN side
// (placed first, read top-to-bottom in document order) is treated as
// authoritative.
func alignScopedPairs(n *model.Node) {
	for _, c := range n.In {
		if c.IsScoped && c.Counterpart != nil {
			c.Counterpart.X = c.X
		}
	}
}

// placeBundles sets each bundle's external attachment point: Y just
// beyond the owning node's rank boundary on the bundle's side, X the
// mean of its member edges' port X values.
func placeBundles(g *model.Graph) {
	seen := make(map[*model.Bundle]bool)
	for _, e := range g.Edges() {
		if e.Bundle == nil || seen[e.Bundle] {
			continue
		}
		seen[e.Bundle] = true
		b := e.Bundle

		var sum float64
		var count int
		var owner *model.Node
		for _, m := range b.Members {
			var node *model.Node
			var port string
			if b.Side == model.SideOut {
				node, port = g.Node(m.Src), m.SrcPort
			} else {
				node, port = g.Node(m.Dst), m.DstPort
			}
			if node == nil {
				continue
			}
			owner = node
			if c := node.Connector(b.Side, port); c != nil {
				sum += c.X
				count++
			}
		}
		if count == 0 || owner == nil {
			continue
		}
		b.X = sum / float64(count)
		const proxyOffset = 10
		if b.Side == model.SideOut {
			b.Y = owner.Height + proxyOffset
		} else {
			b.Y = -proxyOffset
		}
	}
}
