// Package router implements EdgeRouter: turning the virtualized graph's
// node/port geometry into poly-lines, collapsing virtual chains back
// into their original edges, and handling bundles and self-loops.
package router

import (
	"math"

	"github.com/hlayout/hlayout/model"
)

// Options controls routing geometry.
type Options struct {
	TargetEdgeLength float64
	Bundle           bool
	OptimizeAngles   bool
}

// Route walks every primary, non-virtual-sourced edge, builds its
// routed poly-line (collapsing any virtual chain it heads), and
// removes the now-redundant virtual nodes and interior edges.
func Route(g *model.Graph, opts Options) error {
	var toDelete []*model.Edge
	var virtualNodes []*model.Node

	for _, e := range g.Edges() {
		if e.IsReplica || !e.IsPrimary() {
			continue
		}
		src := g.Node(e.Src)
		if src == nil || src.IsVirtual {
			continue
		}
		if err := routeOne(g, e, &toDelete, &virtualNodes); err != nil {
			return err
		}
	}

	for _, e := range toDelete {
		if g.Edge(e.ID) != nil {
			if err := g.RemoveEdge(e); err != nil {
				return err
			}
		}
	}
	for _, n := range virtualNodes {
		if g.Node(n.ID) != nil {
			if err := g.RemoveNode(n); err != nil {
				return err
			}
		}
	}

	for _, e := range g.Edges() {
		if e.Bundle != nil && e.IsReplica {
			copyReplicaPoints(g, e)
		}
	}

	routeSelfLoops(g, opts)

	if opts.OptimizeAngles {
		optimizeAngles(g, opts)
	}
	return nil
}

func routeOne(g *model.Graph, head *model.Edge, toDelete *[]*model.Edge, virtualNodes *[]*model.Node) error {
	src := g.Node(head.Src)
	dst := g.Node(head.Dst)
	if src == nil || dst == nil {
		return nil
	}

	var points []model.Point
	startX, startY := portPoint(src, model.SideOut, head.SrcPort)
	points = append(points, model.Point{X: startX, Y: startY})

	if !noOutProxy(g, src, startX) {
		points = append(points, model.Point{X: startX, Y: rankBottom(src)})
	}

	cur := head
	curDst := dst
	for curDst.IsVirtual {
		*virtualNodes = append(*virtualNodes, curDst)
		appendIfDistinct(&points, model.Point{X: curDst.X, Y: rankTop(curDst)})
		appendIfDistinct(&points, model.Point{X: curDst.X, Y: curDst.Y})
		appendIfDistinct(&points, model.Point{X: curDst.X, Y: rankBottom(curDst)})

		next := nextChainEdge(g, curDst)
		if next == nil {
			break
		}
		*toDelete = append(*toDelete, next)
		cur = next
		curDst = g.Node(next.Dst)
		if curDst == nil {
			break
		}
	}
	_ = cur

	endX, endY := portPoint(curDst, model.SideIn, cur.DstPort)
	if !noInProxy(g, curDst, endX) {
		appendIfDistinct(&points, model.Point{X: endX, Y: rankTop(curDst)})
	}
	points = append(points, model.Point{X: endX, Y: endY})

	if err := g.Redirect(head, src, curDst); err != nil {
		return err
	}
	head.DstPort = cur.DstPort
	head.Points = points
	return nil
}

// nextChainEdge returns v's single outgoing edge, which by
// construction is the next link in its virtual chain.
func nextChainEdge(g *model.Graph, v *model.Node) *model.Edge {
	for _, e := range g.Edges() {
		if e.Src == v.ID {
			return e
		}
	}
	return nil
}

func appendIfDistinct(points *[]model.Point, p model.Point) {
	if n := len(*points); n > 0 {
		last := (*points)[n-1]
		if math.Abs(last.X-p.X) < 1e-9 && math.Abs(last.Y-p.Y) < 1e-9 {
			return
		}
	}
	*points = append(*points, p)
}

func portPoint(n *model.Node, side model.Side, name string) (float64, float64) {
	if c := n.Connector(side, name); c != nil {
		return n.X + c.X - n.Width/2, n.Y - n.Height/2 + c.Y
	}
	if side == model.SideOut {
		return n.X, n.Y + n.Height/2
	}
	return n.X, n.Y - n.Height/2
}

func rankTop(n *model.Node) float64    { return n.Y - n.Height/2 }
func rankBottom(n *model.Node) float64 { return n.Y + n.Height/2 }

// noOutProxy reports whether a straight exit from n at startX would
// not cross any sibling in n's rank, making the rank-bottom proxy
// point unnecessary. Approximated by checking whether any neighbor's
// horizontal span at the rank boundary contains startX.
func noOutProxy(g *model.Graph, n *model.Node, startX float64) bool {
	return !hasRankNeighborAt(g, n, startX)
}

func noInProxy(g *model.Graph, n *model.Node, endX float64) bool {
	return !hasRankNeighborAt(g, n, endX)
}

func hasRankNeighborAt(g *model.Graph, n *model.Node, x float64) bool {
	for _, other := range g.Nodes() {
		if other.ID == n.ID || other.Rank != n.Rank {
			continue
		}
		left, right := other.X-other.Width/2, other.X+other.Width/2
		if x > left && x < right {
			return true
		}
	}
	return false
}

// copyReplicaPoints gives a bundle replica the same interior points as
// its bundle's primary, substituting only its own terminal port.
func copyReplicaPoints(g *model.Graph, e *model.Edge) {
	primary := e.Bundle.Primary
	if primary == nil || len(primary.Points) == 0 {
		return
	}
	pts := make([]model.Point, len(primary.Points))
	copy(pts, primary.Points)

	if e.Bundle.Side == model.SideOut {
		if src := g.Node(e.Src); src != nil {
			x, y := portPoint(src, model.SideOut, e.SrcPort)
			pts[0] = model.Point{X: x, Y: y}
		}
	} else {
		if dst := g.Node(e.Dst); dst != nil {
			x, y := portPoint(dst, model.SideIn, e.DstPort)
			pts[len(pts)-1] = model.Point{X: x, Y: y}
		}
	}
	e.Points = pts
}

// routeSelfLoops draws a four-point rectangular path outside the right
// edge of the owning node for every node with a SelfLoop.
func routeSelfLoops(g *model.Graph, opts Options) {
	const loopWidth = 20
	for _, n := range g.Nodes() {
		if n.SelfLoop == nil {
			continue
		}
		e := n.SelfLoop
		outX, outY := portPoint(n, model.SideOut, e.SrcPort)
		inX, inY := portPoint(n, model.SideIn, e.DstPort)
		right := n.X + n.Width/2 + loopWidth
		e.Points = []model.Point{
			{X: outX, Y: outY},
			{X: right, Y: outY},
			{X: right, Y: inY},
			{X: inX, Y: inY},
		}
	}
}
