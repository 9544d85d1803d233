package hlayout

import (
	"fmt"
	"math"

	"cdr.dev/slog"

	"github.com/hlayout/hlayout/internal/connector"
	"github.com/hlayout/hlayout/internal/core"
	"github.com/hlayout/hlayout/internal/order"
	"github.com/hlayout/hlayout/internal/rank"
	"github.com/hlayout/hlayout/internal/router"
	"github.com/hlayout/hlayout/internal/xcoord"
	"github.com/hlayout/hlayout/model"
)

// Layout runs the full pipeline against g and returns the same graph,
// now annotated with coordinates, in place. It is the engine's sole
// entry point.
func Layout(g *model.Graph, opts Options) (*model.Graph, error) {
	if err := g.Validate(); err != nil {
		return nil, invalidInputf("%s", err)
	}

	c := &coordinator{opts: opts}
	if err := c.run(g); err != nil {
		return nil, err
	}
	return g, nil
}

type coordinator struct {
	opts Options
}

func (c *coordinator) log(phase string, fields ...interface{}) {
	if c.opts.Logger == nil {
		return
	}
	c.opts.Logger.Debug(nil, phase, toSlogFields(fields)...)
}

func toSlogFields(kv []interface{}) []slog.Field {
	var out []slog.Field
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			out = append(out, slog.F(key, kv[i+1]))
		}
	}
	return out
}

// run processes one subgraph end to end, recursing into child scopes
// first so a scope node's size and rank span are known before the
// enclosing graph is ranked.
func (c *coordinator) run(g *model.Graph) error {
	for _, n := range g.Nodes() {
		if n.ChildGraph != nil {
			if err := c.run(n.ChildGraph); err != nil {
				return err
			}
			c.absorbScope(n)
		}
	}

	if g.MayHaveCycles {
		c.log("cycle-removal", "nodes", len(g.Nodes()))
		if err := removeCycles(g); err != nil {
			return err
		}
	}

	if err := rank.Assign(g); err != nil {
		return fmt.Errorf("%w: %s", ErrUnrankable, err)
	}
	c.log("ranked", "nodes", len(g.Nodes()))

	if err := virtualize(g); err != nil {
		return err
	}
	c.log("virtualized", "nodes", len(g.Nodes()))

	if c.opts.Debug {
		if err := checkInvariants(g); err != nil {
			return err
		}
	}

	if err := c.order(g); err != nil {
		return err
	}
	c.log("ordered")

	xcoord.Assign(g, c.opts.TargetEdgeLength)
	xcoord.RightShift(g, c.opts.TargetEdgeLength)
	assignY(g, c.opts.TargetEdgeLength)

	connector.PlaceAll(g, connector.DefaultOptions())

	if err := router.Route(g, router.Options{
		TargetEdgeLength: c.opts.TargetEdgeLength,
		Bundle:           c.opts.Bundle,
		OptimizeAngles:   c.opts.OptimizeAngles,
	}); err != nil {
		return err
	}
	c.log("routed")

	if g.MayHaveCycles {
		restoreCycles(g)
	}
	return nil
}

// absorbScope gives a scope-entry node a rank span and footprint that
// reflects its already-laid-out child graph.
func (c *coordinator) absorbScope(n *model.Node) {
	cg := n.ChildGraph
	if cg.NumRanks < 1 {
		cg.NumRanks = 1
	}
	n.RankSpan = cg.NumRanks

	maxX, maxY := 0.0, 0.0
	for _, child := range cg.Nodes() {
		if right := child.X + child.Width/2; right > maxX {
			maxX = right
		}
		if bottom := child.Y + child.Height/2; bottom > maxY {
			maxY = bottom
		}
	}
	if maxX > n.Width {
		n.Width = maxX + n.PadLeft + n.PadRight
	}
	if maxY > n.Height {
		n.Height = maxY + n.PadTop + n.PadBottom
	}
}

func (c *coordinator) order(g *model.Graph) error {
	minRank, _ := 0, 0
	for _, n := range g.Nodes() {
		if n.Rank < minRank {
			minRank = n.Rank
		}
	}

	nodeLevel := order.BuildNodeLevel(g, true)
	nodeLevel.Shuffle(c.opts.Shuffles, 64)
	order.ApplyNodeLevel(g, nodeLevel, minRank)
	g.InvalidateLevelCache()

	connLevel := order.BuildConnectorLevel(g, nodeLevel, minRank)
	if c.opts.PreorderConnectors {
		connLevel.Sweep(32)
	}
	connLevel.Shuffle(c.opts.Shuffles, 32)
	order.ApplyConnectorLevel(g, connLevel)
	return nil
}

// removeCycles detaches self-loops, breaks the remaining cycles via
// GraphCore, and tags every inverted edge's endpoints with the
// bottomIn/topOut temporary ports reserved for rendering.
func removeCycles(g *model.Graph) error {
	for _, n := range g.Nodes() {
		for _, e := range g.Edges() {
			if e.Src == n.ID && e.Dst == n.ID {
				n.SelfLoop = e
				if err := g.RemoveEdge(e); err != nil {
					return internalInvariantf("detaching self-loop: %s", err)
				}
			}
		}
	}

	inverted, err := g.Core().RemoveCycles()
	if err != nil {
		return internalInvariantf("cycle removal: %s", err)
	}

	for _, eid := range inverted {
		e := g.Edge(eid)
		if e == nil {
			continue
		}
		e.IsInverted = true
		src := g.Node(e.Src)
		dst := g.Node(e.Dst)
		if dst != nil {
			dst.EnsureConnector(model.SideOut, "bottomIn")
		}
		if src != nil {
			src.EnsureConnector(model.SideIn, "topOut")
		}
		// Keep the model edge in step with the inverted GraphCore edge;
		// restoreCycles swaps both back.
		e.Src, e.Dst = e.Dst, e.Src
		e.SrcPort, e.DstPort = e.DstPort, e.SrcPort
	}
	return nil
}

// restoreCycles reverses every edge GraphCore inverted and reverses
// its routed points. The bottomIn/topOut ports are left
// in place as rendering cues.
func restoreCycles(g *model.Graph) {
	for _, e := range g.Edges() {
		if !e.IsInverted {
			continue
		}
		if err := g.Core().Invert(core.EdgeID(e.ID)); err != nil {
			continue
		}
		e.Src, e.Dst = e.Dst, e.Src
		e.SrcPort, e.DstPort = e.DstPort, e.SrcPort
		for i, j := 0, len(e.Points)-1; i < j; i, j = i+1, j-1 {
			e.Points[i], e.Points[j] = e.Points[j], e.Points[i]
		}
		e.IsInverted = false
	}
}

// virtualize inserts one zero-size LayoutNode per intermediate rank on
// every primary edge spanning more than one rank.
// Intermediate segments carry weight +Inf so ordering treats them as
// heavy; the final segment keeps the original destination port.
func virtualize(g *model.Graph) error {
	for _, e := range g.Edges() {
		if !e.IsPrimary() {
			continue
		}
		src, dst := g.Node(e.Src), g.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		srcBottom := src.Rank + src.RankSpan
		if srcBottom >= dst.Rank {
			continue
		}

		origDstPort := e.DstPort

		var chain []*model.Node
		for r := srcBottom; r < dst.Rank; r++ {
			v := g.AddNode()
			v.IsVirtual = true
			v.Rank = r
			v.RankSpan = 1
			chain = append(chain, v)
		}

		// First segment: reuse the original edge, keeping its source
		// port and identity, redirected to the first virtual node.
		e.DstPort = ""
		if err := g.Redirect(e, src, chain[0]); err != nil {
			return err
		}

		// Interior segments between consecutive virtual nodes are
		// heavy: they model one node's internal rank span.
		for i := 1; i < len(chain); i++ {
			ce, err := g.AddEdge(chain[i-1], chain[i])
			if err != nil {
				return err
			}
			ce.IsInverted = e.IsInverted
			ce.Weight = math.Inf(1)
			g.SyncWeight(ce)
		}

		// Final segment carries the original destination port.
		final, err := g.AddEdge(chain[len(chain)-1], dst)
		if err != nil {
			return err
		}
		final.DstPort = origDstPort
		final.IsInverted = e.IsInverted
		if len(chain) > 1 {
			final.Weight = math.Inf(1)
			g.SyncWeight(final)
		}
	}
	return nil
}

// assignY derives every node's Y from cumulative rank heights: each
// rank's height is its tallest occupant, separated by targetEdgeLength.
func assignY(g *model.Graph, targetEdgeLength float64) {
	heights := make(map[int]float64)
	for _, n := range g.Nodes() {
		if n.Height > heights[n.Rank] {
			heights[n.Rank] = n.Height
		}
	}
	maxRank := 0
	for r := range heights {
		if r > maxRank {
			maxRank = r
		}
	}
	top := make([]float64, maxRank+2)
	for r := 0; r <= maxRank; r++ {
		top[r+1] = top[r] + heights[r] + targetEdgeLength
	}
	for _, n := range g.Nodes() {
		n.Y = top[n.Rank] + heights[n.Rank]/2
	}
}

// checkInvariants implements a debug-only assertion: immediately after
// virtualization, every edge must connect adjacent ranks.
func checkInvariants(g *model.Graph) error {
	for _, e := range g.Edges() {
		src, dst := g.Node(e.Src), g.Node(e.Dst)
		if src == nil || dst == nil {
			continue
		}
		if dst.Rank != src.Rank+src.RankSpan {
			return internalInvariantf("edge %d spans rank %d..%d after virtualization", e.ID, src.Rank, dst.Rank)
		}
	}
	return nil
}
