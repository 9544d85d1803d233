package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/internal/router"
	"github.com/hlayout/hlayout/model"
)

func straightChain(t *testing.T) (*model.Graph, *model.Node, *model.Node, *model.Edge) {
	t.Helper()
	g := model.NewGraph(false)
	a := g.AddNode()
	a.X, a.Y, a.Width, a.Height = 0, 0, 40, 20
	a.Rank = 0

	v := g.AddNode()
	v.X, v.Y, v.Width, v.Height = 0, 50, 1, 1
	v.Rank = 1
	v.IsVirtual = true

	b := g.AddNode()
	b.X, b.Y, b.Width, b.Height = 0, 100, 40, 20
	b.Rank = 2

	e1, err := g.AddEdge(a, v)
	require.NoError(t, err)
	e2, err := g.AddEdge(v, b)
	require.NoError(t, err)
	return g, a, b, firstOf(e1, e2)
}

func firstOf(e1, e2 *model.Edge) *model.Edge { return e1 }

func TestRouteCollapsesVirtualChain(t *testing.T) {
	t.Parallel()

	g, a, b, head := straightChain(t)
	require.NoError(t, router.Route(g, router.Options{TargetEdgeLength: 50}))

	assert.Equal(t, a.ID, head.Src)
	assert.Equal(t, b.ID, head.Dst)
	assert.Len(t, g.Nodes(), 2, "virtual node should be removed")
	require.NotEmpty(t, head.Points)
}

func TestRouteSelfLoop(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	n := g.AddNode()
	n.Width, n.Height = 40, 20
	out := n.AddConnector(model.SideOut, "$temp")
	in := n.AddConnector(model.SideIn, "$temp")
	e, err := g.AddEdge(n, n)
	require.NoError(t, err)
	e.SrcPort, e.DstPort = out.Name, in.Name
	n.SelfLoop = e

	require.NoError(t, router.Route(g, router.Options{TargetEdgeLength: 50}))
	assert.Len(t, e.Points, 4)
}
