package hlayout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout"
	"github.com/hlayout/hlayout/model"
)

func buildNode(g *model.Graph, w, h float64) *model.Node {
	n := g.AddNode()
	n.Width, n.Height = w, h
	return n
}

func TestLayoutChainOfThree(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a := buildNode(g, 40, 20)
	b := buildNode(g, 40, 20)
	c := buildNode(g, 40, 20)
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)

	out, err := hlayout.Layout(g, hlayout.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.X, b.X)
	assert.Equal(t, b.X, c.X)
	assert.Less(t, a.Y, b.Y)
	assert.Less(t, b.Y, c.Y)
	assert.InDelta(t, a.Height+hlayout.DefaultOptions().TargetEdgeLength, b.Y-a.Y, 0.01)
	_ = out
}

func TestLayoutDiamondSymmetric(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a := buildNode(g, 40, 20)
	b := buildNode(g, 40, 20)
	c := buildNode(g, 40, 20)
	d := buildNode(g, 40, 20)
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(a, c)
	require.NoError(t, err)
	_, err = g.AddEdge(b, d)
	require.NoError(t, err)
	_, err = g.AddEdge(c, d)
	require.NoError(t, err)

	_, err = hlayout.Layout(g, hlayout.DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, b.X, c.X)
	mid := (b.X + c.X) / 2
	assert.InDelta(t, a.X, mid, 0.01)
	assert.InDelta(t, d.X, mid, 0.01)
}

func TestLayoutInvertedEdgeRestoresDirection(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a := buildNode(g, 40, 20)
	b := buildNode(g, 40, 20)
	ab, err := g.AddEdge(a, b)
	require.NoError(t, err)
	ba, err := g.AddEdge(b, a)
	require.NoError(t, err)

	_, err = hlayout.Layout(g, hlayout.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, ab.IsInverted)
	assert.False(t, ba.IsInverted)
	assert.Equal(t, a.ID, ab.Src)
	assert.Equal(t, b.ID, ab.Dst)
	assert.Equal(t, b.ID, ba.Src)
	assert.Equal(t, a.ID, ba.Dst)
}

func TestLayoutScopeMapAlignsEntryExit(t *testing.T) {
	t.Parallel()

	root := model.NewGraph(true)
	scope := buildNode(root, 0, 0)
	child := model.NewGraph(false)
	scope.ChildGraph = child

	entry := buildNode(child, 10, 10)
	exit := buildNode(child, 10, 10)
	child.Entry, child.Exit = entry, exit
	n1 := buildNode(child, 30, 20)
	n2 := buildNode(child, 30, 20)
	_, err := child.AddEdge(entry, n1)
	require.NoError(t, err)
	_, err = child.AddEdge(entry, n2)
	require.NoError(t, err)
	_, err = child.AddEdge(n1, exit)
	require.NoError(t, err)
	_, err = child.AddEdge(n2, exit)
	require.NoError(t, err)

	_, err = hlayout.Layout(root, hlayout.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, entry.X, exit.X, 0.01)
}

func TestLayoutLongEdgeInsertsVirtualNodes(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a := buildNode(g, 40, 20)
	b := buildNode(g, 40, 20)
	mid1 := buildNode(g, 40, 20)
	mid2 := buildNode(g, 40, 20)
	_, err := g.AddEdge(a, mid1)
	require.NoError(t, err)
	_, err = g.AddEdge(mid1, mid2)
	require.NoError(t, err)
	ab, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(mid2, b)
	require.NoError(t, err)

	_, err = hlayout.Layout(g, hlayout.DefaultOptions())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(ab.Points), 4)
}

func TestLayoutIsInvalidOnScopeEntryExitMismatch(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a := buildNode(g, 40, 20)
	b := buildNode(g, 40, 20)
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)

	scope := buildNode(g, 0, 0)
	child := model.NewGraph(false)
	child.Entry = model.NewNode(0) // exit deliberately left nil
	scope.ChildGraph = child

	_, err = hlayout.Layout(g, hlayout.DefaultOptions())
	assert.ErrorIs(t, err, hlayout.ErrInvalidInput)
}
