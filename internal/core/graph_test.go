package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/internal/core"
)

func TestToposortDAG(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c, 1)
	require.NoError(t, err)

	order, ok := g.Toposort()
	assert.True(t, ok)
	assert.Equal(t, []core.NodeID{a, b, c}, order)
}

func TestToposortCycleNotOK(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	a, b := g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(b, a, 1)
	require.NoError(t, err)

	_, ok := g.Toposort()
	assert.False(t, ok)
}

func TestRemoveCyclesBreaksEveryCycle(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(c, a, 1)
	require.NoError(t, err)

	inverted, err := g.RemoveCycles()
	require.NoError(t, err)
	assert.Len(t, inverted, 1)

	_, ok := g.Toposort()
	assert.True(t, ok, "graph must be acyclic after RemoveCycles")
}

func TestRemoveCyclesBreaksSharedVertexCycles(t *testing.T) {
	t.Parallel()

	// Two 2-cycles sharing Q: P<->Q and Q<->R. Forcing P inverts Q->P,
	// which must not be mistaken for one of P's original out-edges when
	// the peeling continues into Q and R.
	g := core.NewGraph()
	p, q, r := g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(p, q, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(q, p, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(q, r, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(r, q, 1)
	require.NoError(t, err)

	_, err = g.RemoveCycles()
	require.NoError(t, err)

	_, ok := g.Toposort()
	assert.True(t, ok, "graph must be acyclic after RemoveCycles")
}

func TestRedirectPreservesWeight(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	eid, err := g.AddEdge(a, b, math.Inf(1))
	require.NoError(t, err)

	require.NoError(t, g.Redirect(eid, a, c))
	e := g.Edge(eid)
	assert.Equal(t, c, e.Dst)
	assert.True(t, math.IsInf(e.Weight, 1))
}

func TestCorruptedOnUnknownID(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	_, err := g.OutEdges(core.NodeID(999))
	assert.ErrorIs(t, err, core.ErrCorrupted)
}

func TestComponents(t *testing.T) {
	t.Parallel()

	g := core.NewGraph()
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(c, d, 1)
	require.NoError(t, err)

	comps := g.Components()
	assert.Len(t, comps, 2)
}
