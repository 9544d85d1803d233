package rank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/internal/rank"
	"github.com/hlayout/hlayout/model"
)

func TestAssignChain(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)

	require.NoError(t, rank.Assign(g))

	assert.Equal(t, 0, a.Rank)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, 2, c.Rank)
}

func TestAssignDiamondSatisfiesInvariant(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	for _, pair := range [][2]*model.Node{{a, b}, {a, c}, {b, d}, {c, d}} {
		_, err := g.AddEdge(pair[0], pair[1])
		require.NoError(t, err)
	}

	require.NoError(t, rank.Assign(g))

	for _, e := range g.Edges() {
		src, dst := g.Node(e.Src), g.Node(e.Dst)
		assert.GreaterOrEqual(t, dst.Rank, src.Rank+int(e.Weight))
	}
	assert.Equal(t, 0, a.Rank)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, 1, c.Rank)
	assert.Equal(t, 2, d.Rank)
}

func TestAssignRespectsPreassignedSeed(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b := g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)

	a.Rank = 5
	a.RankAssigned = true

	require.NoError(t, rank.Assign(g))

	assert.Equal(t, 0, a.Rank, "ranks are normalized so min rank is 0")
	assert.Equal(t, 1, b.Rank)
}

func TestAssignCycleIsUnrankable(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(true)
	a, b := g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, a)
	require.NoError(t, err)

	err = rank.Assign(g)
	assert.ErrorIs(t, err, rank.ErrUnrankable)
}
