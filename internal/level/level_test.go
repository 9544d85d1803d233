package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/internal/level"
	"github.com/hlayout/hlayout/model"
)

func chain3(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph(false)
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	a.Rank, b.Rank, c.Rank = 0, 1, 2
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)
	return g
}

func TestBuildGroupsByRank(t *testing.T) {
	t.Parallel()

	g := chain3(t)
	lg := level.Build(g)

	require.Equal(t, 0, lg.MinRank)
	require.Len(t, lg.Ranks, 3)
	for _, rank := range lg.Ranks {
		assert.Len(t, rank, 1)
	}
}

func TestBuildHonorsRankSpan(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	n := g.AddNode()
	n.Rank = 1
	n.RankSpan = 3

	lg := level.Build(g)
	assert.Equal(t, 1, lg.MinRank)
	require.Len(t, lg.Ranks, 3)
	for _, rank := range lg.Ranks {
		require.Len(t, rank, 1)
		assert.Same(t, n, rank[0].Node)
	}
}

func TestNeighborsFollowsEdgeDirection(t *testing.T) {
	t.Parallel()

	g := chain3(t)
	lg := level.Build(g)

	mid := lg.Ranks[1][0]
	down := lg.Neighbors(g, mid, 1)
	up := lg.Neighbors(g, mid, -1)
	require.Len(t, down, 1)
	require.Len(t, up, 1)
	assert.Equal(t, 2, down[0].Rank)
	assert.Equal(t, 0, up[0].Rank)
}

func TestBuildCachesOnGraph(t *testing.T) {
	t.Parallel()

	g := chain3(t)
	first := level.Build(g)
	second := level.Build(g)
	assert.Same(t, first, second)

	g.InvalidateLevelCache()
	third := level.Build(g)
	assert.NotSame(t, first, third)
}
