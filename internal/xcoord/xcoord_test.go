package xcoord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/internal/xcoord"
	"github.com/hlayout/hlayout/model"
)

func setOrder(n *model.Node, pos int) {
	n.Index = pos
	n.LevelShadows = []model.LevelShadow{{Rank: n.Rank, Position: pos}}
}

func TestAssignChainStaysVertical(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	a.Width, b.Width, c.Width = 40, 40, 40
	a.Rank, b.Rank, c.Rank = 0, 1, 2
	setOrder(a, 0)
	setOrder(b, 0)
	setOrder(c, 0)
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)

	xcoord.Assign(g, 50)
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, b.X, c.X)
}

func TestAssignSpreadsSiblings(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	top := g.AddNode()
	top.Width = 40
	top.Rank = 0
	setOrder(top, 0)

	left := g.AddNode()
	left.Width = 40
	left.Rank = 1
	setOrder(left, 0)

	right := g.AddNode()
	right.Width = 40
	right.Rank = 1
	setOrder(right, 1)

	_, err := g.AddEdge(top, left)
	require.NoError(t, err)
	_, err = g.AddEdge(top, right)
	require.NoError(t, err)

	xcoord.Assign(g, 50)
	assert.Less(t, left.X, right.X)
	assert.GreaterOrEqual(t, right.X-left.X, left.Width/2+right.Width/2+50)
}

func TestAssignTranslatesMinXToZero(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a := g.AddNode()
	a.Width = 40
	setOrder(a, 0)

	xcoord.Assign(g, 50)
	assert.Equal(t, 0.0, a.X)
}
