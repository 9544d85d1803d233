package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlayout/hlayout/model"
)

func TestAddEdgeDefaultsWeightOne(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b := g.AddNode(), g.AddNode()
	e, err := g.AddEdge(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Weight)
}

func TestSyncWeightReachesCore(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b := g.AddNode(), g.AddNode()
	e, err := g.AddEdge(a, b)
	require.NoError(t, err)

	e.Weight = 7
	g.SyncWeight(e)
	assert.Equal(t, 7.0, g.Core().Edge(e.ID).Weight)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b := g.AddNode(), g.AddNode()
	e, err := g.AddEdge(a, b)
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode(a))
	assert.Nil(t, g.Edge(e.ID))
	assert.Len(t, g.Edges(), 0)
}

func TestEnsureConnectorCreatesTemporaryOnce(t *testing.T) {
	t.Parallel()

	n := model.NewNode(0)
	c1 := n.EnsureConnector(model.SideOut, "")
	c2 := n.EnsureConnector(model.SideOut, "")
	assert.Same(t, c1, c2)
	assert.True(t, c1.IsTemporary)
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	a, b := g.AddNode(), g.AddNode()
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)

	assert.NoError(t, g.Validate())
}

func TestValidateCatchesScopeMismatch(t *testing.T) {
	t.Parallel()

	g := model.NewGraph(false)
	n := g.AddNode()
	child := model.NewGraph(false)
	child.Entry = model.NewNode(0)
	n.ChildGraph = child

	err := g.Validate()
	assert.Error(t, err)
}
