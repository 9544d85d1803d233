package connector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlayout/hlayout/internal/connector"
	"github.com/hlayout/hlayout/model"
)

func TestPlaceCentersSinglePort(t *testing.T) {
	t.Parallel()

	n := model.NewNode(0)
	n.Width, n.Height = 100, 30
	n.AddConnector(model.SideIn, "in")

	connector.Place(n, connector.DefaultOptions())
	assert.InDelta(t, 50, n.In[0].X, 0.01)
	assert.Equal(t, 0.0, n.In[0].Y)
}

func TestPlaceSpreadsMultiplePorts(t *testing.T) {
	t.Parallel()

	n := model.NewNode(0)
	n.Width, n.Height = 200, 30
	n.AddConnector(model.SideOut, "a")
	n.AddConnector(model.SideOut, "b")

	connector.Place(n, connector.DefaultOptions())
	assert.Less(t, n.Out[0].X, n.Out[1].X)
	for _, c := range n.Out {
		assert.Equal(t, n.Height, c.Y)
	}
}

func TestAlignScopedPairsSharesX(t *testing.T) {
	t.Parallel()

	n := model.NewNode(0)
	n.Width, n.Height = 100, 30
	in := n.AddConnector(model.SideIn, "IN_x")
	out := n.AddConnector(model.SideOut, "OUT_x")
	in.IsScoped, out.IsScoped = true, true
	in.Counterpart, out.Counterpart = out, in

	connector.Place(n, connector.DefaultOptions())
	assert.Equal(t, in.X, out.X)
}
