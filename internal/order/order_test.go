package order_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlayout/hlayout/internal/order"
)

func TestBilayerCrossingsSimpleCross(t *testing.T) {
	t.Parallel()

	// North 0->South 1, North 1->South 0: one crossing.
	cc := order.BilayerCrossings(2, order.NewBJMEdge(0, 1, 1), order.NewBJMEdge(1, 0, 1))
	assert.Equal(t, float64(1), cc)
}

func TestBilayerCrossingsNoCross(t *testing.T) {
	t.Parallel()

	cc := order.BilayerCrossings(2, order.NewBJMEdge(0, 0, 1), order.NewBJMEdge(1, 1, 1))
	assert.Equal(t, float64(0), cc)
}

func TestSweepKeepsDiamondCrossingFree(t *testing.T) {
	t.Parallel()

	og := order.NewGraph(3, true)
	a := &order.Unit{ID: 0}
	og.AddGroup(0, 0, []*order.Unit{a})
	b := &order.Unit{ID: 1}
	c := &order.Unit{ID: 2}
	// Start b, c in reverse id order; a diamond has no crossings in
	// either order, so the sweep must leave it at zero.
	og.AddGroup(1, 1, []*order.Unit{c})
	og.AddGroup(1, 2, []*order.Unit{b})
	d := &order.Unit{ID: 3}
	og.AddGroup(2, 3, []*order.Unit{d})

	og.AddEdge(a, b, 1)
	og.AddEdge(a, c, 1)
	og.AddEdge(b, d, 1)
	og.AddEdge(c, d, 1)

	og.Sweep(24)
	assert.Equal(t, float64(0), og.TotalCrossings())
}

func TestResolveHeavyConflictsRemovesHeavyHeavy(t *testing.T) {
	t.Parallel()

	og := order.NewGraph(2, true)
	n0 := &order.Unit{ID: 0}
	n1 := &order.Unit{ID: 1}
	og.AddGroup(0, 0, []*order.Unit{n0})
	og.AddGroup(0, 1, []*order.Unit{n1})

	s0 := &order.Unit{ID: 2}
	s1 := &order.Unit{ID: 3}
	og.AddGroup(1, 2, []*order.Unit{s0})
	og.AddGroup(1, 3, []*order.Unit{s1})

	// Crossed heavy edges: n0->s1 and n1->s0.
	og.AddEdge(n0, s1, math.Inf(1))
	og.AddEdge(n1, s0, math.Inf(1))

	og.ResolveHeavyConflicts(10)
	assert.False(t, og.HasHeavyConflict())
}
