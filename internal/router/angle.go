package router

import (
	"math"

	"github.com/hlayout/hlayout/model"
)

const goldenRatio = 0.6180339887498949

// crossing is one rank-internal segment crossing classified as
// head-on: the two segments travel in opposite horizontal directions
// as they pass through the same Y band.
type crossing struct {
	a, b *model.Edge
	y    float64
}

// optimizeAngles is a post-pass: every head-on, rank-internal
// crossing gets a local vertical push, solved by
// golden-section search over pushes in [0, maxForce], that trades
// off crossing-angle cost against edge-length deviation. Forces
// accumulate by Y and are applied to every point (and OUT port) at or
// below that Y, so downstream geometry shifts coherently.
func optimizeAngles(g *model.Graph, opts Options) {
	const maxForce = 40
	crossings := findHeadOnCrossings(g)
	if len(crossings) == 0 {
		return
	}

	forceByY := make(map[float64]float64)
	for _, c := range crossings {
		force := goldenSectionMinimize(0, maxForce, func(f float64) float64 {
			return crossingCost(c, opts.TargetEdgeLength, f)
		})
		forceByY[c.y] += force
	}

	ys := make([]float64, 0, len(forceByY))
	for y := range forceByY {
		ys = append(ys, y)
	}
	sortFloats(ys)

	var cumulative float64
	applied := make(map[float64]float64, len(ys))
	for _, y := range ys {
		cumulative += forceByY[y]
		applied[y] = cumulative
	}

	for _, n := range g.Nodes() {
		if push, ok := nearestAtOrBelow(applied, ys, n.Y); ok {
			n.Y += push
			for _, c := range n.Out {
				c.Y += push
			}
		}
	}
	for _, e := range g.Edges() {
		for i := range e.Points {
			if push, ok := nearestAtOrBelow(applied, ys, e.Points[i].Y); ok {
				e.Points[i].Y += push
			}
		}
	}
}

func nearestAtOrBelow(applied map[float64]float64, sortedYs []float64, y float64) (float64, bool) {
	var best float64
	found := false
	for _, candidate := range sortedYs {
		if candidate <= y {
			best = applied[candidate]
			found = true
		}
	}
	return best, found
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// crossingCost weights crossing-angle quality (closer to 90 degrees is
// better) against the edge-length deviation a vertical push of f
// introduces.
func crossingCost(c crossing, targetEdgeLength, f float64) float64 {
	angle := estimateAngle(c.a, f) - estimateAngle(c.b, f)
	angleCost := math.Abs(math.Pi/2 - math.Abs(normalizeAngle(angle)))
	lengthCost := math.Abs(f) / targetEdgeLength
	return angleCost + 0.25*lengthCost
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func estimateAngle(e *model.Edge, f float64) float64 {
	if len(e.Points) < 2 {
		return 0
	}
	p0, p1 := e.Points[0], e.Points[len(e.Points)-1]
	return math.Atan2(p1.Y-p0.Y+f, p1.X-p0.X)
}

// goldenSectionMinimize finds the x in [lo, hi] minimizing cost using
// golden-section search, a derivative-free technique appropriate since
// crossingCost is not guaranteed differentiable everywhere.
func goldenSectionMinimize(lo, hi float64, cost func(float64) float64) float64 {
	const iterations = 40
	a, b := lo, hi
	c := b - goldenRatio*(b-a)
	d := a + goldenRatio*(b-a)
	for i := 0; i < iterations; i++ {
		if cost(c) < cost(d) {
			b = d
		} else {
			a = c
		}
		c = b - goldenRatio*(b-a)
		d = a + goldenRatio*(b-a)
	}
	return (a + b) / 2
}

// findHeadOnCrossings scans same-rank-pair segments for pairs whose
// horizontal direction opposes the other's, a proxy for the visually
// worst crossings worth straightening.
func findHeadOnCrossings(g *model.Graph) []crossing {
	var out []crossing
	edges := g.Edges()
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			a, b := edges[i], edges[j]
			if len(a.Points) < 2 || len(b.Points) < 2 {
				continue
			}
			ay := (a.Points[0].Y + a.Points[len(a.Points)-1].Y) / 2
			by := (b.Points[0].Y + b.Points[len(b.Points)-1].Y) / 2
			if math.Abs(ay-by) > 1 {
				continue
			}
			adx := a.Points[len(a.Points)-1].X - a.Points[0].X
			bdx := b.Points[len(b.Points)-1].X - b.Points[0].X
			if adx*bdx < 0 {
				out = append(out, crossing{a: a, b: b, y: ay})
			}
		}
	}
	return out
}
