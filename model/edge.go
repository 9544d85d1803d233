package model

import "github.com/hlayout/hlayout/internal/core"

// Point is one vertex of an edge's routed poly-line.
type Point struct {
	X, Y float64
}

// Edge is a directed, weighted connection between two node ports.
type Edge struct {
	ID core.EdgeID

	Src, Dst         core.NodeID
	SrcPort, DstPort string

	Weight float64

	LabelWidth, LabelHeight float64
	LabelPos                string
	LabelOffset             float64

	// IsReplica marks every member of a Bundle other than its Primary;
	// replicas copy the primary's interior points and substitute only
	// their own terminal port point.
	IsReplica bool
	Bundle    *Bundle

	// IsInverted is set by cycle removal and cleared by cycle
	// restoration; it is never observable in the output graph.
	IsInverted bool

	Points []Point
}

// IsPrimary reports whether this edge is the representative member of
// its bundle (or is not bundled at all, in which case it is trivially
// primary).
func (e *Edge) IsPrimary() bool {
	return e.Bundle == nil || e.Bundle.Primary == e
}

// Bundle groups multiple edges that share one endpoint node and one
// missing connector name into a single external attachment point.
type Bundle struct {
	Name string
	Side Side

	Members []*Edge
	Primary *Edge

	// X, Y is the bundle's external attachment point, set just beyond
	// the owning node's rank boundary.
	X, Y float64
}
