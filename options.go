package hlayout

import "cdr.dev/slog"

// Options configures one Layout call. Every field is independently
// settable; the zero value is not the documented default for every
// field, so callers should start from DefaultOptions and apply
// functional options on top, mirroring the GraphOption pattern used
// throughout this module's graph-library neighbors.
type Options struct {
	// TargetEdgeLength is the unit of vertical separation and ideal
	// edge length used by ranking spacing and the angle optimizer.
	TargetEdgeLength float64

	// WithLabels is not read by the pipeline: label sizes do not affect
	// routing and LabelPos/LabelOffset are left unset.
	WithLabels bool

	// Bundle is passed to the router, which does not read it. Bundles are
	// not detected; edges that already carry a Bundle are routed as
	// bundle members whatever this flag says.
	Bundle bool

	// OptimizeAngles runs the golden-section angle-optimization pass.
	OptimizeAngles bool

	// Shuffles is the number of restart attempts during ordering.
	Shuffles int

	// ShuffleGlobal is not read by the pipeline; ordering always shuffles
	// each subgraph's order graph as a whole.
	ShuffleGlobal bool

	// PreorderConnectors runs one extra connector-level sweep ahead of
	// the connector-level shuffle pass. It runs after node-level
	// ordering, not before it.
	PreorderConnectors bool

	// WeightBends, WeightCrossings, WeightLengths are exported through
	// ForAnalysis. The angle optimizer does not read them; its cost uses
	// fixed weights.
	WeightBends     float64
	WeightCrossings float64
	WeightLengths   float64

	// Debug enables InternalInvariantViolated assertions. Off by
	// default; turning it on costs extra passes over the graph.
	Debug bool

	// Logger receives a Debug entry at the cycle-removal, ranking,
	// virtualization, ordering and routing phases. A nil Logger disables
	// logging.
	Logger *slog.Logger
}

// DefaultOptions returns the engine's documented default settings.
func DefaultOptions() Options {
	return Options{
		TargetEdgeLength: 50,
		WeightBends:      0.2,
		WeightCrossings:  1,
		WeightLengths:    0.1,
	}
}

// Option mutates an Options record in place.
type Option func(*Options)

// WithTargetEdgeLength overrides the default 50.
func WithTargetEdgeLength(v float64) Option { return func(o *Options) { o.TargetEdgeLength = v } }

// WithLabelsEnabled sets WithLabels, which the pipeline does not read.
func WithLabelsEnabled() Option { return func(o *Options) { o.WithLabels = true } }

// WithBundleEnabled sets Bundle, which the router does not read.
func WithBundleEnabled() Option { return func(o *Options) { o.Bundle = true } }

// WithOptimizeAngles turns on the angle-optimization pass.
func WithOptimizeAngles() Option { return func(o *Options) { o.OptimizeAngles = true } }

// WithShuffles sets the number of ordering restart attempts.
func WithShuffles(n int) Option { return func(o *Options) { o.Shuffles = n } }

// WithShuffleGlobal sets ShuffleGlobal, which the pipeline does not read.
func WithShuffleGlobal() Option { return func(o *Options) { o.ShuffleGlobal = true } }

// WithPreorderConnectors enables the extra connector-level sweep.
func WithPreorderConnectors() Option { return func(o *Options) { o.PreorderConnectors = true } }

// WithAngleWeights sets WeightBends, WeightCrossings and WeightLengths.
func WithAngleWeights(bends, crossings, lengths float64) Option {
	return func(o *Options) {
		o.WeightBends, o.WeightCrossings, o.WeightLengths = bends, crossings, lengths
	}
}

// WithDebug turns on InternalInvariantViolated assertions.
func WithDebug() Option { return func(o *Options) { o.Debug = true } }

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// New builds an Options record from DefaultOptions plus overrides.
func New(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// AngleWeights is the "options-for-analysis" subset exported so external
// quality tooling can reuse the same weights without depending on the
// full Options record.
type AngleWeights struct {
	Bends, Crossings, Lengths float64
}

// ForAnalysis extracts the angle-optimizer weight subset.
func (o Options) ForAnalysis() AngleWeights {
	return AngleWeights{Bends: o.WeightBends, Crossings: o.WeightCrossings, Lengths: o.WeightLengths}
}
