package hlayout

import "fmt"

// ErrInvalidInput reports a structurally unusable input graph, as found
// by model.Graph.Validate: a dangling edge or a scope entry without a
// matching exit. Node and edge ids are allocated by the graph, so
// duplicates do not arise; preassigned ranks are not checked for
// reachability. The engine refuses to proceed past validation when this
// occurs.
var ErrInvalidInput = fmt.Errorf("hlayout: invalid input")

// ErrInternalInvariantViolated is only ever returned from a debug build
// (Options.Debug == true); it reports a broken structural coherence
// assertion. The one assertion made is that every edge connects
// adjacent ranks after virtualization; orders and residual heavy
// conflicts are not checked. Release builds skip the check.
var ErrInternalInvariantViolated = fmt.Errorf("hlayout: internal invariant violated")

// ErrUnrankable is surfaced when a subgraph that should be acyclic going
// into rank assignment still contains a cycle.
var ErrUnrankable = fmt.Errorf("hlayout: unrankable")

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func internalInvariantf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInternalInvariantViolated, fmt.Sprintf(format, args...))
}
