package domain

import "errors"

// Sentinel error kinds for the pipeline's error taxonomy. Each pipeline
// stage wraps one of these with github.com/pkg/errors so callers can
// classify failures with errors.Is while still getting a stack trace on
// the wrapped error.
var (
	// ErrInputMalformed marks a spreadsheet row or config value that
	// could not be parsed into the expected shape.
	ErrInputMalformed = errors.New("input malformed")

	// ErrRegionLookupFailed marks a failed nearby-places resolution.
	// Recovered by falling back to a bounding box around the query point.
	ErrRegionLookupFailed = errors.New("region lookup failed")

	// ErrGraphUnavailable marks total failure to acquire a road graph
	// after exhausting the region and bounding-box fallback chain. Fatal.
	ErrGraphUnavailable = errors.New("road graph unavailable")

	// ErrEdgeTagUnparsable marks a maxspeed/highway tag combination the
	// annotator could not resolve to a numeric speed. Recovered via the
	// default speed.
	ErrEdgeTagUnparsable = errors.New("edge tag unparsable")

	// ErrNoPath marks an unreachable node pair. Recovered as +Inf in a
	// matrix cell or a skipped segment during reification.
	ErrNoPath = errors.New("no path between nodes")

	// ErrOptimizerInfeasible marks a vehicle's stop set that cannot be
	// assigned a feasible tour under its capacity constraint. Fatal for
	// that vehicle's tour.
	ErrOptimizerInfeasible = errors.New("tour optimizer infeasible")
)
