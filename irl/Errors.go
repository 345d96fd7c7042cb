package irl

import "errors"

// The error kinds the learning loop can fail with. All are fatal for
// the run in which they occur: the caller receives either a policy or
// one of these, never a partial best-effort policy. Errors returned by
// this package wrap one of the sentinels, so callers dispatch with
// errors.Is.
var (
	// ErrInvalidInput indicates an empty expert demonstration set, an
	// invalid configuration value, or a feature-mapping output whose
	// length changed between calls.
	ErrInvalidInput = errors.New("irl: invalid input")

	// ErrInconsistentInitialState indicates that the expert
	// trajectories do not share a single common initial state under
	// the supplied state equivalence. Single-start comparison of
	// feature expectations is the premise of the algorithm, so no
	// learning is attempted.
	ErrInconsistentInitialState = errors.New(
		"irl: expert trajectories do not share a common initial state")

	// ErrOptimizationFailure indicates that the max-margin quadratic
	// program could not be solved to certified optimality. No fallback
	// weight vector is substituted: an uncertified solution could
	// corrupt the margin convergence test silently.
	ErrOptimizationFailure = errors.New("irl: optimization failure")
)
