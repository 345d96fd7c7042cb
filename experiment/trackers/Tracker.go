// Package trackers implements tracking and saving of data generated
// during apprenticeship learning runs. Trackers receive the
// max-margin score of every iteration and persist the series in some
// form when Save() is called.
package trackers

// Tracker tracks per-iteration margins of a learning run and saves
// them after the run completes.
type Tracker interface {
	// Track records the margin achieved at an iteration. Iterations
	// arrive in order, starting at 0.
	Track(iteration int, margin float64)

	// Save persists all tracked data
	Save() error
}
