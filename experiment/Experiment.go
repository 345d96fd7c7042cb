// Package experiment implements functionality for running an
// apprenticeship learning session and saving the data it generates.
//
// An experiment wraps a configured learner, runs it to completion, and
// feeds the per-iteration margins to registered trackers.Tracker
// instances, which persist them (gob series, convergence charts) when
// the run finishes.
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/goirl/experiment/trackers"
	"github.com/samuelfneumann/goirl/irl"
)

// Runner runs a learning session to completion. *irl.Apprenticeship
// satisfies Runner.
type Runner interface {
	Run() (*irl.Result, error)
}

// Apprenticeship runs a learner and tracks its convergence data.
type Apprenticeship struct {
	learner  Runner
	trackers []trackers.Tracker
}

// New creates and returns a new *Apprenticeship experiment on a given
// learner. The t parameter is a list of trackers.Tracker which
// determine what data is saved.
func New(learner Runner, t ...trackers.Tracker) *Apprenticeship {
	return &Apprenticeship{learner: learner, trackers: t}
}

// Register adds a tracker to the experiment.
func (e *Apprenticeship) Register(t trackers.Tracker) {
	e.trackers = append(e.trackers, t)
}

// Run runs the learning session. On success the margins of every
// iteration are forwarded to the registered trackers; Save must be
// called to persist them.
func (e *Apprenticeship) Run() (*irl.Result, error) {
	result, err := e.learner.Run()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	for i, margin := range result.Margins {
		for _, t := range e.trackers {
			t.Track(i, margin)
		}
	}
	return result, nil
}

// Save persists all tracked data to disk.
func (e *Apprenticeship) Save() error {
	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}
