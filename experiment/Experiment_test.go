package experiment

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/goirl/irl"
)

type stubRunner struct {
	result *irl.Result
	err    error
}

func (s stubRunner) Run() (*irl.Result, error) {
	return s.result, s.err
}

type recordingTracker struct {
	margins []float64
	saved   bool
}

func (r *recordingTracker) Track(iteration int, margin float64) {
	r.margins = append(r.margins, margin)
}

func (r *recordingTracker) Save() error {
	r.saved = true
	return nil
}

func TestRunFeedsTrackers(t *testing.T) {
	margins := []float64{1.2, 0.3, 1e-6}
	tracker := &recordingTracker{}

	e := New(stubRunner{result: &irl.Result{
		Outcome: irl.Converged,
		Margins: margins,
	}}, tracker)

	result, err := e.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Outcome != irl.Converged {
		t.Errorf("outcome %v, want Converged", result.Outcome)
	}
	if len(tracker.margins) != len(margins) {
		t.Fatalf("tracker saw %d margins, want %d",
			len(tracker.margins), len(margins))
	}

	if err := e.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !tracker.saved {
		t.Error("tracker was not saved")
	}
}

func TestRunPropagatesFailure(t *testing.T) {
	wantErr := errors.New("planner exploded")
	e := New(stubRunner{err: wantErr}, &recordingTracker{})

	if _, err := e.Run(); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want the learner's error", err)
	}
}

func TestRegister(t *testing.T) {
	e := New(stubRunner{result: &irl.Result{Margins: []float64{0.5}}})
	tracker := &recordingTracker{}
	e.Register(tracker)

	if _, err := e.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(tracker.margins) != 1 {
		t.Errorf("registered tracker saw %d margins, want 1",
			len(tracker.margins))
	}
}
