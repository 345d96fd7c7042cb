package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Margin tracks the per-iteration max-margin scores of a learning run
// and saves them as a gob-encoded []float64. The series is the
// worst-case advantage of the expert over all generated policies at
// each iteration; a run that converges ends with a value at or below
// the run's epsilon.
type Margin struct {
	margins  []float64
	filename string
}

// NewMargin creates and returns a new *Margin Tracker that saves to
// filename.
func NewMargin(filename string) *Margin {
	return &Margin{filename: filename}
}

// Track records the margin of an iteration. Track panics if it is
// called for non-sequential iterations.
func (m *Margin) Track(iteration int, margin float64) {
	if iteration != len(m.margins) {
		panic(fmt.Sprintf("track: iteration %d out of order, want %d",
			iteration, len(m.margins)))
	}
	m.margins = append(m.margins, margin)
}

// Save writes the tracked margins to disk.
func (m *Margin) Save() error {
	file, err := os.Create(m.filename)
	if err != nil {
		return fmt.Errorf("save: could not create %v: %v", m.filename, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(m.margins); err != nil {
		return fmt.Errorf("save: could not encode margins: %v", err)
	}
	return nil
}

// LoadData reads a margin series saved by a Margin Tracker.
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open %v: %v",
			filename, err)
	}
	defer file.Close()

	var margins []float64
	if err := gob.NewDecoder(file).Decode(&margins); err != nil {
		return nil, fmt.Errorf("loadData: could not decode %v: %v",
			filename, err)
	}
	return margins, nil
}
