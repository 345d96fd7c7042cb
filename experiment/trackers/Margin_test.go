package trackers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarginSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "margins.bin")

	tracker := NewMargin(filename)
	want := []float64{1.5, 0.7, 0.01, 1e-7}
	for i, margin := range want {
		tracker.Track(i, margin)
	}
	if err := tracker.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := LoadData(filename)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d margins, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("margin %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMarginOutOfOrder(t *testing.T) {
	tracker := NewMargin("unused")
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for out-of-order iterations")
		}
	}()

	tracker.Track(0, 1.0)
	tracker.Track(2, 0.5)
}

func TestLoadDataMissingFile(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(),
		"missing.bin")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMarginChartSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "margins.html")

	chart := NewMarginChart(filename, "test run")
	for i, margin := range []float64{2.0, 0.5, 1e-5} {
		chart.Track(i, margin)
	}
	if err := chart.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}
