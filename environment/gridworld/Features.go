package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goirl/mdp"
)

// MacroFeatures maps gridworld positions to one-hot indicator vectors
// over square macro-cells: the grid is partitioned into size x size
// blocks and the feature of a position is the indicator of the block
// containing it. Feature expectations under this mapping measure
// discounted occupancy per region, the representation used in the
// Abbeel-Ng gridworld experiments.
type MacroFeatures struct {
	rows, cols int
	size       int
	macroCols  int
	dim        int
}

// NewMacroFeatures returns a MacroFeatures mapping for an r x c grid
// with macro-cells of the given size.
func NewMacroFeatures(r, c, size int) (*MacroFeatures, error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("newMacroFeatures: grid dimensions "+
			"(%d, %d) must be positive", r, c)
	}
	if size <= 0 {
		return nil, fmt.Errorf("newMacroFeatures: macro-cell size %d "+
			"must be positive", size)
	}

	macroRows := (r + size - 1) / size
	macroCols := (c + size - 1) / size
	return &MacroFeatures{
		rows:      r,
		cols:      c,
		size:      size,
		macroCols: macroCols,
		dim:       macroRows * macroCols,
	}, nil
}

// Features returns the one-hot macro-cell indicator of s.
func (m *MacroFeatures) Features(s mdp.State) *mat.VecDense {
	p := s.(Position)
	features := mat.NewVecDense(m.dim, nil)
	features.SetVec(m.index(p), 1)
	return features
}

// Len returns the number of macro-cells.
func (m *MacroFeatures) Len() int {
	return m.dim
}

// index returns the macro-cell index of a position.
func (m *MacroFeatures) index(p Position) int {
	return (p.Y/m.size)*m.macroCols + p.X/m.size
}
