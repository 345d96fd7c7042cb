package irl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goirl/qp"
	"github.com/samuelfneumann/goirl/utils/matutils"
)

// FeatureWeights is one iteration's solution of the max-margin
// quadratic program: the reward coefficient vector together with the
// achieved margin, the worst-case advantage of the expert's feature
// expectations over every policy in the history under these weights.
type FeatureWeights struct {
	weights *mat.VecDense
	score   float64
}

// Weights returns a copy of the reward coefficient vector. Its
// Euclidean norm is at most 1 up to the solver's feasibility
// tolerance.
func (f *FeatureWeights) Weights() *mat.VecDense {
	return matutils.VecCopy(f.weights)
}

// Score returns the achieved margin.
func (f *FeatureWeights) Score() float64 {
	return f.score
}

// SolveFeatureWeights solves the max-margin program at one iteration
// of the learning loop:
//
//	maximize    t
//	subject to  w·uE ≥ w·uⱼ + t   for every uⱼ in the history
//	            ‖w‖₂ ≤ 1
//
// over the variable vector x = (w₀, ..., w_{F-1}, t). Each history
// entry contributes the linear inequality (uⱼ-uE)·w + t ≤ 0, and the
// norm bound is the quadratic inequality xᵀI'x ≤ 1 with the t-diagonal
// of I' zeroed so only the weight sub-vector is constrained.
//
// The history must contain at least one entry and every entry must
// match the expert's feature dimensionality; violations fail with
// ErrInvalidInput. A solver failure fails with ErrOptimizationFailure
// and no fallback weights.
func SolveFeatureWeights(expert FeatureExpectations,
	history []FeatureExpectations) (*FeatureWeights, error) {

	if len(history) == 0 {
		return nil, fmt.Errorf("solveFeatureWeights: empty feature "+
			"expectations history: %w", ErrInvalidInput)
	}

	dim := expert.Len()
	problem := &qp.Problem{
		// Maximizing t is minimizing -t
		C:      objective(dim),
		Linear: make([]qp.LinearConstraint, 0, len(history)),
	}

	for j, u := range history {
		if u.Len() != dim {
			return nil, fmt.Errorf("solveFeatureWeights: history "+
				"entry %d has length %d, expert has %d: %w",
				j, u.Len(), dim, ErrInvalidInput)
		}
		problem.Linear = append(problem.Linear, marginConstraint(expert, u))
	}
	problem.Quadratic = []qp.QuadraticConstraint{normConstraint(dim)}

	// (w, t) = (0, -1) satisfies every constraint strictly: each
	// margin row reduces to t ≤ 0 at w = 0, and the norm bound
	// ignores t entirely.
	start := mat.NewVecDense(dim+1, nil)
	start.SetVec(dim, -1)

	solution, err := qp.Solve(problem, start, qp.NewSettings())
	if err != nil {
		return nil, fmt.Errorf("solveFeatureWeights: %w: %v",
			ErrOptimizationFailure, err)
	}

	weights := mat.NewVecDense(dim, nil)
	for i := 0; i < dim; i++ {
		weights.SetVec(i, solution.AtVec(i))
	}
	return &FeatureWeights{weights: weights, score: solution.AtVec(dim)}, nil
}

// objective returns the coefficient vector of the objective -t over
// x = (w, t).
func objective(dim int) *mat.VecDense {
	c := mat.NewVecDense(dim+1, nil)
	c.SetVec(dim, -1)
	return c
}

// marginConstraint encodes w·uE ≥ w·uⱼ + t as the canonical row
// (uⱼ - uE, 1)·x ≤ 0.
func marginConstraint(expert, u FeatureExpectations) qp.LinearConstraint {
	dim := expert.Len()
	coeffs := mat.NewVecDense(dim+1, nil)
	for i := 0; i < dim; i++ {
		coeffs.SetVec(i, u.AtVec(i)-expert.AtVec(i))
	}
	coeffs.SetVec(dim, 1)
	return qp.LinearConstraint{A: coeffs, B: 0}
}

// normConstraint encodes ‖w‖₂ ≤ 1 as xᵀI'x ≤ 1 with the last diagonal
// entry of I' zeroed to leave t unconstrained.
func normConstraint(dim int) qp.QuadraticConstraint {
	identity := mat.NewSymDense(dim+1, nil)
	for i := 0; i < dim; i++ {
		identity.SetSym(i, i, 1)
	}
	return qp.QuadraticConstraint{P: identity, R: 1}
}
