// Package irl implements apprenticeship learning via inverse
// reinforcement learning: recovering a linear reward function whose
// optimal policy matches expert demonstrations in feature expectation.
//
// The implementation follows the max-margin algorithm of Abbeel and
// Ng, "Apprenticeship Learning via Inverse Reinforcement Learning"
// (ICML 2004): alternate between solving a quadratic program for the
// reward weights that maximize the expert's margin over all previously
// generated policies, and planning a new policy for those weights.
package irl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/utils/matutils"
)

// FeatureExpectations is the discounted sum of feature vectors along a
// trajectory, or the mean of such sums over a batch of trajectories.
// It is immutable after construction; accessors return defensive
// copies so instances can be shared freely across iterations.
type FeatureExpectations struct {
	values *mat.VecDense
}

// NewFeatureExpectations computes the feature expectations of a single
// trajectory:
//
//	u = Σᵢ γⁱ φ(stateᵢ)
//
// with the step index starting at 0. A zero-length trajectory yields
// the zero vector. Every feature vector the mapping produces must have
// the mapping's declared length; a mismatch fails with ErrInvalidInput.
func NewFeatureExpectations(traj mdp.Trajectory, mapping mdp.FeatureMapping,
	gamma float64) (FeatureExpectations, error) {

	if err := checkGamma(gamma); err != nil {
		return FeatureExpectations{}, err
	}

	values := mat.NewVecDense(mapping.Len(), nil)
	for i, state := range traj.States {
		features := mapping.Features(state)
		if features.Len() != mapping.Len() {
			return FeatureExpectations{}, fmt.Errorf(
				"newFeatureExpectations: feature vector has length "+
					"%d, mapping declares %d: %w",
				features.Len(), mapping.Len(), ErrInvalidInput)
		}
		values.AddScaledVec(values, math.Pow(gamma, float64(i)), features)
	}
	return FeatureExpectations{values: values}, nil
}

// NewExpertFeatureExpectations computes the empirical feature
// expectations of a batch of expert trajectories: each trajectory's
// discounted sum is computed independently (the step index restarts at
// 0 per trajectory) and the arithmetic mean over the batch is
// returned. An empty batch fails with ErrInvalidInput.
func NewExpertFeatureExpectations(trajs []mdp.Trajectory,
	mapping mdp.FeatureMapping, gamma float64) (FeatureExpectations, error) {

	if len(trajs) == 0 {
		return FeatureExpectations{}, fmt.Errorf(
			"newExpertFeatureExpectations: empty expert trajectory "+
				"batch: %w", ErrInvalidInput)
	}

	values := mat.NewVecDense(mapping.Len(), nil)
	for _, traj := range trajs {
		u, err := NewFeatureExpectations(traj, mapping, gamma)
		if err != nil {
			return FeatureExpectations{}, err
		}
		values.AddVec(values, u.values)
	}
	values.ScaleVec(1/float64(len(trajs)), values)
	return FeatureExpectations{values: values}, nil
}

// Len returns the feature dimensionality.
func (f FeatureExpectations) Len() int {
	return f.values.Len()
}

// AtVec returns the i-th component.
func (f FeatureExpectations) AtVec(i int) float64 {
	return f.values.AtVec(i)
}

// Values returns a copy of the feature expectation vector.
func (f FeatureExpectations) Values() *mat.VecDense {
	return matutils.VecCopy(f.values)
}

// String implements the fmt.Stringer interface
func (f FeatureExpectations) String() string {
	return matutils.Format(f.values.T())
}

// checkGamma validates that a discount factor lies in (0, 1].
func checkGamma(gamma float64) error {
	if gamma <= 0 || gamma > 1 {
		return fmt.Errorf("checkGamma: discount factor %v not in "+
			"(0, 1]: %w", gamma, ErrInvalidInput)
	}
	return nil
}
