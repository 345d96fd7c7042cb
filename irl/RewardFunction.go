package irl

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/utils/matutils"
)

// RewardFunction evaluates the linear reward R(s, a, s') = φ(s)·w for
// a fixed feature mapping and weight vector. It is an immutable value:
// the weight vector is copied at construction, so later solver
// iterations cannot alias into it. Construction is cheap and happens
// once per learning iteration.
type RewardFunction struct {
	mapping mdp.FeatureMapping
	weights *mat.VecDense
}

// NewRewardFunction returns the reward function induced by the weights
// of a max-margin solution over the features of mapping.
func NewRewardFunction(mapping mdp.FeatureMapping,
	weights *FeatureWeights) RewardFunction {

	return RewardFunction{
		mapping: mapping,
		weights: weights.Weights(),
	}
}

// Reward evaluates the reward of the transition (s, a, sPrime). The
// action and successor state are accepted for compatibility with
// planning oracles; the reward depends only on the pre-transition
// state's features. Reward satisfies mdp.RewardFunc.
func (r RewardFunction) Reward(s mdp.State, a mdp.Action,
	sPrime mdp.State) float64 {

	return mat.Dot(r.mapping.Features(s), r.weights)
}

// Weights returns a copy of the reward coefficients.
func (r RewardFunction) Weights() *mat.VecDense {
	return matutils.VecCopy(r.weights)
}
