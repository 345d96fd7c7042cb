// Package mdp defines the world-model abstractions that the
// apprenticeship learning core consumes: states, actions, deterministic
// transition models, reward and terminal functions, and feature
// mappings from states to fixed-length vectors.
//
// The core never owns a world model. Callers supply one behind these
// interfaces, along with a state equivalence and (for planners that
// index states) a hashable key function.
package mdp

import "gonum.org/v1/gonum/mat"

// State is an opaque world state. The core never inspects states
// directly; it compares them through a caller-supplied StateEq and maps
// them to feature vectors through a FeatureMapping.
type State interface{}

// Action is an opaque action.
type Action interface{}

// StateEq reports whether two states are equivalent. The equivalence
// must be reflexive, symmetric, and transitive over all reachable
// states.
type StateEq func(a, b State) bool

// KeyFunc maps a state to a comparable key so that planners can index
// states in maps. Two states that are equivalent under the run's
// StateEq must map to equal keys.
type KeyFunc func(s State) interface{}

// Model is a deterministic world model. Planning oracles enumerate it
// and rollouts step through it.
type Model interface {
	// Actions returns the actions available in state s. The returned
	// slice must not be mutated by callers.
	Actions(s State) []Action

	// Next returns the successor of taking action a in state s. Next
	// must be pure: the same (s, a) always yields the same successor.
	Next(s State, a Action) State
}

// RewardFunc evaluates the reward of the transition (s, a, sPrime).
type RewardFunc func(s State, a Action, sPrime State) float64

// TerminalFunc reports whether s ends an episode.
type TerminalFunc func(s State) bool

// FeatureMapping maps states to feature vectors of a fixed length. The
// mapping must be pure and total over all reachable states.
type FeatureMapping interface {
	// Features returns the feature vector of s. The returned vector is
	// owned by the caller; implementations must not retain or reuse it.
	Features(s State) *mat.VecDense

	// Len returns the feature dimensionality. Every vector returned by
	// Features has exactly this length.
	Len() int
}

// FeatureMapperFunc adapts a plain function and a known length to the
// FeatureMapping interface.
type FeatureMapperFunc struct {
	F   func(s State) *mat.VecDense
	Dim int
}

func (f FeatureMapperFunc) Features(s State) *mat.VecDense { return f.F(s) }

func (f FeatureMapperFunc) Len() int { return f.Dim }
