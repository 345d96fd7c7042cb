// Package planning defines the planning-oracle abstraction the
// apprenticeship learning loop invokes each iteration. Any planner
// that can compute an optimal policy for an arbitrary reward function
// over a fixed world model can stand behind this interface.
package planning

import (
	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/policy"
)

// Planner computes an optimal (or near-optimal) policy for a reward
// function over the planner's world model.
type Planner interface {
	// Plan returns a policy optimizing reward from init, treating
	// terminal states as absorbing and discounting future rewards by
	// discount. Rollouts of the returned policy must be deterministic
	// for a fixed reward function and model.
	Plan(reward mdp.RewardFunc, terminal mdp.TerminalFunc,
		discount float64, init mdp.State) (policy.Policy, error)
}
