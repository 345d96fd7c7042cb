// Package policy defines the policy abstraction consumed by the
// apprenticeship learning loop, together with a seedable random policy
// used to bootstrap it.
package policy

import (
	"fmt"

	"github.com/samuelfneumann/goirl/mdp"
)

// Policy maps states to actions and can be rolled out against its
// world model. Rollouts must be deterministic given a fixed reward
// function and model, so that feature expectations are reproducible.
type Policy interface {
	// ActionFor returns the action the policy takes in state s.
	ActionFor(s mdp.State) (mdp.Action, error)

	// Evaluate rolls the policy out from init for at most horizon
	// states and returns the visited trajectory. The reward function
	// may be nil when only the visited states matter.
	Evaluate(init mdp.State, reward mdp.RewardFunc,
		horizon int) (mdp.Trajectory, error)
}

// Rollout steps a policy through a deterministic model from init until
// the horizon is reached or a terminal state is entered. The returned
// trajectory contains at most horizon states, the initial state
// included.
func Rollout(m mdp.Model, p Policy, init mdp.State, terminal mdp.TerminalFunc,
	horizon int) (mdp.Trajectory, error) {

	var traj mdp.Trajectory
	if horizon <= 0 {
		return traj, nil
	}

	state := init
	traj.States = append(traj.States, state)
	for len(traj.States) < horizon {
		if terminal != nil && terminal(state) {
			break
		}
		action, err := p.ActionFor(state)
		if err != nil {
			return mdp.Trajectory{}, fmt.Errorf("rollout: %v", err)
		}
		state = m.Next(state, action)
		traj.Actions = append(traj.Actions, action)
		traj.States = append(traj.States, state)
	}
	return traj, nil
}
