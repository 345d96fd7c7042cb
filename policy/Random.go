package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goirl/mdp"
)

// Random is a uniform random policy over the actions a model offers in
// each state. The randomness source is injected through a seed so that
// bootstrap rollouts are reproducible.
//
// Random satisfies the Policy determinism contract in a weak sense:
// two Random policies built with the same seed produce identical
// rollouts, but a single Random policy consumes its stream as it acts.
type Random struct {
	model    mdp.Model
	terminal mdp.TerminalFunc
	rng      *rand.Rand
}

// NewRandom returns a new Random policy on model, ending rollouts at
// terminal states.
func NewRandom(model mdp.Model, terminal mdp.TerminalFunc,
	seed uint64) *Random {

	source := rand.NewSource(seed)
	return &Random{
		model:    model,
		terminal: terminal,
		rng:      rand.New(source),
	}
}

// ActionFor returns an action drawn uniformly from the actions
// available in s.
func (r *Random) ActionFor(s mdp.State) (mdp.Action, error) {
	actions := r.model.Actions(s)
	if len(actions) == 0 {
		return nil, fmt.Errorf("actionFor: no actions available in "+
			"state %v", s)
	}
	return actions[r.rng.Intn(len(actions))], nil
}

// Evaluate rolls the policy out from init for at most horizon states.
func (r *Random) Evaluate(init mdp.State, reward mdp.RewardFunc,
	horizon int) (mdp.Trajectory, error) {

	return Rollout(r.model, r, init, r.terminal, horizon)
}
