// Package valueiteration implements a value-iteration planning oracle
// over finite deterministic models. The state space is enumerated by
// breadth-first search from the planning start state, so models may be
// defined implicitly as long as the reachable set is finite.
package valueiteration

import (
	"fmt"

	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/policy"
	"github.com/samuelfneumann/goirl/utils/floatutils"
)

// Config sets the numerical and size limits of the planner.
type Config struct {
	// Theta is the sup-norm change below which sweeps stop
	Theta float64

	// MaxSweeps bounds the number of full sweeps over the state space
	MaxSweeps int

	// MaxStates bounds the reachable-state enumeration
	MaxStates int
}

// NewConfig returns the default planner configuration.
func NewConfig() Config {
	return Config{
		Theta:     1e-10,
		MaxSweeps: 10_000,
		MaxStates: 1_000_000,
	}
}

// ValueIteration is a planning.Planner for finite deterministic
// models. States are indexed by a caller-supplied key function.
type ValueIteration struct {
	model  mdp.Model
	key    mdp.KeyFunc
	config Config
}

// New returns a new ValueIteration planner over model, indexing states
// with key.
func New(model mdp.Model, key mdp.KeyFunc, config Config) (*ValueIteration, error) {
	if model == nil {
		return nil, fmt.Errorf("new: model cannot be nil")
	}
	if key == nil {
		return nil, fmt.Errorf("new: key function cannot be nil")
	}
	if config.Theta <= 0 || config.MaxSweeps <= 0 || config.MaxStates <= 0 {
		return nil, fmt.Errorf("new: config values must be positive")
	}
	return &ValueIteration{model: model, key: key, config: config}, nil
}

// Plan enumerates the states reachable from init and sweeps values
// until convergence, returning the greedy policy on the result.
func (v *ValueIteration) Plan(reward mdp.RewardFunc,
	terminal mdp.TerminalFunc, discount float64,
	init mdp.State) (policy.Policy, error) {

	if reward == nil {
		return nil, fmt.Errorf("plan: reward function cannot be nil")
	}

	states, err := v.enumerate(init, terminal)
	if err != nil {
		return nil, fmt.Errorf("plan: %v", err)
	}

	values := make(map[interface{}]float64, len(states))
	for _, s := range states {
		values[v.key(s)] = 0
	}

	for sweep := 0; sweep < v.config.MaxSweeps; sweep++ {
		delta := 0.0
		for _, s := range states {
			if terminal != nil && terminal(s) {
				continue
			}
			q := v.actionValues(s, reward, terminal, discount, values)
			best, _ := floatutils.MaxSlice(q)

			k := v.key(s)
			if diff := best - values[k]; diff > delta {
				delta = diff
			} else if -diff > delta {
				delta = -diff
			}
			values[k] = best
		}
		if delta < v.config.Theta {
			break
		}
	}

	return &greedyPolicy{
		model:    v.model,
		key:      v.key,
		reward:   reward,
		terminal: terminal,
		discount: discount,
		values:   values,
	}, nil
}

// enumerate collects the states reachable from init by breadth-first
// search. Terminal states are included but not expanded.
func (v *ValueIteration) enumerate(init mdp.State,
	terminal mdp.TerminalFunc) ([]mdp.State, error) {

	seen := map[interface{}]bool{v.key(init): true}
	states := []mdp.State{init}

	for at := 0; at < len(states); at++ {
		s := states[at]
		if terminal != nil && terminal(s) {
			continue
		}
		for _, a := range v.model.Actions(s) {
			next := v.model.Next(s, a)
			k := v.key(next)
			if seen[k] {
				continue
			}
			if len(states) >= v.config.MaxStates {
				return nil, fmt.Errorf("enumerate: more than %d "+
					"reachable states", v.config.MaxStates)
			}
			seen[k] = true
			states = append(states, next)
		}
	}
	return states, nil
}

// actionValues returns the one-step lookahead value of every action
// available in s.
func (v *ValueIteration) actionValues(s mdp.State, reward mdp.RewardFunc,
	terminal mdp.TerminalFunc, discount float64,
	values map[interface{}]float64) []float64 {

	actions := v.model.Actions(s)
	q := make([]float64, len(actions))
	for i, a := range actions {
		next := v.model.Next(s, a)
		q[i] = reward(s, a, next)
		if terminal == nil || !terminal(next) {
			q[i] += discount * values[v.key(next)]
		}
	}
	return q
}

// greedyPolicy acts greedily with respect to planned state values. It
// is the deterministic policy the loop rolls out each iteration.
type greedyPolicy struct {
	model    mdp.Model
	key      mdp.KeyFunc
	reward   mdp.RewardFunc
	terminal mdp.TerminalFunc
	discount float64
	values   map[interface{}]float64
}

// ActionFor returns the greedy action in s. Ties break toward the
// first maximizing action so that rollouts are deterministic.
func (g *greedyPolicy) ActionFor(s mdp.State) (mdp.Action, error) {
	actions := g.model.Actions(s)
	if len(actions) == 0 {
		return nil, fmt.Errorf("actionFor: no actions available in "+
			"state %v", s)
	}

	q := make([]float64, len(actions))
	for i, a := range actions {
		next := g.model.Next(s, a)
		q[i] = g.reward(s, a, next)
		if g.terminal == nil || !g.terminal(next) {
			q[i] += g.discount * g.values[g.key(next)]
		}
	}
	_, indices := floatutils.MaxSlice(q)
	return actions[indices[0]], nil
}

// Evaluate rolls the greedy policy out from init for at most horizon
// states. The reward argument is accepted for interface compatibility;
// action choice uses the reward the policy was planned with.
func (g *greedyPolicy) Evaluate(init mdp.State, reward mdp.RewardFunc,
	horizon int) (mdp.Trajectory, error) {

	return policy.Rollout(g.model, g, init, g.terminal, horizon)
}
