package policy

import (
	"testing"

	"github.com/samuelfneumann/goirl/mdp"
)

// lineModel is a one-dimensional world: states are ints, the single
// action "fwd" increments, and state 3 is terminal.
type lineModel struct{}

func (lineModel) Actions(s mdp.State) []mdp.Action {
	return []mdp.Action{"fwd"}
}

func (lineModel) Next(s mdp.State, a mdp.Action) mdp.State {
	return s.(int) + 1
}

func lineTerminal(s mdp.State) bool { return s.(int) >= 3 }

type forwardPolicy struct{}

func (forwardPolicy) ActionFor(s mdp.State) (mdp.Action, error) {
	return "fwd", nil
}

func (forwardPolicy) Evaluate(init mdp.State, reward mdp.RewardFunc,
	horizon int) (mdp.Trajectory, error) {

	return Rollout(lineModel{}, forwardPolicy{}, init, lineTerminal, horizon)
}

func TestRolloutHorizon(t *testing.T) {
	traj, err := Rollout(lineModel{}, forwardPolicy{}, 0, nil, 2)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}
	if traj.Len() != 2 {
		t.Errorf("trajectory has %d states, want 2", traj.Len())
	}
	if len(traj.Actions) != 1 {
		t.Errorf("trajectory has %d actions, want 1", len(traj.Actions))
	}
}

func TestRolloutStopsAtTerminal(t *testing.T) {
	traj, err := Rollout(lineModel{}, forwardPolicy{}, 0, lineTerminal, 10)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	// States 0, 1, 2, 3 with 3 terminal
	if traj.Len() != 4 {
		t.Errorf("trajectory has %d states, want 4: %v",
			traj.Len(), traj.States)
	}
	if traj.States[traj.Len()-1].(int) != 3 {
		t.Errorf("final state %v, want 3", traj.States[traj.Len()-1])
	}
}

func TestRolloutZeroHorizon(t *testing.T) {
	traj, err := Rollout(lineModel{}, forwardPolicy{}, 0, nil, 0)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}
	if traj.Len() != 0 {
		t.Errorf("trajectory has %d states, want 0", traj.Len())
	}
}

// TestRandomSeedReproducible checks that two random policies with the
// same seed produce identical rollouts.
func TestRandomSeedReproducible(t *testing.T) {
	first := NewRandom(branchModel{}, nil, 99)
	second := NewRandom(branchModel{}, nil, 99)

	a, err := first.Evaluate("s", nil, 20)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}
	b, err := second.Evaluate("s", nil, 20)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("rollout lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Actions {
		if a.Actions[i] != b.Actions[i] {
			t.Errorf("action %d differs: %v vs %v",
				i, a.Actions[i], b.Actions[i])
		}
	}
}

// branchModel offers two actions in every state; states record nothing
// of the action history.
type branchModel struct{}

func (branchModel) Actions(s mdp.State) []mdp.Action {
	return []mdp.Action{"l", "r"}
}

func (branchModel) Next(s mdp.State, a mdp.Action) mdp.State { return "s" }

// emptyModel has no actions anywhere.
type emptyModel struct{}

func (emptyModel) Actions(s mdp.State) []mdp.Action { return nil }

func (emptyModel) Next(s mdp.State, a mdp.Action) mdp.State { return s }

func TestRandomNoActions(t *testing.T) {
	pi := NewRandom(emptyModel{}, nil, 1)
	if _, err := pi.Evaluate("s", nil, 5); err == nil {
		t.Error("expected an error when no actions are available")
	}
}
