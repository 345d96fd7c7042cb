package irl

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/goirl/environment/gridworld"
	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/planning/valueiteration"
	"github.com/samuelfneumann/goirl/policy"
)

// chainModel is a two-state world where every action keeps the agent
// in state "a". Its random-policy rollouts therefore never visit "b",
// while expert demonstrations can.
type chainModel struct{}

func (chainModel) Actions(s mdp.State) []mdp.Action { return []mdp.Action{"stay"} }

func (chainModel) Next(s mdp.State, a mdp.Action) mdp.State { return "a" }

func stringEq(a, b mdp.State) bool { return a == b }

// fixedPolicy replays a fixed trajectory regardless of reward.
type fixedPolicy struct {
	traj mdp.Trajectory
}

func (f fixedPolicy) ActionFor(s mdp.State) (mdp.Action, error) {
	return "stay", nil
}

func (f fixedPolicy) Evaluate(init mdp.State, reward mdp.RewardFunc,
	horizon int) (mdp.Trajectory, error) {

	return f.traj, nil
}

// expertPlanner always "plans" the policy that reproduces the expert
// demonstration, so the loop must converge on its second QP solve.
type expertPlanner struct {
	traj mdp.Trajectory
}

func (p expertPlanner) Plan(reward mdp.RewardFunc, terminal mdp.TerminalFunc,
	discount float64, init mdp.State) (policy.Policy, error) {

	return fixedPolicy{traj: p.traj}, nil
}

func testConfig() Config {
	return Config{Gamma: 0.9, Epsilon: 1e-6, MaxIterations: 10, Seed: 42}
}

// TestRunConvergence runs the worked scenario end to end: the expert
// visits [1,0] then [0,1], the bootstrap policy can only accumulate
// feature 0, and the planner immediately reproduces the expert. The
// first solve must report a positive margin and the second must
// terminate the loop.
func TestRunConvergence(t *testing.T) {
	expertTraj := mdp.Trajectory{States: []mdp.State{"a", "b"}}

	learner, err := New(chainModel{}, expertPlanner{traj: expertTraj},
		twoFeatures, nil, stringEq, []mdp.Trajectory{expertTraj},
		testConfig())
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}

	result, err := learner.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Outcome != Converged {
		t.Fatalf("outcome %v, want Converged", result.Outcome)
	}
	if result.Iterations != 1 {
		t.Errorf("iterations %d, want 1", result.Iterations)
	}
	if result.HistoryLen != 2 {
		t.Errorf("history length %d, want 2", result.HistoryLen)
	}
	if len(result.Margins) != 2 {
		t.Fatalf("got %d margins, want 2", len(result.Margins))
	}
	if result.Margins[0] <= 0 {
		t.Errorf("first margin %v, want > 0", result.Margins[0])
	}
	if result.Margins[1] > 1e-6 {
		t.Errorf("final margin %v, want <= 1e-6", result.Margins[1])
	}

	// Convergence returns the previous iteration's policy, which is
	// the one the planner produced at iteration 0
	if _, ok := result.Policy.(fixedPolicy); !ok {
		t.Errorf("returned policy %T, want the planned fixedPolicy",
			result.Policy)
	}
}

// TestRunHistoryGrowth exhausts a small budget and checks the history
// grew by exactly one entry per completed iteration.
func TestRunHistoryGrowth(t *testing.T) {
	// An unreachable epsilon forces budget exhaustion
	config := testConfig()
	config.Epsilon = 1e-300
	config.MaxIterations = 3

	expertTraj := mdp.Trajectory{States: []mdp.State{"a", "b"}}
	learner, err := New(chainModel{}, expertPlanner{
		traj: mdp.Trajectory{States: []mdp.State{"a"}},
	}, twoFeatures, nil, stringEq, []mdp.Trajectory{expertTraj}, config)
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}

	result, err := learner.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Outcome != BudgetExhausted {
		t.Fatalf("outcome %v, want BudgetExhausted", result.Outcome)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations %d, want 3", result.Iterations)
	}
	if result.HistoryLen != 4 {
		t.Errorf("history length %d, want 4 (1 bootstrap + 3 iterations)",
			result.HistoryLen)
	}
	if result.Policy == nil {
		t.Error("exhausted run must still return the last policy")
	}
}

func TestRunObserver(t *testing.T) {
	expertTraj := mdp.Trajectory{States: []mdp.State{"a", "b"}}

	var observed []float64
	config := testConfig()
	config.Observer = func(iteration int, margin float64) {
		if iteration != len(observed) {
			t.Errorf("observer called with iteration %d, want %d",
				iteration, len(observed))
		}
		observed = append(observed, margin)
	}

	learner, err := New(chainModel{}, expertPlanner{traj: expertTraj},
		twoFeatures, nil, stringEq, []mdp.Trajectory{expertTraj}, config)
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}
	result, err := learner.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(observed) != len(result.Margins) {
		t.Errorf("observer saw %d margins, result has %d",
			len(observed), len(result.Margins))
	}
}

func TestNewEmptyExpert(t *testing.T) {
	_, err := New(chainModel{}, expertPlanner{}, twoFeatures, nil,
		stringEq, nil, testConfig())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestNewBadConfig(t *testing.T) {
	expert := []mdp.Trajectory{{States: []mdp.State{"a"}}}

	bad := []Config{
		{Gamma: 0, Epsilon: 1e-6, MaxIterations: 10},
		{Gamma: 1.1, Epsilon: 1e-6, MaxIterations: 10},
		{Gamma: 0.9, Epsilon: 0, MaxIterations: 10},
		{Gamma: 0.9, Epsilon: 1e-6, MaxIterations: 0},
	}
	for i, config := range bad {
		if _, err := New(chainModel{}, expertPlanner{}, twoFeatures, nil,
			stringEq, expert, config); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("config %d: got %v, want ErrInvalidInput", i, err)
		}
	}
}

// TestRunInconsistentInitialState checks that expert trajectories with
// different start states fail before any optimization work.
func TestRunInconsistentInitialState(t *testing.T) {
	expert := []mdp.Trajectory{
		{States: []mdp.State{"a", "b"}},
		{States: []mdp.State{"b", "a"}},
	}

	learner, err := New(chainModel{}, expertPlanner{}, twoFeatures, nil,
		stringEq, expert, testConfig())
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}

	if _, err := learner.Run(); !errors.Is(err,
		ErrInconsistentInitialState) {
		t.Errorf("got %v, want ErrInconsistentInitialState", err)
	}
}

// TestRunEmptyFirstTrajectory checks that a first trajectory with no
// states cannot supply the shared initial state.
func TestRunEmptyFirstTrajectory(t *testing.T) {
	expert := []mdp.Trajectory{{}}

	learner, err := New(chainModel{}, expertPlanner{}, twoFeatures, nil,
		stringEq, expert, testConfig())
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}

	if _, err := learner.Run(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

// TestRunGridWorld runs the full pipeline on a real domain: expert
// demonstrations planned on a hidden ground-truth reward, value
// iteration as the planning oracle, and macro-cell features. Whatever
// the outcome, the run must complete without error and its structural
// invariants must hold.
func TestRunGridWorld(t *testing.T) {
	g, err := gridworld.New(4, 4, []int{3}, []int{3}, -0.1, 1.0)
	if err != nil {
		t.Fatalf("could not create gridworld: %v", err)
	}
	features, err := gridworld.NewMacroFeatures(4, 4, 2)
	if err != nil {
		t.Fatalf("could not create features: %v", err)
	}
	planner, err := valueiteration.New(g, g.Key, valueiteration.NewConfig())
	if err != nil {
		t.Fatalf("could not create planner: %v", err)
	}

	start := gridworld.Position{X: 0, Y: 0}
	expertPolicy, err := planner.Plan(g.GoalReward, g.Terminal, 0.9, start)
	if err != nil {
		t.Fatalf("could not plan expert policy: %v", err)
	}
	traj, err := expertPolicy.Evaluate(start, g.GoalReward, 10)
	if err != nil {
		t.Fatalf("could not roll out expert policy: %v", err)
	}
	if !g.Terminal(traj.States[len(traj.States)-1]) {
		t.Fatalf("expert rollout did not reach the goal: %v", traj.States)
	}

	learner, err := New(g, planner, features, g.Terminal, g.Eq,
		[]mdp.Trajectory{traj, traj},
		Config{Gamma: 0.9, Epsilon: 1e-4, MaxIterations: 20, Seed: 13})
	if err != nil {
		t.Fatalf("could not create learner: %v", err)
	}

	result, err := learner.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Policy == nil {
		t.Fatal("run returned no policy")
	}
	if result.HistoryLen != result.Iterations+1 {
		t.Errorf("history length %d, want iterations+1 = %d",
			result.HistoryLen, result.Iterations+1)
	}
	if result.Outcome == Converged {
		final := result.Margins[len(result.Margins)-1]
		if final > 1e-4 {
			t.Errorf("converged with margin %v > epsilon", final)
		}
		if len(result.Margins) != result.Iterations+1 {
			t.Errorf("got %d margins, want %d",
				len(result.Margins), result.Iterations+1)
		}
	}

	// The learned policy must act in every non-terminal state
	if _, err := result.Policy.ActionFor(start); err != nil {
		t.Errorf("learned policy has no action for the start state: %v",
			err)
	}
}
