package irl

import (
	"fmt"

	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/planning"
	"github.com/samuelfneumann/goirl/policy"
	"github.com/samuelfneumann/goirl/utils/intutils"
)

// Outcome reports how a learning run ended.
type Outcome int

const (
	// Converged means the max-margin score fell to or below the
	// configured epsilon: no reward function within the norm bound
	// separates the expert from the generated policies by more than
	// epsilon.
	Converged Outcome = iota

	// BudgetExhausted means the maximum iteration count was reached
	// before convergence. This is an expected outcome for tight
	// epsilon or tight budgets, not an error; the last computed policy
	// is still returned and the run can be repeated with a larger
	// budget.
	BudgetExhausted
)

func (o Outcome) String() string {
	switch o {
	case Converged:
		return "Converged"
	case BudgetExhausted:
		return "BudgetExhausted"
	default:
		return "Unknown"
	}
}

// Config holds the required parameters of a learning run.
type Config struct {
	// Gamma is the discount factor in (0, 1]
	Gamma float64

	// Epsilon is the convergence tolerance on the max-margin score
	Epsilon float64

	// MaxIterations bounds the number of outer iterations
	MaxIterations int

	// Seed seeds the bootstrap random policy
	Seed uint64

	// Observer, if non-nil, is called after every weight solve with
	// the iteration index and the achieved margin. Useful for progress
	// display; it must not block.
	Observer func(iteration int, margin float64)
}

// validate checks the configuration eagerly, before any optimization
// work.
func (c Config) validate() error {
	if err := checkGamma(c.Gamma); err != nil {
		return err
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("validate: epsilon %v must be positive: %w",
			c.Epsilon, ErrInvalidInput)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("validate: max iterations %d must be "+
			"positive: %w", c.MaxIterations, ErrInvalidInput)
	}
	return nil
}

// Result is the outcome of a completed (converged or exhausted)
// learning run.
type Result struct {
	// Policy is the learned policy: on convergence, the policy whose
	// feature expectations the expert no longer dominates by more than
	// epsilon; on exhaustion, the last planned policy.
	Policy policy.Policy

	// Outcome distinguishes convergence from budget exhaustion.
	Outcome Outcome

	// Iterations is the number of completed outer iterations, i.e.
	// iterations that planned a new policy and grew the history.
	Iterations int

	// Margins holds the max-margin score of every QP solve, in order.
	Margins []float64

	// HistoryLen is the number of feature expectations accumulated:
	// one for the bootstrap policy plus one per completed iteration.
	HistoryLen int
}

// Apprenticeship learns a policy matching expert demonstrations by
// alternating max-margin reward-weight estimation with re-planning.
// Each iteration solves for the reward weights that maximize the
// expert's margin over every previously generated policy, plans an
// optimal policy for that reward, rolls it out, and appends its
// feature expectations to the constraint set. The history only grows:
// the margin at iteration i must dominate every past policy
// simultaneously, which drives convergence toward the expert rather
// than oscillation between alternating policies.
type Apprenticeship struct {
	model    mdp.Model
	planner  planning.Planner
	mapping  mdp.FeatureMapping
	terminal mdp.TerminalFunc
	eq       mdp.StateEq
	expert   []mdp.Trajectory
	config   Config
}

// New validates the inputs of a learning run eagerly and returns an
// Apprenticeship ready to Run. The expert trajectory batch must be
// non-empty and fully materialized.
func New(model mdp.Model, planner planning.Planner,
	mapping mdp.FeatureMapping, terminal mdp.TerminalFunc, eq mdp.StateEq,
	expert []mdp.Trajectory, config Config) (*Apprenticeship, error) {

	if model == nil || planner == nil || mapping == nil || eq == nil {
		return nil, fmt.Errorf("new: model, planner, mapping, and "+
			"state equivalence are required: %w", ErrInvalidInput)
	}
	if len(expert) == 0 {
		return nil, fmt.Errorf("new: empty expert trajectory batch: %w",
			ErrInvalidInput)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Apprenticeship{
		model:    model,
		planner:  planner,
		mapping:  mapping,
		terminal: terminal,
		eq:       eq,
		expert:   expert,
		config:   config,
	}, nil
}

// Run executes the learning loop to convergence, budget exhaustion, or
// failure. On failure no partial policy is returned.
func (a *Apprenticeship) Run() (*Result, error) {
	initial, err := a.initialState()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	expertU, err := NewExpertFeatureExpectations(a.expert, a.mapping,
		a.config.Gamma)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	// Rollouts use the longest expert demonstration as the horizon so
	// policy and expert feature expectations are comparable
	horizon := a.horizon()

	// Bootstrap the history with a random policy's rollout
	var pi policy.Policy = policy.NewRandom(a.model, a.terminal,
		a.config.Seed)
	u, err := a.rollout(pi, initial, nil, horizon)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	history := []FeatureExpectations{u}

	var margins []float64
	for i := 0; i < a.config.MaxIterations; i++ {
		weights, err := SolveFeatureWeights(expertU, history)
		if err != nil {
			return nil, fmt.Errorf("run: iteration %d: %w", i, err)
		}
		margins = append(margins, weights.Score())
		if a.config.Observer != nil {
			a.config.Observer(i, weights.Score())
		}

		// The previous iteration's policy already matches the expert
		// to within epsilon
		if weights.Score() <= a.config.Epsilon {
			return &Result{
				Policy:     pi,
				Outcome:    Converged,
				Iterations: i,
				Margins:    margins,
				HistoryLen: len(history),
			}, nil
		}

		reward := NewRewardFunction(a.mapping, weights)
		pi, err = a.planner.Plan(reward.Reward, a.terminal,
			a.config.Gamma, initial)
		if err != nil {
			return nil, fmt.Errorf("run: iteration %d: could not plan "+
				"for solved reward: %v", i, err)
		}

		u, err := a.rollout(pi, initial, reward.Reward, horizon)
		if err != nil {
			return nil, fmt.Errorf("run: iteration %d: %w", i, err)
		}
		history = append(history, u)
	}

	return &Result{
		Policy:     pi,
		Outcome:    BudgetExhausted,
		Iterations: a.config.MaxIterations,
		Margins:    margins,
		HistoryLen: len(history),
	}, nil
}

// initialState returns the single initial state shared by all expert
// trajectories. Zero-length trajectories beyond the first are ignored
// in the comparison; the first trajectory must supply a state.
func (a *Apprenticeship) initialState() (mdp.State, error) {
	initial := a.expert[0].Initial()
	if initial == nil {
		return nil, fmt.Errorf("initialState: first expert trajectory "+
			"is empty: %w", ErrInvalidInput)
	}
	for _, traj := range a.expert[1:] {
		other := traj.Initial()
		if other != nil && !a.eq(initial, other) {
			return nil, ErrInconsistentInitialState
		}
	}
	return initial, nil
}

// horizon returns the rollout horizon: the length in states of the
// longest expert trajectory.
func (a *Apprenticeship) horizon() int {
	lengths := make([]int, len(a.expert))
	for i, traj := range a.expert {
		lengths[i] = traj.Len()
	}
	return intutils.Max(lengths...)
}

// rollout evaluates a policy from the initial state and computes the
// feature expectations of the resulting trajectory.
func (a *Apprenticeship) rollout(pi policy.Policy, initial mdp.State,
	reward mdp.RewardFunc, horizon int) (FeatureExpectations, error) {

	traj, err := pi.Evaluate(initial, reward, horizon)
	if err != nil {
		return FeatureExpectations{}, fmt.Errorf("rollout: %v", err)
	}
	return NewFeatureExpectations(traj, a.mapping, a.config.Gamma)
}
