package main

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/goirl/environment/gridworld"
	"github.com/samuelfneumann/goirl/experiment"
	"github.com/samuelfneumann/goirl/experiment/trackers"
	"github.com/samuelfneumann/goirl/irl"
	"github.com/samuelfneumann/goirl/mdp"
	"github.com/samuelfneumann/goirl/planning/valueiteration"
	"github.com/samuelfneumann/goirl/utils/progressbar"
)

func main() {
	var seed uint64 = 192382

	// Create the gridworld with a single goal in the far corner. The
	// step/goal rewards are the ground truth the expert follows; the
	// learner only ever sees the expert's trajectories.
	rows, cols := 8, 8
	g, err := gridworld.New(rows, cols, []int{7}, []int{7}, -0.1, 1.0)
	if err != nil {
		log.Fatal(err)
	}

	// Macro-cell occupancy features, Abbeel-Ng style
	features, err := gridworld.NewMacroFeatures(rows, cols, 4)
	if err != nil {
		log.Fatal(err)
	}

	planner, err := valueiteration.New(g, g.Key, valueiteration.NewConfig())
	if err != nil {
		log.Fatal(err)
	}

	// Generate expert demonstrations by planning on the ground-truth
	// reward and rolling the optimal policy out from the start cell
	start := gridworld.Position{X: 0, Y: 0}
	discount := 0.9
	expertPolicy, err := planner.Plan(g.GoalReward, g.Terminal, discount,
		start)
	if err != nil {
		log.Fatal(err)
	}

	const numDemos = 5
	expert := make([]mdp.Trajectory, numDemos)
	for i := range expert {
		traj, err := expertPolicy.Evaluate(start, g.GoalReward, 20)
		if err != nil {
			log.Fatal(err)
		}
		expert[i] = traj
	}
	fmt.Println("Expert demonstrations from:")
	fmt.Println(g.Render(start))

	// Learn a policy from the demonstrations alone
	maxIterations := 30
	bar := progressbar.New(50, maxIterations)
	learner, err := irl.New(g, planner, features, g.Terminal, g.Eq, expert,
		irl.Config{
			Gamma:         discount,
			Epsilon:       1e-4,
			MaxIterations: maxIterations,
			Seed:          seed,
			Observer: func(iteration int, margin float64) {
				bar.Increment()
				bar.Display()
			},
		})
	if err != nil {
		log.Fatal(err)
	}

	e := experiment.New(learner,
		trackers.NewMargin("./margins.bin"),
		trackers.NewMarginChart("./margins.html", "Max-margin convergence"))

	result, err := e.Run()
	bar.Close()
	if err != nil {
		log.Fatal(err)
	}
	if err := e.Save(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%v after %d iterations (final margin %.2e)\n",
		result.Outcome, result.Iterations,
		result.Margins[len(result.Margins)-1])

	if err := g.SavePolicyImage(result.Policy, "./policy.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Saved margins.bin, margins.html, and policy.png")
}
