// Package gridworld implements a 2D gridworld as a deterministic world
// model for planning and apprenticeship learning demos. The agent
// moves in the four cardinal directions, walls clamp movement, and
// goal cells are terminal.
package gridworld

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/samuelfneumann/goirl/mdp"
)

// Position is a gridworld state: the agent's (x, y) coordinates with
// the origin at the top-left corner. Position is comparable, so it
// doubles as its own planner key.
type Position struct {
	X, Y int
}

// Move is a gridworld action.
type Move int

const (
	Left Move = iota
	Right
	Up
	Down
)

func (m Move) String() string {
	switch m {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	default:
		return "Down"
	}
}

var moves = []mdp.Action{Left, Right, Up, Down}

// GridWorld is an r x c grid with a set of terminal goal cells. It
// implements mdp.Model with pure transitions, so planners can
// enumerate it.
type GridWorld struct {
	rows, cols int
	goals      map[Position]bool

	stepReward float64
	goalReward float64
}

// New creates a new GridWorld with r rows and c columns. The goals are
// specified as parallel coordinate slices goalX, goalY. The step and
// goal rewards define the ground-truth reward used to generate expert
// demonstrations; learners never see them.
func New(r, c int, goalX, goalY []int, stepReward,
	goalReward float64) (*GridWorld, error) {

	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("new: grid dimensions (%d, %d) must be "+
			"positive", r, c)
	}
	if len(goalX) != len(goalY) {
		return nil, fmt.Errorf("new: x length (%d) != y length (%d)",
			len(goalX), len(goalY))
	}

	goals := make(map[Position]bool, len(goalX))
	for i := range goalX {
		if goalX[i] < 0 || goalX[i] >= c {
			return nil, fmt.Errorf("new: x[%d] = %d outside cols = %d",
				i, goalX[i], c)
		}
		if goalY[i] < 0 || goalY[i] >= r {
			return nil, fmt.Errorf("new: y[%d] = %d outside rows = %d",
				i, goalY[i], r)
		}
		goals[Position{goalX[i], goalY[i]}] = true
	}

	return &GridWorld{
		rows:       r,
		cols:       c,
		goals:      goals,
		stepReward: stepReward,
		goalReward: goalReward,
	}, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.rows, g.cols
}

// Actions returns the four cardinal moves, available in every state.
func (g *GridWorld) Actions(s mdp.State) []mdp.Action {
	return moves
}

// Next moves the agent one cell in the action's direction, clamping at
// the grid edges.
func (g *GridWorld) Next(s mdp.State, a mdp.Action) mdp.State {
	p := s.(Position)
	switch a.(Move) {
	case Left:
		if p.X > 0 {
			p.X--
		}
	case Right:
		if p.X < g.cols-1 {
			p.X++
		}
	case Up:
		if p.Y > 0 {
			p.Y--
		}
	case Down:
		if p.Y < g.rows-1 {
			p.Y++
		}
	}
	return p
}

// Terminal reports whether s is a goal cell. Terminal satisfies
// mdp.TerminalFunc.
func (g *GridWorld) Terminal(s mdp.State) bool {
	return g.goals[s.(Position)]
}

// Key returns the state itself: Position is comparable. Key satisfies
// mdp.KeyFunc.
func (g *GridWorld) Key(s mdp.State) interface{} {
	return s.(Position)
}

// Eq compares two states by coordinates. Eq satisfies mdp.StateEq.
func (g *GridWorld) Eq(a, b mdp.State) bool {
	return a.(Position) == b.(Position)
}

// GoalReward is the ground-truth reward: the goal reward on entering a
// goal cell and the step reward otherwise. It satisfies mdp.RewardFunc
// and exists to generate expert demonstrations for demos and tests.
func (g *GridWorld) GoalReward(s mdp.State, a mdp.Action,
	sPrime mdp.State) float64 {

	if g.goals[sPrime.(Position)] {
		return g.goalReward
	}
	return g.stepReward
}

// Render returns a colored terminal rendering of the grid with the
// agent at position at.
func (g *GridWorld) Render(at Position) string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			p := Position{x, y}
			switch {
			case p == at:
				fmt.Fprint(&b, aurora.Blue(" A "))
			case g.goals[p]:
				fmt.Fprint(&b, aurora.Green(" G "))
			default:
				fmt.Fprint(&b, aurora.White(" . "))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// String implements the fmt.Stringer interface
func (g *GridWorld) String() string {
	return g.Render(Position{-1, -1})
}
