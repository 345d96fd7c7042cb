package mdp

// Trajectory is a materialized episode: the sequence of states visited
// and the actions taken between them. A trajectory of n states carries
// n-1 actions; the final state has no outgoing action. Expert
// demonstrations and policy rollouts both use this form.
type Trajectory struct {
	States  []State
	Actions []Action
}

// Len returns the number of states in the trajectory. A trajectory of
// length 0 is valid and contributes a zero feature expectation.
func (t Trajectory) Len() int {
	return len(t.States)
}

// Initial returns the first state of the trajectory, or nil if the
// trajectory is empty.
func (t Trajectory) Initial() State {
	if len(t.States) == 0 {
		return nil
	}
	return t.States[0]
}
