// Package qp solves convex programs with a linear objective, linear
// inequality constraints, and quadratic inequality constraints:
//
//	minimize    cᵀx
//	subject to  aᵢᵀx ≤ bᵢ            i = 0, ..., l-1
//	            xᵀPₖx ≤ rₖ           k = 0, ..., q-1
//
// where each Pₖ is symmetric positive semidefinite. Problems of this
// form are solved to global optimality with a log-barrier interior
// point method: a sequence of centering steps minimizes
// τcᵀx - Σ log(-fᵢ(x)) by damped Newton iterations for geometrically
// increasing τ, until the duality gap m/τ falls below the requested
// tolerance.
//
// The caller must supply a strictly feasible starting point. Solve
// never returns an uncertified solution: any failure to reach the
// tolerances surfaces as an error.
package qp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInfeasible indicates that no solution satisfying all constraints
// within the feasibility tolerance could be certified.
var ErrInfeasible = errors.New("qp: could not certify a feasible optimum")

// LinearConstraint is the inequality A·x ≤ B.
type LinearConstraint struct {
	A *mat.VecDense
	B float64
}

// QuadraticConstraint is the inequality xᵀPx ≤ R. P must be symmetric
// positive semidefinite.
type QuadraticConstraint struct {
	P *mat.SymDense
	R float64
}

// Problem is a convex program in the canonical form documented at the
// package level. C is the linear objective coefficient vector.
type Problem struct {
	C         *mat.VecDense
	Linear    []LinearConstraint
	Quadratic []QuadraticConstraint
}

// dim returns the number of optimization variables.
func (p *Problem) dim() int {
	return p.C.Len()
}

// numConstraints returns the total number of inequality constraints.
func (p *Problem) numConstraints() int {
	return len(p.Linear) + len(p.Quadratic)
}

// validate checks that every constraint matches the variable dimension.
func (p *Problem) validate() error {
	n := p.dim()
	if n == 0 {
		return fmt.Errorf("validate: empty objective")
	}
	for i, lin := range p.Linear {
		if lin.A.Len() != n {
			return fmt.Errorf("validate: linear constraint %d has "+
				"dimension %d, want %d", i, lin.A.Len(), n)
		}
	}
	for k, quad := range p.Quadratic {
		if r, _ := quad.P.Dims(); r != n {
			return fmt.Errorf("validate: quadratic constraint %d has "+
				"dimension %d, want %d", k, r, n)
		}
	}
	if p.numConstraints() == 0 {
		return fmt.Errorf("validate: unconstrained linear objective " +
			"is unbounded")
	}
	return nil
}

// Settings are the numerical tolerances of a solve. Tolerance bounds
// the duality gap of the returned solution and FeasTolerance bounds
// its worst constraint violation.
type Settings struct {
	Tolerance     float64
	FeasTolerance float64
	MaxIterations int
}

// NewSettings returns the default solver settings. The tight 1e-12
// tolerances match the accuracy the max-margin convergence test needs:
// a looser solve can terminate the outer learning loop early.
func NewSettings() *Settings {
	return &Settings{
		Tolerance:     1e-12,
		FeasTolerance: 1e-12,
		MaxIterations: 50_000,
	}
}

// constraintValue evaluates fᵢ(x) ≤ 0 form for constraint index i,
// linear constraints first.
func constraintValue(p *Problem, i int, x *mat.VecDense) float64 {
	if i < len(p.Linear) {
		lin := p.Linear[i]
		return mat.Dot(lin.A, x) - lin.B
	}
	quad := p.Quadratic[i-len(p.Linear)]
	tmp := mat.NewVecDense(x.Len(), nil)
	tmp.MulVec(quad.P, x)
	return mat.Dot(x, tmp) - quad.R
}

// strictlyFeasible reports whether every constraint holds strictly at x.
func strictlyFeasible(p *Problem, x *mat.VecDense) bool {
	for i := 0; i < p.numConstraints(); i++ {
		if constraintValue(p, i, x) >= 0 {
			return false
		}
	}
	return true
}

// barrier evaluates τcᵀx - Σ log(-fᵢ(x)). It returns +Inf outside the
// strictly feasible region so that line searches reject such points.
func barrier(p *Problem, tau float64, x *mat.VecDense) float64 {
	val := tau * mat.Dot(p.C, x)
	for i := 0; i < p.numConstraints(); i++ {
		f := constraintValue(p, i, x)
		if f >= 0 {
			return math.Inf(1)
		}
		val -= math.Log(-f)
	}
	return val
}

// gradHess fills in the gradient and Hessian of the barrier objective
// at x.
func gradHess(p *Problem, tau float64, x *mat.VecDense,
	grad *mat.VecDense, hess *mat.SymDense) {

	n := p.dim()
	grad.ScaleVec(tau, p.C)
	hess.Zero()

	gi := mat.NewVecDense(n, nil)
	for i := 0; i < p.numConstraints(); i++ {
		f := constraintValue(p, i, x)
		if i < len(p.Linear) {
			gi.CopyVec(p.Linear[i].A)
		} else {
			gi.MulVec(p.Quadratic[i-len(p.Linear)].P, x)
			gi.ScaleVec(2, gi)
		}

		// grad += ∇fᵢ / (-fᵢ);  hess += ∇fᵢ∇fᵢᵀ / fᵢ²
		grad.AddScaledVec(grad, -1/f, gi)
		hess.SymRankOne(hess, 1/(f*f), gi)

		// Quadratic constraints add the curvature term 2P / (-fᵢ)
		if i >= len(p.Linear) {
			quad := p.Quadratic[i-len(p.Linear)]
			for r := 0; r < n; r++ {
				for c := r; c < n; c++ {
					hess.SetSym(r, c,
						hess.At(r, c)-2*quad.P.At(r, c)/f)
				}
			}
		}
	}
}

// newtonStep solves hess·d = -grad. If the Hessian is numerically
// rank-deficient, an escalating diagonal regularization is applied
// before giving up.
func newtonStep(hess *mat.SymDense, grad *mat.VecDense) (*mat.VecDense, error) {
	n := grad.Len()
	neg := mat.NewVecDense(n, nil)
	neg.ScaleVec(-1, grad)

	var chol mat.Cholesky
	work := mat.NewSymDense(n, nil)
	work.CopySym(hess)

	// Regularization is scaled by the largest diagonal entry so it
	// stays meaningful when the barrier terms blow up near a
	// constraint boundary
	scale := 1.0
	for i := 0; i < n; i++ {
		if d := math.Abs(hess.At(i, i)); d > scale {
			scale = d
		}
	}

	for jitter := 0.0; jitter <= scale*1e-4; {
		if chol.Factorize(work) {
			d := mat.NewVecDense(n, nil)
			if err := chol.SolveVecTo(d, neg); err == nil {
				return d, nil
			}
		}
		if jitter == 0 {
			jitter = scale * 1e-14
		} else {
			jitter *= 100
		}
		work.CopySym(hess)
		for i := 0; i < n; i++ {
			work.SetSym(i, i, work.At(i, i)+jitter)
		}
	}
	return nil, fmt.Errorf("newtonStep: Hessian is singular")
}

// center runs damped Newton iterations on the barrier objective for a
// fixed τ, starting from x (which is updated in place).
func center(p *Problem, tau float64, x *mat.VecDense, budget *int) error {
	const (
		alpha      = 0.25
		beta       = 0.5
		decrement  = 1e-14 // stop when λ²/2 is below this
		maxNewton  = 100
		maxLineCut = 80
	)

	n := p.dim()
	grad := mat.NewVecDense(n, nil)
	hess := mat.NewSymDense(n, nil)
	trial := mat.NewVecDense(n, nil)

	for k := 0; k < maxNewton; k++ {
		if *budget <= 0 {
			return fmt.Errorf("center: iteration budget exhausted")
		}
		*budget--

		gradHess(p, tau, x, grad, hess)
		d, err := newtonStep(hess, grad)
		if err != nil {
			return fmt.Errorf("center: %v", err)
		}

		lambdaSq := -mat.Dot(grad, d)
		if lambdaSq/2 <= decrement {
			return nil
		}

		// Backtracking line search restricted to the strictly
		// feasible region
		phi := barrier(p, tau, x)
		step := 1.0
		cut := 0
		for ; cut < maxLineCut; cut++ {
			trial.AddScaledVec(x, step, d)
			if barrier(p, tau, trial) <= phi-alpha*step*lambdaSq {
				break
			}
			step *= beta
		}
		if cut == maxLineCut {
			// No further progress is possible at this τ
			return nil
		}
		x.CopyVec(trial)
	}
	return nil
}

// Solve minimizes the problem starting from the strictly feasible
// point x0 and returns the optimizer. The solution is certified to be
// within Tolerance of optimal (by the barrier duality gap) and within
// FeasTolerance of feasibility; otherwise an error wrapping
// ErrInfeasible is returned.
func Solve(p *Problem, x0 *mat.VecDense, settings *Settings) (*mat.VecDense, error) {
	if settings == nil {
		settings = NewSettings()
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("solve: %v", err)
	}
	if x0.Len() != p.dim() {
		return nil, fmt.Errorf("solve: starting point has dimension "+
			"%d, want %d", x0.Len(), p.dim())
	}
	if !strictlyFeasible(p, x0) {
		return nil, fmt.Errorf("solve: starting point is not strictly "+
			"feasible: %w", ErrInfeasible)
	}

	x := mat.NewVecDense(x0.Len(), nil)
	x.CopyVec(x0)

	const mu = 10.0
	m := float64(p.numConstraints())
	budget := settings.MaxIterations

	for tau := 1.0; ; tau *= mu {
		if err := center(p, tau, x, &budget); err != nil {
			return nil, fmt.Errorf("solve: %w: %v", ErrInfeasible, err)
		}
		if m/tau < settings.Tolerance {
			break
		}
	}

	for i := 0; i < p.numConstraints(); i++ {
		if constraintValue(p, i, x) > settings.FeasTolerance {
			return nil, fmt.Errorf("solve: constraint %d violated at "+
				"solution: %w", i, ErrInfeasible)
		}
	}
	return x, nil
}
