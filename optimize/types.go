// Package optimize defines options and results for minimization.
package optimize

import "errors"

// Sentinel errors for minimizer configuration.
var (
	// ErrNilObjective indicates a nil objective function was supplied.
	ErrNilObjective = errors.New("optimize: objective is nil")

	// ErrEmptyStart indicates an empty starting vector.
	ErrEmptyStart = errors.New("optimize: empty starting point")

	// ErrBadTolerance indicates a non-positive or NaN tolerance.
	ErrBadTolerance = errors.New("optimize: tolerance must be positive")
)

// Objective is a scalar function of a parameter vector. Implementations
// must not retain or mutate x; the minimizer reuses its buffers.
type Objective func(x []float64) float64

// Options configures Nelder–Mead minimization.
//
// Fields:
//   - XTol    — absolute tolerance on the simplex spread in parameter
//     space; convergence requires max|xᵢ−x_best| ≤ XTol.
//   - FTol    — absolute tolerance on the spread of function values
//     across the simplex.
//   - MaxIter — iteration budget; 0 (or negative) means 200·n, the
//     customary default for an n-dimensional problem.
//   - Scale   — relative step used to seed the initial simplex: each
//     nonzero coordinate is displaced by Scale·|x₀ᵢ|, zero coordinates
//     by a small absolute step.
type Options struct {
	XTol    float64
	FTol    float64
	MaxIter int
	Scale   float64
}

// DefaultOptions returns the canonical configuration: XTol 1e-8,
// FTol 1e-8, MaxIter 0 (→ 200·n), Scale 0.05.
func DefaultOptions() Options {
	return Options{
		XTol:  1e-8,
		FTol:  1e-8,
		Scale: 0.05,
	}
}

// Result holds the outcome of a minimization.
type Result struct {
	// X is the best parameter vector found.
	X []float64

	// Fun is the objective value at X.
	Fun float64

	// Iterations is the number of simplex iterations performed.
	Iterations int

	// Evaluations is the number of objective evaluations performed.
	Evaluations int

	// Converged reports whether both tolerances were met within the
	// iteration budget. When false, X/Fun hold the best vertex found.
	Converged bool
}
