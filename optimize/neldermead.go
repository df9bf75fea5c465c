// SPDX-License-Identifier: MIT
// Package: flowsheet/optimize
//
// neldermead.go — the Nelder–Mead downhill simplex minimizer.

package optimize

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Nelder–Mead coefficients: reflection, expansion, contraction, shrink.
// These are the classical values; they are not exposed as options.
const (
	coefReflect  = 1.0
	coefExpand   = 2.0
	coefContract = 0.5
	coefShrink   = 0.5
)

// zeroStep is the absolute displacement used to seed simplex vertices for
// coordinates whose starting value is exactly zero (a relative step would
// degenerate).
const zeroStep = 0.00025

// Minimize runs Nelder–Mead on fn starting from x0.
//
// Contracts:
//   - fn must be non-nil and must tolerate any finite input vector;
//     it may return +Inf or NaN (treated as worse than any finite value).
//   - x0 must be non-empty; it is copied, never mutated.
//   - opts tolerances must be positive (see DefaultOptions).
//
// Convergence: both the parameter spread and the function-value spread of
// the simplex must fall within XTol / FTol. Exhausting MaxIter returns
// the best vertex with Converged=false and a nil error — the caller owns
// the accept/retry decision.
//
// Cancellation: ctx is checked once per iteration; on cancellation the
// best-so-far Result is returned together with the context error.
//
// Complexity: O(MaxIter · n) evaluations worst case, O(n²) memory for the
// simplex.
func Minimize(ctx context.Context, fn Objective, x0 []float64, opts Options) (Result, error) {
	if fn == nil {
		return Result{}, ErrNilObjective
	}
	n := len(x0)
	if n == 0 {
		return Result{}, ErrEmptyStart
	}
	if !(opts.XTol > 0) || !(opts.FTol > 0) {
		return Result{}, fmt.Errorf("xtol=%v ftol=%v: %w", opts.XTol, opts.FTol, ErrBadTolerance)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultOptions().Scale
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = 200 * n
	}

	// Stage 1 - seed the simplex: x0 plus one displaced vertex per axis.
	sim := make([][]float64, n+1)
	sim[0] = append([]float64(nil), x0...)
	for i := 1; i <= n; i++ {
		v := append([]float64(nil), x0...)
		if v[i-1] != 0 {
			v[i-1] *= 1 + scale
		} else {
			v[i-1] = zeroStep
		}
		sim[i] = v
	}

	var res Result
	eval := func(x []float64) float64 {
		res.Evaluations++
		f := fn(x)
		if math.IsNaN(f) {
			return math.Inf(1)
		}

		return f
	}

	fval := make([]float64, n+1)
	for i := range sim {
		fval[i] = eval(sim[i])
	}

	order := func() {
		idx := make([]int, n+1)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return fval[idx[a]] < fval[idx[b]] })
		ns := make([][]float64, n+1)
		nf := make([]float64, n+1)
		for i, j := range idx {
			ns[i], nf[i] = sim[j], fval[j]
		}
		copy(sim, ns)
		copy(fval, nf)
	}
	order()

	centroid := make([]float64, n)
	trial := make([]float64, n)

	// Stage 2 - iterate reflect/expand/contract/shrink until converged.
	for res.Iterations = 0; res.Iterations < maxIter; res.Iterations++ {
		if err := ctx.Err(); err != nil {
			res.X = append([]float64(nil), sim[0]...)
			res.Fun = fval[0]

			return res, fmt.Errorf("optimize: minimize interrupted: %w", err)
		}

		if spreadX(sim) <= opts.XTol && spreadF(fval) <= opts.FTol {
			res.Converged = true

			break
		}

		// Centroid of all vertices except the worst.
		for j := range centroid {
			centroid[j] = 0
		}
		for i := 0; i < n; i++ {
			for j := range centroid {
				centroid[j] += sim[i][j]
			}
		}
		for j := range centroid {
			centroid[j] /= float64(n)
		}

		worst := n
		reflect := func(coef float64) float64 {
			for j := range trial {
				trial[j] = centroid[j] + coef*(centroid[j]-sim[worst][j])
			}

			return eval(trial)
		}

		fr := reflect(coefReflect)
		switch {
		case fr < fval[0]:
			// Reflection beat the best vertex: try expanding further.
			xr := append([]float64(nil), trial...)
			fe := reflect(coefReflect * coefExpand)
			if fe < fr {
				copy(sim[worst], trial)
				fval[worst] = fe
			} else {
				copy(sim[worst], xr)
				fval[worst] = fr
			}
		case fr < fval[n-1]:
			// Better than the second worst: accept the reflection.
			copy(sim[worst], trial)
			fval[worst] = fr
		default:
			accepted := false
			if fr < fval[worst] {
				// Outside contraction.
				xr := fr
				fc := reflect(coefReflect * coefContract)
				if fc <= xr {
					copy(sim[worst], trial)
					fval[worst] = fc
					accepted = true
				}
			} else {
				// Inside contraction.
				fc := reflect(-coefContract)
				if fc < fval[worst] {
					copy(sim[worst], trial)
					fval[worst] = fc
					accepted = true
				}
			}
			if !accepted {
				// Shrink the whole simplex toward the best vertex.
				for i := 1; i <= n; i++ {
					for j := range sim[i] {
						sim[i][j] = sim[0][j] + coefShrink*(sim[i][j]-sim[0][j])
					}
					fval[i] = eval(sim[i])
				}
			}
		}
		order()
	}

	res.X = append([]float64(nil), sim[0]...)
	res.Fun = fval[0]

	return res, nil
}

// spreadX returns the maximum coordinate distance between the best vertex
// and any other vertex of the simplex.
func spreadX(sim [][]float64) float64 {
	var m float64
	for i := 1; i < len(sim); i++ {
		for j := range sim[i] {
			if d := math.Abs(sim[i][j] - sim[0][j]); d > m {
				m = d
			}
		}
	}

	return m
}

// spreadF returns the maximum |f - f_best| across the simplex.
func spreadF(fval []float64) float64 {
	var m float64
	for i := 1; i < len(fval); i++ {
		d := math.Abs(fval[i] - fval[0])
		if math.IsNaN(d) {
			return math.Inf(1)
		}
		if d > m {
			m = d
		}
	}

	return m
}
