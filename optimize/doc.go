// Package optimize provides derivative-free local minimization of scalar
// objectives via the Nelder–Mead downhill simplex method.
//
// 🚀 Why derivative-free?
//
//	The objectives this library minimizes contain non-smooth guards
//	(non-finite residuals mapped to zero), so gradients cannot be
//	assumed to exist. Nelder–Mead needs only function values.
//
// ⚙️ Usage:
//
//	opts := optimize.DefaultOptions()
//	opts.MaxIter = 5000
//
//	res, err := optimize.Minimize(ctx, fn, x0, opts)
//	if err != nil { ... }          // validation or cancellation
//	if !res.Converged { ... }      // budget exhausted; res.X is best-so-far
//
// Convergence is declared when both the simplex spread in parameter space
// falls below XTol (absolute) and the spread in function values falls
// below FTol. Non-convergence within MaxIter is not an error: the best
// vertex found is returned with Converged=false and the caller decides.
//
// Complexity per iteration: O(n) function evaluations worst case and
// O(n²) bookkeeping for an n-dimensional problem.
package optimize
