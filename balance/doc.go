// Package balance reconciles measured flowsheet data so that mass and
// component mass conserve at every balance node of a flow network.
//
// 🚀 What is mass-balance reconciliation?
//
//	Independently measured stream data never closes exactly: the sum of
//	inputs at a junction rarely equals the sum of outputs. Reconciliation
//	adjusts the measurements as little as possible — weighted by each
//	stream's assigned uncertainty — until conservation holds.
//
// The problem is solved per record (e.g. per timestamp) as a weighted
// nonlinear least-squares minimization:
//
//	cost(x) = Σ ((xm − x) / (x·sd))²            fit to measurements
//	        + Σ_nodes Σ_cols (Σin − Σout)²      conservation penalty
//
// where grades are converted to absolute component mass (grade·mass/100)
// before the conservation penalty is taken. Conservation is enforced as a
// penalty, not a hard equality constraint: constraint matrices in mixed
// unit spaces (mass vs. percent) proved brittle, so the penalty design is
// deliberate. Non-finite residuals (zero-valued measurements) contribute
// zero cost, which keeps the objective defined everywhere but non-smooth;
// the minimizer is therefore derivative-free (see package optimize).
//
// ⚙️ Usage:
//
//	opts := balance.DefaultReconcileOptions()
//	opts.Policy = balance.TrustInputs
//	opts.Locked = true
//
//	res, err := balance.Reconcile(ctx, net, opts)
//	if err != nil { ... }                    // structural setup error
//	for _, key := range res.Failed() { ... } // per-record non-convergence
//
// Configuration errors (unknown policy, non-positive weight, stale
// topology snapshot) abort the run before any optimization starts.
// Per-record non-convergence never aborts the batch: the reconciled
// table carries every record, and Result.Records reports which ones met
// tolerance. Records are independent and reconcile concurrently on a
// bounded worker pool; the output table order always matches the input
// record index, regardless of completion order.
package balance
