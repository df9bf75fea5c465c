// SPDX-License-Identifier: MIT
// Package: flowsheet/balance
//
// reconcile.go — the optimization loop: one derivative-free minimization
// per record, run on a bounded worker pool, reassembled in input order.

package balance

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mineralytics/flowsheet/flownet"
	"github.com/mineralytics/flowsheet/optimize"
)

// ReconcileOptions configures a reconciliation run.
//
// Fields:
//   - Policy, Locked — uncertainty policy used to build the weight table
//     when Uncertainty is nil (see BuildUncertainty).
//   - Uncertainty    — pre-built weight table override; validated before
//     use. Must cover every stream of the network.
//   - Optimize       — minimizer configuration shared by every record.
//   - Parallelism    — worker-pool size; ≤ 0 means GOMAXPROCS.
//   - RecordTimeout  — per-record wall-clock budget; a record that
//     exceeds it is marked failed (best-so-far values kept) while the
//     batch continues. Zero disables the timeout.
//   - Events         — structured diagnostic hook; nil disables.
type ReconcileOptions struct {
	Policy        Policy
	Locked        bool
	Uncertainty   *UncertaintyTable
	Optimize      optimize.Options
	Parallelism   int
	RecordTimeout time.Duration
	Events        EventFunc
}

// DefaultReconcileOptions returns the canonical configuration: trust the
// input streams unlocked, default minimizer tolerances, full parallelism,
// no per-record timeout.
func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{
		Policy:   TrustInputs,
		Optimize: optimize.DefaultOptions(),
	}
}

// RecordResult is the per-record outcome of a run.
type RecordResult struct {
	// Key is the record key.
	Key string

	// Converged reports whether the minimizer met tolerance within its
	// budget. When false the reconciled values are the best found.
	Converged bool

	// Iterations is the minimizer iteration count.
	Iterations int

	// Cost is the objective value at the accepted vector.
	Cost float64
}

// Result is a reconciliation run's output. The measured data is never
// mutated; Table is produced fresh.
type Result struct {
	// RunID uniquely identifies the run in events and logs.
	RunID string

	// Table holds the reconciled values with exactly the shape, column
	// set, and row order of the network's TidyTable export.
	Table *flownet.Table

	// Records holds one entry per record, in input index order.
	Records []RecordResult
}

// Converged reports whether every record met tolerance.
func (r *Result) Converged() bool {
	for i := range r.Records {
		if !r.Records[i].Converged {
			return false
		}
	}

	return true
}

// Failed returns the keys of records that did not meet tolerance, in
// input index order.
func (r *Result) Failed() []string {
	var keys []string
	for i := range r.Records {
		if !r.Records[i].Converged {
			keys = append(keys, r.Records[i].Key)
		}
	}

	return keys
}

// Reconcile adjusts net's measured data so mass and component mass
// conserve at every balance node, minimizing the uncertainty-weighted
// deviation from the measurements. Each record is minimized
// independently, starting from its measured values.
//
// Failure semantics:
//   - structural errors (ErrInvalidPolicy, ErrInvalidWeight,
//     ErrInconsistentTopology, ErrNilNetwork) abort before any
//     optimization starts;
//   - per-record non-convergence never aborts: the record's best-found
//     values are kept and reported via Result.Records / Result.Failed;
//   - ctx cancellation aborts the batch with the context error.
//
// The output row order always equals the input record order regardless
// of worker completion order: results are written by record position,
// never by completion. No internal retries are performed — callers who
// want robustness should re-run failed keys from perturbed starts.
func Reconcile(ctx context.Context, net *flownet.Network, opts ReconcileOptions) (*Result, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}

	sd := opts.Uncertainty
	if sd == nil {
		var err error
		if sd, err = BuildUncertainty(net, opts.Policy, opts.Locked); err != nil {
			return nil, err
		}
	}

	model, err := newCostModel(net, sd)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:   uuid.NewString(),
		Records: make([]RecordResult, len(model.keys)),
	}
	emit := opts.Events
	if emit == nil {
		emit = func(Event) {}
	}
	emit(Event{Kind: EventRunStarted, RunID: res.RunID, Records: len(model.keys)})

	workers := opts.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	reconciled := make([][]float64, len(model.keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r := range model.keys {
		r := r
		g.Go(func() error {
			rctx := gctx
			if opts.RecordTimeout > 0 {
				var cancel context.CancelFunc
				rctx, cancel = context.WithTimeout(gctx, opts.RecordTimeout)
				defer cancel()
			}

			fn := model.fn(r)
			x0 := append([]float64(nil), model.measured[r]...)
			best, err := optimize.Minimize(rctx, fn.value, x0, opts.Optimize)
			if err != nil {
				// A per-record timeout marks this record failed and lets
				// the batch continue; batch-level cancellation aborts.
				if errors.Is(err, context.DeadlineExceeded) && gctx.Err() == nil {
					best.Converged = false
				} else {
					return fmt.Errorf("record %q: %w", model.keys[r], err)
				}
			}

			reconciled[r] = best.X
			res.Records[r] = RecordResult{
				Key:        model.keys[r],
				Converged:  best.Converged,
				Iterations: best.Iterations,
				Cost:       best.Fun,
			}
			emit(Event{
				Kind:       EventRecordDone,
				RunID:      res.RunID,
				Key:        model.keys[r],
				Converged:  best.Converged,
				Iterations: best.Iterations,
				Cost:       best.Fun,
			})

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	res.Table = assemble(model, reconciled)
	emit(Event{Kind: EventRunFinished, RunID: res.RunID, Records: len(model.keys)})

	return res, nil
}

// assemble reshapes the flattened per-record vectors into a tidy table
// matching the network's TidyTable layout: record-major in input index
// order, streams in edge order.
func assemble(m *costModel, reconciled [][]float64) *flownet.Table {
	t := &flownet.Table{
		Columns: append([]string(nil), m.columns...),
		Rows:    make([]flownet.Row, 0, len(m.keys)*m.rows),
	}

	for r, key := range m.keys {
		flat := reconciled[r]
		for s, name := range m.names {
			vals := append([]float64(nil), flat[s*m.cols:(s+1)*m.cols]...)
			t.Rows = append(t.Rows, flownet.Row{Key: key, Stream: name, Values: vals})
		}
	}

	return t
}
