// SPDX-License-Identifier: MIT
// Package: flowsheet/balance
//
// events.go — the structured diagnostic hook.
//
// The reconciler never configures process-wide logging. Diagnostics flow
// through a caller-supplied callback; SlogEvents adapts the callback to
// a log/slog logger for callers who just want structured log lines.

package balance

import (
	"context"
	"log/slog"
)

// EventKind labels a reconciliation event.
type EventKind string

const (
	// EventRunStarted fires once, after configuration validates and
	// before the first record is optimized.
	EventRunStarted EventKind = "run_started"

	// EventRecordDone fires once per record, converged or not.
	EventRecordDone EventKind = "record_done"

	// EventRunFinished fires once, after every record completed.
	EventRunFinished EventKind = "run_finished"
)

// Event is one structured reconciliation diagnostic.
//
// Run-level events (RunStarted/RunFinished) populate Records; the
// record-level event populates Key, Converged, Iterations and Cost.
type Event struct {
	Kind  EventKind
	RunID string

	// Records is the record count of the run (run-level events).
	Records int

	// Key is the record key (record-level events).
	Key string

	// Converged reports whether the record met tolerance.
	Converged bool

	// Iterations is the minimizer iteration count for the record.
	Iterations int

	// Cost is the objective value at the accepted vector.
	Cost float64
}

// EventFunc receives reconciliation events. With a parallel reconciler it
// may be invoked from multiple goroutines; implementations must be safe
// for concurrent use. A nil EventFunc disables eventing.
type EventFunc func(Event)

// SlogEvents returns an EventFunc that logs every event to l at Info
// level (Warn for non-converged records). slog handlers are safe for
// concurrent use, so the adapter is too.
func SlogEvents(l *slog.Logger) EventFunc {
	return func(e Event) {
		switch e.Kind {
		case EventRecordDone:
			level := slog.LevelInfo
			if !e.Converged {
				level = slog.LevelWarn
			}
			l.Log(context.Background(), level, "record reconciled",
				"run_id", e.RunID,
				"key", e.Key,
				"converged", e.Converged,
				"iterations", e.Iterations,
				"cost", e.Cost,
			)
		default:
			l.Info(string(e.Kind), "run_id", e.RunID, "records", e.Records)
		}
	}
}
