// SPDX-License-Identifier: MIT
// Package: flowsheet/balance
//
// errors.go — sentinel errors for the balance package.
//
// Error policy (explicit and strict):
//   - Only sentinel variables (package-level) are exposed.
//   - Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   - Sentinels are NEVER wrapped with formatted strings at definition site.
//   - Implementations attach context using %w.
//
// Structural errors (all three below) abort a reconciliation run before
// any optimization starts: they indicate a setup bug, not noisy data.
// Per-record non-convergence is NOT an error — see Result.Records.

package balance

import "errors"

// ErrInvalidPolicy indicates an unrecognized uncertainty policy value.
// Typical origin: ParsePolicy on a config string, or a Policy constant
// outside the declared enum.
// Usage: if errors.Is(err, ErrInvalidPolicy) { /* fix the config */ }.
var ErrInvalidPolicy = errors.New("balance: invalid uncertainty policy")

// ErrInvalidWeight indicates a zero, negative, or non-finite standard
// deviation weight in an uncertainty table. Caught at table build or
// load time — a zero weight would divide the fit residual by zero.
// Usage: if errors.Is(err, ErrInvalidWeight) { /* fix the sd cell */ }.
var ErrInvalidWeight = errors.New("balance: uncertainty weight must be positive")

// ErrInconsistentTopology indicates a stream referenced by the network's
// balance nodes (or required by the flattened layout) is missing from a
// snapshot such as the uncertainty table. Snapshots are not reactive:
// rebuild them after any topology change.
// Usage: if errors.Is(err, ErrInconsistentTopology) { /* rebuild tables */ }.
var ErrInconsistentTopology = errors.New("balance: topology snapshot is inconsistent")

// ErrNilNetwork indicates a nil network was supplied.
var ErrNilNetwork = errors.New("balance: network is nil")
