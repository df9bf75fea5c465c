// Package flowsheet models networks of material flows and reconciles
// noisy per-stream measurements so that mass — and component mass — is
// conserved at every balance node.
//
// 🚀 What is flowsheet?
//
//	A pure-Go library for metallurgical accounting and flowsheet analysis:
//		• Stream datasets: dry mass + component grades over a shared record index
//		• Flow networks: directed graphs of streams with derived node typing
//		• Mass-balance reconciliation: weighted nonlinear least squares,
//		  solved per record with a derivative-free minimizer
//
// ✨ Why choose flowsheet?
//
//   - Honest numerics – measured data is never mutated; reconciled tables are
//     produced fresh, tagged per record with convergence diagnostics
//   - Config-driven weighting – per-stream, per-component uncertainty tables,
//     loadable from YAML, with trusted-subset policies
//   - Concurrency-ready – records reconcile independently on a bounded worker
//     pool, with cooperative cancellation and stable output ordering
//
// Everything is organized under four subpackages:
//
//	stream/   — per-edge datasets: records, dry mass, grades, aggregation
//	flownet/  — the directed flow network and its topology queries
//	optimize/ — derivative-free Nelder–Mead minimization
//	balance/  — uncertainty tables, cost functions, the reconciler
//
// Quick ASCII example:
//
//	feed──┐
//	      ├──(balance node)──product
//	scav──┘
//
//	two measured inputs and one measured output meeting at a node where
//	mass in must equal mass out.
//
// Dive into the per-package docs and example tests for full walkthroughs.
//
//	go get github.com/mineralytics/flowsheet
package flowsheet
