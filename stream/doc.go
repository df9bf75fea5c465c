// Package stream defines the per-edge dataset carried by a flow network:
// a named series of records, each holding a dry mass and zero or more
// component grades (percent of dry mass), keyed by a shared record index.
//
// Moisture may be recorded per record for reporting (wet mass is derived
// from it) but is always excluded from balancing.
//
// Invariants enforced at construction and append time:
//   - the stream name is non-empty
//   - record keys are unique within a stream
//   - grade slices match the declared component set exactly
//   - dry mass is never negative
//
// A Stream is an append-only container; reconciliation never mutates it.
package stream
