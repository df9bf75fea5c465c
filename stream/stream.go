// SPDX-License-Identifier: MIT
// Package: flowsheet/stream
//
// stream.go — the Stream dataset type, its constructor and accessors.
//
// Error policy (explicit and strict):
//   - Only sentinel variables (package-level) are exposed.
//   - Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   - Implementations attach context using %w wrapping.

package stream

import (
	"errors"
	"fmt"
	"math"
)

// MassDry is the fixed name of the first component column of every stream.
// The remaining columns are grade names in declaration order.
const MassDry = "mass_dry"

// Sentinel errors for stream construction and mutation.
var (
	// ErrEmptyName indicates a stream was constructed with an empty name.
	ErrEmptyName = errors.New("stream: name is empty")

	// ErrNoRecords indicates an operation requires at least one record.
	ErrNoRecords = errors.New("stream: no records")

	// ErrDuplicateKey indicates a record key already exists in the stream.
	ErrDuplicateKey = errors.New("stream: duplicate record key")

	// ErrKeyNotFound indicates the requested record key does not exist.
	ErrKeyNotFound = errors.New("stream: record key not found")

	// ErrComponentMismatch indicates a grade slice does not match the
	// declared component set of the stream.
	ErrComponentMismatch = errors.New("stream: component mismatch")

	// ErrNegativeMass indicates a negative dry mass was supplied.
	ErrNegativeMass = errors.New("stream: negative dry mass")

	// ErrBadMass indicates a NaN or infinite dry mass was supplied.
	ErrBadMass = errors.New("stream: dry mass not finite")

	// ErrBadMoisture indicates a moisture percentage outside [0, 100).
	ErrBadMoisture = errors.New("stream: moisture out of range")
)

// Stream is a named, append-only series of (dry mass, grades) records
// flowing along one directed edge of a flow network.
//
// From and To are the integer ids of the origin and destination nodes;
// node typing is derived by the network, not stored here.
type Stream struct {
	name   string
	from   int
	to     int
	grades []string // component names after MassDry

	keys []string       // record keys, insertion order
	pos  map[string]int // key -> record position

	mass     []float64   // dry mass per record
	comp     [][]float64 // grade values per record, len(comp[i]) == len(grades)
	moisture []float64   // percent of wet mass; NaN when never set
}

// New returns an empty Stream named name, directed from node from to node to,
// carrying the given grade components (which may be empty for mass-only data).
//
// Errors: ErrEmptyName if name == ""; ErrComponentMismatch on a duplicate or
// empty component name, or a component named MassDry.
func New(name string, from, to int, grades []string) (*Stream, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	seen := make(map[string]struct{}, len(grades))
	for _, g := range grades {
		if g == "" || g == MassDry {
			return nil, fmt.Errorf("component %q: %w", g, ErrComponentMismatch)
		}
		if _, dup := seen[g]; dup {
			return nil, fmt.Errorf("component %q duplicated: %w", g, ErrComponentMismatch)
		}
		seen[g] = struct{}{}
	}
	s := &Stream{
		name:   name,
		from:   from,
		to:     to,
		grades: append([]string(nil), grades...),
		pos:    make(map[string]int),
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for fixtures and examples.
func MustNew(name string, from, to int, grades []string) *Stream {
	s, err := New(name, from, to, grades)
	if err != nil {
		panic(err)
	}
	return s
}

// Append adds one record keyed by key with the given dry mass and grades.
// The grades slice must have exactly one value per declared component,
// in declaration order. Grade values may be NaN (missing assay); the dry
// mass must be finite and non-negative — grades are only meaningful
// relative to a known mass, so a NaN mass is rejected rather than
// treated as missing.
//
// Errors: ErrDuplicateKey, ErrComponentMismatch, ErrNegativeMass,
// ErrBadMass.
func (s *Stream) Append(key string, massDry float64, grades []float64) error {
	if _, dup := s.pos[key]; dup {
		return fmt.Errorf("key %q: %w", key, ErrDuplicateKey)
	}
	if len(grades) != len(s.grades) {
		return fmt.Errorf("got %d grade values, want %d: %w", len(grades), len(s.grades), ErrComponentMismatch)
	}
	if massDry < 0 {
		return fmt.Errorf("key %q: %w", key, ErrNegativeMass)
	}
	if math.IsNaN(massDry) || math.IsInf(massDry, 0) {
		return fmt.Errorf("key %q: mass %v: %w", key, massDry, ErrBadMass)
	}
	s.pos[key] = len(s.keys)
	s.keys = append(s.keys, key)
	s.mass = append(s.mass, massDry)
	s.comp = append(s.comp, append([]float64(nil), grades...))
	s.moisture = append(s.moisture, math.NaN())
	return nil
}

// SetMoisture records the moisture percentage (of wet mass) for the record
// keyed by key. Moisture never participates in balancing; it only feeds
// the derived wet mass.
//
// Errors: ErrKeyNotFound; ErrBadMoisture unless 0 <= pct < 100.
func (s *Stream) SetMoisture(key string, pct float64) error {
	i, ok := s.pos[key]
	if !ok {
		return fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	if pct < 0 || pct >= 100 || math.IsNaN(pct) {
		return fmt.Errorf("moisture %v: %w", pct, ErrBadMoisture)
	}
	s.moisture[i] = pct
	return nil
}

// Name returns the unique stream name.
func (s *Stream) Name() string { return s.name }

// From returns the origin node id.
func (s *Stream) From() int { return s.from }

// To returns the destination node id.
func (s *Stream) To() int { return s.to }

// Len returns the number of records.
func (s *Stream) Len() int { return len(s.keys) }

// Keys returns the record keys in insertion order. The slice is a copy.
func (s *Stream) Keys() []string { return append([]string(nil), s.keys...) }

// Components returns the full ordered column set: MassDry followed by the
// grade names. The slice is a copy.
func (s *Stream) Components() []string {
	cols := make([]string, 0, 1+len(s.grades))
	cols = append(cols, MassDry)

	return append(cols, s.grades...)
}

// Row returns the record keyed by key as [mass_dry, grade_1, …, grade_k].
//
// Errors: ErrKeyNotFound.
func (s *Stream) Row(key string) ([]float64, error) {
	i, ok := s.pos[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}

	return s.RowAt(i), nil
}

// RowAt returns record i (insertion order) as [mass_dry, grade_1, …, grade_k].
// The slice is freshly allocated; callers may mutate it freely.
func (s *Stream) RowAt(i int) []float64 {
	row := make([]float64, 0, 1+len(s.grades))
	row = append(row, s.mass[i])

	return append(row, s.comp[i]...)
}

// MassWet returns the wet mass for the record keyed by key, derived as
// mass_dry / (1 - moisture/100). When no moisture was recorded the dry
// mass is returned unchanged (zero moisture assumption).
//
// Errors: ErrKeyNotFound.
func (s *Stream) MassWet(key string) (float64, error) {
	i, ok := s.pos[key]
	if !ok {
		return 0, fmt.Errorf("key %q: %w", key, ErrKeyNotFound)
	}
	h2o := s.moisture[i]
	if math.IsNaN(h2o) {
		return s.mass[i], nil
	}

	return s.mass[i] / (1 - h2o/100), nil
}

// Aggregate returns one row of [total dry mass, weighted-mean grades…],
// weighting each record's grades by its dry mass. Records with NaN grades
// are skipped for that component only. A stream with zero total mass
// aggregates to NaN grades.
//
// Errors: ErrNoRecords on an empty stream.
func (s *Stream) Aggregate() ([]float64, error) {
	if len(s.keys) == 0 {
		return nil, ErrNoRecords
	}
	out := make([]float64, 1+len(s.grades))
	var total float64
	for i := range s.keys {
		total += s.mass[i]
	}
	out[0] = total
	for c := range s.grades {
		var sum, weight float64
		for i := range s.keys {
			g := s.comp[i][c]
			if math.IsNaN(g) {
				continue
			}
			sum += g * s.mass[i]
			weight += s.mass[i]
		}
		if weight == 0 {
			out[1+c] = math.NaN()
			continue
		}
		out[1+c] = sum / weight
	}

	return out, nil
}
