// SPDX-License-Identifier: MIT
// Package: flowsheet/balance
//
// uncertainty.go — per-stream, per-component measurement-uncertainty
// weights: the Policy enum, the table builder, and YAML round-trip.
//
// The table is a snapshot of the network's current topology: one row per
// stream in edge order, one column per component (wet mass excluded),
// every cell a relative standard deviation used to normalize residuals.
// Rebuild it whenever the stream set changes.

package balance

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mineralytics/flowsheet/flownet"
)

// Relative standard deviations assigned by the builder.
const (
	// defaultSD is the nominal weight for untrusted measurements.
	defaultSD = 1.0

	// tightSD is assigned to the trusted subset: tighter than nominal,
	// but still able to flex during balancing.
	tightSD = 0.1

	// lockedSD pins the trusted subset: the optimizer must reproduce
	// those streams almost exactly.
	lockedSD = 0.001
)

// Policy selects which streams, if any, form the trusted "best
// measurement" subset of an uncertainty table.
type Policy int

const (
	// TrustNone assigns the nominal weight everywhere.
	TrustNone Policy = iota

	// TrustInputs tightens every network input (feed) stream.
	TrustInputs

	// TrustOutputs tightens every network output (product) stream.
	TrustOutputs
)

// String returns the canonical config spelling of the policy.
func (p Policy) String() string {
	switch p {
	case TrustNone:
		return "none"
	case TrustInputs:
		return "inputs"
	case TrustOutputs:
		return "outputs"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses the config spelling of a policy.
//
// Errors: ErrInvalidPolicy for anything but "none" | "inputs" | "outputs".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "none":
		return TrustNone, nil
	case "inputs":
		return TrustInputs, nil
	case "outputs":
		return TrustOutputs, nil
	default:
		return TrustNone, fmt.Errorf("%q: %w", s, ErrInvalidPolicy)
	}
}

// UncertaintyTable holds one row of relative standard deviations per
// stream, aligned to Columns. Immutable by convention once built:
// reconciliation only reads it.
type UncertaintyTable struct {
	// Columns names the component columns (mass_dry + grades).
	Columns []string

	// Streams names the rows, in network edge order when built by
	// BuildUncertainty.
	Streams []string

	// Values holds Values[i][c] = sd of Streams[i], Columns[c].
	Values [][]float64
}

// BuildUncertainty snapshots net into an uncertainty table: every cell
// defaults to 1.0, then the rows of the policy's trusted subset are
// overwritten with 0.001 when locked, else 0.1.
//
// Errors: ErrNilNetwork; ErrInvalidPolicy on an out-of-range policy.
func BuildUncertainty(net *flownet.Network, policy Policy, locked bool) (*UncertaintyTable, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}

	var trusted []string
	switch policy {
	case TrustNone:
	case TrustInputs:
		for _, s := range net.InputEdges() {
			trusted = append(trusted, s.Name())
		}
	case TrustOutputs:
		for _, s := range net.OutputEdges() {
			trusted = append(trusted, s.Name())
		}
	default:
		return nil, fmt.Errorf("%v: %w", policy, ErrInvalidPolicy)
	}

	t := &UncertaintyTable{
		Columns: net.Columns(),
		Streams: net.EdgeNames(),
	}
	t.Values = make([][]float64, len(t.Streams))
	for i := range t.Values {
		row := make([]float64, len(t.Columns))
		for c := range row {
			row[c] = defaultSD
		}
		t.Values[i] = row
	}

	tight := tightSD
	if locked {
		tight = lockedSD
	}
	for _, name := range trusted {
		row, ok := t.Row(name)
		if !ok {
			continue
		}
		for c := range row {
			row[c] = tight
		}
	}

	return t, nil
}

// Row returns the weight row for the named stream, or false when the
// table does not cover it. The returned slice aliases table storage.
func (t *UncertaintyTable) Row(name string) ([]float64, bool) {
	for i, s := range t.Streams {
		if s == name {
			return t.Values[i], true
		}
	}

	return nil, false
}

// Set overwrites the weight of one (stream, component) cell.
//
// Errors: ErrInconsistentTopology on an unknown stream or component;
// ErrInvalidWeight unless sd is finite and positive.
func (t *UncertaintyTable) Set(streamName, component string, sd float64) error {
	if !(sd > 0) || math.IsInf(sd, 1) {
		return fmt.Errorf("%s/%s = %v: %w", streamName, component, sd, ErrInvalidWeight)
	}
	row, ok := t.Row(streamName)
	if !ok {
		return fmt.Errorf("stream %q: %w", streamName, ErrInconsistentTopology)
	}
	for c, col := range t.Columns {
		if col == component {
			row[c] = sd

			return nil
		}
	}

	return fmt.Errorf("component %q: %w", component, ErrInconsistentTopology)
}

// Validate checks every cell is finite and positive.
//
// Errors: ErrInvalidWeight, naming the offending cell.
func (t *UncertaintyTable) Validate() error {
	for i, row := range t.Values {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("stream %q has %d weights, want %d: %w",
				t.Streams[i], len(row), len(t.Columns), ErrInconsistentTopology)
		}
		for c, sd := range row {
			if !(sd > 0) || math.IsInf(sd, 1) {
				return fmt.Errorf("%s/%s = %v: %w", t.Streams[i], t.Columns[c], sd, ErrInvalidWeight)
			}
		}
	}

	return nil
}

// configFile is the YAML schema of the balance config file:
//
//	components: [mass_dry, Fe]
//	streams:
//	  feed:
//	    mass_dry: 0.1
//	    Fe: 0.1
type configFile struct {
	Components []string                      `yaml:"components"`
	Streams    map[string]map[string]float64 `yaml:"streams"`
}

// LoadConfig reads an uncertainty table from its YAML config file form.
// Cells absent from the file default to 1.0. The table is validated
// before it is returned, so a zero weight fails here — long before any
// minimization could run.
//
// Errors: YAML decode errors; ErrInvalidWeight via Validate.
func LoadConfig(r io.Reader) (*UncertaintyTable, error) {
	var cfg configFile
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("balance: decode config: %w", err)
	}

	t := &UncertaintyTable{Columns: cfg.Components}
	for name := range cfg.Streams {
		t.Streams = append(t.Streams, name)
	}
	// Map iteration order is random; keep rows deterministic.
	slices.Sort(t.Streams)

	t.Values = make([][]float64, len(t.Streams))
	for i, name := range t.Streams {
		row := make([]float64, len(t.Columns))
		for c, col := range t.Columns {
			sd, ok := cfg.Streams[name][col]
			if !ok {
				sd = defaultSD
			}
			row[c] = sd
		}
		t.Values[i] = row
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// SaveConfig writes the table in its YAML config file form.
func (t *UncertaintyTable) SaveConfig(w io.Writer) error {
	cfg := configFile{
		Components: t.Columns,
		Streams:    make(map[string]map[string]float64, len(t.Streams)),
	}
	for i, name := range t.Streams {
		cells := make(map[string]float64, len(t.Columns))
		for c, col := range t.Columns {
			cells[col] = t.Values[i][c]
		}
		cfg.Streams[name] = cells
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("balance: encode config: %w", err)
	}

	return nil
}
