// SPDX-License-Identifier: MIT
// Package: flowsheet/balance
//
// costfn.go — translation of network topology + uncertainty weights into
// one pure numeric objective per record.
//
// Layout contract: the parameter vector x flattens every stream's row
// [mass_dry, grade_1, …, grade_k] in network edge order. The same layout
// is used for the measured values xm, the weights sd, and the optimizer
// variable, and it is established exactly once per model.

package balance

import (
	"fmt"
	"math"
	"slices"

	"github.com/mineralytics/flowsheet/flownet"
)

// nodePair holds the flattened-layout stream indexes entering and leaving
// one balance node. It defines one conservation penalty.
type nodePair struct {
	ins  []int
	outs []int
}

// costModel is the per-session cost-function builder: the fixed stream
// layout, the shared weight vector, the balance-node index pairs, and
// every record's measured row. All fields are immutable after
// newCostModel returns, so the per-record objectives it hands out are
// pure and safe to evaluate concurrently.
type costModel struct {
	rows    int // streams
	cols    int // components per stream (mass_dry + grades)
	keys    []string
	names   []string
	columns []string // component column names, mass_dry first

	sd       []float64   // rows·cols, flattened in layout order
	measured [][]float64 // measured[r] is record r, rows·cols flattened
	pairs    []nodePair
}

// newCostModel resolves the layout, weights, and balance-node pairs for
// net under the weight table u.
//
// Errors:
//   - ErrInconsistentTopology when u does not cover a stream of the
//     layout, disagrees on columns (names or order), or a balance node
//     references a stream missing from the layout.
//   - ErrInvalidWeight via u.Validate (checked first; a zero weight must
//     fail before any optimization could run).
func newCostModel(net *flownet.Network, u *UncertaintyTable) (*costModel, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	names := net.EdgeNames()
	cols := net.Columns()
	// Weights are applied positionally, so the table's column names must
	// match the network's exactly — a reordered config file would
	// otherwise transpose weights across components.
	if !slices.Equal(u.Columns, cols) {
		return nil, fmt.Errorf("uncertainty columns %v, want %v: %w", u.Columns, cols, ErrInconsistentTopology)
	}
	m := &costModel{
		rows:    len(names),
		cols:    len(cols),
		keys:    net.Keys(),
		names:   names,
		columns: cols,
	}

	// Stage 1 - stable stream index in edge order.
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	// Stage 2 - flatten the weight table into layout order.
	m.sd = make([]float64, 0, m.rows*m.cols)
	for _, name := range names {
		row, ok := u.Row(name)
		if !ok {
			return nil, fmt.Errorf("uncertainty table missing stream %q: %w", name, ErrInconsistentTopology)
		}
		m.sd = append(m.sd, row...)
	}

	// Stage 3 - resolve each balance node to (input, output) index lists.
	for _, id := range net.NodesOfType(flownet.Balance) {
		ins, outs, err := net.NodeInputsOutputs(id)
		if err != nil {
			return nil, err
		}
		p := nodePair{
			ins:  make([]int, 0, len(ins)),
			outs: make([]int, 0, len(outs)),
		}
		for _, name := range ins {
			i, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("balance node %d input %q: %w", id, name, ErrInconsistentTopology)
			}
			p.ins = append(p.ins, i)
		}
		for _, name := range outs {
			i, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("balance node %d output %q: %w", id, name, ErrInconsistentTopology)
			}
			p.outs = append(p.outs, i)
		}
		m.pairs = append(m.pairs, p)
	}

	// Stage 4 - capture each record's measured row, flattened.
	m.measured = make([][]float64, len(m.keys))
	for r := range m.keys {
		row := make([]float64, 0, m.rows*m.cols)
		for _, s := range net.Edges() {
			row = append(row, s.RowAt(r)...)
		}
		m.measured[r] = row
	}

	return m, nil
}

// fn returns the pure objective for record r. The returned value shares
// the model's immutable measured/weight storage; evaluating it allocates
// only its own component-mass scratch, so distinct records may be
// minimized concurrently.
func (m *costModel) fn(r int) costFn {
	return costFn{
		xm:    m.measured[r],
		sd:    m.sd,
		rows:  m.rows,
		cols:  m.cols,
		pairs: m.pairs,
	}
}

// costFn is one record's objective: fit-to-measurement plus conservation
// penalties. It is a plain immutable value — the systems-language form of
// a partially-applied closure over (xm, sd, node pairs).
type costFn struct {
	xm    []float64
	sd    []float64
	rows  int
	cols  int
	pairs []nodePair
}

// value computes the total cost at x.
//
// Fit term: ((xm−x)/(x·sd))² per cell; non-finite cells (x == 0, or a
// NaN measurement) contribute zero, so zero-valued measurements cannot
// destabilize the optimizer.
//
// Balance term: grades are converted to component mass (grade·mass/100,
// column 0 is the mass itself), input and output rows of each balance
// node are summed, and the squared elementwise difference — NaN mapped
// to zero — is added.
func (f costFn) value(x []float64) float64 {
	var cost float64

	for i := range x {
		res := (f.xm[i] - x[i]) / (x[i] * f.sd[i])
		res *= res
		if isFinite(res) {
			cost += res
		}
	}

	if len(f.pairs) == 0 {
		return cost
	}

	mass := make([]float64, len(x))
	for s := 0; s < f.rows; s++ {
		base := s * f.cols
		mass[base] = x[base]
		for c := 1; c < f.cols; c++ {
			mass[base+c] = x[base+c] * x[base] / 100
		}
	}

	for _, p := range f.pairs {
		for c := 0; c < f.cols; c++ {
			var diff float64
			for _, s := range p.ins {
				diff += mass[s*f.cols+c]
			}
			for _, s := range p.outs {
				diff -= mass[s*f.cols+c]
			}
			diff *= diff
			if isFinite(diff) {
				cost += diff
			}
		}
	}

	return cost
}

// isFinite reports whether v is neither NaN nor ±Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
