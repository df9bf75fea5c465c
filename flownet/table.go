// SPDX-License-Identifier: MIT
// Package: flowsheet/flownet
//
// table.go — tidy tabular exports of the network's stream data.
//
// A Table is the plain-struct stand-in for a labelled dataframe: ordered
// rows keyed by (record key, stream name) plus a shared column header.
// The balance package consumes and produces Tables with identical layout.

package flownet

// Row is one tidy table row: the values of a single stream at a single
// record. Key is empty on aggregate (per-stream) reports.
type Row struct {
	// Key is the record key, shared across all streams of the network.
	Key string

	// Stream is the stream name.
	Stream string

	// Values holds one value per table column.
	Values []float64
}

// Table is an ordered numeric table with a (Key, Stream) composite row
// label and a shared column header. Row order is part of the contract:
// exports are record-major, streams in edge order within each record.
type Table struct {
	// Columns names the value columns (mass_dry + grades, wet excluded).
	Columns []string

	// Rows holds the ordered rows.
	Rows []Row
}

// Lookup returns the values of the row labelled (key, name), or false
// when no such row exists. Linear scan; tables are small.
func (t *Table) Lookup(key, name string) ([]float64, bool) {
	for i := range t.Rows {
		if t.Rows[i].Key == key && t.Rows[i].Stream == name {
			return t.Rows[i].Values, true
		}
	}

	return nil, false
}

// TidyTable exports every stream's records as one tidy table indexed by
// (record key, stream name), wet mass excluded. Rows are record-major in
// index order, streams in edge order within each record — the same order
// reconciled result tables use.
func (n *Network) TidyTable() *Table {
	t := &Table{
		Columns: n.Columns(),
		Rows:    make([]Row, 0, len(n.keys)*len(n.streams)),
	}
	for r, key := range n.keys {
		for _, s := range n.streams {
			t.Rows = append(t.Rows, Row{Key: key, Stream: s.Name(), Values: s.RowAt(r)})
		}
	}

	return t
}

// Report exports one aggregate row per stream in edge order: total dry
// mass and dry-mass-weighted mean grades (see stream.Aggregate). Row keys
// are empty; rows are labelled by stream name alone.
func (n *Network) Report() (*Table, error) {
	t := &Table{
		Columns: n.Columns(),
		Rows:    make([]Row, 0, len(n.streams)),
	}
	for _, s := range n.streams {
		agg, err := s.Aggregate()
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, Row{Stream: s.Name(), Values: agg})
	}

	return t, nil
}
