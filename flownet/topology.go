// SPDX-License-Identifier: MIT
// Package: flowsheet/flownet
//
// topology.go — topology queries: edge enumeration, input/output edge
// detection, node typing, and per-node stream resolution.
//
// All queries are read-only and return results in deterministic order:
// streams in edge (insertion) order, nodes in ascending id order.

package flownet

import (
	"fmt"
	"math"

	"github.com/mineralytics/flowsheet/stream"
)

// EdgeNames returns the stream names in stable edge order. This order is
// the canonical layout order used by flattened measurement vectors.
func (n *Network) EdgeNames() []string {
	names := make([]string, len(n.streams))
	for i, s := range n.streams {
		names[i] = s.Name()
	}

	return names
}

// Edges returns the streams in stable edge order. The slice is a copy;
// the streams themselves are shared.
func (n *Network) Edges() []*stream.Stream {
	return append([]*stream.Stream(nil), n.streams...)
}

// Stream returns the stream with the given name.
//
// Errors: ErrStreamNotFound.
func (n *Network) Stream(name string) (*stream.Stream, error) {
	i, ok := n.byName[name]
	if !ok {
		return nil, fmt.Errorf("stream %q: %w", name, ErrStreamNotFound)
	}

	return n.streams[i], nil
}

// degree returns the total (in + out) degree of node id.
func (n *Network) degree(id int) int {
	return len(n.in[id]) + len(n.out[id])
}

// InputEdges returns the network's feed streams in edge order: streams
// whose origin node has total degree 1 (touches no other stream).
func (n *Network) InputEdges() []*stream.Stream {
	var res []*stream.Stream
	for _, s := range n.streams {
		if n.degree(s.From()) == 1 {
			res = append(res, s)
		}
	}

	return res
}

// OutputEdges returns the network's product streams in edge order:
// streams whose destination node has total degree 1.
func (n *Network) OutputEdges() []*stream.Stream {
	var res []*stream.Stream
	for _, s := range n.streams {
		if n.degree(s.To()) == 1 {
			res = append(res, s)
		}
	}

	return res
}

// Nodes returns all node ids in ascending order. The slice is a copy.
func (n *Network) Nodes() []int { return append([]int(nil), n.nodeIDs...) }

// NodeType returns the derived type of node id.
//
// Errors: ErrNodeNotFound.
func (n *Network) NodeType(id int) (NodeType, error) {
	if n.degree(id) == 0 {
		return Ordinary, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if len(n.in[id]) > 0 && len(n.out[id]) > 0 {
		return Balance, nil
	}

	return Ordinary, nil
}

// NodesOfType returns the ids of all nodes with the given type, ascending.
func (n *Network) NodesOfType(t NodeType) []int {
	var res []int
	for _, id := range n.nodeIDs {
		nt, _ := n.NodeType(id)
		if nt == t {
			res = append(res, id)
		}
	}

	return res
}

// NodeInputsOutputs returns the names of the streams entering and leaving
// node id, each list in edge order.
//
// Errors: ErrNodeNotFound.
func (n *Network) NodeInputsOutputs(id int) (ins, outs []string, err error) {
	if n.degree(id) == 0 {
		return nil, nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	for _, i := range n.in[id] {
		ins = append(ins, n.streams[i].Name())
	}
	for _, i := range n.out[id] {
		outs = append(outs, n.streams[i].Name())
	}

	return ins, outs, nil
}

// Balanced reports whether mass and component mass close to within tol
// (absolute mass units) at every balance node, for every record. Grades
// are converted to component mass as grade·mass_dry/100; NaN assays
// contribute zero component mass.
func (n *Network) Balanced(tol float64) bool {
	cols := len(n.columns)
	for _, id := range n.NodesOfType(Balance) {
		for r := range n.keys {
			diff := make([]float64, cols)
			for _, i := range n.in[id] {
				accumulateMass(diff, n.streams[i].RowAt(r), +1)
			}
			for _, i := range n.out[id] {
				accumulateMass(diff, n.streams[i].RowAt(r), -1)
			}
			for _, d := range diff {
				if math.Abs(d) > tol {
					return false
				}
			}
		}
	}

	return true
}

// accumulateMass adds sign·(component masses of row) into acc.
// Column 0 is dry mass; remaining columns are grades in percent.
func accumulateMass(acc, row []float64, sign float64) {
	acc[0] += sign * row[0]
	for c := 1; c < len(row); c++ {
		m := row[c] * row[0] / 100
		if math.IsNaN(m) {
			continue
		}
		acc[c] += sign * m
	}
}
