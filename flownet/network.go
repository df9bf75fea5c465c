// SPDX-License-Identifier: MIT
// Package: flowsheet/flownet
//
// network.go — Network type, sentinel errors, NodeType, and the constructor.
// Topology queries live in topology.go; tabular exports in table.go.

package flownet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mineralytics/flowsheet/stream"
)

// Sentinel errors for network construction and lookups.
var (
	// ErrNoStreams indicates construction was attempted with no streams.
	ErrNoStreams = errors.New("flownet: no streams")

	// ErrDuplicateStream indicates two streams share the same name.
	ErrDuplicateStream = errors.New("flownet: duplicate stream name")

	// ErrComponentMismatch indicates streams disagree on the component set.
	ErrComponentMismatch = errors.New("flownet: component set mismatch")

	// ErrIndexMismatch indicates streams disagree on the shared record index.
	ErrIndexMismatch = errors.New("flownet: record index mismatch")

	// ErrStreamNotFound indicates the requested stream name does not exist.
	ErrStreamNotFound = errors.New("flownet: stream not found")

	// ErrNodeNotFound indicates the requested node id does not exist.
	ErrNodeNotFound = errors.New("flownet: node not found")
)

// NodeType classifies a node by its derived connectivity.
type NodeType int

const (
	// Ordinary nodes are sources, sinks, or isolated junctions; no
	// conservation constraint applies across them.
	Ordinary NodeType = iota

	// Balance nodes have at least one inbound and one outbound stream;
	// mass and component mass must conserve across them.
	Balance
)

// String returns a human-readable node type label.
func (t NodeType) String() string {
	if t == Balance {
		return "balance"
	}

	return "ordinary"
}

// Network is an immutable directed flow network over stream datasets.
//
// Streams are stored in an arena slice in insertion order; that order is
// the stable edge order used by every query and by the balance package's
// flattened layouts. Node adjacency references streams by arena index.
type Network struct {
	name    string
	streams []*stream.Stream
	byName  map[string]int

	in      map[int][]int // node id -> inbound stream indexes, edge order
	out     map[int][]int // node id -> outbound stream indexes, edge order
	nodeIDs []int         // ascending

	columns []string // shared component columns: mass_dry + grades
	keys    []string // shared record index
}

// Option configures a Network before construction.
type Option func(*Network)

// WithName sets the network name (default "Flowsheet").
func WithName(name string) Option {
	return func(n *Network) { n.name = name }
}

// New builds a Network from streams, validating the shared-index and
// shared-component invariants and deriving all topology data.
//
// Contracts:
//   - streams must be non-empty with unique names.
//   - every stream must carry the same ordered component set and the
//     same ordered record index as the first stream.
//
// Errors: ErrNoStreams, ErrDuplicateStream, ErrComponentMismatch,
// ErrIndexMismatch.
//
// Complexity: O(S·R) over S streams of R records (index comparison),
// plus O(S + N) adjacency assembly.
func New(streams []*stream.Stream, opts ...Option) (*Network, error) {
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}

	n := &Network{
		name:    "Flowsheet",
		streams: append([]*stream.Stream(nil), streams...),
		byName:  make(map[string]int, len(streams)),
		in:      make(map[int][]int),
		out:     make(map[int][]int),
		columns: streams[0].Components(),
		keys:    streams[0].Keys(),
	}
	for _, opt := range opts {
		opt(n)
	}

	for i, s := range n.streams {
		if _, dup := n.byName[s.Name()]; dup {
			return nil, fmt.Errorf("stream %q: %w", s.Name(), ErrDuplicateStream)
		}
		n.byName[s.Name()] = i

		if !slices.Equal(s.Components(), n.columns) {
			return nil, fmt.Errorf("stream %q: %w", s.Name(), ErrComponentMismatch)
		}
		if !slices.Equal(s.Keys(), n.keys) {
			return nil, fmt.Errorf("stream %q: %w", s.Name(), ErrIndexMismatch)
		}

		n.out[s.From()] = append(n.out[s.From()], i)
		n.in[s.To()] = append(n.in[s.To()], i)
	}

	seen := make(map[int]struct{})
	for _, s := range n.streams {
		for _, id := range [2]int{s.From(), s.To()} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				n.nodeIDs = append(n.nodeIDs, id)
			}
		}
	}
	slices.Sort(n.nodeIDs)

	return n, nil
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// Columns returns the shared component column set (mass_dry + grades).
// The slice is a copy.
func (n *Network) Columns() []string { return append([]string(nil), n.columns...) }

// Keys returns the shared record index. The slice is a copy.
func (n *Network) Keys() []string { return append([]string(nil), n.keys...) }
