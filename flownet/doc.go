// Package flownet models a flowsheet as a directed graph whose edges are
// stream datasets (see package stream) and whose nodes are junctions
// identified by integer ids.
//
// The network is an arena: streams are held by value-indexed slice and
// referenced from the node adjacency by index, never via owning pointers,
// so the mutually-referencing node/edge structure cannot form ownership
// cycles.
//
// Node typing is derived from topology, not stored: a node with at least
// one inbound and one outbound stream is a Balance node (conservation of
// mass must hold across it); every other node is Ordinary. Input and
// output edges of the network are likewise derived, by the endpoint
// total-degree-1 rule: a stream is a network input when its origin node
// touches no other stream, and a network output when its destination
// node touches no other stream.
//
// All derived data is recomputed at construction; a Network is immutable
// afterwards, so its topology snapshots never go stale.
//
// Errors:
//
//	ErrNoStreams         - construction with an empty stream list.
//	ErrDuplicateStream   - two streams share a name.
//	ErrComponentMismatch - streams disagree on the component set.
//	ErrIndexMismatch     - streams disagree on the record index.
//	ErrStreamNotFound    - requested stream name does not exist.
//	ErrNodeNotFound      - requested node id does not exist.
package flownet
