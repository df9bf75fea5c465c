package flownet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralytics/flowsheet/flownet"
	"github.com/mineralytics/flowsheet/stream"
)

// twoInOneOut builds the canonical fixture:
//
//	feed (0→2) ─┐
//	            ├─ node 2 ── product (2→3)
//	scav (1→2) ─┘
//
// with a single Fe component and record keys t0, t1.
func twoInOneOut(t *testing.T) *flownet.Network {
	t.Helper()

	feed := stream.MustNew("feed", 0, 2, []string{"Fe"})
	scav := stream.MustNew("scav", 1, 2, []string{"Fe"})
	product := stream.MustNew("product", 2, 3, []string{"Fe"})

	require.NoError(t, feed.Append("t0", 10, []float64{60}))
	require.NoError(t, feed.Append("t1", 12, []float64{58}))
	require.NoError(t, scav.Append("t0", 10, []float64{50}))
	require.NoError(t, scav.Append("t1", 8, []float64{52}))
	require.NoError(t, product.Append("t0", 20, []float64{55}))
	require.NoError(t, product.Append("t1", 20, []float64{55.0}))

	net, err := flownet.New(
		[]*stream.Stream{feed, scav, product},
		flownet.WithName("TwoInOneOut"),
	)
	require.NoError(t, err)

	return net
}

// TestNew_Validation covers the construction sentinels.
func TestNew_Validation(t *testing.T) {
	_, err := flownet.New(nil)
	assert.ErrorIs(t, err, flownet.ErrNoStreams)

	a := stream.MustNew("a", 0, 1, []string{"Fe"})
	require.NoError(t, a.Append("t0", 1, []float64{50}))

	dup := stream.MustNew("a", 1, 2, []string{"Fe"})
	require.NoError(t, dup.Append("t0", 1, []float64{50}))
	_, err = flownet.New([]*stream.Stream{a, dup})
	assert.ErrorIs(t, err, flownet.ErrDuplicateStream)

	odd := stream.MustNew("b", 1, 2, []string{"SiO2"})
	require.NoError(t, odd.Append("t0", 1, []float64{5}))
	_, err = flownet.New([]*stream.Stream{a, odd})
	assert.ErrorIs(t, err, flownet.ErrComponentMismatch)

	skewed := stream.MustNew("c", 1, 2, []string{"Fe"})
	require.NoError(t, skewed.Append("t9", 1, []float64{50}))
	_, err = flownet.New([]*stream.Stream{a, skewed})
	assert.ErrorIs(t, err, flownet.ErrIndexMismatch)
}

// TestEdgeNames_StableOrder verifies edge order is insertion order.
func TestEdgeNames_StableOrder(t *testing.T) {
	net := twoInOneOut(t)
	assert.Equal(t, []string{"feed", "scav", "product"}, net.EdgeNames())
}

// TestInputOutputEdges verifies the degree-1 endpoint rule.
func TestInputOutputEdges(t *testing.T) {
	net := twoInOneOut(t)

	var ins []string
	for _, s := range net.InputEdges() {
		ins = append(ins, s.Name())
	}
	assert.Equal(t, []string{"feed", "scav"}, ins)

	var outs []string
	for _, s := range net.OutputEdges() {
		outs = append(outs, s.Name())
	}
	assert.Equal(t, []string{"product"}, outs)
}

// TestNodeTyping verifies derived balance/ordinary classification.
func TestNodeTyping(t *testing.T) {
	net := twoInOneOut(t)

	assert.Equal(t, []int{0, 1, 2, 3}, net.Nodes())
	assert.Equal(t, []int{2}, net.NodesOfType(flownet.Balance))
	assert.Equal(t, []int{0, 1, 3}, net.NodesOfType(flownet.Ordinary))

	nt, err := net.NodeType(2)
	require.NoError(t, err)
	assert.Equal(t, flownet.Balance, nt)
	assert.Equal(t, "balance", nt.String())

	_, err = net.NodeType(99)
	assert.ErrorIs(t, err, flownet.ErrNodeNotFound)
}

// TestNodeInputsOutputs verifies per-node stream resolution in edge order.
func TestNodeInputsOutputs(t *testing.T) {
	net := twoInOneOut(t)

	ins, outs, err := net.NodeInputsOutputs(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"feed", "scav"}, ins)
	assert.Equal(t, []string{"product"}, outs)

	_, _, err = net.NodeInputsOutputs(42)
	assert.ErrorIs(t, err, flownet.ErrNodeNotFound)
}

// TestStreamLookup verifies name lookup and its sentinel.
func TestStreamLookup(t *testing.T) {
	net := twoInOneOut(t)

	s, err := net.Stream("scav")
	require.NoError(t, err)
	assert.Equal(t, 1, s.From())

	_, err = net.Stream("ghost")
	assert.ErrorIs(t, err, flownet.ErrStreamNotFound)
}

// TestTidyTable_Order verifies record-major, edge-order rows.
func TestTidyTable_Order(t *testing.T) {
	net := twoInOneOut(t)
	tbl := net.TidyTable()

	assert.Equal(t, []string{stream.MassDry, "Fe"}, tbl.Columns)
	require.Len(t, tbl.Rows, 6)
	assert.Equal(t, "t0", tbl.Rows[0].Key)
	assert.Equal(t, "feed", tbl.Rows[0].Stream)
	assert.Equal(t, []float64{10, 60}, tbl.Rows[0].Values)
	assert.Equal(t, "t0", tbl.Rows[2].Key)
	assert.Equal(t, "product", tbl.Rows[2].Stream)
	assert.Equal(t, "t1", tbl.Rows[3].Key)
	assert.Equal(t, "feed", tbl.Rows[3].Stream)

	vals, ok := tbl.Lookup("t1", "scav")
	require.True(t, ok)
	assert.Equal(t, []float64{8, 52}, vals)

	_, ok = tbl.Lookup("t9", "scav")
	assert.False(t, ok)
}

// TestReport_WeightedMeans verifies the aggregate export.
func TestReport_WeightedMeans(t *testing.T) {
	net := twoInOneOut(t)
	rpt, err := net.Report()
	require.NoError(t, err)

	require.Len(t, rpt.Rows, 3)
	assert.Equal(t, "feed", rpt.Rows[0].Stream)
	assert.Empty(t, rpt.Rows[0].Key)
	assert.InDelta(t, 22.0, rpt.Rows[0].Values[0], 1e-12, "total feed mass")
	// (10*60 + 12*58) / 22
	assert.InDelta(t, (10*60.0+12*58.0)/22.0, rpt.Rows[0].Values[1], 1e-12)
}

// TestBalanced verifies the closure check against a hand-balanced network.
func TestBalanced(t *testing.T) {
	feed := stream.MustNew("feed", 0, 1, []string{"Fe"})
	product := stream.MustNew("product", 1, 2, []string{"Fe"})
	require.NoError(t, feed.Append("t0", 10, []float64{60}))
	require.NoError(t, product.Append("t0", 10, []float64{60}))

	net, err := flownet.New([]*stream.Stream{feed, product})
	require.NoError(t, err)
	assert.True(t, net.Balanced(1e-9), "pass-through node must close exactly")

	// The canonical fixture closes on mass at t1 (12+8 in, 20 out) but not
	// on Fe mass (6.96+4.16 in vs 11.0 out).
	imbalanced := twoInOneOut(t)
	assert.False(t, imbalanced.Balanced(1e-4))
}
