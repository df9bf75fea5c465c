package flownet_test

import (
	"fmt"

	"github.com/mineralytics/flowsheet/flownet"
	"github.com/mineralytics/flowsheet/stream"
)

// ExampleNew builds a splitter flowsheet and walks its derived topology.
func ExampleNew() {
	grades := []string{"Fe"}
	feed := stream.MustNew("feed", 0, 1, grades)
	lump := stream.MustNew("lump", 1, 2, grades)
	fines := stream.MustNew("fines", 1, 3, grades)
	_ = feed.Append("t0", 100, []float64{58})
	_ = lump.Append("t0", 40, []float64{60})
	_ = fines.Append("t0", 60, []float64{56.7})

	net, err := flownet.New([]*stream.Stream{feed, lump, fines}, flownet.WithName("Splitter"))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("edges:", net.EdgeNames())
	fmt.Println("balance nodes:", net.NodesOfType(flownet.Balance))
	ins, outs, _ := net.NodeInputsOutputs(1)
	fmt.Println("node 1 ins:", ins, "outs:", outs)
	fmt.Println("closed to 0.1 t:", net.Balanced(0.1))
	// Output:
	// edges: [feed lump fines]
	// balance nodes: [1]
	// node 1 ins: [feed] outs: [lump fines]
	// closed to 0.1 t: true
}

// ExampleNetwork_Report prints the aggregate (weighted-mean) view.
func ExampleNetwork_Report() {
	feed := stream.MustNew("feed", 0, 1, []string{"Fe"})
	product := stream.MustNew("product", 1, 2, []string{"Fe"})
	_ = feed.Append("t0", 10, []float64{60})
	_ = feed.Append("t1", 30, []float64{40})
	_ = product.Append("t0", 10, []float64{60})
	_ = product.Append("t1", 30, []float64{40})

	net, _ := flownet.New([]*stream.Stream{feed, product})
	rpt, _ := net.Report()
	for _, row := range rpt.Rows {
		fmt.Printf("%s: %.0f t @ %.0f%% Fe\n", row.Stream, row.Values[0], row.Values[1])
	}
	// Output:
	// feed: 40 t @ 45% Fe
	// product: 40 t @ 45% Fe
}
