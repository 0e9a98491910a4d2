package graph

import (
	"bytes"
	"fmt"
	"sort"
)

// Canonical serializes t deterministically: nodes sorted by id, edges
// sorted by (from, to), independent of the order they were appended in.
// This is the only operation this package performs on a Topology; it
// does not validate.
func (t Topology) Canonical() []byte {
	nodes := append([]NodeDescriptor(nil), t.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := append([]Edge(nil), t.Edges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "nodes=%d\n", len(nodes))
	for _, n := range nodes {
		fmt.Fprintf(&buf, "%s\t%s\t%d\n", n.ID, n.Kind, n.ParamCount)
	}
	fmt.Fprintf(&buf, "edges=%d\n", len(edges))
	for _, e := range edges {
		fmt.Fprintf(&buf, "%s\t%s\n", e.From, e.To)
	}
	return buf.Bytes()
}
