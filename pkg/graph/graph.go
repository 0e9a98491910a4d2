// Package graph defines the contract-only topology descriptor types
// the engine consumes after an off-RT graph/codec layer has resolved
// and validated a project's track topology. This package deliberately
// holds no validation logic: duplicate-id, cycle, and dangling-edge
// checking is the codec's job.
package graph

// NodeDescriptor describes one node in an unvalidated topology: a
// track or FX slot, identified by a stable id, with a kind tag and
// declared parameter count.
type NodeDescriptor struct {
	ID         string
	Kind       string
	ParamCount int
}

// Edge is a directed connection between two node ids.
type Edge struct {
	From string
	To   string
}

// Topology is a DAG of node descriptors and directed edges, exactly as
// produced by an off-RT project loader. The engine never parses a
// Topology itself; it only binds already-resolved tracks against it.
type Topology struct {
	Nodes []NodeDescriptor
	Edges []Edge
}
