// Package router runs single-source shortest-path queries over a
// roadgraph.Graph starting from a mid-edge Position rather than a node,
// using ephemeral predicate-based subgraph views rather than
// materialized filtered clones.
//
// A filtered graph is never materialized: the sink filter and edge
// suppressor are closures consulted during neighbor enumeration.
package router

import "github.com/sentrygrid/intercept/roadgraph"

// SinkPredicate reports whether n's outgoing edges should be suppressed,
// turning n into an out-degree-zero sink for this query.
type SinkPredicate func(n roadgraph.NodeID) bool

// EdgeSuppressor reports whether the edge (u,v) should be excluded from
// relaxation, regardless of sink status.
type EdgeSuppressor func(u, v roadgraph.NodeID) bool

// TreatEscapeAsSink builds a sink predicate that suppresses every edge
// whose source is an escape node, preventing paths that exit the zone
// and re-enter it.
func TreatEscapeAsSink(g *roadgraph.Graph) SinkPredicate {
	return func(n roadgraph.NodeID) bool { return g.IsEscapeNode(n) }
}

// SuppressEdge returns an EdgeSuppressor that rejects exactly the one
// ordered pair (u,v), used to suppress a two-way starting edge in one
// direction while Dijkstra runs from its other endpoint.
func SuppressEdge(u, v roadgraph.NodeID) EdgeSuppressor {
	return func(a, b roadgraph.NodeID) bool { return a == u && b == v }
}

func noSink(roadgraph.NodeID) bool          { return false }
func noSuppress(_, _ roadgraph.NodeID) bool { return false }
