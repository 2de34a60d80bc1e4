package roadgraph

import (
	"fmt"

	"github.com/paulmach/orb"
)

// AddNode inserts n. A duplicate ID is a loader bug (GraphInconsistency);
// it is rejected rather than silently overwritten.
func (g *Graph) AddNode(n *Node) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("roadgraph: duplicate node id %d", n.ID)
	}
	g.nodes[n.ID] = n
	g.index.insertNode(n.ID, n.Point())

	return nil
}

// EdgeOption configures an Edge at construction time.
type EdgeOption func(*Edge)

// WithGeometry sets the edge's polyline explicitly.
func WithGeometry(ls orb.LineString) EdgeOption {
	return func(e *Edge) { e.Geometry = ls }
}

// WithOneway marks the edge as one-way.
func WithOneway(oneway bool) EdgeOption {
	return func(e *Edge) { e.Oneway = oneway }
}

// WithHighwayRank sets the edge's highway rank directly.
func WithHighwayRank(r HighwayRank) EdgeOption {
	return func(e *Edge) { e.HighwayRank = r }
}

// AddEdge inserts a new directed edge u->v with the given travel time
// (seconds) and options, synthesizing a straight-line geometry from node
// coordinates when none is supplied. Both u and v must already exist.
func (g *Graph) AddEdge(u, v NodeID, travelTime float64, opts ...EdgeOption) (*Edge, error) {
	if !g.HasNode(u) {
		return nil, fmt.Errorf("roadgraph: AddEdge %d->%d: %w (%d)", u, v, ErrNodeNotFound, u)
	}
	if !g.HasNode(v) {
		return nil, fmt.Errorf("roadgraph: AddEdge %d->%d: %w (%d)", u, v, ErrNodeNotFound, v)
	}
	if travelTime <= 0 {
		return nil, fmt.Errorf("roadgraph: AddEdge %d->%d: travel_time must be > 0, got %g", u, v, travelTime)
	}

	g.muEdges.Lock()
	defer g.muEdges.Unlock()

	g.nextEdgeID++
	e := &Edge{ID: g.nextEdgeID, U: u, V: v, TravelTime: travelTime}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.Geometry) < 2 {
		un, _ := g.Node(u)
		vn, _ := g.Node(v)
		e.Geometry = orb.LineString{un.Point(), vn.Point()}
		e.synthesized = true
	}

	if g.adjacency[u] == nil {
		g.adjacency[u] = make(map[NodeID][]*Edge)
	}
	g.adjacency[u][v] = append(g.adjacency[u][v], e)

	if g.incoming[v] == nil {
		g.incoming[v] = make(map[NodeID][]*Edge)
	}
	g.incoming[v][u] = append(g.incoming[v][u], e)

	g.index.insertEdge(u, v, e.Geometry)

	return e, nil
}

// SetEscapeNode marks n as an escape node. Escape nodes are nodes outside
// Boundary with at least one inbound edge from an inner node; neither
// this setter nor the loader checks that (the loader only checks that
// each listed node exists).
func (g *Graph) SetEscapeNode(n NodeID) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	g.escapeNodes[n] = true
}

// SetBoundary sets the boundary and boundary-buffer polygons.
func (g *Graph) SetBoundary(boundary, buffer orb.Polygon) {
	g.boundary = boundary
	g.boundaryBuffer = buffer
}
