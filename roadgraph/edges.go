package roadgraph

import (
	"fmt"

	"github.com/paulmach/orb"
)

// EdgeData returns the highest-highway-rank parallel edge between u and
// v, synthesizing and caching straight-line geometry the first time it
// is needed. Looking up a non-existent pair is a GraphInconsistency:
// callers that expect (u,v) to be a real edge (e.g. the router stepping
// along a path it just computed) should never hit ErrEdgeNotFound in
// practice.
func (g *Graph) EdgeData(u, v NodeID) (*Edge, error) {
	g.muEdges.RLock()
	nbrs, ok := g.adjacency[u]
	if !ok {
		g.muEdges.RUnlock()
		return nil, fmt.Errorf("roadgraph: EdgeData(%d,%d): %w", u, v, ErrEdgeNotFound)
	}
	parallel, ok := nbrs[v]
	g.muEdges.RUnlock()
	if !ok || len(parallel) == 0 {
		return nil, fmt.Errorf("roadgraph: EdgeData(%d,%d): %w", u, v, ErrEdgeNotFound)
	}

	best := parallel[0]
	for _, e := range parallel[1:] {
		if e.HighwayRank > best.HighwayRank {
			best = e
		}
	}

	g.ensureGeometry(best)

	return best, nil
}

// ensureGeometry idempotently synthesizes and caches straight-line
// geometry for an edge whose polyline is missing. The cache is a
// thread-safe, idempotent insert (a double-write yields identical
// values) guarded by geomCacheMu, the only mutation of shared state
// after load.
func (g *Graph) ensureGeometry(e *Edge) {
	if len(e.Geometry) >= 2 {
		return
	}

	key := edgeKey{U: e.U, V: e.V}
	g.geomCacheMu.Lock()
	defer g.geomCacheMu.Unlock()

	if cached, ok := g.geomCache[key]; ok {
		e.Geometry = cached
		return
	}

	un, errU := g.Node(e.U)
	vn, errV := g.Node(e.V)
	if errU != nil || errV != nil {
		return
	}
	ls := orb.LineString{un.Point(), vn.Point()}
	e.Geometry = ls
	e.synthesized = true
	g.geomCache[key] = ls
}

// EdgeTravelTime returns the positive travel time in seconds of the
// highest-ranked (u,v) edge.
func (g *Graph) EdgeTravelTime(u, v NodeID) (float64, error) {
	e, err := g.EdgeData(u, v)
	if err != nil {
		return 0, err
	}

	return e.TravelTime, nil
}

// EdgeHighwayRank returns the highway rank (0-6) of the highest-ranked
// (u,v) edge.
func (g *Graph) EdgeHighwayRank(u, v NodeID) (HighwayRank, error) {
	e, err := g.EdgeData(u, v)
	if err != nil {
		return 0, err
	}

	return e.HighwayRank, nil
}

// HighwayRankForTag resolves an OSM-style base highway tag (any "_link"
// suffix already stripped by the caller) to its rank. Unknown tags rank
// as RankUnclassified.
func HighwayRankForTag(tag string) HighwayRank {
	if r, ok := highwayRankByTag[tag]; ok {
		return r
	}

	return RankUnclassified
}

// edgeIterFunc is the callback signature for Neighbors.
type edgeIterFunc func(e *Edge) bool

// Neighbors invokes fn for every outgoing edge of u (across all parallel
// edges to each distinct v), stopping early if fn returns false. Used by
// the router's Dijkstra relaxation step.
func (g *Graph) Neighbors(u NodeID, fn edgeIterFunc) {
	g.muEdges.RLock()
	nbrs := g.adjacency[u]
	// Snapshot the edge slices we'll iterate to avoid holding the lock
	// during user callback execution.
	flat := make([]*Edge, 0, len(nbrs))
	for _, parallel := range nbrs {
		flat = append(flat, parallel...)
	}
	g.muEdges.RUnlock()

	for _, e := range flat {
		if !fn(e) {
			return
		}
	}
}

// IncomingEdges invokes fn for every edge terminating at v.
func (g *Graph) IncomingEdges(v NodeID, fn edgeIterFunc) {
	g.muEdges.RLock()
	nbrs := g.incoming[v]
	flat := make([]*Edge, 0, len(nbrs))
	for _, parallel := range nbrs {
		flat = append(flat, parallel...)
	}
	g.muEdges.RUnlock()

	for _, e := range flat {
		if !fn(e) {
			return
		}
	}
}
