package roadgraph

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/spatial"
)

// Position is a first-class location on the graph: a point at fractional
// offset EC along edge (U,V). EC==0 coincides with U; EC==1 coincides
// with V.
//
// The cached geographic point is memoized behind a pointer-identity
// cache rather than a value field: the cache key is identity, not value,
// and Go's Position is an ordinary copyable struct with no interior
// mutability of its own fields, so the memoized point lives in a small
// heap-allocated cache object every copy of a given Position shares by
// pointer. A sync.Once in that object computes and stores the derived
// field at most once.
type Position struct {
	U, V      NodeID
	EC        float64
	InitPoint *orb.Point

	cache *positionCache
}

type positionCache struct {
	once sync.Once
	pt   orb.Point
}

// NewPosition validates and constructs a Position. EC must be in [0,1].
func NewPosition(u, v NodeID, ec float64, initPoint *orb.Point) (Position, error) {
	if ec < 0 || ec > 1 {
		return Position{}, fmt.Errorf("roadgraph: %w: ec=%g", ErrBadEdgeCursor, ec)
	}

	return Position{U: u, V: v, EC: ec, InitPoint: initPoint, cache: &positionCache{}}, nil
}

// NearestNode returns the node ID whose coordinate is nearest to p.
// Fails only when the graph has no nodes.
func (g *Graph) NearestNode(p orb.Point) (NodeID, error) {
	g.muNodes.RLock()
	empty := len(g.nodes) == 0
	g.muNodes.RUnlock()
	if empty {
		return 0, ErrEmptyGraph
	}

	best := NodeID(0)
	bestDist := -1.0
	for _, cand := range g.index.nearestNodeCandidates(p) {
		n, err := g.Node(cand)
		if err != nil {
			continue
		}
		d := greatCircleDistance(p, n.Point())
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = cand
		}
	}
	if bestDist < 0 {
		// Index returned nothing (shouldn't happen once nodes exist); fall
		// back to a full scan rather than fail a valid snap.
		g.muNodes.RLock()
		for id, n := range g.nodes {
			d := greatCircleDistance(p, n.Point())
			if bestDist < 0 || d < bestDist {
				bestDist = d
				best = id
			}
		}
		g.muNodes.RUnlock()
	}

	return best, nil
}

// NearestEdge returns the (u,v) pair of the edge geometrically nearest
// to p. Among equally distant edges, the first candidate examined wins.
func (g *Graph) NearestEdge(p orb.Point) (NodeID, NodeID, error) {
	g.muEdges.RLock()
	hasEdges := len(g.adjacency) > 0
	g.muEdges.RUnlock()
	if !hasEdges {
		return 0, 0, ErrEmptyGraph
	}

	candidates := g.index.nearestEdgeCandidates(p)
	if len(candidates) == 0 {
		candidates = g.allEdgeKeys()
	}

	bestDist := -1.0
	var bestKey edgeKey
	for _, ek := range candidates {
		e, err := g.EdgeData(ek.U, ek.V)
		if err != nil {
			continue
		}
		_, _, d, err := spatial.NearestPointOnLine(e.Geometry, p)
		if err != nil {
			continue
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestKey = ek
		}
	}
	if bestDist < 0 {
		return 0, 0, ErrEdgeNotFound
	}

	return bestKey.U, bestKey.V, nil
}

// NearestEdgeFiltered mirrors NearestEdge but only considers edges for
// which include(u,v) is true. Used by the router to snap within a
// filtered view (e.g. excluding edges whose source is a sink node)
// rather than the full graph.
func (g *Graph) NearestEdgeFiltered(p orb.Point, include func(u, v NodeID) bool) (NodeID, NodeID, error) {
	g.muEdges.RLock()
	hasEdges := len(g.adjacency) > 0
	g.muEdges.RUnlock()
	if !hasEdges {
		return 0, 0, ErrEmptyGraph
	}

	candidates := g.index.nearestEdgeCandidates(p)
	if len(candidates) == 0 {
		candidates = g.allEdgeKeys()
	}

	bestDist := -1.0
	var bestKey edgeKey
	found := false
	for _, ek := range candidates {
		if include != nil && !include(ek.U, ek.V) {
			continue
		}
		e, err := g.EdgeData(ek.U, ek.V)
		if err != nil {
			continue
		}
		_, _, d, err := spatial.NearestPointOnLine(e.Geometry, p)
		if err != nil {
			continue
		}
		if !found || d < bestDist {
			bestDist = d
			bestKey = ek
			found = true
		}
	}
	if !found {
		// Fall back to the full-graph nearest edge, unfiltered: a
		// filtered view with nothing left to snap to still needs a
		// starting edge.
		for _, ek := range g.allEdgeKeys() {
			e, err := g.EdgeData(ek.U, ek.V)
			if err != nil {
				continue
			}
			_, _, d, err := spatial.NearestPointOnLine(e.Geometry, p)
			if err != nil {
				continue
			}
			if !found || d < bestDist {
				bestDist = d
				bestKey = ek
				found = true
			}
		}
	}
	if !found {
		return 0, 0, ErrEdgeNotFound
	}

	return bestKey.U, bestKey.V, nil
}

func (g *Graph) allEdgeKeys() []edgeKey {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()

	var out []edgeKey
	for u, nbrs := range g.adjacency {
		for v := range nbrs {
			out = append(out, edgeKey{U: u, V: v})
		}
	}

	return out
}

// Snap produces a Position for p. When onNode is true it returns
// (u=nearest_node, v=arbitrary successor of u, ec=0), failing if u has
// no outgoing edge. Otherwise it projects p onto NearestEdge(p)'s
// polyline.
func (g *Graph) Snap(p orb.Point, onNode bool) (Position, error) {
	if onNode {
		u, err := g.NearestNode(p)
		if err != nil {
			return Position{}, err
		}
		v, ok := g.arbitrarySuccessor(u)
		if !ok {
			return Position{}, fmt.Errorf("roadgraph: Snap(on_node) node %d: %w", u, ErrNoSuccessor)
		}

		return NewPosition(u, v, 0, &p)
	}

	u, v, err := g.NearestEdge(p)
	if err != nil {
		return Position{}, err
	}
	e, err := g.EdgeData(u, v)
	if err != nil {
		return Position{}, err
	}
	_, frac, _, err := spatial.NearestPointOnLine(e.Geometry, p)
	if err != nil {
		return Position{}, err
	}

	return NewPosition(u, v, frac, &p)
}

func (g *Graph) arbitrarySuccessor(u NodeID) (NodeID, bool) {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()

	nbrs, ok := g.adjacency[u]
	if !ok || len(nbrs) == 0 {
		return 0, false
	}
	// Deterministic choice: smallest neighbor ID, matching the graph's
	// general "stable deterministic order" requirement.
	first := true
	var best NodeID
	for v := range nbrs {
		if first || v < best {
			best = v
			first = false
		}
	}

	return best, true
}

// PosToPoint linearly interpolates pos along its edge's polyline,
// caching the result on pos (shared across copies via its identity
// cache pointer).
func (g *Graph) PosToPoint(pos Position) orb.Point {
	pos.cache.once.Do(func() {
		e, err := g.EdgeData(pos.U, pos.V)
		if err != nil {
			// GraphInconsistency: a Position must reference a
			// real edge by construction.
			panic(fmt.Errorf("roadgraph: PosToPoint: %w", err))
		}
		pt, err := spatial.InterpolateAlongLine(e.Geometry, pos.EC)
		if err != nil {
			panic(fmt.Errorf("roadgraph: PosToPoint: %w", err))
		}
		pos.cache.pt = pt
	})

	return pos.cache.pt
}

// UpdatePositionAlongEdge moves pos by duration seconds toward V
// (toward_v=true) or toward U (false), failing if the resulting EC
// would leave [0,1] (no multi-edge traversal).
func (g *Graph) UpdatePositionAlongEdge(pos Position, duration float64, towardV bool) (Position, error) {
	tt, err := g.EdgeTravelTime(pos.U, pos.V)
	if err != nil {
		return Position{}, err
	}
	delta := duration / tt
	if !towardV {
		delta = -delta
	}
	newEC := pos.EC + delta
	if newEC < 0 || newEC > 1 {
		return Position{}, fmt.Errorf("roadgraph: UpdatePositionAlongEdge: %w (ec=%g)", ErrOffEdgeOverflow, newEC)
	}

	return NewPosition(pos.U, pos.V, newEC, pos.InitPoint)
}
