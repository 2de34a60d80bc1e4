package router

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/roadgraph"
	"github.com/sentrygrid/intercept/spatial"
)

// RouteFromPoint computes, starting at point p at time -timeElapsed, the
// per-node arrival time and path for every node reachable along the
// road network. When treatEscapeAsSink is set, every edge leaving an
// escape node is suppressed, preventing paths that exit the operational
// zone and re-enter it.
func RouteFromPoint(
	g *roadgraph.Graph,
	p orb.Point,
	timeElapsed float64,
	treatEscapeAsSink bool,
) (pos roadgraph.Position, times map[roadgraph.NodeID]float64, paths map[roadgraph.NodeID][]roadgraph.NodeID, err error) {
	var sink SinkPredicate = noSink
	if treatEscapeAsSink {
		sink = TreatEscapeAsSink(g)
	}

	// Step 2: snap within the effective (sink-filtered) view.
	u, v, err := g.NearestEdgeFiltered(p, func(a, _ roadgraph.NodeID) bool {
		return !sink(a)
	})
	if err != nil {
		return roadgraph.Position{}, nil, nil, fmt.Errorf("router: RouteFromPoint: %w", err)
	}
	e, err := g.EdgeData(u, v)
	if err != nil {
		return roadgraph.Position{}, nil, nil, fmt.Errorf("router: RouteFromPoint: %w", err)
	}
	_, frac, _, err := spatial.NearestPointOnLine(e.Geometry, p)
	if err != nil {
		return roadgraph.Position{}, nil, nil, fmt.Errorf("router: RouteFromPoint: %w", err)
	}
	pos, err = roadgraph.NewPosition(u, v, frac, &p)
	if err != nil {
		return roadgraph.Position{}, nil, nil, fmt.Errorf("router: RouteFromPoint: %w", err)
	}

	ec := pos.EC
	timeToV := e.TravelTime * (1 - ec)

	_, reverseExists := tryEdge(g, v, u)

	if !reverseExists {
		// One-way edge: single Dijkstra run from v.
		res := ShortestPaths(g, v, WithSink(sink))
		times = make(map[roadgraph.NodeID]float64, len(res.Dist))
		paths = make(map[roadgraph.NodeID][]roadgraph.NodeID, len(res.Dist))
		offset := timeToV - timeElapsed
		for n, d := range res.Dist {
			times[n] = d + offset
			path, _ := res.Path(n)
			paths[n] = path
		}

		return pos, times, paths, nil
	}

	// Two-way edge: run from u (suppressing u->v) and from v (suppressing
	// v->u), merge with a deterministic preference for the via-u route on
	// ties.
	timeToU := e.TravelTime * ec
	offsetU := timeToU - timeElapsed
	offsetV := timeToV - timeElapsed

	resU := ShortestPaths(g, u, WithSink(sink), WithSuppressedEdge(SuppressEdge(u, v)))
	resV := ShortestPaths(g, v, WithSink(sink), WithSuppressedEdge(SuppressEdge(v, u)))

	times = make(map[roadgraph.NodeID]float64)
	paths = make(map[roadgraph.NodeID][]roadgraph.NodeID)

	seen := make(map[roadgraph.NodeID]bool, len(resU.Dist)+len(resV.Dist))
	for n := range resU.Dist {
		seen[n] = true
	}
	for n := range resV.Dist {
		seen[n] = true
	}

	for n := range seen {
		du, okU := resU.Dist[n]
		dv, okV := resV.Dist[n]

		var pickU bool
		switch {
		case okU && okV:
			pickU = du+offsetU <= dv+offsetV
		case okU:
			pickU = true
		default:
			pickU = false
		}

		if pickU {
			times[n] = du + offsetU
			paths[n], _ = resU.Path(n)
		} else {
			times[n] = dv + offsetV
			paths[n], _ = resV.Path(n)
		}
	}

	return pos, times, paths, nil
}

func tryEdge(g *roadgraph.Graph, u, v roadgraph.NodeID) (*roadgraph.Edge, bool) {
	e, err := g.EdgeData(u, v)
	if err != nil {
		return nil, false
	}

	return e, true
}
