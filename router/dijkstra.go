package router

import (
	"container/heap"
	"math"

	"github.com/sentrygrid/intercept/roadgraph"
)

// Options configures a single-source run. The zero value runs Dijkstra
// over the whole graph with no sink filter or edge suppression and no
// distance cap.
type Options struct {
	Sink        SinkPredicate
	Suppress    EdgeSuppressor
	MaxDistance float64
}

// Option is a functional option for configuring a ShortestPaths run.
type Option func(*Options)

// WithSink installs a sink predicate.
func WithSink(p SinkPredicate) Option { return func(o *Options) { o.Sink = p } }

// WithSuppressedEdge installs an edge suppressor.
func WithSuppressedEdge(s EdgeSuppressor) Option { return func(o *Options) { o.Suppress = s } }

// WithMaxDistance caps exploration to at most d.
func WithMaxDistance(d float64) Option { return func(o *Options) { o.MaxDistance = d } }

func defaultOptions() Options {
	return Options{Sink: noSink, Suppress: noSuppress, MaxDistance: math.Inf(1)}
}

// Result holds per-node distances and predecessors from a ShortestPaths
// run. A node absent from Dist was unreached.
type Result struct {
	Dist map[roadgraph.NodeID]float64
	Prev map[roadgraph.NodeID]roadgraph.NodeID
}

// Path reconstructs the node sequence from the run's source to target,
// inclusive, or (nil, false) if target was unreached.
func (r *Result) Path(target roadgraph.NodeID) ([]roadgraph.NodeID, bool) {
	if _, ok := r.Dist[target]; !ok {
		return nil, false
	}

	var rev []roadgraph.NodeID
	cur := target
	for {
		rev = append(rev, cur)
		prev, ok := r.Prev[cur]
		if !ok {
			break
		}
		cur = prev
	}

	out := make([]roadgraph.NodeID, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}

	return out, true
}

// ShortestPaths runs single-source Dijkstra from source over g, honoring
// opts' sink predicate and edge suppressor as ephemeral views: a
// lazy-decrease-key loop over a binary heap, with predicate-based
// filtering standing in for a materialized filtered subgraph.
func ShortestPaths(g *roadgraph.Graph, source roadgraph.NodeID, opts ...Option) *Result {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Sink == nil {
		cfg.Sink = noSink
	}
	if cfg.Suppress == nil {
		cfg.Suppress = noSuppress
	}

	dist := map[roadgraph.NodeID]float64{source: 0}
	prev := map[roadgraph.NodeID]roadgraph.NodeID{}
	visited := map[roadgraph.NodeID]bool{}

	pq := make(nodePQ, 0, 16)
	heap.Init(&pq)
	heap.Push(&pq, &nodeItem{id: source, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*nodeItem)
		u, d := item.id, item.dist

		if visited[u] {
			continue
		}
		if d > cfg.MaxDistance {
			break
		}
		visited[u] = true

		if cfg.Sink(u) {
			continue
		}

		g.Neighbors(u, func(e *roadgraphEdge) bool {
			v := e.V
			if cfg.Suppress(u, v) {
				return true
			}
			newDist := d + e.TravelTime
			if newDist > cfg.MaxDistance {
				return true
			}
			if existing, ok := dist[v]; ok && newDist >= existing {
				return true
			}
			dist[v] = newDist
			prev[v] = u
			heap.Push(&pq, &nodeItem{id: v, dist: newDist})

			return true
		})
	}

	return &Result{Dist: dist, Prev: prev}
}

// roadgraphEdge aliases roadgraph.Edge so this file reads naturally
// without importing the package's exported Edge type name twice.
type roadgraphEdge = roadgraph.Edge

type nodeItem struct {
	id   roadgraph.NodeID
	dist float64
}

// nodePQ is a lazy-decrease-key min-heap keyed on NodeID/float64: a
// node may be pushed more than once, and the visited check in
// ShortestPaths discards stale pops instead of updating in place.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
