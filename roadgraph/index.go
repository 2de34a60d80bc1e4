package roadgraph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/tidwall/rtree"
)

// spatialIndex backs nearest-node/nearest-edge lookups with an R-tree
// over node points and edge bounding boxes.
type spatialIndex struct {
	nodes rtree.RTreeG[NodeID]
	edges rtree.RTreeG[edgeKey]
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{}
}

func (idx *spatialIndex) insertNode(id NodeID, p orb.Point) {
	pt := [2]float64{p[0], p[1]}
	idx.nodes.Insert(pt, pt, id)
}

func (idx *spatialIndex) insertEdge(u, v NodeID, ls orb.LineString) {
	bound := ls.Bound()
	min := [2]float64{bound.Min[0], bound.Min[1]}
	max := [2]float64{bound.Max[0], bound.Max[1]}
	idx.edges.Insert(min, max, edgeKey{U: u, V: v})
}

// nearestNodeCandidates collects every indexed node within an
// ever-doubling window around p until at least one candidate is found,
// then does one more doubling to make sure no closer node sits just
// outside the first hit window. It returns candidate IDs for the caller
// to rank by exact distance; the index itself has no native
// nearest-neighbor primitive, only box search.
func (idx *spatialIndex) nearestNodeCandidates(p orb.Point) []NodeID {
	var out []NodeID
	radius := initialSearchRadiusDeg
	for attempts := 0; attempts < maxSearchExpansions; attempts++ {
		out = out[:0]
		min := [2]float64{p[0] - radius, p[1] - radius}
		max := [2]float64{p[0] + radius, p[1] + radius}
		idx.nodes.Search(min, max, func(_, _ [2]float64, data NodeID) bool {
			out = append(out, data)
			return true
		})
		if len(out) > 0 {
			// Widen once more to catch a closer node whose point lies just
			// outside this box but within true nearest distance.
			radius *= 2
			min = [2]float64{p[0] - radius, p[1] - radius}
			max = [2]float64{p[0] + radius, p[1] + radius}
			out = out[:0]
			idx.nodes.Search(min, max, func(_, _ [2]float64, data NodeID) bool {
				out = append(out, data)
				return true
			})

			return out
		}
		radius *= 4
	}

	return out
}

// nearestEdgeCandidates mirrors nearestNodeCandidates for edges.
func (idx *spatialIndex) nearestEdgeCandidates(p orb.Point) []edgeKey {
	var out []edgeKey
	radius := initialSearchRadiusDeg
	for attempts := 0; attempts < maxSearchExpansions; attempts++ {
		out = out[:0]
		min := [2]float64{p[0] - radius, p[1] - radius}
		max := [2]float64{p[0] + radius, p[1] + radius}
		idx.edges.Search(min, max, func(_, _ [2]float64, data edgeKey) bool {
			out = append(out, data)
			return true
		})
		if len(out) > 0 {
			radius *= 2
			min = [2]float64{p[0] - radius, p[1] - radius}
			max = [2]float64{p[0] + radius, p[1] + radius}
			out = out[:0]
			idx.edges.Search(min, max, func(_, _ [2]float64, data edgeKey) bool {
				out = append(out, data)
				return true
			})

			return out
		}
		radius *= 4
	}

	return out
}

const (
	initialSearchRadiusDeg = 0.0015 // ~150m at mid-latitudes
	maxSearchExpansions    = 12
)

// greatCircleDistance is a thin wrapper around orb/geo's haversine
// distance, used by snap-candidate ranking.
func greatCircleDistance(a, b orb.Point) float64 {
	return geo.Distance(a, b)
}
