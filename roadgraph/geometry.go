package roadgraph

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/spatial"
)

// PartialLinestring returns the sub-polyline from pos to endpoint (which
// must be pos.U or pos.V), or from endpoint to pos when reverse is true.
func (g *Graph) PartialLinestring(pos Position, endpoint NodeID, reverse bool) (orb.LineString, error) {
	e, err := g.EdgeData(pos.U, pos.V)
	if err != nil {
		return nil, err
	}

	var endFrac float64
	switch endpoint {
	case pos.U:
		endFrac = 0
	case pos.V:
		endFrac = 1
	default:
		return nil, fmt.Errorf("roadgraph: PartialLinestring: endpoint %d is not on edge (%d,%d)", endpoint, pos.U, pos.V)
	}

	from, to := pos.EC, endFrac
	if reverse {
		from, to = endFrac, pos.EC
	}

	return spatial.PartialLine(e.Geometry, from, to)
}

// PolylineForPath stitches the edges along nodes[] into one polyline. If
// prefixPos is non-nil, it is prepended as a partial linestring from
// prefixPos to nodes[0]; prefixPos must lie on an edge adjacent to
// nodes[0] (i.e. prefixPos.U == nodes[0] or prefixPos.V == nodes[0]).
func (g *Graph) PolylineForPath(nodes []NodeID, prefixPos *Position) (orb.LineString, error) {
	if len(nodes) == 0 {
		return orb.LineString{}, nil
	}

	var segments []orb.LineString

	if prefixPos != nil {
		if prefixPos.U != nodes[0] && prefixPos.V != nodes[0] {
			return nil, fmt.Errorf("roadgraph: PolylineForPath: prefix position not adjacent to %d", nodes[0])
		}
		seg, err := g.PartialLinestring(*prefixPos, nodes[0], false)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	for i := 1; i < len(nodes); i++ {
		e, err := g.EdgeData(nodes[i-1], nodes[i])
		if err != nil {
			return nil, err
		}
		segments = append(segments, e.Geometry)
	}

	if len(segments) == 0 {
		n, err := g.Node(nodes[0])
		if err != nil {
			return nil, err
		}

		return orb.LineString{n.Point(), n.Point()}, nil
	}

	return spatial.MergeLines(1e-9, segments...), nil
}
