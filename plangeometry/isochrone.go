// Package plangeometry derives the visualization layer from a resolved
// escapemodel.Model: the isochrone polygon, categorized path segments,
// and covered/uncovered escape-node lists. Output types are GeoJSON
// (orb/geojson), the same library family the router/roadgraph layers
// already use for point/line/polygon geometry, so the planner's
// response can be serialized directly.
package plangeometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/roadgraph"
	"github.com/sentrygrid/intercept/spatial"
)

// presentPosition is the adversary's "now" point along one NJOI's
// incoming edge, used both to build the isochrone polygon and to split
// categorized segments into past/future halves.
type presentPosition struct {
	njoiIdx int
	point   orb.Point
}

// computePresentPositions locates each NJOI's present-adversary-position,
// the first step of the isochrone polygon construction.
func computePresentPositions(g *roadgraph.Graph, m *escapemodel.Model, lkPos roadgraph.Position, lkPoint orb.Point, timeElapsed float64, cfg *config.Config) ([]presentPosition, error) {
	var out []presentPosition

	for _, njoi := range m.NJOINodes() {
		njoiIdx, ok := m.IndexForOsmID(njoi.OsmID)
		if !ok {
			continue
		}
		parentIdx := m.Node(njoiIdx).ParentIdx
		if parentIdx < 0 {
			continue
		}
		parent := m.Node(parentIdx)

		var pt orb.Point
		switch {
		case parent.OsmID == 0:
			// NJOI adjacent to the LKP's own starting edge: advance the
			// LKP position along its edge by max(floor, time_elapsed).
			advance := timeElapsed
			if advance < cfg.MinIsochroneTimeFloor {
				advance = cfg.MinIsochroneTimeFloor
			}
			newPos, err := g.UpdatePositionAlongEdge(lkPos, advance, true)
			if err != nil {
				// Edge too short for the requested advance: clamp to the
				// far endpoint instead of failing isochrone construction.
				newPos, err = roadgraph.NewPosition(lkPos.U, lkPos.V, 1, nil)
				if err != nil {
					return nil, fmt.Errorf("plangeometry: computePresentPositions: %w", err)
				}
			}
			pt = g.PosToPoint(newPos)
		default:
			denom := njoi.TimeReached - parent.TimeReached
			ec := 0.0
			if denom != 0 {
				ec = (-parent.TimeReached) / denom
			}
			ec = clamp01(ec)
			pos, err := roadgraph.NewPosition(parent.OsmID, njoi.OsmID, ec, nil)
			if err != nil {
				return nil, fmt.Errorf("plangeometry: computePresentPositions: %w", err)
			}
			pt = g.PosToPoint(pos)
		}

		out = append(out, presentPosition{njoiIdx: njoiIdx, point: pt})
	}

	// Escape leaves already passed by the adversary (time_reached <= 0)
	// contribute an extrapolated proxy point, snapped back to the network.
	for _, osmid := range g.EscapeNodes() {
		idx, ok := m.IndexForOsmID(osmid)
		if !ok {
			continue
		}
		n := m.Node(idx)
		if len(n.ChildrenIdx) != 0 || n.TimeReached > 0 {
			continue
		}
		denom := n.TimeReached + timeElapsed
		ratio := 0.0
		if denom != 0 {
			ratio = timeElapsed / denom
		}
		node, err := g.Node(osmid)
		if err != nil {
			continue
		}
		raw := orb.Point{
			lkPoint[0] + (node.Point()[0]-lkPoint[0])*ratio,
			lkPoint[1] + (node.Point()[1]-lkPoint[1])*ratio,
		}
		snapped, err := g.Snap(raw, false)
		if err != nil {
			continue
		}
		out = append(out, presentPosition{njoiIdx: idx, point: g.PosToPoint(snapped)})
	}

	return out, nil
}

// Isochrone builds the GeoJSON Feature wrapping a balanced polygon
// around the current-adversary-position point cloud.
func Isochrone(g *roadgraph.Graph, m *escapemodel.Model, lkPos roadgraph.Position, lkPoint orb.Point, timeElapsed float64, cfg *config.Config) (*geojson.Feature, []presentPosition, error) {
	positions, err := computePresentPositions(g, m, lkPos, lkPoint, timeElapsed, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(positions) < 3 {
		return nil, positions, fmt.Errorf("plangeometry: Isochrone: %w", spatial.ErrTooFewPoints)
	}

	pts := make([]orb.Point, len(positions))
	for i, p := range positions {
		pts[i] = p.point
	}

	poly, err := spatial.BalancedPolygon(pts, cfg.BalancedPolygonRatioThreshold)
	if err != nil {
		return nil, positions, fmt.Errorf("plangeometry: Isochrone: %w", err)
	}

	f := geojson.NewFeature(poly)

	return f, positions, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}

	return f
}
