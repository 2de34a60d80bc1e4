package plangeometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/roadgraph"
)

// Result bundles every visualization artifact the planner's
// "plan_geometry" response field exposes.
type Result struct {
	Isochrone               *geojson.Feature
	PastPaths               *geojson.FeatureCollection
	UncontrolledPaths       *geojson.FeatureCollection
	BeforeControlPaths      *geojson.FeatureCollection
	AfterControlPaths       *geojson.FeatureCollection
	UncontrolledEscapeNodes *geojson.FeatureCollection
	ControlledEscapeNodes   *geojson.FeatureCollection
}

// Build runs the full plangeometry pipeline against an already-resolved
// escapemodel.Model (cover status must already be propagated by the
// optimizer via Model.PropagateCover). When the isochrone cannot be
// built for any reason (for instance a point cloud below 3 points on a
// very small graph), Isochrone is left nil rather than failing the whole
// call, and the path segments are then not split into past/future parts;
// the path/escape-node collections are still returned.
func Build(g *roadgraph.Graph, m *escapemodel.Model, lkPos roadgraph.Position, lkPoint orb.Point, timeElapsed float64, cfg *config.Config) (*Result, error) {
	iso, present, err := Isochrone(g, m, lkPos, lkPoint, timeElapsed, cfg)
	if err != nil {
		present = nil
		iso = nil
	}

	segments, err := BuildSegments(g, m, present)
	if err != nil {
		return nil, fmt.Errorf("plangeometry: Build: %w", err)
	}

	covered, uncovered := EscapeNodeLists(g, m)

	return &Result{
		Isochrone:               iso,
		PastPaths:               segments.Past,
		UncontrolledPaths:       segments.Uncontrolled,
		BeforeControlPaths:      segments.BeforeControl,
		AfterControlPaths:       segments.AfterControl,
		UncontrolledEscapeNodes: uncovered,
		ControlledEscapeNodes:   covered,
	}, nil
}
