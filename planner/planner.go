package planner

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fleet"
	"github.com/sentrygrid/intercept/internal/errs"
	"github.com/sentrygrid/intercept/internal/statsutil"
	"github.com/sentrygrid/intercept/optimizer"
	"github.com/sentrygrid/intercept/plangeometry"
	"github.com/sentrygrid/intercept/roadgraph"
)

// Plan runs the full pipeline: RoadGraph -> Router (via escapemodel.Build)
// -> EscapeModel -> Optimizer -> PlanGeometry, and assembles the
// external-contract Response. ctx is checked only once, on entry; the
// core computation is synchronous and CPU-bound.
func Plan(ctx context.Context, g *roadgraph.Graph, req Request, cfg *config.Config) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.InvalidInput(fmt.Errorf("planner: Plan: %w", err))
	}
	if req.TimeElapsed < 0 {
		return nil, errs.InvalidInput(fmt.Errorf("planner: Plan: time_elapsed must be >= 0"))
	}

	lkPoint := orb.Point{req.LKP.Lng, req.LKP.Lat}

	model, lkPos, err := escapemodel.Build(g, lkPoint, req.TimeElapsed, cfg)
	if err != nil {
		return nil, errs.GraphInconsistency(fmt.Errorf("planner: Plan: %w", err))
	}

	timeMargin := cfg.DefaultTimeMargin
	if req.TimeMargin != nil {
		timeMargin = *req.TimeMargin
	}

	vehicles := make([]*fleet.Vehicle, len(req.Vehicles))
	for i, vr := range req.Vehicles {
		vehicles[i] = &fleet.Vehicle{
			ID:       vr.ID,
			Position: orb.Point{vr.Position.Lng, vr.Position.Lat},
		}
	}

	plan, err := optimizer.Assign(g, vehicles, model, lkPoint, req.TimeElapsed, timeMargin, cfg)
	if err != nil {
		return nil, errs.UnreachableTarget(fmt.Errorf("planner: Plan: %w", err))
	}

	geom, err := plangeometry.Build(g, model, lkPos, lkPoint, req.TimeElapsed, cfg)
	if err != nil {
		return nil, errs.GraphInconsistency(fmt.Errorf("planner: Plan: %w", err))
	}

	resp := &Response{
		Origin:       [2]float64{req.LKP.Lat, req.LKP.Lng},
		Vehicles:     buildVehicleStatuses(vehicles),
		Assignments:  assignmentsToFeatureCollection(g, plan),
		Destinations: destinationsToFeatureCollection(g, plan),
		PlanGeometry: PlanGeometryResponse{
			Isochrone:               geom.Isochrone,
			PastPaths:               geom.PastPaths,
			UncontrolledPaths:       geom.UncontrolledPaths,
			BeforeControlPaths:      geom.BeforeControlPaths,
			AfterControlPaths:       geom.AfterControlPaths,
			UncontrolledEscapeNodes: geom.UncontrolledEscapeNodes,
			ControlledEscapeNodes:   geom.ControlledEscapeNodes,
		},
		Stats: buildStats(g, model, plan, vehicles),
	}

	return resp, nil
}

func buildVehicleStatuses(vehicles []*fleet.Vehicle) []VehicleStatus {
	out := make([]VehicleStatus, len(vehicles))
	for i, v := range vehicles {
		out[i] = VehicleStatus{
			ID:       v.ID,
			Position: LatLng{Lat: v.Position[1], Lng: v.Position[0]},
			Status:   int(v.Status),
			Tooltip:  v.Status.String(),
		}
	}

	return out
}

func assignmentsToFeatureCollection(g *roadgraph.Graph, plan *fleet.Plan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range plan.Assignments {
		path, ok := lookupPath(g, a)
		if !ok {
			continue
		}
		f := geojson.NewFeature(path)
		f.Properties["vid"] = a.VehicleID
		f.Properties["destination"] = int64(a.DestinationOsmID)
		f.Properties["travel_time"] = a.VehicleTravelTime
		f.Properties["exp_waiting_time"] = a.AdversaryArrivalTime - a.VehicleTravelTime
		f.Properties["score"] = a.Score
		fc.Append(f)
	}

	return fc
}

// lookupPath stitches the vehicle's routed node sequence into a single
// polyline, prefixed with the partial segment from its snapped starting
// Position to the first node (roadgraph.PolylineForPath). Falls back to
// a zero-length two-point line at the destination if the vehicle's
// path was never recorded (e.g. vehicle already started on the node).
func lookupPath(g *roadgraph.Graph, a fleet.Assignment) (orb.LineString, bool) {
	if len(a.Path) > 0 {
		line, err := g.PolylineForPath(a.Path, &a.RoutePos)
		if err == nil && len(line) > 0 {
			return line, true
		}
	}

	n, err := g.Node(a.DestinationOsmID)
	if err != nil {
		return nil, false
	}

	return orb.LineString{n.Point(), n.Point()}, true
}

func destinationsToFeatureCollection(g *roadgraph.Graph, plan *fleet.Plan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range plan.Assignments {
		n, err := g.Node(a.DestinationOsmID)
		if err != nil {
			continue
		}
		f := geojson.NewFeature(n.Point())
		f.Properties["vid"] = a.VehicleID
		fc.Append(f)
	}

	return fc
}

func buildStats(g *roadgraph.Graph, m *escapemodel.Model, plan *fleet.Plan, vehicles []*fleet.Vehicle) Stats {
	candidates := m.CandidateNodes()

	var maxScore float64
	for _, c := range candidates {
		maxScore += c.Score
	}

	margins := make([]float64, 0, len(plan.Assignments))
	destTimes := make([]float64, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		margins = append(margins, a.AdversaryArrivalTime-a.VehicleTravelTime)
		destTimes = append(destTimes, a.VehicleTravelTime)
	}

	return Stats{
		NbEscapeNodes:    len(g.EscapeNodes()),
		NbNJOIs:          len(m.NJOINodes()),
		NbCandidateNodes: len(candidates),
		MaxPossibleScore: maxScore,
		Score:            plan.SolutionScore,
		NbVehicles:       len(vehicles),
		NbAssignments:    len(plan.Assignments),
		TimeMarginStats:  statsutil.Summarize(margins),
		TimeToDestStats:  statsutil.Summarize(destTimes),
	}
}
