package optimizer

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fleet"
	"github.com/sentrygrid/intercept/roadgraph"
)

// Assign runs the full optimizer pipeline: pre-filter, route every
// surviving vehicle, drop vehicles that can't reach enough of the
// candidate set to be worth assigning, build the decision matrix, and
// solve. timeMargin overrides cfg.DefaultTimeMargin when >= 0; pass -1
// to use the configured default.
func Assign(g *roadgraph.Graph, vehicles []*fleet.Vehicle, model *escapemodel.Model, lkPoint orb.Point, timeElapsed, timeMargin float64, cfg *config.Config) (*fleet.Plan, error) {
	if timeMargin < 0 {
		timeMargin = cfg.DefaultTimeMargin
	}

	survivors := PreFilter(vehicles, lkPoint, timeElapsed, cfg)
	if err := RouteVehicles(g, survivors); err != nil {
		return nil, fmt.Errorf("optimizer: Assign: %w", err)
	}
	survivors = FilterByReachability(survivors, len(model.CandidateNodes()), cfg)

	feas, err := BuildDecisionMatrix(survivors, model, timeMargin)
	if err != nil {
		return nil, fmt.Errorf("optimizer: Assign: %w", err)
	}

	plan, err := Solve(feas, cfg)
	if err != nil {
		return nil, fmt.Errorf("optimizer: Assign: %w", err)
	}

	for _, a := range plan.Assignments {
		model.SetAsControlNode(a.DestinationOsmID)
	}
	model.PropagateCover()

	return plan, nil
}
