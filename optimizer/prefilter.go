package optimizer

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/fleet"
	"github.com/sentrygrid/intercept/roadgraph"
	"github.com/sentrygrid/intercept/router"
)

// PreFilter excludes vehicles the adversary could already have overtaken:
// a vehicle whose great-circle distance to the LKP divided by
// time_elapsed is below the adversary's assumed max speed lies within
// the adversary's possible reach, and is excluded (status TOO_CLOSE_TO_LKP).
// Vehicles with timeElapsed <= 0 never trigger this (division is only
// meaningful for a genuine head start). Returns the surviving vehicles,
// in input order.
func PreFilter(vehicles []*fleet.Vehicle, lkPoint orb.Point, timeElapsed float64, cfg *config.Config) []*fleet.Vehicle {
	survivors := make([]*fleet.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if timeElapsed > 0 {
			d := geo.Distance(v.Position, lkPoint)
			if d/timeElapsed < cfg.MaxSpeedMPerSecond {
				v.Status = fleet.TooCloseToLKP
				continue
			}
		}
		survivors = append(survivors, v)
	}

	return survivors
}

// RouteVehicles runs a full single-source shortest-path search from each
// vehicle's snapped position, storing the per-node arrival times and
// paths on each Vehicle for the decision-matrix build.
func RouteVehicles(g *roadgraph.Graph, vehicles []*fleet.Vehicle) error {
	for _, v := range vehicles {
		pos, times, paths, err := router.RouteFromPoint(g, v.Position, 0, false)
		if err != nil {
			return err
		}
		v.RoutePos = pos
		v.TimesToNodes = times
		v.PathsToNodes = paths
	}

	return nil
}

// FilterByReachability marks Unavailable, and drops from the returned
// slice, any vehicle whose routed node set covers less than
// cfg.MinReachableNodesRatioForAssignable of the candidate nodes. A
// vehicle boxed in by one-way streets or a disconnected road segment can
// reach only a sliver of the escape candidates; routing it further would
// only ever produce a token assignment, so it is pulled from
// consideration before the decision matrix is built. totalCandidates is
// the escape model's full candidate count, not just the ones still
// feasible after exclusivity — the ratio measures road-network
// reachability, independent of what the solver later excludes.
func FilterByReachability(vehicles []*fleet.Vehicle, totalCandidates int, cfg *config.Config) []*fleet.Vehicle {
	if totalCandidates == 0 || cfg.MinReachableNodesRatioForAssignable <= 0 {
		return vehicles
	}

	survivors := make([]*fleet.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		ratio := float64(len(v.TimesToNodes)) / float64(totalCandidates)
		if ratio < cfg.MinReachableNodesRatioForAssignable {
			v.Status = fleet.Unavailable
			continue
		}
		survivors = append(survivors, v)
	}

	return survivors
}
