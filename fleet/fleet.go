// Package fleet holds the pursuit-vehicle types the optimizer assigns
// against escape candidates: Status, Vehicle, Assignment, and the
// resulting Plan.
package fleet

import (
	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/roadgraph"
)

// Status is a vehicle's outcome after pre-filtering and solving.
type Status int

const (
	Pending Status = iota
	TooCloseToLKP
	Unavailable
	Assigned
	Unassigned
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case TooCloseToLKP:
		return "TOO_CLOSE_TO_LKP"
	case Unavailable:
		return "UNAVAILABLE"
	case Assigned:
		return "ASSIGNED"
	case Unassigned:
		return "UNASSIGNED"
	default:
		return "UNKNOWN"
	}
}

// Vehicle is one pursuit unit: its reported position, pre-filter/solve
// status, and (once routed) its per-node arrival times and snapped
// position on the road network.
type Vehicle struct {
	ID       int64
	Position orb.Point
	Status   Status

	RoutePos     roadgraph.Position
	TimesToNodes map[roadgraph.NodeID]float64
	PathsToNodes map[roadgraph.NodeID][]roadgraph.NodeID
}

// Assignment is one vehicle-to-destination pairing the solver selected.
type Assignment struct {
	VehicleID            int64
	DestinationOsmID     roadgraph.NodeID
	VehicleTravelTime    float64
	AdversaryArrivalTime float64
	Score                float64

	// RoutePos and Path are the vehicle's snapped starting position and
	// the node sequence it travels to reach DestinationOsmID, carried so
	// callers can render the real trajectory geometry via
	// roadgraph.PolylineForPath instead of a degenerate point-to-point
	// line.
	RoutePos roadgraph.Position
	Path     []roadgraph.NodeID
}

// Plan is the solver's output: every assignment made and the total
// objective value. SolutionScore is always the sum of Score over
// Assignments.
type Plan struct {
	Assignments   []Assignment
	SolutionScore float64
}
