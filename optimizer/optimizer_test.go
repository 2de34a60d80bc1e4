package optimizer_test

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fixtures"
	"github.com/sentrygrid/intercept/fleet"
	"github.com/sentrygrid/intercept/optimizer"
)

func TestAssign_SingleVehicleCatchesSoleCandidate(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(5, 5, opts),
		fixtures.MarkPerimeterAsEscape(5, 5, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(13) // (r=2,c=2) in a 5x5 grid: the middle node
	require.NoError(t, err)

	cfg := config.Default()
	model, _, err := escapemodel.Build(g, center.Point(), 0, &cfg)
	require.NoError(t, err)

	candidates := model.CandidateNodes()
	require.NotEmpty(t, candidates)

	vehicles := []*fleet.Vehicle{
		{ID: 1, Position: center.Point()},
	}

	cfg.MaxTimeToSolve = 2 * time.Second
	plan, err := optimizer.Assign(g, vehicles, model, center.Point(), 0, 0, &cfg)
	require.NoError(t, err)
	require.NotNil(t, plan)

	var total float64
	for _, a := range plan.Assignments {
		total += a.Score
	}
	require.InDelta(t, plan.SolutionScore, total, 1e-9, "solution_score must equal sum of assignment scores")
}

func TestAssign_VehicleExclusivityAndNodeExclusivity(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(6, 6, opts),
		fixtures.MarkPerimeterAsEscape(6, 6, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(15)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.MaxTimeToSolve = 2 * time.Second
	model, _, err := escapemodel.Build(g, center.Point(), 0, &cfg)
	require.NoError(t, err)

	vehicles := []*fleet.Vehicle{
		{ID: 1, Position: center.Point()},
		{ID: 2, Position: center.Point()},
		{ID: 3, Position: center.Point()},
	}

	plan, err := optimizer.Assign(g, vehicles, model, center.Point(), 0, 0, &cfg)
	require.NoError(t, err)

	seenVehicles := make(map[int64]bool)
	seenNodes := make(map[int64]bool)
	for _, a := range plan.Assignments {
		require.False(t, seenVehicles[a.VehicleID], "vehicle assigned twice: C1 violated")
		seenVehicles[a.VehicleID] = true
		require.False(t, seenNodes[int64(a.DestinationOsmID)], "node assigned twice: C2 violated")
		seenNodes[int64(a.DestinationOsmID)] = true
	}

	for _, v := range vehicles {
		require.NotEqual(t, fleet.Pending, v.Status)
	}
}

func TestAssign_EmptyVehicleListReturnsZeroScorePlan(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(6)
	require.NoError(t, err)

	cfg := config.Default()
	model, _, err := escapemodel.Build(g, center.Point(), 0, &cfg)
	require.NoError(t, err)

	plan, err := optimizer.Assign(g, nil, model, center.Point(), 0, 0, &cfg)
	require.NoError(t, err)
	require.Empty(t, plan.Assignments)
	require.Zero(t, plan.SolutionScore)
}

func TestPreFilter_ExcludesVehicleAlreadyWithinAdversaryReach(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	cfg := config.Default()

	// Vehicle sits only ~7m from the LKP; with 600s elapsed the adversary
	// could cover that distance at well under MaxSpeedMPerSecond, so the
	// vehicle's position is already within the adversary's possible reach.
	near := []*fleet.Vehicle{
		{ID: 1, Position: orb.Point{opts.Origin[0] + 0.0001, opts.Origin[1]}},
	}

	survivors := optimizer.PreFilter(near, opts.Origin, 600.0, &cfg)
	require.Empty(t, survivors)
	require.Equal(t, fleet.TooCloseToLKP, near[0].Status)
}

func TestPreFilter_KeepsVehicleTooFarForAdversaryToHaveReached(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	cfg := config.Default()

	// ~15km east: far beyond what the adversary could cover at
	// MaxSpeedMPerSecond in only 1 second of elapsed time, so this vehicle
	// has not yet been overtaken and must survive the pre-filter.
	far := []*fleet.Vehicle{
		{ID: 1, Position: orb.Point{opts.Origin[0] + 0.2, opts.Origin[1]}},
	}

	survivors := optimizer.PreFilter(far, opts.Origin, 1.0, &cfg)
	require.Len(t, survivors, 1)
	require.NotEqual(t, fleet.TooCloseToLKP, far[0].Status)
}
