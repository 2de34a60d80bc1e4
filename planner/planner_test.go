package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/fixtures"
	"github.com/sentrygrid/intercept/planner"
)

func TestPlan_EndToEndOnSyntheticGrid(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(6, 6, opts),
		fixtures.MarkPerimeterAsEscape(6, 6, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(15)
	require.NoError(t, err)

	cfg := config.Default()
	req := planner.Request{
		LKP:         planner.LatLng{Lat: center.Point()[1], Lng: center.Point()[0]},
		TimeElapsed: 0,
		Vehicles: []planner.VehicleRequest{
			{ID: 1, Position: planner.LatLng{Lat: center.Point()[1], Lng: center.Point()[0]}},
			{ID: 2, Position: planner.LatLng{Lat: center.Point()[1], Lng: center.Point()[0]}},
		},
	}

	resp, err := planner.Plan(context.Background(), g, req, &cfg)
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, resp.Vehicles, 2)
	require.Equal(t, resp.Stats.NbVehicles, 2)
	require.GreaterOrEqual(t, resp.Stats.NbCandidateNodes, resp.Stats.NbAssignments)
}

func TestPlan_EmptyVehicleListSucceedsWithZeroAssignments(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(6)
	require.NoError(t, err)

	cfg := config.Default()
	req := planner.Request{
		LKP:         planner.LatLng{Lat: center.Point()[1], Lng: center.Point()[0]},
		TimeElapsed: 0,
	}

	resp, err := planner.Plan(context.Background(), g, req, &cfg)
	require.NoError(t, err)
	require.Empty(t, resp.Assignments.Features)
	require.Zero(t, resp.Stats.NbVehicles)
}

func TestPlan_NegativeTimeElapsedIsInvalidInput(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(6)
	require.NoError(t, err)

	cfg := config.Default()
	req := planner.Request{
		LKP:         planner.LatLng{Lat: center.Point()[1], Lng: center.Point()[0]},
		TimeElapsed: -5,
	}

	_, err = planner.Plan(context.Background(), g, req, &cfg)
	require.Error(t, err)
}
