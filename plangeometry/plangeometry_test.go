package plangeometry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fixtures"
	"github.com/sentrygrid/intercept/plangeometry"
)

func TestBuild_ProducesPathsAndEscapeNodeLists(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(6, 6, opts),
		fixtures.MarkPerimeterAsEscape(6, 6, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(15)
	require.NoError(t, err)

	cfg := config.Default()
	model, lkPos, err := escapemodel.Build(g, center.Point(), 0, &cfg)
	require.NoError(t, err)

	candidates := model.CandidateNodes()
	require.NotEmpty(t, candidates)
	model.SetAsControlNode(candidates[0].OsmID)
	model.PropagateCover()

	result, err := plangeometry.Build(g, model, lkPos, center.Point(), 0, &cfg)
	require.NoError(t, err)
	require.NotNil(t, result)

	total := len(result.UncontrolledPaths.Features) +
		len(result.BeforeControlPaths.Features) +
		len(result.AfterControlPaths.Features)
	require.Greater(t, total, 0, "tree decomposition should produce at least one segment")

	require.Greater(t, len(result.ControlledEscapeNodes.Features)+len(result.UncontrolledEscapeNodes.Features), 0)
}

func TestBuild_DegenerateCloudLeavesIsochroneNilWithoutFailing(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(3, 3, opts),
		fixtures.MarkPerimeterAsEscape(3, 3, opts),
	)
	require.NoError(t, err)

	center, err := g.Node(5) // the single interior node of a 3x3 grid
	require.NoError(t, err)

	cfg := config.Default()
	model, lkPos, err := escapemodel.Build(g, center.Point(), 0, &cfg)
	require.NoError(t, err)

	result, err := plangeometry.Build(g, model, lkPos, center.Point(), 0, &cfg)
	require.NoError(t, err)
	require.NotNil(t, result)
}
