package escapemodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fixtures"
)

func TestBuild_ProducesRootAndCandidates(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	n6, err := g.Node(6) // interior node (r=1,c=1) in a 4x4 grid
	require.NoError(t, err)

	cfg := config.Default()
	m, pos, err := escapemodel.Build(g, n6.Point(), 0, &cfg)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.True(t, pos.EC >= 0 && pos.EC <= 1)

	root := m.Node(0)
	require.Equal(t, int64(0), int64(root.OsmID))

	candidates := m.CandidateNodes()
	require.NotEmpty(t, candidates, "at least one escape path should produce a positive-score candidate")
	require.Equal(t, 0, candidates[0].ID, "candidate IDs must start at 0")

	for i, c := range candidates {
		require.Equal(t, i, c.ID, "candidate IDs must form a contiguous [0,N) range")
	}
}

func TestBuild_NJOIAndPathIndexing(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	n6, err := g.Node(6)
	require.NoError(t, err)

	cfg := config.Default()
	m, _, err := escapemodel.Build(g, n6.Point(), 0, &cfg)
	require.NoError(t, err)

	njois := m.NJOINodes()
	require.NotEmpty(t, njois)

	paths := m.PathsAsSeqIndices()
	require.NotEmpty(t, paths)
	for _, p := range paths {
		require.NotEmpty(t, p)
	}
}

func TestCoverPropagation_ControlNodeCoversDescendants(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	n6, err := g.Node(6)
	require.NoError(t, err)

	cfg := config.Default()
	m, _, err := escapemodel.Build(g, n6.Point(), 0, &cfg)
	require.NoError(t, err)

	candidates := m.CandidateNodes()
	require.NotEmpty(t, candidates)

	m.SetAsControlNode(candidates[0].OsmID)
	m.PropagateCover()

	idx, ok := m.IndexForOsmID(candidates[0].OsmID)
	require.True(t, ok)
	require.Equal(t, escapemodel.Covered, m.Node(idx).Cover)

	root := m.Node(0)
	require.NotEqual(t, escapemodel.Uncovered, root.Cover)
}
