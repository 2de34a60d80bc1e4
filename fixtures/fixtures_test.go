package fixtures_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/fixtures"
	"github.com/sentrygrid/intercept/roadgraph"
)

func TestBuildGraph_RejectsNilConstructor(t *testing.T) {
	_, err := fixtures.BuildGraph(nil)
	require.Error(t, err)
}

func TestBuildGraph_AppliesConstructorsInOrder(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(3, 3, opts),
		fixtures.MarkPerimeterAsEscape(3, 3, opts),
	)
	require.NoError(t, err)

	nodes, edges, escapeNodes := g.Stats()
	require.Equal(t, 9, nodes)
	require.Greater(t, edges, 0)
	require.Equal(t, 8, escapeNodes) // every node but the single interior one
}

func TestGrid_RejectsUndersizedDimensions(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	_, err := fixtures.BuildGraph(fixtures.Grid(1, 3, opts))
	require.Error(t, err)
}

func TestGrid_MarksInteriorNodesCorrectly(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(fixtures.Grid(3, 3, opts))
	require.NoError(t, err)

	center, err := g.Node(5) // (r=1,c=1): the sole interior node of a 3x3 grid
	require.NoError(t, err)
	require.True(t, center.Inner)

	corner, err := g.Node(1)
	require.NoError(t, err)
	require.False(t, corner.Inner)
}

func TestGrid_TwoWayProducesReciprocalEdges(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	opts.TwoWay = true
	g, err := fixtures.BuildGraph(fixtures.Grid(3, 3, opts))
	require.NoError(t, err)

	_, err = g.EdgeData(1, 2)
	require.NoError(t, err)
	_, err = g.EdgeData(2, 1)
	require.NoError(t, err)
}

func TestGrid_OneWayOmitsReverseEdge(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	opts.TwoWay = false
	g, err := fixtures.BuildGraph(fixtures.Grid(3, 3, opts))
	require.NoError(t, err)

	_, err = g.EdgeData(1, 2)
	require.NoError(t, err)
	_, err = g.EdgeData(2, 1)
	require.ErrorIs(t, err, roadgraph.ErrEdgeNotFound)
}

func TestMarkPerimeterAsEscape_SetsBoundaryAndBuffer(t *testing.T) {
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	require.Len(t, g.Boundary(), 1)
	require.Len(t, g.BoundaryBuffer(), 1)
	require.True(t, g.IsEscapeNode(1))
	require.False(t, g.IsEscapeNode(6)) // interior node
}
