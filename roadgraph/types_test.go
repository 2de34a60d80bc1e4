package roadgraph_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/roadgraph"
)

func triangle(t *testing.T) *roadgraph.Graph {
	t.Helper()
	g := roadgraph.New()
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 1, X: 0, Y: 0}))
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 2, X: 0.001, Y: 0}))
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 3, X: 0.001, Y: 0.001, Inner: true}))

	_, err := g.AddEdge(1, 2, 10, roadgraph.WithHighwayRank(roadgraph.RankResidential))
	require.NoError(t, err)
	_, err = g.AddEdge(2, 3, 10, roadgraph.WithHighwayRank(roadgraph.RankResidential))
	require.NoError(t, err)

	return g
}

func TestAddNode_RejectsDuplicateID(t *testing.T) {
	g := roadgraph.New()
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 1, X: 0, Y: 0}))

	err := g.AddNode(&roadgraph.Node{ID: 1, X: 1, Y: 1})
	require.Error(t, err)
}

func TestAddEdge_RejectsMissingEndpointsAndNonPositiveTravelTime(t *testing.T) {
	g := roadgraph.New()
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 1, X: 0, Y: 0}))

	_, err := g.AddEdge(1, 2, 10)
	require.ErrorIs(t, err, roadgraph.ErrNodeNotFound)

	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 2, X: 1, Y: 1}))
	_, err = g.AddEdge(1, 2, 0)
	require.Error(t, err)
}

func TestAddEdge_SynthesizesStraightGeometryWhenNoneGiven(t *testing.T) {
	g := triangle(t)

	e, err := g.EdgeData(1, 2)
	require.NoError(t, err)
	require.Len(t, e.Geometry, 2)
	require.Equal(t, orb.Point{0, 0}, e.Geometry[0])
	require.Equal(t, orb.Point{0.001, 0}, e.Geometry[1])
}

func TestEdgeData_PrefersHighestHighwayRankAmongParallelEdges(t *testing.T) {
	g := roadgraph.New()
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 1, X: 0, Y: 0}))
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 2, X: 0.001, Y: 0}))

	_, err := g.AddEdge(1, 2, 20, roadgraph.WithHighwayRank(roadgraph.RankResidential))
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2, 5, roadgraph.WithHighwayRank(roadgraph.RankMotorway))
	require.NoError(t, err)

	best, err := g.EdgeData(1, 2)
	require.NoError(t, err)
	require.Equal(t, roadgraph.RankMotorway, best.HighwayRank)
	require.Equal(t, 5.0, best.TravelTime)
}

func TestEdgeData_MissingPairIsErrEdgeNotFound(t *testing.T) {
	g := triangle(t)

	_, err := g.EdgeData(1, 3)
	require.ErrorIs(t, err, roadgraph.ErrEdgeNotFound)
}

func TestEscapeNodes_ReturnsSortedRegisteredSet(t *testing.T) {
	g := triangle(t)
	g.SetEscapeNode(3)
	g.SetEscapeNode(1)

	require.Equal(t, []roadgraph.NodeID{1, 3}, g.EscapeNodes())
	require.True(t, g.IsEscapeNode(1))
	require.False(t, g.IsEscapeNode(2))
}

func TestStats_CountsNodesEdgesAndEscapeNodes(t *testing.T) {
	g := triangle(t)
	g.SetEscapeNode(3)

	nodes, edges, escapeNodes := g.Stats()
	require.Equal(t, 3, nodes)
	require.Equal(t, 2, edges)
	require.Equal(t, 1, escapeNodes)
}

func TestHighwayRankForTag_UnknownTagRanksUnclassified(t *testing.T) {
	require.Equal(t, roadgraph.RankMotorway, roadgraph.HighwayRankForTag("motorway"))
	require.Equal(t, roadgraph.RankUnclassified, roadgraph.HighwayRankForTag("bridleway"))
}
