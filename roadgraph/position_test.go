package roadgraph_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/fixtures"
	"github.com/sentrygrid/intercept/roadgraph"
)

func grid(t *testing.T) *roadgraph.Graph {
	t.Helper()
	opts := fixtures.DefaultGridOptions()
	g, err := fixtures.BuildGraph(
		fixtures.Grid(4, 4, opts),
		fixtures.MarkPerimeterAsEscape(4, 4, opts),
	)
	require.NoError(t, err)

	return g
}

func TestNearestNode_FindsExactCoincidentNode(t *testing.T) {
	g := grid(t)
	n, err := g.Node(6) // (r=1,c=1)
	require.NoError(t, err)

	id, err := g.NearestNode(n.Point())
	require.NoError(t, err)
	require.Equal(t, n.ID, id)
}

func TestNearestNode_EmptyGraphIsError(t *testing.T) {
	g := roadgraph.New()
	_, err := g.NearestNode(orb.Point{0, 0})
	require.ErrorIs(t, err, roadgraph.ErrEmptyGraph)
}

func TestSnap_OnEdgeProjectsOntoNearestSegment(t *testing.T) {
	g := grid(t)
	a, err := g.Node(6)
	require.NoError(t, err)
	b, err := g.Node(7)
	require.NoError(t, err)

	midpoint := orb.Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	pos, err := g.Snap(midpoint, false)
	require.NoError(t, err)
	require.InDelta(t, 0.5, pos.EC, 0.05)
}

func TestSnap_OnNodeFailsWhenNearestNodeHasNoSuccessor(t *testing.T) {
	g := roadgraph.New()
	require.NoError(t, g.AddNode(&roadgraph.Node{ID: 1, X: 0, Y: 0}))

	_, err := g.Snap(orb.Point{0, 0}, true)
	require.ErrorIs(t, err, roadgraph.ErrNoSuccessor)
}

func TestPosToPoint_CachesAcrossCopiesByIdentity(t *testing.T) {
	g := grid(t)
	pos, err := roadgraph.NewPosition(6, 7, 0.25, nil)
	require.NoError(t, err)

	p1 := g.PosToPoint(pos)
	cp := pos // struct copy, shares the same cache pointer
	p2 := g.PosToPoint(cp)
	require.Equal(t, p1, p2)
}

func TestUpdatePositionAlongEdge_RejectsOverflowPastEdgeEnd(t *testing.T) {
	g := grid(t)
	pos, err := roadgraph.NewPosition(6, 7, 0.9, nil)
	require.NoError(t, err)

	tt, err := g.EdgeTravelTime(6, 7)
	require.NoError(t, err)

	_, err = g.UpdatePositionAlongEdge(pos, tt, true)
	require.ErrorIs(t, err, roadgraph.ErrOffEdgeOverflow)
}

func TestUpdatePositionAlongEdge_MovesTowardVByDuration(t *testing.T) {
	g := grid(t)
	pos, err := roadgraph.NewPosition(6, 7, 0, nil)
	require.NoError(t, err)

	tt, err := g.EdgeTravelTime(6, 7)
	require.NoError(t, err)

	moved, err := g.UpdatePositionAlongEdge(pos, tt/2, true)
	require.NoError(t, err)
	require.InDelta(t, 0.5, moved.EC, 1e-9)
}

func TestPolylineForPath_StitchesConsecutiveEdgeGeometries(t *testing.T) {
	g := grid(t)
	path := []roadgraph.NodeID{6, 7, 8}

	ls, err := g.PolylineForPath(path, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ls), 3)
}

func TestPolylineForPath_EmptyPathReturnsEmptyLine(t *testing.T) {
	g := grid(t)

	ls, err := g.PolylineForPath(nil, nil)
	require.NoError(t, err)
	require.Empty(t, ls)
}
