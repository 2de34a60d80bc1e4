package spatial_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/spatial"
)

func straightLine() orb.LineString {
	return orb.LineString{{0, 0}, {0, 1}, {0, 2}}
}

func TestInterpolateAlongLine_ClampsAndMidpoint(t *testing.T) {
	ls := straightLine()

	start, err := spatial.InterpolateAlongLine(ls, -1)
	require.NoError(t, err)
	require.Equal(t, ls[0], start)

	end, err := spatial.InterpolateAlongLine(ls, 2)
	require.NoError(t, err)
	require.Equal(t, ls[len(ls)-1], end)

	mid, err := spatial.InterpolateAlongLine(ls, 0.5)
	require.NoError(t, err)
	require.InDelta(t, 0, mid[0], 1e-9)
	require.InDelta(t, 1, mid[1], 1e-9)
}

func TestInterpolateAlongLine_RejectsShortLine(t *testing.T) {
	_, err := spatial.InterpolateAlongLine(orb.LineString{{0, 0}}, 0.5)
	require.ErrorIs(t, err, spatial.ErrEmptyLineString)
}

func TestNearestPointOnLine_ProjectsOntoNearestSegment(t *testing.T) {
	ls := straightLine()

	pt, frac, dist, err := spatial.NearestPointOnLine(ls, orb.Point{1, 1})
	require.NoError(t, err)
	require.InDelta(t, 0, pt[0], 1e-9)
	require.InDelta(t, 1, pt[1], 1e-9)
	require.InDelta(t, 0.5, frac, 1e-9)
	require.Greater(t, dist, 0.0)
}

func TestPartialLine_DegenerateRequestReturnsTwoPointLine(t *testing.T) {
	ls := straightLine()

	out, err := spatial.PartialLine(ls, 0.5, 0.5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, out[0], out[1])
}

func TestPartialLine_ReversedRangeReturnsReversedPoints(t *testing.T) {
	ls := straightLine()

	fwd, err := spatial.PartialLine(ls, 0, 1)
	require.NoError(t, err)
	rev, err := spatial.PartialLine(ls, 1, 0)
	require.NoError(t, err)

	require.Equal(t, fwd[0], rev[len(rev)-1])
	require.Equal(t, fwd[len(fwd)-1], rev[0])
}

func TestMergeLines_DropsSharedEndpointBetweenSegments(t *testing.T) {
	a := orb.LineString{{0, 0}, {0, 1}}
	b := orb.LineString{{0, 1}, {0, 2}}

	merged := spatial.MergeLines(1e-9, a, b)
	require.Equal(t, orb.LineString{{0, 0}, {0, 1}, {0, 2}}, merged)
}

func TestMergeLines_KeepsDisjointSegmentsConcatenated(t *testing.T) {
	a := orb.LineString{{0, 0}, {0, 1}}
	b := orb.LineString{{5, 5}, {5, 6}}

	merged := spatial.MergeLines(1e-9, a, b)
	require.Len(t, merged, 4)
}

func TestBalancedPolygon_RejectsFewerThanThreePoints(t *testing.T) {
	_, err := spatial.BalancedPolygon([]orb.Point{{0, 0}, {1, 1}}, 1.8)
	require.ErrorIs(t, err, spatial.ErrTooFewPoints)
}

func TestBalancedPolygon_ProducesClosedRingAroundAllInputPoints(t *testing.T) {
	points := []orb.Point{
		{2.000, 49.000},
		{2.001, 49.000},
		{2.001, 49.001},
		{2.000, 49.001},
	}

	poly, err := spatial.BalancedPolygon(points, 1.8)
	require.NoError(t, err)
	require.Len(t, poly, 1)
	ring := poly[0]
	require.GreaterOrEqual(t, len(ring), len(points)+1)
	require.Equal(t, ring[0], ring[len(ring)-1], "ring must be closed")
}
