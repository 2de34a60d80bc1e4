package spatial

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/sentrygrid/intercept/linalg"
)

// ErrTooFewPoints indicates BalancedPolygon was asked to build a polygon
// from fewer than 3 points.
var ErrTooFewPoints = errors.New("spatial: balanced polygon needs at least 3 points")

// BalancedPolygon builds an isochrone boundary polygon: project the
// points to a metric CRS, compute the PCA principal axes of the cloud,
// inject two synthetic points along the minor axis when the major/minor
// ratio exceeds ratioThreshold (reducing elongation), sort counter-
// clockwise by angle around the centroid, and project back to
// geographic coordinates.
//
// The PCA step runs linalg.Eigen2x2 on the cloud's 2x2 covariance
// matrix.
func BalancedPolygon(points []orb.Point, ratioThreshold float64) (orb.Polygon, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	// Step (a): project to a metric CRS (Web Mercator, via orb/project).
	projected := make([]orb.Point, len(points))
	for i, p := range points {
		projected[i] = project.WGS84ToMercator(p)
	}

	// Step (b): PCA principal axes of the projected cloud.
	centroid := centroidOf(projected)
	cov, err := covarianceMatrix(projected, centroid)
	if err != nil {
		return nil, err
	}
	values, vectors, err := linalg.Eigen2x2(cov)
	if err != nil {
		return nil, err
	}

	majorIdx, minorIdx := 0, 1
	if values[1] > values[0] {
		majorIdx, minorIdx = 1, 0
	}
	majorStd := math.Sqrt(math.Max(values[majorIdx], 0))
	minorStd := math.Sqrt(math.Max(values[minorIdx], 0))

	cloud := make([]orb.Point, len(projected))
	copy(cloud, projected)

	// Step (c): inject synthetic points along the minor axis if elongated.
	if minorStd > 0 && majorStd/minorStd > ratioThreshold {
		minorVecX, _ := vectors.At(0, minorIdx)
		minorVecY, _ := vectors.At(1, minorIdx)

		majorSpan := majorExtent(projected, centroid, vectors, majorIdx)

		cloud = append(cloud,
			orb.Point{centroid[0] + minorVecX*majorSpan, centroid[1] + minorVecY*majorSpan},
			orb.Point{centroid[0] - minorVecX*majorSpan, centroid[1] - minorVecY*majorSpan},
		)
	}

	// Step (d): sort counter-clockwise by angle around the centroid.
	sort.Slice(cloud, func(i, j int) bool {
		return math.Atan2(cloud[i][1]-centroid[1], cloud[i][0]-centroid[0]) <
			math.Atan2(cloud[j][1]-centroid[1], cloud[j][0]-centroid[0])
	})

	// Step (e)/(f): close the ring and project back to geographic coords.
	ring := make(orb.Ring, 0, len(cloud)+1)
	for _, p := range cloud {
		ring = append(ring, project.MercatorToWGS84(p))
	}
	ring = append(ring, ring[0])

	return orb.Polygon{ring}, nil
}

func centroidOf(points []orb.Point) orb.Point {
	var sx, sy float64
	for _, p := range points {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(points))

	return orb.Point{sx / n, sy / n}
}

func covarianceMatrix(points []orb.Point, centroid orb.Point) (*linalg.Dense, error) {
	m, err := linalg.NewDense(2, 2)
	if err != nil {
		return nil, err
	}
	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p[0] - centroid[0]
		dy := p[1] - centroid[1]
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	n := float64(len(points))
	_ = m.Set(0, 0, sxx/n)
	_ = m.Set(0, 1, sxy/n)
	_ = m.Set(1, 0, sxy/n)
	_ = m.Set(1, 1, syy/n)

	return m, nil
}

// majorExtent returns the half-span of the point cloud projected onto
// the major principal axis, used to place the synthetic minor-axis
// points at a span comparable to the cloud's own extent.
func majorExtent(points []orb.Point, centroid orb.Point, vectors *linalg.Dense, majorIdx int) float64 {
	vx, _ := vectors.At(0, majorIdx)
	vy, _ := vectors.At(1, majorIdx)

	maxAbs := 0.0
	for _, p := range points {
		dx := p[0] - centroid[0]
		dy := p[1] - centroid[1]
		proj := dx*vx + dy*vy
		if math.Abs(proj) > maxAbs {
			maxAbs = math.Abs(proj)
		}
	}

	return maxAbs
}
