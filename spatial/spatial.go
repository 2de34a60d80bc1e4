// Package spatial provides the pure geometric primitives factored out of
// RoadGraph: interpolation along a polyline, partial linestrings,
// linestring merging, and nearest-point-on-segment projection. RoadGraph
// (package roadgraph) composes these with its spatial index and edge
// bookkeeping; nothing here touches graph state.
package spatial

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrEmptyLineString indicates an operation was asked to operate on a
// linestring with fewer than 2 points.
var ErrEmptyLineString = errors.New("spatial: linestring needs at least 2 points")

// segmentLengths returns the geo length of each consecutive segment of
// ls and their cumulative sum (cumulative[i] = length of ls[:i+1]).
func segmentLengths(ls orb.LineString) (lens []float64, cumulative []float64) {
	lens = make([]float64, len(ls)-1)
	cumulative = make([]float64, len(ls))
	for i := 1; i < len(ls); i++ {
		d := geo.Distance(ls[i-1], ls[i])
		lens[i-1] = d
		cumulative[i] = cumulative[i-1] + d
	}

	return lens, cumulative
}

// InterpolateAlongLine returns the point at fractional offset frac
// (clamped to [0,1]) of ls's total length, linearly interpolating within
// the segment frac falls in.
func InterpolateAlongLine(ls orb.LineString, frac float64) (orb.Point, error) {
	if len(ls) < 2 {
		return orb.Point{}, ErrEmptyLineString
	}
	if frac <= 0 {
		return ls[0], nil
	}
	if frac >= 1 {
		return ls[len(ls)-1], nil
	}

	_, cumulative := segmentLengths(ls)
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		return ls[0], nil
	}
	target := frac * total

	for i := 1; i < len(cumulative); i++ {
		if target <= cumulative[i] {
			segStart := cumulative[i-1]
			segLen := cumulative[i] - segStart
			if segLen == 0 {
				return ls[i], nil
			}
			t := (target - segStart) / segLen

			return orb.Point{
				ls[i-1][0] + t*(ls[i][0]-ls[i-1][0]),
				ls[i-1][1] + t*(ls[i][1]-ls[i-1][1]),
			}, nil
		}
	}

	return ls[len(ls)-1], nil
}

// NearestPointOnLine projects p onto ls and returns the nearest point
// together with its fractional offset along ls's length (in [0,1]) and
// the distance from p to that point (meters, via the haversine-based
// orb/geo distance used throughout this package).
func NearestPointOnLine(ls orb.LineString, p orb.Point) (nearest orb.Point, frac float64, dist float64, err error) {
	if len(ls) < 2 {
		return orb.Point{}, 0, 0, ErrEmptyLineString
	}

	_, cumulative := segmentLengths(ls)
	total := cumulative[len(cumulative)-1]

	bestDist := math.Inf(1)
	var bestPoint orb.Point
	var bestCum float64

	for i := 1; i < len(ls); i++ {
		segPoint, t := nearestOnSegment(ls[i-1], ls[i], p)
		d := geo.Distance(p, segPoint)
		if d < bestDist {
			bestDist = d
			bestPoint = segPoint
			segLen := cumulative[i] - cumulative[i-1]
			bestCum = cumulative[i-1] + t*segLen
		}
	}

	if total == 0 {
		return ls[0], 0, geo.Distance(p, ls[0]), nil
	}

	return bestPoint, bestCum / total, bestDist, nil
}

// nearestOnSegment returns the closest point to p on segment a-b (planar
// projection; adequate at road-segment scale) and its fraction t in [0,1].
func nearestOnSegment(a, b, p orb.Point) (orb.Point, float64) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	return orb.Point{a[0] + t*dx, a[1] + t*dy}, t
}

// PartialLine returns the sub-linestring of ls between fractional
// offsets fromFrac and toFrac (each clamped to [0,1]). If fromFrac >
// toFrac the returned points are in reverse order. A degenerate request
// (fromFrac == toFrac) returns a two-point line at that single
// coordinate.
func PartialLine(ls orb.LineString, fromFrac, toFrac float64) (orb.LineString, error) {
	if len(ls) < 2 {
		return nil, ErrEmptyLineString
	}
	fromFrac = clamp01(fromFrac)
	toFrac = clamp01(toFrac)

	if fromFrac == toFrac {
		p, err := InterpolateAlongLine(ls, fromFrac)
		if err != nil {
			return nil, err
		}

		return orb.LineString{p, p}, nil
	}

	reverse := fromFrac > toFrac
	lo, hi := fromFrac, toFrac
	if reverse {
		lo, hi = toFrac, fromFrac
	}

	_, cumulative := segmentLengths(ls)
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		return orb.LineString{ls[0], ls[0]}, nil
	}

	loTarget := lo * total
	hiTarget := hi * total

	out := orb.LineString{}
	startPt, _ := InterpolateAlongLine(ls, lo)
	out = append(out, startPt)

	for i, c := range cumulative {
		if c > loTarget && c < hiTarget {
			out = append(out, ls[i])
		}
	}

	endPt, _ := InterpolateAlongLine(ls, hi)
	out = append(out, endPt)

	if reverse {
		out = reverseLine(out)
	}

	return out, nil
}

func reverseLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}

	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}

	return f
}

// MergeLines concatenates segments into one continuous linestring,
// dropping the duplicated shared endpoint between consecutive segments
// (within tol). Used by RoadGraph.PolylineForPath to stitch per-edge
// geometries (and an optional prefix partial linestring) into a single
// path geometry.
func MergeLines(tol float64, segments ...orb.LineString) orb.LineString {
	var out orb.LineString
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if len(out) > 0 && pointsClose(out[len(out)-1], seg[0], tol) {
			out = append(out, seg[1:]...)
		} else {
			out = append(out, seg...)
		}
	}

	return out
}

func pointsClose(a, b orb.Point, tol float64) bool {
	return math.Abs(a[0]-b[0]) <= tol && math.Abs(a[1]-b[1]) <= tol
}
