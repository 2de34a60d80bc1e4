// Package fixtures builds small, deterministic synthetic road graphs for
// tests, standing in for real GraphML map extracts that are not
// available in this environment. It follows a Constructor closure type
// applied in order by a single BuildGraph orchestrator, the same shape
// graph-topology test fixtures elsewhere in this codebase use.
package fixtures

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/roadgraph"
)

// Constructor applies one deterministic mutation to a *roadgraph.Graph
// under construction: validate early, return sentinel-wrapped errors,
// never panic.
type Constructor func(g *roadgraph.Graph) error

// BuildGraph creates an empty Graph and applies each constructor in
// order.
func BuildGraph(cons ...Constructor) (*roadgraph.Graph, error) {
	g := roadgraph.New()
	for i, c := range cons {
		if c == nil {
			return nil, fmt.Errorf("fixtures: BuildGraph: nil constructor at index %d", i)
		}
		if err := c(g); err != nil {
			return nil, fmt.Errorf("fixtures: BuildGraph: %w", err)
		}
	}

	return g, nil
}

// GridOptions configures Grid.
type GridOptions struct {
	Origin      orb.Point // lower-left corner, lng/lat
	SpacingDeg  float64   // grid spacing in degrees, both axes
	SpeedMPS    float64   // assumed travel speed, meters/second
	HighwayRank roadgraph.HighwayRank
	TwoWay      bool
}

// DefaultGridOptions returns small, human-scale defaults: ~100m spacing,
// 13.9 m/s (50 km/h), residential, two-way streets.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Origin:      orb.Point{2.0, 49.0},
		SpacingDeg:  0.001,
		SpeedMPS:    13.9,
		HighwayRank: roadgraph.RankResidential,
		TwoWay:      true,
	}
}

// Grid builds a rows*cols 4-neighborhood lattice, node IDs in row-major
// order starting at 1 (0 is reserved). Edge travel time is derived from
// great-circle distance and opts.SpeedMPS so tests exercise realistic
// time arithmetic rather than placeholder constants.
func Grid(rows, cols int, opts GridOptions) Constructor {
	return func(g *roadgraph.Graph) error {
		if rows < 2 || cols < 2 {
			return fmt.Errorf("fixtures: Grid requires rows>=2 and cols>=2, got %dx%d", rows, cols)
		}
		if opts.SpeedMPS <= 0 {
			return fmt.Errorf("fixtures: Grid requires SpeedMPS > 0")
		}

		id := func(r, c int) roadgraph.NodeID { return roadgraph.NodeID(r*cols + c + 1) }

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				x := opts.Origin[0] + float64(c)*opts.SpacingDeg
				y := opts.Origin[1] + float64(r)*opts.SpacingDeg
				inner := r > 0 && r < rows-1 && c > 0 && c < cols-1
				if err := g.AddNode(&roadgraph.Node{ID: id(r, c), X: x, Y: y, Inner: inner}); err != nil {
					return err
				}
			}
		}

		addEdge := func(a, b roadgraph.NodeID) error {
			an, err := g.Node(a)
			if err != nil {
				return err
			}
			bn, err := g.Node(b)
			if err != nil {
				return err
			}
			dist := approxMeters(an.Point(), bn.Point())
			tt := dist / opts.SpeedMPS
			if tt <= 0 {
				tt = 1
			}
			_, err = g.AddEdge(a, b, tt,
				roadgraph.WithOneway(!opts.TwoWay),
				roadgraph.WithHighwayRank(opts.HighwayRank),
			)

			return err
		}

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					if err := addEdge(id(r, c), id(r, c+1)); err != nil {
						return err
					}
					if opts.TwoWay {
						if err := addEdge(id(r, c+1), id(r, c)); err != nil {
							return err
						}
					}
				}
				if r+1 < rows {
					if err := addEdge(id(r, c), id(r+1, c)); err != nil {
						return err
					}
					if opts.TwoWay {
						if err := addEdge(id(r+1, c), id(r, c)); err != nil {
							return err
						}
					}
				}
			}
		}

		return nil
	}
}

// MarkPerimeterAsEscape designates the outer ring of a rows*cols Grid as
// escape nodes (the operational boundary excludes them; in a two-way Grid
// every non-corner one has an inbound edge from the inner ring), and sets
// the graph's boundary/boundary-buffer to the inner ring's and the full
// grid's bounding boxes respectively.
func MarkPerimeterAsEscape(rows, cols int, opts GridOptions) Constructor {
	return func(g *roadgraph.Graph) error {
		id := func(r, c int) roadgraph.NodeID { return roadgraph.NodeID(r*cols + c + 1) }

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if r == 0 || r == rows-1 || c == 0 || c == cols-1 {
					g.SetEscapeNode(id(r, c))
				}
			}
		}

		innerMinX := opts.Origin[0] + opts.SpacingDeg
		innerMinY := opts.Origin[1] + opts.SpacingDeg
		innerMaxX := opts.Origin[0] + float64(cols-2)*opts.SpacingDeg
		innerMaxY := opts.Origin[1] + float64(rows-2)*opts.SpacingDeg
		boundary := bboxPolygon(innerMinX, innerMinY, innerMaxX, innerMaxY)

		outerMaxX := opts.Origin[0] + float64(cols-1)*opts.SpacingDeg
		outerMaxY := opts.Origin[1] + float64(rows-1)*opts.SpacingDeg
		buffer := bboxPolygon(opts.Origin[0], opts.Origin[1], outerMaxX, outerMaxY)

		g.SetBoundary(boundary, buffer)

		return nil
	}
}

func bboxPolygon(minX, minY, maxX, maxY float64) orb.Polygon {
	ring := orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}

	return orb.Polygon{ring}
}

// approxMeters is an equirectangular approximation, adequate for the
// small, human-scale fixture grids built here; it avoids importing
// orb/geo's haversine machinery just for fixture construction.
func approxMeters(a, b orb.Point) float64 {
	const metersPerDegreeLat = 111320.0
	midLat := (a[1] + b[1]) / 2 * math.Pi / 180
	dy := (b[1] - a[1]) * metersPerDegreeLat
	dx := (b[0] - a[0]) * metersPerDegreeLat * math.Cos(midLat)

	return math.Hypot(dx, dy)
}
