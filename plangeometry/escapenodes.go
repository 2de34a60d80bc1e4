package plangeometry

import (
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/roadgraph"
)

// EscapeNodeLists splits every leaf tree node into "covered" and
// "uncovered" GeoJSON point collections.
func EscapeNodeLists(g *roadgraph.Graph, m *escapemodel.Model) (covered, uncovered *geojson.FeatureCollection) {
	covered = geojson.NewFeatureCollection()
	uncovered = geojson.NewFeatureCollection()

	for i := 0; i < m.NodeCount(); i++ {
		n := m.Node(i)
		if len(n.ChildrenIdx) != 0 || n.OsmID == 0 {
			continue
		}
		node, err := g.Node(n.OsmID)
		if err != nil {
			continue
		}
		f := geojson.NewFeature(node.Point())
		f.Properties["osmid"] = int64(n.OsmID)

		if n.Cover == escapemodel.Covered {
			covered.Append(f)
		} else {
			uncovered.Append(f)
		}
	}

	return covered, uncovered
}
