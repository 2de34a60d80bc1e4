package plangeometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/roadgraph"
)

// category is a categorized path segment's edge classification (spec
// §4.5 "Categorized segments").
type category int

const (
	catUncovered category = iota
	catBeforeControl
	catAfterControl
)

// Segments is the full categorized-segment output, keyed by category
// plus a past/future split at the isochrone boundary.
type Segments struct {
	Past          *geojson.FeatureCollection
	Uncontrolled  *geojson.FeatureCollection
	BeforeControl *geojson.FeatureCollection
	AfterControl  *geojson.FeatureCollection
}

// rawSegment is one contiguous run of same-category tree nodes before
// GeoJSON conversion.
type rawSegment struct {
	cat   category
	nodes []int // arena indices, root-to-leaf order
}

// BuildSegments decomposes the tree into root-to-leaf chains (first
// child extends the current chain, later children start new chains
// sharing only the branching node), classifies each edge, splits at
// category changes, and further splits any segment crossing the
// isochrone into past/future halves at the NJOI's present-position
// point.
func BuildSegments(g *roadgraph.Graph, m *escapemodel.Model, present []presentPosition) (*Segments, error) {
	presentByIdx := make(map[int]orb.Point, len(present))
	for _, p := range present {
		presentByIdx[p.njoiIdx] = p.point
	}

	ancestorControl := make([]bool, m.NodeCount())
	var markAncestors func(idx int, parentFlag bool)
	markAncestors = func(idx int, parentFlag bool) {
		n := m.Node(idx)
		flag := parentFlag || n.IsControlNode
		ancestorControl[idx] = flag
		for _, c := range n.ChildrenIdx {
			markAncestors(c, flag)
		}
	}
	markAncestors(0, false)

	var chains [][]int
	var walk func(idx int, chain []int)
	walk = func(idx int, chain []int) {
		chain = append(chain, idx)
		children := m.Node(idx).ChildrenIdx
		if len(children) == 0 {
			chains = append(chains, chain)

			return
		}
		walk(children[0], chain)
		for _, c := range children[1:] {
			walk(c, []int{idx})
		}
	}
	walk(0, nil)

	var raw []rawSegment
	for _, chain := range chains {
		raw = append(raw, splitByCategory(m, ancestorControl, chain)...)
	}

	out := &Segments{
		Past:          geojson.NewFeatureCollection(),
		Uncontrolled:  geojson.NewFeatureCollection(),
		BeforeControl: geojson.NewFeatureCollection(),
		AfterControl:  geojson.NewFeatureCollection(),
	}

	for _, seg := range raw {
		line := nodesToLineString(g, m, seg.nodes)
		pastLine, futureLine := splitAtPresent(g, m, seg.nodes, line, presentByIdx)

		if len(pastLine) >= 2 {
			out.Past.Append(geojson.NewFeature(pastLine))
		}

		target := out.Uncontrolled
		switch seg.cat {
		case catBeforeControl:
			target = out.BeforeControl
		case catAfterControl:
			target = out.AfterControl
		}

		rest := line
		if len(futureLine) >= 2 {
			rest = futureLine
		}
		if len(rest) >= 2 {
			target.Append(geojson.NewFeature(rest))
		}
	}

	return out, nil
}

// splitByCategory walks a root-to-leaf chain and breaks it at every
// category change; boundary nodes are duplicated across the adjacent
// segments to preserve visual continuity.
func splitByCategory(m *escapemodel.Model, ancestorControl []bool, chain []int) []rawSegment {
	if len(chain) < 2 {
		return nil
	}

	classify := func(parentIdx, childIdx int) category {
		child := m.Node(childIdx)
		if child.Cover != escapemodel.Covered {
			return catUncovered
		}
		if ancestorControl[parentIdx] {
			return catAfterControl
		}

		return catBeforeControl
	}

	var out []rawSegment
	cur := rawSegment{cat: classify(chain[0], chain[1]), nodes: []int{chain[0]}}
	for i := 1; i < len(chain); i++ {
		c := classify(chain[i-1], chain[i])
		if c != cur.cat {
			cur.nodes = append(cur.nodes, chain[i])
			out = append(out, cur)
			cur = rawSegment{cat: c, nodes: []int{chain[i-1], chain[i]}}

			continue
		}
		cur.nodes = append(cur.nodes, chain[i])
	}
	out = append(out, cur)

	return out
}

func nodesToLineString(g *roadgraph.Graph, m *escapemodel.Model, idxs []int) orb.LineString {
	ls := make(orb.LineString, 0, len(idxs))
	for _, idx := range idxs {
		osmid := m.Node(idx).OsmID
		if osmid == 0 {
			continue
		}
		n, err := g.Node(osmid)
		if err != nil {
			continue
		}
		ls = append(ls, n.Point())
	}

	return ls
}

// splitAtPresent returns (pastPortion, futurePortion) when the segment
// contains an NJOI with a known present-position point; otherwise both
// are nil and the caller uses the whole line as-is.
func splitAtPresent(g *roadgraph.Graph, m *escapemodel.Model, idxs []int, line orb.LineString, presentByIdx map[int]orb.Point) (orb.LineString, orb.LineString) {
	splitAt := -1
	var pt orb.Point
	for i, idx := range idxs {
		if p, ok := presentByIdx[idx]; ok {
			splitAt = i
			pt = p

			break
		}
	}
	if splitAt < 0 || len(line) == 0 {
		return nil, nil
	}

	// line omits the synthetic root, so shift the index when the segment
	// starts there.
	lineAt := splitAt
	if m.Node(idxs[0]).OsmID == 0 && lineAt > 0 {
		lineAt--
	}

	past := make(orb.LineString, 0, lineAt+1)
	for i := 0; i < lineAt && i < len(line); i++ {
		past = append(past, line[i])
	}
	past = append(past, pt)

	future := orb.LineString{pt}
	for i := lineAt; i < len(line); i++ {
		future = append(future, line[i])
	}

	return past, future
}
