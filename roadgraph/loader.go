package roadgraph

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// xmlGraphML mirrors the subset of GraphML this loader understands:
// graph-level escape_nodes/boundary/boundary_buff attributes, and
// per-node/per-edge <data key="..."> children for x/y/inner and
// travel_time/highway/oneway/geometry respectively.
type xmlGraphML struct {
	XMLName xml.Name    `xml:"graphml"`
	Graph   xmlGraphEl  `xml:"graph"`
}

type xmlGraphEl struct {
	EscapeNodes  string     `xml:"escape_nodes,attr"`
	Boundary     string     `xml:"boundary,attr"`
	BoundaryBuff string     `xml:"boundary_buff,attr"`
	Nodes        []xmlNode  `xml:"node"`
	Edges        []xmlEdge  `xml:"edge"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

func (n xmlNode) attr(key string) (string, bool) {
	for _, d := range n.Data {
		if d.Key == key {
			return strings.TrimSpace(d.Value), true
		}
	}

	return "", false
}

func (e xmlEdge) attr(key string) (string, bool) {
	for _, d := range e.Data {
		if d.Key == key {
			return strings.TrimSpace(d.Value), true
		}
	}

	return "", false
}

// LoadGraph parses a GraphML-equivalent file into a Graph: node
// attributes x, y, inner ("True"/"False"); graph-level
// escape_nodes (comma-separated IDs), boundary and boundary_buff (WKT
// polygons); edge attributes travel_time, highway (possibly a
// "primary_link"-style tag, base-class stripped before ranking),
// oneway, and an optional geometry (WKT LineString).
func LoadGraph(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roadgraph: LoadGraph: %w", err)
	}

	var doc xmlGraphML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("roadgraph: LoadGraph: parse: %w", err)
	}

	g := New()

	for _, xn := range doc.Graph.Nodes {
		id, err := parseNodeID(xn.ID)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: node %q: %w", xn.ID, err)
		}
		xs, _ := xn.attr("x")
		ys, _ := xn.attr("y")
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: node %d: bad x %q: %w", id, xs, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: node %d: bad y %q: %w", id, ys, err)
		}
		innerStr, _ := xn.attr("inner")
		inner, err := parsePythonBool(innerStr)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: node %d: bad inner %q: %w", id, innerStr, err)
		}

		if err := g.AddNode(&Node{ID: id, X: x, Y: y, Inner: inner}); err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: %w", err)
		}
	}

	for _, xe := range doc.Graph.Edges {
		u, err := parseNodeID(xe.Source)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: edge source %q: %w", xe.Source, err)
		}
		v, err := parseNodeID(xe.Target)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: edge target %q: %w", xe.Target, err)
		}

		ttStr, _ := xe.attr("travel_time")
		tt, err := strconv.ParseFloat(ttStr, 64)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: edge (%d,%d): bad travel_time %q: %w", u, v, ttStr, err)
		}

		onewayStr, _ := xe.attr("oneway")
		oneway, err := parsePythonBool(onewayStr)
		if err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: edge (%d,%d): bad oneway %q: %w", u, v, onewayStr, err)
		}

		highwayStr, _ := xe.attr("highway")
		rank := HighwayRankForTag(baseHighwayTag(highwayStr))

		opts := []EdgeOption{WithOneway(oneway), WithHighwayRank(rank)}
		if geomStr, ok := xe.attr("geometry"); ok && geomStr != "" {
			ls, err := parseWKTLineString(geomStr)
			if err != nil {
				return nil, fmt.Errorf("roadgraph: LoadGraph: edge (%d,%d): bad geometry: %w", u, v, err)
			}
			opts = append(opts, WithGeometry(ls))
		}

		if _, err := g.AddEdge(u, v, tt, opts...); err != nil {
			return nil, fmt.Errorf("roadgraph: LoadGraph: %w", err)
		}
	}

	if err := applyEscapeNodes(g, doc.Graph.EscapeNodes); err != nil {
		return nil, fmt.Errorf("roadgraph: LoadGraph: %w", err)
	}

	boundary, err := parseWKTPolygon(doc.Graph.Boundary)
	if err != nil {
		return nil, fmt.Errorf("roadgraph: LoadGraph: boundary: %w", err)
	}
	boundaryBuff, err := parseWKTPolygon(doc.Graph.BoundaryBuff)
	if err != nil {
		return nil, fmt.Errorf("roadgraph: LoadGraph: boundary_buff: %w", err)
	}
	g.SetBoundary(boundary, boundaryBuff)

	return g, nil
}

func applyEscapeNodes(g *Graph, csv string) error {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil
	}
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := parseNodeID(tok)
		if err != nil {
			return fmt.Errorf("escape_nodes entry %q: %w", tok, err)
		}
		if !g.HasNode(id) {
			return fmt.Errorf("escape_nodes entry %d: %w", id, ErrNodeNotFound)
		}
		g.SetEscapeNode(id)
	}

	return nil
}

// parsePythonBool accepts the "True"/"False" string forms the source
// GraphML files use, as well as ordinary Go bool literals.
func parsePythonBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("not a recognized boolean: %q", s)
	}
}

func parseNodeID(s string) (NodeID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "n")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return NodeID(v), nil
}

// baseHighwayTag strips a "_link" suffix (e.g. "primary_link" ->
// "primary") before rank lookup. When the tag arrives as a list (OSM
// ways sometimes carry several highway values), this
// function should be called once per element and the caller takes the
// max rank; LoadGraph's source format gives one tag per edge so no list
// handling is needed here.
func baseHighwayTag(tag string) string {
	tag = strings.TrimSpace(tag)
	return strings.TrimSuffix(tag, "_link")
}

func parseWKTLineString(s string) (orb.LineString, error) {
	geom, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, err
	}
	ls, ok := geom.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("expected LINESTRING, got %T", geom)
	}

	return ls, nil
}

func parseWKTPolygon(s string) (orb.Polygon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	geom, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, err
	}
	poly, ok := geom.(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("expected POLYGON, got %T", geom)
	}

	return poly, nil
}
