// Package roadgraph implements a typed directed multigraph over road
// segments: integer node IDs, per-node coordinate and inner-zone flag,
// per-edge polyline/travel-time/oneway/highway-rank, parallel-edge
// collapsing by highway rank, and the escape-node/boundary bookkeeping
// the router and escape model build on.
//
// Vertex state and edge/adjacency state are guarded by separate locks,
// and mutations that can fail return an error rather than panicking.
package roadgraph

import (
	"errors"
	"sync"

	"github.com/paulmach/orb"
)

// NodeID identifies a node. ID 0 is reserved: it is never a real graph
// node and is reused by package escapemodel as the synthetic tree root.
type NodeID int64

// HighwayRank orders road classes from least to most significant:
// 0=unclassified .. 6=motorway.
type HighwayRank int

// Highway rank constants.
const (
	RankUnclassified HighwayRank = iota
	RankResidential
	RankTertiary
	RankSecondary
	RankPrimary
	RankTrunk
	RankMotorway
)

// highwayRankByTag maps an OSM-style base highway tag (with any "_link"
// suffix already stripped) to its rank. Unknown tags rank as
// RankUnclassified.
var highwayRankByTag = map[string]HighwayRank{
	"unclassified": RankUnclassified,
	"residential":  RankResidential,
	"tertiary":     RankTertiary,
	"secondary":    RankSecondary,
	"primary":      RankPrimary,
	"trunk":        RankTrunk,
	"motorway":     RankMotorway,
}

// Sentinel errors. Lookup failures on pairs that should be real edges
// indicate a caller bug, not a recoverable condition, so callers at the
// request boundary should wrap them with internal/errs.GraphInconsistency
// rather than surface them directly.
var (
	ErrNodeNotFound    = errors.New("roadgraph: node not found")
	ErrEdgeNotFound    = errors.New("roadgraph: edge not found")
	ErrEmptyGraph      = errors.New("roadgraph: graph has no nodes")
	ErrNoSuccessor     = errors.New("roadgraph: node has no outgoing edge")
	ErrBadEdgeCursor   = errors.New("roadgraph: edge cursor out of range")
	ErrShortGeometry   = errors.New("roadgraph: edge geometry needs at least 2 points")
	ErrOffEdgeOverflow = errors.New("roadgraph: position update would leave the edge")
)

// Node is a graph vertex: a geographic coordinate and its operational-zone
// membership flag.
type Node struct {
	ID    NodeID
	X, Y  float64 // lng, lat (WGS84)
	Inner bool
}

// Point returns the node's coordinate as an orb.Point (lng, lat).
func (n *Node) Point() orb.Point { return orb.Point{n.X, n.Y} }

// Edge is one directed arc (u,v) of the multigraph. Edges are value-
// identified by their ID; (u,v) may carry several parallel Edges.
type Edge struct {
	ID          uint64
	U, V        NodeID
	Geometry    orb.LineString // >= 2 points, lng/lat, u-to-v order
	TravelTime  float64        // seconds, > 0
	Oneway      bool
	HighwayRank HighwayRank
	synthesized bool // true if Geometry was synthesized (straight u-v segment)
}

type edgeKey struct{ U, V NodeID }

// graphStats is the Stats() snapshot.
type graphStats struct {
	Nodes, Edges, EscapeNodes int
}

// Graph is the immutable-after-load road network. All mutation happens
// during loading (single-writer); query methods are safe for concurrent
// readers, mirroring core.Graph's muVert/muEdgeAdj split.
type Graph struct {
	muNodes sync.RWMutex
	muEdges sync.RWMutex

	nodes map[NodeID]*Node

	// adjacency[u][v] holds every parallel edge from u to v, in insertion
	// order.
	adjacency map[NodeID]map[NodeID][]*Edge
	// incoming[v][u] mirrors adjacency for reverse lookups (escape-node
	// inbound checks, reverse-edge suppression in the router).
	incoming map[NodeID]map[NodeID][]*Edge

	escapeNodes map[NodeID]bool

	boundary       orb.Polygon
	boundaryBuffer orb.Polygon

	index *spatialIndex

	geomCacheMu sync.Mutex
	geomCache   map[edgeKey]orb.LineString

	nextEdgeID uint64
}

// New creates an empty Graph ready for loading.
func New() *Graph {
	return &Graph{
		nodes:       make(map[NodeID]*Node),
		adjacency:   make(map[NodeID]map[NodeID][]*Edge),
		incoming:    make(map[NodeID]map[NodeID][]*Edge),
		escapeNodes: make(map[NodeID]bool),
		index:       newSpatialIndex(),
		geomCache:   make(map[edgeKey]orb.LineString),
	}
}

// Boundary returns the operational-zone polygon.
func (g *Graph) Boundary() orb.Polygon { return g.boundary }

// BoundaryBuffer returns the larger boundary-buffer polygon.
func (g *Graph) BoundaryBuffer() orb.Polygon { return g.boundaryBuffer }

// IsEscapeNode reports whether n is a registered escape node.
func (g *Graph) IsEscapeNode(n NodeID) bool {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	return g.escapeNodes[n]
}

// EscapeNodes returns the full escape-node set as a slice, in ascending
// ID order for determinism.
func (g *Graph) EscapeNodes() []NodeID {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	out := make([]NodeID, 0, len(g.escapeNodes))
	for id := range g.escapeNodes {
		out = append(out, id)
	}
	sortNodeIDs(out)

	return out
}

// Stats returns a read-only snapshot of graph size.
func (g *Graph) Stats() (nodes, edges, escapeNodes int) {
	g.muNodes.RLock()
	nodes = len(g.nodes)
	escapeNodes = len(g.escapeNodes)
	g.muNodes.RUnlock()

	g.muEdges.RLock()
	for _, nbrs := range g.adjacency {
		for _, parallel := range nbrs {
			edges += len(parallel)
		}
	}
	g.muEdges.RUnlock()

	return nodes, edges, escapeNodes
}

// HasNode reports whether id is a known node.
func (g *Graph) HasNode(id NodeID) bool {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	_, ok := g.nodes[id]

	return ok
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) (*Node, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	return n, nil
}

func sortNodeIDs(ids []NodeID) {
	// Small helper kept local to avoid importing sort; a plain insertion
	// sort, adequate for escape-node sets.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
