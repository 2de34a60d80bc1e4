// Package escapemodel builds the rooted escape tree: a synthetic root
// over the live pursuit's last-known position (LKP) fanning out to every
// reachable escape node, with per-node time-decayed scores and
// post-solver cover-status propagation.
//
// Tree nodes live in a flat arena (Model.nodes) addressed by integer
// index rather than as a web of pointers, sidestepping the parent/child
// back-reference cycles a pointer-linked tree would need to manage.
package escapemodel

import "github.com/sentrygrid/intercept/roadgraph"

// CoverStatus is a tree node's post-solver coverage classification.
type CoverStatus int

const (
	Uncovered CoverStatus = iota
	Mixed
	Covered
)

func (c CoverStatus) String() string {
	switch c {
	case Uncovered:
		return "UNCOVERED"
	case Mixed:
		return "MIXED"
	case Covered:
		return "COVERED"
	default:
		return "UNKNOWN"
	}
}

// rootIdx is the arena index of the synthetic root, always created first.
const rootIdx = 0

// TreeNode is one node of the escape tree. ParentIdx is -1 only for the
// root. HasCandidateID is false when the node never accrued positive
// score at creation time: candidate assignment happens once, at first
// visit, and is never granted retroactively on accumulation. CandidateID
// is only meaningful when HasCandidateID is true — 0 is a valid
// candidate ID, not a sentinel for "none".
type TreeNode struct {
	OsmID          roadgraph.NodeID
	ParentIdx      int
	ChildrenIdx    []int
	TimeReached    float64
	Score          float64
	CandidateID    int
	HasCandidateID bool
	IsNJOI         bool
	IsControlNode  bool
	Cover          CoverStatus
}

// Model is the constructed escape tree plus the lookup structures
// queries need.
type Model struct {
	nodes           []TreeNode
	osmidToIdx      map[roadgraph.NodeID]int
	nextCandidateID int
}

// Node returns the TreeNode at idx (arena index).
func (m *Model) Node(idx int) *TreeNode { return &m.nodes[idx] }

// NodeCount returns the number of tree nodes, including the root.
func (m *Model) NodeCount() int { return len(m.nodes) }

// IndexForOsmID returns the tree index for a given road-graph node ID, if
// it is present in the tree.
func (m *Model) IndexForOsmID(osmid roadgraph.NodeID) (int, bool) {
	idx, ok := m.osmidToIdx[osmid]

	return idx, ok
}
