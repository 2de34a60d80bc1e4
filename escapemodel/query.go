package escapemodel

import (
	"sort"

	"github.com/sentrygrid/intercept/roadgraph"
)

// Candidate is one row of the optimization-time candidate list.
type Candidate struct {
	ID          int
	OsmID       roadgraph.NodeID
	TimeReached float64
	Score       float64
}

// CandidateNodes traverses the tree pre-order from the root and returns
// every node with a candidate ID, sorted by ID.
func (m *Model) CandidateNodes() []Candidate {
	var out []Candidate
	m.preorder(rootIdx, func(idx int) {
		n := &m.nodes[idx]
		if n.HasCandidateID {
			out = append(out, Candidate{ID: n.CandidateID, OsmID: n.OsmID, TimeReached: n.TimeReached, Score: n.Score})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (m *Model) preorder(idx int, visit func(int)) {
	visit(idx)
	for _, c := range m.nodes[idx].ChildrenIdx {
		m.preorder(c, visit)
	}
}

// NJOINodes returns every tree node flagged IsNJOI, in ascending
// candidate-id-then-osmid order for determinism.
func (m *Model) NJOINodes() []*TreeNode {
	var out []*TreeNode
	for i := range m.nodes {
		if m.nodes[i].IsNJOI {
			out = append(out, &m.nodes[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HasCandidateID != out[j].HasCandidateID {
			return out[i].HasCandidateID
		}
		if out[i].CandidateID != out[j].CandidateID {
			return out[i].CandidateID < out[j].CandidateID
		}

		return out[i].OsmID < out[j].OsmID
	})

	return out
}

// PathsAsSeqIndices returns, for each (NJOI, escape-node-reachable-from-
// it) pair, the list of candidate IDs along that subpath. Escape nodes
// are tree leaves by construction (the sink filter used in Build stops
// expansion exactly at them), so a leaf search from each NJOI enumerates
// exactly these pairs.
func (m *Model) PathsAsSeqIndices() [][]int {
	var out [][]int
	for _, njoi := range m.NJOINodes() {
		njoiIdx, ok := m.osmidToIdx[njoi.OsmID]
		if !ok {
			continue
		}
		m.collectLeafPaths(njoiIdx, nil, &out)
	}

	return out
}

func (m *Model) collectLeafPaths(idx int, chain []int, out *[][]int) {
	n := &m.nodes[idx]
	if n.HasCandidateID {
		chain = append(chain, n.CandidateID)
	}
	if len(n.ChildrenIdx) == 0 {
		if len(chain) > 0 {
			cp := make([]int, len(chain))
			copy(cp, chain)
			*out = append(*out, cp)
		}

		return
	}
	for _, c := range n.ChildrenIdx {
		m.collectLeafPaths(c, chain, out)
	}
}

// SetAsControlNode marks the tree node for osmid (and every descendant)
// as covered.
func (m *Model) SetAsControlNode(osmid roadgraph.NodeID) {
	idx, ok := m.osmidToIdx[osmid]
	if !ok {
		return
	}
	m.nodes[idx].IsControlNode = true
	m.preorder(idx, func(i int) { m.nodes[i].Cover = Covered })
}

// PropagateCover runs a post-order pass from the root: a non-leaf's
// cover is COVERED iff every child is COVERED, UNCOVERED iff every child
// is UNCOVERED, else MIXED. Leaves keep whatever SetAsControlNode left
// them at (COVERED if marked, UNCOVERED otherwise).
func (m *Model) PropagateCover() {
	m.postorder(rootIdx)
}

func (m *Model) postorder(idx int) {
	n := &m.nodes[idx]
	if len(n.ChildrenIdx) == 0 {
		return
	}

	allCovered, allUncovered := true, true
	for _, c := range n.ChildrenIdx {
		m.postorder(c)
		switch m.nodes[c].Cover {
		case Covered:
			allUncovered = false
		case Uncovered:
			allCovered = false
		default:
			allCovered, allUncovered = false, false
		}
	}

	switch {
	case allCovered:
		n.Cover = Covered
	case allUncovered:
		n.Cover = Uncovered
	default:
		n.Cover = Mixed
	}
}
