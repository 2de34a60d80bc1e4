package escapemodel

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/roadgraph"
	"github.com/sentrygrid/intercept/router"
)

// Build constructs the escape tree rooted at the adversary's
// last-known position (LKP). timeElapsed is how long ago the LKP observation was
// made; cfg supplies the scoring constants (last-edge factor, time
// constant/factor) as configuration, not hardcoded literals.
func Build(g *roadgraph.Graph, lkPoint orb.Point, timeElapsed float64, cfg *config.Config) (*Model, roadgraph.Position, error) {
	pos, times, paths, err := router.RouteFromPoint(g, lkPoint, timeElapsed, true)
	if err != nil {
		return nil, roadgraph.Position{}, fmt.Errorf("escapemodel: Build: %w", err)
	}

	startEdgeRank, err := g.EdgeHighwayRank(pos.U, pos.V)
	if err != nil {
		return nil, roadgraph.Position{}, fmt.Errorf("escapemodel: Build: %w", err)
	}

	m := &Model{
		nodes:           []TreeNode{{OsmID: 0, ParentIdx: -1, TimeReached: -timeElapsed}},
		osmidToIdx:      map[roadgraph.NodeID]int{0: rootIdx},
		nextCandidateID: -1,
	}

	for _, e := range g.EscapeNodes() {
		path, reached := paths[e]
		if !reached {
			continue
		}
		if err := m.absorbPath(g, e, path, times, startEdgeRank, cfg); err != nil {
			return nil, roadgraph.Position{}, fmt.Errorf("escapemodel: Build: %w", err)
		}
	}

	return m, pos, nil
}

// absorbPath walks one escape node's path from the root, creating or
// updating tree nodes along the way.
func (m *Model) absorbPath(
	g *roadgraph.Graph,
	escapeNode roadgraph.NodeID,
	path []roadgraph.NodeID,
	times map[roadgraph.NodeID]float64,
	startEdgeRank roadgraph.HighwayRank,
	cfg *config.Config,
) error {
	lastEdgeRank := startEdgeRank
	if len(path) >= 2 {
		r, err := g.EdgeHighwayRank(path[len(path)-2], path[len(path)-1])
		if err != nil {
			return err
		}
		lastEdgeRank = r
	}
	edgeScoreBase := float64(lastEdgeRank) * cfg.ScoreLastEdgeFactor

	sequence := make([]roadgraph.NodeID, 0, len(path)+1)
	sequence = append(sequence, 0)
	sequence = append(sequence, path...)

	njoiFound := false
	prevOsmid := sequence[0]
	for i := 1; i < len(sequence); i++ {
		currOsmid := sequence[i]

		t, ok := times[currOsmid]
		if !ok {
			return fmt.Errorf("node %d on path to %d has no recorded arrival time", currOsmid, escapeNode)
		}

		var scoreContribution float64
		var isNJOIHere bool
		if t > 0 {
			scoreContribution = edgeScoreBase + math.Round(math.Exp(-t/cfg.ScoreTimeConstant)*cfg.ScoreTimeFactor)
			if !njoiFound {
				njoiFound = true
				isNJOIHere = true
			}
		}

		idx, exists := m.osmidToIdx[currOsmid]
		if !exists {
			parentIdx, ok := m.osmidToIdx[prevOsmid]
			if !ok {
				return fmt.Errorf("internal: parent %d not yet in tree", prevOsmid)
			}
			node := TreeNode{
				OsmID:       currOsmid,
				ParentIdx:   parentIdx,
				TimeReached: t,
				Cover:       Uncovered,
			}
			if scoreContribution > 0 {
				m.nextCandidateID++
				node.CandidateID = m.nextCandidateID
				node.HasCandidateID = true
				node.Score = scoreContribution
			}
			if isNJOIHere {
				node.IsNJOI = true
			}
			m.nodes = append(m.nodes, node)
			idx = len(m.nodes) - 1
			m.osmidToIdx[currOsmid] = idx
			m.nodes[parentIdx].ChildrenIdx = append(m.nodes[parentIdx].ChildrenIdx, idx)
		} else {
			m.nodes[idx].Score += scoreContribution
			if isNJOIHere {
				m.nodes[idx].IsNJOI = true
			}
		}

		prevOsmid = currOsmid
	}

	return nil
}
