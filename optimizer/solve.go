// Package optimizer assigns pursuit vehicles to escape candidates,
// maximizing total score under three exclusivity constraints: each
// vehicle is assigned to at most one candidate, each candidate receives
// at most one vehicle, and two candidates sharing an escape path segment
// are mutually exclusive. The solver is a deterministic branch-and-bound
// search: depth-first assignment with an admissible upper-bound prune,
// incumbent tracking, and a wall-clock search budget.
package optimizer

import (
	"fmt"
	"sort"
	"time"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/escapemodel"
	"github.com/sentrygrid/intercept/fleet"
	"github.com/sentrygrid/intercept/linalg"
)

// candidateInfo is one column of the decision matrix.
type candidateInfo struct {
	escapemodel.Candidate
	groups []int // indices into the path-group list this candidate belongs to
}

// Feasibility is the boolean decision-variable matrix: rows are
// vehicles, columns are candidates, and a cell is a free variable (1.0)
// or structurally fixed to 0 (0.0) once
// adv_time_reached[n] - vehicle_time[v][n] - time_margin <= 0. Built on
// linalg.Dense, the same matrix type the PCA isochrone step uses.
type Feasibility struct {
	Matrix     *linalg.Dense
	Candidates []candidateInfo
	Vehicles   []*fleet.Vehicle
}

// BuildDecisionMatrix materializes the v x n feasibility matrix from the
// routed vehicles and the escape model's candidate list and path-index
// partitions.
func BuildDecisionMatrix(vehicles []*fleet.Vehicle, model *escapemodel.Model, timeMargin float64) (*Feasibility, error) {
	candidates := model.CandidateNodes()
	groups := model.PathsAsSeqIndices()

	candByID := make(map[int]int, len(candidates)) // candidate ID -> column index
	infos := make([]candidateInfo, len(candidates))
	for i, c := range candidates {
		infos[i] = candidateInfo{Candidate: c}
		candByID[c.ID] = i
	}
	for gi, group := range groups {
		for _, cid := range group {
			if ci, ok := candByID[cid]; ok {
				infos[ci].groups = append(infos[ci].groups, gi)
			}
		}
	}

	m, err := linalg.NewDense(len(vehicles), len(candidates))
	if err != nil {
		return nil, fmt.Errorf("optimizer: BuildDecisionMatrix: %w", err)
	}
	for vi, v := range vehicles {
		for ci, info := range infos {
			vt, ok := v.TimesToNodes[info.OsmID]
			feasible := ok && info.TimeReached-vt-timeMargin > 0
			val := 0.0
			if feasible {
				val = 1.0
			}
			if err := m.Set(vi, ci, val); err != nil {
				return nil, fmt.Errorf("optimizer: BuildDecisionMatrix: %w", err)
			}
		}
	}

	return &Feasibility{Matrix: m, Candidates: infos, Vehicles: vehicles}, nil
}

// Solve runs the branch-and-bound search and returns the best plan found
// within cfg.MaxTimeToSolve. An empty vehicle or candidate set returns a
// valid zero-score empty plan, never an error: the trivial "assign
// nothing" solution is always feasible, so this search never reports
// true infeasibility.
func Solve(feas *Feasibility, cfg *config.Config) (*fleet.Plan, error) {
	if len(feas.Vehicles) == 0 || len(feas.Candidates) == 0 {
		return &fleet.Plan{}, nil
	}

	s := &searchState{
		feas:     feas,
		deadline: time.Now().Add(cfg.MaxTimeToSolve),
	}
	s.usedCandidate = make([]bool, len(feas.Candidates))
	s.usedGroup = make([]bool, countGroups(feas.Candidates))
	s.current = make([]int, len(feas.Vehicles))
	for i := range s.current {
		s.current[i] = -1
	}
	s.best = make([]int, len(feas.Vehicles))
	copy(s.best, s.current)

	s.search(0, 0)

	plan := &fleet.Plan{SolutionScore: s.bestScore}
	for vi, ci := range s.best {
		if ci < 0 {
			feas.Vehicles[vi].Status = fleet.Unassigned
			continue
		}
		info := feas.Candidates[ci]
		veh := feas.Vehicles[vi]
		vt := veh.TimesToNodes[info.OsmID]
		plan.Assignments = append(plan.Assignments, fleet.Assignment{
			VehicleID:            veh.ID,
			DestinationOsmID:     info.OsmID,
			VehicleTravelTime:    vt,
			AdversaryArrivalTime: info.TimeReached,
			Score:                info.Score,
			RoutePos:             veh.RoutePos,
			Path:                 veh.PathsToNodes[info.OsmID],
		})
		feas.Vehicles[vi].Status = fleet.Assigned
	}

	return plan, nil
}

func countGroups(infos []candidateInfo) int {
	max := -1
	for _, info := range infos {
		for _, g := range info.groups {
			if g > max {
				max = g
			}
		}
	}

	return max + 1
}

type searchState struct {
	feas     *Feasibility
	deadline time.Time

	usedCandidate []bool
	usedGroup     []bool
	current       []int
	currentScore  float64

	best      []int
	bestScore float64
	foundAny  bool
}

// search assigns feas.Vehicles[vehicleIdx:] depth-first. The second
// parameter is unused; every call passes 0.
func (s *searchState) search(vehicleIdx int, _ int) {
	if vehicleIdx == len(s.feas.Vehicles) {
		if !s.foundAny || s.currentScore > s.bestScore {
			s.foundAny = true
			s.bestScore = s.currentScore
			copy(s.best, s.current)
		}

		return
	}

	if time.Now().After(s.deadline) {
		if !s.foundAny {
			s.foundAny = true
			s.bestScore = s.currentScore
			copy(s.best, s.current)
		}

		return
	}

	if s.currentScore+s.remainingBound(vehicleIdx) <= s.bestScore && s.foundAny {
		return
	}

	// Branch 1: leave this vehicle unassigned.
	s.current[vehicleIdx] = -1
	s.search(vehicleIdx+1, 0)

	// Branch 2: try each feasible, available candidate, best score first.
	order := s.candidateOrderFor(vehicleIdx)
	for _, ci := range order {
		if s.usedCandidate[ci] || s.groupBlocked(ci) {
			continue
		}
		val, _ := s.feas.Matrix.At(vehicleIdx, ci)
		if val <= 0 {
			continue
		}

		s.usedCandidate[ci] = true
		touched := s.markGroups(ci, true)
		s.current[vehicleIdx] = ci
		s.currentScore += s.feas.Candidates[ci].Score

		s.search(vehicleIdx+1, 0)

		s.currentScore -= s.feas.Candidates[ci].Score
		s.usedCandidate[ci] = false
		s.markGroupsFrom(touched, false)

		if time.Now().After(s.deadline) {
			return
		}
	}
}

func (s *searchState) candidateOrderFor(vehicleIdx int) []int {
	order := make([]int, 0, len(s.feas.Candidates))
	for ci := range s.feas.Candidates {
		if val, _ := s.feas.Matrix.At(vehicleIdx, ci); val > 0 {
			order = append(order, ci)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return s.feas.Candidates[order[i]].Score > s.feas.Candidates[order[j]].Score
	})

	return order
}

func (s *searchState) groupBlocked(ci int) bool {
	for _, g := range s.feas.Candidates[ci].groups {
		if s.usedGroup[g] {
			return true
		}
	}

	return false
}

func (s *searchState) markGroups(ci int, val bool) []int {
	groups := s.feas.Candidates[ci].groups
	for _, g := range groups {
		s.usedGroup[g] = val
	}

	return groups
}

func (s *searchState) markGroupsFrom(groups []int, val bool) {
	for _, g := range groups {
		s.usedGroup[g] = val
	}
}

// remainingBound is an admissible (optimistic) upper bound on the score
// still obtainable from vehicles[vehicleIdx:]: for each, the best
// feasible-and-available candidate's score, ignoring exclusivity among
// those remaining vehicles themselves.
func (s *searchState) remainingBound(vehicleIdx int) float64 {
	var bound float64
	for vi := vehicleIdx; vi < len(s.feas.Vehicles); vi++ {
		best := 0.0
		for ci, info := range s.feas.Candidates {
			if s.usedCandidate[ci] || s.groupBlocked(ci) {
				continue
			}
			val, _ := s.feas.Matrix.At(vi, ci)
			if val > 0 && info.Score > best {
				best = info.Score
			}
		}
		bound += best
	}

	return bound
}
