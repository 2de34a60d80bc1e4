// Package planner ties RoadGraph, Router, EscapeModel, Optimizer, and
// PlanGeometry together behind a single external contract: a Request in,
// a Response out.
package planner

import (
	"github.com/paulmach/orb/geojson"

	"github.com/sentrygrid/intercept/internal/statsutil"
)

// LatLng is the wire-level coordinate pair used for request/response
// payloads (WGS84, lat first).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// VehicleRequest is one inbound vehicle: an id and a last-known position.
type VehicleRequest struct {
	ID       int64  `json:"id"`
	Position LatLng `json:"position"`
}

// Request is the planner's inbound contract.
type Request struct {
	LKP         LatLng           `json:"lkp"`
	TimeElapsed float64          `json:"time_elapsed"`
	Vehicles    []VehicleRequest `json:"vehicles"`
	TimeMargin  *float64         `json:"time_margin,omitempty"`
}

// VehicleStatus is one vehicle's reported outcome in the response.
type VehicleStatus struct {
	ID       int64  `json:"id"`
	Position LatLng `json:"position"`
	Status   int    `json:"status"`
	Tooltip  string `json:"tooltip"`
}

// Stats is the response's summary block.
type Stats struct {
	NbEscapeNodes    int               `json:"nb_escape_nodes"`
	NbNJOIs          int               `json:"nb_njois"`
	NbCandidateNodes int               `json:"nb_candidate_nodes"`
	MaxPossibleScore float64           `json:"max_possible_score"`
	Score            float64           `json:"score"`
	NbVehicles       int               `json:"nb_vehicles"`
	NbAssignments    int               `json:"nb_assignments"`
	TimeMarginStats  statsutil.Triple  `json:"time_margin_stats"`
	TimeToDestStats  statsutil.Triple  `json:"time_to_dest_stats"`
}

// PlanGeometryResponse holds the "plan_geometry" sub-collections.
type PlanGeometryResponse struct {
	Isochrone               *geojson.Feature           `json:"isochrone,omitempty"`
	PastPaths               *geojson.FeatureCollection `json:"past_paths"`
	UncontrolledPaths       *geojson.FeatureCollection `json:"uncontrolled_paths"`
	BeforeControlPaths      *geojson.FeatureCollection `json:"before_control_paths"`
	AfterControlPaths       *geojson.FeatureCollection `json:"after_control_paths"`
	UncontrolledEscapeNodes *geojson.FeatureCollection `json:"uncontrolled_escape_nodes"`
	ControlledEscapeNodes   *geojson.FeatureCollection `json:"controlled_escape_nodes"`
}

// Response is the planner's outbound contract.
type Response struct {
	Origin       [2]float64                 `json:"origin"`
	Vehicles     []VehicleStatus            `json:"vehicles"`
	Assignments  *geojson.FeatureCollection `json:"assignments"`
	Destinations *geojson.FeatureCollection `json:"destinations"`
	PlanGeometry PlanGeometryResponse       `json:"plan_geometry"`
	Stats        Stats                      `json:"stats"`
}
