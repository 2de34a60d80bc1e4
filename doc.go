// Package intercept plans how to deploy pursuit vehicles against an
// adversary fleeing across a road network from a last-known position
// (LKP).
//
// What is intercept?
//
//	A deterministic, CPU-bound pipeline that turns a road graph, a
//	sighting, and a fleet of vehicles into a vehicle-to-node assignment
//	that blocks the most valuable escape routes in time:
//
//	  • roadgraph   — directed multigraph of road segments, spatial
//	                  snapping, polyline stitching
//	  • router      — single-source Dijkstra from a mid-edge position
//	  • escapemodel — rooted tree of escape routes, scored and
//	                  classified against the adversary's isochrone
//	  • optimizer   — vehicle x candidate assignment under feasibility,
//	                  exclusivity, and path-disjointness constraints
//	  • plangeometry — isochrone polygon and categorized path geometry
//	  • planner     — the single Request-in/Response-out entry point
//	                  tying the above together
//
// Why this layering?
//
//   - Deterministic    — fixed tie-breaks, no randomness, no wall-clock
//     dependence outside the optimizer's bounded search
//   - Read-mostly core — a RoadGraph is built once per process and
//     shared read-only across concurrent requests
//   - Pure Go          — spatial/geometry work rides on paulmach/orb,
//     nearest-neighbor lookups on tidwall/rtree; no cgo, no solver
//     runtime dependency
//
// See cmd/planctl for a minimal CLI that reads a planner request as
// JSON and prints the planner response.
package intercept
