// Package config defines the tunable constants of the interception planner
// and a deterministic, functional-options builder for them: an immutable
// struct assembled via With... closures, validated once after the last
// option is applied.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by Config.Validate.
var (
	ErrBadMaxSpeed          = errors.New("config: MaxSpeedMPerSecond must be > 0")
	ErrBadTimeMargin        = errors.New("config: DefaultTimeMargin must be >= 0")
	ErrBadScoreLastEdge     = errors.New("config: ScoreLastEdgeFactor must be >= 0")
	ErrBadScoreTimeFactor   = errors.New("config: ScoreTimeFactor must be >= 0")
	ErrBadScoreTimeConstant = errors.New("config: ScoreTimeConstant must be > 0")
	ErrBadMaxTimeToSolve    = errors.New("config: MaxTimeToSolve must be > 0")
	ErrBadIsochroneFloor    = errors.New("config: MinIsochroneTimeFloor must be >= 0")
	ErrBadPolygonRatio      = errors.New("config: BalancedPolygonRatioThreshold must be > 1")
	ErrBadReachableRatio    = errors.New("config: MinReachableNodesRatioForAssignable must be in [0,1]")
)

// Config holds every named constant from the planner's external interface
// contract. Values are immutable after Default/New returns; callers that
// need a different tuning build a fresh Config.
type Config struct {
	// MaxSpeedMPerSecond is the pre-filter threshold: a vehicle whose
	// great-circle distance to the LKP divided by the elapsed time is below
	// this speed lies within the adversary's possible reach and is excluded.
	MaxSpeedMPerSecond float64

	// DefaultTimeMargin is the pursuer safety buffer (seconds) applied when
	// a request does not specify its own time_margin.
	DefaultTimeMargin float64

	// ScoreLastEdgeFactor multiplies the highway rank of an escape path's
	// final edge to seed that path's base score.
	ScoreLastEdgeFactor float64

	// ScoreTimeFactor scales the exponential time-decay bonus added to a
	// node's score contribution.
	ScoreTimeFactor float64

	// ScoreTimeConstant is the decay constant (seconds) of that bonus.
	ScoreTimeConstant float64

	// MaxTimeToSolve is the optimizer's wall-clock search budget.
	MaxTimeToSolve time.Duration

	// MinIsochroneTimeFloor is the minimum advance (seconds) of the LKP
	// along its own edge when constructing the isochrone polygon.
	MinIsochroneTimeFloor float64

	// BalancedPolygonRatioThreshold is the major/minor PCA axis ratio above
	// which the balanced-polygon construction injects synthetic points to
	// reduce elongation.
	BalancedPolygonRatioThreshold float64

	// MinReachableNodesRatioForAssignable is the minimum fraction of
	// escape-model candidate nodes a vehicle must have a known travel
	// time to, checked after routing, to stay assignable. A vehicle boxed in by
	// the road network, with routes to only a sliver of the candidate
	// set, is marked Unavailable instead of being handed a near-useless
	// assignment.
	MinReachableNodesRatioForAssignable float64
}

// Option configures a Config before it is frozen by New.
type Option func(*Config)

// WithMaxSpeedMPerSecond overrides MaxSpeedMPerSecond.
func WithMaxSpeedMPerSecond(v float64) Option {
	return func(c *Config) { c.MaxSpeedMPerSecond = v }
}

// WithDefaultTimeMargin overrides DefaultTimeMargin.
func WithDefaultTimeMargin(v float64) Option {
	return func(c *Config) { c.DefaultTimeMargin = v }
}

// WithScoreLastEdgeFactor overrides ScoreLastEdgeFactor.
func WithScoreLastEdgeFactor(v float64) Option {
	return func(c *Config) { c.ScoreLastEdgeFactor = v }
}

// WithScoreTimeFactor overrides ScoreTimeFactor.
func WithScoreTimeFactor(v float64) Option {
	return func(c *Config) { c.ScoreTimeFactor = v }
}

// WithScoreTimeConstant overrides ScoreTimeConstant.
func WithScoreTimeConstant(v float64) Option {
	return func(c *Config) { c.ScoreTimeConstant = v }
}

// WithMaxTimeToSolve overrides MaxTimeToSolve.
func WithMaxTimeToSolve(d time.Duration) Option {
	return func(c *Config) { c.MaxTimeToSolve = d }
}

// WithMinIsochroneTimeFloor overrides MinIsochroneTimeFloor.
func WithMinIsochroneTimeFloor(v float64) Option {
	return func(c *Config) { c.MinIsochroneTimeFloor = v }
}

// WithBalancedPolygonRatioThreshold overrides BalancedPolygonRatioThreshold.
func WithBalancedPolygonRatioThreshold(v float64) Option {
	return func(c *Config) { c.BalancedPolygonRatioThreshold = v }
}

// WithMinReachableNodesRatioForAssignable overrides
// MinReachableNodesRatioForAssignable.
func WithMinReachableNodesRatioForAssignable(v float64) Option {
	return func(c *Config) { c.MinReachableNodesRatioForAssignable = v }
}

// Default returns the out-of-the-box configuration: 80 km/h pre-filter
// speed, 30s time margin, last-edge factor 80, time factor 480, time
// constant 900s, 30s solver budget, 10s isochrone floor, 1.8 polygon
// ratio threshold, 0.5 minimum reachable-nodes ratio.
func Default() Config {
	const kmhToMs = 1.0 / 3.6

	return Config{
		MaxSpeedMPerSecond:                  80 * kmhToMs,
		DefaultTimeMargin:                   30,
		ScoreLastEdgeFactor:                 80,
		ScoreTimeFactor:                     480,
		ScoreTimeConstant:                   900,
		MaxTimeToSolve:                      30 * time.Second,
		MinIsochroneTimeFloor:               10,
		BalancedPolygonRatioThreshold:       1.8,
		MinReachableNodesRatioForAssignable: 0.5,
	}
}

// New builds a Config starting from Default() and applying opts in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Validate reports the first constraint violation found, or nil.
// Defaults always validate; this guards against misconfigured overrides
// turning into silent, nonsensical plans, left for the caller to
// classify via internal/errs as an InvalidInput.
func (c Config) Validate() error {
	switch {
	case c.MaxSpeedMPerSecond <= 0:
		return ErrBadMaxSpeed
	case c.DefaultTimeMargin < 0:
		return ErrBadTimeMargin
	case c.ScoreLastEdgeFactor < 0:
		return ErrBadScoreLastEdge
	case c.ScoreTimeFactor < 0:
		return ErrBadScoreTimeFactor
	case c.ScoreTimeConstant <= 0:
		return ErrBadScoreTimeConstant
	case c.MaxTimeToSolve <= 0:
		return ErrBadMaxTimeToSolve
	case c.MinIsochroneTimeFloor < 0:
		return ErrBadIsochroneFloor
	case c.BalancedPolygonRatioThreshold <= 1:
		return ErrBadPolygonRatio
	case c.MinReachableNodesRatioForAssignable < 0 || c.MinReachableNodesRatioForAssignable > 1:
		return ErrBadReachableRatio
	default:
		return nil
	}
}

// String renders a compact diagnostic summary.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{MaxSpeed=%.3fm/s TimeMargin=%.0fs LastEdge=%.0f TimeFactor=%.0f TimeConst=%.0fs Solve<=%s IsoFloor=%.0fs PolyRatio=%.2f ReachableRatio=%.2f}",
		c.MaxSpeedMPerSecond, c.DefaultTimeMargin, c.ScoreLastEdgeFactor, c.ScoreTimeFactor,
		c.ScoreTimeConstant, c.MaxTimeToSolve, c.MinIsochroneTimeFloor, c.BalancedPolygonRatioThreshold,
		c.MinReachableNodesRatioForAssignable,
	)
}
