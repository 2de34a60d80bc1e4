package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentrygrid/intercept/config"
)

func TestDefault_Validates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestNew_AppliesOptionsOverDefaults(t *testing.T) {
	cfg := config.New(
		config.WithMaxSpeedMPerSecond(10),
		config.WithMaxTimeToSolve(5*time.Second),
	)

	require.Equal(t, 10.0, cfg.MaxSpeedMPerSecond)
	require.Equal(t, 5*time.Second, cfg.MaxTimeToSolve)
	// Untouched fields keep their default values.
	require.Equal(t, config.Default().DefaultTimeMargin, cfg.DefaultTimeMargin)
}

func TestValidate_RejectsEachBadField(t *testing.T) {
	cases := []struct {
		name string
		opt  config.Option
		want error
	}{
		{"max speed", config.WithMaxSpeedMPerSecond(0), config.ErrBadMaxSpeed},
		{"time margin", config.WithDefaultTimeMargin(-1), config.ErrBadTimeMargin},
		{"last edge factor", config.WithScoreLastEdgeFactor(-1), config.ErrBadScoreLastEdge},
		{"time factor", config.WithScoreTimeFactor(-1), config.ErrBadScoreTimeFactor},
		{"time constant", config.WithScoreTimeConstant(0), config.ErrBadScoreTimeConstant},
		{"max time to solve", config.WithMaxTimeToSolve(0), config.ErrBadMaxTimeToSolve},
		{"isochrone floor", config.WithMinIsochroneTimeFloor(-1), config.ErrBadIsochroneFloor},
		{"polygon ratio", config.WithBalancedPolygonRatioThreshold(1), config.ErrBadPolygonRatio},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New(tc.opt)
			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestString_IncludesKeyFields(t *testing.T) {
	cfg := config.Default()
	s := cfg.String()
	require.Contains(t, s, "Config{")
	require.Contains(t, s, "MaxSpeed=")
}
