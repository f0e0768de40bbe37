package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 256, cfg.NumInputPatterns)
	assert.Equal(t, 19, cfg.LengthLowerBound)
	assert.Equal(t, 38, cfg.LengthUpperBound)
	assert.Equal(t, 6, cfg.DepthLowerBound)
	assert.Equal(t, 28, cfg.BranchingFactor)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"net size too small", func(c *Config) { c.NetSize = 1 }},
		{"net size too large", func(c *Config) { c.NetSize = 33 }},
		{"zero beam", func(c *Config) { c.MaxBeamSize = 0 }},
		{"zero scoring tests", func(c *Config) { c.ScoringTests = 0 }},
		{"zero elites", func(c *Config) { c.Elites = 0 }},
		{"elites above tests", func(c *Config) { c.Elites = c.ScoringTests + 1 }},
		{"negative depth weight", func(c *Config) { c.DepthWeight = -0.1 }},
		{"depth weight above one", func(c *Config) { c.DepthWeight = 1.5 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var ce *Error
			assert.ErrorAs(t, err, &ce)
		})
	}
}

// TestSymmetryDefaultsToNetSizeParity checks that without an explicit
// -s/-S choice, the symmetry heuristic is enabled exactly for even net
// sizes.
func TestSymmetryDefaultsToNetSizeParity(t *testing.T) {
	even := New()
	even.NetSize = 6
	require.NoError(t, even.Validate())
	assert.True(t, even.UseSymmetry)

	odd := New()
	odd.NetSize = 7
	require.NoError(t, odd.Validate())
	assert.False(t, odd.UseSymmetry)
}

func TestSetSymmetryOverridesParityDefault(t *testing.T) {
	cfg := New()
	cfg.NetSize = 7
	cfg.SetSymmetry(true)
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.UseSymmetry)

	cfg = New()
	cfg.NetSize = 6
	cfg.SetSymmetry(false)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.UseSymmetry)
}
