package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medintra/conges-engine/config"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	// GIVEN: No config file
	// WHEN: Loading
	// THEN: The stock defaults apply

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "conges.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Policy.CriticalRemainingDays)
	assert.Equal(t, float64(80), cfg.Policy.CriticalUsagePercent)
	assert.Equal(t, float64(60), cfg.Policy.WarningUsagePercent)
	assert.Equal(t, 2, cfg.Policy.InactivityMonths)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// GIVEN: A yaml file overriding the port and one threshold
	// WHEN: Loading it
	// THEN: Overridden keys change, the rest keep their defaults

	path := filepath.Join(t.TempDir(), "conges.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  port: 9090\npolicy:\n  critical_remaining_days: 3\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Policy.CriticalRemainingDays)
	assert.Equal(t, "conges.db", cfg.Database.Path)
}

func TestPolicyConfig_Thresholds(t *testing.T) {
	p := config.PolicyConfig{
		CriticalRemainingDays: 7,
		CriticalUsagePercent:  75,
		WarningUsagePercent:   55,
		InactivityMonths:      3,
	}

	th := p.Thresholds()

	assert.Equal(t, 7, th.CriticalRemainingDays)
	assert.True(t, th.CriticalUsagePercent.Equal(decimal.NewFromInt(75)))
	assert.True(t, th.WarningUsagePercent.Equal(decimal.NewFromInt(55)))
	assert.Equal(t, 3, th.InactivityMonths)
}
