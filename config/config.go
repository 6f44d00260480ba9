// Package config loads application configuration with viper. The policy
// section carries the classifier thresholds - the only tunable business
// rule in the engine - so they live in configuration, not in code.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/medintra/conges-engine/conges"
)

// Config represents application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents the HTTP server settings.
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig represents the SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// PolicyConfig represents the admin-status classifier thresholds.
type PolicyConfig struct {
	CriticalRemainingDays int     `mapstructure:"critical_remaining_days"`
	CriticalUsagePercent  float64 `mapstructure:"critical_usage_percent"`
	WarningUsagePercent   float64 `mapstructure:"warning_usage_percent"`
	InactivityMonths      int     `mapstructure:"inactivity_months"`
}

// LogConfig represents logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Thresholds converts the policy section into the engine's value type.
func (p PolicyConfig) Thresholds() conges.Thresholds {
	return conges.Thresholds{
		CriticalRemainingDays: p.CriticalRemainingDays,
		CriticalUsagePercent:  decimal.NewFromFloat(p.CriticalUsagePercent),
		WarningUsagePercent:   decimal.NewFromFloat(p.WarningUsagePercent),
		InactivityMonths:      p.InactivityMonths,
	}
}

// Load reads configuration from the given file path. A missing file is
// not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("database.path", "conges.db")
	v.SetDefault("policy.critical_remaining_days", 5)
	v.SetDefault("policy.critical_usage_percent", 80)
	v.SetDefault("policy.warning_usage_percent", 60)
	v.SetDefault("policy.inactivity_months", 2)
	v.SetDefault("log.level", "info")

	// CONGES_SERVER_PORT, CONGES_DATABASE_PATH, ...
	v.SetEnvPrefix("CONGES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
