// Package config loads and validates transit settings from viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/tax"
)

// EnvPrefix is prepended to every environment override, e.g.
// TRANSIT_DATABASE_PATH for database.path.
const EnvPrefix = "TRANSIT"

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/transit/transit.db"

// Settings is the validated application configuration.
type Settings struct {
	DatabasePath  string
	LogLevel      string
	LogFormat     string
	Theme         string
	Regime        tax.Regime
	Scope         analysis.Scope
	NHFRate       float64
	TopCategories int
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("tax.regime", string(tax.RegimeCurrent))
	v.SetDefault("tax.nhf_rate", model.DefaultNHFRate)
	v.SetDefault("report.scope", string(analysis.ScopeMonthly))
	v.SetDefault("report.top_categories", analysis.DefaultTopN)
	v.SetDefault("dashboard.theme", "default")
}

// BindEnv makes every key overridable through TRANSIT_ environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads and validates the settings held by v. Invalid values are
// reported with ErrInvalidConfig.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath:  ExpandPath(v.GetString("database.path")),
		LogLevel:      v.GetString("logging.level"),
		LogFormat:     v.GetString("logging.format"),
		Theme:         v.GetString("dashboard.theme"),
		NHFRate:       v.GetFloat64("tax.nhf_rate"),
		TopCategories: v.GetInt("report.top_categories"),
	}

	if s.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return nil, err
	}

	switch s.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, s.LogFormat)
	}

	regime, err := tax.ParseRegime(v.GetString("tax.regime"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	s.Regime = regime

	scope, err := analysis.ParseScope(v.GetString("report.scope"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	s.Scope = scope

	if s.NHFRate < 0 || s.NHFRate > 100 {
		return nil, fmt.Errorf("%w: tax.nhf_rate must be between 0 and 100, got %v", common.ErrInvalidConfig, s.NHFRate)
	}
	if s.TopCategories < 2 {
		return nil, fmt.Errorf("%w: report.top_categories must be at least 2, got %d", common.ErrInvalidConfig, s.TopCategories)
	}

	return s, nil
}
