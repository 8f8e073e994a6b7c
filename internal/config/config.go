// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/equityforge/captable/internal/captable"
)

type Config struct {
	OutputDir             string             `mapstructure:"output_dir"`
	LogFile               string             `mapstructure:"log_file"`
	DebugLogging          bool               `mapstructure:"debug_logging"`
	Workers               int                `mapstructure:"workers"`
	PostgresURL           string             `mapstructure:"postgres_url"`
	ScenarioMultipliers   []float64          `mapstructure:"scenario_multipliers"`
	TaxParams             captable.TaxParams `mapstructure:"tax"`
	PersistAnalyses       bool               `mapstructure:"persist_analyses"`
	ExportFormat          string             `mapstructure:"export_format"`
	SensitivityRoundIndex int                `mapstructure:"sensitivity_round_index"`
}

const (
	DefaultOutputDir = "exports"
	DefaultLogFile   = "captable.log"
	DefaultWorkers   = 4
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	taxDefaults := captable.DefaultTaxParams()
	defaults := map[string]interface{}{
		"output_dir":                 DefaultOutputDir,
		"log_file":                   DefaultLogFile,
		"workers":                    DefaultWorkers,
		"export_format":              "csv",
		"sensitivity_round_index":    0,
		"tax.seis_cap":               taxDefaults.SEISCap,
		"tax.seis_rate":              taxDefaults.SEISRate,
		"tax.eis_cap":                taxDefaults.EISCap,
		"tax.eis_rate":               taxDefaults.EISRate,
		"tax.standard_cgt_rate":      taxDefaults.StandardCGTRate,
		"tax.concessionary_cgt_rate": taxDefaults.ConcessionaryCGT,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	switch cfg.ExportFormat {
	case "csv", "json":
	default:
		return errors.New("export_format must be csv or json")
	}
	for _, m := range cfg.ScenarioMultipliers {
		if m <= 0 {
			return errors.New("scenario multipliers must be positive")
		}
	}
	if cfg.TaxParams.SEISRate < 0 || cfg.TaxParams.SEISRate > 1 ||
		cfg.TaxParams.EISRate < 0 || cfg.TaxParams.EISRate > 1 {
		return errors.New("tax relief rates must be between 0 and 1")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("CAPTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envURL := v.GetString("POSTGRES_URL"); envURL != "" {
		cfg.PostgresURL = envURL
	}
	if envDir := v.GetString("OUTPUT_DIR"); envDir != "" {
		cfg.OutputDir = envDir
	}
}

// Scenarios converts the configured multipliers into engine scenarios,
// falling back to the standard sweep when none are configured.
func (c *Config) Scenarios() []captable.SensitivityScenario {
	if len(c.ScenarioMultipliers) == 0 {
		return captable.DefaultSensitivityScenarios()
	}
	scenarios := make([]captable.SensitivityScenario, 0, len(c.ScenarioMultipliers))
	for _, m := range c.ScenarioMultipliers {
		label := "Base"
		switch {
		case m < 1:
			label = fmt.Sprintf("-%g%%", (1-m)*100)
		case m > 1:
			label = fmt.Sprintf("+%g%%", (m-1)*100)
		}
		scenarios = append(scenarios, captable.SensitivityScenario{Label: label, Multiplier: m})
	}
	return scenarios
}
