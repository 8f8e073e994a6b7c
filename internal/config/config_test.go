// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfigJSON = `{
    "output_dir": "out",
    "log_file": "run.log",
    "debug_logging": true,
    "workers": 2,
    "scenario_multipliers": [0.8, 1.0, 1.25],
    "export_format": "json",
    "tax": {
        "seis_cap": 200000,
        "seis_rate": 0.5
    }
}`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, validConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "json", cfg.ExportFormat)
	assert.Equal(t, []float64{0.8, 1.0, 1.25}, cfg.ScenarioMultipliers)
	assert.InDelta(t, 200_000, cfg.TaxParams.SEISCap, 1e-9)
	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 0.3, cfg.TaxParams.EISRate, 1e-9)
	assert.InDelta(t, 0.20, cfg.TaxParams.StandardCGTRate, 1e-9)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, "csv", cfg.ExportFormat)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad export format", `{"export_format": "xml"}`},
		{"zero workers", `{"workers": 0}`},
		{"negative multiplier", `{"scenario_multipliers": [-0.5]}`},
		{"rate above one", `{"tax": {"seis_rate": 1.5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestScenariosFromMultipliers(t *testing.T) {
	cfg := &Config{ScenarioMultipliers: []float64{0.8, 1.0, 1.25}}
	scenarios := cfg.Scenarios()
	require.Len(t, scenarios, 3)
	assert.Equal(t, "-20%", scenarios[0].Label)
	assert.Equal(t, "Base", scenarios[1].Label)
	assert.Equal(t, "+25%", scenarios[2].Label)
}

func TestScenariosDefaultSweep(t *testing.T) {
	cfg := &Config{}
	assert.Len(t, cfg.Scenarios(), 5)
}
