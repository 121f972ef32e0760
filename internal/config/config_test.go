package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "input-datasets/un-population-dataset-1.xlsx", cfg.Inputs.PopulationA)
	assert.Equal(t, "input-datasets/un-m49.xlsx", cfg.Inputs.Metadata)
	assert.Equal(t, "Population annual rate of increase (percent)", cfg.Columns.GrowthRate)
	assert.Equal(t, 80.0, cfg.Columns.LifeExpectancyThreshold)
	assert.True(t, cfg.Outputs.Charts)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("UNPOP_INPUTS_METADATA", "/data/m49.xlsx")
	t.Setenv("UNPOP_LOGGING_LEVEL", "debug")
	t.Setenv("UNPOP_OUTPUTS_CHARTS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/m49.xlsx", cfg.Inputs.Metadata)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Outputs.Charts)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unpop.yaml")
	doc := `
outputs:
  dir: /tmp/unpop-out
columns:
  life_expectancy_threshold: 75.5
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/unpop-out", cfg.Outputs.Dir)
	assert.Equal(t, 75.5, cfg.Columns.LifeExpectancyThreshold)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, "output-datasets/full-dataset.csv", cfg.Outputs.CSV)
	assert.Equal(t, "/tmp/unpop-out/output-datasets/full-dataset.csv", cfg.OutputPath(cfg.Outputs.CSV))
}

func TestValidateRejectsInvalid(t *testing.T) {
	t.Setenv("UNPOP_LOGGING_LEVEL", "verbose")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.Logging.Level = "warn"
	assert.NoError(t, cfg.Validate())
}

func TestFileOverridesEnv(t *testing.T) {
	t.Setenv("UNPOP_LOGGING_FORMAT", "text")
	path := filepath.Join(t.TempDir(), "unpop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	cfg := &Config{Outputs: OutputsConfig{Dir: "out"}}

	assert.Equal(t, filepath.Join("out", "plots", "a.png"), cfg.OutputPath("plots/a.png"))
	assert.Equal(t, "/abs/a.png", cfg.OutputPath("/abs/a.png"))
}
