package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "UNPOP"

// Config represents the complete application configuration
type Config struct {
	Inputs  InputsConfig  `yaml:"inputs" envconfig:"INPUTS"`
	Outputs OutputsConfig `yaml:"outputs" envconfig:"OUTPUTS"`
	Columns ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputsConfig locates the three source workbooks.
type InputsConfig struct {
	PopulationA string `yaml:"population_a" envconfig:"POPULATION_A" default:"input-datasets/un-population-dataset-1.xlsx" validate:"required"`
	PopulationB string `yaml:"population_b" envconfig:"POPULATION_B" default:"input-datasets/un-population-dataset-2.xlsx" validate:"required"`
	Metadata    string `yaml:"metadata" envconfig:"METADATA" default:"input-datasets/un-m49.xlsx" validate:"required"`
}

// OutputsConfig contains export targets. Relative paths are resolved against Dir.
type OutputsConfig struct {
	Dir                 string `yaml:"dir" envconfig:"DIR" default:"."`
	XLSX                string `yaml:"xlsx" envconfig:"XLSX" default:"output-datasets/full-dataset.xlsx" validate:"required"`
	CSV                 string `yaml:"csv" envconfig:"CSV" default:"output-datasets/full-dataset.csv" validate:"required"`
	LifeExpectancyChart string `yaml:"life_expectancy_chart" envconfig:"LIFE_EXPECTANCY_CHART" default:"plots/life-expectancy-over-time.png" validate:"required"`
	FertilityChart      string `yaml:"fertility_chart" envconfig:"FERTILITY_CHART" default:"plots/total-fertility-rate.png" validate:"required"`
	Charts              bool   `yaml:"charts" envconfig:"CHARTS" default:"true"`
}

// ColumnsConfig names the series the reports and charts are built on.
type ColumnsConfig struct {
	LifeExpectancy          string  `yaml:"life_expectancy" envconfig:"LIFE_EXPECTANCY" default:"Life expectancy at birth for both sexes (years)" validate:"required"`
	Fertility               string  `yaml:"fertility" envconfig:"FERTILITY" default:"Total fertility rate (children per women)" validate:"required"`
	GrowthRate              string  `yaml:"growth_rate" envconfig:"GROWTH_RATE" default:"Population annual rate of increase (percent)" validate:"required"`
	LifeExpectancyCentered  string  `yaml:"life_expectancy_centered" envconfig:"LIFE_EXPECTANCY_CENTERED" default:"Life expectancy difference (years) from mean" validate:"required"`
	FertilityCentered       string  `yaml:"fertility_centered" envconfig:"FERTILITY_CENTERED" default:"Total fertility difference (children per woman) from mean" validate:"required"`
	LifeExpectancyThreshold float64 `yaml:"life_expectancy_threshold" envconfig:"LIFE_EXPECTANCY_THRESHOLD" default:"80"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load builds the configuration from struct defaults and UNPOP_* environment
// variables, then applies the YAML file at path on top when path is not empty.
// The result is not validated; callers apply their overrides and then call
// Validate.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}
	return &cfg, nil
}

// loadFromFile overlays the YAML document at path onto cfg. Keys absent from
// the file keep their current value.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// OutputPath resolves an output path against Outputs.Dir.
func (c *Config) OutputPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Outputs.Dir, p)
}
