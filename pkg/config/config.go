// Package config provides configuration loading and management for fiberodf.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"fiberodf/pkg/harmonics"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// ODF estimation parameters
	Odf struct {
		// BlockSide is the edge length in voxels of the cubic super-voxels
		BlockSide int `yaml:"blockSide"`

		// MaxDegree is the even truncation degree of the harmonic series
		MaxDegree int `yaml:"maxDegree"`

		// OccupancyThreshold gates blocks by their clamped-to-reference volume ratio
		OccupancyThreshold float64 `yaml:"occupancyThreshold"`

		// ValidityThreshold gates blocks by their fraction of nonzero vectors
		ValidityThreshold float64 `yaml:"validityThreshold"`

		// Workers specifies how many goroutines estimate blocks in parallel
		Workers int `yaml:"workers"`
	} `yaml:"odf"`

	// Anisotropy metric parameters
	Metrics struct {
		// Directions is the number of sphere samples used to reconstruct each ODF
		Directions int `yaml:"directions"`
	} `yaml:"metrics"`

	// Output parameters
	Output struct {
		// Directory is where result volumes are written
		Directory string `yaml:"directory"`

		// SaveNifti additionally writes the coefficient volume as NIfTI-1
		SaveNifti bool `yaml:"saveNifti"`

		// SaveAnisotropy writes a generalized fractional anisotropy map
		SaveAnisotropy bool `yaml:"saveAnisotropy"`

		// SavePreviews writes per-slice PNG previews of the input and background
		SavePreviews bool `yaml:"savePreviews"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default estimation parameters
	cfg.Odf.BlockSide = 16
	cfg.Odf.MaxDegree = 6
	cfg.Odf.OccupancyThreshold = 0.5
	cfg.Odf.ValidityThreshold = -1 // accept any nonzero fraction by default
	cfg.Odf.Workers = runtime.NumCPU()

	// Set default metric parameters
	cfg.Metrics.Directions = 100

	// Set default output parameters
	cfg.Output.Directory = "odf_out"
	cfg.Output.SaveNifti = false
	cfg.Output.SaveAnisotropy = false
	cfg.Output.SavePreviews = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks the numeric fields against the ranges the estimation
// pipeline accepts. The gate thresholds are not checked: every float value
// selects a defined gating behavior.
func (cfg *Config) Validate() error {
	if cfg.Odf.BlockSide < 1 {
		return fmt.Errorf("odf.blockSide %d: must be positive", cfg.Odf.BlockSide)
	}
	if err := harmonics.CheckDegree(cfg.Odf.MaxDegree); err != nil {
		return fmt.Errorf("odf.maxDegree: %w", err)
	}
	if cfg.Metrics.Directions < 2 {
		return fmt.Errorf("metrics.directions %d: at least 2 sphere samples are required", cfg.Metrics.Directions)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Check numeric ranges
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
