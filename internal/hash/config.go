package hash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fallback defaults for tuning fields left unset.
const (
	// DefaultMaxDistanceKm is the epicentral distance limit for usable
	// polarity observations.
	DefaultMaxDistanceKm = 120.0
	// DefaultUncertaintyMeters substitutes for missing origin location
	// errors, matching the HASH convention of 1000 m.
	DefaultUncertaintyMeters = 1000.0
	// DefaultNumTrials is the number of hypocenter perturbation trials the
	// solver runs per station; column 0 holds the unperturbed geometry.
	DefaultNumTrials = 30
	// DefaultAuthor is stamped on exported focal mechanisms.
	DefaultAuthor = "hashgo"
)

// TuningConfig represents the marshalling tuning parameters. Fields are
// pointers so a partial JSON config can override some values while the
// Get* accessors fall back to defaults for the rest.
type TuningConfig struct {
	MaxDistanceKm       *float64 `json:"max_distance_km,omitempty"`
	DefaultUncertaintyM *float64 `json:"default_uncertainty_m,omitempty"`
	NumTrials           *int     `json:"num_trials,omitempty"`
	Author              *string  `json:"author,omitempty"`
	IDPrefix            *string  `json:"id_prefix,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil,
// meaning every accessor reports its built-in default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MaxDistanceKm != nil && *c.MaxDistanceKm <= 0 {
		return fmt.Errorf("max_distance_km must be positive, got %f", *c.MaxDistanceKm)
	}
	if c.DefaultUncertaintyM != nil && *c.DefaultUncertaintyM < 0 {
		return fmt.Errorf("default_uncertainty_m must be non-negative, got %f", *c.DefaultUncertaintyM)
	}
	if c.NumTrials != nil && *c.NumTrials < 1 {
		return fmt.Errorf("num_trials must be at least 1, got %d", *c.NumTrials)
	}
	return nil
}

// GetMaxDistanceKm returns the distance filter limit in kilometers.
func (c *TuningConfig) GetMaxDistanceKm() float64 {
	if c != nil && c.MaxDistanceKm != nil {
		return *c.MaxDistanceKm
	}
	return DefaultMaxDistanceKm
}

// GetDefaultUncertaintyM returns the substitute location error in meters.
func (c *TuningConfig) GetDefaultUncertaintyM() float64 {
	if c != nil && c.DefaultUncertaintyM != nil {
		return *c.DefaultUncertaintyM
	}
	return DefaultUncertaintyMeters
}

// GetNumTrials returns the per-station trial column count.
func (c *TuningConfig) GetNumTrials() int {
	if c != nil && c.NumTrials != nil {
		return *c.NumTrials
	}
	return DefaultNumTrials
}

// GetAuthor returns the author stamped on exported mechanisms.
func (c *TuningConfig) GetAuthor() string {
	if c != nil && c.Author != nil {
		return *c.Author
	}
	return DefaultAuthor
}

// GetIDPrefix returns the authority prefix for deterministic resource IDs.
// Empty means DefaultPrefix.
func (c *TuningConfig) GetIDPrefix() string {
	if c != nil && c.IDPrefix != nil {
		return *c.IDPrefix
	}
	return ""
}
