package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-commandmesh/pkg/validation"
)

// Default configuration values
const (
	DefaultTargetWindowSeconds = 300
	DefaultDriftWarnThreshold  = 1.5
	DefaultDriftAcceptLimit    = 1.0
	DefaultWorkers             = 4
	DefaultScanBudget          = 250_000
	DefaultScanWorkers         = 1

	// MaxWorkers bounds Workers and ScanWorkers
	MaxWorkers = 256

	// MaxDriftThreshold bounds both drift thresholds. A summed drift of 4
	// already drives the decision score to zero.
	MaxDriftThreshold = 4.0
)

// Config tunes a Pipeline
type Config struct {
	// TargetWindowSeconds offsets the envelope's EmittedAt from run completion.
	// Zero emits at completion; it is never replaced by the default.
	TargetWindowSeconds int `yaml:"target_window_seconds" json:"target_window_seconds"`

	// DriftWarnThreshold is the summed drift above which a warning is raised
	DriftWarnThreshold float64 `yaml:"drift_warn_threshold" json:"drift_warn_threshold"`

	// DriftAcceptLimit is the summed drift at or above which an intent is rejected
	DriftAcceptLimit float64 `yaml:"drift_accept_limit" json:"drift_accept_limit"`

	// Workers bounds how many snapshots RunBatch processes at once
	Workers int `yaml:"workers" json:"workers"`

	// ScanBudget caps node visits in the reachability scan (0 = unlimited)
	ScanBudget int `yaml:"scan_budget" json:"scan_budget"`

	// ScanWorkers > 1 runs the reachability scan concurrently
	ScanWorkers int `yaml:"scan_workers" json:"scan_workers"`
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		TargetWindowSeconds: DefaultTargetWindowSeconds,
		DriftWarnThreshold:  DefaultDriftWarnThreshold,
		DriftAcceptLimit:    DefaultDriftAcceptLimit,
		Workers:             DefaultWorkers,
		ScanBudget:          DefaultScanBudget,
		ScanWorkers:         DefaultScanWorkers,
	}
}

// WithDefaults fills zero values from DefaultConfig. TargetWindowSeconds and
// ScanBudget are left alone since zero is meaningful for both.
func (c Config) WithDefaults() Config {
	c.DriftWarnThreshold = validation.DefaultOr(c.DriftWarnThreshold, DefaultDriftWarnThreshold)
	c.DriftAcceptLimit = validation.DefaultOr(c.DriftAcceptLimit, DefaultDriftAcceptLimit)
	c.Workers = validation.DefaultOr(c.Workers, DefaultWorkers)
	c.ScanWorkers = validation.DefaultOr(c.ScanWorkers, DefaultScanWorkers)
	return c
}

// Validate checks every field and reports all problems at once
func (c Config) Validate() error {
	return validation.NewConfigValidator("pipeline").
		NonNegative("target_window_seconds", c.TargetWindowSeconds).
		PositiveFloat("drift_warn_threshold", c.DriftWarnThreshold).
		PositiveFloat("drift_accept_limit", c.DriftAcceptLimit).
		When(c.DriftWarnThreshold > 0, func(cv *validation.ConfigValidator) {
			cv.RangeFloat("drift_warn_threshold", c.DriftWarnThreshold, 0, MaxDriftThreshold)
		}).
		When(c.DriftAcceptLimit > 0, func(cv *validation.ConfigValidator) {
			cv.RangeFloat("drift_accept_limit", c.DriftAcceptLimit, 0, MaxDriftThreshold)
		}).
		RangeInt("workers", c.Workers, 1, MaxWorkers).
		NonNegative("scan_budget", c.ScanBudget).
		RangeInt("scan_workers", c.ScanWorkers, 1, MaxWorkers).
		Validate()
}

// LoadConfig reads a YAML config file over DefaultConfig, so missing fields
// keep their defaults while an explicit zero target window or scan budget is
// kept as written. An empty path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	config = config.WithDefaults()
	if err := validation.ValidateConfig(config); err != nil {
		return Config{}, err
	}
	return config, nil
}
