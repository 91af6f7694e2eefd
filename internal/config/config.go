// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultLogLevel           = "info"
	defaultAddr               = ":8080"
	defaultDataDir            = "./data"
	defaultWorkerCount        = 4
	defaultAggregationTimeout = 30 * time.Second
	defaultMinMinutes         = 30.0
	defaultDefaultMinutes     = 90.0
	defaultAmplificationPower = 10.0
	defaultMinRolePercentage  = 5.0
	defaultCacheCapacity      = 256
)

// Config holds the full service configuration.
type Config struct {
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address for metrics and health endpoints.
	Addr string `koanf:"addr"`

	// DataDir is the directory holding per-match event CSV files.
	DataDir string `koanf:"data_dir"`

	// WorkerCount bounds the parallel aggregation pool.
	WorkerCount int `koanf:"worker_count"`

	// AggregationTimeout is the per-task deadline for pooled aggregations.
	AggregationTimeout time.Duration `koanf:"aggregation_timeout"`

	// MinMinutes floors the minutes denominator in per-90 normalization.
	MinMinutes float64 `koanf:"min_minutes"`

	// DefaultMinutes substitutes for missing minutes-played data.
	DefaultMinutes float64 `koanf:"default_minutes"`

	// AmplificationPower sharpens role affinity contrast.
	AmplificationPower float64 `koanf:"amplification_power"`

	// MinRolePercentage drops roles below this share after amplification.
	MinRolePercentage float64 `koanf:"min_role_percentage"`

	// CacheCapacity bounds the population table cache.
	CacheCapacity int `koanf:"cache_capacity"`

	// AggregationsFile optionally points to a YAML file of extra
	// aggregation configurations merged over the built-in set.
	AggregationsFile string `koanf:"aggregations_file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           defaultLogLevel,
		Addr:               defaultAddr,
		DataDir:            defaultDataDir,
		WorkerCount:        defaultWorkerCount,
		AggregationTimeout: defaultAggregationTimeout,
		MinMinutes:         defaultMinMinutes,
		DefaultMinutes:     defaultDefaultMinutes,
		AmplificationPower: defaultAmplificationPower,
		MinRolePercentage:  defaultMinRolePercentage,
		CacheCapacity:      defaultCacheCapacity,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}

	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be at least 1, got %d", ErrInvalidConfig, c.WorkerCount)
	}

	if c.AggregationTimeout <= 0 {
		return fmt.Errorf("%w: aggregation_timeout must be positive, got %s", ErrInvalidConfig, c.AggregationTimeout)
	}

	if c.MinMinutes <= 0 {
		return fmt.Errorf("%w: min_minutes must be positive, got %g", ErrInvalidConfig, c.MinMinutes)
	}

	if c.DefaultMinutes <= 0 {
		return fmt.Errorf("%w: default_minutes must be positive, got %g", ErrInvalidConfig, c.DefaultMinutes)
	}

	if c.AmplificationPower <= 0 {
		return fmt.Errorf("%w: amplification_power must be positive, got %g", ErrInvalidConfig, c.AmplificationPower)
	}

	if c.MinRolePercentage < 0 || c.MinRolePercentage > 100 {
		return fmt.Errorf("%w: min_role_percentage must be in [0,100], got %g", ErrInvalidConfig, c.MinRolePercentage)
	}

	if c.CacheCapacity < 1 {
		return fmt.Errorf("%w: cache_capacity must be at least 1, got %d", ErrInvalidConfig, c.CacheCapacity)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}
