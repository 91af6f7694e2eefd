package config

import "errors"

// Package errors.
var (
	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLoadFailed is returned when a configuration source cannot be read.
	ErrLoadFailed = errors.New("failed to load configuration")
)
