package metrics

import "errors"

// Package errors.
var (
	// ErrMetricsDisabled is returned when metrics collection is disabled.
	ErrMetricsDisabled = errors.New("metrics collection is disabled")

	// ErrInvalidRegistry is returned when an invalid registry is provided.
	ErrInvalidRegistry = errors.New("invalid prometheus registry")
)
