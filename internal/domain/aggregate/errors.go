package aggregate

import "errors"

// Package errors.
var (
	// ErrUnknownConfig is returned when an aggregation names a
	// configuration the registry does not hold.
	ErrUnknownConfig = errors.New("unknown aggregation configuration")

	// ErrMalformedConfig is returned when a condition or metric spec
	// cannot be resolved at load time.
	ErrMalformedConfig = errors.New("malformed aggregation configuration")

	// ErrNoGroupBy is returned when an aggregation is requested without
	// group-by keys.
	ErrNoGroupBy = errors.New("aggregation requires at least one group-by key")
)
