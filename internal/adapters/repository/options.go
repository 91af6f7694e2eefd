package repository

import (
	"github.com/halfspace-analytics/halfspace/internal/domain/features"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
)

// StoreOption applies a configuration option to the CSVStore.
type StoreOption func(*CSVStore)

// WithDataDir sets the directory scanned for match event files.
func WithDataDir(dir string) StoreOption {
	return func(s *CSVStore) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithEnricher sets the feature enricher run over loaded events.
func WithEnricher(enricher *features.Enricher) StoreOption {
	return func(s *CSVStore) {
		if enricher != nil {
			s.enricher = enricher
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) StoreOption {
	return func(s *CSVStore) {
		if l != nil {
			s.logger = l
		}
	}
}
