// Package service wires the analytics pipeline together: event store,
// feature enrichment, the aggregation engine with its worker pool, the
// attribute scoring model, the style classifier and the player rating
// leaderboard.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/halfspace-analytics/halfspace/internal/adapters/pool"
	"github.com/halfspace-analytics/halfspace/internal/adapters/repository"
	"github.com/halfspace-analytics/halfspace/internal/config"
	"github.com/halfspace-analytics/halfspace/internal/domain/aggregate"
	"github.com/halfspace-analytics/halfspace/internal/domain/attributes"
	"github.com/halfspace-analytics/halfspace/internal/domain/cache"
	"github.com/halfspace-analytics/halfspace/internal/domain/features"
	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/internal/domain/roles"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
)

// Aggregation configuration names consumed by the profile builders.
const (
	attributeConfigName = "player_attributes"
	styleConfigName     = "player_style_profile"
)

// Service implements the analytics operations exposed by the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.EventStore
	ranks      repository.RankStore
	engine     *aggregate.Engine
	model      *attributes.Model
	classifier *roles.Classifier
	workerPool *pool.Pool

	// Population caches keyed by filter hash. Player selection is not
	// part of the key: one population serves every player lookup under
	// the same filters.
	attributePopulations *cache.Cache[*attributes.Population]
	stylePopulations     *cache.Cache[*roles.Population]

	// Configuration
	dataDir            string
	workerCount        int
	aggregationTimeout time.Duration
	minMinutes         float64
	defaultMinutes     float64
	amplificationPower float64
	minRolePercentage  float64
	cacheCapacity      int
	aggregationsFile   string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory scanned for match event files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithWorkerCount sets the aggregation pool size.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithAggregationTimeout sets the per-aggregation deadline.
func WithAggregationTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.aggregationTimeout = timeout
		}
	}
}

// WithMinMinutes floors the minutes denominator in per-90 scaling.
func WithMinMinutes(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.minMinutes = minutes
		}
	}
}

// WithDefaultMinutes substitutes for missing minutes-played data.
func WithDefaultMinutes(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.defaultMinutes = minutes
		}
	}
}

// WithAmplificationPower sharpens role affinity contrast.
func WithAmplificationPower(power float64) Option {
	return func(s *Service) {
		if power > 0 {
			s.amplificationPower = power
		}
	}
}

// WithMinRolePercentage drops roles below this share after amplification.
func WithMinRolePercentage(pct float64) Option {
	return func(s *Service) {
		if pct >= 0 {
			s.minRolePercentage = pct
		}
	}
}

// WithCacheCapacity bounds the population caches.
func WithCacheCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.cacheCapacity = capacity
		}
	}
}

// WithAggregationsFile merges extra aggregation configurations from a
// YAML file over the built-in set.
func WithAggregationsFile(path string) Option {
	return func(s *Service) {
		s.aggregationsFile = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig expands a loaded configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithDataDir(cfg.DataDir),
		WithWorkerCount(cfg.WorkerCount),
		WithAggregationTimeout(cfg.AggregationTimeout),
		WithMinMinutes(cfg.MinMinutes),
		WithDefaultMinutes(cfg.DefaultMinutes),
		WithAmplificationPower(cfg.AmplificationPower),
		WithMinRolePercentage(cfg.MinRolePercentage),
		WithCacheCapacity(cfg.CacheCapacity),
		WithAggregationsFile(cfg.AggregationsFile),
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:            "./data",
		workerCount:        4,
		aggregationTimeout: 30 * time.Second,
		minMinutes:         30,
		defaultMinutes:     90,
		amplificationPower: 10,
		minRolePercentage:  5,
		cacheCapacity:      256,
		logger:             nil, // resolved at Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the event snapshot and wires the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analytics service...")

	enricher := features.NewEnricher(
		features.WithXGModel(features.NewLogisticXGModel()),
	)

	store := repository.NewCSVStore(
		repository.WithDataDir(s.dataDir),
		repository.WithEnricher(enricher),
	)
	if err := store.Load(ctx); err != nil {
		return err
	}
	s.store = store
	s.ranks = repository.NewTreapRankStore()

	s.workerPool = pool.NewPool(
		pool.WithWorkerCount(s.workerCount),
		pool.WithTaskTimeout(s.aggregationTimeout),
	)

	registry := aggregate.NewRegistry()
	if s.aggregationsFile != "" {
		if err := registry.LoadFile(s.aggregationsFile); err != nil {
			return err
		}
	}
	s.engine = aggregate.NewEngine(
		aggregate.WithRegistry(registry),
		aggregate.WithRunner(s.workerPool),
	)

	s.model = attributes.NewModel(
		attributes.WithMinMinutes(s.minMinutes),
		attributes.WithDefaultMinutes(s.defaultMinutes),
	)
	s.classifier = roles.NewClassifier(
		roles.WithAmplificationPower(s.amplificationPower),
		roles.WithMinRolePercentage(s.minRolePercentage),
	)

	s.attributePopulations = cache.New[*attributes.Population](
		cache.WithCapacity(s.cacheCapacity),
		cache.WithName("attribute_populations"),
	)
	s.stylePopulations = cache.New[*roles.Population](
		cache.WithCapacity(s.cacheCapacity),
		cache.WithName("style_populations"),
	)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("matches", len(s.store.Matches(ctx))),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping analytics service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// AggregatedData runs one named aggregation over the loaded snapshot.
func (s *Service) AggregatedData(
	ctx context.Context,
	configName string,
	groupBy []string,
	filters model.Filters,
) (*aggregate.Table, error) {
	events := s.store.Events(ctx, model.Filters{})
	return s.engine.Aggregate(ctx, events, configName, groupBy, filters)
}

// AggregateMany runs several named aggregations concurrently on the
// worker pool. A failing aggregation yields an empty table for its
// name without affecting its siblings.
func (s *Service) AggregateMany(
	ctx context.Context,
	configNames []string,
	groupBy []string,
	filters model.Filters,
) map[string]*aggregate.Table {
	events := s.store.Events(ctx, model.Filters{})
	return s.engine.AggregateMany(ctx, events, configNames, groupBy, filters)
}

// AttributeProfile scores a player's attributes against the population
// selected by the filters. The player's overall average feeds the
// rating leaderboard.
func (s *Service) AttributeProfile(
	ctx context.Context,
	playerID, playerLabel string,
	filters model.Filters,
) (*attributes.Profile, error) {
	population, err := s.attributePopulation(ctx, filters)
	if err != nil {
		return nil, err
	}

	profile := s.model.BuildProfile(ctx, population, playerID, playerLabel)
	if !profile.Empty {
		if _, err := s.ranks.UpdateRating(ctx, profile.PlayerID, profile.PlayerName, profile.OverallAverage); err != nil {
			s.logger.Warn(ctx, "rating update failed",
				logger.String("player_id", profile.PlayerID),
				logger.Error(err),
			)
		}
	}
	return profile, nil
}

// StyleProfile classifies a player's tactical role distribution against
// the population selected by the filters.
func (s *Service) StyleProfile(
	ctx context.Context,
	playerID, playerLabel string,
	filters model.Filters,
) (roles.StyleProfile, error) {
	population, err := s.stylePopulation(ctx, filters)
	if err != nil {
		return roles.StyleProfile{}, err
	}
	return s.classifier.BuildProfile(ctx, population, playerID, playerLabel), nil
}

// TopPlayers returns the top-N rated players.
func (s *Service) TopPlayers(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.ranks.TopN(ctx, n)
}

// PlayerRank returns the leaderboard entry for one player.
func (s *Service) PlayerRank(ctx context.Context, playerID string) (repository.Entry, error) {
	return s.ranks.Rank(ctx, playerID)
}

// Matches lists the loaded match ids.
func (s *Service) Matches(ctx context.Context) []string {
	return s.store.Matches(ctx)
}

// Teams lists the distinct teams in the snapshot.
func (s *Service) Teams(ctx context.Context) []repository.TeamRef {
	return s.store.Teams(ctx)
}

// Players lists the distinct players in the snapshot.
func (s *Service) Players(ctx context.Context) []repository.PlayerRef {
	return s.store.Players(ctx)
}

// attributePopulation returns the cached attribute population for a
// filter selection, computing it on first use.
func (s *Service) attributePopulation(ctx context.Context, filters model.Filters) (*attributes.Population, error) {
	return s.attributePopulations.GetOrCompute(ctx, filters.Hash(), func(ctx context.Context) (*attributes.Population, error) {
		table, err := s.AggregatedData(ctx, attributeConfigName, []string{"player_id", "player_name"}, filters)
		if err != nil {
			return nil, err
		}
		return s.model.ComputePopulation(ctx, table, s.store.Physical(ctx)), nil
	})
}

// stylePopulation returns the cached style population for a filter
// selection, computing it on first use.
func (s *Service) stylePopulation(ctx context.Context, filters model.Filters) (*roles.Population, error) {
	return s.stylePopulations.GetOrCompute(ctx, filters.Hash(), func(ctx context.Context) (*roles.Population, error) {
		table, err := s.AggregatedData(ctx, styleConfigName, []string{"player_id", "player_name", "player_position"}, filters)
		if err != nil {
			return nil, err
		}
		return s.classifier.ComputePopulation(ctx, table), nil
	})
}
