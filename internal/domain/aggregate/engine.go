// Package aggregate implements the configurable context-by-metric
// aggregation engine over enriched event snapshots.
package aggregate

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Job is one named aggregation handed to a Runner.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes independent aggregation jobs, possibly in parallel,
// and reports per-job failures. A nil error map value means success.
type Runner interface {
	Execute(ctx context.Context, jobs []Job) map[string]error
}

// serialRunner runs jobs one after another. It is the fallback when no
// worker pool is wired in.
type serialRunner struct{}

func (serialRunner) Execute(ctx context.Context, jobs []Job) map[string]error {
	errs := make(map[string]error, len(jobs))
	for _, job := range jobs {
		errs[job.Name] = job.Run(ctx)
	}
	return errs
}

// Engine executes named aggregations against event snapshots.
type Engine struct {
	registry *Registry
	runner   Runner
	logger   logger.Logger
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		runner:   serialRunner{},
		logger:   logger.Get().Named("aggregate"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Registry exposes the engine's configuration registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Aggregate filters events, evaluates every context of the named
// configuration, applies every metric within each context, and
// outer-merges the per-context results into one wide table.
//
// An unknown configuration is an error; an empty context or metric map
// yields an empty table; a failing context or metric is dropped and the
// rest of the result still returns.
func (e *Engine) Aggregate(
	ctx context.Context,
	events []model.Event,
	configName string,
	groupBy []string,
	filters model.Filters,
) (*Table, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAggregationDuration(configName, time.Since(start).Seconds())
	}()

	if len(groupBy) == 0 {
		return nil, ErrNoGroupBy
	}

	cfg, err := e.registry.Get(configName)
	if err != nil {
		metrics.RecordConfigLookupError()
		return nil, err
	}

	result := NewTable(groupBy)

	if len(cfg.Contexts) == 0 || len(cfg.Metrics) == 0 {
		e.logger.Warn(ctx, "configuration has no contexts or metrics",
			logger.String("config", configName),
		)
		return result, nil
	}

	working := make([]*model.Event, 0, len(events))
	for i := range events {
		if filters.Matches(&events[i]) {
			working = append(working, &events[i])
		}
	}

	// Sorted context and metric order keeps output deterministic even
	// though the outer merge itself is order-independent.
	for _, contextName := range sortedKeys(cfg.Contexts) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contextTable := e.aggregateContext(ctx, working, contextName, cfg.Contexts[contextName], cfg.Metrics, groupBy)
		if contextTable == nil {
			continue
		}
		result.merge(contextTable)
	}

	result.fillMissing()

	metrics.RecordAggregationRows(configName, result.Len())
	e.logger.Debug(ctx, "aggregation complete",
		logger.String("config", configName),
		logger.Int("rows", result.Len()),
		logger.Int("columns", len(result.Columns())),
	)

	return result, nil
}

// aggregateContext evaluates one context and returns its partial table,
// or nil when the context matched no rows.
func (e *Engine) aggregateContext(
	ctx context.Context,
	working []*model.Event,
	contextName string,
	cond Condition,
	metricDefs map[string]Metric,
	groupBy []string,
) *Table {
	groups := make(map[string][]*model.Event)
	keyValues := make(map[string][]string)

	for _, ev := range working {
		if !cond.Matches(ev) {
			continue
		}

		key := make([]string, len(groupBy))
		for i, col := range groupBy {
			v, _ := ev.StringField(col)
			key[i] = v
		}

		k := joinKey(key)
		groups[k] = append(groups[k], ev)
		keyValues[k] = key
	}

	if len(groups) == 0 {
		metrics.RecordContextSkipped()
		e.logger.Debug(ctx, "context matched no rows", logger.String("context", contextName))
		return nil
	}

	partial := NewTable(groupBy)

	// Every matched group key gets a row even if all its metric cells
	// come back missing; the zero fill covers those after the merge.
	for _, key := range keyValues {
		partial.ensureRow(key)
	}

	for _, metricName := range sortedKeys(metricDefs) {
		metric := metricDefs[metricName]
		column := metricName + "_" + contextName

		for k, group := range groups {
			v, ok := metric.Apply(group)
			if !ok {
				continue
			}
			partial.Set(keyValues[k], column, v)
		}
	}

	return partial
}

// AggregateMany executes several named aggregations through the runner.
// A failed or timed-out configuration yields an empty table for that
// name; sibling aggregations are unaffected.
func (e *Engine) AggregateMany(
	ctx context.Context,
	events []model.Event,
	configNames []string,
	groupBy []string,
	filters model.Filters,
) map[string]*Table {
	results := make(map[string]*Table, len(configNames))
	jobs := make([]Job, 0, len(configNames))

	var mu sync.Mutex
	for _, name := range configNames {
		name := name
		jobs = append(jobs, Job{
			Name: name,
			Run: func(jobCtx context.Context) error {
				table, err := e.Aggregate(jobCtx, events, name, groupBy, filters)
				if err != nil {
					return err
				}
				mu.Lock()
				results[name] = table
				mu.Unlock()
				return nil
			},
		})
	}

	errs := e.runner.Execute(ctx, jobs)

	for _, name := range configNames {
		if err := errs[name]; err != nil {
			e.logger.Error(ctx, "aggregation failed",
				logger.String("config", name),
				logger.Error(err),
			)
			results[name] = NewTable(groupBy)
			continue
		}
		if results[name] == nil {
			results[name] = NewTable(groupBy)
		}
	}

	return results
}

// joinKey builds the composite map key for group values.
func joinKey(key []string) string {
	return strings.Join(key, keySeparator)
}

// sortedKeys returns a map's keys in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
