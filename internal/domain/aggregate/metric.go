package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// MetricKind tags the aggregation applied within a context. Specs are
// resolved to a kind once at config-load time so malformed definitions
// fail before any aggregation runs.
type MetricKind int

// Supported metric kinds.
const (
	// KindCount counts the rows in a group.
	KindCount MetricKind = iota
	// KindSum sums a numeric column, skipping NaN.
	KindSum
	// KindMean averages a numeric column, skipping NaN.
	KindMean
	// KindColumnCount counts the non-NaN values of a column.
	KindColumnCount
)

// Metric is a resolved aggregation function spec.
type Metric struct {
	Kind   MetricKind
	Column string
}

// Count returns the group-size metric.
func Count() Metric {
	return Metric{Kind: KindCount}
}

// Sum returns a column-sum metric.
func Sum(column string) Metric {
	return Metric{Kind: KindSum, Column: column}
}

// Mean returns a column-mean metric.
func Mean(column string) Metric {
	return Metric{Kind: KindMean, Column: column}
}

// ColumnCount returns a non-NaN count metric for a column.
func ColumnCount(column string) Metric {
	return Metric{Kind: KindColumnCount, Column: column}
}

// ParseMetric resolves a function spec string: "len" for group size, or
// "<column>.sum", "<column>.mean", "<column>.count".
func ParseMetric(spec string) (Metric, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case spec == "len":
		return Count(), nil
	case strings.HasSuffix(spec, ".sum"):
		return columnMetric(KindSum, strings.TrimSuffix(spec, ".sum"))
	case strings.HasSuffix(spec, ".mean"):
		return columnMetric(KindMean, strings.TrimSuffix(spec, ".mean"))
	case strings.HasSuffix(spec, ".count"):
		return columnMetric(KindColumnCount, strings.TrimSuffix(spec, ".count"))
	}

	return Metric{}, fmt.Errorf("%w: unknown metric spec %q", ErrMalformedConfig, spec)
}

func columnMetric(kind MetricKind, column string) (Metric, error) {
	column = strings.TrimSpace(column)
	if column == "" {
		return Metric{}, fmt.Errorf("%w: metric spec missing column", ErrMalformedConfig)
	}
	return Metric{Kind: kind, Column: column}, nil
}

// Apply aggregates the metric over a group of events. The boolean return
// is false when the metric produced no value (for example a mean over a
// column that was NaN for every row); the caller treats that as a
// missing cell rather than a zero.
func (m Metric) Apply(group []*model.Event) (float64, bool) {
	if m.Kind != KindCount && len(group) > 0 {
		// A referenced column absent from the schema yields an all-zero
		// series rather than an error.
		if _, ok := group[0].NumericField(m.Column); !ok {
			metrics.RecordMetricError()
			return 0, true
		}
	}

	switch m.Kind {
	case KindCount:
		return float64(len(group)), true

	case KindSum:
		var sum float64
		for _, e := range group {
			v, ok := e.NumericField(m.Column)
			if !ok || math.IsNaN(v) {
				continue
			}
			sum += v
		}
		return sum, true

	case KindMean:
		var sum float64
		var n int
		for _, e := range group {
			v, ok := e.NumericField(m.Column)
			if !ok || math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true

	case KindColumnCount:
		var n int
		for _, e := range group {
			v, ok := e.NumericField(m.Column)
			if ok && !math.IsNaN(v) {
				n++
			}
		}
		return float64(n), true
	}

	return 0, false
}
