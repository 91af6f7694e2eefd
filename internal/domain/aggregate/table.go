package aggregate

import (
	"sort"
	"strings"
)

// keySeparator joins group-key values into a map key. Unit separator is
// safe because it never appears in identifiers or display names.
const keySeparator = "\x1f"

// Row is one group key with its metric values.
type Row struct {
	key    []string
	labels []string
	values map[string]float64
}

// Key returns the value of the named group-by column, or "" if the
// column is not part of the key.
func (r *Row) Key(column string) string {
	for i, label := range r.labels {
		if label == column {
			return r.key[i]
		}
	}
	return ""
}

// Value returns the cell for a metric column. Missing cells read as 0:
// absence of an event type for a group means zero occurrences.
func (r *Row) Value(column string) float64 {
	return r.values[column]
}

// Has reports whether the cell was actually produced by a context rather
// than read as the zero fill.
func (r *Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Table is a wide aggregation result: one row per group key, one column
// per {metric}_{context} pair that produced data. Engine results are
// snapshots; callers must not mutate them.
type Table struct {
	groupBy []string
	columns map[string]struct{}
	rows    map[string]*Row
}

// NewTable creates an empty table keyed by the given group-by columns.
func NewTable(groupBy []string) *Table {
	return &Table{
		groupBy: append([]string(nil), groupBy...),
		columns: make(map[string]struct{}),
		rows:    make(map[string]*Row),
	}
}

// GroupBy returns the group-by column names.
func (t *Table) GroupBy() []string {
	return append([]string(nil), t.groupBy...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Columns returns the metric column names in sorted order.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.columns))
	for c := range t.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Rows returns the rows sorted by group key so identical inputs always
// produce identical output order.
func (t *Table) Rows() []*Row {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]*Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, t.rows[k])
	}
	return rows
}

// Lookup returns the row matching the given group-key values.
func (t *Table) Lookup(keyValues ...string) (*Row, bool) {
	r, ok := t.rows[strings.Join(keyValues, keySeparator)]
	return r, ok
}

// ensureRow returns the row for a group key, creating it if needed.
func (t *Table) ensureRow(keyValues []string) *Row {
	k := strings.Join(keyValues, keySeparator)

	row, ok := t.rows[k]
	if !ok {
		row = &Row{
			key:    append([]string(nil), keyValues...),
			labels: t.groupBy,
			values: make(map[string]float64),
		}
		t.rows[k] = row
	}

	return row
}

// Set writes a cell, creating the row if needed. The engine builds
// tables with it; adapters and fixtures may construct tables by hand
// the same way.
func (t *Table) Set(keyValues []string, column string, value float64) {
	row := t.ensureRow(keyValues)
	row.values[column] = value
	t.columns[column] = struct{}{}
}

// merge outer-joins another table's rows into this one: rows present in
// either side survive, and both sides' columns land on the union of keys.
func (t *Table) merge(other *Table) {
	for c := range other.columns {
		t.columns[c] = struct{}{}
	}

	for k, src := range other.rows {
		dst, ok := t.rows[k]
		if !ok {
			dst = &Row{
				key:    src.key,
				labels: t.groupBy,
				values: make(map[string]float64),
			}
			t.rows[k] = dst
		}
		for col, v := range src.values {
			dst.values[col] = v
		}
	}
}

// fillMissing writes 0 into every absent cell so consumers can read any
// column on any row without NaN checks.
func (t *Table) fillMissing() {
	for _, row := range t.rows {
		for c := range t.columns {
			if _, ok := row.values[c]; !ok {
				row.values[c] = 0
			}
		}
	}
}
