package model

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
)

// FilterAll selects every value for a filter dimension.
const FilterAll = "all"

// TimeRange bounds events by match minute, inclusive on both ends.
type TimeRange struct {
	StartMinute float64
	EndMinute   float64
}

// Filters narrows the working event set before aggregation. Zero values
// (empty strings, nil range) leave the corresponding dimension unfiltered.
type Filters struct {
	Match       string
	Team        string
	TimeRange   *TimeRange
	PlayerID    string
	PlayerLabel string
}

// Match reports whether the event passes every set filter dimension.
// PlayerID and PlayerLabel are selection hints for profile lookups and
// do not narrow the event set.
func (f Filters) Matches(e *Event) bool {
	if f.Match != "" && f.Match != FilterAll && e.MatchID != f.Match {
		return false
	}

	if f.Team != "" && f.Team != FilterAll && e.TeamName != f.Team {
		return false
	}

	if f.TimeRange != nil {
		if e.Minute < f.TimeRange.StartMinute || e.Minute > f.TimeRange.EndMinute {
			return false
		}
	}

	return true
}

// Hash returns a stable key identifying the population this filter set
// selects. PlayerID and PlayerLabel are excluded: switching the selected
// player must not invalidate population-level caches.
func (f Filters) Hash() string {
	items := []string{
		"match=" + f.Match,
		"team=" + f.Team,
	}
	if f.TimeRange != nil {
		items = append(items,
			"start="+strconv.FormatFloat(f.TimeRange.StartMinute, 'g', -1, 64),
			"end="+strconv.FormatFloat(f.TimeRange.EndMinute, 'g', -1, 64),
		)
	}
	sort.Strings(items)

	h := fnv.New64a()
	for _, item := range items {
		_, _ = h.Write([]byte(item))
		_, _ = h.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
