// Package repository loads match event data from disk and maintains
// the in-memory player rating leaderboard.
package repository

import (
	"context"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
)

// PlayerRef identifies one player present in the loaded data.
type PlayerRef struct {
	PlayerID       string
	PlayerName     string
	PlayerPosition string
	TeamID         string
	TeamName       string
}

// TeamRef identifies one team present in the loaded data.
type TeamRef struct {
	TeamID   string
	TeamName string
}

// EventStore provides read access to the loaded, enriched event
// snapshot and its physical aggregates.
type EventStore interface {
	// Events returns a copy of the loaded events matching the filters.
	Events(ctx context.Context, filters model.Filters) []model.Event
	// Matches lists the loaded match ids.
	Matches(ctx context.Context) []string
	// Teams lists the distinct teams across all loaded matches.
	Teams(ctx context.Context) []TeamRef
	// Players lists the distinct players across all loaded matches.
	Players(ctx context.Context) []PlayerRef
	// Physical returns the physical aggregates keyed by player id.
	Physical(ctx context.Context) map[string]model.PhysicalProfile
}

// Entry represents one leaderboard row.
type Entry struct {
	Rank       int
	PlayerID   string
	PlayerName string
	Rating     float64
}

// RankStore keeps player overall ratings ordered for rank queries.
type RankStore interface {
	// UpdateRating sets a player's rating, replacing any previous value.
	// Returns true if the stored rating changed.
	UpdateRating(ctx context.Context, playerID, playerName string, rating float64) (bool, error)

	// Rank returns the current rank and rating for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of rated players.
	Count(ctx context.Context) int
}
