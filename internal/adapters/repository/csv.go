package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/halfspace-analytics/halfspace/internal/domain/features"
	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

const (
	eventsFileSuffix = "_dynamic_events.csv"
	physicalFileName = "physical_aggregates.csv"
)

// requiredEventColumns must be present in every match file header.
var requiredEventColumns = []string{"event_id", "player_id", "event_type"} //nolint:gochecknoglobals // fixed schema

// CSVStore loads per-match dynamic event files plus the physical
// aggregates file from a data directory, enriches the combined event
// set once, and serves read-only copies of the snapshot.
type CSVStore struct {
	dataDir  string
	enricher *features.Enricher
	logger   logger.Logger

	mu       sync.RWMutex
	events   []model.Event
	physical map[string]model.PhysicalProfile
	matches  []string
}

// NewCSVStore constructs a store with configuration options. Call Load
// before serving reads.
func NewCSVStore(opts ...StoreOption) *CSVStore {
	s := &CSVStore{
		dataDir:  "./data",
		logger:   logger.Get().Named("store"),
		physical: make(map[string]model.PhysicalProfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every match event file under the data directory, runs
// feature enrichment over the combined set, and loads the physical
// aggregates. A match file that fails to parse is skipped; the rest of
// the directory still loads.
func (s *CSVStore) Load(ctx context.Context) error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("reading data directory %q: %w", s.dataDir, err)
	}

	var events []model.Event
	var matches []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, eventsFileSuffix) {
			continue
		}

		matchID := strings.TrimSuffix(name, eventsFileSuffix)
		matchEvents, err := s.loadMatch(filepath.Join(s.dataDir, name), matchID)
		if err != nil {
			metrics.RecordStoreLoadError()
			s.logger.Error(ctx, "failed to load match events",
				logger.String("file", name),
				logger.Error(err),
			)
			continue
		}

		events = append(events, matchEvents...)
		matches = append(matches, matchID)
	}
	sort.Strings(matches)

	if s.enricher != nil {
		events = s.enricher.Enrich(ctx, events)
	}

	physical, err := s.loadPhysical(filepath.Join(s.dataDir, physicalFileName))
	if err != nil {
		metrics.RecordStoreLoadError()
		s.logger.Error(ctx, "failed to load physical aggregates", logger.Error(err))
		physical = make(map[string]model.PhysicalProfile)
	}

	s.mu.Lock()
	s.events = events
	s.matches = matches
	s.physical = physical
	s.mu.Unlock()

	metrics.UpdateEventsLoaded(len(events))
	metrics.UpdateMatchesLoaded(len(matches))
	metrics.UpdatePlayersTracked(countPlayers(events))

	s.logger.Info(ctx, "event snapshot loaded",
		logger.Int("matches", len(matches)),
		logger.Int("events", len(events)),
		logger.Int("physical_profiles", len(physical)),
	)
	return nil
}

// Events returns a copy of the loaded events matching the filters.
func (s *CSVStore) Events(ctx context.Context, filters model.Filters) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.events))
	for i := range s.events {
		if filters.Matches(&s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	return out
}

// Matches lists the loaded match ids in sorted order.
func (s *CSVStore) Matches(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.matches...)
}

// Teams lists the distinct teams across all loaded matches.
func (s *CSVStore) Teams(ctx context.Context) []TeamRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]TeamRef)
	for i := range s.events {
		ev := &s.events[i]
		if ev.TeamID == "" {
			continue
		}
		if _, ok := seen[ev.TeamID]; !ok {
			seen[ev.TeamID] = TeamRef{TeamID: ev.TeamID, TeamName: ev.TeamName}
		}
	}

	teams := make([]TeamRef, 0, len(seen))
	for _, team := range seen {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams
}

// Players lists the distinct players across all loaded matches.
func (s *CSVStore) Players(ctx context.Context) []PlayerRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]PlayerRef)
	for i := range s.events {
		ev := &s.events[i]
		if ev.PlayerID == "" {
			continue
		}
		if _, ok := seen[ev.PlayerID]; !ok {
			seen[ev.PlayerID] = PlayerRef{
				PlayerID:       ev.PlayerID,
				PlayerName:     ev.PlayerName,
				PlayerPosition: ev.PlayerPosition,
				TeamID:         ev.TeamID,
				TeamName:       ev.TeamName,
			}
		}
	}

	players := make([]PlayerRef, 0, len(seen))
	for _, player := range seen {
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })
	return players
}

// Physical returns a copy of the physical aggregates keyed by player id.
func (s *CSVStore) Physical(ctx context.Context) map[string]model.PhysicalProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.PhysicalProfile, len(s.physical))
	for id, profile := range s.physical {
		out[id] = profile
	}
	return out
}

// loadMatch parses one match's dynamic event file.
func (s *CSVStore) loadMatch(path, matchID string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredEventColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrMissingColumn, col, path)
		}
	}

	var events []model.Event
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record of %q: %w", path, err)
		}

		ev := eventFromRecord(record, idx)
		if ev.MatchID == "" {
			ev.MatchID = matchID
		}
		events = append(events, ev)
	}
	return events, nil
}

// loadPhysical parses the physical aggregates file. A missing file is
// not an error: physical data is optional for aggregation-only runs.
func (s *CSVStore) loadPhysical(path string) (map[string]model.PhysicalProfile, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]model.PhysicalProfile), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	if _, ok := idx["player_id"]; !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrMissingColumn, "player_id", path)
	}

	profiles := make(map[string]model.PhysicalProfile)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record of %q: %w", path, err)
		}

		get := fieldReader(record, idx)
		profile := model.NewPhysicalProfile(get("player_id"))
		if profile.PlayerID == "" {
			continue
		}
		profile.MinutesFullAll = parseFloat(get("minutes_full_all"))
		profile.PSV99Top5 = parseFloat(get("psv99_top5"))
		profile.TimeToSprintTop3 = parseFloat(get("time_to_sprint_top3"))
		profile.TotalDistanceFullAll = parseFloat(get("total_distance_full_all"))
		profile.SprintDistanceFullAll = parseFloat(get("sprint_distance_full_all"))
		profiles[profile.PlayerID] = profile
	}
	return profiles, nil
}

// eventFromRecord maps one CSV record onto an Event. Absent columns
// leave the NaN/zero defaults from NewEvent in place.
func eventFromRecord(record []string, idx map[string]int) model.Event {
	get := fieldReader(record, idx)

	ev := model.NewEvent()
	ev.MatchID = get("match_id")
	ev.EventID = get("event_id")
	ev.PlayerID = get("player_id")
	ev.PlayerName = get("player_name")
	ev.PlayerPosition = get("player_position")
	ev.TeamID = get("team_id")
	ev.TeamName = get("team_name")
	ev.EventType = get("event_type")
	ev.EventSubtype = get("event_subtype")
	ev.EndType = get("end_type")
	ev.AttackingSide = get("attacking_side")
	ev.Minute = parseFloatZero(get("minute"))
	ev.FrameStart = parseInt(get("frame_start"))
	ev.FrameEnd = parseInt(get("frame_end"))
	ev.XStart = parseFloatZero(get("x_start"))
	ev.YStart = parseFloatZero(get("y_start"))
	ev.XEnd = parseFloatZero(get("x_end"))
	ev.YEnd = parseFloatZero(get("y_end"))
	ev.LeadToGoal = parseBool(get("lead_to_goal"))
	ev.Targeted = parseBool(get("targeted"))
	ev.Received = parseBool(get("received"))
	ev.IsHeader = parseBool(get("is_header"))
	ev.QuickPass = parseBool(get("quick_pass"))
	ev.ProgressivePass = parseBool(get("progressive_pass"))
	ev.LineBreakPass = parseBool(get("line_break_pass"))
	ev.LastLineBreak = parseBool(get("last_line_break"))
	ev.OpponentsBypassed = parseBool(get("opponents_bypassed"))
	ev.MovedDefensiveLine = parseBool(get("moved_defensive_line"))
	ev.DangerousMovement = parseBool(get("dangerous_movement"))
	ev.XG = parseFloat(get("xg"))
	ev.XLossPossessionStart = parseFloat(get("xloss_player_possession_start"))
	ev.XPassCompletion = parseFloat(get("xpass_completion"))
	ev.PassingOptionScore = parseFloat(get("passing_option_score"))
	ev.AssociatedPossessionEventID = get("associated_player_possession_event_id")
	return ev
}

// fieldReader returns a column accessor for one record; unknown or
// out-of-range columns read as "".
func fieldReader(record []string, idx map[string]int) func(string) string {
	return func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
}

// parseFloat parses a float cell; empty or malformed cells are NaN so
// missing probabilities stay distinguishable from real zeros.
func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseFloatZero parses a float cell where absence means zero.
func parseFloatZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "t", "yes":
		return true
	}
	return false
}

func countPlayers(events []model.Event) int {
	seen := make(map[string]struct{})
	for i := range events {
		if events[i].PlayerID != "" {
			seen[events[i].PlayerID] = struct{}{}
		}
	}
	return len(seen)
}
