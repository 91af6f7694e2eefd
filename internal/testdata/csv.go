package testdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
)

// eventHeader lists the columns written for dynamic event files, in the
// order the store reads them back.
var eventHeader = []string{ //nolint:gochecknoglobals // fixed file schema
	"match_id", "event_id", "player_id", "player_name", "player_position",
	"team_id", "team_name", "event_type", "event_subtype", "end_type",
	"attacking_side", "minute", "frame_start", "frame_end",
	"x_start", "y_start", "x_end", "y_end",
	"lead_to_goal", "targeted", "received", "is_header",
	"quick_pass", "progressive_pass", "line_break_pass", "last_line_break",
	"opponents_bypassed", "moved_defensive_line", "dangerous_movement",
	"xg", "xloss_player_possession_start", "xpass_completion",
	"passing_option_score", "associated_player_possession_event_id",
}

// physicalHeader lists the columns of the physical aggregates file.
var physicalHeader = []string{ //nolint:gochecknoglobals // fixed file schema
	"player_id", "minutes_full_all", "psv99_top5", "time_to_sprint_top3",
	"total_distance_full_all", "sprint_distance_full_all",
}

// WriteDataDir generates a dataset and writes it as per-match dynamic
// event files plus the physical aggregates file under dir.
func WriteDataDir(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir %q: %w", dir, err)
	}

	byMatch := make(map[string][]model.Event)
	var matchOrder []string
	for _, ev := range Generate(cfg) {
		if _, ok := byMatch[ev.MatchID]; !ok {
			matchOrder = append(matchOrder, ev.MatchID)
		}
		byMatch[ev.MatchID] = append(byMatch[ev.MatchID], ev)
	}

	for _, matchID := range matchOrder {
		path := filepath.Join(dir, matchID+"_dynamic_events.csv")
		if err := writeEvents(path, byMatch[matchID]); err != nil {
			return err
		}
	}

	return writePhysical(filepath.Join(dir, "physical_aggregates.csv"), Physical(cfg))
}

func writeEvents(path string, events []model.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(eventHeader); err != nil {
		return fmt.Errorf("writing header of %q: %w", path, err)
	}

	for i := range events {
		if err := w.Write(eventRecord(&events[i])); err != nil {
			return fmt.Errorf("writing record of %q: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %q: %w", path, err)
	}
	return f.Close()
}

func writePhysical(path string, profiles map[string]model.PhysicalProfile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(physicalHeader); err != nil {
		return fmt.Errorf("writing header of %q: %w", path, err)
	}

	for _, id := range sortedIDs(profiles) {
		p := profiles[id]
		record := []string{
			p.PlayerID,
			formatFloat(p.MinutesFullAll),
			formatFloat(p.PSV99Top5),
			formatFloat(p.TimeToSprintTop3),
			formatFloat(p.TotalDistanceFullAll),
			formatFloat(p.SprintDistanceFullAll),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing record of %q: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %q: %w", path, err)
	}
	return f.Close()
}

func eventRecord(ev *model.Event) []string {
	return []string{
		ev.MatchID, ev.EventID, ev.PlayerID, ev.PlayerName, ev.PlayerPosition,
		ev.TeamID, ev.TeamName, ev.EventType, ev.EventSubtype, ev.EndType,
		ev.AttackingSide,
		formatFloat(ev.Minute),
		strconv.Itoa(ev.FrameStart),
		strconv.Itoa(ev.FrameEnd),
		formatFloat(ev.XStart), formatFloat(ev.YStart),
		formatFloat(ev.XEnd), formatFloat(ev.YEnd),
		formatBool(ev.LeadToGoal), formatBool(ev.Targeted),
		formatBool(ev.Received), formatBool(ev.IsHeader),
		formatBool(ev.QuickPass), formatBool(ev.ProgressivePass),
		formatBool(ev.LineBreakPass), formatBool(ev.LastLineBreak),
		formatBool(ev.OpponentsBypassed), formatBool(ev.MovedDefensiveLine),
		formatBool(ev.DangerousMovement),
		formatFloat(ev.XG),
		formatFloat(ev.XLossPossessionStart),
		formatFloat(ev.XPassCompletion),
		formatFloat(ev.PassingOptionScore),
		ev.AssociatedPossessionEventID,
	}
}

// formatFloat renders NaN as the empty cell the loader maps back to NaN.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func sortedIDs(profiles map[string]model.PhysicalProfile) []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
