// Package attributes converts aggregated player metrics into
// percentile-based 0-20 attribute scores grouped into categories.
package attributes

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/halfspace-analytics/halfspace/internal/domain/aggregate"
	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/internal/domain/stats"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Default model parameters.
const (
	defaultMinMinutes    = 30.0
	defaultMinutesPlayed = 90.0
	betaSmoothingAlpha   = 5.0
	betaSmoothingBeta    = 5.0
	topStrengthCount     = 6
)

// PlayerAttributes holds one player's raw attribute values before any
// population-relative normalization.
type PlayerAttributes struct {
	PlayerID   string
	PlayerName string
	Values     map[string]float64
}

// Population is the full set of players an attribute profile is scored
// against. Medians are computed once here so "vs median" context stays
// consistent across player selections.
type Population struct {
	players []PlayerAttributes
	values  map[string][]float64
	medians map[string]float64
	byID    map[string]int
}

// NewPopulation indexes a set of player attribute rows.
func NewPopulation(players []PlayerAttributes) *Population {
	p := &Population{
		players: players,
		values:  make(map[string][]float64),
		medians: make(map[string]float64),
		byID:    make(map[string]int, len(players)),
	}

	for _, key := range AttributeKeys() {
		vals := make([]float64, 0, len(players))
		for _, pl := range players {
			vals = append(vals, pl.Values[key])
		}
		p.values[key] = vals
		p.medians[key] = stats.Median(vals)
	}

	for i, pl := range players {
		p.byID[pl.PlayerID] = i
	}

	return p
}

// Len returns the number of players in the population.
func (p *Population) Len() int {
	return len(p.players)
}

// Players returns the raw attribute rows.
func (p *Population) Players() []PlayerAttributes {
	return p.players
}

// Median returns the population median for an attribute.
func (p *Population) Median(key string) float64 {
	return p.medians[key]
}

// find locates a player by id first, then exact name, then partial name.
func (p *Population) find(playerID, playerLabel string) (PlayerAttributes, bool) {
	if playerID != "" {
		if i, ok := p.byID[playerID]; ok {
			return p.players[i], true
		}
	}

	if playerLabel != "" {
		for _, pl := range p.players {
			if pl.PlayerName == playerLabel {
				return pl, true
			}
		}
		for _, pl := range p.players {
			if strings.Contains(pl.PlayerName, playerLabel) || strings.Contains(playerLabel, pl.PlayerName) {
				return pl, true
			}
		}
	}

	return PlayerAttributes{}, false
}

// AttributeScore is one scored attribute in a profile.
type AttributeScore struct {
	Key              string
	Label            string
	Category         string
	Value            float64
	Percentile       float64
	Score            float64
	ScoreRounded     float64
	Color            string
	Median           float64
	ComparisonPct    float64
	ComparisonStatus string
	Symbol           string
}

// CategoryAverage is the mean score of a category's attributes.
type CategoryAverage struct {
	Average float64
	Rounded float64
	Color   string
}

// Strength is a top attribute for compact display.
type Strength struct {
	Label      string
	Score      float64
	Percentile int
	Color      string
}

// Profile is the complete attribute summary handed to the rendering
// layer for one player.
type Profile struct {
	PlayerID         string
	PlayerName       string
	Attributes       map[string]AttributeScore
	CategoryAverages map[string]CategoryAverage
	OverallAverage   float64
	Strengths        []Strength
	Empty            bool
}

// EmptyProfile is the placeholder returned when a player cannot be
// scored, so the rendering layer shows "no data" instead of breaking.
func EmptyProfile(name string) *Profile {
	if name == "" {
		name = "Unknown Player"
	}
	return &Profile{
		PlayerName:       name,
		Attributes:       make(map[string]AttributeScore),
		CategoryAverages: make(map[string]CategoryAverage),
		Strengths:        []Strength{},
		Empty:            true,
	}
}

// Model computes raw attribute values and population-relative profiles.
type Model struct {
	minMinutes     float64
	defaultMinutes float64
	logger         logger.Logger
}

// NewModel creates an attribute model with configuration options.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		minMinutes:     defaultMinMinutes,
		defaultMinutes: defaultMinutesPlayed,
		logger:         logger.Get().Named("attributes"),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// ComputePopulation derives raw attribute values for every player that
// appears in both the event aggregation and the physical aggregates.
func (m *Model) ComputePopulation(
	ctx context.Context,
	aggregated *aggregate.Table,
	physical map[string]model.PhysicalProfile,
) *Population {
	var players []PlayerAttributes

	for _, row := range aggregated.Rows() {
		playerID := row.Key("player_id")
		if playerID == "" {
			continue
		}

		phys, ok := physical[playerID]
		if !ok {
			m.logger.Debug(ctx, "player missing physical aggregates",
				logger.String("player_id", playerID),
			)
			continue
		}

		players = append(players, PlayerAttributes{
			PlayerID:   playerID,
			PlayerName: row.Key("player_name"),
			Values:     m.rawValues(row, phys),
		})
	}

	return NewPopulation(players)
}

// rawValues computes the raw attribute vector for one player row.
func (m *Model) rawValues(row *aggregate.Row, phys model.PhysicalProfile) map[string]float64 {
	minutes := phys.MinutesFullAll
	if math.IsNaN(minutes) {
		minutes = m.defaultMinutes
	}
	minutes = math.Max(minutes, m.minMinutes)

	per90 := func(v float64) float64 {
		return v * 90.0 / minutes
	}

	get := func(context, metric string) float64 {
		return row.Value(metric + "_" + context)
	}

	physOrZero := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}

	values := make(map[string]float64)

	// Physical
	values["speed"] = physOrZero(phys.PSV99Top5)
	values["acceleration"] = physOrZero(phys.TimeToSprintTop3)
	values["stamina"] = per90(physOrZero(phys.TotalDistanceFullAll))
	values["activity"] = per90(physOrZero(phys.SprintDistanceFullAll))

	// Mental
	values["off_ball"] = per90(get("off_ball_runs", "sum_passing_option_score"))
	values["positioning"] = per90(get("passing_options", "sum_passing_option_score"))
	values["decision_making"] = get("player_possession", "mean_passing_decision_delta")

	// Technical - creation
	values["ball_retention"] = get("player_possession", "mean_xloss_delta_under_pressure")
	values["passing"] = get("player_possession", "mean_xpass_delta")
	values["crossing"] = get("player_possession", "mean_xcross_delta")

	// Technical - defense. Aerial uses a Beta-smoothed win rate so a
	// single header win cannot produce a 100% score.
	headersWon := get("header_successful", "count")
	headersLost := get("header_unsuccessful", "count")
	values["aerial_ability"] = stats.BetaSmoothed(headersWon, headersLost, betaSmoothingAlpha, betaSmoothingBeta)
	values["pressing"] = per90(get("pressing_successful", "count"))
	values["tackling"] = per90(get("ball_recovery", "count"))
	values["marking"] = get("on_ball_engagement", "mean_defender_distance_to_ball_carrier")

	// Technical - attack
	values["finishing"] = get("shot_close", "mean_shot_xg_delta")
	values["long_shots"] = get("shot_long", "mean_shot_xg_delta")

	return values
}

// BuildProfile scores one player against the population. A player absent
// from the population yields the empty placeholder profile.
func (m *Model) BuildProfile(ctx context.Context, population *Population, playerID, playerLabel string) *Profile {
	player, ok := population.find(playerID, playerLabel)
	if !ok {
		m.logger.Warn(ctx, "player not found in attribute population",
			logger.String("player_id", playerID),
			logger.String("player_label", playerLabel),
		)
		metrics.RecordProfileError("attribute")
		return EmptyProfile(playerLabel)
	}

	profile := &Profile{
		PlayerID:         player.PlayerID,
		PlayerName:       player.PlayerName,
		Attributes:       make(map[string]AttributeScore),
		CategoryAverages: make(map[string]CategoryAverage),
	}

	var strengths []Strength

	for _, cat := range Catalog() {
		var scores []float64

		for _, attr := range cat.Attributes {
			value := player.Values[attr.Key]
			percentile := stats.Percentile(value, population.values[attr.Key])
			score := stats.ScoreOutOf20(percentile)
			median := population.medians[attr.Key]

			status, symbol := comparisonStatus(percentile)

			var comparisonPct float64
			switch {
			case median != 0:
				comparisonPct = (value - median) / math.Abs(median) * 100
			case value != 0:
				comparisonPct = 100
			}

			profile.Attributes[attr.Key] = AttributeScore{
				Key:              attr.Key,
				Label:            attr.Label,
				Category:         cat.Key,
				Value:            value,
				Percentile:       percentile,
				Score:            score,
				ScoreRounded:     round1(score),
				Color:            ScoreColor(score),
				Median:           median,
				ComparisonPct:    comparisonPct,
				ComparisonStatus: status,
				Symbol:           symbol,
			}

			scores = append(scores, score)
			strengths = append(strengths, Strength{
				Label:      attr.Label,
				Score:      score,
				Percentile: int(percentile * 100),
				Color:      ScoreColor(score),
			})
		}

		if avg, ok := stats.Mean(scores); ok {
			profile.CategoryAverages[cat.Key] = CategoryAverage{
				Average: avg,
				Rounded: round1(avg),
				Color:   ScoreColor(avg),
			}
		}
	}

	if len(profile.CategoryAverages) > 0 {
		var sum float64
		for _, avg := range profile.CategoryAverages {
			sum += avg.Average
		}
		profile.OverallAverage = round1(sum / float64(len(profile.CategoryAverages)))
	}

	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].Score > strengths[j].Score })
	if len(strengths) > topStrengthCount {
		strengths = strengths[:topStrengthCount]
	}
	profile.Strengths = strengths

	metrics.RecordProfileComputed("attribute")

	return profile
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
