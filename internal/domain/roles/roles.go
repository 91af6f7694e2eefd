// Package roles classifies players into tactical role distributions
// from aggregated event counts. Raw counts become style ratios, ratios
// are quantile-normalized against the player's position family, the
// normalized values compose eight style axes, and per-role affinities
// over those axes are amplified into a percentage distribution.
package roles

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/halfspace-analytics/halfspace/internal/domain/aggregate"
	"github.com/halfspace-analytics/halfspace/internal/domain/stats"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

const (
	defaultAmplificationPower = 10.0
	defaultMinRolePercentage  = 5.0

	strengthColorHigh   = "#4aff7c"
	strengthColorMedium = "#489ccb"
	strengthColorLow    = "#e8e8e7"
)

// Strength is a style axis the player scores positively on.
type Strength struct {
	Label      string
	Score      float64
	Percentile int
	Color      string
}

// Contribution is the share of a role assignment explained by one axis.
type Contribution struct {
	Axis       string
	Percentage float64
}

// StyleProfile is the complete style classification of one player.
type StyleProfile struct {
	PlayerID      string
	PlayerName    string
	Position      string
	Family        string
	Axes          map[string]float64
	Roles         map[string]float64
	DominantRole  string
	DominantShare float64
	Strengths     []Strength
	Empty         bool
}

// EmptyStyleProfile is the placeholder returned when a requested player
// is absent from the classified population.
func EmptyStyleProfile(name string) StyleProfile {
	return StyleProfile{
		PlayerName: name,
		Axes:       map[string]float64{},
		Roles:      map[string]float64{},
		Empty:      true,
	}
}

// Population holds the classified profiles of every player in one
// aggregation result. Quantile normalization makes profiles relative,
// so a population is only meaningful as a whole.
type Population struct {
	profiles []StyleProfile
	byID     map[string]int
}

// Len returns the number of classified players.
func (p *Population) Len() int {
	return len(p.profiles)
}

// Profiles returns all classified profiles ordered by player id.
func (p *Population) Profiles() []StyleProfile {
	return p.profiles
}

func (p *Population) find(playerID, playerLabel string) (StyleProfile, bool) {
	if idx, ok := p.byID[playerID]; ok {
		return p.profiles[idx], true
	}
	for _, profile := range p.profiles {
		if playerLabel != "" && profile.PlayerName == playerLabel {
			return profile, true
		}
	}
	for _, profile := range p.profiles {
		if playerLabel != "" && strings.Contains(profile.PlayerName, playerLabel) {
			return profile, true
		}
	}
	return StyleProfile{}, false
}

// Classifier turns aggregated style counts into role distributions.
type Classifier struct {
	power         float64
	minPercentage float64
	logger        logger.Logger
}

// NewClassifier builds a classifier with the supplied options.
func NewClassifier(opts ...Option) *Classifier {
	classifier := &Classifier{
		power:         defaultAmplificationPower,
		minPercentage: defaultMinRolePercentage,
		logger:        logger.Get(),
	}
	for _, opt := range opts {
		opt(classifier)
	}
	return classifier
}

// ComputePopulation classifies every row of an aggregated style table.
// The table must be grouped by player_id, player_name and
// player_position.
func (c *Classifier) ComputePopulation(ctx context.Context, aggregated *aggregate.Table) *Population {
	rows := aggregated.Rows()

	profiles := make([]StyleProfile, 0, len(rows))
	ratios := make([]map[string]float64, 0, len(rows))
	families := make(map[string][]int)

	for i, row := range rows {
		position := row.Key("player_position")
		family := PositionFamily(position)
		profiles = append(profiles, StyleProfile{
			PlayerID:   row.Key("player_id"),
			PlayerName: row.Key("player_name"),
			Position:   position,
			Family:     family,
		})
		ratios = append(ratios, styleRatios(row))
		families[family] = append(families[family], i)
	}

	quantiles := normalizeByFamily(ratios, families)

	for i := range profiles {
		profiles[i].Axes = axisScores(quantiles[i])
		profiles[i].Roles = c.roleDistribution(profiles[i].Family, profiles[i].Axes)
		profiles[i].Strengths = topStrengths(profiles[i].Axes)
		profiles[i].DominantRole, profiles[i].DominantShare = dominantRole(profiles[i].Roles)
	}

	population := &Population{
		profiles: profiles,
		byID:     make(map[string]int, len(profiles)),
	}
	for i, profile := range profiles {
		population.byID[profile.PlayerID] = i
	}

	c.logger.Debug(ctx, "classified style population",
		logger.Int("players", len(profiles)),
		logger.Int("families", len(families)),
	)
	return population
}

// BuildProfile returns the classified profile of one player, located by
// id first and display name second. A player absent from the
// population yields an empty placeholder profile.
func (c *Classifier) BuildProfile(ctx context.Context, population *Population, playerID, playerLabel string) StyleProfile {
	profile, ok := population.find(playerID, playerLabel)
	if !ok {
		c.logger.Warn(ctx, "player not found in style population",
			logger.String("player_id", playerID),
			logger.String("player_label", playerLabel),
		)
		metrics.RecordProfileError("style")
		return EmptyStyleProfile(playerLabel)
	}
	metrics.RecordProfileComputed("style")
	return profile
}

// roleDistribution computes sigmoid affinities per role and amplifies
// them into a percentage distribution.
func (c *Classifier) roleDistribution(family string, axes map[string]float64) map[string]float64 {
	profilesForFamily := RoleProfilesFor(family)
	if len(profilesForFamily) == 0 {
		return map[string]float64{}
	}

	affinities := make(map[string]float64, len(profilesForFamily))
	for roleName, coefficients := range profilesForFamily {
		affinities[roleName] = roleAffinity(axes, coefficients)
	}
	return c.amplify(affinities)
}

// roleAffinity is the sigmoid of the dot product between the player's
// axis scores and the role coefficients. Missing axes count as a
// neutral 0.5.
func roleAffinity(axes map[string]float64, coefficients map[string]float64) float64 {
	raw := 0.0
	for axis, coefficient := range coefficients {
		value, ok := axes[axis]
		if !ok {
			value = 0.5
		}
		raw += value * coefficient
	}
	return stats.Sigmoid(raw)
}

// amplify raises affinities to the configured power, renormalizes to
// percentages and drops roles below the minimum share. If fewer than
// two roles survive the cut, the top two by raw affinity are kept
// instead, renormalized over their unamplified values.
func (c *Classifier) amplify(affinities map[string]float64) map[string]float64 {
	if len(affinities) == 0 {
		return map[string]float64{}
	}

	names := make([]string, 0, len(affinities))
	for name := range affinities {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0.0
	amplified := make([]float64, len(names))
	for i, name := range names {
		amplified[i] = math.Pow(affinities[name], c.power)
		total += amplified[i]
	}
	if total == 0 {
		return map[string]float64{}
	}

	result := make(map[string]float64)
	for i, name := range names {
		percentage := amplified[i] / total * 100
		if percentage >= c.minPercentage {
			result[name] = round1(percentage)
		}
	}

	if len(result) < 2 && len(names) >= 2 {
		sort.SliceStable(names, func(i, j int) bool {
			return affinities[names[i]] > affinities[names[j]]
		})
		top := names[:2]
		topTotal := affinities[top[0]] + affinities[top[1]]
		result = make(map[string]float64, 2)
		for _, name := range top {
			result[name] = round1(affinities[name] / topTotal * 100)
		}
	}
	return result
}

// RoleContributions explains a role assignment as the top three axes
// by absolute weighted contribution, expressed as shares of their
// combined magnitude.
func RoleContributions(family, role string, axes map[string]float64) []Contribution {
	coefficients, ok := RoleProfilesFor(family)[role]
	if !ok {
		return nil
	}

	type weighted struct {
		axis  string
		value float64
	}
	contributions := make([]weighted, 0, len(coefficients))
	for axis, coefficient := range coefficients {
		value, ok := axes[axis]
		if !ok {
			continue
		}
		contributions = append(contributions, weighted{axis: axis, value: value * coefficient})
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		vi, vj := math.Abs(contributions[i].value), math.Abs(contributions[j].value)
		if vi != vj {
			return vi > vj
		}
		return contributions[i].axis < contributions[j].axis
	})
	if len(contributions) > 3 {
		contributions = contributions[:3]
	}

	totalAbs := 0.0
	for _, c := range contributions {
		totalAbs += math.Abs(c.value)
	}
	if totalAbs == 0 {
		return nil
	}

	result := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		result = append(result, Contribution{
			Axis:       titleCase(c.axis),
			Percentage: round1(math.Abs(c.value) / totalAbs * 100),
		})
	}
	return result
}

// topStrengths lists the axes the player scores positively on, best
// first, with colors bucketed at the 80th and 60th percentiles.
func topStrengths(axes map[string]float64) []Strength {
	strengths := make([]Strength, 0, len(axes))
	for _, axis := range AxisNames() {
		score, ok := axes[axis]
		if !ok || score <= 0 {
			continue
		}
		percentile := int(score * 100)
		color := strengthColorLow
		switch {
		case percentile >= 80:
			color = strengthColorHigh
		case percentile >= 60:
			color = strengthColorMedium
		}
		strengths = append(strengths, Strength{
			Label:      titleCase(axis),
			Score:      score,
			Percentile: percentile,
			Color:      color,
		})
	}
	sort.SliceStable(strengths, func(i, j int) bool {
		return strengths[i].Score > strengths[j].Score
	})
	return strengths
}

func dominantRole(roles map[string]float64) (string, float64) {
	name := ""
	share := 0.0
	for role, pct := range roles {
		if pct > share || (pct == share && (name == "" || role < name)) {
			name = role
			share = pct
		}
	}
	return name, share
}

// normalizeByFamily replaces each ratio with its quantile rank among
// players of the same position family.
func normalizeByFamily(ratios []map[string]float64, families map[string][]int) []map[string]float64 {
	quantiles := make([]map[string]float64, len(ratios))
	for i := range quantiles {
		quantiles[i] = make(map[string]float64, len(ratioNames()))
	}
	for _, members := range families {
		for _, ratio := range ratioNames() {
			values := make([]float64, len(members))
			for i, idx := range members {
				values[i] = ratios[idx][ratio]
			}
			ranks := stats.QuantileRank(values)
			for i, idx := range members {
				quantiles[idx][ratio] = ranks[i]
			}
		}
	}
	return quantiles
}

// axisScores composes the eight style axes as weighted sums of ratio
// quantiles, clipped to [0, 1].
func axisScores(quantiles map[string]float64) map[string]float64 {
	axes := make(map[string]float64, len(axesDefinition))
	for axis, weights := range axesDefinition {
		score := 0.0
		for ratio, weight := range weights {
			score += weight * quantiles[ratio]
		}
		axes[axis] = math.Min(math.Max(score, 0), 1)
	}
	return axes
}

func ratioNames() []string {
	return []string{
		"depth_runs_ratio",
		"open_space_reception_ratio",
		"association_run_ratio",
		"quick_pass_ratio",
		"tight_space_reception_ratio",
		"width_ratio",
		"progressive_pass_ratio",
		"line_break_pass_ratio",
		"last_line_break_ratio",
		"opponents_bypassed_ratio",
		"defensive_line_movement_ratio",
		"defensive_activity_rate",
		"shot_frequency",
		"dangerous_action_ratio",
		"aerial_involvement_ratio",
	}
}

// styleRatios derives the style ratios from the raw count columns of
// one aggregated row. Ratios with a zero denominator are 0.
func styleRatios(row *aggregate.Row) map[string]float64 {
	count := func(ctxName string) float64 {
		return row.Value("count_" + ctxName)
	}
	ratio := func(numerator, denominator float64) float64 {
		if denominator == 0 {
			return 0
		}
		return numerator / denominator
	}

	offBallRuns := count("off_ball_runs")
	receptions := count("pass_receptions")
	passes := count("passes")
	possessions := count("player_possessions")
	allEvents := count("all_events")
	wide := count("wide_actions")
	interior := count("interior_actions")

	return map[string]float64{
		"depth_runs_ratio":              ratio(count("runs_in_behind")+count("runs_ahead_of_ball"), offBallRuns),
		"open_space_reception_ratio":    ratio(count("received_in_open_space"), receptions),
		"association_run_ratio":         ratio(count("associations_runs"), offBallRuns),
		"quick_pass_ratio":              ratio(count("quick_passes"), passes),
		"tight_space_reception_ratio":   ratio(count("received_in_tight_space"), receptions),
		"width_ratio":                   ratio(wide, wide+interior),
		"progressive_pass_ratio":        ratio(count("progressive_pass"), passes),
		"line_break_pass_ratio":         ratio(count("line_break_pass"), passes),
		"last_line_break_ratio":         ratio(count("last_line_break"), passes),
		"opponents_bypassed_ratio":      ratio(count("player_bypassed_possessions"), possessions),
		"defensive_line_movement_ratio": ratio(count("moving_defensive_line_possessions"), possessions),
		"defensive_activity_rate":       ratio(count("pressing"), allEvents),
		"shot_frequency":                ratio(count("shot"), possessions),
		"dangerous_action_ratio":        ratio(count("dangerous_movement"), allEvents),
		"aerial_involvement_ratio":      ratio(count("aerial_duel")+count("aerial_target"), count("aerial_events")),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
