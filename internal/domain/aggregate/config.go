package aggregate

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
)

// Config is a named pair of context and metric maps. Every (metric,
// context) combination that produces data becomes one wide column named
// "{metric}_{context}".
type Config struct {
	Name     string
	Contexts map[string]Condition
	Metrics  map[string]Metric
}

// Registry resolves configuration names for the engine. It starts from
// the built-in set and can merge additional configurations from YAML.
type Registry struct {
	configs map[string]Config
}

// NewRegistry creates a registry holding the built-in configurations.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[string]Config)}

	for _, cfg := range builtinConfigs() {
		r.configs[cfg.Name] = cfg
	}

	return r
}

// Get resolves a configuration by name. Unknown names are a config
// authoring mistake and fail loudly.
func (r *Registry) Get(name string) (Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownConfig, name)
	}
	return cfg, nil
}

// Names returns the registered configuration names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a configuration.
func (r *Registry) Register(cfg Config) {
	r.configs[cfg.Name] = cfg
}

// LoadFile merges configurations from a YAML file over the registered
// set. The expected shape is
//
//	config_name:
//	  contexts:
//	    context_name: "event_type == 'pass'"
//	  metrics:
//	    metric_name: "len"
//
// Conditions and metric specs are resolved here, once, so malformed
// entries surface at load time.
func (r *Registry) LoadFile(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading aggregation config %s: %w", path, err)
	}

	raw := k.Raw()
	for name := range raw {
		cfg := Config{
			Name:     name,
			Contexts: make(map[string]Condition),
			Metrics:  make(map[string]Metric),
		}

		for ctxName, expr := range k.StringMap(name + ".contexts") {
			cond, err := ParseCondition(expr)
			if err != nil {
				return fmt.Errorf("config %q context %q: %w", name, ctxName, err)
			}
			cfg.Contexts[ctxName] = cond
		}

		for metricName, spec := range k.StringMap(name + ".metrics") {
			m, err := ParseMetric(spec)
			if err != nil {
				return fmt.Errorf("config %q metric %q: %w", name, metricName, err)
			}
			cfg.Metrics[metricName] = m
		}

		r.configs[name] = cfg
	}

	return nil
}

// eq is shorthand for an equality clause.
func eq(column, value string) Clause {
	return Clause{Column: column, Op: OpEqual, Value: value}
}

// builtinConfigs returns the configurations the player summarization
// models depend on.
func builtinConfigs() []Config {
	return []Config{
		{
			Name: "player_attributes",
			Contexts: map[string]Condition{
				"off_ball_runs":       NewCondition(eq("event_type", model.EventTypeOffBallRun)),
				"passing_options":     NewCondition(eq("event_type", model.EventTypePassingOption)),
				"player_possession":   NewCondition(eq("event_type", model.EventTypePlayerPossession)),
				"header_successful":   NewCondition(eq("event_type", model.EventTypeHeaderWon)),
				"header_unsuccessful": NewCondition(eq("event_type", model.EventTypeHeaderLost)),
				"on_ball_engagement":  NewCondition(eq("event_type", model.EventTypeOnBallEngagement)),
				"pressing_successful": NewCondition(
					eq("event_type", model.EventTypeOnBallEngagement),
					eq("defender_ball_recovery", "true"),
				),
				"ball_recovery": NewCondition(eq("event_type", model.EventTypeBallRecovery)),
				"shot_close": NewCondition(
					eq("event_type", model.EventTypePlayerPossession),
					eq("end_type", model.EndTypeShot),
					eq("shot_range", model.ShotRangeClose),
				),
				"shot_long": NewCondition(
					eq("event_type", model.EventTypePlayerPossession),
					eq("end_type", model.EndTypeShot),
					eq("shot_range", model.ShotRangeLong),
				),
			},
			Metrics: map[string]Metric{
				"count":                                  Count(),
				"sum_passing_option_score":               Sum("passing_option_score"),
				"mean_passing_decision_delta":            Mean("passing_decision_delta"),
				"mean_xloss_delta_under_pressure":        Mean("xloss_delta_under_pressure"),
				"mean_xpass_delta":                       Mean("xpass_delta"),
				"mean_xcross_delta":                      Mean("xcross_delta"),
				"mean_defender_distance_to_ball_carrier": Mean("defender_distance_to_ball_carrier"),
				"mean_shot_xg_delta":                     Mean("shot_xg_delta"),
			},
		},
		{
			Name: "player_style_profile",
			Contexts: map[string]Condition{
				"all_events":    MatchAll(),
				"off_ball_runs": NewCondition(eq("event_type", model.EventTypeOffBallRun)),
				"runs_in_behind": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("event_subtype", "run_in_behind"),
				),
				"runs_ahead_of_ball": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("event_subtype", "run_ahead_of_ball"),
				),
				"associations_runs": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("event_subtype", "association_run"),
				),
				"dangerous_movement": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("dangerous_movement", "true"),
				),
				"pass_receptions": NewCondition(eq("event_type", model.EventTypePassReception)),
				"received_in_open_space": NewCondition(
					eq("event_type", model.EventTypePassReception),
					eq("event_subtype", "open_space"),
				),
				"received_in_tight_space": NewCondition(
					eq("event_type", model.EventTypePassReception),
					eq("event_subtype", "tight_space"),
				),
				"passes": NewCondition(eq("event_type", model.EventTypePass)),
				"quick_passes": NewCondition(
					eq("event_type", model.EventTypePass),
					eq("quick_pass", "true"),
				),
				"progressive_pass": NewCondition(
					eq("event_type", model.EventTypePass),
					eq("progressive_pass", "true"),
				),
				"line_break_pass": NewCondition(
					eq("event_type", model.EventTypePass),
					eq("line_break_pass", "true"),
				),
				"last_line_break": NewCondition(
					eq("event_type", model.EventTypePass),
					eq("last_line_break", "true"),
				),
				"player_possessions": NewCondition(eq("event_type", model.EventTypePlayerPossession)),
				"player_bypassed_possessions": NewCondition(
					eq("event_type", model.EventTypePlayerPossession),
					eq("opponents_bypassed", "true"),
				),
				"moving_defensive_line_possessions": NewCondition(
					eq("event_type", model.EventTypePlayerPossession),
					eq("moved_defensive_line", "true"),
				),
				"pressing": NewCondition(eq("event_type", model.EventTypeOnBallEngagement)),
				"shot": NewCondition(
					eq("event_type", model.EventTypePlayerPossession),
					eq("end_type", model.EndTypeShot),
				),
				"wide_actions":     NewCondition(eq("pitch_zone", model.PitchZoneWide)),
				"interior_actions": NewCondition(eq("pitch_zone", model.PitchZoneInterior)),
				"aerial_events":    NewCondition(eq("is_header", "true")),
				"aerial_duel": NewCondition(
					eq("is_header", "true"),
					eq("event_subtype", "duel"),
				),
				"aerial_target": NewCondition(
					eq("is_header", "true"),
					eq("event_subtype", "target"),
				),
			},
			Metrics: map[string]Metric{
				"count": Count(),
			},
		},
		{
			Name: "off_ball_runs",
			Contexts: map[string]Condition{
				"off_ball_runs": NewCondition(eq("event_type", model.EventTypeOffBallRun)),
				"runs_in_behind": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("event_subtype", "run_in_behind"),
				),
				"runs_ahead_of_ball": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("event_subtype", "run_ahead_of_ball"),
				),
				"targeted_runs": NewCondition(
					eq("event_type", model.EventTypeOffBallRun),
					eq("targeted", "true"),
				),
			},
			Metrics: map[string]Metric{
				"count":                     Count(),
				"sum_passing_option_score":  Sum("passing_option_score"),
				"mean_passing_option_score": Mean("passing_option_score"),
			},
		},
	}
}
