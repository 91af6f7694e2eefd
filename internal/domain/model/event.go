// Package model defines the core domain entities shared across the pipeline.
package model

import "math"

// Event types present in the dynamic event stream.
const (
	EventTypePlayerPossession = "player_possession"
	EventTypeOffBallRun       = "off_ball_run"
	EventTypePassingOption    = "passing_option"
	EventTypeOnBallEngagement = "on_ball_engagement"
	EventTypePass             = "pass"
	EventTypePassReception    = "pass_reception"
	EventTypeHeaderWon        = "header_successful"
	EventTypeHeaderLost       = "header_unsuccessful"
	EventTypeBallRecovery     = "ball_recovery"
)

// End types of a possession.
const (
	EndTypeShot           = "shot"
	EndTypePossessionLoss = "possession_loss"
)

// Attacking side values.
const (
	AttackingLeftToRight = "left_to_right"
	AttackingRightToLeft = "right_to_left"
)

// Shot range buckets derived from shot distance.
const (
	ShotRangeClose = "close"
	ShotRangeLong  = "long"
)

// Pitch zone buckets derived from start coordinates.
const (
	PitchZoneWide     = "wide"
	PitchZoneInterior = "interior"
)

// Event is one on-pitch action as loaded from a match's dynamic event
// table, plus the derived feature columns appended during enrichment.
// Events are read-only after loading; enrichment works on copies.
type Event struct {
	// Identity
	MatchID  string
	EventID  string
	PlayerID string

	// Display / grouping
	PlayerName     string
	PlayerPosition string
	TeamID         string
	TeamName       string

	// Classification
	EventType    string
	EventSubtype string
	EndType      string

	// Timing
	Minute     float64
	FrameStart int
	FrameEnd   int

	// Geometry. Coordinates use a centered pitch: x in [-52.5, 52.5],
	// y in [-34, 34], goal center at (52.5, 0) when attacking left to right.
	XStart        float64
	YStart        float64
	XEnd          float64
	YEnd          float64
	AttackingSide string

	// Outcome flags
	LeadToGoal         bool
	Targeted           bool
	Received           bool
	IsHeader           bool
	QuickPass          bool
	ProgressivePass    bool
	LineBreakPass      bool
	LastLineBreak      bool
	OpponentsBypassed  bool
	MovedDefensiveLine bool
	DangerousMovement  bool

	// Externally supplied probability estimates
	XG                   float64
	XLossPossessionStart float64
	XPassCompletion      float64
	PassingOptionScore   float64

	// Foreign key linking a non-possession event to the possession
	// event it causally relates to. Empty when not applicable.
	AssociatedPossessionEventID string

	// Derived columns, NaN where the feature's precondition does not hold.
	ShotDistanceToGoal            float64
	ShotXGDelta                   float64
	DefenderDistanceToBallCarrier float64
	XLossDeltaUnderPressure       float64
	PassingDecisionDelta          float64
	XPassDelta                    float64
	XCrossDelta                   float64

	// Derived string buckets used by aggregation conditions.
	ShotRange string
	PitchZone string

	// DefenderBallRecovery is set on valid presses whose possession
	// ended in a loss. Only meaningful when DefenderDistanceToBallCarrier
	// is not NaN.
	DefenderBallRecovery bool
}

// NewEvent returns an Event with all derived feature columns initialized
// to NaN so absence stays distinguishable from a computed zero.
func NewEvent() Event {
	nan := math.NaN()
	return Event{
		XG:                            nan,
		XLossPossessionStart:          nan,
		XPassCompletion:               nan,
		PassingOptionScore:            nan,
		ShotDistanceToGoal:            nan,
		ShotXGDelta:                   nan,
		DefenderDistanceToBallCarrier: nan,
		XLossDeltaUnderPressure:       nan,
		PassingDecisionDelta:          nan,
		XPassDelta:                    nan,
		XCrossDelta:                   nan,
	}
}

// boolString renders a flag the way aggregation conditions expect.
func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// StringField returns the named string-valued column. Boolean flags are
// exposed as "true"/"false" so data-authored conditions can match them.
// The second return is false for unknown column names.
func (e *Event) StringField(name string) (string, bool) {
	switch name {
	case "match_id":
		return e.MatchID, true
	case "event_id":
		return e.EventID, true
	case "player_id":
		return e.PlayerID, true
	case "player_name":
		return e.PlayerName, true
	case "player_position":
		return e.PlayerPosition, true
	case "team_id":
		return e.TeamID, true
	case "team_name":
		return e.TeamName, true
	case "event_type":
		return e.EventType, true
	case "event_subtype":
		return e.EventSubtype, true
	case "end_type":
		return e.EndType, true
	case "attacking_side":
		return e.AttackingSide, true
	case "shot_range":
		return e.ShotRange, true
	case "pitch_zone":
		return e.PitchZone, true
	case "lead_to_goal":
		return boolString(e.LeadToGoal), true
	case "targeted":
		return boolString(e.Targeted), true
	case "received":
		return boolString(e.Received), true
	case "is_header":
		return boolString(e.IsHeader), true
	case "quick_pass":
		return boolString(e.QuickPass), true
	case "progressive_pass":
		return boolString(e.ProgressivePass), true
	case "line_break_pass":
		return boolString(e.LineBreakPass), true
	case "last_line_break":
		return boolString(e.LastLineBreak), true
	case "opponents_bypassed":
		return boolString(e.OpponentsBypassed), true
	case "moved_defensive_line":
		return boolString(e.MovedDefensiveLine), true
	case "dangerous_movement":
		return boolString(e.DangerousMovement), true
	case "defender_ball_recovery":
		return boolString(e.DefenderBallRecovery), true
	case "associated_player_possession_event_id":
		return e.AssociatedPossessionEventID, true
	}
	return "", false
}

// NumericField returns the named numeric column. Derived features come
// back as NaN when their precondition did not hold for this event. The
// second return is false for unknown column names.
func (e *Event) NumericField(name string) (float64, bool) {
	switch name {
	case "minute":
		return e.Minute, true
	case "frame_start":
		return float64(e.FrameStart), true
	case "frame_end":
		return float64(e.FrameEnd), true
	case "x_start":
		return e.XStart, true
	case "y_start":
		return e.YStart, true
	case "x_end":
		return e.XEnd, true
	case "y_end":
		return e.YEnd, true
	case "xg":
		return e.XG, true
	case "xloss_player_possession_start":
		return e.XLossPossessionStart, true
	case "xpass_completion":
		return e.XPassCompletion, true
	case "passing_option_score":
		return e.PassingOptionScore, true
	case "shot_distance_to_goal":
		return e.ShotDistanceToGoal, true
	case "shot_xg_delta":
		return e.ShotXGDelta, true
	case "defender_distance_to_ball_carrier":
		return e.DefenderDistanceToBallCarrier, true
	case "xloss_delta_under_pressure":
		return e.XLossDeltaUnderPressure, true
	case "passing_decision_delta":
		return e.PassingDecisionDelta, true
	case "xpass_delta":
		return e.XPassDelta, true
	case "xcross_delta":
		return e.XCrossDelta, true
	}
	return 0, false
}
