// Package features derives per-event analytical columns from
// possession/follow-up event pairs.
package features

import (
	"context"
	"math"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/pkg/logger"
	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Pitch geometry and feature validity constants.
const (
	goalX     = 52.5
	goalY     = 0.0
	goalWidth = 7.32

	// A press counts only when the defender starts within this distance
	// of the ball carrier and within this many frames of the possession.
	maxPressDistance = 6.0
	maxFrameGap      = 20

	// shotCloseMaxDistance splits shots into close and long range buckets.
	shotCloseMaxDistance = 20.0

	// wideZoneMinY splits the pitch into wide and interior zones.
	wideZoneMinY = 20.0
)

// XGModel is the pre-trained shot classifier. Only its application is in
// scope here: the enricher hands it precomputed geometric features and
// reads back a goal probability.
type XGModel interface {
	// PredictProbability returns the probability in [0, 1] that a shot
	// with the given geometry results in a goal.
	PredictProbability(distance, angle float64, header bool) float64
}

// Enricher appends derived feature columns to event snapshots.
type Enricher struct {
	xgModel XGModel
	logger  logger.Logger
}

// NewEnricher creates an enricher with configuration options.
func NewEnricher(opts ...Option) *Enricher {
	e := &Enricher{
		logger: logger.Get().Named("features"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enrich returns a copy of events with all derived columns computed.
// The input slice is never mutated. A feature whose inputs are missing
// is skipped and logged rather than aborting the pass.
func (e *Enricher) Enrich(ctx context.Context, events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)

	pairs := buildAssociations(out)

	e.addBuckets(out)
	e.addShotFeatures(ctx, out)
	e.addPressingFeatures(ctx, out, pairs)
	e.addPassingDecisionFeatures(ctx, out, pairs)
	e.addExpectedPassFeatures(ctx, out, pairs)

	return out
}

// association pairs a possession event with one of its follow-up events,
// both referenced by index into the working slice.
type association struct {
	poss  int
	assoc int
}

// buildAssociations joins every non-possession event carrying an
// associated possession id to its possession within the same match.
func buildAssociations(events []model.Event) []association {
	type key struct {
		match string
		event string
	}

	possessions := make(map[key]int)
	for i := range events {
		if events[i].EventType == model.EventTypePlayerPossession {
			possessions[key{match: events[i].MatchID, event: events[i].EventID}] = i
		}
	}

	var pairs []association
	for i := range events {
		id := events[i].AssociatedPossessionEventID
		if id == "" {
			continue
		}
		if p, ok := possessions[key{match: events[i].MatchID, event: id}]; ok {
			pairs = append(pairs, association{poss: p, assoc: i})
		}
	}

	return pairs
}

// normalizeCoordinates aligns a point as if attacking left to right.
// Negating both axes for right-to-left rows makes defender-distance and
// zone comparisons direction-independent.
func normalizeCoordinates(x, y float64, attackingSide string) (float64, float64) {
	if attackingSide == model.AttackingRightToLeft {
		return -x, -y
	}
	return x, y
}

// addBuckets derives the string bucket columns consumed by aggregation
// conditions.
func (e *Enricher) addBuckets(events []model.Event) {
	for i := range events {
		ev := &events[i]

		_, y := normalizeCoordinates(ev.XStart, ev.YStart, ev.AttackingSide)
		if math.Abs(y) > wideZoneMinY {
			ev.PitchZone = model.PitchZoneWide
		} else {
			ev.PitchZone = model.PitchZoneInterior
		}
	}
}

// shotAngle computes the opening angle to the goal mouth from the shot
// end location.
func shotAngle(xEnd, yEnd float64) float64 {
	dx := goalX - xEnd
	dy := math.Abs(goalY - yEnd)
	return math.Atan2(goalWidth*dx, dx*dx+dy*dy-(goalWidth/2)*(goalWidth/2))
}

// addShotFeatures computes shot distance, applies the xG model where the
// probability is missing, and writes the xG delta.
func (e *Enricher) addShotFeatures(ctx context.Context, events []model.Event) {
	var enriched int
	for i := range events {
		ev := &events[i]
		if ev.EventType != model.EventTypePlayerPossession || ev.EndType != model.EndTypeShot {
			continue
		}

		dx := ev.XEnd - goalX
		dy := ev.YEnd - goalY
		ev.ShotDistanceToGoal = math.Sqrt(dx*dx + dy*dy)

		if ev.ShotDistanceToGoal <= shotCloseMaxDistance {
			ev.ShotRange = model.ShotRangeClose
		} else {
			ev.ShotRange = model.ShotRangeLong
		}

		if math.IsNaN(ev.XG) {
			if e.xgModel == nil {
				e.logger.Debug(ctx, "no xG available for shot",
					logger.String("match_id", ev.MatchID),
					logger.String("event_id", ev.EventID),
				)
				metrics.RecordEnrichmentSkip("shot_xg_delta")
				continue
			}
			ev.XG = e.xgModel.PredictProbability(ev.ShotDistanceToGoal, shotAngle(ev.XEnd, ev.YEnd), ev.IsHeader)
		}

		if ev.LeadToGoal {
			ev.ShotXGDelta = 1.0 - ev.XG
		} else {
			ev.ShotXGDelta = -ev.XG
		}
		enriched++
	}

	metrics.RecordEnrichedFeature("shot_xg_delta", enriched)
}

// addPressingFeatures computes defender distance, recovery flags, and the
// possession's xLoss delta for on-ball engagement pairs.
func (e *Enricher) addPressingFeatures(ctx context.Context, events []model.Event, pairs []association) {
	var enriched int
	for _, p := range pairs {
		poss := &events[p.poss]
		press := &events[p.assoc]

		if press.EventType != model.EventTypeOnBallEngagement {
			continue
		}

		possX, possY := normalizeCoordinates(poss.XStart, poss.YStart, poss.AttackingSide)
		pressX, pressY := normalizeCoordinates(press.XStart, press.YStart, press.AttackingSide)

		dx := pressX - possX
		dy := pressY - possY
		distance := math.Sqrt(dx*dx + dy*dy)

		frameGap := press.FrameStart - poss.FrameStart
		if frameGap < 0 {
			frameGap = -frameGap
		}

		valid := distance <= maxPressDistance && frameGap <= maxFrameGap

		// An invalid press stays NaN: absence must be distinguishable
		// from a contact at distance zero.
		if valid {
			press.DefenderDistanceToBallCarrier = distance
		} else {
			press.DefenderDistanceToBallCarrier = math.NaN()
		}

		lost := poss.EndType == model.EndTypePossessionLoss
		press.DefenderBallRecovery = lost

		xloss := press.XLossPossessionStart
		if math.IsNaN(xloss) {
			e.logger.Debug(ctx, "missing xLoss for engagement",
				logger.String("match_id", press.MatchID),
				logger.String("event_id", press.EventID),
			)
			metrics.RecordEnrichmentSkip("xloss_delta_under_pressure")
			continue
		}

		if lost {
			poss.XLossDeltaUnderPressure = -(1.0 - xloss)
		} else {
			poss.XLossDeltaUnderPressure = xloss
		}
		enriched++
	}

	metrics.RecordEnrichedFeature("xloss_delta_under_pressure", enriched)
}

// isPassingOption reports whether an associated event is a pass candidate.
func isPassingOption(eventType string) bool {
	return eventType == model.EventTypeOffBallRun || eventType == model.EventTypePassingOption
}

// addPassingDecisionFeatures writes chosen-minus-best option score deltas
// onto possessions where one of the candidate options was targeted.
func (e *Enricher) addPassingDecisionFeatures(ctx context.Context, events []model.Event, pairs []association) {
	options := make(map[int][]int)
	for _, p := range pairs {
		if isPassingOption(events[p.assoc].EventType) {
			options[p.poss] = append(options[p.poss], p.assoc)
		}
	}

	var enriched int
	for possIdx, assocIdxs := range options {
		chosen := math.NaN()
		best := math.NaN()

		for _, i := range assocIdxs {
			score := events[i].PassingOptionScore
			if math.IsNaN(score) {
				continue
			}
			if events[i].Targeted && math.IsNaN(chosen) {
				chosen = score
			}
			if math.IsNaN(best) || score > best {
				best = score
			}
		}

		if math.IsNaN(chosen) {
			continue
		}

		// The chosen option is eligible to be its own maximum: an
		// optimal decision yields delta 0.
		events[possIdx].PassingDecisionDelta = chosen - best
		enriched++
	}

	metrics.RecordEnrichedFeature("passing_decision_delta", enriched)
}

// addExpectedPassFeatures writes the xPass or xCross delta of the
// targeted option onto its possession, routed by the option subtype.
func (e *Enricher) addExpectedPassFeatures(ctx context.Context, events []model.Event, pairs []association) {
	var enriched int
	for _, p := range pairs {
		opt := &events[p.assoc]
		if !isPassingOption(opt.EventType) || !opt.Targeted {
			continue
		}

		xpass := opt.XPassCompletion
		if math.IsNaN(xpass) {
			e.logger.Debug(ctx, "missing xPass for targeted option",
				logger.String("match_id", opt.MatchID),
				logger.String("event_id", opt.EventID),
			)
			metrics.RecordEnrichmentSkip("xpass_delta")
			continue
		}

		var delta float64
		if opt.Received {
			delta = 1.0 - xpass
		} else {
			delta = -xpass
		}

		if opt.EventSubtype == "cross_receiver" {
			events[p.poss].XCrossDelta = delta
		} else {
			events[p.poss].XPassDelta = delta
		}
		enriched++
	}

	metrics.RecordEnrichedFeature("xpass_delta", enriched)
}
