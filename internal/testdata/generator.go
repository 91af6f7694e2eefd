// Package testdata generates deterministic synthetic match datasets for
// tests and local runs. The same seed always yields the same files, so
// assertions against generated data stay stable.
package testdata

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
)

// Config controls the shape of a generated dataset.
type Config struct {
	Matches        int
	PlayersPerTeam int
	Seed           int64
}

// DefaultConfig returns a small dataset good enough to exercise every
// aggregation context.
func DefaultConfig() Config {
	return Config{
		Matches:        2,
		PlayersPerTeam: 11,
		Seed:           42,
	}
}

// positions assigns a plausible formation slot per player index.
var positions = []string{ //nolint:gochecknoglobals // fixed generation table
	"GK", "RB", "RCB", "LCB", "LB", "DM", "RM", "LM", "AM", "RW", "CF",
}

// teamNames are the two synthetic clubs facing each other every match.
var teamNames = []string{"Norhaven FC", "Südpark 04"} //nolint:gochecknoglobals // fixed generation table

type generator struct {
	rng      *rand.Rand
	events   []model.Event
	eventID  int
	teamSize int
}

// Generate produces the full synthetic event set across matches. The
// same players appear in every match so per-90 values accumulate.
func Generate(cfg Config) []model.Event {
	g := &generator{
		rng:      rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // deterministic test data
		teamSize: cfg.PlayersPerTeam,
	}

	for m := 0; m < cfg.Matches; m++ {
		matchID := fmt.Sprintf("match-%02d", m+1)
		for team := 0; team < 2; team++ {
			for p := 0; p < cfg.PlayersPerTeam; p++ {
				g.playerMatchEvents(matchID, team, p)
			}
		}
	}
	return g.events
}

// Physical derives physical aggregates consistent with the generated
// events: every player plays each match in full.
func Physical(cfg Config) map[string]model.PhysicalProfile {
	rng := rand.New(rand.NewSource(cfg.Seed + 1)) //nolint:gosec // deterministic test data

	profiles := make(map[string]model.PhysicalProfile)
	for team := 0; team < 2; team++ {
		for p := 0; p < cfg.PlayersPerTeam; p++ {
			id := playerID(team, p)
			profile := model.NewPhysicalProfile(id)
			profile.MinutesFullAll = float64(90 * cfg.Matches)
			profile.PSV99Top5 = 28 + rng.Float64()*6
			profile.TimeToSprintTop3 = 1 + rng.Float64()*2
			profile.TotalDistanceFullAll = float64(cfg.Matches) * (9500 + rng.Float64()*2500)
			profile.SprintDistanceFullAll = float64(cfg.Matches) * (150 + rng.Float64()*450)
			profiles[id] = profile
		}
	}
	return profiles
}

func playerID(team, p int) string {
	return fmt.Sprintf("t%d-p%02d", team+1, p+1)
}

func playerName(team, p int) string {
	return fmt.Sprintf("Player %d.%02d", team+1, p+1)
}

// newEvent seeds the shared identity fields of one event.
func (g *generator) newEvent(matchID string, team, p int) model.Event {
	g.eventID++

	ev := model.NewEvent()
	ev.MatchID = matchID
	ev.EventID = fmt.Sprintf("ev-%06d", g.eventID)
	ev.PlayerID = playerID(team, p)
	ev.PlayerName = playerName(team, p)
	ev.PlayerPosition = positions[p%len(positions)]
	ev.TeamID = fmt.Sprintf("team-%d", team+1)
	ev.TeamName = teamNames[team]
	if team == 0 {
		ev.AttackingSide = model.AttackingLeftToRight
	} else {
		ev.AttackingSide = model.AttackingRightToLeft
	}
	ev.Minute = g.rng.Float64() * 90
	ev.FrameStart = int(ev.Minute * 60 * 25)
	ev.FrameEnd = ev.FrameStart + 25 + g.rng.Intn(100)
	return ev
}

// coords places an event inside the pitch, flipped for the attacking
// side so normalized coordinates land in the attacking half often.
func (g *generator) coords(ev *model.Event) {
	x := -20 + g.rng.Float64()*70 // biased toward the attacking half
	y := -34 + g.rng.Float64()*68
	if ev.AttackingSide == model.AttackingRightToLeft {
		x, y = -x, -y
	}
	ev.XStart, ev.YStart = x, y
	ev.XEnd, ev.YEnd = clampPitch(
		ev.XStart+(g.rng.Float64()-0.3)*15,
		ev.YStart+(g.rng.Float64()-0.5)*10,
	)
}

// playerMatchEvents emits one player's full event stream for a match.
func (g *generator) playerMatchEvents(matchID string, team, p int) {
	possessions := 6 + g.rng.Intn(5)
	for i := 0; i < possessions; i++ {
		g.possession(matchID, team, p)
	}

	passes := 8 + g.rng.Intn(8)
	for i := 0; i < passes; i++ {
		g.pass(matchID, team, p)
	}

	receptions := 4 + g.rng.Intn(6)
	for i := 0; i < receptions; i++ {
		g.reception(matchID, team, p)
	}

	headers := g.rng.Intn(4)
	for i := 0; i < headers; i++ {
		g.header(matchID, team, p)
	}

	recoveries := g.rng.Intn(3)
	for i := 0; i < recoveries; i++ {
		g.ballRecovery(matchID, team, p)
	}
}

// possession emits a player possession plus its satellite events:
// passing options, off-ball runs and an occasional defensive
// engagement by an opponent.
func (g *generator) possession(matchID string, team, p int) {
	ev := g.newEvent(matchID, team, p)
	ev.EventType = model.EventTypePlayerPossession
	g.coords(&ev)
	ev.XLossPossessionStart = g.rng.Float64() * 0.4
	ev.OpponentsBypassed = g.rng.Float64() < 0.3
	ev.MovedDefensiveLine = g.rng.Float64() < 0.2

	switch {
	case g.rng.Float64() < 0.2:
		ev.EndType = model.EndTypeShot
		g.placeShot(&ev)
		ev.LeadToGoal = g.rng.Float64() < 0.15
		if g.rng.Float64() < 0.5 {
			ev.XG = 0.02 + g.rng.Float64()*0.3
		}
	case g.rng.Float64() < 0.5:
		ev.EndType = model.EndTypePossessionLoss
	}

	possession := ev
	g.events = append(g.events, ev)

	options := 1 + g.rng.Intn(3)
	for i := 0; i < options; i++ {
		g.passingOption(matchID, team, p, possession.EventID, i == 0)
	}

	runs := g.rng.Intn(3)
	for i := 0; i < runs; i++ {
		g.offBallRun(matchID, team, p, possession.EventID)
	}

	if g.rng.Float64() < 0.5 {
		g.engagement(matchID, 1-team, g.rng.Intn(g.teamSize), possession)
	}
}

// placeShot moves the possession end point near the goal mouth.
func (g *generator) placeShot(ev *model.Event) {
	x := 52.5 - g.rng.Float64()*30
	y := -15 + g.rng.Float64()*30
	if ev.AttackingSide == model.AttackingRightToLeft {
		x, y = -x, -y
	}
	ev.XEnd, ev.YEnd = x, y
}

// passingOption emits a teammate's option linked to the possession.
// The receiving teammate index is derived from the possession holder.
func (g *generator) passingOption(matchID string, team, holder int, possessionID string, targeted bool) {
	mate := (holder + 1 + g.rng.Intn(g.teamSize-1)) % g.teamSize
	ev := g.newEvent(matchID, team, mate)
	ev.EventType = model.EventTypePassingOption
	g.coords(&ev)
	ev.AssociatedPossessionEventID = possessionID
	ev.Targeted = targeted
	ev.Received = targeted && g.rng.Float64() < 0.7
	ev.PassingOptionScore = g.rng.Float64()
	ev.XPassCompletion = 0.4 + g.rng.Float64()*0.55
	if g.rng.Float64() < 0.25 {
		ev.EventSubtype = "cross_receiver"
	}
	g.events = append(g.events, ev)
}

// offBallRun emits a run linked to the possession.
func (g *generator) offBallRun(matchID string, team, holder int, possessionID string) {
	mate := (holder + 1 + g.rng.Intn(g.teamSize-1)) % g.teamSize
	ev := g.newEvent(matchID, team, mate)
	ev.EventType = model.EventTypeOffBallRun
	g.coords(&ev)
	ev.AssociatedPossessionEventID = possessionID
	ev.Targeted = g.rng.Float64() < 0.4
	ev.PassingOptionScore = g.rng.Float64()
	ev.DangerousMovement = g.rng.Float64() < 0.2
	switch g.rng.Intn(3) {
	case 0:
		ev.EventSubtype = "run_in_behind"
	case 1:
		ev.EventSubtype = "run_ahead_of_ball"
	default:
		ev.EventSubtype = "association_run"
	}
	g.events = append(g.events, ev)
}

// engagement emits an opponent defender pressing the possession holder.
// Roughly two thirds land inside pressing range with a tight frame gap.
func (g *generator) engagement(matchID string, team, p int, possession model.Event) {
	ev := g.newEvent(matchID, team, p)
	ev.EventType = model.EventTypeOnBallEngagement
	ev.AssociatedPossessionEventID = possession.EventID
	ev.FrameStart = possession.FrameStart + g.rng.Intn(15)
	ev.FrameEnd = ev.FrameStart + 25

	// Defender coordinates are stored in the defender's own attacking
	// frame, mirrored from the carrier's.
	offset := 2 + g.rng.Float64()*3
	if g.rng.Float64() > 0.65 {
		offset = 8 + g.rng.Float64()*10 // out of pressing range
	}
	dx := possession.XStart - offset*0.7
	dy := possession.YStart + (g.rng.Float64()-0.5)*offset
	if ev.AttackingSide != possession.AttackingSide {
		dx, dy = -dx, -dy
	}
	ev.XStart, ev.YStart = dx, dy
	ev.XEnd, ev.YEnd = dx, dy
	g.events = append(g.events, ev)
}

// pass emits one pass with its stylistic flags.
func (g *generator) pass(matchID string, team, p int) {
	ev := g.newEvent(matchID, team, p)
	ev.EventType = model.EventTypePass
	g.coords(&ev)
	ev.QuickPass = g.rng.Float64() < 0.3
	ev.ProgressivePass = g.rng.Float64() < 0.25
	ev.LineBreakPass = g.rng.Float64() < 0.2
	ev.LastLineBreak = ev.LineBreakPass && g.rng.Float64() < 0.3
	g.events = append(g.events, ev)
}

// reception emits one pass reception in either open or tight space.
func (g *generator) reception(matchID string, team, p int) {
	ev := g.newEvent(matchID, team, p)
	ev.EventType = model.EventTypePassReception
	g.coords(&ev)
	if g.rng.Float64() < 0.5 {
		ev.EventSubtype = "open_space"
	} else {
		ev.EventSubtype = "tight_space"
	}
	g.events = append(g.events, ev)
}

// header emits one aerial action, won or lost.
func (g *generator) header(matchID string, team, p int) {
	ev := g.newEvent(matchID, team, p)
	if g.rng.Float64() < 0.5 {
		ev.EventType = model.EventTypeHeaderWon
	} else {
		ev.EventType = model.EventTypeHeaderLost
	}
	g.coords(&ev)
	ev.IsHeader = true
	if g.rng.Float64() < 0.5 {
		ev.EventSubtype = "duel"
	} else {
		ev.EventSubtype = "target"
	}
	g.events = append(g.events, ev)
}

// ballRecovery emits one loose-ball recovery.
func (g *generator) ballRecovery(matchID string, team, p int) {
	ev := g.newEvent(matchID, team, p)
	ev.EventType = model.EventTypeBallRecovery
	g.coords(&ev)
	g.events = append(g.events, ev)
}

// clampPitch keeps a coordinate pair on the pitch.
func clampPitch(x, y float64) (float64, float64) {
	return math.Max(-52.5, math.Min(52.5, x)), math.Max(-34, math.Min(34, y))
}
