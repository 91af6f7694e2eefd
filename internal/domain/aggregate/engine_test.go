package aggregate_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/halfspace-analytics/halfspace/internal/domain/aggregate"
	"github.com/halfspace-analytics/halfspace/internal/domain/model"
	"github.com/halfspace-analytics/halfspace/pkg/logger"

	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// eventOf builds a minimal event for one player.
func eventOf(playerID, playerName, eventType string) model.Event {
	ev := model.NewEvent()
	ev.MatchID = "m1"
	ev.PlayerID = playerID
	ev.PlayerName = playerName
	ev.EventType = eventType
	return ev
}

// fixtureEvents returns two players with uneven pass and shot activity.
func fixtureEvents() []model.Event {
	var events []model.Event

	for i := 0; i < 3; i++ {
		events = append(events, eventOf("p1", "Ada", model.EventTypePass))
	}
	events = append(events, eventOf("p2", "Ben", model.EventTypePass))

	shot := eventOf("p1", "Ada", model.EventTypePlayerPossession)
	shot.EndType = model.EndTypeShot
	shot.ShotXGDelta = 0.7
	events = append(events, shot)

	miss := eventOf("p1", "Ada", model.EventTypePlayerPossession)
	miss.EndType = model.EndTypeShot
	miss.ShotXGDelta = -0.1
	events = append(events, miss)

	return events
}

// fixtureRegistry registers a small two-context configuration.
func fixtureRegistry() *aggregate.Registry {
	r := aggregate.NewRegistry()
	r.Register(aggregate.Config{
		Name: "activity",
		Contexts: map[string]aggregate.Condition{
			"passes": aggregate.NewCondition(aggregate.Clause{
				Column: "event_type", Op: aggregate.OpEqual, Value: model.EventTypePass,
			}),
			"shots": aggregate.NewCondition(
				aggregate.Clause{Column: "event_type", Op: aggregate.OpEqual, Value: model.EventTypePlayerPossession},
				aggregate.Clause{Column: "end_type", Op: aggregate.OpEqual, Value: model.EndTypeShot},
			),
		},
		Metrics: map[string]aggregate.Metric{
			"count":              aggregate.Count(),
			"mean_shot_xg_delta": aggregate.Mean("shot_xg_delta"),
		},
	})
	return r
}

func TestAggregate(t *testing.T) {
	Convey("Given an engine with a two-context configuration", t, func() {
		engine := aggregate.NewEngine(aggregate.WithRegistry(fixtureRegistry()))
		events := fixtureEvents()
		ctx := context.Background()

		Convey("When aggregating by player", func() {
			table, err := engine.Aggregate(ctx, events, "activity", []string{"player_id"}, model.Filters{})
			So(err, ShouldBeNil)

			Convey("Then counts land per context column", func() {
				ada, ok := table.Lookup("p1")
				So(ok, ShouldBeTrue)
				So(ada.Value("count_passes"), ShouldEqual, 3)
				So(ada.Value("count_shots"), ShouldEqual, 2)
				So(ada.Value("mean_shot_xg_delta_shots"), ShouldAlmostEqual, 0.3)
			})

			Convey("Then the outer merge zero-fills groups missing from a context", func() {
				ben, ok := table.Lookup("p2")
				So(ok, ShouldBeTrue)
				So(ben.Value("count_passes"), ShouldEqual, 1)
				So(ben.Value("count_shots"), ShouldEqual, 0)
				So(ben.Has("count_shots"), ShouldBeFalse)
			})

			Convey("Then rows come back in stable key order", func() {
				rows := table.Rows()
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Key("player_id"), ShouldEqual, "p1")
				So(rows[1].Key("player_id"), ShouldEqual, "p2")
			})
		})

		Convey("When a mean column is NaN for every matched row", func() {
			noDelta := []model.Event{eventOf("p1", "Ada", model.EventTypePass)}
			table, err := engine.Aggregate(ctx, noDelta, "activity", []string{"player_id"}, model.Filters{})
			So(err, ShouldBeNil)

			Convey("Then the missing cell is filled with zero", func() {
				ada, ok := table.Lookup("p1")
				So(ok, ShouldBeTrue)
				So(ada.Value("mean_shot_xg_delta_shots"), ShouldEqual, 0)
			})
		})

		Convey("When filters exclude everything", func() {
			table, err := engine.Aggregate(ctx, events, "activity", []string{"player_id"},
				model.Filters{Match: "other-match"})
			So(err, ShouldBeNil)
			So(table.Empty(), ShouldBeTrue)
		})

		Convey("When the configuration name is unknown", func() {
			_, err := engine.Aggregate(ctx, events, "nope", []string{"player_id"}, model.Filters{})
			So(errors.Is(err, aggregate.ErrUnknownConfig), ShouldBeTrue)
		})

		Convey("When no group-by columns are given", func() {
			_, err := engine.Aggregate(ctx, events, "activity", nil, model.Filters{})
			So(errors.Is(err, aggregate.ErrNoGroupBy), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := engine.Aggregate(cancelled, events, "activity", []string{"player_id"}, model.Filters{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAggregateMany(t *testing.T) {
	Convey("Given an engine and several configuration names", t, func() {
		engine := aggregate.NewEngine(aggregate.WithRegistry(fixtureRegistry()))
		events := fixtureEvents()

		Convey("When one of the names is unknown", func() {
			results := engine.AggregateMany(context.Background(), events,
				[]string{"activity", "missing"}, []string{"player_id"}, model.Filters{})

			Convey("Then the known one succeeds and the unknown one is empty", func() {
				So(results, ShouldHaveLength, 2)
				So(results["activity"].Len(), ShouldEqual, 2)
				So(results["missing"].Empty(), ShouldBeTrue)
			})
		})
	})
}

func TestConditions(t *testing.T) {
	Convey("Given condition expressions", t, func() {
		pass := eventOf("p1", "Ada", model.EventTypePass)
		pass.EventSubtype = "through_ball"

		Convey("When parsing an equality clause", func() {
			cond, err := aggregate.ParseCondition("event_type == 'pass'")
			So(err, ShouldBeNil)
			So(cond.Matches(&pass), ShouldBeTrue)
		})

		Convey("When parsing a conjunction with inequality", func() {
			cond, err := aggregate.ParseCondition("event_type == 'pass' and event_subtype != 'cross'")
			So(err, ShouldBeNil)
			So(cond.Matches(&pass), ShouldBeTrue)

			cross := pass
			cross.EventSubtype = "cross"
			So(cond.Matches(&cross), ShouldBeFalse)
		})

		Convey("When a clause names an unknown column", func() {
			cond, err := aggregate.ParseCondition("no_such_column == 'x'")
			So(err, ShouldBeNil)

			Convey("Then the clause never matches", func() {
				So(cond.Matches(&pass), ShouldBeFalse)
			})
		})

		Convey("When the expression is malformed", func() {
			_, err := aggregate.ParseCondition("event_type > 'pass'")
			So(errors.Is(err, aggregate.ErrMalformedConfig), ShouldBeTrue)

			_, err = aggregate.ParseCondition("")
			So(errors.Is(err, aggregate.ErrMalformedConfig), ShouldBeTrue)
		})

		Convey("When matching boolean flag columns", func() {
			targeted := eventOf("p1", "Ada", model.EventTypeOffBallRun)
			targeted.Targeted = true

			cond, err := aggregate.ParseCondition(`targeted == "true"`)
			So(err, ShouldBeNil)
			So(cond.Matches(&targeted), ShouldBeTrue)
		})
	})
}

func TestMetrics(t *testing.T) {
	Convey("Given metric specs", t, func() {
		Convey("When parsing valid specs", func() {
			for spec, want := range map[string]aggregate.Metric{
				"len":                 aggregate.Count(),
				"xg.sum":              aggregate.Sum("xg"),
				"xg.mean":             aggregate.Mean("xg"),
				"shot_xg_delta.count": aggregate.ColumnCount("shot_xg_delta"),
				" minute.sum ":        aggregate.Sum("minute"),
			} {
				m, err := aggregate.ParseMetric(spec)
				So(err, ShouldBeNil)
				So(m, ShouldResemble, want)
			}
		})

		Convey("When parsing malformed specs", func() {
			for _, spec := range []string{"", "sum", "mean", ".sum", "xg.median"} {
				_, err := aggregate.ParseMetric(spec)
				So(errors.Is(err, aggregate.ErrMalformedConfig), ShouldBeTrue)
			}
		})

		Convey("When applying metrics over a group with NaN cells", func() {
			a := eventOf("p1", "Ada", model.EventTypePlayerPossession)
			a.ShotXGDelta = 0.5
			b := eventOf("p1", "Ada", model.EventTypePlayerPossession)
			// b keeps the NaN initial value.
			group := []*model.Event{&a, &b}

			sum, ok := aggregate.Sum("shot_xg_delta").Apply(group)
			So(ok, ShouldBeTrue)
			So(sum, ShouldAlmostEqual, 0.5)

			mean, ok := aggregate.Mean("shot_xg_delta").Apply(group)
			So(ok, ShouldBeTrue)
			So(mean, ShouldAlmostEqual, 0.5)

			n, ok := aggregate.ColumnCount("shot_xg_delta").Apply(group)
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 1)

			b.ShotXGDelta = math.NaN()
			_, ok = aggregate.Mean("xg").Apply([]*model.Event{&b})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRegistryLoadFile(t *testing.T) {
	Convey("Given a YAML aggregation configuration file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "aggregations.yaml")

		yamlBody := `
possession_summary:
  contexts:
    possessions: "event_type == 'player_possession'"
    losses: "event_type == 'player_possession' and end_type == 'possession_loss'"
  metrics:
    count: "len"
    mean_xloss: "xloss_player_possession_start.mean"
`
		So(os.WriteFile(path, []byte(yamlBody), 0o600), ShouldBeNil)

		Convey("When loading it over the built-in registry", func() {
			r := aggregate.NewRegistry()
			So(r.LoadFile(path), ShouldBeNil)

			Convey("Then the new configuration resolves", func() {
				cfg, err := r.Get("possession_summary")
				So(err, ShouldBeNil)
				So(cfg.Contexts, ShouldHaveLength, 2)
				So(cfg.Metrics, ShouldHaveLength, 2)
			})

			Convey("Then the built-ins are still registered", func() {
				_, err := r.Get("player_attributes")
				So(err, ShouldBeNil)
				_, err = r.Get("player_style_profile")
				So(err, ShouldBeNil)
			})
		})

		Convey("When a metric spec is malformed", func() {
			bad := filepath.Join(dir, "bad.yaml")
			So(os.WriteFile(bad, []byte("broken:\n  metrics:\n    count: \"sum\"\n"), 0o600), ShouldBeNil)

			r := aggregate.NewRegistry()
			So(errors.Is(r.LoadFile(bad), aggregate.ErrMalformedConfig), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			r := aggregate.NewRegistry()
			So(r.LoadFile(filepath.Join(dir, "nope.yaml")), ShouldNotBeNil)
		})
	})
}
