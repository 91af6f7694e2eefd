package model_test

import (
	"testing"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterMatching(t *testing.T) {
	Convey("Given an event from a known match", t, func() {
		ev := model.NewEvent()
		ev.MatchID = "m1"
		ev.TeamName = "Home FC"
		ev.Minute = 37

		Convey("When no dimensions are set", func() {
			So(model.Filters{}.Matches(&ev), ShouldBeTrue)
		})

		Convey("When filtering by match", func() {
			So(model.Filters{Match: "m1"}.Matches(&ev), ShouldBeTrue)
			So(model.Filters{Match: "m2"}.Matches(&ev), ShouldBeFalse)
			So(model.Filters{Match: model.FilterAll}.Matches(&ev), ShouldBeTrue)
		})

		Convey("When filtering by team", func() {
			So(model.Filters{Team: "Home FC"}.Matches(&ev), ShouldBeTrue)
			So(model.Filters{Team: "Away FC"}.Matches(&ev), ShouldBeFalse)
			So(model.Filters{Team: model.FilterAll}.Matches(&ev), ShouldBeTrue)
		})

		Convey("When filtering by time range", func() {
			in := &model.TimeRange{StartMinute: 30, EndMinute: 45}
			out := &model.TimeRange{StartMinute: 46, EndMinute: 90}
			edge := &model.TimeRange{StartMinute: 37, EndMinute: 37}

			So(model.Filters{TimeRange: in}.Matches(&ev), ShouldBeTrue)
			So(model.Filters{TimeRange: out}.Matches(&ev), ShouldBeFalse)
			So(model.Filters{TimeRange: edge}.Matches(&ev), ShouldBeTrue)
		})

		Convey("When a player selection is set", func() {
			f := model.Filters{PlayerID: "p9", PlayerLabel: "Nine"}

			Convey("Then the event set is not narrowed", func() {
				So(f.Matches(&ev), ShouldBeTrue)
			})
		})
	})
}

func TestFilterHash(t *testing.T) {
	Convey("Given equivalent filter sets", t, func() {
		a := model.Filters{Match: "m1", Team: "Home FC"}
		b := model.Filters{Match: "m1", Team: "Home FC"}

		Convey("Then their hashes agree", func() {
			So(a.Hash(), ShouldEqual, b.Hash())
		})

		Convey("When a population dimension differs", func() {
			c := model.Filters{Match: "m2", Team: "Home FC"}
			d := model.Filters{Match: "m1", Team: "Home FC", TimeRange: &model.TimeRange{StartMinute: 0, EndMinute: 45}}

			So(c.Hash(), ShouldNotEqual, a.Hash())
			So(d.Hash(), ShouldNotEqual, a.Hash())
		})

		Convey("When only the selected player differs", func() {
			e := model.Filters{Match: "m1", Team: "Home FC", PlayerID: "p9", PlayerLabel: "Nine"}

			Convey("Then the population key is unchanged", func() {
				So(e.Hash(), ShouldEqual, a.Hash())
			})
		})
	})
}
