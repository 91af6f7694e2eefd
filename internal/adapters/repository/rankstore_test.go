package repository_test

import (
	"context"
	"testing"

	"github.com/halfspace-analytics/halfspace/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTreapRankStore_UpdateRating(t *testing.T) {
	Convey("Given an empty rank store", t, func() {
		store := repository.NewTreapRankStore()
		ctx := context.Background()

		Convey("When a new rating is stored", func() {
			changed, err := store.UpdateRating(ctx, "p1", "Player One", 14.2)

			Convey("Then the store reports a change", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same rating is stored twice", func() {
			_, err := store.UpdateRating(ctx, "p1", "Player One", 14.2)
			So(err, ShouldBeNil)
			changed, err := store.UpdateRating(ctx, "p1", "Player One", 14.2)

			Convey("Then the second write is a no-op", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a rating drops", func() {
			_, err := store.UpdateRating(ctx, "p1", "Player One", 14.2)
			So(err, ShouldBeNil)
			changed, err := store.UpdateRating(ctx, "p1", "Player One", 9.8)

			Convey("Then the lower rating replaces the old one", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)

				entry, err := store.Rank(ctx, "p1")
				So(err, ShouldBeNil)
				So(entry.Rating, ShouldAlmostEqual, 9.8, 1e-9)
			})
		})
	})
}

func TestTreapRankStore_Rank(t *testing.T) {
	Convey("Given a store with tied and distinct ratings", t, func() {
		store := repository.NewTreapRankStore()
		ctx := context.Background()

		for _, row := range []struct {
			id     string
			name   string
			rating float64
		}{
			{"p1", "Alpha", 15.0},
			{"p2", "Beta", 12.5},
			{"p3", "Gamma", 12.5},
			{"p4", "Delta", 10.0},
		} {
			_, err := store.UpdateRating(ctx, row.id, row.name, row.rating)
			So(err, ShouldBeNil)
		}

		Convey("When ranks are queried", func() {
			top, err := store.Rank(ctx, "p1")
			So(err, ShouldBeNil)
			tiedA, err := store.Rank(ctx, "p2")
			So(err, ShouldBeNil)
			tiedB, err := store.Rank(ctx, "p3")
			So(err, ShouldBeNil)
			last, err := store.Rank(ctx, "p4")
			So(err, ShouldBeNil)

			Convey("Then tied ratings share a rank and the next rank is consecutive", func() {
				So(top.Rank, ShouldEqual, 1)
				So(tiedA.Rank, ShouldEqual, 2)
				So(tiedB.Rank, ShouldEqual, 2)
				So(last.Rank, ShouldEqual, 3)
			})
		})

		Convey("When an unknown player is queried", func() {
			_, err := store.Rank(ctx, "ghost")

			Convey("Then a not-found error is returned", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})
	})
}

func TestTreapRankStore_TopN(t *testing.T) {
	Convey("Given a populated rank store", t, func() {
		store := repository.NewTreapRankStore()
		ctx := context.Background()

		_, err := store.UpdateRating(ctx, "p3", "Gamma", 8.0)
		So(err, ShouldBeNil)
		_, err = store.UpdateRating(ctx, "p1", "Alpha", 16.0)
		So(err, ShouldBeNil)
		_, err = store.UpdateRating(ctx, "p2", "Beta", 12.0)
		So(err, ShouldBeNil)

		Convey("When the top two are requested", func() {
			entries, err := store.TopN(ctx, 2)

			Convey("Then the best ratings come back in order", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].PlayerID, ShouldEqual, "p1")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].PlayerID, ShouldEqual, "p2")
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When more entries are requested than exist", func() {
			entries, err := store.TopN(ctx, 10)

			Convey("Then the whole leaderboard is returned", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := store.TopN(ctx, 0)

			Convey("Then an invalid-limit error is returned", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})
	})
}
