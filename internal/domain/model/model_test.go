package model_test

import (
	"testing"
	"time"

	"github.com/okian/starline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayNormalization(t *testing.T) {
	Convey("Given times in various zones and precisions", t, func() {
		loc := time.FixedZone("X", -5*3600)

		Convey("When truncated with Day", func() {
			got := model.Day(time.Date(2021, 6, 1, 23, 45, 12, 0, loc))

			Convey("Then the result is a UTC midnight", func() {
				So(got.Location(), ShouldEqual, time.UTC)
				So(got.Hour(), ShouldEqual, 0)
				So(got.Equal(date(2021, 6, 2)), ShouldBeTrue)
			})
		})

		Convey("When truncated with MonthStart", func() {
			got := model.MonthStart(date(2021, 6, 17))

			Convey("Then the result is the first of the month", func() {
				So(got.Equal(date(2021, 6, 1)), ShouldBeTrue)
			})
		})
	})
}

func TestDenseSeriesValueAt(t *testing.T) {
	Convey("Given a dense series born at timeline index 2", t, func() {
		s := model.DenseSeries{
			ProjectID: "p",
			Offset:    2,
			Points: []model.Point{
				{Tick: date(2020, 3, 1), Value: 10},
				{Tick: date(2020, 4, 1), Value: 20},
				{Tick: date(2020, 5, 1), Value: 30},
			},
		}

		Convey("Then it is invisible before its birth tick", func() {
			_, ok := s.ValueAt(-1)
			So(ok, ShouldBeFalse)
			_, ok = s.ValueAt(1)
			So(ok, ShouldBeFalse)
		})

		Convey("Then in-range indexes map through the offset", func() {
			v, ok := s.ValueAt(2)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 10)

			v, ok = s.ValueAt(4)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 30)
		})

		Convey("Then indexes past the end clamp to the last point", func() {
			v, ok := s.ValueAt(9)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 30)
		})

		Convey("Then an empty series is never visible", func() {
			empty := model.DenseSeries{ProjectID: "q"}
			_, ok := empty.ValueAt(0)
			So(ok, ShouldBeFalse)
		})
	})
}
