package api

import (
	"context"
	"errors"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/ricecast/internal/app"
)

func TestReadQuery(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty query", t, func() {
		var q dashboardQuery
		err := readQuery(ctx, url.Values{}, &q)

		Convey("Then defaults should apply", func() {
			So(err, ShouldBeNil)
			So(q.Tab, ShouldEqual, "forecast")
			So(q.Scenario, ShouldEqual, 1)
			So(q.Page, ShouldEqual, 1)
			So(q.From, ShouldEqual, 0)
		})
	})

	Convey("Given a full query", t, func() {
		values, _ := url.ParseQuery("tab=day&scenario=4&from=3&to=40&date=2022-03-15&page=2")
		var q dashboardQuery
		So(readQuery(ctx, values, &q), ShouldBeNil)

		Convey("Then folding it should produce the matching state", func() {
			st, err := q.State()
			So(err, ShouldBeNil)
			So(st.Tab, ShouldEqual, service.TabDay)
			So(st.ScenarioID, ShouldEqual, 4)
			So(st.From, ShouldEqual, 3)
			So(st.To, ShouldEqual, 40)
			So(st.Page, ShouldEqual, 2)
			So(st.Date.Format("2006-01-02"), ShouldEqual, "2022-03-15")
		})

		Convey("Then its URL form should round-trip", func() {
			var again dashboardQuery
			So(readQuery(ctx, q.values(), &again), ShouldBeNil)
			So(again, ShouldResemble, q)
		})
	})

	Convey("Given invalid values", t, func() {
		values, _ := url.ParseQuery("tab=settings&page=0&scenario=0")
		var q dashboardQuery
		err := readQuery(ctx, values, &q)

		Convey("Then every failing field should be listed", func() {
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			resp := badQuery(err)
			fields := make([]string, len(resp.Details))
			for i, d := range resp.Details {
				fields[i] = d.Field
			}
			So(fields, ShouldContain, "tab")
			So(fields, ShouldContain, "page")
			So(fields, ShouldContain, "scenario")
		})
	})

	Convey("Given an omitted page and scenario", t, func() {
		values, _ := url.ParseQuery("tab=day")
		var q dashboardQuery
		So(readQuery(ctx, values, &q), ShouldBeNil)

		Convey("Then defaults should still fill them", func() {
			So(q.Scenario, ShouldEqual, 1)
			So(q.Page, ShouldEqual, 1)
		})
	})
}

func TestDashboardQueryState(t *testing.T) {
	Convey("Given a query whose date skipped validation", t, func() {
		q := dashboardQuery{Tab: "day", Scenario: 2, Page: 1, Date: "15/03/2022"}

		Convey("Then folding it should report the date instead of dropping it", func() {
			_, err := q.State()
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			resp := badQuery(err)
			So(resp.Details, ShouldHaveLength, 1)
			So(resp.Details[0].Field, ShouldEqual, "date")
			So(resp.Details[0].Code, ShouldEqual, "ERR_DATETIME")
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given domain errors", t, func() {
		status, code := classify(service.ErrDateOutOfBounds)
		So(status, ShouldEqual, 400)
		So(code, ShouldEqual, "date_out_of_bounds")

		status, _ = classify(errors.New("boom"))
		So(status, ShouldEqual, 500)
	})
}
