package report

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/internal/domain/selection"
	"github.com/okian/ricecast/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	color.NoColor = true
}

// fixedSource serves one 30-day scenario.
type fixedSource struct{}

var day0 = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func (fixedSource) Scenarios(context.Context) []model.Scenario {
	return []model.Scenario{{ID: 1, Units: 32, WindowSize: 7, MaxEpochs: 100}}
}

func (s fixedSource) Scenario(ctx context.Context, id int) (model.Scenario, error) {
	if id != 1 {
		return model.Scenario{}, errors.New("unknown scenario")
	}
	return s.Scenarios(ctx)[0], nil
}

func (fixedSource) Records(context.Context, int) ([]model.PriceRecord, error) {
	out := make([]model.PriceRecord, 30)
	for i := range out {
		out[i] = model.PriceRecord{Index: i + 1, Date: day0.AddDate(0, 0, i), Actual: 200, Predicted: 150}
	}
	out[2].Actual = math.NaN()
	return out, nil
}

func (fixedSource) History(context.Context) ([]model.HistoricalPrice, error) { return nil, nil }

func TestRun(t *testing.T) {
	ctx := context.Background()
	svc := service.New(service.WithSource(fixedSource{}))

	Convey("Given a report over the whole window", t, func() {
		var out bytes.Buffer
		err := Run(ctx, &out, svc, Config{Scenario: 1})
		text := out.String()

		Convey("Then it should print the model, a page of rows and the metrics", func() {
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "=== Model 1 ===")
			So(text, ShouldContainSubstring, "units: 32  window size: 7  max epochs: 100")
			So(text, ShouldContainSubstring, "rows 1-30 of 30: 01 January 2022 to 30 January 2022")
			So(text, ShouldContainSubstring, "2022-01-10")
			So(text, ShouldNotContainSubstring, "2022-01-11")
			So(text, ShouldContainSubstring, "showing 10 of 30 rows")
			So(text, ShouldContainSubstring, "MSE:  2500")
			So(text, ShouldContainSubstring, "MAPE: 0.25")
			So(text, ShouldContainSubstring, "Quality: fair")
			So(text, ShouldContainSubstring, "1 day(s) with a missing price skipped")
		})
	})

	Convey("Given -all and a date", t, func() {
		var out bytes.Buffer
		err := Run(ctx, &out, svc, Config{Scenario: 1, From: 5, To: 25, All: true, Date: "2022-01-03"})
		text := out.String()

		Convey("Then every selected row and the day should be printed", func() {
			So(err, ShouldBeNil)
			So(text, ShouldContainSubstring, "2022-01-25")
			So(text, ShouldNotContainSubstring, "showing")
			So(text, ShouldContainSubstring, "Predicted price: 150")
			So(text, ShouldContainSubstring, "Actual price:    -")
		})
	})

	Convey("Given an invalid range", t, func() {
		err := Run(ctx, &bytes.Buffer{}, svc, Config{Scenario: 1, From: 10, To: 40})
		So(errors.Is(err, selection.ErrInvalidRange), ShouldBeTrue)
	})

	Convey("Given a malformed date", t, func() {
		err := Run(ctx, &bytes.Buffer{}, svc, Config{Scenario: 1, Date: "3 Jan"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "YYYY-MM-DD")
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var out bytes.Buffer
		ShowHelp(&out)

		Convey("Then every flag should be documented", func() {
			for _, f := range []string{"-scenario", "-from", "-to", "-date", "-data", "-all", "-verbose"} {
				So(strings.Contains(out.String(), f), ShouldBeTrue)
			}
		})
	})
}
