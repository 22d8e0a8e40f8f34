package selection_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture(n int) []model.PriceRecord {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PriceRecord, n)
	for i := range out {
		out[i] = model.PriceRecord{
			Index:     i + 1,
			Date:      start.AddDate(0, 0, i),
			Actual:    10000 + float64(i),
			Predicted: 10010 + float64(i),
		}
	}
	return out
}

func TestByIndexRange(t *testing.T) {
	Convey("Given 181 loaded records", t, func() {
		records := fixture(181)

		Convey("When selecting the full window", func() {
			got, err := selection.ByIndexRange(records, 1, len(records))

			Convey("Then it should return the original sequence in order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, records)
			})
		})

		Convey("When selecting a single day", func() {
			got, err := selection.ByIndexRange(records, 5, 5)

			Convey("Then it should return exactly the record at index 5", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Index, ShouldEqual, 5)
				So(got[0], ShouldResemble, records[4])
			})
		})

		Convey("When selecting an inner window", func() {
			got, err := selection.ByIndexRange(records, 10, 19)

			Convey("Then it should preserve order and bounds", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 10)
				So(got[0].Index, ShouldEqual, 10)
				So(got[9].Index, ShouldEqual, 19)
			})

			Convey("And mutating the result should not touch the source", func() {
				got[0].Actual = -1
				So(records[9].Actual, ShouldEqual, 10009.0)
			})
		})

		Convey("When the range is invalid", func() {
			for _, r := range [][2]int{{0, 5}, {6, 5}, {1, 182}, {-3, -1}} {
				_, err := selection.ByIndexRange(records, r[0], r[1])
				So(errors.Is(err, selection.ErrInvalidRange), ShouldBeTrue)
			}
		})

		Convey("When the sequence is empty", func() {
			_, err := selection.ByIndexRange(nil, 1, 1)

			Convey("Then any range should be rejected", func() {
				So(errors.Is(err, selection.ErrInvalidRange), ShouldBeTrue)
			})
		})
	})
}

func TestByDate(t *testing.T) {
	Convey("Given records starting 2022-01-01", t, func() {
		records := fixture(181)

		Convey("When picking an existing date", func() {
			got, err := selection.ByDate(records, time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC))

			Convey("Then it should return the unique matching record", func() {
				So(err, ShouldBeNil)
				So(got.Index, ShouldEqual, 32)
			})
		})

		Convey("When the date carries a time of day or another zone", func() {
			loc := time.FixedZone("WIB", 7*60*60)
			got, err := selection.ByDate(records, time.Date(2022, 1, 3, 18, 30, 0, 0, loc))

			Convey("Then only the calendar date should be compared", func() {
				So(err, ShouldBeNil)
				So(got.Index, ShouldEqual, 3)
			})
		})

		Convey("When picking a date outside the window", func() {
			_, err := selection.ByDate(records, time.Date(2022, 12, 25, 0, 0, 0, 0, time.UTC))

			Convey("Then it should signal not found", func() {
				So(errors.Is(err, selection.ErrNotFound), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "2022-12-25")
			})
		})
	})
}

func TestPairsAndPage(t *testing.T) {
	Convey("Given a small selection", t, func() {
		records := fixture(23)

		Convey("When projecting pairs", func() {
			actual, predicted := selection.Pairs(records[:3])

			Convey("Then columns should stay aligned", func() {
				So(actual, ShouldResemble, []float64{10000, 10001, 10002})
				So(predicted, ShouldResemble, []float64{10010, 10011, 10012})
			})
		})

		Convey("When paginating by 10", func() {
			first, page, pages := selection.Page(records, 1, 10)
			last, lastPage, _ := selection.Page(records, 3, 10)
			clamped, clampedPage, _ := selection.Page(records, 99, 10)

			Convey("Then pages should split the rows", func() {
				So(pages, ShouldEqual, 3)
				So(page, ShouldEqual, 1)
				So(first, ShouldHaveLength, 10)
				So(lastPage, ShouldEqual, 3)
				So(last, ShouldHaveLength, 3)
				So(clampedPage, ShouldEqual, 3)
				So(clamped, ShouldResemble, last)
			})
		})

		Convey("When paginating nothing", func() {
			rows, page, pages := selection.Page(nil, 2, 10)

			Convey("Then a single empty page should be reported", func() {
				So(rows, ShouldBeEmpty)
				So(page, ShouldEqual, 1)
				So(pages, ShouldEqual, 1)
			})
		})
	})
}
