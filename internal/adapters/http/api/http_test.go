package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/ricecast/internal/adapters/http/api"
	repository "github.com/okian/ricecast/internal/adapters/repository"
	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockSource serves generated records for scenarios 1 and 2.
type mockSource struct {
	loadErr error
}

var day0 = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func (m *mockSource) Scenarios(context.Context) []model.Scenario {
	return []model.Scenario{
		{ID: 1, Units: 32, WindowSize: 7, MaxEpochs: 100},
		{ID: 2, Units: 32, WindowSize: 30, MaxEpochs: 100},
	}
}

func (m *mockSource) Scenario(ctx context.Context, id int) (model.Scenario, error) {
	for _, s := range m.Scenarios(ctx) {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Scenario{}, fmt.Errorf("%w: %d", repository.ErrUnknownScenario, id)
}

func (m *mockSource) Records(ctx context.Context, id int) ([]model.PriceRecord, error) {
	if _, err := m.Scenario(ctx, id); err != nil {
		return nil, err
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.PriceRecord, 181)
	for i := range out {
		out[i] = model.PriceRecord{Index: i + 1, Date: day0.AddDate(0, 0, i), Actual: 100, Predicted: 125}
	}
	out[3].Predicted = math.NaN()
	return out, nil
}

func (m *mockSource) History(context.Context) ([]model.HistoricalPrice, error) {
	return []model.HistoricalPrice{
		{Index: 1, Date: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), Price: 9800},
		{Index: 2, Date: time.Date(2016, 1, 2, 0, 0, 0, 0, time.UTC), Price: 9850},
	}, nil
}

func newMux(src repository.Source) *http.ServeMux {
	svc := service.New(service.WithSource(src))
	server := api.NewServer(svc, svc, api.WithChartSize(4, 3))
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"details"`
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockSource{})

		Convey("Health endpoint should expose Prometheus metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Stats endpoint should return JSON", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})

		Convey("Scenarios endpoint should list the models", func() {
			w := get(mux, "/api/scenarios")
			So(w.Code, ShouldEqual, http.StatusOK)

			var got []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[1]["name"], ShouldEqual, "Model 2")
			So(got[1]["window_size"], ShouldEqual, 30.0)
		})

		Convey("Non-GET requests should be rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/forecast", bytes.NewReader(nil))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestForecastHandler(t *testing.T) {
	Convey("Given the forecast API", t, func() {
		mux := newMux(&mockSource{})

		Convey("When requesting the default window", func() {
			w := get(mux, "/api/forecast?scenario=1")

			Convey("Then the view should cover the whole scenario", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v["min"], ShouldEqual, 1.0)
				So(v["max"], ShouldEqual, 181.0)
				So(v["start_date"], ShouldEqual, "01 January 2022")
				So(v["rows"], ShouldHaveLength, 10)

				m := v["metrics"].(map[string]any)
				So(m["mse"], ShouldEqual, "625")
				So(m["rmse"], ShouldEqual, "25")
				So(m["mape"], ShouldEqual, "0.25")
				So(m["quality"], ShouldEqual, "fair")
				So(m["skipped"], ShouldEqual, 1.0)
			})

			Convey("Then missing prices should be null", func() {
				var v struct {
					Rows []map[string]any `json:"rows"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v.Rows[3]["predicted"], ShouldBeNil)
			})
		})

		Convey("When the range is inverted", func() {
			w := get(mux, "/api/forecast?scenario=1&from=20&to=10")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "invalid_range")
		})

		Convey("When a parameter is not a number", func() {
			w := get(mux, "/api/forecast?scenario=one")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			body := decodeError(w)
			So(body.Details, ShouldHaveLength, 1)
			So(body.Details[0].Code, ShouldEqual, "ERR_TYPE")
			So(body.Details[0].Field, ShouldEqual, "scenario")
		})

		Convey("When a parameter fails validation", func() {
			w := get(mux, "/api/forecast?scenario=1&from=-3")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			body := decodeError(w)
			So(body.Details, ShouldHaveLength, 1)
			So(body.Details[0].Code, ShouldEqual, "ERR_GTE")
			So(body.Details[0].Field, ShouldEqual, "from")
		})

		Convey("When the scenario is explicitly zero", func() {
			w := get(mux, "/api/forecast?scenario=0")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			body := decodeError(w)
			So(body.Code, ShouldEqual, "bad_request")
			So(body.Details, ShouldHaveLength, 1)
			So(body.Details[0].Code, ShouldEqual, "ERR_GTE")
			So(body.Details[0].Field, ShouldEqual, "scenario")
		})

		Convey("When the page is explicitly zero", func() {
			w := get(mux, "/api/forecast?scenario=1&page=0")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Details[0].Field, ShouldEqual, "page")
		})

		Convey("When the scenario is unknown", func() {
			w := get(mux, "/api/forecast?scenario=7")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "unknown_scenario")
		})
	})

	Convey("Given a source whose files are missing", t, func() {
		mux := newMux(&mockSource{loadErr: fmt.Errorf("%w: s1.csv", repository.ErrMissingFile)})

		Convey("Then the API should report a server error", func() {
			w := get(mux, "/api/forecast?scenario=1")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "missing_file")
		})
	})
}

func TestDayHandler(t *testing.T) {
	Convey("Given the single-date API", t, func() {
		mux := newMux(&mockSource{})

		Convey("When the date exists", func() {
			w := get(mux, "/api/forecast/day?scenario=1&date=2022-01-02")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"date":"2022-01-02"`)
			So(w.Body.String(), ShouldContainSubstring, `"predicted":125`)
		})

		Convey("When the date is badly formatted", func() {
			w := get(mux, "/api/forecast/day?scenario=1&date=02/01/2022")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Details[0].Code, ShouldEqual, "ERR_DATETIME")
		})

		Convey("When the date is outside the picker window", func() {
			w := get(mux, "/api/forecast/day?scenario=1&date=2022-07-01")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "date_out_of_bounds")
		})
	})
}

func TestHistoryHandler(t *testing.T) {
	Convey("Given the history API", t, func() {
		w := get(newMux(&mockSource{}), "/api/history")
		So(w.Code, ShouldEqual, http.StatusOK)

		var got []map[string]any
		So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
		So(got, ShouldHaveLength, 2)
		So(got[0]["date"], ShouldEqual, "2016-01-01")
	})
}

func TestChartAndExport(t *testing.T) {
	Convey("Given the chart and export routes", t, func() {
		mux := newMux(&mockSource{})

		Convey("Forecast PNG should render", func() {
			w := get(mux, "/chart/forecast.png?scenario=1&from=1&to=30")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(w.Body.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("History SVG should render", func() {
			w := get(mux, "/chart/history.svg")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
		})

		Convey("Unknown charts should be 404", func() {
			So(get(mux, "/chart/volume.png").Code, ShouldEqual, http.StatusNotFound)
			So(get(mux, "/chart/forecast.gif").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Export should return a workbook for the selection", func() {
			w := get(mux, "/export/forecast.xlsx?scenario=2&from=5&to=9")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "forecast_model_2_5-9.xlsx")

			f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()
			rows, err := f.GetRows("Forecast")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 6)
		})
	})
}

func TestDashboardHandler(t *testing.T) {
	Convey("Given the HTML dashboard", t, func() {
		mux := newMux(&mockSource{})

		Convey("When opening it without parameters", func() {
			w := get(mux, "/dashboard")

			Convey("Then the forecast tab should render with metrics and a table", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, "Model 1")
				So(body, ShouldContainSubstring, "MAPE")
				So(body, ShouldContainSubstring, "01 January 2022")
				So(body, ShouldContainSubstring, "Page 1 of 19")
				So(body, ShouldContainSubstring, "/chart/forecast.png?")
			})
		})

		Convey("When the range is invalid", func() {
			w := get(mux, "/dashboard?scenario=1&from=100&to=5")

			Convey("Then the error should show in the page with its status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `class="error"`)
				So(w.Body.String(), ShouldContainSubstring, "<select name=\"scenario\"")
			})
		})

		Convey("When picking a single date", func() {
			w := get(mux, "/dashboard?tab=day&scenario=1&date=2022-06-30")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Predicted price")
			So(w.Body.String(), ShouldContainSubstring, `max="2022-06-30"`)
		})

		Convey("When the picked date is outside the window", func() {
			w := get(mux, "/dashboard?tab=day&scenario=1&date=2021-12-31")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, `type="date"`)
		})

		Convey("When opening the history tab", func() {
			w := get(mux, "/dashboard?tab=history")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/chart/history.png")
		})
	})
}

func TestRequestMiddleware(t *testing.T) {
	Convey("Given the request middleware", t, func() {
		var seen string
		h := api.RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		Convey("It should mint an id when none is sent", func() {
			w := get(h, "/anything")
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			So(seen, ShouldEqual, w.Header().Get(api.RequestIDHeader))
		})

		Convey("It should keep a valid incoming id", func() {
			req := httptest.NewRequest(http.MethodGet, "/anything", nil)
			req.Header.Set(api.RequestIDHeader, "0b8f5d2e-3c3a-4d55-9d1c-0f8b1d0c9a11")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "0b8f5d2e-3c3a-4d55-9d1c-0f8b1d0c9a11")
		})

		Convey("It should replace a malformed incoming id", func() {
			req := httptest.NewRequest(http.MethodGet, "/anything", nil)
			req.Header.Set(api.RequestIDHeader, "not-a-uuid")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotEqual, "not-a-uuid")
		})
	})
}
