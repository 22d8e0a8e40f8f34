package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/ricecast/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PageSize, convey.ShouldEqual, 10)
			convey.So(cfg.DateMin, convey.ShouldEqual, "2022-01-01")
			convey.So(cfg.DateMax, convey.ShouldEqual, "2022-06-30")
			convey.So(cfg.ActualColumn, convey.ShouldEqual, "IR-64 I Actual Price")
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "ricecast")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "dashboard")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then it should carry the eight model scenarios", func() {
			convey.So(cfg.Scenarios, convey.ShouldHaveLength, 8)
			convey.So(cfg.Scenarios[0], convey.ShouldResemble, config.Scenario{ID: 1, Units: 32, WindowSize: 7, MaxEpochs: 100})
			convey.So(cfg.Scenarios[5], convey.ShouldResemble, config.Scenario{ID: 6, Units: 32, WindowSize: 30, MaxEpochs: 62})
		})
	})
}

func TestConfig_Paths(t *testing.T) {
	convey.Convey("Given a config with a relative data dir", t, func() {
		cfg := config.New()
		cfg.DataDir = "testdata"

		convey.Convey("Then scenario paths should use the file pattern", func() {
			convey.So(cfg.ScenarioPath(config.Scenario{ID: 4}), convey.ShouldEqual,
				filepath.Join("testdata", "prediksi_beras_2022_skenario_4.csv"))
		})

		convey.Convey("Then an explicit scenario file should win", func() {
			convey.So(cfg.ScenarioPath(config.Scenario{ID: 4, File: "custom.csv"}), convey.ShouldEqual,
				filepath.Join("testdata", "custom.csv"))
		})

		convey.Convey("Then an absolute scenario file should be kept as is", func() {
			abs := filepath.Join(string(filepath.Separator), "srv", "s4.csv")
			convey.So(cfg.ScenarioPath(config.Scenario{ID: 4, File: abs}), convey.ShouldEqual, abs)
		})

		convey.Convey("Then the history path should be under the data dir", func() {
			convey.So(cfg.HistoryPath(), convey.ShouldEqual, filepath.Join("testdata", "harga_beras_2016_2021.csv"))
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"empty data dir":     func(c *config.Config) { c.DataDir = "" },
			"zero page size":     func(c *config.Config) { c.PageSize = 0 },
			"zero chart width":   func(c *config.Config) { c.ChartWidthIn = 0 },
			"no scenarios":       func(c *config.Config) { c.Scenarios = nil },
			"bad date min":       func(c *config.Config) { c.DateMin = "01/01/2022" },
			"inverted dates":     func(c *config.Config) { c.DateMin, c.DateMax = "2022-06-30", "2022-01-01" },
			"duplicate scenario": func(c *config.Config) { c.Scenarios[1].ID = 1 },
			"zero scenario id":   func(c *config.Config) { c.Scenarios[0].ID = 0 },
			"unsorted buckets":   func(c *config.Config) { c.MetricsBucketsMS = []float64{10, 5} },
		}

		for name, mutate := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					err := cfg.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
