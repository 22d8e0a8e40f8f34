// Package service renders dashboard views from explicit UI state.
//
// The dashboard is a pure function of State: every call to Render reloads the
// scenario, selects the window, recomputes the metrics and paginates. Nothing
// is cached between calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/ricecast/internal/adapters/repository"
	"github.com/okian/ricecast/internal/domain/evaluation"
	"github.com/okian/ricecast/internal/domain/model"
	"github.com/okian/ricecast/internal/domain/selection"
	"github.com/okian/ricecast/pkg/logger"
	"github.com/okian/ricecast/pkg/metrics"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	source repository.Source

	// Configuration
	pageSize int
	dateMin  time.Time
	dateMax  time.Time

	// State
	started bool
	renders atomic.Int64
	failed  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the data source.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithPageSize sets the number of table rows per page.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithDateRange bounds the single-date picker.
func WithDateRange(lo, hi time.Time) Option {
	return func(s *Service) {
		if !lo.IsZero() && !hi.Before(lo) {
			s.dateMin = lo
			s.dateMax = hi
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		pageSize: 10,
		dateMin:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		dateMax:  time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC),
		logger:   nil, // resolved in Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start checks the data source and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return ErrNoSource
	}

	scenarios := s.source.Scenarios(ctx)
	if len(scenarios) == 0 {
		return fmt.Errorf("%w: no scenarios", ErrNoSource)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("scenarios", len(scenarios)),
		logger.Int("pageSize", s.pageSize),
		logger.String("dateMin", s.dateMin.Format("2006-01-02")),
		logger.String("dateMax", s.dateMax.Format("2006-01-02")),
	)
	return nil
}

// Stop marks the service stopped. Render keeps working; it holds no resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// DateBounds returns the selectable date window.
func (s *Service) DateBounds() (time.Time, time.Time) {
	return s.dateMin, s.dateMax
}

// Scenarios lists the available models.
func (s *Service) Scenarios(ctx context.Context) []model.Scenario {
	if s.source == nil {
		return nil
	}
	return s.source.Scenarios(ctx)
}

// Render computes the view for st.
func (s *Service) Render(ctx context.Context, st State) (View, error) {
	start := time.Now()
	if st.Tab == "" {
		st.Tab = TabForecast
	}

	v, err := s.render(ctx, st)
	s.renders.Add(1)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordRenderError(string(st.Tab), errorKind(err))
		s.log().Warn(ctx, "render failed",
			logger.String("tab", string(st.Tab)),
			logger.Int("scenario", st.ScenarioID),
			logger.Error(err),
		)
		return v, err
	}

	metrics.RecordRender(string(st.Tab), float64(time.Since(start).Nanoseconds())/1e6)
	return v, nil
}

func (s *Service) render(ctx context.Context, st State) (View, error) {
	if s.source == nil {
		return View{State: st}, ErrNoSource
	}
	if !st.Tab.Valid() {
		return View{State: st}, fmt.Errorf("%w: %q", ErrUnknownTab, st.Tab)
	}

	v := View{
		State:     st,
		Scenarios: s.source.Scenarios(ctx),
		DateMin:   s.dateMin.Format("2006-01-02"),
		DateMax:   s.dateMax.Format("2006-01-02"),
		Page:      1,
		Pages:     1,
	}

	if st.Tab == TabHistory {
		hist, err := s.source.History(ctx)
		if err != nil {
			return v, err
		}
		v.History = hist
		return v, nil
	}

	sc, err := s.source.Scenario(ctx, st.ScenarioID)
	if err != nil {
		return v, err
	}
	v.Scenario = sc

	records, err := s.source.Records(ctx, sc.ID)
	if err != nil {
		return v, err
	}
	v.Min, v.Max = 1, len(records)

	if st.Tab == TabDay {
		return s.renderDay(v, records)
	}
	return s.renderForecast(v, records)
}

func (s *Service) renderForecast(v View, records []model.PriceRecord) (View, error) {
	from, to := v.State.From, v.State.To
	if from == 0 {
		from = v.Min
	}
	if to == 0 {
		to = v.Max
	}
	v.From, v.To = from, to

	sel, err := selection.ByIndexRange(records, from, to)
	if err != nil {
		return v, err
	}
	v.Selection = sel
	v.StartDate = sel[0].Date.Format(DisplayDateLayout)
	v.EndDate = sel[len(sel)-1].Date.Format(DisplayDateLayout)
	v.Rows, v.Page, v.Pages = selection.Page(sel, v.State.Page, s.pageSize)

	res, err := evaluation.Compute(selection.Pairs(sel))
	if err != nil {
		return v, err
	}
	v.Result = res
	v.Metrics = newMetricsView(res)
	metrics.RecordEvaluation(v.Scenario.ID, res.MAPE, res.RMSE, res.Quality, res.ZeroActuals)
	return v, nil
}

func (s *Service) renderDay(v View, records []model.PriceRecord) (View, error) {
	date := v.State.Date
	if date.IsZero() {
		date = s.dateMin
	}
	if date.Before(s.dateMin) || date.After(s.dateMax) {
		return v, fmt.Errorf("%w: %s not in [%s, %s]", ErrDateOutOfBounds,
			date.Format("2006-01-02"), v.DateMin, v.DateMax)
	}

	rec, err := selection.ByDate(records, date)
	if err != nil {
		return v, err
	}
	v.Day = newDayView(rec)
	return v, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"pageSize":     s.pageSize,
		"renders":      s.renders.Load(),
		"renderErrors": s.failed.Load(),
		"dateMin":      s.dateMin.Format("2006-01-02"),
		"dateMax":      s.dateMax.Format("2006-01-02"),
	}
	if s.source != nil {
		stats["scenarios"] = len(s.source.Scenarios(context.Background()))
	}
	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// errorKind buckets an error for the render error counter.
func errorKind(err error) string {
	switch {
	case errors.Is(err, selection.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, selection.ErrNotFound):
		return "date_not_found"
	case errors.Is(err, ErrDateOutOfBounds):
		return "date_out_of_bounds"
	case errors.Is(err, evaluation.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, evaluation.ErrUndefinedMAPE):
		return "undefined_mape"
	case errors.Is(err, repository.ErrUnknownScenario):
		return "unknown_scenario"
	case errors.Is(err, repository.ErrMissingFile):
		return "missing_file"
	case errors.Is(err, repository.ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrUnknownTab):
		return "unknown_tab"
	default:
		return "internal"
	}
}
