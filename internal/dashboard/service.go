// ABOUTME: Request-scoped service shared by the CLI, HTTP API and MCP server.
// ABOUTME: Every call names its user explicitly; no session state is kept.
package dashboard

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harperreed/phr/internal/analytics"
	"github.com/harperreed/phr/internal/metrics"
	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/recommend"
	"github.com/harperreed/phr/internal/report"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
	"go.uber.org/zap"
)

// ErrNoRecords is returned when a user has no records at all.
var ErrNoRecords = errors.New("no health records yet")

// ThresholdSource layers per-user overrides over a base set.
type ThresholdSource interface {
	Resolve(user string, base vitals.Thresholds) (vitals.Thresholds, error)
}

// Options configure a Service. Zero values fall back to defaults.
type Options struct {
	Thresholds vitals.Thresholds
	Profiles   ThresholdSource
	WindowDays int
	Highlights int
	// Source labels records added through this service in metrics.
	Source  string
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Service is the single entry point to records, recommendations, analytics and reports.
type Service struct {
	repo       storage.Repository
	thresholds vitals.Thresholds
	profiles   ThresholdSource
	windowDays int
	highlights int
	source     string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// New creates a Service over repo.
func New(repo storage.Repository, opts Options) *Service {
	s := &Service{
		repo:       repo,
		thresholds: opts.Thresholds,
		profiles:   opts.Profiles,
		windowDays: opts.WindowDays,
		highlights: opts.Highlights,
		source:     opts.Source,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if s.thresholds == nil {
		s.thresholds = vitals.DefaultThresholds()
	}
	if s.windowDays <= 0 {
		s.windowDays = recommend.DefaultWindowDays
	}
	if s.highlights <= 0 {
		s.highlights = recommend.DefaultHighlights
	}
	if s.source == "" {
		s.source = "cli"
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Repository returns the underlying record repository.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// Users lists users with stored records.
func (s *Service) Users() ([]string, error) {
	return s.repo.Users()
}

// Thresholds returns the ranges in effect for user.
func (s *Service) Thresholds(user string) (vitals.Thresholds, error) {
	if err := storage.ValidateUser(user); err != nil {
		return nil, err
	}
	if s.profiles == nil {
		return s.thresholds, nil
	}
	t, err := s.profiles.Resolve(user, s.thresholds)
	if err != nil {
		return nil, fmt.Errorf("resolve thresholds: %w", err)
	}
	return t, nil
}

// AddRecord validates r and appends it to user's records.
// Unlike rows already on disk, new input must have a well-formed blood
// pressure and non-negative values.
func (s *Service) AddRecord(user string, r *models.HealthRecord) error {
	if r == nil {
		return errors.New("record is required")
	}
	if err := validateNew(r); err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	r.Timestamp = r.Timestamp.Truncate(time.Second)

	store, err := s.repo.Store(user)
	if err != nil {
		return err
	}
	if err := store.Append(r); err != nil {
		return err
	}

	s.metrics.RecordAdded(s.source)
	if t, err := s.Thresholds(user); err == nil {
		for _, m := range vitals.AllMetrics {
			status := t.Classify(m, analytics.Value(r, m))
			s.metrics.Classified(string(m), string(status))
		}
	}
	s.logger.Debug("record added", zap.String("user", user), zap.Time("date", r.Timestamp))
	return nil
}

func validateNew(r *models.HealthRecord) error {
	if r.BloodPressure != "" {
		if err := vitals.CheckBloodPressure(r.BloodPressure); err != nil {
			return fmt.Errorf("blood pressure %q: %w", r.BloodPressure, err)
		}
	}
	if !validReading(r.SugarLevel) {
		return fmt.Errorf("sugar level: %w", storage.ErrInvalidNumber)
	}
	if !validReading(r.PulseRate) {
		return fmt.Errorf("pulse rate: %w", storage.ErrInvalidNumber)
	}
	if r.BloodPressure == "" && r.SugarLevel == nil && r.PulseRate == nil {
		return fmt.Errorf("at least one reading is required: %w", vitals.ErrMissingMetric)
	}
	return nil
}

// validReading reports whether v is absent or a finite non-negative number.
func validReading(v *float64) bool {
	if v == nil {
		return true
	}
	return vitals.Present(v) && *v >= 0
}

// Records returns user's records whose day lies in [from, to].
// Zero bounds are open.
func (s *Service) Records(user string, from, to time.Time) ([]*models.HealthRecord, error) {
	store, err := s.repo.Store(user)
	if err != nil {
		return nil, err
	}
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if from.IsZero() && to.IsZero() {
		return records, nil
	}
	return models.FilterByDate(records, from, to), nil
}

func (s *Service) allRecords(user string) ([]*models.HealthRecord, error) {
	records, err := s.Records(user, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Recommendations is the summary-mode view for one user.
type Recommendations struct {
	User       string                  `json:"user"`
	WindowDays int                     `json:"window_days"`
	From       time.Time               `json:"from"`
	To         time.Time               `json:"to"`
	Records    int                     `json:"records"`
	Summary    []recommend.SummaryLine `json:"summary"`
	Highlights []recommend.Highlight   `json:"highlights"`
	Disclaimer string                  `json:"disclaimer"`
}

// Recommendations summarizes the last WindowDays of user's data and
// highlights the most recent records.
func (s *Service) Recommendations(user string) (*Recommendations, error) {
	records, err := s.allRecords(user)
	if err != nil {
		return nil, err
	}
	t, err := s.Thresholds(user)
	if err != nil {
		return nil, err
	}

	gen := recommend.NewGenerator(t)
	window := recommend.Window(records, s.windowDays)
	from, to := models.Span(window)

	return &Recommendations{
		User:       user,
		WindowDays: s.windowDays,
		From:       from,
		To:         to,
		Records:    len(window),
		Summary:    gen.Summary(window),
		Highlights: gen.Highlights(window, s.highlights),
		Disclaimer: recommend.Disclaimer,
	}, nil
}

// Daily builds the recommendation for a single record under user's thresholds.
func (s *Service) Daily(user string, r *models.HealthRecord) (recommend.Daily, error) {
	t, err := s.Thresholds(user)
	if err != nil {
		return recommend.Daily{}, err
	}
	return recommend.NewGenerator(t).Daily(r), nil
}

// Analytics holds descriptive statistics for a date range.
type Analytics struct {
	User       string              `json:"user"`
	From       time.Time           `json:"from"`
	To         time.Time           `json:"to"`
	Records    int                 `json:"records"`
	Stats      []analytics.Stats   `json:"stats"`
	Outliers   []analytics.Outlier `json:"outliers"`
	Guidelines []string            `json:"guidelines"`
}

// Analytics computes statistics and out-of-range readings for user.
// Zero bounds default to the span of the data.
func (s *Service) Analytics(user string, from, to time.Time) (*Analytics, error) {
	records, err := s.allRecords(user)
	if err != nil {
		return nil, err
	}
	t, err := s.Thresholds(user)
	if err != nil {
		return nil, err
	}

	first, last := models.Span(records)
	if from.IsZero() {
		from = first
	}
	if to.IsZero() {
		to = last
	}
	selected := models.FilterByDate(records, from, to)
	if len(selected) == 0 {
		return nil, report.ErrEmptyRange
	}

	return &Analytics{
		User:       user,
		From:       from,
		To:         to,
		Records:    len(selected),
		Stats:      analytics.Compute(selected),
		Outliers:   analytics.Outliers(selected, t),
		Guidelines: analytics.Guidelines,
	}, nil
}

// Report builds a report for user over [from, to].
func (s *Service) Report(user string, from, to time.Time) (*report.Report, error) {
	records, err := s.allRecords(user)
	if err != nil {
		return nil, err
	}
	t, err := s.Thresholds(user)
	if err != nil {
		return nil, err
	}
	return report.Build(user, records, t, from, to)
}

// RenderReport writes rep to w in format and counts it.
func (s *Service) RenderReport(w io.Writer, rep *report.Report, format string) error {
	renderer, err := report.ForFormat(format)
	if err != nil {
		return err
	}
	if err := renderer.Render(w, rep); err != nil {
		return err
	}
	s.metrics.ReportRendered(renderer.Extension())
	s.logger.Debug("report rendered",
		zap.String("user", rep.User),
		zap.String("format", renderer.Extension()),
		zap.Int("rows", len(rep.Rows)))
	return nil
}

// Import appends every record not already stored for user.
func (s *Service) Import(user string, records []*models.HealthRecord) (int, error) {
	store, err := s.repo.Store(user)
	if err != nil {
		return 0, err
	}
	added, err := storage.MergeRecords(store, records)
	for i := 0; i < added; i++ {
		s.metrics.RecordAdded(s.source)
	}
	return added, err
}
