// Package query implements the public get and inflate operations over
// the series registry.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cpiq/internal/model"
	"cpiq/internal/series"
)

// Default freshness thresholds: annual data turns over roughly once a
// year with publication lag, monthly data every month.
const (
	DefaultAnnualMaxAge  = 820 * 24 * time.Hour
	DefaultMonthlyMaxAge = 90 * 24 * time.Hour
)

// Selector names the target series, either directly by id or through
// human-readable attributes. The zero Selector picks the default
// series.
type Selector struct {
	SeriesID string
	Attrs    *series.Attrs
}

// Config tunes an Engine. Zero fields take defaults.
type Config struct {
	AnnualMaxAge  time.Duration
	MonthlyMaxAge time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

// Engine answers value and inflation queries against the registry.
type Engine struct {
	registry      *series.Registry
	annualMaxAge  time.Duration
	monthlyMaxAge time.Duration
	log           *slog.Logger
	now           func() time.Time
}

// New builds an engine over the registry.
func New(reg *series.Registry, cfg Config) *Engine {
	if cfg.AnnualMaxAge <= 0 {
		cfg.AnnualMaxAge = DefaultAnnualMaxAge
	}
	if cfg.MonthlyMaxAge <= 0 {
		cfg.MonthlyMaxAge = DefaultMonthlyMaxAge
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		registry:      reg,
		annualMaxAge:  cfg.AnnualMaxAge,
		monthlyMaxAge: cfg.MonthlyMaxAge,
		log:           cfg.Logger,
		now:           cfg.Now,
	}
}

func (e *Engine) resolve(ctx context.Context, sel Selector) (*model.Series, error) {
	if sel.SeriesID != "" {
		return e.registry.ByID(ctx, sel.SeriesID)
	}
	attrs := series.DefaultAttrs()
	if sel.Attrs != nil {
		attrs = *sel.Attrs
	}
	return e.registry.Lookup(ctx, attrs)
}

// Get returns the index value for the series at the given key. Year
// keys read the annual partition, month keys the monthly one.
func (e *Engine) Get(ctx context.Context, key TimeKey, sel Selector) (float64, error) {
	if key.IsZero() {
		return 0, fmt.Errorf("time key is unset: %w", ErrInvalidInput)
	}

	s, err := e.resolve(ctx, sel)
	if err != nil {
		return 0, err
	}
	e.warnIfStale(s, key.Granularity())
	return valueAt(s, key)
}

func valueAt(s *model.Series, key TimeKey) (float64, error) {
	var idx model.Index
	var err error
	switch key.Granularity() {
	case GranularityYear:
		idx, err = s.IndexByYear(key.YearValue())
	case GranularityMonth:
		idx, err = s.IndexByDate(key.MonthValue(), model.Monthly)
	default:
		err = fmt.Errorf("time key is unset: %w", ErrInvalidInput)
	}
	if err != nil {
		return 0, err
	}
	return idx.Value, nil
}

func (e *Engine) warnIfStale(s *model.Series, g Granularity) {
	if warning := e.Freshness(s, g); warning != nil {
		e.log.Warn("stale data", "series", s.ID, "warning", warning.Error())
	}
}

// Inflate converts value from the key's dollars into the target's
// dollars by pure ratio scaling. A zero target defaults to the
// series' latest year or month at the source key's granularity.
// Deflating to an earlier time uses the same formula.
func (e *Engine) Inflate(ctx context.Context, value float64, key, to TimeKey, sel Selector) (float64, error) {
	if key.IsZero() {
		return 0, fmt.Errorf("time key is unset: %w", ErrInvalidInput)
	}

	s, err := e.resolve(ctx, sel)
	if err != nil {
		return 0, err
	}

	if to.IsZero() {
		switch key.Granularity() {
		case GranularityYear:
			latest, err := s.LatestYear()
			if err != nil {
				return 0, err
			}
			to = Year(latest)
		case GranularityMonth:
			latest, err := s.LatestMonth()
			if err != nil {
				return 0, err
			}
			to = Month(latest)
		}
	}

	// Keys are normalized at construction, so comparing before the
	// granularity check cannot mask a mismatch: equal keys share a
	// granularity by definition.
	if key.Equal(to) {
		return value, nil
	}
	if key.Granularity() != to.Granularity() {
		return 0, fmt.Errorf("cannot convert between %s and %s granularity: %w",
			key.Granularity(), to.Granularity(), ErrTypeMismatch)
	}

	e.warnIfStale(s, key.Granularity())

	target, err := valueAt(s, to)
	if err != nil {
		return 0, err
	}
	source, err := valueAt(s, key)
	if err != nil {
		return 0, err
	}
	return value * target / source, nil
}

// Freshness checks the series' newest observation at the given
// granularity against the engine clock. It returns a warning when the
// data is older than the threshold, nil otherwise or when the series
// has no observations at that granularity.
func (e *Engine) Freshness(s *model.Series, g Granularity) *StaleDataWarning {
	now := e.now()
	switch g {
	case GranularityYear:
		latest, err := s.LatestYear()
		if err != nil {
			return nil
		}
		anchor := time.Date(latest, time.January, 1, 0, 0, 0, 0, time.UTC)
		if age := now.Sub(anchor); age > e.annualMaxAge {
			return &StaleDataWarning{SeriesID: s.ID, Granularity: g, Latest: anchor, Age: age}
		}
	case GranularityMonth:
		latest, err := s.LatestMonth()
		if err != nil {
			return nil
		}
		if age := now.Sub(latest); age > e.monthlyMaxAge {
			return &StaleDataWarning{SeriesID: s.ID, Granularity: g, Latest: latest, Age: age}
		}
	}
	return nil
}
