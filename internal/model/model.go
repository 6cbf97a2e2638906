// Package model holds the Consumer Price Index data model: the small
// reference records (areas, items, periods, periodicities) and the
// series of observed index values built from them.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodType classifies a period row by its time granularity.
type PeriodType int

const (
	Monthly PeriodType = iota + 1
	Semiannual
	Annual
)

func (t PeriodType) String() string {
	switch t {
	case Monthly:
		return "monthly"
	case Semiannual:
		return "semiannual"
	case Annual:
		return "annual"
	default:
		return "unknown"
	}
}

// Area is a geographical area where prices are gathered.
type Area struct {
	ID   string
	Code string
	Name string
}

// Item is a consumer good or category of goods whose price is tracked.
type Item struct {
	ID   string
	Code string
	Name string
}

// Periodicity is the interval at which a series is surveyed.
type Periodicity struct {
	ID   string
	Code string
	Name string
}

// Period is a sub-year time unit: a specific month, a semiannual half,
// or the annual aggregate marker.
type Period struct {
	ID           string
	Code         string
	Abbreviation string
	Name         string
}

// Month returns the calendar month the period maps to. Annual and
// first-half markers map to January, the second half to July.
func (p Period) Month() int {
	switch p.ID {
	case "M13", "S01", "S03":
		return 1
	case "S02":
		return 7
	}
	m, err := strconv.Atoi(strings.TrimPrefix(p.ID, "M"))
	if err != nil {
		return 0
	}
	return m
}

// Type classifies the period by granularity.
func (p Period) Type() PeriodType {
	switch p.ID {
	case "M13", "S03":
		return Annual
	case "S01", "S02":
		return Semiannual
	default:
		return Monthly
	}
}

// Index is one observed value of a series at a specific year and
// period. The Period is a shared reference into the period catalog,
// not owned by the index.
type Index struct {
	SeriesID string
	Year     int
	Period   Period
	Value    float64
}

// Date returns the observation date, normalized to the first day of
// the period's month, UTC.
func (i Index) Date() time.Time {
	return time.Date(i.Year, time.Month(i.Period.Month()), 1, 0, 0, 0, 0, time.UTC)
}

// Equal reports structural equality.
func (i Index) Equal(other Index) bool {
	return i.Value == other.Value &&
		i.SeriesID == other.SeriesID &&
		i.Year == other.Year &&
		i.Period.ID == other.Period.ID
}

func (i Index) String() string {
	return fmt.Sprintf("%s (%s): %v", i.Date().Format("2006-01-02"), i.Period.Name, i.Value)
}

// Series is a uniquely identified, continuously surveyed combination
// of item, area, periodicity and seasonality whose price level is
// tracked over time. A series owns its indexes; they are populated in
// one load and never mutated afterward.
type Series struct {
	ID                 string
	Title              string
	Survey             string
	SeasonallyAdjusted bool
	Periodicity        Periodicity
	Area               Area
	Item               Item

	// Indexes preserves store insertion order; it is not re-sorted.
	Indexes []Index
}

func (s *Series) String() string {
	return fmt.Sprintf("%s: %s", s.ID, s.Title)
}

// LatestMonth returns the most recent date among the monthly indexes.
func (s *Series) LatestMonth() (time.Time, error) {
	var latest time.Time
	found := false
	for _, idx := range s.Indexes {
		if idx.Period.Type() != Monthly {
			continue
		}
		if d := idx.Date(); !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	if !found {
		return time.Time{}, fmt.Errorf("series %s has no monthly indexes: %w", s.ID, ErrNotFound)
	}
	return latest, nil
}

// LatestYear returns the most recent year among the annual indexes.
func (s *Series) LatestYear() (int, error) {
	latest := 0
	found := false
	for _, idx := range s.Indexes {
		if idx.Period.Type() != Annual {
			continue
		}
		if !found || idx.Year > latest {
			latest = idx.Year
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("series %s has no annual indexes: %w", s.ID, ErrNotFound)
	}
	return latest, nil
}

// IndexByYear returns the annual index for the given year.
func (s *Series) IndexByYear(year int) (Index, error) {
	for _, idx := range s.Indexes {
		if idx.Period.Type() == Annual && idx.Year == year {
			return idx, nil
		}
	}
	return Index{}, fmt.Errorf("series %s has no annual index for %d: %w", s.ID, year, ErrNotFound)
}

// IndexByDate returns the index of the given period type whose date
// matches. The lookup date is normalized to the first of its month
// before comparison.
func (s *Series) IndexByDate(date time.Time, periodType PeriodType) (Index, error) {
	want := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, idx := range s.Indexes {
		if idx.Period.Type() == periodType && idx.Date().Equal(want) {
			return idx, nil
		}
	}
	return Index{}, fmt.Errorf("series %s has no %s index for %s: %w",
		s.ID, periodType, want.Format("2006-01-02"), ErrNotFound)
}
