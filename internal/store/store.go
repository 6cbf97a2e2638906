// Package store defines the read surface of the persisted CPI dataset
// and an in-memory implementation of it.
package store

import (
	"context"

	"cpiq/internal/model"
)

// SeriesRow is a series metadata row as persisted: foreign references
// are codes resolved later through the catalogs.
type SeriesRow struct {
	ID                 string
	Title              string
	Survey             string
	SeasonallyAdjusted bool
	Periodicity        string
	Area               string
	Item               string
}

// IndexRow is one persisted index observation.
type IndexRow struct {
	Series string
	Year   int
	Period string
	Value  float64
}

// Store is the read interface over the persisted dataset. The dataset
// is static for the process lifetime; it is rebuilt wholesale, never
// incrementally upserted.
type Store interface {
	ListAreas(ctx context.Context) ([]model.Area, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListPeriods(ctx context.Context) ([]model.Period, error)
	ListPeriodicities(ctx context.Context) ([]model.Periodicity, error)
	GetSeriesRow(ctx context.Context, id string) (SeriesRow, error)
	ListSeriesIDs(ctx context.Context) ([]string, error)
	ListIndexRows(ctx context.Context, seriesID string) ([]IndexRow, error)
	Close() error
}

// Snapshot is a complete dataset, the unit of wholesale replacement.
type Snapshot struct {
	Areas         []model.Area
	Items         []model.Item
	Periods       []model.Period
	Periodicities []model.Periodicity
	Series        []SeriesRow
	Indexes       []IndexRow
}
