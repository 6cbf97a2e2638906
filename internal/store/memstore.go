package store

import (
	"context"
	"fmt"

	"cpiq/internal/model"
)

// MemStore serves a Snapshot from memory. It backs tests and embedded
// use where no database file exists.
type MemStore struct {
	snap Snapshot
}

// NewMemStore wraps a snapshot. The snapshot is not copied; callers
// must not mutate it afterward.
func NewMemStore(snap Snapshot) *MemStore {
	return &MemStore{snap: snap}
}

func (s *MemStore) ListAreas(ctx context.Context) ([]model.Area, error) {
	_ = ctx
	return s.snap.Areas, nil
}

func (s *MemStore) ListItems(ctx context.Context) ([]model.Item, error) {
	_ = ctx
	return s.snap.Items, nil
}

func (s *MemStore) ListPeriods(ctx context.Context) ([]model.Period, error) {
	_ = ctx
	return s.snap.Periods, nil
}

func (s *MemStore) ListPeriodicities(ctx context.Context) ([]model.Periodicity, error) {
	_ = ctx
	return s.snap.Periodicities, nil
}

func (s *MemStore) GetSeriesRow(ctx context.Context, id string) (SeriesRow, error) {
	_ = ctx
	for _, row := range s.snap.Series {
		if row.ID == id {
			return row, nil
		}
	}
	return SeriesRow{}, fmt.Errorf("series: no row with id %q: %w", id, model.ErrNotFound)
}

func (s *MemStore) ListSeriesIDs(ctx context.Context) ([]string, error) {
	_ = ctx
	ids := make([]string, 0, len(s.snap.Series))
	for _, row := range s.snap.Series {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (s *MemStore) ListIndexRows(ctx context.Context, seriesID string) ([]IndexRow, error) {
	_ = ctx
	rows := make([]IndexRow, 0)
	for _, row := range s.snap.Indexes {
		if row.Series == seriesID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *MemStore) Close() error {
	return nil
}
