package query

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpiq/internal/model"
	"cpiq/internal/series"
	"cpiq/internal/store"
	"cpiq/internal/store/storetest"
)

// The fixture's newest observations are from mid-2018; pin the clock
// shortly after so freshness checks pass by default.
var testNow = time.Date(2018, time.August, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	st := store.NewMemStore(storetest.Snapshot())
	reg, err := series.NewRegistry(context.Background(), st, nil)
	require.NoError(t, err)
	return New(reg, Config{Now: func() time.Time { return testNow }})
}

func TestGetYear(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	value, err := e.Get(ctx, Year(1950), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 24.1, value)

	value, err = e.Get(ctx, Year(2000), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 172.2, value)
}

func TestGetMonth(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	value, err := e.Get(ctx, Month(time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 23.5, value)

	// Finer dates are truncated to the first of the month.
	mid, err := e.Get(ctx, Month(time.Date(1950, time.January, 15, 0, 0, 0, 0, time.UTC)), Selector{})
	require.NoError(t, err)
	assert.Equal(t, value, mid)
}

func TestGetNotFound(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Get(ctx, Year(1900), Selector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.Get(ctx, Month(time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)), Selector{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.Get(ctx, Year(1950), Selector{SeriesID: "FOOBAR000XX"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetInvalidInput(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Get(context.Background(), TimeKey{}, Selector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBySelector(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	value, err := e.Get(ctx, Year(2000), Selector{
		Attrs: &series.Attrs{Survey: "Urban wage earners and clerical workers"},
	})
	require.NoError(t, err)
	assert.Equal(t, 168.9, value)

	value, err = e.Get(ctx, Month(time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)), Selector{
		Attrs: &series.Attrs{SeasonallyAdjusted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 251.134, value)
}

func TestInflateBetweenYears(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Inflate(context.Background(), 100, Year(1950), Year(2000), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 100*172.2/24.1, result)
	assert.InDelta(t, 714.52, result, 0.01)
}

func TestInflateIdentity(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, err := e.Inflate(ctx, 100, Year(1950), Year(1950), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result)

	// The identity short-circuit fires even for times absent from the
	// dataset.
	result, err = e.Inflate(ctx, 100, Year(1900), Year(1900), Selector{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result)
}

func TestInflateDefaultsToLatestYear(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Inflate(context.Background(), 100, Year(1950), TimeKey{}, Selector{})
	require.NoError(t, err)
	// Latest annual observation is 2017.
	assert.Equal(t, 100*245.12/24.1, result)
}

func TestInflateDefaultsToLatestMonth(t *testing.T) {
	e := newTestEngine(t)

	key := Month(time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC))
	result, err := e.Inflate(context.Background(), 100, key, TimeKey{}, Selector{})
	require.NoError(t, err)
	// Latest monthly observation is June 2018.
	assert.Equal(t, 100*251.588/23.5, result)
}

func TestInflateTypeMismatch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Inflate(ctx, 100, Year(1950), Month(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)), Selector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = e.Inflate(ctx, 100, Month(time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)), Year(2000), Selector{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestInflateRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	inflated, err := e.Inflate(ctx, 100, Year(1950), Year(2000), Selector{})
	require.NoError(t, err)
	back, err := e.Inflate(ctx, inflated, Year(2000), Year(1950), Selector{})
	require.NoError(t, err)
	assert.InDelta(t, 100, back, 1e-9)
}

func TestDeflate(t *testing.T) {
	e := newTestEngine(t)

	// Converting to an earlier year uses the same generic ratio.
	result, err := e.Inflate(context.Background(), 100*172.2/24.1, Year(2000), Year(1950), Selector{})
	require.NoError(t, err)
	assert.InDelta(t, 100, result, 1e-9)
}

func TestGetEqualsInflateIdentityProperty(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, year := range []int{1913, 1950, 1960, 2000, 2017} {
		got, err := e.Get(ctx, Year(year), Selector{})
		require.NoError(t, err)

		inflated, err := e.Inflate(ctx, got, Year(year), Year(year), Selector{})
		require.NoError(t, err)
		assert.Equal(t, got, inflated)
	}
}

func TestInflateMissingLatest(t *testing.T) {
	e := newTestEngine(t)

	// The seasonally adjusted series carries no annual rows, so a
	// year-granularity default target cannot be derived.
	_, err := e.Inflate(context.Background(), 100, Year(2018), TimeKey{}, Selector{SeriesID: "CUSR0000SA0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFreshness(t *testing.T) {
	st := store.NewMemStore(storetest.Snapshot())
	reg, err := series.NewRegistry(context.Background(), st, nil)
	require.NoError(t, err)

	s, err := reg.ByID(context.Background(), series.DefaultSeriesID)
	require.NoError(t, err)

	t.Run("fresh", func(t *testing.T) {
		e := New(reg, Config{Now: func() time.Time { return testNow }})
		assert.Nil(t, e.Freshness(s, GranularityYear))
		assert.Nil(t, e.Freshness(s, GranularityMonth))
	})

	t.Run("stale", func(t *testing.T) {
		later := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
		e := New(reg, Config{Now: func() time.Time { return later }})

		annual := e.Freshness(s, GranularityYear)
		require.NotNil(t, annual)
		assert.Equal(t, series.DefaultSeriesID, annual.SeriesID)
		assert.Contains(t, annual.Error(), "out of date")

		monthly := e.Freshness(s, GranularityMonth)
		require.NotNil(t, monthly)
		assert.Equal(t, time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC), monthly.Latest)
	})

	t.Run("stale data never aborts a query", func(t *testing.T) {
		later := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
		e := New(reg, Config{
			Now:    func() time.Time { return later },
			Logger: slog.Default(),
		})
		value, err := e.Get(context.Background(), Year(2000), Selector{})
		require.NoError(t, err)
		assert.Equal(t, 172.2, value)
	})
}
