// Package series resolves series identifiers and lazily materializes
// series from the persisted store into a process-wide cache.
package series

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"cpiq/internal/catalog"
	"cpiq/internal/codec"
	"cpiq/internal/model"
	"cpiq/internal/store"
)

// DefaultSeriesID is the CPI-U all-items U.S. city average series.
const DefaultSeriesID = "CUUR0000SA0"

// Attrs are the human-readable attributes that select a series. Zero
// fields fall back to the defaults.
type Attrs struct {
	Survey             string
	SeasonallyAdjusted bool
	Periodicity        string
	Area               string
	Item               string
}

// DefaultAttrs selects the default series.
func DefaultAttrs() Attrs {
	return Attrs{
		Survey:             "All urban consumers",
		SeasonallyAdjusted: false,
		Periodicity:        "Monthly",
		Area:               "U.S. city average",
		Item:               "All items",
	}
}

// withDefaults fills zero string fields from the default attribute
// set. The seasonally-adjusted flag has no zero sentinel; its default
// is false, which matches the default series.
func (a Attrs) withDefaults() Attrs {
	def := DefaultAttrs()
	if a.Survey == "" {
		a.Survey = def.Survey
	}
	if a.Periodicity == "" {
		a.Periodicity = def.Periodicity
	}
	if a.Area == "" {
		a.Area = def.Area
	}
	if a.Item == "" {
		a.Item = def.Item
	}
	return a
}

// Registry owns the reference catalogs and a grow-only cache of fully
// loaded series. A series is loaded at most once per id; concurrent
// first requests are collapsed into a single store load.
type Registry struct {
	store store.Store
	log   *slog.Logger

	areas         *catalog.Catalog[model.Area]
	items         *catalog.Catalog[model.Item]
	periods       *catalog.Catalog[model.Period]
	periodicities *catalog.Catalog[model.Periodicity]

	mu    sync.RWMutex
	cache map[string]*model.Series
	group singleflight.Group
}

// NewRegistry loads the catalogs from the store and returns an empty
// registry. After a dataset reload the host must build a fresh
// registry; the cache is never invalidated in place.
func NewRegistry(ctx context.Context, st store.Store, log *slog.Logger) (*Registry, error) {
	if log == nil {
		log = slog.Default()
	}

	areas, err := st.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("load areas: %w", err)
	}
	items, err := st.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	periods, err := st.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load periods: %w", err)
	}
	periodicities, err := st.ListPeriodicities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load periodicities: %w", err)
	}

	return &Registry{
		store: st,
		log:   log,
		areas: catalog.New("areas", areas,
			func(a model.Area) string { return a.ID },
			func(a model.Area) string { return a.Name }),
		items: catalog.New("items", items,
			func(i model.Item) string { return i.ID },
			func(i model.Item) string { return i.Name }),
		periods: catalog.New("periods", periods,
			func(p model.Period) string { return p.ID },
			func(p model.Period) string { return p.Name }),
		periodicities: catalog.New("periodicities", periodicities,
			func(p model.Periodicity) string { return p.ID },
			func(p model.Periodicity) string { return p.Name }),
		cache: make(map[string]*model.Series),
	}, nil
}

// ByID returns the series with the given id, loading and caching it
// on first request.
func (r *Registry) ByID(ctx context.Context, id string) (*model.Series, error) {
	r.mu.RLock()
	cached, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do(id, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[id]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[id] = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Series), nil
}

func (r *Registry) load(ctx context.Context, id string) (*model.Series, error) {
	r.log.Debug("loading series", "id", id)

	row, err := r.store.GetSeriesRow(ctx, id)
	if err != nil {
		return nil, err
	}

	periodicity, err := r.periodicities.ByID(row.Periodicity)
	if err != nil {
		return nil, err
	}
	area, err := r.areas.ByID(row.Area)
	if err != nil {
		return nil, err
	}
	item, err := r.items.ByID(row.Item)
	if err != nil {
		return nil, err
	}

	s := &model.Series{
		ID:                 row.ID,
		Title:              row.Title,
		Survey:             row.Survey,
		SeasonallyAdjusted: row.SeasonallyAdjusted,
		Periodicity:        periodicity,
		Area:               area,
		Item:               item,
	}

	indexRows, err := r.store.ListIndexRows(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Indexes = make([]model.Index, 0, len(indexRows))
	for _, ir := range indexRows {
		period, err := r.periods.ByID(ir.Period)
		if err != nil {
			return nil, err
		}
		s.Indexes = append(s.Indexes, model.Index{
			SeriesID: s.ID,
			Year:     ir.Year,
			Period:   period,
			Value:    ir.Value,
		})
	}

	r.log.Debug("loaded series", "id", id, "indexes", len(s.Indexes))
	return s, nil
}

// ResolveID encodes human attributes into a series id via the survey
// and seasonality tables and the name catalogs.
func (r *Registry) ResolveID(attrs Attrs) (string, error) {
	attrs = attrs.withDefaults()

	surveyCode, err := codec.SurveyCode(attrs.Survey)
	if err != nil {
		return "", err
	}
	periodicity, err := r.periodicities.ByName(attrs.Periodicity)
	if err != nil {
		return "", err
	}
	area, err := r.areas.ByName(attrs.Area)
	if err != nil {
		return "", err
	}
	item, err := r.items.ByName(attrs.Item)
	if err != nil {
		return "", err
	}

	segments := codec.Segments{
		Survey:      surveyCode,
		Seasonal:    codec.SeasonalCode(attrs.SeasonallyAdjusted),
		Periodicity: periodicity.Code,
		Area:        area.Code,
		Item:        item.Code,
	}
	return segments.ID(), nil
}

// Lookup resolves human attributes to a series and returns it.
func (r *Registry) Lookup(ctx context.Context, attrs Attrs) (*model.Series, error) {
	id, err := r.ResolveID(attrs)
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

// AttrsOf rehydrates the human attributes encoded in a series id.
// Together with ResolveID it forms the codec round trip.
func (r *Registry) AttrsOf(id string) (Attrs, error) {
	segments, err := codec.Decode(id)
	if err != nil {
		return Attrs{}, err
	}

	survey, err := codec.SurveyName(segments.Survey)
	if err != nil {
		return Attrs{}, err
	}
	adjusted, err := codec.SeasonallyAdjusted(segments.Seasonal)
	if err != nil {
		return Attrs{}, err
	}
	periodicity, err := r.periodicities.ByID(segments.Periodicity)
	if err != nil {
		return Attrs{}, err
	}
	area, err := r.areas.ByID(segments.Area)
	if err != nil {
		return Attrs{}, err
	}
	item, err := r.items.ByID(segments.Item)
	if err != nil {
		return Attrs{}, err
	}

	return Attrs{
		Survey:             survey,
		SeasonallyAdjusted: adjusted,
		Periodicity:        periodicity.Name,
		Area:               area.Name,
		Item:               item.Name,
	}, nil
}

// All loads every series in the store, warming the cache.
func (r *Registry) All(ctx context.Context) ([]*model.Series, error) {
	ids, err := r.store.ListSeriesIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Series, 0, len(ids))
	for _, id := range ids {
		s, err := r.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
