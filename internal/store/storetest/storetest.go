// Package storetest provides a canonical dataset snapshot for tests.
// The observation values match the published CPI-U figures used in the
// documented conversion examples (1950 annual 24.1, 2000 annual 172.2,
// and so on).
package storetest

import (
	"fmt"

	"cpiq/internal/model"
	"cpiq/internal/store"
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Periods returns the full period catalog: M01-M12, the annual
// average marker M13, and the semiannual rows S01-S03.
func Periods() []model.Period {
	periods := make([]model.Period, 0, 16)
	for i, name := range monthNames {
		id := fmt.Sprintf("M%02d", i+1)
		periods = append(periods, model.Period{
			ID: id, Code: id, Abbreviation: name[:3], Name: name,
		})
	}
	periods = append(periods,
		model.Period{ID: "M13", Code: "M13", Abbreviation: "AnnAvg", Name: "Annual Average"},
		model.Period{ID: "S01", Code: "S01", Abbreviation: "1stHalf", Name: "1st Half"},
		model.Period{ID: "S02", Code: "S02", Abbreviation: "2ndHalf", Name: "2nd Half"},
		model.Period{ID: "S03", Code: "S03", Abbreviation: "SAnnAvg", Name: "Semiannual Average"},
	)
	return periods
}

// Snapshot returns a small but complete dataset: the default CPI-U
// series, its CPI-W counterpart, and a seasonally adjusted series
// with no annual rows.
func Snapshot() store.Snapshot {
	return store.Snapshot{
		Areas: []model.Area{
			{ID: "0000", Code: "0000", Name: "U.S. city average"},
			{ID: "0100", Code: "0100", Name: "Northeast"},
		},
		Items: []model.Item{
			{ID: "SA0", Code: "SA0", Name: "All items"},
			{ID: "SAF", Code: "SAF", Name: "Food and beverages"},
		},
		Periods: Periods(),
		Periodicities: []model.Periodicity{
			{ID: "R", Code: "R", Name: "Monthly"},
			{ID: "S", Code: "S", Name: "Semi-Annual"},
		},
		Series: []store.SeriesRow{
			{
				ID:                 "CUUR0000SA0",
				Title:              "All items in U.S. city average, all urban consumers, not seasonally adjusted",
				Survey:             "All urban consumers",
				SeasonallyAdjusted: false,
				Periodicity:        "R",
				Area:               "0000",
				Item:               "SA0",
			},
			{
				ID:                 "CWUR0000SA0",
				Title:              "All items in U.S. city average, urban wage earners and clerical workers, not seasonally adjusted",
				Survey:             "Urban wage earners and clerical workers",
				SeasonallyAdjusted: false,
				Periodicity:        "R",
				Area:               "0000",
				Item:               "SA0",
			},
			{
				ID:                 "CUSR0000SA0",
				Title:              "All items in U.S. city average, all urban consumers, seasonally adjusted",
				Survey:             "All urban consumers",
				SeasonallyAdjusted: true,
				Periodicity:        "R",
				Area:               "0000",
				Item:               "SA0",
			},
		},
		Indexes: []store.IndexRow{
			// Annual averages for the default series.
			{Series: "CUUR0000SA0", Year: 1913, Period: "M13", Value: 9.9},
			{Series: "CUUR0000SA0", Year: 1950, Period: "M13", Value: 24.1},
			{Series: "CUUR0000SA0", Year: 1960, Period: "M13", Value: 29.6},
			{Series: "CUUR0000SA0", Year: 2000, Period: "M13", Value: 172.2},
			{Series: "CUUR0000SA0", Year: 2017, Period: "M13", Value: 245.12},
			// January observations plus the newest month.
			{Series: "CUUR0000SA0", Year: 1950, Period: "M01", Value: 23.5},
			{Series: "CUUR0000SA0", Year: 1960, Period: "M01", Value: 29.3},
			{Series: "CUUR0000SA0", Year: 2018, Period: "M01", Value: 247.867},
			{Series: "CUUR0000SA0", Year: 2018, Period: "M06", Value: 251.588},
			// A semiannual row to populate that partition.
			{Series: "CUUR0000SA0", Year: 2018, Period: "S01", Value: 249.6},

			{Series: "CWUR0000SA0", Year: 2000, Period: "M13", Value: 168.9},
			{Series: "CWUR0000SA0", Year: 2017, Period: "M13", Value: 239.448},

			// Seasonally adjusted data is monthly only.
			{Series: "CUSR0000SA0", Year: 2018, Period: "M06", Value: 251.134},
		},
	}
}
