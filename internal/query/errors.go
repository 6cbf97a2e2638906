package query

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput indicates a time key that is neither an integer
	// year nor a recognized date.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTypeMismatch indicates the source and target keys belong to
	// different granularity classes.
	ErrTypeMismatch = errors.New("type mismatch")
)

// StaleDataWarning signals that the loaded dataset's newest
// observation is older than the freshness threshold. It never aborts
// a query.
type StaleDataWarning struct {
	SeriesID    string
	Granularity Granularity
	Latest      time.Time
	Age         time.Duration
}

func (w *StaleDataWarning) Error() string {
	return fmt.Sprintf("series %s: latest %s observation is %s, %.0f days old; results may be out of date",
		w.SeriesID, w.Granularity, w.Latest.Format("2006-01-02"), w.Age.Hours()/24)
}
