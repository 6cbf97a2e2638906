package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Granularity is the class of a time key: a whole year or a specific
// month.
type Granularity int

const (
	GranularityYear Granularity = iota + 1
	GranularityMonth
)

func (g Granularity) String() string {
	switch g {
	case GranularityYear:
		return "year"
	case GranularityMonth:
		return "month"
	default:
		return "unknown"
	}
}

// TimeKey is a normalized query key: either an integer year or a
// first-of-month date. The zero TimeKey is invalid.
type TimeKey struct {
	granularity Granularity
	year        int
	month       time.Time
}

// Year makes a year-granularity key.
func Year(y int) TimeKey {
	return TimeKey{granularity: GranularityYear, year: y}
}

// Month makes a month-granularity key, truncating any finer date to
// the first day of its month, UTC.
func Month(t time.Time) TimeKey {
	return TimeKey{
		granularity: GranularityMonth,
		month:       time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTimeKey normalizes a textual key from the CLI or a config
// file. Integers become year keys; recognized date strings become
// month keys; everything else is invalid input.
func ParseTimeKey(s string) (TimeKey, error) {
	trimmed := strings.TrimSpace(s)
	if y, err := strconv.Atoi(trimmed); err == nil {
		return Year(y), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Month(t), nil
		}
	}
	return TimeKey{}, fmt.Errorf("%q is neither a year nor a date: %w", s, ErrInvalidInput)
}

// Granularity reports the key's class.
func (k TimeKey) Granularity() Granularity {
	return k.granularity
}

// IsZero reports whether the key is unset.
func (k TimeKey) IsZero() bool {
	return k.granularity == 0
}

// YearValue returns the year for a year-granularity key.
func (k TimeKey) YearValue() int {
	return k.year
}

// MonthValue returns the normalized date for a month-granularity key.
func (k TimeKey) MonthValue() time.Time {
	return k.month
}

// Equal reports whether two keys denote the same normalized time.
func (k TimeKey) Equal(other TimeKey) bool {
	if k.granularity != other.granularity {
		return false
	}
	switch k.granularity {
	case GranularityYear:
		return k.year == other.year
	case GranularityMonth:
		return k.month.Equal(other.month)
	default:
		return true
	}
}

func (k TimeKey) String() string {
	switch k.granularity {
	case GranularityYear:
		return strconv.Itoa(k.year)
	case GranularityMonth:
		return k.month.Format("2006-01-02")
	default:
		return "<invalid>"
	}
}
