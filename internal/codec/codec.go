// Package codec maps between a canonical series identifier and the
// fixed-width attribute segments it is composed of: a 2-char survey
// code, a 1-char seasonality code, a 1-char periodicity code, a 4-char
// area code, and a variable-length item code.
package codec

import (
	"fmt"

	"cpiq/internal/model"
)

const fixedLen = 2 + 1 + 1 + 4

// Segments are the attribute codes carried inside a series id.
type Segments struct {
	Survey      string
	Seasonal    string
	Periodicity string
	Area        string
	Item        string
}

// ID concatenates the segments back into a series id.
func (s Segments) ID() string {
	return s.Survey + s.Seasonal + s.Periodicity + s.Area + s.Item
}

// Decode splits a series id by fixed offsets. Length is the only
// validation; unrecognized codes surface downstream as catalog lookup
// failures.
func Decode(id string) (Segments, error) {
	if len(id) <= fixedLen {
		return Segments{}, fmt.Errorf("series id %q is too short to decode", id)
	}
	return Segments{
		Survey:      id[0:2],
		Seasonal:    id[2:3],
		Periodicity: id[3:4],
		Area:        id[4:8],
		Item:        id[8:],
	}, nil
}

var surveyCodes = map[string]string{
	"All urban consumers":                     "CU",
	"Urban wage earners and clerical workers": "CW",
}

var surveyNames = map[string]string{
	"CU": "All urban consumers",
	"CW": "Urban wage earners and clerical workers",
}

// SurveyCode maps a survey name to its 2-char code.
func SurveyCode(name string) (string, error) {
	code, ok := surveyCodes[name]
	if !ok {
		return "", fmt.Errorf("surveys: no entry named %q: %w", name, model.ErrNotFound)
	}
	return code, nil
}

// SurveyName maps a 2-char survey code back to its name.
func SurveyName(code string) (string, error) {
	name, ok := surveyNames[code]
	if !ok {
		return "", fmt.Errorf("surveys: no entry with code %q: %w", code, model.ErrNotFound)
	}
	return name, nil
}

// SeasonalCode maps the seasonally-adjusted flag to its 1-char code.
func SeasonalCode(adjusted bool) string {
	if adjusted {
		return "S"
	}
	return "U"
}

// SeasonallyAdjusted maps a 1-char seasonality code to the flag.
func SeasonallyAdjusted(code string) (bool, error) {
	switch code {
	case "S":
		return true, nil
	case "U":
		return false, nil
	}
	return false, fmt.Errorf("seasonalities: no entry with code %q: %w", code, model.ErrNotFound)
}
