// Package dates resolves the year of a record's date field. Failures are
// per-record and never fatal; callers treat them as an absent year.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a date value no known layout accepts.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Value)
}

// layouts are tried in order. OSHA exports mostly use ISO dates; the rest
// cover spreadsheet round-trips.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"2006/01/02",
	"20060102",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

const (
	minYear = 1000
	maxYear = 9999
)

// Year returns the four-digit year of value. Dates outside years
// 1000-9999 are rejected.
func Year(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, &ParseError{Value: value}
	}

	// Bare years, possibly written as floats by a previous export ("2019.0").
	if y, ok := bareYear(v); ok {
		return y, nil
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if y := t.Year(); y >= minYear && y <= maxYear {
			return y, nil
		}
		return 0, &ParseError{Value: value}
	}
	return 0, &ParseError{Value: value}
}

func bareYear(v string) (int, bool) {
	v = strings.TrimSuffix(v, ".0")
	if len(v) != 4 {
		return 0, false
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}
