// Package normalize builds the single search string each record is matched
// against.
package normalize

import (
	"strings"

	"github.com/abhisek/luxscan/internal/record"
)

// Separator joins the text of consecutive fields.
const Separator = " | "

// Clean removes line breaks, collapses whitespace runs to one space, and
// trims both ends.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text concatenates the cleaned values of cols that are present in rec.
// Columns that are absent or blank are skipped, so a record with no usable
// text yields "" rather than an error.
func Text(rec record.Raw, cols []string) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		v, ok := rec.Get(c)
		if !ok {
			continue
		}
		if v = Clean(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, Separator)
}

// Field returns the cleaned value of a single column, or "" when absent.
func Field(rec record.Raw, col string) string {
	if col == "" {
		return ""
	}
	v, _ := rec.Get(col)
	return Clean(v)
}
