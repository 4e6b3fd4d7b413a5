package ingest

import (
	"strconv"
	"strings"

	"github.com/abhisek/luxscan/internal/record"
)

// KnownTextColumns are the narrative columns of common OSHA exports, in the
// order they are combined.
var KnownTextColumns = []string{
	"violation_description", "Violation Description", "VIOLATION_DESCRIPTION",
	"citation_text", "Citation Text", "CITATION_TEXT",
	"narrative", "Narrative", "NARRATIVE",
	"abatement_text", "Abatement", "ABATEMENT_TEXT",
	"hazard_description", "Hazard", "HAZARD_DESCRIPTION",
}

// maxFallbackTextColumns caps the last-resort text column guess.
const maxFallbackTextColumns = 5

// Columns is the resolved column assignment handed to the core.
type Columns struct {
	Text     []string
	Citation string
	Date     string
	NAICS    string
}

// ResolveTextColumns returns explicit if given. Otherwise it picks the known
// OSHA narrative columns present in the batch, and failing that the first
// few columns holding non-numeric text.
func ResolveTextColumns(b record.Batch, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	var out []string
	for _, c := range KnownTextColumns {
		if b.Header.Has(c) {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, c := range b.Header.Names() {
		if isTextual(b, c) {
			out = append(out, c)
			if len(out) == maxFallbackTextColumns {
				break
			}
		}
	}
	return out
}

// isTextual reports whether any value of col fails to parse as a number.
func isTextual(b record.Batch, col string) bool {
	for _, r := range b.Rows {
		v, ok := r.Get(col)
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return true
		}
	}
	return false
}

// ResolveColumn returns explicit when the batch carries it. Otherwise the
// first column whose lower-cased name contains one of hints is returned, or
// "" when none does.
func ResolveColumn(h *record.Header, explicit string, hints ...string) string {
	if explicit != "" && h.Has(explicit) {
		return explicit
	}
	for _, c := range h.Names() {
		lc := strings.ToLower(c)
		for _, hint := range hints {
			if strings.Contains(lc, hint) {
				return c
			}
		}
	}
	return ""
}

// Column name hints used when no explicit column is configured.
var (
	CitationHints = []string{"cfr", "standard", "citation"}
	DateHints     = []string{"date", "issued", "open"}
)

// Resolve fills every column of the assignment from explicit choices with
// fallbacks. NAICS is never guessed.
func Resolve(b record.Batch, text []string, citation, date, naics string) Columns {
	cols := Columns{
		Text:     ResolveTextColumns(b, text),
		Citation: ResolveColumn(b.Header, citation, CitationHints...),
		Date:     ResolveColumn(b.Header, date, DateHints...),
	}
	if naics != "" && b.Header.Has(naics) {
		cols.NAICS = naics
	}
	return cols
}
