// Package sector maps violations to coarse industry sectors through the
// NAICS code of their inspection.
package sector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/luxscan/internal/record"
)

// Sector is a coarse industry grouping derived from a 2-digit NAICS prefix.
type Sector string

const (
	Office         Sector = "Office / Professional / Admin"
	Education      Sector = "Education"
	HealthCare     Sector = "Health care & social assistance"
	Manufacturing  Sector = "Manufacturing"
	Construction   Sector = "Construction"
	Retail         Sector = "Retail trade"
	PublicAdmin    Sector = "Public administration"
	Transportation Sector = "Transportation & warehousing"
	Other          Sector = "Other sectors"
	Unknown        Sector = "Unknown"
)

// Column names shared by the OSHA inspection and violation exports.
const (
	ActivityColumn = "activity_nr"
	NAICSColumn    = "naics_code"
	SICColumn      = "sic_code"
	Column         = "sector"
)

// InspectionColumns are the inspection columns carried into a join.
var InspectionColumns = []string{ActivityColumn, SICColumn, NAICSColumn}

// ViolationColumns are the violation columns carried into a join.
var ViolationColumns = []string{ActivityColumn, "standard", "issuance_date", "initial_penalty"}

// FocusSectors are the desk-based, education and health care sectors.
func FocusSectors() []Sector {
	return []Sector{Office, Education, HealthCare}
}

type span struct {
	lo, hi int
	sector Sector
}

// spans are checked in order; the first containing span wins.
var spans = []span{
	{51, 56, Office},
	{61, 61, Education},
	{62, 62, HealthCare},
	{31, 33, Manufacturing},
	{23, 23, Construction},
	{44, 45, Retail},
	{92, 92, PublicAdmin},
	{48, 49, Transportation},
}

// Classify returns the sector of a NAICS code from its first two digits.
// Blank or non-numeric codes are Unknown.
func Classify(naics string) Sector {
	naics = strings.TrimSpace(naics)
	if naics == "" {
		return Unknown
	}
	two := naics
	if len(two) > 2 {
		two = two[:2]
	}
	n, err := strconv.Atoi(two)
	if err != nil {
		return Unknown
	}
	for _, s := range spans {
		if n >= s.lo && n <= s.hi {
			return s.sector
		}
	}
	return Other
}

// KeyError reports a join key missing from one side.
type KeyError struct {
	Side string
	Key  string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("missing %q in %s", e.Key, e.Side)
}

// Joined is the result of a left join of violations onto inspections.
type Joined struct {
	record.Batch
	// Inspections is the number of unique inspections on the right side.
	Inspections int
	// Unmatched counts violations with no inspection.
	Unmatched int
}

// Join left-joins violations to inspections on key. Inspections are
// de-duplicated on key, keeping the first. The result carries every
// violation column followed by the inspection columns the violations lack.
func Join(violations, inspections record.Batch, key string) (*Joined, error) {
	if violations.Header == nil || !violations.Header.Has(key) {
		return nil, &KeyError{Side: "violations", Key: key}
	}
	if inspections.Header == nil || !inspections.Header.Has(key) {
		return nil, &KeyError{Side: "inspections", Key: key}
	}

	byKey := make(map[string]record.Raw, len(inspections.Rows))
	for _, r := range inspections.Rows {
		k, ok := r.Get(key)
		if !ok {
			continue
		}
		if _, seen := byKey[k]; !seen {
			byKey[k] = r
		}
	}

	names := violations.Header.Names()
	var right []string
	for _, n := range inspections.Header.Names() {
		if !violations.Header.Has(n) {
			right = append(right, n)
		}
	}
	h := record.NewHeader(append(names, right...)...)

	out := &Joined{Batch: record.Batch{Header: h}, Inspections: len(byKey)}
	out.Rows = make([]record.Raw, 0, len(violations.Rows))
	for _, v := range violations.Rows {
		values := make([]*string, h.Len())
		for i, n := range names {
			if s, ok := v.Get(n); ok {
				values[i] = &s
			}
		}
		k, _ := v.Get(key)
		insp, ok := byKey[k]
		if !ok {
			out.Unmatched++
		}
		for j, n := range right {
			if !ok {
				break
			}
			if s, present := insp.Get(n); present {
				values[len(names)+j] = &s
			}
		}
		out.Rows = append(out.Rows, record.NewNullable(h, values))
	}
	return out, nil
}

// Of returns the sector of a row from its NAICS column.
func Of(r record.Raw, naicsCol string) Sector {
	v, _ := r.Get(naicsCol)
	return Classify(v)
}

// Count is one row of a sector summary.
type Count struct {
	Sector Sector
	N      int
}

// Summarize counts rows per sector, largest first. Ties keep first-seen
// order.
func Summarize(b record.Batch, naicsCol string) []Count {
	idx := make(map[Sector]int)
	var out []Count
	for _, r := range b.Rows {
		s := Of(r, naicsCol)
		i, ok := idx[s]
		if !ok {
			i = len(out)
			idx[s] = i
			out = append(out, Count{Sector: s})
		}
		out[i].N++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].N > out[b].N })
	return out
}

// Focus keeps the counts of the given sectors, order preserved.
func Focus(counts []Count, sectors []Sector) []Count {
	want := make(map[Sector]bool, len(sectors))
	for _, s := range sectors {
		want[s] = true
	}
	out := []Count{}
	for _, c := range counts {
		if want[c.Sector] {
			out = append(out, c)
		}
	}
	return out
}

// Table renders counts as the sector, n_violations table.
func Table(counts []Count) ([]string, [][]string) {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{string(c.Sector), strconv.Itoa(c.N)}
	}
	return []string{"sector", "n_violations"}, rows
}
