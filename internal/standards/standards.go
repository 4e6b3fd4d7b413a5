// Package standards selects violations by cited standard and summarizes
// them per year.
package standards

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/luxscan/internal/dates"
	"github.com/abhisek/luxscan/internal/record"
)

// Illumination standards as OSHA encodes them, without dots.
const (
	Illumination         = "19260056" // 29 CFR 1926.56
	ConstructionLighting = "19260026" // 29 CFR 1926.26
	ExitRoutes           = "19100037" // 29 CFR 1910.37
)

// Column names of the OSHA violation export.
const (
	DefaultStandardColumn = "standard"
	DefaultPenaltyColumn  = "initial_penalty"
	DefaultIssuedColumn   = "issuance_date"
)

// DefaultPrefixes returns the illumination standard prefixes.
func DefaultPrefixes() []string {
	return []string{Illumination, ConstructionLighting, ExitRoutes}
}

// ErrNoStandardColumn is returned when the batch lacks the standard column.
var ErrNoStandardColumn = errors.New("no standard column")

// Options select the columns and prefixes of a search. Empty columns fall
// back to the OSHA export names.
type Options struct {
	Prefixes    []string
	StandardCol string
	PenaltyCol  string
	DateCol     string
}

func (o Options) withDefaults(h *record.Header) Options {
	if len(o.Prefixes) == 0 {
		o.Prefixes = DefaultPrefixes()
	}
	if o.StandardCol == "" {
		o.StandardCol = DefaultStandardColumn
	}
	if o.PenaltyCol == "" && h.Has(DefaultPenaltyColumn) {
		o.PenaltyCol = DefaultPenaltyColumn
	}
	if o.DateCol == "" && h.Has(DefaultIssuedColumn) {
		o.DateCol = DefaultIssuedColumn
	}
	return o
}

// Violation is a matched row with its parsed penalty and year.
type Violation struct {
	Raw     record.Raw
	Penalty float64
	Year    int
	HasYear bool
}

// YearStat is one row of the per-year summary.
type YearStat struct {
	Year         int
	Violations   int
	TotalPenalty float64
}

// Result is the outcome of a search.
type Result struct {
	Options    Options
	Header     *record.Header
	Violations []Violation
	ByYear     []YearStat
}

// Match returns the rows of b whose col value starts with any prefix.
func Match(b record.Batch, col string, prefixes []string) record.Batch {
	out := record.Batch{Header: b.Header}
	for _, r := range b.Rows {
		v, ok := r.Get(col)
		if !ok {
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(v, p) {
				out.Rows = append(out.Rows, r)
				break
			}
		}
	}
	return out
}

// Search selects the rows of b citing one of the prefixes, parses penalty
// and year of each, and builds the per-year summary. An unparseable penalty
// counts as zero; an unparseable date leaves the row out of the summary only.
func Search(b record.Batch, opts Options) (*Result, error) {
	if b.Header == nil {
		return nil, ErrNoStandardColumn
	}
	opts = opts.withDefaults(b.Header)
	if !b.Header.Has(opts.StandardCol) {
		return nil, fmt.Errorf("%w %q", ErrNoStandardColumn, opts.StandardCol)
	}

	matched := Match(b, opts.StandardCol, opts.Prefixes)
	res := &Result{Options: opts, Header: b.Header}
	for _, r := range matched.Rows {
		v := Violation{Raw: r, Penalty: Penalty(r, opts.PenaltyCol)}
		if opts.DateCol != "" {
			if raw, ok := r.Get(opts.DateCol); ok {
				if y, err := dates.Year(raw); err == nil {
					v.Year, v.HasYear = y, true
				}
			}
		}
		res.Violations = append(res.Violations, v)
	}
	res.ByYear = ByYear(res.Violations)
	return res, nil
}

// Penalty parses the penalty column of r, zero when absent or malformed.
func Penalty(r record.Raw, col string) float64 {
	v, ok := r.Get(col)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// ByYear counts violations and sums penalties per year, ascending. Rows
// without a year are skipped.
func ByYear(vs []Violation) []YearStat {
	idx := make(map[int]int)
	var out []YearStat
	for _, v := range vs {
		if !v.HasYear {
			continue
		}
		i, ok := idx[v.Year]
		if !ok {
			i = len(out)
			idx[v.Year] = i
			out = append(out, YearStat{Year: v.Year})
		}
		out[i].Violations++
		out[i].TotalPenalty += v.Penalty
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Year < out[b].Year })
	return out
}

// Batch returns the matched rows as a batch.
func (r *Result) Batch() record.Batch {
	b := record.Batch{Header: r.Header, Rows: make([]record.Raw, len(r.Violations))}
	for i, v := range r.Violations {
		b.Rows[i] = v.Raw
	}
	return b
}

// YearValue returns the year of the i-th violation as a string, empty when
// absent.
func (r *Result) YearValue(i int) string {
	if !r.Violations[i].HasYear {
		return ""
	}
	return strconv.Itoa(r.Violations[i].Year)
}

// Table renders ByYear as the year, n_violations, total_penalty table.
func (r *Result) Table() ([]string, [][]string) {
	rows := make([][]string, len(r.ByYear))
	for i, s := range r.ByYear {
		rows[i] = []string{
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Violations),
			strconv.FormatFloat(s.TotalPenalty, 'f', -1, 64),
		}
	}
	return []string{"year", "n_violations", "total_penalty"}, rows
}

// String summarizes the result for logs.
func (r *Result) String() string {
	if len(r.ByYear) == 0 {
		return fmt.Sprintf("%d violations, no usable year information", len(r.Violations))
	}
	return fmt.Sprintf("%d violations over %d years", len(r.Violations), len(r.ByYear))
}
