// Package export writes classification results as CSV tables.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abhisek/luxscan/internal/aggregate"
	"github.com/abhisek/luxscan/internal/classify"
	"github.com/abhisek/luxscan/internal/record"
)

// Output file names written by an extract run.
const (
	FilteredFile    = "filtered_records.csv"
	TagSummaryFile  = "summary_by_tag.csv"
	YearSummaryFile = "summary_by_year.csv"
	DebugHeadFile   = "_debug_head.csv"
)

// Paths are the files of one extract run inside an output directory.
type Paths struct {
	Filtered    string
	TagSummary  string
	YearSummary string
	DebugHead   string
}

// PathsIn returns the output paths under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Filtered:    filepath.Join(dir, FilteredFile),
		TagSummary:  filepath.Join(dir, TagSummaryFile),
		YearSummary: filepath.Join(dir, YearSummaryFile),
		DebugHead:   filepath.Join(dir, DebugHeadFile),
	}
}

// Column is a derived output column appended after the original fields.
// Value receives the row's position and the row itself.
type Column struct {
	Name  string
	Value func(i int, r record.Raw) string
}

// recordColumns are appended to every classified row.
var recordColumns = []string{
	"tag", "score",
	"broad_kw", "low_explicit_kw", "visibility_hazard_kw", "egress_kw", "electrical_kw",
	"year", "cfr_part",
}

func recordValues(r classify.Record) []string {
	year := ""
	if r.HasYear {
		year = strconv.Itoa(r.Year)
	}
	return []string{
		string(r.Tag), strconv.Itoa(r.Score),
		strconv.FormatBool(r.Flags.Broad),
		strconv.FormatBool(r.Flags.LowExplicit),
		strconv.FormatBool(r.Flags.VisibilityHazard),
		strconv.FormatBool(r.Flags.Egress),
		strconv.FormatBool(r.Flags.Electrical),
		year, string(r.Part),
	}
}

// WriteFiltered writes records with every original column of h followed by
// the tag, score, flags, year and CFR part.
func WriteFiltered(w io.Writer, h *record.Header, records []classify.Record) error {
	cw := csv.NewWriter(w)
	names := h.Names()
	if err := cw.Write(append(names, recordColumns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		row := append(fieldValues(r.Raw, names), recordValues(r)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDebugHead writes the first classified record, the same shape as the
// filtered output, so a run can be sanity-checked by eye.
func WriteDebugHead(w io.Writer, h *record.Header, records []classify.Record) error {
	if len(records) > 1 {
		records = records[:1]
	}
	return WriteFiltered(w, h, records)
}

// WriteTagSummary writes the tag, n_records table.
func WriteTagSummary(w io.Writer, counts []aggregate.TagCount) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"tag", "n_records"}}
	for _, c := range counts {
		rows = append(rows, []string{string(c.Tag), strconv.Itoa(c.N)})
	}
	return cw.WriteAll(rows)
}

// WriteYearSummary writes the year, tag, n_records table. An empty summary
// still gets its header.
func WriteYearSummary(w io.Writer, counts []aggregate.YearTagCount) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"year", "tag", "n_records"}}
	for _, c := range counts {
		rows = append(rows, []string{strconv.Itoa(c.Year), string(c.Tag), strconv.Itoa(c.N)})
	}
	return cw.WriteAll(rows)
}

// WriteBatch writes the rows of b followed by the extra columns.
func WriteBatch(w io.Writer, b record.Batch, extra ...Column) error {
	cw := csv.NewWriter(w)
	names := b.Header.Names()
	head := names
	for _, c := range extra {
		head = append(head, c.Name)
	}
	if err := cw.Write(head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range b.Rows {
		row := fieldValues(r, names)
		for _, c := range extra {
			row = append(row, c.Value(i, r))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes a plain header and rows.
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return cw.WriteAll(rows)
}

func fieldValues(r record.Raw, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i], _ = r.Get(n)
	}
	return out
}

// WriteFile creates path and hands a buffered writer to fn.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
