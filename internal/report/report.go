// Package report renders end-of-run summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/luxscan/internal/aggregate"
	"github.com/abhisek/luxscan/internal/sector"
	"github.com/abhisek/luxscan/internal/standards"
	"github.com/abhisek/luxscan/internal/ui/components"
	"github.com/abhisek/luxscan/internal/ui/theme"
)

const barWidth = 24

// Extract is the summary of an extract run.
type Extract struct {
	RunID       string
	InputRows   int
	Classified  int
	Candidates  int
	Filtered    int
	ByTag       []aggregate.TagCount
	Saved       []string
	TextCols    []string
	CitationCol string
	DateCol     string
	NAICSCol    string
	Warnings    []error
}

// Render returns the styled report.
func (e Extract) Render() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("=== DONE ===") + "\n")
	b.WriteString(line("Input rows", humanize.Comma(int64(e.InputRows))))
	b.WriteString(line("Broad keyword candidates", humanize.Comma(int64(e.Candidates))))
	b.WriteString(line("Filtered (kept tags + min_score)", humanize.Comma(int64(e.Filtered))))

	if len(e.ByTag) > 0 {
		b.WriteString("\n")
		width := 0
		for _, c := range e.ByTag {
			width = max(width, len(c.Tag))
		}
		for _, c := range e.ByTag {
			bar := components.NewShareBar(string(c.Tag), width, c.N, e.Classified, barWidth)
			b.WriteString(bar.View() + "  " + theme.Value.Render(humanize.Comma(int64(c.N))) + "\n")
		}
	}

	b.WriteString("\n")
	for _, p := range e.Saved {
		b.WriteString(theme.Saved.Render("Saved: ") + p + "\n")
	}

	b.WriteString("\n")
	b.WriteString(line("Used text columns", strings.Join(e.TextCols, ", ")))
	if e.CitationCol != "" {
		b.WriteString(line("CFR column", e.CitationCol))
	}
	if e.DateCol != "" {
		b.WriteString(line("Date column", e.DateCol))
	}
	if e.NAICSCol != "" {
		b.WriteString(line("NAICS column", e.NAICSCol))
	}
	writeWarnings(&b, e.Warnings)
	if e.RunID != "" {
		b.WriteString(theme.Hint.Render("run " + e.RunID))
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// Standards is the summary of a standards search.
type Standards struct {
	RunID     string
	InputRows int
	Prefixes  []string
	Result    *standards.Result
	Saved     []string
}

// Render returns the styled report.
func (s Standards) Render() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Illumination standards") + "\n")
	b.WriteString(line("Combined violations rows", humanize.Comma(int64(s.InputRows))))
	b.WriteString(line("Prefixes", strings.Join(s.Prefixes, ", ")))

	n := 0
	if s.Result != nil {
		n = len(s.Result.Violations)
	}
	b.WriteString(line("Matching violations", humanize.Comma(int64(n))))

	if s.Result != nil && len(s.Result.ByYear) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-6s %12s %16s", "year", "n_violations", "total_penalty")) + "\n")
		for _, y := range s.Result.ByYear {
			b.WriteString(fmt.Sprintf("%-6d %12s %16s\n",
				y.Year,
				humanize.Comma(int64(y.Violations)),
				humanize.CommafWithDigits(y.TotalPenalty, 2),
			))
		}
	} else if n > 0 {
		b.WriteString(theme.Warn.Render("Could not compute yearly stats (no usable year information).") + "\n")
	}

	b.WriteString("\n")
	for _, p := range s.Saved {
		b.WriteString(theme.Saved.Render("Saved: ") + p + "\n")
	}
	if s.RunID != "" {
		b.WriteString(theme.Hint.Render("run " + s.RunID))
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// Sectors is the summary of a sector breakdown.
type Sectors struct {
	RunID       string
	Violations  int
	Inspections int
	Unmatched   int
	All         []sector.Count
	Focus       []sector.Count
	Saved       []string
}

// Render returns the styled report.
func (s Sectors) Render() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Illumination violations by sector") + "\n")
	b.WriteString(line("Illumination violations", humanize.Comma(int64(s.Violations))))
	b.WriteString(line("Unique inspections", humanize.Comma(int64(s.Inspections))))
	b.WriteString(line("Without inspection", humanize.Comma(int64(s.Unmatched))))

	writeSectorBars(&b, "All sectors", s.All, s.Violations)
	writeSectorBars(&b, "Office / Education / Health sectors", s.Focus, s.Violations)

	b.WriteString("\n")
	for _, p := range s.Saved {
		b.WriteString(theme.Saved.Render("Saved: ") + p + "\n")
	}
	if s.RunID != "" {
		b.WriteString(theme.Hint.Render("run " + s.RunID))
	}
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func writeSectorBars(b *strings.Builder, title string, counts []sector.Count, total int) {
	b.WriteString("\n" + theme.Label.Render(title+":") + "\n")
	if len(counts) == 0 {
		b.WriteString(theme.Hint.Render("none") + "\n")
		return
	}
	width := 0
	for _, c := range counts {
		width = max(width, lipgloss.Width(string(c.Sector)))
	}
	for _, c := range counts {
		bar := components.NewShareBar(string(c.Sector), width, c.N, total, barWidth)
		b.WriteString(bar.View() + "  " + theme.Value.Render(humanize.Comma(int64(c.N))) + "\n")
	}
}

func line(label, value string) string {
	return theme.Label.Render(label+":") + " " + theme.Value.Render(value) + "\n"
}

func writeWarnings(b *strings.Builder, warnings []error) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(theme.Warn.Render("Warning: ") + w.Error() + "\n")
	}
}

// Renderer is any report.
type Renderer interface {
	Render() string
}

// Fprint writes r to w, downgrading colors to what w supports.
func Fprint(w io.Writer, r Renderer) error {
	cw := colorprofile.NewWriter(w, os.Environ())
	_, err := fmt.Fprintln(cw, r.Render())
	return err
}
