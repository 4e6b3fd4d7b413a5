package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/luxscan/internal/classify"
	"github.com/abhisek/luxscan/internal/export"
	"github.com/abhisek/luxscan/internal/ingest"
	"github.com/abhisek/luxscan/internal/logging"
	"github.com/abhisek/luxscan/internal/pipeline"
	"github.com/abhisek/luxscan/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Classify violation records and write filtered records and summaries",
	Example: `  luxscan extract --input 'data/osha_violation*.csv' --output-dir out
  luxscan extract --input data/osha.db --sqlite-table violations --output-dir out --min-score 3`,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringSlice("input", nil, "Input file glob(s); ** is allowed (required)")
	f.String("output-dir", "", "Directory to save outputs (required)")
	f.String("text-cols", "", "Comma-separated text columns to combine for search")
	f.String("cfr-col", "", "Column containing the CFR/standard code")
	f.String("date-col", "", "Column containing a date")
	f.String("naics-col", "", "NAICS column, reported when present")
	f.String("keep-tags", strings.Join(tagNames(classify.DefaultKeepTags()), ","), "Comma-separated tags to keep in filtered output")
	f.Int("min-score", 2, "Minimum score to keep")
	f.Bool("broad-only", false, "Classify only records with broad lighting vocabulary")
	f.Int("workers", 0, "Parallel classification shards (default GOMAXPROCS)")
	f.String("ruleset", "", "JSON file overriding the built-in patterns and weights")
	addInputFlags(extractCmd)

	_ = extractCmd.MarkFlagRequired("input")
	_ = extractCmd.MarkFlagRequired("output-dir")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	tags, err := cfg.Tags()
	if err != nil {
		return err
	}
	rs, err := loadRuleset(cfg.Ruleset)
	if err != nil {
		return err
	}

	inputs, _ := cmd.Flags().GetStringSlice("input")
	outDir, _ := cmd.Flags().GetString("output-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	log, runID := logging.WithRun(logger, "extract")
	ctx := cmd.Context()

	batch, read, err := ingest.Load(ctx, inputs, ingest.Options{Exclude: cfg.Exclude, SQLiteTable: cfg.SQLiteTable}, log)
	if err != nil {
		return err
	}
	log.Info("inputs loaded", zap.Int("files", len(read)), zap.Int("rows", len(batch.Rows)))

	cols := ingest.Resolve(batch, cfg.TextCols, cfg.CFRCol, cfg.DateCol, cfg.NAICSCol)
	log.Debug("columns resolved",
		zap.Strings("text_cols", cols.Text),
		zap.String("cfr_col", cols.Citation),
		zap.String("date_col", cols.Date),
		zap.String("naics_col", cols.NAICS),
	)

	res, err := pipeline.NewEngine(rs).Run(ctx, log, pipeline.Options{
		TextCols:    cols.Text,
		CitationCol: cols.Citation,
		DateCol:     cols.Date,
		KeepTags:    tags,
		MinScore:    cfg.MinScore,
		BroadOnly:   cfg.BroadOnly,
		Workers:     cfg.Workers,
	}, batch)
	if err != nil {
		return err
	}

	paths := export.PathsIn(outDir)
	writes := []struct {
		path  string
		write func(io.Writer) error
	}{
		{paths.Filtered, func(w io.Writer) error { return export.WriteFiltered(w, batch.Header, res.Filtered) }},
		{paths.TagSummary, func(w io.Writer) error { return export.WriteTagSummary(w, res.ByTag) }},
		{paths.YearSummary, func(w io.Writer) error { return export.WriteYearSummary(w, res.ByYearTag) }},
		{paths.DebugHead, func(w io.Writer) error { return export.WriteDebugHead(w, batch.Header, res.Classified) }},
	}
	for _, w := range writes {
		if err := export.WriteFile(w.path, w.write); err != nil {
			return err
		}
		log.Info("saved", zap.String("path", w.path))
	}

	return report.Fprint(cmd.OutOrStdout(), report.Extract{
		RunID:       runID,
		InputRows:   res.InputRows,
		Classified:  len(res.Classified),
		Candidates:  res.Candidates,
		Filtered:    len(res.Filtered),
		ByTag:       res.ByTag,
		Saved:       []string{paths.Filtered, paths.TagSummary, paths.YearSummary},
		TextCols:    cols.Text,
		CitationCol: cols.Citation,
		DateCol:     cols.Date,
		NAICSCol:    cols.NAICS,
		Warnings:    res.Warnings,
	})
}

func tagNames(tags []classify.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
