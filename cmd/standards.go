package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/luxscan/internal/export"
	"github.com/abhisek/luxscan/internal/ingest"
	"github.com/abhisek/luxscan/internal/logging"
	"github.com/abhisek/luxscan/internal/record"
	"github.com/abhisek/luxscan/internal/report"
	"github.com/abhisek/luxscan/internal/standards"
)

const (
	standardsViolationsFile = "illumination_violations.csv"
	standardsByYearFile     = "illumination_stats_by_year.csv"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Select violations citing illumination standards and summarize them per year",
	Example: `  luxscan standards --input 'data/osha_violation*.csv' --output-dir out
  luxscan standards --input data/v.csv --prefix 19260056 --output-dir out`,
	RunE: runStandards,
}

func init() {
	f := standardsCmd.Flags()
	f.StringSlice("input", nil, "Violation file glob(s) (required)")
	f.String("output-dir", "", "Directory to save outputs (required)")
	f.StringSlice("prefix", standards.DefaultPrefixes(), "Standard code prefixes to match")
	addInputFlags(standardsCmd)

	_ = standardsCmd.MarkFlagRequired("input")
	_ = standardsCmd.MarkFlagRequired("output-dir")
}

func runStandards(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	inputs, _ := cmd.Flags().GetStringSlice("input")
	outDir, _ := cmd.Flags().GetString("output-dir")
	prefixes, _ := cmd.Flags().GetStringSlice("prefix")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	log, runID := logging.WithRun(logger, "standards")
	batch, _, err := ingest.Load(cmd.Context(), inputs, ingest.Options{Exclude: cfg.Exclude, SQLiteTable: cfg.SQLiteTable}, log)
	if err != nil {
		return err
	}

	res, err := standards.Search(batch, standards.Options{Prefixes: prefixes})
	if err != nil {
		return err
	}
	log.Info("standards matched",
		zap.Stringer("summary", res),
		zap.Strings("prefixes", res.Options.Prefixes),
		zap.Int("violations", len(res.Violations)),
		zap.String("penalty_col", res.Options.PenaltyCol),
		zap.String("date_col", res.Options.DateCol),
	)

	rep := report.Standards{RunID: runID, InputRows: len(batch.Rows), Prefixes: res.Options.Prefixes, Result: res}
	if len(res.Violations) == 0 {
		log.Warn("no rows matched the prefixes")
		return report.Fprint(cmd.OutOrStdout(), rep)
	}

	full := filepath.Join(outDir, standardsViolationsFile)
	if err := export.WriteFile(full, func(w io.Writer) error {
		return export.WriteBatch(w, res.Batch(), export.Column{
			Name:  "year",
			Value: func(i int, _ record.Raw) string { return res.YearValue(i) },
		})
	}); err != nil {
		return err
	}
	rep.Saved = append(rep.Saved, full)

	if len(res.ByYear) > 0 {
		stats := filepath.Join(outDir, standardsByYearFile)
		head, rows := res.Table()
		if err := export.WriteFile(stats, func(w io.Writer) error {
			return export.WriteTable(w, head, rows)
		}); err != nil {
			return err
		}
		rep.Saved = append(rep.Saved, stats)
	}
	return report.Fprint(cmd.OutOrStdout(), rep)
}
