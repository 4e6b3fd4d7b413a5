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
	"github.com/abhisek/luxscan/internal/sector"
	"github.com/abhisek/luxscan/internal/standards"
)

const (
	sectorJoinedFile = "illumination_by_sector.csv"
	sectorFocusFile  = "illumination_office_edu_health.csv"
)

var sectorCmd = &cobra.Command{
	Use:   "sector",
	Short: "Break illumination violations down by industry sector",
	Example: `  luxscan sector --inspections 'data/osha_inspection*.csv' \
    --violations 'data/osha_violation*.csv' --output-dir out`,
	RunE: runSector,
}

func init() {
	f := sectorCmd.Flags()
	f.StringSlice("inspections", nil, "Inspection file glob(s) (required)")
	f.StringSlice("violations", nil, "Violation file glob(s) (required)")
	f.String("output-dir", "", "Directory to save outputs (required)")
	f.StringSlice("prefix", standards.DefaultPrefixes(), "Standard code prefixes to match")
	f.String("inspections-table", "", "Table read from .db/.sqlite inspection inputs (default \"inspections\")")
	addInputFlags(sectorCmd)

	_ = sectorCmd.MarkFlagRequired("inspections")
	_ = sectorCmd.MarkFlagRequired("violations")
	_ = sectorCmd.MarkFlagRequired("output-dir")
}

func runSector(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	inspGlobs, _ := cmd.Flags().GetStringSlice("inspections")
	violGlobs, _ := cmd.Flags().GetStringSlice("violations")
	outDir, _ := cmd.Flags().GetString("output-dir")
	prefixes, _ := cmd.Flags().GetStringSlice("prefix")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	log, runID := logging.WithRun(logger, "sector")
	ctx := cmd.Context()
	inspOpts := ingest.Options{Exclude: cfg.Exclude, SQLiteTable: cfg.InspectionsTable}
	violOpts := ingest.Options{Exclude: cfg.Exclude, SQLiteTable: cfg.SQLiteTable}

	insp, _, err := ingest.Load(ctx, inspGlobs, inspOpts, log)
	if err != nil {
		return fmt.Errorf("load inspections: %w", err)
	}
	viol, _, err := ingest.Load(ctx, violGlobs, violOpts, log)
	if err != nil {
		return fmt.Errorf("load violations: %w", err)
	}
	if !viol.Header.Has(standards.DefaultStandardColumn) {
		return fmt.Errorf("violations: %w %q", standards.ErrNoStandardColumn, standards.DefaultStandardColumn)
	}

	illum := standards.Match(viol, standards.DefaultStandardColumn, prefixes).Select(sector.ViolationColumns...)
	log.Info("illumination violations", zap.Int("total", len(viol.Rows)), zap.Int("matched", len(illum.Rows)))

	joined, err := sector.Join(illum, insp.Select(sector.InspectionColumns...), sector.ActivityColumn)
	if err != nil {
		return err
	}
	log.Info("joined to inspections",
		zap.Int("rows", len(joined.Rows)),
		zap.Int("inspections", joined.Inspections),
		zap.Int("unmatched", joined.Unmatched),
	)

	all := sector.Summarize(joined.Batch, sector.NAICSColumn)
	focus := sector.Focus(all, sector.FocusSectors())

	joinedPath := filepath.Join(outDir, sectorJoinedFile)
	if err := export.WriteFile(joinedPath, func(w io.Writer) error {
		return export.WriteBatch(w, joined.Batch, export.Column{
			Name:  sector.Column,
			Value: func(_ int, r record.Raw) string { return string(sector.Of(r, sector.NAICSColumn)) },
		})
	}); err != nil {
		return err
	}
	focusPath := filepath.Join(outDir, sectorFocusFile)
	head, rows := sector.Table(focus)
	if err := export.WriteFile(focusPath, func(w io.Writer) error {
		return export.WriteTable(w, head, rows)
	}); err != nil {
		return err
	}

	return report.Fprint(cmd.OutOrStdout(), report.Sectors{
		RunID:       runID,
		Violations:  len(joined.Rows),
		Inspections: joined.Inspections,
		Unmatched:   joined.Unmatched,
		All:         all,
		Focus:       focus,
		Saved:       []string{joinedPath, focusPath},
	})
}
