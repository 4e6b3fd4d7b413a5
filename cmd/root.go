package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/luxscan/internal/config"
	"github.com/abhisek/luxscan/internal/logging"
	"github.com/abhisek/luxscan/internal/ruleset"
)

var (
	cfgFile string
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "luxscan",
	Short: "Find low-lighting hazards in OSHA violation records",
	Long: `luxscan classifies OSHA violation narratives into low-lighting hazard
categories using weighted lexical signals, then writes filtered records and
per-tag and per-year summaries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the command tree. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file (overridden by LUXSCAN_* env vars and flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(standardsCmd)
	rootCmd.AddCommand(sectorCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig layers the config file, then LUXSCAN_* env vars, then any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("text-cols") {
		v, _ := f.GetString("text-cols")
		cfg.TextCols = config.ParseList(v)
	}
	if f.Changed("cfr-col") {
		cfg.CFRCol, _ = f.GetString("cfr-col")
	}
	if f.Changed("date-col") {
		cfg.DateCol, _ = f.GetString("date-col")
	}
	if f.Changed("naics-col") {
		cfg.NAICSCol, _ = f.GetString("naics-col")
	}
	if f.Changed("keep-tags") {
		v, _ := f.GetString("keep-tags")
		cfg.KeepTags = config.ParseList(v)
	}
	if f.Changed("min-score") {
		cfg.MinScore, _ = f.GetInt("min-score")
	}
	if f.Changed("broad-only") {
		cfg.BroadOnly, _ = f.GetBool("broad-only")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("ruleset") {
		cfg.Ruleset, _ = f.GetString("ruleset")
	}
	if f.Changed("exclude") {
		cfg.Exclude, _ = f.GetStringSlice("exclude")
	}
	if f.Changed("sqlite-table") {
		cfg.SQLiteTable, _ = f.GetString("sqlite-table")
	}
	if f.Changed("inspections-table") {
		cfg.InspectionsTable, _ = f.GetString("inspections-table")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadRuleset returns the built-in ruleset, or the file at path merged over
// it.
func loadRuleset(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		return ruleset.Default(), nil
	}
	rs, err := ruleset.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}
	return rs, nil
}

// addInputFlags registers the input discovery flags shared by commands.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("exclude", nil, "Input file base names to skip")
	cmd.Flags().String("sqlite-table", "", "Table read from .db/.sqlite inputs (default \"violations\")")
}
