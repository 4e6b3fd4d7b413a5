package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/luxscan/internal/classify"
	"github.com/abhisek/luxscan/internal/ruleset"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active pattern groups, weights and tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		rs, err := loadRuleset(cfg.Ruleset)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := ruleset.Marshal(rs)
			if err != nil {
				return fmt.Errorf("encode ruleset: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		w := rs.Weights()
		weights := map[ruleset.GroupName]int{
			ruleset.Broad:            w.Broad,
			ruleset.LowExplicit:      w.LowExplicit,
			ruleset.VisibilityHazard: w.VisibilityHazard,
			ruleset.Egress:           w.Egress,
			ruleset.Electrical:       w.Electrical,
		}

		fmt.Fprintf(out, "%-26s  %6s  %s\n", "Group", "Weight", "Patterns")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, name := range ruleset.AllGroups() {
			weight := "-"
			if v, ok := weights[name]; ok {
				weight = fmt.Sprintf("%+d", v)
			}
			for i, p := range rs.Group(name).Patterns() {
				if i == 0 {
					fmt.Fprintf(out, "%-26s  %6s  %s\n", name, weight, p)
					continue
				}
				fmt.Fprintf(out, "%-26s  %6s  %s\n", "", "", p)
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Rules (first match wins): %s\n", strings.Join(classify.RuleNames(), " > "))
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(tagNames(classify.AllTags()), ", "))
		return nil
	},
}

func init() {
	rulesCmd.Flags().String("ruleset", "", "JSON file overriding the built-in patterns and weights")
	rulesCmd.Flags().Bool("json", false, "Print the ruleset as a JSON document usable with --ruleset")
}
