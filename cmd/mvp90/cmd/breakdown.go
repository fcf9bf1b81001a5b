package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thebenmerlin/MVP90/internal/domain/insight"
)

var breakdownFlags struct {
	score string
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <id>",
	Short: "Explain how a score is composed",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVar(&breakdownFlags.score, "score", insight.DefaultScoreName, "Score name")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	b := a.catalog.Breakdown(id, breakdownFlags.score)

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, b)
	}

	fmt.Fprintf(out, "%s: %s = %.2f / %.0f (p%d)\n", b.EntityName, b.ScoreName, b.Value, b.MaxValue, b.Percentile)
	fmt.Fprintf(out, "Formula: %s\n", b.Formula)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tVALUE\tWEIGHT\tCONTRIBUTION\tSOURCE")
	for _, c := range b.Components {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\n", c.Name, c.Value, c.Weight, c.Contribution, c.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Category median %.2f, top percentile %.2f\n", b.CategoryMedian, b.CategoryTopPercentile)
	for _, c := range b.Comparables {
		fmt.Fprintf(out, "  vs %s: %.2f\n", c.Name, c.Score)
	}
	for _, i := range b.Insights {
		fmt.Fprintf(out, "  - %s\n", i)
	}
	return nil
}
