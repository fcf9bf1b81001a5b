package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thebenmerlin/MVP90/internal/domain/startup"
	"github.com/thebenmerlin/MVP90/internal/service/signals"
)

var signalsFlags struct {
	industry   string
	region     string
	source     string
	actionTag  string
	minNovelty int
	sortBy     string
}

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List tracked startup signals",
	Args:  cobra.NoArgs,
	RunE:  runSignals,
}

func init() {
	fl := signalsCmd.Flags()
	fl.StringVar(&signalsFlags.industry, "industry", "", "Only this industry")
	fl.StringVar(&signalsFlags.region, "region", "", "Only this region")
	fl.StringVar(&signalsFlags.source, "source", "", "Only this discovery source")
	fl.StringVar(&signalsFlags.actionTag, "action", "", "Only this action tag (Build, Scout, Store)")
	fl.IntVar(&signalsFlags.minNovelty, "min-novelty", 0, "Minimum novelty score")
	fl.StringVar(&signalsFlags.sortBy, "sort", "", "Sort descending by noveltyScore, indiaMarketFit or estimatedBuildCost")
}

func runSignals(cmd *cobra.Command, _ []string) error {
	tag := startup.ActionTag(signalsFlags.actionTag)
	if tag != "" && !tag.Valid() {
		return fmt.Errorf("invalid action tag %q", signalsFlags.actionTag)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	filter := signals.Filter{
		Industry:   signalsFlags.industry,
		Region:     signalsFlags.region,
		Source:     signalsFlags.source,
		ActionTag:  tag,
		MinNovelty: signalsFlags.minNovelty,
	}
	list := filter.Apply(a.signals.ListSignals(cmd.Context()))
	if err := signals.SortSignals(list, signalsFlags.sortBy); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, list)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINDUSTRY\tREGION\tNOVELTY\tFIT\tBUILD COST\tACTION\tLIVE")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			s.ID, s.Name, s.Industry, s.Region,
			formatScore(s.NoveltyScore), formatScore(s.IndiaMarketFit),
			formatBuildCost(s.EstimatedBuildCost), s.ActionTag, s.RealTimeData)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d signals\n", len(list))
	return nil
}
