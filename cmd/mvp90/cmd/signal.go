package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var signalCmd = &cobra.Command{
	Use:   "signal <id>",
	Short: "Show one startup signal",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignal,
}

func runSignal(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	s, err := a.signals.GetSignal(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("signal %d: %w", id, err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, s)
	}

	fmt.Fprintf(out, "#%d %s\n", s.ID, s.Name)
	fmt.Fprintf(out, "  %s\n", s.Pitch)
	fmt.Fprintf(out, "Industry:      %s\n", s.Industry)
	fmt.Fprintf(out, "Region:        %s\n", s.Region)
	fmt.Fprintf(out, "Source:        %s\n", s.Source)
	fmt.Fprintf(out, "Team:          %s (%s)\n", s.Team, s.FounderBackground)
	fmt.Fprintf(out, "Novelty:       %s\n", formatScore(s.NoveltyScore))
	fmt.Fprintf(out, "Cloneability:  %s\n", formatScore(s.CloneabilityScore))
	fmt.Fprintf(out, "India fit:     %s\n", formatScore(s.IndiaMarketFit))
	fmt.Fprintf(out, "Build cost:    %s\n", formatBuildCost(s.EstimatedBuildCost))
	fmt.Fprintf(out, "Action:        %s\n", s.ActionTag)
	fmt.Fprintf(out, "Traction:\n")
	fmt.Fprintf(out, "  GitHub stars:       %d\n", s.TractionSignals.GitHubStars)
	fmt.Fprintf(out, "  Twitter followers:  %d\n", s.TractionSignals.TwitterFollowers)
	fmt.Fprintf(out, "  Substack posts:     %d\n", s.TractionSignals.SubstackPosts)
	fmt.Fprintf(out, "  Product Hunt votes: %d\n", s.TractionSignals.ProductHuntVotes)
	fmt.Fprintf(out, "Updated:       %s (live: %t)\n", s.LastUpdated, s.RealTimeData)
	return nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
