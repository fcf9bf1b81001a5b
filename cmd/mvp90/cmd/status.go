package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured integrations and cache counters",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	cache := a.signals.CacheStatus()
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, map[string]interface{}{
			"version":      version,
			"integrations": a.integrations,
			"cache":        cache,
		})
	}

	names := make([]string, 0, len(a.integrations))
	for name := range a.integrations {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "Version: %s\n", version)
	fmt.Fprintf(out, "Integrations:\n")
	for _, name := range names {
		state := "disabled"
		if a.integrations[name] {
			state = "enabled"
		}
		fmt.Fprintf(out, "  %-12s %s\n", name, state)
	}
	fmt.Fprintf(out, "Cache: %d/%d cached, %d hits, %d misses\n", cache.Cached, cache.Total, cache.Hits, cache.Misses)
	return nil
}
