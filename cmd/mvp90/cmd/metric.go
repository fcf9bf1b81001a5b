package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thebenmerlin/MVP90/internal/domain/metric"
)

var metricFlags struct {
	entity int
}

var metricCmd = &cobra.Command{
	Use:   "metric <name>",
	Short: "Show a metric, live for --entity when a source provides it",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetric,
}

func init() {
	metricCmd.Flags().IntVar(&metricFlags.entity, "entity", 0, "Startup id for a live value")
}

func runMetric(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	name := args[0]
	m, err := a.catalog.Metric(name)
	if err != nil {
		return fmt.Errorf("%w (available: %d metrics, see 'mvp90 metric --help')", err, len(a.catalog.MetricNames()))
	}

	if metricFlags.entity > 0 {
		live, ok, err := a.signals.Metric(cmd.Context(), metricFlags.entity, name)
		if err != nil {
			return fmt.Errorf("entity %d: %w", metricFlags.entity, err)
		}
		if ok {
			m = a.catalog.Overlay(live)
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, m)
	}

	fmt.Fprintf(out, "Metric:      %s\n", m.Name)
	fmt.Fprintf(out, "Value:       %s\n", formatMetricValue(m))
	fmt.Fprintf(out, "Type:        %s\n", m.Type)
	if m.Range != "" {
		fmt.Fprintf(out, "Range:       %s\n", m.Range)
	}
	fmt.Fprintf(out, "Description: %s\n", m.Description)
	fmt.Fprintf(out, "Source:      %s (%s)\n", m.Source, m.Provenance)
	fmt.Fprintf(out, "Timestamp:   %s\n", m.Timestamp.Format(time.RFC3339))
	return nil
}

func formatMetricValue(m metric.Metric) string {
	if t, ok := m.Value.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	if m.Unit != "" {
		return fmt.Sprintf("%v %s", m.Value, m.Unit)
	}
	return fmt.Sprintf("%v", m.Value)
}
