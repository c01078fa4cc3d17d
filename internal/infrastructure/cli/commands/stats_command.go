package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/app"
)

// NewStatsCommand creates the stats command reporting per-model usage.
func NewStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-model usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := container.HistoryStore.UsageStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load usage statistics: %w", err)
			}
			if len(stats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No usage recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tCALLS\tOK\tSUCCESS\tAVG LATENCY")
			for _, stat := range stats {
				rate := 0.0
				if stat.Invocations > 0 {
					rate = float64(stat.Successes) / float64(stat.Invocations) * 100
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%dms\n",
					stat.ModelID,
					stat.Invocations,
					stat.Successes,
					rate,
					stat.AverageLatencyMS())
			}
			return w.Flush()
		},
	}
}
