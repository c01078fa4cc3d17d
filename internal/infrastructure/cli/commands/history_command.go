package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/chatcmd-go/internal/app"
)

const defaultHistoryLimit = 20

const timestampFormat = "2006-01-02 15:04"

// NewHistoryCommand creates the history command with all subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved commands",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
		newHistoryCountCommand(container),
		newHistorySizeCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the most recent commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be > 0")
			}
			deleted, err := container.HistoryStore.DeleteMostRecent(cmd.Context(), count)
			if err != nil {
				return fmt.Errorf("failed to delete history entries: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries.\n", deleted)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of most recent entries to delete")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved command",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryCountCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count saved commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := container.HistoryStore.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}
}

func newHistorySizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show history storage size on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := container.HistoryStore.SizeBytes()
			if err != nil {
				return fmt.Errorf("failed to measure history size: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

func listHistoryEntries(ctx context.Context, out io.Writer, container *app.Container, limit int) error {
	entries, err := container.HistoryStore.MostRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No commands saved yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMODEL\tCOMMAND")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			entry.CreatedAt.Local().Format(timestampFormat),
			entry.ModelID,
			entry.Command)
	}
	return w.Flush()
}
