package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompty-go/internal/app"
	"github.com/doeshing/prompty-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/prompty-go/internal/infrastructure/history"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect generated prompt history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryPruneCommand(container),
		newHistoryPathCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := container.HistoryStore
			if store == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to retrieve history: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return helpers.RenderJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, MsgNoHistoryRecorded)
				return nil
			}
			helpers.RenderHistory(out, entries, time.Now())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			err := container.HistoryStore.Delete(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no history entry with id %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(out, cmd.InOrStdin(), "Clear all history?") {
				fmt.Fprintln(out, MsgClearCancelled)
				return nil
			}
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(out, MsgHistoryCleared)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryStore.ExportJSON(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", args[0])
			return nil
		},
	}
}

func newHistoryPruneCommand(container *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history entries older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return errors.New(ErrInvalidPruneDays)
			}
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			removed, err := container.HistoryStore.PruneOlderThan(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return fmt.Errorf("failed to prune history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %d days.\n", removed, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", DefaultHistoryPruneDays, "Age threshold in days")
	return cmd
}

func newHistoryPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the history storage location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.HistoryStore.Path())
			return nil
		},
	}
}

func confirm(out io.Writer, in io.Reader, question string) bool {
	return helpers.PromptForYesNo(out, bufio.NewReader(in), question, false)
}
