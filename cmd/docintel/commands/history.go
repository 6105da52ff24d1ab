package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analysis runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	if cfg.History.Disabled {
		ui.Info("Run history is disabled.")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runs, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(runs) == 0 {
		ui.Info("No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Command,
			run.ModelID,
			run.InputPath,
			run.Status,
			strconv.Itoa(run.Pages),
			ui.FormatDuration(run.Duration),
		})
	}
	ui.Table([]string{"WHEN", "COMMAND", "MODEL", "INPUT", "STATUS", "PAGES", "TOOK"}, rows)

	return nil
}
