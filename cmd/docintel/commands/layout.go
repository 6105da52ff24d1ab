package commands

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/docintel"
	"github.com/asqr-ai/docintel/internal/history"
	"github.com/asqr-ai/docintel/internal/render"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <file> [file...]",
	Short: "Extract visual structure with the prebuilt-layout model",
	Long: `Analyze one or more documents with the prebuilt-layout model: paragraphs
with semantic roles, tables, selection marks (checkboxes), and page structure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	ui.Banner("LAYOUT MODEL — Visual Structure & Document Organization",
		"Demonstrates: paragraphs, semantic roles, tables,",
		"selection marks (checkboxes), page structure")

	var bar *ui.ProgressBar
	if len(args) > 1 {
		bar = ui.NewProgressBar(int64(len(args)), "Analyzing documents")
	}

	for _, path := range args {
		if err := requireFile(path); err != nil {
			return err
		}

		ui.Newline()
		ui.Info("Analyzing: %s", path)

		result, elapsed, err := analyzeFile(ctx, client, docintel.ModelPrebuiltLayout, path, docintel.AnalyzeOptions{})
		recordRun(cfg, log, &history.Run{
			Command:    "layout",
			ModelID:    docintel.ModelPrebuiltLayout,
			InputPath:  path,
			Status:     statusOf(err),
			Pages:      pageCount(result),
			Duration:   elapsed,
			OutputPath: outputPath,
		})
		if err != nil {
			return err
		}

		printed, err := emitResult(result)
		if err != nil {
			return err
		}
		if !printed {
			render.Layout(os.Stdout, result)
		}

		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return nil
}

func pageCount(result *docintel.AnalyzeResult) int {
	if result == nil {
		return 0
	}
	return len(result.Pages)
}
