package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/history"
	"github.com/asqr-ai/docintel/internal/render"
)

var classifierID string

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify document types with a custom classifier",
	Long: `Submit a document to a trained custom classifier and print the detected
document type for each logical document in the file, with confidence scores
and page ranges. The classifier ID comes from the
AZURE_DOCUMENT_INTELLIGENCE_CLASSIFIER_ID environment variable or the
--classifier flag.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifierID, "classifier", "", "custom classifier ID (overrides config)")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	id := classifierID
	if id == "" {
		id = cfg.Azure.ClassifierID
	}
	if id == "" {
		ui.Error("No classifier configured.")
		ui.Info("Train a classifier in Document Intelligence Studio, then set")
		ui.Info("AZURE_DOCUMENT_INTELLIGENCE_CLASSIFIER_ID in your .env file or")
		ui.Info("pass --classifier <id>.")
		return fmt.Errorf("classifier ID is required")
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	path := args[0]
	if err := requireFile(path); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	ui.Banner("DOCUMENT CLASSIFICATION",
		fmt.Sprintf("Classifier: %s", id))
	ui.Newline()
	ui.Info("Classifying: %s", path)

	start := time.Now()
	op, err := client.BeginClassify(ctx, id, path)
	if err != nil {
		recordRun(cfg, log, &history.Run{
			Command:   "classify",
			ModelID:   id,
			InputPath: path,
			Status:    statusOf(err),
			Duration:  time.Since(start),
		})
		return err
	}

	spin := ui.NewSpinner("Waiting for classification...")
	spin.Start()
	result, err := op.Wait(ctx)
	spin.Stop()

	recordRun(cfg, log, &history.Run{
		Command:    "classify",
		ModelID:    id,
		InputPath:  path,
		Status:     statusOf(err),
		Pages:      pageCount(result),
		Duration:   time.Since(start),
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
		render.Classification(os.Stdout, result, id)
	}

	return nil
}
