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

// documentFeatures are the add-on features the document command enables.
// The prebuilt-document model was retired; prebuilt-layout with add-ons
// extracts the same key-value pairs, styles, barcodes, and languages.
var documentFeatures = []docintel.Feature{
	docintel.FeatureKeyValuePairs,
	docintel.FeatureStyleFont,
	docintel.FeatureBarcodes,
	docintel.FeatureLanguages,
}

var documentCmd = &cobra.Command{
	Use:   "document <file>",
	Short: "Extract enhanced data with layout add-on features",
	Long: `Analyze a document with prebuilt-layout plus add-on features: key-value
pairs, font styles, barcode detection, and language detection.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
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

	ui.Banner("ADD-ON FEATURES — Enhanced Data Extraction",
		"Demonstrates: key-value pairs, font styles,",
		"barcode detection, language detection")
	ui.Newline()
	ui.Info("Analyzing: %s", path)

	result, elapsed, err := analyzeFile(ctx, client, docintel.ModelPrebuiltLayout, path,
		docintel.AnalyzeOptions{Features: documentFeatures})
	recordRun(cfg, log, &history.Run{
		Command:    "document",
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
		render.Document(os.Stdout, result, documentFeatures)
	}

	return nil
}
