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

var ocrFeatures = []docintel.Feature{
	docintel.FeatureStyleFont,
	docintel.FeatureLanguages,
}

var ocrCmd = &cobra.Command{
	Use:   "ocr <file>",
	Short: "Run OCR and handwriting recognition with prebuilt-read",
	Long: `Analyze a scanned image or PDF with the prebuilt-read model, which is
optimized for text-heavy and handwritten documents. Output separates
handwritten content from printed text using style detection, with per-word
and per-line confidence scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
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

	ui.Banner("OCR & HANDWRITING RECOGNITION",
		"Model: prebuilt-read (optimized for text + handwriting)",
		"Add-ons: styleFont, languages")
	ui.Newline()
	ui.Info("Analyzing: %s", path)

	result, elapsed, err := analyzeFile(ctx, client, docintel.ModelPrebuiltRead, path,
		docintel.AnalyzeOptions{Features: ocrFeatures})
	recordRun(cfg, log, &history.Run{
		Command:    "ocr",
		ModelID:    docintel.ModelPrebuiltRead,
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
		render.OCR(os.Stdout, result)
	}

	return nil
}
