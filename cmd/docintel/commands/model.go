package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/config"
	"github.com/asqr-ai/docintel/internal/docintel"
	"github.com/asqr-ai/docintel/internal/history"
	"github.com/asqr-ai/docintel/internal/observability"
	"github.com/asqr-ai/docintel/internal/render"
)

var (
	trainDescription string
	trainBuildMode   string
	trainPrefix      string
	trainYes         bool
	deleteYes        bool
	analyzeModelID   string
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Train and manage custom extraction models",
}

var modelTrainCmd = &cobra.Command{
	Use:   "train <model-id>",
	Short: "Train a custom model from labeled blob storage data",
	Long: `Start a custom model build from labeled training documents in Azure Blob
Storage. The container SAS URL comes from AZURE_BLOB_CONTAINER_SAS_URL.
Neural builds commonly run 20-30 minutes; the command polls until the build
finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: runModelTrain,
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom models in the resource",
	Args:  cobra.NoArgs,
	RunE:  runModelList,
}

var modelInfoCmd = &cobra.Command{
	Use:   "info <model-id>",
	Short: "Show details of a model, including its field schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelInfo,
}

var modelDeleteCmd = &cobra.Command{
	Use:   "delete <model-id>",
	Short: "Delete a custom model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelDelete,
}

var modelAnalyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract fields from a document with a trained custom model",
	Long: `Analyze a document with a trained custom extraction model and print the
extracted fields grouped by category. The model ID comes from the
CUSTOM_MODEL_ID environment variable or the --model flag.`,
	Args: cobra.ExactArgs(1),
	RunE: runModelAnalyze,
}

func init() {
	modelTrainCmd.Flags().StringVar(&trainDescription, "description", "", "model description")
	modelTrainCmd.Flags().StringVar(&trainBuildMode, "build-mode", "neural", "build mode: neural or template")
	modelTrainCmd.Flags().StringVar(&trainPrefix, "prefix", "", "blob prefix of the training data")
	modelTrainCmd.Flags().BoolVarP(&trainYes, "yes", "y", false, "skip the confirmation prompt")
	modelDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	modelAnalyzeCmd.Flags().StringVar(&analyzeModelID, "model", "", "custom model ID (overrides config)")

	modelCmd.AddCommand(modelTrainCmd, modelListCmd, modelInfoCmd, modelDeleteCmd, modelAnalyzeCmd)
	rootCmd.AddCommand(modelCmd)
}

// buildPollClient constructs a client with the widened poll policy used for
// model training, which runs much longer than document analysis.
func buildPollClient(cfg *config.Config, log *observability.Logger) (*docintel.Client, error) {
	if err := cfg.RequireAzure(); err != nil {
		return nil, err
	}
	return docintel.NewClient(docintel.Config{
		Endpoint:   cfg.Azure.Endpoint,
		Key:        cfg.Azure.Key,
		APIVersion: cfg.Azure.APIVersion,
		Timeout:    cfg.Azure.RequestTimeout,
		Poll: docintel.PollPolicy{
			Interval:    cfg.Poll.BuildInterval,
			MaxAttempts: cfg.Poll.BuildMaxAttempts,
		},
		Logger: log,
	})
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func runModelTrain(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if cfg.Azure.BlobContainerSASURL == "" {
		ui.Error("No training data source configured.")
		ui.Info("Set AZURE_BLOB_CONTAINER_SAS_URL in your .env file to the SAS URL")
		ui.Info("of the container holding your labeled training documents.")
		return fmt.Errorf("blob container SAS URL is required")
	}

	mode := docintel.BuildMode(trainBuildMode)
	switch mode {
	case docintel.BuildModeNeural, docintel.BuildModeTemplate:
	default:
		return fmt.Errorf("unknown build mode %q (expected neural or template)", trainBuildMode)
	}

	client, err := buildPollClient(cfg, log)
	if err != nil {
		return err
	}

	modelID := args[0]

	ui.Banner("CUSTOM MODEL TRAINING",
		fmt.Sprintf("Model ID: %s", modelID),
		fmt.Sprintf("Build mode: %s", mode))
	ui.Newline()
	ui.Info("Training data: %s", cfg.Azure.BlobContainerSASURL)
	if trainPrefix != "" {
		ui.Info("Blob prefix: %s", trainPrefix)
	}
	ui.Warning("Neural builds commonly take 20-30 minutes.")
	ui.Newline()

	if !trainYes && !confirm(fmt.Sprintf("Start training model %q?", modelID)) {
		ui.Info("Training cancelled.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Poll.BuildMaxAttempts+1)*cfg.Poll.BuildInterval)
	defer cancel()

	start := time.Now()
	op, err := client.BeginBuildModel(ctx, docintel.BuildRequest{
		ModelID:     modelID,
		Description: trainDescription,
		BuildMode:   mode,
		AzureBlobSource: docintel.BlobSource{
			ContainerURL: cfg.Azure.BlobContainerSASURL,
			Prefix:       trainPrefix,
		},
	})
	if err != nil {
		return err
	}

	spin := ui.NewSpinner("Training model...")
	spin.Start()
	go func() {
		ticker := time.NewTicker(cfg.Poll.BuildInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				spin.UpdateMessage(fmt.Sprintf("Training model... %d%% (%s elapsed)",
					op.Percent(), ui.FormatDuration(time.Since(start))))
			}
		}
	}()
	model, err := op.Wait(ctx)
	spin.Stop()

	recordRun(cfg, log, &history.Run{
		Command:   "model train",
		ModelID:   modelID,
		Status:    statusOf(err),
		Duration:  time.Since(start),
		InputPath: cfg.Azure.BlobContainerSASURL,
	})
	if err != nil {
		return err
	}

	ui.Success("Model %q trained in %s", model.ModelID, ui.FormatDuration(time.Since(start)))
	ui.Newline()
	render.ModelInfo(os.Stdout, model)
	return nil
}

func runModelList(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	spin := ui.NewSpinner("Fetching models...")
	spin.Start()
	models, err := client.ListModels(ctx)
	spin.Stop()
	if err != nil {
		return err
	}

	render.ModelList(os.Stdout, models)
	return nil
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	model, err := client.GetModel(ctx, args[0])
	if err != nil {
		return err
	}

	render.ModelInfo(os.Stdout, model)
	return nil
}

func runModelDelete(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	modelID := args[0]
	if !deleteYes && !confirm(fmt.Sprintf("Delete model %q? This cannot be undone.", modelID)) {
		ui.Info("Delete cancelled.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := client.DeleteModel(ctx, modelID); err != nil {
		return err
	}

	ui.Success("Model %q deleted", modelID)
	return nil
}

func runModelAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	id := analyzeModelID
	if id == "" {
		id = cfg.Azure.CustomModelID
	}
	if id == "" {
		ui.Error("No custom model configured.")
		ui.Info("Set CUSTOM_MODEL_ID in your .env file or pass --model <id>.")
		ui.Info("Run 'docintel model list' to see the models in your resource.")
		return fmt.Errorf("custom model ID is required")
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

	ui.Banner("CUSTOM MODEL ANALYSIS",
		fmt.Sprintf("Model: %s", id))
	ui.Newline()
	ui.Info("Analyzing: %s", path)

	result, elapsed, err := analyzeFile(ctx, client, id, path, docintel.AnalyzeOptions{})
	recordRun(cfg, log, &history.Run{
		Command:    "model analyze",
		ModelID:    id,
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
		render.CustomFields(os.Stdout, result, id)
	}

	return nil
}
