package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/config"
	"github.com/asqr-ai/docintel/internal/docintel"
	"github.com/asqr-ai/docintel/internal/history"
	"github.com/asqr-ai/docintel/internal/observability"
)

// setup loads configuration, initializes the UI, and builds the logger.
func setup() (*config.Config, *observability.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	ui.Init(noColor, verbose)

	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	}
	log := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "docintel",
	})

	return cfg, log, nil
}

// buildClient constructs the Document Intelligence client from configuration.
func buildClient(cfg *config.Config, log *observability.Logger) (*docintel.Client, error) {
	if err := cfg.RequireAzure(); err != nil {
		return nil, err
	}
	return docintel.NewClient(docintel.Config{
		Endpoint:   cfg.Azure.Endpoint,
		Key:        cfg.Azure.Key,
		APIVersion: cfg.Azure.APIVersion,
		Timeout:    cfg.Azure.RequestTimeout,
		Poll: docintel.PollPolicy{
			Interval:    cfg.Poll.Interval,
			MaxAttempts: cfg.Poll.MaxAttempts,
		},
		Logger: log,
	})
}

// analyzeFile submits one document and waits for the result behind a spinner.
func analyzeFile(ctx context.Context, client *docintel.Client, modelID, path string, opts docintel.AnalyzeOptions) (*docintel.AnalyzeResult, time.Duration, error) {
	start := time.Now()

	op, err := client.BeginAnalyzeFile(ctx, modelID, path, opts)
	if err != nil {
		return nil, time.Since(start), err
	}

	spin := ui.NewSpinner(fmt.Sprintf("Analyzing with %s...", modelID))
	spin.Start()
	result, err := op.Wait(ctx)
	spin.Stop()

	return result, time.Since(start), err
}

// requireFile fails early when the input path does not exist.
func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &docintel.InvalidInputError{Path: path, Message: "file not found", Err: err}
	}
	return nil
}

// emitResult handles the --json and --output flags for a result payload.
// It returns true when --json already printed the payload, in which case the
// caller skips its formatted rendering.
func emitResult(result *docintel.AnalyzeResult) (bool, error) {
	if outputPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return false, fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return false, fmt.Errorf("write result: %w", err)
		}
		ui.Success("Result written to: %s", outputPath)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return false, fmt.Errorf("encode result: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// recordRun appends a run to the local history store. History failures only
// warn; they never fail the command.
func recordRun(cfg *config.Config, log *observability.Logger, run *history.Run) {
	if cfg.History.Disabled {
		return
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.History.Path).Msg("history store unavailable")
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Record(ctx, run); err != nil {
		log.Warn().Err(err).Msg("record run")
	}
}

// statusOf folds an error into the status string stored in history.
func statusOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "succeeded"
}
