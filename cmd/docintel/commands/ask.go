package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asqr-ai/docintel/cmd/docintel/ui"
	"github.com/asqr-ai/docintel/internal/chat"
	"github.com/asqr-ai/docintel/internal/docintel"
	"github.com/asqr-ai/docintel/internal/history"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask <file>",
	Short: "Summarize a document or answer a question about it",
	Long: `Extract the document's content with the prebuilt-layout model, then send
it to a chat-completions deployment. Without --question the document is
summarized; with --question the model answers from the document content only.
Requires PHI4_ENDPOINT and PHI4_KEY in the environment or .env file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer from the document")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if err := cfg.RequireChat(); err != nil {
		return err
	}

	client, err := buildClient(cfg, log)
	if err != nil {
		return err
	}

	chatClient, err := chat.NewClient(chat.Config{
		Endpoint:    cfg.Chat.Endpoint,
		Key:         cfg.Chat.Key,
		Model:       cfg.Chat.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	})
	if err != nil {
		return err
	}

	path := args[0]
	if err := requireFile(path); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	ui.Banner("DOCUMENT ANALYSIS WITH "+cfg.Chat.Model,
		"Step 1: Extract content (prebuilt-layout)",
		"Step 2: Analyze with the language model")
	ui.Newline()
	ui.Info("Analyzing: %s", path)

	result, elapsed, err := analyzeFile(ctx, client, docintel.ModelPrebuiltLayout, path,
		docintel.AnalyzeOptions{})
	recordRun(cfg, log, &history.Run{
		Command:   "ask",
		ModelID:   docintel.ModelPrebuiltLayout,
		InputPath: path,
		Status:    statusOf(err),
		Pages:     pageCount(result),
		Duration:  elapsed,
	})
	if err != nil {
		return err
	}

	extracted := chat.FromLayout(result)
	ui.Verbose("Extracted %d paragraphs, %d tables across %d pages",
		len(extracted.Paragraphs), extracted.TableCount, extracted.PageCount)

	spin := ui.NewSpinner(fmt.Sprintf("Asking %s...", cfg.Chat.Model))
	spin.Start()
	var answer string
	if askQuestion == "" {
		answer, err = chatClient.Summarize(ctx, extracted)
	} else {
		answer, err = chatClient.Answer(ctx, extracted, askQuestion)
	}
	spin.Stop()
	if err != nil {
		return err
	}

	ui.Newline()
	if askQuestion == "" {
		ui.Section("SUMMARY")
	} else {
		ui.Section("ANSWER")
		ui.Info("Q: %s", askQuestion)
		ui.Newline()
	}
	fmt.Fprintln(os.Stdout, answer)

	return nil
}
