package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/spectorr/internal/services/llm"
	"github.com/ternarybob/spectorr/internal/services/pipeline"
	"github.com/ternarybob/spectorr/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize canonical records into insights",
	Long:  `Groups curated/cleaned.csv by asset and day, asks the configured model for one insight per group and writes curated/insights.json.`,
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var (
	runAsset string
	runDate  string
)

func init() {
	runCmd.Flags().StringVar(&runAsset, "asset", "", "Only summarize this asset id (exact match)")
	runCmd.Flags().StringVar(&runDate, "date", "", "Only summarize this date, YYYY-MM-DD (exact match)")
}

func runInsights(cmd *cobra.Command, args []string) error {
	defer flushMetrics()
	ctx := cmd.Context()

	provider, err := llm.NewProvider(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	defer provider.Close()

	store := storage.NewStorageManager(logger, config)
	summarizer := llm.NewSummarizer(provider, pipelineMetrics, logger)

	orchestrator, err := pipeline.NewOrchestrator(&config.LLM, store.CanonicalStorage(), store.InsightStorage(), summarizer, logger)
	if err != nil {
		return err
	}

	results, err := orchestrator.Run(ctx, pipeline.RunOptions{AssetID: runAsset, Date: runDate})
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d insight records to %s\n", len(results), config.Data.InsightsJSON())
	return nil
}
