package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/services/etl"
	"github.com/ternarybob/spectorr/internal/services/pipeline"
	"github.com/ternarybob/spectorr/internal/storage"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Normalize raw files into the canonical store",
	Long:  `Reads every CSV and note file in the raw directory, cleans and scores the rows and writes curated/cleaned.csv.`,
	RunE:  runETL,
}

var etlRawDir string

func init() {
	etlCmd.Flags().StringVar(&etlRawDir, "raw-dir", "", "Raw data directory (default: <data root>/raw)")
}

func runETL(cmd *cobra.Command, args []string) error {
	defer flushMetrics()

	if etlRawDir != "" {
		config.Data.Raw = common.ExpandHome(etlRawDir)
	}
	store := storage.NewStorageManager(logger, config)

	normalizer := etl.NewNormalizer(&config.ETL, nil, pipelineMetrics, logger)
	result, err := pipeline.RunETL(cmd.Context(), store, normalizer, time.Now(), logger)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d canonical records to %s\n", result.Records, result.Path)
	return nil
}
