package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/services/mockgen"
)

var mockgenCmd = &cobra.Command{
	Use:   "mockgen",
	Short: "Write synthetic raw notes",
	Long:  `Generates notes.csv in the raw directory with random assets, dates from the last week and scores in [-1, 1].`,
	RunE:  runMockgen,
}

var (
	mockgenRows   int
	mockgenSeed   uint64
	mockgenRawDir string
)

func init() {
	mockgenCmd.Flags().IntVar(&mockgenRows, "n", 200, "Number of synthetic rows")
	mockgenCmd.Flags().Uint64Var(&mockgenSeed, "seed", 0, "Random seed (0 = time based)")
	mockgenCmd.Flags().StringVar(&mockgenRawDir, "raw-dir", "", "Raw data directory (default: <data root>/raw)")
}

func runMockgen(cmd *cobra.Command, args []string) error {
	if mockgenRawDir != "" {
		config.Data.Raw = common.ExpandHome(mockgenRawDir)
	}
	dir := config.Data.RawDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create raw directory: %w", err)
	}

	seed := mockgenSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	path, err := mockgen.Generate(dir, mockgenRows, rand.New(rand.NewPCG(seed, seed)), time.Now())
	if err != nil {
		return err
	}

	logger.Info().Str("path", path).Int("rows", mockgenRows).Msg("Mock data written")
	fmt.Printf("Mock data written to %s\n", dir)
	return nil
}
