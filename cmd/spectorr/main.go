package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/metrics"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported, later files override earlier ones
	logLevel    string

	// Global state
	config          *common.Config
	logger          arbor.ILogger
	pipelineMetrics *metrics.Pipeline
)

var rootCmd = &cobra.Command{
	Use:               "spectorr",
	Short:             "Spectorr sentiment pipeline",
	Long:              `Normalizes raw market notes into a canonical store and summarizes each asset/day group with a language model.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(etlCmd, runCmd, mockgenCmd, versionCmd)
}

// setup runs before every command.
// Order: load config (defaults -> files -> env), apply CLI overrides, validate,
// initialize logger, print banner.
func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("spectorr.toml"); err == nil {
			configFiles = append(configFiles, "spectorr.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		return err
	}

	common.ApplyFlagOverrides(config, logLevel)

	if err := config.Validate(); err != nil {
		arbor.NewLogger().Error().Err(err).Msg("Configuration rejected")
		return err
	}

	common.InstallCrashHandler(filepath.Join(config.Data.Root, "logs"))

	runID := common.NewRunID()
	logger = common.InitLogger(config).WithCorrelationId(runID)

	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Str("data_root", config.Data.Root).
		Str("run_key", config.Data.RunKey).
		Int("max_rows", config.ETL.MaxRows).
		Str("provider", string(config.LLM.DefaultProvider)).
		Int("concurrency", config.LLM.Concurrency).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration (sanitized)")

	logger.Info().
		Str("run_id", runID).
		Str("command", cmd.Name()).
		Strs("config_files", configFiles).
		Msg("Spectorr starting")

	pipelineMetrics = metrics.NewPipeline()
	return nil
}

// flushMetrics writes the Prometheus textfile when one is configured
func flushMetrics() {
	if config == nil || config.Metrics.Textfile == "" {
		return
	}
	path := common.ExpandHome(config.Metrics.Textfile)
	if err := pipelineMetrics.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
		return
	}
	logger.Debug().Str("path", path).Msg("Metrics textfile written")
}

func main() {
	defer common.RecoverWithCrashFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error().Err(err).Msg("Command failed")
		} else {
			arbor.NewLogger().Error().Err(err).Msg("Command failed")
		}
		stop()
		os.Exit(1)
	}
}
