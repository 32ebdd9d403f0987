package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/models"
	"github.com/ternarybob/spectorr/internal/services/etl"
	"github.com/ternarybob/spectorr/internal/storage/flatfile"
)

// ETLResult describes one completed ETL stage
type ETLResult struct {
	Path    string
	Files   int
	Records int
	Report  *models.DropReport
}

// RunETL discovers raw files, normalizes them and writes the canonical store.
// Notes without a date are stamped with today. Nothing is written when the stage fails.
func RunETL(ctx context.Context, storage interfaces.StorageManager, normalizer *etl.Normalizer, today time.Time, logger arbor.ILogger) (*ETLResult, error) {
	rawDir := storage.RawDir()
	if err := os.MkdirAll(rawDir, 0755); err != nil {
		return nil, fmt.Errorf("etl stage: failed to create raw directory: %w", err)
	}

	files, err := flatfile.DiscoverRawFiles(rawDir)
	if err != nil {
		return nil, fmt.Errorf("etl stage: %w", err)
	}
	logger.Info().Str("raw_dir", rawDir).Int("files", len(files)).Msg("Raw files discovered")

	if len(files) == 0 {
		return nil, fmt.Errorf("etl stage: no raw files in %s: %w", rawDir, etl.ErrEmptyInput)
	}

	sources, err := flatfile.ReadRawSources(files, today)
	if err != nil {
		return nil, fmt.Errorf("etl stage: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := normalizer.Normalize(sources)
	if err != nil {
		return nil, fmt.Errorf("etl stage: %w", err)
	}

	path, err := storage.CanonicalStorage().WriteCanonical(ctx, result.Records)
	if err != nil {
		return nil, fmt.Errorf("etl stage: %w", err)
	}

	report := result.Report
	logger.Info().
		Str("path", path).
		Int("files", len(files)).
		Int("sources_rejected", report.SourcesRejected).
		Int("rows_in", report.RowsIn).
		Int("rows_out", report.RowsOut).
		Int("rows_dropped", report.TotalDropped()).
		Msg("ETL stage complete")

	return &ETLResult{
		Path:    path,
		Files:   len(files),
		Records: len(result.Records),
		Report:  report,
	}, nil
}
