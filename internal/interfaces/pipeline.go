package interfaces

import (
	"context"

	"github.com/ternarybob/spectorr/internal/models"
)

// CanonicalReader loads the canonical record set written by the ETL stage
type CanonicalReader interface {
	ReadCanonical(ctx context.Context) ([]models.CanonicalRecord, error)
}

// CanonicalWriter persists the canonical record set
type CanonicalWriter interface {
	WriteCanonical(ctx context.Context, records []models.CanonicalRecord) (string, error)
}

// InsightWriter persists the full insight collection as one whole-file overwrite
type InsightWriter interface {
	WriteInsights(ctx context.Context, records []models.InsightRecord) (string, error)
}

// CanonicalStorage both reads and writes the canonical record set
type CanonicalStorage interface {
	CanonicalReader
	CanonicalWriter
}

// StorageManager groups the pipeline's stores over one data root
type StorageManager interface {
	RawDir() string
	CanonicalStorage() CanonicalStorage
	InsightStorage() InsightWriter
}

// GroupSummarizer turns one aggregated group into exactly one insight record.
// A returned error means the external model call itself failed.
type GroupSummarizer interface {
	Summarize(ctx context.Context, group *models.Group) (*models.InsightRecord, error)
}

// PipelineMetrics receives observational counters; it never affects results.
type PipelineMetrics interface {
	RowsRead(n int)
	RowDropped(reason models.DropReason, n int)
	SourceRejected()
	GroupSummarized(method string)
	TokensUsed(provider string, input, output int64)
}
