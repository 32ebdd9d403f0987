package flatfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/models"
)

// InsightStorage persists the insight collection as insights.json
type InsightStorage struct {
	path   string
	logger arbor.ILogger
}

var _ interfaces.InsightWriter = (*InsightStorage)(nil)

// NewInsightStorage creates insight storage backed by the JSON file at path
func NewInsightStorage(path string, logger arbor.ILogger) *InsightStorage {
	return &InsightStorage{path: path, logger: logger}
}

// Path returns the backing file
func (s *InsightStorage) Path() string {
	return s.path
}

// WriteInsights replaces the whole file with records
func (s *InsightStorage) WriteInsights(ctx context.Context, records []models.InsightRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := WriteInsightsJSON(s.path, records); err != nil {
		return "", err
	}
	s.logger.Info().Str("path", s.path).Int("insights", len(records)).Msg("Insights written")
	return s.path, nil
}

// WriteInsightsJSON writes records as a 2-space indented JSON array. Non-ASCII text
// and HTML characters are written as is.
func WriteInsightsJSON(path string, records []models.InsightRecord) error {
	if records == nil {
		records = []models.InsightRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}
