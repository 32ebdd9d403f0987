package flatfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/models"
)

// CanonicalStorage persists the canonical record set as cleaned.csv
type CanonicalStorage struct {
	path   string
	logger arbor.ILogger
}

var _ interfaces.CanonicalStorage = (*CanonicalStorage)(nil)

// NewCanonicalStorage creates canonical storage backed by the CSV file at path
func NewCanonicalStorage(path string, logger arbor.ILogger) *CanonicalStorage {
	return &CanonicalStorage{path: path, logger: logger}
}

// Path returns the backing file
func (s *CanonicalStorage) Path() string {
	return s.path
}

func (s *CanonicalStorage) WriteCanonical(ctx context.Context, records []models.CanonicalRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := WriteCanonicalCSV(s.path, records); err != nil {
		return "", err
	}
	s.logger.Debug().Str("path", s.path).Int("records", len(records)).Msg("Canonical records written")
	return s.path, nil
}

func (s *CanonicalStorage) ReadCanonical(ctx context.Context) ([]models.CanonicalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := ReadCanonicalCSV(s.path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", s.path).Int("records", len(records)).Msg("Canonical records loaded")
	return records, nil
}

// WriteCanonicalCSV writes records in the fixed column order. Identical input
// produces a byte-identical file.
func WriteCanonicalCSV(path string, records []models.CanonicalRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.CanonicalColumns); err != nil {
		return fmt.Errorf("failed to encode canonical header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.AssetID,
			r.Text,
			r.SourceDateStr,
			strconv.FormatFloat(r.SentimentScore, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to encode canonical record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode canonical records: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

// ReadCanonicalCSV loads a canonical file, re-parsing dates and scores. Seq follows
// file order.
func ReadCanonicalCSV(path string) ([]models.CanonicalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open canonical store %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("canonical store %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read canonical header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, c := range header {
		index[c] = i
	}
	for _, c := range models.CanonicalColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("canonical store %s is missing column %q", path, c)
		}
	}

	records := make([]models.CanonicalRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read canonical store %s: %w", path, err)
		}
		line++

		dateStr := row[index["source_date"]]
		date, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid source_date %q: %w", path, line, dateStr, err)
		}
		score, err := strconv.ParseFloat(row[index["sentiment_score"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid sentiment_score: %w", path, line, err)
		}

		records = append(records, models.CanonicalRecord{
			AssetID:        row[index["asset_id"]],
			Text:           row[index["text"]],
			SourceDate:     date,
			SourceDateStr:  dateStr,
			SentimentScore: score,
			Seq:            len(records),
		})
	}

	return records, nil
}
