package etl

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/metrics"
	"github.com/ternarybob/spectorr/internal/models"
)

// dateLayouts are tried in order when parsing source_date
var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// Normalizer turns raw tabular sources into the canonical record set
type Normalizer struct {
	config   *common.ETLConfig
	scorer   *LexiconScorer
	validate *validator.Validate
	metrics  interfaces.PipelineMetrics
	logger   arbor.ILogger
}

// NewNormalizer creates a normalizer. A nil scorer uses the default lexicon and
// nil metrics discards observations.
func NewNormalizer(config *common.ETLConfig, scorer *LexiconScorer, pm interfaces.PipelineMetrics, logger arbor.ILogger) *Normalizer {
	if scorer == nil {
		scorer = NewLexiconScorer(nil)
	}
	if pm == nil {
		pm = metrics.Noop{}
	}
	return &Normalizer{
		config:   config,
		scorer:   scorer,
		validate: validator.New(),
		metrics:  pm,
		logger:   logger,
	}
}

// Result is the clean record set plus the report of what was dropped
type Result struct {
	Records []models.CanonicalRecord
	Report  *models.DropReport
}

// Normalize cleans every source and concatenates the results in source order.
//
// A source missing required columns is rejected with a *SchemaError recorded in the
// report; the others still contribute. When no source is supplied, or no canonical
// row remains, the error matches ErrEmptyInput (and any *SchemaError that caused it).
func (n *Normalizer) Normalize(sources []RawSource) (*Result, error) {
	report := models.NewDropReport()
	report.SourcesIn = len(sources)

	if len(sources) == 0 {
		return nil, fmt.Errorf("no raw sources supplied: %w", ErrEmptyInput)
	}

	records := make([]models.CanonicalRecord, 0)
	seq := 0
	for i := range sources {
		src := &sources[i]

		if missing := src.missingColumns(); len(missing) > 0 {
			schemaErr := &SchemaError{Source: src.Name, Missing: missing}
			report.SourcesRejected++
			report.SchemaErrors = append(report.SchemaErrors, schemaErr)
			n.metrics.SourceRejected()
			n.logger.Warn().
				Str("source", src.Name).
				Strs("missing", missing).
				Msg("Rejecting raw source with missing required columns")
			continue
		}

		index := src.columnIndex()
		_, hasScore := index[ColSentimentScore]

		if src.BadRows > 0 {
			report.RowsIn += src.BadRows
			report.Dropped[models.DropBadRow] += src.BadRows
		}

		for _, row := range src.Rows {
			report.RowsIn++
			record, reason := n.normalizeRow(row, index, hasScore)
			if reason != models.DropNone {
				report.Record(reason)
				continue
			}
			record.Seq = seq
			seq++
			records = append(records, *record)
		}

		n.logger.Debug().
			Str("source", src.Name).
			Int("rows", len(src.Rows)).
			Bool("lexicon_scored", !hasScore).
			Msg("Normalized raw source")
	}

	if n.config.MaxRows > 0 && len(records) > n.config.MaxRows {
		report.Dropped[models.DropRowCap] += len(records) - n.config.MaxRows
		records = records[:n.config.MaxRows]
	}

	report.RowsOut = len(records)
	n.observe(report)

	if len(records) == 0 {
		if report.SourcesRejected == len(sources) {
			return nil, errors.Join(append([]error{fmt.Errorf("every raw source was rejected: %w", ErrEmptyInput)}, report.SchemaErrors...)...)
		}
		return nil, fmt.Errorf("no canonical rows remain after cleaning %d raw rows: %w", report.RowsIn, ErrEmptyInput)
	}

	return &Result{Records: records, Report: report}, nil
}

func (n *Normalizer) observe(report *models.DropReport) {
	n.metrics.RowsRead(report.RowsIn)
	for reason, count := range report.Dropped {
		n.metrics.RowDropped(reason, count)
	}

	n.logger.Info().
		Int("sources", report.SourcesIn).
		Int("sources_rejected", report.SourcesRejected).
		Int("rows_in", report.RowsIn).
		Int("rows_out", report.RowsOut).
		Int("rows_dropped", report.TotalDropped()).
		Msg("Normalization complete")
}

// normalizeRow returns either a record or the reason the row was dropped
func (n *Normalizer) normalizeRow(row []string, index map[string]int, hasScore bool) (*models.CanonicalRecord, models.DropReason) {
	rawAsset, _ := cell(row, index, ColAssetID)
	assetID := strings.TrimSpace(rawAsset)
	if assetID == "" {
		return nil, models.DropEmptyAssetID
	}

	rawText, _ := cell(row, index, ColText)
	text := NormalizeText(rawText)
	if text == "" {
		return nil, models.DropEmptyText
	}

	rawDate, _ := cell(row, index, ColSourceDate)
	date, ok := ParseDate(rawDate)
	if !ok {
		return nil, models.DropBadDate
	}

	var score float64
	if hasScore {
		rawScore, _ := cell(row, index, ColSentimentScore)
		parsed, ok := parseScore(rawScore)
		switch {
		case ok:
			score = parsed
		case strings.TrimSpace(rawScore) == "" && n.config.LexiconFallback:
			score = n.scorer.Score(text)
		default:
			return nil, models.DropBadScore
		}
	} else {
		score = n.scorer.Score(text)
	}

	record := &models.CanonicalRecord{
		AssetID:        assetID,
		Text:           text,
		SourceDate:     date,
		SourceDateStr:  date.Format(models.DateLayout),
		SentimentScore: Clip(score),
	}
	if err := n.validate.Struct(record); err != nil {
		return nil, models.DropInvalid
	}
	return record, models.DropNone
}

// NormalizeText trims, lowercases and collapses internal whitespace to single spaces
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ParseDate parses a source_date value into a UTC calendar date
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseScore parses a float score. Empty and NaN values are rejected. Out of range
// values such as 1e400 come back as ±Inf and later clip to the bounds.
func parseScore(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Clip bounds a score to [-1, 1]; -0 becomes 0
func Clip(score float64) float64 {
	clipped := math.Max(-1.0, math.Min(1.0, score))
	if clipped == 0 {
		return 0
	}
	return clipped
}
