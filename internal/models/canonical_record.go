package models

import "time"

// CanonicalColumns is the fixed column order of the canonical record set.
var CanonicalColumns = []string{"asset_id", "text", "source_date", "sentiment_score"}

// DateLayout is the ISO 8601 calendar date layout used for storage and grouping keys.
const DateLayout = "2006-01-02"

// CanonicalRecord is one normalized text/sentiment observation
type CanonicalRecord struct {
	AssetID        string    `json:"asset_id" validate:"required"`
	Text           string    `json:"text" validate:"required"`
	SourceDate     time.Time `json:"-"`
	SourceDateStr  string    `json:"source_date" validate:"required,datetime=2006-01-02"`
	SentimentScore float64   `json:"sentiment_score" validate:"gte=-1,lte=1"`

	// Seq is the ingestion position across all sources. It orders texts inside a group.
	Seq int `json:"-"`
}

// GroupKey identifies the aggregation unit of a record
func (r CanonicalRecord) GroupKey() GroupKey {
	return GroupKey{AssetID: r.AssetID, Date: r.SourceDateStr}
}
