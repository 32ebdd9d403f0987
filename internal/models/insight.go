package models

// Tone values accepted in an insight body
const (
	TonePositive = "positive"
	ToneNeutral  = "neutral"
	ToneNegative = "negative"
	ToneMixed    = "mixed"
)

// Method tags identifying where an insight body came from
const (
	MethodModel    = "model"
	MethodFallback = "fallback"
)

// InsightBody is the structured summary returned by the language model
type InsightBody struct {
	Summary    string   `json:"summary" validate:"required"`
	Drivers    []string `json:"drivers"`
	Risks      []string `json:"risks"`
	Tone       string   `json:"tone" validate:"oneof=positive neutral negative mixed"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
	Method     string   `json:"method"`
}

// InsightRecord is the terminal output unit for one Group
type InsightRecord struct {
	AssetID      string      `json:"asset_id"`
	Date         string      `json:"date"`
	AvgSentiment float64     `json:"avg_sentiment"` // rounded to 3 decimals
	N            int         `json:"n"`
	Insight      InsightBody `json:"insight"`
}
