package llm

import (
	"context"
	"math"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/metrics"
	"github.com/ternarybob/spectorr/internal/models"
	"github.com/ternarybob/spectorr/internal/services/insights"
)

// Summarizer renders a group's prompt, calls the provider once and turns the reply
// into exactly one InsightRecord
type Summarizer struct {
	provider Provider
	metrics  interfaces.PipelineMetrics
	logger   arbor.ILogger
}

var _ interfaces.GroupSummarizer = (*Summarizer)(nil)

// NewSummarizer creates a summarizer over provider; nil metrics discards observations
func NewSummarizer(provider Provider, pm interfaces.PipelineMetrics, logger arbor.ILogger) *Summarizer {
	if pm == nil {
		pm = metrics.Noop{}
	}
	return &Summarizer{
		provider: provider,
		metrics:  pm,
		logger:   logger,
	}
}

// Summarize returns one insight for the group.
//
// A failed provider call is returned as is (typically *ExternalServiceError) and no
// record is produced. A reply that is not a valid insight body never errors; it
// yields the fallback body instead.
func (s *Summarizer) Summarize(ctx context.Context, group *models.Group) (*models.InsightRecord, error) {
	s.logger.Info().
		Str("asset_id", group.Key.AssetID).
		Str("date", group.Key.Date).
		Int("n", group.N).
		Float32("avg", float32(group.Avg)).
		Str("provider", string(s.provider.GetProviderType())).
		Str("model", s.provider.GetModel()).
		Msg("Summarizing group")

	request := &ContentRequest{
		SystemInstruction: insights.SystemPrompt,
		Messages: []Message{
			{
				Role:    "user",
				Content: insights.BuildUserMessage(group.Key.AssetID, group.Key.Date, group.Texts, group.Avg, group.N),
			},
		},
		JSONOutput: true,
	}

	resp, err := s.provider.GenerateContent(ctx, request)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("asset_id", group.Key.AssetID).
			Str("date", group.Key.Date).
			Msg("Model call failed")
		return nil, err
	}

	var body models.InsightBody
	switch outcome := ParseResponse(resp.Text).(type) {
	case Parsed:
		body = outcome.Body
	case Malformed:
		s.logger.Warn().
			Err(outcome.Err).
			Str("asset_id", group.Key.AssetID).
			Str("date", group.Key.Date).
			Int("response_length", len(outcome.Raw)).
			Msg("Model reply was not a valid insight, using fallback")
		body = FallbackBody(outcome.Raw)
	}

	event := s.logger.Info().
		Str("asset_id", group.Key.AssetID).
		Str("date", group.Key.Date).
		Str("tone", body.Tone).
		Float32("confidence", float32(body.Confidence)).
		Str("method", body.Method)
	if resp.Usage != nil {
		event = event.
			Int64("input_tokens", resp.Usage.InputTokens).
			Int64("output_tokens", resp.Usage.OutputTokens)
		s.metrics.TokensUsed(string(resp.Provider), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	event.Msg("Group summarized")
	s.metrics.GroupSummarized(body.Method)

	return &models.InsightRecord{
		AssetID:      group.Key.AssetID,
		Date:         group.Key.Date,
		AvgSentiment: RoundTo(group.Avg, 3),
		N:            group.N,
		Insight:      body,
	}, nil
}

// RoundTo rounds half away from zero to the given decimal places; -0 becomes 0
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}
