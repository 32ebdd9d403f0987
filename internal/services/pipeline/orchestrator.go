package pipeline

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/models"
	"github.com/ternarybob/spectorr/internal/services/insights"
)

// RunOptions narrows a run to one asset and/or one date. Empty values match everything.
type RunOptions struct {
	AssetID string
	Date    string // YYYY-MM-DD
}

// Orchestrator loads canonical records, groups them and summarizes every group
type Orchestrator struct {
	reader      interfaces.CanonicalReader
	writer      interfaces.InsightWriter
	summarizer  interfaces.GroupSummarizer
	concurrency int
	limiter     *rate.Limiter
	logger      arbor.ILogger
}

// NewOrchestrator creates an orchestrator. Concurrency and call pacing come from config.
func NewOrchestrator(
	config *common.LLMConfig,
	reader interfaces.CanonicalReader,
	writer interfaces.InsightWriter,
	summarizer interfaces.GroupSummarizer,
	logger arbor.ILogger,
) (*Orchestrator, error) {
	spacing, err := config.RateLimitDuration()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		reader:      reader,
		writer:      writer,
		summarizer:  summarizer,
		concurrency: config.Concurrency,
		logger:      logger,
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	if spacing > 0 {
		o.limiter = rate.NewLimiter(rate.Every(spacing), 1)
	}

	return o, nil
}

// Run produces one insight per group, in group order, and persists them in a single
// whole-file write. Any failed model call aborts the run before anything is written.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) ([]models.InsightRecord, error) {
	records, err := o.reader.ReadCanonical(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stage: %w", err)
	}

	filtered := insights.Filter(records, opts.AssetID, opts.Date)
	groups := insights.Aggregate(filtered)

	o.logger.Info().
		Int("records", len(records)).
		Int("filtered", len(filtered)).
		Int("groups", len(groups)).
		Str("asset_id", opts.AssetID).
		Str("date", opts.Date).
		Int("concurrency", o.concurrency).
		Msg("Summarizing groups")

	if len(groups) == 0 {
		o.logger.Warn().Msg("No groups matched, writing empty insight set")
	}

	results, err := o.summarizeAll(ctx, groups)
	if err != nil {
		return nil, err
	}

	path, err := o.writer.WriteInsights(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("write stage: %w", err)
	}

	o.logger.Info().Str("path", path).Int("insights", len(results)).Msg("Run complete")
	return results, nil
}

// summarizeAll stores each result at its group's index, so output order is group order
// whatever the concurrency.
func (o *Orchestrator) summarizeAll(ctx context.Context, groups []models.Group) ([]models.InsightRecord, error) {
	results := make([]models.InsightRecord, len(groups))

	if o.concurrency == 1 {
		for i := range groups {
			record, err := o.summarizeOne(ctx, &groups[i])
			if err != nil {
				return nil, err
			}
			results[i] = *record
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i := range groups {
		g.Go(common.SafeFunc(o.logger, "summarize", func() error {
			record, err := o.summarizeOne(gctx, &groups[i])
			if err != nil {
				return err
			}
			results[i] = *record
			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) summarizeOne(ctx context.Context, group *models.Group) (*models.InsightRecord, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("summarize stage: %s %s: %w", group.Key.AssetID, group.Key.Date, err)
		}
	}

	record, err := o.summarizer.Summarize(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("summarize stage: %s %s: %w", group.Key.AssetID, group.Key.Date, err)
	}
	return record, nil
}
