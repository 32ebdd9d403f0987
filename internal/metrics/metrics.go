// Package metrics exposes pipeline counters on a private Prometheus registry.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/models"
)

const namespace = "spectorr"

// Pipeline implements interfaces.PipelineMetrics with Prometheus counters
type Pipeline struct {
	registry        *prometheus.Registry
	rowsRead        prometheus.Counter
	rowsDropped     *prometheus.CounterVec
	sourcesRejected prometheus.Counter
	groups          *prometheus.CounterVec
	tokens          *prometheus.CounterVec
}

var _ interfaces.PipelineMetrics = (*Pipeline)(nil)

// NewPipeline creates the counters and registers them on a fresh registry
func NewPipeline() *Pipeline {
	p := &Pipeline{
		registry: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "rows_read_total",
			Help:      "Raw rows read from accepted sources.",
		}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "rows_dropped_total",
			Help:      "Raw rows dropped during normalization, by reason.",
		}, []string{"reason"}),
		sourcesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "sources_rejected_total",
			Help:      "Raw sources rejected for missing required columns.",
		}),
		groups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights",
			Name:      "groups_summarized_total",
			Help:      "Groups summarized, by insight method.",
		}, []string{"method"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Model tokens consumed, by provider and direction.",
		}, []string{"provider", "direction"}),
	}

	p.registry.MustRegister(p.rowsRead, p.rowsDropped, p.sourcesRejected, p.groups, p.tokens)
	return p
}

// Registry returns the registry the counters live on
func (p *Pipeline) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Pipeline) RowsRead(n int) {
	p.rowsRead.Add(float64(n))
}

func (p *Pipeline) RowDropped(reason models.DropReason, n int) {
	p.rowsDropped.WithLabelValues(string(reason)).Add(float64(n))
}

func (p *Pipeline) SourceRejected() {
	p.sourcesRejected.Inc()
}

func (p *Pipeline) GroupSummarized(method string) {
	p.groups.WithLabelValues(method).Inc()
}

func (p *Pipeline) TokensUsed(provider string, input, output int64) {
	p.tokens.WithLabelValues(provider, "input").Add(float64(input))
	p.tokens.WithLabelValues(provider, "output").Add(float64(output))
}

// WriteTextfile writes the registry in text exposition format, for node_exporter's textfile collector
func (p *Pipeline) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Noop discards every observation
type Noop struct{}

var _ interfaces.PipelineMetrics = Noop{}

func (Noop) RowsRead(int) {}
func (Noop) RowDropped(models.DropReason, int) {}
func (Noop) SourceRejected() {}
func (Noop) GroupSummarized(string) {}
func (Noop) TokensUsed(string, int64, int64) {}
