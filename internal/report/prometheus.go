package report

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/vk/pipescope/internal/validate"
)

// PromExporter publishes the latest batch as Prometheus gauges on a private
// registry. It is safe for concurrent use, so watch mode can update it while
// the registry is being scraped.
type PromExporter struct {
	mu sync.Mutex

	registry *prometheus.Registry
	metric      *prometheus.GaugeVec
	issues      *prometheus.GaugeVec
	definitions *prometheus.GaugeVec
	runs        prometheus.Counter
}

// NewPromExporter creates an exporter with its own registry.
func NewPromExporter() *PromExporter {
	e := &PromExporter{
		registry: prometheus.NewRegistry(),
		metric: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pipescope_pipeline_metric",
				Help: "Structural metric of a pipeline from the latest analysis",
			},
			[]string{"pipeline", "metric"},
		),
		issues: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pipescope_pipeline_issues",
				Help: "Number of issues found in a pipeline by severity",
			},
			[]string{"pipeline", "severity"},
		),
		definitions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pipescope_pipeline_definitions",
				Help: "Number of pipelines in the latest analysis declaring this id",
			},
			[]string{"pipeline"},
		),
		runs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pipescope_runs_total",
				Help: "Total number of analysis runs observed",
			},
		),
	}
	e.registry.MustRegister(e.metric, e.issues, e.definitions, e.runs)
	return e
}

// Observe replaces the exported values with those of b. Pipelines sharing
// an id are folded into one series: issue counts are summed and structural
// metrics come from the first of them.
func (e *PromExporter) Observe(b *Batch) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metric.Reset()
	e.issues.Reset()
	e.definitions.Reset()
	seen := make(map[string]struct{}, len(b.Results))
	for _, res := range b.Results {
		e.definitions.WithLabelValues(res.PipelineID).Inc()
		e.issues.WithLabelValues(res.PipelineID, validate.Error.String()).Add(float64(len(res.Errors)))
		e.issues.WithLabelValues(res.PipelineID, validate.Warning.String()).Add(float64(len(res.Warnings)))

		if _, dup := seen[res.PipelineID]; dup {
			continue
		}
		seen[res.PipelineID] = struct{}{}
		for _, m := range res.Metrics {
			e.metric.WithLabelValues(res.PipelineID, m.Name).Set(m.Value)
		}
	}
	e.runs.Inc()
}

// Report observes b and writes the registry in the text exposition format.
func (e *PromExporter) Report(w io.Writer, b *Batch) error {
	e.Observe(b)

	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Handler serves the registry for scraping.
func (e *PromExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for the node_exporter textfile
// collector. The write is atomic.
func (e *PromExporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("failed to write textfile %s: %w", path, err)
	}
	return nil
}
