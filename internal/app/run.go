package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipescope/internal/analysis"
	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/report"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run loads every configured pipeline, analyzes them as one batch and writes
// the report. The batch is returned even when ErrFindings is.
func (a *App) Run(ctx context.Context) (*report.Batch, error) {
	runID := a.newRunID()
	ctx = ctxlog.WithLogger(ctx, a.logger.With("run_id", runID))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "paths", a.config.Paths)

	ctx, span := a.tracer.Start(ctx, "pipescope.run", trace.WithAttributes(
		attribute.String("pipescope.run_id", runID),
		attribute.Int("pipescope.workers", a.config.Workers),
	))
	defer span.End()

	batch, err := a.run(ctx, runID, span)
	if err != nil && !errors.Is(err, ErrFindings) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	a.setLastErr(err)
	return batch, err
}

func (a *App) run(ctx context.Context, runID string, span trace.Span) (*report.Batch, error) {
	logger := ctxlog.FromContext(ctx)

	pipelines, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipelines: %w", err)
	}
	logger.Debug("Pipelines loaded.", "count", len(pipelines))
	span.SetAttributes(attribute.Int("pipescope.pipelines", len(pipelines)))

	results, err := a.analyzer.AnalyzeAll(ctx, pipelines, a.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	for _, res := range results {
		recordResult(span, res)
	}

	batch := &report.Batch{RunID: runID, Results: results}
	if a.reporter != report.Reporter(a.prom) {
		a.prom.Observe(batch)
	}
	if err := a.reporter.Report(a.outW, batch); err != nil {
		return batch, fmt.Errorf("failed to write report: %w", err)
	}
	if a.config.PromTextfile != "" {
		if err := a.prom.WriteTextfile(a.config.PromTextfile); err != nil {
			return batch, err
		}
		logger.Debug("Prometheus textfile written.", "path", a.config.PromTextfile)
	}

	errCount, warnCount := 0, 0
	for _, res := range results {
		errCount += len(res.Errors)
		warnCount += len(res.Warnings)
	}
	logger.Info("Analysis finished.", "pipelines", len(results), "errors", errCount, "warnings", warnCount)

	if a.config.FailOnError && batch.HasErrors() {
		return batch, ErrFindings
	}
	return batch, nil
}

func recordResult(span trace.Span, res *analysis.Result) {
	span.AddEvent("pipeline.analyzed", trace.WithAttributes(
		attribute.String("pipescope.pipeline_id", res.PipelineID),
		attribute.Int("pipescope.errors", len(res.Errors)),
		attribute.Int("pipescope.warnings", len(res.Warnings)),
	))
}
