package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/vk/pipescope/internal/graph"
	"github.com/vk/pipescope/internal/metrics"
	"github.com/vk/pipescope/internal/pipeline"
	"github.com/vk/pipescope/internal/validate"
	"golang.org/x/sync/errgroup"
)

// ErrNilPipeline is returned when Analyze is handed a nil pipeline. It is the
// same value the graph package returns.
var ErrNilPipeline = graph.ErrNilPipeline

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStrictRoles reports port-role violations as errors.
func WithStrictRoles(strict bool) Option {
	return func(a *Analyzer) {
		a.validation.StrictRoles = strict
	}
}

// WithObserver registers a callback invoked on every state transition. It
// runs on the goroutine doing the analysis and must be safe for concurrent
// use if the Analyzer is shared.
func WithObserver(fn func(from, to State)) Option {
	return func(a *Analyzer) {
		a.observer = fn
	}
}

// Analyzer runs analyses. It is immutable after New and safe for concurrent
// use.
type Analyzer struct {
	logger     *slog.Logger
	validation validate.Options
	observer   func(from, to State)
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze analyzes p with a default Analyzer.
func Analyze(p *pipeline.Pipeline) (*Result, error) {
	return New().Analyze(p)
}

// Analyze validates p and collects its metrics. Every problem with the
// pipeline is reported inside the Result; the only error is ErrNilPipeline.
func (a *Analyzer) Analyze(p *pipeline.Pipeline) (*Result, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}

	logger := a.logger.With("pipeline", p.ID)
	m := &machine{current: Idle, observer: func(from, to State) {
		logger.Debug("Analysis state changed.", "from", from, "to", to)
		if a.observer != nil {
			a.observer(from, to)
		}
	}}
	result := newResult(p.ID)

	g, err := graph.New(p)
	if err != nil {
		logger.Debug("Graph construction failed.", "error", err)
		result.add(constructionIssue(err))
		m.advance(Done)
		return result, nil
	}

	m.advance(Validating)
	result.add(validate.Validate(g, a.validation)...)

	m.advance(Collecting)
	result.Metrics = metrics.Collect(g)

	m.advance(Done)
	logger.Debug("Analysis finished.", "errors", len(result.Errors), "warnings", len(result.Warnings))
	return result, nil
}

// AnalyzeAll analyzes pipelines on up to workers goroutines and returns the
// results in input order. workers <= 0 means one per CPU. A nil entry fails
// the whole batch before any work starts.
func (a *Analyzer) AnalyzeAll(ctx context.Context, pipelines []*pipeline.Pipeline, workers int) ([]*Result, error) {
	for i, p := range pipelines {
		if p == nil {
			return nil, fmt.Errorf("pipeline at index %d: %w", i, ErrNilPipeline)
		}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(pipelines))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pipelines {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := a.Analyze(p)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// constructionIssue turns a graph construction failure into a single Error,
// attributed to the duplicate id when there is one.
func constructionIssue(err error) validate.Issue {
	issue := validate.Issue{Severity: validate.Error, Message: err.Error()}
	var dupNode *graph.DuplicateNodeIDError
	var dupPort *graph.DuplicatePortIDError
	switch {
	case errors.As(err, &dupNode):
		issue.NodeID = dupNode.NodeID
	case errors.As(err, &dupPort):
		issue.NodeID, issue.PortID = dupPort.NodeID, dupPort.PortID
	}
	return issue
}
