package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/pipescope/internal/analysis"
	"github.com/vk/pipescope/internal/config"
	"github.com/vk/pipescope/internal/report"
	"github.com/vk/pipescope/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// ErrFindings is returned by Run when FailOnError is set and the batch holds
// at least one error issue. The batch has still been reported.
var ErrFindings = errors.New("analysis reported errors")

// Loader loads pipelines and names the file extensions it understands.
type Loader interface {
	config.Loader
	Extensions() []string
}

// Option customizes an App.
type Option func(*App)

// WithTracerProvider sets the provider used for run spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracer = telemetry.Tracer(tp)
	}
}

// WithRunID replaces the run id generator.
func WithRunID(fn func() string) Option {
	return func(a *App) {
		a.newRunID = fn
	}
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   Loader
	analyzer *analysis.Analyzer
	reporter report.Reporter
	prom     *report.PromExporter
	tracer   trace.Tracer
	newRunID func() string

	httpServer *http.Server

	mu      sync.Mutex
	lastErr error
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW, each App owning its own logger.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	prom := report.NewPromExporter()
	reporter, err := report.New(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create reporter: %w", err)
	}
	// The prometheus format reports through the shared exporter so that
	// /metrics and the textfile see the same registry.
	if _, ok := reporter.(*report.PromExporter); ok {
		reporter = prom
	}

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		analyzer: analysis.New(
			analysis.WithLogger(logger),
			analysis.WithStrictRoles(cfg.StrictRoles),
		),
		reporter: reporter,
		prom:     prom,
		tracer:   telemetry.Tracer(nil),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) setLastErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
}

func (a *App) lastRunErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
