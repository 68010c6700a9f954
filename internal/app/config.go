package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vk/pipescope/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // pipeline files or directories

	Format       string
	PromTextfile string

	LogFormat string
	LogLevel  string

	Workers     int
	StrictRoles bool
	FailOnError bool

	HealthcheckPort int
	Debounce        time.Duration

	OTLPEndpoint string
	OTLPInsecure bool
	OTLPHeaders  map[string]string
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// NewConfig normalizes and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one pipeline path is required")
	}

	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}
	if _, err := report.New(cfg.Format); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be one of %s", cfg.LogLevel, strings.Join(logLevels, ", "))
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be one of %s", cfg.LogFormat, strings.Join(logFormats, ", "))
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck-port out of range: %d", cfg.HealthcheckPort)
	}
	if cfg.Debounce < 0 {
		return nil, fmt.Errorf("debounce must not be negative, got %s", cfg.Debounce)
	}
	if cfg.OTLPInsecure && cfg.OTLPEndpoint == "" {
		return nil, errors.New("otlp-insecure requires otlp-endpoint")
	}
	if len(cfg.OTLPHeaders) > 0 && cfg.OTLPEndpoint == "" {
		return nil, errors.New("otlp-header requires otlp-endpoint")
	}

	return &cfg, nil
}
