package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the log settings of a defaults file.
const (
	EnvLogLevel  = "PIPESCOPE_LOG_LEVEL"
	EnvLogFormat = "PIPESCOPE_LOG_FORMAT"
)

// Defaults is the on-disk form of a defaults file. Unset fields leave the
// corresponding Config field alone.
type Defaults struct {
	Paths           []string       `yaml:"paths"`
	Format          *string        `yaml:"format"`
	PromTextfile    *string        `yaml:"prom_textfile"`
	LogFormat       *string        `yaml:"log_format"`
	LogLevel        *string        `yaml:"log_level"`
	Workers         *int           `yaml:"workers"`
	StrictRoles     *bool          `yaml:"strict_roles"`
	FailOnError     *bool          `yaml:"fail_on_error"`
	HealthcheckPort *int           `yaml:"healthcheck_port"`
	Debounce        *time.Duration `yaml:"debounce"`
	OTLP            struct {
		Endpoint *string           `yaml:"endpoint"`
		Insecure *bool             `yaml:"insecure"`
		Headers  map[string]string `yaml:"headers"`
	} `yaml:"otlp"`
}

// LoadDefaults reads a defaults file. Unknown keys are rejected.
func LoadDefaults(path string) (*Defaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open defaults file: %w", err)
	}
	defer f.Close()

	var d Defaults
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode defaults file %s: %w", path, err)
	}
	return &d, nil
}

// Apply copies every set field of d into cfg unless explicit reports that
// the named setting was given on the command line.
func (d *Defaults) Apply(cfg *Config, explicit func(name string) bool) {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	if len(d.Paths) > 0 && len(cfg.Paths) == 0 {
		cfg.Paths = d.Paths
	}
	setValue(&cfg.Format, d.Format, !explicit("format"))
	setValue(&cfg.PromTextfile, d.PromTextfile, !explicit("prom-textfile"))
	setValue(&cfg.LogFormat, d.LogFormat, !explicit("log-format"))
	setValue(&cfg.LogLevel, d.LogLevel, !explicit("log-level"))
	setValue(&cfg.Workers, d.Workers, !explicit("workers"))
	setValue(&cfg.StrictRoles, d.StrictRoles, !explicit("strict-roles"))
	setValue(&cfg.FailOnError, d.FailOnError, !explicit("fail-on-error"))
	setValue(&cfg.HealthcheckPort, d.HealthcheckPort, !explicit("healthcheck-port"))
	setValue(&cfg.Debounce, d.Debounce, !explicit("debounce"))
	setValue(&cfg.OTLPEndpoint, d.OTLP.Endpoint, !explicit("otlp-endpoint"))
	setValue(&cfg.OTLPInsecure, d.OTLP.Insecure, !explicit("otlp-insecure"))
	if len(d.OTLP.Headers) > 0 && !explicit("otlp-header") {
		cfg.OTLPHeaders = d.OTLP.Headers
	}
}

// ApplyEnv overrides the log settings from the environment unless they were
// given on the command line.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool), explicit func(name string) bool) {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" && !explicit("log-level") {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" && !explicit("log-format") {
		cfg.LogFormat = v
	}
}

func setValue[T any](dst *T, src *T, ok bool) {
	if ok && src != nil {
		*dst = *src
	}
}
