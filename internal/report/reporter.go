package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vk/pipescope/internal/analysis"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by New.
const (
	FormatText       = "text"
	FormatMarkdown   = "markdown"
	FormatJSON       = "json"
	FormatYAML       = "yaml"
	FormatPrometheus = "prometheus"
)

// Formats lists every supported format name.
var Formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatPrometheus}

// Batch is the output of one run.
type Batch struct {
	RunID   string             `json:"run_id" yaml:"run_id"`
	Results []*analysis.Result `json:"results" yaml:"results"`
}

// HasErrors reports whether any result in the batch carries an error.
func (b *Batch) HasErrors() bool {
	for _, r := range b.Results {
		if r.HasErrors() {
			return true
		}
	}
	return false
}

// Reporter writes a batch in one output format.
type Reporter interface {
	Report(w io.Writer, b *Batch) error
}

// New returns the reporter for format.
func New(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextReporter{}, nil
	case FormatMarkdown, "md":
		return &TextReporter{Markdown: true}, nil
	case FormatJSON:
		return &JSONReporter{Indent: "  "}, nil
	case FormatYAML, "yml":
		return &YAMLReporter{}, nil
	case FormatPrometheus, "prom":
		return NewPromExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}
