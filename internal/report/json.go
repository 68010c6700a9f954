package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONReporter writes the batch as a single JSON document.
type JSONReporter struct {
	Indent string
}

// Report implements Reporter.
func (r *JSONReporter) Report(w io.Writer, b *Batch) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", r.Indent)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode json report: %w", err)
	}
	return nil
}

// YAMLReporter writes the batch as a single YAML document.
type YAMLReporter struct{}

// Report implements Reporter.
func (r *YAMLReporter) Report(w io.Writer, b *Batch) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode yaml report: %w", err)
	}
	return enc.Close()
}
