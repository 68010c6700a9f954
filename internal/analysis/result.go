package analysis

import (
	"github.com/vk/pipescope/internal/metrics"
	"github.com/vk/pipescope/internal/validate"
)

// Result is the outcome of analyzing one pipeline.
type Result struct {
	PipelineID string           `json:"pipeline_id" yaml:"pipeline_id"`
	Errors     []validate.Issue `json:"errors" yaml:"errors"`
	Warnings   []validate.Issue `json:"warnings" yaml:"warnings"`
	Metrics    metrics.Set      `json:"metrics" yaml:"metrics"`
}

func newResult(pipelineID string) *Result {
	return &Result{
		PipelineID: pipelineID,
		Errors:     []validate.Issue{},
		Warnings:   []validate.Issue{},
		Metrics:    metrics.Set{},
	}
}

func (r *Result) add(issues ...validate.Issue) {
	for _, issue := range issues {
		if issue.Severity == validate.Error {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// HasErrors reports whether any Error-severity issue was found.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Issues returns errors followed by warnings.
func (r *Result) Issues() []validate.Issue {
	out := make([]validate.Issue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}
