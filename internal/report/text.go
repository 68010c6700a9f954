package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/vk/pipescope/internal/analysis"
	"github.com/vk/pipescope/internal/validate"
)

// TextReporter writes a human-readable summary per pipeline followed by a
// metrics table.
type TextReporter struct {
	// Markdown renders the metrics table as a GitHub-flavoured Markdown table.
	Markdown bool
}

// Report implements Reporter.
func (r *TextReporter) Report(w io.Writer, b *Batch) error {
	if b.RunID != "" {
		if _, err := fmt.Fprintf(w, "run %s\n", b.RunID); err != nil {
			return err
		}
	}
	for i, res := range b.Results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.writeResult(w, res); err != nil {
			return fmt.Errorf("failed to write report for pipeline %q: %w", res.PipelineID, err)
		}
	}
	return nil
}

func (r *TextReporter) writeResult(w io.Writer, res *analysis.Result) error {
	status := "ok"
	if res.HasErrors() {
		status = "FAILED"
	}
	if _, err := fmt.Fprintf(w, "pipeline %s: %s (%d errors, %d warnings)\n",
		res.PipelineID, status, len(res.Errors), len(res.Warnings)); err != nil {
		return err
	}

	for _, issue := range res.Issues() {
		if _, err := fmt.Fprintf(w, "  %-5s %s%s\n", label(issue.Severity), issue.Message, location(issue)); err != nil {
			return err
		}
	}

	if len(res.Metrics) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"metric", "value"})
	for _, m := range res.Metrics {
		tw.AppendRow(table.Row{m.Name, strconv.FormatFloat(m.Value, 'f', -1, 64)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	var rendered string
	if r.Markdown {
		rendered = tw.RenderMarkdown()
	} else {
		tw.SetStyle(table.StyleLight)
		rendered = tw.Render()
	}
	_, err := fmt.Fprintln(w, rendered)
	return err
}

func label(s validate.Severity) string {
	if s == validate.Error {
		return "ERROR"
	}
	return "WARN"
}

func location(i validate.Issue) string {
	switch {
	case i.NodeID != "" && i.PortID != "":
		return fmt.Sprintf(" (%s/%s)", i.NodeID, i.PortID)
	case i.NodeID != "":
		return fmt.Sprintf(" (%s)", i.NodeID)
	default:
		return ""
	}
}
