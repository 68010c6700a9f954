package report

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipescope/internal/analysis"
	pipetest "github.com/vk/pipescope/internal/testutil"
	"gopkg.in/yaml.v3"
)

func batch(t *testing.T) *Batch {
	t.Helper()
	a := analysis.New()
	ok, err := a.Analyze(pipetest.SourceToSink("int", "int"))
	require.NoError(t, err)
	bad, err := a.Analyze(pipetest.SourceToSink("int", "string"))
	require.NoError(t, err)
	bad.PipelineID = "mismatch"
	return &Batch{RunID: "run-1", Results: []*analysis.Result{ok, bad}}
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		r, err := New(f)
		require.NoError(t, err, f)
		assert.NotNil(t, r, f)
	}

	_, err := New("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer

	// --- Act ---
	err := (&TextReporter{}).Report(&buf, batch(t))

	// --- Assert ---
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "run run-1\n"))
	assert.Contains(t, out, "pipeline source-to-sink: ok (0 errors, 0 warnings)")
	assert.Contains(t, out, "pipeline mismatch: FAILED (1 errors, 0 warnings)")
	assert.Contains(t, out, "  ERROR type mismatch: expected string got int (sink/I1)\n")
	assert.Contains(t, out, "max_depth")
}

func TestTextReporter_Markdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&TextReporter{Markdown: true}).Report(&buf, batch(t)))

	assert.Contains(t, buf.String(), "| node_count |")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&JSONReporter{Indent: "  "}).Report(&buf, batch(t)))

	var decoded struct {
		RunID   string `json:"run_id"`
		Results []struct {
			PipelineID string `json:"pipeline_id"`
			Errors     []struct {
				Severity string `json:"severity"`
				Message  string `json:"message"`
				NodeID   string `json:"node_id"`
				PortID   string `json:"port_id"`
			} `json:"errors"`
			Metrics []struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"metrics"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Results, 2)
	require.Len(t, decoded.Results[1].Errors, 1)
	assert.Equal(t, "error", decoded.Results[1].Errors[0].Severity)
	assert.Equal(t, "I1", decoded.Results[1].Errors[0].PortID)
	assert.Equal(t, "node_count", decoded.Results[0].Metrics[0].Name)
}

func TestJSONReporter_Deterministic(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	require.NoError(t, (&JSONReporter{}).Report(&a, batch(t)))
	require.NoError(t, (&JSONReporter{}).Report(&b, batch(t)))
	assert.Equal(t, a.String(), b.String())
}

func TestYAMLReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&YAMLReporter{}).Report(&buf, batch(t)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Contains(t, buf.String(), "severity: error")
	assert.Contains(t, buf.String(), "pipeline_id: mismatch")
}

func TestPromExporter_Report(t *testing.T) {
	t.Parallel()

	e := NewPromExporter()
	var buf bytes.Buffer

	require.NoError(t, e.Report(&buf, batch(t)))

	out := buf.String()
	assert.Contains(t, out, `pipescope_pipeline_metric{metric="edge_count",pipeline="source-to-sink"} 1`)
	assert.Contains(t, out, `pipescope_pipeline_issues{pipeline="mismatch",severity="error"} 1`)
	assert.Contains(t, out, "pipescope_runs_total 1")
}

func TestPromExporter_ObserveReplacesPreviousBatch(t *testing.T) {
	t.Parallel()

	e := NewPromExporter()
	e.Observe(batch(t))

	only, err := analysis.Analyze(pipetest.Diamond())
	require.NoError(t, err)
	e.Observe(&Batch{Results: []*analysis.Result{only}})

	// Nine metrics plus two issue gauges for the single remaining pipeline.
	assert.Equal(t, 9, testutil.CollectAndCount(e.metric))
	assert.Equal(t, 2, testutil.CollectAndCount(e.issues))
	assert.Equal(t, 1, testutil.CollectAndCount(e.definitions))
	assert.Equal(t, 5.0, testutil.ToFloat64(e.metric.WithLabelValues("diamond", "edge_count")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.runs))
}

func TestPromExporter_SharedPipelineID(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Two definitions with the same id, the failing one first.
	a := analysis.New()
	bad, err := a.Analyze(pipetest.SourceToSink("int", "string"))
	require.NoError(t, err)
	ok, err := a.Analyze(pipetest.SourceToSink("int", "int"))
	require.NoError(t, err)
	e := NewPromExporter()

	// --- Act ---
	e.Observe(&Batch{Results: []*analysis.Result{bad, ok, bad}})

	// --- Assert ---
	id := bad.PipelineID
	assert.Equal(t, 2.0, testutil.ToFloat64(e.issues.WithLabelValues(id, "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.issues.WithLabelValues(id, "warning")))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.definitions.WithLabelValues(id)))
	assert.Equal(t, 9, testutil.CollectAndCount(e.metric))
}

func TestPromExporter_Handler(t *testing.T) {
	t.Parallel()

	e := NewPromExporter()
	e.Observe(batch(t))
	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pipescope_pipeline_metric")
}

func TestPromExporter_WriteTextfile(t *testing.T) {
	t.Parallel()

	e := NewPromExporter()
	e.Observe(batch(t))
	path := filepath.Join(t.TempDir(), "pipescope.prom")

	require.NoError(t, e.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `pipescope_pipeline_issues{pipeline="source-to-sink",severity="warning"} 0`)
}

func TestBatch_HasErrors(t *testing.T) {
	t.Parallel()

	b := batch(t)
	assert.True(t, b.HasErrors())
	b.Results = b.Results[:1]
	assert.False(t, b.HasErrors())
}
