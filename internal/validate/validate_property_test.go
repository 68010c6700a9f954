package validate

import (
	"fmt"
	"testing"

	"github.com/vk/pipescope/internal/graph"
	"github.com/vk/pipescope/internal/pipeline"
	"github.com/vk/pipescope/internal/testutil"
	"pgregory.net/rapid"
)

// randomDAG links node i to node j only when i < j, so it cannot contain a
// cycle. All ports share one data type.
func randomDAG(t *rapid.T) *pipeline.Pipeline {
	n := rapid.IntRange(1, 12).Draw(t, "nodes")
	b := testutil.NewPipeline("dag")
	for i := range n {
		b.Node(fmt.Sprintf("n%d", i), pipeline.Processor)
	}
	for j := 1; j < n; j++ {
		for i := range j {
			if rapid.Bool().Draw(t, fmt.Sprintf("link_%d_%d", i, j)) {
				b.Link(fmt.Sprintf("n%d", i), fmt.Sprintf("to_%d", j), fmt.Sprintf("n%d", j), fmt.Sprintf("from_%d", i), "int")
			}
		}
	}
	return b.Build()
}

func TestValidate_RandomDAGHasNoErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g, err := graph.New(randomDAG(t))
		if err != nil {
			t.Fatalf("graph.New: %v", err)
		}
		for _, issue := range Validate(g, Options{}) {
			if issue.Severity == Error {
				t.Fatalf("unexpected error on acyclic pipeline: %s", issue)
			}
		}
	})
}

func TestValidate_DisjointRingsReportOneCycleEach(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rings := rapid.IntRange(1, 5).Draw(t, "rings")
		b := testutil.NewPipeline("rings")
		for r := range rings {
			size := rapid.IntRange(1, 4).Draw(t, fmt.Sprintf("size_%d", r))
			for i := range size {
				b.Node(fmt.Sprintf("r%d_%d", r, i), pipeline.Processor)
			}
			for i := range size {
				from := fmt.Sprintf("r%d_%d", r, i)
				to := fmt.Sprintf("r%d_%d", r, (i+1)%size)
				b.Link(from, "out", to, "in", "int")
			}
		}

		g, err := graph.New(b.Build())
		if err != nil {
			t.Fatalf("graph.New: %v", err)
		}
		cycles := 0
		for _, issue := range Validate(g, Options{}) {
			if issue.Message == MsgCycleDetected {
				cycles++
			}
		}
		if cycles != rings {
			t.Fatalf("got %d cycle errors for %d rings", cycles, rings)
		}
	})
}
