package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipescope/internal/pipeline"
)

// linkedPipeline returns reader -> upper -> writer, with the first link
// declared from both ends and the second only from the input side.
func linkedPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		ID: "etl",
		Nodes: []pipeline.Node{
			{
				ID:   "reader",
				Type: pipeline.Source,
				Outputs: []pipeline.Output{
					{ID: "rows", DataType: "record", Downstream: &pipeline.PortRef{Node: "upper", Port: "in"}},
				},
			},
			{
				ID:   "upper",
				Type: pipeline.Processor,
				Inputs: []pipeline.Input{
					{ID: "in", DataType: "record", Upstream: &pipeline.PortRef{Node: "reader", Port: "rows"}},
				},
				Outputs: []pipeline.Output{{ID: "out", DataType: "record"}},
			},
			{
				ID:   "writer",
				Type: pipeline.Sink,
				Inputs: []pipeline.Input{
					{ID: "rows", DataType: "record", Upstream: &pipeline.PortRef{Node: "upper", Port: "out"}},
				},
			},
		},
	}
}

func TestNew_IndexesNodesAndPorts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	p := linkedPipeline()

	// --- Act ---
	g, err := New(p)

	// --- Assert ---
	require.NoError(t, err)
	assert.Same(t, p, g.Pipeline())
	assert.Equal(t, 3, g.Len())

	n, ok := g.Node("upper")
	require.True(t, ok)
	assert.Equal(t, pipeline.Processor, n.Type)

	in, ok := g.Input("writer", "rows")
	require.True(t, ok)
	assert.Equal(t, "record", in.DataType)

	out, ok := g.Output("upper", "out")
	require.True(t, ok)
	assert.Nil(t, out.Downstream)

	_, ok = g.Output("writer", "rows")
	assert.False(t, ok, "an input must not be found as an output")
	_, ok = g.Node("missing")
	assert.False(t, ok)
}

func TestNew_DeduplicatesLinksDeclaredFromBothEnds(t *testing.T) {
	t.Parallel()

	g, err := New(linkedPipeline())
	require.NoError(t, err)

	edges := g.Edges()
	require.Len(t, edges, 2)

	assert.Equal(t, Edge{
		Out:        Endpoint{Node: "reader", Port: "rows"},
		In:         Endpoint{Node: "upper", Port: "in"},
		DeclaredBy: Endpoint{Node: "reader", Port: "rows"},
		OutType:    "record",
		InType:     "record",
	}, edges[0])
	assert.Equal(t, Endpoint{Node: "writer", Port: "rows"}, edges[1].DeclaredBy)

	assert.Len(t, g.References(), 3, "every declaration is kept as a reference")
	assert.Equal(t, []string{"upper"}, g.Successors("reader"))
	assert.Equal(t, []string{"upper"}, g.Predecessors("writer"))
	assert.Len(t, g.InEdges("upper"), 1)
	assert.Len(t, g.OutEdges("upper"), 1)
	assert.Empty(t, g.OutEdges("writer"))
}

func TestNew_UnresolvedReferences(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		ID: "broken",
		Nodes: []pipeline.Node{
			{
				ID:   "a",
				Type: pipeline.Source,
				Outputs: []pipeline.Output{
					{ID: "o", DataType: "int", Downstream: &pipeline.PortRef{Node: "ghost", Port: "i"}},
				},
			},
			{
				ID:   "b",
				Type: pipeline.Sink,
				Inputs: []pipeline.Input{
					// Points at an input, not an output.
					{ID: "i", DataType: "int", Upstream: &pipeline.PortRef{Node: "b", Port: "i"}},
				},
			},
		},
	}

	g, err := New(p)
	require.NoError(t, err)

	assert.Empty(t, g.Edges())
	refs := g.References()
	require.Len(t, refs, 2)
	assert.Equal(t, Endpoint{Node: "a", Port: "o"}, refs[0].From)
	assert.Equal(t, Downstream, refs[0].Direction)
	assert.False(t, refs[0].Resolved)
	assert.Equal(t, Upstream, refs[1].Direction)
	assert.False(t, refs[1].Resolved)
}

func TestNew_DuplicateNodeID(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		ID: "dup",
		Nodes: []pipeline.Node{
			{ID: "x", Type: pipeline.Source},
			{ID: "y", Type: pipeline.Sink},
			{ID: "x", Type: pipeline.Sink},
		},
	}

	_, err := New(p)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNodeID))
	var dupErr *DuplicateNodeIDError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "x", dupErr.NodeID)
	assert.Equal(t, `duplicate node id: "x"`, err.Error())
}

func TestNew_DuplicatePortIDAcrossDirections(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		ID: "dup",
		Nodes: []pipeline.Node{
			{
				ID:      "proc",
				Type:    pipeline.Processor,
				Inputs:  []pipeline.Input{{ID: "data", DataType: "int"}},
				Outputs: []pipeline.Output{{ID: "data", DataType: "int"}},
			},
		},
	}

	_, err := New(p)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicatePortID))
	var dupErr *DuplicatePortIDError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "proc", dupErr.NodeID)
	assert.Equal(t, "data", dupErr.PortID)
}

func TestNew_SamePortIDOnDifferentNodesIsFine(t *testing.T) {
	t.Parallel()

	g, err := New(linkedPipeline())
	require.NoError(t, err)

	_, ok := g.Output("reader", "rows")
	assert.True(t, ok)
	_, ok = g.Input("writer", "rows")
	assert.True(t, ok)
}

func TestNew_NilPipeline(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilPipeline)
}

func TestNew_SelfLoopIsAnEdge(t *testing.T) {
	t.Parallel()

	p := &pipeline.Pipeline{
		ID: "loop",
		Nodes: []pipeline.Node{
			{
				ID:      "p",
				Type:    pipeline.Processor,
				Inputs:  []pipeline.Input{{ID: "in", DataType: "int", Upstream: &pipeline.PortRef{Node: "p", Port: "out"}}},
				Outputs: []pipeline.Output{{ID: "out", DataType: "int"}},
			},
		},
	}

	g, err := New(p)
	require.NoError(t, err)
	require.Len(t, g.Edges(), 1)
	assert.True(t, g.Edges()[0].SelfLoop())
	assert.Equal(t, []string{"p"}, g.Successors("p"))
}

func TestGraph_RoundTripsIdentities(t *testing.T) {
	t.Parallel()

	p := linkedPipeline()
	g, err := New(p)
	require.NoError(t, err)

	var nodeIDs, portIDs []string
	for _, n := range g.Nodes() {
		nodeIDs = append(nodeIDs, n.ID)
		for _, in := range n.Inputs {
			portIDs = append(portIDs, n.ID+"/"+in.ID)
		}
		for _, out := range n.Outputs {
			portIDs = append(portIDs, n.ID+"/"+out.ID)
		}
	}

	assert.Equal(t, []string{"reader", "upper", "writer"}, nodeIDs)
	assert.Equal(t, []string{"reader/rows", "upper/in", "upper/out", "writer/rows"}, portIDs)
}

func TestGraph_ReturnedSlicesAreCopies(t *testing.T) {
	t.Parallel()

	g, err := New(linkedPipeline())
	require.NoError(t, err)

	edges := g.Edges()
	edges[0].OutType = "mutated"
	nodes := g.Nodes()
	nodes[0] = nil

	assert.Equal(t, "record", g.Edges()[0].OutType)
	assert.NotNil(t, g.Nodes()[0])
}
