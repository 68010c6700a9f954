package testutil

import (
	"fmt"

	"github.com/vk/pipescope/internal/pipeline"
)

// Builder assembles pipelines for tests. Every method panics when it refers
// to a node or port that has not been declared yet, so typos fail loudly.
type Builder struct {
	p *pipeline.Pipeline
}

// NewPipeline starts a pipeline with the given id.
func NewPipeline(id string) *Builder {
	return &Builder{p: &pipeline.Pipeline{ID: id, Name: id}}
}

// Node declares a node.
func (b *Builder) Node(id string, t pipeline.NodeType) *Builder {
	b.p.Nodes = append(b.p.Nodes, pipeline.Node{ID: id, Type: t})
	return b
}

// Input declares an unlinked input.
func (b *Builder) Input(nodeID, portID, dataType string) *Builder {
	n := b.node(nodeID)
	n.Inputs = append(n.Inputs, pipeline.Input{ID: portID, DataType: dataType})
	return b
}

// Output declares an unlinked output.
func (b *Builder) Output(nodeID, portID, dataType string) *Builder {
	n := b.node(nodeID)
	n.Outputs = append(n.Outputs, pipeline.Output{ID: portID, DataType: dataType})
	return b
}

// Upstream points an existing input at node.port.
func (b *Builder) Upstream(nodeID, inputID, node, port string) *Builder {
	in := b.input(nodeID, inputID)
	in.Upstream = &pipeline.PortRef{Node: node, Port: port}
	return b
}

// Downstream points an existing output at node.port.
func (b *Builder) Downstream(nodeID, outputID, node, port string) *Builder {
	out := b.output(nodeID, outputID)
	out.Downstream = &pipeline.PortRef{Node: node, Port: port}
	return b
}

// Link declares (if needed) an output on from and an input on to, both of
// dataType, and links them from the input side.
func (b *Builder) Link(from, outPort, to, inPort, dataType string) *Builder {
	if !b.hasOutput(from, outPort) {
		b.Output(from, outPort, dataType)
	}
	if !b.hasInput(to, inPort) {
		b.Input(to, inPort, dataType)
	}
	return b.Upstream(to, inPort, from, outPort)
}

// Config appends a configuration entry to a node.
func (b *Builder) Config(nodeID, key, value string) *Builder {
	n := b.node(nodeID)
	n.Config = append(n.Config, pipeline.Prop{Key: key, Value: value})
	return b
}

// Build returns the assembled pipeline.
func (b *Builder) Build() *pipeline.Pipeline {
	return b.p
}

func (b *Builder) node(id string) *pipeline.Node {
	for i := range b.p.Nodes {
		if b.p.Nodes[i].ID == id {
			return &b.p.Nodes[i]
		}
	}
	panic(fmt.Sprintf("testutil: node %q not declared", id))
}

func (b *Builder) input(nodeID, portID string) *pipeline.Input {
	n := b.node(nodeID)
	for i := range n.Inputs {
		if n.Inputs[i].ID == portID {
			return &n.Inputs[i]
		}
	}
	panic(fmt.Sprintf("testutil: input %s.%s not declared", nodeID, portID))
}

func (b *Builder) output(nodeID, portID string) *pipeline.Output {
	n := b.node(nodeID)
	for i := range n.Outputs {
		if n.Outputs[i].ID == portID {
			return &n.Outputs[i]
		}
	}
	panic(fmt.Sprintf("testutil: output %s.%s not declared", nodeID, portID))
}

func (b *Builder) hasInput(nodeID, portID string) bool {
	for _, in := range b.node(nodeID).Inputs {
		if in.ID == portID {
			return true
		}
	}
	return false
}

func (b *Builder) hasOutput(nodeID, portID string) bool {
	for _, out := range b.node(nodeID).Outputs {
		if out.ID == portID {
			return true
		}
	}
	return false
}
