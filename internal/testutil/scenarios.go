package testutil

import "github.com/vk/pipescope/internal/pipeline"

// SourceToSink is a Source whose output O1 feeds a Sink input I1. The two
// data types may differ.
func SourceToSink(outType, inType string) *pipeline.Pipeline {
	return NewPipeline("source-to-sink").
		Node("src", pipeline.Source).
		Node("sink", pipeline.Sink).
		Output("src", "O1", outType).
		Input("sink", "I1", inType).
		Upstream("sink", "I1", "src", "O1").
		Build()
}

// TwoNodeCycle wires A -> B and B -> A.
func TwoNodeCycle() *pipeline.Pipeline {
	return NewPipeline("two-node-cycle").
		Node("A", pipeline.Processor).
		Node("B", pipeline.Processor).
		Link("A", "out", "B", "in", "int").
		Link("B", "out", "A", "in", "int").
		Build()
}

// SinkWithOutputs is a lone Sink that declares an output.
func SinkWithOutputs() *pipeline.Pipeline {
	return NewPipeline("sink-with-outputs").
		Node("sink", pipeline.Sink).
		Input("sink", "in", "int").
		Output("sink", "leak", "int").
		Build()
}

// Diamond is src -> {left, right} -> join -> sink, all of type "row".
func Diamond() *pipeline.Pipeline {
	return NewPipeline("diamond").
		Node("src", pipeline.Source).
		Node("left", pipeline.Processor).
		Node("right", pipeline.Processor).
		Node("join", pipeline.Processor).
		Node("sink", pipeline.Sink).
		Link("src", "rows", "left", "in", "row").
		Link("src", "rows", "right", "in", "row").
		Link("left", "out", "join", "a", "row").
		Link("right", "out", "join", "b", "row").
		Link("join", "out", "sink", "in", "row").
		Build()
}
