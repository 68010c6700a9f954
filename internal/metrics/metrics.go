package metrics

import (
	"github.com/vk/pipescope/internal/graph"
	"github.com/vk/pipescope/internal/pipeline"
)

// Metric names, in the order Collect emits them.
const (
	NodeCount       = "node_count"
	EdgeCount       = "edge_count"
	MaxFanIn        = "max_fan_in"
	MaxFanOut       = "max_fan_out"
	OrphanNodeCount = "orphan_node_count"
	MaxDepth        = "max_depth"
	SourceCount     = "source_count"
	ProcessorCount  = "processor_count"
	SinkCount       = "sink_count"
)

// Metric is a single named figure.
type Metric struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Set is an ordered list of metrics. It is never nil when returned by Collect.
type Set []Metric

// Get returns the value of the named metric.
func (s Set) Get(name string) (float64, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Names returns the metric names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}
	return names
}

// Collect computes every metric for g.
func Collect(g *graph.Graph) Set {
	var fanInMax, fanOutMax, orphans int
	byType := make(map[pipeline.NodeType]int, 3)

	for _, n := range g.Nodes() {
		in, out := len(g.InEdges(n.ID)), len(g.OutEdges(n.ID))
		fanInMax = max(fanInMax, in)
		fanOutMax = max(fanOutMax, out)
		if in == 0 && out == 0 {
			orphans++
		}
		byType[n.Type]++
	}

	return Set{
		{Name: NodeCount, Value: float64(g.Len())},
		{Name: EdgeCount, Value: float64(len(g.Edges()))},
		{Name: MaxFanIn, Value: float64(fanInMax)},
		{Name: MaxFanOut, Value: float64(fanOutMax)},
		{Name: OrphanNodeCount, Value: float64(orphans)},
		{Name: MaxDepth, Value: float64(longestPath(g))},
		{Name: SourceCount, Value: float64(byType[pipeline.Source])},
		{Name: ProcessorCount, Value: float64(byType[pipeline.Processor])},
		{Name: SinkCount, Value: float64(byType[pipeline.Sink])},
	}
}

// longestPath returns the number of edges on the longest path, or -1 if the
// graph has a cycle. Nodes are released in Kahn order: a node becomes ready
// once every predecessor has been processed.
func longestPath(g *graph.Graph) int {
	nodes := g.Nodes()
	pending := make(map[string]int, len(nodes))
	depth := make(map[string]int, len(nodes))

	var ready []string
	for _, n := range nodes {
		pending[n.ID] = len(g.Predecessors(n.ID))
		if pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	processed, longest := 0, 0
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		processed++
		for _, next := range g.Successors(id) {
			depth[next] = max(depth[next], depth[id]+1)
			longest = max(longest, depth[next])
			pending[next]--
			if pending[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if processed < len(nodes) {
		return -1
	}
	return longest
}
