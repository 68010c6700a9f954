package graph

import (
	"github.com/vk/pipescope/internal/pipeline"
)

// Graph is an immutable, indexed view over a pipeline.
type Graph struct {
	pipeline *pipeline.Pipeline

	nodes   []*pipeline.Node
	nodeIdx map[string]int
	inputs  map[Endpoint]*pipeline.Input
	outputs map[Endpoint]*pipeline.Output

	refs     []Reference
	edges    []Edge
	outEdges map[string][]int
	inEdges  map[string][]int
	succ     map[string][]string
	pred     map[string][]string
}

// New indexes p. It fails if two nodes share an id or two ports on the same
// node share an id.
func New(p *pipeline.Pipeline) (*Graph, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}

	g := &Graph{
		pipeline: p,
		nodes:    make([]*pipeline.Node, 0, len(p.Nodes)),
		nodeIdx:  make(map[string]int, len(p.Nodes)),
		inputs:   make(map[Endpoint]*pipeline.Input),
		outputs:  make(map[Endpoint]*pipeline.Output),
		outEdges: make(map[string][]int),
		inEdges:  make(map[string][]int),
		succ:     make(map[string][]string),
		pred:     make(map[string][]string),
	}

	// First pass: index nodes and ports.
	for i := range p.Nodes {
		n := &p.Nodes[i]
		if _, exists := g.nodeIdx[n.ID]; exists {
			return nil, &DuplicateNodeIDError{NodeID: n.ID}
		}
		g.nodeIdx[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)

		ports := make(map[string]struct{}, len(n.Inputs)+len(n.Outputs))
		for j := range n.Inputs {
			in := &n.Inputs[j]
			if _, exists := ports[in.ID]; exists {
				return nil, &DuplicatePortIDError{NodeID: n.ID, PortID: in.ID}
			}
			ports[in.ID] = struct{}{}
			g.inputs[Endpoint{Node: n.ID, Port: in.ID}] = in
		}
		for j := range n.Outputs {
			out := &n.Outputs[j]
			if _, exists := ports[out.ID]; exists {
				return nil, &DuplicatePortIDError{NodeID: n.ID, PortID: out.ID}
			}
			ports[out.ID] = struct{}{}
			g.outputs[Endpoint{Node: n.ID, Port: out.ID}] = out
		}
	}

	// Second pass: resolve references into edges.
	seen := make(map[[2]Endpoint]struct{})
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if in.Upstream == nil {
				continue
			}
			self := Endpoint{Node: n.ID, Port: in.ID}
			target := Endpoint{Node: in.Upstream.Node, Port: in.Upstream.Port}
			out, ok := g.outputs[target]
			g.refs = append(g.refs, Reference{From: self, Direction: Upstream, Target: *in.Upstream, Resolved: ok})
			if ok {
				g.addEdge(seen, Edge{Out: target, In: self, DeclaredBy: self, OutType: out.DataType, InType: in.DataType})
			}
		}
		for _, out := range n.Outputs {
			if out.Downstream == nil {
				continue
			}
			self := Endpoint{Node: n.ID, Port: out.ID}
			target := Endpoint{Node: out.Downstream.Node, Port: out.Downstream.Port}
			in, ok := g.inputs[target]
			g.refs = append(g.refs, Reference{From: self, Direction: Downstream, Target: *out.Downstream, Resolved: ok})
			if ok {
				g.addEdge(seen, Edge{Out: self, In: target, DeclaredBy: self, OutType: out.DataType, InType: in.DataType})
			}
		}
	}

	return g, nil
}

func (g *Graph) addEdge(seen map[[2]Endpoint]struct{}, e Edge) {
	key := [2]Endpoint{e.Out, e.In}
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}

	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.outEdges[e.Out.Node] = append(g.outEdges[e.Out.Node], idx)
	g.inEdges[e.In.Node] = append(g.inEdges[e.In.Node], idx)
	g.succ[e.Out.Node] = appendUnique(g.succ[e.Out.Node], e.In.Node)
	g.pred[e.In.Node] = appendUnique(g.pred[e.In.Node], e.Out.Node)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Pipeline returns the pipeline the graph was built from.
func (g *Graph) Pipeline() *pipeline.Pipeline {
	return g.pipeline
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*pipeline.Node {
	out := make([]*pipeline.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*pipeline.Node, bool) {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return nil, false
	}
	return g.nodes[idx], true
}

// Input looks up an input port.
func (g *Graph) Input(nodeID, portID string) (*pipeline.Input, bool) {
	in, ok := g.inputs[Endpoint{Node: nodeID, Port: portID}]
	return in, ok
}

// Output looks up an output port.
func (g *Graph) Output(nodeID, portID string) (*pipeline.Output, bool) {
	out, ok := g.outputs[Endpoint{Node: nodeID, Port: portID}]
	return out, ok
}

// References returns every declared port link in declaration order.
func (g *Graph) References() []Reference {
	out := make([]Reference, len(g.refs))
	copy(out, g.refs)
	return out
}

// Edges returns all resolved links in first-declaration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// OutEdges returns the resolved edges leaving a node.
func (g *Graph) OutEdges(id string) []Edge {
	return g.collect(g.outEdges[id])
}

// InEdges returns the resolved edges entering a node.
func (g *Graph) InEdges(id string) []Edge {
	return g.collect(g.inEdges[id])
}

func (g *Graph) collect(idxs []int) []Edge {
	out := make([]Edge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.edges[i])
	}
	return out
}

// Successors returns the distinct nodes fed by id, in edge order.
func (g *Graph) Successors(id string) []string {
	return append([]string(nil), g.succ[id]...)
}

// Predecessors returns the distinct nodes feeding id, in edge order.
func (g *Graph) Predecessors(id string) []string {
	return append([]string(nil), g.pred[id]...)
}
