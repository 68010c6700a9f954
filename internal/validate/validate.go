package validate

import (
	"fmt"

	"github.com/vk/pipescope/internal/graph"
	"github.com/vk/pipescope/internal/pipeline"
)

// Issue messages that callers may match on.
const (
	MsgDanglingReference = "dangling reference"
	MsgCycleDetected     = "cycle detected"
	MsgSourceHasInputs   = "source node has inputs"
	MsgSinkHasOutputs    = "sink node has outputs"
	MsgOrphanNode        = "orphan node"
)

// Options tune policy checks. The zero value is the default policy.
type Options struct {
	// StrictRoles reports port-role violations as errors instead of warnings.
	StrictRoles bool
}

type pass func(g *graph.Graph, opts Options) []Issue

// passes is the fixed evaluation order.
var passes = []pass{
	checkDanglingReferences,
	checkTypeMismatches,
	checkPortRoles,
	checkCycles,
	checkOrphans,
	checkDuplicateConfigKeys,
	checkConflictingReferences,
}

// Validate runs every pass over g and returns the combined issues.
func Validate(g *graph.Graph, opts Options) []Issue {
	var issues []Issue
	for _, p := range passes {
		issues = append(issues, p(g, opts)...)
	}
	return issues
}

// TypeMismatchMessage formats the message reported for a link whose ends
// disagree on data type. expected is the consuming input's type.
func TypeMismatchMessage(expected, got string) string {
	return fmt.Sprintf("type mismatch: expected %s got %s", expected, got)
}

func checkDanglingReferences(g *graph.Graph, _ Options) []Issue {
	var issues []Issue
	for _, ref := range g.References() {
		if !ref.Resolved {
			issues = append(issues, errorAt(ref.From.Node, ref.From.Port, MsgDanglingReference))
		}
	}
	return issues
}

func checkTypeMismatches(g *graph.Graph, _ Options) []Issue {
	var issues []Issue
	for _, e := range g.Edges() {
		if e.TypesMatch() {
			continue
		}
		issues = append(issues, errorAt(e.DeclaredBy.Node, e.DeclaredBy.Port, TypeMismatchMessage(e.InType, e.OutType)))
	}
	return issues
}

func checkPortRoles(g *graph.Graph, opts Options) []Issue {
	at := warningAt
	if opts.StrictRoles {
		at = errorAt
	}

	var issues []Issue
	for _, n := range g.Nodes() {
		switch {
		case n.Type == pipeline.Source && len(n.Inputs) > 0:
			issues = append(issues, at(n.ID, "", MsgSourceHasInputs))
		case n.Type == pipeline.Sink && len(n.Outputs) > 0:
			issues = append(issues, at(n.ID, "", MsgSinkHasOutputs))
		}
	}
	return issues
}

func checkOrphans(g *graph.Graph, _ Options) []Issue {
	// A lone node has nothing to be connected to.
	if g.Len() < 2 {
		return nil
	}
	var issues []Issue
	for _, n := range g.Nodes() {
		if len(g.InEdges(n.ID)) == 0 && len(g.OutEdges(n.ID)) == 0 {
			issues = append(issues, warningAt(n.ID, "", MsgOrphanNode))
		}
	}
	return issues
}

func checkDuplicateConfigKeys(g *graph.Graph, _ Options) []Issue {
	var issues []Issue
	for _, n := range g.Nodes() {
		for _, key := range n.Config.DuplicateKeys() {
			issues = append(issues, warningAt(n.ID, "", fmt.Sprintf("duplicate config key %q", key)))
		}
	}
	return issues
}

// checkConflictingReferences flags the far end of a resolved link when that
// end also declares a reference, but to somewhere else.
func checkConflictingReferences(g *graph.Graph, _ Options) []Issue {
	var issues []Issue
	reported := make(map[graph.Endpoint]struct{})
	for _, e := range g.Edges() {
		far, farRef := e.In, upstreamOf(g, e.In)
		want := pipeline.PortRef{Node: e.Out.Node, Port: e.Out.Port}
		if e.DeclaredBy == e.In {
			far, farRef = e.Out, downstreamOf(g, e.Out)
			want = pipeline.PortRef{Node: e.In.Node, Port: e.In.Port}
		}
		if farRef == nil || *farRef == want {
			continue
		}
		if _, done := reported[far]; done {
			continue
		}
		reported[far] = struct{}{}
		msg := fmt.Sprintf("conflicting reference: linked from %s but declares %s", e.DeclaredBy, farRef)
		issues = append(issues, warningAt(far.Node, far.Port, msg))
	}
	return issues
}

func upstreamOf(g *graph.Graph, ep graph.Endpoint) *pipeline.PortRef {
	if in, ok := g.Input(ep.Node, ep.Port); ok {
		return in.Upstream
	}
	return nil
}

func downstreamOf(g *graph.Graph, ep graph.Endpoint) *pipeline.PortRef {
	if out, ok := g.Output(ep.Node, ep.Port); ok {
		return out.Downstream
	}
	return nil
}
