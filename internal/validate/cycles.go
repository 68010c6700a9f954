package validate

import "github.com/vk/pipescope/internal/graph"

type mark int

const (
	unvisited mark = iota
	inProgress
	done
)

// checkCycles runs a depth-first search with three marks over the resolved
// edges. Hitting an in-progress node is a back-edge: the node is reported and
// the rest of its weakly connected component is skipped.
func checkCycles(g *graph.Graph, _ Options) []Issue {
	component := weakComponents(g)
	reported := make(map[int]bool)
	marks := make(map[string]mark, g.Len())

	var visit func(id string) (string, bool)
	visit = func(id string) (string, bool) {
		marks[id] = inProgress
		for _, next := range g.Successors(id) {
			switch marks[next] {
			case inProgress:
				return next, true
			case unvisited:
				if offender, found := visit(next); found {
					return offender, true
				}
			}
		}
		marks[id] = done
		return "", false
	}

	var issues []Issue
	for _, n := range g.Nodes() {
		if marks[n.ID] != unvisited || reported[component[n.ID]] {
			continue
		}
		if offender, found := visit(n.ID); found {
			reported[component[n.ID]] = true
			issues = append(issues, errorAt(offender, "", MsgCycleDetected))
		}
	}
	return issues
}

// weakComponents labels every node with the index of its weakly connected
// component, ignoring edge direction.
func weakComponents(g *graph.Graph) map[string]int {
	parent := make(map[string]string, g.Len())
	find := func(id string) string {
		for parent[id] != id {
			parent[id] = parent[parent[id]]
			id = parent[id]
		}
		return id
	}

	for _, n := range g.Nodes() {
		parent[n.ID] = n.ID
	}
	for _, e := range g.Edges() {
		a, b := find(e.Out.Node), find(e.In.Node)
		if a != b {
			parent[b] = a
		}
	}

	labels := make(map[string]int, g.Len())
	roots := make(map[string]int)
	for _, n := range g.Nodes() {
		root := find(n.ID)
		if _, ok := roots[root]; !ok {
			roots[root] = len(roots)
		}
		labels[n.ID] = roots[root]
	}
	return labels
}
