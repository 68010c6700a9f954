// Package metrics computes structural figures for a pipeline graph.
//
// Collect is pure and deterministic: the same graph always yields the same
// Set, in the same order. The longest-path figure is computed with a
// topological sort of its own, so a cyclic graph reports max_depth -1 without
// depending on the validator.
//
// orphan_node_count counts every node without resolved edges, including the
// only node of a single-node pipeline. The validator does not warn about that
// node, so the metric can be non-zero while no "orphan node" warning exists.
package metrics
