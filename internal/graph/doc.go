// Package graph builds a read-only, indexed view over a pipeline.Pipeline.
//
// # Why Graph Package Exists
//
// A Pipeline is a flat, declaration-ordered list of nodes whose ports point at
// each other by id. Every consumer of that shape (the validator, the metric
// collector) needs the same things: constant-time lookup of nodes and ports,
// the set of links that actually resolve, and per-node adjacency. The Graph
// computes all of it once, up front, so the consumers stay simple and pure.
//
// # Construction
//
// New walks the pipeline once. It fails with a *DuplicateNodeIDError or a
// *DuplicatePortIDError when identities collide; both wrap sentinel errors
// for errors.Is. Inputs and outputs of a node share one port namespace.
//
// # References and Edges
//
// Every non-nil PortRef on an input (upstream) or output (downstream) becomes
// a Reference, in declaration order: node order, then the node's inputs, then
// its outputs. A Reference that lands on an existing node and an existing port
// of the right direction is resolved and yields an Edge. A link that is
// declared from both ends is one Edge, attributed to whichever end was seen
// first.
//
// # Ordering
//
// Every slice returned by a Graph is in declaration order. Nothing depends on
// map iteration order, so two Graphs built from equal pipelines answer every
// query identically.
//
// # Thread-Safety
//
// A Graph is never mutated after New returns and may be shared freely between
// goroutines.
package graph
