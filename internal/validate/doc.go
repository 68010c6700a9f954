// Package validate runs the structural checks over a graph.Graph and returns
// an ordered list of Issues.
//
// Validate is a pure function. It always runs every pass, in a fixed order,
// so the same graph always produces the same issues in the same order:
//
//  1. dangling references
//  2. type mismatches on resolved links
//  3. port roles (Source with inputs, Sink with outputs)
//  4. cycles, at most one report per weakly connected component
//  5. hygiene: orphan nodes, duplicate config keys, conflicting references
//
// Within a pass, issues follow node declaration order and then port
// declaration order.
package validate
