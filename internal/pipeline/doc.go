// Package pipeline defines the in-memory shape of a declared data-processing
// pipeline: nodes, their role, their ordered configuration, and the typed ports
// that link them together.
//
// Values in this package are plain data. Nothing here enforces that node ids are
// unique or that references resolve; those are the concern of the graph and
// validate packages. Loaders (see internal/config) produce Pipeline values, the
// analyzer consumes them read-only.
package pipeline
