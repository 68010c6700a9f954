// Package report renders analysis results.
//
// A Reporter writes one Batch, the results of a single run, to an io.Writer.
// New returns the Reporter for a format name; the supported names are listed
// in Formats. The Prometheus exporter additionally serves its registry over
// HTTP and can write node_exporter textfiles.
package report
