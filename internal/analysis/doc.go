// Package analysis orchestrates a single pipeline analysis: it builds the
// graph model, runs the structural validator and the metric collector, and
// assembles a Result.
//
// # Lifecycle
//
// Every call to Analyze walks a small state machine:
//
//	Idle -> Validating -> Collecting -> Done
//	Idle -> Done                          (graph construction failed)
//
// The machine lives inside the call, so an Analyzer carries no per-run state
// and may be shared between goroutines. An observer registered with
// WithObserver sees every transition in order.
//
// # Results
//
// A Result never contains timestamps or random values. Analyzing the same
// pipeline twice produces Results that marshal to identical bytes.
package analysis
