// Package align implements the in-line-inspection (ILI) run alignment and
// matching engine: normalization, cleaning, reference-point matching,
// piecewise-linear distance correction, drift measurement, cross-run
// bipartite matching, growth regression, and priority classification.
//
// The package is a pure, single-threaded-safe batch transform: Run takes
// K caller-supplied run tables and returns one EngineResult. It performs
// no I/O, no logging, and holds no state between calls.
package align
