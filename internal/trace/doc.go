// Package trace provides durable storage for conformance run traces.
//
// The harness records what the glue registry did during a run (step
// resolutions with their outcome and coerced arguments, hook firings, world
// builds, contract violations) as an ordered event log in SQLite. The
// `gluepot trace` command reads the log back for diagnostics.
//
// The store is diagnostic output, not result persistence: every run writes
// its own rows and nothing in the registry core ever reads them back.
package trace
