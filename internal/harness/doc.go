// Package harness runs glue conformance scenarios.
//
// A scenario file declares glue (parameter types, step definitions with
// canned behaviors, hooks, world modules) and a run section of scenarios
// with tags and step texts. The harness builds a GlueRegistry from the
// declarations, seals it, and then acts as a reference execution engine:
// it fires applicable hooks, builds one world per scenario, resolves each
// step, invokes matched handlers, and records everything as an ordered
// trace.
//
// Assertions validate the trace (resolution outcomes and coerced arguments,
// hook firing order, contract violations); golden-file comparison validates
// the full trace byte-for-byte. Scenario files are YAML, validated against
// an embedded CUE schema before decoding.
package harness
