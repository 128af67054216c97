// Package registry holds the glue stores and their composition root.
//
// Four stores index user declarations: parameter types, step definitions,
// hooks, and the world factory. GlueRegistry aggregates them behind the
// registration API used by declarative support code and the query API used
// by the execution engine.
//
// Registration is single-threaded and happens strictly before execution.
// Seal() ends the configuration phase: writes after seal fail with a
// ConfigurationError, and all query methods are lock-free reads safe for
// concurrent scenario workers.
//
// There is deliberately no package-level default registry; callers construct
// a GlueRegistry and pass it to whatever loads user declarations and to the
// engine, keeping "one registry per test run" explicit.
package registry
