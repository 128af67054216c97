// Package glue defines the data model shared by the registration API and the
// execution engine: parameter types, step definitions, hooks, worlds, match
// results, and the error taxonomy.
//
// Types in this package are plain values with no registration logic. The
// stores that index them live in internal/registry; pattern compilation lives
// in internal/expression.
//
// Everything here is process-lifetime, in-memory state. Registrations happen
// single-threaded during a configuration phase; once the owning registry is
// sealed, values in this package are never mutated and are safe to read from
// concurrent scenario workers.
package glue
