package glue

import (
	"regexp"
)

// ValueType is the semantic tag describing what a parameter type's transform
// produces. It is informational (snippet generation, diagnostics); coercion
// itself is performed by the Transform.
type ValueType string

const (
	ValueInt    ValueType = "int"
	ValueFloat  ValueType = "float"
	ValueString ValueType = "string"
	ValueWord   ValueType = "word"
	ValueAny    ValueType = "any"
)

// Transform converts the strings captured by a parameter type's pattern into
// a typed value. captures holds the pattern's own capture groups, or the
// whole match when the pattern has no groups of its own.
type Transform func(captures []string) (any, error)

// ParameterType is a named (pattern, coercion) pair used to compile step-text
// placeholders into typed arguments.
//
// A ParameterType is immutable once registered. Identity is the name;
// re-registering a name replaces the previous entry, and the replacement is
// recorded by the registry so shadowing is surfaced rather than silently
// lost.
type ParameterType struct {
	// Name is the placeholder name, e.g. "int" for {int}. The anonymous
	// parameter type has an empty name and matches {}.
	Name string

	// Regexp is the compiled pattern a placeholder expands to.
	Regexp *regexp.Regexp

	// ValueType tags what Transform produces.
	ValueType ValueType

	// Transform coerces captured strings into the bound argument value.
	Transform Transform

	// UseForSnippets marks the type as a candidate when generating
	// expressions for undefined steps.
	UseForSnippets bool

	// PreferForRegexpMatch marks the type as a coercion candidate when a
	// raw-regexp step definition has a capture group whose source equals
	// this type's pattern.
	PreferForRegexpMatch bool
}

// NumCaptures reports how many capture groups the type's own pattern
// contributes. Zero means the whole match is handed to Transform.
func (p *ParameterType) NumCaptures() int {
	if p.Regexp == nil {
		return 0
	}
	return p.Regexp.NumSubexp()
}
