package registry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/gluepot/internal/glue"
)

// Shadowing records a parameter type replaced by a later registration with
// the same name. Shadowing is allowed but surfaced, never silently lost.
type Shadowing struct {
	Name     string
	Replaced *glue.ParameterType
}

// ParameterTypeRegistry stores named parameter types in insertion order.
//
// Re-registering a name replaces the previous entry in place (so snippet
// priority is stable) and records a Shadowing the engine can report.
type ParameterTypeRegistry struct {
	ordered  []*glue.ParameterType
	byName   map[string]*glue.ParameterType
	shadowed []Shadowing
}

// NewParameterTypeRegistry creates a registry pre-populated with the builtin
// types: int, float, word, string, and the anonymous type.
func NewParameterTypeRegistry() *ParameterTypeRegistry {
	r := &ParameterTypeRegistry{byName: make(map[string]*glue.ParameterType)}
	for _, p := range builtinParameterTypes() {
		r.insert(p)
	}
	return r
}

// Define inserts or replaces a parameter type by name. The name must be
// non-empty and the pattern and transform must both be present.
func (r *ParameterTypeRegistry) Define(p *glue.ParameterType) error {
	if p == nil {
		return glue.NewConfigurationError(glue.CodeBadParameterType, "parameter type is nil")
	}
	if p.Name == "" {
		return glue.NewConfigurationError(glue.CodeBadParameterType, "parameter type name is empty")
	}
	if strings.ContainsAny(p.Name, "{}()\\/ ") {
		return glue.NewConfigurationError(glue.CodeBadParameterType,
			"parameter type name %q contains expression syntax characters", p.Name)
	}
	if p.Regexp == nil {
		return glue.NewConfigurationError(glue.CodeBadParameterType,
			"parameter type %q has no pattern", p.Name)
	}
	if p.Transform == nil {
		return glue.NewConfigurationError(glue.CodeBadParameterType,
			"parameter type %q has no transform", p.Name)
	}
	r.insert(p)
	return nil
}

// defineImplicit inserts a pattern-named type coming from the legacy
// Transform path. Pattern-derived names routinely contain regexp syntax, so
// the name check is skipped; such types are unusable as {placeholders} and
// exist only for regexp capture coercion.
func (r *ParameterTypeRegistry) defineImplicit(p *glue.ParameterType) error {
	if p.Regexp == nil {
		return glue.NewConfigurationError(glue.CodeBadParameterType,
			"parameter type %q has no pattern", p.Name)
	}
	if p.Transform == nil {
		return glue.NewConfigurationError(glue.CodeBadParameterType,
			"parameter type %q has no transform", p.Name)
	}
	r.insert(p)
	return nil
}

// insert performs the actual in-place replace or append.
func (r *ParameterTypeRegistry) insert(p *glue.ParameterType) {
	if existing, ok := r.byName[p.Name]; ok {
		r.shadowed = append(r.shadowed, Shadowing{Name: p.Name, Replaced: existing})
		for i, e := range r.ordered {
			if e == existing {
				r.ordered[i] = p
				break
			}
		}
	} else {
		r.ordered = append(r.ordered, p)
	}
	r.byName[p.Name] = p
}

// Lookup returns the parameter type registered under name.
func (r *ParameterTypeRegistry) Lookup(name string) (*glue.ParameterType, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// All returns every parameter type in insertion order. The slice is a copy;
// the entries are shared immutable values.
func (r *ParameterTypeRegistry) All() []*glue.ParameterType {
	out := make([]*glue.ParameterType, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Shadowed returns every replacement that occurred, in the order the
// replacements happened.
func (r *ParameterTypeRegistry) Shadowed() []Shadowing {
	out := make([]Shadowing, len(r.shadowed))
	copy(out, r.shadowed)
	return out
}

// builtinParameterTypes returns the standard types every registry starts
// with. Patterns follow the cucumber-expressions builtins, simplified to
// group-free forms so each placeholder binds exactly one capture.
func builtinParameterTypes() []*glue.ParameterType {
	return []*glue.ParameterType{
		{
			Name:           "int",
			Regexp:         regexp.MustCompile(`-?\d+`),
			ValueType:      glue.ValueInt,
			Transform:      transformInt,
			UseForSnippets: true,
		},
		{
			Name:           "float",
			Regexp:         regexp.MustCompile(`-?\d*\.\d+`),
			ValueType:      glue.ValueFloat,
			Transform:      transformFloat,
			UseForSnippets: true,
		},
		{
			Name:           "string",
			Regexp:         regexp.MustCompile(`"[^"]*"|'[^']*'`),
			ValueType:      glue.ValueString,
			Transform:      transformQuoted,
			UseForSnippets: true,
		},
		{
			Name:      "word",
			Regexp:    regexp.MustCompile(`[^\s]+`),
			ValueType: glue.ValueWord,
			Transform: transformIdentity,
		},
		{
			// The anonymous type backs the {} placeholder.
			Name:      "",
			Regexp:    regexp.MustCompile(`.*`),
			ValueType: glue.ValueAny,
			Transform: transformIdentity,
		},
	}
}

func transformInt(captures []string) (any, error) {
	return strconv.Atoi(captures[0])
}

func transformFloat(captures []string) (any, error) {
	return strconv.ParseFloat(captures[0], 64)
}

// transformQuoted strips the surrounding single or double quotes.
func transformQuoted(captures []string) (any, error) {
	s := captures[0]
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return s, nil
}

func transformIdentity(captures []string) (any, error) {
	return captures[0], nil
}
