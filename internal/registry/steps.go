package registry

import (
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gluepot/internal/expression"
	"github.com/roach88/gluepot/internal/glue"
)

// StepOptions carries optional step registration settings.
type StepOptions struct {
	// On binds the step to a world capability symbol resolved at
	// invocation time, instead of a direct handler function. Exactly one
	// of On and the handler argument must be set.
	On string
}

// StepDefinitionRegistry stores step definitions and resolves step texts
// against them.
//
// Matchers are compiled against the parameter types registered at the time
// of Register; redefining a parameter type afterwards never recompiles
// existing definitions.
type StepDefinitionRegistry struct {
	types  *ParameterTypeRegistry
	ids    IDGenerator
	logger *slog.Logger
	defs   []*glue.StepDefinition
}

// NewStepDefinitionRegistry creates an empty step definition registry
// compiling against the given parameter types.
func NewStepDefinitionRegistry(types *ParameterTypeRegistry, ids IDGenerator, logger *slog.Logger) *StepDefinitionRegistry {
	return &StepDefinitionRegistry{types: types, ids: ids, logger: logger}
}

// Register compiles a pattern and stores the resulting definition.
//
// source is either an expression ("I have {int} cukes") or a slash-delimited
// raw regexp ("/^I see (\d+) errors$/"). Exactly one of handler and opts.On
// must be set; anything else is a ConfigurationError.
func (r *StepDefinitionRegistry) Register(source string, handler glue.StepFunc, opts StepOptions) (*glue.StepDefinition, error) {
	if handler != nil && opts.On != "" {
		return nil, glue.NewConfigurationError(glue.CodeBadStepDefinition,
			"step %q: handler and symbol binding %q are both set", source, opts.On)
	}
	if handler == nil && opts.On == "" {
		return nil, glue.NewConfigurationError(glue.CodeBadStepDefinition,
			"step %q: neither handler nor symbol binding is set", source)
	}

	source = norm.NFC.String(source)

	var (
		compiled *expression.Compiled
		err      error
		isRegexp = expression.IsRegexp(source)
	)
	if isRegexp {
		compiled, err = expression.CompileRegexp(expression.TrimRegexp(source), r.types.All())
	} else {
		compiled, err = expression.Compile(source, r.types.Lookup)
	}
	if err != nil {
		return nil, err
	}

	h := glue.Handler{Kind: glue.DirectHandler, Func: handler}
	if opts.On != "" {
		h = glue.Handler{Kind: glue.SymbolBoundHandler, Symbol: opts.On}
	}

	def := &glue.StepDefinition{
		ID:       r.ids.NewID(),
		Source:   source,
		IsRegexp: isRegexp,
		Regexp:   compiled.Regexp,
		Slots:    compiled.Slots,
		Handler:  h,
	}
	r.defs = append(r.defs, def)
	r.logger.Debug("registered step definition", "id", def.ID, "source", def.Source, "handler", h.String())
	return def, nil
}

// Resolve evaluates every registered matcher against a step text and
// returns the outcome as data: NoMatch, UniqueMatch with bound arguments,
// or AmbiguousMatch with every candidate in registration order.
//
// A definition whose transform fails on the captured text is treated as a
// non-match and logged; a broken coercion must not mask other candidates.
func (r *StepDefinitionRegistry) Resolve(text string) glue.MatchResult {
	text = norm.NFC.String(text)

	type match struct {
		def  *glue.StepDefinition
		args []glue.StepArg
	}
	var matches []match
	for _, def := range r.defs {
		args, ok, err := def.Match(text)
		if err != nil {
			r.logger.Warn("step matcher fired but coercion failed", "source", def.Source, "text", text, "error", err)
			continue
		}
		if ok {
			matches = append(matches, match{def: def, args: args})
		}
	}

	switch len(matches) {
	case 0:
		return glue.MatchResult{Kind: glue.NoMatch, Text: text}
	case 1:
		return glue.MatchResult{
			Kind:       glue.UniqueMatch,
			Text:       text,
			Definition: matches[0].def,
			Args:       matches[0].args,
		}
	default:
		candidates := make([]*glue.StepDefinition, len(matches))
		for i, m := range matches {
			candidates[i] = m.def
		}
		return glue.MatchResult{Kind: glue.AmbiguousMatch, Text: text, Candidates: candidates}
	}
}

// All returns every definition in registration order.
func (r *StepDefinitionRegistry) All() []*glue.StepDefinition {
	out := make([]*glue.StepDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}
