package registry

import (
	"fmt"
	"log/slog"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/roach88/gluepot/internal/glue"
)

// HookRegistry stores lifecycle hooks per phase in registration order.
type HookRegistry struct {
	logger *slog.Logger
	hooks  map[glue.Phase][]*glue.Hook
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry(logger *slog.Logger) *HookRegistry {
	return &HookRegistry{logger: logger, hooks: make(map[glue.Phase][]*glue.Hook)}
}

// Register stores a hook for any phase except Around. tagExprs is a
// sequence of raw tag-expression strings ANDed together; an empty sequence
// means unconditional. Malformed expression syntax is a ConfigurationError.
//
// AfterConfiguration hooks may be registered with tag expressions, but tag
// filtering never applies to that phase.
func (r *HookRegistry) Register(phase glue.Phase, name string, tagExprs []string, fn glue.HookFunc) (*glue.Hook, error) {
	if phase == glue.Around {
		return nil, glue.NewConfigurationError(glue.CodeBadHook,
			"around hooks must be registered with an around handler")
	}
	if fn == nil {
		return nil, glue.NewConfigurationError(glue.CodeBadHook, "%s hook has no handler", phase)
	}
	evaluator, err := compileTagExpressions(tagExprs)
	if err != nil {
		return nil, err
	}
	hook := &glue.Hook{Name: name, Phase: phase, Tags: evaluator, Fn: fn}
	r.add(hook)
	return hook, nil
}

// RegisterAround stores an Around hook. The handler receives a continuation
// it must invoke exactly once; the engine detects violations through
// glue.GuardedContinuation.
func (r *HookRegistry) RegisterAround(name string, tagExprs []string, fn glue.AroundFunc) (*glue.Hook, error) {
	if fn == nil {
		return nil, glue.NewConfigurationError(glue.CodeBadHook, "around hook has no handler")
	}
	evaluator, err := compileTagExpressions(tagExprs)
	if err != nil {
		return nil, err
	}
	hook := &glue.Hook{Name: name, Phase: glue.Around, Tags: evaluator, AroundFn: fn}
	r.add(hook)
	return hook, nil
}

// add appends the hook, assigning a positional name when none was given.
func (r *HookRegistry) add(hook *glue.Hook) {
	if hook.Name == "" {
		hook.Name = fmt.Sprintf("%s-%d", hook.Phase, len(r.hooks[hook.Phase])+1)
	}
	r.hooks[hook.Phase] = append(r.hooks[hook.Phase], hook)
	r.logger.Debug("registered hook", "phase", hook.Phase.String(), "name", hook.Name)
}

// Applicable returns the hooks of a phase whose tag expressions evaluate
// true for the given tag set, preserving registration order.
// AfterConfiguration hooks are always applicable.
func (r *HookRegistry) Applicable(phase glue.Phase, tags []string) []*glue.Hook {
	var out []*glue.Hook
	for _, hook := range r.hooks[phase] {
		if hook.Applies(tags) {
			out = append(out, hook)
		}
	}
	return out
}

// All returns every hook of a phase in registration order, unfiltered.
func (r *HookRegistry) All(phase glue.Phase) []*glue.Hook {
	hooks := r.hooks[phase]
	out := make([]*glue.Hook, len(hooks))
	copy(out, hooks)
	return out
}

// compileTagExpressions parses each raw expression with the cucumber
// tag-expression grammar and ANDs the results. Individual expressions may
// encode or/not internally; the sequence as a whole is a conjunction.
func compileTagExpressions(exprs []string) (glue.TagEvaluator, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	compiled := make([]tagexpressions.Evaluatable, 0, len(exprs))
	for _, raw := range exprs {
		e, err := tagexpressions.Parse(raw)
		if err != nil {
			return nil, glue.WrapConfigurationError(glue.CodeBadTagExpression, err,
				"tag expression %q is invalid", raw)
		}
		compiled = append(compiled, e)
	}
	return func(tags []string) bool {
		for _, e := range compiled {
			if !e.Evaluate(tags) {
				return false
			}
		}
		return true
	}, nil
}
