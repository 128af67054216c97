package registry

import (
	"log/slog"
	"regexp"
	"sync/atomic"

	"github.com/roach88/gluepot/internal/glue"
)

// GlueRegistry aggregates the four glue stores behind the registration API
// consumed by declarative user code and the query API consumed by the
// execution engine.
//
// Thread-safety model:
//   - registration methods: single-threaded, configuration phase only
//   - Seal(): called once when configuration ends
//   - query methods (ResolveStep, ApplicableHooks, BuildWorld): lock-free
//     reads, safe from concurrent scenario workers after Seal()
type GlueRegistry struct {
	logger *slog.Logger
	ids    IDGenerator

	params *ParameterTypeRegistry
	steps  *StepDefinitionRegistry
	hooks  *HookRegistry
	worlds *WorldFactory

	sealed atomic.Bool

	// transformWarned tracks deprecation warnings already emitted for the
	// legacy Transform path, one per pattern.
	transformWarned map[string]struct{}
}

// Option configures a GlueRegistry.
type Option func(*GlueRegistry)

// WithLogger sets the registry's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *GlueRegistry) {
		r.logger = logger
	}
}

// WithIDGenerator sets the step definition id generator. Defaults to
// UUIDv7; tests substitute a fixed generator for deterministic output.
func WithIDGenerator(ids IDGenerator) Option {
	return func(r *GlueRegistry) {
		r.ids = ids
	}
}

// New creates an empty GlueRegistry with builtin parameter types installed.
func New(opts ...Option) *GlueRegistry {
	r := &GlueRegistry{
		logger:          slog.Default(),
		ids:             NewUUIDv7Generator(),
		transformWarned: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.params = NewParameterTypeRegistry()
	r.steps = NewStepDefinitionRegistry(r.params, r.ids, r.logger)
	r.hooks = NewHookRegistry(r.logger)
	r.worlds = NewWorldFactory(r.logger)
	return r
}

// writable rejects registrations after the configuration phase ended.
func (r *GlueRegistry) writable(kind string) error {
	if r.sealed.Load() {
		return glue.NewConfigurationError(glue.CodeRegistrySealed,
			"registry is sealed; cannot register %s", kind)
	}
	return nil
}

// DefineParameterType registers a parameter type for use in step
// expressions. Redefining a name replaces the previous type and records a
// shadowing (see ShadowedParameterTypes). Existing step definitions are not
// recompiled.
func (r *GlueRegistry) DefineParameterType(p *glue.ParameterType) error {
	if err := r.writable("parameter type"); err != nil {
		return err
	}
	return r.params.Define(p)
}

// Transform registers a parameter type implicitly from a bare pattern, with
// UseForSnippets disabled and PreferForRegexpMatch enabled. The implicit
// type is named after its pattern.
//
// Deprecated: use DefineParameterType. Transform is legacy sugar kept for
// existing support code; it emits a deprecation warning once per pattern and
// delegates.
func (r *GlueRegistry) Transform(pattern string, transform glue.Transform) error {
	if err := r.writable("transform"); err != nil {
		return err
	}
	if _, warned := r.transformWarned[pattern]; !warned {
		r.transformWarned[pattern] = struct{}{}
		r.logger.Warn("Transform is deprecated; define a parameter type instead", "pattern", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return glue.WrapConfigurationError(glue.CodeBadParameterType, err,
			"transform pattern %q is invalid", pattern)
	}
	return r.params.defineImplicit(&glue.ParameterType{
		Name:                 pattern,
		Regexp:               re,
		ValueType:            glue.ValueAny,
		Transform:            transform,
		UseForSnippets:       false,
		PreferForRegexpMatch: true,
	})
}

// DefineStep registers a step definition. Exactly one of handler and
// opts.On must be set.
func (r *GlueRegistry) DefineStep(source string, handler glue.StepFunc, opts StepOptions) (*glue.StepDefinition, error) {
	if err := r.writable("step definition"); err != nil {
		return nil, err
	}
	return r.steps.Register(source, handler, opts)
}

// DefineHook registers a hook for any phase except Around. tagExprs are
// ANDed; an empty sequence is unconditional.
func (r *GlueRegistry) DefineHook(phase glue.Phase, name string, tagExprs []string, fn glue.HookFunc) (*glue.Hook, error) {
	if err := r.writable("hook"); err != nil {
		return nil, err
	}
	return r.hooks.Register(phase, name, tagExprs, fn)
}

// DefineAroundHook registers an Around hook whose handler must invoke its
// continuation exactly once.
func (r *GlueRegistry) DefineAroundHook(name string, tagExprs []string, fn glue.AroundFunc) (*glue.Hook, error) {
	if err := r.writable("around hook"); err != nil {
		return nil, err
	}
	return r.hooks.RegisterAround(name, tagExprs, fn)
}

// DefineWorld unions world modules and, when ctor is non-nil, registers the
// world constructor.
func (r *GlueRegistry) DefineWorld(modules []glue.Module, namespaced map[string]glue.Module, ctor func() any) error {
	if err := r.writable("world factory"); err != nil {
		return err
	}
	if err := r.worlds.AddModules(modules, namespaced); err != nil {
		return err
	}
	if ctor != nil {
		return r.worlds.SetConstructor(ctor)
	}
	return nil
}

// Seal ends the configuration phase. All registration methods fail after
// Seal; query methods become safe for concurrent workers.
func (r *GlueRegistry) Seal() {
	if r.sealed.Swap(true) {
		return
	}
	r.logger.Info("glue registry sealed",
		"parameter_types", len(r.params.All()),
		"step_definitions", len(r.steps.All()),
	)
}

// Sealed reports whether the configuration phase has ended.
func (r *GlueRegistry) Sealed() bool {
	return r.sealed.Load()
}

// ResolveStep resolves a step text to zero, one, or many definitions. tags
// is the current scenario's tag set; it is reserved for tag-scoped step
// definitions and does not affect matching today.
func (r *GlueRegistry) ResolveStep(text string, tags []string) glue.MatchResult {
	_ = tags
	return r.steps.Resolve(text)
}

// ApplicableHooks returns the hooks of a phase applicable to a tag set, in
// registration order.
func (r *GlueRegistry) ApplicableHooks(phase glue.Phase, tags []string) []*glue.Hook {
	return r.hooks.Applicable(phase, tags)
}

// BuildWorld builds one fresh world. The engine calls this exactly once per
// scenario.
func (r *GlueRegistry) BuildWorld() *glue.World {
	return r.worlds.Build()
}

// ParameterTypes exposes the parameter type store for snippet generation
// and diagnostics.
func (r *GlueRegistry) ParameterTypes() *ParameterTypeRegistry {
	return r.params
}

// StepDefinitions returns every registered definition in registration order.
func (r *GlueRegistry) StepDefinitions() []*glue.StepDefinition {
	return r.steps.All()
}

// Hooks exposes the hook store for diagnostics.
func (r *GlueRegistry) Hooks() *HookRegistry {
	return r.hooks
}

// WorldFactory exposes the world factory for diagnostics.
func (r *GlueRegistry) WorldFactory() *WorldFactory {
	return r.worlds
}
