package harness

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/roach88/gluepot/internal/glue"
	"github.com/roach88/gluepot/internal/registry"
)

// buildRegistry constructs a GlueRegistry from a scenario's glue
// declarations. Configuration errors propagate to the caller, which decides
// whether the scenario expected them.
func (h *Harness) buildRegistry(decl GlueDecl) (*registry.GlueRegistry, error) {
	reg := registry.New(registry.WithLogger(h.logger), registry.WithIDGenerator(h.ids))

	if err := defineParameterTypes(reg, decl.ParameterTypes); err != nil {
		return nil, err
	}

	for _, pattern := range decl.Transforms {
		if err := reg.Transform(pattern, transformFor("any")); err != nil {
			return nil, err
		}
	}

	for _, step := range decl.Steps {
		handler, opts, err := stepHandler(step)
		if err != nil {
			return nil, err
		}
		if _, err := reg.DefineStep(step.Pattern, handler, opts); err != nil {
			return nil, err
		}
	}

	for _, hook := range decl.Hooks {
		if err := registerHook(reg, hook); err != nil {
			return nil, err
		}
	}

	if decl.World != nil {
		if err := registerWorld(reg, *decl.World); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// defineParameterTypes registers the declared parameter types in declaration
// order.
func defineParameterTypes(reg *registry.GlueRegistry, decls []ParameterTypeDecl) error {
	for _, pt := range decls {
		re, err := regexp.Compile(pt.Pattern)
		if err != nil {
			return glue.WrapConfigurationError(glue.CodeBadParameterType, err,
				"parameter type %q has an invalid pattern", pt.Name)
		}
		if err := reg.DefineParameterType(&glue.ParameterType{
			Name:                 pt.Name,
			Regexp:               re,
			ValueType:            glue.ValueType(valueTypeOrDefault(pt.Type)),
			Transform:            transformFor(pt.Type),
			UseForSnippets:       pt.UseForSnippets,
			PreferForRegexpMatch: pt.PreferForRegexpMatch,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ParameterTypesFor returns the parameter types a glue declaration registers,
// builtins included and in registration order. Snippet generation uses this
// without replaying the scenario.
func ParameterTypesFor(decl GlueDecl) ([]*glue.ParameterType, error) {
	reg := registry.New()
	if err := defineParameterTypes(reg, decl.ParameterTypes); err != nil {
		return nil, err
	}
	return reg.ParameterTypes().All(), nil
}

// valueTypeOrDefault fills the "any" default for untyped declarations.
func valueTypeOrDefault(t string) string {
	if t == "" {
		return "any"
	}
	return t
}

// transformFor maps a declared value type tag to a coercion.
func transformFor(valueType string) glue.Transform {
	switch valueType {
	case "int":
		return func(captures []string) (any, error) {
			return strconv.Atoi(captures[0])
		}
	case "float":
		return func(captures []string) (any, error) {
			return strconv.ParseFloat(captures[0], 64)
		}
	default:
		return func(captures []string) (any, error) {
			return captures[0], nil
		}
	}
}

// stepHandler builds the canned handler for a step declaration.
func stepHandler(decl StepDecl) (glue.StepFunc, registry.StepOptions, error) {
	if decl.NoHandler {
		return nil, registry.StepOptions{}, nil
	}
	if decl.On != "" {
		if decl.Behavior != "" {
			return nil, registry.StepOptions{}, fmt.Errorf(
				"step %q declares both a behavior and a symbol binding", decl.Pattern)
		}
		return nil, registry.StepOptions{On: decl.On}, nil
	}

	switch decl.Behavior {
	case "", "record":
		return func(ctx context.Context, w *glue.World, args []glue.StepArg) error {
			appendWorldLog(w, "step "+renderArgs(args))
			return nil
		}, registry.StepOptions{}, nil
	case "fail":
		message := decl.Message
		if message == "" {
			message = "step failed"
		}
		return func(ctx context.Context, w *glue.World, args []glue.StepArg) error {
			return errors.New(message)
		}, registry.StepOptions{}, nil
	case "pending":
		return func(ctx context.Context, w *glue.World, args []glue.StepArg) error {
			return glue.ErrPending
		}, registry.StepOptions{}, nil
	default:
		return nil, registry.StepOptions{}, fmt.Errorf("unknown step behavior %q", decl.Behavior)
	}
}

// registerHook builds and registers the canned handler for a hook
// declaration.
func registerHook(reg *registry.GlueRegistry, decl HookDecl) error {
	phase, err := glue.ParsePhase(decl.Phase)
	if err != nil {
		return err
	}

	if phase == glue.Around {
		var fn glue.AroundFunc
		switch decl.Behavior {
		case "", "wrap":
			fn = func(ctx context.Context, w *glue.World, next glue.Continuation) error {
				return next(ctx)
			}
		case "skip":
			// Never invokes the continuation: a contract violation.
			fn = func(ctx context.Context, w *glue.World, next glue.Continuation) error {
				return nil
			}
		case "double":
			// Invokes the continuation twice: a contract violation.
			fn = func(ctx context.Context, w *glue.World, next glue.Continuation) error {
				if err := next(ctx); err != nil {
					return err
				}
				return next(ctx)
			}
		default:
			return fmt.Errorf("unknown around hook behavior %q", decl.Behavior)
		}
		_, err := reg.DefineAroundHook(decl.Name, decl.Tags, fn)
		return err
	}

	var fn glue.HookFunc
	switch decl.Behavior {
	case "", "record":
		fn = func(ctx context.Context, w *glue.World) error {
			return nil
		}
	case "fail":
		message := decl.Message
		if message == "" {
			message = "hook failed"
		}
		fn = func(ctx context.Context, w *glue.World) error {
			return errors.New(message)
		}
	default:
		return fmt.Errorf("unknown hook behavior %q for phase %s", decl.Behavior, phase)
	}
	_, err = reg.DefineHook(phase, decl.Name, decl.Tags, fn)
	return err
}

// registerWorld registers modules and the constructor mode.
func registerWorld(reg *registry.GlueRegistry, decl WorldDecl) error {
	modules := make([]glue.Module, 0, len(decl.Modules))
	for _, m := range decl.Modules {
		modules = append(modules, buildModule(m))
	}
	namespaced := make(map[string]glue.Module, len(decl.Namespaced))
	for ns, m := range decl.Namespaced {
		namespaced[ns] = buildModule(m)
	}

	var ctor func() any
	if decl.Constructor == "default" || decl.Constructor == "duplicate" {
		ctor = func() any {
			return map[string]any{"constructed": true}
		}
	}

	if err := reg.DefineWorld(modules, namespaced, ctor); err != nil {
		return err
	}
	if decl.Constructor == "duplicate" {
		// Second registration must fail fast.
		return reg.DefineWorld(nil, nil, ctor)
	}
	return nil
}

// buildModule turns a module declaration into a bundle of recording
// capabilities.
func buildModule(decl ModuleDecl) glue.Module {
	caps := make(map[string]glue.StepFunc, len(decl.Capabilities))
	for _, name := range decl.Capabilities {
		caps[name] = recordingCapability(name)
	}
	return glue.Module{Name: decl.Name, Capabilities: caps}
}

// recordingCapability logs its invocation on the world, which keeps world
// isolation observable across scenarios.
func recordingCapability(name string) glue.StepFunc {
	return func(ctx context.Context, w *glue.World, args []glue.StepArg) error {
		appendWorldLog(w, "capability "+name+" "+renderArgs(args))
		return nil
	}
}

// appendWorldLog accumulates an invocation log in scenario-scoped state.
func appendWorldLog(w *glue.World, entry string) {
	var log []string
	if v, ok := w.Get("log"); ok {
		log, _ = v.([]string)
	}
	w.Set("log", append(log, entry))
}
