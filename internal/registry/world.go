package registry

import (
	"log/slog"
	"sort"

	"github.com/roach88/gluepot/internal/glue"
)

// WorldFactory accumulates world-construction modules and builds one fresh
// world per scenario.
//
// Module registration unions: repeated calls with overlapping module names
// are idempotent. At most one constructor may be registered process-wide;
// a second registration fails fast instead of silently overwriting.
type WorldFactory struct {
	logger *slog.Logger

	modules     []glue.Module
	moduleNames map[string]struct{}

	namespaced map[string]glue.Module
	nsOrder    []string

	ctor    func() any
	hasCtor bool
}

// NewWorldFactory creates an empty world factory.
func NewWorldFactory(logger *slog.Logger) *WorldFactory {
	return &WorldFactory{
		logger:      logger,
		moduleNames: make(map[string]struct{}),
		namespaced:  make(map[string]glue.Module),
	}
}

// AddModules unions modules into the factory's sets. Global modules with an
// already-registered name are skipped; a namespace already bound to a
// different module is a ConfigurationError.
func (f *WorldFactory) AddModules(modules []glue.Module, namespaced map[string]glue.Module) error {
	for _, m := range modules {
		if _, ok := f.moduleNames[m.Name]; ok {
			continue
		}
		f.moduleNames[m.Name] = struct{}{}
		f.modules = append(f.modules, m)
		f.logger.Debug("registered world module", "module", m.Name)
	}

	// Sorted key order keeps registration deterministic across runs.
	names := make([]string, 0, len(namespaced))
	for ns := range namespaced {
		names = append(names, ns)
	}
	sort.Strings(names)

	for _, ns := range names {
		m := namespaced[ns]
		if existing, ok := f.namespaced[ns]; ok {
			if existing.Name != m.Name {
				return glue.NewConfigurationError(glue.CodeNamespaceConflict,
					"namespace %q is bound to module %q, cannot rebind to %q", ns, existing.Name, m.Name)
			}
			continue
		}
		f.namespaced[ns] = m
		f.nsOrder = append(f.nsOrder, ns)
		f.logger.Debug("registered namespaced world module", "namespace", ns, "module", m.Name)
	}
	return nil
}

// SetConstructor registers the world constructor. Registering a second
// constructor is a fatal configuration error.
func (f *WorldFactory) SetConstructor(fn func() any) error {
	if fn == nil {
		return glue.NewConfigurationError(glue.CodeBadWorld, "world constructor is nil")
	}
	if f.hasCtor {
		return glue.NewConfigurationError(glue.CodeDuplicateConstructor,
			"a world constructor is already registered")
	}
	f.ctor = fn
	f.hasCtor = true
	f.logger.Debug("registered world constructor")
	return nil
}

// HasConstructor reports whether a constructor is registered.
func (f *WorldFactory) HasConstructor() bool {
	return f.hasCtor
}

// Build composes a fresh world: the constructor's base value (or nil),
// every global module attached flat in registration order, and every
// namespaced module under its accessor. Build never mutates the factory and
// may be called once per scenario for any number of scenarios.
func (f *WorldFactory) Build() *glue.World {
	var base any
	if f.hasCtor {
		base = f.ctor()
	}
	w := glue.NewWorld(base)
	for _, m := range f.modules {
		w.AttachModule(m)
	}
	for _, ns := range f.nsOrder {
		w.AttachNamespacedModule(ns, f.namespaced[ns])
	}
	return w
}
