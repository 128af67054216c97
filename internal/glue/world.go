package glue

import "sort"

// Module is a named bundle of capabilities attached to every world built
// after registration. Modules registered globally attach their capabilities
// flat; namespaced modules attach under a namespace accessor.
type Module struct {
	Name         string
	Capabilities map[string]StepFunc
}

// Namespace exposes a namespaced module's capabilities on a built world.
type Namespace struct {
	Name   string
	Module string
	caps   map[string]StepFunc
}

// Capability looks up a capability within the namespace.
func (n *Namespace) Capability(name string) (StepFunc, bool) {
	fn, ok := n.caps[name]
	return fn, ok
}

// World is the per-scenario context object step and hook handlers execute
// against. One world exists per scenario; it is built at scenario start,
// discarded at scenario end, and never shared across scenarios.
type World struct {
	// Value is the base object returned by the registered constructor, or
	// nil when no constructor exists.
	Value any

	caps       map[string]StepFunc
	namespaces map[string]*Namespace
	state      map[string]any
}

// NewWorld creates a world around the constructor's base value. The factory
// attaches modules before handing the world to the engine.
func NewWorld(base any) *World {
	return &World{
		Value:      base,
		caps:       make(map[string]StepFunc),
		namespaces: make(map[string]*Namespace),
		state:      make(map[string]any),
	}
}

// AttachModule adds a global module's capabilities to the world. Later
// modules win on capability name collisions, matching attachment order.
func (w *World) AttachModule(m Module) {
	for name, fn := range m.Capabilities {
		w.caps[name] = fn
	}
}

// AttachNamespacedModule adds a module's capabilities under a namespace
// accessor.
func (w *World) AttachNamespacedModule(namespace string, m Module) {
	ns := &Namespace{Name: namespace, Module: m.Name, caps: make(map[string]StepFunc, len(m.Capabilities))}
	for name, fn := range m.Capabilities {
		ns.caps[name] = fn
	}
	w.namespaces[namespace] = ns
}

// Capability looks up a flat (global) capability by symbol.
func (w *World) Capability(name string) (StepFunc, bool) {
	fn, ok := w.caps[name]
	return fn, ok
}

// Namespace returns the accessor for a namespaced module.
func (w *World) Namespace(name string) (*Namespace, bool) {
	ns, ok := w.namespaces[name]
	return ns, ok
}

// Capabilities returns the sorted names of all flat capabilities. Used for
// diagnostics and conformance assertions.
func (w *World) Capabilities() []string {
	names := make([]string, 0, len(w.caps))
	for name := range w.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Namespaces returns the sorted names of all attached namespaces.
func (w *World) Namespaces() []string {
	names := make([]string, 0, len(w.namespaces))
	for name := range w.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set stores scenario-scoped state on the world.
func (w *World) Set(key string, value any) {
	w.state[key] = value
}

// Get reads scenario-scoped state from the world.
func (w *World) Get(key string) (any, bool) {
	v, ok := w.state[key]
	return v, ok
}
