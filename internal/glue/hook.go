package glue

import (
	"context"
	"fmt"
)

// Phase identifies a lifecycle phase a hook attaches to.
type Phase int

const (
	// Before hooks run before each applicable scenario.
	Before Phase = iota + 1

	// After hooks run after each applicable scenario.
	After

	// Around hooks wrap the scenario body and must invoke their
	// continuation exactly once.
	Around

	// AfterStep hooks run after each step of an applicable scenario.
	AfterStep

	// AfterConfiguration hooks run once, globally, after the configuration
	// phase ends. Tag filtering does not apply.
	AfterConfiguration
)

var phaseNames = map[Phase]string{
	Before:             "before",
	After:              "after",
	Around:             "around",
	AfterStep:          "after_step",
	AfterConfiguration: "after_configuration",
}

// String returns the snake_case phase name used in scenario files and traces.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ParsePhase converts a snake_case phase name into a Phase.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown hook phase %q", name)
}

// TagEvaluator decides whether a hook applies to a scenario's tag set.
type TagEvaluator func(tags []string) bool

// HookFunc is the handler signature for every phase except Around.
// w is nil for AfterConfiguration hooks (no scenario context exists).
type HookFunc func(ctx context.Context, w *World) error

// Continuation represents "run the wrapped scenario". The engine supplies
// it; an around handler must call it exactly once and forward its result.
type Continuation func(ctx context.Context) error

// AroundFunc is the handler signature for Around hooks.
type AroundFunc func(ctx context.Context, w *World, next Continuation) error

// Hook is a registered lifecycle handler, optionally filtered by tags.
// Hooks for the same phase fire in registration order.
type Hook struct {
	// Name identifies the hook in traces and violation reports. Optional;
	// the registry assigns a positional name when empty.
	Name string

	// Phase is the lifecycle phase this hook attaches to.
	Phase Phase

	// Tags evaluates the hook's ANDed tag expressions against a scenario's
	// tag set. nil means unconditional. Ignored for AfterConfiguration.
	Tags TagEvaluator

	// Fn is the handler for all phases except Around.
	Fn HookFunc

	// AroundFn is the handler for Around hooks.
	AroundFn AroundFunc
}

// Applies reports whether the hook fires for the given tag set.
// AfterConfiguration hooks always apply.
func (h *Hook) Applies(tags []string) bool {
	if h.Phase == AfterConfiguration || h.Tags == nil {
		return true
	}
	return h.Tags(tags)
}

// GuardedContinuation wraps an engine-supplied continuation and enforces the
// exactly-once contract for around hooks. The engine hands g.Call to the
// handler and checks g.Violation() after the handler returns.
type GuardedContinuation struct {
	hookName string
	inner    Continuation
	calls    int
}

// NewGuardedContinuation wraps inner for the named around hook.
func NewGuardedContinuation(hookName string, inner Continuation) *GuardedContinuation {
	return &GuardedContinuation{hookName: hookName, inner: inner}
}

// Call invokes the wrapped continuation. The first call forwards to the
// engine's continuation; further calls are contract violations and return
// the violation without re-running the scenario body.
func (g *GuardedContinuation) Call(ctx context.Context) error {
	g.calls++
	if g.calls > 1 {
		return &HookContractViolation{HookName: g.hookName, Calls: g.calls}
	}
	return g.inner(ctx)
}

// Calls reports how many times the handler invoked the continuation.
func (g *GuardedContinuation) Calls() int {
	return g.calls
}

// Violation returns the contract violation after the handler has returned,
// or nil when the continuation was invoked exactly once.
func (g *GuardedContinuation) Violation() *HookContractViolation {
	if g.calls == 1 {
		return nil
	}
	return &HookContractViolation{HookName: g.hookName, Calls: g.calls}
}
