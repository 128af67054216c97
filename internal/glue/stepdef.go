package glue

import (
	"context"
	"fmt"
	"regexp"
)

// StepFunc is the signature shared by direct step handlers and world
// capabilities. args holds the bound arguments produced by matching the step
// text against the definition's pattern.
type StepFunc func(ctx context.Context, w *World, args []StepArg) error

// ErrPending is returned by handlers that exist but are not implemented yet.
// The engine decides whether pending fails the scenario or merely marks it.
var ErrPending = fmt.Errorf("step is pending")

// HandlerKind discriminates the two handler variants of a step definition.
type HandlerKind int

const (
	// DirectHandler invokes a registered function.
	DirectHandler HandlerKind = iota + 1

	// SymbolBoundHandler resolves a named capability on the current world
	// at invocation time.
	SymbolBoundHandler
)

// Handler is the tagged variant holding either a direct function or a symbol
// resolved against the world's capabilities when the step runs.
type Handler struct {
	Kind   HandlerKind
	Func   StepFunc // DirectHandler only
	Symbol string   // SymbolBoundHandler only
}

// Invoke dispatches the handler against the given world.
//
// Symbol-bound handlers look the symbol up in the world's capability table;
// a missing capability is a runtime error (the binding was registered against
// a world that never gained the capability).
func (h Handler) Invoke(ctx context.Context, w *World, args []StepArg) error {
	switch h.Kind {
	case DirectHandler:
		return h.Func(ctx, w, args)
	case SymbolBoundHandler:
		fn, ok := w.Capability(h.Symbol)
		if !ok {
			return fmt.Errorf("world has no capability %q for symbol-bound step", h.Symbol)
		}
		return fn(ctx, w, args)
	default:
		return fmt.Errorf("invalid handler kind %d", h.Kind)
	}
}

// String renders the handler for diagnostics.
func (h Handler) String() string {
	if h.Kind == SymbolBoundHandler {
		return fmt.Sprintf("symbol(%s)", h.Symbol)
	}
	return "func"
}

// StepArg is one bound argument of a matched step.
type StepArg struct {
	// Raw is the text captured from the step.
	Raw string

	// Value is the coerced value. Equal to Raw when no parameter type was
	// associated with the capture group.
	Value any

	// Type is the parameter type name that produced Value, or "" for the
	// raw-string fallback.
	Type string
}

// Slot describes one capture position of a compiled pattern: which parameter
// type coerces it (nil = raw string), the index of its wrapping group in the
// compiled regexp, and how many inner groups the parameter type contributes.
type Slot struct {
	Param *ParameterType
	Group int
	Inner int
}

// StepDefinition is a pattern-to-handler mapping owned by the step
// definition registry. Definitions are created at registration time and
// persist for the process lifetime of the run; the compiled matcher is
// derived once from the parameter types visible at registration.
type StepDefinition struct {
	// ID uniquely identifies the definition (UUIDv7 in production).
	ID string

	// Source is the pattern as written by the user, e.g.
	// "I have {int} cukes" or "/^I see (\d+) errors$/".
	Source string

	// IsRegexp reports whether Source was a slash-delimited raw regexp
	// rather than an expression.
	IsRegexp bool

	// Regexp is the fully-anchored compiled matcher.
	Regexp *regexp.Regexp

	// Slots maps capture positions to parameter types, in order.
	Slots []Slot

	// Handler is invoked when the definition matches.
	Handler Handler
}

// Match evaluates the definition's matcher against a step text. It returns
// the bound arguments and true when the text matches fully; transform
// failures surface as errors so the engine can report a broken coercion
// rather than a silent mismatch.
func (d *StepDefinition) Match(text string) ([]StepArg, bool, error) {
	sub := d.Regexp.FindStringSubmatch(text)
	if sub == nil {
		return nil, false, nil
	}

	args := make([]StepArg, 0, len(d.Slots))
	for _, slot := range d.Slots {
		raw := sub[slot.Group]
		arg := StepArg{Raw: raw, Value: raw}
		if slot.Param != nil {
			captures := []string{raw}
			if slot.Inner > 0 {
				captures = sub[slot.Group+1 : slot.Group+1+slot.Inner]
			}
			value, err := slot.Param.Transform(captures)
			if err != nil {
				return nil, false, fmt.Errorf("parameter type %q: transform of %q failed: %w", slot.Param.Name, raw, err)
			}
			arg.Value = value
			arg.Type = slot.Param.Name
		}
		args = append(args, arg)
	}
	return args, true, nil
}
