package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/gluepot/internal/trace"
)

// AssertionError is returned when a trace assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s\n  expected: %s\n  actual: %s", e.Type, e.Expected, e.Actual)
}

// evalAssertion checks one assertion against the recorded trace.
func evalAssertion(a Assertion, events []TraceEvent) error {
	switch a.Type {
	case "resolution":
		return assertResolution(a, events)
	case "hook_order":
		return assertHookOrder(a, events)
	case "violation":
		return assertViolation(a, events)
	case "event_count":
		return assertEventCount(a, events)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertResolution checks the outcome (and optionally the rendered bound
// arguments) of the first resolution event for a step text.
func assertResolution(a Assertion, events []TraceEvent) error {
	for _, e := range events {
		if e.Type != string(trace.EventResolution) || e.Step != a.Step {
			continue
		}
		if e.Outcome != a.Outcome {
			return &AssertionError{
				Type:     "resolution",
				Expected: fmt.Sprintf("step %q resolves %s", a.Step, a.Outcome),
				Actual:   fmt.Sprintf("resolved %s (%s)", e.Outcome, e.Detail),
			}
		}
		if a.Args != nil {
			want := strings.Join(a.Args, ", ")
			if e.Detail != want {
				return &AssertionError{
					Type:     "resolution",
					Expected: fmt.Sprintf("step %q binds [%s]", a.Step, want),
					Actual:   fmt.Sprintf("bound [%s]", e.Detail),
				}
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     "resolution",
		Expected: fmt.Sprintf("a resolution event for step %q", a.Step),
		Actual:   "no such event in trace",
	}
}

// assertHookOrder checks that the hooks of a phase fired exactly in the
// given order across the whole trace.
func assertHookOrder(a Assertion, events []TraceEvent) error {
	var fired []string
	for _, e := range events {
		if e.Type == string(trace.EventHook) && e.Phase == a.Phase {
			fired = append(fired, e.Hook)
		}
	}
	if strings.Join(fired, ",") != strings.Join(a.Hooks, ",") {
		return &AssertionError{
			Type:     "hook_order",
			Expected: fmt.Sprintf("%s hooks fire as [%s]", a.Phase, strings.Join(a.Hooks, " ")),
			Actual:   fmt.Sprintf("fired as [%s]", strings.Join(fired, " ")),
		}
	}
	return nil
}

// assertViolation checks that an around hook was reported for violating the
// continuation contract.
func assertViolation(a Assertion, events []TraceEvent) error {
	for _, e := range events {
		if e.Type == string(trace.EventViolation) && e.Hook == a.Hook {
			return nil
		}
	}
	return &AssertionError{
		Type:     "violation",
		Expected: fmt.Sprintf("a contract violation for around hook %q", a.Hook),
		Actual:   "no such event in trace",
	}
}

// assertEventCount checks how many times an event type appears.
func assertEventCount(a Assertion, events []TraceEvent) error {
	count := 0
	for _, e := range events {
		if e.Type == a.Event {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     "event_count",
			Expected: fmt.Sprintf("%d %s event(s)", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}
