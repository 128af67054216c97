package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Type: "world_build", Scenario: "s", Detail: "empty"},
		{Seq: 2, Type: "hook", Scenario: "s", Phase: "before", Hook: "first", Outcome: "passed"},
		{Seq: 3, Type: "hook", Scenario: "s", Phase: "before", Hook: "second", Outcome: "passed"},
		{Seq: 4, Type: "resolution", Scenario: "s", Step: "I have 42 cukes", Outcome: "unique", Detail: "int:42"},
		{Seq: 5, Type: "step_result", Scenario: "s", Step: "I have 42 cukes", Outcome: "passed"},
		{Seq: 6, Type: "violation", Scenario: "s", Hook: "wrapper", Detail: "invoked 0 time(s)"},
		{Seq: 7, Type: "hook", Scenario: "s", Phase: "after", Hook: "cleanup", Outcome: "passed"},
	}
}

func TestEvalAssertion_UnknownType(t *testing.T) {
	err := evalAssertion(Assertion{Type: "telepathy"}, sampleTrace())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestAssertResolution(t *testing.T) {
	events := sampleTrace()

	testCases := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			"outcome matches",
			Assertion{Type: "resolution", Step: "I have 42 cukes", Outcome: "unique"},
			"",
		},
		{
			"outcome and args match",
			Assertion{Type: "resolution", Step: "I have 42 cukes", Outcome: "unique", Args: []string{"int:42"}},
			"",
		},
		{
			"wrong outcome",
			Assertion{Type: "resolution", Step: "I have 42 cukes", Outcome: "undefined"},
			"resolves undefined",
		},
		{
			"wrong args",
			Assertion{Type: "resolution", Step: "I have 42 cukes", Outcome: "unique", Args: []string{"int:41"}},
			"binds [int:41]",
		},
		{
			"no such step",
			Assertion{Type: "resolution", Step: "I vanish", Outcome: "undefined"},
			"no such event",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := evalAssertion(tc.assertion, events)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ae *AssertionError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "resolution", ae.Type)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestAssertHookOrder(t *testing.T) {
	events := sampleTrace()

	err := evalAssertion(Assertion{
		Type: "hook_order", Phase: "before", Hooks: []string{"first", "second"},
	}, events)
	assert.NoError(t, err)

	err = evalAssertion(Assertion{
		Type: "hook_order", Phase: "before", Hooks: []string{"second", "first"},
	}, events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fired as [first second]")

	// Order is exact, not a subset check.
	err = evalAssertion(Assertion{
		Type: "hook_order", Phase: "before", Hooks: []string{"first"},
	}, events)
	require.Error(t, err)
}

func TestAssertViolation(t *testing.T) {
	events := sampleTrace()

	assert.NoError(t, evalAssertion(Assertion{Type: "violation", Hook: "wrapper"}, events))

	err := evalAssertion(Assertion{Type: "violation", Hook: "innocent"}, events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "innocent")
}

func TestAssertEventCount(t *testing.T) {
	events := sampleTrace()

	assert.NoError(t, evalAssertion(Assertion{Type: "event_count", Event: "hook", Count: 3}, events))
	assert.NoError(t, evalAssertion(Assertion{Type: "event_count", Event: "step_result", Count: 1}, events))

	err := evalAssertion(Assertion{Type: "event_count", Event: "hook", Count: 5}, events)
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "event_count", ae.Type)
	assert.Equal(t, "3", ae.Actual)
}
