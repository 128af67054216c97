package glue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_String(t *testing.T) {
	testCases := []struct {
		phase Phase
		want  string
	}{
		{Before, "before"},
		{After, "after"},
		{Around, "around"},
		{AfterStep, "after_step"},
		{AfterConfiguration, "after_configuration"},
		{Phase(99), "phase(99)"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.phase.String())
	}
}

func TestParsePhase_RoundTrip(t *testing.T) {
	for _, phase := range []Phase{Before, After, Around, AfterStep, AfterConfiguration} {
		parsed, err := ParsePhase(phase.String())
		require.NoError(t, err)
		assert.Equal(t, phase, parsed)
	}
}

func TestParsePhase_Unknown(t *testing.T) {
	_, err := ParsePhase("beforehand")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beforehand")
}

func TestHookApplies_NilTagsIsUnconditional(t *testing.T) {
	hook := &Hook{Name: "h", Phase: Before}

	assert.True(t, hook.Applies(nil))
	assert.True(t, hook.Applies([]string{"@smoke"}))
}

func TestHookApplies_TagEvaluator(t *testing.T) {
	hook := &Hook{
		Name:  "h",
		Phase: Before,
		Tags: func(tags []string) bool {
			for _, tag := range tags {
				if tag == "@smoke" {
					return true
				}
			}
			return false
		},
	}

	assert.True(t, hook.Applies([]string{"@smoke", "@slow"}))
	assert.False(t, hook.Applies([]string{"@slow"}))
	assert.False(t, hook.Applies(nil))
}

func TestHookApplies_AfterConfigurationIgnoresTags(t *testing.T) {
	hook := &Hook{
		Name:  "h",
		Phase: AfterConfiguration,
		Tags:  func(tags []string) bool { return false },
	}

	assert.True(t, hook.Applies([]string{"@whatever"}))
}

func TestGuardedContinuation_ExactlyOnce(t *testing.T) {
	calls := 0
	g := NewGuardedContinuation("wrapper", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, g.Call(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, g.Calls())
	assert.Nil(t, g.Violation())
}

func TestGuardedContinuation_NeverCalled(t *testing.T) {
	g := NewGuardedContinuation("skipper", func(ctx context.Context) error {
		return nil
	})

	v := g.Violation()
	require.NotNil(t, v)
	assert.Equal(t, "skipper", v.HookName)
	assert.Equal(t, 0, v.Calls)
	assert.Contains(t, v.Error(), "0 time(s)")
}

func TestGuardedContinuation_CalledTwice(t *testing.T) {
	calls := 0
	g := NewGuardedContinuation("doubler", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, g.Call(context.Background()))
	err := g.Call(context.Background())

	// The second call must not re-run the body.
	assert.Equal(t, 1, calls)
	require.Error(t, err)
	assert.True(t, IsHookContractViolation(err))

	v := g.Violation()
	require.NotNil(t, v)
	assert.Equal(t, 2, v.Calls)
}

func TestGuardedContinuation_ForwardsInnerError(t *testing.T) {
	innerErr := errors.New("body failed")
	g := NewGuardedContinuation("wrapper", func(ctx context.Context) error {
		return innerErr
	})

	err := g.Call(context.Background())
	assert.Equal(t, innerErr, err)
	assert.Nil(t, g.Violation())
}
