package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_BasicResolution(t *testing.T) {
	result := RunWithGolden(t, "testdata/scenarios/basic-resolution.yaml")
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithGolden_HookOrder(t *testing.T) {
	result := RunWithGolden(t, "testdata/scenarios/hook-order.yaml")
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	r := &Result{
		Name: "snap",
		Events: []TraceEvent{
			{Seq: 1, Type: "world_build", Scenario: "s", Detail: "empty"},
		},
	}

	a, err := MarshalSnapshot(r.Snapshot())
	require.NoError(t, err)
	b, err := MarshalSnapshot(r.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, byte('\n'), a[len(a)-1], "snapshots end with a newline")
}

func TestSnapshot_EmptyEvents(t *testing.T) {
	r := &Result{Name: "empty"}

	s := r.Snapshot()
	require.NotNil(t, s.Events, "empty traces serialize as [], not null")
	assert.Empty(t, s.Events)
}
