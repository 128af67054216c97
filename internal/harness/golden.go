package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the canonical serialization of a run's trace, compared
// byte-for-byte against golden files.
type Snapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Events       []TraceEvent `json:"events"`
}

// Snapshot builds the canonical snapshot of a result.
func (r *Result) Snapshot() Snapshot {
	events := r.Events
	if events == nil {
		events = []TraceEvent{}
	}
	return Snapshot{ScenarioName: r.Name, Events: events}
}

// MarshalSnapshot serializes a snapshot deterministically: two-space
// indented JSON with a trailing newline.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario file and compares its trace against the
// golden file testdata/golden/{name}.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, path string) *Result {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}

	result, err := New().Run(context.Background(), s)
	if err != nil {
		t.Fatalf("failed to run scenario %s: %v", s.Name, err)
	}

	data, err := MarshalSnapshot(result.Snapshot())
	if err != nil {
		t.Fatalf("failed to marshal snapshot for %s: %v", s.Name, err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, s.Name, data)
	return result
}
