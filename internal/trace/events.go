package trace

// EventType categorizes trace events.
type EventType string

const (
	// EventResolution records a step text resolved against the registry.
	EventResolution EventType = "resolution"

	// EventStepResult records the outcome of invoking a matched handler.
	EventStepResult EventType = "step_result"

	// EventHook records a hook firing.
	EventHook EventType = "hook"

	// EventWorldBuild records a world being built for a scenario.
	EventWorldBuild EventType = "world_build"

	// EventViolation records an around-hook continuation contract
	// violation.
	EventViolation EventType = "violation"
)

// Run is one recorded conformance run.
type Run struct {
	ID        string
	Scenario  string
	CreatedAt string
}

// Event is one entry of a run's ordered event log.
type Event struct {
	RunID    string
	Seq      int64
	Type     EventType
	Phase    string // hook phase, "" for non-hook events
	Hook     string // hook name, "" for non-hook events
	StepText string // step text, "" for non-step events
	Outcome  string // unique | ambiguous | undefined | passed | failed | pending | ...
	Detail   string // free-form context (coerced args, error text)
}
