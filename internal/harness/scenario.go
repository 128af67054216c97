package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance scenario file: glue declarations, scenarios
// to run against them, and assertions over the resulting trace.
type Scenario struct {
	// Name uniquely identifies the scenario file; golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description,omitempty"`

	// Glue declares what gets registered before the run.
	Glue GlueDecl `yaml:"glue"`

	// Run lists the scenarios played against the sealed registry.
	Run []RunScenario `yaml:"run,omitempty"`

	// ExpectError, when set, asserts that building the registry fails
	// with a configuration error containing this substring. No scenarios
	// run in that case.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the recorded trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// GlueDecl declares registrations for a scenario file.
type GlueDecl struct {
	ParameterTypes []ParameterTypeDecl `yaml:"parameter_types,omitempty"`

	// Transforms exercises the deprecated Transform path: each entry is a
	// bare pattern registered as an implicit parameter type.
	Transforms []string `yaml:"transforms,omitempty"`

	Steps []StepDecl `yaml:"steps,omitempty"`
	Hooks []HookDecl `yaml:"hooks,omitempty"`
	World *WorldDecl `yaml:"world,omitempty"`
}

// ParameterTypeDecl declares one parameter type.
type ParameterTypeDecl struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// Type tags the coerced value: int, float, word, string, any.
	// Coercion follows the tag (any keeps the raw string).
	Type string `yaml:"type,omitempty"`

	UseForSnippets       bool `yaml:"use_for_snippets,omitempty"`
	PreferForRegexpMatch bool `yaml:"prefer_for_regexp_match,omitempty"`
}

// StepDecl declares one step definition with a canned behavior.
type StepDecl struct {
	// Pattern is an expression or a slash-delimited raw regexp.
	Pattern string `yaml:"pattern"`

	// Behavior is record (default), fail, or pending.
	Behavior string `yaml:"behavior,omitempty"`

	// Message is the failure text for behavior: fail.
	Message string `yaml:"message,omitempty"`

	// On binds the step to a world capability symbol instead of a direct
	// handler. Mutually exclusive with Behavior.
	On string `yaml:"on,omitempty"`

	// NoHandler deliberately registers neither a handler nor a symbol,
	// to exercise the configuration error.
	NoHandler bool `yaml:"no_handler,omitempty"`
}

// HookDecl declares one hook.
type HookDecl struct {
	// Phase is before, after, around, after_step, or after_configuration.
	Phase string `yaml:"phase"`

	// Name identifies the hook in traces; auto-assigned when empty.
	Name string `yaml:"name,omitempty"`

	// Tags is a sequence of tag expressions ANDed together.
	Tags []string `yaml:"tags,omitempty"`

	// Behavior for non-around hooks: record (default) or fail.
	// For around hooks: wrap (default), skip, or double. skip never
	// invokes the continuation, double invokes it twice; both are
	// contract violations the harness must detect.
	Behavior string `yaml:"behavior,omitempty"`

	// Message is the failure text for behavior: fail.
	Message string `yaml:"message,omitempty"`
}

// WorldDecl declares world modules and the constructor mode.
type WorldDecl struct {
	Modules    []ModuleDecl          `yaml:"modules,omitempty"`
	Namespaced map[string]ModuleDecl `yaml:"namespaced,omitempty"`

	// Constructor is none (default), default, or duplicate. "default"
	// registers a constructor returning a marker base object; "duplicate"
	// registers it twice to exercise the configuration error.
	Constructor string `yaml:"constructor,omitempty"`
}

// ModuleDecl declares a capability bundle. Every capability is a canned
// recording function.
type ModuleDecl struct {
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities,omitempty"`
}

// RunScenario is one scenario played against the sealed registry.
type RunScenario struct {
	Name  string   `yaml:"name"`
	Tags  []string `yaml:"tags,omitempty"`
	Steps []string `yaml:"steps,omitempty"`
}

// Assertion validates the recorded trace.
type Assertion struct {
	// Type is resolution, hook_order, violation, or event_count.
	Type string `yaml:"type"`

	// resolution: the step text, expected outcome
	// (unique|ambiguous|undefined), and optionally the expected rendered
	// args ("int:42", "raw:blue").
	Step    string   `yaml:"step,omitempty"`
	Outcome string   `yaml:"outcome,omitempty"`
	Args    []string `yaml:"args,omitempty"`

	// hook_order: the phase and the expected hook names in firing order.
	Phase string   `yaml:"phase,omitempty"`
	Hooks []string `yaml:"hooks,omitempty"`

	// violation: the around hook expected to violate its contract.
	Hook string `yaml:"hook,omitempty"`

	// event_count: the event type and how many times it must appear.
	Event string `yaml:"event,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// LoadScenario reads, schema-validates, and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data, path)
}

// ParseScenario validates raw YAML against the embedded CUE schema and
// decodes it.
func ParseScenario(data []byte, path string) (*Scenario, error) {
	if err := validateScenarioYAML(data); err != nil {
		return nil, fmt.Errorf("scenario %s failed schema validation: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	return &s, nil
}
