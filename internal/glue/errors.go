package glue

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigCode categorizes configuration errors.
type ConfigCode string

const (
	// CodeBadParameterType indicates an invalid parameter type definition
	// (empty name where one is required, missing pattern or transform).
	CodeBadParameterType ConfigCode = "BAD_PARAMETER_TYPE"

	// CodeBadExpression indicates a step pattern that failed to compile
	// (undefined placeholder, malformed syntax, invalid regexp).
	CodeBadExpression ConfigCode = "BAD_EXPRESSION"

	// CodeBadStepDefinition indicates an invalid handler configuration:
	// direct handler and symbol binding both present, or both absent.
	CodeBadStepDefinition ConfigCode = "BAD_STEP_DEFINITION"

	// CodeBadTagExpression indicates malformed tag-expression syntax.
	CodeBadTagExpression ConfigCode = "BAD_TAG_EXPRESSION"

	// CodeBadHook indicates an invalid hook registration (unknown phase,
	// missing handler).
	CodeBadHook ConfigCode = "BAD_HOOK"

	// CodeBadWorld indicates an invalid world registration (nil
	// constructor, module without a name).
	CodeBadWorld ConfigCode = "BAD_WORLD"

	// CodeDuplicateConstructor indicates a second world constructor was
	// registered. At most one constructor may exist process-wide.
	CodeDuplicateConstructor ConfigCode = "DUPLICATE_CONSTRUCTOR"

	// CodeNamespaceConflict indicates the same namespace was bound to two
	// different module bundles.
	CodeNamespaceConflict ConfigCode = "NAMESPACE_CONFLICT"

	// CodeRegistrySealed indicates a registration attempted after the
	// configuration phase ended.
	CodeRegistrySealed ConfigCode = "REGISTRY_SEALED"
)

// ConfigurationError is raised synchronously during registration for
// malformed input. Registration-time errors are fatal to startup: no scenario
// should run against a known-broken configuration.
type ConfigurationError struct {
	Code    ConfigCode
	Message string
	Err     error // optional underlying cause
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(code ConfigCode, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError creates a ConfigurationError around an underlying
// cause (e.g. the tag-expression parser's own error).
func WrapConfigurationError(code ConfigCode, err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsConfigurationError reports whether err is (or wraps) a
// ConfigurationError. Uses errors.As to handle wrapped errors.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// AmbiguousStepError is returned when more than one step definition matches
// a step text. Ambiguity is a configuration defect, not a runtime tie-break;
// the full candidate list is carried so the engine can report all of them.
type AmbiguousStepError struct {
	Text       string
	Candidates []*StepDefinition // registration order
}

// Error implements the error interface, listing every candidate pattern.
func (e *AmbiguousStepError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "ambiguous step %q matches %d definitions:", e.Text, len(e.Candidates))
	for _, d := range e.Candidates {
		fmt.Fprintf(&buf, "\n  %s", d.Source)
	}
	return buf.String()
}

// UndefinedStepError signals that no step definition matched. The engine
// decides whether this fails the scenario or marks it pending.
type UndefinedStepError struct {
	Text string
}

// Error implements the error interface.
func (e *UndefinedStepError) Error() string {
	return fmt.Sprintf("undefined step %q", e.Text)
}

// HookContractViolation reports an around hook that invoked its continuation
// zero or more than one times. This is a programming defect in user code and
// must be reported, never retried or silently ignored.
type HookContractViolation struct {
	HookName string
	Calls    int
}

// Error implements the error interface.
func (e *HookContractViolation) Error() string {
	return fmt.Sprintf("around hook %q invoked its continuation %d time(s), want exactly 1", e.HookName, e.Calls)
}

// IsHookContractViolation reports whether err is (or wraps) a
// HookContractViolation.
func IsHookContractViolation(err error) bool {
	var hv *HookContractViolation
	return errors.As(err, &hv)
}
