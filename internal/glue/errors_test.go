package glue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError_Format(t *testing.T) {
	err := NewConfigurationError(CodeBadExpression, "expression %q is broken", "I have {int")
	assert.Equal(t, `BAD_EXPRESSION: expression "I have {int" is broken`, err.Error())
}

func TestConfigurationError_WrapsCause(t *testing.T) {
	cause := errors.New("unexpected token")
	err := WrapConfigurationError(CodeBadTagExpression, cause, "tag expression %q is invalid", "@a and")

	assert.Contains(t, err.Error(), "BAD_TAG_EXPRESSION")
	assert.Contains(t, err.Error(), "unexpected token")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsConfigurationError(t *testing.T) {
	direct := NewConfigurationError(CodeBadHook, "no handler")
	wrapped := fmt.Errorf("registering glue: %w", direct)

	assert.True(t, IsConfigurationError(direct))
	assert.True(t, IsConfigurationError(wrapped))
	assert.False(t, IsConfigurationError(errors.New("plain")))
	assert.False(t, IsConfigurationError(nil))
}

func TestAmbiguousStepError_ListsCandidates(t *testing.T) {
	err := &AmbiguousStepError{
		Text: "I have 42 cukes",
		Candidates: []*StepDefinition{
			{Source: "I have {int} cukes"},
			{Source: `/^I have (\d+) cukes$/`},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "2 definitions")
	assert.Contains(t, msg, "I have {int} cukes")
	assert.Contains(t, msg, `/^I have (\d+) cukes$/`)
}

func TestUndefinedStepError(t *testing.T) {
	err := &UndefinedStepError{Text: "I vanish"}
	assert.Equal(t, `undefined step "I vanish"`, err.Error())
}

func TestIsHookContractViolation(t *testing.T) {
	v := &HookContractViolation{HookName: "timer", Calls: 2}
	wrapped := fmt.Errorf("scenario aborted: %w", v)

	assert.True(t, IsHookContractViolation(v))
	assert.True(t, IsHookContractViolation(wrapped))
	assert.False(t, IsHookContractViolation(errors.New("plain")))
	assert.Contains(t, v.Error(), "timer")
	assert.Contains(t, v.Error(), "2 time(s)")
}

func TestMatchResult_Err(t *testing.T) {
	undefined := MatchResult{Kind: NoMatch, Text: "I vanish"}
	var undefErr *UndefinedStepError
	require.ErrorAs(t, undefined.Err(), &undefErr)
	assert.Equal(t, "I vanish", undefErr.Text)

	ambiguous := MatchResult{
		Kind:       AmbiguousMatch,
		Text:       "I clash",
		Candidates: []*StepDefinition{{Source: "a"}, {Source: "b"}},
	}
	var ambErr *AmbiguousStepError
	require.ErrorAs(t, ambiguous.Err(), &ambErr)
	assert.Len(t, ambErr.Candidates, 2)

	unique := MatchResult{Kind: UniqueMatch, Text: "I exist"}
	assert.NoError(t, unique.Err())
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "undefined", NoMatch.String())
	assert.Equal(t, "unique", UniqueMatch.String())
	assert.Equal(t, "ambiguous", AmbiguousMatch.String())
}
