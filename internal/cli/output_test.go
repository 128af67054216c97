package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	plain := NewExitError(ExitFailure, "scenarios failed")
	assert.Equal(t, "scenarios failed", plain.Error())

	cause := errors.New("disk on fire")
	wrapped := WrapExitError(ExitCommandError, "failed to open trace database", cause)
	assert.Equal(t, "failed to open trace database: disk on fire", wrapped.Error())
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "x"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"passed": 3}))
	assert.Equal(t, "{\n  \"passed\": 3\n}\n", buf.String())
}
