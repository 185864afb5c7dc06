package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"planassist/internal/gemini"
	"planassist/internal/planner"
)

func TestIsSchedulingErrorParseError(t *testing.T) {
	err := fmt.Errorf("scheduling failed: %w", &gemini.ParseError{
		Op:  "replan",
		Raw: "not json",
		Err: errors.New("invalid character"),
	})
	assert.True(t, isSchedulingError(err))
}

func TestIsSchedulingErrorValidation(t *testing.T) {
	err := fmt.Errorf("%w: project name is empty", planner.ErrValidation)
	assert.True(t, isSchedulingError(err))
}

func TestIsSchedulingErrorPlainError(t *testing.T) {
	assert.False(t, isSchedulingError(errors.New("connection refused")))
}

// The parse failure body keeps the component tag so callers can tell a
// model failure apart from a storage one.
func TestParseErrorMessageCarriesComponentTag(t *testing.T) {
	err := &gemini.ParseError{
		Op:  "replan",
		Raw: "sorry, I cannot help with that",
		Err: errors.New("invalid character 's'"),
	}
	assert.Contains(t, err.Error(), "gemini replan")
	assert.NotContains(t, err.Error(), err.Raw)
}
