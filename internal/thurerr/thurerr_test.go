package thurerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := BackendUnavailable("tmux not running", cause)

	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "backend_unavailable")
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("session missing")
	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, Forbidden("")))
}

func TestChildExitedNonZeroCarriesExitCode(t *testing.T) {
	err := ChildExitedNonZero(7)
	assert.Equal(t, 7, err.ExitCode)
	assert.Equal(t, KindChildExitedNonZero, err.Kind)
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := ValidationFailed("name", "must not be empty")
	assert.Equal(t, "name", err.Field)
}
