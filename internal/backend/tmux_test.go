package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildShellCommandQuotesArgs(t *testing.T) {
	cmd, err := buildShellCommand(SpawnSpec{Command: "claude", Args: []string{"--resume", "abc 123"}})
	assert.NoError(t, err)
	assert.Contains(t, cmd, "claude")
	assert.Contains(t, cmd, "'abc 123'")
}

func TestBuildShellCommandRejectsEmpty(t *testing.T) {
	_, err := buildShellCommand(SpawnSpec{})
	assert.Error(t, err)
}
