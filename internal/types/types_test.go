package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllowsDenyWinsOverAllow(t *testing.T) {
	r := Role{AllowedTools: []string{"Bash"}, DisallowedTools: []string{"Bash"}}
	assert.False(t, r.Allows("Bash"))
	assert.True(t, r.Denies("Bash"))
}

func TestRoleAllowsEmptyAllowlistMeansEverythingNotDenied(t *testing.T) {
	r := Role{DisallowedTools: []string{"Bash(rm:*)"}}
	assert.True(t, r.Allows("Read"))
	assert.False(t, r.Allows("Bash(rm:*)"))
}

func TestRoleAllowsScopedPattern(t *testing.T) {
	r := Role{AllowedTools: []string{"Bash(git:*)"}}
	assert.True(t, r.Allows("Bash(git:*)"))
	assert.False(t, r.Allows("Bash(rm:*)"))
}

func TestDefaultProjectUsesCwd(t *testing.T) {
	p := DefaultProject("/tmp/work")
	assert.Equal(t, "Default", p.Name)
	assert.Equal(t, []string{"/tmp/work"}, p.Repos)
}

func TestNewIdsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSessionId(), NewSessionId())
	assert.NotEqual(t, NewProjectId(), NewProjectId())
	assert.NotEqual(t, NewRoleId(), NewRoleId())
}
