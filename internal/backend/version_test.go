package backend

import (
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
)

func TestParseTmuxVersionPlain(t *testing.T) {
	v, err := parseTmuxVersion("tmux 3.3a\n")
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), v.Major)
	assert.Equal(t, uint64(3), v.Minor)
}

func TestParseTmuxVersionNoMatch(t *testing.T) {
	_, err := parseTmuxVersion("garbage")
	assert.Error(t, err)
}

func TestMinTmuxVersionRejectsOld(t *testing.T) {
	assert.False(t, MinTmuxVersion(semver.MustParse("2.9.0")))
}

func TestMinTmuxVersionAcceptsCurrent(t *testing.T) {
	assert.True(t, MinTmuxVersion(semver.MustParse("3.2.0")))
	assert.True(t, MinTmuxVersion(semver.MustParse("3.4.0")))
}
