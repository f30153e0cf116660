package backend

import (
	"fmt"
	"regexp"

	"github.com/blang/semver"
)

// minTmuxVersion is the oldest tmux release Thurbox's control-mode client
// is tested against; earlier versions have known pane-id instability
// across window layout changes.
var minTmuxVersion = semver.MustParse("3.2.0")

var tmuxVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)([a-z]?)`)

// parseTmuxVersion extracts a semver from `tmux -V`'s output, e.g.
// "tmux 3.3a" -> 3.3.0. tmux's patch letter (the trailing "a" in "3.3a")
// is dropped since it isn't a meaningful patch ordering for semver
// comparison purposes — Thurbox only needs a minor-version floor.
func parseTmuxVersion(output string) (semver.Version, error) {
	m := tmuxVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return semver.Version{}, fmt.Errorf("no version found in %q", output)
	}
	return semver.Parse(fmt.Sprintf("%s.%s.0", m[1], m[2]))
}

// MinTmuxVersion reports whether ver meets Thurbox's minimum tmux
// requirement, repurposing the teacher's blang/semver dependency (used
// there for its own editor version, here for the multiplexer binary's).
func MinTmuxVersion(ver semver.Version) bool {
	return ver.GTE(minTmuxVersion)
}
