package app

import (
	"math"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/thurbeen/thurbox/internal/types"
)

// ActivityBadge renders a session's elapsed-time/idle label per §4.8
// ("Waiting 45s", "Idle 2m"), using go-humanize's relative-time formatter
// the way the teacher carries the dependency without much exercising it.
func ActivityBadge(status types.SessionStatus, lastActivity, now time.Time) string {
	elapsed := humanize.CustomRelTime(lastActivity, now, "", "", activityMagnitudes)
	switch status {
	case types.SessionStatusRunning, types.SessionStatusStarting:
		return "Waiting " + elapsed
	case types.SessionStatusIdle:
		return "Idle " + elapsed
	case types.SessionStatusError:
		return "Error " + elapsed
	default:
		return elapsed
	}
}

// activityMagnitudes renders a duration-since as a bare "45s"/"2m"/"3h"
// rather than humanize's default "45 seconds ago" prose, since the badge
// sits next to a session name and has no room for a sentence.
var activityMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "%ds", DivBy: time.Second},
	{D: time.Hour, Format: "%dm", DivBy: time.Minute},
	{D: humanize.Day, Format: "%dh", DivBy: time.Hour},
	{D: humanize.Week, Format: "%dd", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%dw", DivBy: humanize.Week},
	{D: humanize.Year, Format: "%dmo", DivBy: humanize.Month},
	{D: time.Duration(math.MaxInt64), Format: "%dy", DivBy: humanize.Year},
}
