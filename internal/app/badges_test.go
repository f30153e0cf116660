package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thurbeen/thurbox/internal/types"
)

func TestActivityBadgeFormatsTerseSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	last := now.Add(-45 * time.Second)
	badge := ActivityBadge(types.SessionStatusRunning, last, now)
	assert.Equal(t, "Waiting 45s", badge)
}

func TestActivityBadgeIdleMinutes(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 10, 0, 0, time.UTC)
	last := now.Add(-2 * time.Minute)
	badge := ActivityBadge(types.SessionStatusIdle, last, now)
	assert.Equal(t, "Idle 2m", badge)
}

func TestActivityBadgeError(t *testing.T) {
	now := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)
	last := now.Add(-3 * time.Hour)
	badge := ActivityBadge(types.SessionStatusError, last, now)
	assert.Equal(t, "Error 3h", badge)
}
