package worktree

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thurbeen/thurbox/internal/types"
)

// cloneWithUpstream builds a bare remote, a clone tracking it, and a
// second clone one commit ahead, so AheadBehind has something to report.
func cloneWithUpstream(t *testing.T) (localClone string) {
	t.Helper()
	root := t.TempDir()
	bare := filepath.Join(root, "bare.git")

	run := func(dir string, args ...string) string {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		assert.NoError(t, err, string(out))
		return string(out)
	}

	run(root, "init", "--bare", "-b", "main", bare)

	seed := filepath.Join(root, "seed")
	run(root, "clone", bare, seed)
	run(seed, "config", "user.email", "test@example.com")
	run(seed, "config", "user.name", "test")
	run(seed, "commit", "--allow-empty", "-m", "initial")
	run(seed, "push", "origin", "main")

	clone := filepath.Join(root, "clone")
	run(root, "clone", bare, clone)
	run(clone, "config", "user.email", "test@example.com")
	run(clone, "config", "user.name", "test")

	run(seed, "commit", "--allow-empty", "-m", "second")
	run(seed, "push", "origin", "main")

	return clone
}

func TestAheadBehindReportsBehind(t *testing.T) {
	clone := cloneWithUpstream(t)
	ahead, behind, err := AheadBehind(context.Background(), clone)
	assert.NoError(t, err)
	assert.Equal(t, 0, ahead)
	assert.Equal(t, 1, behind)
}

func TestFetcherTrackAndUntrack(t *testing.T) {
	f := NewFetcher(nil, nil)
	id := types.NewSessionId()
	f.Track(id, &types.Worktree{SessionID: id, Path: "/tmp/x"}, "origin/main")
	assert.Len(t, f.sessions, 1)
	f.Untrack(id)
	assert.Len(t, f.sessions, 0)
}

func TestFetcherTickReportsStatus(t *testing.T) {
	clone := cloneWithUpstream(t)
	id := types.NewSessionId()

	var mu sync.Mutex
	var statuses []types.SyncStatus
	done := make(chan struct{}, 4)

	f := NewFetcher(nil, func(sessionID types.SessionId, status types.SyncStatus) {
		mu.Lock()
		statuses = append(statuses, status)
		mu.Unlock()
		done <- struct{}{}
	})
	f.Track(id, &types.Worktree{SessionID: id, Path: clone}, "origin/main")

	f.tick(context.Background())

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for fetcher status callback")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	var sawBehind bool
	for _, s := range statuses {
		if s.State == types.SyncStateBehind {
			sawBehind = true
		}
	}
	assert.True(t, sawBehind, "expected a Behind status among %+v", statuses)
}

func TestSyncFastForwardsWithoutInjectingPrompt(t *testing.T) {
	clone := cloneWithUpstream(t)
	run := func(dir string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		assert.NoError(t, err, string(out))
	}
	run(clone, "config", "user.email", "test@example.com")
	run(clone, "config", "user.name", "test")

	var written []byte
	var mu sync.Mutex
	f := NewFetcher(func(sessionID types.SessionId, data []byte) error {
		mu.Lock()
		written = data
		mu.Unlock()
		return nil
	}, nil)

	id := types.NewSessionId()
	wt := &types.Worktree{SessionID: id, Path: clone}

	err := f.Sync(context.Background(), id, wt, "origin/main")
	assert.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Nil(t, written, "a clean fast-forward must not inject the conflict-resolution prompt")
}
