package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thurbeen/thurbox/internal/store"
	"github.com/thurbeen/thurbox/internal/types"
)

func TestIsDatabaseFileMatchesMainAndWal(t *testing.T) {
	assert.True(t, isDatabaseFile("/data/thurbox.db"))
	assert.True(t, isDatabaseFile("/data/thurbox.db-wal"))
	assert.True(t, isDatabaseFile("/data/thurbox.db-shm"))
	assert.False(t, isDatabaseFile("/data/config.toml"))
}

func TestSelfWriteSuppressWindowExpires(t *testing.T) {
	p := &Poller{}
	p.NotifySelfWrite()
	assert.True(t, p.withinSelfWriteWindow())
	p.lastSelfWrite = time.Now().Add(-SelfWriteSuppressWindow - time.Millisecond)
	assert.False(t, p.withinSelfWriteWindow())
}

func TestPollerReconcileReportsChangeSet(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir)
	assert.NoError(t, err)
	defer st.Close()

	proj := types.Project{ID: types.NewProjectId(), Name: "demo"}
	assert.NoError(t, st.CreateProject(&proj))

	var got ChangeSet
	done := make(chan struct{}, 1)
	p := NewPoller(st, dir, nil, func(cs ChangeSet) {
		got = cs
		done <- struct{}{}
	}, nil)
	assert.NoError(t, p.Start())
	defer p.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial reconcile")
	}
	assert.Len(t, got.Projects, 1)
	assert.Equal(t, "demo", got.Projects[0].Name)
}
