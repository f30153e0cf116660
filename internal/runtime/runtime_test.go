package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/types"
)

type fakeBackend struct {
	mu      sync.Mutex
	panes   map[types.BackendId]chan []byte
	dead    map[types.BackendId]bool
	written map[types.BackendId][]byte
	nextID  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		panes:   make(map[types.BackendId]chan []byte),
		dead:    make(map[types.BackendId]bool),
		written: make(map[types.BackendId][]byte),
	}
}

func (f *fakeBackend) CheckAvailable(ctx context.Context) error { return nil }
func (f *fakeBackend) EnsureReady(ctx context.Context) error    { return nil }

func (f *fakeBackend) Spawn(ctx context.Context, spec backend.SpawnSpec) (types.BackendId, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := types.BackendId("pane-fake")
	f.panes[id] = make(chan []byte, 8)
	return id, nil
}

func (f *fakeBackend) Adopt(ctx context.Context, id types.BackendId) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.panes[id]; !ok {
		f.panes[id] = make(chan []byte, 8)
	}
	return []byte("hello"), nil
}

func (f *fakeBackend) Discover(ctx context.Context) ([]backend.PaneInfo, error) { return nil, nil }

func (f *fakeBackend) Resize(ctx context.Context, id types.BackendId, cols, rows int) error {
	return nil
}

func (f *fakeBackend) IsDead(ctx context.Context, id types.BackendId) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dead[id], nil
}

func (f *fakeBackend) Detach(ctx context.Context, id types.BackendId) error { return nil }

func (f *fakeBackend) Kill(ctx context.Context, id types.BackendId) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.panes[id]; ok {
		close(ch)
		delete(f.panes, id)
	}
	return nil
}

func (f *fakeBackend) Write(ctx context.Context, id types.BackendId, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[id] = append(f.written[id], data...)
	return nil
}

func (f *fakeBackend) Output(id types.BackendId) <-chan []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.panes[id]
	if !ok {
		ch = make(chan []byte, 8)
		f.panes[id] = ch
	}
	return ch
}

func (f *fakeBackend) feed(id types.BackendId, data []byte) {
	f.mu.Lock()
	ch := f.panes[id]
	f.mu.Unlock()
	ch <- data
}

func TestSpawnAndWrite(t *testing.T) {
	fb := newFakeBackend()
	outputCh := make(chan types.SessionId, 8)
	m := NewManager(fb, func(id types.SessionId) { outputCh <- id }, nil)

	sid := types.NewSessionId()
	h, err := m.Spawn(context.Background(), backend.SpawnSpec{SessionID: sid, Command: "claude", Cols: 80, Rows: 24})
	assert.NoError(t, err)
	assert.Equal(t, StatusLive, h.Status())

	fb.feed(h.BackendID, []byte("hi there"))
	select {
	case got := <-outputCh:
		assert.Equal(t, sid, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for output callback")
	}

	assert.NoError(t, m.Write(context.Background(), sid, []byte("ls\n")))
	assert.Equal(t, []byte("ls\n"), fb.written[h.BackendID])
}

func TestAdoptFeedsSnapshot(t *testing.T) {
	fb := newFakeBackend()
	m := NewManager(fb, nil, nil)
	sid := types.NewSessionId()
	h, err := m.Adopt(context.Background(), sid, types.BackendId("pane-1"), 80, 24, "claude-abc")
	assert.NoError(t, err)
	assert.Equal(t, StatusLive, h.Status())
	assert.Equal(t, "claude-abc", h.ClaudeSessionID())
	assert.True(t, h.Screen.HasOutput())
}

func TestKillRemovesHandle(t *testing.T) {
	fb := newFakeBackend()
	m := NewManager(fb, nil, nil)
	sid := types.NewSessionId()
	h, err := m.Spawn(context.Background(), backend.SpawnSpec{SessionID: sid})
	assert.NoError(t, err)

	assert.NoError(t, m.Kill(context.Background(), h.SessionID))
	_, ok := m.Handle(sid)
	assert.False(t, ok)
}

func TestWriteUnknownSessionReturnsNotFound(t *testing.T) {
	fb := newFakeBackend()
	m := NewManager(fb, nil, nil)
	err := m.Write(context.Background(), types.NewSessionId(), []byte("x"))
	assert.Error(t, err)
}

func TestLivenessPollMarksDead(t *testing.T) {
	fb := newFakeBackend()
	deadCh := make(chan types.SessionId, 1)
	m := NewManager(fb, nil, func(id types.SessionId, code *int) { deadCh <- id })
	sid := types.NewSessionId()
	h, err := m.Spawn(context.Background(), backend.SpawnSpec{SessionID: sid})
	assert.NoError(t, err)

	fb.mu.Lock()
	fb.dead[h.BackendID] = true
	fb.mu.Unlock()

	select {
	case got := <-deadCh:
		assert.Equal(t, sid, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for liveness poll to mark dead")
	}
	assert.Equal(t, StatusDead, h.Status())
}
