// Package sync keeps multiple Thurbox instances sharing one
// internal/store database in view of each other's writes: a directory
// watcher debounces the WAL file's churn the way the teacher's
// internal/filemanager.FileWatcher debounces a source tree's churn, but
// drives a reconciliation poll against the store instead of a redraw.
package sync

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/store"
	"github.com/thurbeen/thurbox/internal/types"
)

// DebounceInterval coalesces a burst of WAL writes (one sqlite commit can
// touch the main file, -wal, and -shm) into a single reconciliation poll,
// the same role the teacher's 100ms redraw debounce plays for file events.
const DebounceInterval = 250 * time.Millisecond

// SelfWriteSuppressWindow is how long after this instance's own write the
// watcher ignores the fsnotify events that write causes, so an instance
// never reconciles against its own change as if it arrived from a peer.
const SelfWriteSuppressWindow = 200 * time.Millisecond

// ChangeSet is what a reconciliation poll hands to internal/app: the
// project/session snapshot as it now reads from the store, for the state
// machine to diff against its current model and emit redraws only where
// something actually changed.
type ChangeSet struct {
	Projects []types.Project
	Sessions []types.Session
}

// Poller watches a store's data directory and reconciles once at Start and
// after each debounced change event, reaping expired tombstones and
// reporting snapshots to onChange. It runs no periodic timer.
type Poller struct {
	st       *store.Store
	dataDir  string
	onChange func(ChangeSet)
	onError  func(error)

	mu             sync.Mutex
	lastSelfWrite  time.Time
	watcher        *fsnotify.Watcher
	stop           chan struct{}
	stopped        bool
	liveSessionIDs func() map[types.SessionId]bool
}

// NewPoller builds a Poller over st. liveSessionIDs is consulted before
// reaping a tombstoned session, so a session with a still-live backend
// pane is never hard-deleted regardless of tombstone age (§4.6).
func NewPoller(st *store.Store, dataDir string, liveSessionIDs func() map[types.SessionId]bool, onChange func(ChangeSet), onError func(error)) *Poller {
	return &Poller{
		st:             st,
		dataDir:        dataDir,
		onChange:       onChange,
		onError:        onError,
		liveSessionIDs: liveSessionIDs,
		stop:           make(chan struct{}),
	}
}

// Start begins watching the database directory for writes from other
// instances and runs the first reconciliation immediately.
func (p *Poller) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(p.dataDir); err != nil {
		w.Close()
		return err
	}
	p.watcher = w

	go p.eventLoop()
	p.reconcile()
	return nil
}

// Stop stops the watcher and its event loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stop)
	if p.watcher != nil {
		p.watcher.Close()
	}
}

// NotifySelfWrite records that this instance just wrote to the store, so
// the next SelfWriteSuppressWindow's worth of fsnotify events on the
// database files are not mistaken for a peer's change.
func (p *Poller) NotifySelfWrite() {
	p.mu.Lock()
	p.lastSelfWrite = time.Now()
	p.mu.Unlock()
}

func (p *Poller) withinSelfWriteWindow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastSelfWrite) < SelfWriteSuppressWindow
}

func (p *Poller) eventLoop() {
	var timer *time.Timer
	var timerMu sync.Mutex

	resetTimer := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(DebounceInterval, p.reconcile)
	}

	for {
		select {
		case <-p.stop:
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !isDatabaseFile(event.Name) {
				continue
			}
			if p.withinSelfWriteWindow() {
				continue
			}
			resetTimer()

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			if p.onError != nil {
				p.onError(err)
			}
			config.Logger.Printf("sync watcher error: %v", err)
		}
	}
}

func isDatabaseFile(name string) bool {
	base := filepath.Base(name)
	prefix := store.DBFileName
	return len(base) >= len(prefix) && base[:len(prefix)] == prefix
}

func (p *Poller) reconcile() {
	projects, err := p.st.ListProjects(true)
	if err != nil {
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	sessions, err := p.st.ListSessions("", true)
	if err != nil {
		if p.onError != nil {
			p.onError(err)
		}
		return
	}

	var live map[types.SessionId]bool
	if p.liveSessionIDs != nil {
		live = p.liveSessionIDs()
	}
	if _, err := p.st.ReapTombstones(live); err != nil {
		config.Logger.Printf("tombstone reap failed: %v", err)
	}

	if p.onChange != nil {
		p.onChange(ChangeSet{Projects: projects, Sessions: sessions})
	}
}
