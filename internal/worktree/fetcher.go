package worktree

import (
	"context"
	"sync"
	"time"

	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// FetchInterval is how often the Fetcher re-checks every tracked worktree's
// position against its remote (§4.7: "every ~30 s").
const FetchInterval = 30 * time.Second

// RebaseConflictPrompt is written to a session's input channel when a
// manual Sync stops on a rebase conflict, so the child coding assistant
// picks up the resolution task instead of the session sitting idle on a
// conflict nobody asked it to look at.
var RebaseConflictPrompt = []byte("The last git rebase stopped on a conflict in this worktree. Please resolve it and run `git rebase --continue`.\n")

// WriteFunc delivers bytes to a session's backend input channel, satisfied
// by internal/runtime.Manager.Write.
type WriteFunc func(sessionID types.SessionId, data []byte) error

// StatusFunc reports a worktree's freshly computed SyncStatus back to the
// caller (internal/app, to fold into its model and the store).
type StatusFunc func(sessionID types.SessionId, status types.SyncStatus)

type tracked struct {
	worktree  *types.Worktree
	remoteRef string
}

// Fetcher periodically fetches and computes ahead/behind for every
// tracked worktree on a blocking worker pool, never on the caller's
// goroutine — §4.7 requires the event loop never block on git I/O.
type Fetcher struct {
	write    WriteFunc
	onStatus StatusFunc

	mu       sync.Mutex
	sessions map[types.SessionId]tracked

	cancel context.CancelFunc
}

// NewFetcher builds a Fetcher. write may be nil in contexts (like tests)
// that never trigger a manual Sync.
func NewFetcher(write WriteFunc, onStatus StatusFunc) *Fetcher {
	return &Fetcher{
		write:    write,
		onStatus: onStatus,
		sessions: make(map[types.SessionId]tracked),
	}
}

// Track registers a worktree for periodic fetch/ahead-behind polling.
func (f *Fetcher) Track(sessionID types.SessionId, wt *types.Worktree, remoteRef string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID] = tracked{worktree: wt, remoteRef: remoteRef}
}

// Untrack stops polling a session's worktree, called on session close.
func (f *Fetcher) Untrack(sessionID types.SessionId) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
}

// Run polls every FetchInterval until ctx is cancelled. Each tick fans the
// tracked worktrees out onto their own goroutines so one stuck `git fetch`
// (e.g. against an unreachable remote) never delays another worktree's
// status from updating.
func (f *Fetcher) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	ticker := time.NewTicker(FetchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

// Stop cancels a running Fetcher.Run loop.
func (f *Fetcher) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Fetcher) tick(ctx context.Context) {
	f.mu.Lock()
	snapshot := make(map[types.SessionId]tracked, len(f.sessions))
	for id, t := range f.sessions {
		snapshot[id] = t
	}
	f.mu.Unlock()

	for sessionID, t := range snapshot {
		go f.pollOne(ctx, sessionID, t)
	}
}

func (f *Fetcher) pollOne(ctx context.Context, sessionID types.SessionId, t tracked) {
	status := types.SyncStatus{State: types.SyncStateSyncing, CheckedAt: now()}
	if f.onStatus != nil {
		f.onStatus(sessionID, status)
	}

	if err := Fetch(ctx, t.worktree.Path); err != nil {
		f.reportError(sessionID, err)
		return
	}

	ahead, behind, err := AheadBehind(ctx, t.worktree.Path)
	if err != nil {
		f.reportError(sessionID, err)
		return
	}

	final := types.SyncStatus{Ahead: ahead, Behind: behind, CheckedAt: now()}
	switch {
	case ahead > 0 && behind > 0:
		final.State = types.SyncStateDiverged
	case behind > 0:
		final.State = types.SyncStateBehind
	case ahead > 0:
		final.State = types.SyncStateAhead
	default:
		final.State = types.SyncStateUpToDate
	}

	if f.onStatus != nil {
		f.onStatus(sessionID, final)
	}
}

func (f *Fetcher) reportError(sessionID types.SessionId, err error) {
	config.Logger.Printf("worktree fetch for session %s failed: %v", sessionID, err)
	if f.onStatus != nil {
		f.onStatus(sessionID, types.SyncStatus{State: types.SyncStateError, Detail: err.Error(), CheckedAt: now()})
	}
}

// Sync performs a manual fetch-then-rebase against remoteRef, the §4.7
// action bound to Ctrl+S. On a rebase conflict it writes
// RebaseConflictPrompt into the session's input channel instead of just
// surfacing the error, so the active child process is told to fix it.
func (f *Fetcher) Sync(ctx context.Context, sessionID types.SessionId, wt *types.Worktree, remoteRef string) error {
	if err := Fetch(ctx, wt.Path); err != nil {
		return err
	}

	err := Rebase(ctx, wt.Path, remoteRef)
	if err == nil {
		return nil
	}

	if thurErr, ok := err.(*thurerr.Error); ok && thurErr.Kind == thurerr.KindRebaseConflict {
		if f.write != nil {
			if writeErr := f.write(sessionID, RebaseConflictPrompt); writeErr != nil {
				config.Logger.Printf("failed to inject rebase-conflict prompt for session %s: %v", sessionID, writeErr)
			}
		}
	}
	return err
}

// now is a seam for tests; production callers get the real wall clock.
var now = time.Now
