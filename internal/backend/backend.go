// Package backend abstracts the external terminal multiplexer Thurbox
// hosts every child session inside: a persistence layer independent of
// Thurbox's own process lifetime. internal/runtime drives a Backend;
// internal/app never talks to one directly.
package backend

import (
	"context"
	"time"

	"github.com/thurbeen/thurbox/internal/types"
)

// SpawnSpec describes a child process to host in a fresh multiplexer pane.
type SpawnSpec struct {
	SessionID types.SessionId
	Command   string
	Args      []string
	WorkDir   string
	Env       map[string]string
	Cols      int
	Rows      int
	// A resumed conversation's id is already part of Args (internal/app's
	// buildSpawnSpec adds it); the backend itself is agnostic to what the
	// command line means.
}

// PaneInfo is one pane the multiplexer reports back on Discover, used at
// startup to reattach to panes that outlived a prior Thurbox process.
type PaneInfo struct {
	BackendID types.BackendId
	Cols      int
	Rows      int
	Dead      bool
}

// Backend is the seam between internal/runtime and a concrete multiplexer.
// The only implementation today is LocalMux (tmux control mode); the
// interface exists so a remote backend could be added later without
// touching internal/runtime or internal/app (an explicit Non-goal today,
// but the seam costs nothing to keep).
type Backend interface {
	// CheckAvailable verifies the multiplexer binary exists and meets
	// Thurbox's minimum version requirement.
	CheckAvailable(ctx context.Context) error

	// EnsureReady idempotently starts (or reuses) the multiplexer's
	// control connection. Safe to call repeatedly.
	EnsureReady(ctx context.Context) error

	// Spawn creates a new pane running spec's command and returns its
	// backend-assigned id.
	Spawn(ctx context.Context, spec SpawnSpec) (types.BackendId, error)

	// Adopt reattaches to an existing pane (e.g. after a Thurbox
	// restart), snapshotting its current content so the VT model starts
	// caught up. It does not resize the pane.
	Adopt(ctx context.Context, id types.BackendId) ([]byte, error)

	// Discover lists every pane the multiplexer currently hosts.
	Discover(ctx context.Context) ([]PaneInfo, error)

	// Resize changes a pane's dimensions.
	Resize(ctx context.Context, id types.BackendId, cols, rows int) error

	// IsDead reports whether the pane's child process has exited.
	IsDead(ctx context.Context, id types.BackendId) (bool, error)

	// Detach stops Thurbox from reading a pane's output without killing
	// it — the pane and its child keep running in the multiplexer.
	Detach(ctx context.Context, id types.BackendId) error

	// Kill terminates a pane and its child process.
	Kill(ctx context.Context, id types.BackendId) error

	// Write sends input bytes to a pane's child.
	Write(ctx context.Context, id types.BackendId, data []byte) error

	// Output returns a channel of output chunks for a pane, opened on
	// first subscription. The channel closes when the pane is killed or
	// Detach is called.
	Output(id types.BackendId) <-chan []byte
}

// LivenessPollInterval is how often internal/runtime polls IsDead for a
// session it isn't currently receiving output from.
const LivenessPollInterval = time.Second
