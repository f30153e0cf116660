package main

import (
	"context"
	"time"

	"github.com/micro-editor/tcell/v2"

	"github.com/thurbeen/thurbox/internal/app"
	"github.com/thurbeen/thurbox/internal/backend"
	"github.com/thurbeen/thurbox/internal/config"
	"github.com/thurbeen/thurbox/internal/runtime"
	"github.com/thurbeen/thurbox/internal/store"
	"github.com/thurbeen/thurbox/internal/sync"
	"github.com/thurbeen/thurbox/internal/types"
	"github.com/thurbeen/thurbox/internal/worktree"
)

// tickInterval drives TickEvent, the status badges' elapsed-time redraw
// clock the teacher's own BufPane cursor-blink ticker is grounded on.
const tickInterval = time.Second

// runner owns every long-lived collaborator cmd/thurbox's main() hands it,
// and drives the one blocking event loop the whole program runs inside —
// the generalized counterpart of the teacher's DoEvent/PollEvent pair in
// cmd/thicc/micro.go, widened from one editor buffer to many backend
// sessions feeding a shared Model.
type runner struct {
	st      *store.Store
	mux     backend.Backend
	mgr     *runtime.Manager
	poller  *sync.Poller
	fetcher *worktree.Fetcher
	screen  tcell.Screen

	model app.Model
	msgs  chan app.Msg

	exitCode int
	quit     bool
}

// newRunner wires Manager/Poller/Fetcher callbacks to push onto msgs,
// adopts every session the store already had a live backend id for, and
// starts tracking every session that already owns a worktree.
func newRunner(st *store.Store, mux backend.Backend, model app.Model, screen tcell.Screen) *runner {
	r := &runner{
		st:     st,
		mux:    mux,
		screen: screen,
		model:  model,
		msgs:   make(chan app.Msg, 256),
	}

	r.mgr = runtime.NewManager(mux,
		func(sessionID types.SessionId) { r.post(app.BackendOutputEvent{SessionID: sessionID}) },
		func(sessionID types.SessionId, exitCode *int) { r.post(app.BackendDeadEvent{SessionID: sessionID, ExitCode: exitCode}) },
	)

	r.poller = sync.NewPoller(st, config.DataDir, r.liveSessionIDs,
		func(change sync.ChangeSet) { r.post(app.SyncEvent{Change: change}) },
		func(err error) { config.Logger.Printf("sync poller: %v", err) },
	)

	r.fetcher = worktree.NewFetcher(
		func(sessionID types.SessionId, data []byte) error {
			return r.mgr.Write(context.Background(), sessionID, data)
		},
		func(sessionID types.SessionId, status types.SyncStatus) {
			r.post(app.WorktreeStatusEvent{SessionID: sessionID, Status: status})
		},
	)

	cols, rows := r.screen.Size()
	ctx := context.Background()
	for id, sess := range r.model.Sessions {
		if sess.DeletedAt != nil || sess.BackendID == nil {
			continue
		}
		if _, err := r.mgr.Adopt(ctx, id, *sess.BackendID, cols, rows, sess.ClaudeSessionID); err != nil {
			config.Logger.Printf("adopt %s: %v", id, err)
			continue
		}
		if sess.Worktree != nil {
			r.fetcher.Track(id, sess.Worktree, "origin/"+sess.Worktree.Branch)
		}
	}

	return r
}

// liveSessionIDs reports which sessions currently have a runtime Handle,
// the set internal/sync's ReapTombstones call must never hard-delete out
// from under a still-running child (§4.4).
func (r *runner) liveSessionIDs() map[types.SessionId]bool {
	live := make(map[types.SessionId]bool)
	for id := range r.model.Sessions {
		if _, ok := r.mgr.Handle(id); ok {
			live[id] = true
		}
	}
	return live
}

// post enqueues a Msg without blocking the goroutine that produced it
// (runtime.Manager's read loop, the sync poller, the worktree fetcher) —
// dropping a message under a genuinely full queue is safer than stalling a
// backend's pty reader.
func (r *runner) post(msg app.Msg) {
	select {
	case r.msgs <- msg:
	default:
		config.Logger.Printf("msg queue full, dropping %T", msg)
	}
}

// run is the one blocking loop the whole program executes inside:
// PollEvent feeds tcell input in on its own goroutine (grounded on the
// teacher's main()'s PollEvent-then-channel-send pattern in cmd/thicc/
// micro.go), a ticker drives TickEvent, and Update's effects are carried
// out and redrawn after every Msg.
func (r *runner) run() {
	if err := r.poller.Start(); err != nil {
		config.Logger.Printf("sync poller start: %v", err)
	}

	fetchCtx, cancelFetch := context.WithCancel(context.Background())
	defer cancelFetch()
	go r.fetcher.Run(fetchCtx)

	go r.pumpScreenEvents()

	sig := listenForSignals()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	r.render()

	for !r.quit {
		select {
		case msg := <-r.msgs:
			r.step(msg)
		case t := <-ticker.C:
			r.step(app.TickEvent{At: t})
		case <-sig:
			r.step(app.KeyEvent{Event: tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)})
		}
	}
}

// step runs one Msg through Update, carries out every resulting Effect in
// order, and redraws — the single place Model transitions happen.
func (r *runner) step(msg app.Msg) {
	next, effects := app.Update(r.model, msg)
	r.model = next
	for _, eff := range effects {
		r.execute(eff)
		if r.quit {
			return
		}
	}
	r.render()
}

// pumpScreenEvents translates tcell's blocking PollEvent into Msgs, the
// same goroutine shape as the teacher's main()'s screen-polling goroutine,
// generalized to dispatch by concrete tcell event type rather than always
// wrapping into one editor-wide Event struct.
func (r *runner) pumpScreenEvents() {
	for {
		switch ev := r.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			r.post(app.KeyEvent{Event: ev})
		case *tcell.EventMouse:
			r.post(app.MouseEvent{Event: ev})
		case *tcell.EventResize:
			cols, rows := ev.Size()
			r.post(app.ResizeEvent{Cols: cols, Rows: rows})
		case *tcell.EventPaste:
			r.post(app.PasteEvent{Text: ev.Text()})
		}
	}
}
