package backend

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/thurbeen/thurbox/internal/thurerr"
	"github.com/thurbeen/thurbox/internal/types"
)

// LocalMux is the Backend implementation driving a tmux server's control
// mode over a single persistent connection. Every Thurbox session becomes
// one tmux window in a dedicated Thurbox session ("thurbox"), identified
// by tmux's own pane id (e.g. "%3") as its BackendId — the pane outlives
// Thurbox's own process, which is the whole point.
type LocalMux struct {
	sessionName string

	mu   sync.Mutex
	conn *controlConn
}

// NewLocalMux creates a LocalMux bound to the given tmux session name
// (the multiplexer-level session Thurbox's windows live in, not to be
// confused with types.Session).
func NewLocalMux(sessionName string) *LocalMux {
	if sessionName == "" {
		sessionName = "thurbox"
	}
	return &LocalMux{sessionName: sessionName}
}

// CheckAvailable runs `tmux -V` and requires at least tmux 3.2, the first
// release with reliable control-mode pane-id stability across resizes.
func (m *LocalMux) CheckAvailable(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "tmux", "-V").CombinedOutput()
	if err != nil {
		return thurerr.BackendUnavailable("tmux not found on PATH", err)
	}
	ver, err := parseTmuxVersion(string(out))
	if err != nil {
		return thurerr.BackendUnavailable("could not parse tmux -V output", err)
	}
	if !MinTmuxVersion(ver) {
		return thurerr.BackendUnavailable(fmt.Sprintf("tmux %s is older than the minimum supported 3.2", ver), nil)
	}
	return nil
}

// EnsureReady starts the control connection if one isn't already running.
func (m *LocalMux) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		select {
		case <-m.conn.closed:
			// Prior connection died; fall through and reconnect.
		default:
			return nil
		}
	}
	conn, err := startControlConn(m.sessionName)
	if err != nil {
		return err
	}
	m.conn = conn
	return nil
}

func (m *LocalMux) getConn() (*controlConn, error) {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return nil, thurerr.BackendUnavailable("control connection not started", nil)
	}
	return conn, nil
}

// Spawn creates a new window in Thurbox's tmux session for spec's command
// and returns the id of the pane tmux created for it.
func (m *LocalMux) Spawn(ctx context.Context, spec SpawnSpec) (types.BackendId, error) {
	conn, err := m.getConn()
	if err != nil {
		return "", err
	}

	shellCmd, err := buildShellCommand(spec)
	if err != nil {
		return "", thurerr.SpawnFailed("building command line", err)
	}

	cmd := fmt.Sprintf(
		`new-window -P -F "#{pane_id}" -t %s -n %s -c %s -- %s`,
		shellquote.Join(m.sessionName),
		shellquote.Join(string(spec.SessionID)),
		shellquote.Join(spec.WorkDir),
		shellCmd,
	)
	for k, v := range spec.Env {
		cmd = fmt.Sprintf(`set-environment -t %s %s %s ; %s`, shellquote.Join(m.sessionName), shellquote.Join(k), shellquote.Join(v), cmd)
	}

	lines, err := conn.run(cmd)
	if err != nil {
		return "", thurerr.SpawnFailed("tmux new-window failed", err)
	}
	if len(lines) == 0 {
		return "", thurerr.SpawnFailed("tmux new-window returned no pane id", nil)
	}
	paneID := strings.TrimSpace(lines[len(lines)-1])

	if spec.Cols > 0 && spec.Rows > 0 {
		_ = m.resizeLocked(conn, paneID, spec.Cols, spec.Rows)
	}

	return types.BackendId(paneID), nil
}

// buildShellCommand quotes spec's command and args into a single string
// safe to splice into a tmux command line, using the teacher's
// go-shellquote replace dependency.
func buildShellCommand(spec SpawnSpec) (string, error) {
	if spec.Command == "" {
		return "", fmt.Errorf("empty command")
	}
	parts := append([]string{spec.Command}, spec.Args...)
	return shellquote.Join(parts...), nil
}

// Adopt reattaches to an existing pane, capturing its current content
// (including any alternate-screen contents) so the VT model starts
// caught up. It does not resize the pane.
func (m *LocalMux) Adopt(ctx context.Context, id types.BackendId) ([]byte, error) {
	conn, err := m.getConn()
	if err != nil {
		return nil, err
	}
	lines, err := conn.run(fmt.Sprintf(`capture-pane -p -t %s -e -J`, shellquote.Join(string(id))))
	if err != nil {
		return nil, thurerr.BackendProtocol("capture-pane on adopt", err)
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// Discover lists every pane tmux currently hosts across all sessions.
func (m *LocalMux) Discover(ctx context.Context) ([]PaneInfo, error) {
	conn, err := m.getConn()
	if err != nil {
		return nil, err
	}
	lines, err := conn.run(`list-panes -a -F "#{pane_id} #{pane_width} #{pane_height} #{pane_dead}"`)
	if err != nil {
		return nil, thurerr.BackendProtocol("list-panes failed", err)
	}

	panes := make([]PaneInfo, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}
		cols, _ := strconv.Atoi(fields[1])
		rows, _ := strconv.Atoi(fields[2])
		panes = append(panes, PaneInfo{
			BackendID: types.BackendId(fields[0]),
			Cols:      cols,
			Rows:      rows,
			Dead:      fields[3] == "1",
		})
	}
	return panes, nil
}

// Resize changes a pane's window to the given dimensions.
func (m *LocalMux) Resize(ctx context.Context, id types.BackendId, cols, rows int) error {
	conn, err := m.getConn()
	if err != nil {
		return err
	}
	return m.resizeLocked(conn, string(id), cols, rows)
}

func (m *LocalMux) resizeLocked(conn *controlConn, paneID string, cols, rows int) error {
	_, err := conn.run(fmt.Sprintf(`resize-window -t %s -x %d -y %d`, shellquote.Join(paneID), cols, rows))
	if err != nil {
		return thurerr.BackendProtocol("resize-window failed", err)
	}
	return nil
}

// IsDead reports whether the pane's process has exited.
func (m *LocalMux) IsDead(ctx context.Context, id types.BackendId) (bool, error) {
	conn, err := m.getConn()
	if err != nil {
		return true, err
	}
	lines, err := conn.run(fmt.Sprintf(`display-message -p -t %s "#{pane_dead}"`, shellquote.Join(string(id))))
	if err != nil {
		// A target-not-found error means the pane is gone, which is
		// itself a form of "dead" from Thurbox's point of view.
		return true, nil
	}
	return len(lines) > 0 && strings.TrimSpace(lines[0]) == "1", nil
}

// Detach stops reading a pane's output without killing it.
func (m *LocalMux) Detach(ctx context.Context, id types.BackendId) error {
	conn, err := m.getConn()
	if err != nil {
		return err
	}
	conn.unsubscribe(string(id))
	return nil
}

// Kill terminates a pane and its child process.
func (m *LocalMux) Kill(ctx context.Context, id types.BackendId) error {
	conn, err := m.getConn()
	if err != nil {
		return err
	}
	conn.unsubscribe(string(id))
	_, err = conn.run(fmt.Sprintf(`kill-pane -t %s`, shellquote.Join(string(id))))
	if err != nil {
		return thurerr.BackendProtocol("kill-pane failed", err)
	}
	return nil
}

// Write sends input bytes to a pane's child via send-keys in hex-literal
// mode, which round-trips arbitrary bytes (including control characters)
// unlike send-keys -l, which interprets a handful of characters specially.
func (m *LocalMux) Write(ctx context.Context, id types.BackendId, data []byte) error {
	conn, err := m.getConn()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	hexBytes := make([]string, len(data))
	for i, b := range data {
		hexBytes[i] = fmt.Sprintf("%02x", b)
	}
	cmd := fmt.Sprintf(`send-keys -H -t %s %s`, shellquote.Join(string(id)), strings.Join(hexBytes, " "))
	if _, err := conn.run(cmd); err != nil {
		return thurerr.BackendProtocol("send-keys failed", err)
	}
	return nil
}

// Output returns the demuxed %output channel for a pane.
func (m *LocalMux) Output(id types.BackendId) <-chan []byte {
	conn, err := m.getConn()
	if err != nil {
		ch := make(chan []byte)
		close(ch)
		return ch
	}
	return conn.subscribe(string(id))
}
