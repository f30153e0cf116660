package input

import (
	"sync"

	"github.com/zyedidia/clipper"
)

// Clipboard is Thurbox's system-clipboard handle, lazily connected on
// first use so a headless/CI environment without a clipboard provider
// doesn't block startup. Grounded on the teacher's clipboard.Write usage
// in internal/terminal/input.go's Ctrl+C handling; Thurbox talks to
// zyedidia/clipper directly rather than through the teacher's own
// internal/clipboard wrapper package, since that package's provider
// autodetection (X11/Wayland/macOS/tmux buffer) is exactly clipper's job.
type Clipboard struct {
	mu   sync.Mutex
	clip clipper.Clipboard
	err  error
	once sync.Once
}

// Copy writes text to the system clipboard. Errors are non-fatal: a
// missing clipboard provider (e.g. a bare SSH session) degrades to a
// no-op rather than interrupting the session.
func (c *Clipboard) Copy(text string) error {
	c.connect()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return c.clip.WriteAll(clipper.RegClipboard, []byte(text))
}

// Paste reads the system clipboard, returning "" if unavailable.
func (c *Clipboard) Paste() (string, error) {
	c.connect()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	b, err := c.clip.ReadAll(clipper.RegClipboard)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Clipboard) connect() {
	c.once.Do(func() {
		clip, _, err := clipper.GetClipboard(clipper.Autodetect)
		c.mu.Lock()
		c.clip, c.err = clip, err
		c.mu.Unlock()
	})
}
