// Package input translates tcell keyboard, mouse, and paste events into the
// byte sequences a backend pane's child process expects on its pty, the
// reverse direction of internal/vt's parsing.
package input

import (
	"strconv"
	"unicode/utf8"

	"github.com/micro-editor/tcell/v2"
)

// KeyToBytes converts a key event to the xterm-compatible byte sequence to
// write to a pane's pty. Returns nil for events Thurbox doesn't forward
// (callers should treat nil as "not consumed").
//
// Grounded on the teacher's keyToBytes table for the unmodified cases;
// extended here with xterm's modified-CSI-sequence form
// (CSI 1 ; <modifier> <final>) for arrow/Home/End/function keys held with
// Shift/Alt/Ctrl, which the teacher's editor never needed since it consumes
// those chords itself instead of forwarding them to a child pty.
func KeyToBytes(ev *tcell.EventKey) []byte {
	mod := modifierCode(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyEscape:
		return []byte{0x1b}

	case tcell.KeyUp:
		return arrowSeq('A', mod)
	case tcell.KeyDown:
		return arrowSeq('B', mod)
	case tcell.KeyRight:
		return arrowSeq('C', mod)
	case tcell.KeyLeft:
		return arrowSeq('D', mod)
	case tcell.KeyHome:
		return arrowSeq('H', mod)
	case tcell.KeyEnd:
		return arrowSeq('F', mod)

	case tcell.KeyPgUp:
		return tildeSeq(5, mod)
	case tcell.KeyPgDn:
		return tildeSeq(6, mod)
	case tcell.KeyInsert:
		return tildeSeq(2, mod)
	case tcell.KeyDelete:
		return tildeSeq(3, mod)

	case tcell.KeyF1:
		return fkeySeq('P', mod)
	case tcell.KeyF2:
		return fkeySeq('Q', mod)
	case tcell.KeyF3:
		return fkeySeq('R', mod)
	case tcell.KeyF4:
		return fkeySeq('S', mod)
	case tcell.KeyF5:
		return tildeSeq(15, mod)
	case tcell.KeyF6:
		return tildeSeq(17, mod)
	case tcell.KeyF7:
		return tildeSeq(18, mod)
	case tcell.KeyF8:
		return tildeSeq(19, mod)
	case tcell.KeyF9:
		return tildeSeq(20, mod)
	case tcell.KeyF10:
		return tildeSeq(21, mod)
	case tcell.KeyF11:
		return tildeSeq(23, mod)
	case tcell.KeyF12:
		return tildeSeq(24, mod)

	case tcell.KeyCtrlA:
		return []byte{0x01}
	case tcell.KeyCtrlB:
		return []byte{0x02}
	case tcell.KeyCtrlC:
		return []byte{0x03}
	case tcell.KeyCtrlD:
		return []byte{0x04}
	case tcell.KeyCtrlE:
		return []byte{0x05}
	case tcell.KeyCtrlF:
		return []byte{0x06}
	case tcell.KeyCtrlG:
		return []byte{0x07}
	case tcell.KeyCtrlJ:
		return []byte{'\n'}
	case tcell.KeyCtrlK:
		return []byte{0x0b}
	case tcell.KeyCtrlL:
		return []byte{0x0c}
	case tcell.KeyCtrlN:
		return []byte{0x0e}
	case tcell.KeyCtrlO:
		return []byte{0x0f}
	case tcell.KeyCtrlP:
		return []byte{0x10}
	case tcell.KeyCtrlQ:
		return []byte{0x11}
	case tcell.KeyCtrlR:
		return []byte{0x12}
	case tcell.KeyCtrlS:
		return []byte{0x13}
	case tcell.KeyCtrlT:
		return []byte{0x14}
	case tcell.KeyCtrlU:
		return []byte{0x15}
	case tcell.KeyCtrlV:
		return []byte{0x16}
	case tcell.KeyCtrlW:
		return []byte{0x17}
	case tcell.KeyCtrlX:
		return []byte{0x18}
	case tcell.KeyCtrlY:
		return []byte{0x19}
	case tcell.KeyCtrlZ:
		return []byte{0x1a}
	case tcell.KeyCtrlBackslash:
		return []byte{0x1c}
	case tcell.KeyCtrlRightSq:
		return []byte{0x1d}
	case tcell.KeyCtrlCarat:
		return []byte{0x1e}
	case tcell.KeyCtrlUnderscore:
		return []byte{0x1f}

	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			if r >= 'a' && r <= 'z' {
				return []byte{byte(r - 'a' + 1)}
			}
			if r >= 'A' && r <= 'Z' {
				return []byte{byte(r - 'A' + 1)}
			}
		}
		if r < 128 {
			return []byte{byte(r)}
		}
		buf := make([]byte, 4)
		n := utf8.EncodeRune(buf, r)
		return buf[:n]
	}

	return nil
}

// modifierCode maps tcell modifiers to xterm's CSI modifier parameter:
// 2=Shift 3=Alt 4=Shift+Alt 5=Ctrl 6=Shift+Ctrl 7=Alt+Ctrl 8=Shift+Alt+Ctrl,
// 0 meaning "no modifier, use the unmodified form".
func modifierCode(m tcell.ModMask) int {
	code := 1
	if m&tcell.ModShift != 0 {
		code += 1
	}
	if m&tcell.ModAlt != 0 {
		code += 2
	}
	if m&tcell.ModCtrl != 0 {
		code += 4
	}
	if code == 1 {
		return 0
	}
	return code
}

func arrowSeq(final byte, mod int) []byte {
	if mod == 0 {
		return []byte{0x1b, '[', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(mod) + string(final))
}

func tildeSeq(n, mod int) []byte {
	if mod == 0 {
		return []byte("\x1b[" + strconv.Itoa(n) + "~")
	}
	return []byte("\x1b[" + strconv.Itoa(n) + ";" + strconv.Itoa(mod) + "~")
}

func fkeySeq(final byte, mod int) []byte {
	if mod == 0 {
		return []byte{0x1b, 'O', final}
	}
	return []byte("\x1b[1;" + strconv.Itoa(mod) + string(final))
}
