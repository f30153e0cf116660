package input

import (
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyToBytesEnter(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
	assert.Equal(t, []byte{'\r'}, KeyToBytes(ev))
}

func TestKeyToBytesPlainArrowUnmodified(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	assert.Equal(t, []byte{0x1b, '[', 'A'}, KeyToBytes(ev))
}

func TestKeyToBytesShiftArrowUsesModifiedCSI(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift)
	assert.Equal(t, []byte("\x1b[1;2A"), KeyToBytes(ev))
}

func TestKeyToBytesCtrlAltArrow(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl|tcell.ModAlt)
	assert.Equal(t, []byte("\x1b[1;7C"), KeyToBytes(ev))
}

func TestKeyToBytesCtrlLetterRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModCtrl)
	assert.Equal(t, []byte{0x01}, KeyToBytes(ev))
}

func TestKeyToBytesPlainRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, []byte{'x'}, KeyToBytes(ev))
}

func TestKeyToBytesMultiByteRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone)
	assert.Equal(t, []byte("é"), KeyToBytes(ev))
}

func TestKeyToBytesPageUpWithModifier(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModShift)
	assert.Equal(t, []byte("\x1b[5;2~"), KeyToBytes(ev))
}

func TestModifierCodeNoModifierIsZero(t *testing.T) {
	assert.Equal(t, 0, modifierCode(tcell.ModNone))
}

func TestModifierCodeCtrlShift(t *testing.T) {
	assert.Equal(t, 6, modifierCode(tcell.ModCtrl|tcell.ModShift))
}
