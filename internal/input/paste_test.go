package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasteBytesUnwrappedWithoutBracketedMode(t *testing.T) {
	assert.Equal(t, []byte("hi"), PasteBytes("hi", false))
}

func TestPasteBytesWrappedWithBracketedMode(t *testing.T) {
	assert.Equal(t, []byte("\x1b[200~hi\x1b[201~"), PasteBytes("hi", true))
}
