package input

// BracketedPasteStart/End wrap pasted text so a child that enabled
// bracketed-paste mode (CSI ?2004h) can distinguish pasted input from
// typed input (and so it won't try to auto-indent every pasted line).
const (
	bracketedPasteStart = "\x1b[200~"
	bracketedPasteEnd   = "\x1b[201~"
)

// PasteBytes returns the bytes to write for a paste event. When
// bracketedPaste is true (the child has requested it, tracked by
// internal/vt from the child's own escape sequences) the text is wrapped
// in the bracketed-paste markers; otherwise it is forwarded as-is, the way
// the teacher's Panel.HandleEvent forwards *tcell.EventPaste directly to
// the pty.
func PasteBytes(text string, bracketedPaste bool) []byte {
	if !bracketedPaste {
		return []byte(text)
	}
	b := make([]byte, 0, len(bracketedPasteStart)+len(text)+len(bracketedPasteEnd))
	b = append(b, bracketedPasteStart...)
	b = append(b, text...)
	b = append(b, bracketedPasteEnd...)
	return b
}
