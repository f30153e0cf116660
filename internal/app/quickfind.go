package app

import (
	"github.com/sahilm/fuzzy"

	"github.com/thurbeen/thurbox/internal/types"
)

// QuickFindEntry is one candidate in the quick-switcher: either a project
// or a session within one, labeled for display and fuzzy matching.
type QuickFindEntry struct {
	ProjectIdx int
	SessionIdx int // -1 for a project-only entry
	Label      string
}

// QuickFindState holds the quick-switcher's live query and the entries it
// is searching over, built fresh each time the picker opens (§4.8/C.2's
// discoverable-path sibling of the global commands).
type QuickFindState struct {
	Query   string
	Entries []QuickFindEntry
}

// buildQuickFindEntries flattens the model's projects and their sessions
// into one labeled list, the source fuzzy.Find searches over, grounded on
// internal/filemanager/index.go's Search (build a []string source, run
// fuzzy.Find, map indexes back to the richer records).
func buildQuickFindEntries(m Model) []QuickFindEntry {
	var entries []QuickFindEntry
	for pi, p := range m.Projects {
		if p.DeletedAt != nil {
			continue
		}
		entries = append(entries, QuickFindEntry{ProjectIdx: pi, SessionIdx: -1, Label: p.Name})
		for si, s := range m.sessionsForProject(p.ID) {
			entries = append(entries, QuickFindEntry{ProjectIdx: pi, SessionIdx: si, Label: p.Name + " / " + s.Name})
		}
	}
	return entries
}

// quickFindMatches runs fuzzy.Find over a QuickFindState's entries,
// returning them ranked best-match-first.
func quickFindMatches(qf *QuickFindState) []QuickFindEntry {
	if qf.Query == "" {
		return qf.Entries
	}
	labels := make([]string, len(qf.Entries))
	for i, e := range qf.Entries {
		labels[i] = e.Label
	}
	matches := fuzzy.Find(qf.Query, labels)
	out := make([]QuickFindEntry, 0, len(matches))
	for _, match := range matches {
		out = append(out, qf.Entries[match.Index])
	}
	return out
}

// applyQuickFindSelection moves the model's focus/selection onto entry.
func applyQuickFindSelection(m Model, entry QuickFindEntry) Model {
	m.Selection.ProjectIdx = entry.ProjectIdx
	if entry.SessionIdx >= 0 {
		proj := m.Projects[entry.ProjectIdx]
		m.Selection = m.Selection.WithSessionIdx(proj.ID, entry.SessionIdx)
		m.Focus = types.FocusSessionList
	} else {
		m.Focus = types.FocusProjectList
	}
	m.QuickFind = nil
	return m
}
