// Package tui provides a Bubble Tea terminal UI for a turf session.
package tui

import "strings"

// History keeps recent commands for Up/Down recall. Recall is filtered by
// whatever the player had typed when they started browsing, so "hi" then
// Up walks back through only the hit commands.
type History struct {
	entries []string
	max     int
	prefix  string
	cursor  int // -1 = not browsing
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a command. Re-running a command moves it to the end rather
// than storing it twice.
func (h *History) Push(cmd string) {
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.Reset()
}

// Prev returns the next older command starting with draft. The draft is
// only read when browsing starts.
func (h *History) Prev(draft string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = draft
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor < len(h.entries) {
		return h.entries[h.cursor], true
	}
	h.Reset()
	return "", false
}

// Next returns the next newer matching command. When there is none it
// stops browsing and returns the original draft with ok false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	draft := h.prefix
	h.Reset()
	return draft, false
}

// Reset stops browsing.
func (h *History) Reset() {
	h.cursor = -1
	h.prefix = ""
}

// Len returns the number of stored commands.
func (h *History) Len() int { return len(h.entries) }
