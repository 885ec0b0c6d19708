package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nathoo/turfwar/engine"
)

// standingBar draws a ten-segment gauge for a 0-100 standing.
func standingBar(v int) string {
	filled := (v + 5) / 10
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// factionCell renders one crew's slot in the status bar. A pulsing crew
// is highlighted so the player notices the change.
func factionCell(i int, v engine.FactionView, compact bool) string {
	label := string(mapGlyph[i])
	body := fmt.Sprintf("%s %3d", label, v.Standing)
	if !compact {
		body = fmt.Sprintf("%s %s %3d", label, standingBar(v.Standing), v.Standing)
	}
	if v.Won {
		body += "★"
	}
	if v.Pulsing {
		return stylePulse.Render(body)
	}
	return styleStatusBar.Foreground(factionColor[i]).Render(body)
}

// renderStatusBar produces a full-width status line: each crew's standing,
// then the clock, the player's money and the hostility marker.
func (m Model) renderStatusBar() string {
	snap := m.session.Engine.Snapshot()

	coins := m.session.World.Purse.ItemCount(m.session.Defs.Tuning.CoinItem)
	right := fmt.Sprintf("%s %s | %s ", humanize.Comma(int64(coins)), m.session.Defs.Tuning.CoinItem, clock(snap.Clock))
	if snap.Hostile {
		right = "HATED | " + right
	}

	left := m.factionCells(snap, false)
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		left = m.factionCells(snap, true)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) factionCells(snap engine.Snapshot, compact bool) string {
	cells := make([]string, 0, len(snap.Factions))
	for i, v := range snap.Factions {
		cells = append(cells, factionCell(i, v, compact))
	}
	return " " + strings.Join(cells, styleStatusBar.Render(" | "))
}

// clock renders simulated seconds as m:ss, or h:mm:ss past the hour.
func clock(secs float64) string {
	t := int(secs)
	h, mm, s := t/3600, (t/60)%60, t%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, s)
	}
	return fmt.Sprintf("%d:%02d", mm, s)
}
