package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/turfwar/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleStanding = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleTurf = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleMission = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleThreshold = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Italic(true)

	styleEndgame = lipgloss.NewStyle().
			Foreground(lipgloss.Color("201")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePulse = lipgloss.NewStyle().
			Background(lipgloss.Color("160")).
			Foreground(lipgloss.Color("231")).
			Bold(true)
)

// factionColor is each crew's colour on the map and in the status bar.
var factionColor = [types.NumFactions]lipgloss.Color{
	lipgloss.Color("33"),  // Marchetti
	lipgloss.Color("208"), // Street Lads
	lipgloss.Color("70"),  // Council
}

// mapGlyph is the map character for each crew, in types.Factions order.
var mapGlyph = [types.NumFactions]rune{'M', 'L', 'C'}

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindStanding
	kindTurf
	kindMission
	kindThreshold
	kindEndgame
	kindMap
	kindSystem
	kindError
	kindTrace
)

// eventKind maps an engine event type to the style of its text.
func eventKind(typ string) lineKind {
	switch typ {
	case types.EventRespectChanged:
		return kindStanding
	case types.EventTurfTransferred:
		return kindTurf
	case types.EventMissionOffered, types.EventMissionExpired, types.EventMissionCompleted:
		return kindMission
	case types.EventThresholdCrossed:
		return kindThreshold
	case types.EventHostilityStarted, types.EventHostilityEnded, types.EventFactionVictory:
		return kindEndgame
	default:
		return kindNarrative
	}
}

// classifyResult assigns a kind to every output line of r. Lines carrying
// an event's text take that event's kind; the rest fall back to
// classifyLine.
func classifyResult(r types.Result) []lineKind {
	byText := make(map[string]lineKind, len(r.Events))
	for _, ev := range r.Events {
		if ev.Text != "" {
			byText[ev.Text] = eventKind(ev.Type)
		}
	}
	kinds := make([]lineKind, len(r.Output))
	for i, line := range r.Output {
		if k, ok := byText[line]; ok {
			kinds[i] = k
			continue
		}
		kinds[i] = classifyLine(line)
	}
	return kinds
}

// classifyLine determines what kind of output line this is from its text.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "  ") && strings.Contains(line, " -> "):
		return kindStanding
	case isMapRow(line):
		return kindMap
	case strings.HasPrefix(line, "I don't know how"),
		strings.HasPrefix(line, "no one called"),
		strings.HasPrefix(line, "no faction called"),
		strings.HasPrefix(line, "Usage:"),
		strings.HasSuffix(line, "Nobody cares."):
		return kindError
	default:
		return kindNarrative
	}
}

// isMapRow reports whether line is one row of the territory map.
func isMapRow(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		switch r {
		case '.', '@', 'M', 'L', 'C':
		default:
			return false
		}
	}
	return true
}

// styledMapRow colours each cell of a map row by its owner.
func styledMapRow(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch r {
		case '@':
			b.WriteString(stylePlayerInput.Bold(true).Render("@"))
		case '.':
			b.WriteString(styleSystem.Render("."))
		default:
			for i, g := range mapGlyph {
				if g == r {
					b.WriteString(lipgloss.NewStyle().Foreground(factionColor[i]).Render(string(r)))
				}
			}
		}
	}
	return b.String()
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
