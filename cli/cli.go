// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for a turf session.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/turfwar/engine"
	"github.com/nathoo/turfwar/session"
	"github.com/nathoo/turfwar/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *session.Session
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI on stdin/stdout.
func New(s *session.Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the loop: intro, then prompt, input, dispatch, output until
// /quit or end of input.
func (c *CLI) Run() {
	for _, line := range c.Session.Intro() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Script comments.
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Session.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Ta-ra.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/achievements":
		c.cmdAchievements()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpLines() {
		c.printLine(line)
	}
}

// HelpLines is the command reference shared by the console drivers.
func HelpLines() []string {
	return []string{
		"System:",
		"  /quit                   Exit",
		"  /help                   Show this help",
		"  /state                  Debug: dump engine state",
		"  /achievements           List unlocked achievements",
		"  /trace                  Toggle event trace output",
		"",
		"Things to do:",
		"  hit <npc|faction>       Lamp someone",
		"  smash [x z]             Damage a building (default: where you stand)",
		"  tag [at x z]            Graffiti a wall",
		"  buy a round             Drinks for the whole pub",
		"  get nicked [at x z]     Get arrested and say nothing",
		"  do a job for <faction>  Take a mission",
		"  hand in <faction>       Complete the mission",
		"  move <x> <z>            Walk somewhere",
		"  talk to <npc>           See what someone has to say",
		"  wait [n [minutes]] (z)  Let time pass",
		"  respect <faction> <n>   Debug: adjust standing",
		"",
		"Looking around:",
		"  status (l)   map   who   wallet (i)   jobs   rumours [npc]",
		"  again (g)               Repeat your last command",
	}
}

func (c *CLI) cmdState() {
	snap := c.Session.Engine.Snapshot()
	c.printSystem(fmt.Sprintf("Tick: %d  Clock: %.1fs  RNG: seed %d, %d draws",
		snap.Ticks, snap.Clock, c.Session.Engine.RNG.Seed(), snap.RNGPos))
	for _, v := range snap.Factions {
		c.printSystem(stateLine(v))
	}
	c.printSystem(fmt.Sprintf("Unclaimed: %d/%d  Allied: %s  Hostile: %t  Fence: %.1fx  Jobs done: %d",
		snap.Unclaimed, snap.Total, snap.Allied, snap.Hostile, snap.Fence, snap.Completed))
	if snap.Victor != types.NoFaction {
		c.printSystem(fmt.Sprintf("Victor: %s", snap.Victor))
	}
}

func stateLine(v engine.FactionView) string {
	line := fmt.Sprintf("%s: %d (%s) cells=%d (%.1f%%)", v.Faction, v.Standing, v.Band, v.Cells, v.Fraction*100)
	if v.Pulsing {
		line += " pulsing"
	}
	if v.Won {
		line += " WON"
	}
	if v.Mission != nil {
		line += fmt.Sprintf(" mission=%s %q %.0fs", v.Mission.ID, v.Mission.Kind, v.Mission.Remaining)
	}
	return line
}

func (c *CLI) cmdAchievements() {
	a := c.Session.Achievements()
	if len(a) == 0 {
		c.printSystem("No achievements yet.")
		return
	}
	for _, name := range a {
		c.printSystem(name)
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
